package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/omega-datasets/curator/internal/pipeline/intake"
	"github.com/omega-datasets/curator/internal/pipeline/scoring"
	"github.com/omega-datasets/curator/internal/repositories/novelty"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	m.Run()
}

func newCountRouter(index novelty.Database) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := scoring.New(nil, index, nil, scoring.CombineWeights{Video: 1, Audio: 1, Caption: 1})
	intake.SetInstance(intake.NewHandler(nil, engine, nil, nil, nil))
	r := gin.New()
	r.GET(countUniquePath, countUnique)
	return r
}

func TestCountUnique(t *testing.T) {
	mockIndex := new(novelty.MockDatabase)
	mockIndex.On("Count", mock.Anything).Return(int64(42), nil)
	r := newCountRouter(mockIndex)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, countUniquePath, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"unique_entries":42}`, w.Body.String())
}

func TestCountUnique_IndexUnavailable(t *testing.T) {
	mockIndex := new(novelty.MockDatabase)
	mockIndex.On("Count", mock.Anything).Return(int64(0), assert.AnError)
	r := newCountRouter(mockIndex)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, countUniquePath, nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
