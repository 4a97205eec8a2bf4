package httpclient

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestBuilder_BuildContentTypeJson(t *testing.T) {
	req, err := NewHttpRequestBuilder().
		WithHost("embedding-service").
		WithPort(8080).
		WithPath("/api/v1/embed/text").
		WithMethod(http.MethodPost).
		WithHeader("x-request-id", "req-1").
		WithBody(map[string]string{"text": "street food vendors"}).
		WithContext(context.Background()).
		BuildContentTypeJson()

	assert.NoError(t, err)
	assert.Equal(t, "http://embedding-service:8080/api/v1/embed/text", req.URL.String())
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "req-1", req.Header.Get("x-request-id"))

	body, err := io.ReadAll(req.Body)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"text":"street food vendors"}`, string(body))
}

func TestRequestBuilder_Validation(t *testing.T) {
	base := func() *RequestBuilder {
		return NewHttpRequestBuilder().
			WithHost("embedding-service").
			WithPort(8080).
			WithPath("/api/v1/embed/text").
			WithMethod(http.MethodPost).
			WithContext(context.Background())
	}

	tests := []struct {
		name    string
		builder *RequestBuilder
		errMsg  string
	}{
		{"missing host", base().WithHost(""), "host is required"},
		{"missing port", base().WithPort(0), "invalid port"},
		{"missing path", base().WithPath(""), "path is required"},
		{"missing method", base().WithMethod(""), "method is required"},
		{"missing context", base().WithContext(nil), "context is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.BuildContentTypeJson()
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}
