package intake

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/omega-datasets/curator/internal/config"
	"github.com/omega-datasets/curator/internal/config/structs"
	"github.com/omega-datasets/curator/internal/pipeline"
	"github.com/omega-datasets/curator/internal/pipeline/accumulator"
	"github.com/omega-datasets/curator/internal/pipeline/scoring"
	"github.com/omega-datasets/curator/internal/pipeline/spotcheck"
	"github.com/omega-datasets/curator/internal/repositories/embedding"
	"github.com/omega-datasets/curator/internal/repositories/novelty"
	"github.com/omega-datasets/curator/internal/repositories/sink"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	m.Run()
}

func unitVec(hot int) []float32 {
	v := make([]float32, 4)
	v[hot%4] = 1
	return v
}

// Entry embeddings depend only on the entry index so the trusted embedding
// for entry 0 is identical across submissions.
func makePipelineSubmission(id, submitter string) *pipeline.Submission {
	entries := make([]pipeline.CandidateEntry, pipeline.SubmissionSize)
	for i := range entries {
		entries[i] = pipeline.CandidateEntry{
			VideoID:          fmt.Sprintf("%s-vid-%d", id, i),
			ClipStart:        float64(i) * 10,
			ClipEnd:          float64(i)*10 + 8,
			EmbeddingVideo:   unitVec(i),
			EmbeddingAudio:   unitVec(i + 1),
			EmbeddingCaption: unitVec(i + 2),
		}
	}
	return &pipeline.Submission{
		SubmissionID: id,
		SubmitterID:  submitter,
		Topic:        "street food vendors",
		Entries:      entries,
	}
}

type testPipeline struct {
	handler *Handler
	store   *sink.MockStore
	buffer  *accumulator.Buffer
	index   *novelty.Memory
}

// newTestPipeline wires a full handler with an honest embedder: the trusted
// re-embedding of entry 0 always matches what submissions claim.
func newTestPipeline(t *testing.T, baseThreshold, rateLimit int) *testPipeline {
	t.Helper()

	mockManager := new(config.MockManager)
	mockManager.On("GetScoringConfig").Return(&structs.Scoring{
		WeightRelevance:     0.5,
		WeightNovelty:       0.3,
		WeightDetail:        0.2,
		NeighborRank:        1,
		SimilarityTolerance: 0.98,
	}, nil)

	mockEmbedder := new(embedding.MockClient)
	mockEmbedder.On("EmbedClip", mock.Anything, mock.Anything).Return(&embedding.ClipEmbeddings{
		Video:   unitVec(0),
		Audio:   unitVec(1),
		Caption: unitVec(2),
	}, nil)
	mockEmbedder.On("EmbedText", mock.Anything, mock.Anything).Return(unitVec(0), nil)

	index := novelty.NewMemory()
	store := new(sink.MockStore)
	dispatcher := NewDispatcher(store, time.Second, 2)
	dispatcher.Start()

	validator := spotcheck.New(mockEmbedder, mockManager, 1, func(n int) int { return 0 })
	engine := scoring.New(mockManager, index, mockEmbedder, scoring.CombineWeights{Video: 1, Audio: 1, Caption: 1})
	buffer := accumulator.NewBuffer(baseThreshold, baseThreshold*4, pipeline.SubmissionSize)
	tracker := accumulator.NewRateTracker(rateLimit, time.Hour, nil)

	return &testPipeline{
		handler: NewHandler(validator, engine, buffer, tracker, dispatcher),
		store:   store,
		buffer:  buffer,
		index:   index,
	}
}

func TestProcess_RejectedSubmissionContributesNothing(t *testing.T) {
	tp := newTestPipeline(t, 64, 100)
	sub := makePipelineSubmission("sub-1", "submitter-1")
	// Claimed video embedding disagrees with the trusted re-embedding.
	sub.Entries[0].EmbeddingVideo = unitVec(3)

	verdict, err := tp.handler.Process(context.Background(), sub)
	assert.NoError(t, err)
	assert.False(t, verdict.Accepted)
	assert.Equal(t, 0.0, verdict.Score)
	assert.NotEmpty(t, verdict.Reason)

	assert.Equal(t, 0, tp.buffer.Size())
	count, _ := tp.index.Count(context.Background())
	assert.Equal(t, int64(0), count)
	tp.store.AssertNotCalled(t, "Append")
}

func TestProcess_AcceptedSubmissionBuffersEntries(t *testing.T) {
	tp := newTestPipeline(t, 64, 100)

	verdict, err := tp.handler.Process(context.Background(), makePipelineSubmission("sub-1", "submitter-1"))
	assert.NoError(t, err)
	assert.True(t, verdict.Accepted)
	assert.Len(t, verdict.Entries, pipeline.SubmissionSize)

	var total float64
	for _, s := range verdict.Entries {
		total += s.Composite
	}
	assert.InDelta(t, total/float64(pipeline.SubmissionSize), verdict.Score, 1e-9)

	assert.Equal(t, pipeline.SubmissionSize, tp.buffer.Size())
	count, _ := tp.index.Count(context.Background())
	assert.Equal(t, int64(pipeline.SubmissionSize), count)
	tp.store.AssertNotCalled(t, "Append")
}

func TestProcess_ThresholdFlushReachesSink(t *testing.T) {
	tp := newTestPipeline(t, pipeline.SubmissionSize, 100)

	delivered := make(chan *sink.Batch, 1)
	tp.store.On("Append", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		delivered <- args.Get(1).(*sink.Batch)
	}).Return(nil)

	_, err := tp.handler.Process(context.Background(), makePipelineSubmission("sub-1", "submitter-1"))
	assert.NoError(t, err)

	select {
	case batch := <-delivered:
		assert.NotEmpty(t, batch.BatchID)
		assert.Len(t, batch.Entries, pipeline.SubmissionSize)
	case <-time.After(2 * time.Second):
		t.Fatal("flushed batch never reached the sink")
	}
	assert.Equal(t, 0, tp.buffer.Size())
}

func TestProcess_RateExcessRaisesThreshold(t *testing.T) {
	tp := newTestPipeline(t, 64, 1)

	_, err := tp.handler.Process(context.Background(), makePipelineSubmission("sub-1", "flooder"))
	assert.NoError(t, err)
	assert.Equal(t, 64, tp.buffer.Threshold())

	_, err = tp.handler.Process(context.Background(), makePipelineSubmission("sub-2", "flooder"))
	assert.NoError(t, err)
	assert.Equal(t, 64+pipeline.SubmissionSize, tp.buffer.Threshold())
}

// Rejected submissions must not count toward the rate window.
func TestProcess_RejectedSubmissionsDoNotRaiseThreshold(t *testing.T) {
	tp := newTestPipeline(t, 64, 1)

	for i := 0; i < 3; i++ {
		sub := makePipelineSubmission(fmt.Sprintf("sub-%d", i), "flooder")
		sub.Entries[0].EmbeddingVideo = unitVec(3)
		verdict, err := tp.handler.Process(context.Background(), sub)
		assert.NoError(t, err)
		assert.False(t, verdict.Accepted)
	}
	assert.Equal(t, 64, tp.buffer.Threshold())
}

func TestShutdown_ForceFlushesAndStopsIntake(t *testing.T) {
	tp := newTestPipeline(t, 64, 100)

	delivered := make(chan *sink.Batch, 1)
	tp.store.On("Append", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		delivered <- args.Get(1).(*sink.Batch)
	}).Return(nil)

	_, err := tp.handler.Process(context.Background(), makePipelineSubmission("sub-1", "submitter-1"))
	assert.NoError(t, err)
	assert.Equal(t, pipeline.SubmissionSize, tp.buffer.Size())

	tp.handler.Shutdown(2 * time.Second)

	select {
	case batch := <-delivered:
		assert.Len(t, batch.Entries, pipeline.SubmissionSize)
	default:
		t.Fatal("buffered entries were not force-flushed on shutdown")
	}

	_, err = tp.handler.Process(context.Background(), makePipelineSubmission("sub-2", "submitter-1"))
	assert.ErrorIs(t, err, ErrStopped)
}
