package jobs_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitza/batchtrace-go/internal/adapters/jobs"
	"github.com/fitza/batchtrace-go/internal/adapters/persistence"
	appbatch "github.com/fitza/batchtrace-go/internal/application/batch"
	"github.com/fitza/batchtrace-go/internal/application/common"
	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

// stubJobSource hands out a fixed job list once and records outcomes
type stubJobSource struct {
	mu        sync.Mutex
	jobs      []jobs.Job
	completed []int64
	failed    map[int64]string
	retries   map[int64]int
}

func newStubJobSource(pending ...jobs.Job) *stubJobSource {
	return &stubJobSource{
		jobs:    pending,
		failed:  make(map[int64]string),
		retries: make(map[int64]int),
	}
}

func (s *stubJobSource) Poll(ctx context.Context, maxJobs int) ([]jobs.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := s.jobs
	s.jobs = nil
	return pending, nil
}

func (s *stubJobSource) Complete(ctx context.Context, jobKey int64, result interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed = append(s.completed, jobKey)
	return nil
}

func (s *stubJobSource) Fail(ctx context.Context, jobKey int64, retries int, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed[jobKey] = message
	s.retries[jobKey] = retries
	return nil
}

func (s *stubJobSource) snapshot() ([]int64, map[int64]string, map[int64]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	completed := append([]int64(nil), s.completed...)
	failed := make(map[int64]string, len(s.failed))
	retries := make(map[int64]int, len(s.retries))
	for k, v := range s.failed {
		failed[k] = v
	}
	for k, v := range s.retries {
		retries[k] = v
	}
	return completed, failed, retries
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *recordingLogger) Log(level, message string, metadata map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, level+" "+message)
}

func runWorker(t *testing.T, source jobs.JobSource, dispatcher *jobs.Dispatcher) {
	t.Helper()
	worker := jobs.NewWorker(source, dispatcher, &recordingLogger{}, jobs.WorkerOptions{
		PollInterval:  5 * time.Millisecond,
		JobsPerSecond: 1000,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := worker.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWorker_CompletesSuccessfulJobs(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	source := newStubJobSource(
		jobs.Job{Key: 1, Type: jobs.JobCreateBatch, Retries: 3,
			Payload: []byte(`{"batchId": "BATCH-W1", "productType": "PEPPERONI", "producedQuantity": 10}`)},
		jobs.Job{Key: 2, Type: jobs.JobCreateBatch, Retries: 3,
			Payload: []byte(`{"batchId": "BATCH-W2", "productType": "VEGETARIAN", "producedQuantity": 20}`)},
	)

	// Act
	runWorker(t, source, env.dispatcher)

	// Assert
	completed, failed, _ := source.snapshot()
	assert.ElementsMatch(t, []int64{1, 2}, completed)
	assert.Empty(t, failed)

	_, err := env.batchRepo.FindByID(context.Background(), "BATCH-W1")
	require.NoError(t, err)
	_, err = env.batchRepo.FindByID(context.Background(), "BATCH-W2")
	require.NoError(t, err)
}

func TestWorker_FailsTerminalErrorsWithoutRetries(t *testing.T) {
	// Arrange - merging into a missing batch can never succeed
	env := newTestEnv(t)
	source := newStubJobSource(
		jobs.Job{Key: 7, Type: jobs.JobFinalizeBatch, Retries: 3,
			Payload: []byte(`{"batchId": "BATCH-GHOST", "decision": "approve"}`)},
	)

	// Act
	runWorker(t, source, env.dispatcher)

	// Assert
	completed, failed, retries := source.snapshot()
	assert.Empty(t, completed)
	require.Contains(t, failed, int64(7))
	assert.Contains(t, failed[7], "NOT_FOUND")
	assert.Equal(t, 0, retries[7])
}

// slowHandler delays the wrapped handler, aborting early when its
// context is cancelled
type slowHandler struct {
	inner common.RequestHandler
	delay time.Duration
}

func (h *slowHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(h.delay):
	}
	return h.inner.Handle(ctx, request)
}

func TestWorker_DrainsInFlightJobOnShutdown(t *testing.T) {
	// Arrange - the handler outlasts the stop signal
	clock := shared.NewMockClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	batchRepo := persistence.NewMemoryBatchRepository(clock)
	m := common.NewMediator()
	require.NoError(t, common.RegisterHandler[*appbatch.CreateBatchCommand](m,
		&slowHandler{inner: appbatch.NewCreateBatchHandler(batchRepo, clock), delay: 80 * time.Millisecond}))

	source := newStubJobSource(
		jobs.Job{Key: 21, Type: jobs.JobCreateBatch, Retries: 3,
			Payload: []byte(`{"batchId": "BATCH-W4", "productType": "PEPPERONI", "producedQuantity": 10}`)},
	)
	worker := jobs.NewWorker(source, jobs.NewDispatcher(m), &recordingLogger{}, jobs.WorkerOptions{
		PollInterval:    5 * time.Millisecond,
		JobsPerSecond:   1000,
		ShutdownTimeout: time.Second,
	})

	// Act - stop arrives while the job is still running
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := worker.Run(ctx)

	// Assert - the job finished inside the grace period
	require.ErrorIs(t, err, context.DeadlineExceeded)
	completed, failed, _ := source.snapshot()
	assert.Equal(t, []int64{21}, completed)
	assert.Empty(t, failed)

	_, findErr := batchRepo.FindByID(context.Background(), "BATCH-W4")
	require.NoError(t, findErr)
}

func TestWorker_MixedOutcomes(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	source := newStubJobSource(
		jobs.Job{Key: 10, Type: jobs.JobCreateBatch, Retries: 3,
			Payload: []byte(`{"batchId": "BATCH-W3", "productType": "FOUR_CHEESES", "producedQuantity": 5}`)},
		jobs.Job{Key: 11, Type: "unknown.job", Retries: 3, Payload: []byte(`{}`)},
	)

	// Act
	runWorker(t, source, env.dispatcher)

	// Assert
	completed, failed, _ := source.snapshot()
	assert.Equal(t, []int64{10}, completed)
	require.Contains(t, failed, int64(11))
	assert.Contains(t, failed[11], "INVALID_INPUT")
}
