package jobs

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/fitza/batchtrace-go/internal/application/common"
)

// WorkerOptions tunes the poll loop
type WorkerOptions struct {
	PollInterval   time.Duration
	JobsPerSecond  int
	Burst          int
	MaxJobsPerPoll int

	// ShutdownTimeout caps how long in-flight jobs may keep running
	// after the stop signal before they are cancelled
	ShutdownTimeout time.Duration
}

// Worker polls the job source and dispatches activated jobs. One worker
// serves every job type; the dispatcher routes on the type name.
//
// The worker never retries locally. A retryable failure (version
// conflict, transient internal error) goes back to the source with its
// remaining retries decremented so the engine redelivers it; a terminal
// failure goes back with zero retries so the engine raises an incident
// instead of redelivering a job that cannot succeed.
type Worker struct {
	source     JobSource
	dispatcher *Dispatcher
	logger     common.JobLogger
	limiter    *rate.Limiter
	options    WorkerOptions
}

// NewWorker creates a worker over the job source
func NewWorker(source JobSource, dispatcher *Dispatcher, logger common.JobLogger, options WorkerOptions) *Worker {
	if options.PollInterval == 0 {
		options.PollInterval = time.Second
	}
	if options.JobsPerSecond == 0 {
		options.JobsPerSecond = 10
	}
	if options.Burst == 0 {
		options.Burst = options.JobsPerSecond
	}
	if options.MaxJobsPerPoll == 0 {
		options.MaxJobsPerPoll = 32
	}
	if options.ShutdownTimeout == 0 {
		options.ShutdownTimeout = 30 * time.Second
	}

	return &Worker{
		source:     source,
		dispatcher: dispatcher,
		logger:     logger,
		limiter:    rate.NewLimiter(rate.Limit(options.JobsPerSecond), options.Burst),
		options:    options,
	}
}

// Run polls until the context is cancelled. Jobs run on a context
// detached from the stop signal so the in-flight poll can finish its
// work; ShutdownTimeout caps that grace period.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.options.PollInterval)
	defer ticker.Stop()

	jobCtx, cancelJobs := context.WithCancel(common.WithLogger(context.Background(), w.logger))
	defer cancelJobs()
	go func() {
		select {
		case <-ctx.Done():
		case <-jobCtx.Done():
			return
		}
		timer := time.NewTimer(w.options.ShutdownTimeout)
		defer timer.Stop()
		select {
		case <-timer.C:
			cancelJobs()
		case <-jobCtx.Done():
		}
	}()

	for {
		if err := w.pollOnce(jobCtx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			w.logger.Log("ERROR", "poll failed", map[string]interface{}{"error": err.Error()})
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *Worker) pollOnce(ctx context.Context) error {
	activated, err := w.source.Poll(ctx, w.options.MaxJobsPerPoll)
	if err != nil {
		return err
	}

	for _, job := range activated {
		if err := w.limiter.Wait(ctx); err != nil {
			return err
		}
		w.processJob(ctx, job)
	}

	return nil
}

func (w *Worker) processJob(ctx context.Context, job Job) {
	result, err := w.dispatcher.Dispatch(ctx, job)
	if err == nil {
		if completeErr := w.source.Complete(ctx, job.Key, result); completeErr != nil {
			w.logger.Log("ERROR", "job completion failed",
				map[string]interface{}{"jobKey": job.Key, "error": completeErr.Error()})
		}
		return
	}

	var failure *JobFailure
	if !errors.As(err, &failure) {
		failure = &JobFailure{Kind: KindInternal, Message: err.Error()}
	}

	retries := 0
	if failure.Retryable() && job.Retries > 0 {
		retries = job.Retries - 1
	}

	w.logger.Log("WARN", "job failed",
		map[string]interface{}{
			"jobKey":  job.Key,
			"type":    job.Type,
			"kind":    string(failure.Kind),
			"retries": retries,
		})

	if failErr := w.source.Fail(ctx, job.Key, retries, failure.Error()); failErr != nil {
		w.logger.Log("ERROR", "job fail-back failed",
			map[string]interface{}{"jobKey": job.Key, "error": failErr.Error()})
	}
}
