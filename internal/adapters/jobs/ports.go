package jobs

import "context"

// Job is one unit of work handed over by the workflow engine. The
// payload is the raw JSON variables of the activated job.
type Job struct {
	Key     int64
	Type    string
	Payload []byte
	Retries int
}

// JobSource is the boundary to the workflow engine the worker polls.
// Complete acknowledges a job with its result variables; Fail hands it
// back with the remaining retries and a failure message.
type JobSource interface {
	Poll(ctx context.Context, maxJobs int) ([]Job, error)
	Complete(ctx context.Context, jobKey int64, result interface{}) error
	Fail(ctx context.Context, jobKey int64, retries int, message string) error
}
