package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fitza/batchtrace-go/internal/adapters/jobs"
)

// Job queue row states
const (
	JobStatusPending   = "pending"
	JobStatusActive    = "active"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// JobQueueGORM is a database-backed job source for runs without a
// workflow engine. Jobs are enqueued as rows and drained by the worker
// loop; a failed job with retries left goes back to pending.
type JobQueueGORM struct {
	db *gorm.DB
}

// NewJobQueue creates a GORM-based job queue
func NewJobQueue(db *gorm.DB) *JobQueueGORM {
	return &JobQueueGORM{db: db}
}

// Enqueue inserts a pending job and returns its key
func (q *JobQueueGORM) Enqueue(ctx context.Context, jobType string, payload []byte, retries int) (int64, error) {
	now := time.Now().UTC()
	model := &JobModel{
		Type:      jobType,
		Payload:   string(payload),
		Retries:   retries,
		Status:    JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := q.db.WithContext(ctx).Create(model).Error; err != nil {
		return 0, fmt.Errorf("failed to enqueue job: %w", err)
	}

	return model.Key, nil
}

// Poll activates up to maxJobs pending jobs in insertion order
func (q *JobQueueGORM) Poll(ctx context.Context, maxJobs int) ([]jobs.Job, error) {
	var models []JobModel

	err := q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("status = ?", JobStatusPending).
			Order("key asc").
			Limit(maxJobs).
			Find(&models).Error; err != nil {
			return err
		}

		for i := range models {
			result := tx.Model(&JobModel{}).
				Where("key = ? AND status = ?", models[i].Key, JobStatusPending).
				Updates(map[string]interface{}{
					"status":     JobStatusActive,
					"updated_at": time.Now().UTC(),
				})
			if result.Error != nil {
				return result.Error
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to poll job queue: %w", err)
	}

	activated := make([]jobs.Job, 0, len(models))
	for _, model := range models {
		activated = append(activated, jobs.Job{
			Key:     model.Key,
			Type:    model.Type,
			Payload: []byte(model.Payload),
			Retries: model.Retries,
		})
	}
	return activated, nil
}

// Complete marks a job done and stores its result variables
func (q *JobQueueGORM) Complete(ctx context.Context, jobKey int64, result interface{}) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to serialize job result: %w", err)
	}

	return q.setOutcome(ctx, jobKey, map[string]interface{}{
		"status": JobStatusCompleted,
		"result": string(resultJSON),
	})
}

// Fail hands a job back with the remaining retries. Zero retries parks
// the job as failed for operator inspection.
func (q *JobQueueGORM) Fail(ctx context.Context, jobKey int64, retries int, message string) error {
	status := JobStatusPending
	if retries <= 0 {
		status = JobStatusFailed
	}

	return q.setOutcome(ctx, jobKey, map[string]interface{}{
		"status":        status,
		"retries":       retries,
		"error_message": message,
	})
}

func (q *JobQueueGORM) setOutcome(ctx context.Context, jobKey int64, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC()

	result := q.db.WithContext(ctx).
		Model(&JobModel{}).
		Where("key = ?", jobKey).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update job %d: %w", jobKey, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("job %d not found", jobKey)
	}
	return nil
}
