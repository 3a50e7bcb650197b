package jobs

import (
	"context"
	"time"
)

// Status represents the current status of a job.
type Status string

const (
	// StatusPending indicates the job is waiting to be processed.
	StatusPending Status = "pending"
	// StatusRunning indicates the job is currently being processed.
	StatusRunning Status = "running"
	// StatusCompleted indicates the job completed successfully.
	StatusCompleted Status = "completed"
	// StatusFailed indicates the job failed after exhausting retries.
	StatusFailed Status = "failed"
	// StatusRetrying indicates the job failed and will run again.
	StatusRetrying Status = "retrying"
)

// ProcessStatementJob asks a worker to run the extraction pipeline over
// an uploaded statement.
type ProcessStatementJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// StatementID is the ID of the statement row in BigQuery.
	StatementID string `json:"statement_id"`

	// UserID is the owner of the statement.
	UserID string `json:"user_id"`

	// GCSURI points at the uploaded PDF in cloud storage.
	GCSURI string `json:"gcs_uri"`

	// StatementYear anchors date parsing for this statement.
	StatementYear int `json:"statement_year"`

	// Status is the current status of the job.
	Status Status `json:"status"`

	// TransactionCount is set on completion.
	TransactionCount int `json:"transaction_count,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the job failed.
	Error string `json:"error,omitempty"`

	// RetryCount and MaxRetries control re-execution on failure.
	RetryCount int `json:"retry_count"`
	MaxRetries int `json:"max_retries"`
}

// Handler processes one job. A returned error marks the attempt failed
// and triggers a retry while attempts remain.
type Handler func(ctx context.Context, job *ProcessStatementJob) error

// Publisher defines the interface for publishing jobs to a queue. The
// abstraction allows swapping the in-memory queue for Cloud Tasks or
// Pub/Sub later.
type Publisher interface {
	// PublishProcessStatement publishes a statement processing job.
	PublishProcessStatement(ctx context.Context, job *ProcessStatementJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer defines the interface for consuming jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs, calling handler for each one.
	Start(ctx context.Context, handler Handler) error

	// Stop stops consuming and waits for in-flight jobs to finish.
	Stop(ctx context.Context) error
}

// Store defines the interface for tracking job state, so the API can
// report progress to the user.
type Store interface {
	// SaveJob saves or updates a job's state.
	SaveJob(ctx context.Context, job *ProcessStatementJob) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID string) (*ProcessStatementJob, error)

	// ListJobs retrieves jobs matching the filter.
	ListJobs(ctx context.Context, filter Filter) ([]*ProcessStatementJob, error)
}

// Filter defines criteria for listing jobs.
type Filter struct {
	// UserID filters jobs by owner.
	UserID string

	// StatementID filters jobs by statement.
	StatementID string

	// Status filters jobs by status.
	Status Status

	// Limit caps the number of results; zero means no cap.
	Limit int
}
