package jobs

import (
	"context"
	"time"
)

// MessageKind classifies what a dequeued webhook message needs: the audio
// pipeline, the onboarding flow, or a static greeting.
type MessageKind string

const (
	// MessageKindAudio routes through download → transcribe → analyze → ledger.
	MessageKindAudio MessageKind = "audio"
	// MessageKindOnboard carries an email for ledger provisioning.
	MessageKindOnboard MessageKind = "onboard"
	// MessageKindGreeting sends the static capability reply.
	MessageKindGreeting MessageKind = "greeting"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

// ProcessMessageJob is one inbound webhook message handed off the request
// path. The webhook responder publishes it and returns immediately; a worker
// performs every external call.
type ProcessMessageJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// MessageID is the platform message identifier that passed the
	// idempotency gate.
	MessageID string `json:"message_id"`

	// From is the sender's phone number.
	From string `json:"from"`

	// Kind selects the processing path.
	Kind MessageKind `json:"kind"`

	// MediaID is the voice-note media identifier (audio jobs only).
	MediaID string `json:"media_id,omitempty"`

	// Body is the text body (onboarding email, greeting text).
	Body string `json:"body,omitempty"`

	// Status is the current status of the job.
	Status JobStatus `json:"status"`

	// CreatedAt is when the job was created.
	CreatedAt time.Time `json:"created_at"`

	// StartedAt is when the job started processing.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when the job completed (success or failure).
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the job failed.
	Error string `json:"error,omitempty"`

	// RetryCount is the number of times this job has been retried.
	RetryCount int `json:"retry_count"`

	// MaxRetries caps retries. Message jobs run with zero: a retry would
	// repeat ledger side effects the user already got a reply about.
	MaxRetries int `json:"max_retries"`
}

// Publisher defines the interface for publishing jobs to a queue.
type Publisher interface {
	// PublishProcessMessage enqueues a message-processing job.
	PublishProcessMessage(ctx context.Context, job *ProcessMessageJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer defines the interface for consuming jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs. The handler is called for each job.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming and waits for in-flight jobs to complete.
	Stop(ctx context.Context) error
}

// JobHandler processes one job. A returned error marks the job failed and
// triggers a retry only when the job allows retries.
type JobHandler func(ctx context.Context, job *ProcessMessageJob) error

// JobStore tracks job state for diagnostics. The in-memory implementation
// loses state on restart, which matches the idempotency gate's lifetime.
type JobStore interface {
	SaveJob(ctx context.Context, job *ProcessMessageJob) error
	GetJob(ctx context.Context, jobID string) (*ProcessMessageJob, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*ProcessMessageJob, error)
}

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	// From filters jobs by sender handle.
	From string

	// Status filters jobs by status.
	Status JobStatus

	// Limit limits the number of results.
	Limit int
}
