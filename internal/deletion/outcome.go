package deletion

// Outcome statuses.
const (
	StatusCompleted       = "completed"
	StatusBatchJobCreated = "batch_job_created"
	StatusError           = "error"
)

// Deletion methods.
const (
	MethodNone   = "none"
	MethodDirect = "direct"
	MethodBatch  = "batch"
)

// Outcome is the result of one single-user deletion attempt.
type Outcome struct {
	Status       string   `json:"status"`
	UserID       string   `json:"userId"`
	ObjectCount  int      `json:"objectCount"`
	DeletedCount int      `json:"deletedCount,omitempty"`
	FailedKeys   []string `json:"failedKeys,omitempty"`
	JobID        string   `json:"jobId,omitempty"`
	Method       string   `json:"method,omitempty"`
	Message      string   `json:"message,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// errorOutcome records a failed deletion attempt for a user.
func errorOutcome(userID string, err error) *Outcome {
	return &Outcome{
		Status: StatusError,
		UserID: userID,
		Error:  err.Error(),
	}
}

// SweepResult is the result of one scheduled-deletions sweep.
type SweepResult struct {
	Processed int        `json:"processed"`
	Results   []*Outcome `json:"results,omitempty"`
	Message   string     `json:"message,omitempty"`
	Error     string     `json:"error,omitempty"`
}
