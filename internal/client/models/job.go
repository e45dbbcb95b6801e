package models

// JobStatus is the server-reported state of a bulk-upload job.
type JobStatus string

const (
	JobPending    JobStatus = "PENDING"
	JobProcessing JobStatus = "PROCESSING"
	JobCompleted  JobStatus = "COMPLETED"
	JobFailed     JobStatus = "FAILED"
)

// Terminal reports whether no further status transitions are expected.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// JobProgress is the optional per-row progress a job reports once the
// server starts processing it.
type JobProgress struct {
	Total     int     `json:"total"`
	Processed int     `json:"processed"`
	Success   int     `json:"success"`
	Failed    int     `json:"failed"`
	Percent   float64 `json:"percent"`
}

// UploadJob is the state of a server-side bulk-upload job.
type UploadJob struct {
	JobID    string       `json:"job_id"`
	Status   JobStatus    `json:"status"`
	Progress *JobProgress `json:"progress,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// UploadResult is the summary returned when the server ingests a bulk
// file synchronously instead of queueing a job.
type UploadResult struct {
	TotalRows     int      `json:"total_rows"`
	ProcessedRows int      `json:"processed_rows"`
	FailedRows    int      `json:"failed_rows"`
	Errors        []string `json:"errors"`
}
