package deletion

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3control"
	ctrltypes "github.com/aws/aws-sdk-go-v2/service/s3control/types"
)

// Job statuses outside the provider's own lifecycle values.
const (
	JobStatusNotFound = "NotFound"
	JobStatusError    = "Error"
)

// ProgressSummary normalizes the provider's task counters.
type ProgressSummary struct {
	TotalTasks int64 `json:"totalTasks"`
	Succeeded  int64 `json:"succeeded"`
	Failed     int64 `json:"failed"`
}

// JobStatus is the normalized state of a batch deletion job.
type JobStatus struct {
	JobID           string           `json:"jobId"`
	Status          string           `json:"status"`
	CreatedAt       string           `json:"createdAt,omitempty"`
	Priority        int32            `json:"priority,omitempty"`
	ProgressSummary *ProgressSummary `json:"progressSummary,omitempty"`
	Error           string           `json:"error,omitempty"`
}

// BatchJobStatus queries the provider for a job's state. An unknown job id
// yields a NotFound status and any other query failure an Error status;
// neither propagates as an error. Auxiliary records were already removed at
// job creation, so completion has no further effect here.
func (s *Service) BatchJobStatus(ctx context.Context, jobID string) *JobStatus {
	out, err := s.control.DescribeJob(ctx, &s3control.DescribeJobInput{
		AccountId: aws.String(s.config.AccountID),
		JobId:     aws.String(jobID),
	})
	if err != nil {
		var notFound *ctrltypes.NotFoundException
		if errors.As(err, &notFound) {
			return &JobStatus{
				JobID:  jobID,
				Status: JobStatusNotFound,
				Error:  "Job not found",
			}
		}

		s.log.Error(ctx, "job status query failed", "jobId", jobID, "error", err)
		return &JobStatus{
			JobID:  jobID,
			Status: JobStatusError,
			Error:  err.Error(),
		}
	}

	job := out.Job
	status := &JobStatus{
		JobID:           jobID,
		Status:          string(job.Status),
		Priority:        job.Priority,
		ProgressSummary: &ProgressSummary{},
	}
	if job.CreationTime != nil {
		status.CreatedAt = job.CreationTime.UTC().Format(time.RFC3339)
	}
	if p := job.ProgressSummary; p != nil {
		status.ProgressSummary = &ProgressSummary{
			TotalTasks: aws.ToInt64(p.TotalNumberOfTasks),
			Succeeded:  aws.ToInt64(p.NumberOfTasksSucceeded),
			Failed:     aws.ToInt64(p.NumberOfTasksFailed),
		}
	}

	return status
}
