package deletion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3control"
	ctrltypes "github.com/aws/aws-sdk-go-v2/service/s3control/types"
	"github.com/google/uuid"
)

// batchJobPriority is the fixed priority for account-deletion jobs.
const batchJobPriority = 10

// JobMetadata is the small record persisted per batch job so status can be
// queried later without re-deriving anything.
type JobMetadata struct {
	JobID        string    `json:"jobId"`
	UserID       string    `json:"userId"`
	ObjectCount  int       `json:"objectCount"`
	CreatedAt    time.Time `json:"createdAt"`
	ManifestKey  string    `json:"manifestKey"`
	ReportPrefix string    `json:"reportPrefix"`
}

// createBatchJob materializes a deletion manifest, submits an S3 Batch
// Operations job referencing it, and persists the job metadata record. The
// three writes are independent; a failure partway can orphan the manifest,
// which is accepted as a cleanable byproduct.
func (s *Service) createBatchJob(ctx context.Context, userID string, inv *Inventory) (string, error) {
	bucket := s.store.Bucket()
	timestamp := s.now().UTC().Format("20060102-150405")

	manifestKey := fmt.Sprintf("%s%s/%s-manifest.csv", manifestKeyPrefix, timestamp, userID)
	manifest := buildManifest(bucket, inv)

	if err := s.store.Put(ctx, manifestKey, []byte(manifest), "text/csv"); err != nil {
		return "", fmt.Errorf("upload manifest: %w", err)
	}

	// The job API requires the exact fingerprint of the manifest it will
	// read, so fetch the tag of what actually landed.
	manifestETag, err := s.store.ETag(ctx, manifestKey)
	if err != nil {
		return "", fmt.Errorf("read manifest etag: %w", err)
	}

	reportPrefix := fmt.Sprintf("%s%s/%s", reportKeyPrefix, timestamp, userID)

	roleArn := s.config.BatchRoleArn
	if roleArn == "" {
		roleArn = fmt.Sprintf("arn:aws:iam::%s:role/S3BatchOperationsRole", s.config.AccountID)
	}

	out, err := s.control.CreateJob(ctx, &s3control.CreateJobInput{
		AccountId:            aws.String(s.config.AccountID),
		ClientRequestToken:   aws.String(uuid.NewString()),
		ConfirmationRequired: aws.Bool(false),
		Operation: &ctrltypes.JobOperation{
			S3DeleteObject: &ctrltypes.S3DeleteObjectOperation{},
		},
		Manifest: &ctrltypes.JobManifest{
			Spec: &ctrltypes.JobManifestSpec{
				Format: ctrltypes.JobManifestFormatS3BatchOperationsCsv20180820,
				Fields: []ctrltypes.JobManifestFieldName{
					ctrltypes.JobManifestFieldNameBucket,
					ctrltypes.JobManifestFieldNameKey,
				},
			},
			Location: &ctrltypes.JobManifestLocation{
				ObjectArn: aws.String(fmt.Sprintf("arn:aws:s3:::%s/%s", bucket, manifestKey)),
				ETag:      aws.String(manifestETag),
			},
		},
		Priority: aws.Int32(batchJobPriority),
		Report: &ctrltypes.JobReport{
			Enabled:     true,
			Bucket:      aws.String(fmt.Sprintf("arn:aws:s3:::%s", bucket)),
			Prefix:      aws.String(reportPrefix),
			Format:      ctrltypes.JobReportFormatReportCsv20180820,
			ReportScope: ctrltypes.JobReportScopeFailedTasksOnly,
		},
		RoleArn: aws.String(roleArn),
		Tags: []ctrltypes.S3Tag{
			{Key: aws.String("UserId"), Value: aws.String(userID)},
			{Key: aws.String("Type"), Value: aws.String("AccountDeletion")},
			{Key: aws.String("Environment"), Value: aws.String(s.config.Environment)},
		},
		Description: aws.String(fmt.Sprintf("Delete account data for user %s", userID)),
	})
	if err != nil {
		return "", fmt.Errorf("create job: %w", err)
	}

	jobID := aws.ToString(out.JobId)
	s.log.Info(ctx, "batch job created", "jobId", jobID, "userId", userID)

	metadata := JobMetadata{
		JobID:        jobID,
		UserID:       userID,
		ObjectCount:  inv.Total,
		CreatedAt:    s.now().UTC(),
		ManifestKey:  manifestKey,
		ReportPrefix: reportPrefix,
	}
	body, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("encode job metadata: %w", err)
	}

	metadataKey := fmt.Sprintf("%s%s.json", metadataKeyPrefix, jobID)
	if err := s.store.Put(ctx, metadataKey, body, "application/json"); err != nil {
		return "", fmt.Errorf("persist job metadata: %w", err)
	}

	return jobID, nil
}

// buildManifest renders the S3 Batch Operations CSV manifest: one
// "bucket,key" line per object, no header, LF separated.
func buildManifest(bucket string, inv *Inventory) string {
	var b strings.Builder

	for _, prefix := range inv.Prefixes {
		for _, key := range inv.Objects[prefix] {
			b.WriteString(bucket)
			b.WriteByte(',')
			b.WriteString(key)
			b.WriteByte('\n')
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}
