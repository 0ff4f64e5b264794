// Package deletion implements the account-deletion workflow: inventory the
// user's objects, pick direct or batch deletion by volume, execute or submit
// it, and clean up the user's auxiliary records. It also sweeps the queue of
// time-scheduled deletions and answers batch-job status queries.
package deletion

import (
	"context"
	"fmt"
	"time"

	"github.com/codelynx/photolala-deletion/internal/config"
	"github.com/codelynx/photolala-deletion/internal/logging"
	"github.com/codelynx/photolala-deletion/internal/s3x"
	"github.com/codelynx/photolala-deletion/internal/storage"
)

// Store layout under the configured bucket.
const (
	identityPrefix    = "identities/"
	scheduledPrefix   = "scheduled-deletions/"
	manifestKeyPrefix = "batch-jobs/manifests/"
	reportKeyPrefix   = "batch-jobs/reports/"
	metadataKeyPrefix = "batch-jobs/metadata/"
	leaseKeyPrefix    = "locks/deletions/"
)

// Service runs the deletion workflow against one bucket.
type Service struct {
	store   *storage.Store
	control s3x.S3ControlAPI
	config  *config.Config
	log     logging.Logger

	// now is the clock, injectable for tests.
	now func() time.Time
}

// NewService wires a Service from its collaborators. The config must carry a
// resolved AccountID before batch jobs can be created.
func NewService(store *storage.Store, control s3x.S3ControlAPI, cfg *config.Config, log logging.Logger) *Service {
	return &Service{
		store:   store,
		control: control,
		config:  cfg,
		log:     log,
		now:     time.Now,
	}
}

// userPrefixes returns the per-user namespaces, in scan order.
func userPrefixes(userID string) []string {
	return []string{
		fmt.Sprintf("photos/%s/", userID),
		fmt.Sprintf("thumbnails/%s/", userID),
		fmt.Sprintf("catalogs/%s/", userID),
		fmt.Sprintf("users/%s/", userID),
	}
}

// DeleteUserAccount deletes a user account and all associated data, choosing
// direct deletion or an S3 Batch Operations job by object count. Auxiliary
// records (identity mappings, scheduled-deletion entry) are removed right
// after counting, so re-registration never waits on job completion.
func (s *Service) DeleteUserAccount(ctx context.Context, userID string) (*Outcome, error) {
	release, err := s.acquireLease(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	s.log.Info(ctx, "starting deletion", "userId", userID)

	inv, err := s.scanUserObjects(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("inventory scan for user %s: %w", userID, err)
	}
	s.log.Info(ctx, "inventory complete", "userId", userID, "objectCount", inv.Total)

	if inv.Total == 0 {
		s.cleanupAuxiliaryRecords(ctx, userID)
		return &Outcome{
			Status:      StatusCompleted,
			UserID:      userID,
			ObjectCount: 0,
			Method:      MethodNone,
			Message:     "No objects to delete",
		}, nil
	}

	// Cleanup precedes the actual deletion so the identity can re-register
	// immediately; data objects may outlive the mappings briefly.
	s.cleanupAuxiliaryRecords(ctx, userID)

	if selectStrategy(inv.Total, s.config.DeletionThreshold) == StrategyDirect {
		s.log.Info(ctx, "using direct deletion", "userId", userID, "objectCount", inv.Total)
		deleted, failedKeys := s.directDelete(ctx, inv)

		return &Outcome{
			Status:       StatusCompleted,
			UserID:       userID,
			ObjectCount:  inv.Total,
			DeletedCount: deleted,
			FailedKeys:   failedKeys,
			Method:       MethodDirect,
			Message:      "Account deleted successfully",
		}, nil
	}

	s.log.Info(ctx, "creating batch deletion job", "userId", userID, "objectCount", inv.Total)
	jobID, err := s.createBatchJob(ctx, userID, inv)
	if err != nil {
		return nil, fmt.Errorf("batch job for user %s: %w", userID, err)
	}

	return &Outcome{
		Status:      StatusBatchJobCreated,
		UserID:      userID,
		ObjectCount: inv.Total,
		JobID:       jobID,
		Method:      MethodBatch,
		Message:     fmt.Sprintf("Batch job %s created for %d objects", jobID, inv.Total),
	}, nil
}
