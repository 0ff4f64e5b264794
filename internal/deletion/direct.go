package deletion

import (
	"context"

	"github.com/codelynx/photolala-deletion/internal/storage"
)

// directDelete removes every object in the inventory with multi-object
// delete requests, batching at the store's per-request limit. Per-key
// failures and whole-batch transport failures are collected and do not stop
// the remaining batches; deleting an already-absent key counts as success.
func (s *Service) directDelete(ctx context.Context, inv *Inventory) (int, []string) {
	totalDeleted := 0
	var failedKeys []string

	for _, prefix := range inv.Prefixes {
		keys := inv.Objects[prefix]

		for start := 0; start < len(keys); start += storage.MaxDeleteBatchSize {
			end := min(start+storage.MaxDeleteBatchSize, len(keys))
			batch := keys[start:end]

			deleted, failures, err := s.store.DeleteBatch(ctx, batch)
			if err != nil {
				s.log.Error(ctx, "batch delete failed", "prefix", prefix, "keys", len(batch), "error", err)
				failedKeys = append(failedKeys, batch...)
				continue
			}

			totalDeleted += deleted
			s.log.Info(ctx, "objects deleted", "prefix", prefix, "count", deleted)

			for _, f := range failures {
				s.log.Error(ctx, "object delete refused", "key", f.Key, "code", f.Code, "message", f.Message)
				failedKeys = append(failedKeys, f.Key)
			}
		}
	}

	return totalDeleted, failedKeys
}
