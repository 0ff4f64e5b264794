package deletion

import (
	"context"
	"strings"
)

// cleanupAuxiliaryRecords removes the user's identity mappings and scheduled
// deletion entry. Both operations are idempotent and their failures never
// fail the surrounding deletion.
func (s *Service) cleanupAuxiliaryRecords(ctx context.Context, userID string) {
	s.removeIdentityMappings(ctx, userID)
	s.removeScheduledDeletion(ctx, userID)
	s.log.Info(ctx, "auxiliary records cleaned up", "userId", userID)
}

// removeIdentityMappings scans the flat identity namespace and deletes every
// record whose content is the target user id. Records that cannot be read or
// deleted are logged and skipped. Returns the number of mappings removed.
func (s *Service) removeIdentityMappings(ctx context.Context, userID string) int {
	removed := 0

	keys, err := s.store.ListPrefix(ctx, identityPrefix)
	if err != nil {
		s.log.Error(ctx, "identity mapping listing failed", "userId", userID, "error", err)
	}

	for _, key := range keys {
		// directory marker
		if key == identityPrefix {
			continue
		}

		content, err := s.store.GetString(ctx, key)
		if err != nil {
			s.log.Error(ctx, "identity mapping read failed", "key", key, "error", err)
			continue
		}
		if content != userID {
			continue
		}

		if err := s.store.Delete(ctx, key); err != nil {
			s.log.Error(ctx, "identity mapping delete failed", "key", key, "error", err)
			continue
		}
		removed++
		s.log.Info(ctx, "identity mapping removed", "key", key)
	}

	s.log.Info(ctx, "identity mappings removed", "userId", userID, "count", removed)
	return removed
}

// removeScheduledDeletion deletes the user's scheduled-deletion entry, if
// any. At most one entry is expected per user, so the scan stops at the
// first key containing the user id.
func (s *Service) removeScheduledDeletion(ctx context.Context, userID string) {
	keys, err := s.store.ListPrefix(ctx, scheduledPrefix)
	if err != nil {
		s.log.Error(ctx, "scheduled deletion listing failed", "userId", userID, "error", err)
		return
	}

	for _, key := range keys {
		if !strings.Contains(key, userID) {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			s.log.Error(ctx, "scheduled deletion delete failed", "key", key, "error", err)
			continue
		}
		s.log.Info(ctx, "scheduled deletion removed", "key", key)
		return
	}
}
