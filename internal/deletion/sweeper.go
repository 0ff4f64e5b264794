package deletion

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"
)

// scheduledEntry is the body of a scheduled-deletion record.
type scheduledEntry struct {
	DeleteOn time.Time `json:"deleteOn"`
}

// ProcessScheduledDeletions runs every due deletion filed under today's date
// bucket. Entries whose deleteOn lies in the future stay queued. Per-entry
// failures are recorded as error results and never stop the sweep.
func (s *Service) ProcessScheduledDeletions(ctx context.Context) *SweepResult {
	now := s.now().UTC()
	dateKey := now.Format("2006-01-02")
	prefix := scheduledPrefix + dateKey + "/"

	s.log.Info(ctx, "processing scheduled deletions", "date", dateKey)

	keys, err := s.store.ListPrefix(ctx, prefix)
	if err != nil {
		s.log.Error(ctx, "scheduled deletions listing failed", "date", dateKey, "error", err)
		return &SweepResult{Processed: 0, Error: err.Error()}
	}
	if len(keys) == 0 {
		s.log.Info(ctx, "no scheduled deletions found", "date", dateKey)
		return &SweepResult{Processed: 0, Message: "No scheduled deletions for today"}
	}

	var results []*Outcome

	for _, key := range keys {
		if strings.HasSuffix(key, "/") {
			continue
		}

		// The user id comes from the key path, never from the body, so a
		// malformed entry still produces an error result for a real user.
		userID := strings.TrimSuffix(path.Base(key), ".json")

		entry, err := s.readScheduledEntry(ctx, key)
		if err != nil {
			s.log.Error(ctx, "scheduled entry unreadable", "key", key, "error", err)
			results = append(results, errorOutcome(userID, err))
			continue
		}

		if entry.DeleteOn.After(now) {
			s.log.Info(ctx, "deletion not due yet", "userId", userID, "deleteOn", entry.DeleteOn)
			continue
		}

		s.log.Info(ctx, "processing due deletion", "userId", userID)
		outcome, err := s.DeleteUserAccount(ctx, userID)
		if err != nil {
			s.log.Error(ctx, "scheduled deletion failed", "userId", userID, "error", err)
			results = append(results, errorOutcome(userID, err))
			continue
		}
		results = append(results, outcome)
	}

	return &SweepResult{Processed: len(results), Results: results}
}

func (s *Service) readScheduledEntry(ctx context.Context, key string) (*scheduledEntry, error) {
	body, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var entry scheduledEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, fmt.Errorf("decode scheduled entry: %w", err)
	}
	if entry.DeleteOn.IsZero() {
		return nil, fmt.Errorf("scheduled entry %s has no deleteOn", key)
	}
	return &entry, nil
}
