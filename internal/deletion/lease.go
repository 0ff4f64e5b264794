package deletion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codelynx/photolala-deletion/internal/storage"
)

// leaseTTL bounds how long a crashed invocation can block a user's deletion.
const leaseTTL = 5 * time.Minute

// ErrDeletionInFlight indicates another deletion for the same user currently
// holds the lease.
var ErrDeletionInFlight = errors.New("deletion already in flight for user")

// leaseRecord is the body of a deletion lease object.
type leaseRecord struct {
	Owner     string    `json:"owner"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// acquireLease takes the per-user deletion lease with a conditional write,
// keeping concurrent deletion requests for the same user from racing each
// other into duplicate batch jobs. An expired lease left by a crashed
// invocation is broken and re-acquired once. The returned release func
// deletes the lease; losing it is logged, not fatal, since the lease expires
// on its own.
func (s *Service) acquireLease(ctx context.Context, userID string) (func(), error) {
	key := fmt.Sprintf("%s%s.json", leaseKeyPrefix, userID)

	release := func() {
		if err := s.store.Delete(ctx, key); err != nil {
			s.log.Warn(ctx, "lease release failed", "key", key, "error", err)
		}
	}

	body, err := json.Marshal(leaseRecord{
		Owner:     uuid.NewString(),
		ExpiresAt: s.now().UTC().Add(leaseTTL),
	})
	if err != nil {
		return nil, err
	}

	err = s.store.PutIfAbsent(ctx, key, body, "application/json")
	if err == nil {
		return release, nil
	}
	if !errors.Is(err, storage.ErrPreconditionFailed) {
		return nil, fmt.Errorf("acquire deletion lease: %w", err)
	}

	// A lease exists; break it only if it expired.
	current, readErr := s.store.Get(ctx, key)
	if readErr == nil {
		var rec leaseRecord
		if json.Unmarshal(current, &rec) == nil && rec.ExpiresAt.After(s.now().UTC()) {
			return nil, fmt.Errorf("%w: %s", ErrDeletionInFlight, userID)
		}
	} else if !errors.Is(readErr, storage.ErrNotFound) {
		return nil, fmt.Errorf("read deletion lease: %w", readErr)
	}

	s.log.Warn(ctx, "breaking expired deletion lease", "key", key)
	if err := s.store.Delete(ctx, key); err != nil {
		return nil, fmt.Errorf("break expired lease: %w", err)
	}
	if err := s.store.PutIfAbsent(ctx, key, body, "application/json"); err != nil {
		if errors.Is(err, storage.ErrPreconditionFailed) {
			return nil, fmt.Errorf("%w: %s", ErrDeletionInFlight, userID)
		}
		return nil, fmt.Errorf("acquire deletion lease: %w", err)
	}

	return release, nil
}
