package deletion

import (
	"context"
	"errors"
)

// Inventory maps each per-user namespace prefix to the object keys found
// under it. Prefixes preserves scan order; only non-empty prefixes appear in
// Objects.
type Inventory struct {
	Prefixes []string
	Objects  map[string][]string
	Total    int
}

// scanUserObjects enumerates every object the user owns across the fixed
// namespace prefixes, consuming all listing pages per prefix. A prefix whose
// listing fails is skipped; counts accumulated for other prefixes are kept
// and the errors are surfaced alongside the inventory.
func (s *Service) scanUserObjects(ctx context.Context, userID string) (*Inventory, error) {
	inv := &Inventory{
		Prefixes: userPrefixes(userID),
		Objects:  make(map[string][]string),
	}

	var errs []error

	for _, prefix := range inv.Prefixes {
		keys, err := s.store.ListPrefix(ctx, prefix)
		if err != nil {
			s.log.Error(ctx, "listing failed", "prefix", prefix, "error", err)
			errs = append(errs, err)
			continue
		}
		if len(keys) > 0 {
			inv.Objects[prefix] = keys
			inv.Total += len(keys)
			s.log.Info(ctx, "objects found", "prefix", prefix, "count", len(keys))
		}
	}

	return inv, errors.Join(errs...)
}
