package deletion

// Strategy is the chosen deletion path.
type Strategy int

const (
	// StrategyEmpty short-circuits: nothing to delete.
	StrategyEmpty Strategy = iota

	// StrategyDirect deletes synchronously in bounded batches.
	StrategyDirect

	// StrategyBulk submits an S3 Batch Operations job.
	StrategyBulk
)

// selectStrategy picks the deletion path for the given object count. The
// threshold matches the store's single-request delete-batch limit, so a
// direct deletion at the threshold still fits one batch per prefix chunk.
func selectStrategy(count, threshold int) Strategy {
	switch {
	case count == 0:
		return StrategyEmpty
	case count <= threshold:
		return StrategyDirect
	default:
		return StrategyBulk
	}
}
