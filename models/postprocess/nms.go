package postprocess

import (
	"sort"

	"github.com/nvr-ai/go-detect/images"
)

// NMSConfig defines parameters for Non-Maximum Suppression.
type NMSConfig struct {
	// Overlap threshold; a candidate is suppressed when its IoU with a
	// retained box strictly exceeds it.
	IoUThreshold float32
	// Limit caps the number of retained results. Zero or negative means
	// unbounded; 1 is the single-best-detection configuration.
	Limit int
}

// ApplyGreedyNMS performs classic greedy Non-Maximum Suppression.
//
// Candidates are stable-sorted by descending confidence (equal scores
// keep their input order), then the highest-confidence remaining box is
// retained and every remaining candidate overlapping it above the
// threshold is dropped, until no candidates remain or the limit is
// reached. The input slice is not mutated.
//
// Arguments:
//   - candidates: Candidate detections in any order.
//   - config: Suppression parameters.
//
// Returns:
//   - Retained detections ordered by descending confidence. Nil when no
//     candidates are provided.
func ApplyGreedyNMS(candidates []Result, config NMSConfig) []Result {
	n := len(candidates)
	if n == 0 {
		return nil
	}

	sorted := make([]Result, n)
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	limit := config.Limit
	if limit <= 0 || limit > n {
		limit = n
	}

	filtered := make([]Result, 0, limit)
	used := make([]bool, n)

	for i := 0; i < n && len(filtered) < limit; i++ {
		if used[i] {
			continue
		}

		anchor := sorted[i]
		filtered = append(filtered, anchor)
		used[i] = true

		for j := i + 1; j < n; j++ {
			if used[j] {
				continue
			}

			if images.CalculateIoU(anchor.Box, sorted[j].Box) > config.IoUThreshold {
				used[j] = true
			}
		}
	}

	return filtered
}
