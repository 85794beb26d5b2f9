package dyngeo

import "github.com/hupe1980/dyngeo/geohash"

// queryPlan is one unit of store work: a between-scan over one geohash range
// within one hash key's partition.
type queryPlan struct {
	hashKey int64
	r       geohash.Range
}

// planQueries turns the raw covering of a query region into the minimal set
// of partition-aligned query plans.
//
// Covering cells frequently touch along the space-filling curve, so ranges
// are first coalesced greedily: each incoming range is merged into the first
// accepted range it overlaps or abuts, otherwise appended. The covering is
// small (at most geohash's MaxCells), so the quadratic scan is fine. Merged
// ranges are then split at hash-key boundaries, yielding one plan per
// sub-range keyed by the sub-range's minimum geohash.
//
// If more than maxFanOut plans would be needed, planQueries fails before any
// store work is issued.
func planQueries(covering []geohash.Range, hashKeyLength, maxFanOut int) ([]queryPlan, error) {
	merged := make([]geohash.Range, 0, len(covering))
	for _, r := range covering {
		wasMerged := false
		for i := range merged {
			if merged[i].TryMerge(r) {
				wasMerged = true
				break
			}
		}
		if !wasMerged {
			merged = append(merged, r)
		}
	}

	var plans []queryPlan
	for _, r := range merged {
		for _, sub := range r.Split(hashKeyLength) {
			plans = append(plans, queryPlan{
				hashKey: geohash.HashKey(sub.Min, hashKeyLength),
				r:       sub,
			})
		}
	}

	if maxFanOut > 0 && len(plans) > maxFanOut {
		return nil, &ErrFanOutExceeded{Plans: len(plans), Budget: maxFanOut}
	}

	return plans, nil
}
