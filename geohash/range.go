package geohash

import (
	"math"
	"strconv"
)

// Range is a closed interval [Min, Max] of geohashes. Ranges are created per
// query while planning and never persisted.
type Range struct {
	Min int64
	Max int64
}

// NewRange returns the range [min, max]. min must not exceed max.
func NewRange(min, max int64) Range {
	return Range{Min: min, Max: max}
}

// Contains reports whether geohash lies within the range.
func (r Range) Contains(geohash int64) bool {
	return geohash >= r.Min && geohash <= r.Max
}

// TryMerge grows the receiver to the union with other and returns true iff
// the two ranges overlap or are directly adjacent. Otherwise the receiver is
// left unchanged and TryMerge returns false.
func (r *Range) TryMerge(other Range) bool {
	if other.Min > r.Max+1 || r.Min > other.Max+1 {
		return false
	}
	r.Min = min(r.Min, other.Min)
	r.Max = max(r.Max, other.Max)
	return true
}

// Split cuts the range at every hash-key boundary for the given key length,
// returning sub-ranges in ascending order that cover the receiver exactly
// with no overlap and no gap. Each sub-range lies entirely within one hash
// key's span of the geohash space. A range that does not cross a boundary is
// returned as a single-element slice.
//
// Hash keys are only comparable between geohashes of equal digit count, so a
// range straddling a power of ten is first cut at each magnitude boundary.
func (r Range) Split(hashKeyLength int) []Range {
	var result []Range
	for _, seg := range r.magnitudeSegments() {
		result = append(result, seg.splitWithinMagnitude(hashKeyLength)...)
	}
	return result
}

// magnitudeSegments cuts the range so that every geohash within a segment has
// the same decimal digit count and sign.
func (r Range) magnitudeSegments() []Range {
	var segments []Range
	for cur := r.Min; ; {
		end := magnitudeEnd(cur)
		if end >= r.Max {
			return append(segments, Range{Min: cur, Max: r.Max})
		}
		segments = append(segments, Range{Min: cur, Max: end})
		cur = end + 1
	}
}

// magnitudeEnd returns the largest int64 with the same decimal digit count
// and sign as v.
func magnitudeEnd(v int64) int64 {
	digits := len(strconv.FormatInt(v, 10)) // counts the sign for negatives
	if v < 0 {
		return -pow10(digits - 2)
	}
	if digits >= 19 { // pow10(19) overflows
		return math.MaxInt64
	}
	return pow10(digits) - 1
}

func pow10(n int) int64 {
	p := int64(1)
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}

func (r Range) splitWithinMagnitude(hashKeyLength int) []Range {
	minHashKey := HashKey(r.Min, hashKeyLength)
	maxHashKey := HashKey(r.Max, hashKeyLength)
	if minHashKey == maxHashKey {
		return []Range{r}
	}

	// One hash key covers 10^d consecutive geohashes, where d is the number
	// of digits truncated away.
	denominator := pow10(len(strconv.FormatInt(r.Min, 10)) - len(strconv.FormatInt(minHashKey, 10)))

	result := make([]Range, 0, maxHashKey-minHashKey+1)
	for key := minHashKey; key <= maxHashKey; key++ {
		var sub Range
		if key > 0 {
			sub = Range{Min: key * denominator, Max: (key+1)*denominator - 1}
		} else {
			sub = Range{Min: (key-1)*denominator + 1, Max: key * denominator}
		}
		if key == minHashKey {
			sub.Min = r.Min
		}
		if key == maxHashKey {
			sub.Max = r.Max
		}
		result = append(result, sub)
	}

	return result
}
