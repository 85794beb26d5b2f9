package dyngeo

import (
	"testing"

	"github.com/hupe1980/dyngeo/geohash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanQueries(t *testing.T) {
	t.Run("SingleRangeSinglePartition", func(t *testing.T) {
		plans, err := planQueries([]geohash.Range{{Min: 1000, Max: 1099}}, 2, 0)
		require.NoError(t, err)
		require.Len(t, plans, 1)
		assert.Equal(t, int64(10), plans[0].hashKey)
		assert.Equal(t, geohash.Range{Min: 1000, Max: 1099}, plans[0].r)
	})

	t.Run("SplitsAcrossPartitions", func(t *testing.T) {
		plans, err := planQueries([]geohash.Range{{Min: 1000, Max: 2099}}, 2, 0)
		require.NoError(t, err)
		require.Len(t, plans, 11)
		for i, plan := range plans {
			assert.Equal(t, int64(10+i), plan.hashKey)
			assert.Equal(t, plan.hashKey, geohash.HashKey(plan.r.Min, 2))
			assert.Equal(t, plan.hashKey, geohash.HashKey(plan.r.Max, 2))
		}
	})

	t.Run("MergesAdjacentCoveringRanges", func(t *testing.T) {
		plans, err := planQueries([]geohash.Range{
			{Min: 1000, Max: 1049},
			{Min: 1050, Max: 1099},
		}, 2, 0)
		require.NoError(t, err)
		assert.Len(t, plans, 1)
		assert.Equal(t, geohash.Range{Min: 1000, Max: 1099}, plans[0].r)
	})

	t.Run("DisjointPlansNeverOverlap", func(t *testing.T) {
		plans, err := planQueries([]geohash.Range{
			{Min: 1000, Max: 2099},
			{Min: 5000, Max: 5099},
			{Min: 2100, Max: 2199},
		}, 2, 0)
		require.NoError(t, err)
		for i := range plans {
			for j := i + 1; j < len(plans); j++ {
				overlap := plans[i].r.Min <= plans[j].r.Max && plans[j].r.Min <= plans[i].r.Max
				assert.False(t, overlap, "plans %d and %d overlap", i, j)
			}
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		covering := []geohash.Range{{Min: 1000, Max: 2099}, {Min: 5000, Max: 5099}}
		a, err := planQueries(covering, 2, 0)
		require.NoError(t, err)
		b, err := planQueries(covering, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("FanOutExceeded", func(t *testing.T) {
		_, err := planQueries([]geohash.Range{
			{Min: 1000, Max: 1099},
			{Min: 3000, Max: 3099},
		}, 2, 1)
		var fanOut *ErrFanOutExceeded
		require.ErrorAs(t, err, &fanOut)
		assert.Equal(t, 2, fanOut.Plans)
		assert.Equal(t, 1, fanOut.Budget)
	})

	t.Run("BudgetBoundaryIsInclusive", func(t *testing.T) {
		plans, err := planQueries([]geohash.Range{
			{Min: 1000, Max: 1099},
			{Min: 3000, Max: 3099},
		}, 2, 2)
		require.NoError(t, err)
		assert.Len(t, plans, 2)
	})

	t.Run("EmptyCovering", func(t *testing.T) {
		plans, err := planQueries(nil, 2, 1)
		require.NoError(t, err)
		assert.Empty(t, plans)
	})
}
