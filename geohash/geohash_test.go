package geohash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		a, err := Encode(47.5, -122.3)
		require.NoError(t, err)
		b, err := Encode(47.5, -122.3)
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.NotZero(t, a)
	})

	t.Run("DistinctPoints", func(t *testing.T) {
		a, err := Encode(47.5, -122.3)
		require.NoError(t, err)
		b, err := Encode(47.6, -122.3)
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("SouthernFaceIsNegative", func(t *testing.T) {
		// Cell ids on faces 4 and 5 have the sign bit set.
		gh, err := Encode(-90, 0)
		require.NoError(t, err)
		assert.Negative(t, gh)
	})

	t.Run("InvalidCoordinates", func(t *testing.T) {
		cases := []struct {
			name     string
			lat, lng float64
		}{
			{"LatTooHigh", 90.1, 0},
			{"LatTooLow", -90.1, 0},
			{"LngTooHigh", 0, 180.1},
			{"LngTooLow", 0, -180.1},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := Encode(tc.lat, tc.lng)
				var invalid *ErrInvalidCoordinates
				require.ErrorAs(t, err, &invalid)
				assert.Equal(t, tc.lat, invalid.Lat)
				assert.Equal(t, tc.lng, invalid.Lng)
			})
		}
	})
}

func TestHashKey(t *testing.T) {
	cases := []struct {
		name    string
		geohash int64
		length  int
		want    int64
	}{
		{"Truncates", 123456789, 3, 123},
		{"NegativeKeepsSignDigit", -123456789, 3, -123},
		{"ShorterThanLength", 123, 6, 123},
		{"ExactLength", 1000, 4, 1000},
		{"SingleDigit", 987654, 1, 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HashKey(tc.geohash, tc.length))
		})
	}

	t.Run("PureOverPoints", func(t *testing.T) {
		gh, err := Encode(35.68, 139.77)
		require.NoError(t, err)
		assert.Equal(t, HashKey(gh, 6), HashKey(gh, 6))
	})

	t.Run("PrefixConsistency", func(t *testing.T) {
		// Two geohashes share a hash key iff their leading digits match.
		assert.Equal(t, HashKey(123456789, 3), HashKey(123999999, 3))
		assert.NotEqual(t, HashKey(123456789, 3), HashKey(124000000, 3))
	})
}

func TestDistance(t *testing.T) {
	t.Run("TenDegreesAlongEquator", func(t *testing.T) {
		d := Distance(0, 0, 0, 10)
		assert.InDelta(t, 1_111_251, d, 1_000)
	})

	t.Run("ZeroForSamePoint", func(t *testing.T) {
		assert.Zero(t, Distance(47.5, -122.3, 47.5, -122.3))
	})

	t.Run("Symmetric", func(t *testing.T) {
		assert.InDelta(t, Distance(10, 20, 30, 40), Distance(30, 40, 10, 20), 1e-9)
	})
}
