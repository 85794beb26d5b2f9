// Package geohash maps WGS84 coordinates onto the 64-bit S2 cell-id space and
// derives bounded-cardinality hash keys from cell ids.
//
// The geohash of a point is the id of the S2 leaf cell containing it. Leaf
// cell ids follow the S2 space-filling curve, so numerically close geohashes
// tend to be geographically close. The hash key keeps the leading decimal
// digits of the geohash; all geohashes sharing those digits land in the same
// DynamoDB partition.
package geohash

import (
	"fmt"
	"strconv"

	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean earth radius used for great-circle distances.
const EarthRadiusMeters = 6367000.0

// ErrInvalidCoordinates indicates a latitude/longitude pair outside the
// WGS84 domain.
type ErrInvalidCoordinates struct {
	Lat float64
	Lng float64
}

func (e *ErrInvalidCoordinates) Error() string {
	return fmt.Sprintf("invalid coordinates: lat %f, lng %f", e.Lat, e.Lng)
}

// Valid reports whether lat/lng form a valid WGS84 coordinate pair.
func Valid(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Encode returns the geohash of a point: the id of the S2 leaf cell that
// contains it. Encode is deterministic and total over valid coordinates.
//
// Cell ids of faces 4 and 5 have the sign bit set and come out negative;
// HashKey and Range account for that.
func Encode(lat, lng float64) (int64, error) {
	if !Valid(lat, lng) {
		return 0, &ErrInvalidCoordinates{Lat: lat, Lng: lng}
	}
	return int64(s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lng))), nil
}

// HashKey truncates a geohash to its leading hashKeyLength decimal digits.
// Two geohashes share a hash key iff their leading digits match, so one hash
// key spans a contiguous band of the S2 curve. For negative geohashes the
// sign occupies one additional digit, keeping truncation exact.
//
// A geohash shorter than hashKeyLength digits is returned unchanged.
func HashKey(geohash int64, hashKeyLength int) int64 {
	if geohash < 0 {
		hashKeyLength++
	}
	exp := len(strconv.FormatInt(geohash, 10)) - hashKeyLength
	if exp <= 0 {
		return geohash
	}
	return geohash / pow10(exp)
}

// Distance returns the great-circle distance in meters between two points.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	a := s2.LatLngFromDegrees(lat1, lng1)
	b := s2.LatLngFromDegrees(lat2, lng2)
	return a.Distance(b).Radians() * EarthRadiusMeters
}
