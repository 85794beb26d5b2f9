package geohash

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Covering parameters. MaxCells bounds the number of raw ranges produced per
// query before merging; the coverer picks cell levels to fit the region.
const (
	coveringMaxCells = 8
	coveringMaxLevel = 30
)

func newCoverer() *s2.RegionCoverer {
	return &s2.RegionCoverer{
		MinLevel: 0,
		MaxLevel: coveringMaxLevel,
		LevelMod: 1,
		MaxCells: coveringMaxCells,
	}
}

// CoverRadius returns a conservative covering of the circle with the given
// center and radius in meters, as ranges of leaf-cell geohashes. Every point
// within the circle falls into one of the ranges; points outside may too.
func CoverRadius(lat, lng, radiusMeters float64) ([]Range, error) {
	if !Valid(lat, lng) {
		return nil, &ErrInvalidCoordinates{Lat: lat, Lng: lng}
	}
	center := s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lng))
	angle := s1.Angle(radiusMeters / EarthRadiusMeters)
	region := s2.CapFromCenterAngle(center, angle)
	return cellRanges(newCoverer().Covering(region)), nil
}

// CoverRect returns a conservative covering of the lat/lng rectangle spanned
// by the two corner points.
func CoverRect(minLat, minLng, maxLat, maxLng float64) ([]Range, error) {
	if !Valid(minLat, minLng) {
		return nil, &ErrInvalidCoordinates{Lat: minLat, Lng: minLng}
	}
	if !Valid(maxLat, maxLng) {
		return nil, &ErrInvalidCoordinates{Lat: maxLat, Lng: maxLng}
	}
	rect := s2.EmptyRect().
		AddPoint(s2.LatLngFromDegrees(minLat, minLng)).
		AddPoint(s2.LatLngFromDegrees(maxLat, maxLng))
	return cellRanges(newCoverer().Covering(rect)), nil
}

// cellRanges converts covering cells to closed ranges of leaf-cell ids, in
// the order the coverer emitted them.
func cellRanges(union s2.CellUnion) []Range {
	ranges := make([]Range, 0, len(union))
	for _, c := range union {
		ranges = append(ranges, Range{
			Min: int64(c.RangeMin()),
			Max: int64(c.RangeMax()),
		})
	}
	return ranges
}
