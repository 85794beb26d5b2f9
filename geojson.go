package dyngeo

import (
	"encoding/json"
	"fmt"

	"github.com/hupe1980/dyngeo/geohash"
)

// GeoPoint is an immutable WGS84 coordinate pair in degrees.
type GeoPoint struct {
	Lat float64
	Lng float64
}

// Validate returns an error if the point lies outside the WGS84 domain.
func (p GeoPoint) Validate() error {
	if !geohash.Valid(p.Lat, p.Lng) {
		return &ErrInvalidCoordinates{Lat: p.Lat, Lng: p.Lng}
	}
	return nil
}

// geoJSON is the stored representation of a point. The coordinate order is
// [lat, lng], matching rows written by the AWS dynamodb-geo library so
// existing tables stay readable.
type geoJSON struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// EncodeGeoJSON returns the stored GeoJSON string for a point.
func EncodeGeoJSON(p GeoPoint) (string, error) {
	raw, err := json.Marshal(geoJSON{
		Type:        "POINT",
		Coordinates: [2]float64{p.Lat, p.Lng},
	})
	if err != nil {
		return "", fmt.Errorf("encode geojson: %w", err)
	}
	return string(raw), nil
}

// DecodeGeoJSON parses a stored GeoJSON string back into a point.
func DecodeGeoJSON(s string) (GeoPoint, error) {
	var g geoJSON
	if err := json.Unmarshal([]byte(s), &g); err != nil {
		return GeoPoint{}, fmt.Errorf("decode geojson: %w", err)
	}
	p := GeoPoint{Lat: g.Coordinates[0], Lng: g.Coordinates[1]}
	if err := p.Validate(); err != nil {
		return GeoPoint{}, err
	}
	return p, nil
}
