package dyngeo

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/dyngeo/geohash"
)

// QueryRadiusInput describes a circular query region.
type QueryRadiusInput struct {
	Center       GeoPoint
	RadiusMeters float64

	// HashKeyPrefix must match the prefix the points were written with, if
	// any. See PutPointInput.HashKeyPrefix.
	HashKeyPrefix string
}

// QueryRectangleInput describes a latitude/longitude aligned rectangle.
// MinPoint is the south-west corner, MaxPoint the north-east corner.
type QueryRectangleInput struct {
	MinPoint GeoPoint
	MaxPoint GeoPoint

	HashKeyPrefix string
}

// QueryOutput is the all-or-nothing result of a fan-out query.
type QueryOutput struct {
	// Items are the candidate rows that survived the geometric filter.
	// No ordering is guaranteed across partitions.
	Items []map[string]types.AttributeValue

	// Responses holds the raw per-page store responses, for consumed-capacity
	// accounting and diagnostics.
	Responses []*dynamodb.QueryOutput

	// Filtered counts candidate rows excluded by the geometric filter,
	// including rows whose coordinates could not be recovered.
	Filtered int
}

// queryPredicate is the tagged variant over query-region kinds. The geometric
// filter dispatches on the concrete type.
type queryPredicate interface {
	// covering returns the conservative covering of the region as geohash
	// ranges in the same space as geohash.Encode.
	covering() ([]geohash.Range, error)

	validate() error
	hashKeyPrefix() string
	kind() string

	// describe renders the region parameters for error messages.
	describe() string
}

type radiusPredicate struct {
	center       GeoPoint
	radiusMeters float64
	prefix       string
}

func (p radiusPredicate) validate() error {
	if err := p.center.Validate(); err != nil {
		return err
	}
	if p.radiusMeters <= 0 {
		return ErrNonPositiveRadius
	}
	return nil
}

func (p radiusPredicate) covering() ([]geohash.Range, error) {
	return geohash.CoverRadius(p.center.Lat, p.center.Lng, p.radiusMeters)
}

func (p radiusPredicate) hashKeyPrefix() string { return p.prefix }
func (p radiusPredicate) kind() string          { return "radius" }

func (p radiusPredicate) describe() string {
	return fmt.Sprintf("radius %gm around (%g, %g)", p.radiusMeters, p.center.Lat, p.center.Lng)
}

type rectanglePredicate struct {
	min    GeoPoint
	max    GeoPoint
	prefix string
}

func (p rectanglePredicate) validate() error {
	if err := p.min.Validate(); err != nil {
		return err
	}
	if err := p.max.Validate(); err != nil {
		return err
	}
	if p.min.Lat > p.max.Lat || p.min.Lng > p.max.Lng {
		return ErrInvalidRectangle
	}
	return nil
}

func (p rectanglePredicate) covering() ([]geohash.Range, error) {
	return geohash.CoverRect(p.min.Lat, p.min.Lng, p.max.Lat, p.max.Lng)
}

func (p rectanglePredicate) hashKeyPrefix() string { return p.prefix }
func (p rectanglePredicate) kind() string          { return "rectangle" }

func (p rectanglePredicate) describe() string {
	return fmt.Sprintf("rectangle (%g, %g) to (%g, %g)", p.min.Lat, p.min.Lng, p.max.Lat, p.max.Lng)
}
