package dyngeo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/dyngeo/geohash"
)

// filterItems keeps the candidate rows that truly satisfy the query
// predicate. The index covering is conservative, so rows outside the region
// are expected and silently dropped. Rows whose coordinates cannot be
// recovered are dropped too; a corrupt row must not fail the whole query.
// skipped counts both kinds of exclusions.
func (g *DynGeo) filterItems(ctx context.Context, items []map[string]types.AttributeValue, pred queryPredicate) (kept []map[string]types.AttributeValue, skipped int) {
	for _, item := range items {
		point, ok := g.recoverPoint(ctx, item)
		if !ok {
			skipped++
			continue
		}

		var inside bool
		switch p := pred.(type) {
		case radiusPredicate:
			inside = geohash.Distance(p.center.Lat, p.center.Lng, point.Lat, point.Lng) <= p.radiusMeters
		case rectanglePredicate:
			inside = point.Lat >= p.min.Lat && point.Lat <= p.max.Lat &&
				point.Lng >= p.min.Lng && point.Lng <= p.max.Lng
		}

		if inside {
			kept = append(kept, item)
		} else {
			skipped++
		}
	}

	return kept, skipped
}

// recoverPoint reads a row's coordinates back from its GeoJSON attribute.
func (g *DynGeo) recoverPoint(ctx context.Context, item map[string]types.AttributeValue) (GeoPoint, bool) {
	attr, ok := item[g.opts.geoJSONAttributeName]
	if !ok {
		g.opts.logger.LogSkippedItem(ctx, "missing geojson attribute")
		return GeoPoint{}, false
	}
	s, ok := attr.(*types.AttributeValueMemberS)
	if !ok {
		g.opts.logger.LogSkippedItem(ctx, "geojson attribute is not a string")
		return GeoPoint{}, false
	}
	point, err := DecodeGeoJSON(s.Value)
	if err != nil {
		g.opts.logger.LogSkippedItem(ctx, "malformed geojson attribute")
		return GeoPoint{}, false
	}
	return point, true
}
