// Package dyngeo implements a geospatial secondary index on top of Amazon
// DynamoDB.
//
// DynamoDB only supports exact-match hash-key lookups combined with range-key
// scans. Dyngeo layers 2-D locality on top of that model:
//
//   - Every point is encoded as a 64-bit geohash (an S2 leaf-cell id) stored
//     in the range key of a geohash index, plus a bounded-cardinality hash
//     key derived from the geohash's leading digits.
//   - A radius or rectangle query is turned into a covering set of geohash
//     ranges, which are merged, split at hash-key boundaries and executed as
//     parallel range queries against the table.
//   - Because the covering is conservative, candidate rows are post-filtered
//     by exact great-circle distance (or rectangle containment) before they
//     are returned.
//
// # Quick Start
//
// Create a manager around an existing DynamoDB client and table:
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	geo, err := dyngeo.New(dynamodb.NewFromConfig(cfg), "geo-table")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Insert a point together with arbitrary caller attributes:
//
//	_, err = geo.PutPoint(ctx, dyngeo.PutPointInput{
//	    Point:    dyngeo.GeoPoint{Lat: 47.5, Lng: -122.3},
//	    RangeKey: &types.AttributeValueMemberS{Value: "venue-4711"},
//	    Attributes: map[string]types.AttributeValue{
//	        "title": &types.AttributeValueMemberS{Value: "Space Needle"},
//	    },
//	})
//
// Query all points within 100 meters:
//
//	out, err := geo.QueryRadius(ctx, dyngeo.QueryRadiusInput{
//	    Center:       dyngeo.GeoPoint{Lat: 47.5, Lng: -122.3},
//	    RadiusMeters: 100,
//	})
//	for _, item := range out.Items {
//	    fmt.Println(item)
//	}
//
// # Table Layout
//
// Dyngeo does not create tables. The expected layout is a hash key attribute
// (number, or string when a hash-key prefix is used), a caller-chosen range
// key, and a local secondary index over the geohash attribute:
//
//	aws dynamodb create-table \
//	  --table-name geo-table \
//	  --attribute-definitions \
//	      AttributeName=hashKey,AttributeType=N \
//	      AttributeName=rangeKey,AttributeType=S \
//	      AttributeName=geohash,AttributeType=N \
//	  --key-schema AttributeName=hashKey,KeyType=HASH AttributeName=rangeKey,KeyType=RANGE \
//	  --local-secondary-indexes 'IndexName=geohash-index,KeySchema=[{AttributeName=hashKey,KeyType=HASH},{AttributeName=geohash,KeyType=RANGE}],Projection={ProjectionType=ALL}' \
//	  --billing-mode PAY_PER_REQUEST
//
// # Tuning
//
// WithHashKeyLength controls the space/fan-out trade-off: longer hash keys
// mean more, smaller partitions and therefore more parallel queries per
// request. WithMaxFanOut caps how many parallel queries a single request may
// issue; requests that would exceed the cap fail before any store call with
// *ErrFanOutExceeded.
package dyngeo
