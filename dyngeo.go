package dyngeo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/dyngeo/geohash"
)

// DynGeo manages geospatial data in a DynamoDB table. All operations are
// blocking and safe for concurrent use; the configuration is immutable after
// New returns.
type DynGeo struct {
	client    DynamoDBClient
	tableName string
	opts      options
}

// New creates a DynGeo around an existing DynamoDB client and table.
// The table and its geohash index must already exist; see doc.go for the
// expected layout.
func New(client DynamoDBClient, tableName string, optFns ...Option) (*DynGeo, error) {
	if client == nil {
		return nil, errors.New("dyngeo: client must not be nil")
	}
	if tableName == "" {
		return nil, errors.New("dyngeo: table name must not be empty")
	}

	opts := applyOptions(optFns)
	if opts.hashKeyLength < 1 || opts.hashKeyLength > 19 {
		return nil, fmt.Errorf("dyngeo: hash key length %d out of range [1,19]", opts.hashKeyLength)
	}
	if opts.maxFanOut < 0 {
		return nil, fmt.Errorf("dyngeo: max fan-out must not be negative")
	}

	return &DynGeo{
		client:    client,
		tableName: tableName,
		opts:      opts,
	}, nil
}

// PutPointInput describes a point write. RangeKey distinguishes points that
// share a hash key and is required. Attributes are stored verbatim alongside
// the managed attributes; attempting to supply a managed attribute is
// overridden by the computed value.
type PutPointInput struct {
	Point    GeoPoint
	RangeKey types.AttributeValue

	// HashKeyPrefix, when set, turns the hash key attribute into a string
	// prefixed with this value, partitioning the table into independent
	// namespaces. Queries must use the same prefix to see the point.
	HashKeyPrefix string

	Attributes map[string]types.AttributeValue
}

// PutPointOutput wraps the raw store response.
type PutPointOutput struct {
	*dynamodb.PutItemOutput
}

// PutPoint writes a single point. The write is a plain upsert: a row with
// the same primary key is overwritten, no uniqueness check is performed.
func (g *DynGeo) PutPoint(ctx context.Context, input PutPointInput) (*PutPointOutput, error) {
	start := time.Now()
	out, err := g.putPoint(ctx, input)
	g.opts.metrics.RecordPut(time.Since(start), err)
	return out, err
}

func (g *DynGeo) putPoint(ctx context.Context, input PutPointInput) (*PutPointOutput, error) {
	item, hashKey, err := g.buildPointItem(input)
	if err != nil {
		return nil, err
	}

	out, err := g.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(g.tableName),
		Item:      item,
	})
	if err != nil {
		err = newStoreError("put", err)
		g.opts.logger.LogPut(ctx, hashKey, err)
		return nil, err
	}

	g.opts.logger.LogPut(ctx, hashKey, nil)
	return &PutPointOutput{PutItemOutput: out}, nil
}

func (g *DynGeo) buildPointItem(input PutPointInput) (map[string]types.AttributeValue, int64, error) {
	if input.RangeKey == nil {
		return nil, 0, ErrMissingRangeKey
	}
	gh, err := geohash.Encode(input.Point.Lat, input.Point.Lng)
	if err != nil {
		return nil, 0, err
	}
	geoJSON, err := EncodeGeoJSON(input.Point)
	if err != nil {
		return nil, 0, err
	}

	hashKey := geohash.HashKey(gh, g.opts.hashKeyLength)
	return g.pointItem(input.HashKeyPrefix, hashKey, gh, input.RangeKey, geoJSON, input.Attributes), hashKey, nil
}

// BatchWritePointsInput describes a batch of point writes.
type BatchWritePointsInput struct {
	Points []PutPointInput
}

// BatchWritePointsOutput is returned by BatchWritePoints.
type BatchWritePointsOutput struct{}

// batchWriteChunkSize is DynamoDB's BatchWriteItem limit.
const batchWriteChunkSize = 25

// BatchWritePoints writes points in BatchWriteItem chunks. Inputs are
// validated up front, so no write is issued if any point is invalid.
// Unprocessed writes are resubmitted until the store accepts them.
func (g *DynGeo) BatchWritePoints(ctx context.Context, input BatchWritePointsInput) (*BatchWritePointsOutput, error) {
	start := time.Now()
	err := g.batchWritePoints(ctx, input.Points)
	g.opts.metrics.RecordBatchWrite(len(input.Points), time.Since(start), err)
	g.opts.logger.LogBatchWrite(ctx, len(input.Points), err)
	if err != nil {
		return nil, err
	}
	return &BatchWritePointsOutput{}, nil
}

func (g *DynGeo) batchWritePoints(ctx context.Context, points []PutPointInput) error {
	writes := make([]types.WriteRequest, 0, len(points))
	for _, p := range points {
		item, _, err := g.buildPointItem(p)
		if err != nil {
			return err
		}
		writes = append(writes, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
	}

	for len(writes) > 0 {
		chunk := writes
		if len(chunk) > batchWriteChunkSize {
			chunk = chunk[:batchWriteChunkSize]
		}
		if err := g.batchWrite(ctx, chunk); err != nil {
			return err
		}
		writes = writes[len(chunk):]
	}

	return nil
}

// GetPointInput identifies a single point row.
type GetPointInput struct {
	Point         GeoPoint
	RangeKey      types.AttributeValue
	HashKeyPrefix string
}

// GetPointOutput wraps the raw store response.
type GetPointOutput struct {
	*dynamodb.GetItemOutput
}

// GetPoint reads a single point row by its coordinates and range key.
func (g *DynGeo) GetPoint(ctx context.Context, input GetPointInput) (*GetPointOutput, error) {
	start := time.Now()
	out, err := g.getPoint(ctx, input)
	g.opts.metrics.RecordGet(time.Since(start), err)
	return out, err
}

func (g *DynGeo) getPoint(ctx context.Context, input GetPointInput) (*GetPointOutput, error) {
	key, err := g.buildPointKey(input.Point, input.RangeKey, input.HashKeyPrefix)
	if err != nil {
		return nil, err
	}

	out, err := g.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(g.tableName),
		Key:            key,
		ConsistentRead: aws.Bool(g.opts.consistentRead),
	})
	if err != nil {
		return nil, newStoreError("get", err)
	}
	return &GetPointOutput{GetItemOutput: out}, nil
}

// UpdatePointInput describes an attribute update on an existing point row.
type UpdatePointInput struct {
	Point         GeoPoint
	RangeKey      types.AttributeValue
	HashKeyPrefix string

	// Updates must not touch the managed attributes; updates to the hash
	// key, range key, geohash or GeoJSON attribute are silently discarded.
	// To move a point, put a new row and delete the old one.
	Updates map[string]types.AttributeValueUpdate
}

// UpdatePointOutput wraps the raw store response.
type UpdatePointOutput struct {
	*dynamodb.UpdateItemOutput
}

// UpdatePoint updates caller attributes of a point row in place.
func (g *DynGeo) UpdatePoint(ctx context.Context, input UpdatePointInput) (*UpdatePointOutput, error) {
	start := time.Now()
	out, err := g.updatePoint(ctx, input)
	g.opts.metrics.RecordUpdate(time.Since(start), err)
	return out, err
}

func (g *DynGeo) updatePoint(ctx context.Context, input UpdatePointInput) (*UpdatePointOutput, error) {
	key, err := g.buildPointKey(input.Point, input.RangeKey, input.HashKeyPrefix)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]types.AttributeValueUpdate, len(input.Updates))
	for k, v := range input.Updates {
		switch k {
		case g.opts.hashKeyAttributeName, g.opts.rangeKeyAttributeName,
			g.opts.geohashAttributeName, g.opts.geoJSONAttributeName:
			continue
		}
		updates[k] = v
	}

	out, err := g.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(g.tableName),
		Key:              key,
		AttributeUpdates: updates,
	})
	if err != nil {
		return nil, newStoreError("update", err)
	}
	return &UpdatePointOutput{UpdateItemOutput: out}, nil
}

// DeletePointInput identifies a single point row.
type DeletePointInput struct {
	Point         GeoPoint
	RangeKey      types.AttributeValue
	HashKeyPrefix string
}

// DeletePointOutput wraps the raw store response.
type DeletePointOutput struct {
	*dynamodb.DeleteItemOutput
}

// DeletePoint deletes a single point row.
func (g *DynGeo) DeletePoint(ctx context.Context, input DeletePointInput) (*DeletePointOutput, error) {
	start := time.Now()
	out, err := g.deletePoint(ctx, input)
	g.opts.metrics.RecordDelete(time.Since(start), err)
	return out, err
}

func (g *DynGeo) deletePoint(ctx context.Context, input DeletePointInput) (*DeletePointOutput, error) {
	key, err := g.buildPointKey(input.Point, input.RangeKey, input.HashKeyPrefix)
	if err != nil {
		return nil, err
	}

	out, err := g.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(g.tableName),
		Key:       key,
	})
	if err != nil {
		return nil, newStoreError("delete", err)
	}
	return &DeletePointOutput{DeleteItemOutput: out}, nil
}

func (g *DynGeo) buildPointKey(point GeoPoint, rangeKey types.AttributeValue, prefix string) (map[string]types.AttributeValue, error) {
	if rangeKey == nil {
		return nil, ErrMissingRangeKey
	}
	gh, err := geohash.Encode(point.Lat, point.Lng)
	if err != nil {
		return nil, err
	}
	return g.pointKey(prefix, geohash.HashKey(gh, g.opts.hashKeyLength), rangeKey), nil
}

// QueryRadius returns all points within RadiusMeters of the center,
// post-filtered by exact great-circle distance. The call either returns a
// complete result or fails with a single error; it never returns a partial
// result.
func (g *DynGeo) QueryRadius(ctx context.Context, input QueryRadiusInput) (*QueryOutput, error) {
	return g.query(ctx, radiusPredicate{
		center:       input.Center,
		radiusMeters: input.RadiusMeters,
		prefix:       input.HashKeyPrefix,
	})
}

// QueryRectangle returns all points within the rectangle spanned by MinPoint
// and MaxPoint, with the same all-or-nothing semantics as QueryRadius.
func (g *DynGeo) QueryRectangle(ctx context.Context, input QueryRectangleInput) (*QueryOutput, error) {
	return g.query(ctx, rectanglePredicate{
		min:    input.MinPoint,
		max:    input.MaxPoint,
		prefix: input.HashKeyPrefix,
	})
}

func (g *DynGeo) query(ctx context.Context, pred queryPredicate) (*QueryOutput, error) {
	start := time.Now()
	out, plans, err := g.runQuery(ctx, pred)

	filtered := 0
	items := 0
	if out != nil {
		filtered = out.Filtered
		items = len(out.Items)
	}
	g.opts.metrics.RecordQuery(plans, filtered, time.Since(start), err)
	g.opts.logger.LogQuery(ctx, pred.kind(), plans, items, filtered, err)

	return out, err
}

func (g *DynGeo) runQuery(ctx context.Context, pred queryPredicate) (*QueryOutput, int, error) {
	if err := pred.validate(); err != nil {
		return nil, 0, err
	}

	covering, err := pred.covering()
	if err != nil {
		return nil, 0, err
	}

	plans, err := planQueries(covering, g.opts.hashKeyLength, g.opts.maxFanOut)
	if err != nil {
		var fanOut *ErrFanOutExceeded
		if errors.As(err, &fanOut) {
			fanOut.Query = pred.describe()
		}
		return nil, 0, err
	}

	out, err := g.dispatchQueries(ctx, plans, pred)
	if err != nil {
		return nil, len(plans), fmt.Errorf("%s query failed: %w", pred.kind(), err)
	}

	return out, len(plans), nil
}
