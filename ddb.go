package dyngeo

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBClient is the subset of the DynamoDB API dyngeo uses. It is
// satisfied by *dynamodb.Client and easy to fake in tests.
type DynamoDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// hashKeyValue renders a hash key as a stored attribute value. Without a
// prefix the attribute is a number; with one it becomes a string so distinct
// prefixes never collide.
func hashKeyValue(prefix string, hashKey int64) types.AttributeValue {
	s := strconv.FormatInt(hashKey, 10)
	if prefix == "" {
		return &types.AttributeValueMemberN{Value: s}
	}
	return &types.AttributeValueMemberS{Value: prefix + s}
}

func geohashValue(geohash int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(geohash, 10)}
}

// pointKey is the primary key of a point row.
func (g *DynGeo) pointKey(prefix string, hashKey int64, rangeKey types.AttributeValue) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		g.opts.hashKeyAttributeName:  hashKeyValue(prefix, hashKey),
		g.opts.rangeKeyAttributeName: rangeKey,
	}
}

// pointItem builds the full row for a point: the caller's attributes plus the
// managed hash key, range key, geohash and GeoJSON attributes.
func (g *DynGeo) pointItem(prefix string, hashKey, geohash int64, rangeKey types.AttributeValue, geoJSON string, attributes map[string]types.AttributeValue) map[string]types.AttributeValue {
	item := make(map[string]types.AttributeValue, len(attributes)+4)
	for k, v := range attributes {
		item[k] = v
	}
	item[g.opts.hashKeyAttributeName] = hashKeyValue(prefix, hashKey)
	item[g.opts.rangeKeyAttributeName] = rangeKey
	item[g.opts.geohashAttributeName] = geohashValue(geohash)
	item[g.opts.geoJSONAttributeName] = &types.AttributeValueMemberS{Value: geoJSON}
	return item
}

// queryGeohash runs one query plan to completion, chaining continuation keys
// until the store reports no more pages. Cancellation is observed at page
// boundaries: once ctx is done no further page request is issued.
func (g *DynGeo) queryGeohash(ctx context.Context, plan queryPlan, prefix string) ([]*dynamodb.QueryOutput, error) {
	var pages []*dynamodb.QueryOutput
	var startKey map[string]types.AttributeValue

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if g.opts.pageLimiter != nil {
			if err := g.opts.pageLimiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		out, err := g.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(g.tableName),
			IndexName:              aws.String(g.opts.geohashIndexName),
			ConsistentRead:         aws.Bool(g.opts.consistentRead),
			KeyConditionExpression: aws.String("#hk = :hk AND #gh BETWEEN :min AND :max"),
			ExpressionAttributeNames: map[string]string{
				"#hk": g.opts.hashKeyAttributeName,
				"#gh": g.opts.geohashAttributeName,
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":hk":  hashKeyValue(prefix, plan.hashKey),
				":min": geohashValue(plan.r.Min),
				":max": geohashValue(plan.r.Max),
			},
			ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
			ExclusiveStartKey:      startKey,
		})
		if err != nil {
			return nil, newStoreError("query", err)
		}

		pages = append(pages, out)

		if len(out.LastEvaluatedKey) == 0 {
			return pages, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// batchWrite submits one BatchWriteItem chunk, resubmitting unprocessed
// writes until the store accepts them all.
func (g *DynGeo) batchWrite(ctx context.Context, writes []types.WriteRequest) error {
	requests := map[string][]types.WriteRequest{g.tableName: writes}

	for len(requests[g.tableName]) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		out, err := g.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: requests,
		})
		if err != nil {
			return newStoreError("batch write", err)
		}

		if len(out.UnprocessedItems) == 0 {
			return nil
		}
		requests = out.UnprocessedItems
	}

	return nil
}
