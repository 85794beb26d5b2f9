package dyngeo

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDDB is an in-memory DynamoDBClient good enough for the query shapes
// dyngeo issues: it stores rows verbatim and evaluates hash-key equality plus
// geohash between-conditions, with optional pagination.
type fakeDDB struct {
	mu       sync.Mutex
	items    []map[string]types.AttributeValue
	pageSize int

	queryCalls  atomic.Int32
	failOnQuery int32 // 1-based query call that fails; 0 = never
	queryErr    error

	lastGet    *dynamodb.GetItemInput
	lastUpdate *dynamodb.UpdateItemInput
	lastDelete *dynamodb.DeleteItemInput
	batchCalls [][]types.WriteRequest

	// unprocessedOnce makes the first BatchWriteItem call hand back its last
	// write as unprocessed.
	unprocessedOnce bool
}

func attrEqual(a, b types.AttributeValue) bool {
	switch av := a.(type) {
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		return ok && av.Value == bv.Value
	}
	return false
}

func attrInt(a types.AttributeValue) (int64, bool) {
	n, ok := a.(*types.AttributeValueMemberN)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (f *fakeDDB) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDDB) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastGet = params
	for _, item := range f.items {
		match := true
		for k, v := range params.Key {
			if !attrEqual(item[k], v) {
				match = false
				break
			}
		}
		if match {
			return &dynamodb.GetItemOutput{Item: item}, nil
		}
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (f *fakeDDB) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastUpdate = params
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDDB) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastDelete = params
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDDB) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for table, writes := range params.RequestItems {
		f.batchCalls = append(f.batchCalls, writes)

		unprocessed := 0
		if f.unprocessedOnce && len(f.batchCalls) == 1 && len(writes) > 1 {
			unprocessed = 1
		}
		for _, w := range writes[:len(writes)-unprocessed] {
			if w.PutRequest != nil {
				f.items = append(f.items, w.PutRequest.Item)
			}
		}
		if unprocessed > 0 {
			return &dynamodb.BatchWriteItemOutput{
				UnprocessedItems: map[string][]types.WriteRequest{
					table: writes[len(writes)-unprocessed:],
				},
			}, nil
		}
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}

func (f *fakeDDB) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	call := f.queryCalls.Add(1)
	if f.failOnQuery != 0 && call == f.failOnQuery {
		return nil, f.queryErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	hkName := params.ExpressionAttributeNames["#hk"]
	ghName := params.ExpressionAttributeNames["#gh"]
	hk := params.ExpressionAttributeValues[":hk"]
	minGH, _ := attrInt(params.ExpressionAttributeValues[":min"])
	maxGH, _ := attrInt(params.ExpressionAttributeValues[":max"])

	var matched []map[string]types.AttributeValue
	for _, item := range f.items {
		if !attrEqual(item[hkName], hk) {
			continue
		}
		gh, ok := attrInt(item[ghName])
		if !ok || gh < minGH || gh > maxGH {
			continue
		}
		matched = append(matched, item)
	}
	sort.Slice(matched, func(i, j int) bool {
		a, _ := attrInt(matched[i][ghName])
		b, _ := attrInt(matched[j][ghName])
		return a < b
	})

	start := 0
	if len(params.ExclusiveStartKey) > 0 {
		after, _ := attrInt(params.ExclusiveStartKey[ghName])
		for start < len(matched) {
			gh, _ := attrInt(matched[start][ghName])
			if gh > after {
				break
			}
			start++
		}
	}

	end := len(matched)
	if f.pageSize > 0 && end-start > f.pageSize {
		end = start + f.pageSize
	}

	out := &dynamodb.QueryOutput{Items: matched[start:end]}
	if end < len(matched) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			ghName: matched[end-1][ghName],
		}
	}
	return out, nil
}
