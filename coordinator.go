package dyngeo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"golang.org/x/sync/errgroup"
)

// planResult is one task's private slice of the overall result. Tasks never
// share mutable state; slots are merged after the group finishes.
type planResult struct {
	pages   []*dynamodb.QueryOutput
	items   []map[string]types.AttributeValue
	skipped int
}

// dispatchQueries executes every plan concurrently and aggregates the
// filtered results. The first failing plan cancels the group's context;
// sibling plans observe the cancellation at their next page boundary and
// stop. On any failure no partial result is returned.
func (g *DynGeo) dispatchQueries(ctx context.Context, plans []queryPlan, pred queryPredicate) (*QueryOutput, error) {
	group, ctx := errgroup.WithContext(ctx)
	results := make([]planResult, len(plans))

	for i, plan := range plans {
		i, plan := i, plan
		group.Go(func() error {
			pages, err := g.queryGeohash(ctx, plan, pred.hashKeyPrefix())
			if err != nil {
				return err
			}

			slot := &results[i]
			slot.pages = pages
			for _, page := range pages {
				kept, skipped := g.filterItems(ctx, page.Items, pred)
				slot.items = append(slot.items, kept...)
				slot.skipped += skipped
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	out := &QueryOutput{}
	for i := range results {
		out.Items = append(out.Items, results[i].items...)
		out.Responses = append(out.Responses, results[i].pages...)
		out.Filtered += results[i].skipped
	}

	return out, nil
}
