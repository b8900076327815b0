package classify

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/blueraft/matid/internal/model"
)

// BatchItem pairs one structure's classification outcome with the error
// that aborted it, if any. Exactly one of Result and Err is set.
type BatchItem struct {
	Result *model.ClassificationResult
	Err    error
}

// ClassifyBatch classifies structures concurrently and returns the outcomes
// in input order. Classifications share no state, so one structure's fatal
// error never aborts its siblings. Parallelism at or below zero means one
// worker per available CPU.
func (c *Classifier) ClassifyBatch(ctx context.Context, structures []*model.Structure, parallelism int) []BatchItem {
	items := make([]BatchItem, len(structures))
	c.ClassifyEach(ctx, structures, parallelism, func(i int, item BatchItem) {
		items[i] = item
	})
	return items
}

// ClassifyEach classifies structures concurrently, invoking fn from the
// worker goroutine as each outcome becomes available. fn must be safe for
// concurrent use. Callers that need progress reporting or incremental
// persistence hook in here instead of waiting on ClassifyBatch.
func (c *Classifier) ClassifyEach(ctx context.Context, structures []*model.Structure, parallelism int, fn func(i int, item BatchItem)) {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	var grp errgroup.Group
	grp.SetLimit(parallelism)
	for i, s := range structures {
		grp.Go(func() error {
			result, err := c.Classify(ctx, s)
			fn(i, BatchItem{Result: result, Err: err})
			return nil
		})
	}
	// Workers report through fn and never return an error.
	_ = grp.Wait()
}
