package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/DocPhoto/internal/model"
)

// BatchItem is one sheet to produce from a photo file.
type BatchItem struct {
	Row    int    // Manifest row, for messages
	Source string // Photo path
	Output string // Sheet path
	Job    model.Job
}

// BatchResult reports the outcome of one item.
type BatchResult struct {
	Item   BatchItem
	Copies int
	Err    error
}

// RunBatch produces every item's sheet with at most concurrency runs in
// flight (GOMAXPROCS when <= 0). A failed item does not stop the others;
// its error is reported in its result. The returned error is only set when
// ctx ends the batch early.
func (p *Pipeline) RunBatch(ctx context.Context, items []BatchItem, concurrency int) ([]BatchResult, error) {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	results := make([]BatchResult, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, item := range items {
		results[i].Item = item
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return err
			}
			copies, err := p.runItem(ctx, item)
			results[i].Copies = copies
			results[i].Err = err
			if err != nil {
				p.logger().Error("batch item failed", "row", item.Row, "source", item.Source, "err", err)
				if ctx.Err() != nil {
					return ctx.Err()
				}
			}
			return nil // Don't fail the whole batch
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (p *Pipeline) runItem(ctx context.Context, item BatchItem) (int, error) {
	f, err := os.Open(item.Source)
	if err != nil {
		return 0, fmt.Errorf("%w: opening photo: %v", ErrInvalidInput, err)
	}
	defer f.Close()

	res, err := p.Run(ctx, f, item.Job)
	if err != nil {
		return 0, err
	}

	if dir := filepath.Dir(item.Output); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(item.Output, res.Data, 0644); err != nil {
		return 0, fmt.Errorf("writing sheet: %w", err)
	}
	return res.Cells, nil
}

// Failed returns the results that carry an error.
func Failed(results []BatchResult) []BatchResult {
	var failed []BatchResult
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
