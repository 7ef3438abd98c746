package espn

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
)

// refURL reports whether an item is an indirection stub pointing at the real
// document.
func refURL(item map[string]any) (string, bool) {
	ref := getString(item, "$ref")
	return ref, ref != ""
}

// fetchRef dereferences one "$ref" URL with the shorter reference timeout.
// Concurrent fetches of the same URL are collapsed by the client's
// single-flight; team documents are additionally memoized after the first
// successful fetch.
func (c *Client) fetchRef(ctx context.Context, ref string) (map[string]any, error) {
	refCtx, cancel := context.WithTimeout(ctx, c.refTimeout)
	defer cancel()

	doc := map[string]any{}
	if _, err := c.doJSON(refCtx, ref, nil, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// resolveItems replaces indirection stubs with their referenced documents
// using a bounded worker pool. An item that fails to resolve is dropped, the
// rest of the batch survives. Output order equals input order no matter how
// the workers interleave.
func (c *Client) resolveItems(ctx context.Context, items []map[string]any) []map[string]any {
	resolved := make([]map[string]any, len(items))
	var dropped atomic.Int32

	pool, err := ants.NewPool(c.resolveWorkers)
	if err != nil {
		c.logger.WarnContext(ctx, "resolver pool unavailable, resolving sequentially", "error", err)
		pool = nil
	} else {
		defer pool.Release()
	}

	var workers sync.WaitGroup
	for i, item := range items {
		ref, ok := refURL(item)
		if !ok {
			resolved[i] = item
			continue
		}

		i, ref := i, ref
		task := func() {
			defer workers.Done()
			doc, err := c.fetchRef(ctx, ref)
			if err != nil {
				dropped.Add(1)
				c.logger.DebugContext(ctx, "reference resolution failed", "ref", ref, "error", err)
				return
			}
			resolved[i] = doc
		}

		workers.Add(1)
		if pool != nil {
			if err := pool.Submit(task); err != nil {
				workers.Done()
				dropped.Add(1)
			}
			continue
		}
		task()
	}
	workers.Wait()

	out := make([]map[string]any, 0, len(resolved))
	for _, item := range resolved {
		if item != nil {
			out = append(out, item)
		}
	}

	if n := dropped.Load(); n > 0 {
		c.logger.InfoContext(ctx, "dropped unresolvable items", "dropped", n, "kept", len(out))
	}
	return out
}
