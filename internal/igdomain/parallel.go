package igdomain

import (
	"context"
	"runtime"
	"sync"
)

// WorkItem is a triple queued for resolution; Seq is its input position.
type WorkItem struct {
	Seq    int
	Triple Triple
}

// WorkResult is the outcome of resolving one WorkItem.
type WorkResult struct {
	Seq    int
	Triple Triple
	Desc   *Descriptor
	Err    error
}

// ResolveFunc resolves one triple. It must be safe for concurrent use.
type ResolveFunc func(ctx context.Context, t Triple) (*Descriptor, error)

// Queue returns a closed channel holding one WorkItem per triple, numbered
// in input order.
func Queue(triples []Triple) <-chan WorkItem {
	ch := make(chan WorkItem, len(triples))
	for i, t := range triples {
		ch <- WorkItem{Seq: i, Triple: t}
	}
	close(ch)
	return ch
}

// ParallelResolve drains items with workers goroutines (one per CPU when
// workers <= 0). Every item yields exactly one WorkResult; once ctx is done
// the remaining items fail with ctx.Err() without calling fn. Results arrive
// in completion order and the channel closes after the last one.
func ParallelResolve(ctx context.Context, items <-chan WorkItem, workers int, fn ResolveFunc) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	out := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range items {
				out <- resolveItem(ctx, item, fn)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

func resolveItem(ctx context.Context, item WorkItem, fn ResolveFunc) WorkResult {
	res := WorkResult{Seq: item.Seq, Triple: item.Triple}
	if res.Err = ctx.Err(); res.Err != nil {
		return res
	}
	res.Desc, res.Err = fn(ctx, item.Triple)
	return res
}

// OrderedCollect hands results to fn in Seq order, holding back any that
// arrive early. If fn fails, the rest of the channel is discarded so the
// workers can finish, and the error is returned.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	held := make(map[int]WorkResult)
	next := 0

	for r := range results {
		held[r.Seq] = r
		for {
			ready, ok := held[next]
			if !ok {
				break
			}
			delete(held, next)
			next++
			if err := fn(ready); err != nil {
				for range results {
				}
				return err
			}
		}
	}
	return nil
}
