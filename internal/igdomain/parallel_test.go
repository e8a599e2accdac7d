package igdomain

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTriples(n int) []Triple {
	out := make([]Triple, n)
	for i := range n {
		out[i] = Triple{StructureID: fmt.Sprintf("%04d", i), Chain: "A", Domain: "1"}
	}
	return out
}

// echoResolve returns a descriptor keyed by the triple, sleeping a little
// for even structures so results arrive out of order.
func echoResolve(_ context.Context, t Triple) (*Descriptor, error) {
	n, _ := strconv.Atoi(t.StructureID)
	if n%2 == 0 {
		time.Sleep(time.Millisecond)
	}
	return &Descriptor{Key: t.Key(), Found: true}, nil
}

func TestParallelResolve_OrderPreservation(t *testing.T) {
	triples := makeTriples(200)
	results := ParallelResolve(context.Background(), Queue(triples), 8, echoResolve)

	var collected []int
	err := OrderedCollect(results, func(r WorkResult) error {
		require.NoError(t, r.Err)
		assert.Equal(t, r.Triple.Key(), r.Desc.Key)
		collected = append(collected, r.Seq)
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, collected, 200)
	for i, seq := range collected {
		assert.Equal(t, i, seq, "result %d out of order", i)
	}
}

func TestParallelResolve_SingleWorker(t *testing.T) {
	results := ParallelResolve(context.Background(), Queue(makeTriples(20)), 1, echoResolve)

	count := 0
	require.NoError(t, OrderedCollect(results, func(r WorkResult) error {
		assert.Equal(t, count, r.Seq)
		count++
		return nil
	}))
	assert.Equal(t, 20, count)
}

func TestParallelResolve_Errors(t *testing.T) {
	failOdd := func(_ context.Context, t Triple) (*Descriptor, error) {
		n, _ := strconv.Atoi(t.StructureID)
		if n%2 == 1 {
			return nil, errors.New("boom")
		}
		return &Descriptor{Key: t.Key()}, nil
	}
	results := ParallelResolve(context.Background(), Queue(makeTriples(10)), 0, failOdd)

	var failed int
	require.NoError(t, OrderedCollect(results, func(r WorkResult) error {
		if r.Err != nil {
			failed++
			assert.Nil(t, r.Desc)
		}
		return nil
	}))
	assert.Equal(t, 5, failed)
}

func TestParallelResolve_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	fn := func(context.Context, Triple) (*Descriptor, error) {
		called = true
		return nil, nil
	}
	results := ParallelResolve(ctx, Queue(makeTriples(5)), 1, fn)

	require.NoError(t, OrderedCollect(results, func(r WorkResult) error {
		assert.ErrorIs(t, r.Err, context.Canceled)
		return nil
	}))
	assert.False(t, called)
}

func TestOrderedCollect_StopsOnError(t *testing.T) {
	results := ParallelResolve(context.Background(), Queue(makeTriples(50)), 4, echoResolve)

	seen := 0
	err := OrderedCollect(results, func(r WorkResult) error {
		seen++
		if r.Seq == 9 {
			return errors.New("stop")
		}
		return nil
	})
	require.EqualError(t, err, "stop")
	assert.Equal(t, 10, seen)
}
