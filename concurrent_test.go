// Concurrency safety: every public operation acquires the
// table's mutex for its duration and operations linearise in acquisition
// order. These tests drive many goroutines through a shared table via
// errgroup and check the engine never corrupts its own counters.
package cyclicdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestConcurrentAppendNextLinearises(t *testing.T) {
	table := newTestTable(t, 1000, 0, 0)

	group, _ := errgroup.WithContext(context.Background())
	const goroutines = 20
	const perGoroutine = 20

	for g := 0; g < goroutines; g++ {
		group.Go(func() error {
			for i := 0; i < perGoroutine; i++ {
				if _, err := table.AppendNext(nil); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, group.Wait())
	require.Equal(t, uint32(goroutines*perGoroutine), table.RecordCount())
	require.Equal(t, uint32(0), table.MinIndex())
	require.Equal(t, uint32(goroutines*perGoroutine-1), table.MaxIndex())
}

func TestConcurrentReadsDuringAppend(t *testing.T) {
	table := newTestTable(t, 500, 0, 0)
	for i := 0; i < 50; i++ {
		_, err := table.AppendNext(nil)
		require.NoError(t, err)
	}

	group, _ := errgroup.WithContext(context.Background())
	for r := 0; r < 10; r++ {
		group.Go(func() error {
			for i := 0; i < 50; i++ {
				if _, err := table.Get(0); err != nil {
					return err
				}
			}
			return nil
		})
	}
	for w := 0; w < 5; w++ {
		group.Go(func() error {
			for i := 0; i < 20; i++ {
				if _, err := table.AppendNext(nil); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, group.Wait())
	require.Equal(t, uint32(50+5*20-1), table.MaxIndex())
}
