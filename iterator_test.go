package cyclicdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIteratorWalksOccupiedRange(t *testing.T) {
	table := newTestTable(t, 10, 0, 0)
	for i := 0; i < 5; i++ {
		rec := table.NewRecord()
		require.NoError(t, rec.Set(0, Int8Value(int8(i))))
		_, err := table.AppendNext(rec)
		require.NoError(t, err)
	}

	it := table.Records()
	var got []uint32
	for !it.Done() {
		idx := it.Index()
		rec, err := it.Next()
		require.NoError(t, err)
		v, _ := rec.Get(0)
		got8, _ := v.StrictInt8()
		require.Equal(t, int8(idx), got8)
		got = append(got, idx)
	}
	require.Equal(t, []uint32{0, 1, 2, 3, 4}, got)
}

func TestIteratorOnEmptyTableIsImmediatelyDone(t *testing.T) {
	table := newTestTable(t, 10, 0, 0)
	it := table.Records()
	require.True(t, it.Done())
	_, err := it.Next()
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestIteratorAllRangesOverEveryRecord(t *testing.T) {
	table := newTestTable(t, 10, 0, 0)
	for i := 0; i < 3; i++ {
		_, err := table.AppendNext(nil)
		require.NoError(t, err)
	}

	count := 0
	for _, err := range table.Records().All() {
		require.NoError(t, err)
		count++
	}
	require.Equal(t, 3, count)
}

func TestIteratorEquality(t *testing.T) {
	table := newTestTable(t, 10, 0, 0)
	_, err := table.AppendNext(nil)
	require.NoError(t, err)

	a := table.Records()
	b := table.Records()
	require.True(t, a.Equal(b))

	_, err = a.Next()
	require.NoError(t, err)
	require.False(t, a.Equal(b))
}
