// Create+append+reopen and the general file round-trip
// property.
package cyclicdb

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func wideSchema(t *testing.T) *Schema {
	t.Helper()
	schema, err := NewSchema([]FieldSpec{
		{Name: "b", Type: DTBool},
		{Name: "i8", Type: DTInt8},
		{Name: "u8", Type: DTUint8},
		{Name: "i16", Type: DTInt16},
		{Name: "u16", Type: DTUint16},
		{Name: "i32", Type: DTInt32},
		{Name: "u32", Type: DTUint32},
		{Name: "i64", Type: DTInt64},
		{Name: "u64", Type: DTUint64},
		{Name: "f32", Type: DTFloat32},
		{Name: "f64", Type: DTFloat64},
	})
	require.NoError(t, err)
	return schema
}

func TestCreateAppendReopenPreservesRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario1.cydb")
	schema := wideSchema(t)

	table, err := CreateFileTable(path, schema, 20, 0, 0, DefaultConfig())
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		rec := table.NewRecord()
		require.NoError(t, rec.SetByName("i32", Int32Value(int32(i))))
		if i == 7 {
			require.NoError(t, rec.SetByName("f32", Float32Value(float32(math.Inf(1)))))
			require.NoError(t, rec.SetByName("f64", Float64Value(math.NaN())))
		}
		_, err := table.AppendNext(rec)
		require.NoError(t, err)
	}
	require.NoError(t, table.Close())

	reopened, err := OpenFileTable(path, DefaultConfig())
	require.NoError(t, err)
	defer reopened.Close()

	require.Equal(t, uint32(8), reopened.RecordCount())

	rec, err := reopened.Get(7)
	require.NoError(t, err)

	f32v, err := rec.GetByName("f32")
	require.NoError(t, err)
	f32, err := f32v.StrictFloat32()
	require.NoError(t, err)
	require.True(t, math.IsInf(float64(f32), 1))

	f64v, err := rec.GetByName("f64")
	require.NoError(t, err)
	f64, err := f64v.StrictFloat64()
	require.NoError(t, err)
	require.True(t, math.IsNaN(f64))
}

func TestFileRoundTripPreservesEveryField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundtrip.cydb")
	schema := wideSchema(t)

	table, err := CreateFileTable(path, schema, 16, 100, 5, DefaultConfig())
	require.NoError(t, err)

	want := make(map[uint32]*Record)
	for i := 0; i < 12; i++ {
		rec := table.NewRecord()
		require.NoError(t, rec.SetByName("i8", Int8Value(int8(i))))
		require.NoError(t, rec.SetByName("u64", Uint64Value(uint64(i)*7)))
		idx, err := table.AppendNext(rec)
		require.NoError(t, err)
		want[idx] = rec
	}
	require.NoError(t, table.Close())

	reopened, err := OpenFileTable(path, DefaultConfig())
	require.NoError(t, err)
	defer reopened.Close()

	require.Equal(t, table.FieldCount(), reopened.FieldCount())
	require.Equal(t, uint32(12), reopened.RecordCount())

	for idx, wantRec := range want {
		gotRec, err := reopened.Get(idx)
		require.NoError(t, err)

		wv, _ := wantRec.GetByName("i8")
		gv, _ := gotRec.GetByName("i8")
		wantI8, _ := wv.StrictInt8()
		gotI8, _ := gv.StrictInt8()
		require.Equal(t, wantI8, gotI8)

		wv2, _ := wantRec.GetByName("u64")
		gv2, _ := gotRec.GetByName("u64")
		wantU64, _ := wv2.StrictUint64()
		gotU64, _ := gv2.StrictUint64()
		require.Equal(t, wantU64, gotU64)
	}
}

func TestOpenFileTableBadMagicFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.cydb")
	junk := make([]byte, fieldDescOffset)
	copy(junk, "NOPE01 this is not a cyclicdb header")
	require.NoError(t, os.WriteFile(path, junk, 0o644))

	_, err := OpenFileTable(path, DefaultConfig())
	require.ErrorIs(t, err, ErrBadFormat)
}

func TestCreateFileTableRefusesExistingPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exists.cydb")
	schema := wideSchema(t)

	_, err := CreateFileTable(path, schema, 4, 0, 0, DefaultConfig())
	require.NoError(t, err)

	_, err = CreateFileTable(path, schema, 4, 0, 0, DefaultConfig())
	require.Error(t, err)
}
