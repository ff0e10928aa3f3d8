// Value codec properties: every supported type round-trips through its
// own strict accessor, and permissive access follows the standard
// numeric cast rules.
package cyclicdb

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueRoundTripStrict(t *testing.T) {
	cases := []struct {
		name   string
		v      Value
		typ    DataType
		want   any
		strict func(Value) (any, error)
	}{
		{"bool", BoolValue(true), DTBool, true, func(v Value) (any, error) { return v.StrictBool() }},
		{"int8", Int8Value(-7), DTInt8, int8(-7), func(v Value) (any, error) { return v.StrictInt8() }},
		{"uint8", Uint8Value(200), DTUint8, uint8(200), func(v Value) (any, error) { return v.StrictUint8() }},
		{"int16", Int16Value(-1000), DTInt16, int16(-1000), func(v Value) (any, error) { return v.StrictInt16() }},
		{"uint16", Uint16Value(50000), DTUint16, uint16(50000), func(v Value) (any, error) { return v.StrictUint16() }},
		{"int32", Int32Value(-100000), DTInt32, int32(-100000), func(v Value) (any, error) { return v.StrictInt32() }},
		{"uint32", Uint32Value(3000000000), DTUint32, uint32(3000000000), func(v Value) (any, error) { return v.StrictUint32() }},
		{"int64", Int64Value(-1 << 40), DTInt64, int64(-1 << 40), func(v Value) (any, error) { return v.StrictInt64() }},
		{"uint64", Uint64Value(1 << 63), DTUint64, uint64(1 << 63), func(v Value) (any, error) { return v.StrictUint64() }},
		{"float32", Float32Value(3.5), DTFloat32, float32(3.5), func(v Value) (any, error) { return v.StrictFloat32() }},
		{"float64", Float64Value(-2.25), DTFloat64, float64(-2.25), func(v Value) (any, error) { return v.StrictFloat64() }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.typ, tc.v.Type())
			require.True(t, tc.v.HasValue())
			require.False(t, tc.v.IsNull())
			got, err := tc.strict(tc.v)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestValueStrictBool(t *testing.T) {
	v := BoolValue(true)
	got, err := v.StrictBool()
	require.NoError(t, err)
	require.True(t, got)

	_, err = Int8Value(1).StrictBool()
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestValueStrictWrongTypeFails(t *testing.T) {
	v := Int16Value(5)
	_, err := v.StrictInt8()
	require.ErrorIs(t, err, ErrTypeMismatch)

	_, err = v.StrictFloat64()
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestValueStrictOnNullFailsNoValue(t *testing.T) {
	_, err := Null().StrictInt32()
	require.ErrorIs(t, err, ErrNoValue)

	_, err = Null().Int32()
	require.ErrorIs(t, err, ErrNoValue)
}

func TestValuePermissiveBoolConvertsToZeroOrOne(t *testing.T) {
	got, err := BoolValue(true).Int32()
	require.NoError(t, err)
	require.Equal(t, int32(1), got)

	got, err = BoolValue(false).Int32()
	require.NoError(t, err)
	require.Equal(t, int32(0), got)
}

func TestValuePermissiveIntegerTruncates(t *testing.T) {
	v := Int32Value(0x1FF)
	got, err := v.Int8()
	require.NoError(t, err)
	require.Equal(t, int8(-1), got)
}

func TestValuePermissiveFloatIntegerConversion(t *testing.T) {
	got, err := Float64Value(4.9).Int32()
	require.NoError(t, err)
	require.Equal(t, int32(4), got)

	got2, err := Int32Value(7).Float64()
	require.NoError(t, err)
	require.Equal(t, 7.0, got2)
}

func TestValueEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Value{
		BoolValue(true),
		Int8Value(-3),
		Uint16Value(9000),
		Int32Value(-70000),
		Uint64Value(math.MaxUint64),
		Float32Value(1.5),
		Float64Value(-9.25),
	}
	for _, v := range cases {
		buf := make([]byte, v.Type().byteSize())
		v.encode(buf)
		got := decodeValue(v.Type(), buf)
		require.Equal(t, v, got)
	}
}
