// The Value sum type and its strict/permissive accessors.
//
// A Value holds exactly one of twelve variants: null, bool, signed and
// unsigned integers of width {8,16,32,64}, and IEEE-754 float32/float64.
// The zero Value is null. Numeric variants are kept as a raw bit pattern
// plus a type tag so that every accessor is a cheap reinterpretation.
package cyclicdb

import "math"

// DataType identifies the variant held by a Value or declared by a Field.
// Values match the on-disk type codes exactly.
type DataType int16

// Type codes, matching the on-disk layout byte for byte.
const (
	DTUnspecified DataType = -1
	DTVoid        DataType = 0
	DTBool        DataType = 1
	DTInt8        DataType = 2
	DTUint8       DataType = 3
	DTInt16       DataType = 4
	DTUint16      DataType = 5
	DTInt32       DataType = 6
	DTUint32      DataType = 7
	DTInt64       DataType = 8
	DTUint64      DataType = 9
	DTFloat32     DataType = 10
	DTFloat64     DataType = 11
)

func (t DataType) String() string {
	switch t {
	case DTUnspecified:
		return "unspecified"
	case DTVoid:
		return "void"
	case DTBool:
		return "bool"
	case DTInt8:
		return "i8"
	case DTUint8:
		return "u8"
	case DTInt16:
		return "i16"
	case DTUint16:
		return "u16"
	case DTInt32:
		return "i32"
	case DTUint32:
		return "u32"
	case DTInt64:
		return "i64"
	case DTUint64:
		return "u64"
	case DTFloat32:
		return "f32"
	case DTFloat64:
		return "f64"
	default:
		return "invalid"
	}
}

// byteSize returns the on-disk size of t, or 0 for types with no fixed
// representation (DTVoid, DTUnspecified).
func (t DataType) byteSize() uint16 {
	switch t {
	case DTBool, DTInt8, DTUint8:
		return 1
	case DTInt16, DTUint16:
		return 2
	case DTInt32, DTUint32, DTFloat32:
		return 4
	case DTInt64, DTUint64, DTFloat64:
		return 8
	default:
		return 0
	}
}

// Value is a tagged union over the twelve supported variants. The zero
// value is null.
type Value struct {
	typ  DataType
	bits uint64
}

// Null returns the null Value.
func Null() Value { return Value{typ: DTVoid} }

// BoolValue returns a Value holding a bool.
func BoolValue(v bool) Value {
	if v {
		return Value{typ: DTBool, bits: 1}
	}
	return Value{typ: DTBool, bits: 0}
}

// Int8Value returns a Value holding an int8.
func Int8Value(v int8) Value { return Value{typ: DTInt8, bits: uint64(uint8(v))} }

// Uint8Value returns a Value holding a uint8.
func Uint8Value(v uint8) Value { return Value{typ: DTUint8, bits: uint64(v)} }

// Int16Value returns a Value holding an int16.
func Int16Value(v int16) Value { return Value{typ: DTInt16, bits: uint64(uint16(v))} }

// Uint16Value returns a Value holding a uint16.
func Uint16Value(v uint16) Value { return Value{typ: DTUint16, bits: uint64(v)} }

// Int32Value returns a Value holding an int32.
func Int32Value(v int32) Value { return Value{typ: DTInt32, bits: uint64(uint32(v))} }

// Uint32Value returns a Value holding a uint32.
func Uint32Value(v uint32) Value { return Value{typ: DTUint32, bits: uint64(v)} }

// Int64Value returns a Value holding an int64.
func Int64Value(v int64) Value { return Value{typ: DTInt64, bits: uint64(v)} }

// Uint64Value returns a Value holding a uint64.
func Uint64Value(v uint64) Value { return Value{typ: DTUint64, bits: v} }

// Float32Value returns a Value holding a float32.
func Float32Value(v float32) Value { return Value{typ: DTFloat32, bits: uint64(math.Float32bits(v))} }

// Float64Value returns a Value holding a float64.
func Float64Value(v float64) Value { return Value{typ: DTFloat64, bits: math.Float64bits(v)} }

// Type reports which variant v holds.
func (v Value) Type() DataType { return v.typ }

// IsNull reports whether v holds no value.
func (v Value) IsNull() bool { return v.typ == DTVoid }

// HasValue reports whether v holds a value (the complement of IsNull).
func (v Value) HasValue() bool { return v.typ != DTVoid }

// numeric lists the underlying kinds permissive/strict accessors convert
// between. Conversions between any pair of these kinds are ordinary Go
// numeric conversions, so a single generic body covers every accessor.
type numeric interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// permissive converts v to T using the standard numeric cast rules:
// booleans read as 0/1, integers truncate, floats convert via the usual
// float<->integer conversion. Null fails with ErrNoValue.
func permissive[T numeric](v Value) (T, error) {
	switch v.typ {
	case DTVoid:
		return 0, ErrNoValue
	case DTBool:
		if v.bits != 0 {
			return T(1), nil
		}
		return T(0), nil
	case DTInt8:
		return T(int8(v.bits)), nil
	case DTUint8:
		return T(uint8(v.bits)), nil
	case DTInt16:
		return T(int16(v.bits)), nil
	case DTUint16:
		return T(uint16(v.bits)), nil
	case DTInt32:
		return T(int32(v.bits)), nil
	case DTUint32:
		return T(uint32(v.bits)), nil
	case DTInt64:
		return T(int64(v.bits)), nil
	case DTUint64:
		return T(v.bits), nil
	case DTFloat32:
		return T(math.Float32frombits(uint32(v.bits))), nil
	case DTFloat64:
		return T(math.Float64frombits(v.bits)), nil
	default:
		return 0, ErrTypeMismatch
	}
}

// strict returns v's payload as T only if v's variant is exactly want;
// otherwise it fails with ErrTypeMismatch (or ErrNoValue for null).
func strict[T numeric](v Value, want DataType) (T, error) {
	if v.typ == DTVoid {
		return 0, ErrNoValue
	}
	if v.typ != want {
		return 0, ErrTypeMismatch
	}
	return permissive[T](v)
}

// Bool returns v cast to bool: booleans return their value, every other
// non-null variant returns the truth of "nonzero". Null fails ErrNoValue.
func (v Value) Bool() (bool, error) {
	switch v.typ {
	case DTVoid:
		return false, ErrNoValue
	case DTFloat32:
		return math.Float32frombits(uint32(v.bits)) != 0, nil
	case DTFloat64:
		return math.Float64frombits(v.bits) != 0, nil
	default:
		return v.bits != 0, nil
	}
}

// StrictBool returns v's payload only if v holds a bool.
func (v Value) StrictBool() (bool, error) {
	if v.typ == DTVoid {
		return false, ErrNoValue
	}
	if v.typ != DTBool {
		return false, ErrTypeMismatch
	}
	return v.bits != 0, nil
}

// Int8 returns v cast to int8 using the permissive conversion rules.
func (v Value) Int8() (int8, error) { return permissive[int8](v) }

// StrictInt8 returns v's payload only if v holds an int8.
func (v Value) StrictInt8() (int8, error) { return strict[int8](v, DTInt8) }

// Uint8 returns v cast to uint8 using the permissive conversion rules.
func (v Value) Uint8() (uint8, error) { return permissive[uint8](v) }

// StrictUint8 returns v's payload only if v holds a uint8.
func (v Value) StrictUint8() (uint8, error) { return strict[uint8](v, DTUint8) }

// Int16 returns v cast to int16 using the permissive conversion rules.
func (v Value) Int16() (int16, error) { return permissive[int16](v) }

// StrictInt16 returns v's payload only if v holds an int16.
func (v Value) StrictInt16() (int16, error) { return strict[int16](v, DTInt16) }

// Uint16 returns v cast to uint16 using the permissive conversion rules.
func (v Value) Uint16() (uint16, error) { return permissive[uint16](v) }

// StrictUint16 returns v's payload only if v holds a uint16.
func (v Value) StrictUint16() (uint16, error) { return strict[uint16](v, DTUint16) }

// Int32 returns v cast to int32 using the permissive conversion rules.
func (v Value) Int32() (int32, error) { return permissive[int32](v) }

// StrictInt32 returns v's payload only if v holds an int32.
func (v Value) StrictInt32() (int32, error) { return strict[int32](v, DTInt32) }

// Uint32 returns v cast to uint32 using the permissive conversion rules.
func (v Value) Uint32() (uint32, error) { return permissive[uint32](v) }

// StrictUint32 returns v's payload only if v holds a uint32.
func (v Value) StrictUint32() (uint32, error) { return strict[uint32](v, DTUint32) }

// Int64 returns v cast to int64 using the permissive conversion rules.
func (v Value) Int64() (int64, error) { return permissive[int64](v) }

// StrictInt64 returns v's payload only if v holds an int64.
func (v Value) StrictInt64() (int64, error) { return strict[int64](v, DTInt64) }

// Uint64 returns v cast to uint64 using the permissive conversion rules.
func (v Value) Uint64() (uint64, error) { return permissive[uint64](v) }

// StrictUint64 returns v's payload only if v holds a uint64.
func (v Value) StrictUint64() (uint64, error) { return strict[uint64](v, DTUint64) }

// Float32 returns v cast to float32 using the permissive conversion rules.
func (v Value) Float32() (float32, error) { return permissive[float32](v) }

// StrictFloat32 returns v's payload only if v holds a float32.
func (v Value) StrictFloat32() (float32, error) { return strict[float32](v, DTFloat32) }

// Float64 returns v cast to float64 using the permissive conversion rules.
func (v Value) Float64() (float64, error) { return permissive[float64](v) }

// StrictFloat64 returns v's payload only if v holds a float64.
func (v Value) StrictFloat64() (float64, error) { return strict[float64](v, DTFloat64) }

// encode writes v's native little-endian representation into buf, which
// must be exactly v.typ.byteSize() bytes long. Called only for non-null
// values; bool is stored as a single byte, 0 = false, non-zero = true.
func (v Value) encode(buf []byte) {
	switch v.typ {
	case DTBool, DTInt8, DTUint8:
		buf[0] = byte(v.bits)
	case DTInt16, DTUint16:
		putUint16(buf, uint16(v.bits))
	case DTInt32, DTUint32, DTFloat32:
		putUint32(buf, uint32(v.bits))
	case DTInt64, DTUint64, DTFloat64:
		putUint64(buf, v.bits)
	}
}

// decodeValue reconstructs a Value of type typ from its little-endian
// on-disk representation in buf.
func decodeValue(typ DataType, buf []byte) Value {
	switch typ {
	case DTBool, DTInt8, DTUint8:
		return Value{typ: typ, bits: uint64(buf[0])}
	case DTInt16, DTUint16:
		return Value{typ: typ, bits: uint64(getUint16(buf))}
	case DTInt32, DTUint32, DTFloat32:
		return Value{typ: typ, bits: uint64(getUint32(buf))}
	case DTInt64, DTUint64, DTFloat64:
		return Value{typ: typ, bits: getUint64(buf)}
	default:
		return Null()
	}
}
