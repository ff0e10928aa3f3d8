package cyclicdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSchemaDerivesOffsets(t *testing.T) {
	schema, err := NewSchema([]FieldSpec{
		{Name: "a", Type: DTBool},
		{Name: "b", Type: DTInt32},
		{Name: "c", Type: DTInt64},
	})
	require.NoError(t, err)
	require.Equal(t, 3, schema.FieldCount())

	a, _ := schema.FieldAt(0)
	b, _ := schema.FieldAt(1)
	c, _ := schema.FieldAt(2)

	require.Equal(t, uint16(0), a.ByteOffset())
	require.Equal(t, uint16(1), a.ByteSize())
	require.Equal(t, uint16(1), b.ByteOffset())
	require.Equal(t, uint16(4), b.ByteSize())
	require.Equal(t, uint16(5), c.ByteOffset())
	require.Equal(t, uint16(8), c.ByteSize())

	// 3 fields -> 1 bitmap byte, plus 1+4+8 payload bytes.
	require.Equal(t, 1+1+4+8, schema.RecordSize())
}

func TestNewSchemaRejectsEmpty(t *testing.T) {
	_, err := NewSchema(nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewSchemaRejectsVoidField(t *testing.T) {
	_, err := NewSchema([]FieldSpec{{Name: "x", Type: DTVoid}})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSchemaFieldByName(t *testing.T) {
	schema, err := NewSchema([]FieldSpec{{Name: "temp", Type: DTFloat32}})
	require.NoError(t, err)

	f, err := schema.FieldByName("temp")
	require.NoError(t, err)
	require.Equal(t, DTFloat32, f.Type())

	_, err = schema.FieldByName("missing")
	require.ErrorIs(t, err, ErrUnknownField)
}
