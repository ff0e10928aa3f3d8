// Field descriptors and the ordered Schema that derives their sizes and
// byte offsets within a record payload.
package cyclicdb

// MaxFieldNameLen is the largest number of bytes a field name may occupy
// on disk; the on-disk descriptor stores name length in a single byte.
const MaxFieldNameLen = 255

// FieldSpec is the client-facing descriptor used to build a Schema: a
// name and a data type, nothing else. byteSize and offset are derived.
type FieldSpec struct {
	Name string
	Type DataType
}

// Field is a resolved schema field: name, type, and the derived size and
// byte offset of its value within a record's payload.
type Field struct {
	index  uint16
	name   string
	typ    DataType
	size   uint16
	offset uint16
}

// Index returns the field's position in its schema.
func (f Field) Index() uint16 { return f.index }

// Name returns the field's name. Name-based lookups are not guaranteed
// unique; a lookup returns the first match.
func (f Field) Name() string { return f.name }

// Type returns the field's declared data type.
func (f Field) Type() DataType { return f.typ }

// ByteSize returns the number of bytes the field occupies in a record's
// payload, derived from Type.
func (f Field) ByteSize() uint16 { return f.size }

// ByteOffset returns the field's byte offset within a record's payload,
// the cumulative size of every earlier field in schema order.
func (f Field) ByteOffset() uint16 { return f.offset }

// Schema is the ordered, immutable list of fields that defines a table's
// record layout.
type Schema struct {
	fields      []Field
	bitmapBytes int
	recordSize  int
}

// NewSchema validates specs and derives each field's size and offset.
// It fails ErrInvalidArgument if specs is empty, any name exceeds
// MaxFieldNameLen bytes, or any field declares DTVoid/DTUnspecified
// (those are reserved for Value's null variant, not storable field types).
func NewSchema(specs []FieldSpec) (*Schema, error) {
	if len(specs) == 0 {
		return nil, ErrInvalidArgument
	}
	fields := make([]Field, len(specs))
	var offset uint16
	for i, s := range specs {
		if len(s.Name) > MaxFieldNameLen {
			return nil, ErrInvalidArgument
		}
		size := s.Type.byteSize()
		if size == 0 {
			return nil, ErrInvalidArgument
		}
		fields[i] = Field{
			index:  uint16(i),
			name:   s.Name,
			typ:    s.Type,
			size:   size,
			offset: offset,
		}
		offset += size
	}
	bitmapBytes := (len(fields) + 7) / 8
	return &Schema{
		fields:      fields,
		bitmapBytes: bitmapBytes,
		recordSize:  bitmapBytes + int(offset),
	}, nil
}

// FieldCount returns the number of fields declared by the schema.
func (s *Schema) FieldCount() int { return len(s.fields) }

// FieldAt returns the field at position i, or ErrOutOfRange if i is out
// of bounds.
func (s *Schema) FieldAt(i int) (Field, error) {
	if i < 0 || i >= len(s.fields) {
		return Field{}, ErrOutOfRange
	}
	return s.fields[i], nil
}

// FieldByName returns the first field named name, or ErrUnknownField.
func (s *Schema) FieldByName(name string) (Field, error) {
	for _, f := range s.fields {
		if f.name == name {
			return f, nil
		}
	}
	return Field{}, ErrUnknownField
}

// indexByName is the unexported lookup used by Record; it avoids copying
// a Field out when only the index is needed.
func (s *Schema) indexByName(name string) (int, error) {
	for i, f := range s.fields {
		if f.name == name {
			return i, nil
		}
	}
	return 0, ErrUnknownField
}

// bitmapSize returns ceil(field_count/8), the presence bitmap width.
func (s *Schema) bitmapSize() int { return s.bitmapBytes }

// recordPayloadSize returns the sum of every field's ByteSize.
func (s *Schema) recordPayloadSize() int { return s.recordSize - s.bitmapBytes }

// RecordSize returns the total on-disk size of one record: the presence
// bitmap plus every field's byte size.
func (s *Schema) RecordSize() int { return s.recordSize }
