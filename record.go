// Record: a field-indexed bag of optional values plus an index and time.
//
// A Record is detached when built directly by a client (no schema bound,
// name lookups fail with ErrDetachedRecord) and attached when a table
// returns it. A table that accepts a detached record stores an attached
// copy; the caller's record stays detached. An attached record's values are always
// exactly schema.FieldCount() long; a detached record's slice may be
// shorter and widens lazily as fields are set.
package cyclicdb

// Record is CyclicDB's unit of storage: an optional logical index, an
// optional time, and a schema-ordered list of optionally-null values.
type Record struct {
	schema   *Schema
	index    uint32
	hasIndex bool
	time     int64
	hasTime  bool
	values   []Value
}

// NewDetachedRecord returns an empty record with no schema bound. It
// cannot resolve field names until attached by a table operation.
func NewDetachedRecord() *Record {
	return &Record{index: InvalidIndex}
}

// newAttachedRecord returns an empty record of exactly schema's field
// count, all fields null.
func newAttachedRecord(schema *Schema) *Record {
	values := make([]Value, schema.FieldCount())
	for i := range values {
		values[i] = Null()
	}
	return &Record{schema: schema, index: InvalidIndex, values: values}
}

// Attached reports whether r is bound to a schema.
func (r *Record) Attached() bool { return r.schema != nil }

// Index returns r's logical index, or InvalidIndex if unset.
func (r *Record) Index() uint32 {
	if !r.hasIndex {
		return InvalidIndex
	}
	return r.index
}

// SetIndex sets r's logical index.
func (r *Record) SetIndex(index uint32) {
	r.index = index
	r.hasIndex = index != InvalidIndex
}

// Time returns r's time and whether it has been set.
func (r *Record) Time() (int64, bool) { return r.time, r.hasTime }

// SetTime sets r's time.
func (r *Record) SetTime(t int64) {
	r.time = t
	r.hasTime = true
}

// fieldCount returns the number of fields r currently addresses: the
// schema's field count when attached, or len(values) when detached.
func (r *Record) fieldCount() int {
	if r.schema != nil {
		return r.schema.FieldCount()
	}
	return len(r.values)
}

// ensureWidth grows r.values (padding with null) so index i is
// addressable. On an attached record this never exceeds the schema's
// field count; on a detached record it grows to fit.
func (r *Record) ensureWidth(i int) {
	for len(r.values) <= i {
		r.values = append(r.values, Null())
	}
}

// Get returns the value at field position i. An attached record returns
// ErrOutOfRange for i outside the schema; a detached record returns null
// for any i not yet set, since it has no declared width.
func (r *Record) Get(i int) (Value, error) {
	if i < 0 {
		return Value{}, ErrOutOfRange
	}
	if r.schema != nil && i >= r.schema.FieldCount() {
		return Value{}, ErrOutOfRange
	}
	if i >= len(r.values) {
		return Null(), nil
	}
	return r.values[i], nil
}

// Set stores v at field position i, widening the record if necessary.
func (r *Record) Set(i int, v Value) error {
	if i < 0 {
		return ErrOutOfRange
	}
	if r.schema != nil && i >= r.schema.FieldCount() {
		return ErrOutOfRange
	}
	r.ensureWidth(i)
	r.values[i] = v
	return nil
}

// GetByName returns the value of the field named name. It fails
// ErrDetachedRecord if r has no schema, or ErrUnknownField if name is not
// declared by the schema.
func (r *Record) GetByName(name string) (Value, error) {
	if r.schema == nil {
		return Value{}, ErrDetachedRecord
	}
	i, err := r.schema.indexByName(name)
	if err != nil {
		return Value{}, err
	}
	return r.Get(i)
}

// SetByName stores v in the field named name. It fails ErrDetachedRecord
// if r has no schema, or ErrUnknownField if name is not declared.
func (r *Record) SetByName(name string, v Value) error {
	if r.schema == nil {
		return ErrDetachedRecord
	}
	i, err := r.schema.indexByName(name)
	if err != nil {
		return err
	}
	return r.Set(i, v)
}

// Has reports whether field i currently holds a non-null value.
func (r *Record) Has(i int) bool {
	v, err := r.Get(i)
	return err == nil && v.HasValue()
}

// attach binds r to schema, widening its values to the schema's field
// count. Used internally when a detached client record is accepted by a
// table operation; the table always works against a copy.
func (r *Record) attach(schema *Schema) *Record {
	out := &Record{schema: schema, index: r.index, hasIndex: r.hasIndex, time: r.time, hasTime: r.hasTime}
	out.values = make([]Value, schema.FieldCount())
	for i := range out.values {
		if i < len(r.values) {
			out.values[i] = r.values[i]
		} else {
			out.values[i] = Null()
		}
	}
	return out
}

// clone returns a deep copy of r, used so a table never aliases a
// caller-owned record after a mutating operation returns.
func (r *Record) clone() *Record {
	out := &Record{schema: r.schema, index: r.index, hasIndex: r.hasIndex, time: r.time, hasTime: r.hasTime}
	out.values = append([]Value(nil), r.values...)
	return out
}

// mergeNonNull overlays src's non-null fields onto r, leaving every other
// field of r untouched. Both records must already be attached to the
// same schema width; used to implement Update semantics.
func (r *Record) mergeNonNull(src *Record) {
	for i := 0; i < len(r.values) && i < len(src.values); i++ {
		if src.values[i].HasValue() {
			r.values[i] = src.values[i]
		}
	}
}
