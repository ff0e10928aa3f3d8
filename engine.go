// Table: the shared circular-buffer engine behind both backends.
//
// Table owns the capacity/index/position bookkeeping and
// dispatches storage to a backend implementation (memory or file). All
// the position arithmetic, the append state machine, and the mutation
// semantics all live here exactly once; memoryBackend and fileBackend
// only know how to read, write and reset one physical slot.
package cyclicdb

import "sync"

// InvalidIndex is the sentinel record index meaning "unset". It doubles
// as the absolute greatest index a table may ever hold: once max_index
// reaches this value, Append fails ErrTableIsFull, since the next index
// would collide with the sentinel itself. This mirrors the original
// library, where both constants are literally the same value.
const InvalidIndex uint32 = 1<<32 - 2

// AbsoluteMaxIndex is the largest index a table may legally hold. It is
// numerically identical to InvalidIndex, exactly as in the original
// library; Table's full-table check below is written to not misfire on
// an empty table as a result (see DESIGN.md).
const AbsoluteMaxIndex uint32 = InvalidIndex

// MaxRecordCapacity is the largest legal record_capacity.
const MaxRecordCapacity = InvalidIndex

// storageBackend is the capability a backend must provide; Table
// supplies every other operation in terms of these five methods.
type storageBackend interface {
	// getAt reads the record stored at physical position pos.
	getAt(pos uint32) (*Record, error)
	// setAt replaces the record at pos entirely: fields absent from rec
	// are stored null.
	setAt(pos uint32, rec *Record) error
	// resetAt writes an all-null record at pos.
	resetAt(pos uint32) error
	// persistContentIndex durably records the table's content index. A
	// no-op for the memory backend.
	persistContentIndex(ci contentIndex) error
	// close releases backend resources.
	close() error
}

// contentIndex is the five counters that locate the occupied range
// within the circular buffer.
type contentIndex struct {
	firstIndex uint32
	minIndex   uint32
	minPos     uint32
	maxIndex   uint32
	maxPos     uint32
}

// Table is a CyclicDB table: a fixed schema, a fixed record capacity,
// and a circular buffer of records addressed by an ever-increasing
// 32-bit index. Every exported method is safe for concurrent use.
type Table struct {
	mu sync.Mutex

	schema   *Schema
	capacity uint32
	origin   int64
	duration int64

	firstIndex uint32
	minIndex   uint32
	minPos     uint32
	maxIndex   uint32
	maxPos     uint32

	backend storageBackend
}

// newTable builds the shared engine state for a freshly created table
// (empty, no occupied range).
func newTable(schema *Schema, capacity uint32, origin, duration int64, backend storageBackend) *Table {
	return &Table{
		schema:     schema,
		capacity:   capacity,
		origin:     origin,
		duration:   duration,
		firstIndex: InvalidIndex,
		minIndex:   InvalidIndex,
		minPos:     InvalidIndex,
		maxIndex:   InvalidIndex,
		maxPos:     InvalidIndex,
		backend:    backend,
	}
}

// newTableFromContentIndex builds a table's engine state from a content
// index already read off disk, used by the file backend's open path,
// which trusts the on-disk content index rather than recomputing it.
func newTableFromContentIndex(schema *Schema, capacity uint32, origin, duration int64, backend storageBackend, ci contentIndex) *Table {
	return &Table{
		schema:     schema,
		capacity:   capacity,
		origin:     origin,
		duration:   duration,
		firstIndex: ci.firstIndex,
		minIndex:   ci.minIndex,
		minPos:     ci.minPos,
		maxIndex:   ci.maxIndex,
		maxPos:     ci.maxPos,
		backend:    backend,
	}
}

// validateCreateArgs checks the preconditions shared by both
// backends' create paths.
func validateCreateArgs(schema *Schema, capacity uint32) error {
	if schema == nil || schema.FieldCount() == 0 {
		return ErrInvalidArgument
	}
	if capacity == 0 || capacity > MaxRecordCapacity {
		return ErrInvalidArgument
	}
	return nil
}

// --- schema queries ---

// FieldCount returns the number of fields in the table's schema.
func (t *Table) FieldCount() int { return t.schema.FieldCount() }

// Field returns the field at position i.
func (t *Table) Field(i int) (Field, error) { return t.schema.FieldAt(i) }

// FieldByName returns the first field named name.
func (t *Table) FieldByName(name string) (Field, error) { return t.schema.FieldByName(name) }

// RecordCapacity returns the table's fixed record capacity.
func (t *Table) RecordCapacity() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.capacity
}

// RecordCount returns max_index - min_index + 1, or 0 when the table
// holds no records.
func (t *Table) RecordCount() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.recordCountLocked()
}

func (t *Table) recordCountLocked() uint32 {
	if t.minIndex == InvalidIndex {
		return 0
	}
	return t.maxIndex - t.minIndex + 1
}

// MinIndex returns the table's minimum occupied index, or InvalidIndex
// when empty.
func (t *Table) MinIndex() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.minIndex
}

// MaxIndex returns the table's maximum occupied index, or InvalidIndex
// when empty.
func (t *Table) MaxIndex() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.maxIndex
}

// RecordOrigin returns the table's time origin.
func (t *Table) RecordOrigin() int64 { return t.origin }

// RecordDuration returns the table's time duration; 0 means time support
// is disabled.
func (t *Table) RecordDuration() int64 { return t.duration }

// --- time <-> index ---

// IndexFor converts an absolute time to a record index.
func (t *Table) IndexFor(time int64) (uint32, error) {
	if t.duration == 0 {
		return 0, ErrTimeNotSupported
	}
	if time < t.origin {
		return 0, ErrOutOfRange
	}
	idx := uint64(time-t.origin) / uint64(t.duration)
	if idx > uint64(AbsoluteMaxIndex) {
		return 0, ErrOutOfRange
	}
	return uint32(idx), nil
}

// TimeFor converts a record index to its absolute time.
func (t *Table) TimeFor(index uint32) (int64, error) {
	if t.duration == 0 {
		return 0, ErrTimeNotSupported
	}
	return t.origin + int64(index)*t.duration, nil
}

// --- record factory ---

// NewRecord returns an attached, empty, correctly-sized mutable record.
func (t *Table) NewRecord() *Record { return newAttachedRecord(t.schema) }

// --- position arithmetic ---

// indexToPositionLocked returns the physical position holding index, or
// InvalidIndex if index is not currently occupied. Must be called with
// t.mu held.
func (t *Table) indexToPositionLocked(index uint32) uint32 {
	if t.minIndex == InvalidIndex || index < t.minIndex || index > t.maxIndex {
		return InvalidIndex
	}
	if index == t.minIndex {
		return t.minPos
	}
	if index == t.maxIndex {
		return t.maxPos
	}
	if index == t.firstIndex {
		return 0
	}
	if t.minPos <= t.maxPos {
		return t.minPos + (index - t.minIndex)
	}
	if index >= t.firstIndex {
		return index - t.firstIndex
	}
	return t.minPos + (index - t.minIndex)
}

// positionToIndexLocked returns the logical index stored at position pos,
// or InvalidIndex if pos is not currently occupied. Must be called with
// t.mu held.
func (t *Table) positionToIndexLocked(pos uint32) uint32 {
	if pos >= t.capacity {
		return InvalidIndex
	}
	if t.minIndex == InvalidIndex {
		return InvalidIndex
	}
	if pos == t.minPos {
		return t.minIndex
	}
	if pos == t.maxPos {
		return t.maxIndex
	}
	if t.minPos <= t.maxPos {
		if pos > t.minPos && pos < t.maxPos {
			return t.minIndex + (pos - t.minPos)
		}
		return InvalidIndex
	}
	if pos < t.maxPos {
		return t.firstIndex + pos
	}
	if pos > t.minPos {
		return t.minIndex + (pos - t.minPos)
	}
	return InvalidIndex
}

func (t *Table) isEmptyLocked() bool { return t.minIndex == InvalidIndex }

func (t *Table) stateLocked() tableState {
	empty := t.isEmptyLocked()
	var minPos, maxPos uint32
	if !empty {
		minPos, maxPos = t.minPos, t.maxPos
	}
	return classifyState(t.minIndex, minPos, maxPos, t.capacity-1, empty)
}

// --- reads ---

// Get returns the record stored at index, or ErrOutOfRange if index is
// outside [MinIndex, MaxIndex].
func (t *Table) Get(index uint32) (*Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.getLocked(index)
}

func (t *Table) getLocked(index uint32) (*Record, error) {
	pos := t.indexToPositionLocked(index)
	if pos == InvalidIndex {
		return nil, ErrOutOfRange
	}
	rec, err := t.backend.getAt(pos)
	if err != nil {
		return nil, err
	}
	rec.SetIndex(index)
	if t.duration != 0 {
		rec.SetTime(t.origin + int64(index)*t.duration)
	}
	return rec, nil
}

// GetByTime delegates through IndexFor and then Get.
func (t *Table) GetByTime(time int64) (*Record, error) {
	idx, err := t.IndexFor(time)
	if err != nil {
		return nil, err
	}
	return t.Get(idx)
}

// --- mutate at an existing index ---

// Set replaces the contents of the slot at index entirely: fields absent
// from rec become null in storage. It fails ErrLogicError on an empty
// table and ErrOutOfRange when index is outside the occupied range.
func (t *Table) Set(index uint32, rec *Record) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.isEmptyLocked() {
		return ErrLogicError
	}
	if index < t.minIndex || index > t.maxIndex {
		return ErrOutOfRange
	}
	pos := t.indexToPositionLocked(index)
	if pos == InvalidIndex {
		return ErrRangeError
	}
	if err := t.backend.setAt(pos, rec.attach(t.schema)); err != nil {
		return err
	}
	// Set never moves min/max/first, so the on-disk content index stays
	// valid without a rewrite here; a deliberate choice, see DESIGN.md.
	return nil
}

// Update applies only the non-null fields of rec, leaving every other
// field of the slot untouched.
func (t *Table) Update(index uint32, rec *Record) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.isEmptyLocked() {
		return ErrLogicError
	}
	if index < t.minIndex || index > t.maxIndex {
		return ErrOutOfRange
	}
	pos := t.indexToPositionLocked(index)
	if pos == InvalidIndex {
		return ErrRangeError
	}
	current, err := t.backend.getAt(pos)
	if err != nil {
		return err
	}
	current.mergeNonNull(rec.attach(t.schema))
	return t.backend.setAt(pos, current)
}

// --- append ---

// appendEmptyLocked performs one "append step": classify the current
// state, advance the counters, and write an all-null slot at the new
// max position.
func (t *Table) appendEmptyLocked() error {
	st := t.stateLocked()
	t.applyAppendEffect(st)
	if err := t.backend.resetAt(t.maxPos); err != nil {
		return err
	}
	return t.persistContentIndexLocked()
}

func (t *Table) persistContentIndexLocked() error {
	return t.backend.persistContentIndex(contentIndex{
		firstIndex: t.firstIndex,
		minIndex:   t.minIndex,
		minPos:     t.minPos,
		maxIndex:   t.maxIndex,
		maxPos:     t.maxPos,
	})
}

// Append extends the occupied range toward higher indices. If rec is nil
// or rec.Index() is InvalidIndex, the new record lands at max_index+1
// (0 if empty). Otherwise rec.Index() is the explicit target: it must be
// strictly greater than the current max_index. Intermediate slots
// skipped over are stored all-null. Returns the index the record was
// stored at.
func (t *Table) Append(rec *Record) (uint32, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.appendLocked(rec)
}

// appendLocked is Append's body, factored out so Insert can reach it
// without releasing the mutex between its own range check and the
// append it may need to perform underneath.
func (t *Table) appendLocked(rec *Record) (uint32, error) {
	target := InvalidIndex
	if rec != nil {
		target = rec.Index()
	}
	if target == InvalidIndex {
		if t.isEmptyLocked() {
			target = 0
		} else {
			target = t.maxIndex + 1
		}
	} else if !t.isEmptyLocked() && target <= t.maxIndex {
		return 0, ErrOutOfRange
	}
	if !t.isEmptyLocked() && t.maxIndex == AbsoluteMaxIndex {
		return 0, ErrTableIsFull
	}

	needsFill := func() bool {
		if t.isEmptyLocked() {
			return target > 0
		}
		return t.maxIndex < target-1
	}
	for needsFill() {
		if err := t.appendEmptyLocked(); err != nil {
			return 0, err
		}
	}
	// One final step lands exactly on target (or on 0 for an empty table).
	st := t.stateLocked()
	t.applyAppendEffect(st)

	if rec == nil {
		if err := t.backend.resetAt(t.maxPos); err != nil {
			return 0, err
		}
	} else {
		attached := rec.attach(t.schema)
		attached.SetIndex(t.maxIndex)
		if err := t.backend.setAt(t.maxPos, attached); err != nil {
			return 0, err
		}
	}
	if err := t.persistContentIndexLocked(); err != nil {
		return 0, err
	}
	return t.maxIndex, nil
}

// AppendNext appends after the current max_index regardless of any
// index rec carries, the dedicated "append_next" entry point noted as an
// alternative to accepting InvalidIndex directly.
func (t *Table) AppendNext(rec *Record) (uint32, error) {
	if rec == nil {
		return t.Append(nil)
	}
	next := rec.clone()
	next.SetIndex(InvalidIndex)
	return t.Append(next)
}

// --- insert: set if present, append otherwise ---

// Insert requires rec.Index() to be set. If index is before MinIndex it
// fails ErrOutOfRange; if index is within the occupied range it behaves
// as Set; otherwise it behaves as Append.
func (t *Table) Insert(rec *Record) (uint32, error) {
	if rec == nil || rec.Index() == InvalidIndex {
		return 0, ErrInvalidArgument
	}
	index := rec.Index()

	t.mu.Lock()
	defer t.mu.Unlock()
	empty := t.isEmptyLocked()
	if !empty && index < t.minIndex {
		return 0, ErrOutOfRange
	}
	if !empty && index <= t.maxIndex {
		pos := t.indexToPositionLocked(index)
		if pos == InvalidIndex {
			return 0, ErrRangeError
		}
		if err := t.backend.setAt(pos, rec.attach(t.schema)); err != nil {
			return 0, err
		}
		return index, nil
	}
	return t.appendLocked(rec)
}

// --- lifecycle ---

// Close flushes and releases the table's backend resources.
func (t *Table) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.backend.close()
}

// --- iteration ---

// Records returns a forward iterator over every occupied index from
// MinIndex to MaxIndex inclusive. The iterator is invalidated by any
// subsequent structural mutation of the table.
func (t *Table) Records() *Iterator {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.isEmptyLocked() {
		return &Iterator{table: t, next: InvalidIndex, last: InvalidIndex}
	}
	return &Iterator{table: t, next: t.minIndex, last: t.maxIndex}
}
