// Iterator: a lazy forward cursor over a table's occupied index range.
//
// An Iterator never loads more than the record it currently points to;
// it exposes an iter.Seq2 for idiomatic range use while remaining a
// free-standing cursor for callers who need to Next() by hand. Its
// identity is the pair (table, next index): two iterators are equal iff
// both values match, regardless of which has been consumed.
package cyclicdb

import "iter"

// Iterator walks a table's occupied indices from MinIndex to MaxIndex in
// increasing order. It is invalidated by any structural mutation of the
// table performed after it was created: Append, Insert past the occupied
// range, and Close all change next_index's meaning out from under it.
// Get, and Set or Update within the already-occupied range, do not.
type Iterator struct {
	table *Table
	next  uint32 // InvalidIndex once exhausted
	last  uint32 // InvalidIndex if the iterator was created over an empty table
}

// Done reports whether the iterator has yielded every index in its range.
func (it *Iterator) Done() bool {
	return it.next == InvalidIndex || it.last == InvalidIndex
}

// Next returns the record at the iterator's current position and
// advances it by one, or returns ErrOutOfRange once Done.
func (it *Iterator) Next() (*Record, error) {
	if it.Done() {
		return nil, ErrOutOfRange
	}
	rec, err := it.table.Get(it.next)
	if err != nil {
		return nil, err
	}
	if it.next == it.last {
		it.next = InvalidIndex
	} else {
		it.next++
	}
	return rec, nil
}

// Index returns the logical index Next will return next, or InvalidIndex
// if the iterator is Done.
func (it *Iterator) Index() uint32 {
	if it.Done() {
		return InvalidIndex
	}
	return it.next
}

// Equal reports whether it and other address the same table and the
// same next index, CyclicDB's identity rule for iterators.
func (it *Iterator) Equal(other *Iterator) bool {
	return it.table == other.table && it.next == other.next
}

// All returns a range-over-func sequence of (record, error) pairs,
// consuming the iterator exactly like repeated calls to Next. Ranging
// stops as soon as a yielded error is non-nil or the caller breaks.
func (it *Iterator) All() iter.Seq2[*Record, error] {
	return func(yield func(*Record, error) bool) {
		for !it.Done() {
			rec, err := it.Next()
			if !yield(rec, err) {
				return
			}
			if err != nil {
				return
			}
		}
	}
}
