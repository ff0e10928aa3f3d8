// memoryBackend: the in-memory storageBackend, a fixed-length vector of
// records with no persistence.
package cyclicdb

// memoryBackend holds exactly capacity records, indexed by physical
// position. It never resizes; Table guarantees every pos it passes is
// already within bounds.
type memoryBackend struct {
	schema  *Schema
	records []*Record
}

// newMemoryBackend returns a backend of capacity all-null records.
func newMemoryBackend(schema *Schema, capacity uint32) *memoryBackend {
	b := &memoryBackend{schema: schema, records: make([]*Record, capacity)}
	for i := range b.records {
		b.records[i] = newAttachedRecord(schema)
	}
	return b
}

func (b *memoryBackend) getAt(pos uint32) (*Record, error) {
	return b.records[pos].clone(), nil
}

func (b *memoryBackend) setAt(pos uint32, rec *Record) error {
	b.records[pos] = rec
	return nil
}

func (b *memoryBackend) resetAt(pos uint32) error {
	b.records[pos] = newAttachedRecord(b.schema)
	return nil
}

// persistContentIndex is a no-op: the in-memory backend has nothing to
// write back, its entire state lives in Table's counters.
func (b *memoryBackend) persistContentIndex(contentIndex) error { return nil }

func (b *memoryBackend) close() error { return nil }

// NewMemoryTable creates a table backed entirely by process memory: no
// file, no persistence, gone when the process or the Table is dropped.
func NewMemoryTable(schema *Schema, capacity uint32, origin, duration int64) (*Table, error) {
	if err := validateCreateArgs(schema, capacity); err != nil {
		return nil, err
	}
	backend := newMemoryBackend(schema, capacity)
	return newTable(schema, capacity, origin, duration, backend), nil
}
