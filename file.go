// fileBackend: the single-file storageBackend, "CYDB 01" on the wire.
//
// Layout (all integers little-endian, all offsets from file start):
// an 8-byte file header, a 40-byte storage structure, a 32-byte content
// index, field_count field descriptors, then capacity consecutive
// record slots starting at header_size. Reads and writes use positional
// I/O (ReadAt/WriteAt) so no shared file offset is mutated, keeping
// concurrent readers and writers from interfering with each other.
package cyclicdb

import (
	"bytes"
	"os"

	"github.com/natefinch/atomic"
)

const (
	magic               = "CYDB"
	versionMajor        = '0'
	versionMinor        = '1'
	fileHeaderSize      = 8
	storageStructOffset = 8
	storageStructSize   = 40
	contentIndexOffset  = 48
	contentIndexSize    = 32
	fieldDescOffset     = 80
)

// fileBackend implements storageBackend over an open *os.File.
type fileBackend struct {
	f          *os.File
	lock       *fileLock
	schema     *Schema
	headerSize uint32
	recordSize int
	config     Config
	readBuf    []byte
}

// fieldDescriptorSize returns the on-disk size of one field descriptor:
// the fixed 9-byte prefix plus the field's name.
func fieldDescriptorSize(f Field) int { return 9 + len(f.name) }

// computeHeaderSize returns header_size for schema: the field
// descriptors block's end offset.
func computeHeaderSize(schema *Schema) uint32 {
	size := fieldDescOffset
	for i := 0; i < schema.FieldCount(); i++ {
		f, _ := schema.FieldAt(i)
		size += fieldDescriptorSize(f)
	}
	return uint32(size)
}

// buildFileImage serialises a fresh table's full header plus
// capacity zeroed record slots, ready to be written atomically.
func buildFileImage(schema *Schema, capacity uint32, origin, duration int64) []byte {
	headerSize := computeHeaderSize(schema)
	recordSize := schema.RecordSize()
	total := int(headerSize) + int(capacity)*recordSize
	buf := make([]byte, total)

	copy(buf[0:4], magic)
	buf[4] = versionMajor
	buf[5] = versionMinor
	putUint16(buf[6:8], 0)

	putUint32(buf[8:12], headerSize)
	putUint32(buf[12:16], 0)
	putUint32(buf[16:20], capacity)
	putUint16(buf[20:22], uint16(schema.FieldCount()))
	putUint16(buf[22:24], 0)
	putInt64(buf[24:32], origin)
	putInt64(buf[32:40], duration)
	putUint32(buf[40:44], uint32(schema.bitmapSize()))
	putUint32(buf[44:48], uint32(recordSize))

	writeContentIndex(buf[contentIndexOffset:contentIndexOffset+contentIndexSize], contentIndex{
		firstIndex: InvalidIndex,
		minIndex:   InvalidIndex,
		minPos:     InvalidIndex,
		maxIndex:   InvalidIndex,
		maxPos:     InvalidIndex,
	})

	off := fieldDescOffset
	for i := 0; i < schema.FieldCount(); i++ {
		f, _ := schema.FieldAt(i)
		putInt16(buf[off:off+2], int16(f.typ))
		putUint16(buf[off+2:off+4], f.size)
		putUint16(buf[off+4:off+6], f.offset)
		putUint16(buf[off+6:off+8], 0)
		buf[off+8] = byte(len(f.name))
		copy(buf[off+9:off+9+len(f.name)], f.name)
		off += fieldDescriptorSize(f)
	}
	// The record region is already zero from make([]byte, total):
	// all-zero bitmap, meaning "all fields null".
	return buf
}

func writeContentIndex(buf []byte, ci contentIndex) {
	putUint32(buf[0:4], ci.firstIndex)
	putUint32(buf[4:8], 0)
	putUint32(buf[8:12], ci.minIndex)
	putUint32(buf[12:16], ci.minPos)
	putUint32(buf[16:20], ci.maxIndex)
	putUint32(buf[20:24], ci.maxPos)
}

func readContentIndex(buf []byte) contentIndex {
	return contentIndex{
		firstIndex: getUint32(buf[0:4]),
		minIndex:   getUint32(buf[8:12]),
		minPos:     getUint32(buf[12:16]),
		maxIndex:   getUint32(buf[16:20]),
		maxPos:     getUint32(buf[20:24]),
	}
}

// CreateFileTable creates a new table file at path, failing if one
// already exists. It writes the full header and capacity zeroed record
// slots in a single atomic (temp-file + rename) operation before opening
// the result for read/write.
func CreateFileTable(path string, schema *Schema, capacity uint32, origin, duration int64, cfg Config) (*Table, error) {
	if err := validateCreateArgs(schema, capacity); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err == nil {
		return nil, wrapIo("create", os.ErrExist)
	}
	image := buildFileImage(schema, capacity, origin, duration)
	if err := atomic.WriteFile(path, bytes.NewReader(image)); err != nil {
		return nil, wrapIo("create", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, wrapIo("create", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return nil, wrapIo("create", err)
	}
	backend, err := newFileBackend(f, schema, computeHeaderSize(schema), schema.RecordSize(), cfg)
	if err != nil {
		f.Close()
		return nil, err
	}
	return newTable(schema, capacity, origin, duration, backend), nil
}

// OpenFileTable opens an existing table file, validating its header and
// reconstructing its schema and counters from what is stored on disk.
func OpenFileTable(path string, cfg Config) (*Table, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, wrapIo("open", err)
	}

	header := make([]byte, fieldDescOffset)
	if _, err := f.ReadAt(header, 0); err != nil {
		f.Close()
		return nil, wrapIo("open", err)
	}
	if string(header[0:4]) != magic || header[4] != versionMajor || header[5] != versionMinor {
		f.Close()
		return nil, ErrBadFormat
	}

	headerSize := getUint32(header[8:12])
	capacity := getUint32(header[16:20])
	fieldCount := getUint16(header[20:22])
	origin := getInt64(header[24:32])
	duration := getInt64(header[32:40])
	ci := readContentIndex(header[contentIndexOffset : contentIndexOffset+contentIndexSize])

	descBuf := make([]byte, headerSize-fieldDescOffset)
	if len(descBuf) > 0 {
		if _, err := f.ReadAt(descBuf, fieldDescOffset); err != nil {
			f.Close()
			return nil, wrapIo("open", err)
		}
	}
	specs := make([]FieldSpec, fieldCount)
	off := 0
	for i := range specs {
		if off+9 > len(descBuf) {
			f.Close()
			return nil, ErrBadFormat
		}
		typ := DataType(getInt16(descBuf[off : off+2]))
		nameLen := int(descBuf[off+8])
		if off+9+nameLen > len(descBuf) {
			f.Close()
			return nil, ErrBadFormat
		}
		name := string(descBuf[off+9 : off+9+nameLen])
		specs[i] = FieldSpec{Name: name, Type: typ}
		off += 9 + nameLen
	}
	schema, err := NewSchema(specs)
	if err != nil {
		f.Close()
		return nil, ErrBadFormat
	}
	if uint32(schema.RecordSize()) != getUint32(header[44:48]) {
		f.Close()
		return nil, ErrBadFormat
	}

	backend, err := newFileBackend(f, schema, headerSize, schema.RecordSize(), cfg)
	if err != nil {
		f.Close()
		return nil, err
	}
	return newTableFromContentIndex(schema, capacity, origin, duration, backend, ci), nil
}

func newFileBackend(f *os.File, schema *Schema, headerSize uint32, recordSize int, cfg Config) (*fileBackend, error) {
	lock := &fileLock{}
	lock.setFile(f)
	if err := lock.Lock(lockExclusive); err != nil {
		return nil, wrapIo("lock", err)
	}
	cfg = cfg.withDefaults()
	bufSize := recordSize
	if cfg.ReadBuffer > bufSize {
		bufSize = cfg.ReadBuffer
	}
	return &fileBackend{
		f:          f,
		lock:       lock,
		schema:     schema,
		headerSize: headerSize,
		recordSize: recordSize,
		config:     cfg,
		readBuf:    make([]byte, bufSize),
	}, nil
}

func (b *fileBackend) slotOffset(pos uint32) int64 {
	return int64(b.headerSize) + int64(pos)*int64(b.recordSize)
}

// getAt reads the record at pos into the backend's reused scratch
// buffer; every call runs under Table.mu, so there is never a second
// reader in flight to race it.
func (b *fileBackend) getAt(pos uint32) (*Record, error) {
	buf := b.readBuf[:b.recordSize]
	if _, err := b.f.ReadAt(buf, b.slotOffset(pos)); err != nil {
		return nil, wrapIo("read", err)
	}
	return decodeRecord(b.schema, buf), nil
}

func (b *fileBackend) setAt(pos uint32, rec *Record) error {
	buf := encodeRecord(b.schema, rec)
	if _, err := b.f.WriteAt(buf, b.slotOffset(pos)); err != nil {
		return wrapIo("write", err)
	}
	return nil
}

func (b *fileBackend) resetAt(pos uint32) error {
	buf := make([]byte, b.recordSize)
	if _, err := b.f.WriteAt(buf, b.slotOffset(pos)); err != nil {
		return wrapIo("write", err)
	}
	return nil
}

// persistContentIndex rewrites the 32-byte content-index block at file
// offset 48, the last action of any structural mutation.
func (b *fileBackend) persistContentIndex(ci contentIndex) error {
	buf := make([]byte, contentIndexSize)
	writeContentIndex(buf, ci)
	if _, err := b.f.WriteAt(buf, contentIndexOffset); err != nil {
		return wrapIo("write", err)
	}
	if b.config.Sync {
		if err := b.f.Sync(); err != nil {
			return wrapIo("sync", err)
		}
	}
	return nil
}

func (b *fileBackend) close() error {
	syncErr := b.f.Sync()
	b.lock.Unlock()
	b.lock.setFile(nil)
	if err := b.f.Close(); err != nil {
		return wrapIo("close", err)
	}
	if syncErr != nil {
		return wrapIo("close", syncErr)
	}
	return nil
}

// encodeRecord serialises rec into its on-disk slot representation: the
// presence bitmap followed by every field's native bytes at its
// declared offset.
func encodeRecord(schema *Schema, rec *Record) []byte {
	bitmapBytes := schema.bitmapSize()
	buf := make([]byte, schema.RecordSize())
	for i := 0; i < schema.FieldCount(); i++ {
		v, err := rec.Get(i)
		if err != nil || v.IsNull() {
			continue
		}
		f, _ := schema.FieldAt(i)
		buf[i/8] |= 1 << (uint(i) % 8)
		v.encode(buf[bitmapBytes+int(f.offset) : bitmapBytes+int(f.offset)+int(f.size)])
	}
	return buf
}

// decodeRecord materialises an attached record from a slot's raw bytes,
// scanning the presence bitmap and decoding only the fields it marks
// present.
func decodeRecord(schema *Schema, buf []byte) *Record {
	rec := newAttachedRecord(schema)
	bitmapBytes := schema.bitmapSize()
	for i := 0; i < schema.FieldCount(); i++ {
		if buf[i/8]&(1<<(uint(i)%8)) == 0 {
			continue
		}
		f, _ := schema.FieldAt(i)
		v := decodeValue(f.typ, buf[bitmapBytes+int(f.offset):bitmapBytes+int(f.offset)+int(f.size)])
		rec.Set(i, v)
	}
	return rec
}
