// Little-endian primitive helpers shared by the Value codec and the file
// backend's fixed-width header and record layout.
package cyclicdb

import "encoding/binary"

func putUint16(buf []byte, v uint16) { binary.LittleEndian.PutUint16(buf, v) }
func putUint32(buf []byte, v uint32) { binary.LittleEndian.PutUint32(buf, v) }
func putUint64(buf []byte, v uint64) { binary.LittleEndian.PutUint64(buf, v) }
func putInt16(buf []byte, v int16)   { binary.LittleEndian.PutUint16(buf, uint16(v)) }
func putInt64(buf []byte, v int64)   { binary.LittleEndian.PutUint64(buf, uint64(v)) }

func getUint16(buf []byte) uint16 { return binary.LittleEndian.Uint16(buf) }
func getUint32(buf []byte) uint32 { return binary.LittleEndian.Uint32(buf) }
func getUint64(buf []byte) uint64 { return binary.LittleEndian.Uint64(buf) }
func getInt16(buf []byte) int16   { return int16(binary.LittleEndian.Uint16(buf)) }
func getInt64(buf []byte) int64   { return int64(binary.LittleEndian.Uint64(buf)) }
