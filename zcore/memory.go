// Package zcore is the Memory component: a byte-addressable story-file
// image with big-endian word accessors, header fields, and the global
// variable table. Grounded on the teacher's zcore.Core, narrowed to v3.
package zcore

import (
	"encoding/binary"
	"fmt"
)

// Header byte offsets, spec.md section 3.
const (
	offVersion       = 0x00
	offFlags1        = 0x01
	offRelease       = 0x02
	offHighMemBase   = 0x04
	offStartPC       = 0x06
	offDictionary    = 0x08
	offObjectTable   = 0x0a
	offGlobalTable   = 0x0c
	offStaticBase    = 0x0e
	offFlags2        = 0x10
	offSerial        = 0x12
	offAbbreviations = 0x18
	offFileLength    = 0x1a
	offChecksum      = 0x1c

	numGlobals = 240
	headerSize = 64
)

// Flags byte 1 bits this interpreter clears at start-up to advertise its
// (non-)capabilities, per spec.md section 3: status-line, split-screen,
// and fixed-font availability.
const (
	flag1StatusLineUnavailable = 0b0001_0000
	flag1ScreenSplitAvailable  = 0b0010_0000
	flag1FixedFontDefault      = 0b0100_0000

	// flags2TranscriptBit is the "transcribing to printer" bit of header
	// flag byte 2, one of the bits the Z-Machine standard requires to
	// survive restart/restore (spec.md section 9's design note).
	flags2TranscriptBit = 0b0000_0001
)

// Memory is the byte-addressable image of a loaded story file, split into
// dynamic (writable), static (read-only), and high (read-only) regions by
// header fields.
type Memory struct {
	bytes []byte
}

// Load validates and wraps a story-file byte image. The header must be at
// least 64 bytes; the header's file-length field (doubled, v3) must not
// exceed the number of bytes actually provided.
func Load(storyFile []byte) (*Memory, error) {
	if len(storyFile) < headerSize {
		return nil, ErrCouldNotReadHeader
	}

	m := &Memory{bytes: storyFile}

	declared := uint32(binary.BigEndian.Uint16(storyFile[offFileLength:offFileLength+2])) * 2
	if declared > uint32(len(storyFile)) {
		return nil, ErrFileTooShort
	}

	m.bytes[offFlags1] &^= flag1StatusLineUnavailable | flag1ScreenSplitAvailable | flag1FixedFontDefault

	return m, nil
}

// ReadByte reads a single byte at a raw offset.
func (m *Memory) ReadByte(addr uint32) uint8 {
	m.checkOffset(addr)
	return m.bytes[addr]
}

// WriteByte writes a single byte at a raw offset. Writes outside dynamic
// memory are rejected.
func (m *Memory) WriteByte(addr uint32, value uint8) {
	m.checkWritable(addr)
	m.bytes[addr] = value
}

// ReadWord reads a big-endian 16-bit word at a raw offset.
func (m *Memory) ReadWord(addr uint32) uint16 {
	m.checkOffset(addr + 1)
	return binary.BigEndian.Uint16(m.bytes[addr : addr+2])
}

// WriteWord writes a big-endian 16-bit word at a raw offset.
func (m *Memory) WriteWord(addr uint32, value uint16) {
	m.checkWritable(addr + 1)
	binary.BigEndian.PutUint16(m.bytes[addr:addr+2], value)
}

// ReadLong reads a big-endian 32-bit word, used for object attribute flags.
func (m *Memory) ReadLong(addr uint32) uint32 {
	m.checkOffset(addr + 3)
	return binary.BigEndian.Uint32(m.bytes[addr : addr+4])
}

// WriteLong writes a big-endian 32-bit word.
func (m *Memory) WriteLong(addr uint32, value uint32) {
	m.checkWritable(addr + 3)
	binary.BigEndian.PutUint32(m.bytes[addr:addr+4], value)
}

// Slice returns a read-only view of the image between two raw offsets.
func (m *Memory) Slice(start, end uint32) []byte {
	m.checkOffset(end - 1)
	return m.bytes[start:end]
}

func (m *Memory) checkOffset(addr uint32) {
	if addr >= uint32(len(m.bytes)) {
		panic(fmt.Sprintf("zcore: offset 0x%x out of range (length 0x%x)", addr, len(m.bytes)))
	}
}

func (m *Memory) checkWritable(addr uint32) {
	m.checkOffset(addr)
	if addr >= uint32(m.StaticBase()) {
		panic(fmt.Sprintf("zcore: write to read-only memory at 0x%x (static base 0x%x)", addr, m.StaticBase()))
	}
}

// ReadGlobal reads global variable i (0-indexed, [0,239]).
func (m *Memory) ReadGlobal(i uint8) uint16 {
	if i >= numGlobals {
		panic(fmt.Sprintf("zcore: global index %d out of range", i))
	}
	return m.ReadWord(uint32(m.GlobalTableBase()) + 2*uint32(i))
}

// WriteGlobal writes global variable i (0-indexed, [0,239]).
func (m *Memory) WriteGlobal(i uint8, value uint16) {
	if i >= numGlobals {
		panic(fmt.Sprintf("zcore: global index %d out of range", i))
	}
	m.WriteWord(uint32(m.GlobalTableBase())+2*uint32(i), value)
}

// Version returns the story-file format version (expected 3).
func (m *Memory) Version() uint8 { return m.bytes[offVersion] }

// Flags1 returns header flag byte 1.
func (m *Memory) Flags1() uint8 { return m.bytes[offFlags1] }

// FileLength returns the header's file-length field, doubled for v3.
func (m *Memory) FileLength() uint32 {
	return uint32(binary.BigEndian.Uint16(m.bytes[offFileLength:offFileLength+2])) * 2
}

// Length returns the number of bytes actually backing the image, which may
// exceed FileLength() if the host tolerated trailing bytes.
func (m *Memory) Length() uint32 { return uint32(len(m.bytes)) }

// StartPC returns the initial program counter from the header.
func (m *Memory) StartPC() uint16 { return binary.BigEndian.Uint16(m.bytes[offStartPC : offStartPC+2]) }

// ObjectTableBase returns the base address of the object/property table.
func (m *Memory) ObjectTableBase() uint16 {
	return binary.BigEndian.Uint16(m.bytes[offObjectTable : offObjectTable+2])
}

// GlobalTableBase returns the base address of the 240-slot global table.
func (m *Memory) GlobalTableBase() uint16 {
	return binary.BigEndian.Uint16(m.bytes[offGlobalTable : offGlobalTable+2])
}

// StaticBase returns the address where static (read-only at runtime)
// memory begins.
func (m *Memory) StaticBase() uint16 {
	return binary.BigEndian.Uint16(m.bytes[offStaticBase : offStaticBase+2])
}

// AbbreviationsBase returns the base address of the abbreviations table.
func (m *Memory) AbbreviationsBase() uint16 {
	return binary.BigEndian.Uint16(m.bytes[offAbbreviations : offAbbreviations+2])
}

// DictionaryBase returns the base address of the dictionary table.
func (m *Memory) DictionaryBase() uint16 {
	return binary.BigEndian.Uint16(m.bytes[offDictionary : offDictionary+2])
}

// Checksum returns the header's stored checksum, used by the verify opcode.
func (m *Memory) Checksum() uint16 {
	return binary.BigEndian.Uint16(m.bytes[offChecksum : offChecksum+2])
}

// Release returns the story file's release number.
func (m *Memory) Release() uint16 {
	return binary.BigEndian.Uint16(m.bytes[offRelease : offRelease+2])
}

// Serial returns the story file's six-byte serial code.
func (m *Memory) Serial() [6]byte {
	var s [6]byte
	copy(s[:], m.bytes[offSerial:offSerial+6])
	return s
}

// Flags2Preserved returns the subset of header flag byte 2 that the
// Z-Machine standard requires to survive restart and restore.
func (m *Memory) Flags2Preserved() uint8 {
	return m.bytes[offFlags2] & flags2TranscriptBit
}

// SetFlags2Preserved writes back the preserved subset of flag byte 2
// without disturbing its other bits.
func (m *Memory) SetFlags2Preserved(bits uint8) {
	m.bytes[offFlags2] = (m.bytes[offFlags2] &^ flags2TranscriptBit) | (bits & flags2TranscriptBit)
}

// Snapshot captures the dynamic-memory region (0..StaticBase) so Restore
// can later reset it, e.g. for the restart opcode.
func (m *Memory) Snapshot() []byte {
	snap := make([]byte, m.StaticBase())
	copy(snap, m.bytes[:m.StaticBase()])
	return snap
}

// Restore overwrites the dynamic-memory region from a previously captured
// snapshot. The snapshot must have been taken from a memory image with the
// same static base.
func (m *Memory) Restore(snapshot []byte) {
	if uint16(len(snapshot)) != m.StaticBase() {
		panic("zcore: snapshot size does not match static memory base")
	}
	copy(m.bytes[:m.StaticBase()], snapshot)
}
