// Package quetzal implements the Quetzal save-game interchange format: an
// IFF FORM container with IFhd/UMem/Stks chunks. Grounded on spec.md
// section 4.11; the teacher never implements the real on-disk format (only
// its own "GOZM" in-memory undo cache), so this package's chunk layout is
// built directly from the Z-Machine standard as described there, using the
// teacher's encoding/binary big-endian idiom from zcore.
package quetzal

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/gmadrid/goz3/zstack"
)

// Header is the material an IFhd chunk records: enough to detect that a
// save file belongs to this story.
type Header struct {
	Release  uint16
	Serial   [6]byte
	Checksum uint16
	PC       uint32 // only the low 24 bits are meaningful
}

// Save holds everything Encode needs to produce a Quetzal byte stream.
type Save struct {
	Header     Header
	DynamicMem []byte
	Stack      *zstack.Stack
}

// Decoded is what Decode recovers from a Quetzal byte stream.
type Decoded struct {
	Header     Header
	DynamicMem []byte
	Frames     []zstack.RestoredFrame
}

const formTag = "FORM"
const ifzsTag = "IFZS"
const ifhdTag = "IFhd"
const umemTag = "UMem"
const stksTag = "Stks"

// Encode serializes a save as a Quetzal FORM/IFZS container.
func Encode(s Save) []byte {
	var payload bytes.Buffer
	payload.WriteString(ifzsTag)
	payload.Write(chunk(ifhdTag, encodeIFhd(s.Header)))
	payload.Write(chunk(umemTag, s.DynamicMem))
	payload.Write(chunk(stksTag, encodeStks(s.Stack)))

	var out bytes.Buffer
	out.Write(chunk(formTag, payload.Bytes()))
	return out.Bytes()
}

// Decode parses a Quetzal byte stream in the layout Encode produces. Only
// the IFhd, UMem and Stks chunks are read; any other chunk, including a
// compressed CMem memory chunk, is skipped.
func Decode(data []byte) (Decoded, error) {
	tag, body, _, err := readChunk(data)
	if err != nil {
		return Decoded{}, err
	}
	if tag != formTag {
		return Decoded{}, fmt.Errorf("quetzal: outer chunk is %q, not FORM", tag)
	}
	if len(body) < 4 || string(body[:4]) != ifzsTag {
		return Decoded{}, fmt.Errorf("quetzal: FORM payload is not IFZS")
	}
	body = body[4:]

	var d Decoded
	for len(body) > 0 {
		ctag, cbody, n, err := readChunk(body)
		if err != nil {
			return Decoded{}, err
		}
		switch ctag {
		case ifhdTag:
			d.Header, err = decodeIFhd(cbody)
			if err != nil {
				return Decoded{}, err
			}
		case umemTag:
			d.DynamicMem = append([]byte(nil), cbody...)
		case stksTag:
			d.Frames, err = decodeStks(cbody)
			if err != nil {
				return Decoded{}, err
			}
		}
		body = body[n:]
	}
	return d, nil
}

// chunk wraps a tag+payload as tag:4|length:4|bytes:length|pad:(length&1).
func chunk(tag string, payload []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(tag)
	var lenBytes [4]byte
	binary.BigEndian.PutUint32(lenBytes[:], uint32(len(payload)))
	buf.Write(lenBytes[:])
	buf.Write(payload)
	if len(payload)%2 == 1 {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// readChunk reads one tag+payload from the front of data, returning the
// total number of bytes consumed (including any pad byte).
func readChunk(data []byte) (tag string, payload []byte, consumed int, err error) {
	if len(data) < 8 {
		return "", nil, 0, fmt.Errorf("quetzal: truncated chunk header")
	}
	tag = string(data[:4])
	length := binary.BigEndian.Uint32(data[4:8])
	if uint32(len(data)-8) < length {
		return "", nil, 0, fmt.Errorf("quetzal: chunk %q declares length %d beyond available data", tag, length)
	}
	payload = data[8 : 8+length]
	consumed = 8 + int(length)
	if length%2 == 1 {
		consumed++
	}
	return tag, payload, consumed, nil
}

func encodeIFhd(h Header) []byte {
	buf := make([]byte, 13)
	binary.BigEndian.PutUint16(buf[0:2], h.Release)
	copy(buf[2:8], h.Serial[:])
	binary.BigEndian.PutUint16(buf[8:10], h.Checksum)
	buf[10] = byte(h.PC >> 16)
	buf[11] = byte(h.PC >> 8)
	buf[12] = byte(h.PC)
	return buf
}

func decodeIFhd(b []byte) (Header, error) {
	if len(b) < 13 {
		return Header{}, fmt.Errorf("quetzal: IFhd chunk too short")
	}
	var h Header
	h.Release = binary.BigEndian.Uint16(b[0:2])
	copy(h.Serial[:], b[2:8])
	h.Checksum = binary.BigEndian.Uint16(b[8:10])
	h.PC = uint32(b[10])<<16 | uint32(b[11])<<8 | uint32(b[12])
	return h, nil
}

// encodeStks writes the call stack oldest-first, one variable-length frame
// record per activation (not counting the bottom zero frame).
func encodeStks(s *zstack.Stack) []byte {
	var buf bytes.Buffer
	s.MapFrames(func(returnPC uint32, locals []uint16, hasResult bool, resultTarget uint8, argsPassed uint8, eval []uint16) {
		buf.WriteByte(byte(returnPC >> 16))
		buf.WriteByte(byte(returnPC >> 8))
		buf.WriteByte(byte(returnPC))

		flags := uint8(len(locals))
		if !hasResult {
			flags |= 0b0001_0000
		}
		buf.WriteByte(flags)

		buf.WriteByte(resultTarget)

		var argsBitmap uint8
		for i := uint8(0); i < argsPassed && i < 7; i++ {
			argsBitmap |= 1 << i
		}
		buf.WriteByte(argsBitmap)

		var evalSize [2]byte
		binary.BigEndian.PutUint16(evalSize[:], uint16(len(eval)))
		buf.Write(evalSize[:])

		for _, v := range locals {
			var w [2]byte
			binary.BigEndian.PutUint16(w[:], v)
			buf.Write(w[:])
		}
		for _, v := range eval {
			var w [2]byte
			binary.BigEndian.PutUint16(w[:], v)
			buf.Write(w[:])
		}
	})
	return buf.Bytes()
}

func decodeStks(b []byte) ([]zstack.RestoredFrame, error) {
	var frames []zstack.RestoredFrame
	for len(b) > 0 {
		if len(b) < 8 {
			return nil, fmt.Errorf("quetzal: truncated Stks frame header")
		}
		returnPC := uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
		flags := b[3]
		resultTarget := b[4]
		argsBitmap := b[5]
		evalSize := binary.BigEndian.Uint16(b[6:8])
		b = b[8:]

		numLocals := int(flags & 0b0000_1111)
		hasResult := flags&0b0001_0000 == 0

		var argsPassed uint8
		for i := uint8(0); i < 7; i++ {
			if argsBitmap&(1<<i) != 0 {
				argsPassed = i + 1
			}
		}

		needed := (numLocals + int(evalSize)) * 2
		if len(b) < needed {
			return nil, fmt.Errorf("quetzal: truncated Stks frame body")
		}

		locals := make([]uint16, numLocals)
		for i := range locals {
			locals[i] = binary.BigEndian.Uint16(b[:2])
			b = b[2:]
		}
		eval := make([]uint16, evalSize)
		for i := range eval {
			eval[i] = binary.BigEndian.Uint16(b[:2])
			b = b[2:]
		}

		frames = append(frames, zstack.RestoredFrame{
			ReturnPC:     returnPC,
			HasResult:    hasResult,
			ResultTarget: resultTarget,
			ArgsPassed:   argsPassed,
			Locals:       locals,
			Eval:         eval,
		})
	}
	return frames, nil
}
