// Package zstring is the ZSCII text codec: packed 5-bit Z-character decode
// (abbreviations, single-character shifts, and the 10-bit escape), and an
// encoder used to build dictionary lookup keys. Grounded on the teacher's
// zstring.ReadZString / Decode / abbreviations.go, narrowed to the v1-3
// shift semantics spec.md section 4.10 describes (no shift locks; the
// alphabet resets to A0 after a single shifted character or an
// abbreviation).
package zstring

import (
	"fmt"

	"github.com/gmadrid/goz3/zcore"
	"github.com/gmadrid/goz3/zptr"
)

// Alphabet identifies one of the three 26-character rows.
type Alphabet int

const (
	A0 Alphabet = iota // lowercase a-z
	A1                 // uppercase A-Z
	A2                 // punctuation / digits
)

var a0Row = [26]byte{'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm', 'n', 'o', 'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z'}
var a1Row = [26]byte{'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z'}
var a2Row = [26]byte{'@', '\n', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '.', ',', '!', '?', '_', '#', '\'', '"', '/', '\\', '-', ':', '(', ')'}

// Decoder decodes packed Z-character streams read from a Memory, resolving
// abbreviations along the way.
type Decoder struct {
	mem *zcore.Memory
}

// NewDecoder returns a decoder bound to a story image.
func NewDecoder(mem *zcore.Memory) *Decoder {
	return &Decoder{mem: mem}
}

// DecodeAt decodes the ZSCII string starting at a byte address, returning
// the decoded text and the number of bytes consumed (always a multiple of
// two, one or more 16-bit words).
func (d *Decoder) DecodeAt(addr zptr.Byte) (string, uint32) {
	return d.decode(addr.Raw(), false)
}

// DecodeAtPacked decodes the ZSCII string at a packed string address.
func (d *Decoder) DecodeAtPacked(addr zptr.Packed) string {
	s, _ := d.decode(addr.Raw(), false)
	return s
}

// DecodeAbbreviation expands abbreviation sub-table z (1..3), entry x.
func (d *Decoder) DecodeAbbreviation(z, x uint8) string {
	abbrIx := uint32(32*(z-1) + x)
	tableAddr := uint32(d.mem.AbbreviationsBase()) + 2*abbrIx
	wordAddr := uint32(d.mem.ReadWord(tableAddr))
	s, _ := d.decode(zptr.Word(wordAddr).Raw(), true)
	return s
}

// decode runs the Z-character state machine starting at a raw byte offset.
// insideAbbreviation guards against abbreviations nesting (spec.md 4.10: a
// fatal error).
func (d *Decoder) decode(addr uint32, insideAbbreviation bool) (string, uint32) {
	var zchars []uint8
	start := addr
	for {
		word := d.mem.ReadWord(addr)
		addr += 2
		zchars = append(zchars, uint8((word>>10)&0x1f), uint8((word>>5)&0x1f), uint8(word&0x1f))
		if word&0x8000 != 0 {
			break
		}
	}

	var out []byte
	alphabet := A0
	shiftedOnce := false

	for i := 0; i < len(zchars); i++ {
		zc := zchars[i]

		switch {
		case zc == 0:
			out = append(out, ' ')
			alphabet, shiftedOnce = A0, false

		case zc >= 1 && zc <= 3:
			if insideAbbreviation {
				panic("zstring: abbreviation references another abbreviation")
			}
			if i+1 >= len(zchars) {
				panic("zstring: truncated abbreviation reference")
			}
			i++
			out = append(out, d.DecodeAbbreviation(zc, zchars[i])...)
			alphabet, shiftedOnce = A0, false

		case zc == 4:
			alphabet, shiftedOnce = A1, true

		case zc == 5:
			alphabet, shiftedOnce = A2, true

		case alphabet == A2 && zc == 6:
			if i+2 >= len(zchars) {
				panic("zstring: truncated 10-bit ZSCII escape")
			}
			hi := zchars[i+1]
			lo := zchars[i+2]
			i += 2
			out = append(out, uint8((hi<<5)|lo))
			if shiftedOnce {
				alphabet, shiftedOnce = A0, false
			}

		case zc >= 6 && zc <= 31:
			out = append(out, rowChar(alphabet, zc))
			if shiftedOnce {
				alphabet, shiftedOnce = A0, false
			}

		default:
			panic(fmt.Sprintf("zstring: unreachable z-character %d", zc))
		}
	}

	return string(out), addr - start
}

func rowChar(a Alphabet, zc uint8) byte {
	idx := zc - 6
	switch a {
	case A0:
		return a0Row[idx]
	case A1:
		return a1Row[idx]
	default:
		return a2Row[idx]
	}
}
