// Package dictionary is a read-only lookup over the sorted dictionary
// table a story file carries: separator characters, then fixed-length
// entries keyed by a 4-byte packed text code. Grounded on the teacher's
// dictionary.ParseDictionary/Find, replacing its linear scan with the
// binary search spec.md section 9's Open Questions calls for (entries are
// sorted by their packed key).
package dictionary

import (
	"bytes"
	"sort"

	"github.com/gmadrid/goz3/zcore"
)

// Entry is one dictionary entry: its 4-byte packed text key, the byte
// address of the entry (used as the parse-buffer's dictionary pointer), and
// any trailing data bytes.
type Entry struct {
	Address uint32
	Key     [4]byte
	Data    []byte
}

// Dictionary is the parsed, sorted dictionary table.
type Dictionary struct {
	Separators []byte
	entries    []Entry
}

// Parse reads the dictionary table starting at baseAddress.
func Parse(mem *zcore.Memory, baseAddress uint32) *Dictionary {
	ptr := baseAddress
	numSeparators := mem.ReadByte(ptr)
	ptr++

	separators := make([]byte, numSeparators)
	for i := range separators {
		separators[i] = mem.ReadByte(ptr)
		ptr++
	}

	entryLength := mem.ReadByte(ptr)
	ptr++
	count := int16(mem.ReadWord(ptr))
	ptr += 2

	entries := make([]Entry, 0, count)
	for i := 0; i < int(count); i++ {
		var key [4]byte
		for k := 0; k < 4; k++ {
			key[k] = mem.ReadByte(ptr + uint32(k))
		}
		dataLen := int(entryLength) - 4
		data := make([]byte, dataLen)
		for k := 0; k < dataLen; k++ {
			data[k] = mem.ReadByte(ptr + 4 + uint32(k))
		}
		entries = append(entries, Entry{Address: ptr, Key: key, Data: data})
		ptr += uint32(entryLength)
	}

	return &Dictionary{Separators: separators, entries: entries}
}

// IsSeparator reports whether a character is one of the dictionary's
// declared separator tokens (in addition to the universal space
// separator).
func (d *Dictionary) IsSeparator(c byte) bool {
	for _, s := range d.Separators {
		if s == c {
			return true
		}
	}
	return false
}

// Find looks up a 4-byte packed dictionary key and returns the matching
// entry's byte address, or 0 if the word is not in the dictionary.
// Entries are sorted ascending by key, so a binary search applies.
func (d *Dictionary) Find(key [4]byte) uint32 {
	ix := sort.Search(len(d.entries), func(i int) bool {
		return bytes.Compare(d.entries[i].Key[:], key[:]) >= 0
	})
	if ix < len(d.entries) && d.entries[ix].Key == key {
		return d.entries[ix].Address
	}
	return 0
}
