package dictionary

import (
	"testing"

	"github.com/gmadrid/goz3/zcore"
)

// buildDictionaryMemory lays out a dictionary table (no separators, 4-byte
// keys + 2 data bytes = 6-byte entries) at address 0x40 in a minimal v3
// memory image, with entries already in ascending key order.
func buildDictionaryMemory(t *testing.T, keys [][4]byte) (*zcore.Memory, uint32) {
	t.Helper()
	const base = 0x40
	const entryLen = 6 // 4-byte key + 2 unused data bytes
	length := base + 4 + len(keys)*entryLen
	if length < 0x40 {
		length = 0x40
	}
	length = (length + 0xf) &^ 0xf // round up

	b := make([]byte, length)
	b[0x00] = 3
	b[0x1a] = byte(uint16(length/2) >> 8)
	b[0x1b] = byte(uint16(length / 2))

	ptr := base
	b[ptr] = 0 // zero separators
	ptr++
	b[ptr] = entryLen
	ptr++
	b[ptr] = byte(uint16(len(keys)) >> 8)
	b[ptr+1] = byte(uint16(len(keys)))
	ptr += 2
	for _, k := range keys {
		copy(b[ptr:], k[:])
		ptr += entryLen
	}

	m, err := zcore.Load(b)
	if err != nil {
		t.Fatalf("zcore.Load: %v", err)
	}
	return m, base
}

func TestFindExistingEntry(t *testing.T) {
	keys := [][4]byte{{0, 0, 0, 1}, {0, 0, 0, 5}, {0, 0, 0, 9}}
	mem, base := buildDictionaryMemory(t, keys)
	d := Parse(mem, uint32(base))

	addr := d.Find(keys[1])
	if addr == 0 {
		t.Fatal("Find did not locate an entry that is present")
	}
	// entry 1 is the second entry: base + header(4) + 1*entryLen(6)
	want := uint32(base) + 4 + 6
	if addr != want {
		t.Errorf("Find returned address 0x%x, want 0x%x", addr, want)
	}
}

func TestFindMissingEntry(t *testing.T) {
	keys := [][4]byte{{0, 0, 0, 1}, {0, 0, 0, 5}, {0, 0, 0, 9}}
	mem, base := buildDictionaryMemory(t, keys)
	d := Parse(mem, uint32(base))

	if addr := d.Find([4]byte{0, 0, 0, 3}); addr != 0 {
		t.Errorf("Find on an absent key returned 0x%x, want 0", addr)
	}
}

func TestFindEmptyDictionary(t *testing.T) {
	mem, base := buildDictionaryMemory(t, nil)
	d := Parse(mem, uint32(base))
	if addr := d.Find([4]byte{0, 0, 0, 1}); addr != 0 {
		t.Errorf("Find against an empty dictionary returned 0x%x, want 0", addr)
	}
}

func TestIsSeparator(t *testing.T) {
	const base = 0x40
	length := 0x60
	b := make([]byte, length)
	b[0x00] = 3
	b[0x1a] = byte(uint16(length/2) >> 8)
	b[0x1b] = byte(uint16(length / 2))
	b[base] = 2    // 2 separators
	b[base+1] = '.'
	b[base+2] = ','
	b[base+3] = 6 // entry length
	b[base+4] = 0
	b[base+5] = 0 // 0 entries

	m, err := zcore.Load(b)
	if err != nil {
		t.Fatalf("zcore.Load: %v", err)
	}
	d := Parse(m, base)

	if !d.IsSeparator('.') || !d.IsSeparator(',') {
		t.Error("declared separators not recognized")
	}
	if d.IsSeparator('a') {
		t.Error("'a' should not be a separator")
	}
}
