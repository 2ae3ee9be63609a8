package zvm

import (
	"sort"

	"github.com/gmadrid/goz3/zcore"
	"github.com/gmadrid/goz3/zscreen"
	"github.com/gmadrid/goz3/zstring"
)

// Layout used by every test in this package: header, then the 240-slot
// global table, then an (optionally populated) dictionary table, then
// scratch space for code/buffers. Static memory is placed past the end of
// the buffer so every test byte stays writable.
const (
	testGlobalBase     = 0x40
	testDictionaryBase = testGlobalBase + 240*2 // 0x220
	testScratchBase    = 0x300
	testMemSize        = 0x800
)

// fakeScreen is an in-memory zscreen.Screen: it records every write and
// serves canned input lines, used the way the teacher's tests use an
// in-memory mock object-table implementation (spec.md section 9's
// "polymorphism over capabilities" design note).
type fakeScreen struct {
	main   []byte
	status string
	lines  []string
}

func (s *fakeScreen) Width() int               { return 80 }
func (s *fakeScreen) WriteMain(text string)     { s.main = append(s.main, text...) }
func (s *fakeScreen) WriteMainChar(code uint8)  { s.main = append(s.main, code) }
func (s *fakeScreen) WriteStatus(text string)   { s.status = text }
func (s *fakeScreen) Init()                     {}
func (s *fakeScreen) Teardown()                 {}
func (s *fakeScreen) ReadLine() string {
	if len(s.lines) == 0 {
		return ""
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line
}

type fakeRNG struct {
	next     uint16
	lastSeed int64
	seeded   bool
}

func (r *fakeRNG) Seed(value int64) { r.lastSeed = value; r.seeded = true }
func (r *fakeRNG) ReseedOS()        {}
func (r *fakeRNG) Next(rangeN uint16) uint16 {
	if r.next == 0 || r.next > rangeN {
		return 1
	}
	return r.next
}

type fakeSaveStore struct{ data []byte }

func (s *fakeSaveStore) Save(data []byte) error {
	s.data = append([]byte(nil), data...)
	return nil
}
func (s *fakeSaveStore) Restore() ([]byte, error) { return s.data, nil }

var _ zscreen.Screen = (*fakeScreen)(nil)
var _ zscreen.RNG = (*fakeRNG)(nil)
var _ zscreen.SaveStore = (*fakeSaveStore)(nil)

// newTestVM builds a VM over a minimal memory image: code is placed at
// testScratchBase and becomes the starting PC; dictWords (if any) populate
// the dictionary table in sorted order, matching the real on-disk layout
// dictionary.Parse expects.
func newTestVM(code []byte, dictWords ...string) (*VM, *fakeScreen) {
	b := make([]byte, testMemSize)
	b[0x00] = 3 // version
	b[0x1a] = byte(uint16(testMemSize/2) >> 8)
	b[0x1b] = byte((testMemSize / 2) & 0xff)
	b[0x0c] = byte(testGlobalBase >> 8)
	b[0x0d] = byte(testGlobalBase)
	b[0x08] = byte(testDictionaryBase >> 8)
	b[0x09] = byte(testDictionaryBase & 0xff)
	b[0x0e] = byte(testMemSize >> 8) // static base past the end: all writable
	b[0x0f] = byte(testMemSize & 0xff)
	b[0x06] = byte(testScratchBase >> 8) // start PC
	b[0x07] = byte(testScratchBase & 0xff)

	writeDictionary(b, dictWords)

	copy(b[testScratchBase:], code)

	mem, err := zcore.Load(b)
	if err != nil {
		panic(err)
	}

	screen := &fakeScreen{}
	vm := New(mem, screen, &fakeRNG{}, &fakeSaveStore{}, 0)
	return vm, screen
}

// newTestVMWithRNG is newTestVM but also returns the fakeRNG, for tests that
// need to inspect how the VM drove the RNG capability (e.g. random's seed
// value on a negative operand).
func newTestVMWithRNG(code []byte) (*VM, *fakeRNG) {
	b := make([]byte, testMemSize)
	b[0x00] = 3
	b[0x1a] = byte(uint16(testMemSize/2) >> 8)
	b[0x1b] = byte((testMemSize / 2) & 0xff)
	b[0x0c] = byte(testGlobalBase >> 8)
	b[0x0d] = byte(testGlobalBase)
	b[0x08] = byte(testDictionaryBase >> 8)
	b[0x09] = byte(testDictionaryBase & 0xff)
	b[0x0e] = byte(testMemSize >> 8)
	b[0x0f] = byte(testMemSize & 0xff)
	b[0x06] = byte(testScratchBase >> 8)
	b[0x07] = byte(testScratchBase & 0xff)

	writeDictionary(b, nil)
	copy(b[testScratchBase:], code)

	mem, err := zcore.Load(b)
	if err != nil {
		panic(err)
	}

	rng := &fakeRNG{}
	vm := New(mem, &fakeScreen{}, rng, &fakeSaveStore{}, 0)
	return vm, rng
}

// writeDictionary lays out a sorted, fixed-length (6-byte) dictionary table
// at testDictionaryBase, declaring '.' and ',' as separators the way a real
// story file's dictionary conventionally does (the tokeniser splits solely
// on whatever the dictionary declares, plus whitespace).
func writeDictionary(b []byte, words []string) {
	type keyed struct {
		key [4]byte
	}
	keys := make([]keyed, len(words))
	for i, w := range words {
		keys[i] = keyed{key: zstring.EncodeDictWord(w)}
	}
	sort.Slice(keys, func(i, j int) bool {
		for k := 0; k < 4; k++ {
			if keys[i].key[k] != keys[j].key[k] {
				return keys[i].key[k] < keys[j].key[k]
			}
		}
		return false
	})

	ptr := testDictionaryBase
	b[ptr] = 2 // separator count
	b[ptr+1] = '.'
	b[ptr+2] = ','
	ptr += 3
	const entryLen = 6
	b[ptr] = entryLen
	ptr++
	b[ptr] = byte(uint16(len(keys)) >> 8)
	b[ptr+1] = byte(uint16(len(keys)))
	ptr += 2
	for _, k := range keys {
		copy(b[ptr:], k.key[:])
		ptr += entryLen
	}
}
