package zobject

import (
	"testing"

	"github.com/gmadrid/goz3/zcore"
)

// buildObjectMemory lays out the 31-entry default-property table followed
// by n objects (each with an empty property header: a single zero word
// count byte, so Name() returns ""), with all attributes clear and no
// parent/sibling/child links. Returns the memory image.
func buildObjectMemory(t *testing.T, n int) *zcore.Memory {
	t.Helper()
	const base = 0x40
	propTableBase := base + defaultPropertyCount*2
	objectsEnd := propTableBase + n*objectEntrySize
	propHeaderStart := objectsEnd
	length := propHeaderStart + n*1 // one zero byte per object's property header
	length = (length + 0xf) &^ 0xf
	if length < 0x100 {
		length = 0x100
	}

	b := make([]byte, length)
	b[0x00] = 3
	b[0x1a] = byte(uint16(length/2) >> 8)
	b[0x1b] = byte(uint16(length / 2))
	b[0x0a] = byte(base >> 8)
	b[0x0b] = byte(base)
	b[0x0e] = byte(length >> 8) // static base: whole image stays writable
	b[0x0f] = byte(length)

	// Give each object a distinct, valid (empty) property header so Name()
	// doesn't read garbage.
	for i := 0; i < n; i++ {
		propAddr := propHeaderStart + i
		entryBase := propTableBase + i*objectEntrySize
		b[entryBase+7] = byte(propAddr >> 8)
		b[entryBase+8] = byte(propAddr)
		b[propAddr] = 0 // zero word count: no short name
	}

	m, err := zcore.Load(b)
	if err != nil {
		t.Fatalf("zcore.Load: %v", err)
	}
	return m
}

func TestInsertObjSetsParentAndChildChain(t *testing.T) {
	mem := buildObjectMemory(t, 3)
	// {1 (no parent), 2 (no parent), 3 (child of 1)}.
	Get(mem, 1).SetChild(3)
	Get(mem, 3).SetParent(1)

	Insert(mem, 3, 2)

	o3 := Get(mem, 3)
	if o3.Parent != 2 {
		t.Errorf("object 3's parent = %d, want 2", o3.Parent)
	}
	if o3.Sibling != 0 {
		t.Errorf("object 3's sibling = %d, want 0", o3.Sibling)
	}
	if got := Get(mem, 2).Child; got != 3 {
		t.Errorf("object 2's child = %d, want 3", got)
	}
	if got := Get(mem, 1).Child; got != 0 {
		t.Errorf("object 1's child = %d, want 0", got)
	}
}

func TestRemoveObjNoParentIsNoOp(t *testing.T) {
	mem := buildObjectMemory(t, 2)
	before := *Get(mem, 1)
	Remove(mem, 1)
	after := Get(mem, 1)
	if after.Parent != before.Parent || after.Sibling != before.Sibling || after.Child != before.Child {
		t.Error("Remove on a parentless object mutated its links")
	}
}

func TestRemoveObjSplicesOutOfMiddleOfSiblingChain(t *testing.T) {
	mem := buildObjectMemory(t, 4)
	// parent 1 has children 2 -> 3 -> 4 (sibling chain).
	p := Get(mem, 1)
	p.SetChild(2)
	Get(mem, 2).SetParent(1)
	Get(mem, 2).SetSibling(3)
	Get(mem, 3).SetParent(1)
	Get(mem, 3).SetSibling(4)
	Get(mem, 4).SetParent(1)

	Remove(mem, 3)

	if got := Get(mem, 2).Sibling; got != 4 {
		t.Errorf("object 2's sibling after removing 3 = %d, want 4", got)
	}
	o3 := Get(mem, 3)
	if o3.Parent != 0 || o3.Sibling != 0 {
		t.Errorf("removed object 3 still linked: parent=%d sibling=%d", o3.Parent, o3.Sibling)
	}
}

func TestAttributeSetClearTest(t *testing.T) {
	mem := buildObjectMemory(t, 1)
	o := Get(mem, 1)
	if o.TestAttribute(5) {
		t.Fatal("attribute 5 should start clear")
	}
	o.SetAttribute(5)
	if !Get(mem, 1).TestAttribute(5) {
		t.Error("attribute 5 should be set")
	}
	Get(mem, 1).ClearAttribute(5)
	if Get(mem, 1).TestAttribute(5) {
		t.Error("attribute 5 should be clear again")
	}
}

func TestDefaultPropertyRange(t *testing.T) {
	mem := buildObjectMemory(t, 1)
	defer func() {
		if recover() == nil {
			t.Error("DefaultProperty(0) should panic (1-indexed)")
		}
	}()
	DefaultProperty(mem, 0)
}

func TestGetPropertyFallsBackToDefault(t *testing.T) {
	mem := buildObjectMemory(t, 1)
	// Default property 3 = 0x1234.
	addr := ObjectTableBase(mem) + 2*2
	mem.WriteWord(addr, 0x1234)

	p := Get(mem, 1).GetProperty(3)
	if len(p.Data) != 2 || p.Data[0] != 0x12 || p.Data[1] != 0x34 {
		t.Errorf("GetProperty fallback = %v, want [0x12 0x34]", p.Data)
	}
}
