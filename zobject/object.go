// Package zobject is the v3 object/property database access layer:
// attribute bits, the parent/sibling/child tree, and property lists.
// Grounded on the teacher's zobject.Object/Property, narrowed to the
// 9-byte v1-3 object record and 31-entry default-property table (spec.md
// section 3's "Object entry (v3, 9 bytes)" and "Property header").
package zobject

import (
	"fmt"

	"github.com/gmadrid/goz3/zcore"
	"github.com/gmadrid/goz3/zptr"
	"github.com/gmadrid/goz3/zstring"
)

const (
	defaultPropertyCount = 31
	objectEntrySize      = 9
)

// Object is a transient view constructed on demand from the current
// memory image; it does not own memory.
type Object struct {
	mem         *zcore.Memory
	baseAddress uint32
	ID          uint16
	Attributes  uint32
	Parent      uint16
	Sibling     uint16
	Child       uint16
	PropsAddr   uint16
}

// Property is one decoded entry from an object's property list, or the
// synthetic two-byte default-table entry (DataAddress 0) GetProperty returns
// when the requested property is absent from the object.
type Property struct {
	Number      uint8
	Data        []byte
	DataAddress uint32
}

// ObjectTableBase returns the byte address where the 31-entry default
// property table begins (the header's object-table-base field).
func ObjectTableBase(mem *zcore.Memory) uint32 {
	return uint32(mem.ObjectTableBase())
}

// DefaultProperty returns one of the 31 global default property values,
// used when an object doesn't define a property of its own.
func DefaultProperty(mem *zcore.Memory, number uint8) uint16 {
	if number < 1 || number > defaultPropertyCount {
		panic(fmt.Sprintf("zobject: default property number %d out of range", number))
	}
	addr := ObjectTableBase(mem) + 2*uint32(number-1)
	return mem.ReadWord(addr)
}

// Get loads object id. Object numbers are 1-based; 0 denotes "no object"
// and is returned as an inert, all-zero view rather than rejected: the
// standard documents object 0 appearing as an operand to object-testing
// opcodes (jin, test_attr, get_parent/-sibling/-child) in real story
// files, and expects those to read back false/0 rather than crash.
func Get(mem *zcore.Memory, id uint16) *Object {
	if id == 0 {
		return &Object{mem: mem, ID: 0}
	}

	base := ObjectTableBase(mem) + defaultPropertyCount*2 + uint32(id-1)*objectEntrySize

	return &Object{
		mem:         mem,
		baseAddress: base,
		ID:          id,
		Attributes:  mem.ReadLong(base),
		Parent:      uint16(mem.ReadByte(base + 4)),
		Sibling:     uint16(mem.ReadByte(base + 5)),
		Child:       uint16(mem.ReadByte(base + 6)),
		PropsAddr:   mem.ReadWord(base + 7),
	}
}

// Name decodes the object's short name from its property header.
func (o *Object) Name() string {
	if o.ID == 0 {
		return ""
	}
	wordCount := o.mem.ReadByte(uint32(o.PropsAddr))
	if wordCount == 0 {
		return ""
	}
	dec := zstring.NewDecoder(o.mem)
	name, _ := dec.DecodeAt(zptr.Byte(uint32(o.PropsAddr) + 1))
	return name
}

// TestAttribute reports whether attribute bit n (0 = MSB of the first
// attribute byte) is set. Object 0 has no attributes set.
func (o *Object) TestAttribute(n uint16) bool {
	if o.ID == 0 {
		return false
	}
	return o.Attributes&(1<<(31-n)) != 0
}

// SetAttribute sets attribute bit n and persists the change. A no-op on
// object 0, which has no backing memory to write to.
func (o *Object) SetAttribute(n uint16) {
	if o.ID == 0 {
		return
	}
	o.Attributes |= 1 << (31 - n)
	o.mem.WriteLong(o.baseAddress, o.Attributes)
}

// ClearAttribute clears attribute bit n and persists the change. A no-op
// on object 0.
func (o *Object) ClearAttribute(n uint16) {
	if o.ID == 0 {
		return
	}
	o.Attributes &^= 1 << (31 - n)
	o.mem.WriteLong(o.baseAddress, o.Attributes)
}

// SetParent updates the object's parent link in memory. id 0 means none.
// A no-op on object 0.
func (o *Object) SetParent(id uint16) {
	if o.ID == 0 {
		return
	}
	o.Parent = id
	o.mem.WriteByte(o.baseAddress+4, uint8(id))
}

// SetSibling updates the object's sibling link in memory. id 0 means none.
// A no-op on object 0.
func (o *Object) SetSibling(id uint16) {
	if o.ID == 0 {
		return
	}
	o.Sibling = id
	o.mem.WriteByte(o.baseAddress+5, uint8(id))
}

// SetChild updates the object's child link in memory. id 0 means none.
// A no-op on object 0.
func (o *Object) SetChild(id uint16) {
	if o.ID == 0 {
		return
	}
	o.Child = id
	o.mem.WriteByte(o.baseAddress+6, uint8(id))
}

// Remove detaches the object from its parent's child chain (spec.md's
// remove_obj). A no-op if the object has no parent.
func Remove(mem *zcore.Memory, id uint16) {
	o := Get(mem, id)
	if o.Parent == 0 {
		return
	}
	parent := Get(mem, o.Parent)

	if parent.Child == o.ID {
		parent.SetChild(o.Sibling)
	} else {
		cur := Get(mem, parent.Child)
		for {
			if cur.Sibling == o.ID {
				cur.SetSibling(o.Sibling)
				break
			}
			if cur.Sibling == 0 {
				panic(fmt.Sprintf("zobject: object %d not found in parent %d's child chain", id, o.Parent))
			}
			cur = Get(mem, cur.Sibling)
		}
	}

	o.SetParent(0)
	o.SetSibling(0)
}

// Insert detaches obj from its current parent (if any) and makes it the
// first child of newParent (spec.md's insert_obj).
func Insert(mem *zcore.Memory, id uint16, newParentID uint16) {
	Remove(mem, id)

	o := Get(mem, id)
	newParent := Get(mem, newParentID)

	o.SetSibling(newParent.Child)
	o.SetParent(newParentID)
	newParent.SetChild(id)
}
