package zobject

import "fmt"

// propertyTableStart returns the first property entry's address, skipping
// the object's short-name text in its property header.
func (o *Object) propertyTableStart() uint32 {
	wordCount := o.mem.ReadByte(uint32(o.PropsAddr))
	return uint32(o.PropsAddr) + 1 + uint32(wordCount)*2
}

// propertyAt decodes the property entry whose size byte is at addr: v1-3
// size byte is (size-1)<<5 | number, number in [1,31], size in [1,8]; a
// zero byte terminates the list (spec.md section 3, "Property header").
func (o *Object) propertyAt(addr uint32) Property {
	sizeByte := o.mem.ReadByte(addr)
	length := (sizeByte >> 5) + 1
	number := sizeByte & 0x1f
	dataAddr := addr + 1

	return Property{
		Number:      number,
		Data:        readBytes(o.mem, dataAddr, uint32(length)),
		DataAddress: dataAddr,
	}
}

func readBytes(mem interface {
	ReadByte(uint32) uint8
}, addr uint32, n uint32) []byte {
	b := make([]byte, n)
	for i := uint32(0); i < n; i++ {
		b[i] = mem.ReadByte(addr + i)
	}
	return b
}

// GetProperty returns the object's property, or the 31-entry default-table
// value (as a synthetic 2-byte property) if the object doesn't define one
// of its own.
func (o *Object) GetProperty(number uint8) Property {
	ptr := o.propertyTableStart()
	for {
		sizeByte := o.mem.ReadByte(ptr)
		if sizeByte == 0 {
			break
		}
		p := o.propertyAt(ptr)
		if p.Number == number {
			return p
		}
		ptr = p.DataAddress + uint32(len(p.Data))
	}

	def := DefaultProperty(o.mem, number)
	return Property{
		Number: number,
		Data:   []byte{byte(def >> 8), byte(def)},
	}
}

// GetPropertyAddr returns the byte address of a property's data, or 0 if
// the object doesn't define that property (spec.md's get_prop_addr).
func (o *Object) GetPropertyAddr(number uint8) uint32 {
	ptr := o.propertyTableStart()
	for {
		sizeByte := o.mem.ReadByte(ptr)
		if sizeByte == 0 {
			return 0
		}
		p := o.propertyAt(ptr)
		if p.Number == number {
			return p.DataAddress
		}
		ptr = p.DataAddress + uint32(len(p.Data))
	}
}

// GetPropertyLength returns the size, in bytes, of the property whose data
// begins at addr, or 0 if addr is 0 (spec.md's get_prop_len).
func GetPropertyLength(mem interface {
	ReadByte(uint32) uint8
}, addr uint32) uint16 {
	if addr == 0 {
		return 0
	}
	sizeByte := mem.ReadByte(addr - 1)
	return uint16(sizeByte>>5) + 1
}

// GetNextProperty returns the property number following `number` in the
// object's descending-order property list; number 0 means "the first
// property". A missing property is a fatal error (spec.md's
// get_next_prop).
func (o *Object) GetNextProperty(number uint8) uint8 {
	ptr := o.propertyTableStart()

	if number == 0 {
		sizeByte := o.mem.ReadByte(ptr)
		if sizeByte == 0 {
			return 0
		}
		return o.propertyAt(ptr).Number
	}

	for {
		sizeByte := o.mem.ReadByte(ptr)
		if sizeByte == 0 {
			panic(fmt.Sprintf("zobject: get_next_prop: object %d has no property %d", o.ID, number))
		}
		p := o.propertyAt(ptr)
		next := p.DataAddress + uint32(len(p.Data))
		if p.Number == number {
			nextSizeByte := o.mem.ReadByte(next)
			if nextSizeByte == 0 {
				return 0
			}
			return o.propertyAt(next).Number
		}
		ptr = next
	}
}

// SetProperty stores value into an existing property of length 1 or 2; any
// other length, or a missing property, is a fatal error (spec.md's
// put_prop).
func (o *Object) SetProperty(number uint8, value uint16) {
	ptr := o.propertyTableStart()
	for {
		sizeByte := o.mem.ReadByte(ptr)
		if sizeByte == 0 {
			panic(fmt.Sprintf("zobject: put_prop: object %d has no property %d", o.ID, number))
		}
		p := o.propertyAt(ptr)
		if p.Number == number {
			switch len(p.Data) {
			case 1:
				o.mem.WriteByte(p.DataAddress, uint8(value))
			case 2:
				o.mem.WriteWord(p.DataAddress, value)
			default:
				panic(fmt.Sprintf("zobject: put_prop: property %d has invalid size %d", number, len(p.Data)))
			}
			return
		}
		ptr = p.DataAddress + uint32(len(p.Data))
	}
}
