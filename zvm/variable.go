package zvm

// readVariable resolves an encoded variable reference for a read. indirect
// selects the "read in place" semantics the seven indirect-variable
// opcodes (inc, dec, inc_chk, dec_chk, load, store, pull) use: reading the
// stack slot indirectly peeks rather than pops (spec.md section 4.9).
func (vm *VM) readVariable(ref uint8, indirect bool) uint16 {
	switch {
	case ref == 0:
		if indirect {
			return vm.stack.PeekU16()
		}
		return vm.stack.PopU16()
	case ref < 16:
		return vm.stack.ReadLocal(ref - 1)
	default:
		return vm.mem.ReadGlobal(ref - 16)
	}
}

// writeVariable resolves an encoded variable reference for a write.
// indirect distinguishes store's replace-in-place semantics from every
// other result-storing opcode's push semantics for the stack slot (spec.md
// section 4.9's subtlety, corrected per section 9 relative to the
// teacher's generic write-variable path which always pushed).
func (vm *VM) writeVariable(ref uint8, value uint16, indirect bool) {
	switch {
	case ref == 0:
		if indirect {
			vm.stack.ReplaceTopU16(value)
		} else {
			vm.stack.PushU16(value)
		}
	case ref < 16:
		vm.stack.WriteLocal(ref-1, value)
	default:
		vm.mem.WriteGlobal(ref-16, value)
	}
}

// storeResult writes a result-storing opcode's value to the destination
// named by the next PC byte. Every result-storing opcode but store itself
// uses push semantics for the stack slot.
func (vm *VM) storeResult(value uint16) {
	dest := vm.nextByte()
	vm.writeVariable(dest, value, false)
}
