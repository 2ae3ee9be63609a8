package zvm

import (
	"github.com/gmadrid/goz3/zobject"
	"github.com/gmadrid/goz3/zptr"
)

// dispatch1OP handles the 1OP opcode family (spec.md section 4.7).
func (vm *VM) dispatch1OP(inst instruction) error {
	a := inst.operands[0].Value(vm)

	switch inst.number {
	case 0: // jz
		vm.handleBranch(a == 0)

	case 1: // get_sibling
		sibling := zobject.Get(vm.mem, a).Sibling
		vm.storeResult(sibling)
		vm.handleBranch(sibling != 0)

	case 2: // get_child
		child := zobject.Get(vm.mem, a).Child
		vm.storeResult(child)
		vm.handleBranch(child != 0)

	case 3: // get_parent
		vm.storeResult(zobject.Get(vm.mem, a).Parent)

	case 4: // get_prop_len
		if a == 0 {
			vm.storeResult(0)
		} else {
			vm.storeResult(zobject.GetPropertyLength(vm.mem, uint32(a)))
		}

	case 5: // inc
		ref := uint8(a)
		vm.writeVariable(ref, uint16(int16(vm.readVariable(ref, true))+1), true)

	case 6: // dec
		ref := uint8(a)
		vm.writeVariable(ref, uint16(int16(vm.readVariable(ref, true))-1), true)

	case 7: // print_addr
		text, _ := vm.dec.DecodeAt(zptr.Byte(a))
		vm.appendText(text)

	case 8: // call_1s
		vm.call(inst.operands)

	case 9: // remove_obj
		zobject.Remove(vm.mem, a)

	case 10: // print_obj
		vm.appendText(zobject.Get(vm.mem, a).Name())

	case 11: // ret
		vm.returnFromRoutine(a)

	case 12: // jump
		offset := int16(a)
		vm.pc = uint32(int64(vm.pc) + int64(offset) - 2)

	case 13: // print_paddr
		vm.appendText(vm.dec.DecodeAtPacked(zptr.Packed(a)))

	case 14: // load
		vm.storeResult(vm.readVariable(uint8(a), true))

	case 15: // not
		vm.storeResult(^a)

	default:
		return errUnknownOpcode("1OP", inst.number, vm.pc)
	}
	return nil
}
