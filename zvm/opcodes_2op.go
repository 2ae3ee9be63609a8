package zvm

import "github.com/gmadrid/goz3/zobject"

// dispatch2OP handles the 2OP opcode family, including 2OP instructions
// reached through the variable-form encoding (spec.md section 4.7).
func (vm *VM) dispatch2OP(inst instruction) error {
	a := inst.operands[0].Value(vm)

	switch inst.number {
	case 1: // je
		branch := false
		for _, op := range inst.operands[1:] {
			if op.Value(vm) == a {
				branch = true
			}
		}
		vm.handleBranch(branch)

	case 2: // jl
		b := inst.operands[1].Value(vm)
		vm.handleBranch(int16(a) < int16(b))

	case 3: // jg
		b := inst.operands[1].Value(vm)
		vm.handleBranch(int16(a) > int16(b))

	case 4: // dec_chk
		ref := uint8(a)
		newVal := int16(vm.readVariable(ref, true)) - 1
		vm.writeVariable(ref, uint16(newVal), true)
		vm.handleBranch(newVal < int16(inst.operands[1].Value(vm)))

	case 5: // inc_chk
		ref := uint8(a)
		newVal := int16(vm.readVariable(ref, true)) + 1
		vm.writeVariable(ref, uint16(newVal), true)
		vm.handleBranch(newVal > int16(inst.operands[1].Value(vm)))

	case 6: // jin
		b := inst.operands[1].Value(vm)
		vm.handleBranch(zobject.Get(vm.mem, a).Parent == b)

	case 7: // test
		flags := inst.operands[1].Value(vm)
		vm.handleBranch(a&flags == flags)

	case 8: // or
		vm.storeResult(a | inst.operands[1].Value(vm))

	case 9: // and
		vm.storeResult(a & inst.operands[1].Value(vm))

	case 10: // test_attr
		vm.handleBranch(zobject.Get(vm.mem, a).TestAttribute(inst.operands[1].Value(vm)))

	case 11: // set_attr
		zobject.Get(vm.mem, a).SetAttribute(inst.operands[1].Value(vm))

	case 12: // clear_attr
		zobject.Get(vm.mem, a).ClearAttribute(inst.operands[1].Value(vm))

	case 13: // store
		vm.writeVariable(uint8(a), inst.operands[1].Value(vm), true)

	case 14: // insert_obj
		zobject.Insert(vm.mem, a, inst.operands[1].Value(vm))

	case 15: // loadw
		addr := uint32(a) + 2*uint32(inst.operands[1].Value(vm))
		vm.storeResult(vm.mem.ReadWord(addr))

	case 16: // loadb
		addr := uint32(a) + uint32(inst.operands[1].Value(vm))
		vm.storeResult(uint16(vm.mem.ReadByte(addr)))

	case 17: // get_prop
		obj := zobject.Get(vm.mem, a)
		prop := obj.GetProperty(uint8(inst.operands[1].Value(vm)))
		switch len(prop.Data) {
		case 1:
			vm.storeResult(uint16(prop.Data[0]))
		case 2:
			vm.storeResult(uint16(prop.Data[0])<<8 | uint16(prop.Data[1]))
		default:
			panic("zvm: get_prop on a property longer than two bytes")
		}

	case 18: // get_prop_addr
		obj := zobject.Get(vm.mem, a)
		vm.storeResult(uint16(obj.GetPropertyAddr(uint8(inst.operands[1].Value(vm)))))

	case 19: // get_next_prop
		obj := zobject.Get(vm.mem, a)
		vm.storeResult(uint16(obj.GetNextProperty(uint8(inst.operands[1].Value(vm)))))

	case 20: // add
		vm.storeResult(uint16(int32(int16(a)) + int32(int16(inst.operands[1].Value(vm)))))

	case 21: // sub
		vm.storeResult(uint16(int32(int16(a)) - int32(int16(inst.operands[1].Value(vm)))))

	case 22: // mul
		vm.storeResult(uint16(int32(int16(a)) * int32(int16(inst.operands[1].Value(vm)))))

	case 23: // div
		b := int16(inst.operands[1].Value(vm))
		if b == 0 {
			panic("zvm: division by zero")
		}
		vm.storeResult(uint16(int16(a) / b))

	case 24: // mod
		b := int16(inst.operands[1].Value(vm))
		if b == 0 {
			panic("zvm: modulo by zero")
		}
		vm.storeResult(uint16(int16(a) % b))

	default:
		return errUnknownOpcode("2OP", inst.number, vm.pc)
	}
	return nil
}
