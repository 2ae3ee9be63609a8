package zvm

import "github.com/gmadrid/goz3/zobject"

// dispatchVAR handles the VAR opcode family (spec.md section 4.7). Only
// the opcode numbers a v3 story file can actually emit are implemented;
// later-version VAR opcodes (call_vs2, erase_window, set_cursor, ...) fall
// through to UnknownOpcode, since no v3 compiler emits them.
func (vm *VM) dispatchVAR(inst instruction) error {
	ops := inst.operands

	switch inst.number {
	case 0: // call
		vm.call(ops)

	case 1: // storew
		addr := uint32(ops[0].Value(vm)) + 2*uint32(ops[1].Value(vm))
		vm.mem.WriteWord(addr, ops[2].Value(vm))

	case 2: // storeb
		addr := uint32(ops[0].Value(vm)) + uint32(ops[1].Value(vm))
		vm.mem.WriteByte(addr, uint8(ops[2].Value(vm)))

	case 3: // put_prop
		obj := zobject.Get(vm.mem, ops[0].Value(vm))
		obj.SetProperty(uint8(ops[1].Value(vm)), ops[2].Value(vm))

	case 4: // read (sread)
		vm.read(ops)

	case 5: // print_char
		code := uint8(ops[0].Value(vm))
		vm.screen.WriteMainChar(code)

	case 6: // print_num
		vm.appendText(formatSignedDecimal(ops[0].Value(vm)))

	case 7: // random
		n := int16(ops[0].Value(vm))
		switch {
		case n < 0:
			vm.rng.Seed(int64(-n))
			vm.storeResult(0)
		case n == 0:
			vm.rng.ReseedOS()
			vm.storeResult(0)
		default:
			vm.storeResult(vm.rng.Next(uint16(n)))
		}

	case 8: // push
		vm.stack.PushU16(ops[0].Value(vm))

	case 9: // pull
		vm.writeVariable(uint8(ops[0].Value(vm)), vm.stack.PopU16(), true)

	case 10: // split_window
		vm.warnf("split_window(%d): no upper-window model in this v3 host", ops[0].Value(vm))

	case 11: // set_window
		vm.warnf("set_window(%d): no upper-window model in this v3 host", ops[0].Value(vm))

	case 19: // output_stream
		vm.setOutputStream(ops)

	case 20: // input_stream
		vm.warnf("input_stream: command-file playback is not supported")

	default:
		return errUnknownOpcode("VAR", inst.number, vm.pc)
	}
	return nil
}

// setOutputStream implements the output_stream opcode: a positive stream
// number selects it, negative deselects it. Stream 3 (memory) is the only
// one that takes a second operand (a table address).
func (vm *VM) setOutputStream(ops []Operand) {
	stream := int16(ops[0].Value(vm))

	switch stream {
	case 1, -1:
		vm.screenStream = stream > 0
	case 3:
		vm.memoryStream = true
		base := uint32(ops[1].Value(vm))
		vm.memoryStreams = append(vm.memoryStreams, memoryStream{baseAddress: base, ptr: base + 2})
	case -3:
		if !vm.memoryStream {
			return
		}
		cur := vm.memoryStreams[len(vm.memoryStreams)-1]
		vm.mem.WriteWord(cur.baseAddress, uint16(cur.ptr-cur.baseAddress-2))
		vm.memoryStreams = vm.memoryStreams[:len(vm.memoryStreams)-1]
		vm.memoryStream = len(vm.memoryStreams) > 0
	default:
		vm.warnf("output_stream(%d): transcript/command streams are not modelled", stream)
	}
}
