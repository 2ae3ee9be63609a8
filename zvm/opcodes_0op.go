package zvm

import "github.com/gmadrid/goz3/zptr"

// dispatch0OP handles the 0OP opcode family (spec.md section 4.7).
func (vm *VM) dispatch0OP(inst instruction) error {
	switch inst.number {
	case 0: // rtrue
		vm.returnFromRoutine(1)

	case 1: // rfalse
		vm.returnFromRoutine(0)

	case 2: // print
		text, n := vm.dec.DecodeAt(zptr.Byte(vm.pc))
		vm.pc += n
		vm.appendText(text)

	case 3: // print_ret
		text, n := vm.dec.DecodeAt(zptr.Byte(vm.pc))
		vm.pc += n
		vm.appendText(text)
		vm.appendText("\n")
		vm.returnFromRoutine(1)

	case 4: // nop
		// no-op

	case 5: // save
		ok := vm.saveQuetzal()
		vm.handleBranch(ok)

	case 6: // restore
		ok := vm.restoreQuetzal()
		vm.handleBranch(ok)

	case 7: // restart
		return errRestart()

	case 8: // ret_popped
		vm.returnFromRoutine(vm.stack.PopU16())

	case 9: // pop
		vm.stack.PopU16()

	case 10: // quit
		return errQuitting()

	case 11: // new_line
		vm.appendText("\n")

	case 12: // show_status
		vm.showStatus()

	case 13: // verify
		vm.handleBranch(vm.verify())

	default:
		return errUnknownOpcode("0OP", inst.number, vm.pc)
	}
	return nil
}
