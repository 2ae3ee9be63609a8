package zvm

import (
	"github.com/gmadrid/goz3/quetzal"
	"github.com/gmadrid/goz3/zstack"
)

// saveQuetzal implements the 0OP save opcode: encode the current state as
// a Quetzal image and hand it to the host's SaveStore.
func (vm *VM) saveQuetzal() bool {
	save := quetzal.Save{
		Header: quetzal.Header{
			Release:  vm.mem.Release(),
			Serial:   vm.mem.Serial(),
			Checksum: vm.mem.Checksum(),
			PC:       vm.pc,
		},
		DynamicMem: vm.mem.Snapshot(),
		Stack:      vm.stack,
	}

	if err := vm.saves.Save(quetzal.Encode(save)); err != nil {
		vm.warnf("save failed: %v", err)
		return false
	}
	return true
}

// restoreQuetzal implements the 0OP restore opcode: fetch a Quetzal image
// from the host and rebuild memory, the stack, and the PC from it.
func (vm *VM) restoreQuetzal() bool {
	data, err := vm.saves.Restore()
	if err != nil {
		vm.warnf("restore failed: %v", err)
		return false
	}

	decoded, err := quetzal.Decode(data)
	if err != nil {
		vm.warnf("restore failed: %v", err)
		return false
	}

	if decoded.Header.Release != vm.mem.Release() || decoded.Header.Serial != vm.mem.Serial() {
		vm.warnf("restore: save file belongs to a different story")
		return false
	}

	vm.mem.Restore(decoded.DynamicMem)
	vm.stack = zstack.FromRestoredFrames(decoded.Frames)
	vm.pc = decoded.Header.PC
	return true
}
