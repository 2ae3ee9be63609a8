// Package zvm is the VM facade: it binds Memory, Stack, Dictionary and the
// ZSCII decoder, owns the program counter and the fetch-decode-dispatch
// loop, and exposes the capability surface (variable access, branching,
// calls, output streams) that the opcode handlers in this package use.
// Grounded on the teacher's zmachine.ZMachine / StepMachine, reworked
// around explicit zscreen.Screen/RNG capability interfaces instead of the
// teacher's channel-based message passing (spec.md section 9).
package zvm

import (
	"fmt"
	"strconv"

	"github.com/gmadrid/goz3/dictionary"
	"github.com/gmadrid/goz3/zcore"
	"github.com/gmadrid/goz3/zobject"
	"github.com/gmadrid/goz3/zscreen"
	"github.com/gmadrid/goz3/zstack"
	"github.com/gmadrid/goz3/zstring"
)

// memoryStream tracks one nested output-stream-3 redirection target.
type memoryStream struct {
	baseAddress uint32
	ptr         uint32
}

// VM is the bound-together interpreter: memory, stack, dictionary,
// decoder, and the host capabilities, plus the program counter.
type VM struct {
	mem  *zcore.Memory
	stack *zstack.Stack
	dict *dictionary.Dictionary
	dec  *zstring.Decoder

	screen zscreen.Screen
	rng    zscreen.RNG
	saves  zscreen.SaveStore

	pc uint32

	loadSnapshot []byte // dynamic memory as captured at load, for restart

	screenStream  bool
	memoryStream  bool
	memoryStreams []memoryStream

	undo []undoState

	// Warnings receives non-fatal diagnostics (e.g. an opcode family the
	// host's screen doesn't model). A nil sink discards them, matching the
	// teacher's habit of a bare fmt.Fprintf(os.Stderr, ...) call for
	// recoverable oddities rather than wiring a logging library through
	// the hot execution path.
	Warnings func(format string, args ...any)
}

// undoState is one save_undo/restore_undo snapshot: a clone of dynamic
// memory and the call stack, keyed to the PC at the moment of the save.
// Grounded on the teacher's InMemorySaveStateCache; save_undo/restore_undo
// is a distinct mechanism from the Quetzal save/restore opcodes (spec.md
// section 4.11 only specifies the on-disk format for the latter).
type undoState struct {
	pc  uint32
	mem []byte
	stk *zstack.Stack
}

// New constructs a VM from a loaded story image and host capabilities. If
// startPC is non-zero, it overrides the header's starting PC (the CLI's
// --startpc debugging override).
func New(mem *zcore.Memory, screen zscreen.Screen, rng zscreen.RNG, saves zscreen.SaveStore, startPC uint32) *VM {
	vm := &VM{
		mem:          mem,
		stack:        zstack.New(),
		dec:          zstring.NewDecoder(mem),
		screen:       screen,
		rng:          rng,
		saves:        saves,
		loadSnapshot: mem.Snapshot(),
		screenStream: true,
	}
	vm.dict = dictionary.Parse(mem, uint32(mem.DictionaryBase()))

	if startPC != 0 {
		vm.pc = startPC
	} else {
		vm.pc = uint32(mem.StartPC())
	}

	return vm
}

// nextByte fetches the byte at the PC and advances it by one.
func (vm *VM) nextByte() uint8 {
	b := vm.mem.ReadByte(vm.pc)
	vm.pc++
	return b
}

// nextWord fetches the big-endian word at the PC and advances it by two.
func (vm *VM) nextWord() uint16 {
	w := vm.mem.ReadWord(vm.pc)
	vm.pc += 2
	return w
}

// packedRoutine converts a packed routine/string address to a raw offset.
// v3 uses a flat ×2 scale for both routines and strings (spec.md section
// 3's Packed address).
func packedRoutine(value uint16) uint32 { return uint32(value) * 2 }

// Run executes instructions until the story quits, translating the
// restart sentinel into the restart sequence and resuming. Any other
// error propagates to the caller.
func (vm *VM) Run() error {
	vm.screen.Init()
	defer vm.screen.Teardown()

	for {
		err := vm.step()
		if err == nil {
			continue
		}

		verr, ok := err.(*VMError)
		if !ok {
			return err
		}

		switch verr.Kind {
		case Quitting:
			return nil
		case Restart:
			vm.doRestart()
			continue
		default:
			return verr
		}
	}
}

// step decodes and dispatches a single instruction.
func (vm *VM) step() error {
	inst := vm.decodeInstruction()

	switch inst.count {
	case op0:
		return vm.dispatch0OP(inst)
	case op1:
		return vm.dispatch1OP(inst)
	case op2:
		return vm.dispatch2OP(inst)
	default:
		return vm.dispatchVAR(inst)
	}
}

// call implements the VAR call opcode's contract: operand 0 is a packed
// routine address (0 meaning "no call, store 0"); the remaining operands
// are arguments copied over the routine's in-code local defaults.
func (vm *VM) call(operands []Operand) {
	routineAddr := packedRoutine(operands[0].Value(vm))

	if routineAddr == 0 {
		vm.storeResult(0)
		return
	}

	numLocals := int(vm.mem.ReadByte(routineAddr))
	routineAddr++

	locals := make([]uint16, numLocals)
	for i := 0; i < numLocals; i++ {
		locals[i] = vm.mem.ReadWord(routineAddr)
		routineAddr += 2
	}
	for i := 1; i < len(operands) && i-1 < numLocals; i++ {
		locals[i-1] = operands[i].Value(vm)
	}

	dest := vm.nextByte()
	argsPassed := uint8(len(operands) - 1)
	if argsPassed > 7 {
		argsPassed = 7
	}

	vm.stack.NewFrame(vm.pc, numLocals, true, dest, argsPassed)
	for i, v := range locals {
		vm.stack.WriteLocal(uint8(i), v)
	}
	vm.pc = routineAddr
}

// returnFromRoutine pops the current frame and, if it expects a stored
// result, writes val to its destination.
func (vm *VM) returnFromRoutine(val uint16) {
	returnPC, hasResult, resultTarget := vm.stack.PopFrame()
	vm.pc = returnPC
	if hasResult {
		vm.writeVariable(resultTarget, val, false)
	}
}

// doRestart performs the three-step restart sequence (spec.md section
// 4.12): restore dynamic memory from the load-time snapshot, reset the
// stack, and set the PC to the header's starting PC. Per section 9's
// design note, the designated flag-byte bits that the Z-Machine
// specification requires to survive restart are preserved rather than
// blindly overwritten along with the rest of dynamic memory.
func (vm *VM) doRestart() {
	preserved := vm.mem.Flags2Preserved()
	vm.mem.Restore(vm.loadSnapshot)
	vm.mem.SetFlags2Preserved(preserved)
	vm.stack.Reset()
	vm.pc = uint32(vm.mem.StartPC())
}

// appendText routes decoded/printed text to the active output streams.
// Output stream 3 (memory) suppresses all other active streams while
// selected, per the Z-Machine standard.
func (vm *VM) appendText(s string) {
	if vm.memoryStream {
		cur := &vm.memoryStreams[len(vm.memoryStreams)-1]
		for i := 0; i < len(s); i++ {
			vm.mem.WriteByte(cur.ptr, s[i])
			cur.ptr++
		}
		return
	}

	if vm.screenStream {
		vm.screen.WriteMain(s)
	}
}

func (vm *VM) warnf(format string, args ...any) {
	if vm.Warnings != nil {
		vm.Warnings(format, args...)
	}
}

// showStatus redraws the status line from globals 0-2 (variables
// 0x10-0x12: location object, score or hours, moves or minutes) per spec.md
// section 4.7's show_status and the teacher's read() status-bar refresh.
func (vm *VM) showStatus() {
	locationObj := vm.mem.ReadGlobal(0)
	var place string
	if locationObj != 0 {
		place = zobject.Get(vm.mem, locationObj).Name()
	}
	score := int16(vm.mem.ReadGlobal(1))
	moves := vm.mem.ReadGlobal(2)

	const statusLineTimeType = 0b0000_0010 // flag byte 1, bit 1: game-declared, untouched by Load

	var status string
	if vm.mem.Flags1()&statusLineTimeType != 0 {
		status = fmt.Sprintf("%-20s%6d:%02d", place, score, moves)
	} else {
		status = fmt.Sprintf("%-20sScore: %-5d Moves: %-5d", place, score, moves)
	}
	vm.screen.WriteStatus(status)
}

// verify computes the file checksum over the bytes beyond the header and
// compares it against the header's stored value.
func (vm *VM) verify() bool {
	checksum := vm.mem.Checksum()
	var actual uint16
	for addr := uint32(0x40); addr < vm.mem.FileLength(); addr++ {
		actual += uint16(vm.mem.ReadByte(addr))
	}
	return checksum == actual
}

// saveUndo snapshots dynamic memory and the call stack for later
// restoreUndo.
func (vm *VM) saveUndo() {
	vm.undo = append(vm.undo, undoState{
		pc:  vm.pc,
		mem: vm.mem.Snapshot(),
		stk: vm.stack.Clone(),
	})
}

// restoreUndo restores the most recent saveUndo snapshot, if any, and
// reports whether it succeeded.
func (vm *VM) restoreUndo() bool {
	if len(vm.undo) == 0 {
		return false
	}
	u := vm.undo[len(vm.undo)-1]
	vm.undo = vm.undo[:len(vm.undo)-1]

	vm.mem.Restore(u.mem)
	vm.stack = u.stk
	vm.pc = u.pc
	return true
}

func formatSignedDecimal(v uint16) string {
	return strconv.Itoa(int(int16(v)))
}
