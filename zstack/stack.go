// Package zstack is the call stack: frames with local variables and a
// per-frame evaluation stack, call/return. Grounded on the teacher's
// zmachine.CallStack and CallStackFrame, generalized to the frame layout
// spec.md section 3 describes (previous-frame link, return PC, locals
// count, encoded result target, locals, then an evaluation stack).
package zstack

import "fmt"

// Frame is one call-stack activation record.
type Frame struct {
	ReturnPC     uint32
	HasResult    bool
	ResultTarget uint8 // encoded variable reference, valid iff HasResult
	Locals       []uint16
	ArgsPassed   uint8 // number of call arguments actually supplied
	eval         []uint16
}

// push pushes a value onto this frame's evaluation stack.
func (f *Frame) push(v uint16) {
	f.eval = append(f.eval, v)
}

// pop pops a value from this frame's evaluation stack. Popping an empty
// stack is a fatal error (spec.md section 4.3).
func (f *Frame) pop() uint16 {
	if len(f.eval) == 0 {
		panic("zstack: pop from empty evaluation stack")
	}
	v := f.eval[len(f.eval)-1]
	f.eval = f.eval[:len(f.eval)-1]
	return v
}

// peek reads the top of this frame's evaluation stack without popping it.
func (f *Frame) peek() uint16 {
	if len(f.eval) == 0 {
		panic("zstack: peek on empty evaluation stack")
	}
	return f.eval[len(f.eval)-1]
}

// replaceTop pops then pushes v, i.e. replaces the top of stack in place.
func (f *Frame) replaceTop(v uint16) {
	if len(f.eval) == 0 {
		panic("zstack: replace top of empty evaluation stack")
	}
	f.eval[len(f.eval)-1] = v
}

// EvalDepth reports how many words are on this frame's evaluation stack.
func (f *Frame) EvalDepth() int { return len(f.eval) }

// EvalWords returns the frame's evaluation stack, oldest (bottom) first.
func (f *Frame) EvalWords() []uint16 {
	out := make([]uint16, len(f.eval))
	copy(out, f.eval)
	return out
}

// Stack is the call stack: a sequence of frames, oldest (the initial
// "zero" frame) first.
type Stack struct {
	frames []*Frame
}

// New returns a stack containing only the initial zero frame: no locals,
// no meaningful return target.
func New() *Stack {
	return &Stack{frames: []*Frame{{}}}
}

// NewFrame pushes a new activation record. numLocals must be in [0,15].
func (s *Stack) NewFrame(returnPC uint32, numLocals int, hasResult bool, resultTarget uint8, argsPassed uint8) {
	if numLocals < 0 || numLocals > 15 {
		panic(fmt.Sprintf("zstack: invalid local count %d", numLocals))
	}
	s.frames = append(s.frames, &Frame{
		ReturnPC:     returnPC,
		HasResult:    hasResult,
		ResultTarget: resultTarget,
		Locals:       make([]uint16, numLocals),
		ArgsPassed:   argsPassed,
	})
}

// PopFrame pops the current frame and returns its return PC, whether a
// result should be stored, and the encoded result target. Popping the
// bottom zero frame is a fatal error.
func (s *Stack) PopFrame() (returnPC uint32, hasResult bool, resultTarget uint8) {
	if len(s.frames) <= 1 {
		panic("zstack: attempt to return from the bottom frame")
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return top.ReturnPC, top.HasResult, top.ResultTarget
}

// Current returns the active frame.
func (s *Stack) Current() *Frame {
	return s.frames[len(s.frames)-1]
}

// Depth returns the number of frames, including the bottom zero frame.
func (s *Stack) Depth() int { return len(s.frames) }

// PushU16 pushes a value onto the current frame's evaluation stack.
func (s *Stack) PushU16(v uint16) { s.Current().push(v) }

// PopU16 pops a value from the current frame's evaluation stack.
func (s *Stack) PopU16() uint16 { return s.Current().pop() }

// PeekU16 reads, without popping, the top of the current frame's
// evaluation stack.
func (s *Stack) PeekU16() uint16 { return s.Current().peek() }

// ReplaceTopU16 replaces (pop-then-push) the top of the current frame's
// evaluation stack.
func (s *Stack) ReplaceTopU16(v uint16) { s.Current().replaceTop(v) }

// ReadLocal reads local variable i (0-indexed) of the current frame.
func (s *Stack) ReadLocal(i uint8) uint16 {
	f := s.Current()
	if int(i) >= len(f.Locals) {
		panic(fmt.Sprintf("zstack: local %d out of range (frame has %d)", i, len(f.Locals)))
	}
	return f.Locals[i]
}

// WriteLocal writes local variable i (0-indexed) of the current frame.
func (s *Stack) WriteLocal(i uint8, v uint16) {
	f := s.Current()
	if int(i) >= len(f.Locals) {
		panic(fmt.Sprintf("zstack: local %d out of range (frame has %d)", i, len(f.Locals)))
	}
	f.Locals[i] = v
}

// Reset discards all frames but the bottom zero frame, as restart requires.
func (s *Stack) Reset() {
	s.frames = []*Frame{{}}
}

// MapFrames iterates frames oldest-first, excluding the bottom zero frame,
// presenting each one's return PC, local variables, encoded result target
// (valid iff hasResult), args-passed count, and evaluation-stack words.
// Used only by the Quetzal save encoder.
func (s *Stack) MapFrames(fn func(returnPC uint32, locals []uint16, hasResult bool, resultTarget uint8, argsPassed uint8, eval []uint16)) {
	for _, f := range s.frames[1:] {
		fn(f.ReturnPC, f.Locals, f.HasResult, f.ResultTarget, f.ArgsPassed, f.EvalWords())
	}
}

// Clone deep-copies the stack, used by save_undo/restore_undo.
func (s *Stack) Clone() *Stack {
	clone := &Stack{frames: make([]*Frame, len(s.frames))}
	for i, f := range s.frames {
		nf := &Frame{
			ReturnPC:     f.ReturnPC,
			HasResult:    f.HasResult,
			ResultTarget: f.ResultTarget,
			ArgsPassed:   f.ArgsPassed,
			Locals:       make([]uint16, len(f.Locals)),
			eval:         make([]uint16, len(f.eval)),
		}
		copy(nf.Locals, f.Locals)
		copy(nf.eval, f.eval)
		clone.frames[i] = nf
	}
	return clone
}

// RestoredFrame is the material needed to reconstruct one non-bottom frame
// from a deserialized Quetzal Stks chunk.
type RestoredFrame struct {
	ReturnPC     uint32
	HasResult    bool
	ResultTarget uint8
	ArgsPassed   uint8
	Locals       []uint16
	Eval         []uint16
}

// FromRestoredFrames rebuilds a stack (bottom zero frame plus the given
// frames, oldest first) from a Quetzal restore.
func FromRestoredFrames(frames []RestoredFrame) *Stack {
	s := New()
	for _, rf := range frames {
		s.frames = append(s.frames, &Frame{
			ReturnPC:     rf.ReturnPC,
			HasResult:    rf.HasResult,
			ResultTarget: rf.ResultTarget,
			ArgsPassed:   rf.ArgsPassed,
			Locals:       append([]uint16(nil), rf.Locals...),
			eval:         append([]uint16(nil), rf.Eval...),
		})
	}
	return s
}
