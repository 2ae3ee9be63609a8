package zvm

import (
	"strings"

	"github.com/gmadrid/goz3/zstring"
)

// read implements the VAR sread opcode: prompt for a line, copy it
// (lower-cased) into the text buffer, then tokenise it into the parse
// buffer (spec.md section 4.10).
func (vm *VM) read(ops []Operand) {
	vm.showStatus()

	textBuffer := uint32(ops[0].Value(vm))
	parseBuffer := uint32(0)
	if len(ops) > 1 {
		parseBuffer = uint32(ops[1].Value(vm))
	}

	raw := vm.screen.ReadLine()
	raw = strings.ToLower(strings.TrimRight(raw, "\n"))

	// "undo" is a host-level meta-command, not Z-machine input: restore the
	// checkpoint taken at the start of the turn just completed and skip
	// tokenisation entirely. Supplements the v3 opcode set, which has no
	// reachable save_undo/restore_undo (those are EXT-form, v5+ only).
	if strings.TrimSpace(raw) == "undo" {
		if vm.restoreUndo() {
			vm.appendText("Undone.\n")
		} else {
			vm.appendText("Nothing to undo.\n")
		}
		if parseBuffer != 0 {
			vm.mem.WriteByte(parseBuffer+1, 0)
		}
		return
	}
	vm.saveUndo()

	maxLen := uint32(vm.mem.ReadByte(textBuffer))
	dest := textBuffer + 1

	n := uint32(len(raw))
	if n > maxLen {
		n = maxLen
	}
	for i := uint32(0); i < n; i++ {
		vm.mem.WriteByte(dest+i, raw[i])
	}
	vm.mem.WriteByte(dest+n, 0)

	if parseBuffer != 0 {
		vm.tokenise(textBuffer, parseBuffer)
	}
}

// token is one lexed span of the lower-cased input text.
type token struct {
	text  string
	start uint32 // offset from the start of the text, 0-based
}

// lexTokens splits text into word and separator tokens per spec.md section
// 4.10: space/tab/newline delimit; isSeparator reports the dictionary's
// declared one-character separator tokens (conventionally '.' and ',',
// but a story's dictionary can declare others), which split like
// whitespace but are also kept as their own token; everything else
// accumulates into word tokens.
func lexTokens(text string, isSeparator func(byte) bool) []token {
	var tokens []token
	var cur strings.Builder
	curStart := uint32(0)

	flush := func(end uint32) {
		if cur.Len() > 0 {
			tokens = append(tokens, token{text: cur.String(), start: curStart})
			cur.Reset()
		}
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n':
			flush(uint32(i))
			curStart = uint32(i) + 1
		case isSeparator(c):
			flush(uint32(i))
			tokens = append(tokens, token{text: string(c), start: uint32(i)})
			curStart = uint32(i) + 1
		default:
			if cur.Len() == 0 {
				curStart = uint32(i)
			}
			cur.WriteByte(c)
		}
	}
	flush(uint32(len(text)))

	return tokens
}

// tokenise fills the parse buffer per the teacher's Tokenise, generalized
// to the separator-token rules above and a binary-search dictionary
// lookup (spec.md section 9's open question about the source's linear
// scan).
func (vm *VM) tokenise(textBuffer, parseBuffer uint32) {
	maxLen := vm.mem.ReadByte(textBuffer)
	text := string(vm.mem.Slice(textBuffer+1, textBuffer+1+uint32(maxLen)))
	if idx := strings.IndexByte(text, 0); idx >= 0 {
		text = text[:idx]
	}

	tokens := lexTokens(text, vm.dict.IsSeparator)

	maxTokens := vm.mem.ReadByte(parseBuffer)
	if int(maxTokens) < len(tokens) {
		tokens = tokens[:maxTokens]
	}

	ptr := parseBuffer + 1
	vm.mem.WriteByte(ptr, uint8(len(tokens)))
	ptr++

	for _, t := range tokens {
		key := zstring.EncodeDictWord(t.text)
		addr := vm.dict.Find(key)
		vm.mem.WriteWord(ptr, uint16(addr))
		vm.mem.WriteByte(ptr+2, uint8(len(t.text)))
		vm.mem.WriteByte(ptr+3, uint8(t.start+1))
		ptr += 4
	}
}
