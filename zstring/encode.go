package zstring

// EncodeDictWord packs a lowercase input word into the 4-byte (two
// 16-bit-word) dictionary key v3 uses: up to 6 Z-characters, padded with
// the Z-character 5 (shift-to-A2) when short, truncated when long. This is
// the encoding side of the lookup the read/tokenise opcodes perform, and
// matches the teacher's zstring.Encode / dictionary entry layout, narrowed
// to v3's 6-character (not v4+'s 9-character) key.
func EncodeDictWord(word string) [4]byte {
	const keyChars = 6

	zchars := make([]uint8, 0, keyChars)
	for _, r := range word {
		if len(zchars) >= keyChars {
			break
		}
		zchars = append(zchars, encodeRune(r)...)
	}
	if len(zchars) > keyChars {
		zchars = zchars[:keyChars]
	}
	for len(zchars) < keyChars {
		zchars = append(zchars, 5)
	}

	var out [4]byte
	w0 := uint16(zchars[0])<<10 | uint16(zchars[1])<<5 | uint16(zchars[2])
	w1 := uint16(zchars[3])<<10 | uint16(zchars[4])<<5 | uint16(zchars[5]) | 0x8000
	out[0] = byte(w0 >> 8)
	out[1] = byte(w0)
	out[2] = byte(w1 >> 8)
	out[3] = byte(w1)
	return out
}

// encodeRune returns the Z-character sequence (possibly shift + index, or
// a 10-bit escape) needed to represent one rune.
func encodeRune(r rune) []uint8 {
	if r == ' ' {
		return []uint8{0}
	}
	if r >= 'a' && r <= 'z' {
		return []uint8{uint8(r-'a') + 6}
	}
	for idx, c := range a2Row {
		if rune(c) == r {
			return []uint8{5, uint8(idx) + 6}
		}
	}
	if r >= 'A' && r <= 'Z' {
		return []uint8{4, uint8(r-'A') + 6}
	}
	if r >= 0 && r <= 255 {
		return []uint8{5, 6, uint8(r) >> 5, uint8(r) & 0x1f}
	}
	return []uint8{5, 6, 0, 0}
}
