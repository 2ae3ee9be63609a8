package zstring

import "testing"

func TestEncodeDictWordShortWordPadded(t *testing.T) {
	got := EncodeDictWord("hi")
	// h=idx7->zc13, i=idx8->zc14, then four padding 5s across two words.
	// Decode the key back via the same shift math EncodeDictWord uses,
	// checking it yields "hi" followed by padding characters only.
	w0 := uint16(got[0])<<8 | uint16(got[1])
	w1 := uint16(got[2])<<8 | uint16(got[3])

	zchars := []uint8{
		uint8((w0 >> 10) & 0x1f), uint8((w0 >> 5) & 0x1f), uint8(w0 & 0x1f),
		uint8((w1 >> 10) & 0x1f), uint8((w1 >> 5) & 0x1f), uint8(w1 & 0x1f),
	}
	wantZchars := []uint8{13, 14, 5, 5, 5, 5}
	for i, zc := range zchars {
		if zc != wantZchars[i] {
			t.Errorf("zchar[%d] = %d, want %d", i, zc, wantZchars[i])
		}
	}
	if w1&0x8000 == 0 {
		t.Error("second word must have the high bit set (last word of the string)")
	}
}

func TestEncodeDictWordTruncatesLongWords(t *testing.T) {
	a := EncodeDictWord("bicycle")  // 7 letters, only 6 fit in a v3 key
	b := EncodeDictWord("bicycles") // differs only beyond the 6th letter
	if a != b {
		t.Errorf("EncodeDictWord(%q) = %v, want it to equal EncodeDictWord(%q) = %v (both truncate to the same 6 characters)", "bicycle", a, "bicycles", b)
	}
}

func TestEncodeDictWordDistinguishesDifferentWords(t *testing.T) {
	a := EncodeDictWord("hi")
	b := EncodeDictWord("sailor")
	if a == b {
		t.Error("EncodeDictWord(\"hi\") == EncodeDictWord(\"sailor\"), want distinct keys")
	}
}

func TestEncodeDictWordPunctuation(t *testing.T) {
	a := EncodeDictWord(",")
	b := EncodeDictWord(".")
	if a == b {
		t.Error("EncodeDictWord(\",\") == EncodeDictWord(\".\"), want distinct keys")
	}
}
