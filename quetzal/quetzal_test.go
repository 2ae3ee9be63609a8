package quetzal

import (
	"bytes"
	"testing"

	"github.com/gmadrid/goz3/zstack"
)

func TestEncodeDecodeRoundtrip(t *testing.T) {
	stk := zstack.New()
	stk.NewFrame(0x4321, 2, true, 0x10, 2)
	stk.WriteLocal(0, 11)
	stk.WriteLocal(1, 22)
	stk.PushU16(100)
	stk.PushU16(200)

	save := Save{
		Header: Header{
			Release:  7,
			Serial:   [6]byte{'0', '0', '1', '2', '3', '4'},
			Checksum: 0xBEEF,
			PC:       0x1122,
		},
		DynamicMem: []byte{1, 2, 3, 4, 5},
		Stack:      stk,
	}

	encoded := Encode(save)
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if decoded.Header != save.Header {
		t.Errorf("Header roundtrip = %+v, want %+v", decoded.Header, save.Header)
	}
	if !bytes.Equal(decoded.DynamicMem, save.DynamicMem) {
		t.Errorf("DynamicMem roundtrip = %v, want %v", decoded.DynamicMem, save.DynamicMem)
	}
	if len(decoded.Frames) != 1 {
		t.Fatalf("got %d restored frames, want 1", len(decoded.Frames))
	}
	f := decoded.Frames[0]
	if f.ReturnPC != 0x4321 {
		t.Errorf("frame ReturnPC = 0x%x, want 0x4321", f.ReturnPC)
	}
	if !f.HasResult || f.ResultTarget != 0x10 {
		t.Errorf("frame HasResult/ResultTarget = %v/0x%x, want true/0x10", f.HasResult, f.ResultTarget)
	}
	if len(f.Locals) != 2 || f.Locals[0] != 11 || f.Locals[1] != 22 {
		t.Errorf("frame Locals = %v, want [11 22]", f.Locals)
	}
	if len(f.Eval) != 2 || f.Eval[0] != 100 || f.Eval[1] != 200 {
		t.Errorf("frame Eval = %v, want [100 200]", f.Eval)
	}
}

func TestEncodeProducesFormIfzsContainer(t *testing.T) {
	save := Save{Stack: zstack.New()}
	encoded := Encode(save)
	if len(encoded) < 12 {
		t.Fatalf("encoded save too short: %d bytes", len(encoded))
	}
	if string(encoded[0:4]) != "FORM" {
		t.Errorf("outer tag = %q, want FORM", encoded[0:4])
	}
	if string(encoded[8:12]) != "IFZS" {
		t.Errorf("FORM subtype = %q, want IFZS", encoded[8:12])
	}
}

func TestDecodeRejectsNonFormData(t *testing.T) {
	if _, err := Decode([]byte("not a quetzal file at all")); err == nil {
		t.Error("Decode on garbage data should return an error")
	}
}

func TestDecodeRejectsTruncatedChunk(t *testing.T) {
	if _, err := Decode([]byte("FORM")); err == nil {
		t.Error("Decode on a truncated chunk header should return an error")
	}
}

func TestChunkPadsOddLengthPayload(t *testing.T) {
	c := chunk("TEST", []byte{1, 2, 3})
	// tag(4) + length(4) + payload(3) + pad(1) = 12
	if len(c) != 12 {
		t.Fatalf("chunk length = %d, want 12", len(c))
	}
	if c[len(c)-1] != 0 {
		t.Errorf("pad byte = %d, want 0", c[len(c)-1])
	}
}
