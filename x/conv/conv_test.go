package conv

import "testing"

func TestU32Hex(t *testing.T) {
	var buf [12]byte
	if got := string(U32Hex(buf[:], 0x4001_3800)); got != "40013800" {
		t.Fatalf("U32Hex = %q", got)
	}
	if got := U32Hex(buf[:4], 1); len(got) != 0 {
		t.Fatalf("short buffer gave %q", got)
	}
}

func TestAppend(t *testing.T) {
	b := AppendU32Hex([]byte("BRR="), 0x1a1)
	b = append(b, ' ')
	b = AppendUint(b, 0)
	b = append(b, ' ')
	b = AppendUint(b, 18446744073709551615)
	if got := string(b); got != "BRR=0x000001A1 0 18446744073709551615" {
		t.Fatalf("got %q", got)
	}
}
