package types

import (
	"encoding/json"
	"testing"
)

func TestSerialSetFormatJSON(t *testing.T) {
	in := SerialSetFormat{DataBits: 9, StopBits: StopBits1Half, Parity: ParityOdd}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got, want := string(b), `{"data_bits":9,"stop_bits":1.5,"parity":"odd"}`; got != want {
		t.Fatalf("marshal = %s, want %s", got, want)
	}
	var out SerialSetFormat
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Fatalf("round-trip mismatch: %+v", out)
	}
}

func TestEnumDecoding(t *testing.T) {
	var p struct {
		Parity Parity      `json:"parity"`
		Stop   StopBits    `json:"stop"`
		Flow   FlowControl `json:"flow"`
		Dir    Direction   `json:"dir"`
	}
	src := `{"parity":"even","stop":0.5,"flow":"rts_cts","dir":"tx"}`
	if err := json.Unmarshal([]byte(src), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Parity != ParityEven || p.Stop != StopBitsHalf || p.Flow != FlowRTSCTS || p.Dir != DirTX {
		t.Fatalf("decoded %+v", p)
	}

	for _, bad := range []string{
		`{"parity":"mark"}`,
		`{"stop":3}`,
		`{"flow":"xon"}`,
		`{"dir":"both"}`,
	} {
		if err := json.Unmarshal([]byte(bad), &p); err == nil {
			t.Fatalf("expected error for %s", bad)
		}
	}
}

func TestEnumDefaults(t *testing.T) {
	if ParityNone.String() != "none" || StopBits1.String() != "1" ||
		FlowNone.String() != "none" || DirRXTX.String() != "rx_tx" {
		t.Fatal("zero values must name the 8N1 full-duplex default")
	}
}
