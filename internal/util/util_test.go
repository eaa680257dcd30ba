package util

import (
	"encoding/json"
	"testing"
)

func TestDecodeJSON(t *testing.T) {
	type P struct {
		A int    `json:"a"`
		B string `json:"b"`
	}

	for name, in := range map[string]any{
		"bytes":   []byte(`{"a":1,"b":"x"}`),
		"string":  `{"a":1,"b":"x"}`,
		"raw":     json.RawMessage(`{"a":1,"b":"x"}`),
		"map":     map[string]any{"a": 1, "b": "x"},
		"value":   P{A: 1, B: "x"},
		"pointer": &P{A: 1, B: "x"},
	} {
		var p P
		if err := DecodeJSON(in, &p); err != nil {
			t.Fatalf("%s: decode failed: %v", name, err)
		}
		if p.A != 1 || p.B != "x" {
			t.Fatalf("%s: unexpected result: %+v", name, p)
		}
	}
}

func TestDecodeJSONEmpty(t *testing.T) {
	type P struct{ A int }
	p := P{A: 9}
	if err := DecodeJSON(nil, &p); err != nil || p.A != 9 {
		t.Fatalf("nil source should leave dst alone: %+v, %v", p, err)
	}
	if err := DecodeJSON(json.RawMessage(nil), &p); err != nil || p.A != 9 {
		t.Fatalf("empty raw message should leave dst alone: %+v, %v", p, err)
	}
	if err := DecodeJSON(`{"A":`, &p); err == nil {
		t.Fatal("expected syntax error")
	}
}
