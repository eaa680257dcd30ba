package usart

import (
	"encoding/json"
	"testing"

	"cm3hal/errcode"
	"cm3hal/types"
)

func TestConfigure(t *testing.T) {
	p, mem := newTestPort(48_000_000)

	err := p.Configure(Params{
		Baud:        9600,
		DataBits:    8,
		StopBits:    types.StopBits2,
		Parity:      types.ParityEven,
		FlowControl: types.FlowRTSCTS,
		Over8:       true,
	})
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}

	cr1 := mem.Peek(USART2 + offCR1)
	want := uint32(cr1UE | cr1OVER8 | cr1M0 | cr1PCE | cr1RE | cr1TE)
	if cr1 != want {
		t.Fatalf("CR1 = %#x, want %#x", cr1, want)
	}
	if got := mem.Peek(USART2 + offCR2); got != 2<<12 {
		t.Fatalf("CR2 = %#x", got)
	}
	if got := mem.Peek(USART2 + offCR3); got != cr3RTSE|cr3CTSE {
		t.Fatalf("CR3 = %#x", got)
	}
	if p.BRR() != 10000 {
		t.Fatalf("BRR = %d, want 10000", p.BRR())
	}

	info := p.Info()
	if info.Bus != "usart2" || info.Baud != 9600 || !info.Over8 || info.Format != "8E2" {
		t.Fatalf("Info = %+v", info)
	}
}

func TestConfigureDefaults(t *testing.T) {
	p, _ := newTestPort(8_000_000)
	if err := p.Configure(Params{}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if p.Format() != "8N1" || p.Oversampling() != Over16 || p.BRR() != 69 {
		t.Fatalf("format=%s over=%d brr=%d", p.Format(), p.Oversampling(), p.BRR())
	}
}

func TestConfigureRejects(t *testing.T) {
	p, _ := newTestPort(48_000_000)
	p.Enable()

	if err := p.Configure(Params{DataBits: 6}); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("databits 6: %v", err)
	}
	if err := p.Configure(Params{DataBits: 9, Parity: types.ParityOdd}); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("9 data bits with parity: %v", err)
	}
	if !p.Enabled() {
		t.Fatal("validation failure must not touch the port")
	}

	if err := p.Configure(Params{Baud: 300}); errcode.Of(err) != errcode.Overflow {
		t.Fatalf("baud 300 @48MHz: %v", err)
	}
	if p.Enabled() {
		t.Fatal("port left enabled after failed baud")
	}
}

func TestSetFormatRestoresEnable(t *testing.T) {
	p, mem := newTestPort(8_000_000)
	p.Enable()

	if err := p.SetFormat(7, 2, 2); err != nil {
		t.Fatalf("SetFormat: %v", err)
	}
	if !p.Enabled() || p.Format() != "7O2" {
		t.Fatalf("enabled=%v format=%s", p.Enabled(), p.Format())
	}

	// UE was dropped while the frame bits changed.
	sawDisabled := false
	for _, v := range mem.WritesTo(USART2 + offCR1) {
		if v&cr1UE == 0 {
			sawDisabled = true
		}
	}
	if !sawDisabled {
		t.Fatal("frame bits written with UE set")
	}

	for _, c := range []struct{ db, sb, par uint8 }{{6, 1, 0}, {9, 1, 1}, {8, 3, 0}, {8, 1, 3}} {
		if err := p.SetFormat(c.db, c.sb, c.par); errcode.Of(err) != errcode.InvalidParams {
			t.Fatalf("SetFormat%v: %v", c, err)
		}
	}
}

func TestFrameWordLength(t *testing.T) {
	cases := []struct {
		p      Params
		word   uint32 // M1:M0 bits in CR1
		format string
	}{
		{Params{DataBits: 8, Parity: types.ParityEven}, cr1M0, "8E1"},
		{Params{DataBits: 7, Parity: types.ParityEven}, 0, "7E1"},
		{Params{DataBits: 6, Parity: types.ParityOdd}, cr1M1, "6O1"},
		{Params{DataBits: 8}, 0, "8N1"},
		{Params{DataBits: 7}, cr1M1, "7N1"},
		{Params{DataBits: 9}, cr1M0, "9N1"},
	}
	for _, c := range cases {
		p, mem := newTestPort(8_000_000)
		if err := p.Configure(c.p); err != nil {
			t.Fatalf("%+v: %v", c.p, err)
		}
		if got := mem.Peek(USART2+offCR1) & cr1Word; got != c.word {
			t.Fatalf("%+v: M bits %#x, want %#x", c.p, got, c.word)
		}
		if p.Format() != c.format {
			t.Fatalf("%+v: format %s, want %s", c.p, p.Format(), c.format)
		}
	}

	p, mem := newTestPort(8_000_000)
	if err := p.SetFormat(8, 1, uint8(types.ParityEven)); err != nil {
		t.Fatalf("SetFormat 8E1: %v", err)
	}
	if mem.Peek(USART2+offCR1)&cr1Word != cr1M0 || p.Format() != "8E1" {
		t.Fatalf("SetFormat 8E1: CR1=%#x format=%s", mem.Peek(USART2+offCR1), p.Format())
	}
	if err := p.SetFormat(7, 1, uint8(types.ParityEven)); err != nil {
		t.Fatalf("SetFormat 7E1: %v", err)
	}
	if mem.Peek(USART2+offCR1)&cr1Word != 0 || p.Format() != "7E1" {
		t.Fatalf("SetFormat 7E1: CR1=%#x format=%s", mem.Peek(USART2+offCR1), p.Format())
	}
}

func TestParamsJSON(t *testing.T) {
	src := `{"baud":57600,"databits":8,"stopbits":2,"parity":"odd","mode":"tx","flow_control":"rts","over8":true}`
	var p Params
	if err := json.Unmarshal([]byte(src), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := Params{
		Baud: 57600, DataBits: 8, StopBits: types.StopBits2, Parity: types.ParityOdd,
		Direction: types.DirTX, FlowControl: types.FlowRTS, Over8: true,
	}
	if p != want {
		t.Fatalf("got %+v, want %+v", p, want)
	}
}
