package usart

import (
	"bytes"
	"encoding/json"
	"testing"

	"cm3hal/errcode"
	"cm3hal/types"
	"tinygo.org/x/drivers"
)

func TestControlSetBaud(t *testing.T) {
	p, _ := newTestPort(48_000_000)

	// Decoded bus payloads carry numbers as float64.
	var payload map[string]any
	_ = json.Unmarshal([]byte(`{"baud":115200}`), &payload)

	res, err := p.Control("set_baud", payload)
	if err != nil {
		t.Fatalf("set_baud: %v", err)
	}
	m := res.(map[string]any)
	if m["ok"] != true || m["brr"] != uint32(417) {
		t.Fatalf("result %+v", m)
	}

	if _, err := p.Control("set_baud", `{"baud":0}`); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("zero baud: %v", err)
	}
	if _, err := p.Control("set_baud", `{"baud":"fast"}`); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("bad payload: %v", err)
	}
}

func TestControlSetFormatAndInfo(t *testing.T) {
	p, mem := newTestPort(8_000_000)
	p.SetBaudRate(9600)

	if _, err := p.Control("set_format", `{"data_bits":8,"stop_bits":2,"parity":"even"}`); err != nil {
		t.Fatalf("set_format: %v", err)
	}
	// 8 data bits plus parity needs the 9-bit word.
	if mem.Peek(USART2+offCR1)&cr1Word != cr1M0 {
		t.Fatalf("CR1 = %#x, want M0", mem.Peek(USART2+offCR1))
	}
	if _, err := p.Control("set_format", `{"data_bits":9,"parity":"odd"}`); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("9 bits with parity: %v", err)
	}
	if _, err := p.Control("set_format", `{"stop_bits":0.5}`); errcode.Of(err) != errcode.Unsupported {
		t.Fatalf("half stop bit: %v", err)
	}

	res, err := p.Control("info", nil)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	info := res.(types.SerialInfo)
	if info.Format != "8E2" || info.BRR != 833 || info.Baud != 9604 {
		t.Fatalf("info %+v", info)
	}
}

func TestControlWrite(t *testing.T) {
	p, mem := newTestPort(8_000_000)
	mem.OnRead = (&rxSim{}).hook(USART2)

	res, err := p.Control("write", map[string]any{"data_b64": "aGk="})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if res.(map[string]any)["n"] != 2 {
		t.Fatalf("result %+v", res)
	}
	if _, err := p.Control("write", `{"text":"!"}`); err != nil {
		t.Fatalf("write text: %v", err)
	}

	var sent []byte
	for _, v := range mem.WritesTo(USART2 + offTDR) {
		sent = append(sent, byte(v))
	}
	if !bytes.Equal(sent, []byte("hi!")) {
		t.Fatalf("TDR saw %q", sent)
	}

	if _, err := p.Control("write", `{"data_b64":"@@"}`); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("bad base64: %v", err)
	}
	if _, err := p.Control("reboot", nil); errcode.Of(err) != errcode.Unsupported {
		t.Fatalf("unknown method: %v", err)
	}
}

func TestPortAsDriversUART(t *testing.T) {
	p, mem := newTestPort(8_000_000)
	sim := &rxSim{q: []byte("$GPGGA")}
	mem.OnRead = sim.hook(USART2)

	var u drivers.UART = p
	if u.Buffered() != 1 {
		t.Fatalf("Buffered = %d", u.Buffered())
	}
	buf := make([]byte, 4)
	n, err := u.Read(buf)
	if err != nil || n != 4 || string(buf) != "$GPG" {
		t.Fatalf("Read = %d %q %v", n, buf[:n], err)
	}
	n, _ = u.Read(buf)
	if n != 2 || string(buf[:n]) != "GA" {
		t.Fatalf("second Read = %q", buf[:n])
	}
	if n, _ := u.Read(buf); n != 0 || u.Buffered() != 0 {
		t.Fatal("empty receiver should read 0")
	}

	if n, err := u.Write([]byte("ok")); n != 2 || err != nil {
		t.Fatalf("Write = %d, %v", n, err)
	}
}
