// Package serialprobe checks a USART line setting from the host side: it
// opens the host serial port with the same frame format and runs a
// loopback pattern through it.
package serialprobe

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/tarm/serial"

	"cm3hal/errcode"
	"cm3hal/logx"
	"cm3hal/types"
	"cm3hal/usart"
)

// DefaultReadTimeout bounds each host read so Loopback can notice
// cancellation.
const DefaultReadTimeout = 50 * time.Millisecond

// ConfigFor maps line settings onto a tarm/serial configuration. Both
// sides count data bits without parity, so 8E1 stays 8E1. Host ports
// cannot do 9 data bits, half stop bits or hardware flow control through
// tarm/serial; those return Unsupported.
func ConfigFor(device string, p usart.Params, readTimeout time.Duration) (*serial.Config, error) {
	const op = "serialprobe.config"
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}
	cfg := &serial.Config{
		Name:        device,
		Baud:        int(p.Baud),
		ReadTimeout: readTimeout,
		Size:        p.DataBits,
	}
	if p.DataBits == 9 {
		return nil, errcode.New(errcode.Unsupported, op, "9 data bits")
	}
	switch p.Parity {
	case types.ParityEven:
		cfg.Parity = serial.ParityEven
	case types.ParityOdd:
		cfg.Parity = serial.ParityOdd
	default:
		cfg.Parity = serial.ParityNone
	}
	switch p.StopBits {
	case types.StopBits1:
		cfg.StopBits = serial.Stop1
	case types.StopBits2:
		cfg.StopBits = serial.Stop2
	case types.StopBits1Half:
		cfg.StopBits = serial.Stop1Half
	default:
		return nil, errcode.New(errcode.Unsupported, op, "stop bits "+p.StopBits.String())
	}
	if p.FlowControl != types.FlowNone {
		return nil, errcode.New(errcode.Unsupported, op, "hardware flow control")
	}
	return cfg, nil
}

// Open opens device with the frame format of p.
func Open(device string, p usart.Params, readTimeout time.Duration) (io.ReadWriteCloser, error) {
	cfg, err := ConfigFor(device, p, readTimeout)
	if err != nil {
		return nil, err
	}
	port, err := serial.OpenPort(cfg)
	if err != nil {
		return nil, errcode.Wrap(errcode.UnknownBus, "serialprobe.open", err)
	}
	logx.Info(logx.ComponentProbe, "opened", "device", device, "baud", cfg.Baud)
	return port, nil
}

// Result describes one loopback run. Mismatch is the index of the first
// differing byte, or -1.
type Result struct {
	Sent     int
	Received int
	Mismatch int
	Elapsed  time.Duration
}

// OK reports whether every byte came back unchanged.
func (r Result) OK() bool { return r.Mismatch < 0 && r.Received == r.Sent }

// Loopback writes pattern to rw and reads until as many bytes came back
// or ctx is done. Reads that return no data (io.EOF from a timed-out host
// read) are retried.
func Loopback(ctx context.Context, rw io.ReadWriter, pattern []byte) (Result, error) {
	const op = "serialprobe.loopback"
	start := time.Now()
	res := Result{Mismatch: -1}

	n, err := rw.Write(pattern)
	res.Sent = n
	if err != nil {
		return res, errcode.Wrap(errcode.Error, op, err)
	}

	got := make([]byte, 0, len(pattern))
	buf := make([]byte, len(pattern))
	for len(got) < len(pattern) {
		if err := ctx.Err(); err != nil {
			res.Received, res.Elapsed = len(got), time.Since(start)
			res.Mismatch = firstDiff(pattern, got)
			return res, errcode.Wrap(errcode.Timeout, op, err)
		}
		m, err := rw.Read(buf[:len(pattern)-len(got)])
		got = append(got, buf[:m]...)
		if err != nil && !errors.Is(err, io.EOF) {
			res.Received, res.Elapsed = len(got), time.Since(start)
			return res, errcode.Wrap(errcode.Error, op, err)
		}
	}

	res.Received, res.Elapsed = len(got), time.Since(start)
	res.Mismatch = firstDiff(pattern, got)
	logx.Debug(logx.ComponentProbe, "loopback", "sent", res.Sent, "received", res.Received,
		"mismatch", res.Mismatch, "elapsed", res.Elapsed)
	return res, nil
}

func firstDiff(want, got []byte) int {
	if bytes.HasPrefix(want, got) {
		return -1
	}
	for i := range got {
		if want[i] != got[i] {
			return i
		}
	}
	return -1
}

// Pattern returns n bytes cycling through every value the frame can
// carry: 0x00..0x7f for 7 data bits, 0x00..0xff for 8 or more.
func Pattern(n int, dataBits uint8) []byte {
	limit := 256
	if dataBits > 0 && dataBits < 8 {
		limit = 1 << dataBits
	}
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i % limit)
	}
	return out
}
