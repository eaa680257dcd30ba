package usart

import (
	"context"

	"tinygo.org/x/drivers"
)

// Port satisfies the TinyGo drivers UART interface so that stock drivers
// (GPS, modems) can run on top of it.
var _ drivers.UART = (*Port)(nil)

// WriteByte sends one byte, waiting for TXE.
func (p *Port) WriteByte(c byte) error {
	return p.SendBlocking(context.Background(), uint16(c))
}

// Write sends p in order, waiting for TXE before every byte.
func (p *Port) Write(b []byte) (int, error) {
	for i, c := range b {
		if err := p.WriteByte(c); err != nil {
			return i, err
		}
	}
	return len(b), nil
}

// WriteContext is Write with cancellation between bytes.
func (p *Port) WriteContext(ctx context.Context, b []byte) (int, error) {
	for i, c := range b {
		if err := p.SendBlocking(ctx, uint16(c)); err != nil {
			return i, err
		}
	}
	return len(b), nil
}

// Buffered reports how many bytes can be read without waiting. The
// peripheral holds at most one.
func (p *Port) Buffered() int {
	if p.Flag(FlagRXNE) {
		return 1
	}
	return 0
}

// Read drains whatever has been received, without waiting. It returns
// 0, nil when nothing is pending.
func (p *Port) Read(b []byte) (int, error) {
	n := 0
	for n < len(b) && p.Flag(FlagRXNE) {
		b[n] = byte(p.Recv())
		n++
	}
	return n, nil
}

// RecvSomeContext waits until at least one byte arrives, then reads as
// many as are pending.
func (p *Port) RecvSomeContext(ctx context.Context, b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	if err := p.WaitRecvReady(ctx); err != nil {
		return 0, err
	}
	return p.Read(b)
}
