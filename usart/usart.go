// Package usart drives the STM32F0/L0 USART block through an injected
// register bus.
//
// Design notes (reference manual):
// • BRR holds USARTDIV; in 8x oversampling BRR[2:0] = USARTDIV[3:0] >> 1.
// • M0/M1, OVER8, STOP and the parity bits are only writable while UE is 0.
// • RXNE is cleared by reading RDR; TXE by writing TDR.
//
// A Port is not safe for concurrent reconfiguration. Callers that touch
// the same instance from an interrupt handler must serialise externally.
package usart

import (
	"context"
	"runtime"

	"cm3hal/errcode"
	"cm3hal/logx"
	"cm3hal/mmio"
	"cm3hal/rcc"
	"cm3hal/types"
	"cm3hal/x/mathx"
)

// Oversampling is the receiver sampling rate per bit.
type Oversampling uint8

const (
	Over16 Oversampling = iota
	Over8
)

// Port is one USART instance.
type Port struct {
	bus    mmio.Bus
	base   uintptr
	clocks rcc.ClockSource
	name   string
}

// New returns a Port for the instance at base. clocks supplies the
// kernel clock used by SetBaudRate.
func New(bus mmio.Bus, base uintptr, clocks rcc.ClockSource) *Port {
	name := Name(base)
	if name == "" {
		name = "usart"
	}
	return &Port{bus: bus, base: base, clocks: clocks, name: name}
}

// Base returns the register block address.
func (p *Port) Base() uintptr { return p.base }

// Name returns the instance name, e.g. "usart2".
func (p *Port) Name() string { return p.name }

func (p *Port) reg(off uintptr) uintptr { return p.base + off }

func (p *Port) read(off uintptr) uint32     { return p.bus.Read32(p.reg(off)) }
func (p *Port) write(off uintptr, v uint32) { p.bus.Write32(p.reg(off), v) }

// modify is the read-modify-write for control registers.
func (p *Port) modify(off uintptr, set, clear uint32) {
	mmio.Modify(p.bus, p.reg(off), set, clear)
}

// ---------------- Baud rate ----------------

// SetBaudRate programs BRR for baud from the current input clock and the
// oversampling mode in CR1. Nothing is validated; a zero baud panics.
func (p *Port) SetBaudRate(baud uint32) {
	clock := p.clocks.Clock(p.base)
	over8 := p.read(offCR1)&cr1OVER8 != 0
	div := ComputeDivisor(clock, baud, over8)
	p.write(offBRR, div)
	logx.Debug(logx.ComponentUSART, "brr programmed",
		"port", p.name, "clock", clock, "baud", baud, "over8", over8, "brr", div)
}

// SetBaudRateChecked is SetBaudRate with CheckDivisor's validation. BRR is
// left untouched on error.
func (p *Port) SetBaudRateChecked(baud uint32) error {
	clock := p.clocks.Clock(p.base)
	over8 := p.read(offCR1)&cr1OVER8 != 0
	div, err := CheckDivisor(clock, baud, over8)
	if err != nil {
		logx.Warn(logx.ComponentUSART, "baud rejected",
			"port", p.name, "clock", clock, "baud", baud, "err", err)
		return err
	}
	p.write(offBRR, div)
	logx.Debug(logx.ComponentUSART, "brr programmed",
		"port", p.name, "clock", clock, "baud", baud, "over8", over8, "brr", div)
	return nil
}

// BaudRate reports the rate produced by the current BRR and clock.
func (p *Port) BaudRate() uint32 {
	over8 := p.read(offCR1)&cr1OVER8 != 0
	return ActualBaud(p.clocks.Clock(p.base), p.read(offBRR), over8)
}

// BRR returns the raw baud-rate register.
func (p *Port) BRR() uint32 { return p.read(offBRR) }

// SetAutoBaudRate selects the auto-baud measurement mode. Only the two
// ABRMOD bits of mode are used.
func (p *Port) SetAutoBaudRate(mode AutoBaudMode) {
	p.modify(offCR2, (uint32(mode)&0x3)<<cr2ABRModShift, cr2ABRModMask)
}

// EnableAutoBaud turns on automatic baud detection (CR2.ABREN).
func (p *Port) EnableAutoBaud() { p.modify(offCR2, cr2ABREN, 0) }

// DisableAutoBaud turns off automatic baud detection.
func (p *Port) DisableAutoBaud() { p.modify(offCR2, 0, cr2ABREN) }

// RequestAutoBaud restarts baud measurement on the next frame.
func (p *Port) RequestAutoBaud() { p.write(offRQR, rqrABRRQ) }

// ---------------- Frame format ----------------

// SetOversampling selects 16x or 8x sampling. Reprogram the baud rate
// afterwards; BRR is encoded differently in each mode.
func (p *Port) SetOversampling(o Oversampling) {
	if o == Over8 {
		p.modify(offCR1, cr1OVER8, 0)
		return
	}
	p.modify(offCR1, 0, cr1OVER8)
}

// Oversampling reports the mode currently selected in CR1.
func (p *Port) Oversampling() Oversampling {
	if p.read(offCR1)&cr1OVER8 != 0 {
		return Over8
	}
	return Over16
}

// SetWordLength sets M1:M0 for a 7, 8 or 9 bit word. The hardware word
// includes the parity bit when parity is enabled. Any other value
// selects 8.
func (p *Port) SetWordLength(bits uint8) {
	var m uint32
	switch bits {
	case 7:
		m = cr1M1
	case 9:
		m = cr1M0
	}
	p.modify(offCR1, m, cr1Word&^m)
}

// WordLength decodes M1:M0.
func (p *Port) WordLength() uint8 {
	switch p.read(offCR1) & cr1Word {
	case cr1M1:
		return 7
	case cr1M0:
		return 9
	default:
		return 8
	}
}

// DataBits reports the payload bits per frame: the word length less the
// parity bit, if any.
func (p *Port) DataBits() uint8 {
	w := p.WordLength()
	if p.Parity() != types.ParityNone {
		w--
	}
	return w
}

// wordLength returns the M1:M0 word for dataBits payload bits under par.
func wordLength(dataBits uint8, par types.Parity) (uint8, bool) {
	w := dataBits
	if par != types.ParityNone {
		w++
	}
	return w, w >= 7 && w <= 9
}

// SetStopBits selects the stop period.
func (p *Port) SetStopBits(s types.StopBits) {
	p.modify(offCR2, uint32(s&0x3)<<cr2StopShift, cr2StopMask)
}

// StopBits decodes CR2.STOP.
func (p *Port) StopBits() types.StopBits {
	return types.StopBits((p.read(offCR2) & cr2StopMask) >> cr2StopShift)
}

// SetParity selects no parity, even or odd.
func (p *Port) SetParity(par types.Parity) {
	var bits uint32
	switch par {
	case types.ParityEven:
		bits = cr1PCE
	case types.ParityOdd:
		bits = cr1PCE | cr1PS
	}
	p.modify(offCR1, bits, cr1Parity&^bits)
}

// Parity decodes CR1.PCE/PS.
func (p *Port) Parity() types.Parity {
	switch p.read(offCR1) & cr1Parity {
	case cr1PCE:
		return types.ParityEven
	case cr1PCE | cr1PS:
		return types.ParityOdd
	default:
		return types.ParityNone
	}
}

// SetMode enables the receiver, the transmitter or both.
func (p *Port) SetMode(d types.Direction) {
	var bits uint32
	switch d {
	case types.DirRX:
		bits = cr1RE
	case types.DirTX:
		bits = cr1TE
	default:
		bits = cr1RE | cr1TE
	}
	p.modify(offCR1, bits, cr1Mode&^bits)
}

// SetFlowControl selects the RTS/CTS handshake lines.
func (p *Port) SetFlowControl(f types.FlowControl) {
	var bits uint32
	switch f {
	case types.FlowRTS:
		bits = cr3RTSE
	case types.FlowCTS:
		bits = cr3CTSE
	case types.FlowRTSCTS:
		bits = cr3RTSE | cr3CTSE
	}
	p.modify(offCR3, bits, cr3Flow&^bits)
}

// ---------------- Enable / disable ----------------

// Enable sets CR1.UE.
func (p *Port) Enable() { p.modify(offCR1, cr1UE, 0) }

// Disable clears CR1.UE. The current frame completes first.
func (p *Port) Disable() { p.modify(offCR1, 0, cr1UE) }

// Enabled reports CR1.UE.
func (p *Port) Enabled() bool { return p.read(offCR1)&cr1UE != 0 }

// whileDisabled runs fn with UE cleared and restores UE afterwards if it
// was set.
func (p *Port) whileDisabled(fn func()) {
	on := p.Enabled()
	if on {
		p.Disable()
	}
	fn()
	if on {
		p.Enable()
	}
}

// EnableRxDMA sets CR3.DMAR.
func (p *Port) EnableRxDMA() { p.modify(offCR3, cr3DMAR, 0) }

// DisableRxDMA clears CR3.DMAR.
func (p *Port) DisableRxDMA() { p.modify(offCR3, 0, cr3DMAR) }

// EnableTxDMA sets CR3.DMAT.
func (p *Port) EnableTxDMA() { p.modify(offCR3, cr3DMAT, 0) }

// DisableTxDMA clears CR3.DMAT.
func (p *Port) DisableTxDMA() { p.modify(offCR3, 0, cr3DMAT) }

// EnableRxInterrupt sets CR1.RXNEIE.
func (p *Port) EnableRxInterrupt() { p.modify(offCR1, cr1RXNEIE, 0) }

// DisableRxInterrupt clears CR1.RXNEIE.
func (p *Port) DisableRxInterrupt() { p.modify(offCR1, 0, cr1RXNEIE) }

// EnableTxInterrupt sets CR1.TXEIE.
func (p *Port) EnableTxInterrupt() { p.modify(offCR1, cr1TXEIE, 0) }

// DisableTxInterrupt clears CR1.TXEIE.
func (p *Port) DisableTxInterrupt() { p.modify(offCR1, 0, cr1TXEIE) }

// EnableErrorInterrupt sets CR3.EIE (framing, overrun and noise errors).
func (p *Port) EnableErrorInterrupt() { p.modify(offCR3, cr3EIE, 0) }

// DisableErrorInterrupt clears CR3.EIE.
func (p *Port) DisableErrorInterrupt() { p.modify(offCR3, 0, cr3EIE) }

// SendBreak queues a break frame after the current transmission.
func (p *Port) SendBreak() { p.write(offRQR, rqrSBKRQ) }

// DiscardRx drops the pending received word and clears RXNE.
func (p *Port) DiscardRx() { p.write(offRQR, rqrRXFRQ) }

// SetReceiverTimeout raises RTOF after bits idle bit times following the
// last received character. Zero disables it. Values above
// MaxReceiverTimeout are clamped.
func (p *Port) SetReceiverTimeout(bits uint32) {
	if bits == 0 {
		p.modify(offCR2, 0, cr2RTOEN)
		return
	}
	p.write(offRTOR, mathx.Clamp(bits, 1, MaxReceiverTimeout))
	p.modify(offCR2, cr2RTOEN, 0)
}

// ---------------- Status ----------------

// Flag reports whether any bit of f is set in ISR.
func (p *Port) Flag(f Flag) bool { return p.read(offISR)&uint32(f) != 0 }

// ClearFlags writes f to ICR.
func (p *Port) ClearFlags(f Flag) { p.write(offICR, uint32(f)) }

// InterruptSource reports whether f is both pending and enabled.
// IDLE, RXNE, TC and TXE share positions with their CR1 enables. An
// overrun raises an interrupt when RXNEIE or CR3.EIE is set. Any other
// flag reports false.
func (p *Port) InterruptSource(f Flag) bool {
	set := p.read(offISR) & uint32(f)
	switch {
	case f >= FlagIDLE && f <= FlagTXE:
		return set&p.read(offCR1) != 0
	case f == FlagORE:
		if set == 0 {
			return false
		}
		return p.read(offCR1)&cr1RXNEIE != 0 || p.read(offCR3)&cr3EIE != 0
	}
	return false
}

// ---------------- Data ----------------

// Send writes one data word to TDR without waiting.
func (p *Port) Send(v uint16) { p.write(offTDR, uint32(v)) }

// Recv reads one data word from RDR without waiting. With parity enabled
// the top data bit is the parity bit.
func (p *Port) Recv() uint16 { return uint16(p.read(offRDR) & 0x1ff) }

// WaitSendReady polls until TDR can accept a word.
func (p *Port) WaitSendReady(ctx context.Context) error {
	return p.waitFlag(ctx, "wait_send_ready", FlagTXE)
}

// WaitRecvReady polls until RDR holds a received word.
func (p *Port) WaitRecvReady(ctx context.Context) error {
	return p.waitFlag(ctx, "wait_recv_ready", FlagRXNE)
}

// SendBlocking waits for TXE and then sends v.
func (p *Port) SendBlocking(ctx context.Context, v uint16) error {
	if err := p.WaitSendReady(ctx); err != nil {
		return err
	}
	p.Send(v)
	return nil
}

// RecvBlocking waits for RXNE and then returns the received word.
func (p *Port) RecvBlocking(ctx context.Context) (uint16, error) {
	if err := p.WaitRecvReady(ctx); err != nil {
		return 0, err
	}
	return p.Recv(), nil
}

func (p *Port) waitFlag(ctx context.Context, op string, f Flag) error {
	for !p.Flag(f) {
		select {
		case <-ctx.Done():
			return errcode.Wrap(errcode.Timeout, op, ctx.Err())
		default:
		}
		runtime.Gosched()
	}
	return nil
}
