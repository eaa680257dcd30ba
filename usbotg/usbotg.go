// Package usbotg is the register map of the STM32F4 USB OTG FS and HS
// cores plus a thin accessor over it.
//
// Register offsets are relative to a core base (FS or HS). Bit constants
// are in-place masks; multi-bit fields are mmio.Field values. Per-channel
// and per-endpoint registers are reached through the address helpers.
//
// Nothing here implements USB protocol handling. The accessor only reads,
// writes and waits on bits.
package usbotg

import (
	"context"
	"runtime"

	"cm3hal/errcode"
	"cm3hal/logx"
	"cm3hal/mmio"
)

// HCCHAR and friends return the offset of host channel n's register.
func HCCHAR(n int) uintptr   { return hc(n, offHCCHAR) }
func HCSPLT(n int) uintptr   { return hc(n, offHCSPLT) }
func HCINT(n int) uintptr    { return hc(n, offHCINT) }
func HCINTMSK(n int) uintptr { return hc(n, offHCINTMSK) }
func HCTSIZ(n int) uintptr   { return hc(n, offHCTSIZ) }
func HCDMA(n int) uintptr    { return hc(n, offHCDMA) }

func DIEPCTL(n int) uintptr  { return inEP(n, offEPCTL) }
func DIEPINT(n int) uintptr  { return inEP(n, offEPINT) }
func DIEPTSIZ(n int) uintptr { return inEP(n, offEPTSIZ) }
func DIEPDMA(n int) uintptr  { return inEP(n, offEPDMA) }
func DTXFSTS(n int) uintptr  { return inEP(n, offDTXFSTS) }

func DOEPCTL(n int) uintptr  { return outEP(n, offEPCTL) }
func DOEPINT(n int) uintptr  { return outEP(n, offEPINT) }
func DOEPTSIZ(n int) uintptr { return outEP(n, offEPTSIZ) }
func DOEPDMA(n int) uintptr  { return outEP(n, offEPDMA) }

// DIEPTXF returns the transmit FIFO size register of IN endpoint n.
// Endpoint 0 uses DIEPTXF0, which aliases GNPTXFSIZ.
func DIEPTXF(n int) uintptr {
	if n == 0 {
		return DIEPTXF0
	}
	return 0x104 + 4*uintptr(n-1)
}

// FIFO returns the offset of the data FIFO window for endpoint or
// channel n.
func FIFO(n int) uintptr { return fifoBase + fifoStride*uintptr(n) }

func hc(n int, off uintptr) uintptr    { return hcBase + hcStride*uintptr(n) + off }
func inEP(n int, off uintptr) uintptr  { return inEPBase + epStride*uintptr(n) + off }
func outEP(n int, off uintptr) uintptr { return outEPBase + epStride*uintptr(n) + off }

// FIFOSize encodes a transmit FIFO size register value. Depth and start
// are in 32-bit words.
func FIFOSize(start, depth uint32) uint32 {
	return TXFSIZ_DEPTH.Set(depth) | TXFSIZ_START.Set(start)
}

// RxStatus is a decoded GRXSTSR/GRXSTSP word.
type RxStatus struct {
	Num    uint8 // EPNUM in device mode, CHNUM in host mode
	Count  uint16
	DPID   uint8
	Status uint8
	Frame  uint8
}

// DecodeRxStatus splits a receive status word into its fields.
func DecodeRxStatus(v uint32) RxStatus {
	return RxStatus{
		Num:    uint8(GRXSTS_EPNUM.Get(v)),
		Count:  uint16(GRXSTS_BCNT.Get(v)),
		DPID:   uint8(GRXSTS_DPID.Get(v)),
		Status: uint8(GRXSTS_PKTSTS.Get(v)),
		Frame:  uint8(GRXSTS_FRMNUM.Get(v)),
	}
}

// Core is one OTG core at a fixed base. Not safe for concurrent use
// from goroutines that modify the same register.
type Core struct {
	bus  mmio.Bus
	base uintptr
}

func New(bus mmio.Bus, base uintptr) *Core { return &Core{bus: bus, base: base} }

func (c *Core) Base() uintptr { return c.base }

func (c *Core) Read(off uintptr) uint32     { return c.bus.Read32(c.base + off) }
func (c *Core) Write(off uintptr, v uint32) { c.bus.Write32(c.base+off, v) }

// Get reads a field of the register at off.
func (c *Core) Get(off uintptr, f mmio.Field) uint32 { return f.Read(c.bus, c.base+off) }

// Set replaces a field of the register at off, leaving the other bits.
func (c *Core) Set(off uintptr, f mmio.Field, v uint32) { f.Write(c.bus, c.base+off, v) }

func (c *Core) SetBits(off uintptr, bits uint32)   { mmio.SetBits(c.bus, c.base+off, bits) }
func (c *Core) ClearBits(off uintptr, bits uint32) { mmio.ClearBits(c.bus, c.base+off, bits) }

// Ack clears write-1-to-clear interrupt bits (GINTSTS, HCINT, DIEPINT,
// DOEPINT) with a plain write.
func (c *Core) Ack(off uintptr, bits uint32) { c.Write(off, bits) }

// SetPort changes HPRT bits without acknowledging its write-1-to-clear
// change flags.
func (c *Core) SetPort(set, clear uint32) {
	v := c.Read(HPRT) &^ HPRT_W1C
	c.Write(HPRT, (v|set)&^clear)
}

// Host reports whether the core is currently in host mode.
func (c *Core) Host() bool { return c.Read(GINTSTS)&GINTSTS_CMOD != 0 }

// ReadRxStatus pops the receive status queue.
func (c *Core) ReadRxStatus() RxStatus { return DecodeRxStatus(c.Read(GRXSTSP)) }

// SoftReset waits for the AHB master to go idle, then pulses CSRST and
// waits for the core to clear it.
func (c *Core) SoftReset(ctx context.Context) error {
	if err := c.waitSet(ctx, "usbotg.soft_reset", GRSTCTL, GRSTCTL_AHBIDL); err != nil {
		return err
	}
	c.SetBits(GRSTCTL, GRSTCTL_CSRST)
	if err := c.waitClear(ctx, "usbotg.soft_reset", GRSTCTL, GRSTCTL_CSRST); err != nil {
		return err
	}
	logx.Debug(logx.ComponentUSB, "core reset", "base", c.base)
	return nil
}

// FlushTxFIFO flushes transmit FIFO n, or every FIFO when n is
// GRSTCTL_TXFNUM_ALL.
func (c *Core) FlushTxFIFO(ctx context.Context, n uint32) error {
	if n > GRSTCTL_TXFNUM_ALL {
		return errcode.New(errcode.InvalidParams, "usbotg.flush_tx", "fifo number out of range")
	}
	c.Write(GRSTCTL, GRSTCTL_TXFNUM.Set(n)|GRSTCTL_TXFFLSH)
	return c.waitClear(ctx, "usbotg.flush_tx", GRSTCTL, GRSTCTL_TXFFLSH)
}

// FlushRxFIFO flushes the shared receive FIFO.
func (c *Core) FlushRxFIFO(ctx context.Context) error {
	c.Write(GRSTCTL, GRSTCTL_RXFFLSH)
	return c.waitClear(ctx, "usbotg.flush_rx", GRSTCTL, GRSTCTL_RXFFLSH)
}

func (c *Core) waitSet(ctx context.Context, op string, off uintptr, bits uint32) error {
	return c.wait(ctx, op, func() bool { return c.Read(off)&bits == bits })
}

func (c *Core) waitClear(ctx context.Context, op string, off uintptr, bits uint32) error {
	return c.wait(ctx, op, func() bool { return c.Read(off)&bits == 0 })
}

func (c *Core) wait(ctx context.Context, op string, done func() bool) error {
	for !done() {
		select {
		case <-ctx.Done():
			return errcode.Wrap(errcode.Timeout, op, ctx.Err())
		default:
		}
		runtime.Gosched()
	}
	return nil
}
