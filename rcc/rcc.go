// Package rcc answers "what clock is feeding this peripheral right now".
//
// The USART code only needs the frequency in hertz; how the clock tree
// got there is configured elsewhere.
package rcc

import (
	"cm3hal/logx"
	"cm3hal/mmio"
)

// ClockSource reports the input clock of the peripheral at base, in Hz.
// Zero means unknown.
type ClockSource interface {
	Clock(base uintptr) uint32
}

// Fixed maps peripheral base addresses to constant frequencies.
type Fixed map[uintptr]uint32

func (f Fixed) Clock(base uintptr) uint32 { return f[base] }

// STM32F0 reset and clock control.
const (
	BaseF0 uintptr = 0x4002_1000

	offCFGR3 = 0x30

	HSIHz = 8_000_000
	LSEHz = 32_768
)

// Kernel clock selections in RCC_CFGR3.USARTxSW.
const (
	SelPCLK   = 0
	SelSYSCLK = 1
	SelLSE    = 2
	SelHSI    = 3
)

var (
	usart1SW = mmio.Field{Shift: 0, Mask: 0x3}
	usart2SW = mmio.Field{Shift: 16, Mask: 0x3}
	usart3SW = mmio.Field{Shift: 18, Mask: 0x3}
)

// Bus frequencies the F0 resolver does not derive itself.
type Frequencies struct {
	PCLK   uint32 `json:"pclk"`
	SYSCLK uint32 `json:"sysclk"`
	HSI    uint32 `json:"hsi,omitempty"` // HSIHz if zero
	LSE    uint32 `json:"lse,omitempty"` // LSEHz if zero
}

// F0 resolves USART kernel clocks on STM32F0 parts by reading the
// USARTxSW selectors. Instances without a selector run from PCLK.
type F0 struct {
	bus  mmio.Bus
	base uintptr
	f    Frequencies

	// USART1..3 base addresses that have a selector field.
	usart1, usart2, usart3 uintptr
}

// NewF0 returns a resolver on the RCC block at BaseF0. The three base
// addresses identify USART1, USART2 and USART3.
func NewF0(bus mmio.Bus, f Frequencies, usart1, usart2, usart3 uintptr) *F0 {
	if f.HSI == 0 {
		f.HSI = HSIHz
	}
	if f.LSE == 0 {
		f.LSE = LSEHz
	}
	return &F0{bus: bus, base: BaseF0, f: f, usart1: usart1, usart2: usart2, usart3: usart3}
}

func (r *F0) Clock(base uintptr) uint32 {
	var sel mmio.Field
	switch base {
	case r.usart1:
		sel = usart1SW
	case r.usart2:
		sel = usart2SW
	case r.usart3:
		sel = usart3SW
	default:
		return r.f.PCLK
	}
	hz := r.selected(sel.Read(r.bus, r.base+offCFGR3))
	logx.Debug(logx.ComponentRCC, "usart kernel clock", "base", base, "hz", hz)
	return hz
}

func (r *F0) selected(sw uint32) uint32 {
	switch sw {
	case SelSYSCLK:
		return r.f.SYSCLK
	case SelLSE:
		return r.f.LSE
	case SelHSI:
		return r.f.HSI
	default:
		return r.f.PCLK
	}
}

// Select programs the USARTxSW field for the instance at base. It
// reports false, writing nothing, for instances without a selector.
func (r *F0) Select(base uintptr, sel uint32) bool {
	switch base {
	case r.usart1:
		usart1SW.Write(r.bus, r.base+offCFGR3, sel)
	case r.usart2:
		usart2SW.Write(r.bus, r.base+offCFGR3, sel)
	case r.usart3:
		usart3SW.Write(r.bus, r.base+offCFGR3, sel)
	default:
		return false
	}
	return true
}

// Uniform reports the same frequency for every peripheral.
type Uniform uint32

func (u Uniform) Clock(uintptr) uint32 { return uint32(u) }

// Chain asks each source in order and returns the first non-zero answer.
type Chain []ClockSource

func (c Chain) Clock(base uintptr) uint32 {
	for _, s := range c {
		if hz := s.Clock(base); hz != 0 {
			return hz
		}
	}
	return 0
}

// ParseSelector maps a selector name ("pclk", "sysclk", "lse", "hsi") to
// its USARTxSW encoding.
func ParseSelector(name string) (uint32, bool) {
	switch name {
	case "pclk":
		return SelPCLK, true
	case "sysclk":
		return SelSYSCLK, true
	case "lse":
		return SelLSE, true
	case "hsi":
		return SelHSI, true
	}
	return 0, false
}
