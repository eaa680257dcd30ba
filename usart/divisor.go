package usart

import (
	"cm3hal/errcode"
	"cm3hal/x/mathx"
)

// BRR limits. USARTDIV (the divisor in 16x mode, the double-rate value in
// 8x mode) must be at least 16 and fit the 16-bit register.
const (
	MinUSARTDIV = 16
	MaxUSARTDIV = 0xffff
)

// ComputeDivisor returns the BRR value for clock and baud.
//
// Both modes round half up, (V + B/2) / B. In 8x mode the divisor is first
// computed at twice the ratio and the low nibble is then halved, because
// the hardware keeps only three fraction bits there (BRR[3] must be zero).
//
// A zero baud panics with an integer divide fault. Out-of-range results
// are not detected; CheckDivisor does that.
func ComputeDivisor(clock, baud uint32, over8 bool) uint32 {
	c, b := uint64(clock), uint64(baud)
	if !over8 {
		return uint32((c + b>>1) / b)
	}
	raw := uint32((2*c + b>>1) / b)
	return (raw & 0xfff0) | ((raw & 0xf) >> 1)
}

// usartdiv returns the pre-packing divisor ComputeDivisor is derived from.
func usartdiv(clock, baud uint32, over8 bool) uint64 {
	c, b := uint64(clock), uint64(baud)
	if over8 {
		c *= 2
	}
	return (c + b>>1) / b
}

// CheckDivisor is ComputeDivisor with validation: a zero clock or baud is
// InvalidParams, and a USARTDIV outside [MinUSARTDIV, MaxUSARTDIV] is
// Overflow.
func CheckDivisor(clock, baud uint32, over8 bool) (uint32, error) {
	const op = "check_divisor"
	if baud == 0 {
		return 0, errcode.New(errcode.InvalidParams, op, "zero baud rate")
	}
	if clock == 0 {
		return 0, errcode.New(errcode.InvalidParams, op, "unknown input clock")
	}
	if d := usartdiv(clock, baud, over8); d < MinUSARTDIV || d > MaxUSARTDIV {
		return 0, errcode.New(errcode.Overflow, op, "usartdiv out of range")
	}
	return ComputeDivisor(clock, baud, over8), nil
}

// ActualBaud is the rate the peripheral produces with brr programmed,
// rounded to the nearest hertz. A zero brr gives zero.
func ActualBaud(clock, brr uint32, over8 bool) uint32 {
	c := uint64(clock)
	d := uint64(brr)
	if over8 {
		c *= 2
		d = uint64((brr & 0xfff0) | (brr&0x7)<<1)
	}
	return uint32(mathx.RoundDiv(c, d))
}

// ErrorPPM is the signed deviation of actual from target in parts per
// million.
func ErrorPPM(target, actual uint32) int64 {
	if target == 0 {
		return 0
	}
	diff := int64(actual) - int64(target)
	return diff * 1_000_000 / int64(target)
}

// WithinTolerance reports whether actual is within ppm of target.
func WithinTolerance(target, actual uint32, ppm int64) bool {
	return mathx.Abs(ErrorPPM(target, actual)) <= ppm
}
