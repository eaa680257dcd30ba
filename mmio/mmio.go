// Package mmio describes the register access primitive the peripheral
// packages are written against.
//
// A Bus reads and writes 32-bit registers at absolute addresses. On a
// TinyGo target Volatile performs the accesses directly; on the host the
// Memory register file stands in for the hardware.
package mmio

// Bus is raw 32-bit register access. Writes are visible immediately and
// are never cached or merged.
type Bus interface {
	Read32(addr uintptr) uint32
	Write32(addr uintptr, v uint32)
}

// Modify performs the read-modify-write used for bitmask registers:
// bits in set are raised, bits in clear are dropped.
func Modify(b Bus, addr uintptr, set, clear uint32) {
	cur := b.Read32(addr)
	b.Write32(addr, (cur|set)&^clear)
}

// Replace clears every bit under mask and then ORs in v & mask.
func Replace(b Bus, addr uintptr, mask, v uint32) {
	cur := b.Read32(addr)
	b.Write32(addr, (cur&^mask)|(v&mask))
}

// SetBits raises bits in the register at addr.
func SetBits(b Bus, addr uintptr, bits uint32) { Modify(b, addr, bits, 0) }

// ClearBits drops bits in the register at addr.
func ClearBits(b Bus, addr uintptr, bits uint32) { Modify(b, addr, 0, bits) }

// HasBits reports whether every bit in bits is set.
func HasBits(b Bus, addr uintptr, bits uint32) bool {
	return b.Read32(addr)&bits == bits
}
