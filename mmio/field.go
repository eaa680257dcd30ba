package mmio

// Field is a multi-bit register field: Mask is the unshifted width mask
// and Shift the position of its least significant bit.
type Field struct {
	Shift uint8
	Mask  uint32
}

// Bit returns a single-bit field at position n.
func Bit(n uint8) Field { return Field{Shift: n, Mask: 1} }

// Get extracts the field from a register value.
func (f Field) Get(reg uint32) uint32 { return (reg >> f.Shift) & f.Mask }

// Set places v into field position. Bits of v outside the field width
// are discarded.
func (f Field) Set(v uint32) uint32 { return (v & f.Mask) << f.Shift }

// Bits returns the in-place mask covering the field.
func (f Field) Bits() uint32 { return f.Mask << f.Shift }

// Insert returns reg with the field replaced by v.
func (f Field) Insert(reg, v uint32) uint32 { return (reg &^ f.Bits()) | f.Set(v) }

// Read reads the register at addr and extracts the field.
func (f Field) Read(b Bus, addr uintptr) uint32 { return f.Get(b.Read32(addr)) }

// Write replaces the field in the register at addr, leaving other bits.
func (f Field) Write(b Bus, addr uintptr, v uint32) {
	Replace(b, addr, f.Bits(), f.Set(v))
}
