package mmio

import (
	"encoding/binary"
	"errors"
	"io"
	"maps"
	"slices"

	"github.com/marcinbor85/gohex"
)

var errUnaligned = errors.New("mmio: hex segment not word aligned")

// DumpIntelHex writes every stored register as a little-endian word in
// Intel HEX form, in address order. The image is what a debugger would
// read back from the peripheral space, so it can be diffed against a
// capture from real hardware.
func (m *Memory) DumpIntelHex(w io.Writer) error {
	m.mu.Lock()
	regs := maps.Clone(m.regs)
	m.mu.Unlock()

	img := gohex.NewMemory()
	var word [4]byte
	for _, addr := range slices.Sorted(maps.Keys(regs)) {
		binary.LittleEndian.PutUint32(word[:], regs[addr])
		if err := img.AddBinary(uint32(addr), slices.Clone(word[:])); err != nil {
			return err
		}
	}
	return img.DumpIntelHex(w, 16)
}

// LoadIntelHex stores the words of an Intel HEX image without recording
// writes. Segments must be word aligned.
func (m *Memory) LoadIntelHex(r io.Reader) error {
	img := gohex.NewMemory()
	if err := img.ParseIntelHex(r); err != nil {
		return err
	}
	for _, seg := range img.GetDataSegments() {
		if seg.Address%4 != 0 || len(seg.Data)%4 != 0 {
			return errUnaligned
		}
		for i := 0; i < len(seg.Data); i += 4 {
			m.Poke(uintptr(seg.Address)+uintptr(i), binary.LittleEndian.Uint32(seg.Data[i:]))
		}
	}
	return nil
}
