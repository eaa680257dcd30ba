package mmio

import "sync"

// Access records one register write made through a Memory.
type Access struct {
	Addr  uintptr
	Value uint32
}

// Memory is a sparse host-side register file. Unwritten registers read
// as zero. OnRead, if set, may substitute the value returned by a read,
// which lets tests model status bits that hardware sets on its own.
type Memory struct {
	mu     sync.Mutex
	regs   map[uintptr]uint32
	writes []Access

	OnRead func(addr uintptr, v uint32) uint32
}

// NewMemory returns an empty register file.
func NewMemory() *Memory { return &Memory{regs: make(map[uintptr]uint32)} }

func (m *Memory) Read32(addr uintptr) uint32 {
	m.mu.Lock()
	v := m.regs[addr]
	hook := m.OnRead
	m.mu.Unlock()
	if hook != nil {
		v = hook(addr, v)
	}
	return v
}

func (m *Memory) Write32(addr uintptr, v uint32) {
	m.mu.Lock()
	if m.regs == nil {
		m.regs = make(map[uintptr]uint32)
	}
	m.regs[addr] = v
	m.writes = append(m.writes, Access{Addr: addr, Value: v})
	m.mu.Unlock()
}

// Peek returns the stored value without running OnRead.
func (m *Memory) Peek(addr uintptr) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.regs[addr]
}

// Poke stores v without recording a write.
func (m *Memory) Poke(addr uintptr, v uint32) {
	m.mu.Lock()
	if m.regs == nil {
		m.regs = make(map[uintptr]uint32)
	}
	m.regs[addr] = v
	m.mu.Unlock()
}

// Writes returns a copy of the write log.
func (m *Memory) Writes() []Access {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Access, len(m.writes))
	copy(out, m.writes)
	return out
}

// WritesTo returns the values written to addr, oldest first.
func (m *Memory) WritesTo(addr uintptr) []uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []uint32
	for _, w := range m.writes {
		if w.Addr == addr {
			out = append(out, w.Value)
		}
	}
	return out
}

// Reset drops all register contents and the write log.
func (m *Memory) Reset() {
	m.mu.Lock()
	m.regs = make(map[uintptr]uint32)
	m.writes = nil
	m.mu.Unlock()
}

var _ Bus = (*Memory)(nil)
