//go:build tinygo

package mmio

import (
	"runtime/volatile"
	"unsafe"
)

// Volatile accesses real peripheral registers.
type Volatile struct{}

func (Volatile) Read32(addr uintptr) uint32 {
	return volatile.LoadUint32((*uint32)(unsafe.Pointer(addr)))
}

func (Volatile) Write32(addr uintptr, v uint32) {
	volatile.StoreUint32((*uint32)(unsafe.Pointer(addr)), v)
}

var _ Bus = Volatile{}
