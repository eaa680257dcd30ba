package usbotg

import (
	"io"

	"cm3hal/x/conv"
)

type namedReg struct {
	name string
	off  uintptr
}

// GRXSTSP is left out: reading it pops the status queue.
var dumpRegs = []namedReg{
	{"GOTGCTL", GOTGCTL},
	{"GOTGINT", GOTGINT},
	{"GAHBCFG", GAHBCFG},
	{"GUSBCFG", GUSBCFG},
	{"GRSTCTL", GRSTCTL},
	{"GINTSTS", GINTSTS},
	{"GINTMSK", GINTMSK},
	{"GRXSTSR", GRXSTSR},
	{"GRXFSIZ", GRXFSIZ},
	{"GNPTXFSIZ", GNPTXFSIZ},
	{"GNPTXSTS", GNPTXSTS},
	{"GCCFG", GCCFG},
	{"CID", CID},
	{"HPTXFSIZ", HPTXFSIZ},
	{"HCFG", HCFG},
	{"HFNUM", HFNUM},
	{"HPRT", HPRT},
	{"DCFG", DCFG},
	{"DCTL", DCTL},
	{"DSTS", DSTS},
	{"DAINT", DAINT},
	{"DAINTMSK", DAINTMSK},
	{"PCGCCTL", PCGCCTL},
}

// Dump writes one NAME=0xXXXXXXXX line per global, host and device
// register. It allocates nothing beyond one line buffer and does not use
// fmt, so it is usable from a TinyGo console.
func (c *Core) Dump(w io.Writer) error {
	line := make([]byte, 0, 24)
	for _, r := range dumpRegs {
		line = append(line[:0], r.name...)
		line = append(line, '=')
		line = conv.AppendU32Hex(line, c.Read(r.off))
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}
