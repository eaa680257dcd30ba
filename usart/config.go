package usart

import (
	"strconv"

	"cm3hal/errcode"
	"cm3hal/logx"
	"cm3hal/types"
)

// DefaultBaud is used when Params.Baud is zero.
const DefaultBaud = 115200

const errWordLength = "databits plus parity must make a 7, 8 or 9 bit word"

// Params is a complete line configuration. Zero values select 115200 8N1,
// both directions, no flow control, 16x oversampling.
type Params struct {
	Baud        uint32            `json:"baud,omitempty"`
	DataBits    uint8             `json:"databits,omitempty"` // payload bits, parity excluded
	StopBits    types.StopBits    `json:"stopbits,omitempty"`
	Parity      types.Parity      `json:"parity,omitempty"`
	Direction   types.Direction   `json:"mode,omitempty"`
	FlowControl types.FlowControl `json:"flow_control,omitempty"`
	Over8       bool              `json:"over8,omitempty"`
}

// Validate fills defaults and rejects values the hardware cannot do.
func (p *Params) Validate() error {
	const op = "params"
	if p.Baud == 0 {
		p.Baud = DefaultBaud
	}
	if p.DataBits == 0 {
		p.DataBits = 8
	}
	if p.Parity > types.ParityOdd {
		return errcode.New(errcode.InvalidParams, op, "bad parity")
	}
	if _, ok := wordLength(p.DataBits, p.Parity); !ok {
		return errcode.New(errcode.InvalidParams, op, errWordLength)
	}
	if p.StopBits > types.StopBits1Half {
		return errcode.New(errcode.InvalidParams, op, "bad stop bits")
	}
	if p.Direction > types.DirTX {
		return errcode.New(errcode.InvalidParams, op, "bad mode")
	}
	if p.FlowControl > types.FlowRTSCTS {
		return errcode.New(errcode.InvalidParams, op, "bad flow control")
	}
	return nil
}

// Configure disables the port, applies every field of params, programs
// the baud rate and re-enables it. On error the port is left disabled.
func (p *Port) Configure(params Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	p.Disable()

	o := Over16
	if params.Over8 {
		o = Over8
	}
	word, _ := wordLength(params.DataBits, params.Parity)
	p.SetOversampling(o)
	p.SetWordLength(word)
	p.SetStopBits(params.StopBits)
	p.SetParity(params.Parity)
	p.SetFlowControl(params.FlowControl)
	p.SetMode(params.Direction)
	if err := p.SetBaudRateChecked(params.Baud); err != nil {
		return err
	}
	p.Enable()

	logx.Info(logx.ComponentUSART, "configured",
		"port", p.name, "baud", params.Baud, "format", p.Format(), "over8", params.Over8)
	return nil
}

// SetFormat sets data bits, stop bits and parity in one step.
// databits counts payload bits; with parity the word grows by one, so
// SetFormat(8, 1, 1) is 8E1 on the wire.
// parity: 0 none, 1 even, 2 odd. stopbits: 1 or 2.
func (p *Port) SetFormat(databits, stopbits uint8, parity uint8) error {
	const op = "set_format"
	if parity > uint8(types.ParityOdd) {
		return errcode.New(errcode.InvalidParams, op, "parity must be 0, 1 or 2")
	}
	word, ok := wordLength(databits, types.Parity(parity))
	if !ok {
		return errcode.New(errcode.InvalidParams, op, errWordLength)
	}
	var sb types.StopBits
	switch stopbits {
	case 1:
		sb = types.StopBits1
	case 2:
		sb = types.StopBits2
	default:
		return errcode.New(errcode.InvalidParams, op, "stopbits must be 1 or 2")
	}
	p.whileDisabled(func() {
		p.SetWordLength(word)
		p.SetStopBits(sb)
		p.SetParity(types.Parity(parity))
	})
	return nil
}

// Format renders the frame format in the usual short form, e.g. "8N1".
// The data bit count excludes parity.
func (p *Port) Format() string {
	par := "N"
	switch p.Parity() {
	case types.ParityEven:
		par = "E"
	case types.ParityOdd:
		par = "O"
	}
	return strconv.Itoa(int(p.DataBits())) + par + p.StopBits().String()
}

// Info summarises the current line settings.
func (p *Port) Info() types.SerialInfo {
	return types.SerialInfo{
		Bus:    p.name,
		Baud:   p.BaudRate(),
		BRR:    p.BRR(),
		Over8:  p.Oversampling() == Over8,
		Format: p.Format(),
	}
}
