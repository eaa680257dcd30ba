package types

import (
	"encoding/json"
	"strconv"
)

// ------------------------
// Serial
// ------------------------

type Parity uint8

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

func (p Parity) String() string {
	switch p {
	case ParityEven:
		return "even"
	case ParityOdd:
		return "odd"
	default:
		return "none"
	}
}

func (p Parity) MarshalJSON() ([]byte, error) { return []byte(`"` + p.String() + `"`), nil }

func (p *Parity) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "even":
		*p = ParityEven
	case "odd":
		*p = ParityOdd
	case "", "none":
		*p = ParityNone
	default:
		return &json.UnsupportedValueError{Str: s}
	}
	return nil
}

// StopBits is the stop period length. The zero value is one stop bit.
type StopBits uint8

const (
	StopBits1 StopBits = iota
	StopBitsHalf
	StopBits2
	StopBits1Half
)

func (s StopBits) String() string {
	switch s {
	case StopBitsHalf:
		return "0.5"
	case StopBits2:
		return "2"
	case StopBits1Half:
		return "1.5"
	default:
		return "1"
	}
}

// MarshalJSON encodes the stop period as a JSON number.
func (s StopBits) MarshalJSON() ([]byte, error) { return []byte(s.String()), nil }

func (s *StopBits) UnmarshalJSON(b []byte) error {
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	switch f {
	case 0, 1:
		*s = StopBits1
	case 0.5:
		*s = StopBitsHalf
	case 2:
		*s = StopBits2
	case 1.5:
		*s = StopBits1Half
	default:
		return &json.UnsupportedValueError{Str: string(b)}
	}
	return nil
}

// FlowControl selects hardware handshake lines.
type FlowControl uint8

const (
	FlowNone FlowControl = iota
	FlowRTS
	FlowCTS
	FlowRTSCTS
)

func (f FlowControl) String() string {
	switch f {
	case FlowRTS:
		return "rts"
	case FlowCTS:
		return "cts"
	case FlowRTSCTS:
		return "rts_cts"
	default:
		return "none"
	}
}

func (f FlowControl) MarshalJSON() ([]byte, error) { return []byte(`"` + f.String() + `"`), nil }

func (f *FlowControl) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "rts":
		*f = FlowRTS
	case "cts":
		*f = FlowCTS
	case "rts_cts":
		*f = FlowRTSCTS
	case "", "none":
		*f = FlowNone
	default:
		return &json.UnsupportedValueError{Str: s}
	}
	return nil
}

// Direction selects which halves of the link are enabled. The zero value
// enables both.
type Direction uint8

const (
	DirRXTX Direction = iota
	DirRX
	DirTX
)

func (d Direction) String() string {
	switch d {
	case DirRX:
		return "rx"
	case DirTX:
		return "tx"
	default:
		return "rx_tx"
	}
}

func (d Direction) MarshalJSON() ([]byte, error) { return []byte(`"` + d.String() + `"`), nil }

func (d *Direction) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "rx":
		*d = DirRX
	case "tx":
		*d = DirTX
	case "", "rx_tx":
		*d = DirRXTX
	default:
		return &json.UnsupportedValueError{Str: s}
	}
	return nil
}

type SerialSetBaud struct {
	Baud uint32 `json:"baud"`
}

type SerialSetFormat struct {
	DataBits uint8    `json:"data_bits"`
	StopBits StopBits `json:"stop_bits"`
	Parity   Parity   `json:"parity"`
}

type SerialWrite struct {
	Text    string `json:"text,omitempty"`
	DataB64 string `json:"data_b64,omitempty"`
}

type SerialInfo struct {
	Bus    string `json:"bus"`
	Baud   uint32 `json:"baud"` // 0 if unspecified
	BRR    uint32 `json:"brr"`
	Over8  bool   `json:"over8"`
	Format string `json:"format"` // e.g. "8N1"
}

// Generic replies
type OKReply struct {
	OK bool `json:"ok"`
}
type ErrorReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// HALState is the retained hal/state payload.
type HALState struct {
	Level  string `json:"level"` // "ready" or "stopped"
	Status string `json:"status,omitempty"`
	Ports  int    `json:"ports"`
}
