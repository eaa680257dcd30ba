package usart

import (
	"encoding/base64"

	"cm3hal/errcode"
	"cm3hal/internal/util"
	"cm3hal/types"
)

// Control methods:
//   - set_baud:   {"baud":115200}                               → {ok, brr}
//   - set_format: {"data_bits":8,"stop_bits":1,"parity":"none"} → {ok}
//   - write:      {"text":"..."} or {"data_b64":"..."}           → {ok, n}
//   - info:       nil                                           → types.SerialInfo
//
// Payloads may be raw JSON or decoded maps.
func (p *Port) Control(method string, payload any) (any, error) {
	switch method {
	case "set_baud":
		var req types.SerialSetBaud
		if err := util.DecodeJSON(payload, &req); err != nil {
			return nil, errcode.Wrap(errcode.InvalidParams, method, err)
		}
		if err := p.SetBaudRateChecked(req.Baud); err != nil {
			return nil, err
		}
		return map[string]any{"ok": true, "brr": p.BRR()}, nil

	case "set_format":
		var req types.SerialSetFormat
		if err := util.DecodeJSON(payload, &req); err != nil {
			return nil, errcode.Wrap(errcode.InvalidParams, method, err)
		}
		db := req.DataBits
		if db == 0 {
			db = 8
		}
		var sb uint8
		switch req.StopBits {
		case types.StopBits1:
			sb = 1
		case types.StopBits2:
			sb = 2
		default:
			return nil, errcode.New(errcode.Unsupported, method, "stop bits "+req.StopBits.String())
		}
		if err := p.SetFormat(db, sb, uint8(req.Parity)); err != nil {
			return nil, err
		}
		return map[string]any{"ok": true}, nil

	case "write":
		var req types.SerialWrite
		if err := util.DecodeJSON(payload, &req); err != nil {
			return nil, errcode.Wrap(errcode.InvalidParams, method, err)
		}
		data, err := decodeWrite(req)
		if err != nil {
			return nil, errcode.Wrap(errcode.InvalidParams, method, err)
		}
		n, err := p.Write(data)
		return map[string]any{"ok": err == nil, "n": n}, err

	case "info":
		return p.Info(), nil

	default:
		return nil, errcode.New(errcode.Unsupported, method, "unknown method")
	}
}

func decodeWrite(req types.SerialWrite) ([]byte, error) {
	if req.DataB64 != "" {
		return base64.StdEncoding.DecodeString(req.DataB64)
	}
	return []byte(req.Text), nil
}
