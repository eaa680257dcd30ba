// Package hal exposes configured USART ports on the bus.
//
// Topics:
//
//	hal/state                                  retained types.HALState
//	hal/cap/io/serial/<id>/info                retained types.SerialInfo
//	hal/cap/io/serial/<id>/control/<verb>      request; reply is the
//	                                           Control result or types.ErrorReply
//
// Verbs are those of (*usart.Port).Control. Run handles one request at a
// time, so ports are never reconfigured concurrently.
package hal

import (
	"context"

	"cm3hal/bus"
	"cm3hal/errcode"
	"cm3hal/logx"
	"cm3hal/types"
	"cm3hal/usart"
)

const (
	domainIO   = "io"
	kindSerial = "serial"
)

// hal/cap/io/serial/<id>
func capBase(id string) bus.Topic { return bus.T("hal", "cap", domainIO, kindSerial, id) }

// StateTopic is where Run publishes its lifecycle.
func StateTopic() bus.Topic { return bus.T("hal", "state") }

// InfoTopic carries the retained line settings of port id.
func InfoTopic(id string) bus.Topic { return capBase(id).Append("info") }

// ControlTopic addresses verb on port id.
func ControlTopic(id, verb string) bus.Topic { return capBase(id).Append("control", verb) }

func ctrlWildcard() bus.Topic {
	return bus.T("hal", "cap", domainIO, kindSerial, bus.Single, "control", bus.Single)
}

// Port is the part of *usart.Port the HAL drives.
type Port interface {
	Control(method string, payload any) (any, error)
	Info() types.SerialInfo
}

var _ Port = (*usart.Port)(nil)

type HAL struct {
	conn  *bus.Connection
	ports map[string]Port
}

// New serves ports, keyed by ID, on conn.
func New(conn *bus.Connection, ports map[string]*usart.Port) *HAL {
	h := &HAL{conn: conn, ports: make(map[string]Port, len(ports))}
	for id, p := range ports {
		h.ports[id] = p
	}
	return h
}

// Run publishes port info, then answers control requests until ctx is
// done. hal/state turns "ready" once requests are being accepted.
func (h *HAL) Run(ctx context.Context) {
	sub := h.conn.Subscribe(ctrlWildcard())
	defer h.conn.Unsubscribe(sub)

	for id, p := range h.ports {
		h.pubRet(InfoTopic(id), p.Info())
	}
	h.pubState("ready", "")
	logx.Info(logx.ComponentHAL, "serving", "ports", len(h.ports))

	for {
		select {
		case <-ctx.Done():
			h.pubState("stopped", "context_cancelled")
			return
		case m, ok := <-sub.Channel():
			if !ok {
				return
			}
			h.handleControl(m)
		}
	}
}

func (h *HAL) handleControl(m *bus.Message) {
	// hal/cap/io/serial/<id>/control/<verb>
	if m.Topic.Len() != 7 {
		h.replyErr(m, errcode.InvalidTopic)
		return
	}
	id, _ := m.Topic.At(4).(string)
	verb, _ := m.Topic.At(6).(string)
	p, ok := h.ports[id]
	if !ok {
		h.replyErr(m, errcode.UnknownCapability)
		return
	}

	res, err := p.Control(verb, m.Payload)
	if err != nil {
		logx.Warn(logx.ComponentHAL, "control failed", "port", id, "verb", verb, "err", err)
		h.replyErr(m, errcode.Of(err))
		return
	}
	switch verb {
	case "set_baud", "set_format":
		h.pubRet(InfoTopic(id), p.Info())
	}
	if m.CanReply() {
		h.conn.Reply(m, res, false)
	}
}

func (h *HAL) replyErr(m *bus.Message, code errcode.Code) {
	if !m.CanReply() {
		return
	}
	if code == "" || code == errcode.OK {
		code = errcode.Error
	}
	h.conn.Reply(m, types.ErrorReply{OK: false, Error: string(code)}, false)
}

func (h *HAL) pubState(level, status string) {
	h.pubRet(StateTopic(), types.HALState{Level: level, Status: status, Ports: len(h.ports)})
}

func (h *HAL) pubRet(t bus.Topic, payload any) {
	h.conn.Publish(h.conn.NewMessage(t, payload, true))
}
