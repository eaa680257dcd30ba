// Package config turns a JSON HAL description into configured USART ports.
package config

import (
	"errors"
	"slices"

	"cm3hal/errcode"
	"cm3hal/internal/util"
	"cm3hal/logx"
	"cm3hal/mmio"
	"cm3hal/rcc"
	"cm3hal/usart"
)

// HALConfig is the board description: clock tree inputs and the ports to
// bring up.
type HALConfig struct {
	Clocks Clocks `json:"clocks"`
	Ports  []Port `json:"ports"`
}

// Clocks describes where USART kernel clocks come from.
type Clocks struct {
	rcc.Frequencies

	// F0 reads the USART1..3 selectors from RCC_CFGR3.
	F0 bool `json:"f0,omitempty"`
	// Select programs USARTxSW before ports are configured, by instance
	// name ("usart1") and selector name ("hsi").
	Select map[string]string `json:"select,omitempty"`
	// Instances pins a frequency per instance name, ahead of any other
	// source.
	Instances map[string]uint32 `json:"instances,omitempty"`
}

// Port is one USART instance and its line settings. ID defaults to the
// instance name.
type Port struct {
	ID       string       `json:"id,omitempty"`
	Instance string       `json:"instance"`
	Params   usart.Params `json:"params"`
}

var errNoPorts = errors.New("no ports")

// selectable are the instances with a USARTxSW field in RCC_CFGR3.
var selectable = [3]uintptr{usart.USART1, usart.USART2, usart.USART3}

// Load decodes src (raw JSON or an already-decoded value) into a
// HALConfig.
func Load(src any) (HALConfig, error) {
	var c HALConfig
	if err := util.DecodeJSON(src, &c); err != nil {
		return HALConfig{}, errcode.Wrap(errcode.InvalidParams, "config.load", err)
	}
	return c, nil
}

// Validate checks names and uniqueness without touching hardware.
func (c *HALConfig) Validate() error {
	const op = "config.validate"
	if len(c.Ports) == 0 {
		return errcode.Wrap(errcode.InvalidParams, op, errNoPorts)
	}
	ids := make(map[string]bool, len(c.Ports))
	insts := make(map[string]bool, len(c.Ports))
	for i := range c.Ports {
		p := &c.Ports[i]
		if _, ok := usart.Base(p.Instance); !ok {
			return errcode.New(errcode.UnknownBus, op, "unknown instance "+p.Instance)
		}
		if p.ID == "" {
			p.ID = p.Instance
		}
		if ids[p.ID] {
			return errcode.New(errcode.InvalidParams, op, "duplicate id "+p.ID)
		}
		if insts[p.Instance] {
			return errcode.New(errcode.InvalidParams, op, p.Instance+" used twice")
		}
		ids[p.ID], insts[p.Instance] = true, true
		if err := p.Params.Validate(); err != nil {
			return errcode.Wrap(errcode.Of(err), op, errors.New(p.ID+": "+err.Error()))
		}
	}
	if len(c.Clocks.Select) > 0 && !c.Clocks.F0 {
		return errcode.New(errcode.InvalidParams, op, "clock selectors need f0")
	}
	for inst, sel := range c.Clocks.Select {
		base, ok := usart.Base(inst)
		if !ok {
			return errcode.New(errcode.UnknownBus, op, "unknown instance "+inst)
		}
		if !slices.Contains(selectable[:], base) {
			return errcode.New(errcode.Unsupported, op, inst+" has no clock selector")
		}
		if _, ok := rcc.ParseSelector(sel); !ok {
			return errcode.New(errcode.InvalidParams, op, "bad clock selector "+sel)
		}
	}
	for inst := range c.Clocks.Instances {
		if _, ok := usart.Base(inst); !ok {
			return errcode.New(errcode.UnknownBus, op, "unknown instance "+inst)
		}
	}
	return nil
}

// ClockSource builds the resolver the ports use: per-instance pins
// first, then the F0 selectors when enabled, then PCLK.
func (c *HALConfig) ClockSource(bus mmio.Bus) rcc.ClockSource {
	pinned := rcc.Fixed{}
	for inst, hz := range c.Clocks.Instances {
		if b, ok := usart.Base(inst); ok {
			pinned[b] = hz
		}
	}
	chain := rcc.Chain{pinned}
	if c.Clocks.F0 {
		f0 := rcc.NewF0(bus, c.Clocks.Frequencies, selectable[0], selectable[1], selectable[2])
		for inst, name := range c.Clocks.Select {
			b, _ := usart.Base(inst)
			sel, _ := rcc.ParseSelector(name)
			f0.Select(b, sel)
		}
		chain = append(chain, f0)
	}
	return append(chain, rcc.Uniform(c.Clocks.PCLK))
}

// Apply validates the configuration, then creates and configures every
// port on bus. Ports are keyed by ID. The first failure stops the walk;
// ports already configured stay enabled.
func (c *HALConfig) Apply(bus mmio.Bus) (map[string]*usart.Port, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	clocks := c.ClockSource(bus)
	out := make(map[string]*usart.Port, len(c.Ports))
	for _, pc := range c.Ports {
		base, _ := usart.Base(pc.Instance)
		p := usart.New(bus, base, clocks)
		if err := p.Configure(pc.Params); err != nil {
			logx.Error(logx.ComponentConfig, "port configure failed", "id", pc.ID, "err", err)
			return out, &errcode.E{C: errcode.Of(err), Op: "config.apply", Msg: pc.ID + ": " + err.Error(), Err: err}
		}
		out[pc.ID] = p
	}
	logx.Info(logx.ComponentConfig, "ports up", "count", len(out))
	return out, nil
}
