package config

import (
	"maps"
	"slices"

	"cm3hal/errcode"
)

// Built-in board descriptions, keyed by board name.

const cfgF072Disco = `{
  "clocks": {
    "pclk": 48000000,
    "sysclk": 48000000,
    "f0": true,
    "select": {"usart1": "sysclk"}
  },
  "ports": [
    {"id": "console", "instance": "usart1", "params": {"baud": 115200}},
    {"id": "gps", "instance": "usart2", "params": {"baud": 9600}}
  ]
}`

const cfgF030Nucleo = `{
  "clocks": {"pclk": 48000000, "sysclk": 48000000, "f0": true},
  "ports": [
    {"id": "vcp", "instance": "usart2", "params": {"baud": 115200}}
  ]
}`

const cfgL073Modbus = `{
  "clocks": {"pclk": 32000000, "instances": {"usart4": 16000000}},
  "ports": [
    {"id": "modbus", "instance": "usart4",
     "params": {"baud": 19200, "parity": "even", "mode": "rx_tx", "over8": true}}
  ]
}`

var embeddedConfigs = map[string]string{
	"stm32f072-disco":  cfgF072Disco,
	"nucleo-f030r8":    cfgF030Nucleo,
	"stm32l073-modbus": cfgL073Modbus,
}

// EmbeddedLookup resolves a board name to its built-in JSON. Replace it
// to serve boards from elsewhere.
var EmbeddedLookup = func(board string) ([]byte, bool) {
	s, ok := embeddedConfigs[board]
	return []byte(s), ok
}

// Boards lists the built-in board names in order.
func Boards() []string { return slices.Sorted(maps.Keys(embeddedConfigs)) }

// ForBoard loads the built-in configuration for board.
func ForBoard(board string) (HALConfig, error) {
	raw, ok := EmbeddedLookup(board)
	if !ok || len(raw) == 0 {
		return HALConfig{}, errcode.New(errcode.UnknownBus, "config.board", "no built-in config for "+board)
	}
	return Load(raw)
}
