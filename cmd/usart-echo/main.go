//go:build tinygo

// Command usart-echo brings up the ports of a built-in board, serves them
// on the bus and echoes every byte received on the first one. GPIO
// alternate functions and peripheral clock enables are left to the
// board's startup code.
package main

import (
	"context"
	"time"

	"cm3hal/bus"
	"cm3hal/config"
	"cm3hal/errcode"
	"cm3hal/hal"
	"cm3hal/mmio"
	"cm3hal/types"
	"cm3hal/usart"
)

// board is set with -ldflags "-X main.board=...".
var board = "nucleo-f030r8"

func main() {
	time.Sleep(500 * time.Millisecond)

	cfg, err := config.ForBoard(board)
	if err != nil {
		println("[echo] config:", err.Error())
		return
	}
	ports, err := cfg.Apply(mmio.Volatile{})
	if err != nil {
		println("[echo] apply:", err.Error())
		return
	}
	id := cfg.Ports[0].ID
	p := ports[id]
	info := p.Info()
	println("[echo]", id, "on", info.Bus, "BRR", info.BRR, info.Format)

	// The HAL owns every TX and reconfiguration; this loop only reads.
	ctx := context.Background()
	b := bus.NewBus(8)
	go hal.New(b.NewConnection("hal"), ports).Run(ctx)

	conn := b.NewConnection("echo")
	state := conn.Subscribe(hal.StateTopic())
	<-state.Channel()
	conn.Unsubscribe(state)

	if err := send(ctx, conn, id, "usart-echo ready\r\n"); err != nil {
		println("[echo] tx:", err.Error())
	}
	buf := make([]byte, 32)
	for {
		n, err := p.RecvSomeContext(ctx, buf)
		if err != nil {
			println("[echo] rx:", err.Error())
			return
		}
		if p.Flag(usart.FlagORE) {
			p.ClearFlags(usart.ClearORE)
			println("[echo] overrun")
		}
		if err := send(ctx, conn, id, string(buf[:n])); err != nil {
			println("[echo] tx:", err.Error())
		}
	}
}

// send writes text through the port's write verb.
func send(ctx context.Context, conn *bus.Connection, id, text string) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	msg := conn.NewMessage(hal.ControlTopic(id, "write"), types.SerialWrite{Text: text}, false)
	rep, err := conn.RequestWait(ctx, msg)
	if err != nil {
		return err
	}
	if e, ok := rep.Payload.(types.ErrorReply); ok {
		return errcode.Code(e.Error)
	}
	return nil
}
