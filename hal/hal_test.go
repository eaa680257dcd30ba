package hal

import (
	"context"
	"testing"
	"time"

	"cm3hal/bus"
	"cm3hal/errcode"
	"cm3hal/mmio"
	"cm3hal/rcc"
	"cm3hal/types"
	"cm3hal/usart"
)

// startHAL serves one port ("console" on USART2, 8 MHz) and waits for
// hal/state to turn ready.
func startHAL(t *testing.T) (*bus.Connection, *usart.Port, *mmio.Memory) {
	t.Helper()
	mem := mmio.NewMemory()
	p := usart.New(mem, usart.USART2, rcc.Fixed{usart.USART2: 8_000_000})
	if err := p.Configure(usart.Params{Baud: 9600}); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	b := bus.NewBus(8)
	conn := b.NewConnection("client")
	state := conn.Subscribe(StateTopic())
	defer conn.Unsubscribe(state)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		New(b.NewConnection("hal"), map[string]*usart.Port{"console": p}).Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	select {
	case m := <-state.Channel():
		if st, _ := m.Payload.(types.HALState); st.Level != "ready" || st.Ports != 1 {
			t.Fatalf("state %+v", m.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("hal never became ready")
	}
	return conn, p, mem
}

func request(t *testing.T, conn *bus.Connection, topic bus.Topic, payload any) any {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	reply, err := conn.RequestWait(ctx, conn.NewMessage(topic, payload, false))
	if err != nil {
		t.Fatalf("%v: %v", topic, err)
	}
	return reply.Payload
}

func TestControlRoundTrip(t *testing.T) {
	conn, p, mem := startHAL(t)

	info, ok := request(t, conn, ControlTopic("console", "info"), nil).(types.SerialInfo)
	if !ok || info.Bus != "usart2" || info.BRR != 833 || info.Format != "8N1" {
		t.Fatalf("info %+v", info)
	}

	res, _ := request(t, conn, ControlTopic("console", "set_baud"), map[string]any{"baud": 115200}).(map[string]any)
	if res["ok"] != true || p.BRR() != 69 {
		t.Fatalf("set_baud reply %v, BRR %d", res, p.BRR())
	}

	request(t, conn, ControlTopic("console", "set_format"), `{"data_bits":8,"parity":"even"}`)
	if p.Format() != "8E1" || mem.Peek(usart.USART2)&(1<<12) == 0 {
		t.Fatalf("format %s CR1 %#x", p.Format(), mem.Peek(usart.USART2))
	}

	// The retained info follows reconfiguration.
	sub := conn.Subscribe(InfoTopic("console"))
	defer conn.Unsubscribe(sub)
	select {
	case m := <-sub.Channel():
		if got := m.Payload.(types.SerialInfo); got.Format != "8E1" || got.BRR != 69 {
			t.Fatalf("retained info %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("no retained info")
	}
}

func TestControlErrors(t *testing.T) {
	conn, p, _ := startHAL(t)

	cases := []struct {
		topic   bus.Topic
		payload any
		code    errcode.Code
	}{
		{ControlTopic("gps", "info"), nil, errcode.UnknownCapability},
		{ControlTopic("console", "reboot"), nil, errcode.Unsupported},
		{ControlTopic("console", "set_baud"), `{"baud":0}`, errcode.InvalidParams},
		{ControlTopic("console", "set_format"), `{"data_bits":9,"parity":"odd"}`, errcode.InvalidParams},
	}
	for _, c := range cases {
		rep, ok := request(t, conn, c.topic, c.payload).(types.ErrorReply)
		if !ok || rep.OK || rep.Error != string(c.code) {
			t.Fatalf("%v: reply %+v, want %s", c.topic, rep, c.code)
		}
	}
	if p.BRR() != 833 || p.Format() != "8N1" {
		t.Fatalf("failed requests changed the port: BRR %d format %s", p.BRR(), p.Format())
	}
}

func TestStoppedState(t *testing.T) {
	b := bus.NewBus(4)
	conn := b.NewConnection("client")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		New(b.NewConnection("hal"), nil).Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	sub := conn.Subscribe(StateTopic())
	m := <-sub.Channel()
	if st := m.Payload.(types.HALState); st.Level != "stopped" {
		t.Fatalf("state %+v", st)
	}
}

func TestControlWrite(t *testing.T) {
	conn, _, mem := startHAL(t)
	mem.Poke(usart.USART2+0x1c, uint32(usart.FlagTXE)) // ISR

	res, _ := request(t, conn, ControlTopic("console", "write"), types.SerialWrite{Text: "ok\r\n"}).(map[string]any)
	if res["ok"] != true || res["n"] != 4 {
		t.Fatalf("write reply %v", res)
	}
	var sent []byte
	for _, v := range mem.WritesTo(usart.USART2 + 0x28) { // TDR
		sent = append(sent, byte(v))
	}
	if string(sent) != "ok\r\n" {
		t.Fatalf("TDR saw %q", sent)
	}

	rep, ok := request(t, conn, ControlTopic("console", "write"), `{"data_b64":"@@"}`).(types.ErrorReply)
	if !ok || rep.Error != string(errcode.InvalidParams) {
		t.Fatalf("bad write reply %+v", rep)
	}
}
