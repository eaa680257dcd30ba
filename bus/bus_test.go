package bus

import (
	"context"
	"slices"
	"testing"
	"time"

	"cm3hal/errcode"
)

func TestPublishSubscribe(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(T("hal", "state"))
	conn.Publish(conn.NewMessage(T("hal", "state"), "ready", false))
	expectPayload(t, sub, "ready")

	conn.Publish(conn.NewMessage(T("hal", "other"), "x", false))
	expectNothing(t, sub)
}

func TestRetained(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(T("hal", "cap", "io", "serial", "console", "info"), "8N1", true))
	sub := conn.Subscribe(T("hal", "cap", "io", "serial", "console", "info"))
	expectPayload(t, sub, "8N1")

	// A nil retained payload clears it.
	conn.Publish(conn.NewMessage(T("hal", "cap", "io", "serial", "console", "info"), nil, true))
	<-sub.Channel()
	late := conn.Subscribe(T("hal", "cap", "io", "serial", "console", "info"))
	expectNothing(t, late)
}

func TestWildcards(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	plus := c.Subscribe(T("serial", "+", "control"))
	hash := c.Subscribe(T("serial", "#"))
	all := c.Subscribe(T("#"))
	exact := c.Subscribe(T("serial"))
	miss := c.Subscribe(T("serial", "+", "event"))

	c.Publish(b.NewMessage(T("serial", "gps", "control"), "m1", false))
	expectPayload(t, plus, "m1")
	expectPayload(t, hash, "m1")
	expectPayload(t, all, "m1")
	expectNothing(t, exact)
	expectNothing(t, miss)

	// "#" also matches the parent level itself.
	c.Publish(b.NewMessage(T("serial"), "m2", false))
	expectPayload(t, hash, "m2")
	expectPayload(t, all, "m2")
	expectPayload(t, exact, "m2")
	expectNothing(t, plus)

	// "+" is exactly one token.
	c.Publish(b.NewMessage(T("serial", "gps", "control", "set_baud"), "m3", false))
	expectNothing(t, plus)
	expectPayload(t, hash, "m3")
}

func TestRetainedWildcardDelivery(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	c.Publish(b.NewMessage(T("p"), "r0", true))
	c.Publish(b.NewMessage(T("p", "a"), "r1", true))
	c.Publish(b.NewMessage(T("p", "a", "b"), "r2", true))
	c.Publish(b.NewMessage(T("p", "x"), "r3", true))

	cases := []struct {
		topic Topic
		want  []string
	}{
		{T("p", "#"), []string{"r0", "r1", "r2", "r3"}},
		{T("p", "+", "#"), []string{"r1", "r2", "r3"}},
		{T("p", "+"), []string{"r1", "r3"}},
		{T("p", "a", "b"), []string{"r2"}},
	}
	for _, tc := range cases {
		sub := c.Subscribe(tc.topic)
		got := drain(t, sub, len(tc.want))
		slices.Sort(got)
		if !slices.Equal(got, tc.want) {
			t.Fatalf("%v: got %v, want %v", tc.topic, got, tc.want)
		}
	}
}

func TestQueueDropsOldest(t *testing.T) {
	b := NewBus(2)
	c := b.NewConnection("test")
	sub := c.Subscribe(T("rx"))
	for _, p := range []string{"a", "b", "c"} {
		c.Publish(b.NewMessage(T("rx"), p, false))
	}
	if got := drain(t, sub, 2); !slices.Equal(got, []string{"b", "c"}) {
		t.Fatalf("got %v", got)
	}
}

func TestUnsubscribeAndDisconnect(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")

	sub := c.Subscribe(T("a", "b"))
	sub.Unsubscribe()
	if _, ok := <-sub.Channel(); ok {
		t.Fatal("channel open after Unsubscribe")
	}
	sub.Unsubscribe() // second call is a no-op
	c.Publish(b.NewMessage(T("a", "b"), "x", false))
	if len(b.root.children) != 0 {
		t.Fatal("empty nodes not pruned")
	}

	s1, s2 := c.Subscribe(T("x")), c.Subscribe(T("y", "#"))
	c.Disconnect()
	for _, s := range []*Subscription{s1, s2} {
		if _, ok := <-s.Channel(); ok {
			t.Fatalf("%v open after Disconnect", s.Topic())
		}
	}
}

func TestRequestWait(t *testing.T) {
	b := NewBus(8)
	req := b.NewConnection("requester")
	resp := b.NewConnection("responder")

	topic := T("hal", "cap", "io", "serial", "console", "control", "info")
	in := resp.Subscribe(topic)
	defer resp.Unsubscribe(in)
	go func() {
		if m, ok := <-in.Channel(); ok {
			resp.Reply(m, "OK", false)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	msg := b.NewMessage(topic, nil, false)
	reply, err := req.RequestWait(ctx, msg)
	if err != nil {
		t.Fatalf("RequestWait: %v", err)
	}
	if reply.Payload != "OK" {
		t.Fatalf("reply %#v", reply.Payload)
	}
	if !msg.CanReply() || !slices.Equal(reply.Topic, msg.ReplyTo) {
		t.Fatalf("reply topic %v, request ReplyTo %v", reply.Topic, msg.ReplyTo)
	}
}

func TestRequestWaitTimeout(t *testing.T) {
	b := NewBus(8)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := b.NewConnection("requester").RequestWait(ctx, b.NewMessage(T("nobody"), nil, false))
	if errcode.Of(err) != errcode.Timeout {
		t.Fatalf("err = %v", err)
	}
}

func TestReplyWithoutReplyTo(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")
	all := c.Subscribe(T("#"))
	c.Reply(b.NewMessage(T("a"), nil, false), "ignored", false)
	expectNothing(t, all)
}

func TestTopicHelpers(t *testing.T) {
	base := T("hal", "cap", "io", "serial", 2)
	ctrl := base.Append("control", "set_baud")
	if base.Len() != 5 || ctrl.Len() != 7 || ctrl.At(4) != 2 || ctrl.At(6) != "set_baud" || ctrl.At(7) != nil {
		t.Fatalf("topic %v", ctrl)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("non-comparable token accepted")
		}
	}()
	_ = T([]byte{1, 2, 3})
}

// -----------------------------------------------------------------------------
// helpers
// -----------------------------------------------------------------------------

func expectPayload(t *testing.T, sub *Subscription, want string) {
	t.Helper()
	select {
	case got := <-sub.Channel():
		if s, _ := got.Payload.(string); s != want {
			t.Fatalf("%v: payload %v, want %q", sub.Topic(), got.Payload, want)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("%v: timeout waiting for %q", sub.Topic(), want)
	}
}

func expectNothing(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case got := <-sub.Channel():
		t.Fatalf("%v: unexpected message %#v", sub.Topic(), got)
	case <-time.After(30 * time.Millisecond):
	}
}

func drain(t *testing.T, sub *Subscription, n int) []string {
	t.Helper()
	var out []string
	for len(out) < n {
		select {
		case m := <-sub.Channel():
			s, ok := m.Payload.(string)
			if !ok {
				t.Fatalf("non-string payload %#v", m.Payload)
			}
			out = append(out, s)
		case <-time.After(200 * time.Millisecond):
			t.Fatalf("%v: got %d of %d messages (%v)", sub.Topic(), len(out), n, out)
		}
	}
	return out
}
