package heartbeat

import (
	"context"
	"testing"
	"time"

	"sensewear-go/bus"
	"sensewear-go/types"
)

func TestHeartbeat_PublishesRetainedState(t *testing.T) {
	b := bus.NewBus(16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &Service{}
	if err := s.Start(ctx, b.NewConnection("heartbeat")); err != nil {
		t.Fatalf("start: %v", err)
	}

	conn := b.NewConnection("observer")
	defer conn.Disconnect()

	sub := conn.Subscribe(bus.T("heartbeat", "state"))
	select {
	case m := <-sub.Channel():
		st, ok := m.Payload.(types.ServiceState)
		if !ok {
			t.Fatalf("unexpected payload %T", m.Payload)
		}
		if st.Level != "ready" || st.TS == 0 {
			t.Fatalf("unexpected state %+v", st)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no heartbeat")
	}
}

func TestHeartbeat_StopsWithContext(t *testing.T) {
	b := bus.NewBus(16)
	ctx, cancel := context.WithCancel(context.Background())

	s := &Service{}
	_ = s.Start(ctx, b.NewConnection("heartbeat"))
	time.Sleep(20 * time.Millisecond)
	cancel()
	time.Sleep(50 * time.Millisecond)

	conn := b.NewConnection("observer")
	defer conn.Disconnect()
	sub := conn.Subscribe(bus.T("heartbeat", "state"))
	select {
	case m := <-sub.Channel():
		st := m.Payload.(types.ServiceState)
		if st.Level != "stopped" {
			t.Fatalf("level = %q, want stopped", st.Level)
		}
	case <-time.After(time.Second):
		t.Fatal("no retained state after stop")
	}
}
