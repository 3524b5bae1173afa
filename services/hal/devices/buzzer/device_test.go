package buzzer

import (
	"context"
	"sync"
	"testing"
	"time"

	"sensewear-go/types"
)

type fakeTone struct {
	mu     sync.Mutex
	on     bool
	starts int
	stops  int
}

func (f *fakeTone) Start(freqHz uint32) error {
	f.mu.Lock()
	f.on = true
	f.starts++
	f.mu.Unlock()
	return nil
}

func (f *fakeTone) Stop() {
	f.mu.Lock()
	f.on = false
	f.stops++
	f.mu.Unlock()
}

func (f *fakeTone) snapshot() (on bool, starts, stops int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.on, f.starts, f.stops
}

func startWorker(t *testing.T, f *fakeTone) (*Device, context.CancelFunc) {
	t.Helper()
	d := New(f, 27, 440)
	ctx, cancel := context.WithCancel(context.Background())
	go d.Run(ctx)
	return d, cancel
}

func TestContinuous_StaysOn(t *testing.T) {
	f := &fakeTone{}
	d, cancel := startWorker(t, f)
	defer cancel()

	d.Set(types.BuzzerValue{Continuous: true})
	time.Sleep(150 * time.Millisecond)

	on, starts, _ := f.snapshot()
	if !on {
		t.Fatal("tone should be on")
	}
	if starts != 1 {
		t.Fatalf("continuous mode restarted the tone %d times", starts)
	}
}

func TestBeep_AlternatesWithPeriod(t *testing.T) {
	f := &fakeTone{}
	d, cancel := startWorker(t, f)
	defer cancel()

	d.Set(types.BuzzerValue{PeriodMs: 150})
	time.Sleep(500 * time.Millisecond)

	_, starts, stops := f.snapshot()
	if starts < 2 || stops < 1 {
		t.Fatalf("expected a beep pattern, got starts=%d stops=%d", starts, stops)
	}
}

func TestOff_Silences(t *testing.T) {
	f := &fakeTone{}
	d, cancel := startWorker(t, f)
	defer cancel()

	d.Set(types.BuzzerValue{Continuous: true})
	time.Sleep(50 * time.Millisecond)
	d.Off()
	time.Sleep(50 * time.Millisecond)

	if on, _, _ := f.snapshot(); on {
		t.Fatal("tone should be off")
	}
}

func TestSet_SamePatternIsIdempotent(t *testing.T) {
	f := &fakeTone{}
	d, cancel := startWorker(t, f)
	defer cancel()

	d.Set(types.BuzzerValue{Continuous: true})
	time.Sleep(50 * time.Millisecond)
	for i := 0; i < 10; i++ {
		d.Set(types.BuzzerValue{Continuous: true})
	}
	time.Sleep(50 * time.Millisecond)

	if _, starts, _ := f.snapshot(); starts != 1 {
		t.Fatalf("re-posting the same pattern restarted the tone %d times", starts)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	f := &fakeTone{}
	d, cancel := startWorker(t, f)

	d.Set(types.BuzzerValue{Continuous: true})
	time.Sleep(50 * time.Millisecond)
	cancel()
	time.Sleep(50 * time.Millisecond)

	if on, _, _ := f.snapshot(); on {
		t.Fatal("tone should be stopped after cancel")
	}
}
