package speech

import (
	"strings"
	"testing"
	"time"

	"sensewear-go/errcode"
	"sensewear-go/types"
)

type fakePort struct {
	wrote []byte
	rx    []byte
}

func (f *fakePort) Write(p []byte) (int, error) {
	f.wrote = append(f.wrote, p...)
	return len(p), nil
}

func (f *fakePort) TryRead(p []byte) (int, error) {
	n := copy(p, f.rx)
	f.rx = f.rx[n:]
	return n, nil
}

func newTestDevice(t *testing.T) (*Device, *fakePort) {
	t.Helper()
	f := &fakePort{}
	d, err := New(f, types.SpeechConfig{UART: "uart0", RateWPM: 200})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return d, f
}

func TestSay_BusyUntilDeadline(t *testing.T) {
	d, f := newTestDevice(t)
	d.estimate = func(string) time.Duration { return 40 * time.Millisecond }

	if err := d.Say("red"); err != nil {
		t.Fatalf("say: %v", err)
	}
	if !d.InFlight() {
		t.Fatal("utterance should be in flight")
	}
	if err := d.Say("green"); errcode.Of(err) != errcode.Busy {
		t.Fatalf("expected busy, got %v", err)
	}

	time.Sleep(60 * time.Millisecond)
	if d.InFlight() {
		t.Fatal("estimate deadline should have cleared in-flight")
	}
	// Even with no prompt ever received the device recovers.
	if err := d.Say("green"); err != nil {
		t.Fatalf("say after deadline: %v", err)
	}
	if !strings.Contains(string(f.wrote), "Sgreen\n") {
		t.Fatalf("recovered utterance not written: %q", f.wrote)
	}
}

func TestInFlight_PromptClearsEarly(t *testing.T) {
	d, f := newTestDevice(t)
	d.estimate = func(string) time.Duration { return time.Hour }

	if err := d.Say("blue"); err != nil {
		t.Fatalf("say: %v", err)
	}
	if !d.InFlight() {
		t.Fatal("utterance should be in flight")
	}
	f.rx = []byte{':'}
	if d.InFlight() {
		t.Fatal("ready prompt should clear in-flight")
	}
}
