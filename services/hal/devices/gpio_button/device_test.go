package gpio_button

import (
	"testing"

	"sensewear-go/services/hal/core"
)

type fakePin struct {
	level bool
	pull  core.Pull
}

func (f *fakePin) ConfigureInput(pull core.Pull) error { f.pull = pull; return nil }
func (f *fakePin) ConfigureOutput(bool) error          { return nil }
func (f *fakePin) Set(level bool)                      { f.level = level }
func (f *fakePin) Get() bool                           { return f.level }
func (f *fakePin) Number() int                         { return 18 }

func TestPressed_ActiveLow(t *testing.T) {
	p := &fakePin{level: true} // pulled up, idle
	d, err := New(p, true)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if p.pull != core.PullUp {
		t.Fatal("pin not configured with pull-up")
	}
	if d.Pressed() {
		t.Fatal("idle high must read as released")
	}
	p.level = false
	if !d.Pressed() {
		t.Fatal("low must read as pressed")
	}
}

func TestPressed_ActiveHigh(t *testing.T) {
	p := &fakePin{}
	d, err := New(p, false)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if d.Pressed() {
		t.Fatal("idle low must read as released")
	}
	p.level = true
	if !d.Pressed() {
		t.Fatal("high must read as pressed")
	}
}
