package tcs34725

import (
	"errors"
	"testing"
	"time"
)

// fakeI2C emulates just enough of the register file for driver tests.
type fakeI2C struct {
	regs  map[byte]byte
	cdata [8]byte
	fail  error
}

func newFakeI2C() *fakeI2C {
	return &fakeI2C{regs: map[byte]byte{regID: idTCS34725}}
}

func (f *fakeI2C) Tx(addr uint16, w, r []byte) error {
	if f.fail != nil {
		return f.fail
	}
	if addr != Address {
		return errors.New("wrong address")
	}
	switch {
	case len(w) == 2 && len(r) == 0:
		f.regs[w[0]&0x1F] = w[1]
		return nil
	case len(w) == 1 && len(r) == 8 && w[0]&0x1F == regCDat:
		copy(r, f.cdata[:])
		return nil
	case len(w) == 1 && len(r) == 1:
		r[0] = f.regs[w[0]&0x1F]
		return nil
	}
	return errors.New("unexpected transaction")
}

func (f *fakeI2C) setSample(c, rr, g, b uint16) {
	f.regs[regStat] = statAVALID
	put := func(i int, v uint16) {
		f.cdata[i] = byte(v)
		f.cdata[i+1] = byte(v >> 8)
	}
	put(0, c)
	put(2, rr)
	put(4, g)
	put(6, b)
}

func TestConfigure_BadID(t *testing.T) {
	f := newFakeI2C()
	f.regs[regID] = 0x12
	d := New(f)
	if err := d.Configure(); err != ErrBadID {
		t.Fatalf("expected ErrBadID, got %v", err)
	}
}

func TestConfigure_SetsTimingAndGain(t *testing.T) {
	f := newFakeI2C()
	d := New(f)
	err := d.Configure(Config{IntegrationTime: 50 * time.Millisecond, Gain: Gain4x})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	// 50 ms / 2.4 ms = 20 steps -> ATIME 236.
	if got := f.regs[regAT]; got != 236 {
		t.Fatalf("ATIME = %d, want 236", got)
	}
	if got := f.regs[regCtrl]; got != byte(Gain4x) {
		t.Fatalf("CONTROL = %d, want %d", got, Gain4x)
	}
}

func TestCollect_NotReady(t *testing.T) {
	f := newFakeI2C()
	d := New(f)
	if err := d.Configure(); err != nil {
		t.Fatalf("configure: %v", err)
	}
	var s Sample
	if err := d.Collect(&s); err != ErrNotReady {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestRead_Sample(t *testing.T) {
	f := newFakeI2C()
	f.setSample(240, 200, 20, 20)
	d := New(f)
	if err := d.Configure(Config{PollInterval: time.Millisecond, CollectTimeout: 50 * time.Millisecond}); err != nil {
		t.Fatalf("configure: %v", err)
	}
	var s Sample
	if err := d.Read(&s); err != nil {
		t.Fatalf("read: %v", err)
	}
	if s.Clear != 240 || s.R != 200 || s.G != 20 || s.B != 20 {
		t.Fatalf("unexpected sample: %+v", s)
	}
	// Engine must be enabled (PON|AEN).
	if f.regs[regEn] != enPON|enAEN {
		t.Fatalf("enable reg = %#x", f.regs[regEn])
	}
}

func TestRead_BusError(t *testing.T) {
	f := newFakeI2C()
	d := New(f)
	if err := d.Configure(); err != nil {
		t.Fatalf("configure: %v", err)
	}
	f.fail = errors.New("bus stuck")
	var s Sample
	if err := d.Read(&s); err == nil {
		t.Fatal("expected bus error")
	}
}
