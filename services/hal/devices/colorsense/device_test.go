package colorsense

import (
	"errors"
	"testing"
)

// fakeBus emulates the sensor's register file.
type fakeBus struct {
	regs map[byte]byte
	data [8]byte
	fail error
}

func newFakeBus() *fakeBus {
	return &fakeBus{regs: map[byte]byte{0x12: 0x44}}
}

func (f *fakeBus) Tx(addr uint16, w, r []byte) error {
	if f.fail != nil {
		return f.fail
	}
	switch {
	case len(w) == 2 && len(r) == 0:
		f.regs[w[0]&0x1F] = w[1]
	case len(w) == 1 && len(r) == 8:
		copy(r, f.data[:])
	case len(w) == 1 && len(r) == 1:
		r[0] = f.regs[w[0]&0x1F]
	}
	return nil
}

func (f *fakeBus) setSample(c, rr, g, b uint16) {
	f.regs[0x13] = 0x01 // AVALID
	put := func(i int, v uint16) {
		f.data[i] = byte(v)
		f.data[i+1] = byte(v >> 8)
	}
	put(0, c)
	put(2, rr)
	put(4, g)
	put(6, b)
}

func TestNew_ProbeFailure(t *testing.T) {
	f := newFakeBus()
	f.regs[0x12] = 0x00
	if _, err := New(f, "i2c0"); err == nil {
		t.Fatal("expected probe failure on wrong chip id")
	}
}

func TestReadRaw(t *testing.T) {
	f := newFakeBus()
	f.setSample(240, 200, 20, 20)
	d, err := New(f, "i2c0")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	raw, err := d.ReadRaw()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if raw.Clear != 240 || raw.R != 200 || raw.G != 20 || raw.B != 20 {
		t.Fatalf("unexpected sample: %+v", raw)
	}
}

func TestReadRaw_BusError(t *testing.T) {
	f := newFakeBus()
	f.setSample(240, 200, 20, 20)
	d, err := New(f, "i2c0")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	f.fail = errors.New("bus stuck")
	if _, err := d.ReadRaw(); err == nil {
		t.Fatal("expected read failure")
	}
}
