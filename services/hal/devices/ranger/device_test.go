package ranger

import (
	"testing"

	"sensewear-go/types"
)

type fakeRanger struct{ mm int32 }

func (f *fakeRanger) ReadDistanceMM() int32 { return f.mm }

func TestReadDistanceMM(t *testing.T) {
	f := &fakeRanger{mm: 420}
	d := New(f, 17, 13)
	if got := d.ReadDistanceMM(); got != 420 {
		t.Fatalf("dist = %d, want 420", got)
	}
}

func TestReadDistanceMM_NoEcho(t *testing.T) {
	for _, raw := range []int32{0, -1} {
		f := &fakeRanger{mm: raw}
		d := New(f, 17, 13)
		if got := d.ReadDistanceMM(); got != types.NoEchoMM {
			t.Fatalf("raw %d: dist = %d, want NoEchoMM", raw, got)
		}
	}
}
