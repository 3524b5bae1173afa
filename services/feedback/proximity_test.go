package feedback

import (
	"testing"

	"sensewear-go/types"
)

func TestEvaluate_Bands(t *testing.T) {
	cases := []struct {
		dist int32
		band ProximityBand
	}{
		{types.NoEchoMM, BandFar},
		{2000, BandFar},
		{1501, BandFar},
		{1500, BandNear},
		{600, BandNear},
		{300, BandNear},
		{299, BandImmediate},
		{50, BandImmediate},
		{49, BandImmediate},
	}
	for _, c := range cases {
		band, _ := Evaluate(c.dist)
		if band != c.band {
			t.Errorf("dist %d: band %v, want %v", c.dist, band, c.band)
		}
	}
}

func TestEvaluate_CadenceShrinksWithDistance(t *testing.T) {
	_, far := Evaluate(1500)
	_, mid := Evaluate(600)
	_, close := Evaluate(100)
	_, closest := Evaluate(MinRangeMM)
	if far.PeriodMs != MaxPeriodMs {
		t.Fatalf("period at 1500 mm = %d, want %d", far.PeriodMs, MaxPeriodMs)
	}
	if closest.PeriodMs != MinPeriodMs {
		t.Fatalf("period at %d mm = %d, want %d", MinRangeMM, closest.PeriodMs, MinPeriodMs)
	}
	if !(close.PeriodMs < mid.PeriodMs && mid.PeriodMs < far.PeriodMs) {
		t.Fatalf("cadence not monotonic: %d, %d, %d", close.PeriodMs, mid.PeriodMs, far.PeriodMs)
	}
	if close.PeriodMs < MinPeriodMs {
		t.Fatalf("period %d below floor", close.PeriodMs)
	}
}

func TestEvaluate_ContactIsContinuous(t *testing.T) {
	_, v := Evaluate(30)
	if !v.Continuous {
		t.Fatal("inside the contact range the tone must be continuous")
	}
}

func TestEvaluate_NoEchoIsOpenSpace(t *testing.T) {
	band, v := Evaluate(types.NoEchoMM)
	if band != BandFar || v.Continuous {
		t.Fatalf("no echo: band %v value %+v", band, v)
	}
}
