package feedback

import "testing"

func feed(t *Toggle, samples ...bool) int {
	flips := 0
	for _, p := range samples {
		if t.OnSample(p) {
			flips++
		}
	}
	return flips
}

func TestToggle_FiresOnceOnConfirmedPress(t *testing.T) {
	tg := NewToggle(1, false)
	if tg.OnSample(true) {
		t.Fatal("flipped on first sample")
	}
	if !tg.OnSample(true) {
		t.Fatal("no flip on second consecutive sample")
	}
	if !tg.Enabled() {
		t.Fatal("state did not flip")
	}
	// Holding the button must not re-fire.
	if feed(tg, true, true, true, true) != 0 {
		t.Fatal("re-fired while held")
	}
}

func TestToggle_ReleaseRearms(t *testing.T) {
	tg := NewToggle(1, false)
	feed(tg, true, true) // on
	feed(tg, false, false)
	if feed(tg, true, true) != 1 {
		t.Fatal("no flip after confirmed release")
	}
	if tg.Enabled() {
		t.Fatal("second press should toggle back off")
	}
}

func TestToggle_BounceIsIgnored(t *testing.T) {
	tg := NewToggle(1, false)
	if feed(tg, true, false, true, false, true, false) != 0 {
		t.Fatal("bounce produced a flip")
	}
	if tg.Enabled() {
		t.Fatal("bounce changed state")
	}
}

func TestToggle_BriefReleaseDoesNotRearm(t *testing.T) {
	tg := NewToggle(1, false)
	feed(tg, true, true) // on
	// One released sample is bounce, not a release.
	if feed(tg, false, true, true) != 0 {
		t.Fatal("bounce during hold re-fired")
	}
}

func TestToggle_Set(t *testing.T) {
	tg := NewToggle(1, false)
	tg.Set(true)
	if !tg.Enabled() {
		t.Fatal("Set did not apply")
	}
}
