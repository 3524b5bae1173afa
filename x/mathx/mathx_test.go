package mathx

import "testing"

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Fatalf("Clamp(5,0,3) = %d", got)
	}
	if got := Clamp(-1, 0, 3); got != 0 {
		t.Fatalf("Clamp(-1,0,3) = %d", got)
	}
	// Swapped bounds.
	if got := Clamp(5, 3, 0); got != 3 {
		t.Fatalf("Clamp(5,3,0) = %d", got)
	}
}

func TestCeilDiv(t *testing.T) {
	if got := CeilDiv(30, 100); got != 1 {
		t.Fatalf("CeilDiv(30,100) = %d", got)
	}
	if got := CeilDiv(200, 100); got != 2 {
		t.Fatalf("CeilDiv(200,100) = %d", got)
	}
	if got := CeilDiv(1, 0); got != 0 {
		t.Fatalf("CeilDiv(1,0) = %d", got)
	}
}

func TestMapI32(t *testing.T) {
	// Increasing out range.
	if got := MapI32(50, 0, 100, 0, 1000); got != 500 {
		t.Fatalf("mid map = %d", got)
	}
	// Inverted out range (closer => smaller output).
	if got := MapI32(0, 0, 100, 1000, 0); got != 1000 {
		t.Fatalf("low end inverted = %d", got)
	}
	if got := MapI32(100, 0, 100, 1000, 0); got != 0 {
		t.Fatalf("high end inverted = %d", got)
	}
	// Out-of-range input clamps.
	if got := MapI32(-5, 0, 100, 0, 1000); got != 0 {
		t.Fatalf("clamp low = %d", got)
	}
	if got := MapI32(205, 0, 100, 0, 1000); got != 1000 {
		t.Fatalf("clamp high = %d", got)
	}
}

func TestMapI32_Monotonic(t *testing.T) {
	prev := MapI32(0, 0, 1500, 70, 1250)
	for x := int32(1); x <= 1500; x += 7 {
		cur := MapI32(x, 0, 1500, 70, 1250)
		if cur < prev {
			t.Fatalf("not monotonic at %d: %d < %d", x, cur, prev)
		}
		prev = cur
	}
}
