package mathx

import "testing"

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 10); got != 5 {
		t.Fatalf("Clamp(5,0,10) = %d", got)
	}
	if got := Clamp(-3, 0, 10); got != 0 {
		t.Fatalf("Clamp(-3,0,10) = %d", got)
	}
	if got := Clamp(42, 0, 10); got != 10 {
		t.Fatalf("Clamp(42,0,10) = %d", got)
	}
	// Swapped bounds normalise.
	if got := Clamp(42, 10, 0); got != 10 {
		t.Fatalf("Clamp(42,10,0) = %d", got)
	}
}

func TestBetween(t *testing.T) {
	if !Between(0, 0, 3) || !Between(3, 0, 3) || Between(4, 0, 3) {
		t.Fatal("Between boundary behaviour")
	}
	if !Between(2, 3, 0) {
		t.Fatal("Between with swapped bounds")
	}
}
