package hashutil

import "testing"

func TestMurmur3Deterministic(t *testing.T) {
	a := Murmur3([]byte("the quick brown fox"))
	b := Murmur3([]byte("the quick brown fox"))
	if a != b {
		t.Fatalf("Murmur3 not deterministic: %d != %d", a, b)
	}
}

func TestMurmur3DiffersOnInput(t *testing.T) {
	a := Murmur3([]byte("pipeline-state-a"))
	b := Murmur3([]byte("pipeline-state-b"))
	if a == b {
		t.Fatalf("distinct inputs hashed to the same value")
	}
}

func TestCombineOrderSensitive(t *testing.T) {
	h1 := Combine(Combine(0, 1), 2)
	h2 := Combine(Combine(0, 2), 1)
	if h1 == h2 {
		t.Fatalf("Combine should be order-sensitive")
	}
}
