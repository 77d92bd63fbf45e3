package maskedaes

import "testing"

func TestExpandKey128FirstRoundKeyIsTheKey(t *testing.T) {
	key := [16]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	rk := ExpandKey128(key)
	if rk[0] != key {
		t.Fatalf("rk[0] = %v, want the original key %v", rk[0], key)
	}
}

func TestExpandKey128Deterministic(t *testing.T) {
	key := [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	a := ExpandKey128(key)
	b := ExpandKey128(key)
	if a != b {
		t.Fatal("ExpandKey128 is not a pure function of its input")
	}
}
