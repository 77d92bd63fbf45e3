package maskedaes

import "testing"

func TestInvShiftRowsIsPermutation(t *testing.T) {
	var s State
	for i := range s {
		s[i] = byte(i)
	}
	invShiftRows(&s)
	seen := make(map[byte]bool, 16)
	for _, b := range s {
		if seen[b] {
			t.Fatalf("invShiftRows lost a byte: result %v is not a permutation of 0..15", s)
		}
		seen[b] = true
	}
}

func TestInvShiftRowsRow0Unchanged(t *testing.T) {
	var s State
	for i := range s {
		s[i] = byte(i)
	}
	invShiftRows(&s)
	for col := 0; col < 4; col++ {
		if s[4*col] != byte(4*col) {
			t.Fatalf("row 0 must be unshifted, got %v", s)
		}
	}
}

func TestAddRoundKeyIsInvolution(t *testing.T) {
	s := State{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	orig := s
	rk := [16]byte{0xaa, 0xbb, 0xcc, 0xdd, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	addRoundKey(&s, rk)
	addRoundKey(&s, rk)
	if s != orig {
		t.Fatalf("addRoundKey applied twice should be identity, got %v want %v", s, orig)
	}
}
