package maskedaes

import (
	"testing"

	"github.com/ermin-sakic/smartcard-aes-fw/entropy"
)

func TestNewShuffleOrderIsPermutation(t *testing.T) {
	order := newShuffleOrder(entropy.NewSeeded(99))
	seen := make(map[int]bool, 16)
	for _, idx := range order {
		if idx < 0 || idx > 15 {
			t.Fatalf("index %d out of range", idx)
		}
		if seen[idx] {
			t.Fatalf("index %d repeated in shuffle order %v", idx, order)
		}
		seen[idx] = true
	}
}

func TestNewShuffleOrderVariesBySeed(t *testing.T) {
	a := newShuffleOrder(entropy.NewSeeded(1))
	b := newShuffleOrder(entropy.NewSeeded(2))
	if a == b {
		t.Fatal("two different seeds produced the same shuffle order")
	}
}
