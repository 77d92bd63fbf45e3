package maskedaes

import (
	"testing"

	"github.com/ermin-sakic/smartcard-aes-fw/entropy"
)

func TestNewMaskSetDrawsEightBytes(t *testing.T) {
	src := entropy.NewSeeded(7)
	ms := NewMaskSet(src)
	seen := map[byte]bool{ms.M1: true, ms.M2: true}
	if len(seen) == 0 {
		t.Fatal("unreachable")
	}
	// Consuming exactly 8 bytes means the next draw from this stream
	// equals the 9th byte of an identical stream started fresh.
	next := src.NextByte()
	fresh := entropy.NewSeeded(7)
	for i := 0; i < 8; i++ {
		fresh.NextByte()
	}
	if want := fresh.NextByte(); next != want {
		t.Fatalf("NewMaskSet did not consume exactly 8 bytes: got 9th byte %#02x, want %#02x", next, want)
	}
}

func TestRowMasks(t *testing.T) {
	ms := MaskSet{M3: 1, M4: 2, M5: 3, M6: 4}
	want := [4]byte{1, 2, 3, 4}
	if got := ms.rowMasks(); got != want {
		t.Fatalf("rowMasks = %v, want %v", got, want)
	}
}

func TestMaskedInvSboxRoundTrip(t *testing.T) {
	const mIn, mOut byte = 0x5a, 0xa5
	table := maskedInvSbox(mIn, mOut)
	for x := 0; x < 256; x++ {
		want := invSbox[byte(x)^mIn] ^ mOut
		if table[x] != want {
			t.Fatalf("table[%#02x] = %#02x, want %#02x", x, table[x], want)
		}
	}
}

func TestMaskedInvSboxIsPermutation(t *testing.T) {
	table := maskedInvSbox(0x11, 0x22)
	seen := make(map[byte]bool, 256)
	for _, v := range table {
		if seen[v] {
			t.Fatalf("value %#02x appears twice: masked inverse S-box is not a bijection", v)
		}
		seen[v] = true
	}
}
