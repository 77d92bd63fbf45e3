package maskedaes

import (
	"encoding/hex"
	"testing"

	"github.com/ermin-sakic/smartcard-aes-fw/entropy"
)

func mustHex16(t *testing.T, s string) [16]byte {
	t.Helper()
	raw, err := hex.DecodeString(s)
	if err != nil {
		t.Fatal(err)
	}
	var out [16]byte
	if len(raw) != len(out) {
		t.Fatalf("want 16 bytes, got %d", len(raw))
	}
	copy(out[:], raw)
	return out
}

// TestInvAES128PlainKnownAnswer checks the unmasked reference cipher
// against the FIPS-197 appendix C.1 AES-128 known-answer vector.
func TestInvAES128PlainKnownAnswer(t *testing.T) {
	key := mustHex16(t, "000102030405060708090a0b0c0d0e0f")
	plaintext := mustHex16(t, "00112233445566778899aabbccddeeff")
	ciphertext := mustHex16(t, "69c4e0d86a7b0430d8cdb78070b4c55a")

	rk := ExpandKey128(key)
	got := InvAES128Plain(ciphertext, rk)
	if got != State(plaintext) {
		t.Fatalf("InvAES128Plain = %x, want %x", got, plaintext)
	}
}

// TestInvAES128MaskedMatchesPlain is Testable Property 4: the masked
// core must compute the same function as the unmasked reference, for
// any entropy stream.
func TestInvAES128MaskedMatchesPlain(t *testing.T) {
	cases := []struct {
		name string
		key  [16]byte
		ct   [16]byte
		seed uint64
	}{
		{"zero key, zero block", [16]byte{}, [16]byte{}, 1},
		{"known-answer vector", mustHex16(t, "000102030405060708090a0b0c0d0e0f"), mustHex16(t, "69c4e0d86a7b0430d8cdb78070b4c55a"), 2},
		{"all-ff key and block", [16]byte{
			0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
			0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		}, [16]byte{
			0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
			0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		}, 3},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rk := ExpandKey128(c.key)
			want := InvAES128Plain(c.ct, rk)
			got := InvAES128Masked(c.ct, rk, entropy.NewSeeded(c.seed))
			if got != want {
				t.Fatalf("masked = %x, plain = %x", got, want)
			}
		})
	}
}

// TestInvAES128MaskedDeterministicPerStream re-confirms that the same
// entropy stream always produces the same mask/shuffle draws, and
// hence the same result.
func TestInvAES128MaskedDeterministicPerStream(t *testing.T) {
	key := mustHex16(t, "000102030405060708090a0b0c0d0e0f")
	ct := mustHex16(t, "69c4e0d86a7b0430d8cdb78070b4c55a")
	rk := ExpandKey128(key)

	a := InvAES128Masked(ct, rk, entropy.NewSeeded(42))
	b := InvAES128Masked(ct, rk, entropy.NewSeeded(42))
	if a != b {
		t.Fatalf("same seed produced different results: %x vs %x", a, b)
	}
}
