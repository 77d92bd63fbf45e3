// Package maskedaes implements the side-channel-hardened inverse
// AES-128 core: a decryption routine where every intermediate State
// byte is Boolean-masked and the sixteen byte-wise inverse-S-box
// look-ups of each round run in a freshly randomised order, to defeat
// first-order DPA and simple timing attacks (spec.md §4.7).
package maskedaes

import "github.com/ermin-sakic/smartcard-aes-fw/entropy"

// InvAES128Masked decrypts one 16-byte block under the round keys in
// rk, following the round schedule of spec.md §4.7. A fresh MaskSet and
// a fresh ShuffleOrder per round are drawn from src; the unmasked State
// bytes never appear in memory: every step operates on state[i] ⊕
// mask_at_stage, and that invariant is only lifted by the final
// remask(State, 0).
func InvAES128Masked(ciphertext [16]byte, rk RoundKeys, src entropy.Source) [16]byte {
	ms := NewMaskSet(src)
	state := State(ciphertext)

	// remask(State, m1): apply the input mask.
	for i := range state {
		state[i] ^= ms.M1
	}
	mask := ms.M1

	// AddRoundKey_masked(State, rk[10]): no mask shift needed, the
	// next step is InvShiftRows (mask-safe) followed by InvSubBytes,
	// which expects exactly the mask already in place (m1).
	addRoundKey(&state, rk[10])

	rows := ms.rowMasks()
	for r := 9; r >= 1; r-- {
		invShiftRows(&state)

		table := maskedInvSbox(mask, ms.M2)
		subBytesMaskedRand(&state, table, src)
		mask = ms.M2

		// AddRoundKey_masked(State, rk[r]): XOR the round key while
		// shifting the mask from the uniform m2 SubBytes left it with
		// to the per-row (m3,m4,m5,m6) inv_mixColumns_masked expects.
		for row := 0; row < 4; row++ {
			corr := mask ^ rows[row]
			for col := 0; col < 4; col++ {
				idx := row + 4*col
				state[idx] ^= rk[r][idx] ^ corr
			}
		}

		invMixColumnsMasked(&state, rows, ms.M1, ms.M7, ms.M8)
		mask = ms.M1
	}

	invShiftRows(&state)
	table := maskedInvSbox(mask, ms.M2)
	subBytesMaskedRand(&state, table, src)
	mask = ms.M2

	addRoundKey(&state, rk[0])

	// remask(State, 0): strip the final mask.
	for i := range state {
		state[i] ^= mask
	}
	return state
}

// subBytesMaskedRand applies table to the sixteen state bytes in an
// order drawn fresh from src, rather than position order, so the
// temporal position touching any given byte varies from invocation to
// invocation.
func subBytesMaskedRand(s *State, table [256]byte, src entropy.Source) {
	order := newShuffleOrder(src)
	for _, idx := range order {
		s[idx] = table[s[idx]]
	}
}

// InvAES128Plain is the unmasked reference AES-128 decryption (the
// standard, non-equivalent InvCipher of FIPS-197 §5.3), used to verify
// the masked core computes the same function (spec.md §8 property 4).
func InvAES128Plain(ciphertext [16]byte, rk RoundKeys) [16]byte {
	state := State(ciphertext)
	addRoundKey(&state, rk[10])
	for r := 9; r >= 1; r-- {
		invShiftRows(&state)
		for i := range state {
			state[i] = invSbox[state[i]]
		}
		addRoundKey(&state, rk[r])
		invMixColumnsPlain(&state)
	}
	invShiftRows(&state)
	for i := range state {
		state[i] = invSbox[state[i]]
	}
	addRoundKey(&state, rk[0])
	return state
}
