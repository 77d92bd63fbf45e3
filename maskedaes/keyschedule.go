package maskedaes

// RoundKeys holds the eleven 16-byte round keys rk[0..10] the round
// schedule in §4.7 consumes. The key expansion itself is not masked:
// the key is considered equally sensitive as the State, and spec.md §9
// records that trade-off as an open design question rather than a gap
// this implementation silently papers over.
type RoundKeys [11][16]byte

// ExpandKey128 derives the eleven AES-128 round keys from a 16-byte
// key, following the standard Rijndael key schedule (FIPS-197 §5.2).
func ExpandKey128(key [16]byte) RoundKeys {
	const nk, nr = 4, 10
	var w [4 * (nr + 1)][4]byte
	for i := 0; i < nk; i++ {
		copy(w[i][:], key[4*i:4*i+4])
	}
	for i := nk; i < len(w); i++ {
		temp := w[i-1]
		if i%nk == 0 {
			temp = subWord(rotWord(temp))
			temp[0] ^= rcon[i/nk]
		}
		for j := range w[i] {
			w[i][j] = w[i-nk][j] ^ temp[j]
		}
	}
	var rk RoundKeys
	for round := 0; round <= nr; round++ {
		for word := 0; word < nk; word++ {
			copy(rk[round][4*word:4*word+4], w[round*nk+word][:])
		}
	}
	return rk
}

func rotWord(w [4]byte) [4]byte {
	return [4]byte{w[1], w[2], w[3], w[0]}
}

func subWord(w [4]byte) [4]byte {
	for i := range w {
		w[i] = sbox[w[i]]
	}
	return w
}
