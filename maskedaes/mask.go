package maskedaes

import "github.com/ermin-sakic/smartcard-aes-fw/entropy"

// MaskSet holds the eight independent byte masks drawn fresh from
// Entropy at the start of every invocation (spec.md §3, §4.7):
//
//   - M1 masks the State uniformly on entry, and is the mask every
//     inv_mixColumns_masked step restores the running state to.
//   - M2 is the output mask of the masked inverse S-box, and therefore
//     the mask the state carries into AddRoundKey_masked.
//   - M3..M6 are the per-row masks AddRoundKey_masked shifts the state
//     to before each inv_mixColumns_masked call, one per row.
//   - M7, M8 blind the individual GF(2^8) products formed while
//     computing inv_mixColumns_masked (M7 the first pair, M8 the
//     second); each cancels out when its pair is summed.
type MaskSet struct {
	M1, M2, M3, M4, M5, M6, M7, M8 byte
}

// NewMaskSet draws a fresh MaskSet from src. Called once per AES
// invocation.
func NewMaskSet(src entropy.Source) MaskSet {
	return MaskSet{
		M1: src.NextByte(),
		M2: src.NextByte(),
		M3: src.NextByte(),
		M4: src.NextByte(),
		M5: src.NextByte(),
		M6: src.NextByte(),
		M7: src.NextByte(),
		M8: src.NextByte(),
	}
}

// rowMasks returns M3..M6 as a row-indexed array.
func (ms MaskSet) rowMasks() [4]byte {
	return [4]byte{ms.M3, ms.M4, ms.M5, ms.M6}
}

// maskedInvSbox is the 256-byte table equal to InvSbox(x ⊕ m_in) ⊕ m_out
// for the given input/output mask pair, recomputed once per AES
// invocation (spec.md §3, §4.7). The state byte supplied as a table
// index is never the unmasked value: it is always held masked by
// m_in, and the table itself never stores an unmasked intermediate.
func maskedInvSbox(mIn, mOut byte) [256]byte {
	var t [256]byte
	for x := 0; x < 256; x++ {
		t[x] = invSbox[byte(x)^mIn] ^ mOut
	}
	return t
}
