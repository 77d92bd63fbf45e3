package maskedaes

// invMixCoeffs is the InvMixColumns matrix, one row of GF(2^8)
// coefficients per output byte of a column.
var invMixCoeffs = [4][4]byte{
	{0x0e, 0x0b, 0x0d, 0x09},
	{0x09, 0x0e, 0x0b, 0x0d},
	{0x0d, 0x09, 0x0e, 0x0b},
	{0x0b, 0x0d, 0x09, 0x0e},
}

// invMixColumnsPlain applies the standard (unmasked) InvMixColumns
// transform to every column of s.
func invMixColumnsPlain(s *State) {
	for col := 0; col < 4; col++ {
		base := 4 * col
		a := [4]byte{s[base], s[base+1], s[base+2], s[base+3]}
		for row := 0; row < 4; row++ {
			c := invMixCoeffs[row]
			s[base+row] = gmul(a[0], c[0]) ^ gmul(a[1], c[1]) ^ gmul(a[2], c[2]) ^ gmul(a[3], c[3])
		}
	}
}

// invMixColumnsMasked applies InvMixColumns to a state whose four rows
// are currently masked row-wise by rowMasks (spec.md §4.7: "a column
// input masked row-wise by (m3,m4,m5,m6)"), and leaves the state masked
// uniformly by outMask afterwards ("produces an output row-wise masked
// by (m1,m1,m1,m1)").
//
// GF(2^8) multiplication by a fixed constant is linear, so it commutes
// with XOR: mixColumns(true ⊕ mask) = mixColumns(true) ⊕ mixColumns(mask).
// mixColumns(mask) is computable directly because the mask bytes are
// known to the routine even though the true state bytes never are, so
// the routine can XOR that known contribution back out and XOR the
// target mask in, without ever holding an unmasked byte. m7 and m8
// additionally blind the four GF products of each output byte (m7 the
// first two, m8 the last two); they cancel out when each pair is
// summed.
func invMixColumnsMasked(s *State, rowMasks [4]byte, outMask, m7, m8 byte) {
	for col := 0; col < 4; col++ {
		base := 4 * col
		a := [4]byte{s[base], s[base+1], s[base+2], s[base+3]}
		for row := 0; row < 4; row++ {
			c := invMixCoeffs[row]
			p0 := gmul(a[0], c[0]) ^ m7
			p1 := gmul(a[1], c[1]) ^ m7
			p2 := gmul(a[2], c[2]) ^ m8
			p3 := gmul(a[3], c[3]) ^ m8
			raw := p0 ^ p1 ^ p2 ^ p3 // m7, m8 cancel pairwise

			maskOut := gmul(rowMasks[0], c[0]) ^ gmul(rowMasks[1], c[1]) ^
				gmul(rowMasks[2], c[2]) ^ gmul(rowMasks[3], c[3])
			s[base+row] = raw ^ maskOut ^ outMask
		}
	}
}
