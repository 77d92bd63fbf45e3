package maskedaes

import "github.com/ermin-sakic/smartcard-aes-fw/entropy"

// ShuffleOrder is a permutation of {0..15}: the order in which
// inv_subBytes_masked_rand visits the sixteen State bytes. A fresh
// permutation is drawn for every round so the temporal position of the
// operation touching a given byte cannot be fixed by an attacker
// aligning power traces across invocations.
type ShuffleOrder [16]int

// newShuffleOrder draws a fresh permutation of {0..15} from src via
// Fisher-Yates: each swap consumes one fresh random byte reduced modulo
// the remaining range. Ranges that do not divide 256 carry a small
// modulo bias, so the permutation is not exactly uniform.
func newShuffleOrder(src entropy.Source) ShuffleOrder {
	var order ShuffleOrder
	for i := range order {
		order[i] = i
	}
	for i := len(order) - 1; i > 0; i-- {
		j := int(src.NextByte()) % (i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}
