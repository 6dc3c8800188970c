package types

import (
	"math/big"

	big2 "github.com/filecoin-project/go-state-types/big"
)

type BigInt = big2.Int

var EmptyInt = BigInt{}

func NewInt(i uint64) BigInt {
	return BigInt{Int: big.NewInt(0).SetUint64(i)}
}

func BigFromString(s string) (BigInt, error) {
	return big2.FromString(s)
}

func BigAdd(a, b BigInt) BigInt {
	return big2.Add(OrZero(a), OrZero(b))
}

func BigSub(a, b BigInt) BigInt {
	return big2.Sub(OrZero(a), OrZero(b))
}

func BigCmp(a, b BigInt) int {
	return big2.Cmp(OrZero(a), OrZero(b))
}

// OrZero returns zero for a nil BigInt, which is what decoding an absent
// JSON field produces.
func OrZero(b BigInt) BigInt {
	if b.Int == nil {
		return big2.Zero()
	}
	return b
}
