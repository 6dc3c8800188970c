package mock

import (
	"github.com/filecoin-project/go-address"

	"github.com/billyjitsu/liquidation-fairy/chain/types"
)

func Address(i uint64) address.Address {
	a, err := address.NewIDAddress(i)
	if err != nil {
		panic(err)
	}
	return a
}

// WalletParams builds params for a wallet at t0100 controlled by n signers
// t01000..t0100(n-1), requiring threshold of them.
func WalletParams(n int, threshold uint64, policy types.RevocationPolicy) (types.WalletParams, []address.Address) {
	signers := make([]address.Address, n)
	for i := range signers {
		signers[i] = Address(1000 + uint64(i))
	}
	ss, err := types.NewSignerSet(signers, threshold)
	if err != nil {
		panic(err)
	}
	return types.WalletParams{
		Address: Address(100),
		Signers: ss,
		Policy:  policy,
	}, signers
}
