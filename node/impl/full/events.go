package full

import (
	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"

	"github.com/billyjitsu/liquidation-fairy/chain/types"
)

// Journal payloads of accepted transitions.

type ProposalEvt struct {
	Index  uint64
	Signer address.Address
	Op     *types.Operation `json:",omitempty"`

	Confirmations int
	Return        []byte `json:",omitempty"`
}

type GrantEvt struct {
	Grant  types.GrantKey
	Signer address.Address

	DailyLimit    abi.TokenAmount `json:",omitempty"`
	Confirmations int
	Active        bool
	Revoked       bool
}

type TransferEvt struct {
	Grant  types.GrantKey
	To     address.Address
	Amount abi.TokenAmount
	Spent  abi.TokenAmount
}

type FundEvt struct {
	Asset   address.Address
	Amount  abi.TokenAmount
	Balance abi.TokenAmount
}
