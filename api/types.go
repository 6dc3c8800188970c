package api

import (
	"time"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"

	"github.com/billyjitsu/liquidation-fairy/build"
	"github.com/billyjitsu/liquidation-fairy/chain/types"
)

type APIVersion struct {
	Version string

	// APIVersion is a binary encoded semver version of the remote implementing
	// this api
	//
	// See APIVersion in build/version.go
	APIVersion build.Version
}

func (v APIVersion) String() string {
	return v.Version + "+api" + v.APIVersion.String()
}

// Transaction is the API view of a proposal.
type Transaction struct {
	Index uint64

	To     address.Address
	Value  abi.TokenAmount
	Method abi.MethodNum
	Params []byte
	Op     types.Operation

	Proposer         address.Address
	Confirmations    []address.Address
	NumConfirmations uint64
	Executed         bool
	CanExecute       bool

	SubmittedAt time.Time
	ExecutedAt  time.Time
	Return      []byte
}

func NewTransaction(p *types.Proposal, threshold uint64) *Transaction {
	return &Transaction{
		Index:            p.Index,
		To:               p.Op.Target,
		Value:            types.OrZero(p.Op.Value),
		Method:           p.Op.Method,
		Params:           p.Op.Params,
		Op:               p.Op,
		Proposer:         p.Proposer,
		Confirmations:    p.Confirmations,
		NumConfirmations: uint64(len(p.Confirmations)),
		Executed:         p.Executed,
		CanExecute:       !p.Executed && uint64(len(p.Confirmations)) >= threshold,
		SubmittedAt:      p.SubmittedAt,
		ExecutedAt:       p.ExecutedAt,
		Return:           p.Return,
	}
}

type WalletInfo struct {
	Address          address.Address
	Signers          []address.Address
	Threshold        uint64
	RevocationPolicy types.RevocationPolicy
	StateVersion     uint64
	TransactionCount uint64
	NativeBalance    abi.TokenAmount
}
