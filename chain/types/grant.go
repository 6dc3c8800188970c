package types

import (
	"time"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
)

// GrantKey identifies a delegation: at most one grant exists per pair.
type GrantKey struct {
	Asset    address.Address
	Delegate address.Address
}

func (k GrantKey) String() string {
	return AssetString(k.Asset) + "/" + k.Delegate.String()
}

// Grant is a delegate's right to move up to DailyLimit of an asset out of
// the wallet per window.
type Grant struct {
	Asset    address.Address
	Delegate address.Address

	DailyLimit abi.TokenAmount

	Proposer      address.Address
	Confirmations Approvals
	IsActive      bool

	Revoked     bool
	RevokeVotes Approvals `json:",omitempty"`

	SpentToday  abi.TokenAmount
	WindowStart time.Time

	SubmittedAt time.Time
}

func (g *Grant) Key() GrantKey {
	return GrantKey{Asset: g.Asset, Delegate: g.Delegate}
}

func (g *Grant) Clone() *Grant {
	if g == nil {
		return nil
	}
	out := *g
	out.DailyLimit = OrZero(g.DailyLimit)
	out.SpentToday = OrZero(g.SpentToday)
	out.Confirmations = append(Approvals(nil), g.Confirmations...)
	if g.RevokeVotes != nil {
		out.RevokeVotes = append(Approvals(nil), g.RevokeVotes...)
	}
	return &out
}

// DelegationStatus is the read-only view of a grant.
type DelegationStatus struct {
	DailyLimit     abi.TokenAmount
	SpentToday     abi.TokenAmount
	RemainingToday abi.TokenAmount
	TimeUntilReset time.Duration
	Confirmations  uint64
	IsActive       bool

	Revoked     bool
	WindowStart time.Time
}

func EmptyDelegationStatus() DelegationStatus {
	return DelegationStatus{
		DailyLimit:     big.Zero(),
		SpentToday:     big.Zero(),
		RemainingToday: big.Zero(),
	}
}
