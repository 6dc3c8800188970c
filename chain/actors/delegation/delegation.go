// Package delegation lets signers hand a non-signer the right to move a
// bounded amount of one asset out of the wallet per window, without a
// quorum vote on every transfer.
package delegation

import (
	"time"

	logging "github.com/ipfs/go-log/v2"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"

	"github.com/billyjitsu/liquidation-fairy/build"
	"github.com/billyjitsu/liquidation-fairy/chain/actors/aerrors"
	"github.com/billyjitsu/liquidation-fairy/chain/state"
	"github.com/billyjitsu/liquidation-fairy/chain/types"
)

var log = logging.Logger("delegation")

type Actor struct {
	window time.Duration
}

func NewActor() *Actor {
	return &Actor{window: build.DelegationWindow}
}

func (a *Actor) Window() time.Duration {
	return a.window
}

// SubmitGrant creates the grant for (asset, delegate), or replaces an
// existing one. A replaced grant goes back to pending, which is also how a
// limit is changed or a revoked grant reinstated.
func (a *Actor) SubmitGrant(st *state.State, now time.Time, proposer, asset, delegate address.Address, dailyLimit abi.TokenAmount) (*state.State, error) {
	if !st.Signers().IsSigner(proposer) {
		return st, aerrors.ErrNotAuthorizedSigner
	}
	dailyLimit = types.OrZero(dailyLimit)
	if dailyLimit.Sign() <= 0 {
		return st, aerrors.ErrInvalidDailyLimit
	}
	if delegate == address.Undef {
		return st, aerrors.ErrInvalidDelegateAddress
	}

	g := &types.Grant{
		Asset:         asset,
		Delegate:      delegate,
		DailyLimit:    dailyLimit,
		Proposer:      proposer,
		Confirmations: types.Approvals{proposer},
		SpentToday:    big.Zero(),
		SubmittedAt:   now,
	}
	a.maybeActivate(st, g, now)

	next := st.Copy()
	next.SetGrant(g)

	log.Infow("delegation submitted", "asset", types.AssetString(asset), "delegate", delegate, "limit", types.Amount(dailyLimit), "proposer", proposer, "active", g.IsActive)
	return next, nil
}

// ConfirmGrant adds signer's confirmation to a pending grant.
func (a *Actor) ConfirmGrant(st *state.State, now time.Time, signer, asset, delegate address.Address) (*state.State, error) {
	if !st.Signers().IsSigner(signer) {
		return st, aerrors.ErrNotAuthorizedSigner
	}
	g, ok := st.GetGrant(types.GrantKey{Asset: asset, Delegate: delegate})
	if !ok {
		return st, aerrors.ErrGrantNotFound
	}
	if g.Revoked {
		return st, aerrors.ErrGrantRevoked
	}
	if g.Confirmations.Has(signer) {
		return st, aerrors.ErrAlreadyConfirmed
	}

	g.Confirmations = g.Confirmations.With(signer)
	a.maybeActivate(st, g, now)

	next := st.Copy()
	next.SetGrant(g)

	log.Infow("delegation confirmed", "asset", types.AssetString(asset), "delegate", delegate, "signer", signer, "confirmations", len(g.Confirmations), "active", g.IsActive)
	return next, nil
}

// maybeActivate turns a pending grant active when it has quorum, starting
// a fresh window.
func (a *Actor) maybeActivate(st *state.State, g *types.Grant, now time.Time) {
	if g.IsActive || !st.Signers().Reached(g.Confirmations) {
		return
	}
	g.IsActive = true
	g.SpentToday = big.Zero()
	g.WindowStart = now
}

// RevokeGrant records signer's wish to revoke the grant and reports whether
// the grant is now revoked. Under RevokeSingleSigner the first vote
// suffices; under RevokeQuorum it takes threshold distinct votes.
func (a *Actor) RevokeGrant(st *state.State, now time.Time, signer, asset, delegate address.Address) (*state.State, bool, error) {
	if !st.Signers().IsSigner(signer) {
		return st, false, aerrors.ErrNotAuthorizedSigner
	}
	g, ok := st.GetGrant(types.GrantKey{Asset: asset, Delegate: delegate})
	if !ok {
		return st, false, aerrors.ErrGrantNotFound
	}
	if g.Revoked {
		return st, false, aerrors.ErrGrantRevoked
	}
	if g.RevokeVotes.Has(signer) {
		return st, false, aerrors.ErrAlreadyConfirmed
	}

	g.RevokeVotes = g.RevokeVotes.With(signer)

	switch st.Policy() {
	case types.RevokeSingleSigner:
		g.Revoked = true
	default:
		g.Revoked = st.Signers().Reached(g.RevokeVotes)
	}
	if g.Revoked {
		g.IsActive = false
	}

	next := st.Copy()
	next.SetGrant(g)

	log.Infow("delegation revocation vote", "asset", types.AssetString(asset), "delegate", delegate, "signer", signer, "votes", len(g.RevokeVotes), "revoked", g.Revoked)
	return next, g.Revoked, nil
}

// Transfer moves amount of asset from the wallet to `to` on the delegate's
// authority, within the grant's limit for the current window.
func (a *Actor) Transfer(st *state.State, now time.Time, delegate, asset, to address.Address, amount abi.TokenAmount) (*state.State, error) {
	g, ok := st.GetGrant(types.GrantKey{Asset: asset, Delegate: delegate})
	if !ok || !g.IsActive {
		return st, aerrors.ErrNotAuthorizedDelegate
	}
	amount = types.OrZero(amount)
	if amount.Sign() <= 0 {
		return st, aerrors.ErrInvalidAmount
	}
	if to == address.Undef {
		return st, aerrors.ErrInvalidRecipient
	}

	if now.Sub(g.WindowStart) >= a.window {
		g.SpentToday = big.Zero()
		g.WindowStart = now
	}

	spent := big.Add(g.SpentToday, amount)
	if spent.GreaterThan(g.DailyLimit) {
		return st, aerrors.ErrExceedsDailyLimit
	}
	g.SpentToday = spent

	next := st.Copy()
	if err := next.Transfer(asset, next.Wallet(), to, amount); err != nil {
		return st, err
	}
	next.SetGrant(g)

	log.Infow("delegated transfer", "asset", types.AssetString(asset), "delegate", delegate, "to", to, "amount", types.Amount(amount), "spent", types.Amount(spent), "limit", types.Amount(g.DailyLimit))
	return next, nil
}

// Status is a pure read of the grant for (asset, delegate). A missing grant
// reads as all zeroes.
func (a *Actor) Status(st *state.State, now time.Time, asset, delegate address.Address) types.DelegationStatus {
	g, ok := st.GetGrant(types.GrantKey{Asset: asset, Delegate: delegate})
	if !ok {
		return types.EmptyDelegationStatus()
	}

	status := types.DelegationStatus{
		DailyLimit:     g.DailyLimit,
		SpentToday:     g.SpentToday,
		RemainingToday: big.Max(big.Sub(g.DailyLimit, g.SpentToday), big.Zero()),
		Confirmations:  uint64(len(g.Confirmations)),
		IsActive:       g.IsActive,
		Revoked:        g.Revoked,
		WindowStart:    g.WindowStart,
	}
	if g.IsActive {
		if left := a.window - now.Sub(g.WindowStart); left > 0 {
			status.TimeUntilReset = left
		}
	}
	return status
}

// Grants lists every grant in the wallet.
func Grants(st *state.State) []*types.Grant {
	return st.Grants()
}
