package full

import (
	"context"
	"math/big"
	"time"

	"go.opencensus.io/stats"
	"go.opencensus.io/tag"
	"go.uber.org/fx"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"

	"github.com/billyjitsu/liquidation-fairy/build"
	"github.com/billyjitsu/liquidation-fairy/chain/actors/delegation"
	"github.com/billyjitsu/liquidation-fairy/chain/state"
	"github.com/billyjitsu/liquidation-fairy/chain/stmgr"
	"github.com/billyjitsu/liquidation-fairy/chain/types"
	"github.com/billyjitsu/liquidation-fairy/metrics"
)

type DelegationAPI struct {
	fx.In

	StateManager *stmgr.StateManager
}

func (a *DelegationAPI) DelegationSubmit(ctx context.Context, from, asset, delegate address.Address, dailyLimit abi.TokenAmount) error {
	key := types.GrantKey{Asset: asset, Delegate: delegate}

	var active bool
	err := a.StateManager.Apply(ctx, stmgr.CallGrantSubmit, func(st *state.State, now time.Time) (*state.State, interface{}, error) {
		next, err := a.StateManager.Delegation().SubmitGrant(st, now, from, asset, delegate, dailyLimit)
		if err != nil {
			return st, nil, err
		}
		g, _ := next.GetGrant(key)
		active = g.IsActive
		return next, grantEvt(g, from), nil
	})
	if err != nil {
		return err
	}

	a.record(ctx, asset, metrics.GrantSubmitted.M(1))
	if active {
		a.record(ctx, asset, metrics.GrantActivated.M(1))
	}
	return nil
}

func (a *DelegationAPI) DelegationConfirm(ctx context.Context, from, asset, delegate address.Address) error {
	key := types.GrantKey{Asset: asset, Delegate: delegate}

	var activated bool
	err := a.StateManager.Apply(ctx, stmgr.CallGrantConfirm, func(st *state.State, now time.Time) (*state.State, interface{}, error) {
		next, err := a.StateManager.Delegation().ConfirmGrant(st, now, from, asset, delegate)
		if err != nil {
			return st, nil, err
		}
		prev, _ := st.GetGrant(key)
		g, _ := next.GetGrant(key)
		activated = g.IsActive && !prev.IsActive
		return next, grantEvt(g, from), nil
	})
	if err != nil {
		return err
	}

	if activated {
		a.record(ctx, asset, metrics.GrantActivated.M(1))
	}
	return nil
}

func (a *DelegationAPI) DelegationRevoke(ctx context.Context, from, asset, delegate address.Address) (bool, error) {
	key := types.GrantKey{Asset: asset, Delegate: delegate}

	var revoked bool
	err := a.StateManager.Apply(ctx, stmgr.CallGrantRevoke, func(st *state.State, now time.Time) (*state.State, interface{}, error) {
		next, r, err := a.StateManager.Delegation().RevokeGrant(st, now, from, asset, delegate)
		if err != nil {
			return st, nil, err
		}
		revoked = r
		g, _ := next.GetGrant(key)
		return next, grantEvt(g, from), nil
	})
	if err != nil {
		return false, err
	}

	if revoked {
		a.record(ctx, asset, metrics.GrantRevoked.M(1))
	}
	return revoked, nil
}

func (a *DelegationAPI) DelegatedTransfer(ctx context.Context, from, asset, to address.Address, amount abi.TokenAmount) (bool, error) {
	key := types.GrantKey{Asset: asset, Delegate: from}

	err := a.StateManager.Apply(ctx, stmgr.CallDelegatedTransfer, func(st *state.State, now time.Time) (*state.State, interface{}, error) {
		next, err := a.StateManager.Delegation().Transfer(st, now, from, asset, to, amount)
		if err != nil {
			return st, nil, err
		}
		g, _ := next.GetGrant(key)
		return next, TransferEvt{Grant: key, To: to, Amount: amount, Spent: g.SpentToday}, nil
	})
	if err != nil {
		return false, err
	}

	a.record(ctx, asset, metrics.DelegatedTransfers.M(1), metrics.DelegatedVolume.M(wholeUnits(amount)))
	return true, nil
}

func (a *DelegationAPI) DelegationStatus(ctx context.Context, asset, delegate address.Address) (*types.DelegationStatus, error) {
	st := a.StateManager.Head()
	now := a.StateManager.Clock().Now()

	status := a.StateManager.Delegation().Status(st, now, asset, delegate)
	a.StateManager.RecordStatus(types.GrantKey{Asset: asset, Delegate: delegate}, status)
	return &status, nil
}

func (a *DelegationAPI) DelegationList(ctx context.Context) ([]*types.Grant, error) {
	return delegation.Grants(a.StateManager.Head()), nil
}

func (a *DelegationAPI) record(ctx context.Context, asset address.Address, ms ...stats.Measurement) {
	metrics.RecordWithTags(ctx, []tag.Mutator{tag.Upsert(metrics.Asset, types.AssetString(asset))}, ms...)
}

func grantEvt(g *types.Grant, signer address.Address) GrantEvt {
	return GrantEvt{
		Grant:         g.Key(),
		Signer:        signer,
		DailyLimit:    g.DailyLimit,
		Confirmations: len(g.Confirmations),
		Active:        g.IsActive,
		Revoked:       g.Revoked,
	}
}

func wholeUnits(amt abi.TokenAmount) float64 {
	if amt.Int == nil {
		return 0
	}
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(amt.Int), big.NewFloat(build.AssetPrecision)).Float64()
	return f
}
