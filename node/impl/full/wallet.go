package full

import (
	"context"
	"time"

	"go.opencensus.io/tag"
	"go.uber.org/fx"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"

	"github.com/billyjitsu/liquidation-fairy/api"
	"github.com/billyjitsu/liquidation-fairy/chain/actors/aerrors"
	"github.com/billyjitsu/liquidation-fairy/chain/state"
	"github.com/billyjitsu/liquidation-fairy/chain/stmgr"
	"github.com/billyjitsu/liquidation-fairy/chain/types"
	"github.com/billyjitsu/liquidation-fairy/metrics"
)

type WalletAPI struct {
	fx.In

	StateManager *stmgr.StateManager
}

func (a *WalletAPI) WalletInfo(ctx context.Context) (*api.WalletInfo, error) {
	st := a.StateManager.Head()
	return &api.WalletInfo{
		Address:          st.Wallet(),
		Signers:          st.Signers().Signers(),
		Threshold:        st.Signers().Threshold(),
		RevocationPolicy: st.Policy(),
		StateVersion:     st.Version(),
		TransactionCount: st.NextTxIndex(),
		NativeBalance:    st.Balance(types.NativeAsset, st.Wallet()),
	}, nil
}

func (a *WalletAPI) WalletIsSigner(ctx context.Context, addr address.Address) (bool, error) {
	return a.StateManager.Head().Signers().IsSigner(addr), nil
}

func (a *WalletAPI) WalletSigners(ctx context.Context) ([]address.Address, error) {
	return a.StateManager.Head().Signers().Signers(), nil
}

func (a *WalletAPI) WalletTokenBalance(ctx context.Context, asset address.Address) (abi.TokenAmount, error) {
	st := a.StateManager.Head()
	return st.Balance(asset, st.Wallet()), nil
}

func (a *WalletAPI) WalletBalanceOf(ctx context.Context, asset, holder address.Address) (abi.TokenAmount, error) {
	return a.StateManager.Head().Balance(asset, holder), nil
}

func (a *WalletAPI) WalletAllowance(ctx context.Context, token, spender address.Address) (abi.TokenAmount, error) {
	st := a.StateManager.Head()
	return st.Allowance(token, st.Wallet(), spender), nil
}

func (a *WalletAPI) WalletFund(ctx context.Context, asset address.Address, amount abi.TokenAmount) (abi.TokenAmount, error) {
	amount = types.OrZero(amount)

	var bal abi.TokenAmount
	err := a.StateManager.Apply(ctx, stmgr.CallFund, func(st *state.State, now time.Time) (*state.State, interface{}, error) {
		if amount.Sign() <= 0 {
			return st, nil, aerrors.ErrInvalidAmount
		}
		next := st.Copy()
		if err := next.Credit(asset, next.Wallet(), amount); err != nil {
			return st, nil, err
		}
		bal = next.Balance(asset, next.Wallet())
		return next, FundEvt{Asset: asset, Amount: amount, Balance: bal}, nil
	})
	if err != nil {
		return types.NewInt(0), err
	}

	metrics.RecordWithTags(ctx, []tag.Mutator{tag.Upsert(metrics.Asset, types.AssetString(asset))}, metrics.WalletFunded.M(1))
	return bal, nil
}
