package full

import (
	"context"
	"time"

	"go.opencensus.io/stats"
	"go.opencensus.io/tag"
	"go.uber.org/fx"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"

	"github.com/billyjitsu/liquidation-fairy/api"
	"github.com/billyjitsu/liquidation-fairy/chain/actors/multisig"
	"github.com/billyjitsu/liquidation-fairy/chain/state"
	"github.com/billyjitsu/liquidation-fairy/chain/stmgr"
	"github.com/billyjitsu/liquidation-fairy/chain/types"
	"github.com/billyjitsu/liquidation-fairy/chain/vm"
	"github.com/billyjitsu/liquidation-fairy/metrics"
)

type MsigAPI struct {
	fx.In

	StateManager *stmgr.StateManager
}

// MsigPropose proposes a plain send when method is MethodSend and params
// are empty, and a raw call otherwise.
func (a *MsigAPI) MsigPropose(ctx context.Context, from, to address.Address, value abi.TokenAmount, method abi.MethodNum, params []byte) (uint64, error) {
	op := types.Call(to, value, method, params)
	if method == vm.MethodSend && len(params) == 0 {
		op = types.NativeTransfer(to, value)
	}
	return a.MsigProposeOp(ctx, from, op)
}

func (a *MsigAPI) MsigProposeOp(ctx context.Context, from address.Address, op types.Operation) (uint64, error) {
	op = op.Normalized()

	var idx uint64
	err := a.StateManager.Apply(ctx, stmgr.CallPropose, func(st *state.State, now time.Time) (*state.State, interface{}, error) {
		next, i, err := a.StateManager.Msig().Propose(st, now, from, op)
		if err != nil {
			return st, nil, err
		}
		idx = i
		return next, ProposalEvt{Index: i, Signer: from, Op: &op, Confirmations: 1}, nil
	})
	if err != nil {
		return 0, err
	}

	metrics.RecordWithTags(ctx, []tag.Mutator{tag.Upsert(metrics.OpKind, string(op.Kind))}, metrics.ProposalSubmitted.M(1))
	a.recordPending(ctx)
	return idx, nil
}

func (a *MsigAPI) MsigApprove(ctx context.Context, from address.Address, txIndex uint64) error {
	err := a.StateManager.Apply(ctx, stmgr.CallApprove, func(st *state.State, now time.Time) (*state.State, interface{}, error) {
		next, err := a.StateManager.Msig().Approve(st, now, from, txIndex)
		if err != nil {
			return st, nil, err
		}
		p, _ := next.GetProposal(txIndex)
		return next, ProposalEvt{Index: txIndex, Signer: from, Confirmations: len(p.Confirmations)}, nil
	})
	if err != nil {
		return err
	}

	stats.Record(ctx, metrics.ProposalConfirmed.M(1))
	return nil
}

func (a *MsigAPI) MsigExecute(ctx context.Context, from address.Address, txIndex uint64) (*types.ExecResult, error) {
	var (
		res  *types.ExecResult
		kind types.OpKind
	)
	err := a.StateManager.Apply(ctx, stmgr.CallExecute, func(st *state.State, now time.Time) (*state.State, interface{}, error) {
		next, r, err := a.StateManager.Msig().Execute(st, now, from, txIndex)
		if err != nil {
			return st, nil, err
		}
		p, _ := next.GetProposal(txIndex)
		res, kind = r, p.Op.Kind
		return next, ProposalEvt{Index: txIndex, Signer: from, Op: &p.Op, Confirmations: len(p.Confirmations), Return: r.Return}, nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordWithTags(ctx, []tag.Mutator{tag.Upsert(metrics.OpKind, string(kind))}, metrics.ProposalExecuted.M(1))
	a.recordPending(ctx)
	return res, nil
}

func (a *MsigAPI) MsigGetTransaction(ctx context.Context, txIndex uint64) (*api.Transaction, error) {
	st := a.StateManager.Head()
	p, err := multisig.Get(st, txIndex)
	if err != nil {
		return nil, err
	}
	return api.NewTransaction(p, st.Signers().Threshold()), nil
}

func (a *MsigAPI) MsigGetTransactionCount(ctx context.Context) (uint64, error) {
	return multisig.Count(a.StateManager.Head()), nil
}

func (a *MsigAPI) MsigPending(ctx context.Context) ([]*api.Transaction, error) {
	st := a.StateManager.Head()
	pending := multisig.Pending(st)

	out := make([]*api.Transaction, 0, len(pending))
	for _, p := range pending {
		out = append(out, api.NewTransaction(p, st.Signers().Threshold()))
	}
	return out, nil
}

func (a *MsigAPI) recordPending(ctx context.Context) {
	stats.Record(ctx, metrics.ProposalsPending.M(int64(len(multisig.Pending(a.StateManager.Head())))))
}
