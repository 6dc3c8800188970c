// Package multisig implements quorum-gated execution of wallet operations:
// any signer may propose, signers confirm, and once enough have confirmed
// any signer may execute the operation exactly once.
package multisig

import (
	"time"

	logging "github.com/ipfs/go-log/v2"

	"github.com/filecoin-project/go-address"

	"github.com/billyjitsu/liquidation-fairy/chain/actors/aerrors"
	"github.com/billyjitsu/liquidation-fairy/chain/state"
	"github.com/billyjitsu/liquidation-fairy/chain/types"
	"github.com/billyjitsu/liquidation-fairy/chain/vm"
)

var log = logging.Logger("msig")

type Actor struct {
	vm *vm.VM
}

func NewActor(v *vm.VM) *Actor {
	if v == nil {
		v = vm.New(nil)
	}
	return &Actor{vm: v}
}

// Propose records op under a fresh index. The proposer's own confirmation
// is counted.
func (a *Actor) Propose(st *state.State, now time.Time, proposer address.Address, op types.Operation) (*state.State, uint64, error) {
	if !st.Signers().IsSigner(proposer) {
		return st, 0, aerrors.ErrNotAuthorizedSigner
	}
	op = op.Normalized()
	if err := op.Validate(); err != nil {
		log.Debugw("rejecting malformed proposal", "proposer", proposer, "error", err)
		return st, 0, aerrors.ErrInvalidOperation
	}

	next := st.Copy()
	idx := next.AllocTxIndex()
	next.SetProposal(&types.Proposal{
		Index:         idx,
		Op:            op,
		Proposer:      proposer,
		Confirmations: types.Approvals{proposer},
		SubmittedAt:   now,
	})

	log.Infow("proposal submitted", "index", idx, "proposer", proposer, "op", op.String())
	return next, idx, nil
}

// Approve adds signer's confirmation to proposal idx.
func (a *Actor) Approve(st *state.State, now time.Time, signer address.Address, idx uint64) (*state.State, error) {
	if !st.Signers().IsSigner(signer) {
		return st, aerrors.ErrNotAuthorizedSigner
	}
	p, ok := st.GetProposal(idx)
	if !ok {
		return st, aerrors.ErrTxNotFound
	}
	if p.Executed {
		return st, aerrors.ErrTxAlreadyExecuted
	}
	if p.Confirmations.Has(signer) {
		return st, aerrors.ErrAlreadyConfirmed
	}

	p.Confirmations = p.Confirmations.With(signer)

	next := st.Copy()
	next.SetProposal(p)

	log.Infow("proposal confirmed", "index", idx, "signer", signer, "confirmations", len(p.Confirmations), "threshold", st.Signers().Threshold())
	return next, nil
}

// Execute performs proposal idx once it has quorum. Marking it executed
// and applying its operation happen together or not at all. An index that
// was never proposed cannot be executed either.
func (a *Actor) Execute(st *state.State, now time.Time, caller address.Address, idx uint64) (*state.State, *types.ExecResult, error) {
	if !st.Signers().IsSigner(caller) {
		return st, nil, aerrors.ErrNotAuthorizedSigner
	}
	p, ok := st.GetProposal(idx)
	if !ok || !CanExecute(st, p) {
		return st, nil, aerrors.ErrCannotExecute
	}

	next := st.Copy()
	ret, err := a.vm.Apply(next, now, p.Op)
	if err != nil {
		log.Warnw("proposal execution failed", "index", idx, "error", err)
		return st, nil, err
	}

	p.Executed = true
	p.ExecutedAt = now
	p.Return = ret
	next.SetProposal(p)

	log.Infow("proposal executed", "index", idx, "caller", caller, "op", p.Op.String())
	return next, &types.ExecResult{Index: idx, Return: ret}, nil
}

// CanExecute reports whether p is unexecuted and has quorum.
func CanExecute(st *state.State, p *types.Proposal) bool {
	return !p.Executed && st.Signers().Reached(p.Confirmations)
}

func Get(st *state.State, idx uint64) (*types.Proposal, error) {
	p, ok := st.GetProposal(idx)
	if !ok {
		return nil, aerrors.ErrTxNotFound
	}
	return p, nil
}

// Count is the number of proposals ever submitted.
func Count(st *state.State) uint64 {
	return st.NextTxIndex()
}

// Pending returns the unexecuted proposals in index order.
func Pending(st *state.State) []*types.Proposal {
	var out []*types.Proposal
	for _, p := range st.Proposals() {
		if !p.Executed {
			out = append(out, p)
		}
	}
	return out
}
