package vm

import (
	"time"

	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-state-types/abi"

	"github.com/billyjitsu/liquidation-fairy/chain/actors/aerrors"
	"github.com/billyjitsu/liquidation-fairy/chain/state"
	"github.com/billyjitsu/liquidation-fairy/chain/types"
)

var log = logging.Logger("vm")

// MethodSend is the plain value transfer method; a call with this method
// and no params needs no handler.
const MethodSend = abi.MethodNum(0)

type VM struct {
	inv *Invoker
}

func New(inv *Invoker) *VM {
	if inv == nil {
		inv = NewInvoker()
	}
	return &VM{inv: inv}
}

func (vm *VM) Invoker() *Invoker {
	return vm.inv
}

// Apply performs op on behalf of the wallet, mutating st. On error st may
// be partially changed; callers apply to a copy and drop it on failure.
func (vm *VM) Apply(st *state.State, now time.Time, op types.Operation) ([]byte, error) {
	op = op.Normalized()
	if err := op.Validate(); err != nil {
		return nil, xerrors.Errorf("%s: %w", err.Error(), aerrors.ErrInvalidOperation)
	}

	wallet := st.Wallet()
	log.Debugw("applying operation", "kind", op.Kind, "target", op.Target, "op", op.String())

	switch op.Kind {
	case types.OpNativeTransfer:
		return nil, st.Transfer(types.NativeAsset, wallet, op.Target, op.Value)

	case types.OpTokenTransfer:
		return nil, st.Transfer(op.Target, wallet, op.To, op.Amount)

	case types.OpTokenApprove:
		st.SetAllowance(op.Target, wallet, op.To, op.Amount)
		return nil, nil

	case types.OpCall:
		if op.Value.Sign() > 0 {
			if err := st.Transfer(types.NativeAsset, wallet, op.Target, op.Value); err != nil {
				return nil, err
			}
		}
		if !vm.inv.Has(op.Target) && op.Method == MethodSend && len(op.Params) == 0 {
			return nil, nil
		}
		return vm.inv.Invoke(&Runtime{
			State:         st,
			Now:           now,
			Caller:        wallet,
			Receiver:      op.Target,
			ValueReceived: op.Value,
		}, op.Method, op.Params)

	default:
		return nil, aerrors.ErrInvalidOperation
	}
}
