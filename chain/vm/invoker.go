package vm

import (
	"time"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"golang.org/x/xerrors"

	"github.com/billyjitsu/liquidation-fairy/chain/actors/aerrors"
	"github.com/billyjitsu/liquidation-fairy/chain/state"
)

// Runtime is what a call handler sees. Handlers may change State; the
// change is discarded along with everything else if the call fails.
type Runtime struct {
	State    *state.State
	Now      time.Time
	Caller   address.Address
	Receiver address.Address

	ValueReceived abi.TokenAmount
}

type InvokeFunc func(rt *Runtime, params []byte) ([]byte, error)

// Methods is a callee's method table.
type Methods map[abi.MethodNum]InvokeFunc

// Invoker routes raw calls to the handlers registered for their targets.
// Registration happens during setup; Invoke is not safe to run
// concurrently with Register.
type Invoker struct {
	code map[address.Address]Methods
}

func NewInvoker() *Invoker {
	return &Invoker{
		code: make(map[address.Address]Methods),
	}
}

func (inv *Invoker) Register(target address.Address, methods Methods) {
	if target == address.Undef {
		panic("registering handler for undefined address")
	}
	inv.code[target] = methods
}

func (inv *Invoker) Has(target address.Address) bool {
	_, ok := inv.code[target]
	return ok
}

func (inv *Invoker) Invoke(rt *Runtime, method abi.MethodNum, params []byte) ([]byte, error) {
	code, ok := inv.code[rt.Receiver]
	if !ok {
		return nil, aerrors.ErrNoHandler
	}
	fn, ok := code[method]
	if !ok || fn == nil {
		return nil, xerrors.Errorf("no method %d on %s: %w", method, rt.Receiver, aerrors.ErrNoHandler)
	}
	return fn(rt, params)
}
