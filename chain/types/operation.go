package types

import (
	"fmt"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"golang.org/x/xerrors"
)

type OpKind string

const (
	// OpNativeTransfer sends Value of the native asset to Target.
	OpNativeTransfer OpKind = "native-transfer"
	// OpTokenTransfer moves Amount of the Target token from the wallet to To.
	OpTokenTransfer OpKind = "token-transfer"
	// OpTokenApprove sets the wallet's allowance for spender To on the
	// Target token to Amount.
	OpTokenApprove OpKind = "token-approve"
	// OpCall sends Value to Target and invokes Method with Params on the
	// handler registered for Target.
	OpCall OpKind = "call"
)

func (k OpKind) Valid() bool {
	switch k {
	case OpNativeTransfer, OpTokenTransfer, OpTokenApprove, OpCall:
		return true
	}
	return false
}

// Operation is the action a proposal performs once it has quorum.
type Operation struct {
	Kind   OpKind
	Target address.Address

	Value abi.TokenAmount

	To     address.Address
	Amount abi.TokenAmount

	Method abi.MethodNum
	Params []byte
}

func NativeTransfer(to address.Address, value abi.TokenAmount) Operation {
	return Operation{Kind: OpNativeTransfer, Target: to, Value: value, Amount: big.Zero()}
}

func TokenTransfer(token, to address.Address, amount abi.TokenAmount) Operation {
	return Operation{Kind: OpTokenTransfer, Target: token, To: to, Value: big.Zero(), Amount: amount}
}

func TokenApprove(token, spender address.Address, amount abi.TokenAmount) Operation {
	return Operation{Kind: OpTokenApprove, Target: token, To: spender, Value: big.Zero(), Amount: amount}
}

func Call(to address.Address, value abi.TokenAmount, method abi.MethodNum, params []byte) Operation {
	return Operation{Kind: OpCall, Target: to, Value: value, Amount: big.Zero(), Method: method, Params: params}
}

// Validate checks that the operation is well formed. It does not look at
// balances; those are checked when the operation is applied.
func (op Operation) Validate() error {
	if !op.Kind.Valid() {
		return xerrors.Errorf("unknown operation kind %q", op.Kind)
	}
	if op.Target == address.Undef {
		return xerrors.Errorf("%s: target address is undefined", op.Kind)
	}
	if OrZero(op.Value).Sign() < 0 || OrZero(op.Amount).Sign() < 0 {
		return xerrors.Errorf("%s: negative amount", op.Kind)
	}

	switch op.Kind {
	case OpTokenTransfer, OpTokenApprove:
		if op.To == address.Undef {
			return xerrors.Errorf("%s: counterparty address is undefined", op.Kind)
		}
		if OrZero(op.Value).Sign() != 0 {
			return xerrors.Errorf("%s: carries native value", op.Kind)
		}
	case OpNativeTransfer:
		if op.Method != 0 || len(op.Params) > 0 {
			return xerrors.Errorf("%s: carries call data", op.Kind)
		}
	}
	return nil
}

// Normalized returns a copy with nil amounts replaced by zero.
func (op Operation) Normalized() Operation {
	op.Value = OrZero(op.Value)
	op.Amount = OrZero(op.Amount)
	if op.Params != nil {
		op.Params = append([]byte(nil), op.Params...)
	}
	return op
}

func (op Operation) String() string {
	switch op.Kind {
	case OpNativeTransfer:
		return fmt.Sprintf("send %s to %s", Amount(OrZero(op.Value)), op.Target)
	case OpTokenTransfer:
		return fmt.Sprintf("transfer %s of token %s to %s", Amount(OrZero(op.Amount)), op.Target, op.To)
	case OpTokenApprove:
		return fmt.Sprintf("approve %s to spend %s of token %s", op.To, Amount(OrZero(op.Amount)), op.Target)
	case OpCall:
		return fmt.Sprintf("call %s method %d with %s (%d param bytes)", op.Target, op.Method, Amount(OrZero(op.Value)), len(op.Params))
	default:
		return fmt.Sprintf("unknown operation %q", op.Kind)
	}
}
