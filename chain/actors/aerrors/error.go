// Package aerrors holds the rejections the wallet engines return. Each
// rejection is its own type so it survives a JSON-RPC round trip, and each
// carries the exit code it maps to.
package aerrors

import (
	"errors"

	"github.com/filecoin-project/go-state-types/exitcode"
)

type ActorError interface {
	error
	RetCode() exitcode.ExitCode
}

var (
	ErrNotAuthorizedSigner    = &NotAuthorizedSigner{}
	ErrAlreadyConfirmed       = &AlreadyConfirmed{}
	ErrCannotExecute          = &CannotExecute{}
	ErrInvalidDailyLimit      = &InvalidDailyLimit{}
	ErrInvalidDelegateAddress = &InvalidDelegateAddress{}
	ErrNotAuthorizedDelegate  = &NotAuthorizedDelegate{}
	ErrExceedsDailyLimit      = &ExceedsDailyLimit{}

	ErrTxNotFound        = &TxNotFound{}
	ErrTxAlreadyExecuted = &TxAlreadyExecuted{}
	ErrGrantNotFound     = &GrantNotFound{}
	ErrGrantRevoked      = &GrantRevoked{}
	ErrInvalidAmount     = &InvalidAmount{}
	ErrInvalidRecipient  = &InvalidRecipient{}
	ErrInvalidOperation  = &InvalidOperation{}
	ErrInsufficientFunds = &InsufficientFunds{}
	ErrNoHandler         = &NoHandler{}

	_ ActorError = (*NotAuthorizedSigner)(nil)
	_ ActorError = (*AlreadyConfirmed)(nil)
	_ ActorError = (*CannotExecute)(nil)
	_ ActorError = (*InvalidDailyLimit)(nil)
	_ ActorError = (*InvalidDelegateAddress)(nil)
	_ ActorError = (*NotAuthorizedDelegate)(nil)
	_ ActorError = (*ExceedsDailyLimit)(nil)
	_ ActorError = (*TxNotFound)(nil)
	_ ActorError = (*TxAlreadyExecuted)(nil)
	_ ActorError = (*GrantNotFound)(nil)
	_ ActorError = (*GrantRevoked)(nil)
	_ ActorError = (*InvalidAmount)(nil)
	_ ActorError = (*InvalidRecipient)(nil)
	_ ActorError = (*InvalidOperation)(nil)
	_ ActorError = (*InsufficientFunds)(nil)
	_ ActorError = (*NoHandler)(nil)
)

// NotAuthorizedSigner: the caller is not in the signer set.
type NotAuthorizedSigner struct{}

func (*NotAuthorizedSigner) Error() string              { return "not authorized signer" }
func (*NotAuthorizedSigner) RetCode() exitcode.ExitCode { return exitcode.ErrForbidden }

// AlreadyConfirmed: the signer already confirmed (or voted on) this item.
type AlreadyConfirmed struct{}

func (*AlreadyConfirmed) Error() string              { return "tx already confirmed" }
func (*AlreadyConfirmed) RetCode() exitcode.ExitCode { return exitcode.ErrIllegalState }

// CannotExecute: the proposal lacks quorum.
type CannotExecute struct{}

func (*CannotExecute) Error() string              { return "cannot execute tx" }
func (*CannotExecute) RetCode() exitcode.ExitCode { return exitcode.ErrIllegalState }

type InvalidDailyLimit struct{}

func (*InvalidDailyLimit) Error() string              { return "invalid daily limit" }
func (*InvalidDailyLimit) RetCode() exitcode.ExitCode { return exitcode.ErrIllegalArgument }

type InvalidDelegateAddress struct{}

func (*InvalidDelegateAddress) Error() string              { return "invalid delegate address" }
func (*InvalidDelegateAddress) RetCode() exitcode.ExitCode { return exitcode.ErrIllegalArgument }

// NotAuthorizedDelegate: no active grant exists for the caller and asset.
type NotAuthorizedDelegate struct{}

func (*NotAuthorizedDelegate) Error() string              { return "not authorized delegate" }
func (*NotAuthorizedDelegate) RetCode() exitcode.ExitCode { return exitcode.ErrForbidden }

type ExceedsDailyLimit struct{}

func (*ExceedsDailyLimit) Error() string              { return "exceeds daily limit" }
func (*ExceedsDailyLimit) RetCode() exitcode.ExitCode { return exitcode.ErrForbidden }

type TxNotFound struct{}

func (*TxNotFound) Error() string              { return "tx does not exist" }
func (*TxNotFound) RetCode() exitcode.ExitCode { return exitcode.ErrNotFound }

type TxAlreadyExecuted struct{}

func (*TxAlreadyExecuted) Error() string              { return "tx already executed" }
func (*TxAlreadyExecuted) RetCode() exitcode.ExitCode { return exitcode.ErrIllegalState }

type GrantNotFound struct{}

func (*GrantNotFound) Error() string              { return "delegation does not exist" }
func (*GrantNotFound) RetCode() exitcode.ExitCode { return exitcode.ErrNotFound }

// GrantRevoked: the grant was revoked and must be resubmitted.
type GrantRevoked struct{}

func (*GrantRevoked) Error() string              { return "delegation revoked" }
func (*GrantRevoked) RetCode() exitcode.ExitCode { return exitcode.ErrIllegalState }

type InvalidAmount struct{}

func (*InvalidAmount) Error() string              { return "invalid amount" }
func (*InvalidAmount) RetCode() exitcode.ExitCode { return exitcode.ErrIllegalArgument }

type InvalidRecipient struct{}

func (*InvalidRecipient) Error() string              { return "invalid recipient" }
func (*InvalidRecipient) RetCode() exitcode.ExitCode { return exitcode.ErrIllegalArgument }

type InvalidOperation struct{}

func (*InvalidOperation) Error() string              { return "invalid operation" }
func (*InvalidOperation) RetCode() exitcode.ExitCode { return exitcode.ErrIllegalArgument }

type InsufficientFunds struct{}

func (*InsufficientFunds) Error() string              { return "insufficient funds" }
func (*InsufficientFunds) RetCode() exitcode.ExitCode { return exitcode.ErrInsufficientFunds }

// NoHandler: a call carried method data to a target nothing handles.
type NoHandler struct{}

func (*NoHandler) Error() string              { return "no handler for call target" }
func (*NoHandler) RetCode() exitcode.ExitCode { return exitcode.SysErrInvalidReceiver }

// Is reports whether err is, or wraps, a rejection of type T. It works on
// errors decoded from RPC responses, which are fresh values rather than
// the package sentinels.
func Is[T ActorError](err error) bool {
	var target T
	return errors.As(err, &target)
}

// RetCode returns the exit code of the rejection in err's chain, or
// exitcode.Ok when there is none.
func RetCode(err error) exitcode.ExitCode {
	var ae ActorError
	if errors.As(err, &ae) {
		return ae.RetCode()
	}
	return exitcode.Ok
}
