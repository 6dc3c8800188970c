package api

import (
	"errors"
	"reflect"

	"github.com/filecoin-project/go-jsonrpc"

	"github.com/billyjitsu/liquidation-fairy/chain/actors/aerrors"
)

const (
	ENotAuthorizedSigner = iota + jsonrpc.FirstUserCode
	EAlreadyConfirmed
	ECannotExecute
	EInvalidDailyLimit
	EInvalidDelegateAddress
	ENotAuthorizedDelegate
	EExceedsDailyLimit
	ETxNotFound
	ETxAlreadyExecuted
	EGrantNotFound
	EGrantRevoked
	EInvalidAmount
	EInvalidRecipient
	EInvalidOperation
	EInsufficientFunds
	ENoHandler
)

// RPCErrors maps engine rejections to JSON-RPC error codes. A rejection
// only keeps its type across the wire if the handler returns it unwrapped.
var RPCErrors = jsonrpc.NewErrors()

func init() {
	RPCErrors.Register(ENotAuthorizedSigner, new(*aerrors.NotAuthorizedSigner))
	RPCErrors.Register(EAlreadyConfirmed, new(*aerrors.AlreadyConfirmed))
	RPCErrors.Register(ECannotExecute, new(*aerrors.CannotExecute))
	RPCErrors.Register(EInvalidDailyLimit, new(*aerrors.InvalidDailyLimit))
	RPCErrors.Register(EInvalidDelegateAddress, new(*aerrors.InvalidDelegateAddress))
	RPCErrors.Register(ENotAuthorizedDelegate, new(*aerrors.NotAuthorizedDelegate))
	RPCErrors.Register(EExceedsDailyLimit, new(*aerrors.ExceedsDailyLimit))
	RPCErrors.Register(ETxNotFound, new(*aerrors.TxNotFound))
	RPCErrors.Register(ETxAlreadyExecuted, new(*aerrors.TxAlreadyExecuted))
	RPCErrors.Register(EGrantNotFound, new(*aerrors.GrantNotFound))
	RPCErrors.Register(EGrantRevoked, new(*aerrors.GrantRevoked))
	RPCErrors.Register(EInvalidAmount, new(*aerrors.InvalidAmount))
	RPCErrors.Register(EInvalidRecipient, new(*aerrors.InvalidRecipient))
	RPCErrors.Register(EInvalidOperation, new(*aerrors.InvalidOperation))
	RPCErrors.Register(EInsufficientFunds, new(*aerrors.InsufficientFunds))
	RPCErrors.Register(ENoHandler, new(*aerrors.NoHandler))
}

func ErrorIsIn(err error, errorTypes []error) bool {
	for _, etype := range errorTypes {
		tmp := reflect.New(reflect.PointerTo(reflect.ValueOf(etype).Elem().Type())).Interface()
		if errors.As(err, tmp) {
			return true
		}
	}
	return false
}
