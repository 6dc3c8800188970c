package api

import (
	"context"

	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-jsonrpc/auth"
	"github.com/filecoin-project/go-state-types/abi"

	"github.com/billyjitsu/liquidation-fairy/chain/types"
)

var ErrNotSupported = xerrors.New("method not supported")

type CommonStruct struct {
	Internal CommonMethods
}

type CommonMethods struct {
	AuthNew func(p0 context.Context, p1 []auth.Permission) ([]byte, error) `perm:"admin"`

	AuthVerify func(p0 context.Context, p1 string) ([]auth.Permission, error) `perm:"read"`

	Version func(p0 context.Context) (APIVersion, error) `perm:"read"`
}

type VaultStruct struct {
	CommonStruct

	Internal VaultMethods
}

type VaultMethods struct {
	DelegatedTransfer func(p0 context.Context, p1 address.Address, p2 address.Address, p3 address.Address, p4 abi.TokenAmount) (bool, error) `perm:"write"`

	DelegationConfirm func(p0 context.Context, p1 address.Address, p2 address.Address, p3 address.Address) error `perm:"write"`

	DelegationList func(p0 context.Context) ([]*types.Grant, error) `perm:"read"`

	DelegationRevoke func(p0 context.Context, p1 address.Address, p2 address.Address, p3 address.Address) (bool, error) `perm:"write"`

	DelegationStatus func(p0 context.Context, p1 address.Address, p2 address.Address) (*types.DelegationStatus, error) `perm:"read"`

	DelegationSubmit func(p0 context.Context, p1 address.Address, p2 address.Address, p3 address.Address, p4 abi.TokenAmount) error `perm:"write"`

	MsigApprove func(p0 context.Context, p1 address.Address, p2 uint64) error `perm:"write"`

	MsigExecute func(p0 context.Context, p1 address.Address, p2 uint64) (*types.ExecResult, error) `perm:"write"`

	MsigGetTransaction func(p0 context.Context, p1 uint64) (*Transaction, error) `perm:"read"`

	MsigGetTransactionCount func(p0 context.Context) (uint64, error) `perm:"read"`

	MsigPending func(p0 context.Context) ([]*Transaction, error) `perm:"read"`

	MsigPropose func(p0 context.Context, p1 address.Address, p2 address.Address, p3 abi.TokenAmount, p4 abi.MethodNum, p5 []byte) (uint64, error) `perm:"write"`

	MsigProposeOp func(p0 context.Context, p1 address.Address, p2 types.Operation) (uint64, error) `perm:"write"`

	WalletAllowance func(p0 context.Context, p1 address.Address, p2 address.Address) (abi.TokenAmount, error) `perm:"read"`

	WalletBalanceOf func(p0 context.Context, p1 address.Address, p2 address.Address) (abi.TokenAmount, error) `perm:"read"`

	WalletFund func(p0 context.Context, p1 address.Address, p2 abi.TokenAmount) (abi.TokenAmount, error) `perm:"admin"`

	WalletInfo func(p0 context.Context) (*WalletInfo, error) `perm:"read"`

	WalletIsSigner func(p0 context.Context, p1 address.Address) (bool, error) `perm:"read"`

	WalletSigners func(p0 context.Context) ([]address.Address, error) `perm:"read"`

	WalletTokenBalance func(p0 context.Context, p1 address.Address) (abi.TokenAmount, error) `perm:"read"`
}

func (s *CommonStruct) AuthNew(p0 context.Context, p1 []auth.Permission) ([]byte, error) {
	if s.Internal.AuthNew == nil {
		return *new([]byte), ErrNotSupported
	}
	return s.Internal.AuthNew(p0, p1)
}

func (s *CommonStruct) AuthVerify(p0 context.Context, p1 string) ([]auth.Permission, error) {
	if s.Internal.AuthVerify == nil {
		return *new([]auth.Permission), ErrNotSupported
	}
	return s.Internal.AuthVerify(p0, p1)
}

func (s *CommonStruct) Version(p0 context.Context) (APIVersion, error) {
	if s.Internal.Version == nil {
		return *new(APIVersion), ErrNotSupported
	}
	return s.Internal.Version(p0)
}

func (s *VaultStruct) DelegatedTransfer(p0 context.Context, p1 address.Address, p2 address.Address, p3 address.Address, p4 abi.TokenAmount) (bool, error) {
	if s.Internal.DelegatedTransfer == nil {
		return false, ErrNotSupported
	}
	return s.Internal.DelegatedTransfer(p0, p1, p2, p3, p4)
}

func (s *VaultStruct) DelegationConfirm(p0 context.Context, p1 address.Address, p2 address.Address, p3 address.Address) error {
	if s.Internal.DelegationConfirm == nil {
		return ErrNotSupported
	}
	return s.Internal.DelegationConfirm(p0, p1, p2, p3)
}

func (s *VaultStruct) DelegationList(p0 context.Context) ([]*types.Grant, error) {
	if s.Internal.DelegationList == nil {
		return *new([]*types.Grant), ErrNotSupported
	}
	return s.Internal.DelegationList(p0)
}

func (s *VaultStruct) DelegationRevoke(p0 context.Context, p1 address.Address, p2 address.Address, p3 address.Address) (bool, error) {
	if s.Internal.DelegationRevoke == nil {
		return false, ErrNotSupported
	}
	return s.Internal.DelegationRevoke(p0, p1, p2, p3)
}

func (s *VaultStruct) DelegationStatus(p0 context.Context, p1 address.Address, p2 address.Address) (*types.DelegationStatus, error) {
	if s.Internal.DelegationStatus == nil {
		return nil, ErrNotSupported
	}
	return s.Internal.DelegationStatus(p0, p1, p2)
}

func (s *VaultStruct) DelegationSubmit(p0 context.Context, p1 address.Address, p2 address.Address, p3 address.Address, p4 abi.TokenAmount) error {
	if s.Internal.DelegationSubmit == nil {
		return ErrNotSupported
	}
	return s.Internal.DelegationSubmit(p0, p1, p2, p3, p4)
}

func (s *VaultStruct) MsigApprove(p0 context.Context, p1 address.Address, p2 uint64) error {
	if s.Internal.MsigApprove == nil {
		return ErrNotSupported
	}
	return s.Internal.MsigApprove(p0, p1, p2)
}

func (s *VaultStruct) MsigExecute(p0 context.Context, p1 address.Address, p2 uint64) (*types.ExecResult, error) {
	if s.Internal.MsigExecute == nil {
		return nil, ErrNotSupported
	}
	return s.Internal.MsigExecute(p0, p1, p2)
}

func (s *VaultStruct) MsigGetTransaction(p0 context.Context, p1 uint64) (*Transaction, error) {
	if s.Internal.MsigGetTransaction == nil {
		return nil, ErrNotSupported
	}
	return s.Internal.MsigGetTransaction(p0, p1)
}

func (s *VaultStruct) MsigGetTransactionCount(p0 context.Context) (uint64, error) {
	if s.Internal.MsigGetTransactionCount == nil {
		return 0, ErrNotSupported
	}
	return s.Internal.MsigGetTransactionCount(p0)
}

func (s *VaultStruct) MsigPending(p0 context.Context) ([]*Transaction, error) {
	if s.Internal.MsigPending == nil {
		return *new([]*Transaction), ErrNotSupported
	}
	return s.Internal.MsigPending(p0)
}

func (s *VaultStruct) MsigPropose(p0 context.Context, p1 address.Address, p2 address.Address, p3 abi.TokenAmount, p4 abi.MethodNum, p5 []byte) (uint64, error) {
	if s.Internal.MsigPropose == nil {
		return 0, ErrNotSupported
	}
	return s.Internal.MsigPropose(p0, p1, p2, p3, p4, p5)
}

func (s *VaultStruct) MsigProposeOp(p0 context.Context, p1 address.Address, p2 types.Operation) (uint64, error) {
	if s.Internal.MsigProposeOp == nil {
		return 0, ErrNotSupported
	}
	return s.Internal.MsigProposeOp(p0, p1, p2)
}

func (s *VaultStruct) WalletAllowance(p0 context.Context, p1 address.Address, p2 address.Address) (abi.TokenAmount, error) {
	if s.Internal.WalletAllowance == nil {
		return *new(abi.TokenAmount), ErrNotSupported
	}
	return s.Internal.WalletAllowance(p0, p1, p2)
}

func (s *VaultStruct) WalletBalanceOf(p0 context.Context, p1 address.Address, p2 address.Address) (abi.TokenAmount, error) {
	if s.Internal.WalletBalanceOf == nil {
		return *new(abi.TokenAmount), ErrNotSupported
	}
	return s.Internal.WalletBalanceOf(p0, p1, p2)
}

func (s *VaultStruct) WalletFund(p0 context.Context, p1 address.Address, p2 abi.TokenAmount) (abi.TokenAmount, error) {
	if s.Internal.WalletFund == nil {
		return *new(abi.TokenAmount), ErrNotSupported
	}
	return s.Internal.WalletFund(p0, p1, p2)
}

func (s *VaultStruct) WalletInfo(p0 context.Context) (*WalletInfo, error) {
	if s.Internal.WalletInfo == nil {
		return nil, ErrNotSupported
	}
	return s.Internal.WalletInfo(p0)
}

func (s *VaultStruct) WalletIsSigner(p0 context.Context, p1 address.Address) (bool, error) {
	if s.Internal.WalletIsSigner == nil {
		return false, ErrNotSupported
	}
	return s.Internal.WalletIsSigner(p0, p1)
}

func (s *VaultStruct) WalletSigners(p0 context.Context) ([]address.Address, error) {
	if s.Internal.WalletSigners == nil {
		return *new([]address.Address), ErrNotSupported
	}
	return s.Internal.WalletSigners(p0)
}

func (s *VaultStruct) WalletTokenBalance(p0 context.Context, p1 address.Address) (abi.TokenAmount, error) {
	if s.Internal.WalletTokenBalance == nil {
		return *new(abi.TokenAmount), ErrNotSupported
	}
	return s.Internal.WalletTokenBalance(p0, p1)
}

var _ Common = new(CommonStruct)
var _ Vault = new(VaultStruct)
