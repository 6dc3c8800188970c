package api

import (
	"context"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-jsonrpc/auth"
	"github.com/filecoin-project/go-state-types/abi"

	"github.com/billyjitsu/liquidation-fairy/chain/types"
)

//                       MODIFYING THE API INTERFACE
//
// When adding / changing methods in this file:
// * Add the method to VaultMethods in struct.go with its permission tag
// * Add the forwarding method on VaultStruct
// * Register any new error type in api_errors.go

// Common is implemented by every node.
type Common interface {
	AuthVerify(ctx context.Context, token string) ([]auth.Permission, error) //perm:read
	AuthNew(ctx context.Context, perms []auth.Permission) ([]byte, error)    //perm:admin

	// Version returns the node and API versions.
	Version(context.Context) (APIVersion, error) //perm:read
}

// Vault is the API of a quorum wallet node. Mutating methods name the
// acting identity explicitly in `from`; the node does not sign.
//
// `from` is not authenticated. Any holder of a write token can act as
// every signer, so quorum only holds if write tokens are issued to a
// single trusted operator. Hand out read tokens to everyone else.
type Vault interface {
	Common

	// MethodGroup: Msig
	// Quorum-gated operations on the wallet. The proposer's confirmation
	// counts towards the threshold.

	// MsigPropose proposes sending value to `to`, optionally calling method
	// with params on it. Returns the proposal index.
	MsigPropose(ctx context.Context, from, to address.Address, value abi.TokenAmount, method abi.MethodNum, params []byte) (uint64, error) //perm:write
	// MsigProposeOp proposes an arbitrary operation, such as a token transfer.
	MsigProposeOp(ctx context.Context, from address.Address, op types.Operation) (uint64, error) //perm:write
	MsigApprove(ctx context.Context, from address.Address, txIndex uint64) error                    //perm:write
	// MsigExecute performs a proposal that has reached the threshold.
	MsigExecute(ctx context.Context, from address.Address, txIndex uint64) (*types.ExecResult, error) //perm:write
	MsigGetTransaction(ctx context.Context, txIndex uint64) (*Transaction, error)                     //perm:read
	// MsigGetTransactionCount returns the number of proposals ever made.
	MsigGetTransactionCount(ctx context.Context) (uint64, error) //perm:read
	MsigPending(ctx context.Context) ([]*Transaction, error)      //perm:read

	// MethodGroup: Delegation
	// Per-(asset, delegate) spending rights with a daily limit. Use
	// types.NativeAsset (the empty address) for the native asset.

	DelegationSubmit(ctx context.Context, from, asset, delegate address.Address, dailyLimit abi.TokenAmount) error //perm:write
	DelegationConfirm(ctx context.Context, from, asset, delegate address.Address) error                            //perm:write
	// DelegationRevoke votes to revoke a grant and reports whether it is now
	// revoked.
	DelegationRevoke(ctx context.Context, from, asset, delegate address.Address) (bool, error) //perm:write
	// DelegatedTransfer moves amount of asset to `to` on the authority of
	// delegate `from`.
	DelegatedTransfer(ctx context.Context, from, asset, to address.Address, amount abi.TokenAmount) (bool, error) //perm:write
	DelegationStatus(ctx context.Context, asset, delegate address.Address) (*types.DelegationStatus, error)       //perm:read
	DelegationList(ctx context.Context) ([]*types.Grant, error)                                                  //perm:read

	// MethodGroup: Wallet

	WalletInfo(ctx context.Context) (*WalletInfo, error)                        //perm:read
	WalletIsSigner(ctx context.Context, addr address.Address) (bool, error)     //perm:read
	WalletSigners(ctx context.Context) ([]address.Address, error)               //perm:read
	WalletTokenBalance(ctx context.Context, asset address.Address) (abi.TokenAmount, error) //perm:read
	// WalletBalanceOf returns what any holder has of asset, as tracked by
	// the ledger.
	WalletBalanceOf(ctx context.Context, asset, holder address.Address) (abi.TokenAmount, error) //perm:read
	WalletAllowance(ctx context.Context, token, spender address.Address) (abi.TokenAmount, error) //perm:read
	// WalletFund credits the wallet with a deposit made outside the ledger
	// and returns the new balance.
	WalletFund(ctx context.Context, asset address.Address, amount abi.TokenAmount) (abi.TokenAmount, error) //perm:admin
}
