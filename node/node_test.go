package node_test

import (
	"context"
	"testing"
	"time"

	"github.com/raulk/clock"
	"github.com/stretchr/testify/require"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-jsonrpc/auth"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"

	"github.com/billyjitsu/liquidation-fairy/api"
	"github.com/billyjitsu/liquidation-fairy/chain/actors/aerrors"
	"github.com/billyjitsu/liquidation-fairy/chain/types"
	"github.com/billyjitsu/liquidation-fairy/chain/types/mock"
	"github.com/billyjitsu/liquidation-fairy/journal"
	"github.com/billyjitsu/liquidation-fairy/node"
	"github.com/billyjitsu/liquidation-fairy/node/config"
	"github.com/billyjitsu/liquidation-fairy/node/repo"
)

var start = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type testNode struct {
	api.Vault

	clk     *clock.Mock
	journal *journal.MemJournal
	signers []address.Address
	repo    *repo.MemRepo
}

func testConfig(policy types.RevocationPolicy) func() *config.Node {
	return func() *config.Node {
		c := config.DefaultNode()
		c.Wallet.Signers = []string{"t01000", "t01001", "t01002"}
		c.Wallet.Threshold = 2
		c.Wallet.RevocationPolicy = string(policy)
		c.Datastore.Type = "memory"
		return c
	}
}

func startNode(t *testing.T, r *repo.MemRepo, clk *clock.Mock) *testNode {
	ctx := context.Background()

	j := journal.NewMemJournal(clk, journal.DefaultDisabledEvents)

	var full api.Vault
	stop, err := node.New(ctx,
		node.VaultAPI(&full),
		node.Repo(r),
		node.Test(clk, j),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = stop(context.Background())
	})

	return &testNode{
		Vault:   full,
		clk:     clk,
		journal: j,
		signers: []address.Address{mock.Address(1000), mock.Address(1001), mock.Address(1002)},
		repo:    r,
	}
}

func newTestNode(t *testing.T, policy types.RevocationPolicy) *testNode {
	clk := clock.NewMock()
	clk.Set(start)
	return startNode(t, repo.NewMemory(&repo.MemRepoOptions{ConfigF: testConfig(policy)}), clk)
}

func units(t *testing.T, s string) abi.TokenAmount {
	a, err := types.ParseAmount(s)
	require.NoError(t, err)
	return abi.TokenAmount(a)
}

func requireAmount(t *testing.T, expected, actual abi.TokenAmount) {
	t.Helper()
	require.True(t, expected.Equals(actual), "expected %s, got %s", types.Amount(expected), types.Amount(actual))
}

func TestQuorumTransfer(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, types.RevokeQuorum)
	s := n.signers
	recipient := mock.Address(3)

	_, err := n.WalletFund(ctx, types.NativeAsset, units(t, "5"))
	require.NoError(t, err)

	idx, err := n.MsigPropose(ctx, s[0], recipient, units(t, "0.5"), 0, nil)
	require.NoError(t, err)
	require.Equal(t, uint64(0), idx)

	// one confirmation is not enough
	_, err = n.MsigExecute(ctx, s[0], idx)
	require.Equal(t, aerrors.ErrCannotExecute, err)

	require.NoError(t, n.MsigApprove(ctx, s[1], idx))
	require.Equal(t, aerrors.ErrAlreadyConfirmed, n.MsigApprove(ctx, s[1], idx))

	tx, err := n.MsigGetTransaction(ctx, idx)
	require.NoError(t, err)
	require.Equal(t, uint64(2), tx.NumConfirmations)
	require.True(t, tx.CanExecute)
	require.Equal(t, types.OpNativeTransfer, tx.Op.Kind)

	res, err := n.MsigExecute(ctx, s[2], idx)
	require.NoError(t, err)
	require.Equal(t, idx, res.Index)

	bal, err := n.WalletBalanceOf(ctx, types.NativeAsset, recipient)
	require.NoError(t, err)
	requireAmount(t, units(t, "0.5"), bal)

	wbal, err := n.WalletTokenBalance(ctx, types.NativeAsset)
	require.NoError(t, err)
	requireAmount(t, units(t, "4.5"), wbal)

	_, err = n.MsigExecute(ctx, s[0], idx)
	require.Equal(t, aerrors.ErrCannotExecute, err)

	pending, err := n.MsigPending(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)

	cnt, err := n.MsigGetTransactionCount(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), cnt)

	_, err = n.MsigPropose(ctx, mock.Address(77), recipient, units(t, "1"), 0, nil)
	require.Equal(t, aerrors.ErrNotAuthorizedSigner, err)

	_, err = n.MsigGetTransaction(ctx, 5)
	require.Equal(t, aerrors.ErrTxNotFound, err)

	_, err = n.MsigExecute(ctx, s[0], 5)
	require.Equal(t, aerrors.ErrCannotExecute, err)
}

func TestTokenProposal(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, types.RevokeQuorum)
	s := n.signers
	token := mock.Address(500)
	spender := mock.Address(501)

	_, err := n.WalletFund(ctx, token, units(t, "100"))
	require.NoError(t, err)

	idx, err := n.MsigProposeOp(ctx, s[1], types.TokenTransfer(token, mock.Address(4), units(t, "40")))
	require.NoError(t, err)
	require.NoError(t, n.MsigApprove(ctx, s[2], idx))
	_, err = n.MsigExecute(ctx, s[0], idx)
	require.NoError(t, err)

	idx, err = n.MsigProposeOp(ctx, s[0], types.TokenApprove(token, spender, units(t, "7")))
	require.NoError(t, err)
	require.NoError(t, n.MsigApprove(ctx, s[1], idx))
	_, err = n.MsigExecute(ctx, s[0], idx)
	require.NoError(t, err)

	bal, err := n.WalletTokenBalance(ctx, token)
	require.NoError(t, err)
	requireAmount(t, units(t, "60"), bal)

	allowance, err := n.WalletAllowance(ctx, token, spender)
	require.NoError(t, err)
	requireAmount(t, units(t, "7"), allowance)
}

func TestDelegationLifecycle(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, types.RevokeQuorum)
	s := n.signers
	delegate := mock.Address(200)
	recipient := mock.Address(300)
	native := types.NativeAsset

	_, err := n.WalletFund(ctx, native, units(t, "100"))
	require.NoError(t, err)

	// grant of 10 per day, confirmed by 2 of 3
	require.NoError(t, n.DelegationSubmit(ctx, s[0], native, delegate, units(t, "10")))
	st, err := n.DelegationStatus(ctx, native, delegate)
	require.NoError(t, err)
	require.False(t, st.IsActive)
	require.Equal(t, uint64(1), st.Confirmations)

	_, err = n.DelegatedTransfer(ctx, delegate, native, recipient, units(t, "1"))
	require.Equal(t, aerrors.ErrNotAuthorizedDelegate, err)

	require.NoError(t, n.DelegationConfirm(ctx, s[1], native, delegate))

	// B: transfer within the limit
	ok, err := n.DelegatedTransfer(ctx, delegate, native, recipient, units(t, "1"))
	require.NoError(t, err)
	require.True(t, ok)

	st, err = n.DelegationStatus(ctx, native, delegate)
	require.NoError(t, err)
	require.True(t, st.IsActive)
	requireAmount(t, units(t, "9"), st.RemainingToday)
	require.Equal(t, 24*time.Hour, st.TimeUntilReset)

	// C: over the limit, nothing spent
	_, err = n.DelegatedTransfer(ctx, delegate, native, recipient, units(t, "11"))
	require.Equal(t, aerrors.ErrExceedsDailyLimit, err)
	st, err = n.DelegationStatus(ctx, native, delegate)
	require.NoError(t, err)
	requireAmount(t, units(t, "1"), st.SpentToday)

	_, err = n.DelegatedTransfer(ctx, delegate, native, recipient, units(t, "9"))
	require.NoError(t, err)
	_, err = n.DelegatedTransfer(ctx, delegate, native, recipient, big.NewInt(1))
	require.Equal(t, aerrors.ErrExceedsDailyLimit, err)

	// D: a full limit again once the window has passed
	n.clk.Add(24 * time.Hour)
	_, err = n.DelegatedTransfer(ctx, delegate, native, recipient, units(t, "10"))
	require.NoError(t, err)

	bal, err := n.WalletBalanceOf(ctx, native, recipient)
	require.NoError(t, err)
	requireAmount(t, units(t, "20"), bal)

	// E: revoked by quorum, the delegate is locked out
	revoked, err := n.DelegationRevoke(ctx, s[0], native, delegate)
	require.NoError(t, err)
	require.False(t, revoked)
	revoked, err = n.DelegationRevoke(ctx, s[2], native, delegate)
	require.NoError(t, err)
	require.True(t, revoked)

	_, err = n.DelegatedTransfer(ctx, delegate, native, recipient, big.NewInt(1))
	require.Equal(t, aerrors.ErrNotAuthorizedDelegate, err)

	grants, err := n.DelegationList(ctx)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	require.True(t, grants[0].Revoked)

	// status reads are not journaled by default
	var transfers int
	for _, evt := range n.journal.Events() {
		require.NotEqual(t, "delegation:status", evt.EventType.String())
		if evt.EventType.String() == "delegation:transfer" {
			transfers++
		}
	}
	require.Equal(t, 3, transfers)
}

func TestSingleSignerRevocation(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, types.RevokeSingleSigner)
	s := n.signers
	delegate := mock.Address(200)

	require.NoError(t, n.DelegationSubmit(ctx, s[0], types.NativeAsset, delegate, units(t, "1")))
	require.NoError(t, n.DelegationConfirm(ctx, s[1], types.NativeAsset, delegate))

	revoked, err := n.DelegationRevoke(ctx, s[2], types.NativeAsset, delegate)
	require.NoError(t, err)
	require.True(t, revoked)

	info, err := n.WalletInfo(ctx)
	require.NoError(t, err)
	require.Equal(t, types.RevokeSingleSigner, info.RevocationPolicy)
	require.Equal(t, uint64(2), info.Threshold)
}

func TestWalletQueries(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, types.RevokeQuorum)

	signers, err := n.WalletSigners(ctx)
	require.NoError(t, err)
	require.Equal(t, n.signers, signers)

	isSigner, err := n.WalletIsSigner(ctx, n.signers[1])
	require.NoError(t, err)
	require.True(t, isSigner)
	isSigner, err = n.WalletIsSigner(ctx, mock.Address(5))
	require.NoError(t, err)
	require.False(t, isSigner)

	_, err = n.WalletFund(ctx, types.NativeAsset, big.Zero())
	require.Equal(t, aerrors.ErrInvalidAmount, err)

	bal, err := n.WalletFund(ctx, types.NativeAsset, units(t, "2"))
	require.NoError(t, err)
	requireAmount(t, units(t, "2"), bal)

	info, err := n.WalletInfo(ctx)
	require.NoError(t, err)
	require.Equal(t, mock.Address(100), info.Address)
	requireAmount(t, units(t, "2"), info.NativeBalance)

	v, err := n.Version(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, v.Version)
}

func TestAuthTokens(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, types.RevokeQuorum)

	token, err := n.AuthNew(ctx, []auth.Permission{api.PermRead, api.PermWrite})
	require.NoError(t, err)

	perms, err := n.AuthVerify(ctx, string(token))
	require.NoError(t, err)
	require.Equal(t, []auth.Permission{api.PermRead, api.PermWrite}, perms)

	_, err = n.AuthVerify(ctx, string(token)+"x")
	require.Error(t, err)

	_, err = n.AuthNew(ctx, []auth.Permission{"root"})
	require.Error(t, err)

	// the node leaves an admin token and its endpoint for the CLI
	cliToken, err := n.repo.APIToken()
	require.NoError(t, err)
	perms, err = n.AuthVerify(ctx, string(cliToken))
	require.NoError(t, err)
	require.Equal(t, api.AllPermissions, perms)

	ep, err := n.repo.APIEndpoint()
	require.NoError(t, err)
	require.Equal(t, config.DefaultNode().API.ListenAddress, ep.String())
}

func TestStatePersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMock()
	clk.Set(start)
	r := repo.NewMemory(&repo.MemRepoOptions{ConfigF: testConfig(types.RevokeQuorum)})

	j := journal.NewMemJournal(clk, nil)
	var first api.Vault
	stop, err := node.New(ctx, node.VaultAPI(&first), node.Repo(r), node.Test(clk, j))
	require.NoError(t, err)

	_, err = first.WalletFund(ctx, types.NativeAsset, units(t, "3"))
	require.NoError(t, err)
	_, err = first.MsigPropose(ctx, mock.Address(1000), mock.Address(3), units(t, "1"), 0, nil)
	require.NoError(t, err)
	require.NoError(t, stop(ctx))

	n := startNode(t, r, clk)
	cnt, err := n.MsigGetTransactionCount(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), cnt)

	bal, err := n.WalletTokenBalance(ctx, types.NativeAsset)
	require.NoError(t, err)
	requireAmount(t, units(t, "3"), bal)

	// indices continue where they left off
	idx, err := n.MsigPropose(ctx, mock.Address(1001), mock.Address(3), units(t, "1"), 0, nil)
	require.NoError(t, err)
	require.Equal(t, uint64(1), idx)
}
