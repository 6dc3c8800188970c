package node_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/filecoin-project/go-jsonrpc/auth"
	"github.com/filecoin-project/go-state-types/big"

	"github.com/billyjitsu/liquidation-fairy/api"
	"github.com/billyjitsu/liquidation-fairy/api/client"
	"github.com/billyjitsu/liquidation-fairy/chain/actors/aerrors"
	"github.com/billyjitsu/liquidation-fairy/chain/types"
	"github.com/billyjitsu/liquidation-fairy/chain/types/mock"
	"github.com/billyjitsu/liquidation-fairy/node"
	"github.com/billyjitsu/liquidation-fairy/node/config"
)

func serveTestNode(t *testing.T, n *testNode) *httptest.Server {
	h, err := node.VaultHandler(n.Vault, true, config.Metrics{Enabled: true, Namespace: "fairy_test"})
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func dialTestNode(t *testing.T, srv *httptest.Server, token []byte) api.Vault {
	var header http.Header
	if token != nil {
		header = http.Header{}
		header.Add("Authorization", "Bearer "+string(token))
	}

	c, closer, err := client.NewVaultRPC(context.Background(), srv.URL+"/rpc/v0", header)
	require.NoError(t, err)
	t.Cleanup(closer)
	return c
}

func TestRPCRoundTrip(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, types.RevokeQuorum)
	srv := serveTestNode(t, n)

	token, err := n.AuthNew(ctx, api.AllPermissions)
	require.NoError(t, err)
	c := dialTestNode(t, srv, token)

	s := n.signers
	delegate := mock.Address(200)
	recipient := mock.Address(300)

	_, err = c.WalletFund(ctx, types.NativeAsset, units(t, "50"))
	require.NoError(t, err)

	require.NoError(t, c.DelegationSubmit(ctx, s[0], types.NativeAsset, delegate, units(t, "10")))
	require.NoError(t, c.DelegationConfirm(ctx, s[1], types.NativeAsset, delegate))

	ok, err := c.DelegatedTransfer(ctx, delegate, types.NativeAsset, recipient, units(t, "4"))
	require.NoError(t, err)
	require.True(t, ok)

	// rejections keep their type across the wire
	_, err = c.DelegatedTransfer(ctx, delegate, types.NativeAsset, recipient, units(t, "7"))
	require.Error(t, err)
	require.True(t, aerrors.Is[*aerrors.ExceedsDailyLimit](err), err)

	err = c.DelegationConfirm(ctx, s[1], types.NativeAsset, delegate)
	require.True(t, aerrors.Is[*aerrors.AlreadyConfirmed](err), err)

	st, err := c.DelegationStatus(ctx, types.NativeAsset, delegate)
	require.NoError(t, err)
	requireAmount(t, units(t, "6"), st.RemainingToday)

	idx, err := c.MsigPropose(ctx, s[2], recipient, big.NewInt(1), 0, nil)
	require.NoError(t, err)
	tx, err := c.MsigGetTransaction(ctx, idx)
	require.NoError(t, err)
	require.Equal(t, s[2], tx.Proposer)
	require.False(t, tx.CanExecute)

	_, err = c.MsigExecute(ctx, s[2], idx)
	require.True(t, aerrors.Is[*aerrors.CannotExecute](err), err)
}

func TestRPCPermissions(t *testing.T) {
	ctx := context.Background()
	n := newTestNode(t, types.RevokeQuorum)
	srv := serveTestNode(t, n)

	anon := dialTestNode(t, srv, nil)

	signers, err := anon.WalletSigners(ctx)
	require.NoError(t, err)
	require.Len(t, signers, 3)

	_, err = anon.MsigPropose(ctx, n.signers[0], mock.Address(3), big.NewInt(1), 0, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing permission")

	readToken, err := n.AuthNew(ctx, api.DefaultPerms)
	require.NoError(t, err)
	reader := dialTestNode(t, srv, readToken)
	_, err = reader.WalletFund(ctx, types.NativeAsset, big.NewInt(1))
	require.Error(t, err)

	cnt, err := n.MsigGetTransactionCount(ctx)
	require.NoError(t, err)
	require.Zero(t, cnt)

	// from is taken at face value: one write token can speak for every signer
	_, err = n.WalletFund(ctx, types.NativeAsset, units(t, "1"))
	require.NoError(t, err)

	writeToken, err := n.AuthNew(ctx, []auth.Permission{api.PermRead, api.PermWrite})
	require.NoError(t, err)
	writer := dialTestNode(t, srv, writeToken)

	idx, err := writer.MsigPropose(ctx, n.signers[0], mock.Address(3), units(t, "1"), 0, nil)
	require.NoError(t, err)
	require.NoError(t, writer.MsigApprove(ctx, n.signers[1], idx))
	_, err = writer.MsigExecute(ctx, n.signers[2], idx)
	require.NoError(t, err)

	bal, err := n.WalletBalanceOf(ctx, types.NativeAsset, mock.Address(3))
	require.NoError(t, err)
	requireAmount(t, units(t, "1"), bal)
}

func TestMetricsEndpoint(t *testing.T) {
	n := newTestNode(t, types.RevokeQuorum)
	srv := serveTestNode(t, n)

	resp, err := http.Get(srv.URL + "/debug/metrics")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
