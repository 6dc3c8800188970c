package store

import (
	"context"
	"testing"
	"time"

	ds "github.com/ipfs/go-datastore"
	ds_sync "github.com/ipfs/go-datastore/sync"
	"github.com/stretchr/testify/require"

	"github.com/billyjitsu/liquidation-fairy/chain/actors/delegation"
	"github.com/billyjitsu/liquidation-fairy/chain/actors/multisig"
	"github.com/billyjitsu/liquidation-fairy/chain/state"
	"github.com/billyjitsu/liquidation-fairy/chain/types"
	"github.com/billyjitsu/liquidation-fairy/chain/types/mock"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore(ds_sync.MutexWrap(ds.NewMapDatastore()))

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, ErrNoState)
	ok, err := store.Initialized(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	params, s := mock.WalletParams(3, 2, types.RevokeSingleSigner)
	st, err := state.New(params)
	require.NoError(t, err)
	require.NoError(t, store.Flush(ctx, st))

	flush := func(next *state.State, err error) *state.State {
		require.NoError(t, err)
		require.NoError(t, store.Flush(ctx, next))
		return next
	}

	token := mock.Address(500)
	st = st.Copy()
	require.NoError(t, st.Credit(types.NativeAsset, st.Wallet(), types.Units(10)))
	require.NoError(t, st.Credit(token, st.Wallet(), types.Units(10)))
	st = flush(st, nil)

	msig := multisig.NewActor(nil)
	st, idx, err := msig.Propose(st, now, s[0], types.NativeTransfer(mock.Address(9), types.Units(2)))
	st = flush(st, err)
	st = flush(msig.Approve(st, now, s[1], idx))
	st, _, err = msig.Execute(st, now, s[1], idx)
	st = flush(st, err)

	st, _, err = msig.Propose(st, now, s[2], types.TokenApprove(token, mock.Address(11), types.Units(4)))
	st = flush(st, err)

	deleg := delegation.NewActor()
	st = flush(deleg.SubmitGrant(st, now, s[0], token, mock.Address(12), types.Units(5)))
	st = flush(deleg.ConfirmGrant(st, now, s[1], token, mock.Address(12)))
	st = flush(deleg.Transfer(st, now, mock.Address(12), token, mock.Address(13), types.Units(1)))
	st = flush(deleg.SubmitGrant(st, now, s[0], types.NativeAsset, mock.Address(14), types.Units(1)))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)

	require.Equal(t, st.Version(), loaded.Version())
	require.Equal(t, st.Meta().NextTxIndex, loaded.Meta().NextTxIndex)
	require.Equal(t, st.Signers().Signers(), loaded.Signers().Signers())
	require.Equal(t, types.RevokeSingleSigner, loaded.Policy())

	require.Len(t, loaded.Proposals(), 2)
	p, ok := loaded.GetProposal(idx)
	require.True(t, ok)
	require.True(t, p.Executed)
	require.Equal(t, types.Approvals{s[0], s[1]}, p.Confirmations)
	require.True(t, p.ExecutedAt.Equal(now))

	require.Len(t, loaded.Grants(), 2)
	before := deleg.Status(st, now, token, mock.Address(12))
	after := deleg.Status(loaded, now, token, mock.Address(12))
	require.True(t, after.IsActive)
	require.True(t, before.SpentToday.Equals(after.SpentToday))
	require.True(t, before.WindowStart.Equal(after.WindowStart))

	native := deleg.Status(loaded, now, types.NativeAsset, mock.Address(14))
	require.False(t, native.IsActive)
	require.True(t, types.Units(1).Equals(native.DailyLimit))

	for k, v := range st.Balances() {
		require.True(t, v.Equals(loaded.Balance(k.Asset, k.Holder)), "balance %s/%s", types.AssetString(k.Asset), k.Holder)
	}
	require.True(t, types.Units(8).Equals(loaded.Balance(types.NativeAsset, loaded.Wallet())))
	require.True(t, types.Units(1).Equals(loaded.Balance(token, mock.Address(13))))
}
