package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/filecoin-project/go-address"

	"github.com/billyjitsu/liquidation-fairy/chain/actors/aerrors"
	"github.com/billyjitsu/liquidation-fairy/chain/types"
	"github.com/billyjitsu/liquidation-fairy/chain/types/mock"
)

func newTestState(t *testing.T) *State {
	params, _ := mock.WalletParams(3, 2, types.RevokeQuorum)
	st, err := New(params)
	require.NoError(t, err)
	return st
}

func TestNewState(t *testing.T) {
	st := newTestState(t)
	require.Equal(t, uint64(0), st.Version())
	require.Equal(t, mock.Address(100), st.Wallet())
	require.Equal(t, types.RevokeQuorum, st.Policy())
	require.True(t, st.Changes().Meta)

	params, _ := mock.WalletParams(1, 1, "")
	params.Address = address.Undef
	_, err := New(params)
	require.Error(t, err)

	params, _ = mock.WalletParams(1, 1, "bogus")
	_, err = New(params)
	require.Error(t, err)
}

func TestCopyIsolation(t *testing.T) {
	st := newTestState(t)
	require.NoError(t, st.Credit(types.NativeAsset, st.Wallet(), types.Units(10)))

	next := st.Copy()
	require.Equal(t, st.Version()+1, next.Version())
	require.False(t, next.Changes().Empty())
	require.Empty(t, next.Changes().Balances)

	idx := next.AllocTxIndex()
	next.SetProposal(&types.Proposal{Index: idx, Op: types.NativeTransfer(mock.Address(5), types.Units(1))})
	require.NoError(t, next.Transfer(types.NativeAsset, next.Wallet(), mock.Address(5), types.Units(4)))

	// the original is untouched
	require.Equal(t, uint64(0), st.NextTxIndex())
	_, ok := st.GetProposal(idx)
	require.False(t, ok)
	require.True(t, types.Units(10).Equals(st.Balance(types.NativeAsset, st.Wallet())))

	require.True(t, types.Units(6).Equals(next.Balance(types.NativeAsset, next.Wallet())))
	require.True(t, types.Units(4).Equals(next.Balance(types.NativeAsset, mock.Address(5))))
	require.Len(t, next.Changes().Balances, 2)
	require.Contains(t, next.Changes().Proposals, idx)
}

func TestGetterReturnsClone(t *testing.T) {
	st := newTestState(t)
	st.SetProposal(&types.Proposal{Index: 0, Op: types.NativeTransfer(mock.Address(5), types.Units(1))})

	p, ok := st.GetProposal(0)
	require.True(t, ok)
	p.Confirmations = p.Confirmations.With(mock.Address(1000))
	p.Executed = true

	p2, _ := st.GetProposal(0)
	require.Empty(t, p2.Confirmations)
	require.False(t, p2.Executed)
}

func TestDebitInsufficient(t *testing.T) {
	st := newTestState(t)
	token := mock.Address(77)
	require.NoError(t, st.Credit(token, st.Wallet(), types.NewInt(5)))

	err := st.Transfer(token, st.Wallet(), mock.Address(5), types.NewInt(6))
	require.ErrorIs(t, err, aerrors.ErrInsufficientFunds)
	require.True(t, types.NewInt(5).Equals(st.Balance(token, st.Wallet())))
	require.True(t, st.Balance(token, mock.Address(5)).Sign() == 0)
}

func TestRestore(t *testing.T) {
	st := newTestState(t)
	meta := st.Meta()
	meta.NextTxIndex = 1

	p := &types.Proposal{Index: 0, Op: types.NativeTransfer(mock.Address(5), types.Units(1))}
	g := &types.Grant{Asset: types.NativeAsset, Delegate: mock.Address(9), DailyLimit: types.Units(1)}
	bal := map[HoldingKey]types.BigInt{{Asset: types.NativeAsset, Holder: meta.Wallet}: types.Units(3)}

	rs, err := Restore(meta, []*types.Proposal{p}, []*types.Grant{g}, bal, nil)
	require.NoError(t, err)
	require.True(t, rs.Changes().Empty())
	require.Len(t, rs.Proposals(), 1)
	require.Len(t, rs.Grants(), 1)
	require.True(t, types.Units(3).Equals(rs.Balance(types.NativeAsset, meta.Wallet)))

	meta.NextTxIndex = 0
	_, err = Restore(meta, []*types.Proposal{p}, nil, nil, nil)
	require.Error(t, err)
}
