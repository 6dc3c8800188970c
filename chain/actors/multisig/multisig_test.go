package multisig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/filecoin-project/go-address"

	"github.com/billyjitsu/liquidation-fairy/chain/actors/aerrors"
	"github.com/billyjitsu/liquidation-fairy/chain/state"
	"github.com/billyjitsu/liquidation-fairy/chain/types"
	"github.com/billyjitsu/liquidation-fairy/chain/types/mock"
	"github.com/billyjitsu/liquidation-fairy/chain/vm"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T, n int, threshold uint64) (*Actor, *state.State, []address.Address) {
	params, signers := mock.WalletParams(n, threshold, types.RevokeQuorum)
	st, err := state.New(params)
	require.NoError(t, err)
	require.NoError(t, st.Credit(types.NativeAsset, st.Wallet(), types.Units(5)))
	return NewActor(nil), st, signers
}

func TestQuorumExecution(t *testing.T) {
	act, st, s := setup(t, 3, 2)
	recipient := mock.Address(9)

	st, idx, err := act.Propose(st, now, s[0], types.NativeTransfer(recipient, types.Units(1)))
	require.NoError(t, err)
	require.Equal(t, uint64(0), idx)

	// the proposer counts, but one confirmation is not quorum
	p, err := Get(st, idx)
	require.NoError(t, err)
	require.Equal(t, types.Approvals{s[0]}, p.Confirmations)
	_, _, err = act.Execute(st, now, s[0], idx)
	require.ErrorIs(t, err, aerrors.ErrCannotExecute)

	st, err = act.Approve(st, now, s[1], idx)
	require.NoError(t, err)

	_, err = act.Approve(st, now, s[1], idx)
	require.ErrorIs(t, err, aerrors.ErrAlreadyConfirmed)

	p, err = Get(st, idx)
	require.NoError(t, err)
	require.Len(t, p.Confirmations, 2)
	require.False(t, p.Executed)

	st, res, err := act.Execute(st, now, s[2], idx)
	require.NoError(t, err)
	require.Equal(t, idx, res.Index)

	p, err = Get(st, idx)
	require.NoError(t, err)
	require.True(t, p.Executed)
	require.Equal(t, now, p.ExecutedAt)
	require.True(t, types.Units(1).Equals(st.Balance(types.NativeAsset, recipient)))
	require.True(t, types.Units(4).Equals(st.Balance(types.NativeAsset, st.Wallet())))

	// exactly once
	_, _, err = act.Execute(st, now, s[0], idx)
	require.ErrorIs(t, err, aerrors.ErrCannotExecute)
	_, err = act.Approve(st, now, s[2], idx)
	require.ErrorIs(t, err, aerrors.ErrTxAlreadyExecuted)
}

func TestSignerGating(t *testing.T) {
	act, st, s := setup(t, 3, 2)
	outsider := mock.Address(42)
	op := types.NativeTransfer(mock.Address(9), types.Units(1))

	_, _, err := act.Propose(st, now, outsider, op)
	require.ErrorIs(t, err, aerrors.ErrNotAuthorizedSigner)
	require.Equal(t, uint64(0), Count(st))

	st, idx, err := act.Propose(st, now, s[0], op)
	require.NoError(t, err)

	_, err = act.Approve(st, now, outsider, idx)
	require.ErrorIs(t, err, aerrors.ErrNotAuthorizedSigner)
	_, _, err = act.Execute(st, now, outsider, idx)
	require.ErrorIs(t, err, aerrors.ErrNotAuthorizedSigner)

	_, err = act.Approve(st, now, s[1], 99)
	require.ErrorIs(t, err, aerrors.ErrTxNotFound)
	_, _, err = act.Execute(st, now, s[1], 99)
	require.ErrorIs(t, err, aerrors.ErrCannotExecute)
}

func TestIndicesAreMonotonic(t *testing.T) {
	act, st, s := setup(t, 2, 1)
	for i := uint64(0); i < 5; i++ {
		var idx uint64
		var err error
		st, idx, err = act.Propose(st, now, s[int(i)%2], types.NativeTransfer(mock.Address(9), types.NewInt(1)))
		require.NoError(t, err)
		require.Equal(t, i, idx)
	}
	require.Equal(t, uint64(5), Count(st))

	// a rejected proposal does not consume an index
	_, _, err := act.Propose(st, now, s[0], types.Operation{Kind: "bogus", Target: mock.Address(9)})
	require.ErrorIs(t, err, aerrors.ErrInvalidOperation)
	st, idx, err := act.Propose(st, now, s[0], types.NativeTransfer(mock.Address(9), types.NewInt(1)))
	require.NoError(t, err)
	require.Equal(t, uint64(5), idx)
	require.Len(t, Pending(st), 6)
}

func TestExecuteIsAtomic(t *testing.T) {
	act, st, s := setup(t, 2, 1)
	recipient := mock.Address(9)

	st, idx, err := act.Propose(st, now, s[0], types.NativeTransfer(recipient, types.Units(50)))
	require.NoError(t, err)

	before := st
	after, _, err := act.Execute(st, now, s[0], idx)
	require.ErrorIs(t, err, aerrors.ErrInsufficientFunds)
	require.Same(t, before, after)

	p, err := Get(st, idx)
	require.NoError(t, err)
	require.False(t, p.Executed)
	require.True(t, st.Balance(types.NativeAsset, recipient).Sign() == 0)

	// funding the wallet makes the same proposal executable
	funded := st.Copy()
	require.NoError(t, funded.Credit(types.NativeAsset, funded.Wallet(), types.Units(100)))
	funded, _, err = act.Execute(funded, now, s[1], idx)
	require.NoError(t, err)
	require.True(t, types.Units(50).Equals(funded.Balance(types.NativeAsset, recipient)))
}

func TestExecuteCallAndToken(t *testing.T) {
	inv := vm.NewInvoker()
	callee := mock.Address(700)
	calls := 0
	inv.Register(callee, vm.Methods{
		5: func(rt *vm.Runtime, params []byte) ([]byte, error) {
			calls++
			return params, nil
		},
	})

	params, s := mock.WalletParams(1, 1, types.RevokeQuorum)
	st, err := state.New(params)
	require.NoError(t, err)
	token := mock.Address(800)
	require.NoError(t, st.Credit(token, st.Wallet(), types.Units(3)))

	act := NewActor(vm.New(inv))

	st, idx, err := act.Propose(st, now, s[0], types.Call(callee, types.NewInt(0), 5, []byte("swap")))
	require.NoError(t, err)
	st, res, err := act.Execute(st, now, s[0], idx)
	require.NoError(t, err)
	require.Equal(t, []byte("swap"), res.Return)
	require.Equal(t, 1, calls)

	st, idx, err = act.Propose(st, now, s[0], types.TokenTransfer(token, mock.Address(9), types.Units(2)))
	require.NoError(t, err)
	st, _, err = act.Execute(st, now, s[0], idx)
	require.NoError(t, err)
	require.True(t, types.Units(1).Equals(st.Balance(token, st.Wallet())))
	require.True(t, types.Units(2).Equals(st.Balance(token, mock.Address(9))))
}
