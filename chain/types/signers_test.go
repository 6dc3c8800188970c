package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/filecoin-project/go-address"
)

func idAddr(t *testing.T, id uint64) address.Address {
	a, err := address.NewIDAddress(id)
	require.NoError(t, err)
	return a
}

func TestNewSignerSet(t *testing.T) {
	a, b, c := idAddr(t, 1), idAddr(t, 2), idAddr(t, 3)

	ss, err := NewSignerSet([]address.Address{a, b, c}, 2)
	require.NoError(t, err)
	require.Equal(t, 3, ss.Len())
	require.Equal(t, uint64(2), ss.Threshold())
	require.True(t, ss.IsSigner(b))
	require.False(t, ss.IsSigner(idAddr(t, 4)))
	require.Equal(t, []address.Address{a, b, c}, ss.Signers())

	bad := []struct {
		name      string
		signers   []address.Address
		threshold uint64
	}{
		{"empty", nil, 1},
		{"zero threshold", []address.Address{a}, 0},
		{"threshold too high", []address.Address{a, b}, 3},
		{"duplicate", []address.Address{a, b, a}, 2},
		{"undef", []address.Address{a, address.Undef}, 1},
	}
	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSignerSet(tc.signers, tc.threshold)
			require.Error(t, err)
		})
	}
}

func TestSignerSetJSON(t *testing.T) {
	ss, err := NewSignerSet([]address.Address{idAddr(t, 10), idAddr(t, 11)}, 1)
	require.NoError(t, err)

	b, err := json.Marshal(ss)
	require.NoError(t, err)

	var out SignerSet
	require.NoError(t, json.Unmarshal(b, &out))
	require.Equal(t, ss.Signers(), out.Signers())
	require.Equal(t, ss.Threshold(), out.Threshold())

	require.Error(t, json.Unmarshal([]byte(`{"Signers":[],"Threshold":1}`), &out))
}

func TestApprovals(t *testing.T) {
	var ap Approvals
	a := idAddr(t, 1)
	require.False(t, ap.Has(a))

	ap2 := ap.With(a)
	require.True(t, ap2.Has(a))
	require.False(t, ap.Has(a))
	require.Len(t, ap2, 1)
}

func TestOperationValidate(t *testing.T) {
	token, to := idAddr(t, 50), idAddr(t, 51)

	require.NoError(t, NativeTransfer(to, Units(1)).Validate())
	require.NoError(t, TokenTransfer(token, to, Units(1)).Validate())
	require.NoError(t, TokenApprove(token, to, Units(1)).Validate())
	require.NoError(t, Call(to, NewInt(0), 2, []byte{1}).Validate())

	require.Error(t, Operation{Kind: "bogus", Target: to}.Validate())
	require.Error(t, NativeTransfer(address.Undef, Units(1)).Validate())
	require.Error(t, TokenTransfer(token, address.Undef, Units(1)).Validate())
	require.Error(t, NativeTransfer(to, BigSub(NewInt(0), NewInt(1))).Validate())

	op := NativeTransfer(to, Units(1))
	op.Params = []byte{1}
	require.Error(t, op.Validate())
}
