package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/billyjitsu/liquidation-fairy/chain/types"
)

func TestDecodeNothing(t *testing.T) {
	cfg, err := FromReader(bytes.NewReader(nil), DefaultNode())
	require.NoError(t, err)
	require.Equal(t, DefaultNode(), cfg, "config from empty file should be the same as default")

	cfg, err = FromFile(filepath.Join(t.TempDir(), "config.toml"), DefaultNode())
	require.NoError(t, err)
	require.Equal(t, DefaultNode(), cfg, "config from not existing file should be the same as default")
}

func TestParitalConfig(t *testing.T) {
	cfgString := `
		[API]
		Timeout = "10s"
		[Wallet]
		Signers = ["t01000", "t01001", "t01002"]
		Threshold = 2
		RevocationPolicy = "single-signer"
		`
	expected := DefaultNode()
	expected.API.Timeout = Duration(10 * time.Second)
	expected.Wallet.Signers = []string{"t01000", "t01001", "t01002"}
	expected.Wallet.Threshold = 2
	expected.Wallet.RevocationPolicy = "single-signer"

	cfg, err := FromReader(bytes.NewReader([]byte(cfgString)), DefaultNode())
	require.NoError(t, err)
	require.Equal(t, expected, cfg)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(cfgString), 0644))
	cfg, err = FromFile(path, DefaultNode())
	require.NoError(t, err)
	require.Equal(t, expected, cfg)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("FAIRY_API_LISTENADDRESS", "/ip4/0.0.0.0/tcp/9999/http")
	t.Setenv("FAIRY_WALLET_THRESHOLD", "3")

	cfg, err := FromReader(bytes.NewReader(nil), DefaultNode())
	require.NoError(t, err)
	require.Equal(t, "/ip4/0.0.0.0/tcp/9999/http", cfg.API.ListenAddress)
	require.Equal(t, uint64(3), cfg.Wallet.Threshold)
}

func TestConfigCommentRoundTrip(t *testing.T) {
	b, err := ConfigComment(DefaultNode())
	require.NoError(t, err)
	require.Contains(t, string(b), "[API]")
	require.Contains(t, string(b), "ListenAddress")
	require.NotContains(t, string(b), "\nListenAddress")

	// a fully commented file decodes to the defaults
	cfg, err := FromReader(bytes.NewReader(b), DefaultNode())
	require.NoError(t, err)
	require.Equal(t, DefaultNode(), cfg)
}

func TestWalletParams(t *testing.T) {
	w := Wallet{
		Address:   "t0100",
		Signers:   []string{"t01000", "t01001"},
		Threshold: 2,
	}
	p, err := w.WalletParams()
	require.NoError(t, err)
	require.Equal(t, types.RevokeQuorum, p.Policy)
	require.Equal(t, uint64(2), p.Signers.Threshold())
	require.Equal(t, "t0100", p.Address.String())

	bad := w
	bad.Signers = nil
	_, err = bad.WalletParams()
	require.Error(t, err)

	bad = w
	bad.Signers = []string{"t01000", "nope"}
	_, err = bad.WalletParams()
	require.Error(t, err)

	bad = w
	bad.RevocationPolicy = "anyone"
	_, err = bad.WalletParams()
	require.Error(t, err)
}
