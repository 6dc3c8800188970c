package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-address"

	"github.com/billyjitsu/liquidation-fairy/chain/types"
)

// EnvPrefix prefixes environment overrides, e.g. FAIRY_API_LISTENADDRESS.
const EnvPrefix = "FAIRY"

// FromFile loads config from a specified file overriding defaults specified in
// the def parameter. If file does not exist or is empty defaults are assumed.
func FromFile(path string, def *Node) (*Node, error) {
	file, err := os.Open(path)
	switch {
	case os.IsNotExist(err):
		return applyEnv(def)
	case err != nil:
		return nil, err
	}

	defer file.Close() //nolint:errcheck // The file is RO
	return FromReader(file, def)
}

// FromReader loads config from a reader instance.
func FromReader(reader io.Reader, def *Node) (*Node, error) {
	cfg := def
	_, err := toml.NewDecoder(reader).Decode(cfg)
	if err != nil {
		return nil, err
	}

	return applyEnv(cfg)
}

func applyEnv(cfg *Node) (*Node, error) {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("processing env vars overrides: %s", err)
	}
	return cfg, nil
}

// ConfigComment renders cfg as TOML with every key line commented out.
func ConfigComment(cfg interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	_, _ = buf.WriteString("# Default config:\n")
	e := toml.NewEncoder(buf)
	if err := e.Encode(cfg); err != nil {
		return nil, xerrors.Errorf("encoding config: %w", err)
	}
	b := buf.Bytes()
	b = bytes.ReplaceAll(b, []byte("\n"), []byte("\n#"))
	b = bytes.ReplaceAll(b, []byte("#["), []byte("["))
	return b, nil
}

// WalletParams validates the wallet section and converts it.
func (w Wallet) WalletParams() (types.WalletParams, error) {
	waddr, err := address.NewFromString(w.Address)
	if err != nil {
		return types.WalletParams{}, xerrors.Errorf("parsing wallet address %q: %w", w.Address, err)
	}

	signers := make([]address.Address, 0, len(w.Signers))
	for _, s := range w.Signers {
		a, err := address.NewFromString(s)
		if err != nil {
			return types.WalletParams{}, xerrors.Errorf("parsing signer %q: %w", s, err)
		}
		signers = append(signers, a)
	}

	ss, err := types.NewSignerSet(signers, w.Threshold)
	if err != nil {
		return types.WalletParams{}, xerrors.Errorf("wallet signers: %w", err)
	}

	policy, err := types.ParseRevocationPolicy(w.RevocationPolicy)
	if err != nil {
		return types.WalletParams{}, err
	}

	return types.WalletParams{
		Address: waddr,
		Signers: ss,
		Policy:  policy,
	}, nil
}
