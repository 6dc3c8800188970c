package types

import (
	"github.com/filecoin-project/go-address"
	"golang.org/x/xerrors"
)

// RevocationPolicy decides how many signers it takes to revoke a grant.
type RevocationPolicy string

const (
	// RevokeQuorum revokes once threshold distinct signers asked for it.
	RevokeQuorum RevocationPolicy = "quorum"
	// RevokeSingleSigner lets any one signer revoke immediately.
	RevokeSingleSigner RevocationPolicy = "single-signer"
)

func ParseRevocationPolicy(s string) (RevocationPolicy, error) {
	switch RevocationPolicy(s) {
	case "":
		return RevokeQuorum, nil
	case RevokeQuorum, RevokeSingleSigner:
		return RevocationPolicy(s), nil
	default:
		return "", xerrors.Errorf("unknown revocation policy %q (expected %q or %q)", s, RevokeQuorum, RevokeSingleSigner)
	}
}

func (p RevocationPolicy) MarshalText() ([]byte, error) {
	return []byte(p), nil
}

func (p *RevocationPolicy) UnmarshalText(b []byte) error {
	np, err := ParseRevocationPolicy(string(b))
	if err != nil {
		return err
	}
	*p = np
	return nil
}

// WalletParams are fixed when a wallet is created.
type WalletParams struct {
	Address address.Address
	Signers SignerSet
	Policy  RevocationPolicy
}
