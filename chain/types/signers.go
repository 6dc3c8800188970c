package types

import (
	"encoding/json"

	"github.com/filecoin-project/go-address"
	"golang.org/x/xerrors"
)

// SignerSet is the fixed, ordered set of identities controlling a wallet
// together with the number of them required to act.
type SignerSet struct {
	signers   []address.Address
	threshold uint64
}

func NewSignerSet(signers []address.Address, threshold uint64) (SignerSet, error) {
	if len(signers) == 0 {
		return SignerSet{}, xerrors.New("signer set must not be empty")
	}
	if threshold == 0 || threshold > uint64(len(signers)) {
		return SignerSet{}, xerrors.Errorf("threshold %d out of range for %d signers", threshold, len(signers))
	}

	seen := make(map[address.Address]struct{}, len(signers))
	for _, s := range signers {
		if s == address.Undef {
			return SignerSet{}, xerrors.New("signer address is undefined")
		}
		if _, ok := seen[s]; ok {
			return SignerSet{}, xerrors.Errorf("duplicate signer %s", s)
		}
		seen[s] = struct{}{}
	}

	return SignerSet{
		signers:   append([]address.Address(nil), signers...),
		threshold: threshold,
	}, nil
}

func (s SignerSet) Signers() []address.Address {
	return append([]address.Address(nil), s.signers...)
}

func (s SignerSet) Threshold() uint64 {
	return s.threshold
}

func (s SignerSet) Len() int {
	return len(s.signers)
}

func (s SignerSet) IsSigner(a address.Address) bool {
	for _, si := range s.signers {
		if si == a {
			return true
		}
	}
	return false
}

// Reached reports whether the approvals meet the threshold.
func (s SignerSet) Reached(a Approvals) bool {
	return uint64(len(a)) >= s.threshold
}

type signerSetJSON struct {
	Signers   []address.Address
	Threshold uint64
}

func (s SignerSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(signerSetJSON{Signers: s.signers, Threshold: s.threshold})
}

func (s *SignerSet) UnmarshalJSON(b []byte) error {
	var raw signerSetJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	ns, err := NewSignerSet(raw.Signers, raw.Threshold)
	if err != nil {
		return xerrors.Errorf("decoding signer set: %w", err)
	}
	*s = ns
	return nil
}

// Approvals is an ordered set of signers that approved something.
type Approvals []address.Address

func (a Approvals) Has(s address.Address) bool {
	for _, ai := range a {
		if ai == s {
			return true
		}
	}
	return false
}

// With returns a new set with s appended. Callers check Has first.
func (a Approvals) With(s address.Address) Approvals {
	out := make(Approvals, 0, len(a)+1)
	out = append(out, a...)
	return append(out, s)
}
