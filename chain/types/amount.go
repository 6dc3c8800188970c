package types

import (
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/xerrors"

	"github.com/billyjitsu/liquidation-fairy/build"
)

// Amount is a quantity of some asset in base units, printed in whole units.
type Amount BigInt

func (a Amount) String() string {
	if a.Int == nil {
		return "0"
	}
	r := new(big.Rat).SetFrac(a.Int, big.NewInt(build.AssetPrecision))
	if r.Sign() == 0 {
		return "0"
	}
	return strings.TrimRight(strings.TrimRight(r.FloatString(18), "0"), ".")
}

// Format keeps %s and %v in whole units; the embedded big.Int would
// otherwise print base units.
func (a Amount) Format(s fmt.State, ch rune) {
	switch ch {
	case 's', 'v':
		fmt.Fprint(s, a.String())
	default:
		a.Int.Format(s, ch)
	}
}

// ParseAmount parses a decimal number of whole units ("1.5"), or a raw
// base-unit integer when suffixed with "wei" ("1500wei").
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if raw, ok := strings.CutSuffix(strings.ToLower(s), "wei"); ok {
		v, ok := new(big.Int).SetString(strings.TrimSpace(raw), 10)
		if !ok {
			return Amount{}, xerrors.Errorf("failed to parse %q as a base unit amount", s)
		}
		if v.Sign() < 0 {
			return Amount{}, xerrors.Errorf("negative amount: %q", s)
		}
		return Amount{Int: v}, nil
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Amount{}, xerrors.Errorf("failed to parse %q as a decimal number", s)
	}
	if r.Sign() < 0 {
		return Amount{}, xerrors.Errorf("negative amount: %q", s)
	}

	r = r.Mul(r, big.NewRat(build.AssetPrecision, 1))
	if !r.IsInt() {
		return Amount{}, xerrors.Errorf("invalid amount %q: more than 18 decimal places", s)
	}

	return Amount{Int: r.Num()}, nil
}

// Units returns n whole units expressed in base units.
func Units(n uint64) BigInt {
	return BigInt{Int: new(big.Int).Mul(new(big.Int).SetUint64(n), big.NewInt(build.AssetPrecision))}
}
