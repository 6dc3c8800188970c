package types

import (
	"strings"

	"github.com/filecoin-project/go-address"
	"golang.org/x/xerrors"
)

// NativeAsset identifies the wallet's native currency wherever an asset
// address is expected. Any other address names a token.
var NativeAsset = address.Undef

const nativeAssetName = "native"

func IsNative(asset address.Address) bool {
	return asset == NativeAsset
}

// AssetString renders an asset for keys and display.
func AssetString(asset address.Address) string {
	if IsNative(asset) {
		return nativeAssetName
	}
	return asset.String()
}

func ParseAsset(s string) (address.Address, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, nativeAssetName) {
		return NativeAsset, nil
	}
	a, err := address.NewFromString(s)
	if err != nil {
		return address.Undef, xerrors.Errorf("parsing asset %q: %w", s, err)
	}
	return a, nil
}
