package build

import (
	"time"

	"github.com/filecoin-project/go-address"
	"github.com/raulk/clock"
)

func init() {
	SetAddressNetwork(address.Testnet)
}

// SetAddressNetwork selects the prefix addresses are rendered with.
func SetAddressNetwork(n address.Network) {
	address.CurrentNetwork = n
}

// Clock is the global clock for the system. In standard builds,
// we use a real-time clock, which maps to the `time` package.
//
// Tests that need control of time can replace this variable with
// clock.NewMock(). Otherwise, they can leave this as-is.
var Clock = clock.New()

// DelegationWindow is the length of a delegate's spending window. The
// window restarts on the first transfer made after it has elapsed.
const DelegationWindow = 24 * time.Hour

// AssetPrecision is the number of base units in one whole unit of any
// asset handled by the wallet (18 decimals).
const AssetPrecision = 1_000_000_000_000_000_000

// DefaultAPIListenAddress is where the daemon serves the JSON-RPC API unless
// configured otherwise.
const DefaultAPIListenAddress = "/ip4/127.0.0.1/tcp/1290/http"

// APINamespace is the JSON-RPC namespace every vault method lives under.
const APINamespace = "Fairy"
