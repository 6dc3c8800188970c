package config

import (
	"encoding"
	"time"

	"github.com/billyjitsu/liquidation-fairy/build"
	"github.com/billyjitsu/liquidation-fairy/chain/types"
)

// Node is the config of a fairy daemon.
type Node struct {
	API       API
	Wallet    Wallet
	Datastore Datastore
	Journal   Journal
	Metrics   Metrics
	Logging   Logging
}

// API contains configs for API endpoint
type API struct {
	// Multiaddress the JSON-RPC API listens on.
	ListenAddress string
	Timeout       Duration
}

// Wallet describes the wallet the node serves. It is read once, when the
// node first creates its state; later edits to the signer set are ignored.
type Wallet struct {
	// Address of the wallet itself, in the go-address string form.
	Address string
	Signers []string
	// Number of signers that must confirm a proposal or grant.
	Threshold uint64
	// "quorum" or "single-signer".
	RevocationPolicy string
}

type Datastore struct {
	// "leveldb", "badger" or "memory".
	Type string
}

type Journal struct {
	Enabled bool
	// Comma separated system:event pairs that are not journaled.
	DisabledEvents string
	// Number of rolled journal files to keep.
	MaxBackups int
	MaxSize    int64
}

type Metrics struct {
	Enabled   bool
	Namespace string
}

// Logging is the logging system config
type Logging struct {
	// SubsystemLevels specify per-subsystem log levels
	SubsystemLevels map[string]string
}

// DefaultNode returns the default config
func DefaultNode() *Node {
	return &Node{
		API: API{
			ListenAddress: build.DefaultAPIListenAddress,
			Timeout:       Duration(30 * time.Second),
		},
		Wallet: Wallet{
			Address:          "t0100",
			Threshold:        1,
			RevocationPolicy: string(types.RevokeQuorum),
		},
		Datastore: Datastore{
			Type: "leveldb",
		},
		Journal: Journal{
			Enabled:        true,
			DisabledEvents: "delegation:status",
			MaxBackups:     3,
			MaxSize:        1 << 30,
		},
		Metrics: Metrics{
			Enabled:   true,
			Namespace: "fairy",
		},
		Logging: Logging{
			SubsystemLevels: map[string]string{},
		},
	}
}

var _ encoding.TextMarshaler = (*Duration)(nil)
var _ encoding.TextUnmarshaler = (*Duration)(nil)

// Duration is a wrapper type for time.Duration
// for decoding and encoding from/to TOML
type Duration time.Duration

// UnmarshalText implements interface for TOML decoding
func (dur *Duration) UnmarshalText(text []byte) error {
	d, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*dur = Duration(d)
	return err
}

func (dur Duration) MarshalText() ([]byte, error) {
	d := time.Duration(dur)
	return []byte(d.String()), nil
}
