package repo

import (
	"context"

	"github.com/ipfs/go-datastore"
	"github.com/multiformats/go-multiaddr"
	"golang.org/x/xerrors"

	"github.com/billyjitsu/liquidation-fairy/node/config"
)

var (
	ErrNoAPIEndpoint     = xerrors.New("API not running (no endpoint)")
	ErrNoAPIToken        = xerrors.New("API token not set")
	ErrRepoAlreadyLocked = xerrors.New("repo is already locked (fairy daemon already running)")
	ErrClosedRepo        = xerrors.New("repo is no longer open")
)

type Repo interface {
	// APIEndpoint returns multiaddress for communication with the daemon API
	APIEndpoint() (multiaddr.Multiaddr, error)

	// APIToken returns JWT API Token for use in operations that require auth
	APIToken() ([]byte, error)

	// Lock locks the repo for exclusive use.
	Lock() (LockedRepo, error)
}

type LockedRepo interface {
	// Close closes repo and removes lock.
	Close() error

	// Path returns the repo's directory. Components that keep files next to
	// the datastore, such as the journal, write under it.
	Path() string

	// Datastore returns the ledger datastore, opened with the backend the
	// config names.
	Datastore(ctx context.Context) (datastore.Batching, error)

	// Returns config in this repo
	Config() (*config.Node, error)
	SetConfig(func(*config.Node)) error

	// SetAPIEndpoint sets the endpoint of the current API
	// so it can be read by API clients
	SetAPIEndpoint(multiaddr.Multiaddr) error

	// SetAPIToken sets JWT API Token for CLI
	SetAPIToken([]byte) error

	// APISecret returns the HMAC key API tokens are signed with, creating
	// it on first use.
	APISecret() ([]byte, error)
}
