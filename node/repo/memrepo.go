package repo

import (
	"context"
	"crypto/rand"
	"os"
	"sync"

	"github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	"github.com/multiformats/go-multiaddr"
	"golang.org/x/xerrors"

	"github.com/billyjitsu/liquidation-fairy/node/config"
)

type MemRepo struct {
	api struct {
		sync.Mutex
		ma    multiaddr.Multiaddr
		token []byte
	}

	repoLock chan struct{}
	token    *byte

	datastore datastore.Batching
	secret    []byte

	// given a repo type, produce the default config
	configF func() *config.Node

	// holds the current config value
	config struct {
		sync.Mutex
		val *config.Node
	}
}

type lockedMemRepo struct {
	mem *MemRepo
	sync.RWMutex

	tempDir string
	token   *byte
}

var _ Repo = &MemRepo{}

// MemRepoOptions contains options for memory repo
type MemRepoOptions struct {
	Ds      datastore.Batching
	ConfigF func() *config.Node
	Secret  []byte
}

// NewMemory creates new memory based repo with provided options.
// opts can be nil, it will be replaced with defaults.
// Any field in opts can be nil, they will be replaced by defaults.
func NewMemory(opts *MemRepoOptions) *MemRepo {
	if opts == nil {
		opts = &MemRepoOptions{}
	}
	if opts.ConfigF == nil {
		opts.ConfigF = config.DefaultNode
	}
	if opts.Ds == nil {
		opts.Ds = dssync.MutexWrap(datastore.NewMapDatastore())
	}

	return &MemRepo{
		repoLock:  make(chan struct{}, 1),
		datastore: opts.Ds,
		secret:    opts.Secret,
		configF:   opts.ConfigF,
	}
}

func (mem *MemRepo) APIEndpoint() (multiaddr.Multiaddr, error) {
	mem.api.Lock()
	defer mem.api.Unlock()
	if mem.api.ma == nil {
		return nil, ErrNoAPIEndpoint
	}
	return mem.api.ma, nil
}

func (mem *MemRepo) APIToken() ([]byte, error) {
	mem.api.Lock()
	defer mem.api.Unlock()
	if mem.api.token == nil {
		return nil, ErrNoAPIToken
	}
	return mem.api.token, nil
}

func (mem *MemRepo) Lock() (LockedRepo, error) {
	select {
	case mem.repoLock <- struct{}{}:
	default:
		return nil, ErrRepoAlreadyLocked
	}
	mem.token = new(byte)

	return &lockedMemRepo{
		mem:   mem,
		token: mem.token,
	}, nil
}

func (lmem *lockedMemRepo) checkToken() error {
	lmem.RLock()
	defer lmem.RUnlock()
	if lmem.mem.token != lmem.token {
		return ErrClosedRepo
	}
	return nil
}

func (lmem *lockedMemRepo) Close() error {
	if err := lmem.checkToken(); err != nil {
		return err
	}
	lmem.Lock()
	defer lmem.Unlock()

	if lmem.tempDir != "" {
		if err := os.RemoveAll(lmem.tempDir); err != nil {
			return err
		}
		lmem.tempDir = ""
	}

	lmem.mem.token = nil
	lmem.mem.api.Lock()
	lmem.mem.api.ma = nil
	lmem.mem.api.Unlock()
	<-lmem.mem.repoLock // unlock
	return nil
}

// Path returns a temporary directory created on first use and removed on
// Close.
func (lmem *lockedMemRepo) Path() string {
	lmem.Lock()
	defer lmem.Unlock()

	if lmem.tempDir != "" {
		return lmem.tempDir
	}

	t, err := os.MkdirTemp(os.TempDir(), "fairy-memrepo-temp-")
	if err != nil {
		panic(err) // only used in tests, probably fine
	}
	lmem.tempDir = t
	return t
}

func (lmem *lockedMemRepo) Datastore(_ context.Context) (datastore.Batching, error) {
	if err := lmem.checkToken(); err != nil {
		return nil, err
	}
	return lmem.mem.datastore, nil
}

func (lmem *lockedMemRepo) Config() (*config.Node, error) {
	if err := lmem.checkToken(); err != nil {
		return nil, err
	}

	lmem.mem.config.Lock()
	defer lmem.mem.config.Unlock()

	if lmem.mem.config.val == nil {
		lmem.mem.config.val = lmem.mem.configF()
	}

	return lmem.mem.config.val, nil
}

func (lmem *lockedMemRepo) SetConfig(c func(*config.Node)) error {
	if err := lmem.checkToken(); err != nil {
		return err
	}

	lmem.mem.config.Lock()
	defer lmem.mem.config.Unlock()

	if lmem.mem.config.val == nil {
		lmem.mem.config.val = lmem.mem.configF()
	}

	c(lmem.mem.config.val)

	return nil
}

func (lmem *lockedMemRepo) SetAPIEndpoint(ma multiaddr.Multiaddr) error {
	if err := lmem.checkToken(); err != nil {
		return err
	}
	lmem.mem.api.Lock()
	lmem.mem.api.ma = ma
	lmem.mem.api.Unlock()
	return nil
}

func (lmem *lockedMemRepo) SetAPIToken(token []byte) error {
	if err := lmem.checkToken(); err != nil {
		return err
	}
	lmem.mem.api.Lock()
	lmem.mem.api.token = token
	lmem.mem.api.Unlock()
	return nil
}

func (lmem *lockedMemRepo) APISecret() ([]byte, error) {
	if err := lmem.checkToken(); err != nil {
		return nil, err
	}
	lmem.Lock()
	defer lmem.Unlock()

	if lmem.mem.secret == nil {
		sk := make([]byte, 32)
		if _, err := rand.Read(sk); err != nil {
			return nil, xerrors.Errorf("generating API secret: %w", err)
		}
		lmem.mem.secret = sk
	}
	return lmem.mem.secret, nil
}
