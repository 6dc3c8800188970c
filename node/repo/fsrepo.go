package repo

import (
	"bytes"
	"context"
	"crypto/rand"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/ipfs/go-datastore"
	fslock "github.com/ipfs/go-fs-lock"
	logging "github.com/ipfs/go-log/v2"
	"github.com/mitchellh/go-homedir"
	"github.com/multiformats/go-multiaddr"
	"go.uber.org/multierr"
	"golang.org/x/xerrors"

	"github.com/billyjitsu/liquidation-fairy/node/config"
)

const (
	fsAPI       = "api"
	fsAPIToken  = "token"
	fsConfig    = "config.toml"
	fsDatastore = "datastore"
	fsLock      = "repo.lock"
	fsKeystore  = "keystore"

	jwtSecretName = "auth-jwt-private"
)

var log = logging.Logger("repo")

var ErrRepoExists = xerrors.New("repo exists")

// FsRepo is struct for repo, use NewFS to create
type FsRepo struct {
	path       string
	configPath string
}

var _ Repo = &FsRepo{}

// NewFS creates a repo instance based on a path on file system
func NewFS(path string) (*FsRepo, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	return &FsRepo{
		path:       path,
		configPath: filepath.Join(path, fsConfig),
	}, nil
}

func (fsr *FsRepo) SetConfigPath(cfgPath string) {
	fsr.configPath = cfgPath
}

func (fsr *FsRepo) Path() string {
	return fsr.path
}

func (fsr *FsRepo) Exists() (bool, error) {
	_, err := os.Stat(filepath.Join(fsr.path, fsKeystore))
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

// Init creates the repo directory with a commented default config. With a
// non-nil cfg the config is written uncommented instead.
func (fsr *FsRepo) Init(cfg *config.Node) error {
	exist, err := fsr.Exists()
	if err != nil {
		return err
	}
	if exist {
		return ErrRepoExists
	}

	log.Infof("Initializing repo at '%s'", fsr.path)
	err = os.MkdirAll(fsr.path, 0755) //nolint: gosec
	if err != nil && !os.IsExist(err) {
		return err
	}

	if err := fsr.initConfig(cfg); err != nil {
		return xerrors.Errorf("init config: %w", err)
	}

	return os.Mkdir(filepath.Join(fsr.path, fsKeystore), 0700)
}

func (fsr *FsRepo) initConfig(cfg *config.Node) error {
	_, err := os.Stat(fsr.configPath)
	if err == nil {
		// exists
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	var b []byte
	if cfg != nil {
		buf := new(bytes.Buffer)
		if err := toml.NewEncoder(buf).Encode(cfg); err != nil {
			return xerrors.Errorf("encoding config: %w", err)
		}
		b = buf.Bytes()
	} else {
		b, err = config.ConfigComment(config.DefaultNode())
		if err != nil {
			return xerrors.Errorf("comment: %w", err)
		}
	}

	if err := os.WriteFile(fsr.configPath, b, 0644); err != nil {
		return xerrors.Errorf("write config: %w", err)
	}
	return nil
}

// APIEndpoint returns endpoint of API in this repo
func (fsr *FsRepo) APIEndpoint() (multiaddr.Multiaddr, error) {
	p := filepath.Join(fsr.path, fsAPI)

	data, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return nil, ErrNoAPIEndpoint
	} else if err != nil {
		return nil, xerrors.Errorf("failed to read %q: %w", p, err)
	}

	apima, err := multiaddr.NewMultiaddr(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, err
	}
	return apima, nil
}

func (fsr *FsRepo) APIToken() ([]byte, error) {
	p := filepath.Join(fsr.path, fsAPIToken)

	tb, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return nil, ErrNoAPIToken
	} else if err != nil {
		return nil, err
	}

	return bytes.TrimSpace(tb), nil
}

// Lock acquires exclusive lock on this repo
func (fsr *FsRepo) Lock() (LockedRepo, error) {
	locked, err := fslock.Locked(fsr.path, fsLock)
	if err != nil {
		return nil, xerrors.Errorf("could not check lock status: %w", err)
	}
	if locked {
		return nil, ErrRepoAlreadyLocked
	}

	closer, err := fslock.Lock(fsr.path, fsLock)
	if err != nil {
		return nil, xerrors.Errorf("could not lock the repo: %w", err)
	}
	return &fsLockedRepo{
		path:       fsr.path,
		configPath: fsr.configPath,
		closer:     closer,
	}, nil
}

type fsLockedRepo struct {
	path       string
	configPath string
	closer     io.Closer

	ds     datastore.Batching
	dsErr  error
	dsOnce sync.Once

	configLk sync.Mutex
	secretLk sync.Mutex
}

func (fsr *fsLockedRepo) Path() string {
	return fsr.path
}

func (fsr *fsLockedRepo) Close() error {
	var err error
	if rerr := os.Remove(fsr.join(fsAPI)); rerr != nil && !os.IsNotExist(rerr) {
		err = multierr.Append(err, xerrors.Errorf("could not remove API file: %w", rerr))
	}
	if fsr.ds != nil {
		if cerr := fsr.ds.Close(); cerr != nil {
			err = multierr.Append(err, xerrors.Errorf("could not close datastore: %w", cerr))
		}
	}

	if fsr.closer != nil {
		err = multierr.Append(err, fsr.closer.Close())
		fsr.closer = nil
	}
	return err
}

// join joins path elements with fsr.path
func (fsr *fsLockedRepo) join(paths ...string) string {
	return filepath.Join(append([]string{fsr.path}, paths...)...)
}

func (fsr *fsLockedRepo) stillValid() error {
	if fsr.closer == nil {
		return ErrClosedRepo
	}
	return nil
}

func (fsr *fsLockedRepo) Datastore(ctx context.Context) (datastore.Batching, error) {
	if err := fsr.stillValid(); err != nil {
		return nil, err
	}

	fsr.dsOnce.Do(func() {
		cfg, err := fsr.Config()
		if err != nil {
			fsr.dsErr = err
			return
		}
		fsr.ds, fsr.dsErr = openDatastore(cfg.Datastore.Type, fsr.join(fsDatastore))
	})

	return fsr.ds, fsr.dsErr
}

func (fsr *fsLockedRepo) Config() (*config.Node, error) {
	fsr.configLk.Lock()
	defer fsr.configLk.Unlock()

	return fsr.loadConfigFromDisk()
}

func (fsr *fsLockedRepo) loadConfigFromDisk() (*config.Node, error) {
	return config.FromFile(fsr.configPath, config.DefaultNode())
}

func (fsr *fsLockedRepo) SetConfig(c func(*config.Node)) error {
	if err := fsr.stillValid(); err != nil {
		return err
	}

	fsr.configLk.Lock()
	defer fsr.configLk.Unlock()

	cfg, err := fsr.loadConfigFromDisk()
	if err != nil {
		return err
	}

	// mutate in-memory representation of config
	c(cfg)

	// buffer into which we write TOML bytes
	buf := new(bytes.Buffer)

	// encode now-mutated config as TOML and write to buffer
	err = toml.NewEncoder(buf).Encode(cfg)
	if err != nil {
		return err
	}

	// write buffer of TOML bytes to config file
	return os.WriteFile(fsr.configPath, buf.Bytes(), 0644)
}

func (fsr *fsLockedRepo) SetAPIEndpoint(ma multiaddr.Multiaddr) error {
	if err := fsr.stillValid(); err != nil {
		return err
	}
	return os.WriteFile(fsr.join(fsAPI), []byte(ma.String()), 0644)
}

func (fsr *fsLockedRepo) SetAPIToken(token []byte) error {
	if err := fsr.stillValid(); err != nil {
		return err
	}
	return os.WriteFile(fsr.join(fsAPIToken), token, 0600)
}

var kstrPermissionMsg = "permissions of key: '%s' are too relaxed, " +
	"required: 0600, got: %#o"

func (fsr *fsLockedRepo) APISecret() ([]byte, error) {
	if err := fsr.stillValid(); err != nil {
		return nil, err
	}

	fsr.secretLk.Lock()
	defer fsr.secretLk.Unlock()

	keyPath := fsr.join(fsKeystore, jwtSecretName)
	fstat, err := os.Stat(keyPath)
	switch {
	case os.IsNotExist(err):
		log.Warn("Generating new API secret")

		sk := make([]byte, 32)
		if _, err := rand.Read(sk); err != nil {
			return nil, xerrors.Errorf("generating API secret: %w", err)
		}
		if err := os.MkdirAll(fsr.join(fsKeystore), 0700); err != nil {
			return nil, err
		}
		if err := os.WriteFile(keyPath, sk, 0600); err != nil {
			return nil, xerrors.Errorf("writing API secret: %w", err)
		}
		return sk, nil
	case err != nil:
		return nil, xerrors.Errorf("opening key '%s': %w", jwtSecretName, err)
	}

	if fstat.Mode()&0077 != 0 {
		return nil, xerrors.Errorf(kstrPermissionMsg, jwtSecretName, fstat.Mode())
	}

	sk, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, xerrors.Errorf("reading key '%s': %w", jwtSecretName, err)
	}
	return sk, nil
}
