package node

import (
	"context"

	logging "github.com/ipfs/go-log/v2"
	"github.com/raulk/clock"
	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/billyjitsu/liquidation-fairy/api"
	"github.com/billyjitsu/liquidation-fairy/chain/stmgr"
	"github.com/billyjitsu/liquidation-fairy/chain/types"
	"github.com/billyjitsu/liquidation-fairy/chain/vm"
	"github.com/billyjitsu/liquidation-fairy/journal"
	"github.com/billyjitsu/liquidation-fairy/node/config"
	"github.com/billyjitsu/liquidation-fairy/node/impl"
	"github.com/billyjitsu/liquidation-fairy/node/modules"
	"github.com/billyjitsu/liquidation-fairy/node/modules/dtypes"
	"github.com/billyjitsu/liquidation-fairy/node/modules/helpers"
	"github.com/billyjitsu/liquidation-fairy/node/repo"
)

var log = logging.Logger("builder")

type invoke int

// Invokes are called in the order they are defined.
//
//nolint:golint
const (
	RecordInfoKey = invoke(iota)

	// daemon
	ExtractApiKey
	SetApiEndpointKey

	_nInvokes // keep this last
)

type Settings struct {
	// modules is a map of constructors for DI
	//
	// In most cases the index will be a reflect.Type of element returned by
	// the constructor
	modules map[interface{}]fx.Option

	// invokes are separate from modules as they can't be referenced by return
	// type, and must be applied in correct order
	invokes []fx.Option

	Base   bool // Base option applied
	Config bool // Config option applied
}

func defaults() []Option {
	return []Option{
		Override(new(helpers.MetricsCtx), context.Background),
		Override(new(dtypes.ShutdownChan), make(chan struct{})),
		Override(new(clock.Clock), modules.Clock),

		// journal
		Override(new(journal.DisabledEvents), modules.DisabledEvents),
		Override(new(journal.Journal), modules.OpenFilesystemJournal),

		Override(RecordInfoKey, modules.RecordInfo),
	}
}

// Base sets up the wallet engines and their ledger.
func Base() Option {
	return Options(
		func(s *Settings) error { s.Base = true; return nil },
		ApplyIf(func(s *Settings) bool { return s.Config },
			Error(xerrors.New("the Base option must be set before Config option")),
		),

		Override(new(*vm.VM), modules.VM),
		Override(new(*stmgr.StateManager), modules.StateManager),
	)
}

// ConfigVault sets up constructors based on the provided config
func ConfigVault(c *config.Node) Option {
	return Options(
		func(s *Settings) error { s.Config = true; return nil },
		Override(new(*config.Node), c),
		Override(new(types.WalletParams), modules.WalletParams),
	)
}

// Repo locks r and provides the node's datastore, secrets and config from it.
func Repo(r repo.Repo) Option {
	return func(settings *Settings) error {
		lr, err := r.Lock()
		if err != nil {
			return err
		}
		c, err := lr.Config()
		if err != nil {
			return err
		}

		return Options(
			Override(new(repo.LockedRepo), modules.LockedRepo(lr)), // module handles closing

			Override(new(dtypes.MetadataDS), modules.Datastore),
			Override(new(*dtypes.APIAlg), modules.APISecret),
			Override(new(dtypes.APIEndpoint), modules.APIEndpoint),
			Override(SetApiEndpointKey, modules.SetAPIEndpoint),

			ConfigVault(c),
		)(settings)
	}
}

func VaultAPI(out *api.Vault) Option {
	return Options(
		Base(),
		func(s *Settings) error {
			resAPI := &impl.VaultAPI{}
			s.invokes[ExtractApiKey] = fx.Populate(resAPI)
			*out = resAPI
			return nil
		},
	)
}

type StopFunc func(context.Context) error

// New builds and starts new fairy node
func New(ctx context.Context, opts ...Option) (StopFunc, error) {
	settings := Settings{
		modules: map[interface{}]fx.Option{},
		invokes: make([]fx.Option, _nInvokes),
	}

	// apply module options in the right order
	if err := Options(Options(defaults()...), Options(opts...))(&settings); err != nil {
		return nil, xerrors.Errorf("applying node options failed: %w", err)
	}

	// gather constructors for fx.Options
	ctors := make([]fx.Option, 0, len(settings.modules))
	for _, opt := range settings.modules {
		ctors = append(ctors, opt)
	}

	// fill holes in invokes for use in fx.Options
	for i, opt := range settings.invokes {
		if opt == nil {
			settings.invokes[i] = fx.Options()
		}
	}

	app := fx.New(
		fx.Options(ctors...),
		fx.Options(settings.invokes...),

		fx.NopLogger,
	)

	if err := app.Start(ctx); err != nil {
		// comment fx.NopLogger few lines above for easier debugging
		return nil, xerrors.Errorf("starting node: %w", err)
	}

	log.Info("node started")
	return app.Stop, nil
}

// In-memory / testing

// Test swaps the filesystem journal and system clock for the given ones.
func Test(clk clock.Clock, j journal.Journal) Option {
	return Options(
		Override(new(clock.Clock), clk),
		Override(new(journal.Journal), j),
	)
}
