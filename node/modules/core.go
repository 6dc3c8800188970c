package modules

import (
	"context"

	"github.com/gbrlsnchs/jwt/v3"
	logging "github.com/ipfs/go-log/v2"
	"github.com/multiformats/go-multiaddr"
	"github.com/raulk/clock"
	"go.opencensus.io/stats"
	"go.opencensus.io/tag"
	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-jsonrpc/auth"

	"github.com/billyjitsu/liquidation-fairy/api"
	"github.com/billyjitsu/liquidation-fairy/build"
	"github.com/billyjitsu/liquidation-fairy/chain/stmgr"
	"github.com/billyjitsu/liquidation-fairy/chain/store"
	"github.com/billyjitsu/liquidation-fairy/chain/types"
	"github.com/billyjitsu/liquidation-fairy/chain/vm"
	"github.com/billyjitsu/liquidation-fairy/journal"
	"github.com/billyjitsu/liquidation-fairy/journal/fsjournal"
	"github.com/billyjitsu/liquidation-fairy/metrics"
	"github.com/billyjitsu/liquidation-fairy/node/config"
	"github.com/billyjitsu/liquidation-fairy/node/modules/dtypes"
	"github.com/billyjitsu/liquidation-fairy/node/modules/helpers"
	"github.com/billyjitsu/liquidation-fairy/node/repo"
)

var log = logging.Logger("modules")

func LockedRepo(lr repo.LockedRepo) func(lc fx.Lifecycle) repo.LockedRepo {
	return func(lc fx.Lifecycle) repo.LockedRepo {
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				return lr.Close()
			},
		})

		return lr
	}
}

func Config(lr repo.LockedRepo) (*config.Node, error) {
	return lr.Config()
}

type jwtPayload struct {
	Allow []auth.Permission
}

// APISecret loads the JWT key and stores an admin token for the local CLI.
func APISecret(lr repo.LockedRepo) (*dtypes.APIAlg, error) {
	key, err := lr.APISecret()
	if err != nil {
		return nil, xerrors.Errorf("couldn't get JWT secret: %w", err)
	}
	alg := jwt.NewHS256(key)

	// TODO: make this configurable
	p := jwtPayload{
		Allow: api.AllPermissions,
	}

	cliToken, err := jwt.Sign(&p, alg)
	if err != nil {
		return nil, err
	}

	if err := lr.SetAPIToken(cliToken); err != nil {
		return nil, err
	}

	return (*dtypes.APIAlg)(alg), nil
}

func APIEndpoint(cfg *config.Node) (dtypes.APIEndpoint, error) {
	ma, err := multiaddr.NewMultiaddr(cfg.API.ListenAddress)
	if err != nil {
		return nil, xerrors.Errorf("parsing API.ListenAddress: %w", err)
	}
	return dtypes.APIEndpoint(ma), nil
}

func SetAPIEndpoint(lr repo.LockedRepo, e dtypes.APIEndpoint) error {
	return lr.SetAPIEndpoint(multiaddr.Multiaddr(e))
}

func Datastore(mctx helpers.MetricsCtx, lc fx.Lifecycle, lr repo.LockedRepo) (dtypes.MetadataDS, error) {
	ctx := helpers.LifecycleCtx(mctx, lc)
	return lr.Datastore(ctx)
}

func Clock() clock.Clock {
	return build.Clock
}

// DisabledEvents combines the config's disabled journal events with the
// FAIRY_JOURNAL_DISABLED_EVENTS override.
func DisabledEvents(cfg *config.Node) (journal.DisabledEvents, error) {
	disabled, err := journal.ParseDisabledEvents(cfg.Journal.DisabledEvents)
	if err != nil {
		return nil, xerrors.Errorf("parsing Journal.DisabledEvents: %w", err)
	}
	return journal.EnvDisabledEvents(disabled), nil
}

// OpenFilesystemJournal constructs a rolling filesystem journal, with a
// lifecycle hook to close the journal when the node shuts down.
func OpenFilesystemJournal(lr repo.LockedRepo, lc fx.Lifecycle, clk clock.Clock, cfg *config.Node, disabled journal.DisabledEvents) (journal.Journal, error) {
	if !cfg.Journal.Enabled {
		log.Info("journal disabled")
		return journal.NilJournal(), nil
	}

	jrnl, err := fsjournal.OpenFSJournal(lr.Path(), clk, disabled, fsjournal.Options{
		SizeLimit: cfg.Journal.MaxSize,
		Keep:      cfg.Journal.MaxBackups,
	})
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error { return jrnl.Close() },
	})

	return jrnl, nil
}

func WalletParams(cfg *config.Node) (types.WalletParams, error) {
	return cfg.Wallet.WalletParams()
}

func VM() *vm.VM {
	return vm.New(vm.NewInvoker())
}

func StateManager(mctx helpers.MetricsCtx, lc fx.Lifecycle, ds dtypes.MetadataDS, params types.WalletParams, clk clock.Clock, j journal.Journal, v *vm.VM) (*stmgr.StateManager, error) {
	ctx := helpers.LifecycleCtx(mctx, lc)
	return stmgr.NewStateManager(ctx, store.NewStore(ds), params, clk, j, v)
}

// RecordInfo tags the info metric with the build version.
func RecordInfo(mctx helpers.MetricsCtx) error {
	ctx, err := tag.New(mctx,
		tag.Insert(metrics.Version, build.BuildVersion),
		tag.Insert(metrics.Commit, build.CurrentCommit),
	)
	if err != nil {
		return err
	}
	stats.Record(ctx, metrics.FairyInfo.M(1))
	return nil
}
