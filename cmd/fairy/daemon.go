package main

import (
	"context"
	"time"

	"github.com/multiformats/go-multiaddr"
	"github.com/urfave/cli/v2"
	"go.opencensus.io/stats/view"
	"golang.org/x/xerrors"

	"github.com/billyjitsu/liquidation-fairy/api"
	lcli "github.com/billyjitsu/liquidation-fairy/cli"
	"github.com/billyjitsu/liquidation-fairy/lib/fairylog"
	"github.com/billyjitsu/liquidation-fairy/metrics"
	"github.com/billyjitsu/liquidation-fairy/node"
	"github.com/billyjitsu/liquidation-fairy/node/config"
	"github.com/billyjitsu/liquidation-fairy/node/modules/dtypes"
	"github.com/billyjitsu/liquidation-fairy/node/repo"
)

// DaemonCmd is the `fairy daemon` command
var DaemonCmd = &cli.Command{
	Name:  "daemon",
	Usage: "Start a fairy daemon process",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "api",
			Usage: "override the API listen multiaddr from the config",
		},
	},
	Action: func(cctx *cli.Context) error {
		ctx := context.Background()

		r, err := repo.NewFS(cctx.String(lcli.FlagRepoPath.Name))
		if err != nil {
			return xerrors.Errorf("opening fs repo: %w", err)
		}

		ok, err := r.Exists()
		if err != nil {
			return err
		}
		if !ok {
			return xerrors.Errorf("repo at '%s' is not initialized, run 'fairy init' to set it up", r.Path())
		}

		if cctx.IsSet("api") {
			lr, err := r.Lock()
			if err != nil {
				return err
			}
			err = lr.SetConfig(func(c *config.Node) {
				c.API.ListenAddress = cctx.String("api")
			})
			if cerr := lr.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return xerrors.Errorf("setting api listen address: %w", err)
			}
		}

		if err := view.Register(metrics.DefaultViews...); err != nil {
			return xerrors.Errorf("registering metric views: %w", err)
		}

		shutdownChan := make(chan struct{})

		var (
			vapi     api.Vault
			endpoint dtypes.APIEndpoint
			cfg      *config.Node
		)
		stop, err := node.New(ctx,
			node.VaultAPI(&vapi),
			node.Repo(r),
			node.Override(new(dtypes.ShutdownChan), shutdownChan),
			node.Override(node.SetApiEndpointKey, func(lr repo.LockedRepo, e dtypes.APIEndpoint, c *config.Node) error {
				endpoint, cfg = e, c
				return lr.SetAPIEndpoint(multiaddr.Multiaddr(e))
			}),
		)
		if err != nil {
			return xerrors.Errorf("initializing node: %w", err)
		}

		if err := fairylog.SetSubsystemLevels(cfg.Logging.SubsystemLevels); err != nil {
			return err
		}

		h, err := node.VaultHandler(vapi, true, cfg.Metrics)
		if err != nil {
			return xerrors.Errorf("failed to instantiate rpc handler: %w", err)
		}

		rpcStopper, err := node.ServeRPC(h, "fairy-daemon", multiaddr.Multiaddr(endpoint), time.Duration(cfg.API.Timeout))
		if err != nil {
			return xerrors.Errorf("failed to start json-rpc endpoint: %s", err)
		}

		// Monitor for shutdown.
		finishCh := node.MonitorShutdown(shutdownChan,
			node.ShutdownHandler{Component: "rpc server", StopFunc: rpcStopper},
			node.ShutdownHandler{Component: "node", StopFunc: stop},
		)
		<-finishCh // fires when shutdown is complete.

		return nil
	},
}
