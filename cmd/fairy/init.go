package main

import (
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	lcli "github.com/billyjitsu/liquidation-fairy/cli"
	"github.com/billyjitsu/liquidation-fairy/node/config"
	"github.com/billyjitsu/liquidation-fairy/node/repo"
)

var initCmd = &cli.Command{
	Name:  "init",
	Usage: "Initialize a fairy repo with the wallet's signer set",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "wallet",
			Usage: "address of the wallet itself",
			Value: config.DefaultNode().Wallet.Address,
		},
		&cli.StringSliceFlag{
			Name:     "signer",
			Usage:    "signer address, repeat for each signer",
			Required: true,
		},
		&cli.Uint64Flag{
			Name:  "threshold",
			Usage: "confirmations required; defaults to all signers",
		},
		&cli.StringFlag{
			Name:  "revocation",
			Usage: "who can revoke a grant: quorum or single-signer",
			Value: "quorum",
		},
		&cli.StringFlag{
			Name:  "datastore",
			Usage: "ledger backend: leveldb, badger or memory",
			Value: config.DefaultNode().Datastore.Type,
		},
	},
	Action: func(cctx *cli.Context) error {
		cfg := config.DefaultNode()
		cfg.Wallet.Address = cctx.String("wallet")
		cfg.Wallet.Signers = cctx.StringSlice("signer")
		cfg.Wallet.Threshold = cctx.Uint64("threshold")
		if cfg.Wallet.Threshold == 0 {
			cfg.Wallet.Threshold = uint64(len(cfg.Wallet.Signers))
		}
		cfg.Wallet.RevocationPolicy = cctx.String("revocation")
		cfg.Datastore.Type = cctx.String("datastore")

		// fail before touching the disk
		if _, err := cfg.Wallet.WalletParams(); err != nil {
			return xerrors.Errorf("invalid wallet parameters: %w", err)
		}

		r, err := repo.NewFS(cctx.String(lcli.FlagRepoPath.Name))
		if err != nil {
			return xerrors.Errorf("opening fs repo: %w", err)
		}

		if err := r.Init(cfg); err != nil {
			if err == repo.ErrRepoExists {
				return xerrors.Errorf("repo at '%s' is already initialized", r.Path())
			}
			return xerrors.Errorf("initializing repo: %w", err)
		}

		log.Infow("initialized repo", "path", r.Path(), "signers", len(cfg.Wallet.Signers), "threshold", cfg.Wallet.Threshold)
		return nil
	},
}
