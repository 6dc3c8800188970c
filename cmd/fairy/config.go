package main

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	lcli "github.com/billyjitsu/liquidation-fairy/cli"
	"github.com/billyjitsu/liquidation-fairy/node/config"
	"github.com/billyjitsu/liquidation-fairy/node/repo"
)

var configCmd = &cli.Command{
	Name:  "config",
	Usage: "Manage node config",
	Subcommands: []*cli.Command{
		configDefaultCmd,
		configShowCmd,
	},
}

var configDefaultCmd = &cli.Command{
	Name:  "default",
	Usage: "Print default node config",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "no-comment",
			Usage: "don't comment default values",
		},
	},
	Action: func(cctx *cli.Context) error {
		c := config.DefaultNode()

		if cctx.Bool("no-comment") {
			buf := new(bytes.Buffer)
			_, _ = buf.WriteString("# Default config:\n")
			e := toml.NewEncoder(buf)
			if err := e.Encode(c); err != nil {
				return xerrors.Errorf("encoding default config: %w", err)
			}

			fmt.Println(buf.String())
			return nil
		}

		cb, err := config.ConfigComment(c)
		if err != nil {
			return err
		}

		fmt.Println(string(cb))

		return nil
	},
}

var configShowCmd = &cli.Command{
	Name:  "show",
	Usage: "Print the repo config with environment overrides applied",
	Action: func(cctx *cli.Context) error {
		r, err := repo.NewFS(cctx.String(lcli.FlagRepoPath.Name))
		if err != nil {
			return err
		}

		ok, err := r.Exists()
		if err != nil {
			return err
		}
		if !ok {
			return xerrors.Errorf("repo not initialized")
		}

		lr, err := r.Lock()
		if err != nil {
			return xerrors.Errorf("locking repo (is the daemon running?): %w", err)
		}
		defer lr.Close() //nolint:errcheck

		c, err := lr.Config()
		if err != nil {
			return xerrors.Errorf("getting node config: %w", err)
		}

		buf := new(bytes.Buffer)
		if err := toml.NewEncoder(buf).Encode(c); err != nil {
			return xerrors.Errorf("encoding config: %w", err)
		}
		fmt.Print(buf.String())
		return nil
	},
}
