package main

import (
	"context"
	"fmt"
	"os"

	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"

	"github.com/billyjitsu/liquidation-fairy/build"
	lcli "github.com/billyjitsu/liquidation-fairy/cli"
	"github.com/billyjitsu/liquidation-fairy/lib/fairylog"
)

var log = logging.Logger("main")

func main() {
	fairylog.SetupLogLevels()

	local := []*cli.Command{
		DaemonCmd,
		initCmd,
		configCmd,
		versionCmd,
	}

	app := &cli.App{
		Name:                 "fairy",
		Usage:                "Quorum wallet with daily-limited delegated spending",
		Version:              build.UserVersion(),
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			lcli.FlagRepoPath,
		},
		Commands: append(local, lcli.Commands...),
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		log.Debugf("%+v", err)
		_, _ = fmt.Fprintf(os.Stderr, "ERROR: %s\n\n", err) // nolint:errcheck
		os.Exit(1)
	}
}

var versionCmd = &cli.Command{
	Name:  "version",
	Usage: "Print version",
	Action: func(cctx *cli.Context) error {
		napi, closer, err := lcli.GetVaultAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()

		v, err := napi.Version(lcli.ReqContext(cctx))
		if err != nil {
			return err
		}
		fmt.Println("Daemon: ", v)

		fmt.Print("Local: ")
		cli.VersionPrinter(cctx)
		return nil
	},
}
