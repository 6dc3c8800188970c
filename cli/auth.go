package cli

import (
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-jsonrpc/auth"

	"github.com/billyjitsu/liquidation-fairy/api"
)

var authCmd = &cli.Command{
	Name:  "auth",
	Usage: "Manage RPC permissions",
	Subcommands: []*cli.Command{
		authCreateToken,
		authAPIInfoToken,
	},
}

func permsUpTo(cctx *cli.Context) ([]auth.Permission, error) {
	if !cctx.IsSet("perm") {
		return nil, xerrors.New("--perm flag not set")
	}

	perm := cctx.String("perm")
	idx := 0
	for i, p := range api.AllPermissions {
		if auth.Permission(perm) == p {
			idx = i + 1
		}
	}

	if idx == 0 {
		return nil, xerrors.Errorf("--perm flag has to be one of: %s", api.AllPermissions)
	}

	// slice on [:idx] so for example: 'write' gives you [read, write]
	return api.AllPermissions[:idx], nil
}

var permFlag = &cli.StringFlag{
	Name:  "perm",
	Usage: "permission to assign to the token, one of: read, write, admin",
}

var authCreateToken = &cli.Command{
	Name:  "create-token",
	Usage: "Create token",
	Flags: []cli.Flag{
		permFlag,
	},
	Action: func(cctx *cli.Context) error {
		napi, closer, err := GetVaultAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()

		perms, err := permsUpTo(cctx)
		if err != nil {
			return err
		}

		token, err := napi.AuthNew(ReqContext(cctx), perms)
		if err != nil {
			return err
		}

		printf(cctx, "%s\n", token)
		return nil
	},
}

var authAPIInfoToken = &cli.Command{
	Name:  "api-info",
	Usage: "Get token with API info required to connect to this node",
	Flags: []cli.Flag{
		permFlag,
	},
	Action: func(cctx *cli.Context) error {
		napi, closer, err := GetVaultAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()

		perms, err := permsUpTo(cctx)
		if err != nil {
			return err
		}

		token, err := napi.AuthNew(ReqContext(cctx), perms)
		if err != nil {
			return err
		}

		ainfo, err := GetAPIInfo(cctx)
		if err != nil {
			return xerrors.Errorf("could not get API info: %w", err)
		}

		printf(cctx, "%s=%s:%s\n", APIInfoEnv, token, ainfo.Addr)
		return nil
	},
}
