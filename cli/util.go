package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/hako/durafmt"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"

	"github.com/billyjitsu/liquidation-fairy/chain/types"
)

var fromFlag = &cli.StringFlag{
	Name:     "from",
	Usage:    "address acting on the wallet (a signer, or the delegate for transfers)",
	Required: true,
}

var assetFlag = &cli.StringFlag{
	Name:  "asset",
	Usage: "token address, or \"native\"",
	Value: "native",
}

func fromAddr(cctx *cli.Context) (address.Address, error) {
	from, err := address.NewFromString(cctx.String(fromFlag.Name))
	if err != nil {
		return address.Undef, xerrors.Errorf("parsing --from: %w", err)
	}
	return from, nil
}

func assetAddr(cctx *cli.Context) (address.Address, error) {
	return types.ParseAsset(cctx.String(assetFlag.Name))
}

// argAddr parses the i-th positional argument as an address.
func argAddr(cctx *cli.Context, i int, what string) (address.Address, error) {
	if cctx.Args().Len() <= i {
		return address.Undef, xerrors.Errorf("must specify %s", what)
	}
	a, err := address.NewFromString(cctx.Args().Get(i))
	if err != nil {
		return address.Undef, xerrors.Errorf("parsing %s: %w", what, err)
	}
	return a, nil
}

func argAmount(cctx *cli.Context, i int, what string) (abi.TokenAmount, error) {
	if cctx.Args().Len() <= i {
		return abi.TokenAmount{}, xerrors.Errorf("must specify %s", what)
	}
	a, err := types.ParseAmount(cctx.Args().Get(i))
	if err != nil {
		return abi.TokenAmount{}, xerrors.Errorf("parsing %s: %w", what, err)
	}
	return abi.TokenAmount(a), nil
}

func argIndex(cctx *cli.Context, i int) (uint64, error) {
	if cctx.Args().Len() <= i {
		return 0, xerrors.New("must specify transaction index")
	}
	idx, err := strconv.ParseUint(cctx.Args().Get(i), 10, 64)
	if err != nil {
		return 0, xerrors.Errorf("parsing transaction index: %w", err)
	}
	return idx, nil
}

func fmtAmount(a abi.TokenAmount) string {
	return types.Amount(types.OrZero(a)).String()
}

func fmtDuration(d time.Duration) string {
	if d <= 0 {
		return "now"
	}
	return durafmt.Parse(d.Truncate(time.Second)).LimitFirstN(2).String()
}

func fmtGrantState(active, revoked bool) string {
	switch {
	case revoked:
		return color.RedString("revoked")
	case active:
		return color.GreenString("active")
	default:
		return color.YellowString("pending")
	}
}

func fmtTxState(executed, canExecute bool) string {
	switch {
	case executed:
		return color.GreenString("executed")
	case canExecute:
		return color.YellowString("ready")
	default:
		return "pending"
	}
}

func printf(cctx *cli.Context, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cctx.App.Writer, format, args...)
}
