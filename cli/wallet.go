package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/billyjitsu/liquidation-fairy/chain/types"
)

var walletCmd = &cli.Command{
	Name:  "wallet",
	Usage: "Query and fund the wallet",
	Subcommands: []*cli.Command{
		walletInfoCmd,
		walletSignersCmd,
		walletIsSignerCmd,
		walletBalanceCmd,
		walletAllowanceCmd,
		walletFundCmd,
	},
}

var walletInfoCmd = &cli.Command{
	Name:  "info",
	Usage: "Print wallet parameters",
	Action: func(cctx *cli.Context) error {
		napi, closer, err := GetVaultAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()

		info, err := napi.WalletInfo(ReqContext(cctx))
		if err != nil {
			return err
		}

		printf(cctx, "Address: %s\n", info.Address)
		printf(cctx, "Balance: %s\n", fmtAmount(info.NativeBalance))
		printf(cctx, "Threshold: %d / %d\n", info.Threshold, len(info.Signers))
		printf(cctx, "Revocation: %s\n", info.RevocationPolicy)
		printf(cctx, "Transactions: %d\n", info.TransactionCount)
		printf(cctx, "State version: %d\n", info.StateVersion)
		return nil
	},
}

var walletSignersCmd = &cli.Command{
	Name:  "signers",
	Usage: "List signers",
	Action: func(cctx *cli.Context) error {
		napi, closer, err := GetVaultAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()

		signers, err := napi.WalletSigners(ReqContext(cctx))
		if err != nil {
			return err
		}
		for _, s := range signers {
			printf(cctx, "%s\n", s)
		}
		return nil
	},
}

var walletIsSignerCmd = &cli.Command{
	Name:      "is-signer",
	Usage:     "Check whether an address is a signer",
	ArgsUsage: "[address]",
	Action: func(cctx *cli.Context) error {
		napi, closer, err := GetVaultAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()

		addr, err := argAddr(cctx, 0, "address")
		if err != nil {
			return err
		}
		ok, err := napi.WalletIsSigner(ReqContext(cctx), addr)
		if err != nil {
			return err
		}
		printf(cctx, "%t\n", ok)
		return nil
	},
}

var walletBalanceCmd = &cli.Command{
	Name:      "balance",
	Usage:     "Print the balance of the wallet, or of holder",
	ArgsUsage: "[holder]",
	Flags: []cli.Flag{
		assetFlag,
	},
	Action: func(cctx *cli.Context) error {
		napi, closer, err := GetVaultAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()
		ctx := ReqContext(cctx)

		asset, err := assetAddr(cctx)
		if err != nil {
			return err
		}

		if !cctx.Args().Present() {
			bal, err := napi.WalletTokenBalance(ctx, asset)
			if err != nil {
				return err
			}
			printf(cctx, "%s %s\n", fmtAmount(bal), types.AssetString(asset))
			return nil
		}

		holder, err := argAddr(cctx, 0, "holder")
		if err != nil {
			return err
		}
		bal, err := napi.WalletBalanceOf(ctx, asset, holder)
		if err != nil {
			return err
		}
		printf(cctx, "%s %s\n", fmtAmount(bal), types.AssetString(asset))
		return nil
	},
}

var walletAllowanceCmd = &cli.Command{
	Name:      "allowance",
	Usage:     "Print how much of a token spender may move on the wallet's behalf",
	ArgsUsage: "[token spender]",
	Action: func(cctx *cli.Context) error {
		napi, closer, err := GetVaultAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()

		token, err := argAddr(cctx, 0, "token")
		if err != nil {
			return err
		}
		spender, err := argAddr(cctx, 1, "spender")
		if err != nil {
			return err
		}
		a, err := napi.WalletAllowance(ReqContext(cctx), token, spender)
		if err != nil {
			return err
		}
		printf(cctx, "%s\n", fmtAmount(a))
		return nil
	},
}

var walletFundCmd = &cli.Command{
	Name:      "fund",
	Usage:     "Credit the wallet with a deposit made outside the node",
	ArgsUsage: "[amount]",
	Flags: []cli.Flag{
		assetFlag,
	},
	Action: func(cctx *cli.Context) error {
		napi, closer, err := GetVaultAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()

		asset, err := assetAddr(cctx)
		if err != nil {
			return err
		}
		amt, err := argAmount(cctx, 0, "amount")
		if err != nil {
			return err
		}

		bal, err := napi.WalletFund(ReqContext(cctx), asset, amt)
		if err != nil {
			return err
		}
		printf(cctx, "New balance: %s %s\n", fmtAmount(bal), types.AssetString(asset))
		return nil
	},
}
