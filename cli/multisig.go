package cli

import (
	"encoding/hex"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-state-types/abi"

	"github.com/billyjitsu/liquidation-fairy/api"
	"github.com/billyjitsu/liquidation-fairy/chain/types"
)

var multisigCmd = &cli.Command{
	Name:  "msig",
	Usage: "Interact with the quorum wallet",
	Subcommands: []*cli.Command{
		msigProposeCmd,
		msigProposeTokenCmd,
		msigApproveCmd,
		msigExecuteCmd,
		msigInspectCmd,
		msigCountCmd,
	},
}

var msigProposeCmd = &cli.Command{
	Name:      "propose",
	Usage:     "Propose sending value, optionally with a method call",
	ArgsUsage: "[destination value [methodNum methodParams]]",
	Flags: []cli.Flag{
		fromFlag,
	},
	Action: func(cctx *cli.Context) error {
		napi, closer, err := GetVaultAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()
		ctx := ReqContext(cctx)

		if cctx.Args().Len() != 2 && cctx.Args().Len() != 4 {
			return xerrors.New("must pass destination and value, and optionally method and params")
		}

		from, err := fromAddr(cctx)
		if err != nil {
			return err
		}
		dest, err := argAddr(cctx, 0, "destination")
		if err != nil {
			return err
		}
		value, err := argAmount(cctx, 1, "value")
		if err != nil {
			return err
		}

		var method uint64
		var params []byte
		if cctx.Args().Len() == 4 {
			method, err = argIndex(cctx, 2)
			if err != nil {
				return xerrors.Errorf("parsing method: %w", err)
			}
			params, err = hex.DecodeString(cctx.Args().Get(3))
			if err != nil {
				return xerrors.Errorf("decoding params: %w", err)
			}
		}

		idx, err := napi.MsigPropose(ctx, from, dest, value, abi.MethodNum(method), params)
		if err != nil {
			return err
		}

		printf(cctx, "Transaction index: %d\n", idx)
		return nil
	},
}

var msigProposeTokenCmd = &cli.Command{
	Name:      "propose-token",
	Usage:     "Propose a token transfer, or a token approval with --approve",
	ArgsUsage: "[token recipient amount]",
	Flags: []cli.Flag{
		fromFlag,
		&cli.BoolFlag{
			Name:  "approve",
			Usage: "approve recipient to spend amount instead of transferring it",
		},
	},
	Action: func(cctx *cli.Context) error {
		napi, closer, err := GetVaultAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()
		ctx := ReqContext(cctx)

		if cctx.Args().Len() != 3 {
			return xerrors.New("must pass token, recipient and amount")
		}

		from, err := fromAddr(cctx)
		if err != nil {
			return err
		}
		token, err := argAddr(cctx, 0, "token")
		if err != nil {
			return err
		}
		to, err := argAddr(cctx, 1, "recipient")
		if err != nil {
			return err
		}
		amt, err := argAmount(cctx, 2, "amount")
		if err != nil {
			return err
		}

		op := types.TokenTransfer(token, to, amt)
		if cctx.Bool("approve") {
			op = types.TokenApprove(token, to, amt)
		}

		idx, err := napi.MsigProposeOp(ctx, from, op)
		if err != nil {
			return err
		}

		printf(cctx, "Transaction index: %d (%s)\n", idx, op)
		return nil
	},
}

var msigApproveCmd = &cli.Command{
	Name:      "approve",
	Usage:     "Confirm a pending transaction",
	ArgsUsage: "[txIndex]",
	Flags: []cli.Flag{
		fromFlag,
	},
	Action: func(cctx *cli.Context) error {
		napi, closer, err := GetVaultAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()
		ctx := ReqContext(cctx)

		from, err := fromAddr(cctx)
		if err != nil {
			return err
		}
		idx, err := argIndex(cctx, 0)
		if err != nil {
			return err
		}

		if err := napi.MsigApprove(ctx, from, idx); err != nil {
			return err
		}

		tx, err := napi.MsigGetTransaction(ctx, idx)
		if err != nil {
			return err
		}
		printf(cctx, "Confirmations: %d, %s\n", tx.NumConfirmations, fmtTxState(tx.Executed, tx.CanExecute))
		return nil
	},
}

var msigExecuteCmd = &cli.Command{
	Name:      "execute",
	Usage:     "Execute a transaction that reached the threshold",
	ArgsUsage: "[txIndex]",
	Flags: []cli.Flag{
		fromFlag,
	},
	Action: func(cctx *cli.Context) error {
		napi, closer, err := GetVaultAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()
		ctx := ReqContext(cctx)

		from, err := fromAddr(cctx)
		if err != nil {
			return err
		}
		idx, err := argIndex(cctx, 0)
		if err != nil {
			return err
		}

		res, err := napi.MsigExecute(ctx, from, idx)
		if err != nil {
			return err
		}

		printf(cctx, "Executed transaction %d\n", res.Index)
		if len(res.Return) > 0 {
			printf(cctx, "Return: %x\n", res.Return)
		}
		return nil
	},
}

var msigInspectCmd = &cli.Command{
	Name:  "inspect",
	Usage: "Inspect the wallet and its transactions",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "all",
			Usage: "include executed transactions",
		},
	},
	Action: func(cctx *cli.Context) error {
		napi, closer, err := GetVaultAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()
		ctx := ReqContext(cctx)

		info, err := napi.WalletInfo(ctx)
		if err != nil {
			return err
		}

		printf(cctx, "Wallet: %s\n", info.Address)
		printf(cctx, "Balance: %s\n", fmtAmount(info.NativeBalance))
		printf(cctx, "Threshold: %d / %d\n", info.Threshold, len(info.Signers))
		printf(cctx, "Signers:\n")
		for _, s := range info.Signers {
			printf(cctx, "\t%s\n", s)
		}

		var txs []*api.Transaction
		if cctx.Bool("all") {
			for i := uint64(0); i < info.TransactionCount; i++ {
				tx, err := napi.MsigGetTransaction(ctx, i)
				if err != nil {
					return xerrors.Errorf("reading transaction %d: %w", i, err)
				}
				txs = append(txs, tx)
			}
		} else {
			txs, err = napi.MsigPending(ctx)
			if err != nil {
				return xerrors.Errorf("reading pending transactions: %w", err)
			}
		}

		printf(cctx, "Transactions: %d\n", len(txs))
		if len(txs) == 0 {
			return nil
		}

		w := tabwriter.NewWriter(cctx.App.Writer, 8, 4, 2, ' ', 0)
		fmt.Fprintf(w, "ID\tState\tApprovals\tProposer\tOperation\n")
		for _, tx := range txs {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", tx.Index, fmtTxState(tx.Executed, tx.CanExecute), tx.NumConfirmations, tx.Proposer, tx.Op)
		}
		if err := w.Flush(); err != nil {
			return xerrors.Errorf("flushing output: %+v", err)
		}
		return nil
	},
}

var msigCountCmd = &cli.Command{
	Name:  "count",
	Usage: "Print the number of transactions ever proposed",
	Action: func(cctx *cli.Context) error {
		napi, closer, err := GetVaultAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()

		n, err := napi.MsigGetTransactionCount(ReqContext(cctx))
		if err != nil {
			return err
		}
		printf(cctx, "%d\n", n)
		return nil
	},
}
