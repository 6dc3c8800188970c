package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/billyjitsu/liquidation-fairy/chain/types"
)

var delegationCmd = &cli.Command{
	Name:  "delegation",
	Usage: "Manage daily-limited spending grants",
	Subcommands: []*cli.Command{
		delegationSubmitCmd,
		delegationConfirmCmd,
		delegationRevokeCmd,
		delegationTransferCmd,
		delegationStatusCmd,
		delegationListCmd,
	},
}

var delegationSubmitCmd = &cli.Command{
	Name:      "submit",
	Usage:     "Propose a grant letting delegate spend up to dailyLimit of asset per day",
	ArgsUsage: "[delegate dailyLimit]",
	Flags: []cli.Flag{
		fromFlag,
		assetFlag,
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
		asset, err := assetAddr(cctx)
		if err != nil {
			return err
		}
		delegate, err := argAddr(cctx, 0, "delegate")
		if err != nil {
			return err
		}
		limit, err := argAmount(cctx, 1, "daily limit")
		if err != nil {
			return err
		}

		if err := napi.DelegationSubmit(ctx, from, asset, delegate, limit); err != nil {
			return err
		}

		st, err := napi.DelegationStatus(ctx, asset, delegate)
		if err != nil {
			return err
		}
		printf(cctx, "Grant %s: %s, %d confirmations\n",
			types.GrantKey{Asset: asset, Delegate: delegate}, fmtGrantState(st.IsActive, st.Revoked), st.Confirmations)
		return nil
	},
}

var delegationConfirmCmd = &cli.Command{
	Name:      "confirm",
	Usage:     "Confirm a pending grant",
	ArgsUsage: "[delegate]",
	Flags: []cli.Flag{
		fromFlag,
		assetFlag,
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
		asset, err := assetAddr(cctx)
		if err != nil {
			return err
		}
		delegate, err := argAddr(cctx, 0, "delegate")
		if err != nil {
			return err
		}

		if err := napi.DelegationConfirm(ctx, from, asset, delegate); err != nil {
			return err
		}

		st, err := napi.DelegationStatus(ctx, asset, delegate)
		if err != nil {
			return err
		}
		printf(cctx, "Confirmations: %d, %s\n", st.Confirmations, fmtGrantState(st.IsActive, st.Revoked))
		return nil
	},
}

var delegationRevokeCmd = &cli.Command{
	Name:      "revoke",
	Usage:     "Vote to revoke a grant",
	ArgsUsage: "[delegate]",
	Flags: []cli.Flag{
		fromFlag,
		assetFlag,
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
		asset, err := assetAddr(cctx)
		if err != nil {
			return err
		}
		delegate, err := argAddr(cctx, 0, "delegate")
		if err != nil {
			return err
		}

		revoked, err := napi.DelegationRevoke(ctx, from, asset, delegate)
		if err != nil {
			return err
		}
		if revoked {
			printf(cctx, "Grant %s\n", fmtGrantState(false, true))
		} else {
			printf(cctx, "Revocation vote recorded\n")
		}
		return nil
	},
}

var delegationTransferCmd = &cli.Command{
	Name:      "transfer",
	Usage:     "Spend from the wallet as a delegate",
	ArgsUsage: "[recipient amount]",
	Flags: []cli.Flag{
		fromFlag,
		assetFlag,
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
		asset, err := assetAddr(cctx)
		if err != nil {
			return err
		}
		to, err := argAddr(cctx, 0, "recipient")
		if err != nil {
			return err
		}
		amt, err := argAmount(cctx, 1, "amount")
		if err != nil {
			return err
		}

		if _, err := napi.DelegatedTransfer(ctx, from, asset, to, amt); err != nil {
			return err
		}

		st, err := napi.DelegationStatus(ctx, asset, from)
		if err != nil {
			return err
		}
		printf(cctx, "Sent %s %s to %s, %s left today\n", fmtAmount(amt), types.AssetString(asset), to, fmtAmount(st.RemainingToday))
		return nil
	},
}

var delegationStatusCmd = &cli.Command{
	Name:      "status",
	Usage:     "Show a grant's limit and spending in the current window",
	ArgsUsage: "[delegate]",
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
		delegate, err := argAddr(cctx, 0, "delegate")
		if err != nil {
			return err
		}

		st, err := napi.DelegationStatus(ctx, asset, delegate)
		if err != nil {
			return err
		}

		printf(cctx, "State: %s\n", fmtGrantState(st.IsActive, st.Revoked))
		printf(cctx, "Confirmations: %d\n", st.Confirmations)
		printf(cctx, "Daily limit: %s\n", fmtAmount(st.DailyLimit))
		printf(cctx, "Spent today: %s\n", fmtAmount(st.SpentToday))
		printf(cctx, "Remaining: %s\n", fmtAmount(st.RemainingToday))
		if st.IsActive {
			printf(cctx, "Resets in: %s\n", fmtDuration(st.TimeUntilReset))
		}
		return nil
	},
}

var delegationListCmd = &cli.Command{
	Name:  "list",
	Usage: "List all grants",
	Action: func(cctx *cli.Context) error {
		napi, closer, err := GetVaultAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()

		grants, err := napi.DelegationList(ReqContext(cctx))
		if err != nil {
			return xerrors.Errorf("listing grants: %w", err)
		}

		w := tabwriter.NewWriter(cctx.App.Writer, 8, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Asset\tDelegate\tState\tApprovals\tLimit\tSpent\n")
		for _, g := range grants {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
				types.AssetString(g.Asset), g.Delegate, fmtGrantState(g.IsActive, g.Revoked),
				len(g.Confirmations), fmtAmount(g.DailyLimit), fmtAmount(g.SpentToday))
		}
		return w.Flush()
	},
}
