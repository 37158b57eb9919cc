package main

import (
	"github.com/urfave/cli/v2"

	"github.com/anyswap/XRPL-Custody/internal/walletapi"
)

var (
	addressFlag = &cli.StringFlag{
		Name:     "address",
		Usage:    "account address",
		Required: true,
	}
	limitFlag = &cli.IntFlag{
		Name:  "limit",
		Usage: "max number of items",
	}

	infoCommand = &cli.Command{
		Name:   "info",
		Usage:  "show server info",
		Action: func(ctx *cli.Context) error { return call(ctx, "wallet.GetServerInfo", nil) },
	}

	summaryCommand = &cli.Command{
		Name:  "summary",
		Usage: "show balances, trust lines and offers of an account",
		Flags: []cli.Flag{addressFlag},
		Action: func(ctx *cli.Context) error {
			return call(ctx, "wallet.GetAccountSummary", ctx.String(addressFlag.Name))
		},
	}

	historyCommand = &cli.Command{
		Name:  "history",
		Usage: "show recent transactions of an account",
		Flags: []cli.Flag{addressFlag, limitFlag},
		Action: func(ctx *cli.Context) error {
			return call(ctx, "wallet.GetHistory", &walletapi.AddressArgs{
				Address: ctx.String(addressFlag.Name),
				Limit:   ctx.Int(limitFlag.Name),
			})
		},
	}
)
