package main

import (
	"github.com/urfave/cli/v2"

	"github.com/anyswap/XRPL-Custody/cmd/utils"
	"github.com/anyswap/XRPL-Custody/internal/walletapi"
)

var (
	memoFlag = &cli.StringFlag{
		Name:  "memo",
		Usage: "reason of the blacklist entry",
	}

	adminCommand = &cli.Command{
		Name:  "admin",
		Usage: "admin calls, require --adminkey",
		Flags: []cli.Flag{utils.AdminKeyFlag},
		Subcommands: []*cli.Command{
			{
				Name:  "blacklist",
				Usage: "add, remove or query a blacklisted address",
				Subcommands: []*cli.Command{
					blacklistCommand(walletapi.BlacklistAdd),
					blacklistCommand(walletapi.BlacklistRemove),
					blacklistCommand(walletapi.BlacklistQuery),
				},
			},
			{
				Name:  "reconcile",
				Usage: "run one reconcile round of tracked offers",
				Flags: []cli.Flag{limitFlag},
				Action: func(ctx *cli.Context) error {
					return call(ctx, "wallet.AdminReconcile", ctx.Int(limitFlag.Name))
				},
			},
		},
	}
)

func blacklistCommand(operation string) *cli.Command {
	return &cli.Command{
		Name:  operation,
		Usage: operation + " a blacklisted address",
		Flags: []cli.Flag{addressFlag, memoFlag},
		Action: func(ctx *cli.Context) error {
			return call(ctx, "wallet.AdminBlacklist", &walletapi.BlacklistArgs{
				Operation: operation,
				Address:   ctx.String(addressFlag.Name),
				Memo:      ctx.String(memoFlag.Name),
			})
		},
	}
}
