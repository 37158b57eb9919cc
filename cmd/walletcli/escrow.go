package main

import (
	"github.com/urfave/cli/v2"

	"github.com/anyswap/XRPL-Custody/internal/walletapi"
)

var (
	escrowCommand = &cli.Command{
		Name:  "escrow",
		Usage: "manage escrows",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "lock funds in an escrow",
				Flags: []cli.Flag{
					identityFlag, destinationFlag, currencyFlag, issuerFlag, amountFlag, tagFlag,
					&cli.StringFlag{Name: "release-after", Usage: "RFC3339 time the escrow can finish"},
					&cli.StringFlag{Name: "cancel-after", Usage: "RFC3339 time the escrow can be cancelled"},
					&cli.BoolFlag{Name: "condition", Usage: "lock with a fresh crypto-condition"},
				},
				Action: createEscrow,
			},
			{
				Name:  "finish",
				Usage: "release an escrow to its destination",
				Flags: []cli.Flag{
					identityFlag, ownerFlag, sequenceFlag,
					&cli.StringFlag{Name: "fulfillment", Usage: "hex fulfillment of a condition escrow"},
				},
				Action: func(ctx *cli.Context) error {
					return call(ctx, "wallet.FinishEscrow", escrowRef(ctx))
				},
			},
			{
				Name:  "cancel",
				Usage: "return an expired escrow to its owner",
				Flags: []cli.Flag{identityFlag, ownerFlag, sequenceFlag},
				Action: func(ctx *cli.Context) error {
					return call(ctx, "wallet.CancelEscrow", escrowRef(ctx))
				},
			},
		},
	}
)

func createEscrow(ctx *cli.Context) error {
	tag, err := destinationTag(ctx)
	if err != nil {
		return err
	}
	releaseAfter, err := parseTime(ctx, "release-after")
	if err != nil {
		return err
	}
	cancelAfter, err := parseTime(ctx, "cancel-after")
	if err != nil {
		return err
	}
	return call(ctx, "wallet.CreateEscrow", &walletapi.EscrowArgs{
		Identity:       ctx.String(identityFlag.Name),
		Destination:    ctx.String(destinationFlag.Name),
		Currency:       ctx.String(currencyFlag.Name),
		Issuer:         ctx.String(issuerFlag.Name),
		Amount:         ctx.String(amountFlag.Name),
		DestinationTag: tag,
		ReleaseAfter:   releaseAfter,
		CancelAfter:    cancelAfter,
		Condition:      ctx.Bool("condition"),
	})
}

func escrowRef(ctx *cli.Context) *walletapi.EscrowRefArgs {
	return &walletapi.EscrowRefArgs{
		Identity:    ctx.String(identityFlag.Name),
		Owner:       ctx.String(ownerFlag.Name),
		Sequence:    uint32(ctx.Uint(sequenceFlag.Name)),
		Fulfillment: ctx.String("fulfillment"),
	}
}
