package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/anyswap/XRPL-Custody/internal/walletapi"
)

var (
	identityFlag = &cli.StringFlag{
		Name:     "identity",
		Usage:    "identity label of the signing account",
		Required: true,
	}
	destinationFlag = &cli.StringFlag{
		Name:     "to",
		Usage:    "destination address",
		Required: true,
	}
	currencyFlag = &cli.StringFlag{
		Name:  "currency",
		Usage: "currency code",
		Value: "XRP",
	}
	issuerFlag = &cli.StringFlag{
		Name:  "issuer",
		Usage: "issuer address, default to the registered issuer",
	}
	amountFlag = &cli.StringFlag{
		Name:     "amount",
		Usage:    "amount in whole units",
		Required: true,
	}
	tagFlag = &cli.Uint64Flag{
		Name:  "tag",
		Usage: "destination tag",
	}
	trustLimitFlag = &cli.StringFlag{
		Name:  "limit",
		Usage: "trust line limit, default to the configured limit",
	}
	ownerFlag = &cli.StringFlag{
		Name:  "owner",
		Usage: "owner address of the offer or escrow",
	}
	sequenceFlag = &cli.UintFlag{
		Name:     "sequence",
		Usage:    "sequence of the creating transaction",
		Required: true,
	}

	sendCommand = &cli.Command{
		Name:   "send",
		Usage:  "send XRP or an issued token",
		Flags:  []cli.Flag{identityFlag, destinationFlag, currencyFlag, issuerFlag, amountFlag, tagFlag},
		Action: send,
	}

	trustCommand = &cli.Command{
		Name:  "trust",
		Usage: "open or update a trust line",
		Flags: []cli.Flag{identityFlag, currencyFlag, issuerFlag, trustLimitFlag},
		Action: func(ctx *cli.Context) error {
			return call(ctx, "wallet.SetTrustLine", &walletapi.TrustLineArgs{
				Identity: ctx.String(identityFlag.Name),
				Currency: ctx.String(currencyFlag.Name),
				Issuer:   ctx.String(issuerFlag.Name),
				Limit:    ctx.String(trustLimitFlag.Name),
			})
		},
	}
)

func destinationTag(ctx *cli.Context) (*uint32, error) {
	if !ctx.IsSet(tagFlag.Name) {
		return nil, nil
	}
	tag := ctx.Uint64(tagFlag.Name)
	if tag > 0xFFFFFFFF {
		return nil, fmt.Errorf("destination tag %v out of range", tag)
	}
	t := uint32(tag)
	return &t, nil
}

func send(ctx *cli.Context) error {
	tag, err := destinationTag(ctx)
	if err != nil {
		return err
	}
	return call(ctx, "wallet.Send", &walletapi.SendArgs{
		Identity:       ctx.String(identityFlag.Name),
		Destination:    ctx.String(destinationFlag.Name),
		Currency:       ctx.String(currencyFlag.Name),
		Issuer:         ctx.String(issuerFlag.Name),
		Amount:         ctx.String(amountFlag.Name),
		DestinationTag: tag,
	})
}

func offerRef(ctx *cli.Context) *walletapi.OfferRefArgs {
	return &walletapi.OfferRefArgs{
		Identity: ctx.String("identity"),
		Owner:    ctx.String(ownerFlag.Name),
		Sequence: uint32(ctx.Uint(sequenceFlag.Name)),
		Pages:    ctx.Int("pages"),
	}
}

func parseTime(ctx *cli.Context, name string) (*time.Time, error) {
	value := ctx.String(name)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %v: %w", name, err)
	}
	return &t, nil
}
