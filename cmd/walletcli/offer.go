package main

import (
	"github.com/urfave/cli/v2"

	"github.com/anyswap/XRPL-Custody/internal/walletapi"
)

var (
	offerFlags = []cli.Flag{
		identityFlag,
		&cli.StringFlag{Name: "give-currency", Usage: "currency given", Required: true},
		&cli.StringFlag{Name: "give-issuer", Usage: "issuer of the given currency"},
		&cli.StringFlag{Name: "give-amount", Usage: "amount given", Required: true},
		&cli.StringFlag{Name: "want-currency", Usage: "currency wanted", Required: true},
		&cli.StringFlag{Name: "want-issuer", Usage: "issuer of the wanted currency"},
		&cli.StringFlag{Name: "want-amount", Usage: "amount wanted", Required: true},
		&cli.BoolFlag{Name: "ioc", Usage: "immediate or cancel"},
		&cli.BoolFlag{Name: "fok", Usage: "fill or kill"},
		&cli.BoolFlag{Name: "sell", Usage: "sell the full given amount"},
		&cli.UintFlag{Name: "replaces", Usage: "sequence of an own offer to replace"},
	}

	offerCommand = &cli.Command{
		Name:  "offer",
		Usage: "manage dex offers",
		Subcommands: []*cli.Command{
			{
				Name:   "create",
				Usage:  "place an offer",
				Flags:  offerFlags,
				Action: func(ctx *cli.Context) error { return call(ctx, "wallet.CreateOffer", offerArgs(ctx)) },
			},
			{
				Name:   "take",
				Usage:  "take a resting offer at its own rate",
				Flags:  offerFlags,
				Action: func(ctx *cli.Context) error { return call(ctx, "wallet.TakeOffer", offerArgs(ctx)) },
			},
			{
				Name:  "cancel",
				Usage: "cancel an own offer",
				Flags: []cli.Flag{identityFlag, sequenceFlag},
				Action: func(ctx *cli.Context) error {
					return call(ctx, "wallet.CancelOffer", offerRef(ctx))
				},
			},
			{
				Name:  "status",
				Usage: "reconcile the status of an offer",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Usage: "owner address of the offer", Required: true},
					sequenceFlag,
					&cli.IntFlag{Name: "pages", Usage: "history pages to scan"},
				},
				Action: func(ctx *cli.Context) error {
					return call(ctx, "wallet.GetOfferStatus", offerRef(ctx))
				},
			},
			{
				Name:  "book",
				Usage: "show an order book",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "sell-currency", Required: true},
					&cli.StringFlag{Name: "sell-issuer"},
					&cli.StringFlag{Name: "buy-currency", Required: true},
					&cli.StringFlag{Name: "buy-issuer"},
					&cli.StringFlag{Name: "exclude", Usage: "skip offers of this owner"},
					limitFlag,
				},
				Action: func(ctx *cli.Context) error {
					return call(ctx, "wallet.GetOrderBook", &walletapi.OrderBookArgs{
						SellCurrency: ctx.String("sell-currency"),
						SellIssuer:   ctx.String("sell-issuer"),
						BuyCurrency:  ctx.String("buy-currency"),
						BuyIssuer:    ctx.String("buy-issuer"),
						Exclude:      ctx.String("exclude"),
						Limit:        ctx.Int(limitFlag.Name),
					})
				},
			},
		},
	}
)

func offerArgs(ctx *cli.Context) *walletapi.OfferArgs {
	return &walletapi.OfferArgs{
		Identity:          ctx.String(identityFlag.Name),
		GiveCurrency:      ctx.String("give-currency"),
		GiveIssuer:        ctx.String("give-issuer"),
		GiveAmount:        ctx.String("give-amount"),
		WantCurrency:      ctx.String("want-currency"),
		WantIssuer:        ctx.String("want-issuer"),
		WantAmount:        ctx.String("want-amount"),
		ImmediateOrCancel: ctx.Bool("ioc"),
		FillOrKill:        ctx.Bool("fok"),
		Sell:              ctx.Bool("sell"),
		Replaces:          uint32(ctx.Uint("replaces")),
	}
}
