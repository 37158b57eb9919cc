package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/anyswap/XRPL-Custody/cmd/utils"
	"github.com/anyswap/XRPL-Custody/keystore"
	"github.com/anyswap/XRPL-Custody/ledger"
	"github.com/anyswap/XRPL-Custody/ledger/rpcgateway"
	"github.com/anyswap/XRPL-Custody/tools"
)

var (
	labelFlag = &cli.StringFlag{
		Name:     "label",
		Usage:    "identity label of the credential",
		Required: true,
	}
	expectAddressFlag = &cli.StringFlag{
		Name:  "address",
		Usage: "expected address, import fails if the seed does not control it",
	}
	seedFileFlag = &cli.StringFlag{
		Name:  "seedfile",
		Usage: "file holding the secret seed, read from stdin if not set",
	}

	keystoreFlags = []cli.Flag{
		utils.KeystoreDirFlag,
		utils.PasswordFileFlag,
	}

	keystoreCommand = &cli.Command{
		Name:  "keystore",
		Usage: "manage local credentials",
		Subcommands: []*cli.Command{
			{
				Name:   "import",
				Usage:  "import a seed under a label",
				Action: importCredential,
				Flags: append([]cli.Flag{
					labelFlag,
					expectAddressFlag,
					seedFileFlag,
					utils.NodeFlag,
				}, keystoreFlags...),
			},
			{
				Name:   "list",
				Usage:  "list stored labels and addresses",
				Action: listCredentials,
				Flags:  keystoreFlags,
			},
			{
				Name:   "delete",
				Usage:  "delete a stored credential",
				Action: deleteCredential,
				Flags:  append([]cli.Flag{labelFlag}, keystoreFlags...),
			},
		},
	}
)

func openKeystore(ctx *cli.Context) (*keystore.Keystore, error) {
	dir := ctx.String(utils.KeystoreDirFlag.Name)
	if dir == "" {
		return nil, errors.New("keystore directory is not specified")
	}
	passwd, err := tools.LoadPassphrase(ctx.String(utils.PasswordFileFlag.Name))
	if err != nil {
		return nil, err
	}
	return keystore.Open(dir, passwd)
}

func readSeed(seedFile string) (string, error) {
	if seedFile != "" {
		data, err := ioutil.ReadFile(seedFile)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	}
	fmt.Fprint(os.Stderr, "Seed: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func importCredential(ctx *cli.Context) error {
	seed, err := readSeed(ctx.String(seedFileFlag.Name))
	if err != nil {
		return fmt.Errorf("read seed failed: %w", err)
	}
	gw, err := rpcgateway.New(rpcgateway.Config{
		APIAddress: []string{ctx.String(utils.NodeFlag.Name)},
		RetryTimes: 1,
	})
	if err != nil {
		return err
	}
	ks, err := openKeystore(ctx)
	if err != nil {
		return err
	}
	defer ks.Close()

	return importSeed(context.Background(), ks, gw, ctx.String(labelFlag.Name), seed, ctx.String(expectAddressFlag.Name))
}

func importSeed(ctx context.Context, ks *keystore.Keystore, deriver keystore.AddressDeriver, label, seed, expected string) error {
	if expected != "" && !ledger.IsValidAddress(expected) {
		return fmt.Errorf("invalid address %q", expected)
	}
	address, err := ks.Import(ctx, deriver, label, seed, expected)
	if err != nil {
		return err
	}
	color.Green("imported %v (%v)", label, address)
	return nil
}

func listCredentials(ctx *cli.Context) error {
	ks, err := openKeystore(ctx)
	if err != nil {
		return err
	}
	defer ks.Close()

	labels, err := ks.Labels()
	if err != nil {
		return err
	}
	for _, label := range labels {
		address, err := ks.Address(label)
		if err != nil {
			color.Red("%v: %v", label, err)
			continue
		}
		fmt.Printf("%v\t%v\n", label, address)
	}
	return nil
}

func deleteCredential(ctx *cli.Context) error {
	ks, err := openKeystore(ctx)
	if err != nil {
		return err
	}
	defer ks.Close()

	label := ctx.String(labelFlag.Name)
	if err = ks.Delete(label); err != nil {
		return err
	}
	color.Green("deleted %v", label)
	return nil
}
