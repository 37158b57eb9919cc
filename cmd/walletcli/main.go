// Command walletcli manages the local keystore and drives a running
// wallet server over json-rpc.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/anyswap/XRPL-Custody/cmd/utils"
	"github.com/anyswap/XRPL-Custody/rpc/client"
)

var (
	clientIdentifier = "walletcli"
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""
	// The app that holds all commands and flags.
	app = utils.NewApp(clientIdentifier, gitCommit, gitDate, "the walletcli command line interface")

	timeoutFlag = &cli.DurationFlag{
		Name:  "timeout",
		Usage: "rpc call timeout",
		Value: 90 * time.Second,
	}
)

func initApp() {
	app.HideVersion = true
	app.Copyright = "Copyright 2017-2022 The XRPL-Custody Authors"
	app.Before = func(ctx *cli.Context) error {
		utils.SetLogger(ctx)
		return nil
	}
	app.Commands = []*cli.Command{
		keystoreCommand,
		infoCommand,
		summaryCommand,
		historyCommand,
		sendCommand,
		trustCommand,
		offerCommand,
		escrowCommand,
		adminCommand,
		utils.VersionCommand,
	}
	app.Flags = append([]cli.Flag{
		utils.ServerFlag,
		timeoutFlag,
	}, utils.CommonLogFlags...)
}

func main() {
	initApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("%v", err))
		os.Exit(1)
	}
}

func newClient(ctx *cli.Context) *client.Client {
	c := client.New(ctx.String(utils.ServerFlag.Name), ctx.Duration(timeoutFlag.Name))
	if key := ctx.String(utils.AdminKeyFlag.Name); key != "" {
		c.SetAdminKey(key)
	}
	return c
}

// call runs one rpc call and prints its result
func call(ctx *cli.Context, method string, params interface{}) error {
	var result json.RawMessage
	err := newClient(ctx).Call(context.Background(), &result, method, params)
	if err != nil {
		return describeError(method, err)
	}
	printResult(method, result)
	return nil
}

func describeError(method string, err error) error {
	rpcErr, ok := err.(*client.Error)
	if !ok {
		return fmt.Errorf("call %v failed: %w", method, err)
	}
	if len(rpcErr.Data) > 0 {
		return fmt.Errorf("call %v failed: %v (code %d) %s", method, rpcErr.Message, rpcErr.Code, rpcErr.Data)
	}
	return fmt.Errorf("call %v failed: %v (code %d)", method, rpcErr.Message, rpcErr.Code)
}

func printResult(method string, result json.RawMessage) {
	var status struct {
		Result string `json:"result"`
	}
	_ = json.Unmarshal(result, &status)
	var out interface{}
	if err := json.Unmarshal(result, &out); err != nil {
		out = string(result)
	}
	bs, _ := json.MarshalIndent(out, "", "  ")

	switch {
	case status.Result == "":
		color.Cyan("%v:", method)
	case status.Result == "tesSUCCESS":
		color.Green("%v: %v", method, status.Result)
	default:
		color.Yellow("%v: %v", method, status.Result)
	}
	fmt.Println(string(bs))
}
