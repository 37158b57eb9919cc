// Command walletserver runs the custody wallet rpc server and its
// background jobs.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/anyswap/XRPL-Custody/cmd/utils"
	"github.com/anyswap/XRPL-Custody/common"
	"github.com/anyswap/XRPL-Custody/internal/walletapi"
	"github.com/anyswap/XRPL-Custody/keystore"
	"github.com/anyswap/XRPL-Custody/ledger/rpcgateway"
	"github.com/anyswap/XRPL-Custody/log"
	"github.com/anyswap/XRPL-Custody/mongodb"
	"github.com/anyswap/XRPL-Custody/params"
	"github.com/anyswap/XRPL-Custody/registry"
	"github.com/anyswap/XRPL-Custody/rpc/server"
	"github.com/anyswap/XRPL-Custody/tools"
	"github.com/anyswap/XRPL-Custody/wallet"
	"github.com/anyswap/XRPL-Custody/worker"
)

var (
	clientIdentifier = "walletserver"
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""
	// The app that holds all commands and flags.
	app = utils.NewApp(clientIdentifier, gitCommit, gitDate, "the walletserver command line interface")
)

func initApp() {
	// Initialize the CLI app and start action
	app.Action = walletserver
	app.HideVersion = true // we have a command to print the version
	app.Copyright = "Copyright 2017-2022 The XRPL-Custody Authors"
	app.Commands = []*cli.Command{
		utils.VersionCommand,
	}
	app.Flags = []cli.Flag{
		utils.DataDirFlag,
		utils.ConfigFileFlag,
		utils.LogFileFlag,
		utils.LogRotationFlag,
		utils.LogMaxAgeFlag,
		utils.VerbosityFlag,
		utils.JSONFormatFlag,
		utils.ColorFormatFlag,
	}
}

func main() {
	initApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func walletserver(ctx *cli.Context) error {
	utils.SetLogger(ctx)
	if ctx.NArg() > 0 {
		return fmt.Errorf("invalid command: %q", ctx.Args().Get(0))
	}
	exitCh := make(chan struct{})
	params.SetDataDir(ctx.String(utils.DataDirFlag.Name))
	configFile := utils.GetConfigFilePath(ctx)
	config := params.LoadConfig(configFile)

	if config.MongoDB != nil {
		dbConfig := config.MongoDB
		mongodb.MongoServerInit(
			config.Identifier,
			dbConfig.Hosts(),
			dbConfig.DBName,
			dbConfig.UserName,
			dbConfig.Password,
		)
	}

	svc, ks := newService(config)

	jobCtx, cancel := utils.SignalContext()
	defer cancel()

	workOpts := worker.Options{DisableReconcile: config.MongoDB == nil}
	if rc := params.GetReconcilerConfig(); rc != nil {
		workOpts.ReconcileInterval = rc.ReconcileInterval()
		workOpts.DisableReconcile = workOpts.DisableReconcile || rc.Disable
	}
	if config.Registry.WatchBlacklist {
		workOpts.BlacklistFile = config.Registry.BlacklistFile
		workOpts.Rebuild = config.BuildRegistry
	}
	worker.StartWork(jobCtx, utils.TopWaitGroup, svc, workOpts)

	apiServer := server.StartAPIServer(svc, prometheus.DefaultGatherer)

	go func() {
		<-jobCtx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutdown api server failed", "err", err)
		}
		shutdownCancel()
		utils.TopWaitGroup.Wait()
		if ks != nil {
			_ = ks.Close()
		}
		mongodb.Close()
		close(exitCh)
	}()

	<-exitCh
	log.Info("walletserver exit success")
	return nil
}

func newService(config *params.WalletConfig) (*walletapi.Service, *keystore.Keystore) {
	gw, err := rpcgateway.New(config.GatewayOptions())
	if err != nil {
		log.Fatal("init gateway failed", "err", err)
	}

	reg, err := config.BuildRegistry()
	if err != nil {
		log.Fatal("build registry failed", "err", err)
	}
	holder := registry.NewHolder(reg)

	ks := openKeystore(config.Keystore)
	var creds wallet.CredentialSource
	if ks != nil {
		creds = wallet.CredentialSourceFunc(func(label string) (wallet.Credential, error) {
			cred, err := ks.Load(label)
			if err != nil {
				return nil, err
			}
			return cred, nil
		})
	}
	w := wallet.New(gw, holder, creds, config.WalletOptions())

	opts := walletapi.Options{
		Identifier: config.Identifier,
		Alerter:    newAlerter(config),
	}
	if config.MongoDB != nil {
		opts.Store = walletapi.MongoStore{}
	}
	svc := walletapi.NewService(w, holder, opts)
	if opts.Store != nil {
		if err := svc.LoadAdminBlacklist(); err != nil {
			log.Fatal("load admin blacklist failed", "err", err)
		}
	}
	return svc, ks
}

func openKeystore(cfg *params.KeystoreConfig) *keystore.Keystore {
	if cfg == nil {
		log.Warn("no keystore configured, submissions are disabled")
		return nil
	}
	passwd, err := tools.LoadPassphrase(cfg.PasswordFile)
	if err != nil {
		log.Fatal("load keystore password failed", "err", err)
	}
	dir := cfg.DataDir
	if dataDir := params.GetDataDir(); dataDir != "" {
		dir = common.AbsolutePath(dataDir, dir)
	}
	ks, err := keystore.Open(dir, passwd)
	if err != nil {
		log.Fatal("open keystore failed", "dir", dir, "err", err)
	}
	log.Info("open keystore success", "dir", dir)
	return ks
}

func newAlerter(config *params.WalletConfig) *tools.Alerter {
	e := config.Email
	if e == nil {
		return nil
	}
	mailer := tools.NewMailer(e.Server, e.Port, e.From, e.FromName, e.Password, e.To, e.Cc)
	return tools.NewAlerter(mailer, config.Identifier, common.SecondsDuration(e.MinInterval))
}
