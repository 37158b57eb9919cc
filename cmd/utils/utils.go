// Package utils provides the shared command line helpers.
package utils

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/anyswap/XRPL-Custody/log"
	"github.com/anyswap/XRPL-Custody/params"
)

var (
	clientIdentifier string
	gitCommit        string
	gitDate          string

	// TopWaitGroup tracks the long running jobs waited for at exit
	TopWaitGroup = new(sync.WaitGroup)
)

// NewApp creates an app with sane defaults.
func NewApp(identifier, gitcommit, gitdate, usage string) *cli.App {
	clientIdentifier = identifier
	gitCommit = gitcommit
	gitDate = gitdate
	app := cli.NewApp()
	app.Name = filepath.Base(os.Args[0])
	app.Version = params.VersionWithCommit(gitCommit, gitDate)
	app.Usage = usage
	return app
}

// SignalContext is cancelled on SIGINT or SIGTERM
func SignalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-signalChan:
			log.Info("receive signal, start cleanup", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(signalChan)
	}()
	return ctx, cancel
}
