package utils

import (
	"github.com/urfave/cli/v2"

	"github.com/anyswap/XRPL-Custody/log"
)

var (
	// ConfigFileFlag --config
	ConfigFileFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Specify config file",
	}
	// DataDirFlag --datadir
	DataDirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "data directory (default in the execute directory)",
		Value: "",
	}
	// LogFileFlag --log
	LogFileFlag = &cli.StringFlag{
		Name:  "log",
		Usage: "Specify log file, support rotate",
	}
	// LogRotationFlag --rotate
	LogRotationFlag = &cli.Uint64Flag{
		Name:  "rotate",
		Usage: "log rotation time (unit hour)",
		Value: 24,
	}
	// LogMaxAgeFlag --maxage
	LogMaxAgeFlag = &cli.Uint64Flag{
		Name:  "maxage",
		Usage: "log max age (unit day)",
		Value: 7,
	}
	// VerbosityFlag --verbosity
	VerbosityFlag = &cli.Uint64Flag{
		Name:    "verbosity",
		Aliases: []string{"v"},
		Usage:   "log verbosity (0:panic, 1:fatal, 2:error, 3:warn, 4:info, 5:debug, 6:trace)",
		Value:   4,
	}
	// JSONFormatFlag --json
	JSONFormatFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "output log in json format",
	}
	// ColorFormatFlag --color
	ColorFormatFlag = &cli.BoolFlag{
		Name:  "color",
		Usage: "output log in color text format",
		Value: true,
	}

	// ServerFlag --server
	ServerFlag = &cli.StringFlag{
		Name:  "server",
		Usage: "wallet server rpc address",
		Value: "http://127.0.0.1:11556/rpc",
	}
	// NodeFlag --node
	NodeFlag = &cli.StringFlag{
		Name:  "node",
		Usage: "rippled json-rpc address, used to derive account addresses",
		Value: "http://127.0.0.1:5005",
	}
	// AdminKeyFlag --adminkey
	AdminKeyFlag = &cli.StringFlag{
		Name:  "adminkey",
		Usage: "admin key of admin calls",
	}
	// KeystoreDirFlag --keystore
	KeystoreDirFlag = &cli.StringFlag{
		Name:  "keystore",
		Usage: "keystore directory",
	}
	// PasswordFileFlag --password
	PasswordFileFlag = &cli.StringFlag{
		Name:  "password",
		Usage: "keystore password file",
	}

	// CommonLogFlags common log flags
	CommonLogFlags = []cli.Flag{
		VerbosityFlag,
		JSONFormatFlag,
		ColorFormatFlag,
	}
)

// SetLogger set log level, json format, color format, and log file rotation
func SetLogger(ctx *cli.Context) {
	logLevel := ctx.Uint64(VerbosityFlag.Name)
	jsonFormat := ctx.Bool(JSONFormatFlag.Name)
	colorFormat := ctx.Bool(ColorFormatFlag.Name)
	log.SetLogger(uint32(logLevel), jsonFormat, colorFormat)

	logFile := ctx.String(LogFileFlag.Name)
	if logFile != "" {
		logRotation := ctx.Uint64(LogRotationFlag.Name)
		logMaxAge := ctx.Uint64(LogMaxAgeFlag.Name)
		if err := log.SetLogFile(logFile, logRotation, logMaxAge); err != nil {
			log.Fatal("set log file failed", "logFile", logFile, "err", err)
		}
	}
}

// GetConfigFilePath specified by `-c|--config`
func GetConfigFilePath(ctx *cli.Context) string {
	return ctx.String(ConfigFileFlag.Name)
}
