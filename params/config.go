// Package params loads and validates the wallet service configuration.
package params

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/anyswap/XRPL-Custody/common"
	"github.com/anyswap/XRPL-Custody/log"
)

const (
	defaultAPIPort = 11556
)

var (
	locDataDir        string
	walletConfig      *WalletConfig
	loadConfigStarter sync.Once
)

// WalletConfig config items (decode from toml file)
type WalletConfig struct {
	Identifier string
	Gateway    *GatewayConfig
	Registry   *RegistryConfig
	Reserve    *ReserveConfig    `toml:",omitempty" json:",omitempty"`
	Reconciler *ReconcilerConfig `toml:",omitempty" json:",omitempty"`
	Server     *ServerConfig     `toml:",omitempty" json:",omitempty"`
	MongoDB    *MongoDBConfig    `toml:",omitempty" json:",omitempty"`
	Keystore   *KeystoreConfig   `toml:",omitempty" json:",omitempty"`
	Email      *EmailConfig      `toml:",omitempty" json:",omitempty"`
}

// GatewayConfig rippled connection config. Times are in seconds.
type GatewayConfig struct {
	APIAddress      []string
	RPCTimeout      uint64 `toml:",omitempty" json:",omitempty"`
	RetryTimes      int    `toml:",omitempty" json:",omitempty"`
	RetryInterval   uint64 `toml:",omitempty" json:",omitempty"`
	PollInterval    uint64 `toml:",omitempty" json:",omitempty"`
	LedgerOffset    uint32 `toml:",omitempty" json:",omitempty"`
	SubmitTimeout   uint64 `toml:",omitempty" json:",omitempty"`
	BreakerFailures uint32 `toml:",omitempty" json:",omitempty"`
	BreakerTimeout  uint64 `toml:",omitempty" json:",omitempty"`
}

// RegistryConfig currency to issuer address book and blacklist
type RegistryConfig struct {
	Issuers        map[string]string
	Blacklist      []string `toml:",omitempty" json:",omitempty"`
	BlacklistFile  string   `toml:",omitempty" json:",omitempty"`
	WatchBlacklist bool     `toml:",omitempty" json:",omitempty"`
}

// ReserveConfig ledger reserves and fee in drops
type ReserveConfig struct {
	BaseReserve       int64
	OwnerReserve      int64
	BaseFee           int64
	DefaultTrustLimit string `toml:",omitempty" json:",omitempty"`
}

// ReconcilerConfig offer reconciliation config
type ReconcilerConfig struct {
	HistoryPageSize int
	HistoryMaxPages int
	Interval        uint64 // seconds between reconcile rounds
	Disable         bool   `toml:",omitempty" json:",omitempty"`
}

// ServerConfig api server config
type ServerConfig struct {
	APIServer *APIServerConfig
	AdminKeys []string `toml:",omitempty" json:"-"`
}

// APIServerConfig api service config
type APIServerConfig struct {
	Port             int
	AllowedOrigins   []string
	MaxRequestsLimit int
}

// MongoDBConfig mongodb config
type MongoDBConfig struct {
	DBURL    string   `toml:",omitempty" json:",omitempty"`
	DBURLs   []string `toml:",omitempty" json:",omitempty"`
	DBName   string
	UserName string `json:"-"`
	Password string `json:"-"`
}

// KeystoreConfig encrypted credential store config
type KeystoreConfig struct {
	DataDir      string
	PasswordFile string `json:"-"`
}

// EmailConfig email config
type EmailConfig struct {
	Server      string
	Port        int
	From        string
	FromName    string
	Password    string `json:"-"`
	To          []string
	Cc          []string `toml:",omitempty" json:",omitempty"`
	MinInterval uint64   `toml:",omitempty" json:",omitempty"` // seconds between alerts
}

// GetAPIPort get api service port
func GetAPIPort() int {
	server := GetServerConfig()
	if server == nil || server.APIServer == nil || server.APIServer.Port == 0 {
		return defaultAPIPort
	}
	return server.APIServer.Port
}

// GetIdentifier get identifier
func GetIdentifier() string {
	return GetConfig().Identifier
}

// GetConfig get wallet config
func GetConfig() *WalletConfig {
	return walletConfig
}

// SetConfig set wallet config
func SetConfig(config *WalletConfig) {
	walletConfig = config
}

// GetServerConfig get server config
func GetServerConfig() *ServerConfig {
	if walletConfig == nil {
		return nil
	}
	return walletConfig.Server
}

// GetReconcilerConfig get reconciler config, never nil
func GetReconcilerConfig() *ReconcilerConfig {
	if walletConfig != nil && walletConfig.Reconciler != nil {
		return walletConfig.Reconciler
	}
	return &ReconcilerConfig{}
}

// ReconcileInterval returns the reconcile period, one minute by default
func (c *ReconcilerConfig) ReconcileInterval() time.Duration {
	if c.Interval == 0 {
		return time.Minute
	}
	return common.SecondsDuration(c.Interval)
}

// IsAdminKey reports whether key is a configured admin key
func IsAdminKey(key string) bool {
	server := GetServerConfig()
	if key == "" || server == nil {
		return false
	}
	for _, admin := range server.AdminKeys {
		if strings.EqualFold(key, admin) {
			return true
		}
	}
	return false
}

// Hosts returns the configured mongodb hosts
func (c *MongoDBConfig) Hosts() []string {
	if len(c.DBURLs) > 0 {
		return c.DBURLs
	}
	if c.DBURL == "" {
		return nil
	}
	return strings.Split(c.DBURL, ",")
}

// DecodeConfigFile decodes and checks a config file without installing it
func DecodeConfigFile(configFile string) (*WalletConfig, error) {
	if configFile == "" {
		return nil, fmt.Errorf("no config file specified")
	}
	if !common.FileExist(configFile) {
		return nil, fmt.Errorf("config file %v not exist", configFile)
	}
	config := &WalletConfig{}
	if _, err := toml.DecodeFile(configFile, config); err != nil {
		return nil, fmt.Errorf("toml DecodeFile: %w", err)
	}
	if err := config.CheckConfig(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfig load config
func LoadConfig(configFile string) *WalletConfig {
	loadConfigStarter.Do(func() {
		log.Println("Config file is", configFile)
		config, err := DecodeConfigFile(configFile)
		if err != nil {
			log.Fatalf("LoadConfig error: %v", err)
		}
		SetConfig(config)
		bs, _ := json.MarshalIndent(config, "", "  ")
		log.Println("LoadConfig finished.", string(bs))
		log.Info("Check config success", "configFile", configFile)
	})
	return walletConfig
}

// SetDataDir set data dir
func SetDataDir(dir string) {
	if dir == "" {
		return
	}
	currDir, err := common.CurrentDir()
	if err != nil {
		log.Fatal("get current dir failed", "err", err)
	}
	locDataDir = common.AbsolutePath(currDir, dir)
	log.Info("set data dir success", "datadir", locDataDir)
}

// GetDataDir get data dir
func GetDataDir() string {
	return locDataDir
}
