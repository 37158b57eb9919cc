package params

import (
	"github.com/anyswap/XRPL-Custody/common"
	"github.com/anyswap/XRPL-Custody/ledger/rpcgateway"
	"github.com/anyswap/XRPL-Custody/registry"
	"github.com/anyswap/XRPL-Custody/wallet"
)

// GatewayOptions converts the gateway section; zero values keep defaults
func (c *WalletConfig) GatewayOptions() rpcgateway.Config {
	g := c.Gateway
	return rpcgateway.Config{
		APIAddress:      g.APIAddress,
		Timeout:         common.SecondsDuration(g.RPCTimeout),
		RetryTimes:      g.RetryTimes,
		RetryInterval:   common.SecondsDuration(g.RetryInterval),
		LedgerOffset:    g.LedgerOffset,
		PollInterval:    common.SecondsDuration(g.PollInterval),
		BreakerFailures: g.BreakerFailures,
		BreakerTimeout:  common.SecondsDuration(g.BreakerTimeout),
	}
}

// WalletOptions converts the reserve and reconciler sections
func (c *WalletConfig) WalletOptions() wallet.Config {
	cfg := wallet.Config{}
	if c.Gateway != nil {
		cfg.SubmitTimeout = common.SecondsDuration(c.Gateway.SubmitTimeout)
	}
	if r := c.Reserve; r != nil {
		cfg.BaseReserve = r.BaseReserve
		cfg.OwnerReserve = r.OwnerReserve
		cfg.BaseFee = r.BaseFee
		cfg.DefaultTrustLimit = r.DefaultTrustLimit
	}
	if r := c.Reconciler; r != nil {
		cfg.HistoryPageSize = r.HistoryPageSize
		cfg.HistoryMaxPages = r.HistoryMaxPages
	}
	return cfg
}

// BuildRegistry builds the registry from the inline blacklist plus the
// blacklist file when one is configured
func (c *WalletConfig) BuildRegistry() (*registry.Registry, error) {
	blacklist := append([]string(nil), c.Registry.Blacklist...)
	if c.Registry.BlacklistFile != "" {
		extra, err := registry.LoadBlacklistFile(c.Registry.BlacklistFile)
		if err != nil {
			return nil, err
		}
		blacklist = append(blacklist, extra...)
	}
	return registry.New(c.Registry.Issuers, blacklist)
}
