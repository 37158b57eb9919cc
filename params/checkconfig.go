package params

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/anyswap/XRPL-Custody/ledger"
)

// max page size rippled serves for account_tx
const maxHistoryPageSize = 400

// CheckConfig check config
func (c *WalletConfig) CheckConfig() (err error) {
	if c.Identifier == "" {
		return errors.New("server must config non empty 'Identifier'")
	}
	if c.Gateway == nil {
		return errors.New("server must config 'Gateway'")
	}
	if err = c.Gateway.CheckConfig(); err != nil {
		return err
	}
	if c.Registry == nil {
		return errors.New("server must config 'Registry'")
	}
	if err = c.Registry.CheckConfig(); err != nil {
		return err
	}
	if c.Reserve != nil {
		if err = c.Reserve.CheckConfig(); err != nil {
			return err
		}
	}
	if c.Reconciler != nil {
		if err = c.Reconciler.CheckConfig(); err != nil {
			return err
		}
	}
	if c.Server != nil {
		if err = c.Server.CheckConfig(); err != nil {
			return err
		}
	}
	if c.MongoDB != nil && c.MongoDB.DBName == "" {
		return errors.New("server must config 'MongoDB.DBName'")
	}
	if c.Keystore != nil && c.Keystore.DataDir == "" {
		return errors.New("server must config 'Keystore.DataDir'")
	}
	if c.Email != nil {
		if err = c.Email.CheckConfig(); err != nil {
			return err
		}
	}
	return nil
}

// CheckConfig check gateway config
func (c *GatewayConfig) CheckConfig() error {
	if len(c.APIAddress) == 0 {
		return errors.New("gateway must config 'APIAddress'")
	}
	for _, addr := range c.APIAddress {
		if addr == "" {
			return errors.New("gateway 'APIAddress' has empty item")
		}
	}
	if c.RetryTimes < 0 {
		return errors.New("gateway 'RetryTimes' is negative")
	}
	return nil
}

// CheckConfig check registry config
func (c *RegistryConfig) CheckConfig() error {
	for currency, issuer := range c.Issuers {
		code, err := ledger.EncodeCurrency(currency)
		if err != nil {
			return fmt.Errorf("registry currency %v: %w", currency, err)
		}
		if code == ledger.NativeCurrency {
			return errors.New("registry must not config an issuer for XRP")
		}
		if !ledger.IsValidAddress(issuer) {
			return fmt.Errorf("registry issuer of %v is not an address: %v", currency, issuer)
		}
	}
	for _, addr := range c.Blacklist {
		if !ledger.IsValidAddress(addr) {
			return fmt.Errorf("registry blacklist item is not an address: %v", addr)
		}
	}
	if c.WatchBlacklist && c.BlacklistFile == "" {
		return errors.New("registry 'WatchBlacklist' needs 'BlacklistFile'")
	}
	return nil
}

// CheckConfig check reserve config
func (c *ReserveConfig) CheckConfig() error {
	if c.BaseReserve < 0 || c.OwnerReserve < 0 || c.BaseFee < 0 {
		return errors.New("reserve values must not be negative")
	}
	if c.DefaultTrustLimit != "" {
		limit, err := decimal.NewFromString(c.DefaultTrustLimit)
		if err != nil || !limit.IsPositive() {
			return fmt.Errorf("reserve 'DefaultTrustLimit' is not a positive number: %v", c.DefaultTrustLimit)
		}
	}
	return nil
}

// CheckConfig check reconciler config
func (c *ReconcilerConfig) CheckConfig() error {
	if c.HistoryPageSize < 0 || c.HistoryPageSize > maxHistoryPageSize {
		return fmt.Errorf("reconciler 'HistoryPageSize' must be in [0, %v]", maxHistoryPageSize)
	}
	if c.HistoryMaxPages < 0 {
		return errors.New("reconciler 'HistoryMaxPages' is negative")
	}
	return nil
}

// CheckConfig check server config
func (c *ServerConfig) CheckConfig() error {
	if c.APIServer == nil {
		return errors.New("server must config 'Server.APIServer'")
	}
	if c.APIServer.Port < 0 || c.APIServer.Port > 65535 {
		return fmt.Errorf("server api port %v out of range", c.APIServer.Port)
	}
	return nil
}

// CheckConfig check email config
func (c *EmailConfig) CheckConfig() error {
	if c.Server == "" || c.Port == 0 {
		return errors.New("email must config 'Server' and 'Port'")
	}
	if c.From == "" {
		return errors.New("email must config 'From'")
	}
	if len(c.To) == 0 {
		return errors.New("email must config 'To'")
	}
	return nil
}
