// Package rpcgateway implements ledger.Gateway over the rippled JSON-RPC API.
package rpcgateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/anyswap/XRPL-Custody/ledger"
	"github.com/anyswap/XRPL-Custody/log"
)

// Config of the gateway
type Config struct {
	APIAddress    []string
	Timeout       time.Duration
	RetryTimes    int
	RetryInterval time.Duration

	// LastLedgerSequence = current ledger + LedgerOffset
	LedgerOffset uint32
	PollInterval time.Duration

	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// default config values
var (
	DefaultTimeout         = 10 * time.Second
	DefaultRetryTimes      = 3
	DefaultRetryInterval   = 1 * time.Second
	DefaultLedgerOffset    = uint32(20)
	DefaultPollInterval    = 1 * time.Second
	DefaultBreakerFailures = uint32(5)
	DefaultBreakerTimeout  = 30 * time.Second
)

func (c *Config) setDefaults() {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RetryTimes == 0 {
		c.RetryTimes = DefaultRetryTimes
	}
	if c.RetryInterval == 0 {
		c.RetryInterval = DefaultRetryInterval
	}
	if c.LedgerOffset == 0 {
		c.LedgerOffset = DefaultLedgerOffset
	}
	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.BreakerFailures == 0 {
		c.BreakerFailures = DefaultBreakerFailures
	}
	if c.BreakerTimeout == 0 {
		c.BreakerTimeout = DefaultBreakerTimeout
	}
}

// Client talks to one or more rippled nodes
type Client struct {
	cfg     Config
	rest    *resty.Client
	breaker *gobreaker.CircuitBreaker
}

var _ ledger.Gateway = (*Client)(nil)

// New creates a gateway client
func New(cfg Config) (*Client, error) {
	if len(cfg.APIAddress) == 0 {
		return nil, errors.New("gateway: no api address")
	}
	cfg.setDefaults()
	c := &Client{
		cfg: cfg,
		rest: resty.New().
			SetTimeout(cfg.Timeout).
			SetHeader("Content-Type", "application/json"),
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "rippled",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("gateway circuit state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return c, nil
}

type rpcRequest struct {
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
}

type rpcStatus struct {
	Status       string `json:"status"`
	Error        string `json:"error"`
	ErrorMessage string `json:"error_message"`
}

// node errors that say nothing about the request itself
var transientErrors = map[string]bool{
	"noNetwork":        true,
	"noCurrent":        true,
	"noClosed":         true,
	"tooBusy":          true,
	"slowDown":         true,
	"lgrNotFound":      true,
	"notSynced":        true,
	"notReady":         true,
	"amendmentBlocked": true,
}

// call sends one request, retrying transport failures over all endpoints
func (c *Client) call(ctx context.Context, method string, params, result interface{}) error {
	return c.doCall(ctx, method, params, result, c.cfg.RetryTimes)
}

func (c *Client) doCall(ctx context.Context, method string, params, result interface{}, retryTimes int) (err error) {
	req := &rpcRequest{Method: method, Params: []interface{}{params}}
	var raw json.RawMessage
	for i := 0; i < retryTimes; i++ {
		for _, url := range c.cfg.APIAddress {
			raw, err = c.post(ctx, url, req)
			if err == nil {
				return decodeResult(method, raw, result)
			}
			log.Warn("call rippled failed", "url", url, "method", method, "err", err)
			if ctx.Err() != nil || errors.Is(err, gobreaker.ErrOpenState) {
				return wrapTransport(method, err)
			}
		}
		if i+1 < retryTimes {
			select {
			case <-ctx.Done():
				return wrapTransport(method, ctx.Err())
			case <-time.After(c.cfg.RetryInterval):
			}
		}
	}
	return wrapTransport(method, err)
}

// callPrimary sends one request to the first endpoint only, without retry
func (c *Client) callPrimary(ctx context.Context, method string, params, result interface{}) error {
	req := &rpcRequest{Method: method, Params: []interface{}{params}}
	url := c.cfg.APIAddress[0]
	raw, err := c.post(ctx, url, req)
	if err != nil {
		log.Warn("call rippled failed", "url", url, "method", method, "err", err)
		return wrapTransport(method, err)
	}
	return decodeResult(method, raw, result)
}

func (c *Client) post(ctx context.Context, url string, req *rpcRequest) (json.RawMessage, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.rest.R().SetContext(ctx).SetBody(req).Post(url)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() != 200 {
			return nil, fmt.Errorf("http status %v", resp.StatusCode())
		}
		var res rpcResponse
		if err := json.Unmarshal(resp.Body(), &res); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		if len(res.Result) == 0 {
			return nil, errors.New("empty result")
		}
		return res.Result, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(json.RawMessage), nil
}

func wrapTransport(method string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%v: %w", method, ledger.ErrBreakerOpen)
	}
	return ledger.Network(err, "%v", method)
}

func decodeResult(method string, raw json.RawMessage, result interface{}) error {
	var status rpcStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return ledger.Network(err, "%v: bad result", method)
	}
	if status.Status == "error" || status.Error != "" {
		return nodeError(method, status)
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return ledger.Network(err, "%v: bad result", method)
	}
	return nil
}

// errTxnNotFound is internal: awaiting treats it as "not yet"
var errTxnNotFound = errors.New("txnNotFound")

func nodeError(method string, status rpcStatus) error {
	switch {
	case status.Error == "actNotFound":
		return fmt.Errorf("%v: %w", method, ledger.ErrAccountNotFound)
	case status.Error == "txnNotFound":
		return errTxnNotFound
	case transientErrors[status.Error]:
		return ledger.Network(nil, "%v: node error %v %v", method, status.Error, status.ErrorMessage)
	}
	return &ledger.Error{
		Kind:    ledger.KindValidation,
		Code:    status.Error,
		Message: fmt.Sprintf("%v: %v", method, status.ErrorMessage),
	}
}
