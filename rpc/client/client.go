// Package client calls the wallet server json-rpc api.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultTimeout   = 120 * time.Second
	defaultRequestID = 1

	// AdminKeyHeader must match the server side header name
	AdminKeyHeader = "X-Admin-Key"
)

// Client is a json-rpc client of one wallet server
type Client struct {
	url  string
	rest *resty.Client
}

// New creates a client of the server rpc endpoint url, eg. http://127.0.0.1:11556/rpc
func New(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		url: url,
		rest: resty.New().
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
	}
}

// SetAdminKey sends key with every call
func (c *Client) SetAdminKey(key string) *Client {
	c.rest.SetHeader(AdminKeyHeader, key)
	return c
}

// RequestBody request body
type RequestBody struct {
	Version string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      int         `json:"id"`
}

// Error is a json-rpc error returned by the server
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (err *Error) Error() string {
	return fmt.Sprintf("json-rpc error %d, %s", err.Code, err.Message)
}

type jsonrpcResponse struct {
	Version string          `json:"jsonrpc,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// Call calls method with params and decodes the result into result.
// A server side failure is returned as *Error.
func (c *Client) Call(ctx context.Context, result interface{}, method string, params interface{}) error {
	reqBody := &RequestBody{
		Version: "2.0",
		Method:  method,
		Params:  params,
		ID:      defaultRequestID,
	}
	var jsonResp jsonrpcResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&jsonResp).
		SetError(&jsonResp).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("post %v error: %w", method, err)
	}
	if jsonResp.Error != nil {
		return jsonResp.Error
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("wrong response status %v. message: %v", resp.StatusCode(), resp.String())
	}
	if result == nil {
		return nil
	}
	if err = json.Unmarshal(jsonResp.Result, result); err != nil {
		return fmt.Errorf("unmarshal result error: %w", err)
	}
	return nil
}
