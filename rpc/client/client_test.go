package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req RequestBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		switch req.Method {
		case "wallet.GetVersionInfo":
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"0.1.0"}`))
		case "wallet.AdminBlacklist":
			if r.Header.Get(AdminKeyHeader) != "k" {
				_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"not admin"}}`))
				return
			}
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"isBlacked":true}}`))
		default:
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32092,"message":"LedgerRejection","data":{"code":"tecPATH_DRY"}}}`))
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	c := New(srv.URL, 0)

	var version string
	require.NoError(t, c.Call(ctx, &version, "wallet.GetVersionInfo", struct{}{}))
	assert.Equal(t, "0.1.0", version)

	err := c.Call(ctx, nil, "wallet.Send", struct{}{})
	rpcErr, ok := err.(*Error)
	require.True(t, ok, "%v", err)
	assert.Equal(t, -32092, rpcErr.Code)
	assert.JSONEq(t, `{"code":"tecPATH_DRY"}`, string(rpcErr.Data))

	var res struct {
		IsBlacked bool `json:"isBlacked"`
	}
	assert.Error(t, c.Call(ctx, &res, "wallet.AdminBlacklist", struct{}{}))
	require.NoError(t, c.SetAdminKey("k").Call(ctx, &res, "wallet.AdminBlacklist", struct{}{}))
	assert.True(t, res.IsBlacked)
}
