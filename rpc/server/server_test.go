package server

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	rpcjson "github.com/gorilla/rpc/v2/json2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyswap/XRPL-Custody/internal/walletapi"
	"github.com/anyswap/XRPL-Custody/ledger"
	"github.com/anyswap/XRPL-Custody/ledger/ledgertest"
	"github.com/anyswap/XRPL-Custody/metrics"
	"github.com/anyswap/XRPL-Custody/params"
	"github.com/anyswap/XRPL-Custody/registry"
	"github.com/anyswap/XRPL-Custody/rpc/rpcapi"
	"github.com/anyswap/XRPL-Custody/wallet"
)

const (
	issuerAddr = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	aliceAddr  = "rNDKeo9RrCiRdfsMG8AdoZvNZxHASGzbZL"
	carolAddr  = "rf1BiGeXwwQoi8Z2ueFYTEXSwuJYfV2Jpn"
)

func newTestServer(t *testing.T) *httptest.Server {
	reg, err := registry.New(map[string]string{"USD": issuerAddr}, nil)
	require.NoError(t, err)
	l := ledgertest.New()
	l.Fund(aliceAddr, "s"+aliceAddr, 50*ledger.DropsPerXRP)
	holder := registry.NewHolder(reg)
	w := wallet.New(l, holder, nil, wallet.Config{})
	promReg := prometheus.NewRegistry()
	svc := walletapi.NewService(w, holder, walletapi.Options{Identifier: "test", Metrics: metrics.New(promReg)})

	params.SetConfig(&params.WalletConfig{
		Server: &params.ServerConfig{AdminKeys: []string{"admin-key"}},
	})
	t.Cleanup(func() { params.SetConfig(nil) })

	srv := httptest.NewServer(NewRouter(svc, promReg))
	t.Cleanup(srv.Close)
	return srv
}

func callRPC(t *testing.T, srv *httptest.Server, method string, args, result interface{}, header http.Header) error {
	body, err := rpcjson.EncodeClientRequest(RPCServiceName+"."+method, args)
	require.NoError(t, err)
	req, err := http.NewRequest("POST", srv.URL+"/rpc", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for key := range header {
		req.Header.Set(key, header.Get(key))
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return rpcjson.DecodeClientResponse(resp.Body, result)
}

func TestRPCServerInfo(t *testing.T) {
	srv := newTestServer(t)
	var info walletapi.ServerInfo
	require.NoError(t, callRPC(t, srv, "GetServerInfo", &rpcapi.RPCNullArgs{}, &info, nil))
	assert.Equal(t, "test", info.Identifier)
	assert.Equal(t, issuerAddr, info.Tokens["USD"])
}

func TestRPCAccountSummary(t *testing.T) {
	srv := newTestServer(t)
	var summary wallet.Summary
	address := aliceAddr
	require.NoError(t, callRPC(t, srv, "GetAccountSummary", &address, &summary, nil))
	assert.Equal(t, aliceAddr, summary.Address)
	assert.Equal(t, "50", summary.Balance)

	address = "bogus"
	err := callRPC(t, srv, "GetAccountSummary", &address, &summary, nil)
	require.Error(t, err)
	rpcErr, ok := err.(*rpcjson.Error)
	require.True(t, ok, "%T", err)
	assert.Equal(t, rpcjson.ErrorCode(-32090), rpcErr.Code)
}

func TestRPCAdminBlacklist(t *testing.T) {
	srv := newTestServer(t)
	args := &walletapi.BlacklistArgs{Operation: walletapi.BlacklistAdd, Address: carolAddr}
	var result walletapi.BlacklistResult

	err := callRPC(t, srv, "AdminBlacklist", args, &result, nil)
	assert.Error(t, err)

	header := http.Header{}
	header.Set(rpcapi.AdminKeyHeader, "admin-key")
	require.NoError(t, callRPC(t, srv, "AdminBlacklist", args, &result, header))
	assert.True(t, result.IsBlacked)
}

func TestRESTHandlers(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/serverinfo")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var info walletapi.ServerInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, "test", info.Identifier)

	resp2, err := http.Get(srv.URL + "/offer/" + aliceAddr + "/notanumber")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)

	resp3, err := http.Post(srv.URL+"/serverinfo", "application/json", nil)
	require.NoError(t, err)
	defer resp3.Body.Close()
	body, _ := ioutil.ReadAll(resp3.Body)
	assert.Contains(t, string(body), "Forbid 'POST'")

	resp4, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp4.Body.Close()
	body, _ = ioutil.ReadAll(resp4.Body)
	assert.Contains(t, string(body), "xrpl_custody_registry_blacklist_size")
}
