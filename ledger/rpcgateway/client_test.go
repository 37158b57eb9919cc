package rpcgateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyswap/XRPL-Custody/ledger"
)

const (
	testAccount = "rNDKeo9RrCiRdfsMG8AdoZvNZxHASGzbZL"
	testIssuer  = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
)

type handlerFunc func(params map[string]interface{}) interface{}

type fakeNode struct {
	mu       sync.Mutex
	handlers map[string]handlerFunc
	calls    map[string]int
}

func newFakeNode(t *testing.T, handlers map[string]handlerFunc) (*fakeNode, *Client) {
	node := &fakeNode{handlers: handlers, calls: make(map[string]int)}
	srv := httptest.NewServer(node)
	t.Cleanup(srv.Close)
	client, err := New(Config{
		APIAddress:    []string{srv.URL},
		Timeout:       time.Second,
		RetryTimes:    2,
		RetryInterval: 10 * time.Millisecond,
		PollInterval:  10 * time.Millisecond,
	})
	require.NoError(t, err)
	return node, client
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string                   `json:"method"`
		Params []map[string]interface{} `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	n.mu.Lock()
	n.calls[req.Method]++
	handler, ok := n.handlers[req.Method]
	n.mu.Unlock()
	var result interface{}
	if ok {
		var params map[string]interface{}
		if len(req.Params) > 0 {
			params = req.Params[0]
		}
		result = handler(params)
	} else {
		result = map[string]interface{}{"status": "error", "error": "unknownCmd"}
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"result": result})
}

func (n *fakeNode) count(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[method]
}

func TestAccountInfo(t *testing.T) {
	_, client := newFakeNode(t, map[string]handlerFunc{
		"account_info": func(params map[string]interface{}) interface{} {
			if params["account"] != testAccount {
				return map[string]interface{}{"status": "error", "error": "actNotFound", "error_message": "Account not found."}
			}
			return map[string]interface{}{
				"status": "success",
				"account_data": map[string]interface{}{
					"Account":    testAccount,
					"Balance":    "25000000",
					"Sequence":   42,
					"OwnerCount": 3,
				},
			}
		},
	})

	info, err := client.AccountInfo(context.Background(), testAccount)
	require.NoError(t, err)
	assert.Equal(t, int64(25000000), info.Balance)
	assert.Equal(t, uint32(42), info.Sequence)
	assert.Equal(t, uint32(3), info.OwnerCount)

	_, err = client.AccountInfo(context.Background(), testIssuer)
	assert.True(t, ledger.IsAccountNotFound(err))
	assert.False(t, ledger.IsRetryable(err))
}

func TestAccountLinesPaging(t *testing.T) {
	node, client := newFakeNode(t, map[string]handlerFunc{
		"account_lines": func(params map[string]interface{}) interface{} {
			if params["marker"] == nil {
				return map[string]interface{}{
					"status": "success",
					"lines":  []interface{}{map[string]interface{}{"account": testIssuer, "currency": "USD", "balance": "200", "limit": "1000", "limit_peer": "0"}},
					"marker": "page2",
				}
			}
			return map[string]interface{}{
				"status": "success",
				"lines":  []interface{}{map[string]interface{}{"account": testIssuer, "currency": "EUR", "balance": "-5", "limit": "0", "limit_peer": "10"}},
			}
		},
	})

	lines, err := client.AccountLines(context.Background(), testAccount, "")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, 2, node.count("account_lines"))
	assert.Equal(t, "USD", lines[0].Currency)
	remaining, anomaly := lines[0].RemainingCapacity()
	assert.Equal(t, "800", remaining.String())
	assert.False(t, anomaly)
	assert.Equal(t, "-5", lines[1].Balance.String())
}

func TestAccountTransactions(t *testing.T) {
	_, client := newFakeNode(t, map[string]handlerFunc{
		"account_tx": func(params map[string]interface{}) interface{} {
			return map[string]interface{}{
				"status": "success",
				"transactions": []interface{}{
					map[string]interface{}{
						"tx":        map[string]interface{}{"hash": "AAA", "TransactionType": "OfferCancel", "Account": testAccount, "Sequence": 9, "OfferSequence": 7},
						"meta":      map[string]interface{}{"TransactionResult": "tesSUCCESS"},
						"validated": true,
					},
					map[string]interface{}{
						"tx_json":   map[string]interface{}{"TransactionType": "OfferCreate", "Account": testAccount, "Sequence": 7, "TakerGets": "1000000", "TakerPays": map[string]interface{}{"currency": "USD", "issuer": testIssuer, "value": "1"}},
						"hash":      "BBB",
						"meta":      map[string]interface{}{"TransactionResult": "tesSUCCESS"},
						"validated": true,
					},
				},
				"marker": map[string]interface{}{"ledger": 10, "seq": 1},
			}
		},
	})

	page, err := client.AccountTransactions(context.Background(), testAccount, &ledger.HistoryRequest{Limit: 200})
	require.NoError(t, err)
	require.Len(t, page.Transactions, 2)
	assert.True(t, page.HasMore())

	cancel := page.Transactions[0]
	assert.Equal(t, ledger.TxOfferCancel, cancel.Type)
	assert.Equal(t, uint32(7), cancel.OfferSequence)
	assert.Equal(t, ledger.TesSUCCESS, cancel.Result)

	create := page.Transactions[1]
	assert.Equal(t, "BBB", create.Hash)
	assert.Equal(t, uint32(7), create.Sequence)
	require.NotNil(t, create.TakerGets)
	assert.Equal(t, int64(1000000), create.TakerGets.Drops())
	require.NotNil(t, create.TakerPays)
	assert.Equal(t, "USD", create.TakerPays.Currency())
}

func submitHandlers(preliminary string, tx func(calls int) interface{}, validatedLedger int) map[string]handlerFunc {
	var txCalls int
	var mu sync.Mutex
	return map[string]handlerFunc{
		"ledger_current": func(map[string]interface{}) interface{} {
			return map[string]interface{}{"status": "success", "ledger_current_index": 100}
		},
		"ledger": func(map[string]interface{}) interface{} {
			return map[string]interface{}{"status": "success", "ledger_index": validatedLedger, "validated": true}
		},
		"sign": func(params map[string]interface{}) interface{} {
			txJSON := params["tx_json"].(map[string]interface{})
			txJSON["hash"] = "C0FFEE"
			txJSON["Sequence"] = 5
			return map[string]interface{}{"status": "success", "tx_blob": "1200", "tx_json": txJSON}
		},
		"submit": func(map[string]interface{}) interface{} {
			return map[string]interface{}{"status": "success", "engine_result": preliminary, "engine_result_message": preliminary, "tx_json": map[string]interface{}{"hash": "C0FFEE"}}
		},
		"tx": func(map[string]interface{}) interface{} {
			mu.Lock()
			txCalls++
			n := txCalls
			mu.Unlock()
			return tx(n)
		},
	}
}

func signPayment(t *testing.T, client *Client) *ledger.SignedTx {
	amt, err := ledger.NewDrops(1000000)
	require.NoError(t, err)
	signed, err := client.Sign(context.Background(), ledger.NewPayment(testAccount, testIssuer, amt, nil), "sEdSECRET")
	require.NoError(t, err)
	return signed
}

func TestSignAndSubmit(t *testing.T) {
	_, client := newFakeNode(t, submitHandlers("tesSUCCESS", func(calls int) interface{} {
		if calls == 1 {
			return map[string]interface{}{"status": "error", "error": "txnNotFound"}
		}
		return map[string]interface{}{
			"status": "success", "hash": "C0FFEE", "TransactionType": "Payment", "Account": testAccount,
			"Sequence": 5, "validated": true, "ledger_index": 101,
			"meta": map[string]interface{}{"TransactionResult": "tesSUCCESS"},
		}
	}, 100))

	signed := signPayment(t, client)
	assert.Equal(t, uint32(120), signed.LastLedgerSequence)
	assert.Equal(t, uint32(5), signed.Sequence)

	res, err := client.SubmitAndAwait(context.Background(), signed)
	require.NoError(t, err)
	assert.Equal(t, ledger.TesSUCCESS, res.Result)
	seq, err := res.SequenceNumber()
	require.NoError(t, err)
	assert.Equal(t, uint32(5), seq)
	assert.Equal(t, uint32(101), res.LedgerIndex)
}

func TestSubmitClaimedFailure(t *testing.T) {
	_, client := newFakeNode(t, submitHandlers("tesSUCCESS", func(int) interface{} {
		return map[string]interface{}{
			"status": "success", "hash": "C0FFEE", "Sequence": 5, "validated": true,
			"meta": map[string]interface{}{"TransactionResult": "tecUNFUNDED_PAYMENT"},
		}
	}, 100))

	res, err := client.SubmitAndAwait(context.Background(), signPayment(t, client))
	assert.Equal(t, ledger.KindLedgerRejection, ledger.KindOf(err))
	assert.Equal(t, "tecUNFUNDED_PAYMENT", ledger.CodeOf(err))
	require.NotNil(t, res)
	assert.Equal(t, ledger.TecUNFUNDED_PAYMENT, res.Result)
}

func TestSubmitMalformed(t *testing.T) {
	node, client := newFakeNode(t, submitHandlers("temBAD_FEE", func(int) interface{} {
		return map[string]interface{}{"status": "error", "error": "txnNotFound"}
	}, 100))

	_, err := client.SubmitAndAwait(context.Background(), signPayment(t, client))
	assert.Equal(t, ledger.KindLedgerRejection, ledger.KindOf(err))
	assert.Equal(t, "temBAD_FEE", ledger.CodeOf(err))
	assert.Equal(t, 0, node.count("tx"))
}

func TestSubmitExpired(t *testing.T) {
	_, client := newFakeNode(t, submitHandlers("terQUEUED", func(int) interface{} {
		return map[string]interface{}{"status": "error", "error": "txnNotFound"}
	}, 121))

	_, err := client.SubmitAndAwait(context.Background(), signPayment(t, client))
	assert.Equal(t, ledger.KindLedgerRejection, ledger.KindOf(err))
	assert.Equal(t, "tefMAX_LEDGER", ledger.CodeOf(err))
}

func TestSubmitTimeout(t *testing.T) {
	_, client := newFakeNode(t, submitHandlers("tesSUCCESS", func(int) interface{} {
		return map[string]interface{}{"status": "success", "hash": "C0FFEE", "validated": false}
	}, 100))

	signed := signPayment(t, client)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err := client.SubmitAndAwait(ctx, signed)
	assert.Equal(t, ledger.KindSubmissionUnknown, ledger.KindOf(err))
	assert.True(t, ledger.IsRetryable(err))
	assert.Contains(t, err.Error(), "C0FFEE")
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	client, err := New(Config{
		APIAddress:    []string{srv.URL},
		RetryTimes:    2,
		RetryInterval: time.Millisecond,
	})
	require.NoError(t, err)

	_, err = client.AccountOffers(context.Background(), testAccount)
	assert.Equal(t, ledger.KindNetwork, ledger.KindOf(err))
	assert.True(t, ledger.IsRetryable(err))

	_, err = client.SubmitAndAwait(context.Background(), &ledger.SignedTx{Blob: "1200", Hash: "BEEF"})
	assert.Equal(t, ledger.KindSubmissionUnknown, ledger.KindOf(err))
}

func TestSubmitPrimaryEndpointOnly(t *testing.T) {
	var primaryHits int
	var mu sync.Mutex
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		primaryHits++
		mu.Unlock()
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer primary.Close()
	node := &fakeNode{
		handlers: submitHandlers("tesSUCCESS", func(int) interface{} {
			return map[string]interface{}{"status": "error", "error": "txnNotFound"}
		}, 100),
		calls: make(map[string]int),
	}
	backup := httptest.NewServer(node)
	defer backup.Close()

	client, err := New(Config{
		APIAddress:    []string{primary.URL, backup.URL},
		Timeout:       time.Second,
		RetryTimes:    1,
		RetryInterval: time.Millisecond,
		PollInterval:  10 * time.Millisecond,
	})
	require.NoError(t, err)

	signed := signPayment(t, client)
	mu.Lock()
	primaryHits = 0
	mu.Unlock()

	_, err = client.SubmitAndAwait(context.Background(), signed)
	assert.Equal(t, ledger.KindSubmissionUnknown, ledger.KindOf(err))
	assert.Contains(t, err.Error(), "C0FFEE")
	assert.Equal(t, 0, node.count("submit"))
	mu.Lock()
	assert.Equal(t, 1, primaryHits)
	mu.Unlock()
}

func TestDeriveAddress(t *testing.T) {
	_, client := newFakeNode(t, map[string]handlerFunc{
		"wallet_propose": func(params map[string]interface{}) interface{} {
			if params["seed"] != "sEdSECRET" {
				return map[string]interface{}{"status": "error", "error": "badSeed", "error_message": "Disallowed seed."}
			}
			return map[string]interface{}{"status": "success", "account_id": testAccount, "key_type": "ed25519"}
		},
	})

	addr, err := client.DeriveAddress(context.Background(), "sEdSECRET")
	require.NoError(t, err)
	assert.Equal(t, testAccount, addr)

	_, err = client.DeriveAddress(context.Background(), "sBAD")
	assert.Equal(t, ledger.KindValidation, ledger.KindOf(err))
	assert.Equal(t, "badSeed", ledger.CodeOf(err))
}

func TestNewClientNeedsAddress(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
