// Package restapi serves the read only wallet queries over http GET.
package restapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/anyswap/XRPL-Custody/internal/walletapi"
	"github.com/anyswap/XRPL-Custody/params"
)

// Handlers rest handlers of one service
type Handlers struct {
	svc *walletapi.Service
}

// NewHandlers creates the rest handlers of svc
func NewHandlers(svc *walletapi.Service) *Handlers {
	return &Handlers{svc: svc}
}

func writeResponse(w http.ResponseWriter, resp interface{}, err error) {
	w.Header().Set("Content-Type", "application/json")
	if err == nil {
		w.WriteHeader(http.StatusOK)
		jsonData, _ := json.Marshal(resp)
		_, _ = w.Write(jsonData)
		return
	}
	w.WriteHeader(http.StatusBadRequest)
	jsonData, _ := json.Marshal(walletapi.ToRPCError(err))
	_, _ = w.Write(jsonData)
}

func getIntParam(r *http.Request, name string) (int, error) {
	val := r.URL.Query().Get(name)
	if val == "" {
		return 0, nil
	}
	num, err := strconv.Atoi(val)
	if err != nil || num < 0 {
		return 0, fmt.Errorf("wrong %v", name)
	}
	return num, nil
}

// ServerInfoHandler handler
func (h *Handlers) ServerInfoHandler(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, h.svc.GetServerInfo(), nil)
}

// VersionInfoHandler handler
func (h *Handlers) VersionInfoHandler(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, params.VersionWithMeta, nil)
}

// AccountSummaryHandler handler
func (h *Handlers) AccountSummaryHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res, err := h.svc.GetAccountSummary(r.Context(), vars["address"])
	writeResponse(w, res, err)
}

// HistoryHandler handler
func (h *Handlers) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	limit, err := getIntParam(r, "limit")
	if err != nil {
		writeResponse(w, nil, err)
		return
	}
	res, err := h.svc.GetHistory(r.Context(), &walletapi.AddressArgs{Address: vars["address"], Limit: limit})
	writeResponse(w, res, err)
}

// CapacityHandler handler
func (h *Handlers) CapacityHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	args := &walletapi.TokenArgs{
		Address:  vars["address"],
		Currency: vars["currency"],
		Issuer:   r.URL.Query().Get("issuer"),
	}
	res, err := h.svc.GetCapacity(r.Context(), args)
	writeResponse(w, res, err)
}

// CheckAddressHandler handler
func (h *Handlers) CheckAddressHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	vals := r.URL.Query()
	args := &walletapi.TokenArgs{
		Address:  vars["address"],
		Currency: vals.Get("currency"),
		Issuer:   vals.Get("issuer"),
	}
	res, err := h.svc.CheckAddress(r.Context(), args)
	writeResponse(w, res, err)
}

// CheckIssuerHandler handler
func (h *Handlers) CheckIssuerHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	args := &walletapi.TokenArgs{
		Currency: vars["currency"],
		Issuer:   r.URL.Query().Get("issuer"),
	}
	res, err := h.svc.CheckIssuer(r.Context(), args)
	writeResponse(w, res, err)
}

// OfferStatusHandler handler
func (h *Handlers) OfferStatusHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sequence, err := strconv.ParseUint(vars["sequence"], 10, 32)
	if err != nil {
		writeResponse(w, nil, fmt.Errorf("wrong sequence"))
		return
	}
	pages, err := getIntParam(r, "pages")
	if err != nil {
		writeResponse(w, nil, err)
		return
	}
	args := &walletapi.OfferRefArgs{Owner: vars["owner"], Sequence: uint32(sequence), Pages: pages}
	res, err := h.svc.GetOfferStatus(r.Context(), args)
	writeResponse(w, res, err)
}

// OrderBookHandler handler
func (h *Handlers) OrderBookHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	vals := r.URL.Query()
	limit, err := getIntParam(r, "limit")
	if err != nil {
		writeResponse(w, nil, err)
		return
	}
	args := &walletapi.OrderBookArgs{
		SellCurrency: vars["sell"],
		SellIssuer:   vals.Get("sellissuer"),
		BuyCurrency:  vars["buy"],
		BuyIssuer:    vals.Get("buyissuer"),
		Limit:        limit,
		Exclude:      vals.Get("exclude"),
	}
	res, err := h.svc.GetOrderBook(r.Context(), args)
	writeResponse(w, res, err)
}

// IncomingOffersHandler handler
func (h *Handlers) IncomingOffersHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	limit, err := getIntParam(r, "limit")
	if err != nil {
		writeResponse(w, nil, err)
		return
	}
	perBook, err := getIntParam(r, "perbook")
	if err != nil {
		writeResponse(w, nil, err)
		return
	}
	args := &walletapi.IncomingOffersArgs{Address: vars["address"], Limit: limit, PerBook: perBook}
	res, err := h.svc.GetIncomingOffers(r.Context(), args)
	writeResponse(w, res, err)
}

// EnabledTokensHandler handler
func (h *Handlers) EnabledTokensHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res, err := h.svc.GetEnabledTokens(vars["address"])
	writeResponse(w, res, err)
}

// SubmissionsHandler handler
func (h *Handlers) SubmissionsHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	offset, err := getIntParam(r, "offset")
	if err != nil {
		writeResponse(w, nil, err)
		return
	}
	limit, err := getIntParam(r, "limit")
	if err != nil {
		writeResponse(w, nil, err)
		return
	}
	res, err := h.svc.GetSubmissions(&walletapi.SubmissionsArgs{Account: vars["address"], Offset: offset, Limit: limit})
	writeResponse(w, res, err)
}
