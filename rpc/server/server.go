// Package server runs the json-rpc and rest api server.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v6"
	"github.com/didip/tollbooth/v6/limiter"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/rpc/v2"
	rpcjson "github.com/gorilla/rpc/v2/json2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anyswap/XRPL-Custody/internal/walletapi"
	"github.com/anyswap/XRPL-Custody/log"
	"github.com/anyswap/XRPL-Custody/params"
	"github.com/anyswap/XRPL-Custody/rpc/restapi"
	"github.com/anyswap/XRPL-Custody/rpc/rpcapi"
)

// RPCServiceName is the json-rpc service name, methods are called as wallet.Method
const RPCServiceName = "wallet"

// StartAPIServer start api server
func StartAPIServer(svc *walletapi.Service, gatherer prometheus.Gatherer) *http.Server {
	router := NewRouter(svc, gatherer)

	apiPort := params.GetAPIPort()
	var allowedOrigins []string
	maxRequestsLimit := 0
	if server := params.GetServerConfig(); server != nil && server.APIServer != nil {
		allowedOrigins = server.APIServer.AllowedOrigins
		maxRequestsLimit = server.APIServer.MaxRequestsLimit
	}

	corsOptions := []handlers.CORSOption{
		handlers.AllowedMethods([]string{"GET", "POST"}),
	}
	if len(allowedOrigins) != 0 {
		corsOptions = append(corsOptions,
			handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", rpcapi.AdminKeyHeader}),
			handlers.AllowedOrigins(allowedOrigins),
		)
	}

	var handler http.Handler = handlers.CORS(corsOptions...)(router)
	if maxRequestsLimit > 0 {
		lmt := tollbooth.NewLimiter(float64(maxRequestsLimit), &limiter.ExpirableOptions{DefaultExpirationTTL: time.Hour})
		lmt.SetMessage(`{"error":"too many requests"}`).SetMessageContentType("application/json")
		handler = tollbooth.LimitHandler(lmt, handler)
	}

	log.Info("JSON RPC service listen and serving", "port", apiPort, "allowedOrigins", allowedOrigins, "maxRequestsLimit", maxRequestsLimit)
	svr := &http.Server{
		Addr:         fmt.Sprintf(":%v", apiPort),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		Handler:      handler,
	}
	go func() {
		if err := svr.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("ListenAndServe error", "err", err)
		}
	}()
	return svr
}

// NewRouter routes /rpc, the rest queries and /metrics
func NewRouter(svc *walletapi.Service, gatherer prometheus.Gatherer) *mux.Router {
	r := mux.NewRouter()

	rpcserver := rpc.NewServer()
	rpcserver.RegisterCodec(rpcjson.NewCodec(), "application/json")
	_ = rpcserver.RegisterService(rpcapi.NewRPCAPI(svc), RPCServiceName)

	h := restapi.NewHandlers(svc)

	r.Handle("/rpc", rpcserver)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")
	r.HandleFunc("/serverinfo", h.ServerInfoHandler).Methods("GET")
	r.HandleFunc("/versioninfo", h.VersionInfoHandler).Methods("GET")
	r.HandleFunc("/account/{address}", h.AccountSummaryHandler).Methods("GET")
	r.HandleFunc("/history/{address}", h.HistoryHandler).Methods("GET")
	r.HandleFunc("/capacity/{address}/{currency}", h.CapacityHandler).Methods("GET")
	r.HandleFunc("/check/address/{address}", h.CheckAddressHandler).Methods("GET")
	r.HandleFunc("/check/issuer/{currency}", h.CheckIssuerHandler).Methods("GET")
	r.HandleFunc("/offer/{owner}/{sequence}", h.OfferStatusHandler).Methods("GET")
	r.HandleFunc("/book/{sell}/{buy}", h.OrderBookHandler).Methods("GET")
	r.HandleFunc("/incoming/{address}", h.IncomingOffersHandler).Methods("GET")
	r.HandleFunc("/tokens/{address}", h.EnabledTokensHandler).Methods("GET")
	r.HandleFunc("/submissions/{address}", h.SubmissionsHandler).Methods("GET")

	methodsExcluesGet := []string{"POST", "HEAD", "PUT", "DELETE", "CONNECT", "OPTIONS", "TRACE", "PATCH"}
	for _, path := range []string{
		"/serverinfo",
		"/versioninfo",
		"/account/{address}",
		"/history/{address}",
		"/capacity/{address}/{currency}",
		"/check/address/{address}",
		"/check/issuer/{currency}",
		"/offer/{owner}/{sequence}",
		"/book/{sell}/{buy}",
		"/incoming/{address}",
		"/tokens/{address}",
		"/submissions/{address}",
	} {
		r.HandleFunc(path, warnHandler).Methods(methodsExcluesGet...)
	}

	return r
}

func warnHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "Forbid '%v' on '%v'\n", r.Method, r.RequestURI)
}
