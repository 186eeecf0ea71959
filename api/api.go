// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/stakepool/api/accounts"
	"github.com/vechain/stakepool/api/beneficiary"
	"github.com/vechain/stakepool/api/debug"
	"github.com/vechain/stakepool/api/doc"
	"github.com/vechain/stakepool/api/events"
	"github.com/vechain/stakepool/api/middleware"
	"github.com/vechain/stakepool/api/node"
	"github.com/vechain/stakepool/api/receipts"
	"github.com/vechain/stakepool/api/staker"
	"github.com/vechain/stakepool/api/subscriptions"
	"github.com/vechain/stakepool/api/transfers"
	"github.com/vechain/stakepool/chain"
	"github.com/vechain/stakepool/clock"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/logdb"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
	EnableMetrics        bool
	LogsLimit            uint64
	SkipLogs             bool
	Version              string
}

// New return api router
func New(
	chain *chain.Chain,
	logDB *logdb.LogDB,
	clk clock.Clock,
	opts Options,
) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	// to serve api docs
	router.PathPrefix("/doc").Handler(
		http.StripPrefix("/doc/", http.FileServer(http.FS(doc.FS))),
	)
	router.Path("/").HandlerFunc(
		func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, "doc/stakepool.yaml", http.StatusTemporaryRedirect)
		})

	accounts.New(chain).
		Mount(router, "/accounts")
	staker.New(chain).
		Mount(router, "/staker")
	beneficiary.New(chain).
		Mount(router, "/beneficiary")
	receipts.New(chain).
		Mount(router, "/receipts")

	if !opts.SkipLogs && logDB != nil {
		events.New(logDB, opts.LogsLimit).
			Mount(router, "/logs/event")
		transfers.New(logDB, opts.LogsLimit).
			Mount(router, "/logs/transfer")
	}
	debug.New(chain, clk).
		Mount(router, "/debug")
	node.New(chain, opts.Version, doc.Version()).
		Mount(router, "/node")
	subs := subscriptions.New(chain, origins)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	genesisID := chain.GenesisID().String()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("x-genesis-id", genesisID)
			w.Header().Set("x-stakepool-ver", opts.Version)
			next.ServeHTTP(w, r)
		})
	})

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", "x-genesis-id"}),
		handlers.ExposedHeaders([]string{"x-genesis-id", "x-stakepool-ver"}),
	)(handler)

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = &atomic.Bool{}
	}
	handler = middleware.RequestLoggerMiddleware(logger, enabled, opts.SlowQueriesThreshold, opts.Log5xxErrors)(handler)

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
