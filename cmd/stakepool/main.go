// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/api"
	"github.com/vechain/stakepool/chain"
	"github.com/vechain/stakepool/clock"
	"github.com/vechain/stakepool/cmd/stakepool/httpserver"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	clientFlags := []cli.Flag{apiURLFlag}
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Stakepool",
		Usage:     "Node hosting a time-boxed staking pool",
		Copyright: "2018 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiLogsLimitFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			enableAPILogsFlag,
			skipLogsFlag,
			verbosityFlag,
			jsonLogsFlag,
			persistFlag,
			manualClockFlag,
			deadlineOffsetFlag,
			thresholdFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			disableNTPCheckFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:   "stake",
				Usage:  "stake value into the pool",
				Flags:  append(clientFlags, callerFlag, valueFlag),
				Action: stakeAction,
			},
			{
				Name:   "execute",
				Usage:  "forward the pool to the beneficiary",
				Flags:  append(clientFlags, callerFlag),
				Action: executeAction,
			},
			{
				Name:   "withdraw",
				Usage:  "withdraw the stake of the caller after an unsuccessful round",
				Flags:  append(clientFlags, callerFlag),
				Action: withdrawAction,
			},
			{
				Name:   "status",
				Usage:  "print the pool status",
				Flags:  append(clientFlags, callerFlag),
				Action: statusAction,
			},
			{
				Name:   "advance-time",
				Usage:  "move the clock of a node running with --manual-clock",
				Flags:  append(clientFlags, secondsFlag),
				Action: advanceTimeAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	if err := initLogger(ctx); err != nil {
		return err
	}

	// meters are created lazily, the backend must be in place before the chain starts
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
		logger.Info("metrics server started", "url", url)
	}

	mainDB, logDB, instanceDir, err := openDatabases(ctx)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing log database..."); logDB.Close() }()
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	launchTime, err := persistedLaunchTime(mainDB)
	if err != nil {
		return err
	}
	gene, err := selectGenesis(ctx, launchTime)
	if err != nil {
		return err
	}

	var clk clock.Clock = clock.System{}
	if ctx.Bool(manualClockFlag.Name) {
		clk = clock.NewManual(gene.LaunchTime())
	}

	c, err := chain.New(mainDB, logDB, gene, clk)
	if err != nil {
		return err
	}
	defer c.Close()

	reqLogger := &atomic.Bool{}
	reqLogger.Store(ctx.Bool(enableAPILogsFlag.Name))
	handler, closeSubs := api.New(c, logDB, clk, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EnableReqLogger:      reqLogger,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
		SkipLogs:             ctx.Bool(skipLogsFlag.Name),
		Version:              fullVersion(),
	})

	listener, err := net.Listen("tcp", ctx.String(apiAddrFlag.Name))
	if err != nil {
		closeSubs()
		return errors.Wrapf(err, "listen API addr [%v]", ctx.String(apiAddrFlag.Name))
	}
	apiURL := "http://" + listener.Addr().String() + "/"

	printStartupMessage(gene, c, clk, instanceDir, apiURL)

	group, groupCtx := errgroup.WithContext(exitSignal)
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	group.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serve API")
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("stopping API server...")
		// subscriptions hold hijacked conns which are not tracked by the server
		closeSubs()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if _, manual := clk.(*clock.Manual); !manual && !ctx.Bool(disableNTPCheckFlag.Name) {
		group.Go(func() error {
			watchClockOffset(groupCtx)
			return nil
		})
	}
	return group.Wait()
}
