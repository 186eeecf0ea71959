// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for chain databases, used with --persist",
	}
	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "path to a genesis file (yaml or json), defaults to the built-in devnet",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiLogsLimitFlag = cli.Uint64Flag{
		Name:  "api-logs-limit",
		Value: 1000,
		Usage: "limit the number of logs returned by /logs API",
	}
	apiSlowQueriesThresholdFlag = cli.Uint64Flag{
		Name:  "api-slow-queries-threshold",
		Value: 0,
		Usage: "all queries with duration (in milliseconds) greater than this threshold will be logged",
	}
	apiLog5xxErrorsFlag = cli.BoolFlag{
		Name:  "api-log-5xx-errors",
		Usage: "log all API requests answered with a 5xx status",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	skipLogsFlag = cli.BoolFlag{
		Name:  "skip-logs",
		Usage: "disable the /logs API",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	persistFlag = cli.BoolFlag{
		Name:  "persist",
		Usage: "save chain data to disk (default in memory)",
	}
	manualClockFlag = cli.BoolFlag{
		Name:  "manual-clock",
		Usage: "freeze the clock, time only moves through POST /debug/time",
	}
	deadlineOffsetFlag = cli.Uint64Flag{
		Name:  "deadline-offset",
		Usage: "seconds between launch and the staking deadline (devnet only, default 72)",
	}
	thresholdFlag = cli.StringFlag{
		Name:  "threshold",
		Usage: "minimum pool size in ether (devnet only, default 1)",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	disableNTPCheckFlag = cli.BoolFlag{
		Name:  "disable-ntp-check",
		Usage: "skip the clock offset check against pool.ntp.org",
	}

	// client flags
	apiURLFlag = cli.StringFlag{
		Name:  "api-url",
		Value: "http://localhost:8669",
		Usage: "API URL of a running node",
	}
	callerFlag = cli.StringFlag{
		Name:  "caller",
		Usage: "address of the caller, or the index of a devnet account",
	}
	valueFlag = cli.StringFlag{
		Name:  "value",
		Usage: "amount to stake in ether, eg. 0.5",
	}
	secondsFlag = cli.Uint64Flag{
		Name:  "seconds",
		Usage: "seconds to move the clock forward",
	}
)
