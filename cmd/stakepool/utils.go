// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/chain"
	"github.com/vechain/stakepool/clock"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/logdb"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/thor"
)

const (
	ntpServer         = "pool.ntp.org"
	ntpCheckInterval  = 10 * time.Minute
	maxClockOffset    = 5 * time.Second
	mainDBCacheSizeMB = 64
)

func initLogger(ctx *cli.Context) error {
	format := log.FormatTerminal
	if ctx.Bool(jsonLogsFlag.Name) {
		format = log.FormatJSON
	}
	useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"

	handler, err := log.NewHandler(os.Stderr, format, log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)), useColor)
	if err != nil {
		return err
	}
	log.SetDefault(log.NewLogger(handler))
	return nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "org.vechain.stakepool")
		}
		return filepath.Join(home, ".org.vechain.stakepool")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// instanceName names the directory holding the databases of a network.
func instanceName(ctx *cli.Context) string {
	if file := ctx.String(genesisFlag.Name); file != "" {
		return strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	return "devnet"
}

func openDatabases(ctx *cli.Context) (*lvldb.LevelDB, *logdb.LogDB, string, error) {
	if !ctx.Bool(persistFlag.Name) {
		mainDB, err := lvldb.NewMem()
		if err != nil {
			return nil, nil, "", errors.Wrap(err, "open main database")
		}
		logDB, err := logdb.NewMem()
		if err != nil {
			mainDB.Close()
			return nil, nil, "", errors.Wrap(err, "open log database")
		}
		return mainDB, logDB, "Memory", nil
	}

	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return nil, nil, "", fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	instanceDir := filepath.Join(dataDir, instanceName(ctx))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return nil, nil, "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}

	mainDB, err := lvldb.New(filepath.Join(instanceDir, "main.db"), lvldb.Options{
		CacheSize:              mainDBCacheSizeMB,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, nil, "", errors.Wrap(err, "open main database")
	}
	logDB, err := logdb.New(filepath.Join(instanceDir, "logs.db"))
	if err != nil {
		mainDB.Close()
		return nil, nil, "", errors.Wrap(err, "open log database")
	}
	return mainDB, logDB, instanceDir, nil
}

// persistedLaunchTime returns the launch time stored by a previous run, or zero.
func persistedLaunchTime(db kv.Getter) (uint64, error) {
	info, err := chain.LoadGenesisInfo(db)
	if err != nil {
		return 0, errors.Wrap(err, "load genesis info")
	}
	if info == nil {
		return 0, nil
	}
	return info.LaunchTime, nil
}

// selectGenesis builds the genesis from the genesis file or the devnet flags.
// A zero launch time in the config is replaced by the persisted one, then by the current time.
func selectGenesis(ctx *cli.Context, persisted uint64) (*genesis.Genesis, error) {
	launchTime := persisted
	if launchTime == 0 {
		if ctx.Bool(manualClockFlag.Name) {
			launchTime = genesis.DevLaunchTime
		} else {
			launchTime = clock.System{}.Now()
		}
	}

	if file := ctx.String(genesisFlag.Name); file != "" {
		config, err := genesis.LoadConfig(file)
		if err != nil {
			return nil, errors.Wrapf(err, "load genesis file [%v]", file)
		}
		if config.LaunchTime == 0 {
			config.LaunchTime = launchTime
		}
		return genesis.New(instanceName(ctx), config)
	}

	stakerConfig := genesis.StakerConfig{
		DeadlineOffset: ctx.Uint64(deadlineOffsetFlag.Name),
	}
	if s := ctx.String(thresholdFlag.Name); s != "" {
		threshold, err := thor.ParseEther(s)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", thresholdFlag.Name)
		}
		stakerConfig.Threshold = (*math.HexOrDecimal256)(threshold)
	}
	return genesis.NewDevnet(launchTime, stakerConfig)
}

func watchClockOffset(ctx context.Context) {
	ticker := time.NewTicker(ntpCheckInterval)
	defer ticker.Stop()

	for {
		checkClockOffset()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func checkClockOffset() {
	resp, err := ntp.Query(ntpServer)
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	if resp.ClockOffset > maxClockOffset || resp.ClockOffset < -maxClockOffset {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}

// nodeName identifies the build, in the name/version/os-arch/go form.
func nodeName() string {
	return fmt.Sprintf("Stakepool/%s/%s-%s/%s", fullVersion(), runtime.GOOS, runtime.GOARCH, runtime.Version())
}

func printStartupMessage(gene *genesis.Genesis, c *chain.Chain, clk clock.Clock, instanceDir, apiURL string) {
	head := c.Head()
	params := gene.StakerParams()
	clockMode := "system"
	if _, ok := clk.(*clock.Manual); ok {
		clockMode = "manual"
	}

	fmt.Printf(`Starting %v
    Network      [ %v %v ]
    Head         [ %v #%v @%v ]
    Pool         [ deadline @%v threshold %v ether ]
    Clock        [ %v ]
    Instance dir [ %v ]
    API portal   [ %v ]
`,
		nodeName(),
		gene.ID(), gene.Name(),
		head.ID, head.Number, time.Unix(int64(head.Time), 0),
		time.Unix(int64(gene.LaunchTime()+params.DeadlineOffset), 0), thor.FormatEther(params.Threshold),
		clockMode,
		instanceDir,
		apiURL)
}
