// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/api/types"
	"github.com/vechain/stakepool/client"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/thor"
)

func newClient(ctx *cli.Context) *client.Client {
	return client.New(ctx.String(apiURLFlag.Name))
}

// parseCaller accepts an address or the index of a dev account.
func parseCaller(s string) (thor.Address, error) {
	if s == "" {
		return thor.Address{}, errors.New("caller required")
	}
	if i, err := strconv.Atoi(s); err == nil {
		accs := genesis.DevAccounts()
		if i < 0 || i >= len(accs) {
			return thor.Address{}, fmt.Errorf("dev account index out of range [0, %d)", len(accs))
		}
		return accs[i].Address, nil
	}
	addr, err := thor.ParseAddress(s)
	if err != nil {
		return thor.Address{}, errors.Wrapf(err, "parse caller %q", s)
	}
	return addr, nil
}

func callerFromFlag(ctx *cli.Context) (thor.Address, error) {
	return parseCaller(ctx.String(callerFlag.Name))
}

func stakeAction(ctx *cli.Context) error {
	caller, err := callerFromFlag(ctx)
	if err != nil {
		return err
	}
	value, err := thor.ParseEther(ctx.String(valueFlag.Name))
	if err != nil {
		return errors.Wrapf(err, "parse %s", valueFlag.Name)
	}
	receipt, err := newClient(ctx).Stake(caller, value)
	if err != nil {
		return err
	}
	return printReceipt(os.Stdout, receipt)
}

func executeAction(ctx *cli.Context) error {
	caller, err := callerFromFlag(ctx)
	if err != nil {
		return err
	}
	receipt, err := newClient(ctx).Execute(caller)
	if err != nil {
		return err
	}
	return printReceipt(os.Stdout, receipt)
}

func withdrawAction(ctx *cli.Context) error {
	caller, err := callerFromFlag(ctx)
	if err != nil {
		return err
	}
	receipt, err := newClient(ctx).Withdraw(caller)
	if err != nil {
		return err
	}
	return printReceipt(os.Stdout, receipt)
}

func statusAction(ctx *cli.Context) error {
	c := newClient(ctx)
	pool, err := c.Staker()
	if err != nil {
		return err
	}
	fmt.Printf(`Pool %v
    Phase        [ %v ]
    Deadline     [ %v, %vs left ]
    Threshold    [ %v ether ]
    Total staked [ %v ether ]
    Held         [ %v ether ]
    Beneficiary  [ %v ]
`,
		pool.Address,
		pool.Phase,
		time.Unix(int64(pool.Deadline), 0), pool.TimeLeft,
		thor.FormatEther((*big.Int)(pool.Threshold)),
		thor.FormatEther((*big.Int)(pool.TotalStaked)),
		thor.FormatEther((*big.Int)(pool.Held)),
		pool.Beneficiary)

	if ctx.String(callerFlag.Name) == "" {
		return nil
	}
	caller, err := callerFromFlag(ctx)
	if err != nil {
		return err
	}
	staked, err := c.StakedBalance(caller)
	if err != nil {
		return err
	}
	fmt.Printf("    Staked by %v [ %v ether ]\n", caller, thor.FormatEther(staked))
	return nil
}

func advanceTimeAction(ctx *cli.Context) error {
	now, err := newClient(ctx).AdvanceTime(ctx.Uint64(secondsFlag.Name))
	if err != nil {
		return err
	}
	fmt.Println("chain time", now, time.Unix(int64(now), 0))
	return nil
}

func printReceipt(w io.Writer, r *types.Receipt) error {
	status := "succeeded"
	if r.Reverted {
		status = "reverted: " + r.RevertReason
	}
	_, err := fmt.Fprintf(w, "receipt %v\n    block #%v @%v\n    %v\n    %d event(s), %d transfer(s)\n",
		r.ID, r.BlockNumber, r.BlockTime, status, len(r.Events), len(r.Transfers))
	return err
}
