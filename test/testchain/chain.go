// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testchain provides an in-memory chain driven by a manual clock.
package testchain

import (
	"context"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/chain"
	"github.com/vechain/stakepool/clock"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/logdb"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

// Chain bundles a chain with its databases and clock.
type Chain struct {
	db      *lvldb.LevelDB
	logDB   *logdb.LogDB
	genesis *genesis.Genesis
	chain   *chain.Chain
	clock   *clock.Manual
}

// NewIntegrationTestChain creates a devnet chain starting at the devnet launch time.
func NewIntegrationTestChain() (*Chain, error) {
	return NewWithStakerConfig(genesis.StakerConfig{})
}

// NewWithStakerConfig creates a devnet chain with custom pool parameters.
func NewWithStakerConfig(config genesis.StakerConfig) (*Chain, error) {
	gene, err := genesis.NewDevnet(genesis.DevLaunchTime, config)
	if err != nil {
		return nil, err
	}
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	logDB, err := logdb.NewMem()
	if err != nil {
		db.Close()
		return nil, err
	}
	clk := clock.NewManual(gene.LaunchTime())
	c, err := chain.New(db, logDB, gene, clk)
	if err != nil {
		logDB.Close()
		db.Close()
		return nil, err
	}
	return &Chain{
		db:      db,
		logDB:   logDB,
		genesis: gene,
		chain:   c,
		clock:   clk,
	}, nil
}

func (c *Chain) Chain() *chain.Chain { return c.chain }
func (c *Chain) LogDB() *logdb.LogDB { return c.logDB }
func (c *Chain) Clock() *clock.Manual { return c.clock }
func (c *Chain) Genesis() *genesis.Genesis { return c.genesis }

// Accounts returns the funded dev accounts.
func (c *Chain) Accounts() []genesis.DevAccount {
	return genesis.DevAccounts()
}

// Advance moves the clock forward.
func (c *Chain) Advance(seconds uint64) {
	c.clock.Advance(seconds)
}

func (c *Chain) send(method string, value *big.Int, origin thor.Address) (*tx.Receipt, error) {
	clause := tx.NewClause(builtin.Staker.Address).WithMethod(method)
	if value != nil {
		clause = clause.WithValue(value)
	}
	return c.chain.Send(context.Background(), clause, origin)
}

// Stake deposits value from origin. A reverted stake is returned as an error.
func (c *Chain) Stake(origin thor.Address, value *big.Int) (*tx.Receipt, error) {
	return mustSucceed(c.send("stake", value, origin))
}

func (c *Chain) Execute(origin thor.Address) (*tx.Receipt, error) {
	return mustSucceed(c.send("execute", nil, origin))
}

func (c *Chain) Withdraw(origin thor.Address) (*tx.Receipt, error) {
	return mustSucceed(c.send("withdraw", nil, origin))
}

func mustSucceed(r *tx.Receipt, err error) (*tx.Receipt, error) {
	if err != nil {
		return nil, err
	}
	if r.Reverted {
		return r, errors.Errorf("reverted: %s", r.RevertReason)
	}
	return r, nil
}

// Close releases the chain and its databases.
func (c *Chain) Close() {
	c.chain.Close()
	c.logDB.Close()
	c.db.Close()
}
