// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package chain executes calls against the builtin contracts one at a time,
// each call being a block of its own.
package chain

import (
	"context"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/builtin/staker"
	"github.com/vechain/stakepool/clock"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/logdb"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

var logger = log.WithContext("pkg", "chain")

var errGenesisMismatch = errors.New("genesis mismatch")

// ErrLaggingSubscriber is reported by a receipt subscription whose channel was full.
var ErrLaggingSubscriber = errors.New("receipt subscriber lagging behind")

// BeneficiaryInfo is a read-only view of the beneficiary contract.
type BeneficiaryInfo struct {
	Address    thor.Address
	Completed  bool
	Received   *big.Int
	LastSender thor.Address
	Balance    *big.Int
}

// Chain owns the state and serializes all calls.
type Chain struct {
	db      kv.Store
	stater  *state.Stater
	logDB   *logdb.LogDB
	clock   clock.Clock
	genesis *GenesisInfo

	mu   sync.Mutex
	head atomic.Pointer[Head]

	feed  event.Feed
	scope event.SubscriptionScope
}

// New opens the chain stored in db. An empty db is initialized from gene.
// logDB is optional.
func New(db kv.Store, logDB *logdb.LogDB, gene *genesis.Genesis, clk clock.Clock) (*Chain, error) {
	c := &Chain{
		db:     db,
		stater: state.NewStater(db),
		logDB:  logDB,
		clock:  clk,
	}

	info, err := LoadGenesisInfo(db)
	if err != nil {
		return nil, errors.Wrap(err, "load genesis info")
	}

	if info == nil {
		info = &GenesisInfo{ID: gene.ID(), LaunchTime: gene.LaunchTime()}
		head := &Head{Number: 0, Time: gene.LaunchTime(), ID: gene.ID()}

		var receipts []*tx.Receipt
		receipts, err = gene.Build(c.stater, func(w kv.Putter) error {
			if err := saveGenesisInfo(w, info); err != nil {
				return err
			}
			return saveHead(w, head)
		})
		if err != nil {
			return nil, errors.Wrap(err, "build genesis")
		}
		if err := c.persistReceipts(receipts); err != nil {
			return nil, err
		}
		if err := c.writeLogs(0, head.Time, receipts); err != nil {
			return nil, err
		}
		c.head.Store(head)
	} else {
		if info.ID != gene.ID() {
			return nil, errors.WithMessagef(errGenesisMismatch, "want %v, have %v", gene.ID(), info.ID)
		}
		head, err := loadHead(db)
		if err != nil {
			return nil, errors.Wrap(err, "load head")
		}
		c.head.Store(head)
	}
	c.genesis = info

	c.updateMetrics(c.stater.NewState())
	logger.Info("chain ready", "genesis", info.ID, "head", c.Head().Number)
	return c, nil
}

func (c *Chain) persistReceipts(receipts []*tx.Receipt) error {
	if len(receipts) == 0 {
		return nil
	}
	batch := c.db.NewBatch()
	for _, r := range receipts {
		if err := saveReceipt(batch, r); err != nil {
			return err
		}
	}
	return batch.Write()
}

func (c *Chain) writeLogs(number uint32, time uint64, receipts []*tx.Receipt) error {
	if c.logDB == nil || len(receipts) == 0 {
		return nil
	}
	bb := c.logDB.Prepare(number, time)
	for _, r := range receipts {
		if r.Reverted {
			continue
		}
		bb.ForTransaction(r.ID, r.Origin).Insert(r.Events, r.Transfers)
	}
	return errors.Wrap(bb.Commit(), "write logs")
}

// GenesisID returns the ID of the genesis the chain was built from.
func (c *Chain) GenesisID() thor.Bytes32 {
	return c.genesis.ID
}

// Head returns the latest head.
func (c *Chain) Head() *Head {
	h := *c.head.Load()
	return &h
}

// Now returns the time the next call executes at. It never goes backwards.
func (c *Chain) Now() uint64 {
	return max(c.clock.Now(), c.head.Load().Time)
}

// Send executes the clause as a new block. A reverted clause yields a
// reverted receipt and leaves the state untouched.
func (c *Chain) Send(ctx context.Context, clause *tx.Clause, origin thor.Address) (*tx.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	head := c.head.Load()
	now := max(c.clock.Now(), head.Time)
	number := head.Number + 1
	txID := clause.ID(origin, head.Nonce)

	st := c.stater.NewState()
	out, err := runtime.New(st, number, now).ExecuteClause(clause, origin, txID)
	if err != nil {
		metricCallCount().AddWithLabel(1, map[string]string{"method": clause.Method(), "outcome": "error"})
		return nil, errors.Wrap(err, "execute clause")
	}

	receipt := &tx.Receipt{
		ID:           txID,
		BlockNumber:  number,
		BlockTime:    now,
		Origin:       origin,
		Clause:       clause,
		Reverted:     out.Reverted,
		RevertReason: out.RevertReason,
		Events:       out.Events,
		Transfers:    out.Transfers,
	}
	newHead := &Head{Number: number, Time: now, ID: txID, Nonce: head.Nonce + 1}

	stage, err := st.Stage()
	if err != nil {
		return nil, errors.Wrap(err, "stage state")
	}
	if err := stage.Commit(
		func(w kv.Putter) error { return saveReceipt(w, receipt) },
		func(w kv.Putter) error { return saveHead(w, newHead) },
	); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	c.head.Store(newHead)

	// the state is final at this point, a failed log write only degrades queries
	if err := c.writeLogs(number, now, []*tx.Receipt{receipt}); err != nil {
		logger.Error("failed to write logs", "number", number, "err", err)
	}

	outcome := "success"
	if receipt.Reverted {
		outcome = "reverted"
	}
	metricCallCount().AddWithLabel(1, map[string]string{"method": clause.Method(), "outcome": outcome})
	c.updateMetrics(st)

	logger.Debug("call executed",
		"number", number,
		"method", clause.Method(),
		"origin", origin,
		"value", clause.Value(),
		"reverted", receipt.Reverted,
		"reason", receipt.RevertReason)

	c.feed.Send(receipt)
	return receipt, nil
}

// Call executes the clause against the latest state and discards all changes.
func (c *Chain) Call(clause *tx.Clause, origin thor.Address) (*runtime.Output, error) {
	head := c.head.Load()
	return runtime.New(c.stater.NewState(), head.Number+1, c.Now()).Call(clause, origin)
}

// Staker returns a view of the pool at the current time.
func (c *Chain) Staker() (*staker.Info, error) {
	return builtin.Staker.Native(c.stater.NewState()).Info(c.Now())
}

// StakedBalance returns the amount staked by depositor.
func (c *Chain) StakedBalance(depositor thor.Address) (*big.Int, error) {
	return builtin.Staker.Native(c.stater.NewState()).BalanceOf(depositor)
}

// TimeLeft returns seconds left before the deadline.
func (c *Chain) TimeLeft() (uint64, error) {
	return builtin.Staker.Native(c.stater.NewState()).TimeLeft(c.Now())
}

// Beneficiary returns a view of the beneficiary contract.
func (c *Chain) Beneficiary() (*BeneficiaryInfo, error) {
	st := c.stater.NewState()
	ben := builtin.Beneficiary.Native(st)

	completed, err := ben.Completed()
	if err != nil {
		return nil, err
	}
	received, err := ben.Received()
	if err != nil {
		return nil, err
	}
	lastSender, err := ben.LastSender()
	if err != nil {
		return nil, err
	}
	balance, err := st.GetBalance(ben.Address())
	if err != nil {
		return nil, err
	}
	return &BeneficiaryInfo{
		Address:    ben.Address(),
		Completed:  completed,
		Received:   received,
		LastSender: lastSender,
		Balance:    balance,
	}, nil
}

// Balance returns the balance of the account.
func (c *Chain) Balance(addr thor.Address) (*big.Int, error) {
	return c.stater.NewState().GetBalance(addr)
}

// Receipt returns the receipt with given id.
func (c *Chain) Receipt(id thor.Bytes32) (*tx.Receipt, error) {
	return loadReceipt(c.db, id)
}

// IsNotFound returns whether the error means a missing entry.
func (c *Chain) IsNotFound(err error) bool {
	return c.db.IsNotFound(errors.Cause(err))
}

// SubscribeReceipt subscribes to receipts of executed calls.
// Delivery never blocks calls: a receipt that does not fit in ch ends the
// subscription with ErrLaggingSubscriber.
func (c *Chain) SubscribeReceipt(ch chan<- *tx.Receipt) event.Subscription {
	metricSubscribers().Add(1)

	relay := make(chan *tx.Receipt, 1)
	feedSub := c.feed.Subscribe(relay)
	sub := event.NewSubscription(func(quit <-chan struct{}) error {
		defer feedSub.Unsubscribe()
		for {
			select {
			case <-quit:
				return nil
			case r := <-relay:
				select {
				case ch <- r:
				default:
					logger.Debug("dropping lagging receipt subscriber", "number", r.BlockNumber)
					return ErrLaggingSubscriber
				}
			}
		}
	})
	return &countedSubscription{Subscription: c.scope.Track(sub)}
}

// Close unsubscribes all subscribers.
func (c *Chain) Close() {
	c.scope.Close()
}

func (c *Chain) updateMetrics(st *state.State) {
	metricHeadNumber().Set(int64(c.head.Load().Number))

	pool := builtin.Staker.Native(st)
	if total, err := pool.TotalStaked(); err == nil {
		metricPoolTotal().Set(toGwei(total))
	}
	if completed, err := builtin.Beneficiary.Native(st).Completed(); err == nil {
		if completed {
			metricBeneficiaryCompleted().Set(1)
		} else {
			metricBeneficiaryCompleted().Set(0)
		}
	}
}

type countedSubscription struct {
	event.Subscription
	once sync.Once
}

func (s *countedSubscription) Unsubscribe() {
	s.once.Do(func() { metricSubscribers().Add(-1) })
	s.Subscription.Unsubscribe()
}
