// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain_test

import (
	"context"
	"math/big"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/builtin/staker"
	stakerreverts "github.com/vechain/stakepool/builtin/staker/reverts"
	"github.com/vechain/stakepool/chain"
	"github.com/vechain/stakepool/clock"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/logdb"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const launchTime = uint64(1000)

var (
	alice = genesis.DevAccounts()[0].Address
	bob   = genesis.DevAccounts()[1].Address
)

type testChain struct {
	*chain.Chain
	clock *clock.Manual
	logDB *logdb.LogDB
}

func newTestChain(t *testing.T) *testChain {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	logDB, err := logdb.NewMem()
	require.NoError(t, err)

	gene, err := genesis.NewDevnet(launchTime, genesis.StakerConfig{})
	require.NoError(t, err)

	clk := clock.NewManual(launchTime)
	c, err := chain.New(db, logDB, gene, clk)
	require.NoError(t, err)

	t.Cleanup(func() {
		c.Close()
		logDB.Close()
		db.Close()
	})
	return &testChain{c, clk, logDB}
}

func (tc *testChain) send(t *testing.T, method, value string, origin thor.Address) *tx.Receipt {
	clause := tx.NewClause(builtin.Staker.Address).WithMethod(method)
	if value != "" {
		clause = clause.WithValue(thor.MustParseEther(value))
	}
	receipt, err := tc.Send(context.Background(), clause, origin)
	require.NoError(t, err)
	return receipt
}

func TestGenesisHead(t *testing.T) {
	tc := newTestChain(t)

	head := tc.Head()
	assert.Equal(t, uint32(0), head.Number)
	assert.Equal(t, launchTime, head.Time)
	assert.Equal(t, tc.GenesisID(), head.ID)

	info, err := tc.Staker()
	require.NoError(t, err)
	assert.Equal(t, launchTime+staker.DefaultDeadlineOffset, info.Deadline)
	assert.Equal(t, staker.DefaultDeadlineOffset, info.TimeLeft)
	assert.Equal(t, staker.PhaseOpen, info.Phase)
}

func TestExecuteScenario(t *testing.T) {
	tc := newTestChain(t)

	r := tc.send(t, "stake", "0.5", alice)
	require.False(t, r.Reverted)
	assert.Equal(t, uint32(1), r.BlockNumber)

	tc.clock.Advance(10)
	r = tc.send(t, "stake", "0.5", bob)
	require.False(t, r.Reverted)

	r = tc.send(t, "execute", "", bob)
	require.False(t, r.Reverted, r.RevertReason)

	info, err := tc.Staker()
	require.NoError(t, err)
	assert.True(t, info.Completed)
	assert.Equal(t, staker.PhaseCompleted, info.Phase)
	assert.Equal(t, 0, info.Held.Sign())
	assert.Equal(t, thor.Ether, info.TotalStaked)

	ben, err := tc.Beneficiary()
	require.NoError(t, err)
	assert.True(t, ben.Completed)
	assert.Equal(t, thor.Ether, ben.Balance)
	assert.Equal(t, thor.Ether, ben.Received)
	assert.Equal(t, builtin.Staker.Address, ben.LastSender)

	r = tc.send(t, "execute", "", alice)
	assert.True(t, r.Reverted)
	assert.Equal(t, stakerreverts.ErrAlreadyCompleted.Error(), r.RevertReason)
}

func TestWithdrawScenario(t *testing.T) {
	tc := newTestChain(t)

	before, err := tc.Balance(alice)
	require.NoError(t, err)

	tc.send(t, "stake", "0.5", alice)
	tc.clock.Advance(80)

	left, err := tc.TimeLeft()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), left)

	r := tc.send(t, "withdraw", "", alice)
	require.False(t, r.Reverted, r.RevertReason)

	after, err := tc.Balance(alice)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	staked, err := tc.StakedBalance(alice)
	require.NoError(t, err)
	assert.Equal(t, 0, staked.Sign())

	r = tc.send(t, "withdraw", "", alice)
	assert.True(t, r.Reverted)
	assert.Equal(t, stakerreverts.ErrNoBalance.Error(), r.RevertReason)
}

func TestRevertedCallCommitsNothing(t *testing.T) {
	tc := newTestChain(t)
	tc.clock.Advance(72)

	before, err := tc.Balance(alice)
	require.NoError(t, err)

	r := tc.send(t, "stake", "1", alice)
	assert.True(t, r.Reverted)
	assert.Equal(t, stakerreverts.ErrDeadlineReached.Error(), r.RevertReason)
	assert.Empty(t, r.Events)

	after, err := tc.Balance(alice)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// the call still takes a block
	assert.Equal(t, uint32(1), tc.Head().Number)
	assert.Equal(t, uint64(1), tc.Head().Nonce)
}

func TestCanceledContext(t *testing.T) {
	tc := newTestChain(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := tc.Send(ctx, tx.NewClause(builtin.Staker.Address).WithMethod("execute"), alice)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint32(0), tc.Head().Number)
}

func TestCallDiscardsChanges(t *testing.T) {
	tc := newTestChain(t)

	out, err := tc.Call(tx.NewClause(builtin.Staker.Address).WithMethod("stake").WithValue(thor.Ether), alice)
	require.NoError(t, err)
	assert.False(t, out.Reverted)
	assert.Len(t, out.Events, 1)

	info, err := tc.Staker()
	require.NoError(t, err)
	assert.Equal(t, 0, info.TotalStaked.Sign())
	assert.Equal(t, uint32(0), tc.Head().Number)
}

func TestReceiptAndLogs(t *testing.T) {
	tc := newTestChain(t)

	r := tc.send(t, "stake", "0.25", alice)

	stored, err := tc.Receipt(r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.BlockNumber, stored.BlockNumber)
	assert.Equal(t, r.Origin, stored.Origin)
	assert.Equal(t, "stake", stored.Clause.Method())
	assert.Len(t, stored.Events, 1)

	_, err = tc.Receipt(thor.Bytes32{1})
	assert.True(t, tc.IsNotFound(err))

	events, err := tc.logDB.FilterEvents(context.Background(), &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Address: &builtin.Staker.Address}},
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, r.ID, events[0].TxID)

	transfers, err := tc.logDB.FilterTransfers(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, thor.MustParseEther("0.25"), transfers[0].Amount)
	assert.Equal(t, alice, transfers[0].Sender)
}

func TestSubscribeReceipt(t *testing.T) {
	tc := newTestChain(t)

	ch := make(chan *tx.Receipt, 1)
	sub := tc.SubscribeReceipt(ch)

	r := tc.send(t, "stake", "0.1", alice)
	select {
	case got := <-ch:
		assert.Equal(t, r.ID, got.ID)
	case <-time.After(time.Second):
		t.Fatal("receipt not delivered")
	}

	sub.Unsubscribe()
	tc.send(t, "stake", "0.1", bob)
	assert.Empty(t, ch)
}

func TestLaggingSubscriberDoesNotBlockCalls(t *testing.T) {
	tc := newTestChain(t)

	ch := make(chan *tx.Receipt, 1)
	sub := tc.SubscribeReceipt(ch)
	defer sub.Unsubscribe()

	done := make(chan error, 1)
	go func() {
		clause := tx.NewClause(builtin.Staker.Address).WithMethod("stake").WithValue(thor.MustParseEther("0.1"))
		for range 5 {
			if _, err := tc.Send(context.Background(), clause, alice); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("calls blocked by a full subscriber")
	}

	select {
	case err := <-sub.Err():
		assert.ErrorIs(t, err, chain.ErrLaggingSubscriber)
	case <-time.After(time.Second):
		t.Fatal("lagging subscriber not dropped")
	}
	assert.Len(t, ch, 1)
}

type laggingClock struct{}

func (laggingClock) Now() uint64 { return 1 }

func TestTimeNeverGoesBackwards(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	gene, err := genesis.NewDevnet(launchTime, genesis.StakerConfig{})
	require.NoError(t, err)
	c, err := chain.New(db, nil, gene, laggingClock{})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, launchTime, c.Now())
	r, err := c.Send(context.Background(), tx.NewClause(builtin.Staker.Address).WithMethod("stake").WithValue(big.NewInt(1)), alice)
	require.NoError(t, err)
	assert.Equal(t, launchTime, r.BlockTime)
}

func TestResume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.db")
	gene, err := genesis.NewDevnet(launchTime, genesis.StakerConfig{})
	require.NoError(t, err)

	db, err := lvldb.New(path, lvldb.Options{})
	require.NoError(t, err)
	c, err := chain.New(db, nil, gene, clock.NewManual(launchTime+5))
	require.NoError(t, err)
	_, err = c.Send(context.Background(), tx.NewClause(builtin.Staker.Address).WithMethod("stake").WithValue(thor.Ether), alice)
	require.NoError(t, err)
	c.Close()
	require.NoError(t, db.Close())

	db, err = lvldb.New(path, lvldb.Options{})
	require.NoError(t, err)
	defer db.Close()

	info, err := chain.LoadGenesisInfo(db)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, gene.ID(), info.ID)
	assert.Equal(t, launchTime, info.LaunchTime)

	c, err = chain.New(db, nil, gene, clock.NewManual(launchTime))
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, uint32(1), c.Head().Number)
	assert.Equal(t, launchTime+5, c.Now())
	staked, err := c.StakedBalance(alice)
	require.NoError(t, err)
	assert.Equal(t, thor.Ether, staked)

	other, err := genesis.NewDevnet(launchTime+1, genesis.StakerConfig{})
	require.NoError(t, err)
	_, err = chain.New(db, nil, other, clock.System{})
	assert.Error(t, err)
}

func TestLoadGenesisInfoEmpty(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	info, err := chain.LoadGenesisInfo(db)
	require.NoError(t, err)
	assert.Nil(t, info)
}
