// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package client_test

import (
	"math/big"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/api"
	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/client"
	"github.com/vechain/stakepool/test/testchain"
	"github.com/vechain/stakepool/thor"
)

func newNode(t *testing.T) (*client.Client, *testchain.Chain) {
	tc, err := testchain.NewIntegrationTestChain()
	require.NoError(t, err)

	handler, closeSubs := api.New(tc.Chain(), tc.LogDB(), tc.Clock(), api.Options{
		AllowedOrigins: "*",
		LogsLimit:      100,
		Version:        "1.0.0",
	})
	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		closeSubs()
		ts.Close()
		tc.Close()
	})

	c, err := client.NewWithWS(ts.URL)
	require.NoError(t, err)
	return c, tc
}

func TestSuccessfulRound(t *testing.T) {
	c, tc := newNode(t)
	alice := tc.Accounts()[0].Address
	bob := tc.Accounts()[1].Address

	pool, err := c.Staker()
	require.NoError(t, err)
	assert.Equal(t, "open", pool.Phase)
	assert.Equal(t, builtin.Staker.Address, pool.Address)

	left, err := c.TimeLeft()
	require.NoError(t, err)
	assert.Equal(t, uint64(72), left)

	receipt, err := c.Stake(alice, thor.MustParseEther("0.6"))
	require.NoError(t, err)
	assert.False(t, receipt.Reverted)
	receipt, err = c.Stake(bob, thor.MustParseEther("0.5"))
	require.NoError(t, err)
	assert.False(t, receipt.Reverted)

	staked, err := c.StakedBalance(alice)
	require.NoError(t, err)
	assert.Equal(t, thor.MustParseEther("0.6"), staked)

	now, err := c.AdvanceTime(30)
	require.NoError(t, err)
	assert.Equal(t, tc.Genesis().LaunchTime()+30, now)

	receipt, err = c.Execute(bob)
	require.NoError(t, err)
	assert.False(t, receipt.Reverted)

	ben, err := c.Beneficiary()
	require.NoError(t, err)
	assert.True(t, ben.Completed)

	held, err := c.Account(builtin.Staker.Address)
	require.NoError(t, err)
	assert.Zero(t, held.Sign())

	receipt, err = c.Execute(bob)
	require.NoError(t, err)
	assert.True(t, receipt.Reverted)
	assert.Equal(t, "staking process already completed", receipt.RevertReason)

	fetched, err := c.Receipt(receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, receipt, fetched)

	head, err := c.Head()
	require.NoError(t, err)
	assert.Equal(t, receipt.BlockNumber, head.Number)
}

func TestRefundRound(t *testing.T) {
	c, tc := newNode(t)
	alice := tc.Accounts()[0].Address

	_, err := c.Stake(alice, thor.MustParseEther("0.3"))
	require.NoError(t, err)

	receipt, err := c.Withdraw(alice)
	require.NoError(t, err)
	assert.True(t, receipt.Reverted)
	assert.Equal(t, "Deadline is not reached yet", receipt.RevertReason)

	_, err = c.AdvanceTime(80)
	require.NoError(t, err)

	left, err := c.TimeLeft()
	require.NoError(t, err)
	assert.Zero(t, left)

	receipt, err = c.Stake(alice, thor.MustParseEther("0.3"))
	require.NoError(t, err)
	assert.Equal(t, "Deadline already reached.", receipt.RevertReason)

	receipt, err = c.Withdraw(alice)
	require.NoError(t, err)
	assert.False(t, receipt.Reverted)
	require.Len(t, receipt.Transfers, 1)
	assert.Equal(t, alice, receipt.Transfers[0].Recipient)

	pool, err := c.Staker()
	require.NoError(t, err)
	assert.Equal(t, "expired-below-threshold", pool.Phase)
	assert.Zero(t, (*big.Int)(pool.TotalStaked).Sign())
}

func TestSubscribeReceipts(t *testing.T) {
	c, tc := newNode(t)
	alice := tc.Accounts()[0].Address

	sub, err := c.SubscribeReceipts(&alice)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	// the subscription is registered once the upgrade completes
	time.Sleep(100 * time.Millisecond)

	_, err = c.Stake(tc.Accounts()[1].Address, thor.MustParseEther("0.1"))
	require.NoError(t, err)
	sent, err := c.Stake(alice, thor.MustParseEther("0.1"))
	require.NoError(t, err)

	select {
	case ev := <-sub.EventChan:
		require.NoError(t, ev.Error)
		assert.Equal(t, sent.ID, ev.Data.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for receipt")
	}
}

func TestSubscribeWithoutWS(t *testing.T) {
	_, err := client.New("http://localhost:8669").SubscribeReceipts(nil)
	assert.Error(t, err)
}
