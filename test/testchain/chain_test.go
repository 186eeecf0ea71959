// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/thor"
)

func TestIntegrationChain(t *testing.T) {
	c, err := NewWithStakerConfig(genesis.StakerConfig{DeadlineOffset: 10})
	require.NoError(t, err)
	defer c.Close()

	alice := c.Accounts()[0].Address
	_, err = c.Stake(alice, thor.Ether)
	require.NoError(t, err)

	_, err = c.Withdraw(alice)
	assert.Error(t, err)

	c.Advance(10)
	_, err = c.Stake(alice, thor.Ether)
	assert.Error(t, err)

	r, err := c.Withdraw(alice)
	require.NoError(t, err)
	require.Len(t, r.Transfers, 1)
	assert.Equal(t, thor.Ether, r.Transfers[0].Amount)
	assert.Equal(t, genesis.DevLaunchTime+10, c.Chain().Now())
}
