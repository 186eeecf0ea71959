// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/api/node"
	"github.com/vechain/stakepool/client"
	"github.com/vechain/stakepool/test/testchain"
	"github.com/vechain/stakepool/thor"
)

func TestNode(t *testing.T) {
	tc, err := testchain.NewIntegrationTestChain()
	require.NoError(t, err)
	defer tc.Close()

	router := mux.NewRouter()
	node.New(tc.Chain(), "0.1.0", "1.0.0").Mount(router, "/node")
	ts := httptest.NewServer(router)
	defer ts.Close()
	c := client.New(ts.URL)

	head, err := c.Head()
	require.NoError(t, err)
	assert.Equal(t, tc.Chain().GenesisID(), head.ID)
	assert.Equal(t, uint32(0), head.Number)

	sent, err := tc.Stake(tc.Accounts()[0].Address, thor.MustParseEther("1"))
	require.NoError(t, err)

	head, err = c.Head()
	require.NoError(t, err)
	assert.Equal(t, sent.BlockNumber, head.Number)
	assert.Equal(t, sent.ID, head.ID)

	tc.Advance(10)
	info, err := c.NodeInfo()
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", info.Version)
	assert.Equal(t, "1.0.0", info.APIVersion)
	assert.Equal(t, tc.Chain().GenesisID(), info.GenesisID)
	assert.Equal(t, tc.Genesis().LaunchTime()+10, info.Now)
}
