// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers_test

import (
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/api/transfers"
	"github.com/vechain/stakepool/api/types"
	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/client"
	"github.com/vechain/stakepool/logdb"
	"github.com/vechain/stakepool/test/testchain"
	"github.com/vechain/stakepool/thor"
)

func newServer(t *testing.T, limit uint64) (*client.Client, *testchain.Chain) {
	tc, err := testchain.NewIntegrationTestChain()
	require.NoError(t, err)

	router := mux.NewRouter()
	transfers.New(tc.LogDB(), limit).Mount(router, "/logs/transfer")
	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		ts.Close()
		tc.Close()
	})
	return client.New(ts.URL), tc
}

func TestFilterTransfers(t *testing.T) {
	c, tc := newServer(t, 100)
	alice := tc.Accounts()[0].Address
	bob := tc.Accounts()[1].Address

	_, err := tc.Stake(alice, thor.MustParseEther("0.7"))
	require.NoError(t, err)
	_, err = tc.Stake(bob, thor.MustParseEther("0.4"))
	require.NoError(t, err)
	tc.Advance(1)
	_, err = tc.Execute(bob)
	require.NoError(t, err)

	fromAlice, err := c.FilterTransfers(&types.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{{Sender: &alice}},
	})
	require.NoError(t, err)
	require.Len(t, fromAlice, 1)
	assert.Equal(t, builtin.Staker.Address, fromAlice[0].Recipient)
	assert.Equal(t, thor.MustParseEther("0.7"), (*big.Int)(fromAlice[0].Amount))

	// execute is sent by bob and moves the whole pool
	byBob, err := c.FilterTransfers(&types.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{{TxOrigin: &bob}},
		Order:       logdb.DESC,
	})
	require.NoError(t, err)
	require.Len(t, byBob, 2)
	assert.Equal(t, builtin.Beneficiary.Address, byBob[0].Recipient)
	assert.Equal(t, thor.MustParseEther("1.1"), (*big.Int)(byBob[0].Amount))

	head := tc.Chain().Head()
	from, to := head.Time, head.Time
	lastOnly, err := c.FilterTransfers(&types.TransferFilter{
		Range: &types.Range{Unit: types.TimeRangeType, From: &from, To: &to},
	})
	require.NoError(t, err)
	require.Len(t, lastOnly, 1)
	assert.Equal(t, head.Number, lastOnly[0].Meta.BlockNumber)
}

func TestFilterTransfersBadRequests(t *testing.T) {
	c, _ := newServer(t, 10)

	from, to := uint64(5), uint64(1)
	for _, tt := range []struct {
		name   string
		body   any
		status int
	}{
		{"malformed", []byte("{"), http.StatusBadRequest},
		{"null criteria", []byte(`{"criteriaSet":[null]}`), http.StatusBadRequest},
		{"limit exceeded", &types.TransferFilter{Options: &types.Options{Limit: 11}}, http.StatusForbidden},
		{"reversed range", &types.TransferFilter{Range: &types.Range{From: &from, To: &to}}, http.StatusBadRequest},
		{"empty", &types.TransferFilter{}, http.StatusOK},
	} {
		t.Run(tt.name, func(t *testing.T) {
			body, status, err := c.RawHTTPClient().RawHTTPPost("/logs/transfer", tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.status, status, string(body))
		})
	}
}
