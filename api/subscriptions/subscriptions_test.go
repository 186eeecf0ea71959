// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vechain/stakepool/api/types"
	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/test/testchain"
	"github.com/vechain/stakepool/thor"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	tc   *testchain.Chain
	subs *Subscriptions
	ts   *httptest.Server
}

func newFixture(t *testing.T, origins ...string) *fixture {
	tc, err := testchain.NewIntegrationTestChain()
	require.NoError(t, err)

	router := mux.NewRouter()
	subs := New(tc.Chain(), origins)
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)

	t.Cleanup(func() {
		subs.Close()
		ts.Close()
		tc.Close()
	})
	return &fixture{tc, subs, ts}
}

func (f *fixture) dial(t *testing.T, path, query string, header http.Header) (*websocket.Conn, *http.Response, error) {
	u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(f.ts.URL, "http://"), Path: path, RawQuery: query}
	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), header)
	if conn != nil {
		t.Cleanup(func() { conn.Close() })
	}
	return conn, resp, err
}

// waitSubscribed gives the server time to register the feed subscription after the upgrade.
func waitSubscribed() {
	time.Sleep(100 * time.Millisecond)
}

func TestReceiptSubscription(t *testing.T) {
	f := newFixture(t, "*")
	alice := f.tc.Accounts()[0].Address
	bob := f.tc.Accounts()[1].Address

	conn, _, err := f.dial(t, "/subscriptions/receipt", "origin="+alice.String(), nil)
	require.NoError(t, err)
	waitSubscribed()

	_, err = f.tc.Stake(bob, thor.MustParseEther("1"))
	require.NoError(t, err)
	sent, err := f.tc.Stake(alice, thor.MustParseEther("1"))
	require.NoError(t, err)

	var receipt types.Receipt
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&receipt))
	assert.Equal(t, sent.ID, receipt.ID)
	assert.Equal(t, alice, receipt.Origin)
}

func TestEventSubscription(t *testing.T) {
	f := newFixture(t, "*")
	alice := f.tc.Accounts()[0].Address

	conn, _, err := f.dial(t, "/subscriptions/event", "addr="+builtin.Staker.Address.String(), nil)
	require.NoError(t, err)
	waitSubscribed()

	// reverted calls emit nothing
	_, err = f.tc.Withdraw(alice)
	require.Error(t, err)
	_, err = f.tc.Stake(alice, thor.MustParseEther("1"))
	require.NoError(t, err)

	var event types.FilteredEvent
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, builtin.Staker.Address, event.Address)
	assert.Equal(t, alice, event.Meta.TxOrigin)
	assert.Equal(t, uint32(0), event.Meta.Index)
}

func TestTransferSubscription(t *testing.T) {
	f := newFixture(t, "*")
	alice := f.tc.Accounts()[0].Address

	conn, _, err := f.dial(t, "/subscriptions/transfer", "recipient="+builtin.Staker.Address.String(), nil)
	require.NoError(t, err)
	waitSubscribed()

	amount := thor.MustParseEther("2")
	_, err = f.tc.Stake(alice, amount)
	require.NoError(t, err)

	var transfer types.FilteredTransfer
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&transfer))
	assert.Equal(t, alice, transfer.Sender)
	assert.Equal(t, builtin.Staker.Address, transfer.Recipient)
	assert.Equal(t, amount, (*big.Int)(transfer.Amount))
}

func TestBadQuery(t *testing.T) {
	f := newFixture(t, "*")

	for _, tt := range []struct {
		path  string
		query string
	}{
		{"/subscriptions/receipt", "origin=0x1"},
		{"/subscriptions/event", "addr=abc"},
		{"/subscriptions/event", "t1=0x12"},
		{"/subscriptions/transfer", "sender=nope"},
	} {
		_, resp, err := f.dial(t, tt.path, tt.query, nil)
		assert.Error(t, err, tt.query)
		require.NotNil(t, resp, tt.query)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, tt.query)
	}
}

func TestOriginCheck(t *testing.T) {
	f := newFixture(t, "https://allowed.org")

	_, resp, err := f.dial(t, "/subscriptions/receipt", "", http.Header{"Origin": {"https://evil.org"}})
	assert.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, _, err = f.dial(t, "/subscriptions/receipt", "", http.Header{"Origin": {"https://allowed.org"}})
	assert.NoError(t, err)
}

func TestCloseEndsStreams(t *testing.T) {
	f := newFixture(t, "*")

	conn, _, err := f.dial(t, "/subscriptions/receipt", "", nil)
	require.NoError(t, err)
	waitSubscribed()

	f.subs.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}
