// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb_test

import (
	"context"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/logdb"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

var (
	pool    = thor.BytesToAddress([]byte("Staker"))
	alice   = thor.BytesToAddress([]byte("alice"))
	bob     = thor.BytesToAddress([]byte("bob"))
	stakeID = thor.Keccak256([]byte("Stake(address,uint256)"))
)

func addrTopic(addr thor.Address) thor.Bytes32 {
	return thor.BytesToBytes32(addr.Bytes())
}

// fill writes one block per staker with a stake event and its value transfer.
func fill(t *testing.T, db *logdb.LogDB, stakers ...thor.Address) {
	for i, staker := range stakers {
		number := uint32(i + 1)
		txID := thor.Blake2b(staker.Bytes(), []byte{byte(i)})
		err := db.Prepare(number, 1000+uint64(number)*10).
			ForTransaction(txID, staker).
			Insert(
				tx.Events{{Address: pool, Topics: []thor.Bytes32{stakeID, addrTopic(staker)}, Data: []byte{byte(i)}}},
				tx.Transfers{{Sender: staker, Recipient: pool, Amount: big.NewInt(int64(100 * number))}},
			).Commit()
		require.NoError(t, err)
	}
}

func TestEvents(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	fill(t, db, alice, bob, alice)
	ctx := context.Background()

	all, err := db.FilterEvents(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, uint32(1), all[0].BlockNumber)
	assert.Equal(t, uint64(1010), all[0].BlockTime)
	assert.Equal(t, pool, all[0].Address)
	assert.Equal(t, alice, all[0].TxOrigin)
	assert.Equal(t, stakeID, *all[0].Topics[0])
	assert.Nil(t, all[0].Topics[2])

	bobTopic := addrTopic(bob)
	tests := []struct {
		name   string
		filter *logdb.EventFilter
		want   []uint32
	}{
		{"by topic", &logdb.EventFilter{CriteriaSet: []*logdb.EventCriteria{{Topics: [5]*thor.Bytes32{1: &bobTopic}}}}, []uint32{2}},
		{"by address", &logdb.EventFilter{CriteriaSet: []*logdb.EventCriteria{{Address: &pool}}}, []uint32{1, 2, 3}},
		{"by other address", &logdb.EventFilter{CriteriaSet: []*logdb.EventCriteria{{Address: &alice}}}, nil},
		{"block range", &logdb.EventFilter{Range: &logdb.Range{Unit: logdb.Block, From: 2, To: 3}}, []uint32{2, 3}},
		{"time range open end", &logdb.EventFilter{Range: &logdb.Range{Unit: logdb.Time, From: 1025}}, []uint32{3}},
		{"desc", &logdb.EventFilter{Order: logdb.DESC}, []uint32{3, 2, 1}},
		{"paged", &logdb.EventFilter{Options: &logdb.Options{Offset: 1, Limit: 1}}, []uint32{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := db.FilterEvents(ctx, tt.filter)
			require.NoError(t, err)
			var got []uint32
			for _, ev := range events {
				got = append(got, ev.BlockNumber)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransfers(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	fill(t, db, alice, bob, alice)
	ctx := context.Background()

	all, err := db.FilterTransfers(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, big.NewInt(200), all[1].Amount)
	assert.Equal(t, bob, all[1].Sender)
	assert.Equal(t, pool, all[1].Recipient)

	fromAlice, err := db.FilterTransfers(ctx, &logdb.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{{Sender: &alice}},
		Order:       logdb.DESC,
	})
	require.NoError(t, err)
	require.Len(t, fromAlice, 2)
	assert.Equal(t, uint32(3), fromAlice[0].BlockNumber)

	either, err := db.FilterTransfers(ctx, &logdb.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{{TxOrigin: &bob}, {Recipient: &bob}},
	})
	require.NoError(t, err)
	require.Len(t, either, 1)

	txID := all[2].TxID
	byID, err := db.FilterTransfers(ctx, &logdb.TransferFilter{TxID: &txID})
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, uint32(3), byID[0].BlockNumber)
}

func TestEmptyBatch(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	bb := db.Prepare(1, 1)
	assert.Equal(t, 0, bb.Len())
	require.NoError(t, bb.Commit())
}

func TestCanceledQuery(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	fill(t, db, alice)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = db.FilterEvents(ctx, nil)
	assert.Error(t, err)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.db")
	db, err := logdb.New(path)
	require.NoError(t, err)
	fill(t, db, alice, bob)
	require.NoError(t, db.Close())

	db, err = logdb.New(path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, path, db.Path())
	assert.NotEmpty(t, db.DriverVersion())

	events, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}
