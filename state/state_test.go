// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/thor"
)

func newStater(t *testing.T) (*Stater, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStater(db), db
}

func TestBalance(t *testing.T) {
	stater, _ := newStater(t)
	st := stater.NewState()
	addr := thor.BytesToAddress([]byte("acc"))

	bal, err := st.GetBalance(addr)
	require.NoError(t, err)
	assert.Equal(t, 0, bal.Sign())

	require.NoError(t, st.AddBalance(addr, big.NewInt(100)))
	ok, err := st.SubBalance(addr, big.NewInt(30))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = st.SubBalance(addr, big.NewInt(71))
	require.NoError(t, err)
	assert.False(t, ok, "insufficient")

	bal, _ = st.GetBalance(addr)
	assert.Equal(t, big.NewInt(70), bal)

	// returned balance is a copy
	bal.SetInt64(1)
	bal, _ = st.GetBalance(addr)
	assert.Equal(t, big.NewInt(70), bal)

	assert.Error(t, st.SetBalance(addr, big.NewInt(-1)))
}

func TestCheckpoint(t *testing.T) {
	stater, _ := newStater(t)
	st := stater.NewState()
	addr := thor.BytesToAddress([]byte("acc"))
	key := thor.BytesToBytes32([]byte("key"))

	require.NoError(t, st.SetBalance(addr, big.NewInt(1)))
	st.SetStorage(addr, key, thor.BytesToBytes32([]byte{1}))

	cp := st.NewCheckpoint()
	require.NoError(t, st.SetBalance(addr, big.NewInt(2)))
	st.SetStorage(addr, key, thor.BytesToBytes32([]byte{2}))

	v, _ := st.GetStorage(addr, key)
	assert.Equal(t, thor.BytesToBytes32([]byte{2}), v)

	st.RevertTo(cp)

	bal, _ := st.GetBalance(addr)
	assert.Equal(t, big.NewInt(1), bal)
	v, _ = st.GetStorage(addr, key)
	assert.Equal(t, thor.BytesToBytes32([]byte{1}), v)
}

func TestStageCommit(t *testing.T) {
	stater, db := newStater(t)
	addr := thor.BytesToAddress([]byte("acc"))
	key := thor.BytesToBytes32([]byte("key"))

	st := stater.NewState()
	require.NoError(t, st.SetBalance(addr, big.NewInt(10)))
	require.NoError(t, st.EncodeStorage(addr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes([]uint64{1, 2})
	}))

	stage, err := st.Stage()
	require.NoError(t, err)
	assert.Equal(t, 2, stage.Len())
	require.NoError(t, stage.Commit(func(p kv.Putter) error {
		return p.Put([]byte("extra"), []byte("v"))
	}))

	v, err := db.Get([]byte("extra"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	st = stater.NewState()
	bal, _ := st.GetBalance(addr)
	assert.Equal(t, big.NewInt(10), bal)

	var list []uint64
	require.NoError(t, st.DecodeStorage(addr, key, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &list)
	}))
	assert.Equal(t, []uint64{1, 2}, list)

	// list values read back as hash
	h, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.False(t, h.IsZero())

	// zero values are deleted from the store
	require.NoError(t, st.SetBalance(addr, new(big.Int)))
	st.SetRawStorage(addr, key, nil)
	stage, err = st.Stage()
	require.NoError(t, err)
	require.NoError(t, stage.Commit())

	has, err := db.Has(accountDBKey(addr))
	require.NoError(t, err)
	assert.False(t, has)
	has, err = db.Has(storageDBKey(storageKey{addr, key}))
	require.NoError(t, err)
	assert.False(t, has)
}
