// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/lvldb"
)

func TestBucket(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	state := kv.Bucket("st").NewGetPutter(db)
	chain := kv.Bucket("ch").NewGetPutter(db)

	require.NoError(t, state.Put([]byte("k"), []byte("state")))
	require.NoError(t, chain.Put([]byte("k"), []byte("chain")))

	v, err := state.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("state"), v)

	v, err = db.Get([]byte("chk"))
	require.NoError(t, err)
	assert.Equal(t, []byte("chain"), v)

	require.NoError(t, state.Delete([]byte("k")))
	_, err = state.Get([]byte("k"))
	assert.True(t, state.IsNotFound(err))

	has, err := chain.Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, has)
}

func TestBucketRange(t *testing.T) {
	assert.Equal(t, kv.Range{Start: []byte("ab"), Limit: []byte("ac")}, kv.Bucket("ab").Range())
	assert.Equal(t, kv.Range{Start: []byte{1, 0xff}, Limit: []byte{2}}, kv.Bucket([]byte{1, 0xff}).Range())
	assert.Equal(t, kv.Range{Start: []byte{0xff}}, kv.Bucket([]byte{0xff}).Range())
}
