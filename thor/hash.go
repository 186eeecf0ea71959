// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"hash"
	"sync"

	"github.com/ethereum/go-ethereum/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// NewBlake2b return blake2b-256 hash.
func NewBlake2b() hash.Hash {
	hash, _ := blake2b.New256(nil)
	return hash
}

// Blake2b computes blake2b-256 checksum for given data.
func Blake2b(data ...[]byte) Bytes32 {
	if len(data) == 1 {
		return blake2b.Sum256(data[0])
	}
	var h Bytes32
	w := NewBlake2b()
	for _, b := range data {
		w.Write(b)
	}
	w.Sum(h[:0])
	return h
}

type keccakState interface {
	hash.Hash
	Read([]byte) (int, error)
}

var keccakPool = sync.Pool{
	New: func() any {
		return sha3.NewLegacyKeccak256().(keccakState)
	},
}

// Keccak256 computes the legacy keccak-256 hash used for event and method ids.
func Keccak256(data ...[]byte) (h Bytes32) {
	st := keccakPool.Get().(keccakState)
	for _, b := range data {
		st.Write(b)
	}
	st.Read(h[:])
	st.Reset()
	keccakPool.Put(st)
	return
}
