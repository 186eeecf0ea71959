// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

const (
	propStoreName    = kv.Bucket("p")
	receiptStoreName = kv.Bucket("r")
)

var (
	headKey    = []byte("head")
	genesisKey = []byte("genesis")
)

// Head is the latest executed call.
type Head struct {
	Number uint32
	Time   uint64
	// ID of the last receipt, genesis ID at block 0.
	ID thor.Bytes32
	// Nonce counts calls executed so far.
	Nonce uint64
}

// GenesisInfo identifies the genesis a database was built from.
type GenesisInfo struct {
	ID         thor.Bytes32
	LaunchTime uint64
}

func saveRLP(w kv.Putter, key []byte, val any) error {
	data, err := rlp.EncodeToBytes(val)
	if err != nil {
		return err
	}
	return w.Put(key, data)
}

func loadRLP(r kv.Getter, key []byte, val any) error {
	data, err := r.Get(key)
	if err != nil {
		return err
	}
	return rlp.DecodeBytes(data, val)
}

func saveHead(w kv.Putter, head *Head) error {
	return saveRLP(propStoreName.NewPutter(w), headKey, head)
}

func loadHead(r kv.Getter) (*Head, error) {
	var head Head
	if err := loadRLP(propStoreName.NewGetter(r), headKey, &head); err != nil {
		return nil, err
	}
	return &head, nil
}

func saveGenesisInfo(w kv.Putter, info *GenesisInfo) error {
	return saveRLP(propStoreName.NewPutter(w), genesisKey, info)
}

func loadGenesisInfo(r kv.Getter) (*GenesisInfo, error) {
	var info GenesisInfo
	if err := loadRLP(propStoreName.NewGetter(r), genesisKey, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func saveReceipt(w kv.Putter, receipt *tx.Receipt) error {
	return saveRLP(receiptStoreName.NewPutter(w), receipt.ID[:], receipt)
}

func loadReceipt(r kv.Getter, id thor.Bytes32) (*tx.Receipt, error) {
	var receipt tx.Receipt
	if err := loadRLP(receiptStoreName.NewGetter(r), id[:], &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// LoadGenesisInfo returns the genesis info persisted in db, or nil if db is empty.
func LoadGenesisInfo(db kv.Getter) (*GenesisInfo, error) {
	info, err := loadGenesisInfo(db)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return info, nil
}
