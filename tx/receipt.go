// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import "github.com/vechain/stakepool/thor"

// Receipt represents the results of an executed clause.
type Receipt struct {
	ID          thor.Bytes32
	BlockNumber uint32
	BlockTime   uint64
	Origin      thor.Address
	Clause      *Clause

	// Reverted is true if the clause failed and all its changes were discarded.
	Reverted     bool
	RevertReason string

	Events    Events
	Transfers Transfers
}
