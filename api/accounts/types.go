// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/stakepool/api/types"
	"github.com/vechain/stakepool/thor"
)

// Account for marshal account
type Account struct {
	Balance *math.HexOrDecimal256 `json:"balance"`
}

// CallData represents a clause to be inspected.
type CallData struct {
	Clauses []*types.Clause `json:"clauses"`
	Caller  *thor.Address   `json:"caller"`
}

// CallResult represents the output of an inspected clause.
type CallResult struct {
	Data         string            `json:"data"`
	Events       []*types.Event    `json:"events"`
	Transfers    []*types.Transfer `json:"transfers"`
	Reverted     bool              `json:"reverted"`
	RevertReason string            `json:"revertReason,omitempty"`
}
