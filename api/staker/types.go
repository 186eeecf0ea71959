// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/stakepool/api/types"
	"github.com/vechain/stakepool/builtin/staker"
	"github.com/vechain/stakepool/thor"
)

// Pool is the json form of the pool state.
type Pool struct {
	Address     thor.Address          `json:"address"`
	Beneficiary thor.Address          `json:"beneficiary"`
	Deadline    uint64                `json:"deadline"`
	TimeLeft    uint64                `json:"timeLeft"`
	Threshold   *math.HexOrDecimal256 `json:"threshold"`
	TotalStaked *math.HexOrDecimal256 `json:"totalStaked"`
	Held        *math.HexOrDecimal256 `json:"held"`
	Completed   bool                  `json:"completed"`
	Phase       string                `json:"phase"`
}

func convertPool(addr thor.Address, info *staker.Info) *Pool {
	return &Pool{
		Address:     addr,
		Beneficiary: info.Beneficiary,
		Deadline:    info.Deadline,
		TimeLeft:    info.TimeLeft,
		Threshold:   types.Amount(info.Threshold),
		TotalStaked: types.Amount(info.TotalStaked),
		Held:        types.Amount(info.Held),
		Completed:   info.Completed,
		Phase:       info.Phase.String(),
	}
}

// Balance is the amount staked by an address.
type Balance struct {
	Balance *math.HexOrDecimal256 `json:"balance"`
}

// TimeLeft holds seconds left before the deadline.
type TimeLeft struct {
	TimeLeft uint64 `json:"timeLeft"`
}

// Request is the body of the write methods.
type Request struct {
	Caller thor.Address `json:"caller"`
	// Value is only accepted by stake.
	Value *math.HexOrDecimal256 `json:"value,omitempty"`
}
