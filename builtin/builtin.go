// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/stakepool/builtin/beneficiary"
	"github.com/vechain/stakepool/builtin/staker"
	"github.com/vechain/stakepool/state"
)

// Builtin contracts binding.
var (
	Staker      = &stakerContract{mustLoadContract("Staker")}
	Beneficiary = &beneficiaryContract{mustLoadContract("Beneficiary")}
)

type (
	stakerContract      struct{ *contract }
	beneficiaryContract struct{ *contract }
)

func (s *stakerContract) Native(state *state.State) *staker.Staker {
	return staker.New(s.Address, state)
}

func (b *beneficiaryContract) Native(state *state.State) *beneficiary.Beneficiary {
	return beneficiary.New(b.Address, state)
}
