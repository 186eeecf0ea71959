// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/solidity"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

var (
	slotBalances    = nameToSlot("balances")
	slotTotalStaked = nameToSlot("total-staked")
	slotDeadline    = nameToSlot("deadline")
	slotThreshold   = nameToSlot("threshold")
	slotStatus      = nameToSlot("status")
	slotBeneficiary = nameToSlot("beneficiary")
)

func nameToSlot(name string) thor.Bytes32 {
	return thor.BytesToBytes32([]byte(name))
}

// storage represents the root storage for the Staker contract.
type storage struct {
	context     *solidity.Context
	balances    *solidity.Mapping[thor.Address, *big.Int]
	totalStaked *solidity.Uint256
	deadline    *solidity.Uint256
	threshold   *solidity.Uint256
	status      *solidity.Uint256
	beneficiary *solidity.Address
}

func newStorage(addr thor.Address, state *state.State) *storage {
	context := solidity.NewContext(addr, state)
	return &storage{
		context:     context,
		balances:    solidity.NewMapping[thor.Address, *big.Int](context, slotBalances),
		totalStaked: solidity.NewUint256(context, slotTotalStaked),
		deadline:    solidity.NewUint256(context, slotDeadline),
		threshold:   solidity.NewUint256(context, slotThreshold),
		status:      solidity.NewUint256(context, slotStatus),
		beneficiary: solidity.NewAddress(context, slotBeneficiary),
	}
}

func (s *storage) GetBalance(depositor thor.Address) (*big.Int, error) {
	v, err := s.balances.Get(depositor)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return v, nil
}

func (s *storage) SetBalance(depositor thor.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		s.balances.Delete(depositor)
		return nil
	}
	if err := s.balances.Set(depositor, amount); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	return nil
}

func (s *storage) GetTotalStaked() (*big.Int, error) {
	v, err := s.totalStaked.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get total staked")
	}
	return v, nil
}

func (s *storage) GetDeadline() (uint64, error) {
	v, err := s.deadline.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get deadline")
	}
	return v.Uint64(), nil
}

func (s *storage) GetThreshold() (*big.Int, error) {
	v, err := s.threshold.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get threshold")
	}
	return v, nil
}

func (s *storage) GetStatus() (Status, error) {
	v, err := s.status.Get()
	if err != nil {
		return StatusOpen, errors.Wrap(err, "failed to get status")
	}
	return Status(v.Uint64()), nil
}

func (s *storage) SetStatus(status Status) {
	s.status.Set(new(big.Int).SetUint64(uint64(status)))
}

func (s *storage) GetBeneficiary() (thor.Address, error) {
	v, err := s.beneficiary.Get()
	if err != nil {
		return thor.Address{}, errors.Wrap(err, "failed to get beneficiary")
	}
	return v, nil
}
