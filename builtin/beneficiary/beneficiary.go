// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package beneficiary implements the downstream contract that receives
// the pooled funds once the staker executes.
package beneficiary

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/solidity"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

var logger = log.WithContext("pkg", "beneficiary")

var (
	slotCompleted = thor.BytesToBytes32([]byte("completed"))
	slotReceived  = thor.BytesToBytes32([]byte("received"))
	slotLastFrom  = thor.BytesToBytes32([]byte("last-sender"))
)

// Beneficiary implements native methods of `Beneficiary` contract.
type Beneficiary struct {
	addr      thor.Address
	completed *solidity.Bool
	received  *solidity.Uint256
	lastFrom  *solidity.Address
}

// New create a new instance.
func New(addr thor.Address, state *state.State) *Beneficiary {
	ctx := solidity.NewContext(addr, state)
	return &Beneficiary{
		addr:      addr,
		completed: solidity.NewBool(ctx, slotCompleted),
		received:  solidity.NewUint256(ctx, slotReceived),
		lastFrom:  solidity.NewAddress(ctx, slotLastFrom),
	}
}

func (b *Beneficiary) Address() thor.Address {
	return b.addr
}

// Completed returns true once any transfer has been received.
func (b *Beneficiary) Completed() (bool, error) {
	v, err := b.completed.Get()
	if err != nil {
		return false, errors.Wrap(err, "failed to get completed")
	}
	return v, nil
}

// Received returns the accumulated value received.
func (b *Beneficiary) Received() (*big.Int, error) {
	v, err := b.received.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get received")
	}
	return v, nil
}

// LastSender returns the sender of the latest transfer.
func (b *Beneficiary) LastSender() (thor.Address, error) {
	return b.lastFrom.Get()
}

// Receive accepts incoming value unconditionally and marks the contract completed.
func (b *Beneficiary) Receive(sender thor.Address, amount *big.Int) error {
	if err := b.received.Add(amount); err != nil {
		return errors.Wrap(err, "failed to add received")
	}
	b.lastFrom.Set(sender)
	b.completed.Set(true)

	logger.Debug("received", "sender", sender, "amount", amount)
	return nil
}
