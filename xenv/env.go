// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/abi"
	"github.com/vechain/stakepool/builtin/reverts"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

// ErrInsufficientBalance is returned when a transfer exceeds the sender balance.
var ErrInsufficientBalance = reverts.NewRequireError("insufficient balance")

// ErrInvalidInput is returned when the clause data does not match the method arguments.
var ErrInvalidInput = reverts.NewRequireError("invalid input")

// BlockContext block context.
type BlockContext struct {
	Number uint32
	Time   uint64
}

// TransactionContext transaction context.
type TransactionContext struct {
	ID     thor.Bytes32
	Origin thor.Address
}

// Environment an env to execute native method.
type Environment struct {
	method   *abi.Method
	state    *state.State
	blockCtx *BlockContext
	txCtx    *TransactionContext
	to       thor.Address
	value    *big.Int
	input    []byte

	events    tx.Events
	transfers tx.Transfers
}

// New create a new env.
func New(
	method *abi.Method,
	state *state.State,
	blockCtx *BlockContext,
	txCtx *TransactionContext,
	to thor.Address,
	value *big.Int,
	input []byte,
) *Environment {
	return &Environment{
		method:   method,
		state:    state,
		blockCtx: blockCtx,
		txCtx:    txCtx,
		to:       to,
		value:    new(big.Int).Set(value),
		input:    input,
	}
}

func (env *Environment) State() *state.State                     { return env.state }
func (env *Environment) TransactionContext() *TransactionContext { return env.txCtx }
func (env *Environment) BlockContext() *BlockContext             { return env.blockCtx }
func (env *Environment) Method() *abi.Method                     { return env.method }
func (env *Environment) Caller() thor.Address                    { return env.txCtx.Origin }
func (env *Environment) To() thor.Address                        { return env.to }
func (env *Environment) Value() *big.Int                         { return new(big.Int).Set(env.value) }
func (env *Environment) Events() tx.Events                       { return env.events }
func (env *Environment) Transfers() tx.Transfers                 { return env.transfers }

// ParseArgs decodes the clause data into the arguments of the running method.
func (env *Environment) ParseArgs(v any) error {
	if err := env.method.DecodeArgs(env.input, v); err != nil {
		return errors.WithMessage(ErrInvalidInput, err.Error())
	}
	return nil
}

// Transfer moves amount from sender to recipient and records a transfer log.
// Zero transfers are not recorded.
func (env *Environment) Transfer(sender, recipient thor.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("negative transfer amount")
	}
	ok, err := env.state.SubBalance(sender, amount)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInsufficientBalance
	}
	if err := env.state.AddBalance(recipient, amount); err != nil {
		return err
	}
	if amount.Sign() > 0 {
		env.transfers = append(env.transfers, &tx.Transfer{
			Sender:    sender,
			Recipient: recipient,
			Amount:    new(big.Int).Set(amount),
		})
	}
	return nil
}

// Log records an event emitted by address.
func (env *Environment) Log(ev *abi.Event, address thor.Address, topics []thor.Bytes32, args ...any) {
	data, err := ev.Encode(args...)
	if err != nil {
		panic(errors.WithMessage(err, "encode native event"))
	}
	allTopics := make([]thor.Bytes32, 0, len(topics)+1)
	allTopics = append(allTopics, ev.ID())
	allTopics = append(allTopics, topics...)

	env.events = append(env.events, &tx.Event{
		Address: address,
		Topics:  allTopics,
		Data:    data,
	})
}
