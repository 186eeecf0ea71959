// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/builtin/reverts"
	stakerreverts "github.com/vechain/stakepool/builtin/staker/reverts"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
	"github.com/vechain/stakepool/xenv"
)

var logger = log.WithContext("pkg", "runtime")

var (
	errUnknownMethod = reverts.NewRequireError("unknown method")
	errNonPayable    = reverts.NewRequireError("non-payable method")
)

// Output is the result of a clause execution.
type Output struct {
	Data         []byte
	Events       tx.Events
	Transfers    tx.Transfers
	Reverted     bool
	RevertReason string
}

// Runtime is to support clause execution.
type Runtime struct {
	state *state.State

	// block env
	blockNumber uint32
	blockTime   uint64
}

// New create a Runtime object.
func New(state *state.State, blockNumber uint32, blockTime uint64) *Runtime {
	return &Runtime{
		state:       state,
		blockNumber: blockNumber,
		blockTime:   blockTime,
	}
}

func (rt *Runtime) State() *state.State { return rt.state }
func (rt *Runtime) BlockNumber() uint32 { return rt.blockNumber }
func (rt *Runtime) BlockTime() uint64   { return rt.blockTime }

// ExecuteClause executes a clause sent by origin.
// A failed clause leaves the state untouched. Contract-level failures are
// reported in the output; other failures are returned as error.
func (rt *Runtime) ExecuteClause(clause *tx.Clause, origin thor.Address, txID thor.Bytes32) (*Output, error) {
	checkpoint := rt.state.NewCheckpoint()

	out, err := rt.execute(clause, origin, txID)
	if err != nil {
		rt.state.RevertTo(checkpoint)
		if reason, ok := revertReason(err); ok {
			logger.Debug("clause reverted", "method", clause.Method(), "origin", origin, "reason", reason)
			return &Output{Reverted: true, RevertReason: reason}, nil
		}
		return nil, err
	}
	return out, nil
}

// Call executes a clause and discards all state changes.
func (rt *Runtime) Call(clause *tx.Clause, origin thor.Address) (*Output, error) {
	checkpoint := rt.state.NewCheckpoint()
	defer rt.state.RevertTo(checkpoint)

	out, err := rt.execute(clause, origin, thor.Bytes32{})
	if err != nil {
		if reason, ok := revertReason(err); ok {
			return &Output{Reverted: true, RevertReason: reason}, nil
		}
		return nil, err
	}
	return out, nil
}

func (rt *Runtime) execute(clause *tx.Clause, origin thor.Address, txID thor.Bytes32) (*Output, error) {
	method, ok := builtin.Lookup(clause.To(), clause.Method())
	if !ok {
		return nil, errUnknownMethod
	}

	value := clause.Value()
	if value.Sign() < 0 {
		return nil, errors.New("negative clause value")
	}
	if value.Sign() > 0 && !method.ABI().Payable() {
		return nil, errNonPayable
	}

	env := xenv.New(
		method.ABI(),
		rt.state,
		&xenv.BlockContext{Number: rt.blockNumber, Time: rt.blockTime},
		&xenv.TransactionContext{ID: txID, Origin: origin},
		clause.To(),
		value,
		clause.Data(),
	)

	// value arrives with the call
	if value.Sign() > 0 {
		if err := env.Transfer(origin, clause.To(), value); err != nil {
			return nil, err
		}
	}

	data, err := method.Run(env)
	if err != nil {
		return nil, err
	}
	return &Output{
		Data:      data,
		Events:    env.Events(),
		Transfers: env.Transfers(),
	}, nil
}

// revertReason extracts the message of a contract-level failure.
func revertReason(err error) (string, bool) {
	var stakerErr *stakerreverts.ErrRevert
	if errors.As(err, &stakerErr) {
		return stakerErr.Error(), true
	}
	var requireErr *reverts.ErrRequire
	if errors.As(err, &requireErr) {
		return requireErr.Error(), true
	}
	return "", false
}
