// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

// Builder helper to build genesis state.
type Builder struct {
	timestamp uint64

	stateProcs []func(state *state.State) error
	calls      []call
}

type call struct {
	clause *tx.Clause
	caller thor.Address
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Call add a contract call, executed after all state processes.
func (b *Builder) Call(clause *tx.Clause, caller thor.Address) *Builder {
	b.calls = append(b.calls, call{clause, caller})
	return b
}

// ComputeID compute genesis ID.
func (b *Builder) ComputeID() (thor.Bytes32, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return thor.Bytes32{}, err
	}
	defer db.Close()

	id, _, err := b.Build(state.NewStater(db))
	return id, err
}

// Build applies presets onto an empty state and commits it, together with extras.
// Receipts of the genesis calls are returned, all belong to block 0.
func (b *Builder) Build(stater *state.Stater, extras ...func(kv.Putter) error) (id thor.Bytes32, receipts []*tx.Receipt, err error) {
	st := stater.NewState()

	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return thor.Bytes32{}, nil, errors.Wrap(err, "state process")
		}
	}

	rt := runtime.New(st, 0, b.timestamp)
	for i, call := range b.calls {
		txID := call.clause.ID(call.caller, uint64(i))
		out, err := rt.ExecuteClause(call.clause, call.caller, txID)
		if err != nil {
			return thor.Bytes32{}, nil, errors.Wrap(err, "genesis call")
		}
		if out.Reverted {
			return thor.Bytes32{}, nil, errors.Errorf("genesis call %v reverted: %s", call.clause, out.RevertReason)
		}
		receipts = append(receipts, &tx.Receipt{
			ID:        txID,
			BlockTime: b.timestamp,
			Origin:    call.caller,
			Clause:    call.clause,
			Events:    out.Events,
			Transfers: out.Transfers,
		})
	}

	stage, err := st.Stage()
	if err != nil {
		return thor.Bytes32{}, nil, errors.Wrap(err, "stage state")
	}

	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], b.timestamp)
	stateHash := stage.Hash()
	id = thor.Blake2b(ts[:], stateHash[:])

	if err := stage.Commit(extras...); err != nil {
		return thor.Bytes32{}, nil, errors.Wrap(err, "commit state")
	}
	return id, receipts, nil
}
