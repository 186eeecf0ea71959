// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/builtin/staker"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

const launchTime = uint64(1_700_000_000)

var alice = thor.BytesToAddress([]byte("alice"))

func newState(t *testing.T, threshold *big.Int) *state.State {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.NewStater(db).NewState()
	require.NoError(t, builtin.Staker.Native(st).Initialize(builtin.Beneficiary.Address, launchTime, staker.Params{
		DeadlineOffset: staker.DefaultDeadlineOffset,
		Threshold:      threshold,
	}))
	require.NoError(t, st.SetBalance(alice, thor.MustParseEther("10")))
	return st
}

func stakeClause(amount string) *tx.Clause {
	return tx.NewClause(builtin.Staker.Address).WithMethod("stake").WithValue(thor.MustParseEther(amount))
}

func balance(t *testing.T, st *state.State, addr thor.Address) *big.Int {
	b, err := st.GetBalance(addr)
	require.NoError(t, err)
	return b
}

func TestStakeScenario(t *testing.T) {
	st := newState(t, thor.Ether)
	rt := New(st, 1, launchTime+5)

	out, err := rt.ExecuteClause(stakeClause("0.5"), alice, thor.Bytes32{1})
	require.NoError(t, err)
	assert.False(t, out.Reverted)

	assert.Equal(t, thor.MustParseEther("0.5"), balance(t, st, builtin.Staker.Address))
	assert.Equal(t, thor.MustParseEther("9.5"), balance(t, st, alice))

	staked, err := builtin.Staker.Native(st).BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, thor.MustParseEther("0.5"), staked)

	require.Len(t, out.Events, 1)
	stakeEvent, _ := builtin.Staker.ABI.EventByName("Stake")
	assert.Equal(t, stakeEvent.ID(), out.Events[0].Topics[0])
	assert.Equal(t, thor.BytesToBytes32(alice.Bytes()), out.Events[0].Topics[1])

	require.Len(t, out.Transfers, 1)
	assert.Equal(t, &tx.Transfer{Sender: alice, Recipient: builtin.Staker.Address, Amount: thor.MustParseEther("0.5")}, out.Transfers[0])
}

func TestExecuteScenario(t *testing.T) {
	st := newState(t, thor.Ether)

	_, err := New(st, 1, launchTime+1).ExecuteClause(stakeClause("1"), alice, thor.Bytes32{})
	require.NoError(t, err)

	out, err := New(st, 2, launchTime+2).ExecuteClause(tx.NewClause(builtin.Staker.Address).WithMethod("execute"), alice, thor.Bytes32{})
	require.NoError(t, err)
	require.False(t, out.Reverted, out.RevertReason)

	assert.Equal(t, thor.Ether, balance(t, st, builtin.Beneficiary.Address))
	assert.Equal(t, 0, balance(t, st, builtin.Staker.Address).Sign())
	completed, _ := builtin.Beneficiary.Native(st).Completed()
	assert.True(t, completed)
	assert.Len(t, out.Events, 2)

	out, err = New(st, 3, launchTime+3).ExecuteClause(stakeClause("1"), alice, thor.Bytes32{})
	require.NoError(t, err)
	assert.True(t, out.Reverted)
	assert.Equal(t, "staking process already completed", out.RevertReason)
	assert.Equal(t, thor.MustParseEther("9"), balance(t, st, alice), "value refunded")
}

func TestWithdrawScenario(t *testing.T) {
	st := newState(t, thor.MustParseEther("5"))

	_, err := New(st, 1, launchTime+1).ExecuteClause(stakeClause("1"), alice, thor.Bytes32{})
	require.NoError(t, err)

	withdraw := tx.NewClause(builtin.Staker.Address).WithMethod("withdraw")

	out, err := New(st, 2, launchTime+10).ExecuteClause(withdraw, alice, thor.Bytes32{})
	require.NoError(t, err)
	assert.Equal(t, "Deadline is not reached yet", out.RevertReason)

	out, err = New(st, 3, launchTime+72).ExecuteClause(withdraw, alice, thor.Bytes32{})
	require.NoError(t, err)
	require.False(t, out.Reverted)
	assert.Equal(t, thor.MustParseEther("10"), balance(t, st, alice))
	assert.Equal(t, 0, balance(t, st, builtin.Staker.Address).Sign())

	out, err = New(st, 4, launchTime+73).ExecuteClause(withdraw, alice, thor.Bytes32{})
	require.NoError(t, err)
	assert.Equal(t, "You do not have a balance.", out.RevertReason)
}

func TestClauseFailures(t *testing.T) {
	st := newState(t, thor.Ether)
	rt := New(st, 1, launchTime)

	tests := []struct {
		name   string
		clause *tx.Clause
		reason string
	}{
		{"unknown method", tx.NewClause(builtin.Staker.Address).WithMethod("steal"), "unknown method"},
		{"unknown contract", tx.NewClause(alice).WithMethod("stake"), "unknown method"},
		{"non payable", tx.NewClause(builtin.Staker.Address).WithMethod("execute").WithValue(big.NewInt(1)), "non-payable method"},
		{"insufficient balance", stakeClause("11"), "insufficient balance"},
		{"threshold", tx.NewClause(builtin.Staker.Address).WithMethod("execute"), "Threshold not met"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := rt.ExecuteClause(tt.clause, alice, thor.Bytes32{})
			require.NoError(t, err)
			assert.True(t, out.Reverted)
			assert.Equal(t, tt.reason, out.RevertReason)
			assert.Empty(t, out.Events)
			assert.Equal(t, thor.MustParseEther("10"), balance(t, st, alice))
		})
	}
}

func TestCall(t *testing.T) {
	st := newState(t, thor.Ether)
	rt := New(st, 1, launchTime+30)

	out, err := rt.Call(tx.NewClause(builtin.Staker.Address).WithMethod("timeLeft"), alice)
	require.NoError(t, err)
	method, _ := builtin.Staker.ABI.MethodByName("timeLeft")
	var left *big.Int
	require.NoError(t, method.DecodeOutput(out.Data, &left))
	assert.Equal(t, big.NewInt(42), left)

	// state changes are discarded
	out, err = rt.Call(stakeClause("1"), alice)
	require.NoError(t, err)
	assert.False(t, out.Reverted)
	assert.Equal(t, thor.MustParseEther("10"), balance(t, st, alice))

	out, err = rt.Call(tx.NewClause(builtin.Staker.Address).WithMethod("nope"), alice)
	require.NoError(t, err)
	assert.True(t, out.Reverted)
}
