// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/xenv"
)

func init() {
	var (
		stakeEvent    = Staker.mustEvent("Stake")
		withdrawEvent = Staker.mustEvent("Withdraw")
		executeEvent  = Staker.mustEvent("Execute")
		receivedEvent = Beneficiary.mustEvent("Received")
	)

	register(Staker.contract, []nativeDefine{
		{"stake", func(env *xenv.Environment) ([]any, error) {
			depositor := env.Caller()
			amount := env.Value()
			if err := Staker.Native(env.State()).Stake(env.BlockContext().Time, depositor, amount); err != nil {
				return nil, err
			}
			env.Log(stakeEvent, Staker.Address, []thor.Bytes32{addressTopic(depositor)}, amount)
			return nil, nil
		}},
		{"execute", func(env *xenv.Environment) ([]any, error) {
			ben := Beneficiary.Native(env.State())
			amount, err := Staker.Native(env.State()).Execute(env.BlockContext().Time, ben, env.Transfer)
			if err != nil {
				return nil, err
			}
			env.Log(receivedEvent, Beneficiary.Address, []thor.Bytes32{addressTopic(Staker.Address)}, amount)
			env.Log(executeEvent, Staker.Address, []thor.Bytes32{addressTopic(Beneficiary.Address)}, amount)
			return nil, nil
		}},
		{"withdraw", func(env *xenv.Environment) ([]any, error) {
			depositor := env.Caller()
			amount, err := Staker.Native(env.State()).Withdraw(env.BlockContext().Time, depositor, env.Transfer)
			if err != nil {
				return nil, err
			}
			env.Log(withdrawEvent, Staker.Address, []thor.Bytes32{addressTopic(depositor)}, amount)
			return nil, nil
		}},
		{"timeLeft", func(env *xenv.Environment) ([]any, error) {
			left, err := Staker.Native(env.State()).TimeLeft(env.BlockContext().Time)
			if err != nil {
				return nil, err
			}
			return []any{new(big.Int).SetUint64(left)}, nil
		}},
		{"totalStaked", func(env *xenv.Environment) ([]any, error) {
			total, err := Staker.Native(env.State()).TotalStaked()
			if err != nil {
				return nil, err
			}
			return []any{total}, nil
		}},
		{"deadline", func(env *xenv.Environment) ([]any, error) {
			deadline, err := Staker.Native(env.State()).Deadline()
			if err != nil {
				return nil, err
			}
			return []any{new(big.Int).SetUint64(deadline)}, nil
		}},
		{"threshold", func(env *xenv.Environment) ([]any, error) {
			threshold, err := Staker.Native(env.State()).Threshold()
			if err != nil {
				return nil, err
			}
			return []any{threshold}, nil
		}},
		{"completed", func(env *xenv.Environment) ([]any, error) {
			completed, err := Staker.Native(env.State()).Completed()
			if err != nil {
				return nil, err
			}
			return []any{completed}, nil
		}},
		{"balanceOf", func(env *xenv.Environment) ([]any, error) {
			var depositor common.Address
			if err := env.ParseArgs(&depositor); err != nil {
				return nil, err
			}
			balance, err := Staker.Native(env.State()).BalanceOf(thor.Address(depositor))
			if err != nil {
				return nil, err
			}
			return []any{balance}, nil
		}},
	})
}
