// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/xenv"
)

func init() {
	receivedEvent := Beneficiary.mustEvent("Received")

	register(Beneficiary.contract, []nativeDefine{
		{"complete", func(env *xenv.Environment) ([]any, error) {
			sender := env.Caller()
			amount := env.Value()
			if err := Beneficiary.Native(env.State()).Receive(sender, amount); err != nil {
				return nil, err
			}
			env.Log(receivedEvent, Beneficiary.Address, []thor.Bytes32{addressTopic(sender)}, amount)
			return nil, nil
		}},
		{"completed", func(env *xenv.Environment) ([]any, error) {
			completed, err := Beneficiary.Native(env.State()).Completed()
			if err != nil {
				return nil, err
			}
			return []any{completed}, nil
		}},
	})
}
