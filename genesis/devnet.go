// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vechain/stakepool/thor"
)

// DevLaunchTime is the launch time of the devnet when a manual clock is used.
const DevLaunchTime uint64 = 1526400000 // 'Wed May 16 2018 00:00:00 GMT+0800 (CST)'

// DevAccount account for development.
type DevAccount struct {
	Address    thor.Address
	PrivateKey *ecdsa.PrivateKey
}

// DevAccounts returns pre-alloced accounts for solo mode.
var DevAccounts = sync.OnceValue(func() []DevAccount {
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
	}
	accs := make([]DevAccount, 0, len(privKeys))
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{thor.Address(addr), pk})
	}
	return accs
})

// DevConfig returns the config of the devnet: every dev account is funded with 10000 ether.
func DevConfig(launchTime uint64, stakerConfig StakerConfig) *Config {
	balance := new(big.Int).Mul(big.NewInt(10000), thor.Ether)

	config := &Config{
		LaunchTime: launchTime,
		Staker:     stakerConfig,
	}
	for _, acc := range DevAccounts() {
		config.Accounts = append(config.Accounts, Account{
			Address: acc.Address,
			Balance: (*math.HexOrDecimal256)(new(big.Int).Set(balance)),
		})
	}
	return config
}

// NewDevnet create genesis for solo mode.
func NewDevnet(launchTime uint64, stakerConfig StakerConfig) (*Genesis, error) {
	return New("devnet", DevConfig(launchTime, stakerConfig))
}
