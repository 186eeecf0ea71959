// Copyright (c) 2019 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/builtin/staker"
	"github.com/vechain/stakepool/thor"
)

// Config is user customized genesis. JSON documents are accepted as well.
type Config struct {
	LaunchTime uint64       `yaml:"launchTime" json:"launchTime"`
	Accounts   []Account    `yaml:"accounts" json:"accounts"`
	Staker     StakerConfig `yaml:"staker" json:"staker"`
	// Stakes are executed at genesis, in order.
	Stakes []Stake `yaml:"stakes,omitempty" json:"stakes,omitempty"`
}

// Account is the account allocated at genesis.
type Account struct {
	Address thor.Address          `yaml:"address" json:"address"`
	Balance *math.HexOrDecimal256 `yaml:"balance" json:"balance"`
}

// StakerConfig holds the pool parameters. Zero values fall back to defaults.
type StakerConfig struct {
	DeadlineOffset uint64                `yaml:"deadlineOffset,omitempty" json:"deadlineOffset,omitempty"`
	Threshold      *math.HexOrDecimal256 `yaml:"threshold,omitempty" json:"threshold,omitempty"`
}

// Stake is a deposit made at genesis.
type Stake struct {
	From   thor.Address          `yaml:"from" json:"from"`
	Amount *math.HexOrDecimal256 `yaml:"amount" json:"amount"`
}

func (c *StakerConfig) params() staker.Params {
	params := staker.Params{
		DeadlineOffset: staker.DefaultDeadlineOffset,
		Threshold:      new(big.Int).Set(staker.DefaultThreshold),
	}
	if c.DeadlineOffset != 0 {
		params.DeadlineOffset = c.DeadlineOffset
	}
	if c.Threshold != nil {
		params.Threshold = new(big.Int).Set((*big.Int)(c.Threshold))
	}
	return params
}

// Validate checks the config for obvious mistakes.
func (c *Config) Validate() error {
	seen := make(map[thor.Address]bool)
	for _, acc := range c.Accounts {
		if acc.Balance == nil {
			return fmt.Errorf("%s: balance must be set", acc.Address)
		}
		if (*big.Int)(acc.Balance).Sign() < 1 {
			return fmt.Errorf("%s: balance must be a non-zero integer", acc.Address)
		}
		if acc.Address == builtin.Staker.Address || acc.Address == builtin.Beneficiary.Address {
			return fmt.Errorf("%s: builtin contract account can not be allocated", acc.Address)
		}
		if seen[acc.Address] {
			return fmt.Errorf("%s: duplicated account", acc.Address)
		}
		seen[acc.Address] = true
	}
	if c.Staker.Threshold != nil && (*big.Int)(c.Staker.Threshold).Sign() < 1 {
		return errors.New("staker threshold must be a non-zero integer")
	}
	for _, s := range c.Stakes {
		if s.Amount == nil || (*big.Int)(s.Amount).Sign() < 0 {
			return fmt.Errorf("%s: stake amount must be a non-negative integer", s.From)
		}
	}
	return nil
}

// LoadConfig reads a YAML or JSON genesis file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML or JSON genesis document. Unknown fields are rejected.
func ParseConfig(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var config Config
	if err := dec.Decode(&config); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	return &config, nil
}
