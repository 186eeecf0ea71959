// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/builtin/staker"
	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

var logger = log.WithContext("pkg", "genesis")

// Genesis to build genesis state.
type Genesis struct {
	builder    *Builder
	id         thor.Bytes32
	name       string
	launchTime uint64
	params     staker.Params
}

// New creates the genesis described by config.
func New(name string, config *Config) (*Genesis, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	params := config.Staker.params()

	builder := new(Builder).
		Timestamp(config.LaunchTime).
		State(func(st *state.State) error {
			for _, acc := range config.Accounts {
				if err := st.SetBalance(acc.Address, (*big.Int)(acc.Balance)); err != nil {
					return err
				}
			}
			return builtin.Staker.Native(st).Initialize(builtin.Beneficiary.Address, config.LaunchTime, params)
		})

	for _, s := range config.Stakes {
		builder.Call(
			tx.NewClause(builtin.Staker.Address).WithMethod("stake").WithValue((*big.Int)(s.Amount)),
			s.From,
		)
	}

	id, err := builder.ComputeID()
	if err != nil {
		return nil, errors.Wrap(err, "compute genesis id")
	}
	return &Genesis{
		builder:    builder,
		id:         id,
		name:       name,
		launchTime: config.LaunchTime,
		params:     params,
	}, nil
}

// Build commits the genesis state into the stater's store, together with extras.
func (g *Genesis) Build(stater *state.Stater, extras ...func(kv.Putter) error) ([]*tx.Receipt, error) {
	id, receipts, err := g.builder.Build(stater, extras...)
	if err != nil {
		return nil, err
	}
	if id != g.id {
		return nil, errors.New("genesis id mismatch")
	}
	logger.Info("genesis built", "name", g.name, "id", id, "launchTime", g.launchTime)
	return receipts, nil
}

// ID returns genesis ID.
func (g *Genesis) ID() thor.Bytes32 {
	return g.id
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

func (g *Genesis) LaunchTime() uint64 {
	return g.launchTime
}

// StakerParams returns the pool parameters fixed at deployment.
func (g *Genesis) StakerParams() staker.Params {
	return staker.Params{
		DeadlineOffset: g.params.DeadlineOffset,
		Threshold:      new(big.Int).Set(g.params.Threshold),
	}
}
