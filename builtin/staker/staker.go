// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

var logger = log.WithContext("pkg", "staker")

const DefaultDeadlineOffset uint64 = 72

var DefaultThreshold = new(big.Int).Set(thor.Ether)

// Params are fixed at deployment.
type Params struct {
	DeadlineOffset uint64
	Threshold      *big.Int
}

// Beneficiary is the downstream contract that receives the pool on execute.
type Beneficiary interface {
	Address() thor.Address
	// Receive is invoked after the value has been moved. A returned error fails the execute.
	Receive(sender thor.Address, amount *big.Int) error
}

// TransferFunc moves value between accounts.
type TransferFunc func(sender, recipient thor.Address, amount *big.Int) error

// Info is a read-only view of the pool.
type Info struct {
	Beneficiary thor.Address
	Deadline    uint64
	Threshold   *big.Int
	TotalStaked *big.Int
	Held        *big.Int
	Completed   bool
	Phase       Phase
	TimeLeft    uint64
}

// Staker implements native methods of `Staker` contract.
type Staker struct {
	addr    thor.Address
	state   *state.State
	storage *storage
}

// New create a new instance.
func New(addr thor.Address, state *state.State) *Staker {
	return &Staker{
		addr:    addr,
		state:   state,
		storage: newStorage(addr, state),
	}
}

// Address returns the contract address.
func (s *Staker) Address() thor.Address {
	return s.addr
}

// Initialize deploys the pool. It fails if the pool is already deployed.
func (s *Staker) Initialize(beneficiary thor.Address, deployTime uint64, params Params) error {
	deadline, err := s.storage.GetDeadline()
	if err != nil {
		return err
	}
	if deadline != 0 {
		return errors.New("staker already initialized")
	}
	if params.Threshold == nil || params.Threshold.Sign() < 0 {
		return errors.New("invalid threshold")
	}
	if beneficiary.IsZero() {
		return errors.New("invalid beneficiary")
	}

	s.storage.deadline.Set(new(big.Int).SetUint64(deployTime + params.DeadlineOffset))
	s.storage.threshold.Set(params.Threshold)
	s.storage.beneficiary.Set(beneficiary)
	s.storage.SetStatus(StatusOpen)

	logger.Debug("staker initialized",
		"beneficiary", beneficiary,
		"deadline", deployTime+params.DeadlineOffset,
		"threshold", params.Threshold)
	return nil
}

//
// Getters - no state change
//

func (s *Staker) Deadline() (uint64, error) {
	return s.storage.GetDeadline()
}

func (s *Staker) Threshold() (*big.Int, error) {
	return s.storage.GetThreshold()
}

func (s *Staker) TotalStaked() (*big.Int, error) {
	return s.storage.GetTotalStaked()
}

func (s *Staker) Beneficiary() (thor.Address, error) {
	return s.storage.GetBeneficiary()
}

// BalanceOf returns the staked amount of depositor. Absent entries read as zero.
func (s *Staker) BalanceOf(depositor thor.Address) (*big.Int, error) {
	return s.storage.GetBalance(depositor)
}

// Completed returns whether the pool has been executed.
func (s *Staker) Completed() (bool, error) {
	status, err := s.storage.GetStatus()
	if err != nil {
		return false, err
	}
	return status == StatusCompleted, nil
}

// Held returns the value held by the contract.
func (s *Staker) Held() (*big.Int, error) {
	return s.state.GetBalance(s.addr)
}

// TimeLeft returns max(0, deadline - now).
func (s *Staker) TimeLeft(now uint64) (uint64, error) {
	deadline, err := s.storage.GetDeadline()
	if err != nil {
		return 0, err
	}
	if now >= deadline {
		return 0, nil
	}
	return deadline - now, nil
}

// Phase returns the lifecycle phase observed at now.
func (s *Staker) Phase(now uint64) (Phase, error) {
	snap, err := s.snapshot(now, nil)
	if err != nil {
		return PhaseOpen, err
	}
	return snap.Phase(), nil
}

// Info collects a full view of the pool at now.
func (s *Staker) Info(now uint64) (*Info, error) {
	snap, err := s.snapshot(now, nil)
	if err != nil {
		return nil, err
	}
	beneficiary, err := s.storage.GetBeneficiary()
	if err != nil {
		return nil, err
	}
	held, err := s.Held()
	if err != nil {
		return nil, err
	}
	timeLeft := uint64(0)
	if now < snap.deadline {
		timeLeft = snap.deadline - now
	}
	return &Info{
		Beneficiary: beneficiary,
		Deadline:    snap.deadline,
		Threshold:   snap.threshold,
		TotalStaked: snap.total,
		Held:        held,
		Completed:   snap.status == StatusCompleted,
		Phase:       snap.Phase(),
		TimeLeft:    timeLeft,
	}, nil
}

func (s *Staker) snapshot(now uint64, depositor *thor.Address) (*snapshot, error) {
	deadline, err := s.storage.GetDeadline()
	if err != nil {
		return nil, err
	}
	status, err := s.storage.GetStatus()
	if err != nil {
		return nil, err
	}
	total, err := s.storage.GetTotalStaked()
	if err != nil {
		return nil, err
	}
	threshold, err := s.storage.GetThreshold()
	if err != nil {
		return nil, err
	}
	snap := &snapshot{
		now:       now,
		deadline:  deadline,
		status:    status,
		total:     total,
		threshold: threshold,
	}
	if depositor != nil {
		if snap.balance, err = s.storage.GetBalance(*depositor); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

//
// Setters - state change
//

// Stake credits amount to depositor. The value must already be held by the contract.
func (s *Staker) Stake(now uint64, depositor thor.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("negative stake amount")
	}
	snap, err := s.snapshot(now, nil)
	if err != nil {
		return err
	}
	if err := snap.check(opStake); err != nil {
		return err
	}

	balance, err := s.storage.GetBalance(depositor)
	if err != nil {
		return err
	}
	if err := s.storage.SetBalance(depositor, balance.Add(balance, amount)); err != nil {
		return err
	}
	if err := s.storage.totalStaked.Add(amount); err != nil {
		return errors.Wrap(err, "failed to add total staked")
	}

	logger.Debug("staked", "depositor", depositor, "amount", amount)
	return nil
}

// Execute hands the entire held value to the beneficiary and completes the pool.
// It returns the amount transferred.
func (s *Staker) Execute(now uint64, beneficiary Beneficiary, transfer TransferFunc) (*big.Int, error) {
	snap, err := s.snapshot(now, nil)
	if err != nil {
		return nil, err
	}
	if err := snap.check(opExecute); err != nil {
		return nil, err
	}

	expected, err := s.storage.GetBeneficiary()
	if err != nil {
		return nil, err
	}
	if beneficiary.Address() != expected {
		return nil, errors.Errorf("unexpected beneficiary %v", beneficiary.Address())
	}

	held, err := s.Held()
	if err != nil {
		return nil, err
	}
	if err := transfer(s.addr, expected, held); err != nil {
		return nil, errors.WithMessage(err, "transfer to beneficiary")
	}
	if err := beneficiary.Receive(s.addr, held); err != nil {
		return nil, errors.WithMessage(err, "beneficiary receive")
	}
	s.storage.SetStatus(StatusCompleted)

	logger.Debug("executed", "beneficiary", expected, "amount", held)
	return held, nil
}

// Withdraw returns the whole balance of depositor after a failed pool.
// It returns the amount withdrawn.
func (s *Staker) Withdraw(now uint64, depositor thor.Address, transfer TransferFunc) (*big.Int, error) {
	snap, err := s.snapshot(now, &depositor)
	if err != nil {
		return nil, err
	}
	if err := snap.check(opWithdraw); err != nil {
		return nil, err
	}

	amount := snap.balance
	if err := s.storage.SetBalance(depositor, new(big.Int)); err != nil {
		return nil, err
	}
	if err := s.storage.totalStaked.Sub(amount); err != nil {
		return nil, errors.Wrap(err, "failed to sub total staked")
	}
	if err := transfer(s.addr, depositor, amount); err != nil {
		return nil, errors.WithMessage(err, "transfer to depositor")
	}

	logger.Debug("withdrawn", "depositor", depositor, "amount", amount)
	return amount, nil
}
