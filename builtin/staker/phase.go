// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/vechain/stakepool/builtin/staker/reverts"
)

// Status is the stored lifecycle tag of the pool.
type Status uint8

const (
	StatusOpen Status = iota
	StatusCompleted
)

// Phase is the lifecycle stage of the pool as observed at a given time.
type Phase uint8

const (
	PhaseOpen Phase = iota
	PhaseExpiredAboveThreshold
	PhaseExpiredBelowThreshold
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseOpen:
		return "open"
	case PhaseExpiredAboveThreshold:
		return "expired-above-threshold"
	case PhaseExpiredBelowThreshold:
		return "expired-below-threshold"
	case PhaseCompleted:
		return "completed"
	}
	return "unknown"
}

// snapshot holds the facts a call is judged on. It is loaded once per call.
type snapshot struct {
	now       uint64
	deadline  uint64
	status    Status
	total     *big.Int
	threshold *big.Int
	balance   *big.Int // balance of the caller, withdraw only
}

func (s *snapshot) Phase() Phase {
	switch {
	case s.status == StatusCompleted:
		return PhaseCompleted
	case s.now < s.deadline:
		return PhaseOpen
	case s.total.Cmp(s.threshold) >= 0:
		return PhaseExpiredAboveThreshold
	default:
		return PhaseExpiredBelowThreshold
	}
}

type operation uint8

const (
	opStake operation = iota
	opExecute
	opWithdraw
)

func (op operation) String() string {
	switch op {
	case opStake:
		return "stake"
	case opExecute:
		return "execute"
	case opWithdraw:
		return "withdraw"
	}
	return "unknown"
}

type guard struct {
	err      *reverts.ErrRevert
	violated func(s *snapshot) bool
}

var (
	deadlineReached    = guard{reverts.ErrDeadlineReached, func(s *snapshot) bool { return s.now >= s.deadline }}
	deadlineNotReached = guard{reverts.ErrDeadlineNotReached, func(s *snapshot) bool { return s.now < s.deadline }}
	alreadyCompleted   = guard{reverts.ErrAlreadyCompleted, func(s *snapshot) bool { return s.status == StatusCompleted }}
	thresholdNotMet    = guard{reverts.ErrThresholdNotMet, func(s *snapshot) bool { return s.total.Cmp(s.threshold) < 0 }}
	noBalance          = guard{reverts.ErrNoBalance, func(s *snapshot) bool { return s.balance == nil || s.balance.Sign() == 0 }}
)

// guards lists, per operation, the checks in the order they are evaluated.
// The first violated guard decides the failure.
var guards = map[operation][]guard{
	opStake:    {deadlineReached, alreadyCompleted},
	opExecute:  {deadlineReached, alreadyCompleted, thresholdNotMet},
	opWithdraw: {deadlineNotReached, alreadyCompleted, noBalance},
}

func (s *snapshot) check(op operation) error {
	for _, g := range guards[op] {
		if g.violated(s) {
			return g.err
		}
	}
	return nil
}
