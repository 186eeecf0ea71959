// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// Failure categories of the staker. Callers match them with errors.Is.
var (
	ErrDeadlineReached    = New("Deadline already reached.")
	ErrDeadlineNotReached = New("Deadline is not reached yet")
	ErrAlreadyCompleted   = New("staking process already completed")
	ErrThresholdNotMet    = New("Threshold not met")
	ErrNoBalance          = New("You do not have a balance.")
)

type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}
