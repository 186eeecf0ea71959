// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package clock provides the time source calls are executed at.
package clock

import (
	"math"
	"sync"
	"time"
)

// Clock returns the current unix time in seconds.
type Clock interface {
	Now() uint64
}

// System is the wall clock.
type System struct{}

func (System) Now() uint64 {
	return uint64(time.Now().Unix())
}

// Manual is a clock that only moves when told to.
type Manual struct {
	mu  sync.Mutex
	now uint64
}

// NewManual creates a manual clock starting at now.
func NewManual(now uint64) *Manual {
	return &Manual{now: now}
}

func (m *Manual) Now() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward and returns the new time.
// The time saturates at math.MaxUint64.
func (m *Manual) Advance(seconds uint64) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if seconds > math.MaxUint64-m.now {
		m.now = math.MaxUint64
	} else {
		m.now += seconds
	}
	return m.now
}

// Set moves the clock to t. Moving backwards is ignored.
func (m *Manual) Set(t uint64) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t > m.now {
		m.now = t
	}
	return m.now
}
