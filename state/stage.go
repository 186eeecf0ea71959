// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"sort"

	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/thor"
)

// Stage abstracts changes on the account and storage buckets.
type Stage struct {
	stater  *Stater
	changes map[string][]byte
}

// Len returns the count of changed entries.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Hash returns the digest of all changes, in key order.
func (s *Stage) Hash() thor.Bytes32 {
	keys := make([]string, 0, len(s.changes))
	for k := range s.changes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	hasher := thor.NewBlake2b()
	for _, k := range keys {
		hasher.Write([]byte(k))
		hasher.Write(s.changes[k])
	}
	var h thor.Bytes32
	hasher.Sum(h[:0])
	return h
}

// Commit writes all changes into the store atomically.
// Each extra is invoked with the same batch, so that callers may persist
// their own records along with the state.
func (s *Stage) Commit(extras ...func(kv.Putter) error) error {
	if err := s.stater.commit(s.changes, extras); err != nil {
		return &Error{err}
	}
	return nil
}
