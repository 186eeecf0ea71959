// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Snapshot is a point-in-time view of cache lookups.
type Snapshot struct {
	Hit, Miss int64
	// Changed reports whether the hit rate moved by at least 0.1% since the previous snapshot.
	Changed bool
}

// HitRate returns hits over lookups, zero before any lookup.
func (s Snapshot) HitRate() float64 {
	if lookups := s.Hit + s.Miss; lookups > 0 {
		return float64(s.Hit) / float64(lookups)
	}
	return 0
}

// Stats counts cache hits and misses. Safe for concurrent use.
type Stats struct {
	hit, miss atomic.Int64
	permille  atomic.Int32
}

func (cs *Stats) Hit() int64  { return cs.hit.Add(1) }
func (cs *Stats) Miss() int64 { return cs.miss.Add(1) }

// Snapshot reads the counters and remembers the hit rate for the next call.
func (cs *Stats) Snapshot() Snapshot {
	snap := Snapshot{Hit: cs.hit.Load(), Miss: cs.miss.Load()}
	permille := int32(snap.HitRate() * 1000)
	snap.Changed = cs.permille.Swap(permille) != permille
	return snap
}
