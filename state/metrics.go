// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/vechain/stakepool/metrics"

var (
	metricCacheLookups = metrics.LazyLoadCounterVec("state_cache_lookup_count", []string{"result"})
	metricCommitted    = metrics.LazyLoadCounter("state_committed_entries_count")
)
