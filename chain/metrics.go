// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"math/big"

	"github.com/vechain/stakepool/metrics"
)

var (
	metricCallCount          = metrics.LazyLoadCounterVec("chain_call_count", []string{"method", "outcome"})
	metricHeadNumber         = metrics.LazyLoadGauge("chain_head_number")
	metricPoolTotal          = metrics.LazyLoadGauge("staker_pool_total_gwei")
	metricBeneficiaryCompleted = metrics.LazyLoadGauge("beneficiary_completed")
	metricSubscribers        = metrics.LazyLoadGauge("chain_receipt_subscribers")
)

var gwei = big.NewInt(1e9)

func toGwei(wei *big.Int) int64 {
	return new(big.Int).Quo(wei, gwei).Int64()
}
