// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T) map[string]*dto.MetricFamily {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	out := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		out[mf.GetName()] = mf
	}
	return out
}

func TestNoopMetrics(t *testing.T) {
	metrics = defaultNoopMetrics()

	Counter("noop_count").Add(1)
	CounterVec("noop_vec", []string{"method"}).AddWithLabel(1, map[string]string{"method": "stake"})
	Gauge("noop_gauge").Set(3)
	HistogramVec("noop_hist", []string{"path"}, BucketHTTPReqs).ObserveWithLabels(5, map[string]string{"path": "x"})

	rec := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLazyLoading(t *testing.T) {
	metrics = defaultNoopMetrics()

	lazyGauge := LazyLoadGauge("lazy_gauge")
	lazyCounter := LazyLoadCounter("lazy_counter")
	lazyCounterVec := LazyLoadCounterVec("lazy_counter_vec", []string{"outcome"})
	lazyHistogramVec := LazyLoadHistogramVec("lazy_hist_vec", []string{"path"}, nil)

	// after initialization, newly created metrics become of the prometheus type
	InitializePrometheusMetrics()

	require.IsType(t, &promGaugeMeter{}, lazyGauge())
	require.IsType(t, &promCountMeter{}, lazyCounter())
	require.IsType(t, &promCountVecMeter{}, lazyCounterVec())
	require.IsType(t, &promHistogramVecMeter{}, lazyHistogramVec())
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	calls := CounterVec("calls_count", []string{"method", "outcome"})
	for range 3 {
		calls.AddWithLabel(1, map[string]string{"method": "stake", "outcome": "success"})
	}
	calls.AddWithLabel(1, map[string]string{"method": "withdraw", "outcome": "reverted"})

	// same meter is returned for the same name
	CounterVec("calls_count", []string{"method", "outcome"}).
		AddWithLabel(1, map[string]string{"method": "stake", "outcome": "success"})

	Gauge("pool_total").Set(7)
	Gauge("pool_total").Add(-2)
	Counter("blocks_count").Add(2)

	families := gather(t)

	var success, reverted float64
	for _, m := range families["stakepool_calls_count"].Metric {
		for _, l := range m.Label {
			if l.GetName() == "outcome" && l.GetValue() == "success" {
				success += m.GetCounter().GetValue()
			}
			if l.GetName() == "outcome" && l.GetValue() == "reverted" {
				reverted += m.GetCounter().GetValue()
			}
		}
	}
	require.Equal(t, float64(4), success)
	require.Equal(t, float64(1), reverted)
	require.Equal(t, float64(5), families["stakepool_pool_total"].Metric[0].GetGauge().GetValue())
	require.Equal(t, float64(2), families["stakepool_blocks_count"].Metric[0].GetCounter().GetValue())
}
