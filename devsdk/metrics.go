package devsdk

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RPCCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "devsdk",
			Subsystem: "chain",
			Name:      "rpc_calls_total",
			Help:      "Total number of JSON-RPC calls by method",
		},
		[]string{"method"},
	)

	RPCCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "devsdk",
			Subsystem: "chain",
			Name:      "rpc_call_duration_seconds",
			Help:      "Histogram of JSON-RPC call durations",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	ReceiptStoreHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "devsdk",
			Subsystem: "chain",
			Name:      "receipt_store_hits_total",
			Help:      "Receipt lookups answered from the local store",
		},
	)

	ReceiptStoreMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "devsdk",
			Subsystem: "chain",
			Name:      "receipt_store_misses_total",
			Help:      "Receipt lookups that fell through to the node",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RPCCalls,
		RPCCallDuration,
		ReceiptStoreHits,
		ReceiptStoreMisses,
	)
}
