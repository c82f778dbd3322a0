package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	// WorkItemsEnqueuedTotal counts operations admitted to the
	// coordinator's queue, by kind.
	WorkItemsEnqueuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "missiontransfer_work_items_enqueued_total",
			Help: "Total number of mission-transfer work items enqueued, by operation kind.",
		},
		[]string{"kind"},
	)

	// WorkItemsCompletedTotal counts terminal outcomes, by kind and
	// result.
	WorkItemsCompletedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "missiontransfer_work_items_completed_total",
			Help: "Total number of mission-transfer work items completed, by operation kind and result.",
		},
		[]string{"kind", "result"},
	)

	// RetriesTotal counts every retry consumed against an operation's
	// retry budget, by kind.
	RetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "missiontransfer_retries_total",
			Help: "Total number of retries consumed across mission-transfer operations, by operation kind.",
		},
		[]string{"kind"},
	)

	// OperationDuration measures wall-clock time from start to done.
	OperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "missiontransfer_operation_duration_seconds",
			Help:    "Duration of a mission-transfer operation from start to done.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// QueueDepth reports the coordinator's current queue length.
	QueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "missiontransfer_queue_depth",
			Help: "Current number of work items queued on the coordinator, including the running one.",
		},
	)
)

func init() {
	metrics.Registry.MustRegister(WorkItemsEnqueuedTotal)
	metrics.Registry.MustRegister(WorkItemsCompletedTotal)
	metrics.Registry.MustRegister(RetriesTotal)
	metrics.Registry.MustRegister(OperationDuration)
	metrics.Registry.MustRegister(QueueDepth)
}
