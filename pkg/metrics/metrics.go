package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	StoreOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "questlog", Name: "store_operations_total", Help: "Quest log store operations by operation and result."},
		[]string{"op", "result"},
	)
	TemplatesSeeded = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "questlog", Name: "templates_seeded_total", Help: "Number of built-in templates written by the seeding step."},
	)
	BackupObjects = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "questlog", Name: "backup_objects_total", Help: "Quest logs uploaded to object storage by result."},
		[]string{"result"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "questlog", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "questlog", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(StoreOperations)
	reg.MustRegister(TemplatesSeeded)
	reg.MustRegister(BackupObjects)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
