package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/mezonai/tokencore/logx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

type tokenPromMetrics struct {
	upUnixSeconds     prometheus.Gauge
	operationCount    *prometheus.CounterVec
	rejectedCount     *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	paused            prometheus.Gauge
	panicCount        prometheus.Counter
}

func newTokenPromMetrics() *tokenPromMetrics {
	return &tokenPromMetrics{
		upUnixSeconds: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tokencore_up_timestamp_unix_seconds",
				Help: "Unix timestamp of the process start",
			},
		),
		operationCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tokencore_operation_count",
				Help: "The total number of ledger operations by action and result",
			},
			[]string{"action", "result"},
		),
		rejectedCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tokencore_rejected_operation_count",
				Help: "The total number of rejected operations by error code",
			},
			[]string{"action", "code"},
		),
		operationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "tokencore_operation_duration_seconds",
				Help: "Time spent executing an operation, including commit",
			},
			[]string{"action"},
		),
		paused: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tokencore_paused",
				Help: "1 while token operations are paused",
			},
		),
		panicCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tokencore_panic_count",
				Help: "The total number of recovered panics",
			},
		),
	}
}

var (
	metricsOnce  sync.Once
	tokenMetrics *tokenPromMetrics
)

// InitMetrics registers the collectors. Safe to call more than once.
func InitMetrics() {
	metricsOnce.Do(func() {
		tokenMetrics = newTokenPromMetrics()
		tokenMetrics.upUnixSeconds.SetToCurrentTime()
	})
}

func metrics() *tokenPromMetrics {
	InitMetrics()
	return tokenMetrics
}

func RegisterMetrics(mux *http.ServeMux) {
	logx.Info("MONITORING", "Registering prometheus metrics")
	mux.Handle("/metrics", promhttp.Handler())
}

// RecordOperation counts an executed operation. code is the error code of
// a rejected operation and ignored on success.
func RecordOperation(action string, code string, success bool, duration time.Duration) {
	m := metrics()
	result := ResultSuccess
	if !success {
		result = ResultFailure
		m.rejectedCount.With(prometheus.Labels{"action": action, "code": code}).Inc()
	}
	m.operationCount.With(prometheus.Labels{"action": action, "result": result}).Inc()
	m.operationDuration.With(prometheus.Labels{"action": action}).Observe(duration.Seconds())
}

func SetPaused(paused bool) {
	if paused {
		metrics().paused.Set(1)
		return
	}
	metrics().paused.Set(0)
}

func IncreasePanicCount() {
	metrics().panicCount.Inc()
}
