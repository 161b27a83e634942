package observability

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"souq/internal/logging"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "souq_http_requests_total",
			Help: "Total de requisições HTTP por rota e status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "souq_http_request_duration_seconds",
			Help:    "Latência das requisições HTTP",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	OrdersPlaced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "souq_orders_placed_total",
			Help: "Total de pedidos criados",
		},
	)

	OrderTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "souq_order_status_changes_total",
			Help: "Mudanças de status de pedido",
		},
		[]string{"status"},
	)

	StorageOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "souq_storage_operations_total",
			Help: "Operações no store de documentos",
		},
		[]string{"backend", "op", "result"},
	)
)

// Start expõe /metrics numa porta separada da API.
func Start(port string, logger *zap.Logger) *http.Server {
	logger = logging.OrNop(logger)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: ":" + port, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", zap.Error(err))
		}
	}()
	return srv
}
