package lib

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

/* This file implements dev-ops telemetry for the node in the form of prometheus metrics */

const metricsPattern = "/metrics"

// Metrics represents a server that exposes Prometheus metrics
type Metrics struct {
	server   *http.Server         // the http prometheus server
	config   MetricsConfig        // the configuration
	registry *prometheus.Registry // private registry so multiple instances can coexist
	log      LoggerI              // the logger

	NodeMetrics // general telemetry about the node
	DexMetrics  // pool engine telemetry
}

// NodeMetrics represents general telemetry for the node's health
type NodeMetrics struct {
	NodeStatus prometheus.Gauge // is the node alive?
}

// DexMetrics represents the telemetry of the pool engine
type DexMetrics struct {
	Operations        *prometheus.CounterVec   // how many operations by type and result?
	OperationDuration *prometheus.HistogramVec // how long does an operation hold the pool lock?
	PoolReserve       *prometheus.GaugeVec     // what are the reserves of each pool side?
	PoolLiquidity     *prometheus.GaugeVec     // how many liquidity units exist per pool?
}

// NewMetricsServer() creates a new telemetry server
func NewMetricsServer(config MetricsConfig, log LoggerI) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	mux := http.NewServeMux()
	mux.Handle(metricsPattern, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return &Metrics{
		server:   &http.Server{Addr: config.PrometheusAddress, Handler: mux},
		config:   config,
		registry: reg,
		log:      log,
		NodeMetrics: NodeMetrics{
			NodeStatus: factory.NewGauge(prometheus.GaugeOpts{
				Name: "dex_node_status",
				Help: "The node is alive and serving requests",
			}),
		},
		DexMetrics: DexMetrics{
			Operations: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "dex_operations_total",
				Help: "Pool operations by type and result",
			}, []string{"operation", "result"}),
			OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
				Name: "dex_operation_duration_seconds",
				Help: "Time spent applying a pool operation",
			}, []string{"operation"}),
			PoolReserve: factory.NewGaugeVec(prometheus.GaugeOpts{
				Name: "dex_pool_reserve",
				Help: "Reserve held by a pool for one of its assets",
			}, []string{"pool", "asset"}),
			PoolLiquidity: factory.NewGaugeVec(prometheus.GaugeOpts{
				Name: "dex_pool_total_liquidity",
				Help: "Liquidity units outstanding for a pool",
			}, []string{"pool"}),
		},
	}
}

// Registry() exposes the underlying registry, mostly for tests
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Start() starts the telemetry server
func (m *Metrics) Start() {
	if m == nil {
		return
	}
	m.NodeStatus.Set(1)
	if m.config.Enabled {
		go func() {
			m.log.Infof("Starting metrics server on %s", m.config.PrometheusAddress)
			if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				m.log.Errorf("Metrics server failed with err: %s", err.Error())
			}
		}()
	}
}

// Stop() gracefully stops the telemetry server
func (m *Metrics) Stop() {
	if m == nil {
		return
	}
	m.NodeStatus.Set(0)
	if m.config.Enabled {
		if err := m.server.Shutdown(context.Background()); err != nil {
			m.log.Error(err.Error())
		}
	}
}

// ObserveOperation() records the outcome and duration of a pool operation
func (m *Metrics) ObserveOperation(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Operations.WithLabelValues(operation, result).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdatePool() sets the reserve and liquidity gauges of a pool
func (m *Metrics) UpdatePool(pool, assetLow, assetHigh string, reserveLow, reserveHigh, totalLiquidity uint64) {
	if m == nil {
		return
	}
	m.PoolReserve.WithLabelValues(pool, assetLow).Set(float64(reserveLow))
	m.PoolReserve.WithLabelValues(pool, assetHigh).Set(float64(reserveHigh))
	m.PoolLiquidity.WithLabelValues(pool).Set(float64(totalLiquidity))
}
