// Package observability holds the Prometheus metrics for the application.
package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	globalCollector *Collector
	collectorMutex  sync.Mutex
)

// Collector holds all Prometheus metrics for the application.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Mutation operation metrics
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec

	// AI call metrics
	AIRequests *prometheus.CounterVec

	// Graph metrics
	NodesCreated prometheus.Counter
	EdgesCreated prometheus.Counter
}

// NewCollector creates the metrics collector with the given namespace. A
// singleton is kept so repeated construction in tests never double-registers.
func NewCollector(namespace string) *Collector {
	collectorMutex.Lock()
	defer collectorMutex.Unlock()

	if globalCollector != nil {
		return globalCollector
	}

	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	operations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total number of mutation operations by kind and status",
		},
		[]string{"kind", "status"},
	)

	operationDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Mutation operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	aiRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_requests_total",
			Help:      "Total number of generation service calls by outcome",
		},
		[]string{"outcome"},
	)

	nodesCreated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_created_total",
			Help:      "Total number of nodes added to the graph",
		},
	)

	edgesCreated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_created_total",
			Help:      "Total number of edges added to the graph",
		},
	)

	registry.MustRegister(
		httpRequests,
		httpDuration,
		operations,
		operationDuration,
		aiRequests,
		nodesCreated,
		edgesCreated,
	)

	globalCollector = &Collector{
		registry:          registry,
		HTTPRequests:      httpRequests,
		HTTPDuration:      httpDuration,
		Operations:        operations,
		OperationDuration: operationDuration,
		AIRequests:        aiRequests,
		NodesCreated:      nodesCreated,
		EdgesCreated:      edgesCreated,
	}

	return globalCollector
}

// ResetForTesting drops the singleton so a test can build a fresh collector.
func ResetForTesting() {
	collectorMutex.Lock()
	defer collectorMutex.Unlock()
	globalCollector = nil
}

// ObserveHTTPRequest records one served HTTP request.
func (c *Collector) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveOperation records one completed mutation operation.
func (c *Collector) ObserveOperation(kind, status string, elapsed time.Duration) {
	c.Operations.WithLabelValues(kind, status).Inc()
	c.OperationDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ObserveAIRequest records one generation service call.
func (c *Collector) ObserveAIRequest(outcome string) {
	c.AIRequests.WithLabelValues(outcome).Inc()
}

// ObserveGraphGrowth records nodes and edges added by an operation.
func (c *Collector) ObserveGraphGrowth(nodes, edges int) {
	if nodes > 0 {
		c.NodesCreated.Add(float64(nodes))
	}
	if edges > 0 {
		c.EdgesCreated.Add(float64(edges))
	}
}

// GetRegistry returns the Prometheus registry for this collector.
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}
