package observability

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// PoolStatter is satisfied by *pgxpool.Pool
type PoolStatter interface {
	Stat() *pgxpool.Stat
}

// PoolCollector exposes pgxpool statistics to Prometheus
type PoolCollector struct {
	pool PoolStatter

	acquiredConns     *prometheus.Desc
	idleConns         *prometheus.Desc
	totalConns        *prometheus.Desc
	maxConns          *prometheus.Desc
	acquireCount      *prometheus.Desc
	emptyAcquireCount *prometheus.Desc
	acquireDuration   *prometheus.Desc
}

// NewPoolCollector creates a collector for pool
func NewPoolCollector(pool PoolStatter) *PoolCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(MetricPrefix, "db_pool", name), help, nil, nil)
	}

	return &PoolCollector{
		pool:              pool,
		acquiredConns:     desc("acquired_connections", "Connections currently checked out of the pool"),
		idleConns:         desc("idle_connections", "Idle connections in the pool"),
		totalConns:        desc("total_connections", "Total connections in the pool"),
		maxConns:          desc("max_connections", "Configured maximum pool size"),
		acquireCount:      desc("acquires_total", "Successful connection acquisitions"),
		emptyAcquireCount: desc("empty_acquires_total", "Acquisitions that had to wait for a connection"),
		acquireDuration:   desc("acquire_duration_seconds_total", "Time spent acquiring connections"),
	}
}

// Describe implements prometheus.Collector
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquiredConns
	ch <- c.idleConns
	ch <- c.totalConns
	ch <- c.maxConns
	ch <- c.acquireCount
	ch <- c.emptyAcquireCount
	ch <- c.acquireDuration
}

// Collect implements prometheus.Collector
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	stat := c.pool.Stat()

	ch <- prometheus.MustNewConstMetric(c.acquiredConns, prometheus.GaugeValue, float64(stat.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idleConns, prometheus.GaugeValue, float64(stat.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.totalConns, prometheus.GaugeValue, float64(stat.TotalConns()))
	ch <- prometheus.MustNewConstMetric(c.maxConns, prometheus.GaugeValue, float64(stat.MaxConns()))
	ch <- prometheus.MustNewConstMetric(c.acquireCount, prometheus.CounterValue, float64(stat.AcquireCount()))
	ch <- prometheus.MustNewConstMetric(c.emptyAcquireCount, prometheus.CounterValue, float64(stat.EmptyAcquireCount()))
	ch <- prometheus.MustNewConstMetric(c.acquireDuration, prometheus.CounterValue, stat.AcquireDuration().Seconds())
}
