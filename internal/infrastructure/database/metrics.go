package database

import "github.com/prometheus/client_golang/prometheus"

// PoolMetrics export snapshot của MonitorPoolHealth thành prometheus gauges
type PoolMetrics struct {
	acquired   prometheus.Gauge
	idle       prometheus.Gauge
	total      prometheus.Gauge
	max        prometheus.Gauge
	avgAcquire prometheus.Gauge
}

func NewPoolMetrics(reg prometheus.Registerer) *PoolMetrics {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
	}
	m := &PoolMetrics{
		acquired:   gauge("db_pool_acquired_connections", "Connections currently in use"),
		idle:       gauge("db_pool_idle_connections", "Idle connections in the pool"),
		total:      gauge("db_pool_total_connections", "Total connections in the pool"),
		max:        gauge("db_pool_max_connections", "Configured maximum pool size"),
		avgAcquire: gauge("db_pool_avg_acquire_seconds", "Average time to acquire a connection"),
	}
	reg.MustRegister(m.acquired, m.idle, m.total, m.max, m.avgAcquire)
	return m
}

// Observe dùng làm PoolObserver
func (m *PoolMetrics) Observe(stats *PoolStats) {
	m.acquired.Set(float64(stats.AcquiredConns))
	m.idle.Set(float64(stats.IdleConns))
	m.total.Set(float64(stats.TotalConns))
	m.max.Set(float64(stats.MaxConns))
	m.avgAcquire.Set(stats.AvgAcquireDuration().Seconds())
}
