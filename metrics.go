package dyngeo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordPut is called after each put-point operation.
	// duration is the total time taken, err is nil if successful.
	RecordPut(duration time.Duration, err error)

	// RecordBatchWrite is called after each batch write operation.
	// count is the number of points attempted.
	RecordBatchWrite(count int, duration time.Duration, err error)

	// RecordQuery is called after each radius/rectangle query.
	// plans is the number of parallel store queries issued, filtered the
	// number of candidate rows discarded by the geometric filter.
	RecordQuery(plans, filtered int, duration time.Duration, err error)

	// RecordGet is called after each get-point operation.
	RecordGet(duration time.Duration, err error)

	// RecordUpdate is called after each update-point operation.
	RecordUpdate(duration time.Duration, err error)

	// RecordDelete is called after each delete-point operation.
	RecordDelete(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordPut(time.Duration, error)             {}
func (NoopMetricsCollector) RecordBatchWrite(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordQuery(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordGet(time.Duration, error)             {}
func (NoopMetricsCollector) RecordUpdate(time.Duration, error)          {}
func (NoopMetricsCollector) RecordDelete(time.Duration, error)          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	PutCount        atomic.Int64
	PutErrors       atomic.Int64
	PutTotalNanos   atomic.Int64
	BatchWriteCount atomic.Int64
	BatchWriteItems atomic.Int64
	QueryCount      atomic.Int64
	QueryErrors     atomic.Int64
	QueryPlans      atomic.Int64
	QueryFiltered   atomic.Int64
	QueryTotalNanos atomic.Int64
	GetCount        atomic.Int64
	GetErrors       atomic.Int64
	UpdateCount     atomic.Int64
	UpdateErrors    atomic.Int64
	DeleteCount     atomic.Int64
	DeleteErrors    atomic.Int64
}

// RecordPut implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPut(duration time.Duration, err error) {
	b.PutCount.Add(1)
	b.PutTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.PutErrors.Add(1)
	}
}

// RecordBatchWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatchWrite(count int, duration time.Duration, err error) {
	b.BatchWriteCount.Add(1)
	b.BatchWriteItems.Add(int64(count))
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(plans, filtered int, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryPlans.Add(int64(plans))
	b.QueryFiltered.Add(int64(filtered))
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
	}
}

// RecordGet implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGet(duration time.Duration, err error) {
	b.GetCount.Add(1)
	if err != nil {
		b.GetErrors.Add(1)
	}
}

// RecordUpdate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpdate(duration time.Duration, err error) {
	b.UpdateCount.Add(1)
	if err != nil {
		b.UpdateErrors.Add(1)
	}
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(duration time.Duration, err error) {
	b.DeleteCount.Add(1)
	if err != nil {
		b.DeleteErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		PutCount:        b.PutCount.Load(),
		PutErrors:       b.PutErrors.Load(),
		PutAvgNanos:     avgNanos(b.PutTotalNanos.Load(), b.PutCount.Load()),
		BatchWriteCount: b.BatchWriteCount.Load(),
		BatchWriteItems: b.BatchWriteItems.Load(),
		QueryCount:      b.QueryCount.Load(),
		QueryErrors:     b.QueryErrors.Load(),
		QueryPlans:      b.QueryPlans.Load(),
		QueryFiltered:   b.QueryFiltered.Load(),
		QueryAvgNanos:   avgNanos(b.QueryTotalNanos.Load(), b.QueryCount.Load()),
		GetCount:        b.GetCount.Load(),
		GetErrors:       b.GetErrors.Load(),
		UpdateCount:     b.UpdateCount.Load(),
		UpdateErrors:    b.UpdateErrors.Load(),
		DeleteCount:     b.DeleteCount.Load(),
		DeleteErrors:    b.DeleteErrors.Load(),
	}
}

func avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	PutCount        int64
	PutErrors       int64
	PutAvgNanos     int64
	BatchWriteCount int64
	BatchWriteItems int64
	QueryCount      int64
	QueryErrors     int64
	QueryPlans      int64
	QueryFiltered   int64
	QueryAvgNanos   int64
	GetCount        int64
	GetErrors       int64
	UpdateCount     int64
	UpdateErrors    int64
	DeleteCount     int64
	DeleteErrors    int64
}
