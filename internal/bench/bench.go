// Package bench implements the Benchmark Harness of spec.md §4.11: it runs
// the export pipeline once per format against a shared row budget,
// measuring wall-clock duration, output size, and peak resident memory so
// operators can see the 256 MiB ceiling actually being held.
package bench

import (
	"context"
	"io"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/23A91A0565/polystreamx/internal/model"
	"github.com/23A91A0565/polystreamx/internal/pipeline"
	"github.com/23A91A0565/polystreamx/internal/registry"
)

// memorySampleInterval is how often the sampling goroutine reads
// runtime.MemStats while a format's run is in flight.
const memorySampleInterval = 50 * time.Millisecond

// settleDelay is how long Run pauses after the GC hint before sampling a
// format's baseline, so the runtime's freed-memory bookkeeping (madvise,
// span decommit) has a moment to settle per spec.md §4.11.
const settleDelay = 20 * time.Millisecond

// AllColumns is the column set every benchmark run requests: every source
// attribute, emitted under its own name, matching spec.md §4.11's "uses
// the full column set, uncompressed".
var AllColumns = []model.ColumnMapping{
	{Source: model.SourceID, Target: "id"},
	{Source: model.SourceCreatedAt, Target: "created_at"},
	{Source: model.SourceName, Target: "name"},
	{Source: model.SourceValue, Target: "value"},
	{Source: model.SourceMetadata, Target: "metadata"},
}

// FormatResult is one format's benchmark outcome. It carries no json tags
// of its own — internal/httpapi maps it onto the wire response shape.
type FormatResult struct {
	Format       model.Format
	Duration     time.Duration
	OutputBytes  int64
	PeakAllocMiB float64
	Error        string
}

// CountRecords runs the `COUNT(*) FROM records` spec.md §4.11 names as the
// benchmark response's datasetRowCount, independent of any per-format
// rowLimit (the count reflects the whole table, not the capped scan).
func CountRecords(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	var count int64
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM records").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Run times one pass per spec.md §4.11's format list — csv, json, xml,
// parquet — against rowLimit rows (0 means unbounded), discarding output
// bytes while still counting them. Formats run sequentially, not
// concurrently: spec.md §4.11 measures a per-format peak heap, and
// runtime.MemStats.Alloc is process-global, so overlapping runs would
// report each other's allocations as their own. A BenchmarkFormatFailed in
// one format never aborts the rest, so Run itself never returns an
// error — per-format failures surface in FormatResult.Error.
func Run(ctx context.Context, pool *pgxpool.Pool, rowLimit int64) []FormatResult {
	formats := []model.Format{model.FormatCSV, model.FormatJSON, model.FormatXML, model.FormatParquet}
	results := make([]FormatResult, len(formats))

	reg := registry.New()
	driver := pipeline.New(pool, reg)

	for i, format := range formats {
		results[i] = runOne(ctx, driver, reg, format, rowLimit)
	}

	return results
}

func runOne(ctx context.Context, driver *pipeline.Driver, reg *registry.Registry, format model.Format, rowLimit int64) FormatResult {
	req := model.ExportRequest{Format: format, Columns: AllColumns, Compression: model.CompressionNone}
	job := reg.Create(req)

	runtime.GC()
	time.Sleep(settleDelay)

	var counted countingWriter
	stopSampling, peak := sampleMemory()

	start := time.Now()
	err := driver.Run(ctx, job, rowLimit, &counted)
	elapsed := time.Since(start)
	stopSampling()

	result := FormatResult{
		Format:       format,
		Duration:     elapsed,
		OutputBytes:  counted.n,
		PeakAllocMiB: bytesToMiB(peak()),
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

// sampleMemory starts a background goroutine polling runtime.MemStats.Alloc
// every memorySampleInterval and returns a stop function plus an accessor
// for the maximum value observed. Sampling rather than a single before/after
// read catches the mid-run peak a GC can erase by the time the run ends.
func sampleMemory() (stop func(), peak func() uint64) {
	var maxAlloc uint64
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		ticker := time.NewTicker(memorySampleInterval)
		defer ticker.Stop()
		var stats runtime.MemStats
		for {
			runtime.ReadMemStats(&stats)
			if stats.Alloc > atomic.LoadUint64(&maxAlloc) {
				atomic.StoreUint64(&maxAlloc, stats.Alloc)
			}
			select {
			case <-done:
				return
			case <-ticker.C:
			}
		}
	}()

	return func() {
			close(done)
			<-stopped
		}, func() uint64 {
			return atomic.LoadUint64(&maxAlloc)
		}
}

func bytesToMiB(b uint64) float64 {
	return float64(b) / (1024 * 1024)
}

// countingWriter discards every byte written while counting them, so a
// benchmark run never materializes its output but still reports its size.
type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := io.Discard.Write(p)
	c.n += int64(n)
	return n, err
}
