package telemetry

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/process"
	"go.opentelemetry.io/otel"
)

var (
	meter             = otel.Meter("edbo-scraper/perf_stats")
	cpuGauge, _       = meter.Float64Gauge("process_cpu_percent")
	rssGauge, _       = meter.Int64Gauge("process_rss_mb")
	heapGauge, _      = meter.Int64Gauge("heap_alloc_mb")
	goroutineGauge, _ = meter.Int64Gauge("goroutine_count")
)

// InstrumentPerfStats records process gauges every interval until ctx is done.
// A long scrape is mostly idle waiting on the request limiter, these make a
// stuck run stand out from a slow one.
func InstrumentPerfStats(ctx context.Context, interval time.Duration) {
	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		slog.Warn("perf stats disabled", "err", err)
		return
	}

	go func() {
		var memStats runtime.MemStats
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cpu, err := proc.PercentWithContext(ctx, 0)
				if err == nil {
					cpuGauge.Record(ctx, cpu)
				} else {
					slog.Debug("failed to read cpu usage", "err", err)
				}
				mem, err := proc.MemoryInfoWithContext(ctx)
				if err == nil {
					rssGauge.Record(ctx, int64(mem.RSS/1_000_000))
				} else {
					slog.Debug("failed to read process memory", "err", err)
				}

				runtime.ReadMemStats(&memStats)
				heapGauge.Record(ctx, int64(memStats.HeapAlloc/1_000_000))
				goroutineGauge.Record(ctx, int64(runtime.NumGoroutine()))
			case <-ctx.Done():
				return
			}
		}
	}()
}
