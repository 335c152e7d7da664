package report

import (
	"encoding/csv"
	"io"

	"github.com/bilal/mgenstat/internal/metrics"
)

// CSVHeader is the fixed column set of the per-host report.
var CSVHeader = []string{"host", "throughput_mbits_sec", "jitter_ms", "loss_rate_percent", "avg_latency_ms"}

// CSVWriter writes one row per host. Every write is flushed so rows already
// written survive a later failure.
type CSVWriter struct {
	w *csv.Writer
}

func NewCSVWriter(out io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(out)}
}

func (c *CSVWriter) WriteHeader() error {
	return c.write(CSVHeader)
}

func (c *CSVWriter) WriteRow(host string, m metrics.HostMetrics) error {
	return c.write([]string{
		host,
		formatFloat(m.ThroughputMbitsPerSec, metrics.ThroughputPlaces),
		formatFloat(m.JitterMs, metrics.JitterPlaces),
		formatFloat(m.LossRatePercent, metrics.LossPlaces),
		formatFloat(m.AvgLatencyMs, metrics.LatencyPlaces),
	})
}

func (c *CSVWriter) write(record []string) error {
	if err := c.w.Write(record); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}
