// Package metrics reduces receive records to per-host network quality figures.
package metrics

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/bilal/mgenstat/internal/mgen"
	"github.com/influxdata/tdigest"
)

// Display precision, in decimal places.
const (
	ThroughputPlaces = 2
	JitterPlaces     = 3
	LossPlaces       = 1
	LatencyPlaces    = 3
	DurationPlaces   = 1
)

// digestCompression keeps roughly 100 centroids per host.
const digestCompression = 100

// Raw holds the unrounded headline figures. Aggregation works on these.
type Raw struct {
	ThroughputMbitsPerSec float64
	JitterMs              float64
	LossRatePercent       float64
	AvgLatencyMs          float64
}

// HostMetrics is the result for one host. The top-level figures are rounded to
// the display precision above; Raw keeps them unrounded.
type HostMetrics struct {
	ThroughputMbitsPerSec float64
	JitterMs              float64
	LossRatePercent       float64
	AvgLatencyMs          float64
	TransferBytes         uint64
	DurationSec           float64
	LostTotal             string

	Received uint64
	Expected uint64
	Lost     int64

	Raw Raw

	// Set only when Options.Percentiles is true.
	LatencyP50Ms   float64
	LatencyP95Ms   float64
	LatencyP99Ms   float64
	HasPercentiles bool
}

// Empty reports whether m was computed from zero records.
func (m HostMetrics) Empty() bool {
	return m.Received == 0
}

type Options struct {
	Percentiles bool
}

// NoData is the result for an input without records.
func NoData() HostMetrics {
	return HostMetrics{
		LossRatePercent: 100,
		LostTotal:       "0/0",
		Raw:             Raw{LossRatePercent: 100},
	}
}

// Analyze computes HostMetrics for records. An empty slice yields NoData.
func Analyze(records []mgen.ReceiveRecord, opts Options) HostMetrics {
	if len(records) == 0 {
		return NoData()
	}

	first := records[0]
	minSeq, maxSeq := first.Sequence, first.Sequence
	start, end := first.ReceivedAt, first.ReceivedAt
	var totalBytes uint64
	latencies := make([]float64, 0, len(records))

	for _, r := range records {
		if r.Sequence < minSeq {
			minSeq = r.Sequence
		}
		if r.Sequence > maxSeq {
			maxSeq = r.Sequence
		}
		if r.ReceivedAt.Before(start) {
			start = r.ReceivedAt
		}
		if r.ReceivedAt.After(end) {
			end = r.ReceivedAt
		}
		totalBytes += r.SizeBytes
		latencies = append(latencies, float64(r.Latency())/float64(time.Millisecond))
	}

	// Tail loss is invisible here: nothing past maxSeq was observed.
	// Sequences are at most math.MaxInt64, so expected fits in uint64 and
	// lost in int64.
	expected := maxSeq - minSeq + 1
	received := uint64(len(records))
	var lost int64
	if received <= expected {
		lost = int64(expected - received)
	} else {
		// duplicates
		lost = -int64(received - expected)
	}
	loss := float64(lost) / float64(expected) * 100

	duration := end.Sub(start).Seconds()
	throughput := 0.0
	if duration > 0 {
		throughput = float64(totalBytes) * 8 / 1_000_000 / duration
	}

	raw := Raw{
		ThroughputMbitsPerSec: throughput,
		JitterMs:              stdDev(latencies),
		LossRatePercent:       loss,
		AvgLatencyMs:          mean(latencies),
	}

	m := HostMetrics{
		ThroughputMbitsPerSec: Round(raw.ThroughputMbitsPerSec, ThroughputPlaces),
		JitterMs:              Round(raw.JitterMs, JitterPlaces),
		LossRatePercent:       Round(raw.LossRatePercent, LossPlaces),
		AvgLatencyMs:          Round(raw.AvgLatencyMs, LatencyPlaces),
		TransferBytes:         totalBytes,
		DurationSec:           Round(duration, DurationPlaces),
		LostTotal:             fmt.Sprintf("%d/%d (%.1f%%)", lost, expected, loss),
		Received:              received,
		Expected:              expected,
		Lost:                  lost,
		Raw:                   raw,
	}

	if opts.Percentiles {
		td := tdigest.NewWithCompression(digestCompression)
		for _, l := range latencies {
			td.Add(l, 1)
		}
		m.LatencyP50Ms = Round(td.Quantile(0.50), LatencyPlaces)
		m.LatencyP95Ms = Round(td.Quantile(0.95), LatencyPlaces)
		m.LatencyP99Ms = Round(td.Quantile(0.99), LatencyPlaces)
		m.HasPercentiles = true
	}

	return m
}

// Round rounds x to places decimals. The decimal conversion is exact, so
// only true binary ties round to even.
func Round(x float64, places int) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}
	return v
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdDev is the sample standard deviation; 0 below two samples.
func stdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mu := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - mu
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
