package decision

import (
	"fmt"

	"github.com/bilal/mgenstat/internal/config"
	"github.com/bilal/mgenstat/internal/metrics"
)

type HostState string

const (
	HostOK       HostState = "OK"
	HostDegraded HostState = "DEGRADED"
	HostNoData   HostState = "NO_DATA"
)

// Verdict is the outcome of checking one host against the limits.
type Verdict struct {
	State    HostState
	Breaches []string
}

type ThresholdConfig struct {
	MaxLatencyMs       float64
	MaxLossPercent     float64
	MaxJitterMs        float64
	MinThroughputMbits float64
}

// FromConfig copies the configured limits.
func FromConfig(c config.ThresholdConfig) ThresholdConfig {
	return ThresholdConfig{
		MaxLatencyMs:       c.MaxLatencyMs,
		MaxLossPercent:     c.MaxLossPercent,
		MaxJitterMs:        c.MaxJitterMs,
		MinThroughputMbits: c.MinThroughputMbits,
	}
}

type DecisionEngine struct {
	limits ThresholdConfig
}

func NewEngine(cfgThresholds ThresholdConfig) *DecisionEngine {
	return &DecisionEngine{limits: cfgThresholds}
}

// Enabled reports whether any limit is set.
func (e *DecisionEngine) Enabled() bool {
	return e.limits != (ThresholdConfig{})
}

// Evaluate checks m against every non-zero limit.
func (e *DecisionEngine) Evaluate(m metrics.HostMetrics) Verdict {
	if m.Empty() {
		return Verdict{State: HostNoData}
	}

	var breaches []string
	l := e.limits

	if l.MaxLatencyMs > 0 && m.AvgLatencyMs > l.MaxLatencyMs {
		breaches = append(breaches, fmt.Sprintf("latency %.3f ms > %.3f ms", m.AvgLatencyMs, l.MaxLatencyMs))
	}
	if l.MaxLossPercent > 0 && m.LossRatePercent > l.MaxLossPercent {
		breaches = append(breaches, fmt.Sprintf("loss %.1f%% > %.1f%%", m.LossRatePercent, l.MaxLossPercent))
	}
	if l.MaxJitterMs > 0 && m.JitterMs > l.MaxJitterMs {
		breaches = append(breaches, fmt.Sprintf("jitter %.3f ms > %.3f ms", m.JitterMs, l.MaxJitterMs))
	}
	if l.MinThroughputMbits > 0 && m.ThroughputMbitsPerSec < l.MinThroughputMbits {
		breaches = append(breaches, fmt.Sprintf("throughput %.2f Mbits/sec < %.2f Mbits/sec", m.ThroughputMbitsPerSec, l.MinThroughputMbits))
	}

	if len(breaches) > 0 {
		return Verdict{State: HostDegraded, Breaches: breaches}
	}
	return Verdict{State: HostOK}
}
