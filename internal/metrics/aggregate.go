package metrics

// Stat is the mean, minimum and maximum of one metric across hosts.
type Stat struct {
	Average float64
	Min     float64
	Max     float64
}

// Summary aggregates the headline metrics of several hosts.
type Summary struct {
	Hosts      int
	Throughput Stat
	Jitter     Stat
	LossRate   Stat
	Latency    Stat
}

// Aggregate summarizes hosts from their unrounded figures, rounding each
// result once. It returns false when hosts is empty.
func Aggregate(hosts []HostMetrics) (Summary, bool) {
	if len(hosts) == 0 {
		return Summary{}, false
	}

	pick := func(f func(HostMetrics) float64, places int) Stat {
		first := f(hosts[0])
		s := Stat{Min: first, Max: first}
		var sum float64
		for _, h := range hosts {
			v := f(h)
			sum += v
			if v < s.Min {
				s.Min = v
			}
			if v > s.Max {
				s.Max = v
			}
		}
		s.Average = Round(sum/float64(len(hosts)), places)
		s.Min = Round(s.Min, places)
		s.Max = Round(s.Max, places)
		return s
	}

	return Summary{
		Hosts:      len(hosts),
		Throughput: pick(func(h HostMetrics) float64 { return h.Raw.ThroughputMbitsPerSec }, ThroughputPlaces),
		Jitter:     pick(func(h HostMetrics) float64 { return h.Raw.JitterMs }, JitterPlaces),
		LossRate:   pick(func(h HostMetrics) float64 { return h.Raw.LossRatePercent }, LossPlaces),
		Latency:    pick(func(h HostMetrics) float64 { return h.Raw.AvgLatencyMs }, LatencyPlaces),
	}, true
}
