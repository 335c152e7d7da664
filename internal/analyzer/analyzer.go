package analyzer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bilal/mgenstat/internal/config"
	"github.com/bilal/mgenstat/internal/decision"
	"github.com/bilal/mgenstat/internal/metrics"
	"github.com/bilal/mgenstat/internal/mgen"
	"github.com/bilal/mgenstat/internal/report"
	"github.com/rs/zerolog/log"
)

// HostResult is the outcome for one input log.
type HostResult struct {
	Host    string
	Metrics metrics.HostMetrics
	Verdict decision.Verdict
}

type Analyzer struct {
	cfg    *config.Config
	engine *decision.DecisionEngine
	out    io.Writer
}

// New returns an Analyzer printing its tables to out.
func New(cfg *config.Config, out io.Writer) *Analyzer {
	return &Analyzer{
		cfg:    cfg,
		engine: decision.NewEngine(decision.FromConfig(cfg.Thresholds)),
		out:    out,
	}
}

// HostID is the base name of path up to the first delimiter.
func HostID(path, delimiter string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, delimiter); i >= 0 && delimiter != "" {
		return base[:i]
	}
	return base
}

// Run analyzes logPaths in order, writing one CSV row per file to outputPath
// and a table per host to the console, then the cross-host summary. The first
// unreadable input aborts the run; rows already written are kept.
func (a *Analyzer) Run(logPaths []string, outputPath string) ([]HostResult, error) {
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", outputPath, err)
	}
	defer f.Close()

	if a.engine.Enabled() {
		t := a.cfg.Thresholds
		log.Info().
			Float64("max_latency_ms", t.MaxLatencyMs).
			Float64("max_loss_percent", t.MaxLossPercent).
			Float64("max_jitter_ms", t.MaxJitterMs).
			Float64("min_throughput_mbits", t.MinThroughputMbits).
			Msg("threshold checks enabled")
	}

	csvw := report.NewCSVWriter(f)
	if err := csvw.WriteHeader(); err != nil {
		return nil, fmt.Errorf("write %s: %w", outputPath, err)
	}

	results := make([]HostResult, 0, len(logPaths))
	for i, path := range logPaths {
		res, err := a.analyzeFile(path)
		if err != nil {
			return results, err
		}

		if err := csvw.WriteRow(res.Host, res.Metrics); err != nil {
			return results, fmt.Errorf("write %s: %w", outputPath, err)
		}
		if err := report.WriteHostTable(a.out, i+1, res.Host, res.Metrics); err != nil {
			return results, fmt.Errorf("print %s: %w", res.Host, err)
		}
		results = append(results, res)
	}

	all := make([]metrics.HostMetrics, 0, len(results))
	for _, r := range results {
		all = append(all, r.Metrics)
	}
	if err := report.WriteSummary(a.out, all); err != nil {
		return results, fmt.Errorf("print summary: %w", err)
	}

	if err := f.Close(); err != nil {
		return results, fmt.Errorf("close %s: %w", outputPath, err)
	}
	log.Info().Str("output", outputPath).Int("hosts", len(results)).Msg("report written")
	return results, nil
}

func (a *Analyzer) analyzeFile(path string) (HostResult, error) {
	host := HostID(path, a.cfg.Analysis.HostDelimiter)

	recs, st, err := mgen.ParseFile(path)
	if err != nil {
		return HostResult{}, fmt.Errorf("parse %s: %w", path, err)
	}
	log.Debug().
		Str("host", host).
		Str("path", path).
		Int("lines", st.Lines).
		Int("records", st.Records).
		Int("skipped", st.Skipped).
		Msg("log parsed")

	m := metrics.Analyze(recs, metrics.Options{Percentiles: a.cfg.Analysis.Percentiles})
	v := a.engine.Evaluate(m)

	ev := log.Info()
	if v.State == decision.HostDegraded {
		ev = log.Warn().Str("path", path).Strs("breaches", v.Breaches)
	}
	ev.Str("host", host).
		Str("state", string(v.State)).
		Float64("throughput_mbits_sec", m.ThroughputMbitsPerSec).
		Float64("jitter_ms", m.JitterMs).
		Float64("loss_rate_percent", m.LossRatePercent).
		Float64("avg_latency_ms", m.AvgLatencyMs).
		Msg("host analyzed")

	return HostResult{Host: host, Metrics: m, Verdict: v}, nil
}
