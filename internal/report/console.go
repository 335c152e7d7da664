// Package report renders host metrics as console tables and CSV.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/bilal/mgenstat/internal/metrics"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// NoDataNotice replaces the summary table when no host was analyzed.
const NoDataNotice = "No data to summarize."

// iperf column layout: ID, Interval, Transfer, Bandwidth, Jitter, Lost/Total
const rowFormat = "[%3s] %-14s %-12s %-15s %-9s %s\n"

var (
	hostStyle = lipgloss.NewStyle().Bold(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	headerStyle = cellStyle.Bold(true)
)

// WriteHostTable prints the bandwidth report of one host. id is the 1-based
// position of the host in the run.
func WriteHostTable(w io.Writer, id int, host string, m metrics.HostMetrics) error {
	if _, err := fmt.Fprintln(w, hostStyle.Render("Host: "+host)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, rowFormat, "ID", "Interval", "Transfer", "Bandwidth", "Jitter", "Lost/Total Datagrams"); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, rowFormat,
		strconv.Itoa(id),
		"0.0-"+formatFloat(m.DurationSec, metrics.DurationPlaces)+" sec",
		fmt.Sprintf("%.2f MBytes", float64(m.TransferBytes)/1_000_000),
		formatFloat(m.ThroughputMbitsPerSec, metrics.ThroughputPlaces)+" Mbits/sec",
		formatFloat(m.JitterMs, metrics.JitterPlaces)+" ms",
		m.LostTotal,
	)
	if err != nil {
		return err
	}
	if m.HasPercentiles {
		_, err = fmt.Fprintf(w, "      latency p50/p95/p99: %s/%s/%s ms\n",
			formatFloat(m.LatencyP50Ms, metrics.LatencyPlaces),
			formatFloat(m.LatencyP95Ms, metrics.LatencyPlaces),
			formatFloat(m.LatencyP99Ms, metrics.LatencyPlaces),
		)
	}
	return err
}

// WriteSummary prints Average/MIN/MAX of the headline metrics across hosts.
func WriteSummary(w io.Writer, hosts []metrics.HostMetrics) error {
	s, ok := metrics.Aggregate(hosts)
	if !ok {
		_, err := fmt.Fprintln(w, NoDataNotice)
		return err
	}

	row := func(label string, pick func(metrics.Stat) float64) []string {
		return []string{
			label,
			formatFloat(pick(s.Throughput), metrics.ThroughputPlaces),
			formatFloat(pick(s.Jitter), metrics.JitterPlaces),
			formatFloat(pick(s.LossRate), metrics.LossPlaces),
			formatFloat(pick(s.Latency), metrics.LatencyPlaces),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(r, c int) lipgloss.Style {
			if r == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("", "Throughput (Mbits/sec)", "Jitter (ms)", "Loss (%)", "Latency (ms)").
		Rows(
			row("Average", func(st metrics.Stat) float64 { return st.Average }),
			row("MIN", func(st metrics.Stat) float64 { return st.Min }),
			row("MAX", func(st metrics.Stat) float64 { return st.Max }),
		)

	if _, err := fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Summary across %d hosts", s.Hosts))); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// formatFloat prints v with a fixed number of decimals. Negative zero prints as zero.
func formatFloat(v float64, places int) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', places, 64)
}
