package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/MasterOfBinary/batchsvc/batch"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7F6DFF"))
	labelStyle = lipgloss.NewStyle().Width(20).Foreground(lipgloss.Color("#888888"))
	valueStyle = lipgloss.NewStyle().Bold(true)
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFB86C"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7F6DFF")).
			Padding(0, 1)
)

// summary is the outcome of a run, as seen by the callers.
type summary struct {
	Requests        int
	Verified        int
	Invalid         int
	ExpectedInvalid int
	Elapsed         time.Duration
}

func (s summary) throughput() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Requests) / s.Elapsed.Seconds()
}

// renderSummary formats the run summary and the service statistics.
func renderSummary(s summary, stats batch.Stats) string {
	row := func(label string, value interface{}) string {
		return lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render(label), valueStyle.Render(fmt.Sprint(value)))
	}

	invalid := fmt.Sprintf("%d (expected %d)", s.Invalid, s.ExpectedInvalid)
	invalidRow := row("invalid", invalid)
	if s.Invalid != s.ExpectedInvalid {
		invalidRow = lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render("invalid"), warnStyle.Render(invalid))
	}

	lines := []string{
		titleStyle.Render("batchbench"),
		"",
		row("requests", s.Requests),
		row("verified", s.Verified),
		invalidRow,
		row("elapsed", s.Elapsed.Round(time.Millisecond)),
		row("throughput", fmt.Sprintf("%.0f req/s", s.throughput())),
		"",
		row("batches", stats.BatchesStarted),
		row("  full", stats.FullFlushes),
		row("  timeout", stats.TimeoutFlushes),
		row("  shutdown", stats.ShutdownFlushes),
		row("avg batch size", fmt.Sprintf("%.1f", stats.AverageBatchSize())),
		row("batch size range", fmt.Sprintf("%d..%d", stats.MinBatchSize, stats.MaxBatchSize)),
		row("avg batch time", stats.AverageBatchTime().Round(time.Microsecond)),
		row("failed batches", stats.AggregateFailures),
		row("fallback runs", stats.FallbackRuns),
	}

	return boxStyle.Render(strings.Join(lines, "\n"))
}
