// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/job-portal/internal/engine"
	"github.com/jonathan/job-portal/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCatalogSummary outputs a human-readable summary of a loaded catalog.
func (p *Printer) PrintCatalogSummary(jobs []types.Job) {
	if len(jobs) == 0 {
		return
	}

	active := 0
	skillCounts := make(map[string]int)
	for _, job := range jobs {
		if job.Status == types.JobStatusActive {
			active++
		}
		for _, skill := range job.Skills {
			skillCounts[skill]++
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Postings: %d (%d active)\n", len(jobs), active))

	if len(skillCounts) > 0 {
		type skillCount struct {
			skill string
			count int
		}
		counts := make([]skillCount, 0, len(skillCounts))
		for skill, count := range skillCounts {
			counts = append(counts, skillCount{skill, count})
		}
		sort.Slice(counts, func(i, j int) bool {
			if counts[i].count != counts[j].count {
				return counts[i].count > counts[j].count
			}
			return counts[i].skill < counts[j].skill
		})

		sb.WriteString("\nTop skills:\n")
		shown := min(len(counts), maxItemsToShow)
		for i := 0; i < shown; i++ {
			sb.WriteString(fmt.Sprintf("  • %s (%d)\n", counts[i].skill, counts[i].count))
		}
		if len(counts) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(counts)-maxItemsToShow))
		}
	}

	p.printBox("LOADED CATALOG", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintIndexStats outputs index build statistics.
func (p *Printer) PrintIndexStats(stats engine.Stats) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Jobs:     %d\n", stats.Jobs))
	sb.WriteString(fmt.Sprintf("Terms:    %d\n", stats.Terms))
	sb.WriteString(fmt.Sprintf("Vectors:  %d\n", stats.Vectors))
	if !stats.BuiltAt.IsZero() {
		sb.WriteString(fmt.Sprintf("Built at: %s", stats.BuiltAt.Format("15:04:05")))
	}

	p.printBox("INDEX BUILT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintScoredResults outputs the top N ranked jobs with component scores and
// explanation chips.
func (p *Printer) PrintScoredResults(results []types.ScoredResult, degraded bool) {
	if len(results) == 0 {
		p.printBox("RANKED JOBS", "No matching jobs")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total results: %d", len(results)))
	if degraded {
		sb.WriteString("  (lexical-only)")
	}
	sb.WriteString("\n\n")

	count := min(len(results), maxItemsToShow)
	for i := 0; i < count; i++ {
		result := results[i]
		title := result.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, title))
		sb.WriteString(fmt.Sprintf("    Score: %.2f (bm25: %.2f", result.Score, result.BM25Score))
		if result.VectorScore != nil {
			sb.WriteString(fmt.Sprintf(", vector: %.2f", *result.VectorScore))
		}
		sb.WriteString(")\n")

		if len(result.Explanations) > 0 {
			chips := make([]string, 0, len(result.Explanations))
			for _, e := range result.Explanations {
				chips = append(chips, e.Label)
			}
			line := strings.Join(chips, ", ")
			if len(line) > 40 {
				line = line[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("    Why: %s\n", line))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(results) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more jobs", len(results)-maxItemsToShow))
	}

	p.printBox("RANKED JOBS", sb.String())
}
