// Package render turns a dup.DuplicationReport into terminal, tabular,
// Markdown, and GitHub Actions annotation output. Grounded on the
// scanner's output.go, generalized from scanner PatternMatch/Location
// values to dup.ClusteredFinding/FileLocation.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/patchdup/patchdup/pkg/dup"
)

// Theme defines the color scheme for console output. Grounded directly
// on the scanner's output.go Theme/DefaultTheme.
type Theme struct {
	Score    lipgloss.Style
	Hash     lipgloss.Style
	Location lipgloss.Style
	LineNum  lipgloss.Style
	Summary  lipgloss.Style
	Dim      lipgloss.Style
}

// DefaultTheme mirrors the scanner's color choices.
var DefaultTheme = Theme{
	Score:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
	Hash:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	Location: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	LineNum:  lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
	Summary:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82")),
	Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

var theme = DefaultTheme

// Summary writes the headline severity/percentage line plus one line per
// finding, mirroring the scanner's PrintMatchSummary/PrintMatches/
// PrintTotalSummary trio.
func Summary(w io.Writer, report dup.DuplicationReport) {
	fmt.Fprintf(w, "%s duplication: %s of %d changed lines (%d findings)\n",
		severityLabel(report.Severity),
		theme.Summary.Render(fmt.Sprintf("%.1f%%", report.Percentage)),
		report.TotalLines,
		len(report.DuplicateBlocks))

	for _, f := range report.DuplicateBlocks {
		clusterNote := ""
		if f.ClusterSize > 2 {
			clusterNote = theme.Dim.Render(fmt.Sprintf(" [%d files]", f.ClusterSize))
		}
		fmt.Fprintf(w, "\n%s%s\n", theme.Score.Render(fmt.Sprintf("%.0f%% similar", f.Similarity*100)), clusterNote)
		fmt.Fprintf(w, "  %s%s%s\n", theme.Location.Render(f.File1), theme.Dim.Render(":"), theme.LineNum.Render(rangeString(f.Lines1)))
		fmt.Fprintf(w, "  %s%s%s\n", theme.Location.Render(f.File2), theme.Dim.Render(":"), theme.LineNum.Render(rangeString(f.Lines2)))
	}
}

func severityLabel(s dup.Severity) string {
	switch s {
	case dup.SeverityHigh:
		return theme.Score.Render("HIGH")
	case dup.SeverityMedium:
		return theme.Hash.Render("MEDIUM")
	default:
		return theme.Dim.Render("LOW")
	}
}

func rangeString(r dup.LineRange) string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Table renders a per-finding breakdown with olekukonko/tablewriter,
// grounded on panbanda-omen's internal/output/formatter.go Table type.
func Table(w io.Writer, report dup.DuplicationReport) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"File 1", "Lines", "File 2", "Lines", "Similarity", "Cluster"})

	for _, f := range report.DuplicateBlocks {
		cluster := "-"
		if f.ClusterSize > 0 {
			cluster = fmt.Sprintf("%d files", f.ClusterSize)
		}
		table.Append([]string{
			f.File1, rangeString(f.Lines1),
			f.File2, rangeString(f.Lines2),
			fmt.Sprintf("%.0f%%", f.Similarity*100),
			cluster,
		})
	}
	table.Render()
}

// Markdown renders each finding's representative code as a Markdown
// report and passes it through glamour in-process. This replaces the
// scanner's renderWithGlow, which shelled out to an external `glow`
// binary via os/exec and fell back to plain text if the binary was
// missing; glamour.Render needs no external process at all.
func Markdown(w io.Writer, report dup.DuplicationReport, lang string) error {
	var sb strings.Builder
	for i, f := range report.DuplicateBlocks {
		clusterInfo := ""
		if f.ClusterSize > 0 {
			clusterInfo = fmt.Sprintf(" (%d files)", f.ClusterSize)
		}
		sb.WriteString(fmt.Sprintf("## Finding %d%s\n\n", i+1, clusterInfo))
		sb.WriteString(fmt.Sprintf("**Similarity:** %.0f%%  **Hash:** `%s`\n\n", f.Similarity*100, f.PatternHash))
		sb.WriteString(fmt.Sprintf("### `%s:%s`\n\n", f.File1, rangeString(f.Lines1)))
		sb.WriteString(fmt.Sprintf("```%s\n%s\n```\n\n", lang, f.Code))
		for _, loc := range f.AllFiles {
			sb.WriteString(fmt.Sprintf("Also at `%s:%s`\n\n", loc.File, rangeString(loc.Lines)))
		}
		sb.WriteString("---\n\n")
	}

	rendered, err := glamour.Render(sb.String(), "auto")
	if err != nil {
		return fmt.Errorf("rendering markdown report: %w", err)
	}
	fmt.Fprint(w, rendered)
	return nil
}

// GitHubAnnotations writes "::warning file=...,line=...::..." lines for
// CI consumption, grounded on the scanner's PrintGitHubAnnotations.
// changedFiles, when non-nil, restricts annotations to files present in
// the set (mirroring the scanner's --git-diff filter).
func GitHubAnnotations(w io.Writer, report dup.DuplicationReport, level string, changedFiles map[string]bool) {
	if level == "" {
		level = "warning"
	}
	count := 0
	for _, f := range report.DuplicateBlocks {
		if changedFiles != nil && !changedFiles[f.File1] {
			continue
		}
		msg := fmt.Sprintf("Duplicate code also at %s:%d", f.File2, f.Lines2.Start)
		fmt.Fprintf(w, "::%s file=%s,line=%d,endLine=%d,title=Duplicate (%.0f%% similar)::%s\n",
			level, f.File1, f.Lines1.Start, f.Lines1.End, f.Similarity*100, msg)
		count++
	}
	if count > 0 {
		fmt.Fprintln(w)
	}
}
