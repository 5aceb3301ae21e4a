// Package observability provides formatted output for the one-shot CLI
// commands.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/interview-sync/internal/cvsync"
	"github.com/jonathan/interview-sync/internal/db"
	"github.com/jonathan/interview-sync/internal/interviews"
	"github.com/jonathan/interview-sync/internal/shortlist"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output.
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

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCycle outputs a reconciliation cycle summary.
func (p *Printer) PrintCycle(r interviews.CycleResult) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Started:     %s\n", r.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "Duration:    %v\n", r.Duration.Round(1e6))
	fmt.Fprintf(&sb, "Pairs:       %d\n", r.Pairs)
	fmt.Fprintf(&sb, "Created:     %d\n", r.Created)
	fmt.Fprintf(&sb, "Skipped:     %d\n", r.Skipped)
	if r.Duplicates > 0 {
		fmt.Fprintf(&sb, "Duplicates:  %d\n", r.Duplicates)
	}
	fmt.Fprintf(&sb, "Failed:      %d\n", r.Failed)
	fmt.Fprintf(&sb, "Linked:      %d\n", r.Linked)
	if r.LinkFailed > 0 {
		fmt.Fprintf(&sb, "Link failed: %d\n", r.LinkFailed)
	}
	if r.Unresolved > 0 {
		fmt.Fprintf(&sb, "Unresolved:  %d\n", r.Unresolved)
	}
	p.printBox("RECONCILIATION CYCLE", sb.String())
}

// PrintRanks outputs a rank correction pass.
func (p *Printer) PrintRanks(r interviews.RankResult) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Checked:  %d\n", r.Checked)
	fmt.Fprintf(&sb, "Promoted: %d\n", len(r.Promoted))
	count := min(len(r.Promoted), maxItemsToShow)
	for _, id := range r.Promoted[:count] {
		fmt.Fprintf(&sb, "  • interview %d\n", id)
	}
	if len(r.Promoted) > maxItemsToShow {
		fmt.Fprintf(&sb, "  ... and %d more\n", len(r.Promoted)-maxItemsToShow)
	}
	if r.Failed > 0 {
		fmt.Fprintf(&sb, "Failed:   %d\n", r.Failed)
	}
	p.printBox("RANK CORRECTION", sb.String())
}

// PrintShortlist outputs a shortlist pass.
func (p *Printer) PrintShortlist(r shortlist.Result) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "High rated interviews: %d\n", r.HighRated)
	fmt.Fprintf(&sb, "Jobs matched:          %d\n", r.Jobs)
	fmt.Fprintf(&sb, "Jobs linked:           %d\n", r.LinkedJobs)
	fmt.Fprintf(&sb, "Unmatched:             %d\n", r.Unmatched)
	fmt.Fprintf(&sb, "Failed links:          %d\n", r.FailedLinks)
	p.printBox("SHORTLIST", sb.String())
}

// PrintSyncSummary outputs a CV sync summary.
func (p *Printer) PrintSyncSummary(s cvsync.Summary) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Roles:        %d\n", s.Roles)
	fmt.Fprintf(&sb, "CVs found:    %d\n", s.CVsFound)
	fmt.Fprintf(&sb, "Downloaded:   %d\n", s.Downloaded)
	fmt.Fprintf(&sb, "Uploaded:     %d\n", s.Uploaded)
	fmt.Fprintf(&sb, "JD files:     %d\n", s.JDFiles)
	fmt.Fprintf(&sb, "Descriptions: %d\n", s.Descriptions)
	fmt.Fprintf(&sb, "Failed:       %d\n", s.Failed)
	p.printBox("CV SYNC", sb.String())
}

// PrintRoleStatus outputs one role.
func (p *Printer) PrintRoleStatus(s cvsync.RoleStatus) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Role:        %d\n", s.ID)
	fmt.Fprintf(&sb, "Title:       %s\n", s.Title)
	if s.Client != "" {
		fmt.Fprintf(&sb, "Client:      %s\n", s.Client)
	}
	fmt.Fprintf(&sb, "Status:      %s\n", orDash(s.Status))
	fmt.Fprintf(&sb, "CVs:         %d\n", s.CVs)
	fmt.Fprintf(&sb, "JD files:    %d\n", s.JDFiles)
	fmt.Fprintf(&sb, "Description: %s\n", yesNo(s.HasDescription))
	p.printBox("ROLE STATUS", sb.String())
}

// PrintRecentCycles outputs archived cycles, newest first.
func (p *Printer) PrintRecentCycles(cycles []db.Cycle) {
	if len(cycles) == 0 {
		p.printBox("RECENT CYCLES", "No cycles recorded")
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-15s %-10s %5s %4s %4s %4s\n", "Started", "Kind", "Pairs", "New", "Skip", "Fail")
	for _, c := range cycles {
		fmt.Fprintf(&sb, "%-15s %-10s %5d %4d %4d %4d\n",
			c.StartedAt.Format("01-02 15:04:05"), c.Kind, c.Pairs, c.Created, c.Skipped, c.Failed)
		if c.Error != nil {
			fmt.Fprintf(&sb, "  error: %s\n", *c.Error)
		}
	}
	p.printBox("RECENT CYCLES", sb.String())
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
