package tui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Jayphen/opsboard/internal/board"
)

// widthCache caches ANSI-aware width calculations to avoid repeated lipgloss.Width calls.
var (
	widthCache   = make(map[string]int)
	widthCacheMu sync.RWMutex
)

const (
	defaultWidth = 100
	minNameWidth = 16
	// badgeColumns is the space reserved right of the name for badges.
	badgeColumns = 28
)

// RenderOptions controls how a board is drawn.
type RenderOptions struct {
	// OtherLimit caps the "other tasks" section; <= 0 shows everything.
	OtherLimit int
	// Width is the terminal width; 0 uses a default.
	Width int
	// Selected is the index into VisibleTasks to highlight, or -1.
	Selected int
	// Timezone is shown next to the date line.
	Timezone string
}

// section is one titled list of the board.
type section struct {
	title  string
	style  lipgloss.Style
	tasks  []board.Task
	empty  string
	hidden int
	// omitEmpty drops the whole section when it has no tasks.
	omitEmpty bool
}

func sections(b board.Board, otherLimit int) []section {
	other, hidden := b.OtherPreview(otherLimit)
	return []section{
		{
			title:     fmt.Sprintf("%s Overdue Tasks (%d)", IndicatorOverdue, len(b.Overdue)),
			style:     OverdueSectionStyle,
			tasks:     b.Overdue,
			omitEmpty: true,
		},
		{
			title: fmt.Sprintf("P0/P1 Priorities (%d)", len(b.ActiveHighPriority)),
			style: PrioritySectionStyle,
			tasks: b.ActiveHighPriority,
			empty: "No active P0/P1 tasks",
		},
		{
			title:  fmt.Sprintf("Other Tasks (%d)", len(b.ActiveOther)),
			style:  OtherSectionStyle,
			tasks:  other,
			empty:  "No other pending tasks",
			hidden: hidden,
		},
	}
}

// VisibleTasks lists the rows RenderBoard draws, in display order. A task
// that is both overdue and high priority appears twice.
func VisibleTasks(b board.Board, otherLimit int) []board.Task {
	var tasks []board.Task
	for _, s := range sections(b, otherLimit) {
		tasks = append(tasks, s.tasks...)
	}
	return tasks
}

// RenderBoard draws the header, stat cards and the three sections.
func RenderBoard(b board.Board, opts RenderOptions) string {
	var sb strings.Builder

	sb.WriteString(renderHeader(b, opts))
	sb.WriteString("\n\n")
	sb.WriteString(renderStats(b.Stats))
	sb.WriteString("\n\n")
	sb.WriteString(renderSections(b, opts))

	return sb.String()
}

// renderHeader renders the application header.
func renderHeader(b board.Board, opts RenderOptions) string {
	title := TitleStyle.Render("Ops HQ Dashboard")
	subtitle := SubtitleStyle.Render("Task overview from Notion")

	today := "Today: " + b.Today.In(time.UTC).Format("Mon, Jan 2 2006")
	if opts.Timezone != "" {
		today += " (" + opts.Timezone + ")"
	}
	return title + "\n" + subtitle + "\n" + DimStyle.Render(today)
}

// renderStats renders the six summary cards and the completion bar.
func renderStats(s board.Stats) string {
	cards := []struct {
		label string
		value int
		color lipgloss.Color
	}{
		{"Total Tasks", s.Total, ColorWhite},
		{"Overdue", s.Overdue, ColorRed},
		{"P0 Critical", s.P0, ColorRed},
		{"P1 High", s.P1, ColorOrange},
		{"P2 Medium", s.P2, ColorYellow},
		{"Completed", s.Done, ColorGreen},
	}

	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		value := lipgloss.NewStyle().Foreground(c.color).Bold(true).Render(fmt.Sprintf("%d", c.value))
		rendered = append(rendered, CardStyle.Render(value+"\n"+SubtitleStyle.Render(c.label)))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	percent := 0.0
	if s.Total > 0 {
		percent = float64(s.Done) / float64(s.Total) * 100
	}
	progress := DimStyle.Render(fmt.Sprintf("%s %d%% done", RenderProgressBar(percent, 30), int(percent)))

	return row + "\n" + progress
}

// renderSections renders the task lists.
func renderSections(b board.Board, opts RenderOptions) string {
	var sb strings.Builder

	index := 0
	first := true
	for _, s := range sections(b, opts.OtherLimit) {
		if len(s.tasks) == 0 && s.omitEmpty {
			continue
		}
		if !first {
			sb.WriteString("\n")
		}
		first = false

		sb.WriteString(s.style.Render(s.title))
		sb.WriteString("\n")

		if len(s.tasks) == 0 {
			sb.WriteString(EmptyStyle.Render(s.empty))
			sb.WriteString("\n")
			continue
		}
		for _, t := range s.tasks {
			sb.WriteString(renderTaskRow(b, t, opts.Width, index == opts.Selected))
			sb.WriteString("\n")
			index++
		}
		if s.hidden > 0 {
			sb.WriteString(DimStyle.Render(fmt.Sprintf("  +%d more tasks", s.hidden)))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// renderTaskRow renders one task as two lines: name with badges, then the
// project, due date and source.
func renderTaskRow(b board.Board, t board.Task, width int, selected bool) string {
	if width <= 0 {
		width = defaultWidth
	}
	nameWidth := width - badgeColumns - 4
	if nameWidth < minNameWidth {
		nameWidth = minNameWidth
	}

	// Selection indicator
	selector := "  "
	nameStyle := BoldStyle
	if selected {
		selector = SelectedStyle.Render(IndicatorSelected + " ")
		nameStyle = SelectedStyle
	}

	overdue := b.IsOverdue(t)
	badge := ""
	if overdue {
		badge = " " + OverdueStyle.Render(fmt.Sprintf("%dd overdue", b.DaysOverdue(t)))
	}

	name := ansi.Truncate(t.Name, nameWidth-lipgloss.Width(badge), "…")
	left := padRight(nameStyle.Render(name)+badge, nameWidth)
	line := selector + left + "  " + StatusBadge(t.Status) + "  " + PriorityBadge(t.Priority)

	meta := []string{projectLabel(t)}
	if t.Due != nil {
		due := "Due: " + formatDue(*t.Due)
		if overdue {
			meta = append(meta, OverdueStyle.Render(due))
		} else {
			meta = append(meta, DimStyle.Render(due))
		}
	}
	if src := t.SourceLabel(); src != "" {
		meta = append(meta, DimStyle.Render("via "+src))
	}

	return line + "\n    " + strings.Join(meta, "  ")
}

// projectLabel joins the task's project names, or "No Project".
func projectLabel(t board.Task) string {
	if len(t.Project) == 0 {
		return SubtitleStyle.Render(NoProjectLabel)
	}
	return SubtitleStyle.Render(strings.Join(t.Project, ", "))
}

// formatDue renders a due date like "Jan 2".
func formatDue(d board.Date) string {
	return d.In(time.UTC).Format("Jan 2")
}

// padRight pads a string to the specified visible width.
// Uses a cache to avoid repeated ANSI-aware width calculations.
func padRight(s string, width int) string {
	// Check cache first
	widthCacheMu.RLock()
	visibleWidth, cached := widthCache[s]
	widthCacheMu.RUnlock()

	if !cached {
		// Calculate and cache the width
		visibleWidth = lipgloss.Width(s)
		widthCacheMu.Lock()
		widthCache[s] = visibleWidth
		widthCacheMu.Unlock()
	}

	if visibleWidth >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visibleWidth)
}

func truncateLines(s string, maxLines int, suffix string) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= maxLines {
		return s
	}
	if suffix != "" {
		if maxLines == 1 {
			return suffix
		}
		lines = lines[:maxLines-1]
		lines = append(lines, suffix)
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[:maxLines], "\n")
}

// formatAge formats the time between t and now as a human-readable age.
func formatAge(t, now time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}

	if d < time.Minute {
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(d.Hours()/24))
}
