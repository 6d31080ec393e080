package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"jenkdash/internal/history"
	"jenkdash/internal/jenkins"
	"jenkdash/pkg/analysis"
)

// homeData backs the home composition: summary, build queue, executor pool
// and recently viewed jobs.
type homeData struct {
	queue     []jenkins.QueueItem
	executors []jenkins.Executor
	recent    []history.Entry
	loaded    bool
}

// jobData backs the job-detail composition.
type jobData struct {
	name   string
	detail jenkins.JobDetail
	stats  analysis.BuildStats
}

// panel wraps content in the standard bordered panel with a title row.
func (m Model) panel(title, content string, width int) string {
	inner := width - 4 // border + padding
	if inner < 1 {
		inner = 1
	}
	body := m.theme.PanelTitle.Render(truncate(title, inner)) + "\n" + content
	return m.theme.Panel.Width(width - 2).Render(body)
}

// renderHome renders the home composition.
func (m Model) renderHome(width int) string {
	var sections []string

	welcome := "Welcome to jenkdash 🚀\n\nUse the tree on the left to browse pipelines."
	if !m.home.loaded {
		welcome = "Loading server state…"
	}
	sections = append(sections, m.panel("Welcome!", welcome, width))
	sections = append(sections, m.panel("Build queue", m.renderQueue(width-4), width))
	sections = append(sections, m.panel("Executors", m.renderExecutors(width-4), width))

	if len(m.home.recent) > 0 {
		sections = append(sections, m.panel("Recently viewed", m.renderRecent(width-4), width))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderQueue(width int) string {
	if len(m.home.queue) == 0 {
		return m.theme.Dim.Render("The queue is empty.")
	}

	var sb strings.Builder
	for i, item := range m.home.queue {
		if i > 0 {
			sb.WriteString("\n")
		}
		since := formatTimeRel(time.UnixMilli(item.InQueueSince))
		line := fmt.Sprintf("%s  %s", padRight(truncate(item.Task.Name, 24), 24), since)
		if item.Stuck {
			// Truncate the plain text first; cutting after styling would
			// count escape sequences toward the width.
			tag := m.theme.ResultBad.Render("stuck")
			sb.WriteString(truncate(line, width-lipgloss.Width(tag)-2) + "  " + tag)
		} else {
			sb.WriteString(truncate(line, width))
		}
	}
	return sb.String()
}

func (m Model) renderExecutors(width int) string {
	if len(m.home.executors) == 0 {
		return m.theme.Dim.Render("No executors online.")
	}

	var sb strings.Builder
	for i, e := range m.home.executors {
		if i > 0 {
			sb.WriteString("\n")
		}
		state := m.theme.Dim.Render("idle")
		if !e.Idle {
			state = m.theme.ResultGood.Render(
				fmt.Sprintf("%3d%%  %s", e.Progress, truncate(e.Build, width-32)))
		}
		sb.WriteString(truncate(fmt.Sprintf("%s  ", padRight(e.Node, 20)), width-lipgloss.Width(state)) + state)
	}
	return sb.String()
}

func (m Model) renderRecent(width int) string {
	var sb strings.Builder
	for i, e := range m.home.recent {
		if i > 0 {
			sb.WriteString("\n")
		}
		line := fmt.Sprintf("%s  %s (%d views)",
			padRight(truncate(e.Name, 32), 32), formatTimeRel(e.LastViewed), e.Views)
		sb.WriteString(truncate(line, width))
	}
	return sb.String()
}

// renderJob renders the job-detail composition.
func (m Model) renderJob(width int) string {
	title := m.job.detail.DisplayName
	if title == "" {
		title = m.job.name
	}

	var info strings.Builder
	if desc := strings.TrimSpace(m.job.detail.Description); desc != "" {
		info.WriteString(desc)
		info.WriteString("\n\n")
	}
	for _, h := range m.job.detail.HealthReport {
		info.WriteString(fmt.Sprintf("%s %s\n", healthIcon(h.Score), h.Description))
	}
	info.WriteString("\n")
	info.WriteString(m.renderStats())

	sections := []string{
		m.panel(title, strings.TrimRight(info.String(), "\n"), width),
		m.panel("Builds", m.renderBuilds(width-4), width),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// healthIcon mirrors the server's weather metaphor for health scores.
func healthIcon(score int) string {
	switch {
	case score > 80:
		return "☀️"
	case score > 60:
		return "🌤️"
	case score > 40:
		return "⛅"
	case score > 20:
		return "🌧️"
	default:
		return "⛈️"
	}
}

func (m Model) renderStats() string {
	s := m.job.stats
	if s.Completed == 0 {
		return m.theme.Dim.Render("No completed builds yet.")
	}
	line := fmt.Sprintf("%d builds · %.0f%% success · avg %s",
		s.Completed, s.SuccessRate*100, s.MeanDuration.Round(time.Second))
	if s.StddevDuration > 0 {
		line += fmt.Sprintf(" ± %s", s.StddevDuration.Round(time.Second))
	}
	return m.theme.Dim.Render(line)
}

func (m Model) renderBuilds(width int) string {
	builds := m.job.detail.Builds
	if len(builds) == 0 {
		return m.theme.Dim.Render("No builds yet.")
	}

	header := m.theme.Dim.Render(
		padRight("#", 8) + padRight("result", 10) + padRight("started", 12) + "duration")

	var sb strings.Builder
	sb.WriteString(header)
	for _, b := range builds {
		sb.WriteString("\n")
		number := padRight(fmt.Sprintf("#%d", b.Number), 8)
		result := m.renderResult(b)
		tail := padRight(formatTimeRel(time.UnixMilli(b.Timestamp)), 12) +
			formatMillis(b.Duration)
		// The result column is styled, so only the plain tail is cut to
		// the remaining width.
		sb.WriteString(number + result + truncate(tail, width-len(number)-lipgloss.Width(result)))
	}
	return sb.String()
}

// renderResult renders a build result padded to the result column width.
func (m Model) renderResult(b jenkins.Build) string {
	label := b.Result
	style := m.theme.ResultNeutral
	switch {
	case b.Building:
		label = "BUILDING"
		style = m.theme.FolderNode
	case b.Result == "SUCCESS":
		style = m.theme.ResultGood
	case b.Result == "FAILURE":
		style = m.theme.ResultBad
	case b.Result == "UNSTABLE":
		style = m.theme.ResultUnstable
	}
	if label == "" {
		label = "-"
	}
	return style.Render(padRight(label, 10))
}
