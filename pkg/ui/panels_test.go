package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"jenkdash/internal/jenkins"
)

func TestRenderQueue_StuckRowStaysInWidth(t *testing.T) {
	m := newTestModel()
	m.home.queue = []jenkins.QueueItem{{
		Task:         jenkins.QueueTask{Name: "a-rather-long-pipeline-name"},
		InQueueSince: time.Now().Add(-2 * time.Hour).UnixMilli(),
		Stuck:        true,
	}}

	const width = 30
	out := m.renderQueue(width)
	for _, line := range strings.Split(out, "\n") {
		if lipgloss.Width(line) > width {
			t.Errorf("row exceeds width %d: %q", width, line)
		}
	}
	if !strings.Contains(out, "stuck") {
		t.Error("stuck tag missing from the row")
	}
}

func TestRenderBuilds_RowsStayInWidth(t *testing.T) {
	m := newTestModel()
	m.job.detail.Builds = []jenkins.Build{
		{
			Number:    1234,
			Result:    "SUCCESS",
			Timestamp: time.Now().Add(-3 * time.Hour).UnixMilli(),
			Duration:  754_000,
		},
		{Number: 1235, Building: true},
	}

	const width = 32
	out := m.renderBuilds(width)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	// The header is a fixed layout; the data rows must fit the pane.
	for _, line := range lines[1:] {
		if lipgloss.Width(line) > width {
			t.Errorf("row exceeds width %d: %q", width, line)
		}
	}
	if !strings.Contains(out, "SUCCESS") {
		t.Error("result column missing from the row")
	}
	if !strings.Contains(out, "BUILDING") {
		t.Error("in-progress build not labeled")
	}
}
