package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"jenkdash/internal/history"
	"jenkdash/internal/jenkins"
	"jenkdash/pkg/analysis"
	"jenkdash/pkg/debug"
	"jenkdash/pkg/watcher"
)

// homeRefreshInterval paces the periodic queue/executor refresh while the
// home panel is displayed.
const homeRefreshInterval = 30 * time.Second

// statusTimeout is how long a transient status notice stays visible.
const statusTimeout = 5 * time.Second

// recentJobs is how many history entries the home panel shows.
const recentJobs = 8

// No deadlines are applied to fetch contexts: in-flight fetches are never
// cancelled, and a superseded result is discarded by the coordinator on
// arrival.

func fetchHierarchyCmd(src jenkins.DataSource) tea.Cmd {
	return func() tea.Msg {
		jobs, err := src.FetchHierarchy(context.Background())
		if err != nil {
			return hierarchyErrMsg{err: err}
		}
		return hierarchyMsg{jobs: jobs}
	}
}

func fetchJobDetailCmd(src jenkins.DataSource, name, path string) tea.Cmd {
	return func() tea.Msg {
		detail, err := src.FetchJobDetail(context.Background(), path)
		if err != nil {
			return jobDetailErrMsg{name: name, err: err}
		}
		return jobDetailMsg{
			name:   name,
			detail: detail,
			stats:  analysis.Summarize(detail.Builds),
		}
	}
}

// fetchHomeCmd gathers the queue and executor snapshots concurrently, plus
// the recently-viewed jobs from the local history store.
func fetchHomeCmd(src jenkins.DataSource, store *history.Store) tea.Cmd {
	return func() tea.Msg {
		var (
			queue     []jenkins.QueueItem
			executors []jenkins.Executor
		)

		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			var err error
			queue, err = src.FetchQueue(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			executors, err = src.FetchExecutors(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return homeDataErrMsg{err: err}
		}

		recent, err := store.Recent(recentJobs)
		if err != nil {
			// History is a convenience; a read failure degrades to an empty
			// list rather than failing the panel.
			debug.Log("history read failed: %v", err)
		}

		return homeDataMsg{queue: queue, executors: executors, recent: recent}
	}
}

// recordVisitCmd persists a job visit off the UI goroutine. Failures are
// debug-logged and otherwise invisible.
func recordVisitCmd(store *history.Store, name, path string) tea.Cmd {
	return func() tea.Msg {
		if err := store.Record(name, path); err != nil {
			debug.Log("history write failed: %v", err)
		}
		return nil
	}
}

func homeTickCmd() tea.Cmd {
	return tea.Tick(homeRefreshInterval, func(t time.Time) tea.Msg {
		return homeTickMsg(t)
	})
}

func statusTimeoutCmd(id int) tea.Cmd {
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return statusTimeoutMsg{id: id}
	})
}

// watchConfigCmd blocks on the watcher's change channel and re-arms after
// each delivery.
func watchConfigCmd(w *watcher.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		<-w.Changed()
		return configChangedMsg{}
	}
}
