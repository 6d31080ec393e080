package ui

import (
	"time"

	"jenkdash/internal/history"
	"jenkdash/internal/jenkins"
	"jenkdash/pkg/analysis"
)

// RootSelectedMsg is the navigation event emitted by the tree pane when the
// root node is activated.
type RootSelectedMsg struct{}

// JobSelectedMsg is the navigation event emitted when a job node is
// activated. Name is the selection identifier the coordinator guards on;
// Path addresses the job on the server.
type JobSelectedMsg struct {
	Name string
	Path string
}

// hierarchyMsg carries the result of the recursive hierarchy fetch.
type hierarchyMsg struct {
	jobs []jenkins.RawJob
}

type hierarchyErrMsg struct {
	err error
}

// jobDetailMsg carries a completed detail fetch. name is the guard token
// captured when the fetch was issued; the coordinator discards the message
// when a newer selection has superseded it.
type jobDetailMsg struct {
	name   string
	detail jenkins.JobDetail
	stats  analysis.BuildStats
}

type jobDetailErrMsg struct {
	name string
	err  error
}

// homeDataMsg carries the queue/executor snapshot and recent history for
// the home composition.
type homeDataMsg struct {
	queue     []jenkins.QueueItem
	executors []jenkins.Executor
	recent    []history.Entry
}

type homeDataErrMsg struct {
	err error
}

// homeTickMsg drives the periodic refresh of the home panel.
type homeTickMsg time.Time

// configChangedMsg is delivered when the watched config file changes on
// disk.
type configChangedMsg struct{}

// statusTimeoutMsg expires a transient status notice. id matches the notice
// it was armed for, so a newer notice is not cleared early.
type statusTimeoutMsg struct {
	id int
}
