package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"jenkdash/internal/history"
	"jenkdash/internal/jenkins"
	"jenkdash/pkg/config"
	"jenkdash/pkg/debug"
	"jenkdash/pkg/version"
	"jenkdash/pkg/watcher"
)

// pane identifies which composition occupies the main area.
type pane int

const (
	paneHome pane = iota
	paneJob
)

// chromeHeight is the rows taken by the header and footer.
const chromeHeight = 2

// Model is the view coordinator. It owns the current selection, dispatches
// fetches for selection changes, and reconciles their results. A fetch
// result is applied only when its guard token still matches the selection;
// anything else is discarded on arrival, so in-flight work is never
// cancelled and panels never regress to a superseded selection.
type Model struct {
	cfg    config.Config
	source jenkins.DataSource
	store  *history.Store
	watch  *watcher.Watcher

	theme Theme
	keys  keyMap
	tree  TreeModel
	spin  spinner.Model

	pane      pane
	selection string // RootName for the home panel, a job name otherwise

	home homeData
	job  jobData

	status    string
	statusErr bool
	statusID  int

	showHelp    bool
	showSidebar bool
	detailBusy  bool

	width  int
	height int
}

// New assembles the coordinator. store and watch may be nil; history and
// config hot-reload then degrade to no-ops.
func New(cfg config.Config, source jenkins.DataSource, store *history.Store, watch *watcher.Watcher) Model {
	theme := DefaultTheme(lipgloss.DefaultRenderer())

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = theme.FolderNode

	tree := NewTree(theme, source.Base())
	tree.BeginRootLoad()

	return Model{
		cfg:         cfg,
		source:      source,
		store:       store,
		watch:       watch,
		theme:       theme,
		keys:        defaultKeyMap(),
		tree:        tree,
		spin:        sp,
		pane:        paneHome,
		selection:   RootName,
		showSidebar: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		fetchHierarchyCmd(m.source),
		fetchHomeCmd(m.source, m.store),
		homeTickCmd(),
		watchConfigCmd(m.watch),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tree.SetSize(m.sidebarInnerWidth(), m.height-chromeHeight-2)
		return m, nil

	case RootSelectedMsg:
		if m.selection == RootName {
			// Re-selecting the root is idempotent; no fetch, no panel churn.
			return m, nil
		}
		m.selection = RootName
		m.pane = paneHome
		m.detailBusy = false
		return m, fetchHomeCmd(m.source, m.store)

	case JobSelectedMsg:
		if m.selection == msg.Name {
			return m, nil
		}
		// Commit the selection before the fetch completes so any result
		// from the previous selection fails the guard check on arrival.
		m.selection = msg.Name
		m.detailBusy = true
		return m, tea.Batch(
			fetchJobDetailCmd(m.source, msg.Name, msg.Path),
			recordVisitCmd(m.store, msg.Name, msg.Path),
		)

	case jobDetailMsg:
		if msg.name != m.selection {
			debug.Log("coordinator: dropping stale detail for %q (selection %q)", msg.name, m.selection)
			return m, nil
		}
		m.job = jobData{name: msg.name, detail: msg.detail, stats: msg.stats}
		m.pane = paneJob
		m.detailBusy = false
		return m, nil

	case jobDetailErrMsg:
		if msg.name != m.selection {
			return m, nil
		}
		// Keep the current panel; the failure surfaces as a notice only.
		m.detailBusy = false
		if errors.Is(msg.err, jenkins.ErrNotFound) {
			return m.notice(fmt.Sprintf("%s no longer exists on the server, refresh with r", msg.name), true)
		}
		return m.notice(fmt.Sprintf("loading %s failed: %v", msg.name, msg.err), true)

	case homeDataMsg:
		if m.selection == RootName {
			m.home = homeData{
				queue:     msg.queue,
				executors: msg.executors,
				recent:    msg.recent,
				loaded:    true,
			}
		}
		return m, nil

	case homeDataErrMsg:
		return m.notice(fmt.Sprintf("server state fetch failed: %v", msg.err), true)

	case homeTickMsg:
		// The refresh chain is armed once in Init and perpetuated only
		// here; fetch results never arm ticks, so navigation cannot
		// multiply the chain.
		if m.pane == paneHome {
			return m, tea.Batch(fetchHomeCmd(m.source, m.store), homeTickCmd())
		}
		return m, homeTickCmd()

	case hierarchyMsg:
		m.tree.ApplyHierarchy(msg.jobs)
		return m, nil

	case hierarchyErrMsg:
		m.tree.LoadFailed()
		return m.notice(fmt.Sprintf("loading pipelines failed: %v", msg.err), true)

	case configChangedMsg:
		return m.reloadConfig()

	case statusTimeoutMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key dismisses the overlay.
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Sidebar):
		m.showSidebar = !m.showSidebar
		m.tree.SetFocus(m.showSidebar)
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m.refreshTree()

	case key.Matches(msg, m.keys.Yank):
		return m.yankURL()
	}

	if !m.showSidebar {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.tree.CursorUp()
	case key.Matches(msg, m.keys.Down):
		m.tree.CursorDown()
	case key.Matches(msg, m.keys.PageUp):
		m.tree.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.tree.PageDown()
	case key.Matches(msg, m.keys.Top):
		m.tree.CursorTop()
	case key.Matches(msg, m.keys.Bottom):
		m.tree.CursorBottom()
	case key.Matches(msg, m.keys.Select):
		return m, m.tree.Activate()
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.showSidebar {
		return m, nil
	}

	// Tree rows start below the header and the sidebar's top border.
	line := msg.Y - chromeHeight
	inSidebar := msg.X < m.cfg.UI.SidebarWidth

	switch msg.Action {
	case tea.MouseActionMotion:
		if inSidebar {
			m.tree.HoverLine(line)
		} else {
			m.tree.ClearHover()
		}
		return m, nil

	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			if inSidebar {
				return m, m.tree.ClickLine(line)
			}
		case tea.MouseButtonWheelUp:
			if inSidebar {
				m.tree.CursorUp()
			}
		case tea.MouseButtonWheelDown:
			if inSidebar {
				m.tree.CursorDown()
			}
		}
	}
	return m, nil
}

// refreshTree rebuilds the job tree from scratch. The selection and main
// panel are untouched; only the sidebar resets.
func (m Model) refreshTree() (tea.Model, tea.Cmd) {
	m.tree.Reset()
	m.tree.BeginRootLoad()
	model, cmd := m.notice("refreshing pipelines…", false)
	return model, tea.Batch(cmd, fetchHierarchyCmd(m.source))
}

// yankURL copies the server URL of the cursor node to the clipboard.
func (m Model) yankURL() (tea.Model, tea.Cmd) {
	node := m.tree.CurrentNode()
	if node == nil {
		return m, nil
	}
	target := m.source.Base()
	if node.Kind != KindRoot {
		target += "job/" + strings.ReplaceAll(strings.TrimSuffix(node.Path, "/"), "/", "/job/") + "/"
	}
	if err := clipboard.WriteAll(target); err != nil {
		return m.notice(fmt.Sprintf("copy failed: %v", err), true)
	}
	return m.notice("copied "+target, false)
}

// reloadConfig re-reads the watched config file and swaps in a new client
// and tree. The selection is reset; the old server's jobs are meaningless
// against a new base URL.
func (m Model) reloadConfig() (tea.Model, tea.Cmd) {
	rearm := watchConfigCmd(m.watch)

	cfg, err := config.LoadFrom(m.watch.Path())
	if err != nil {
		model, cmd := m.notice(fmt.Sprintf("config reload failed: %v", err), true)
		return model, tea.Batch(cmd, rearm)
	}
	if err := cfg.Validate(); err != nil {
		model, cmd := m.notice(fmt.Sprintf("config reload failed: %v", err), true)
		return model, tea.Batch(cmd, rearm)
	}
	client, err := jenkins.NewClient(cfg.URL, cfg.Username, cfg.Token)
	if err != nil {
		model, cmd := m.notice(fmt.Sprintf("config reload failed: %v", err), true)
		return model, tea.Batch(cmd, rearm)
	}

	m.cfg = cfg
	m.source = client
	m.selection = RootName
	m.pane = paneHome
	m.home = homeData{}
	m.tree = NewTree(m.theme, client.Base())
	m.tree.BeginRootLoad()
	m.tree.SetSize(m.sidebarInnerWidth(), m.height-chromeHeight-2)

	model, cmd := m.notice("configuration reloaded", false)
	return model, tea.Batch(
		cmd,
		fetchHierarchyCmd(m.source),
		fetchHomeCmd(m.source, m.store),
		rearm,
	)
}

// notice installs a transient status message and arms its expiry.
func (m Model) notice(text string, isErr bool) (Model, tea.Cmd) {
	m.status = text
	m.statusErr = isErr
	m.statusID++
	return m, statusTimeoutCmd(m.statusID)
}

// sidebarInnerWidth is the tree pane width inside the sidebar border.
func (m Model) sidebarInnerWidth() int {
	w := m.cfg.UI.SidebarWidth - 2
	if w < 10 {
		w = 10
	}
	return w
}

func (m Model) View() string {
	if m.width == 0 {
		return "starting…"
	}

	if m.showHelp {
		return renderHelp(m.width)
	}

	mainWidth := m.width
	if m.showSidebar {
		mainWidth -= m.cfg.UI.SidebarWidth
	}
	bodyHeight := m.height - chromeHeight

	var main string
	switch {
	case m.detailBusy:
		main = m.spin.View() + " loading " + m.selection + "…"
	case m.pane == paneJob:
		main = m.renderJob(mainWidth)
	default:
		main = m.renderHome(mainWidth)
	}
	main = lipgloss.NewStyle().
		Width(mainWidth).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(main)

	body := main
	if m.showSidebar {
		sidebar := m.theme.Sidebar.
			Width(m.cfg.UI.SidebarWidth - 2).
			Height(bodyHeight - 2).
			Render(m.tree.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		body,
		m.viewFooter(),
	)
}

func (m Model) viewHeader() string {
	title := m.theme.Header.Render("jenkdash " + version.Version)
	server := m.theme.Dim.Render(truncate(m.source.Base(), m.width-lipgloss.Width(title)-1))
	return title + server
}

func (m Model) viewFooter() string {
	if m.status != "" {
		style := m.theme.StatusBar
		if m.statusErr {
			style = m.theme.StatusErr
		}
		return style.Render(truncate(m.status, m.width-2))
	}

	var parts []string
	for _, b := range m.keys.shortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.theme.FooterKeys.Render(truncate(strings.Join(parts, " · "), m.width-2))
}
