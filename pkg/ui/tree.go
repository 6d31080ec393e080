package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"jenkdash/internal/jenkins"
	"jenkdash/pkg/debug"
)

// statusIcons maps a job status to its tree icon.
var statusIcons = map[jenkins.Status]string{
	jenkins.StatusAborted:  "❌",
	jenkins.StatusRunning:  "🔵",
	jenkins.StatusBuilding: "🔄",
	jenkins.StatusDisabled: "⭕",
	jenkins.StatusPending:  "⚪",
	jenkins.StatusNotBuilt: "⏳",
	jenkins.StatusUnstable: "🟡",
	jenkins.StatusFailing:  "🔴",
	jenkins.StatusNone:     "🟣",
}

// TreeModel owns the job hierarchy: the node arena, lazy expansion, the
// cursor and viewport, and the bounded label-render cache. User activation
// is translated into navigation messages (RootSelectedMsg, JobSelectedMsg)
// consumed by the coordinator; load/expand bookkeeping never leaves the
// tree.
type TreeModel struct {
	theme Theme
	base  string // server base URL, stripped from descriptor URLs

	root  *JobNode
	arena []*JobNode // all nodes of this tree instance; ID = index
	flat  []*JobNode // flattened visible nodes for navigation

	cursor  int
	offset  int // index of first visible row
	hoverID int // arena ID of the node under the mouse, -1 when none
	focused bool

	width  int
	height int

	cache *labelCache
}

// NewTree creates a tree whose root is ready for a hierarchy fetch.
func NewTree(theme Theme, base string) TreeModel {
	t := TreeModel{
		theme:   theme,
		base:    base,
		hoverID: -1,
		focused: true,
	}
	t.Reset()
	return t
}

// Reset discards all nodes and recreates the unloaded root. The label cache
// is replaced along with the arena: node IDs restart from zero, so entries
// from the previous tree instance must not survive.
func (t *TreeModel) Reset() {
	t.arena = nil
	t.cache = newLabelCache(labelCacheCapacity)

	root := &JobNode{
		Name:  RootName,
		Label: "pipelines",
		Kind:  KindRoot,
		State: LoadUnloaded,
	}
	t.addNode(root)
	t.root = root

	t.cursor = 0
	t.offset = 0
	t.hoverID = -1
	t.rebuildFlat()
}

// BeginRootLoad transitions the root from unloaded to loading. It runs
// synchronously before the hierarchy fetch is issued, so a second
// activation during the fetch is rejected by the load-state precondition.
// Returns false when the root is not unloaded.
func (t *TreeModel) BeginRootLoad() bool {
	if t.root.State != LoadUnloaded {
		return false
	}
	t.root.State = LoadLoading
	return true
}

// ApplyHierarchy materializes the fetched hierarchy under the root. The
// root must be in the loading state; a late or duplicate result is ignored
// so children are never duplicated.
func (t *TreeModel) ApplyHierarchy(jobs []jenkins.RawJob) {
	if t.root.State != LoadLoading {
		debug.Log("tree: dropping hierarchy result in state %d", t.root.State)
		return
	}
	t.appendChildren(t.root, jobs)
	t.root.State = LoadLoaded
	t.root.Expanded = true
	t.rebuildFlat()
}

// LoadFailed rolls the root back to unloaded after a failed hierarchy
// fetch. No partial child list is committed; a refresh retries.
func (t *TreeModel) LoadFailed() {
	if t.root.State == LoadLoading {
		t.root.State = LoadUnloaded
	}
}

// appendChildren creates one child per descriptor and appends it to parent.
// Unmapped type tags and missing colors degrade to KindUnknown/StatusNone
// rather than failing the load.
func (t *TreeModel) appendChildren(parent *JobNode, seeds []jenkins.RawJob) {
	for _, seed := range seeds {
		child := &JobNode{
			Name:   DeriveName(seed.URL, t.base),
			Label:  displayLabel(seed.Name),
			Path:   DerivePath(seed.URL, t.base),
			Kind:   KindForClass(seed.Class),
			Status: jenkins.ParseStatus(seed.Color),
			Seed:   seed.Jobs,
			State:  LoadUnloaded,
			Depth:  parent.Depth + 1,
			Parent: parent,
		}
		t.addNode(child)
		parent.Children = append(parent.Children, child)
	}
}

// addNode registers a node in the arena and assigns its stable ID.
func (t *TreeModel) addNode(node *JobNode) {
	node.ID = len(t.arena)
	t.arena = append(t.arena, node)
}

// Toggle flips the expand state of a loaded node. No network call.
func (t *TreeModel) Toggle(node *JobNode) {
	if node.State != LoadLoaded {
		return
	}
	node.Expanded = !node.Expanded
	t.rebuildFlat()
}

// Activate dispatches activation of the cursor node.
func (t *TreeModel) Activate() tea.Cmd {
	return t.activateNode(t.CurrentNode())
}

// activateNode is the interaction entry point, dispatching by kind:
// jobs and the root emit navigation messages without mutating the tree;
// containers load from their captured seed on first activation and toggle
// afterwards.
func (t *TreeModel) activateNode(node *JobNode) tea.Cmd {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case KindJob:
		name, path := node.Name, node.Path
		return func() tea.Msg {
			return JobSelectedMsg{Name: name, Path: path}
		}

	case KindRoot:
		return func() tea.Msg {
			return RootSelectedMsg{}
		}

	default:
		if node.State == LoadUnloaded {
			// Container children materialize from the descriptors captured
			// when the node was created; no network call is involved.
			t.appendChildren(node, node.Seed)
			node.State = LoadLoaded
			node.Expanded = true
			t.rebuildFlat()
		} else {
			t.Toggle(node)
		}
		return nil
	}
}

// CurrentNode returns the node under the cursor, or nil for an empty tree.
func (t *TreeModel) CurrentNode() *JobNode {
	if t.cursor < 0 || t.cursor >= len(t.flat) {
		return nil
	}
	return t.flat[t.cursor]
}

// Root returns the root node.
func (t *TreeModel) Root() *JobNode {
	return t.root
}

// NodeCount returns the number of visible nodes.
func (t *TreeModel) NodeCount() int {
	return len(t.flat)
}

// CacheLen returns the number of cached label renders.
func (t *TreeModel) CacheLen() int {
	return t.cache.len()
}

// SetFocus records whether the tree pane has keyboard focus; focus feeds
// the cursor highlight.
func (t *TreeModel) SetFocus(focused bool) {
	t.focused = focused
}

// Focused reports whether the tree pane has keyboard focus.
func (t *TreeModel) Focused() bool {
	return t.focused
}

// SetSize updates the pane dimensions. Label layout depends on the width,
// so a width change invalidates the render cache wholesale; cached entries
// are only ever reused against unchanged inputs.
func (t *TreeModel) SetSize(width, height int) {
	if width != t.width {
		t.cache = newLabelCache(labelCacheCapacity)
	}
	t.width = width
	t.height = height
	t.ensureCursorVisible()
}

// ── Cursor and viewport ──

func (t *TreeModel) CursorUp() {
	if t.cursor > 0 {
		t.cursor--
	}
	t.ensureCursorVisible()
}

func (t *TreeModel) CursorDown() {
	if t.cursor < len(t.flat)-1 {
		t.cursor++
	}
	t.ensureCursorVisible()
}

func (t *TreeModel) CursorTop() {
	t.cursor = 0
	t.ensureCursorVisible()
}

func (t *TreeModel) CursorBottom() {
	if len(t.flat) > 0 {
		t.cursor = len(t.flat) - 1
	}
	t.ensureCursorVisible()
}

// PageDown moves the cursor forward by one viewport page.
func (t *TreeModel) PageDown() {
	page := t.visibleCount()
	t.cursor += page
	if t.cursor >= len(t.flat) {
		t.cursor = len(t.flat) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.ensureCursorVisible()
}

// PageUp moves the cursor backward by one viewport page.
func (t *TreeModel) PageUp() {
	t.cursor -= t.visibleCount()
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.ensureCursorVisible()
}

// NodeAtLine maps a rendered line index (relative to the pane top) to the
// node displayed there, or nil.
func (t *TreeModel) NodeAtLine(line int) *JobNode {
	idx := t.offset + line
	if line < 0 || idx < 0 || idx >= len(t.flat) {
		return nil
	}
	// The line must fall inside the rendered window.
	if line >= t.visibleCount() {
		return nil
	}
	return t.flat[idx]
}

// HoverLine marks the node at the given pane line as hovered.
func (t *TreeModel) HoverLine(line int) {
	if node := t.NodeAtLine(line); node != nil {
		t.hoverID = node.ID
		return
	}
	t.hoverID = -1
}

// ClearHover removes any hover highlight.
func (t *TreeModel) ClearHover() {
	t.hoverID = -1
}

// ClickLine moves the cursor to the node at the given pane line and
// activates it.
func (t *TreeModel) ClickLine(line int) tea.Cmd {
	node := t.NodeAtLine(line)
	if node == nil {
		return nil
	}
	t.cursor = t.offset + line
	t.ensureCursorVisible()
	return t.activateNode(node)
}

// rebuildFlat rebuilds the flattened list of visible nodes and clamps the
// cursor.
func (t *TreeModel) rebuildFlat() {
	t.flat = t.flat[:0]
	t.appendVisible(t.root)

	if t.cursor >= len(t.flat) {
		t.cursor = len(t.flat) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.ensureCursorVisible()
}

// appendVisible adds a node and, when it is loaded and expanded, its
// visible descendants.
func (t *TreeModel) appendVisible(node *JobNode) {
	t.flat = append(t.flat, node)
	if node.State == LoadLoaded && node.Expanded {
		for _, child := range node.Children {
			t.appendVisible(child)
		}
	}
}

// visibleCount returns how many node rows fit in the pane, reserving one
// line for the position indicator when scrolling is needed.
func (t *TreeModel) visibleCount() int {
	count := t.height
	if count <= 0 {
		count = 20
	}
	if len(t.flat) > count && count > 1 {
		count--
	}
	return count
}

// ensureCursorVisible scrolls the viewport just enough to keep the cursor
// on screen.
func (t *TreeModel) ensureCursorVisible() {
	if len(t.flat) == 0 {
		t.offset = 0
		return
	}

	count := t.visibleCount()
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+count {
		t.offset = t.cursor - count + 1
	}

	maxOffset := len(t.flat) - count
	if maxOffset < 0 {
		maxOffset = 0
	}
	if t.offset > maxOffset {
		t.offset = maxOffset
	}
	if t.offset < 0 {
		t.offset = 0
	}
}

// ── Rendering ──

// View renders the visible window of the tree.
func (t *TreeModel) View() string {
	var sb strings.Builder

	count := t.visibleCount()
	end := t.offset + count
	if end > len(t.flat) {
		end = len(t.flat)
	}

	for i := t.offset; i < end; i++ {
		node := t.flat[i]
		sb.WriteString(t.RenderLabel(node, i == t.cursor, node.ID == t.hoverID, t.focused))
		sb.WriteString("\n")
	}

	if len(t.flat) > count {
		indicator := fmt.Sprintf(" %d-%d of %d", t.offset+1, end, len(t.flat))
		sb.WriteString(t.theme.Dim.Render(truncate(indicator, t.width)))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// RenderLabel produces the styled label line for a node. It is a pure
// function of the node's identity, kind and expand state plus the three
// visual flags; results are cached under that full tuple in the bounded
// LRU.
func (t *TreeModel) RenderLabel(node *JobNode, isCursor, isHover, hasFocus bool) string {
	key := labelKey{
		nodeID:   node.ID,
		kind:     node.Kind,
		expanded: node.Expanded,
		isCursor: isCursor,
		isHover:  isHover,
		hasFocus: hasFocus,
	}
	if rendered, ok := t.cache.get(key); ok {
		return rendered
	}

	rendered := t.renderLabel(node, isCursor, isHover, hasFocus)
	t.cache.put(key, rendered)
	return rendered
}

func (t *TreeModel) renderLabel(node *JobNode, isCursor, isHover, hasFocus bool) string {
	var icon string
	var style = t.theme.LeafNode

	switch node.Kind {
	case KindRoot:
		icon = "📂"
		style = t.theme.RootNode
	case KindFolder:
		if node.Expanded {
			icon = "📂"
		} else {
			icon = "📁"
		}
		style = t.theme.FolderNode
	case KindMultibranch:
		icon = "🌱"
		style = t.theme.MultibranchNode
	default:
		var ok bool
		if icon, ok = statusIcons[node.Status]; !ok {
			icon = "?"
		}
	}

	if isHover {
		style = style.Inherit(t.theme.HoverLine)
	}
	if isCursor && hasFocus {
		style = style.Inherit(t.theme.CursorLine)
	}

	indent := strings.Repeat("  ", node.Depth)
	width := t.width
	if width <= 0 {
		width = 38
	}
	text := truncate(indent+icon+" "+node.Label, width)
	return style.Render(text)
}
