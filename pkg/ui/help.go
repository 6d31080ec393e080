package ui

import (
	"github.com/charmbracelet/glamour"
)

// helpMarkdown is the source of the help overlay, rendered with glamour at
// the current pane width.
const helpMarkdown = `# jenkdash

A terminal dashboard for your CI server.

## Navigation

| Key | Action |
|-----|--------|
| ` + "`↑`/`k`, `↓`/`j`" + ` | Move the tree cursor |
| ` + "`pgup`, `pgdn`" + ` | Move by a page |
| ` + "`g`, `G`" + ` | Jump to top / bottom |
| ` + "`enter`" + ` | Open the selected node |
| ` + "`r`" + ` | Refresh the job tree |
| ` + "`b`" + ` | Toggle the tree sidebar |
| ` + "`y`" + ` | Copy the selected node's URL |
| ` + "`?`" + ` | Toggle this help |
| ` + "`q`" + ` | Quit |

Selecting the root shows the build queue and executor pool. Selecting a job
shows its description, health and recent builds. Folders expand in place;
their contents were captured with the initial tree fetch, so expanding is
instant.

Edits to the configuration file are picked up while the dashboard is
running.
`

// renderHelp renders the help overlay for the given width. A render failure
// falls back to the raw markdown, which is still readable.
func renderHelp(width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
