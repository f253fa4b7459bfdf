package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"
)

const helpText = `# sbxpanel

A side panel for the sandbox CLI. The tree shows the staged change set,
grouped by operation.

## Keys

| Key | Action |
| --- | --- |
| enter / space | expand, collapse or run the selected row |
| d | stream a textual diff of the selection |
| v | open a side-by-side diff of the selected file |
| a | accept the selection into the real filesystem |
| x | reject (discard) the selection |
| / | type diff patterns (* within a segment, ** across) |
| g | refresh |
| o | close the output pane |
| q | quit |

Actions such as sync, stop, delete and the overlay folder pivot live
under the **Actions** node.
`

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}

	if m.showHelp {
		return m.helpView
	}

	var sb strings.Builder
	sb.WriteString(m.headerView())
	sb.WriteString("\n")

	if m.confirm != nil {
		sb.WriteString("\n")
		box := confirmStyle.Render(m.confirm.prompt + "\n\n" + helpStyle.Render("y: confirm   n: cancel"))
		sb.WriteString(box)
		sb.WriteString("\n")
		return sb.String()
	}

	treeHeight := m.height - 2 // header and status line
	if m.outputOpen {
		treeHeight -= m.output.Height + 2
	}
	if treeHeight < 1 {
		treeHeight = 1
	}
	sb.WriteString(m.treeView(treeHeight))

	if m.outputOpen {
		sb.WriteString(paneBorderStyle.Width(m.width).Render(headerStyle.Render(" " + m.outputTitle + outputSuffix(m.streaming))))
		sb.WriteString("\n")
		sb.WriteString(m.output.View())
		sb.WriteString("\n")
	}

	sb.WriteString(m.statusView())
	return sb.String()
}

func outputSuffix(streaming bool) string {
	if streaming {
		return " (streaming…)"
	}
	return ""
}

func (m *Model) headerView() string {
	title := titleStyle.Render("sbxpanel")
	var extra string
	if m.busy != "" {
		extra = " " + m.spin.View() + headerStyle.Render(m.busy+"…")
	}
	root := ""
	if len(m.roots) == 1 {
		root = "  " + headerStyle.Render(m.roots[0])
	}
	return title + root + extra
}

func (m *Model) treeView(height int) string {
	if len(m.rows) == 0 {
		return helpStyle.Render("  (empty)") + "\n"
	}

	// Keep the cursor inside the visible window.
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+height {
		m.scroll = m.cursor - height + 1
	}
	end := m.scroll + height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	var sb strings.Builder
	for i := m.scroll; i < end; i++ {
		sb.WriteString(m.rowView(m.rows[i], i == m.cursor))
		sb.WriteString("\n")
	}
	for i := end - m.scroll; i < height; i++ {
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *Model) rowView(r row, selected bool) string {
	indent := strings.Repeat("  ", r.depth)

	marker := "  "
	if r.expandable {
		if r.expanded {
			marker = "▾ "
		} else {
			marker = "▸ "
		}
	}

	var label string
	switch r.kind {
	case rowRoot:
		label = groupStyle.Render(r.label)
	case rowIndicator:
		label = overlayBadgeStyle.Render(r.label)
	case rowActions:
		label = actionStyle.Render(r.label)
	case rowAction:
		label = actionStyle.Render("⚡ " + r.label)
	case rowGroup:
		label = operationStyle(r.group).Render(r.label)
	case rowDir:
		label = dirStyle.Render(r.label + "/")
	case rowFile:
		label = operationStyle(r.group).Render(r.label)
	case rowError:
		label = errorStyle.Render(r.label)
	case rowEmpty:
		label = countStyle.Render(r.label)
	}

	line := indent + marker + label
	if selected {
		return cursorStyle.Render("› ") + line
	}
	return "  " + line
}

func (m *Model) statusView() string {
	if m.patternMode {
		return m.patternInput.View()
	}
	if m.flash != "" {
		style := flashStyle
		if m.flashErr {
			style = errorStyle
		}
		return style.Render(wordwrap.String(m.flash, m.width))
	}
	return helpStyle.Render("enter: expand/run  d: diff  a: accept  x: reject  /: patterns  g: refresh  ?: help  q: quit")
}

func (m *Model) renderHelp() {
	width := m.width - 2
	if width < 20 {
		width = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.helpView = helpText
		return
	}
	out, err := renderer.Render(helpText)
	if err != nil {
		m.helpView = helpText
		return
	}
	m.helpView = out + helpStyle.Render("press any key to close")
}
