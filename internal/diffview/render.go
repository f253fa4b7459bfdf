package diffview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sourcegraph/go-diff/diff"
)

var (
	fileHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	hunkHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	addedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("40"))
	removedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	statStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// RenderUnified colorizes a complete unified diff for the output pane.
// Input that does not parse as a unified diff is returned unchanged, so
// interleaved stderr noise still shows up.
func RenderUnified(text string) string {
	fileDiffs, err := diff.ParseMultiFileDiff([]byte(text))
	if err != nil || len(fileDiffs) == 0 {
		return text
	}

	var sb strings.Builder
	var added, deleted int
	for _, fd := range fileDiffs {
		sb.WriteString(fileHeaderStyle.Render(fmt.Sprintf("--- %s", fd.OrigName)))
		sb.WriteString("\n")
		sb.WriteString(fileHeaderStyle.Render(fmt.Sprintf("+++ %s", fd.NewName)))
		sb.WriteString("\n")
		for _, hunk := range fd.Hunks {
			sb.WriteString(hunkHeaderStyle.Render(fmt.Sprintf("@@ -%d,%d +%d,%d @@",
				hunk.OrigStartLine, hunk.OrigLines, hunk.NewStartLine, hunk.NewLines)))
			sb.WriteString("\n")
			for _, line := range strings.Split(strings.TrimSuffix(string(hunk.Body), "\n"), "\n") {
				switch {
				case strings.HasPrefix(line, "+"):
					sb.WriteString(addedStyle.Render(line))
				case strings.HasPrefix(line, "-"):
					sb.WriteString(removedStyle.Render(line))
				default:
					sb.WriteString(line)
				}
				sb.WriteString("\n")
			}
		}
		stat := fd.Stat()
		added += int(stat.Added + stat.Changed)
		deleted += int(stat.Deleted + stat.Changed)
	}

	sb.WriteString(statStyle.Render(fmt.Sprintf("%d file(s) changed, +%d -%d", len(fileDiffs), added, deleted)))
	sb.WriteString("\n")
	return sb.String()
}
