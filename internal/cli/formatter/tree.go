package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one line of a parent/child listing.
type TreeItem struct {
	Title  string
	Level  int // 0 for parents, 1 for children
	IsLast bool
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
)

// RenderTree draws items with box-drawing connectors and right-aligns the
// detail column.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	maxWidth := 0
	for i, item := range items {
		prefix := ""
		if item.Level > 0 {
			prefix = strings.Repeat("   ", item.Level-1)
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
			prefix = StyleDim.Render(prefix)
		}
		contents[i] = prefix + item.Title
		if w := lipgloss.Width(contents[i]); w > maxWidth {
			maxWidth = w
		}
	}

	var b strings.Builder
	for i, item := range items {
		b.WriteString(contents[i])
		if item.Detail != "" {
			pad := maxWidth - lipgloss.Width(contents[i])
			b.WriteString(strings.Repeat(" ", pad) + "  " + StyleBlue.Render(item.Detail))
		}
		b.WriteString("\n")
	}
	return b.String()
}
