package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/backlogtmpl/internal/backlog"
)

// FormatDoctor renders the outcome of a connectivity check. md may be nil.
func FormatDoctor(host string, space *backlog.Space, md *backlog.Metadata) string {
	var b strings.Builder
	b.WriteString(Header("Doctor"))
	b.WriteString("\n")
	b.WriteString(OK(fmt.Sprintf("credential for %s accepted", Bold(host))) + "\n")
	if space != nil {
		b.WriteString(OK(fmt.Sprintf("space %s (%s)", space.Name, space.SpaceKey)) + "\n")
	}
	if md == nil {
		return b.String()
	}

	b.WriteString(OK(fmt.Sprintf("project %s (id %d)", Bold(md.ProjectKey), md.ProjectID)) + "\n\n")
	rows := make([][]string, 0, len(backlog.Categories))
	for _, cat := range backlog.Categories {
		names := md.Names(cat)
		sample := strings.Join(names, ", ")
		if len(names) > 5 {
			sample = strings.Join(names[:5], ", ") + Dim(fmt.Sprintf(" … +%d", len(names)-5))
		}
		rows = append(rows, []string{string(cat), strconv.Itoa(md.Count(cat)), sample})
	}
	b.WriteString(RenderTable([]string{"Category", "Count", "Names"}, rows))
	return b.String()
}
