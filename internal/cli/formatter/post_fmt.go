package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/backlogtmpl/internal/submit"
	"github.com/alexanderramin/backlogtmpl/internal/template"
)

// PlanData is what FormatPlan shows before anything is posted.
type PlanData struct {
	Host       string
	ProjectKey string
	BaseDate   template.Date
	Vars       map[string]string
	Groups     []template.ResolvedGroup
}

// FormatPlan renders the resolved issues as a parent/child tree preceded by
// the target and the effective settings.
func FormatPlan(p PlanData) string {
	var b strings.Builder

	b.WriteString(Header("Target"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Host:      %s\n", Bold(p.Host))
	fmt.Fprintf(&b, "  Project:   %s\n", Bold(p.ProjectKey))
	base := p.BaseDate.String()
	if base == "" {
		base = Dim("(none)")
	}
	fmt.Fprintf(&b, "  Base date: %s\n", base)

	if len(p.Vars) > 0 {
		b.WriteString("\n")
		rows := make([][]string, 0, len(p.Vars))
		for _, k := range template.SortedKeys(p.Vars) {
			rows = append(rows, []string{k, p.Vars[k]})
		}
		b.WriteString(RenderTable([]string{"Variable", "Value"}, rows))
	}

	total := 0
	var items []TreeItem
	for _, g := range p.Groups {
		total += g.Size()
		items = append(items, TreeItem{Title: Bold(g.Parent.Summary), Detail: ticketDetail(g.Parent)})
		for i, c := range g.Children {
			items = append(items, TreeItem{
				Title:  c.Summary,
				Level:  1,
				IsLast: i == len(g.Children)-1,
				Detail: ticketDetail(c),
			})
		}
	}

	b.WriteString("\n")
	b.WriteString(Header(fmt.Sprintf("Issues (%d)", total)))
	b.WriteString("\n")
	b.WriteString(RenderTree(items))
	return b.String()
}

func ticketDetail(t template.ResolvedTicket) string {
	parts := []string{t.IssueType, t.Priority}
	if !t.DueDate.IsZero() {
		parts = append(parts, "due "+t.DueDate.String())
	}
	if t.Version != "" {
		parts = append(parts, "version "+t.Version)
	}
	if t.Milestone != "" {
		parts = append(parts, "milestone "+t.Milestone)
	}
	if t.Assignee != "" {
		parts = append(parts, "@"+t.Assignee)
	}
	return strings.Join(parts, " · ")
}

// FormatReport lists every attempted post with its outcome.
func FormatReport(r submit.Report) string {
	if len(r.Entries) == 0 {
		return Dim("Nothing was posted.") + "\n"
	}

	rows := make([][]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		key := e.IssueKey
		result := StyleGreen.Render("created")
		if !e.Success {
			key = Dim("-")
			result = StyleRed.Render("failed")
		}
		summary := e.Summary
		if e.Role == submit.RoleChild {
			summary = Dim(treeCorner) + summary
		}
		parent := e.ParentKey
		if parent == "" {
			parent = Dim("-")
		}
		rows = append(rows, []string{key, summary, parent, result})
	}

	var b strings.Builder
	b.WriteString(RenderTable([]string{"Key", "Summary", "Parent", "Result"}, rows))
	b.WriteString("\n")
	line := fmt.Sprintf("%d created", r.Succeeded())
	if r.Failed() > 0 {
		b.WriteString(Fail(line+fmt.Sprintf(", %d failed", r.Failed())) + "\n")
	} else {
		b.WriteString(OK(line) + "\n")
	}
	return b.String()
}
