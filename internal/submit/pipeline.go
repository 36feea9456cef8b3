// Package submit posts resolved ticket groups to Backlog: the parent first,
// then each child with the parent's id attached, strictly in order.
package submit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/backlogtmpl/internal/backlog"
	"github.com/alexanderramin/backlogtmpl/internal/template"
)

// IssueCreator posts a single issue. *backlog.Client implements it.
type IssueCreator interface {
	CreateIssue(ctx context.Context, p backlog.IssuePayload) (*backlog.Issue, error)
}

// Pipeline submits groups for one project.
type Pipeline struct {
	creator  IssueCreator
	metadata *backlog.Metadata
	logger   *slog.Logger
}

// NewPipeline creates a Pipeline that maps names to ids through metadata.
func NewPipeline(creator IssueCreator, metadata *backlog.Metadata, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{creator: creator, metadata: metadata, logger: logger}
}

// Submit posts the parent, then each child in order with parentIssueId set.
// The first failure stops the group; issues already posted stay posted.
func (p *Pipeline) Submit(ctx context.Context, group template.ResolvedGroup) (Report, error) {
	var report Report

	parent, err := p.post(ctx, &report, RoleParent, group.Parent, nil)
	if err != nil {
		return report, err
	}

	for _, child := range group.Children {
		if _, err := p.post(ctx, &report, RoleChild, child, parent); err != nil {
			return report, err
		}
	}
	return report, nil
}

// SubmitAll submits groups in order and stops at the first failing group.
func (p *Pipeline) SubmitAll(ctx context.Context, groups []template.ResolvedGroup) (Report, error) {
	var report Report
	for _, g := range groups {
		r, err := p.Submit(ctx, g)
		report.Entries = append(report.Entries, r.Entries...)
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

func (p *Pipeline) post(ctx context.Context, report *Report, role Role, t template.ResolvedTicket, parent *backlog.Issue) (*backlog.Issue, error) {
	entry := Entry{Role: role, Path: t.Path, Summary: t.Summary}
	if parent != nil {
		entry.ParentKey = parent.IssueKey
	}

	payload, err := p.payload(t, parent)
	if err != nil {
		entry.Err = err
		report.Entries = append(report.Entries, entry)
		return nil, err
	}

	issue, err := p.creator.CreateIssue(ctx, payload)
	if err != nil {
		err = fmt.Errorf("posting %s %q: %w", t.Path, t.Summary, err)
		entry.Err = err
		report.Entries = append(report.Entries, entry)
		p.logger.ErrorContext(ctx, "issue_post_failed", "path", t.Path, "summary", t.Summary, "error", err.Error())
		return nil, err
	}

	entry.Success = true
	entry.IssueKey = issue.IssueKey
	entry.IssueID = issue.ID
	report.Entries = append(report.Entries, entry)

	if parent != nil {
		p.logger.InfoContext(ctx, "posted child issue", "parent", parent.IssueKey, "key", issue.IssueKey, "summary", t.Summary)
	} else {
		p.logger.InfoContext(ctx, "posted issue", "key", issue.IssueKey, "summary", t.Summary)
	}
	return issue, nil
}

// payload maps resolved names to Backlog ids. Names were validated during
// resolution; a miss here means the ticket was resolved against other metadata.
func (p *Pipeline) payload(t template.ResolvedTicket, parent *backlog.Issue) (backlog.IssuePayload, error) {
	out := backlog.IssuePayload{
		ProjectID:   p.metadata.ProjectID,
		Summary:     t.Summary,
		Description: t.Description,
		DueDate:     t.DueDate.String(),
	}
	if parent != nil {
		out.ParentIssueID = parent.ID
	}

	lookups := []struct {
		field    string
		category backlog.Category
		name     string
		set      func(id int64)
	}{
		{"issueType", backlog.CategoryIssueTypes, t.IssueType, func(id int64) { out.IssueTypeID = id }},
		{"priority", backlog.CategoryPriorities, t.Priority, func(id int64) { out.PriorityID = id }},
		{"version", backlog.CategoryVersions, t.Version, func(id int64) { out.VersionIDs = []int64{id} }},
		{"milestone", backlog.CategoryVersions, t.Milestone, func(id int64) { out.MilestoneIDs = []int64{id} }},
		{"assignee", backlog.CategoryUsers, t.Assignee, func(id int64) { out.AssigneeID = id }},
	}
	for _, l := range lookups {
		if l.name == "" {
			continue
		}
		id, ok := p.metadata.Lookup(l.category, l.name)
		if !ok {
			return backlog.IssuePayload{}, &template.UnknownReferenceError{Path: t.Path, Field: l.field, Value: l.name}
		}
		l.set(id)
	}
	return out, nil
}
