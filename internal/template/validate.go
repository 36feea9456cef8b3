package template

import (
	"strings"

	"github.com/alexanderramin/backlogtmpl/internal/backlog"
)

// Catalog is the name→id lookup a ticket is validated against.
// *backlog.Metadata implements it.
type Catalog interface {
	Lookup(cat backlog.Category, name string) (int64, bool)
	Names(cat backlog.Category) []string
}

// mandatoryFields lists the fields every ticket must set, in report order.
var mandatoryFields = []struct {
	name string
	get  func(*ResolvedTicket) string
}{
	{"summary", func(t *ResolvedTicket) string { return t.Summary }},
	{"issueType", func(t *ResolvedTicket) string { return t.IssueType }},
	{"priority", func(t *ResolvedTicket) string { return t.Priority }},
}

// referenceField binds a ticket field to the metadata category that must
// contain its value.
type referenceField struct {
	name     string
	category backlog.Category
	get      func(*ResolvedTicket) string
}

// referenceFields is the fixed dispatch table for metadata validation.
// Milestones live in the versions mapping.
var referenceFields = []referenceField{
	{"issueType", backlog.CategoryIssueTypes, func(t *ResolvedTicket) string { return t.IssueType }},
	{"priority", backlog.CategoryPriorities, func(t *ResolvedTicket) string { return t.Priority }},
	{"version", backlog.CategoryVersions, func(t *ResolvedTicket) string { return t.Version }},
	{"milestone", backlog.CategoryVersions, func(t *ResolvedTicket) string { return t.Milestone }},
	{"assignee", backlog.CategoryUsers, func(t *ResolvedTicket) string { return t.Assignee }},
}

// validateTicket checks mandatory fields and metadata references. Fields in
// skip already failed an earlier stage and are not checked again.
func validateTicket(t *ResolvedTicket, catalog Catalog, skip map[string]bool) []error {
	var errs []error

	missing := map[string]bool{}
	for _, f := range mandatoryFields {
		if skip[f.name] {
			continue
		}
		if strings.TrimSpace(f.get(t)) == "" {
			errs = append(errs, &MissingFieldError{Path: t.Path, Field: f.name})
			missing[f.name] = true
		}
	}

	if catalog == nil {
		return errs
	}
	for _, f := range referenceFields {
		if skip[f.name] || missing[f.name] {
			continue
		}
		v := f.get(t)
		if v == "" {
			continue
		}
		if _, ok := catalog.Lookup(f.category, v); !ok {
			errs = append(errs, &UnknownReferenceError{
				Path:  t.Path,
				Field: f.name,
				Value: v,
				Known: catalog.Names(f.category),
			})
		}
	}

	return errs
}
