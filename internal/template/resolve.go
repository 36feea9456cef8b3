package template

import (
	"errors"
	"fmt"
	"strings"
)

// ResolvedTicket is a TicketSpec after date resolution, substitution and
// validation, ready for submission.
type ResolvedTicket struct {
	Path        string
	Summary     string
	IssueType   string
	Priority    string
	Description string
	DueDate     Date
	Version     string
	Milestone   string
	Assignee    string
}

// ResolvedGroup is a parent ticket and its children in submission order.
type ResolvedGroup struct {
	Parent   ResolvedTicket
	Children []ResolvedTicket
}

// Size returns the number of issues the group posts.
func (g ResolvedGroup) Size() int {
	return 1 + len(g.Children)
}

// Resolver turns TicketSpecs into ResolvedTickets. The zero BaseDate means
// no base date is configured.
type Resolver struct {
	BaseDate Date
	Vars     map[string]string
	Catalog  Catalog
}

// Resolve runs date resolution, then substitution, then validation on spec.
// All problems found are returned together via errors.Join.
func (r Resolver) Resolve(path string, spec TicketSpec) (ResolvedTicket, error) {
	t := ResolvedTicket{Path: path}
	var errs []error
	skip := map[string]bool{}

	due, err := r.resolveDue(path, spec.DueDate)
	if err != nil {
		errs = append(errs, err)
	}
	t.DueDate = due

	stringFields := []struct {
		name string
		src  string
		dst  *string
	}{
		{"summary", spec.Summary, &t.Summary},
		{"issueType", spec.IssueType, &t.IssueType},
		{"priority", spec.Priority, &t.Priority},
		{"description", spec.Description, &t.Description},
		{"version", spec.Version, &t.Version},
		{"milestone", spec.Milestone, &t.Milestone},
		{"assignee", spec.Assignee, &t.Assignee},
	}
	for _, f := range stringFields {
		v, err := Substitute(f.src, r.Vars)
		if err != nil {
			var se *SubstitutionError
			if errors.As(err, &se) {
				se.Path = path
				se.Field = f.name
			}
			errs = append(errs, err)
			skip[f.name] = true
			continue
		}
		*f.dst = v
	}

	errs = append(errs, validateTicket(&t, r.Catalog, skip)...)

	if len(errs) > 0 {
		return ResolvedTicket{}, errors.Join(errs...)
	}
	return t, nil
}

func (r Resolver) resolveDue(path string, due DueDate) (Date, error) {
	switch due.kind {
	case dueNone:
		return Date{}, nil
	case dueLiteral:
		return due.date, nil
	case dueRelative:
		if r.BaseDate.IsZero() {
			return Date{}, &ConfigError{
				Path:   path,
				Field:  "dueDate",
				Reason: fmt.Sprintf("relative due date %s requires config.baseDate", due.offset),
			}
		}
		return due.offset.Apply(r.BaseDate), nil
	case duePending:
		v, err := Substitute(due.raw, r.Vars)
		if err != nil {
			var se *SubstitutionError
			if errors.As(err, &se) {
				se.Path = path
				se.Field = "dueDate"
			}
			return Date{}, err
		}
		resolved := parseDueString(v)
		if resolved.kind == duePending {
			resolved = DueDate{kind: dueInvalid, raw: v}
		}
		return r.resolveDue(path, resolved)
	default:
		return Date{}, &ConfigError{
			Path:   path,
			Field:  "dueDate",
			Reason: fmt.Sprintf("invalid value %q (expected YYYY-MM-DD, [+-]<n><d|w|m|y> or an offset table)", due.raw),
		}
	}
}

// ResolveGroup resolves a parent and its children. Nothing is returned
// unless every ticket in the group resolves.
func (r Resolver) ResolveGroup(path string, spec TicketSpec) (ResolvedGroup, error) {
	var errs []error

	parent, err := r.Resolve(path, spec)
	if err != nil {
		errs = append(errs, err)
	}

	children := make([]ResolvedTicket, 0, len(spec.Children))
	for i, cs := range spec.Children {
		childPath := fmt.Sprintf("%s.children[%d]", path, i)
		if len(cs.Children) > 0 {
			errs = append(errs, &ConfigError{
				Path:   childPath,
				Field:  "children",
				Reason: "children cannot have their own children",
			})
		}
		child, err := r.Resolve(childPath, cs)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		children = append(children, child)
	}

	if len(errs) > 0 {
		return ResolvedGroup{}, errors.Join(errs...)
	}
	return ResolvedGroup{Parent: parent, Children: children}, nil
}

// ResolveDocument resolves every top-level entry of doc.
func (r Resolver) ResolveDocument(doc *Document) ([]ResolvedGroup, error) {
	errs := ValidateTarget(doc)
	if len(doc.Issues) == 0 {
		errs = append(errs, &ConfigError{Field: "issues", Reason: "at least one issue is required"})
	}

	groups := make([]ResolvedGroup, 0, len(doc.Issues))
	for i, spec := range doc.Issues {
		g, err := r.ResolveGroup(fmt.Sprintf("issues[%d]", i), spec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		groups = append(groups, g)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return groups, nil
}

// ValidateTarget checks the target section.
func ValidateTarget(doc *Document) []error {
	var errs []error
	if strings.TrimSpace(doc.Target.Host) == "" {
		errs = append(errs, &ConfigError{Field: "target.host", Reason: "is required"})
	}
	if strings.TrimSpace(doc.Target.Project) == "" {
		errs = append(errs, &ConfigError{Field: "target.project", Reason: "is required"})
	}
	return errs
}
