package backlog

import (
	"context"
	"fmt"
	"sort"
)

// Category names one name→id mapping in the metadata cache.
type Category string

const (
	CategoryPriorities Category = "priorities"
	CategoryIssueTypes Category = "issueTypes"
	CategoryVersions   Category = "versions"
	CategoryUsers      Category = "users"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryPriorities, CategoryIssueTypes, CategoryVersions, CategoryUsers}

// MetadataSource is the read side of the Backlog API needed to build Metadata.
// *Client implements it.
type MetadataSource interface {
	Projects(ctx context.Context) ([]Project, error)
	Priorities(ctx context.Context) ([]Priority, error)
	IssueTypes(ctx context.Context, projectID int64) ([]IssueType, error)
	Versions(ctx context.Context, projectID int64) ([]Version, error)
	Users(ctx context.Context, projectID int64) ([]User, error)
}

// Metadata is the run-scoped lookup table from display names to Backlog ids
// for one project. It is read-only once built.
type Metadata struct {
	ProjectKey string
	ProjectID  int64
	index      map[Category]map[string]int64
}

// NewMetadata builds Metadata from already-indexed mappings.
func NewMetadata(projectKey string, projectID int64, index map[Category]map[string]int64) *Metadata {
	m := &Metadata{
		ProjectKey: projectKey,
		ProjectID:  projectID,
		index:      make(map[Category]map[string]int64, len(Categories)),
	}
	for _, cat := range Categories {
		names := make(map[string]int64, len(index[cat]))
		for k, v := range index[cat] {
			names[k] = v
		}
		m.index[cat] = names
	}
	return m
}

// FetchMetadata resolves projectKey to a project id, then fetches priorities
// (space-wide) and issue types, versions and users (project-scoped). The first
// failing request aborts the whole fetch.
func FetchMetadata(ctx context.Context, src MetadataSource, projectKey string) (*Metadata, error) {
	projects, err := src.Projects(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching projects: %w", err)
	}
	projectID, ok := indexBy(projects, func(p Project) (string, int64) { return p.ProjectKey, p.ID })[projectKey]
	if !ok {
		return nil, fmt.Errorf("%w: project key %q", ErrNotFound, projectKey)
	}

	priorities, err := src.Priorities(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching priorities: %w", err)
	}
	issueTypes, err := src.IssueTypes(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("fetching issue types: %w", err)
	}
	versions, err := src.Versions(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("fetching versions: %w", err)
	}
	users, err := src.Users(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("fetching users: %w", err)
	}

	return &Metadata{
		ProjectKey: projectKey,
		ProjectID:  projectID,
		index: map[Category]map[string]int64{
			CategoryPriorities: indexBy(priorities, func(p Priority) (string, int64) { return p.Name, p.ID }),
			CategoryIssueTypes: indexBy(issueTypes, func(t IssueType) (string, int64) { return t.Name, t.ID }),
			CategoryVersions:   indexBy(versions, func(v Version) (string, int64) { return v.Name, v.ID }),
			CategoryUsers:      indexBy(users, func(u User) (string, int64) { return u.Name, u.ID }),
		},
	}, nil
}

// Lookup returns the id registered under name in cat.
func (m *Metadata) Lookup(cat Category, name string) (int64, bool) {
	id, ok := m.index[cat][name]
	return id, ok
}

// Names returns the sorted names known in cat.
func (m *Metadata) Names(cat Category) []string {
	names := make([]string, 0, len(m.index[cat]))
	for n := range m.index[cat] {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of entries in cat.
func (m *Metadata) Count(cat Category) int {
	return len(m.index[cat])
}

// indexBy maps display name to id. Later duplicates win.
func indexBy[T any](items []T, kv func(T) (string, int64)) map[string]int64 {
	out := make(map[string]int64, len(items))
	for _, it := range items {
		k, v := kv(it)
		out[k] = v
	}
	return out
}
