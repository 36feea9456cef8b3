package template

import (
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/backlogtmpl/internal/backlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *backlog.Metadata {
	return backlog.NewMetadata("PRJ", 100, map[backlog.Category]map[string]int64{
		backlog.CategoryPriorities: {"High": 2, "Normal": 3},
		backlog.CategoryIssueTypes: {"Task": 10, "Bug": 11},
		backlog.CategoryVersions:   {"v1.0": 20, "M1": 21},
		backlog.CategoryUsers:      {"Alice": 30},
	})
}

func minimalSpec() TicketSpec {
	return TicketSpec{Summary: "Design", IssueType: "Task", Priority: "Normal"}
}

func TestResolve_Minimal(t *testing.T) {
	r := Resolver{Catalog: testCatalog()}

	got, err := r.Resolve("issues[0]", minimalSpec())

	require.NoError(t, err)
	assert.Equal(t, ResolvedTicket{Path: "issues[0]", Summary: "Design", IssueType: "Task", Priority: "Normal"}, got)
}

func TestResolve_AllFields(t *testing.T) {
	r := Resolver{
		BaseDate: NewDate(2024, time.January, 1),
		Vars:     map[string]string{"n": "3", "who": "Alice", "ver": "v1.0"},
		Catalog:  testCatalog(),
	}
	spec := TicketSpec{
		Summary:     "Sprint {n}",
		IssueType:   "Task",
		Priority:    "High",
		Description: "Planning for sprint {n}",
		DueDate:     RelativeDue(Offset{Days: 5}),
		Version:     "{ver}",
		Milestone:   "M1",
		Assignee:    "{who}",
	}

	got, err := r.Resolve("issues[0]", spec)

	require.NoError(t, err)
	assert.Equal(t, "Sprint 3", got.Summary)
	assert.Equal(t, "Planning for sprint 3", got.Description)
	assert.Equal(t, "2024-01-06", got.DueDate.String())
	assert.Equal(t, "v1.0", got.Version)
	assert.Equal(t, "M1", got.Milestone)
	assert.Equal(t, "Alice", got.Assignee)
}

func TestResolve_LiteralDatePassesThroughWithoutBaseDate(t *testing.T) {
	r := Resolver{Catalog: testCatalog()}
	spec := minimalSpec()
	spec.DueDate = LiteralDue(NewDate(2024, time.March, 31))

	got, err := r.Resolve("issues[0]", spec)

	require.NoError(t, err)
	assert.Equal(t, "2024-03-31", got.DueDate.String())
}

func TestResolve_RelativeDateWithoutBaseDate(t *testing.T) {
	r := Resolver{Catalog: testCatalog()}
	spec := minimalSpec()
	spec.DueDate = RelativeDue(Offset{Days: 5})

	_, err := r.Resolve("issues[0]", spec)

	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "dueDate", ce.Field)
	assert.Contains(t, err.Error(), "requires config.baseDate")
}

func TestResolve_InvalidDueDate(t *testing.T) {
	r := Resolver{Catalog: testCatalog()}
	spec := minimalSpec()
	spec.DueDate = parseDueString("2024-13-01")

	_, err := r.Resolve("issues[0]", spec)

	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, err.Error(), `"2024-13-01"`)
}

func TestResolve_DueDatePlaceholder(t *testing.T) {
	tests := []struct {
		name string
		due  string
		vars map[string]string
		want string
	}{
		{"literal date", "{deadline}", map[string]string{"deadline": "2024-02-10"}, "2024-02-10"},
		{"compact offset", "+{lead}d", map[string]string{"lead": "3"}, "2024-01-04"},
		{"embedded", "2024-{month}-01", map[string]string{"month": "06"}, "2024-06-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Resolver{BaseDate: NewDate(2024, time.January, 1), Vars: tt.vars, Catalog: testCatalog()}
			spec := minimalSpec()
			spec.DueDate = parseDueString(tt.due)

			got, err := r.Resolve("issues[0]", spec)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.DueDate.String())
		})
	}
}

func TestResolve_DueDatePlaceholderErrors(t *testing.T) {
	r := Resolver{Vars: map[string]string{"deadline": "soon"}, Catalog: testCatalog()}

	spec := minimalSpec()
	spec.DueDate = parseDueString("{missing}")
	_, err := r.Resolve("issues[0]", spec)
	var se *SubstitutionError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "dueDate", se.Field)
	assert.Equal(t, "missing", se.Key)

	spec.DueDate = parseDueString("{deadline}")
	_, err = r.Resolve("issues[0]", spec)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, err.Error(), `"soon"`)
}

func TestResolve_DueDateValueIsNotReexpanded(t *testing.T) {
	r := Resolver{Vars: map[string]string{"d": "{d}"}, Catalog: testCatalog()}
	spec := minimalSpec()
	spec.DueDate = parseDueString("{d}")

	_, err := r.Resolve("issues[0]", spec)

	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, err.Error(), `"{d}"`)
}

func TestResolve_MissingMandatoryFields(t *testing.T) {
	for _, field := range []string{"summary", "issueType", "priority"} {
		t.Run(field, func(t *testing.T) {
			spec := minimalSpec()
			switch field {
			case "summary":
				spec.Summary = ""
			case "issueType":
				spec.IssueType = ""
			case "priority":
				spec.Priority = "  "
			}

			_, err := Resolver{Catalog: testCatalog()}.Resolve("issues[2]", spec)

			var mfe *MissingFieldError
			require.ErrorAs(t, err, &mfe)
			assert.Equal(t, field, mfe.Field)
			assert.Equal(t, "issues[2]", mfe.Path)
			var ure *UnknownReferenceError
			assert.False(t, errors.As(err, &ure), "missing field must not also be reported as unknown")
		})
	}
}

func TestResolve_UnknownReferences(t *testing.T) {
	tests := []struct {
		field string
		mut   func(*TicketSpec)
		value string
	}{
		{"issueType", func(s *TicketSpec) { s.IssueType = "Epic" }, "Epic"},
		{"priority", func(s *TicketSpec) { s.Priority = "Urgent" }, "Urgent"},
		{"version", func(s *TicketSpec) { s.Version = "v9" }, "v9"},
		{"milestone", func(s *TicketSpec) { s.Milestone = "M9" }, "M9"},
		{"assignee", func(s *TicketSpec) { s.Assignee = "Mallory" }, "Mallory"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			spec := minimalSpec()
			tt.mut(&spec)

			_, err := Resolver{Catalog: testCatalog()}.Resolve("issues[0]", spec)

			var ure *UnknownReferenceError
			require.ErrorAs(t, err, &ure)
			assert.Equal(t, tt.field, ure.Field)
			assert.Equal(t, tt.value, ure.Value)
			assert.NotEmpty(t, ure.Known)
		})
	}
}

func TestResolve_MilestoneUsesVersionsMapping(t *testing.T) {
	spec := minimalSpec()
	spec.Milestone = "v1.0"

	_, err := Resolver{Catalog: testCatalog()}.Resolve("issues[0]", spec)

	assert.NoError(t, err)
}

func TestResolve_SubstitutionErrorNamesKey(t *testing.T) {
	spec := minimalSpec()
	spec.Summary = "Sprint {n}"

	_, err := Resolver{Catalog: testCatalog()}.Resolve("issues[0]", spec)

	var se *SubstitutionError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "n", se.Key)
	assert.Equal(t, "summary", se.Field)
	assert.Equal(t, "issues[0].summary: no value for placeholder {n}", err.Error())
}

func TestResolve_SubstitutionRunsBeforeValidation(t *testing.T) {
	spec := minimalSpec()
	spec.IssueType = "{kind}"

	r := Resolver{Vars: map[string]string{"kind": "Bug"}, Catalog: testCatalog()}
	got, err := r.Resolve("issues[0]", spec)
	require.NoError(t, err)
	assert.Equal(t, "Bug", got.IssueType)

	// an unresolved reference field is reported once, as a substitution error
	r.Vars = nil
	_, err = r.Resolve("issues[0]", spec)
	var ure *UnknownReferenceError
	assert.False(t, errors.As(err, &ure))
	var se *SubstitutionError
	assert.True(t, errors.As(err, &se))
}

func TestResolve_CollectsAllErrors(t *testing.T) {
	spec := TicketSpec{Summary: "{x}", IssueType: "Epic", DueDate: RelativeDue(Offset{Days: 1})}

	_, err := Resolver{Catalog: testCatalog()}.Resolve("issues[0]", spec)

	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "requires config.baseDate")
	assert.Contains(t, msg, "placeholder {x}")
	assert.Contains(t, msg, `missing mandatory field "priority"`)
	assert.Contains(t, msg, `"Epic" is not a valid value for "issueType"`)
}

func TestResolveGroup_Children(t *testing.T) {
	parent := minimalSpec()
	parent.Children = []TicketSpec{
		{Summary: "Child {n}", IssueType: "Task", Priority: "Normal"},
		{Summary: "Second", IssueType: "Bug", Priority: "High"},
	}
	r := Resolver{Vars: map[string]string{"n": "1"}, Catalog: testCatalog()}

	g, err := r.ResolveGroup("issues[0]", parent)

	require.NoError(t, err)
	assert.Equal(t, 3, g.Size())
	assert.Equal(t, "Design", g.Parent.Summary)
	require.Len(t, g.Children, 2)
	assert.Equal(t, "Child 1", g.Children[0].Summary)
	assert.Equal(t, "issues[0].children[0]", g.Children[0].Path)
	assert.Equal(t, "issues[0].children[1]", g.Children[1].Path)
}

func TestResolveGroup_InvalidChildFailsWholeGroup(t *testing.T) {
	parent := minimalSpec()
	parent.Children = []TicketSpec{{Summary: "x", IssueType: "Task"}}

	_, err := Resolver{Catalog: testCatalog()}.ResolveGroup("issues[0]", parent)

	var mfe *MissingFieldError
	require.ErrorAs(t, err, &mfe)
	assert.Equal(t, "issues[0].children[0]", mfe.Path)
	assert.Equal(t, "priority", mfe.Field)
}

func TestResolveGroup_RejectsGrandchildren(t *testing.T) {
	child := minimalSpec()
	child.Children = []TicketSpec{minimalSpec()}
	parent := minimalSpec()
	parent.Children = []TicketSpec{child}

	_, err := Resolver{Catalog: testCatalog()}.ResolveGroup("issues[0]", parent)

	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "issues[0].children[0].children: children cannot have their own children", ce.Error())
}

func TestResolveDocument(t *testing.T) {
	doc := &Document{
		Target: Target{Host: "x.example", Project: "PRJ"},
		Issues: []TicketSpec{minimalSpec(), minimalSpec()},
	}

	groups, err := Resolver{Catalog: testCatalog()}.ResolveDocument(doc)

	require.NoError(t, err)
	assert.Len(t, groups, 2)
	assert.Equal(t, "issues[1]", groups[1].Parent.Path)
}

func TestResolveDocument_StructuralErrors(t *testing.T) {
	_, err := Resolver{Catalog: testCatalog()}.ResolveDocument(&Document{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "target.host: is required")
	assert.Contains(t, err.Error(), "target.project: is required")
	assert.Contains(t, err.Error(), "issues: at least one issue is required")
}

func TestResolveDocument_LaterEntryErrorReturnsNothing(t *testing.T) {
	bad := minimalSpec()
	bad.Priority = "Urgent"
	doc := &Document{
		Target: Target{Host: "x.example", Project: "PRJ"},
		Issues: []TicketSpec{minimalSpec(), bad},
	}

	groups, err := Resolver{Catalog: testCatalog()}.ResolveDocument(doc)

	assert.Nil(t, groups)
	var ure *UnknownReferenceError
	require.ErrorAs(t, err, &ure)
	assert.Equal(t, "issues[1]", ure.Path)
}
