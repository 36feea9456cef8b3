package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTemplate = `
[target]
host = "x.example"
project = "PRJ"

[config]
baseDate = 2024-01-01

[config.vars]
n = 3
team = "core"

[[issues]]
summary = "Sprint {n}"
issueType = "Task"
priority = "Normal"
dueDate = { days = 5 }

  [[issues.children]]
  summary = "Design for {team}"
  issueType = "Task"
  priority = "Normal"
  dueDate = "+1w"

  [[issues.children]]
  summary = "Review"
  issueType = "Bug"
  priority = "High"
  dueDate = "2024-02-01"

[[issues]]
summary = "Retro"
issueType = "Task"
priority = "Low"
assignee = "Alice"
`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument(sampleTemplate)
	require.NoError(t, err)

	assert.Equal(t, "x.example", doc.Target.Host)
	assert.Equal(t, "PRJ", doc.Target.Project)
	assert.Equal(t, "2024-01-01", doc.Config.BaseDate.String())
	assert.Equal(t, map[string]string{"n": "3", "team": "core"}, doc.Config.Substitutions())

	require.Len(t, doc.Issues, 2)
	parent := doc.Issues[0]
	assert.Equal(t, "Sprint {n}", parent.Summary)
	assert.True(t, parent.DueDate.IsRelative())
	assert.Equal(t, Offset{Days: 5}, parent.DueDate.offset)

	require.Len(t, parent.Children, 2)
	assert.Equal(t, Offset{Weeks: 1}, parent.Children[0].DueDate.offset)
	assert.Equal(t, "2024-02-01", parent.Children[1].DueDate.date.String())

	assert.False(t, doc.Issues[1].DueDate.IsSet())
	assert.Equal(t, "Alice", doc.Issues[1].Assignee)
}

func TestParseDocument_ResolvesEndToEnd(t *testing.T) {
	doc, err := ParseDocument(sampleTemplate)
	require.NoError(t, err)

	r := Resolver{BaseDate: doc.Config.BaseDate, Vars: doc.Config.Substitutions(), Catalog: testCatalog()}
	groups, err := r.ResolveDocument(doc)
	require.NoError(t, err)

	require.Len(t, groups, 2)
	assert.Equal(t, "Sprint 3", groups[0].Parent.Summary)
	assert.Equal(t, "2024-01-06", groups[0].Parent.DueDate.String())
	assert.Equal(t, "Design for core", groups[0].Children[0].Summary)
	assert.Equal(t, "2024-01-08", groups[0].Children[0].DueDate.String())
	assert.Equal(t, "2024-02-01", groups[0].Children[1].DueDate.String())
}

func TestParseDocument_BaseDateAsString(t *testing.T) {
	doc, err := ParseDocument(`
[target]
host = "x.example"
project = "PRJ"
[config]
baseDate = "2024-05-01"
`)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", doc.Config.BaseDate.String())
}

func TestParseDocument_NoConfigSection(t *testing.T) {
	doc, err := ParseDocument(`
[target]
host = "x.example"
project = "PRJ"

[[issues]]
summary = "Design"
issueType = "Task"
priority = "Normal"
`)
	require.NoError(t, err)
	assert.True(t, doc.Config.BaseDate.IsZero())
	assert.Empty(t, doc.Config.Substitutions())
}

func TestParseDocument_UnknownKeyRejected(t *testing.T) {
	_, err := ParseDocument(`
[target]
host = "x.example"
project = "PRJ"

[[issues]]
summary = "Design"
isuseType = "Task"
priority = "Normal"
`)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, err.Error(), "issues.isuseType")
}

func TestParseDocument_StrayDateKeysRejected(t *testing.T) {
	tests := []struct {
		name string
		body string
		key  string
	}{
		{"dueDate under config", "[config]\ndueDate = \"2024-01-01\"\n", "config.dueDate"},
		{"baseDate under target", "[target]\nbaseDate = 2024-01-01\n", "target.baseDate"},
		{"baseDate on an issue", "[[issues]]\nsummary = \"x\"\nbaseDate = 2024-01-01\n", "issues.baseDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument(tt.body)
			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestParseDocument_OffsetTablesAccepted(t *testing.T) {
	doc, err := ParseDocument(`
[[issues]]
summary = "x"
dueDate = { months = 1, days = 5 }

  [[issues.children]]
  summary = "y"
  dueDate = { weeks = -1 }
`)
	require.NoError(t, err)
	assert.True(t, doc.Issues[0].DueDate.IsRelative())
	assert.True(t, doc.Issues[0].Children[0].DueDate.IsRelative())
}

func TestParseDocument_DueDatePlaceholderResolves(t *testing.T) {
	doc, err := ParseDocument(`
[target]
host = "x.example"
project = "PRJ"

[config.vars]
deadline = "2024-02-10"

[[issues]]
summary = "Release"
issueType = "Task"
priority = "Normal"

  [[issues.children]]
  summary = "Freeze"
  issueType = "Task"
  priority = "Normal"
  dueDate = "{deadline}"
`)
	require.NoError(t, err)

	r := Resolver{Vars: doc.Config.Substitutions(), Catalog: testCatalog()}
	groups, err := r.ResolveDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-10", groups[0].Children[0].DueDate.String())
}

func TestParseDocument_InvalidBaseDate(t *testing.T) {
	_, err := ParseDocument(`
[config]
baseDate = "soon"
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing template")
}

func TestLoadDocument(t *testing.T) {
	dir := t.TempDir()

	validPath := filepath.Join(dir, "valid.toml")
	require.NoError(t, os.WriteFile(validPath, []byte(sampleTemplate), 0o644))

	doc, err := LoadDocument(validPath)
	require.NoError(t, err)
	assert.Equal(t, "PRJ", doc.Target.Project)

	invalidPath := filepath.Join(dir, "invalid.toml")
	require.NoError(t, os.WriteFile(invalidPath, []byte(`[target`), 0o644))

	_, err = LoadDocument(invalidPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing template")
	assert.Contains(t, err.Error(), "invalid.toml")

	_, err = LoadDocument(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)
}
