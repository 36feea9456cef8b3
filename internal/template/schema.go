package template

import (
	"fmt"
	"sort"
	"time"
)

// Document is the top-level TOML template structure.
type Document struct {
	Target Target       `toml:"target"`
	Config Settings     `toml:"config"`
	Issues []TicketSpec `toml:"issues"`
}

// Target names the Backlog space and project the issues are created in.
type Target struct {
	Host    string `toml:"host"`
	Project string `toml:"project"`
}

// Settings holds the optional base date and substitution variables.
type Settings struct {
	BaseDate Date           `toml:"baseDate"`
	Vars     map[string]any `toml:"vars"`
}

// TicketSpec is one issue definition. Children cannot have children.
type TicketSpec struct {
	Summary     string       `toml:"summary"`
	IssueType   string       `toml:"issueType"`
	Priority    string       `toml:"priority"`
	Description string       `toml:"description"`
	DueDate     DueDate      `toml:"dueDate"`
	Version     string       `toml:"version"`
	Milestone   string       `toml:"milestone"`
	Assignee    string       `toml:"assignee"`
	Children    []TicketSpec `toml:"children"`
}

// Substitutions returns config.vars as strings. TOML integers, floats,
// booleans and local dates are accepted alongside strings.
func (s Settings) Substitutions() map[string]string {
	out := make(map[string]string, len(s.Vars))
	for k, v := range s.Vars {
		switch tv := v.(type) {
		case string:
			out[k] = tv
		case time.Time:
			out[k] = tv.Format(dateLayout)
		default:
			out[k] = fmt.Sprint(tv)
		}
	}
	return out
}

// SortedKeys returns the keys of vars in lexical order.
func SortedKeys(vars map[string]string) []string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
