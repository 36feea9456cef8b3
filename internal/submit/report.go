package submit

// Role tells whether an entry was a parent or a child post.
type Role string

const (
	RoleParent Role = "parent"
	RoleChild  Role = "child"
)

// Entry records one attempted post.
type Entry struct {
	Role      Role
	Path      string
	Summary   string
	ParentKey string
	IssueKey  string
	IssueID   int64
	Success   bool
	Err       error
}

// Report lists every attempted post in order. Tickets after a failure are
// never attempted and do not appear.
type Report struct {
	Entries []Entry
}

func (r Report) Succeeded() int {
	n := 0
	for _, e := range r.Entries {
		if e.Success {
			n++
		}
	}
	return n
}

func (r Report) Failed() int {
	return len(r.Entries) - r.Succeeded()
}
