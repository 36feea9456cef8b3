package template

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a civil date with no time-of-day or zone.
type Date struct {
	t time.Time
}

// NewDate returns the date y-m-d.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return Date{t: t}, nil
}

// Today returns the current local date.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(dateLayout)
}

// AddDate adds years, months and days with calendar normalization.
func (d Date) AddDate(years, months, days int) Date {
	return Date{t: d.t.AddDate(years, months, days)}
}

// UnmarshalTOML accepts a TOML local date or a YYYY-MM-DD string.
func (d *Date) UnmarshalTOML(v any) error {
	switch tv := v.(type) {
	case time.Time:
		*d = NewDate(tv.Year(), tv.Month(), tv.Day())
		return nil
	case string:
		parsed, err := ParseDate(tv)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("invalid date value %v (expected YYYY-MM-DD)", v)
	}
}

// Offset is a signed calendar delta applied to a base date.
type Offset struct {
	Years  int
	Months int
	Weeks  int
	Days   int
}

// Apply returns base shifted by o. Years and months are applied before days.
func (o Offset) Apply(base Date) Date {
	return base.AddDate(o.Years, o.Months, o.Weeks*7+o.Days)
}

func (o Offset) String() string {
	var parts []string
	for _, p := range []struct {
		n    int
		unit string
	}{{o.Years, "y"}, {o.Months, "m"}, {o.Weeks, "w"}, {o.Days, "d"}} {
		if p.n != 0 {
			parts = append(parts, fmt.Sprintf("%+d%s", p.n, p.unit))
		}
	}
	if len(parts) == 0 {
		return "+0d"
	}
	return strings.Join(parts, "")
}

type dueKind int

const (
	dueNone dueKind = iota
	dueLiteral
	dueRelative
	// duePending holds a string with {placeholders}; it is parsed after
	// substitution.
	duePending
	dueInvalid
)

// DueDate is either a literal date or an Offset from the base date. Malformed
// values are kept so the resolver can report them with the ticket path.
type DueDate struct {
	kind   dueKind
	date   Date
	offset Offset
	raw    string
}

// LiteralDue returns a DueDate fixed to d.
func LiteralDue(d Date) DueDate { return DueDate{kind: dueLiteral, date: d} }

// RelativeDue returns a DueDate resolved against the base date.
func RelativeDue(o Offset) DueDate { return DueDate{kind: dueRelative, offset: o} }

func (d DueDate) IsSet() bool      { return d.kind != dueNone }
func (d DueDate) IsRelative() bool { return d.kind == dueRelative }

// compactOffset matches "+5d", "-2w", "1m", "+1y".
var compactOffset = regexp.MustCompile(`^([+-]?\d+)([dwmy])$`)

// UnmarshalTOML accepts a local date, a YYYY-MM-DD string, the compact
// "[+-]<n><d|w|m|y>" string, or a table of signed days/weeks/months/years.
func (d *DueDate) UnmarshalTOML(v any) error {
	switch tv := v.(type) {
	case time.Time:
		*d = LiteralDue(NewDate(tv.Year(), tv.Month(), tv.Day()))
	case string:
		*d = parseDueString(tv)
	case map[string]any:
		*d = parseDueTable(tv)
	default:
		*d = DueDate{kind: dueInvalid, raw: fmt.Sprint(v)}
	}
	return nil
}

func parseDueString(s string) DueDate {
	s = strings.TrimSpace(s)
	if m := compactOffset.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return DueDate{kind: dueInvalid, raw: s}
		}
		var o Offset
		switch m[2] {
		case "d":
			o.Days = n
		case "w":
			o.Weeks = n
		case "m":
			o.Months = n
		case "y":
			o.Years = n
		}
		return RelativeDue(o)
	}
	date, err := ParseDate(s)
	if err != nil {
		if strings.Contains(s, "{") {
			return DueDate{kind: duePending, raw: s}
		}
		return DueDate{kind: dueInvalid, raw: s}
	}
	return LiteralDue(date)
}

func parseDueTable(tbl map[string]any) DueDate {
	var o Offset
	fields := map[string]*int{
		"days":   &o.Days,
		"weeks":  &o.Weeks,
		"months": &o.Months,
		"years":  &o.Years,
	}
	if len(tbl) == 0 {
		return DueDate{kind: dueInvalid, raw: "{}"}
	}
	for k, v := range tbl {
		dst, ok := fields[k]
		if !ok {
			return DueDate{kind: dueInvalid, raw: describeTable(tbl)}
		}
		n, ok := v.(int64)
		if !ok {
			return DueDate{kind: dueInvalid, raw: describeTable(tbl)}
		}
		*dst = int(n)
	}
	return RelativeDue(o)
}

func describeTable(tbl map[string]any) string {
	keys := make([]string, 0, len(tbl))
	for k := range tbl {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s = %v", k, tbl[k]))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}
