package template

import (
	"fmt"
	"strings"
)

// MissingFieldError reports an absent mandatory field.
type MissingFieldError struct {
	Path  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing mandatory field %q", e.Path, e.Field)
}

// UnknownReferenceError reports a name not present in the project metadata.
type UnknownReferenceError struct {
	Path  string
	Field string
	Value string
	Known []string
}

func (e *UnknownReferenceError) Error() string {
	msg := fmt.Sprintf("%s: %q is not a valid value for %q", e.Path, e.Value, e.Field)
	if len(e.Known) > 0 {
		msg += " (known: " + strings.Join(e.Known, ", ") + ")"
	}
	return msg
}

// SubstitutionError reports a placeholder that could not be replaced.
// Key is empty when the placeholder itself is malformed.
type SubstitutionError struct {
	Path   string
	Field  string
	Key    string
	Reason string
}

func (e *SubstitutionError) Error() string {
	var where string
	switch {
	case e.Path != "" && e.Field != "":
		where = e.Path + "." + e.Field + ": "
	case e.Field != "":
		where = e.Field + ": "
	}
	if e.Key != "" {
		return fmt.Sprintf("%sno value for placeholder {%s}", where, e.Key)
	}
	return where + e.Reason
}

// ConfigError reports a structural problem in the template or run settings.
type ConfigError struct {
	Path   string
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	switch {
	case e.Path != "" && e.Field != "":
		return fmt.Sprintf("%s.%s: %s", e.Path, e.Field, e.Reason)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	case e.Field != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	default:
		return e.Reason
	}
}
