package template

import (
	"fmt"
	"strings"
)

// Substitute replaces every {name} in s with vars[name]. "{{" and "}}" render
// as literal braces. A string without placeholders is returned unchanged.
// Failures are *SubstitutionError without Path or Field set.
func Substitute(s string, vars map[string]string) (string, error) {
	if !strings.ContainsAny(s, "{}") {
		return s, nil
	}

	var result strings.Builder
	i := 0
	for i < len(s) {
		switch s[i] {
		case '{':
			if i+1 < len(s) && s[i+1] == '{' {
				result.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(s[i+1:], '}')
			if end < 0 {
				return "", &SubstitutionError{Reason: fmt.Sprintf("unmatched '{' at position %d", i)}
			}
			name := s[i+1 : i+1+end]
			if strings.ContainsRune(name, '{') {
				return "", &SubstitutionError{Reason: fmt.Sprintf("unmatched '{' at position %d", i)}
			}
			if name == "" {
				return "", &SubstitutionError{Reason: fmt.Sprintf("empty placeholder at position %d", i)}
			}
			val, ok := vars[name]
			if !ok {
				return "", &SubstitutionError{Key: name}
			}
			result.WriteString(val)
			i += end + 2
		case '}':
			if i+1 < len(s) && s[i+1] == '}' {
				result.WriteByte('}')
				i += 2
				continue
			}
			return "", &SubstitutionError{Reason: fmt.Sprintf("single '}' at position %d", i)}
		default:
			result.WriteByte(s[i])
			i++
		}
	}
	return result.String(), nil
}
