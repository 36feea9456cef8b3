package template

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// LoadDocument reads and parses a TOML template file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ParseDocument parses TOML template text. Unknown keys are rejected so
// typos such as "isuseType" do not silently drop a field.
func ParseDocument(data string) (*Document, error) {
	var doc Document
	md, err := toml.Decode(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}

	var unknown []string
	for _, key := range md.Undecoded() {
		if decodedByUnmarshaler(key) {
			continue
		}
		unknown = append(unknown, key.String())
	}
	if len(unknown) > 0 {
		return nil, &ConfigError{Reason: "unknown keys: " + strings.Join(unknown, ", ")}
	}
	return &doc, nil
}

// unmarshalerPrefixes are the fields that decode themselves. toml.MetaData
// may list their sub-keys as undecoded.
var unmarshalerPrefixes = [][]string{
	{"issues", "dueDate"},
	{"issues", "children", "dueDate"},
	{"config", "baseDate"},
}

func decodedByUnmarshaler(key toml.Key) bool {
	for _, prefix := range unmarshalerPrefixes {
		if len(key) >= len(prefix) && slices.Equal(key[:len(prefix)], prefix) {
			return true
		}
	}
	return false
}
