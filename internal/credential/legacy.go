package credential

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// LegacyConfig is the [backlog_template] table of the old
// backlog_template.toml file that kept the API key in plain text.
type LegacyConfig struct {
	APIKey      string `toml:"API_KEY"`
	SpaceDomain string `toml:"SPACE_DOMAIN"`
	ProjectKey  string `toml:"PROJECT_KEY"`
}

// LoadLegacyConfig reads a legacy config file so its key can be moved into
// the keychain with Replace.
func LoadLegacyConfig(path string) (*LegacyConfig, error) {
	var file struct {
		BacklogTemplate LegacyConfig `toml:"backlog_template"`
	}
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("reading legacy config %s: %w", path, err)
	}
	cfg := file.BacklogTemplate
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("legacy config %s: backlog_template.API_KEY is empty", path)
	}
	return &cfg, nil
}
