package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/backlogtmpl/internal/backlog"
	"github.com/alexanderramin/backlogtmpl/internal/credential"
)

// CredentialService stores, verifies and removes per-host API keys.
type CredentialService struct {
	store    credential.Store
	config   backlog.Config
	observer backlog.Observer
}

func NewCredentialService(store credential.Store, cfg backlog.Config, observer backlog.Observer) *CredentialService {
	return &CredentialService{store: store, config: cfg, observer: observer}
}

// Init stores the key returned by acquire for host. With verify set, the key
// must authenticate against the space before it replaces the current one.
func (s *CredentialService) Init(ctx context.Context, host string, acquire func() (string, error), verify bool) error {
	if strings.TrimSpace(host) == "" {
		return fmt.Errorf("host is required")
	}
	var check func(string) error
	if verify {
		check = func(key string) error { return s.Verify(ctx, host, key) }
	}
	return credential.Replace(s.store, host, acquire, check)
}

// Import moves the API key of a legacy backlog_template.toml into the
// keychain. host defaults to the file's SPACE_DOMAIN. Returns the host used.
func (s *CredentialService) Import(ctx context.Context, path, host string, verify bool) (string, error) {
	legacy, err := credential.LoadLegacyConfig(path)
	if err != nil {
		return "", err
	}
	if host == "" {
		host = legacy.SpaceDomain
	}
	if host == "" {
		return "", fmt.Errorf("legacy config %s has no SPACE_DOMAIN; pass the host explicitly", path)
	}
	err = s.Init(ctx, host, func() (string, error) { return legacy.APIKey, nil }, verify)
	return credential.NormalizeHost(host), err
}

// Forget removes the stored key for host.
func (s *CredentialService) Forget(host string) error {
	return credential.Forget(s.store, host)
}

// Verify checks that key authenticates against host.
func (s *CredentialService) Verify(ctx context.Context, host, key string) error {
	client, err := backlog.NewClient(s.config.WithHost(host, key), s.observer)
	if err != nil {
		return err
	}
	_, err = client.Space(ctx)
	return err
}
