// Package credential keeps Backlog API keys in the system keychain, one
// entry per host, so templates never carry secrets.
package credential

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

// ServiceName is the keychain service every entry is stored under.
const ServiceName = "backlogtmpl"

// EnvAPIKey overrides the keychain when set. Intended for CI.
const EnvAPIKey = "BACKLOGTMPL_API_KEY"

// ErrNotFound indicates no credential is stored for the host.
var ErrNotFound = errors.New("no credential stored")

// Store gets, sets and deletes one secret per host.
type Store interface {
	Get(host string) (string, error)
	Set(host, secret string) error
	Delete(host string) error
}

// Keyring is a Store backed by the OS keychain (macOS Keychain, Secret
// Service on Linux, Windows Credential Manager).
type Keyring struct {
	service string
}

// NewKeyring returns a keychain Store for service.
func NewKeyring(service string) *Keyring {
	return &Keyring{service: service}
}

func (k *Keyring) Get(host string) (string, error) {
	secret, err := keyring.Get(k.service, host)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("%w for %s", ErrNotFound, host)
	}
	if err != nil {
		return "", fmt.Errorf("reading keychain entry for %s: %w", host, err)
	}
	return secret, nil
}

func (k *Keyring) Set(host, secret string) error {
	if err := keyring.Set(k.service, host, secret); err != nil {
		return fmt.Errorf("writing keychain entry for %s: %w", host, err)
	}
	return nil
}

func (k *Keyring) Delete(host string) error {
	err := keyring.Delete(k.service, host)
	if errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%w for %s", ErrNotFound, host)
	}
	if err != nil {
		return fmt.Errorf("deleting keychain entry for %s: %w", host, err)
	}
	return nil
}

// NormalizeHost turns "https://Example.backlog.com/" into "example.backlog.com",
// the account name entries are stored under.
func NormalizeHost(host string) string {
	h := strings.TrimSpace(host)
	if i := strings.Index(h, "://"); i >= 0 {
		h = h[i+3:]
	}
	return strings.ToLower(strings.TrimRight(h, "/"))
}

// Lookup returns the API key for host: the EnvAPIKey variable when set,
// otherwise the stored entry.
func Lookup(store Store, host string) (string, error) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		return v, nil
	}
	return store.Get(NormalizeHost(host))
}

// Replace stores a new API key for host. The new value is acquired and
// optionally verified before the store is touched, and written with a single
// overwrite, so the host always has a valid entry. An entry left under the
// un-normalized host name is removed only after the write succeeds.
func Replace(store Store, host string, acquire func() (string, error), verify func(secret string) error) error {
	secret, err := acquire()
	if err != nil {
		return fmt.Errorf("acquiring API key: %w", err)
	}
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return fmt.Errorf("API key must not be empty")
	}
	if verify != nil {
		if err := verify(secret); err != nil {
			return fmt.Errorf("verifying API key for %s: %w", host, err)
		}
	}

	account := NormalizeHost(host)
	if account == "" {
		return fmt.Errorf("host is required")
	}
	if err := store.Set(account, secret); err != nil {
		return err
	}

	legacy := strings.TrimSpace(host)
	if legacy != account {
		if err := store.Delete(legacy); err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("removing old entry %q: %w", legacy, err)
		}
	}
	return nil
}

// Forget deletes the entry for host.
func Forget(store Store, host string) error {
	return store.Delete(NormalizeHost(host))
}
