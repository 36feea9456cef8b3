package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/backlogtmpl/internal/backlog"
	"github.com/alexanderramin/backlogtmpl/internal/credential"
)

// Connector opens an authenticated client for a host.
type Connector interface {
	Connect(ctx context.Context, host string) (*backlog.Client, error)
}

// KeychainConnector looks the API key up in a credential.Store.
type KeychainConnector struct {
	Config   backlog.Config
	Store    credential.Store
	Observer backlog.Observer
}

func (k KeychainConnector) Connect(_ context.Context, host string) (*backlog.Client, error) {
	key, err := credential.Lookup(k.Store, host)
	if errors.Is(err, credential.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w (run 'backlogtmpl init %s' first)", backlog.ErrAuthentication, err, credential.NormalizeHost(host))
	}
	if err != nil {
		return nil, err
	}
	return backlog.NewClient(k.Config.WithHost(host, key), k.Observer)
}
