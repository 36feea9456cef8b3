package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/backlogtmpl/internal/backlog"
)

// DoctorReport summarizes a connectivity check.
type DoctorReport struct {
	Host     string
	Space    *backlog.Space
	Metadata *backlog.Metadata // nil when no project was requested
}

// DoctorService checks that a host is reachable with the stored credential.
type DoctorService struct {
	connector Connector
}

func NewDoctorService(connector Connector) *DoctorService {
	return &DoctorService{connector: connector}
}

// Check connects to host, fetches the space and, when projectKey is set,
// the project's metadata. Each step needs the previous one to succeed.
func (s *DoctorService) Check(ctx context.Context, host, projectKey string) (*DoctorReport, error) {
	client, err := s.connector.Connect(ctx, host)
	if err != nil {
		return nil, err
	}

	space, err := client.Space(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking space: %w", err)
	}
	report := &DoctorReport{Host: host, Space: space}

	if projectKey == "" {
		return report, nil
	}
	md, err := backlog.FetchMetadata(ctx, client, projectKey)
	if err != nil {
		return report, err
	}
	report.Metadata = md
	return report, nil
}
