package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/backlogtmpl/internal/backlog"
	"github.com/alexanderramin/backlogtmpl/internal/submit"
	"github.com/alexanderramin/backlogtmpl/internal/template"
)

// PostOptions are the run-time overrides for one post.
type PostOptions struct {
	TemplatePath string
	// BaseDate replaces config.baseDate when non-zero.
	BaseDate template.Date
	// Vars are merged over config.vars.
	Vars map[string]string
}

// Plan is a fully resolved template, ready to submit. Building a Plan only
// issues GET requests.
type Plan struct {
	Host       string
	ProjectKey string
	BaseDate   template.Date
	Vars       map[string]string
	Metadata   *backlog.Metadata
	Groups     []template.ResolvedGroup

	client *backlog.Client
}

// IssueCount returns how many issues Execute will try to post.
func (p *Plan) IssueCount() int {
	n := 0
	for _, g := range p.Groups {
		n += g.Size()
	}
	return n
}

// PostService loads, resolves and submits templates.
type PostService struct {
	connector Connector
	logger    *slog.Logger
	observer  UseCaseObserver
}

func NewPostService(connector Connector, logger *slog.Logger, observers ...UseCaseObserver) *PostService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PostService{
		connector: connector,
		logger:    logger,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// Prepare loads the template, fetches project metadata and resolves every
// entry. Any validation failure is returned before anything is posted.
func (s *PostService) Prepare(ctx context.Context, opts PostOptions) (plan *Plan, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"template": opts.TemplatePath}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "prepare-post",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	doc, err := template.LoadDocument(opts.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}
	if errs := template.ValidateTarget(doc); len(errs) > 0 {
		return nil, fmt.Errorf("invalid template:\n%w", errors.Join(errs...))
	}
	fields["host"] = doc.Target.Host
	fields["project"] = doc.Target.Project

	baseDate := doc.Config.BaseDate
	if !opts.BaseDate.IsZero() {
		baseDate = opts.BaseDate
	}
	vars := doc.Config.Substitutions()
	for k, v := range opts.Vars {
		vars[k] = v
	}

	client, err := s.connector.Connect(ctx, doc.Target.Host)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "fetching project metadata", "host", doc.Target.Host, "project", doc.Target.Project)
	md, err := backlog.FetchMetadata(ctx, client, doc.Target.Project)
	if err != nil {
		return nil, err
	}

	resolver := template.Resolver{BaseDate: baseDate, Vars: vars, Catalog: md}
	groups, err := resolver.ResolveDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("invalid template:\n%w", err)
	}

	plan = &Plan{
		Host:       doc.Target.Host,
		ProjectKey: doc.Target.Project,
		BaseDate:   baseDate,
		Vars:       vars,
		Metadata:   md,
		Groups:     groups,
		client:     client,
	}
	fields["groups"] = len(groups)
	fields["issues"] = plan.IssueCount()
	return plan, nil
}

// Execute submits every group of plan in order. It stops at the first
// failure; issues already posted are not removed.
func (s *PostService) Execute(ctx context.Context, plan *Plan) (report submit.Report, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"host": plan.Host, "project": plan.ProjectKey}
	defer func() {
		fields["posted"] = report.Succeeded()
		fields["failed"] = report.Failed()
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "execute-post",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if plan.client == nil {
		return submit.Report{}, fmt.Errorf("plan was not prepared")
	}
	pipeline := submit.NewPipeline(plan.client, plan.Metadata, s.logger)
	return pipeline.SubmitAll(ctx, plan.Groups)
}
