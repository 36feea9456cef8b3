package backlog

import (
	"context"
	"fmt"

	"github.com/google/go-querystring/query"
)

// IssuePayload is the form body of POST /issues. Zero-valued optional fields
// are left out of the request.
type IssuePayload struct {
	ProjectID     int64   `url:"projectId"`
	Summary       string  `url:"summary"`
	IssueTypeID   int64   `url:"issueTypeId"`
	PriorityID    int64   `url:"priorityId"`
	ParentIssueID int64   `url:"parentIssueId,omitempty"`
	Description   string  `url:"description,omitempty"`
	DueDate       string  `url:"dueDate,omitempty"`
	VersionIDs    []int64 `url:"versionId,brackets,omitempty"`
	MilestoneIDs  []int64 `url:"milestoneId,brackets,omitempty"`
	AssigneeID    int64   `url:"assigneeId,omitempty"`
}

// Issue is the subset of the created-issue response we keep.
type Issue struct {
	ID            int64  `json:"id"`
	IssueKey      string `json:"issueKey"`
	Summary       string `json:"summary"`
	ParentIssueID *int64 `json:"parentIssueId"`
}

// CreateIssue posts a single issue. It is never retried.
func (c *Client) CreateIssue(ctx context.Context, p IssuePayload) (*Issue, error) {
	form, err := query.Values(p)
	if err != nil {
		return nil, fmt.Errorf("encoding issue payload: %w", err)
	}
	var issue Issue
	if err := c.postForm(ctx, "issues", form, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}
