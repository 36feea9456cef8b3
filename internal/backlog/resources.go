package backlog

import (
	"context"
	"fmt"
)

// Space is the subset of GET /space used for connectivity checks.
type Space struct {
	SpaceKey string `json:"spaceKey"`
	Name     string `json:"name"`
}

type Project struct {
	ID         int64  `json:"id"`
	ProjectKey string `json:"projectKey"`
	Name       string `json:"name"`
	Archived   bool   `json:"archived"`
}

type Priority struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type IssueType struct {
	ID        int64  `json:"id"`
	ProjectID int64  `json:"projectId"`
	Name      string `json:"name"`
}

// Version is a project version. Backlog models milestones as versions too.
type Version struct {
	ID        int64  `json:"id"`
	ProjectID int64  `json:"projectId"`
	Name      string `json:"name"`
	Archived  bool   `json:"archived"`
}

type User struct {
	ID     int64  `json:"id"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// Space fetches the space the API key belongs to.
func (c *Client) Space(ctx context.Context) (*Space, error) {
	var s Space
	if err := c.get(ctx, "space", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var out []Project
	if err := c.get(ctx, "projects", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Priorities(ctx context.Context) ([]Priority, error) {
	var out []Priority
	if err := c.get(ctx, "priorities", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) IssueTypes(ctx context.Context, projectID int64) ([]IssueType, error) {
	var out []IssueType
	if err := c.get(ctx, projectPath(projectID, "issueTypes"), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Versions(ctx context.Context, projectID int64) ([]Version, error) {
	var out []Version
	if err := c.get(ctx, projectPath(projectID, "versions"), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Users(ctx context.Context, projectID int64) ([]User, error) {
	var out []User
	if err := c.get(ctx, projectPath(projectID, "users"), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func projectPath(projectID int64, resource string) string {
	return fmt.Sprintf("projects/%d/%s", projectID, resource)
}
