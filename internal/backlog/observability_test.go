package backlog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/alexanderramin/backlogtmpl/internal/backlog"
	"github.com/alexanderramin/backlogtmpl/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogObserver_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	obs := backlog.NewLogObserver(logger)

	obs.OnCallComplete(context.Background(), backlog.CallEvent{Method: "GET", Path: "space", StatusCode: 200, Success: true})
	assert.Empty(t, buf.String(), "successful calls log at debug")

	obs.OnCallComplete(context.Background(), backlog.CallEvent{Method: "POST", Path: "issues", StatusCode: 500, ErrorCode: "HTTP_500"})
	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "msg=backlog_call")
	assert.Contains(t, out, "path=issues")
	assert.Contains(t, out, "error_code=HTTP_500")
}

func TestLogObserver_NeverLogsAPIKey(t *testing.T) {
	fake := testutil.NewFakeBacklog(t)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := newTestClient(t, fake.Host(), testutil.TestAPIKey, backlog.NewLogObserver(logger))
	_, err := c.Space(context.Background())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "path=space")
	assert.NotContains(t, buf.String(), testutil.TestAPIKey)
}
