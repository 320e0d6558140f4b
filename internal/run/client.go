package run

import (
	"context"
	"fmt"
	"net/url"

	tfhttp "github.com/leg100/tfmetrics/internal/http"
	"github.com/leg100/tfmetrics/internal/logr"
)

type Client struct {
	*tfhttp.Client

	Logger logr.Logger
}

// List retrieves all of a workspace's runs. Malformed runs are logged and
// skipped.
func (c *Client) List(ctx context.Context, workspaceID string) ([]*Run, error) {
	path := fmt.Sprintf("workspaces/%s/runs", url.PathEscape(workspaceID))
	records, err := tfhttp.ListAll[record](ctx, c.Client, path)
	if err != nil {
		return nil, err
	}
	runs := make([]*Run, 0, len(records))
	for _, rec := range records {
		run, err := newFromRecord(rec, workspaceID)
		if err != nil {
			c.Logger.Error(err, "skipping malformed run", "workspace", workspaceID)
			continue
		}
		runs = append(runs, run)
	}
	return runs, nil
}
