package workspace

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

// List retrieves all of an organization's workspaces. Malformed workspaces
// are logged and skipped.
func (c *Client) List(ctx context.Context, organization string) ([]*Workspace, error) {
	path := fmt.Sprintf("organizations/%s/workspaces", url.PathEscape(organization))
	records, err := tfhttp.ListAll[record](ctx, c.Client, path)
	if err != nil {
		return nil, err
	}
	workspaces := make([]*Workspace, 0, len(records))
	for _, rec := range records {
		ws, err := newFromRecord(rec)
		if err != nil {
			c.Logger.Error(err, "skipping malformed workspace", "organization", organization)
			continue
		}
		workspaces = append(workspaces, ws)
	}
	return workspaces, nil
}

// CountResources retrieves a workspace's resources and returns the number of
// distinct resources.
func (c *Client) CountResources(ctx context.Context, workspaceID string) (int, error) {
	path := fmt.Sprintf("workspaces/%s/resources", url.PathEscape(workspaceID))
	records, err := tfhttp.ListAll[resourceRecord](ctx, c.Client, path)
	if err != nil {
		return 0, err
	}
	return CountResources(records), nil
}
