package workspace

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/leg100/tfmetrics/internal"
	tfhttp "github.com/leg100/tfmetrics/internal/http"
	"github.com/leg100/tfmetrics/internal/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_List(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/v2/organizations/{organization_name}/workspaces", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "acme", mux.Vars(r)["organization_name"])
		fmt.Fprint(w, `{"data":[
			{"type":"workspaces","id":"ws-1","attributes":{"name":"dev"}},
			{"type":"workspaces","id":"ws-2"},
			{"type":"workspaces","id":"ws-3","attributes":{"name":"prod"}}
		]}`)
	})
	client := newTestClient(t, r)

	got, err := client.List(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, []*Workspace{{ID: "ws-1", Name: "dev"}, {ID: "ws-3", Name: "prod"}}, got)
}

func TestClient_CountResources(t *testing.T) {
	var srv *httptest.Server
	r := mux.NewRouter()
	r.HandleFunc("/api/v2/workspaces/{workspace_id}/resources", func(w http.ResponseWriter, r *http.Request) {
		if mux.Vars(r)["workspace_id"] == "ws-broken" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		// the same resource appears on both pages
		if r.URL.Query().Get("page[number]") == "2" {
			fmt.Fprint(w, `{"data":[{"type":"resources","id":"res-1"},{"type":"resources","id":"res-3"}],"links":{}}`)
			return
		}
		fmt.Fprintf(w, `{"data":[{"type":"resources","id":"res-1"},{"type":"resources","id":"res-2"}],"links":{"next":"%s/api/v2/workspaces/ws-1/resources?page%%5Bnumber%%5D=2"}}`, srv.URL)
	})
	srv = httptest.NewServer(r)
	t.Cleanup(srv.Close)

	client := newClient(t, srv.URL)

	got, err := client.CountResources(context.Background(), "ws-1")
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	t.Run("error", func(t *testing.T) {
		_, err := client.CountResources(context.Background(), "ws-broken")
		var httpErr *internal.HTTPError
		require.True(t, errors.As(err, &httpErr))
		assert.Equal(t, http.StatusBadGateway, httpErr.Code)
	})
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return newClient(t, srv.URL)
}

func newClient(t *testing.T, url string) *Client {
	t.Helper()

	apiClient, err := tfhttp.NewClient(tfhttp.ClientConfig{URL: url, Token: "secret"})
	require.NoError(t, err)
	return &Client{Client: apiClient, Logger: logr.Discard()}
}
