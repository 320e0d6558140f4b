package http

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/leg100/tfmetrics/internal"
)

type (
	// envelope is a single page of a JSON:API collection.
	envelope struct {
		Data  json.RawMessage `json:"data"`
		Links *Links          `json:"links"`
	}

	// Links are the pagination links of a JSON:API collection page.
	Links struct {
		Next string `json:"next"`
	}

	// Page is a decoded page of a collection.
	Page[T any] struct {
		URL   string
		Items []T
		Next  string
	}
)

// ListAll retrieves every record of the collection at path, following each
// page's next link until a page has none. Records are returned in the order
// they were served. If any page cannot be retrieved then no records are
// returned.
func ListAll[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var (
		all     []T
		visited = make(map[string]struct{})
	)
	for next := path; next != ""; {
		page, err := GetPage[T](ctx, c, next)
		if err != nil {
			return nil, err
		}
		visited[page.URL] = struct{}{}
		all = append(all, page.Items...)

		if page.Next != "" {
			nextURL, err := c.baseURL.Parse(page.Next)
			if err != nil {
				return nil, &internal.DataShapeError{Source: page.URL, Message: fmt.Sprintf("invalid next link: %s", page.Next)}
			}
			if _, ok := visited[nextURL.String()]; ok {
				return nil, &internal.DataShapeError{Source: page.URL, Message: fmt.Sprintf("pagination loops back to %s", nextURL)}
			}
		}
		next = page.Next
	}
	return all, nil
}

// GetPage retrieves a single page of the collection at path, which is either
// relative to the API base URL or an absolute URL.
func GetPage[T any](ctx context.Context, c *Client, path string) (*Page[T], error) {
	req, err := c.NewRequest("GET", path)
	if err != nil {
		return nil, err
	}
	pageURL := req.URL.String()

	var env envelope
	if err := c.Do(ctx, req, &env); err != nil {
		return nil, err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, &internal.DataShapeError{Source: pageURL, Message: "missing data"}
	}
	var items []T
	if err := json.Unmarshal(env.Data, &items); err != nil {
		return nil, &internal.DataShapeError{Source: pageURL, Message: fmt.Sprintf("decoding data: %s", err)}
	}
	page := &Page[T]{URL: pageURL, Items: items}
	if env.Links != nil {
		page.Next = env.Links.Next
	}
	return page, nil
}
