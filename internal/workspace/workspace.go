// Package workspace retrieves an organization's workspaces and their
// resources.
package workspace

import (
	"github.com/leg100/tfmetrics/internal"
)

// ResourceType is the JSON:API type of a workspace resource record.
const ResourceType = "resources"

type (
	// Workspace is a named unit of infrastructure configuration.
	Workspace struct {
		ID   string
		Name string
	}

	// record is a workspace as served by the API.
	record struct {
		Type       string `json:"type"`
		ID         string `json:"id"`
		Attributes *struct {
			Name string `json:"name"`
		} `json:"attributes"`
	}

	// resourceRecord is a resource managed by a workspace, as served by the
	// API.
	resourceRecord struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	}
)

func newFromRecord(rec record) (*Workspace, error) {
	if rec.ID == "" {
		return nil, &internal.DataShapeError{Source: "workspace", Message: "missing id"}
	}
	if rec.Attributes == nil {
		return nil, &internal.DataShapeError{Source: rec.ID, Message: "missing attributes"}
	}
	if rec.Attributes.Name == "" {
		return nil, &internal.DataShapeError{Source: rec.ID, Message: "missing name"}
	}
	return &Workspace{ID: rec.ID, Name: rec.Attributes.Name}, nil
}

// CountResources counts the distinct resources among the given records.
// Records of other types are ignored.
func CountResources(records []resourceRecord) int {
	unique := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if rec.Type != ResourceType || rec.ID == "" {
			continue
		}
		unique[rec.ID] = struct{}{}
	}
	return len(unique)
}
