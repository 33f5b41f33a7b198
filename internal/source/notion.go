package source

import (
	"context"
	"fmt"

	"github.com/Jayphen/opsboard/internal/notion"
)

// DatabaseQuerier is the part of notion.Client a NotionSource needs.
type DatabaseQuerier interface {
	QueryDatabase(ctx context.Context, databaseID string) (*notion.QueryResult, error)
}

// NotionSource queries a Notion database through the API.
type NotionSource struct {
	client     DatabaseQuerier
	databaseID string
	info       SourceInfo
}

// NewNotionSource creates a source for databaseID.
func NewNotionSource(client DatabaseQuerier, databaseID string) (*NotionSource, error) {
	if databaseID == "" {
		return nil, fmt.Errorf("%w: notion requires 'database' parameter", ErrInvalidSpec)
	}
	return &NotionSource{
		client:     client,
		databaseID: databaseID,
		info: SourceInfo{
			Type:        SourceTypeNotion,
			Name:        "notion:" + databaseID,
			Description: fmt.Sprintf("Notion database %s", databaseID),
			Config: Metadata{
				"database": databaseID,
			},
		},
	}, nil
}

// Info returns metadata about this source.
func (n *NotionSource) Info() SourceInfo {
	return n.info
}

// Fetch runs the paginated database query.
func (n *NotionSource) Fetch(ctx context.Context) (*notion.QueryResult, error) {
	return n.client.QueryDatabase(ctx, n.databaseID)
}

// Close is a no-op; the HTTP client holds no per-source resources.
func (n *NotionSource) Close() error {
	return nil
}
