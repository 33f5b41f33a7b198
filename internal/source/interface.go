// Package source fetches raw task batches from wherever a snapshot lives:
// an exported JSON file, the Notion API or the Redis cache.
package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jayphen/opsboard/internal/logging"
	"github.com/Jayphen/opsboard/internal/notion"
)

// Source is the interface that all snapshot sources implement. Sources are
// read-only.
type Source interface {
	// Info returns metadata about this source.
	Info() SourceInfo

	// Fetch returns the current raw batch.
	Fetch(ctx context.Context) (*notion.QueryResult, error)

	// Close cleans up any resources held by this source.
	Close() error
}

// MultiSource concatenates the batches of several sources.
type MultiSource struct {
	sources []Source
}

// NewMultiSource creates a new multi-source aggregator.
func NewMultiSource(sources ...Source) *MultiSource {
	return &MultiSource{
		sources: sources,
	}
}

// Info returns combined metadata about all sources.
func (m *MultiSource) Info() SourceInfo {
	names := make([]string, 0, len(m.sources))
	for _, s := range m.sources {
		names = append(names, s.Info().Name)
	}
	return SourceInfo{
		Type:        SourceTypeMulti,
		Name:        strings.Join(names, "+"),
		Description: "Combines multiple snapshot sources",
	}
}

// Fetch returns the pages of every source in order. A failing source is
// logged and skipped; the call fails only when every source fails.
func (m *MultiSource) Fetch(ctx context.Context) (*notion.QueryResult, error) {
	if len(m.sources) == 0 {
		return nil, ErrNoSources
	}

	var (
		results []*notion.QueryResult
		lastErr error
	)
	for _, source := range m.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := source.Info().Name
		result, err := source.Fetch(ctx)
		if err != nil {
			logging.WithSource(name).WithError(err).Warn("source fetch failed, skipping")
			lastErr = err
			continue
		}
		logging.WithSource(name).WithField("pages", len(result.Results)).Debug("source fetched")
		results = append(results, result)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("all %d sources failed: %w", len(m.sources), lastErr)
	}

	return notion.Merge(results...), nil
}

// Close closes all sources.
func (m *MultiSource) Close() error {
	var firstErr error
	for _, source := range m.sources {
		if err := source.Close(); err != nil {
			// Log but continue closing others
			logging.WithSource(source.Info().Name).WithError(err).Warn("failed to close source")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
