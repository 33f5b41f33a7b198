package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Jayphen/opsboard/internal/board"
	"github.com/Jayphen/opsboard/internal/config"
	"github.com/Jayphen/opsboard/internal/notion"
	"github.com/Jayphen/opsboard/internal/source"
)

// now is the clock every command reads "today" from. Replaced in tests.
var now = time.Now

// newPipeline builds the board pipeline from cfg.
func newPipeline(cfg *config.Config) (*board.Pipeline, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return board.NewPipeline(
		cfg.Registry(),
		board.WithLocation(loc),
		board.WithDoneStatus(cfg.DoneStatus),
		board.WithClock(now),
	), nil
}

func sourceDefaults(cfg *config.Config) source.Defaults {
	return source.Defaults{
		Notion: notion.Config{
			Token:   cfg.Notion.Token,
			BaseURL: cfg.Notion.BaseURL,
			Version: cfg.Notion.Version,
		},
		RedisURL: cfg.RedisURL,
	}
}

// openSources creates the configured snapshot sources.
func openSources(cfg *config.Config) (*source.MultiSource, error) {
	specs := cfg.SourceSpecs()
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: pass --source or set notion.database_id / sources in the config", source.ErrNoSources)
	}
	return source.CreateMultiSourceFromStrings(specs, sourceDefaults(cfg))
}

// boardLoader fetches a fresh snapshot and rebuilds the board on each call.
type boardLoader struct {
	src      source.Source
	pipeline *board.Pipeline
}

func newBoardLoader(cfg *config.Config) (*boardLoader, error) {
	pipeline, err := newPipeline(cfg)
	if err != nil {
		return nil, err
	}
	src, err := openSources(cfg)
	if err != nil {
		return nil, err
	}
	return &boardLoader{src: src, pipeline: pipeline}, nil
}

// Load fetches and classifies. The raw batch is discarded afterwards.
func (l *boardLoader) Load(ctx context.Context) (board.Board, error) {
	batch, err := l.src.Fetch(ctx)
	if err != nil {
		return board.Board{}, err
	}
	return l.pipeline.Run(batch), nil
}

func (l *boardLoader) Close() error {
	return l.src.Close()
}
