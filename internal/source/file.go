package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Jayphen/opsboard/internal/notion"
)

// FileSource reads a query result exported to a JSON file. The path "-"
// reads standard input once.
type FileSource struct {
	path  string
	stdin io.Reader
	info  SourceInfo
}

// NewFileSource creates a file source. The file must exist.
func NewFileSource(path string) (*FileSource, error) {
	if path == "-" {
		return &FileSource{
			path:  path,
			stdin: os.Stdin,
			info: SourceInfo{
				Type:        SourceTypeFile,
				Name:        "stdin",
				Description: "Notion export read from standard input",
			},
		}, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	// Check if file exists
	if _, err := os.Stat(absPath); err != nil {
		return nil, fmt.Errorf("snapshot file not found: %w", err)
	}

	return &FileSource{
		path: absPath,
		info: SourceInfo{
			Type:        SourceTypeFile,
			Name:        filepath.Base(absPath),
			Description: fmt.Sprintf("Notion export: %s", absPath),
			Config: Metadata{
				"path": absPath,
			},
		},
	}, nil
}

// Info returns metadata about this source.
func (f *FileSource) Info() SourceInfo {
	return f.info
}

// Fetch decodes the file. It is re-read on every call so edits are picked up.
func (f *FileSource) Fetch(ctx context.Context) (*notion.QueryResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.stdin != nil {
		r := f.stdin
		f.stdin = eofReader{}
		return notion.Decode(r)
	}
	return notion.LoadFile(f.path)
}

// Close is a no-op for file sources.
func (f *FileSource) Close() error {
	return nil
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }
