package source

// SourceType identifies where a snapshot comes from.
type SourceType string

const (
	SourceTypeFile   SourceType = "file"
	SourceTypeNotion SourceType = "notion"
	SourceTypeRedis  SourceType = "redis"
	SourceTypeMulti  SourceType = "multi"
)

// Metadata holds source-specific configuration values.
type Metadata map[string]string

// SourceInfo contains metadata about a snapshot source.
type SourceInfo struct {
	Type        SourceType `json:"type"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Config      Metadata   `json:"config,omitempty"`
}
