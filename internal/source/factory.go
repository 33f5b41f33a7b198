package source

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Jayphen/opsboard/internal/notion"
	"github.com/Jayphen/opsboard/internal/redis"
)

// SourceSpec specifies how to create a source.
type SourceSpec struct {
	Type   SourceType
	Config map[string]string
}

// String renders the spec back into its textual form. Tokens are omitted.
func (s SourceSpec) String() string {
	keys := make([]string, 0, len(s.Config))
	for k := range s.Config {
		if k != "token" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	params := make([]string, 0, len(keys))
	for _, k := range keys {
		params = append(params, k+"="+s.Config[k])
	}
	return string(s.Type) + ":" + strings.Join(params, ",")
}

// Defaults supplies connection settings that specs may omit.
type Defaults struct {
	Notion   notion.Config
	RedisURL string
}

// ParseSourceSpec parses a source specification string.
// Format: "type:param1=value1,param2=value2"
// Examples:
//   - "file:path=tasks.json"
//   - "notion:database=0123abcd"
//   - "redis:key=opsboard:snapshot"
//
// Only the first colon separates the type, so values may contain colons.
func ParseSourceSpec(spec string) (SourceSpec, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 || parts[0] == "" {
		return SourceSpec{}, fmt.Errorf("%w: %s", ErrInvalidSpec, spec)
	}

	sourceType := SourceType(strings.TrimSpace(parts[0]))
	config := make(map[string]string)

	// Parse config params
	if parts[1] != "" {
		for _, param := range strings.Split(parts[1], ",") {
			kv := strings.SplitN(param, "=", 2)
			if len(kv) != 2 {
				return SourceSpec{}, fmt.Errorf("%w: invalid parameter %q", ErrInvalidSpec, param)
			}
			config[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return SourceSpec{
		Type:   sourceType,
		Config: config,
	}, nil
}

// CreateSource creates a Source from a specification.
func CreateSource(spec SourceSpec, defaults Defaults) (Source, error) {
	switch spec.Type {
	case SourceTypeFile:
		path, ok := spec.Config["path"]
		if !ok || path == "" {
			return nil, fmt.Errorf("%w: file requires 'path' parameter", ErrInvalidSpec)
		}
		return NewFileSource(path)

	case SourceTypeNotion:
		cfg := defaults.Notion
		if token := spec.Config["token"]; token != "" {
			cfg.Token = token
		}
		database := spec.Config["database"]
		if database == "" {
			return nil, fmt.Errorf("%w: notion requires 'database' parameter", ErrInvalidSpec)
		}
		client, err := notion.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return NewNotionSource(client, database)

	case SourceTypeRedis:
		url := spec.Config["url"]
		if url == "" {
			url = defaults.RedisURL
		}
		client, err := redis.NewClient(url)
		if err != nil {
			return nil, err
		}
		return NewRedisSource(client, spec.Config["key"]), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, spec.Type)
	}
}

// CreateMultiSourceFromSpecs creates a MultiSource from multiple specifications.
// Sources created before a failure are closed.
func CreateMultiSourceFromSpecs(specs []SourceSpec, defaults Defaults) (*MultiSource, error) {
	var sources []Source

	for _, spec := range specs {
		source, err := CreateSource(spec, defaults)
		if err != nil {
			_ = NewMultiSource(sources...).Close()
			return nil, fmt.Errorf("failed to create source %s: %w", spec.Type, err)
		}
		sources = append(sources, source)
	}

	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	return NewMultiSource(sources...), nil
}

// CreateMultiSourceFromStrings creates a MultiSource from string specifications.
func CreateMultiSourceFromStrings(specs []string, defaults Defaults) (*MultiSource, error) {
	var sourceSpecs []SourceSpec

	for _, specStr := range specs {
		spec, err := ParseSourceSpec(specStr)
		if err != nil {
			return nil, err
		}
		sourceSpecs = append(sourceSpecs, spec)
	}

	return CreateMultiSourceFromSpecs(sourceSpecs, defaults)
}
