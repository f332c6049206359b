// Package loader turns settings documents into data ready to commit.
package loader

import (
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/odvcencio/vcsettings/pkg/object"
)

// DecodeTOML parses a TOML document and normalizes its values: integers
// become int, arrays of tables become []any and date-times become RFC 3339
// strings. An empty document fails with object.ErrInvalidInput since it has
// nothing to commit.
func DecodeTOML(data []byte) (map[string]any, error) {
	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("decode toml: %v: %w", err, object.ErrInvalidInput)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("decode toml: empty document: %w", object.ErrInvalidInput)
	}
	out, err := normalize(raw, "")
	if err != nil {
		return nil, fmt.Errorf("decode toml: %w", err)
	}
	return out.(map[string]any), nil
}

// LoadTOML reads a TOML document from r and decodes it with DecodeTOML.
func LoadTOML(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("load toml: %w", err)
	}
	return DecodeTOML(data)
}

func normalize(v any, path string) (any, error) {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			n, err := normalize(e, join(path, k))
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case []map[string]any:
		out := make([]any, len(x))
		for i, e := range x {
			n, err := normalize(e, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			n, err := normalize(e, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case time.Time:
		return x.Format(time.RFC3339Nano), nil
	}

	s, err := object.NormalizeScalar(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
