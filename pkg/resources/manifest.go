package resources

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/episodemerge/internal/schema"
	"github.com/fulmenhq/episodemerge/pkg/episode"
	"github.com/fulmenhq/episodemerge/pkg/safeio"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a manifest file
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatOf picks the manifest format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", &episode.ConfigurationError{
			Field:   "resources.manifest",
			Message: fmt.Sprintf("unsupported manifest extension %q for %s (use .yaml, .yml, .toml or .json)", filepath.Ext(path), path),
		}
	}
}

// LoadManifest reads and validates the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) // #nosec G304 -- manifest path comes from configuration
	if err != nil {
		return nil, &episode.IOError{Op: "read", Path: path, Wrapped: err}
	}
	return ParseManifest(path, format, data)
}

// ParseManifest decodes data as format and validates it against the resource
// manifest schema. path is only used in errors.
func ParseManifest(path string, format Format, data []byte) (*Manifest, error) {
	var generic interface{}
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &generic)
	case FormatTOML:
		var m map[string]interface{}
		err = toml.Unmarshal(data, &m)
		generic = m
	case FormatJSON:
		err = json.Unmarshal(data, &generic)
	default:
		return nil, &episode.ConfigurationError{Field: "resources.manifest", Message: "unknown manifest format " + string(format)}
	}
	if err != nil {
		return nil, &episode.ParseError{Path: path, Wrapped: err}
	}
	if generic == nil {
		generic = map[string]interface{}{}
	}

	res, err := schema.Validate(generic, schema.ResourceManifestV1)
	if err != nil {
		return nil, fmt.Errorf("failed to validate %s: %w", path, err)
	}
	if !res.Valid {
		msgs := make([]string, 0, len(res.Errors))
		for _, e := range res.Errors {
			msgs = append(msgs, e.Path+": "+e.Message)
		}
		return nil, &episode.ValidationError{
			Path:     path,
			Expected: "a resource manifest",
			Actual:   strings.Join(msgs, "; "),
		}
	}

	// The generic tree is schema-checked, so it maps onto Manifest through its JSON form
	normalized, err := json.Marshal(generic)
	if err != nil {
		return nil, &episode.ParseError{Path: path, Wrapped: err}
	}
	var m Manifest
	if err := json.Unmarshal(normalized, &m); err != nil {
		return nil, &episode.ParseError{Path: path, Wrapped: err}
	}
	return &m, nil
}

// EncodeManifest renders m in format.
func EncodeManifest(m *Manifest, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatTOML:
		return toml.Marshal(m)
	case FormatJSON:
		out, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown manifest format %s", format)
	}
}

// SaveManifest writes m to path in the format given by its extension.
func SaveManifest(path string, m *Manifest) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := EncodeManifest(m, format)
	if err != nil {
		return fmt.Errorf("failed to encode manifest %s: %w", path, err)
	}
	if err := safeio.WriteFileAtomic(path, data); err != nil {
		return &episode.IOError{Op: "write", Path: path, Wrapped: err}
	}
	return nil
}
