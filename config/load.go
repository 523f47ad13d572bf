package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Spencer17x/vue-next-zh/javascript"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type Format int

const (
	YAML Format = iota
	JSON
	JS
)

func (f Format) String() string {
	switch f {
	case YAML:
		return "yaml"
	case JSON:
		return "json"
	case JS:
		return "js"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat maps a format name as typed on the command line.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "yaml", "yml", "":
		return YAML, nil
	case "json":
		return JSON, nil
	case "js", "javascript", "ts":
		return JS, nil
	}
	return YAML, errors.Errorf("unknown format %q", name)
}

// FormatFromPath picks the format from a file extension, YAML otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON
	case ".js", ".cjs", ".mjs", ".ts", ".mts", ".cts":
		return JS
	}
	return YAML
}

// LoadFile reads and decodes the config at path.
func LoadFile(path string) (*SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}

	format := FormatFromPath(path)
	if format == JS {
		obj, err := javascript.ExportedObject(data, javascript.LoaderFor(path))
		if err != nil {
			return nil, &StructuralError{Source: path, Msg: "cannot read config module", Err: err}
		}
		data, format = obj, YAML
	}

	cfg, err := Load(data, format)
	if err != nil {
		var se *StructuralError
		if errors.As(err, &se) && se.Source == "" {
			se.Source = path
		}
		return nil, err
	}
	return cfg, nil
}

// LoadValid loads path and rejects it unless it validates cleanly. The
// returned error is a ValidationErrors listing every problem.
func LoadValid(path string) (*SiteConfig, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg).Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load decodes a site config. It fails fast with *StructuralError on input
// that is not a mapping or cannot take the config's shape; semantic
// problems are left to Validate.
func Load(data []byte, format Format) (*SiteConfig, error) {
	switch format {
	case JSON:
		converted, err := jsonToYAML(data)
		if err != nil {
			return nil, err
		}
		data = converted
	case JS:
		obj, err := javascript.ExportedObject(data, javascript.LoaderFor("config.js"))
		if err != nil {
			return nil, &StructuralError{Msg: "cannot read config module", Err: err}
		}
		data = obj
	}

	var probe interface{}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, &StructuralError{Msg: "malformed input", Err: err}
	}
	switch probe.(type) {
	case nil:
		return nil, &StructuralError{Msg: "empty config"}
	case map[interface{}]interface{}:
	default:
		return nil, &StructuralError{Msg: fmt.Sprintf("top level must be a mapping, got %s", describe(probe))}
	}

	var cfg SiteConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &StructuralError{Msg: "config does not match the expected shape", Err: err}
	}
	return &cfg, nil
}

func jsonToYAML(data []byte) ([]byte, error) {
	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, &StructuralError{Msg: "malformed JSON", Err: err}
	}
	if generic == nil {
		return nil, &StructuralError{Msg: "empty config"}
	}
	if _, ok := generic.(map[string]interface{}); !ok {
		return nil, &StructuralError{Msg: fmt.Sprintf("top level must be an object, got %s", describe(generic))}
	}
	out, err := yaml.Marshal(generic)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return out, nil
}

func describe(v interface{}) string {
	switch v.(type) {
	case []interface{}:
		return "a sequence"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case int, int64, uint64, float64:
		return "a number"
	}
	return fmt.Sprintf("%T", v)
}

// Marshal writes cfg in canonical key order. JS is not an output format.
func Marshal(cfg *SiteConfig, format Format) ([]byte, error) {
	switch format {
	case YAML:
		out, err := yaml.Marshal(cfg)
		return out, errors.WithStack(err)
	case JSON:
		out, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return append(out, '\n'), nil
	}
	return nil, errors.Errorf("cannot write config as %s", format)
}

func (i SidebarItem) MarshalJSON() ([]byte, error) {
	v, err := i.shape()
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}
