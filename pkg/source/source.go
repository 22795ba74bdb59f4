// Package source loads choice inputs from files.
//
// A file holds a list of inputs in the shape model.MapInputToChoice accepts:
// bare strings or objects with value/label/selected/... keys, where an object
// with a "choices" list is a group. TOML files put the list under [[choices]].
package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/bastiangx/choices/internal/utils"
	"github.com/bastiangx/choices/pkg/model"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for a file extension no decoder handles.
var ErrUnsupportedFormat = errors.New("source: unsupported format")

// Format names a choice file encoding.
type Format string

const (
	FormatTOML    Format = "toml"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch ext := utils.Ext(path); ext {
	case "toml":
		return FormatTOML, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "mpk":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// LoadFile reads and decodes the inputs stored at path.
func LoadFile(path string) ([]any, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open choices file %s: %w", path, err)
	}
	defer f.Close()

	inputs, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	log.Debugf("Loaded %d inputs from %s", len(inputs), path)
	return inputs, nil
}

// Decode reads a list of inputs from r.
func Decode(r io.Reader, format Format) ([]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var raw any
	switch format {
	case FormatTOML:
		var doc map[string]any
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, err
		}
		list, ok := doc["choices"]
		if !ok {
			return []any{}, nil
		}
		raw = list
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case FormatMsgpack:
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		dec.SetMapDecoder(func(d *msgpack.Decoder) (any, error) {
			return d.DecodeUntypedMap()
		})
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return Normalize(raw)
}

// Load decodes the file at path and maps it into choices and groups.
func Load(path string) ([]*model.Choice, []*model.Group, error) {
	inputs, err := LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return model.MapInputs(inputs)
}

// Normalize turns a decoder's generic value into a list of inputs whose
// objects are all map[string]any.
func Normalize(raw any) ([]any, error) {
	if raw == nil {
		return []any{}, nil
	}
	v := stringKeys(raw)
	switch list := v.(type) {
	case []any:
		return list, nil
	case []map[string]any:
		out := make([]any, len(list))
		for i, m := range list {
			out[i] = m
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: expected a list of choices, got %T", model.ErrInvalidInput, raw)
	}
}

// stringKeys rewrites maps with non-string keys, which msgpack may produce.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case map[string]any:
		for k, val := range t {
			t[k] = stringKeys(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = stringKeys(val)
		}
		return t
	case []map[string]any:
		for _, m := range t {
			stringKeys(m)
		}
		return t
	default:
		return v
	}
}
