package source

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/choices/pkg/model"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

const tomlChoices = `
[[choices]]
value = "apple"
label = "Apple"
selected = true

[[choices]]
label = "Citrus"

  [[choices.choices]]
  value = "lemon"

  [[choices.choices]]
  value = "lime"
  disabled = true
`

func TestDecodeTOML(t *testing.T) {
	inputs, err := Decode(strings.NewReader(tomlChoices), FormatTOML)
	require.NoError(t, err)
	require.Len(t, inputs, 2)

	choices, groups, err := model.MapInputs(inputs)
	require.NoError(t, err)
	require.Len(t, choices, 1)
	require.Equal(t, "apple", choices[0].Value)
	require.True(t, choices[0].Selected)

	require.Len(t, groups, 1)
	require.Equal(t, "Citrus", groups[0].Label)
	require.Len(t, groups[0].Choices, 2)
	require.True(t, groups[0].Choices[1].Disabled)
}

func TestDecodeTOMLWithoutChoices(t *testing.T) {
	inputs, err := Decode(strings.NewReader("title = \"none\"\n"), FormatTOML)
	require.NoError(t, err)
	require.Empty(t, inputs)
}

func TestDecodeJSON(t *testing.T) {
	body := `["plain", {"value": "b", "label": "Bee", "customProperties": {"kind": "insect"}}]`
	inputs, err := Decode(strings.NewReader(body), FormatJSON)
	require.NoError(t, err)

	choices, groups, err := model.MapInputs(inputs)
	require.NoError(t, err)
	require.Empty(t, groups)
	require.Len(t, choices, 2)
	require.True(t, choices[0].Selected, "bare strings map to selected choices")

	kind, ok := choices[1].Field("customProperties.kind")
	require.True(t, ok)
	require.Equal(t, "insect", kind)
}

func TestDecodeYAML(t *testing.T) {
	body := "- value: x\n  label: Ex\n- value: y\n  placeholder: true\n"
	inputs, err := Decode(strings.NewReader(body), FormatYAML)
	require.NoError(t, err)

	choices, _, err := model.MapInputs(inputs)
	require.NoError(t, err)
	require.Len(t, choices, 2)
	require.True(t, choices[1].Placeholder)
}

func TestDecodeMsgpack(t *testing.T) {
	payload := []any{
		map[string]any{"value": "one", "selected": true},
		map[string]any{"label": "Group", "choices": []any{"two"}},
	}
	data, err := msgpack.Marshal(payload)
	require.NoError(t, err)

	inputs, err := Decode(bytes.NewReader(data), FormatMsgpack)
	require.NoError(t, err)

	choices, groups, err := model.MapInputs(inputs)
	require.NoError(t, err)
	require.Len(t, choices, 1)
	require.Equal(t, "one", choices[0].Value)
	require.Len(t, groups, 1)
	require.Equal(t, "two", groups[0].Choices[0].Value)
}

func TestDecodeRejectsNonList(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"value": "x"}`), FormatJSON)
	require.True(t, errors.Is(err, model.ErrInvalidInput))
}

func TestFormatOf(t *testing.T) {
	for path, want := range map[string]Format{
		"a.toml":    FormatTOML,
		"b.JSON":    FormatJSON,
		"c.yml":     FormatYAML,
		"d.yaml":    FormatYAML,
		"e.msgpack": FormatMsgpack,
		"dir/f.mpk": FormatMsgpack,
	} {
		got, err := FormatOf(path)
		require.NoError(t, err, path)
		require.Equal(t, want, got, path)
	}

	_, err := FormatOf("choices.csv")
	require.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fruit.toml")
	require.NoError(t, os.WriteFile(path, []byte(tomlChoices), 0o644))

	choices, groups, err := Load(path)
	require.NoError(t, err)
	require.Len(t, choices, 1)
	require.Len(t, groups, 1)

	_, _, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
