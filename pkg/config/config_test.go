package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/choices/pkg/search"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
[search]
strategy = "prefix"
fields = ["label"]
search_floor = 2

[behaviour]
max_item_count = 3
single_mode = true
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, search.StrategyPrefix, cfg.Search.Strategy)
	require.Equal(t, []string{"label"}, cfg.Search.Fields)
	require.Equal(t, 2, cfg.Search.SearchFloor)
	require.Equal(t, 4, cfg.Search.ResultLimit, "untouched keys keep defaults")
	require.Equal(t, 3, cfg.Behaviour.MaxItemCount)
	require.True(t, cfg.Behaviour.SingleMode)
	require.True(t, cfg.Behaviour.DuplicateItemsAllowed)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := writeFile(t, `
[search]
strategy = "kmp"
search_floor = "two"
weights = { label = 1.0, value = 0.25 }

[behaviour]
duplicate_items_allowed = false
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, search.StrategyKMP, cfg.Search.Strategy)
	require.Equal(t, 1, cfg.Search.SearchFloor)
	require.Equal(t, map[string]float64{"label": 1.0, "value": 0.25}, cfg.Search.Weights)
	require.False(t, cfg.Behaviour.DuplicateItemsAllowed)
}

func TestLoadConfigGarbageFallsBackToDefaults(t *testing.T) {
	path := writeFile(t, "[search\nstrategy = ")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestNormalizeClampsValues(t *testing.T) {
	path := writeFile(t, `
[search]
threshold = 4.0
search_floor = 0
result_limit = -2

[behaviour]
max_item_count = 0
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, search.DefaultThreshold, cfg.Search.Threshold)
	require.Equal(t, 1, cfg.Search.SearchFloor)
	require.Equal(t, 0, cfg.Search.ResultLimit)
	require.Equal(t, -1, cfg.Behaviour.MaxItemCount)
}

func TestInitConfigCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
	require.FileExists(t, path)

	again, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, cfg, again)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Search.Strategy = search.StrategyPrefix
	cfg.Behaviour.MaxItemCount = 7
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeFile(t, "[search]\nstrategy = \"prefix\"\n")
	cfg, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	require.Equal(t, path, used)
	require.Equal(t, search.StrategyPrefix, cfg.Search.Strategy)
}

func TestSearchOptions(t *testing.T) {
	cfg := DefaultConfig()
	opts := cfg.Search.Options()
	require.Equal(t, search.StrategyFuzzy, opts.Strategy)
	require.Equal(t, []string{"label", "value"}, opts.Fields)

	opts.Fields[0] = "changed"
	require.Equal(t, "label", cfg.Search.Fields[0])

	_, err := search.New(opts)
	require.NoError(t, err)
}
