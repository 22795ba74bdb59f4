/*
Package config manages the TOML config for choices sessions.
*/
package config

import (
	"path/filepath"

	"github.com/bastiangx/choices/internal/utils"
	"github.com/bastiangx/choices/pkg/search"
	"github.com/charmbracelet/log"
)

const fileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	Search    SearchConfig    `toml:"search"`
	Behaviour BehaviourConfig `toml:"behaviour"`
	CLI       CliConfig       `toml:"cli"`
}

// SearchConfig selects and tunes the search strategy.
type SearchConfig struct {
	Strategy    string             `toml:"strategy"`
	Fields      []string           `toml:"fields"`
	Weights     map[string]float64 `toml:"weights"`
	Threshold   float64            `toml:"threshold"`
	SearchFloor int                `toml:"search_floor"`
	ResultLimit int                `toml:"result_limit"`
}

// BehaviourConfig holds the selection rules of a session.
type BehaviourConfig struct {
	MaxItemCount          int  `toml:"max_item_count"`
	DuplicateItemsAllowed bool `toml:"duplicate_items_allowed"`
	SingleMode            bool `toml:"single_mode"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	ShowScores bool `toml:"show_scores"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			Strategy:    search.StrategyFuzzy,
			Fields:      []string{"label", "value"},
			Weights:     map[string]float64{"label": 1.0, "value": 0.5},
			Threshold:   search.DefaultThreshold,
			SearchFloor: 1,
			ResultLimit: 4,
		},
		Behaviour: BehaviourConfig{
			MaxItemCount:          -1,
			DuplicateItemsAllowed: true,
			SingleMode:            false,
		},
		CLI: CliConfig{
			ShowScores: true,
		},
	}
}

// Options converts the search section into searcher options.
func (s SearchConfig) Options() search.Options {
	return search.Options{
		Strategy:  s.Strategy,
		Fields:    append([]string(nil), s.Fields...),
		Weights:   s.Weights,
		Threshold: s.Threshold,
	}
}

// GetDefaultConfigPath returns [UserConfigDir]/choices/config.toml
func GetDefaultConfigPath() string {
	return utils.NewPathResolver().GetConfigPath(fileName)
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/choices/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if utils.FileExists(customConfigPath) {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s. Trying default path...", customConfigPath)
		}
	}

	defaultPath := GetDefaultConfigPath()
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Keys missing from the file keep their
// defaults; a file that fails to decode is salvaged section by section.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.normalize()
	return config, nil
}

// tryPartialParse keeps whatever keys still have the expected type.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	raw, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(raw, "search"); ok {
		extractSearchConfig(section, &config.Search)
	}
	if section, ok := utils.ExtractSection(raw, "behaviour"); ok {
		extractBehaviourConfig(section, &config.Behaviour)
	}
	if section, ok := utils.ExtractSection(raw, "cli"); ok {
		if val, ok := utils.ExtractBool(section, "show_scores"); ok {
			config.CLI.ShowScores = val
		}
	}
	config.normalize()
	return config, nil
}

func extractSearchConfig(data map[string]any, s *SearchConfig) {
	if val, ok := utils.ExtractString(data, "strategy"); ok {
		s.Strategy = val
	}
	if val, ok := utils.ExtractStringSlice(data, "fields"); ok {
		s.Fields = val
	}
	if val, ok := utils.ExtractFloatMap(data, "weights"); ok {
		s.Weights = val
	}
	if val, ok := utils.ExtractFloat64(data, "threshold"); ok {
		s.Threshold = val
	}
	if val, ok := utils.ExtractInt64(data, "search_floor"); ok {
		s.SearchFloor = val
	}
	if val, ok := utils.ExtractInt64(data, "result_limit"); ok {
		s.ResultLimit = val
	}
}

func extractBehaviourConfig(data map[string]any, b *BehaviourConfig) {
	if val, ok := utils.ExtractInt64(data, "max_item_count"); ok {
		b.MaxItemCount = val
	}
	if val, ok := utils.ExtractBool(data, "duplicate_items_allowed"); ok {
		b.DuplicateItemsAllowed = val
	}
	if val, ok := utils.ExtractBool(data, "single_mode"); ok {
		b.SingleMode = val
	}
}

// normalize clamps values a session cannot work with.
func (c *Config) normalize() {
	if c.Search.SearchFloor < 1 {
		c.Search.SearchFloor = 1
	}
	if c.Search.ResultLimit < 0 {
		c.Search.ResultLimit = 0
	}
	if c.Behaviour.MaxItemCount < 1 {
		c.Behaviour.MaxItemCount = -1
	}
	if c.Search.Threshold <= 0 || c.Search.Threshold > 1 {
		log.Warnf("search threshold %v out of range, using %v", c.Search.Threshold, search.DefaultThreshold)
		c.Search.Threshold = search.DefaultThreshold
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return GetDefaultConfigPath()
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
