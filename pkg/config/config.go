/*
Package config manages TOML config for suggestd.

Values come from, lowest priority first: built-in defaults, the TOML file,
then SUGGESTD_* environment variables. Command line flags are applied on top
by the caller.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/suggestd/internal/utils"
	"github.com/bastiangx/suggestd/pkg/api"
	"github.com/bastiangx/suggestd/pkg/registry"
	"github.com/bastiangx/suggestd/pkg/resolver"
	"github.com/bastiangx/suggestd/pkg/suggest"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Data    DataConfig    `toml:"data"`
	Suggest SuggestConfig `toml:"suggest"`
	CLI     CliConfig     `toml:"cli"`
}

// ServerConfig has request handling options shared by HTTP and IPC.
type ServerConfig struct {
	Addr         string  `toml:"addr"`
	DefaultLimit int     `toml:"default_limit"`
	MaxLimit     int     `toml:"max_limit"`
	PageSize     int     `toml:"page_size"`
	RateLimit    float64 `toml:"rate_limit"`
	RateBurst    int     `toml:"rate_burst"`
	MaxQueryLen  int     `toml:"max_query_len"`
}

// DataConfig locates the dataset files.
type DataConfig struct {
	Dir         string `toml:"dir"`
	Concurrency int    `toml:"concurrency"`
}

// SuggestConfig tunes the index and scoring.
type SuggestConfig struct {
	NgramWidth     int     `toml:"ngram_width"`
	EditCap        int     `toml:"edit_cap"`
	OverlapWeight  float64 `toml:"overlap_weight"`
	EditWeight     float64 `toml:"edit_weight"`
	SubstringBonus float64 `toml:"substring_bonus"`
	CacheSize      int     `toml:"cache_size"`
}

// CliConfig holds cli interface options. DefaultLimit only applies to the
// interactive prompt; HTTP and IPC use [server] default_limit.
type CliConfig struct {
	DefaultLimit int `toml:"default_limit"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":5000",
			DefaultLimit: suggest.DefaultLimit,
			MaxLimit:     100,
			PageSize:     100,
			RateLimit:    50,
			RateBurst:    100,
			MaxQueryLen:  256,
		},
		Data: DataConfig{
			Dir:         "data",
			Concurrency: 0,
		},
		Suggest: SuggestConfig{
			NgramWidth:     suggest.DefaultGramWidth,
			EditCap:        suggest.DefaultEditCap,
			OverlapWeight:  suggest.DefaultWeights.Overlap,
			EditWeight:     suggest.DefaultWeights.Edit,
			SubstringBonus: suggest.DefaultWeights.Substring,
			CacheSize:      0,
		},
		CLI: CliConfig{
			DefaultLimit: suggest.DefaultLimit,
		},
	}
}

// GetConfigDir returns the config directory with fallback priority:
// 1. the platform config dir (~/.config/suggestd, XDG_CONFIG_HOME, APPDATA)
// 2. ~/Library/Application Support/suggestd (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := utils.ConfigDir(homeDir)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", utils.AppName)
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for suggestd.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, utils.AppName+".toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/suggestd/suggestd.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

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
// defaults; a file that fails to decode is recovered section by section.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every well-typed value of a file that failed to decode.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "data"); ok {
		extractDataConfig(section, &config.Data)
	}
	if section, ok := utils.ExtractSection(tempConfig, "suggest"); ok {
		extractSuggestConfig(section, &config.Suggest)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractString(data, "addr"); ok {
		server.Addr = val
	}
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		server.DefaultLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "page_size"); ok {
		server.PageSize = val
	}
	if val, ok := utils.ExtractFloat(data, "rate_limit"); ok {
		server.RateLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "rate_burst"); ok {
		server.RateBurst = val
	}
	if val, ok := utils.ExtractInt64(data, "max_query_len"); ok {
		server.MaxQueryLen = val
	}
}

func extractDataConfig(data map[string]any, dataCfg *DataConfig) {
	if val, ok := utils.ExtractString(data, "dir"); ok {
		dataCfg.Dir = val
	}
	if val, ok := utils.ExtractInt64(data, "concurrency"); ok {
		dataCfg.Concurrency = val
	}
}

func extractSuggestConfig(data map[string]any, s *SuggestConfig) {
	if val, ok := utils.ExtractInt64(data, "ngram_width"); ok {
		s.NgramWidth = val
	}
	if val, ok := utils.ExtractInt64(data, "edit_cap"); ok {
		s.EditCap = val
	}
	if val, ok := utils.ExtractFloat(data, "overlap_weight"); ok {
		s.OverlapWeight = val
	}
	if val, ok := utils.ExtractFloat(data, "edit_weight"); ok {
		s.EditWeight = val
	}
	if val, ok := utils.ExtractFloat(data, "substring_bonus"); ok {
		s.SubstringBonus = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		s.CacheSize = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
}

// ApplyEnv overrides values from SUGGESTD_* variables read through lookup,
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup utils.LookupFunc) {
	if v, ok := utils.EnvString(lookup, "SUGGESTD_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := utils.EnvInt(lookup, "SUGGESTD_DEFAULT_LIMIT"); ok {
		c.Server.DefaultLimit = v
	}
	if v, ok := utils.EnvInt(lookup, "SUGGESTD_MAX_LIMIT"); ok {
		c.Server.MaxLimit = v
	}
	if v, ok := utils.EnvInt(lookup, "SUGGESTD_PAGE_SIZE"); ok {
		c.Server.PageSize = v
	}
	if v, ok := utils.EnvFloat(lookup, "SUGGESTD_RATE_LIMIT"); ok {
		c.Server.RateLimit = v
	}
	if v, ok := utils.EnvInt(lookup, "SUGGESTD_RATE_BURST"); ok {
		c.Server.RateBurst = v
	}
	if v, ok := utils.EnvInt(lookup, "SUGGESTD_MAX_QUERY_LEN"); ok {
		c.Server.MaxQueryLen = v
	}
	if v, ok := utils.EnvString(lookup, "SUGGESTD_DATA_DIR"); ok {
		c.Data.Dir = v
	}
	if v, ok := utils.EnvInt(lookup, "SUGGESTD_NGRAM_WIDTH"); ok {
		c.Suggest.NgramWidth = v
	}
	if v, ok := utils.EnvInt(lookup, "SUGGESTD_EDIT_CAP"); ok {
		c.Suggest.EditCap = v
	}
	if v, ok := utils.EnvInt(lookup, "SUGGESTD_CACHE_SIZE"); ok {
		c.Suggest.CacheSize = v
	}
}

// Validate reports every out-of-range value.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	check(c.Server.DefaultLimit >= 1, "server.default_limit must be at least 1, got %d", c.Server.DefaultLimit)
	check(c.Server.MaxLimit >= 1, "server.max_limit must be at least 1, got %d", c.Server.MaxLimit)
	check(c.Server.PageSize >= 1, "server.page_size must be at least 1, got %d", c.Server.PageSize)
	check(c.Server.RateLimit >= 0, "server.rate_limit must not be negative, got %g", c.Server.RateLimit)
	check(c.Server.RateBurst >= 0, "server.rate_burst must not be negative, got %d", c.Server.RateBurst)
	check(c.Server.MaxQueryLen >= 1, "server.max_query_len must be at least 1, got %d", c.Server.MaxQueryLen)
	check(c.Data.Concurrency >= 0, "data.concurrency must not be negative, got %d", c.Data.Concurrency)
	check(c.Suggest.NgramWidth >= 1, "suggest.ngram_width must be at least 1, got %d", c.Suggest.NgramWidth)
	check(c.Suggest.EditCap >= 0, "suggest.edit_cap must not be negative, got %d", c.Suggest.EditCap)
	check(c.Suggest.OverlapWeight >= 0, "suggest.overlap_weight must not be negative, got %g", c.Suggest.OverlapWeight)
	check(c.Suggest.EditWeight >= 0, "suggest.edit_weight must not be negative, got %g", c.Suggest.EditWeight)
	check(c.Suggest.SubstringBonus >= 0 && c.Suggest.SubstringBonus < 1,
		"suggest.substring_bonus must be in [0, 1), got %g", c.Suggest.SubstringBonus)
	check(c.Suggest.CacheSize >= 0, "suggest.cache_size must not be negative, got %d", c.Suggest.CacheSize)
	check(c.CLI.DefaultLimit >= 1, "cli.default_limit must be at least 1, got %d", c.CLI.DefaultLimit)
	return errors.Join(errs...)
}

// IndexOptions maps the [suggest] section to index options.
func (c *Config) IndexOptions() []suggest.Option {
	return []suggest.Option{
		suggest.WithGramWidth(c.Suggest.NgramWidth),
		suggest.WithEditCap(c.Suggest.EditCap),
		suggest.WithWeights(suggest.Weights{
			Overlap:   c.Suggest.OverlapWeight,
			Edit:      c.Suggest.EditWeight,
			Substring: c.Suggest.SubstringBonus,
		}),
	}
}

// RegistryOptions returns the options for loading the data directory.
func (c *Config) RegistryOptions() registry.Options {
	return registry.Options{
		Concurrency:  c.Data.Concurrency,
		CacheSize:    c.Suggest.CacheSize,
		IndexOptions: c.IndexOptions(),
	}
}

// ResolverOptions returns request defaults and bounds.
func (c *Config) ResolverOptions() resolver.Options {
	return resolver.Options{
		PageSize:     c.Server.PageSize,
		DefaultLimit: c.Server.DefaultLimit,
		MaxLimit:     c.Server.MaxLimit,
		MaxQueryLen:  c.Server.MaxQueryLen,
	}
}

// APIConfig returns the HTTP listener settings.
func (c *Config) APIConfig() api.Config {
	return api.Config{
		Addr:      c.Server.Addr,
		RateLimit: c.Server.RateLimit,
		RateBurst: c.Server.RateBurst,
	}
}

// RebuildConfigFile force creates a new suggestd.toml at the default path
func RebuildConfigFile() (string, error) {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return "", err
	}
	return defaultPath, SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "built-in defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
