package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	internal "github.com/ZanzyTHEbar/dupesweep/sweep"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Scan    ScanConfig    `mapstructure:"scan"`
	Hash    HashConfig    `mapstructure:"hash"`
	Cleanup CleanupConfig `mapstructure:"cleanup"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Log     LogConfig     `mapstructure:"log"`
	Report  ReportConfig  `mapstructure:"report"`
}

// ScanConfig stores tree enumeration settings.
type ScanConfig struct {
	MaxDepth      int      `mapstructure:"maxDepth"`
	IncludeHidden bool     `mapstructure:"includeHidden"`
	IgnoreFile    string   `mapstructure:"ignoreFile"`
	Exclude       []string `mapstructure:"exclude"`
}

// HashConfig stores content hashing settings.
type HashConfig struct {
	Algorithm string `mapstructure:"algorithm"`
	Workers   int    `mapstructure:"workers"`
}

// CleanupConfig stores deletion settings.
type CleanupConfig struct {
	Workers int `mapstructure:"workers"`
}

// FilterConfig stores the default combination mode for active filters.
type FilterConfig struct {
	Mode string `mapstructure:"mode"`
}

// LogConfig stores logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ReportConfig stores output settings.
type ReportConfig struct {
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
// An explicit configPath must exist; otherwise a missing config file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(internal.DefaultConfigPath)
		v.SetConfigName(internal.DefaultConfigName)
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	v.SetEnvPrefix(internal.DefaultEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // scan.maxDepth -> DUPESWEEP_SCAN_MAXDEPTH
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("scan.maxDepth", 10)
	v.SetDefault("scan.includeHidden", false)
	v.SetDefault("scan.ignoreFile", "")
	v.SetDefault("scan.exclude", []string{})
	v.SetDefault("hash.algorithm", "sha256")
	v.SetDefault("hash.workers", runtime.NumCPU())
	v.SetDefault("cleanup.workers", 1)
	v.SetDefault("filter.mode", "OR")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("report.format", "text")
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	if c.Scan.MaxDepth < -1 {
		return fmt.Errorf("scan.maxDepth must be >= 0, or -1 for unlimited, got %d", c.Scan.MaxDepth)
	}
	if c.Hash.Workers < 1 {
		return fmt.Errorf("hash.workers must be >= 1, got %d", c.Hash.Workers)
	}
	if c.Cleanup.Workers < 1 {
		return fmt.Errorf("cleanup.workers must be >= 1, got %d", c.Cleanup.Workers)
	}
	switch strings.ToLower(c.Hash.Algorithm) {
	case "sha256", "blake3":
	default:
		return fmt.Errorf("hash.algorithm must be sha256 or blake3, got %q", c.Hash.Algorithm)
	}
	switch strings.ToUpper(c.Filter.Mode) {
	case "AND", "OR":
	default:
		return fmt.Errorf("filter.mode must be AND or OR, got %q", c.Filter.Mode)
	}
	switch strings.ToLower(c.Report.Format) {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("report.format must be text, json or yaml, got %q", c.Report.Format)
	}
	return nil
}
