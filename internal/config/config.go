package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. MGENSTAT_LOGGING_LEVEL.
const EnvPrefix = "MGENSTAT"

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

type AnalysisConfig struct {
	HostDelimiter string `mapstructure:"host_delimiter"`
	Percentiles   bool   `mapstructure:"percentiles"`
}

// ThresholdConfig holds per-host quality limits. A zero value disables the limit.
type ThresholdConfig struct {
	MaxLatencyMs       float64 `mapstructure:"max_latency_ms"`
	MaxLossPercent     float64 `mapstructure:"max_loss_percent"`
	MaxJitterMs        float64 `mapstructure:"max_jitter_ms"`
	MinThroughputMbits float64 `mapstructure:"min_throughput_mbits"`
}

type Config struct {
	Logging    LoggingConfig   `mapstructure:"logging"`
	Analysis   AnalysisConfig  `mapstructure:"analysis"`
	Thresholds ThresholdConfig `mapstructure:"thresholds"`
}

// LoadConfig reads the optional YAML file at path and applies env overrides.
// An empty path means defaults plus environment only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("analysis.host_delimiter", "_")
	v.SetDefault("analysis.percentiles", false)
	v.SetDefault("thresholds.max_latency_ms", 0)
	v.SetDefault("thresholds.max_loss_percent", 0)
	v.SetDefault("thresholds.max_jitter_ms", 0)
	v.SetDefault("thresholds.min_throughput_mbits", 0)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// quick sanity checks
	if cfg.Analysis.HostDelimiter == "" {
		cfg.Analysis.HostDelimiter = "_"
	}
	t := &cfg.Thresholds
	for _, f := range []*float64{&t.MaxLatencyMs, &t.MaxLossPercent, &t.MaxJitterMs, &t.MinThroughputMbits} {
		if *f < 0 {
			*f = 0
		}
	}

	return &cfg, nil
}
