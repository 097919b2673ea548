// Package config handles configuration loading using viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"firestige.xyz/tyto/internal/core"
	"firestige.xyz/tyto/internal/validator"
)

// Config is the top-level static configuration. Maps to the `tyto:`
// root key in YAML; env vars use the TYTO_ prefix via the key replacer
// (e.g. key "tyto.log.level" → env "TYTO_LOG_LEVEL").
type Config struct {
	Link      LinkConfig      `mapstructure:"link" yaml:"link"`
	Queue     QueueConfig     `mapstructure:"queue" yaml:"queue"`
	Validator ValidatorConfig `mapstructure:"validator" yaml:"validator"`
	Metrics   MetricsConfig   `mapstructure:"metrics" yaml:"metrics"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

// LinkConfig selects and configures the link-source collaborator.
type LinkConfig struct {
	Pcap PcapConfig `mapstructure:"pcap" yaml:"pcap"`
}

// PcapConfig configures pcap file replay.
type PcapConfig struct {
	Path           string  `mapstructure:"path" yaml:"path"`
	Loop           bool    `mapstructure:"loop" yaml:"loop"`
	CorruptFCSRate float64 `mapstructure:"corrupt_fcs_rate" yaml:"corrupt_fcs_rate"`
}

// QueueConfig configures the domain-crossing queue.
type QueueConfig struct {
	Capacity int `mapstructure:"capacity" yaml:"capacity"`
}

// ValidatorConfig is the frame admission policy.
type ValidatorConfig struct {
	VLANAware      bool     `mapstructure:"vlan_aware" yaml:"vlan_aware"`
	AllowedVLANIDs []uint16 `mapstructure:"allowed_vlan_ids" yaml:"allowed_vlan_ids"`
	UntaggedPolicy string   `mapstructure:"untagged_policy" yaml:"untagged_policy"` // drop | accept
	DefaultVLANID  uint16   `mapstructure:"default_vlan_id" yaml:"default_vlan_id"`
	MinFrameBytes  int      `mapstructure:"min_frame_bytes" yaml:"min_frame_bytes"`
	MaxFrameBytes  int      `mapstructure:"max_frame_bytes" yaml:"max_frame_bytes"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Listen  string `mapstructure:"listen" yaml:"listen"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string           `mapstructure:"level" yaml:"level"`   // debug / info / warn / error
	Format string           `mapstructure:"format" yaml:"format"` // json / text
	File   FileOutputConfig `mapstructure:"file" yaml:"file"`
}

// FileOutputConfig configures rotated file log output.
type FileOutputConfig struct {
	Enabled  bool           `mapstructure:"enabled" yaml:"enabled"`
	Path     string         `mapstructure:"path" yaml:"path"`
	Rotation RotationConfig `mapstructure:"rotation" yaml:"rotation"`
}

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxAgeDays int  `mapstructure:"max_age_days" yaml:"max_age_days"`
	MaxBackups int  `mapstructure:"max_backups" yaml:"max_backups"`
	Compress   bool `mapstructure:"compress" yaml:"compress"`
}

// Membership builds the VLAN membership collaborator handed to the
// validator: a plain set lookup over the allowed IDs.
func (vc ValidatorConfig) Membership() validator.MembershipFunc {
	allowed := make(map[uint16]struct{}, len(vc.AllowedVLANIDs))
	for _, id := range vc.AllowedVLANIDs {
		allowed[id] = struct{}{}
	}
	return func(id uint16) bool {
		_, ok := allowed[id]
		return ok
	}
}

// ValidatorSettings resolves the policy into the validator's own config.
func (vc ValidatorConfig) ValidatorSettings() validator.Config {
	return validator.Config{
		VLANAware:      vc.VLANAware,
		Member:         vc.Membership(),
		AcceptUntagged: vc.UntaggedPolicy == "accept",
		DefaultVLANID:  vc.DefaultVLANID,
		MinFrameBytes:  vc.MinFrameBytes,
		MaxFrameBytes:  vc.MaxFrameBytes,
	}
}

// configRoot is the wrapper matching the YAML structure `tyto: ...`.
type configRoot struct {
	Tyto Config `mapstructure:"tyto" yaml:"tyto"`
}

// Load loads and validates configuration from path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// No explicit env prefix — the `tyto.` key prefix maps naturally to
	// TYTO_ via the key replacer.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.Tyto

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets default values. All keys carry the "tyto." prefix to
// match the YAML root wrapper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("tyto.queue.capacity", 2048)

	v.SetDefault("tyto.validator.vlan_aware", false)
	v.SetDefault("tyto.validator.untagged_policy", "drop")
	v.SetDefault("tyto.validator.default_vlan_id", 1)
	v.SetDefault("tyto.validator.min_frame_bytes", core.DefaultMinFrameBytes)
	v.SetDefault("tyto.validator.max_frame_bytes", core.DefaultMaxFrameBytes)

	v.SetDefault("tyto.metrics.enabled", true)
	v.SetDefault("tyto.metrics.listen", ":9092")
	v.SetDefault("tyto.metrics.path", "/metrics")

	v.SetDefault("tyto.log.level", "info")
	v.SetDefault("tyto.log.format", "json")
	v.SetDefault("tyto.log.file.enabled", false)
	v.SetDefault("tyto.log.file.path", "/var/log/tyto/tyto.log")
	v.SetDefault("tyto.log.file.rotation.max_size_mb", 100)
	v.SetDefault("tyto.log.file.rotation.max_age_days", 30)
	v.SetDefault("tyto.log.file.rotation.max_backups", 5)
	v.SetDefault("tyto.log.file.rotation.compress", true)
}

// Validate checks structural invariants. An inverted size window is
// fatal misconfiguration, not something to report per frame.
func (cfg *Config) Validate() error {
	if cfg.Queue.Capacity <= 0 {
		return fmt.Errorf("%w: queue.capacity must be positive, got %d",
			core.ErrConfigInvalid, cfg.Queue.Capacity)
	}

	vc := cfg.Validator
	if vc.MinFrameBytes > vc.MaxFrameBytes {
		return fmt.Errorf("%w: min=%d max=%d",
			core.ErrSizeBounds, vc.MinFrameBytes, vc.MaxFrameBytes)
	}
	if vc.MinFrameBytes < 0 {
		return fmt.Errorf("%w: min_frame_bytes must not be negative", core.ErrConfigInvalid)
	}
	if vc.UntaggedPolicy != "drop" && vc.UntaggedPolicy != "accept" {
		return fmt.Errorf("%w: untagged_policy must be drop or accept, got %q",
			core.ErrConfigInvalid, vc.UntaggedPolicy)
	}
	if vc.DefaultVLANID > 0x0FFF {
		return fmt.Errorf("%w: default_vlan_id %d exceeds 12 bits",
			core.ErrConfigInvalid, vc.DefaultVLANID)
	}
	for _, id := range vc.AllowedVLANIDs {
		if id > 0x0FFF {
			return fmt.Errorf("%w: allowed VLAN ID %d exceeds 12 bits",
				core.ErrConfigInvalid, id)
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("%w: invalid log level %q", core.ErrConfigInvalid, cfg.Log.Level)
	}
	if cfg.Log.Format != "json" && cfg.Log.Format != "text" {
		return fmt.Errorf("%w: invalid log format %q", core.ErrConfigInvalid, cfg.Log.Format)
	}

	return nil
}
