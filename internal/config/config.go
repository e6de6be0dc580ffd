package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/zeusync/unpossible/internal/core/observability/log"
)

const (
	EnvPrefix = "UNPOSSIBLE"
	FileName  = "unpossible"
)

// Config is the tool configuration. Physics tunables live in scenario files.
type Config struct {
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	Sim    SimConfig    `mapstructure:"sim" yaml:"sim"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
}

type LogConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

type SimConfig struct {
	// Speed scales wall-clock playback of real-time runs. The simulated step
	// always comes from the scenario.
	Speed      float64 `mapstructure:"speed" yaml:"speed"`
	MaxCatchUp int     `mapstructure:"max_catch_up" yaml:"max_catch_up"`
	// Workers bounds the scenarios a batch runs at once. Zero means one per scenario.
	Workers int `mapstructure:"workers" yaml:"workers"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	SendBuffer      int           `mapstructure:"send_buffer" yaml:"send_buffer"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 14)
	v.SetDefault("log.compress", false)

	v.SetDefault("sim.speed", 1.0)
	v.SetDefault("sim.max_catch_up", 5)
	v.SetDefault("sim.workers", 0)

	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.send_buffer", 16)
	v.SetDefault("server.write_timeout", 5*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
}

// NewDefaultConfig returns the configuration with only defaults applied.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config: unmarshal defaults: %v", err))
	}
	return &cfg
}

// Load reads file, or unpossible.yaml from the working directory when file is
// empty, then overlays UNPOSSIBLE_* environment variables. A missing default
// file is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format must be console or json, got %q", c.Log.Format))
	}
	if !(c.Sim.Speed > 0) || math.IsInf(c.Sim.Speed, 0) {
		errs = append(errs, errors.New("sim.speed must be a positive number"))
	}
	if c.Sim.MaxCatchUp <= 0 {
		errs = append(errs, errors.New("sim.max_catch_up must be a positive integer"))
	}
	if c.Sim.Workers < 0 {
		errs = append(errs, errors.New("sim.workers must not be negative"))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.SendBuffer <= 0 {
		errs = append(errs, errors.New("server.send_buffer must be a positive integer"))
	}
	return errors.Join(errs...)
}

// Period is the wall-clock interval between ticks simulating dt seconds.
func (s SimConfig) Period(dt float64) time.Duration {
	return time.Duration(dt / s.Speed * float64(time.Second))
}

func (l LogConfig) Options(name string) log.Options {
	level, _ := log.ParseLevel(l.Level)
	return log.Options{
		Level:      level,
		Format:     l.Format,
		Name:       name,
		File:       l.File,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
		Compress:   l.Compress,
	}
}
