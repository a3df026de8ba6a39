package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gogpu/wgrender"
	"github.com/gogpu/wgrender/device"
	"github.com/gogpu/wgrender/surface"
)

// envPrefix prefixes environment overrides, e.g. WGDEMO_PRESENT_MODE=mailbox.
const envPrefix = "WGDEMO"

// Config holds the demo settings. Every field can be set from a flag, the
// config file or the environment.
type Config struct {
	Title       string `mapstructure:"title" validate:"required"`
	Width       int    `mapstructure:"width" validate:"min=1,max=16384"`
	Height      int    `mapstructure:"height" validate:"min=1,max=16384"`
	Backend     string `mapstructure:"backend"`
	PresentMode string `mapstructure:"present_mode" validate:"oneof=fifo vsync mailbox immediate"`
	ZeroSize    string `mapstructure:"zero_size" validate:"oneof=reject clamp"`
	Power       string `mapstructure:"power" validate:"oneof=default low high"`
	Clear       string `mapstructure:"clear" validate:"hexcolor"`
	LogLevel    string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	MetricsAddr string `mapstructure:"metrics_addr" validate:"omitempty,hostname_port"`
	Frames      int    `mapstructure:"frames" validate:"min=0"` // 0 runs until the window closes
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("title", "wgrender demo")
	v.SetDefault("width", 320)
	v.SetDefault("height", 240)
	v.SetDefault("backend", "")
	v.SetDefault("present_mode", "fifo")
	v.SetDefault("zero_size", "reject")
	v.SetDefault("power", "default")
	v.SetDefault("clear", "#6495ed")
	v.SetDefault("log_level", "warn")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("frames", 0)
}

// registerFlags declares the command-line flags. Flag names use dashes and
// map onto the underscored config keys.
func registerFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (yaml, toml or json)")
	fs.String("title", "", "window title")
	fs.Int("width", 0, "initial window width")
	fs.Int("height", 0, "initial window height")
	fs.String("backend", "", "GPU backend: vulkan, noop or empty for the best available")
	fs.String("present-mode", "", "fifo, mailbox or immediate")
	fs.String("zero-size", "", "zero-sized resize policy: reject or clamp")
	fs.String("power", "", "adapter power preference: default, low or high")
	fs.String("clear", "", "clear color as #rrggbb")
	fs.String("log-level", "", "debug, info, warn or error")
	fs.String("metrics-addr", "", "serve Prometheus metrics on this address")
	fs.Int("frames", 0, "exit after this many frames")
}

// loadConfig resolves the configuration from defaults, an optional config
// file, WGDEMO_* environment variables and explicitly set flags, in
// increasing order of precedence.
func loadConfig(v *viper.Viper, fs *pflag.FlagSet) (Config, error) {
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		var bindErr error
		fs.VisitAll(func(f *pflag.Flag) {
			if f.Name == "config" || bindErr != nil {
				return
			}
			if f.Changed {
				bindErr = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
			}
		})
		if bindErr != nil {
			return Config{}, fmt.Errorf("bind flags: %w", bindErr)
		}
		if path, _ := fs.GetString("config"); path != "" {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Level returns the slog level for LogLevel.
func (c Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return l
}

// ClearColor returns the parsed clear color.
func (c Config) ClearColor() (wgrender.Color, error) {
	return wgrender.ParseHex(c.Clear)
}

// Options converts the configuration into renderer options.
func (c Config) Options() ([]wgrender.Option, error) {
	mode, err := surface.ParsePresentMode(c.PresentMode)
	if err != nil {
		return nil, err
	}
	zero, err := surface.ParseZeroSizePolicy(c.ZeroSize)
	if err != nil {
		return nil, err
	}
	power, err := device.ParsePowerPreference(c.Power)
	if err != nil {
		return nil, err
	}
	return []wgrender.Option{
		wgrender.WithBackend(c.Backend),
		wgrender.WithPresentMode(mode),
		wgrender.WithZeroSizePolicy(zero),
		wgrender.WithPowerPreference(power),
	}, nil
}
