// Package config binds command-line flags, environment and config files through viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vidsnatch/internal/dirs"
)

// Fetcher backends selectable with the "fetcher" key.
const (
	FetcherHTTP  = "http"
	FetcherYTDLP = "ytdlp"
)

// Config is the resolved configuration of one invocation.
type Config struct {
	OutDir           string        `mapstructure:"out_dir"`
	Verbose          bool          `mapstructure:"verbose"`
	DLBinary         string        `mapstructure:"dl_binary"`
	FFmpegBinary     string        `mapstructure:"ffmpeg_binary"`
	Jobs             int           `mapstructure:"jobs"`
	Fetcher          string        `mapstructure:"fetcher"`
	ProgressInterval time.Duration `mapstructure:"progress_interval"`
	Log              LogConfig     `mapstructure:"log"`
	History          HistoryConfig `mapstructure:"history"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("out_dir", ".")
	v.SetDefault("jobs", 2)
	v.SetDefault("fetcher", FetcherHTTP)
	v.SetDefault("progress_interval", 200*time.Millisecond)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("history.enabled", true)
}

// Init wires the global viper instance with config paths, env, defaults and the
// root command's persistent flags. A missing config file is not an error.
func Init(root *cobra.Command) error {
	v := viper.GetViper()
	SetDefaults(v)

	if cfgDir, err := dirs.ConfigDir(); err == nil {
		v.AddConfigPath(cfgDir)
	}
	v.SetConfigName("config")

	v.SetEnvPrefix("VIDSNATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	flags := root.PersistentFlags()
	for key, flag := range map[string]string{
		"out_dir":       "out-dir",
		"verbose":       "verbose",
		"dl_binary":     "dl-binary",
		"ffmpeg_binary": "ffmpeg-binary",
		"jobs":          "jobs",
		"fetcher":       "fetcher",
		"log.level":     "log-level",
	} {
		if f := flags.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind --%s: %w", flag, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// Load decodes the global viper state into a validated Config.
func Load() (Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom decodes v into a validated Config.
func LoadFrom(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if c.Verbose {
		c.Log.Level = "debug"
	}
	if c.History.Path == "" {
		if p, err := dirs.HistoryPath(); err == nil {
			c.History.Path = p
		}
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values no command can run with.
func (c Config) Validate() error {
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	switch c.Fetcher {
	case FetcherHTTP, FetcherYTDLP:
	default:
		return fmt.Errorf("unknown fetcher %q (want %s or %s)", c.Fetcher, FetcherHTTP, FetcherYTDLP)
	}
	if c.ProgressInterval < 0 {
		return errors.New("progress_interval must not be negative")
	}
	if c.OutDir == "" {
		return errors.New("out_dir must not be empty")
	}
	return nil
}
