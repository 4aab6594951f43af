// Package config loads gpumark command-line settings from a config file,
// GPUMARK_* environment variables and flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables, e.g. GPUMARK_BACKEND.
const EnvPrefix = "GPUMARK"

// Output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// MaxTextureSize is the largest texture_size, the default 2D texture limit
// of a device.
var MaxTextureSize = int(gputypes.DefaultLimits().MaxTextureDimension2D)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config holds the settings of one benchmark run.
type Config struct {
	Backend        string        `mapstructure:"backend"`
	Width          int           `mapstructure:"width"`
	Height         int           `mapstructure:"height"`
	VSync          bool          `mapstructure:"vsync"`
	Frames         int           `mapstructure:"frames"`
	Duration       time.Duration `mapstructure:"duration"`
	SamplingWindow float64       `mapstructure:"sampling_window"`
	AssetDir       string        `mapstructure:"asset_dir"`
	Shader         string        `mapstructure:"shader"`
	Texture        string        `mapstructure:"texture"`
	TextureSize    int           `mapstructure:"texture_size"`
	Output         string        `mapstructure:"output"`
	Format         string        `mapstructure:"format"`
	MetricsFile    string        `mapstructure:"metrics_file"`
	LogLevel       string        `mapstructure:"log_level"`
}

var defaults = map[string]any{
	"backend":         "",
	"width":           0,
	"height":          0,
	"vsync":           false,
	"frames":          0,
	"duration":        10 * time.Second,
	"sampling_window": 1.0,
	"asset_dir":       ".",
	"shader":          "",
	"texture":         "",
	"texture_size":    0,
	"output":          "",
	"format":          FormatJSON,
	"metrics_file":    "",
	"log_level":       "warn",
}

// New returns a viper instance with gpumark defaults and environment
// lookup configured.
func New() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds every flag in fs whose name, with dashes turned into
// underscores, is a config key. Flags only override lower layers when set.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if _, ok := defaults[key]; !ok || err != nil {
			return
		}
		if bindErr := v.BindPFlag(key, f); bindErr != nil {
			err = fmt.Errorf("config: bind flag %s: %w", f.Name, bindErr)
		}
	})
	return err
}

// Load reads file (if not empty) into v, decodes the merged settings and
// validates them. Precedence is flags, then environment, then file, then
// defaults.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings a run cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Width < 0 || c.Height < 0 {
		errs = append(errs, fmt.Errorf("size %dx%d is negative", c.Width, c.Height))
	}
	if (c.Width == 0) != (c.Height == 0) {
		errs = append(errs, fmt.Errorf("width and height must be set together"))
	}
	if c.Frames < 0 {
		errs = append(errs, fmt.Errorf("frames %d is negative", c.Frames))
	}
	if c.Duration < 0 {
		errs = append(errs, fmt.Errorf("duration %v is negative", c.Duration))
	}
	if c.TextureSize < 0 || c.TextureSize > MaxTextureSize {
		errs = append(errs, fmt.Errorf("texture_size %d is outside 0..%d", c.TextureSize, MaxTextureSize))
	}
	if c.SamplingWindow <= 0 {
		errs = append(errs, fmt.Errorf("sampling_window %v must be positive", c.SamplingWindow))
	}
	switch c.Format {
	case FormatJSON, FormatText:
	default:
		errs = append(errs, fmt.Errorf("format %q is not %q or %q", c.Format, FormatJSON, FormatText))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Level parses LogLevel (debug, info, warn, error).
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}
