// Package config defines the site configuration and loads it through viper
// from defaults, an optional config file and EVO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/FReptar0/EvoSystems/internal/logger"
	"github.com/FReptar0/EvoSystems/internal/related"
	"github.com/FReptar0/EvoSystems/internal/search"
)

// EnvPrefix namespaces environment overrides, e.g. EVO_SERVER_PORT.
const EnvPrefix = "EVO"

// Config is the full site configuration.
type Config struct {
	Site      SiteConfig      `mapstructure:"site"`
	Search    SearchConfig    `mapstructure:"search"`
	Related   RelatedConfig   `mapstructure:"related"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   logger.Config   `mapstructure:"logging"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Contact   ContactConfig   `mapstructure:"contact"`
}

// SiteConfig locates the content and the build output.
type SiteConfig struct {
	Title      string `mapstructure:"title" validate:"required"`
	BaseURL    string `mapstructure:"baseURL" validate:"omitempty,url"`
	OutputDir  string `mapstructure:"outputDir" validate:"required"`
	ContentDir string `mapstructure:"contentDir" validate:"required"`
	DataDir    string `mapstructure:"dataDir" validate:"required"`
	StaticDir  string `mapstructure:"staticDir"`
	// LayoutsDir overrides the built-in layouts when set.
	LayoutsDir string `mapstructure:"layoutsDir"`
}

// SearchConfig tunes the matcher and the search panel.
type SearchConfig struct {
	Limit              int           `mapstructure:"limit" validate:"min=1,max=50"`
	Debounce           time.Duration `mapstructure:"debounce"`
	Ranking            string        `mapstructure:"ranking" validate:"oneof=pool scored"`
	GuardFocusedInputs bool          `mapstructure:"guardFocusedInputs"`
}

// RelatedConfig tunes related posts and cities.
type RelatedConfig struct {
	Limit     int    `mapstructure:"limit" validate:"min=1"`
	Strategy  string `mapstructure:"strategy" validate:"oneof=pool explicit-first"`
	CityLimit int    `mapstructure:"cityLimit" validate:"min=1"`
}

// ServerConfig controls the dev/preview HTTP server.
type ServerConfig struct {
	Port          int           `mapstructure:"port" validate:"min=1,max=65535"`
	Debug         bool          `mapstructure:"debug"`
	Watch         bool          `mapstructure:"watch"`
	WatchDebounce time.Duration `mapstructure:"watchDebounce"`
}

// AnalyticsConfig points the tracker at the collector.
type AnalyticsConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Endpoint      string        `mapstructure:"endpoint" validate:"omitempty,url"`
	MeasurementID string        `mapstructure:"measurementID"`
	APISecret     string        `mapstructure:"apiSecret"`
	BufferSize    int           `mapstructure:"bufferSize" validate:"min=1"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// ContactConfig holds the sales contact channels.
type ContactConfig struct {
	WhatsAppPhone string `mapstructure:"whatsappPhone" validate:"required"`
	Email         string `mapstructure:"email" validate:"required,email"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("site.title", "EvoSystems")
	v.SetDefault("site.baseURL", "")
	v.SetDefault("site.outputDir", "public")
	v.SetDefault("site.contentDir", "content")
	v.SetDefault("site.dataDir", "data")
	v.SetDefault("site.staticDir", "static")
	v.SetDefault("site.layoutsDir", "")

	v.SetDefault("search.limit", search.DefaultLimit)
	v.SetDefault("search.debounce", search.DefaultDebounce)
	v.SetDefault("search.ranking", string(search.RankPoolOrder))
	v.SetDefault("search.guardFocusedInputs", true)

	v.SetDefault("related.limit", related.DefaultLimit)
	v.SetDefault("related.strategy", string(related.PoolOrder))
	v.SetDefault("related.cityLimit", related.DefaultCityLimit)

	v.SetDefault("server.port", 1313)
	v.SetDefault("server.debug", false)
	v.SetDefault("server.watch", true)
	v.SetDefault("server.watchDebounce", 500*time.Millisecond)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)

	v.SetDefault("analytics.enabled", false)
	v.SetDefault("analytics.endpoint", "https://www.google-analytics.com/mp/collect")
	v.SetDefault("analytics.measurementID", "")
	v.SetDefault("analytics.apiSecret", "")
	v.SetDefault("analytics.bufferSize", 256)
	v.SetDefault("analytics.timeout", 5*time.Second)

	v.SetDefault("contact.whatsappPhone", "525500000000")
	v.SetDefault("contact.email", "info@evosystems.dev")
}

// Load reads the config file (cfgFile, or ./config.yaml when empty) and
// environment overrides into a validated Config. A missing default config
// file is not an error; a missing explicit one is. found reports whether a
// file was read.
func Load(v *viper.Viper, cfgFile string) (cfg *Config, found bool, err error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return nil, false, fmt.Errorf("read config file: %w", err)
		}
	} else {
		found = true
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, found, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, found, err
	}
	if found {
		cfg.Site.resolve(filepath.Dir(v.ConfigFileUsed()))
	}
	return cfg, found, nil
}

// resolve makes relative site directories relative to base, the directory
// of the config file.
func (s *SiteConfig) resolve(base string) {
	for _, dir := range []*string{&s.OutputDir, &s.ContentDir, &s.DataDir, &s.StaticDir, &s.LayoutsDir} {
		if *dir != "" && !filepath.IsAbs(*dir) {
			*dir = filepath.Join(base, *dir)
		}
	}
}

// PagesDir holds the markdown pages.
func (s SiteConfig) PagesDir() string {
	return filepath.Join(s.ContentDir, "pages")
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Analytics.Enabled && c.Analytics.Endpoint == "" {
		return errors.New("invalid config: analytics.endpoint is required when analytics is enabled")
	}
	if c.Search.Debounce < 0 || c.Server.WatchDebounce < 0 {
		return errors.New("invalid config: debounce durations must not be negative")
	}
	return nil
}

// SearchRanking is the parsed search.ranking value.
func (c *Config) SearchRanking() search.Ranking {
	r, err := search.ParseRanking(c.Search.Ranking)
	if err != nil {
		return search.RankPoolOrder
	}
	return r
}

// RelatedStrategy is the parsed related.strategy value.
func (c *Config) RelatedStrategy() related.Strategy {
	s, err := related.ParseStrategy(c.Related.Strategy)
	if err != nil {
		return related.PoolOrder
	}
	return s
}
