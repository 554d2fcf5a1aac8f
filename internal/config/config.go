package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pokerjest/movieAutoTool/internal/updater"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Updater  UpdaterConfig  `mapstructure:"updater"`
	Scraper  ScraperConfig  `mapstructure:"scraper"`
	TMDB     TMDBConfig     `mapstructure:"tmdb"`
	Storage  StorageConfig  `mapstructure:"storage"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug or release
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

type UpdaterConfig struct {
	IntervalDays int    `mapstructure:"interval_days"`
	Schedule     string `mapstructure:"schedule"` // cron spec, empty disables
	// per category switch, e.g. categories.poster: false
	Categories map[string]bool `mapstructure:"categories"`
}

type ScraperConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	SearchURL         string        `mapstructure:"search_url"`
	UserAgent         string        `mapstructure:"user_agent"`
	AcceptLanguage    string        `mapstructure:"accept_language"`
	Timeout           time.Duration `mapstructure:"timeout"`
	Proxy             string        `mapstructure:"proxy"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

type TMDBConfig struct {
	Token string `mapstructure:"token"`
	Proxy string `mapstructure:"proxy"`
}

type StorageConfig struct {
	PosterDir string `mapstructure:"poster_dir"`
	PhotoDir  string `mapstructure:"photo_dir"`
}

var AppConfig *Config

func LoadConfig(configPath string) error {
	v := viper.New()

	// 默认值
	v.SetDefault("server.port", 8306)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.path", "data/movies.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("updater.interval_days", 30)
	v.SetDefault("updater.schedule", "@daily")
	for _, c := range updater.AllCategories() {
		v.SetDefault("updater.categories."+c.String(), true)
	}

	v.SetDefault("scraper.base_url", "https://www.imdb.com")
	v.SetDefault("scraper.search_url", "https://v3.sg.media-imdb.com/suggestion")
	v.SetDefault("scraper.user_agent", "")
	v.SetDefault("scraper.accept_language", "en-US,en;q=0.9")
	v.SetDefault("scraper.timeout", 15*time.Second)
	v.SetDefault("scraper.proxy", "")
	v.SetDefault("scraper.requests_per_second", 1.0)

	v.SetDefault("tmdb.token", "")
	v.SetDefault("tmdb.proxy", "")

	v.SetDefault("storage.poster_dir", "data/posters")
	v.SetDefault("storage.photo_dir", "data/photos")

	// 配置文件路径
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}

	// 环境变量替换 (使用 MOVIE_ 前缀)
	// 比如 MOVIE_SERVER_PORT=9090, MOVIE_UPDATER_CATEGORIES_POSTER=false
	v.SetEnvPrefix("MOVIE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay, use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if _, err := cfg.EnabledCategories(); err != nil {
		return err
	}
	if cfg.Updater.IntervalDays < 0 {
		return fmt.Errorf("updater.interval_days must not be negative, got %d", cfg.Updater.IntervalDays)
	}

	AppConfig = cfg
	return nil
}

// EnabledCategories returns the categories switched on in updater.categories.
// Categories missing from the map stay enabled.
func (c *Config) EnabledCategories() (updater.CategorySet, error) {
	set := updater.AllCategorySet()
	for name, on := range c.Updater.Categories {
		cat, err := updater.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("updater.categories: %w", err)
		}
		if !on {
			delete(set, cat)
		}
	}
	return set, nil
}

// UpdaterSettings converts the loaded settings into the updater's own config.
func (c *Config) UpdaterSettings() (updater.Config, error) {
	enabled, err := c.EnabledCategories()
	if err != nil {
		return updater.Config{}, err
	}
	return updater.Config{
		IntervalDays: c.Updater.IntervalDays,
		Enabled:      enabled,
	}, nil
}
