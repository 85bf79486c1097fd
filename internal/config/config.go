package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"spotscout/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Logging  logging.Config `mapstructure:"logging"`
	AWS      AWSConfig      `mapstructure:"aws"`
	Report   ReportConfig   `mapstructure:"report"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Alerting AlertingConfig `mapstructure:"alerting"`
	Export   ExportConfig   `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name string `mapstructure:"name"`
}

// AWSConfig covers access to the EC2 spot price API.
type AWSConfig struct {
	// DiscoveryRegion is the endpoint used to list regions.
	DiscoveryRegion     string        `mapstructure:"discovery_region"`
	Profile             string        `mapstructure:"profile"`
	EndpointURL         string        `mapstructure:"endpoint_url"`
	ProductDescriptions []string      `mapstructure:"product_descriptions"`
	Lookback            time.Duration `mapstructure:"lookback"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout"`
	MaxConcurrency      int           `mapstructure:"max_concurrency"`
	MaxAttempts         int           `mapstructure:"max_attempts"`
	// AllowPartial keeps the surviving regions when some fail hard.
	AllowPartial bool `mapstructure:"allow_partial"`
}

// ReportConfig tunes the rendered price table.
type ReportConfig struct {
	Top              int     `mapstructure:"top"`
	NearMinimumRatio float64 `mapstructure:"near_minimum_ratio"`
	PricePlaces      int32   `mapstructure:"price_places"`
	Color            string  `mapstructure:"color"`
}

// WatchConfig governs the repeated check cadence.
type WatchConfig struct {
	Interval      time.Duration `mapstructure:"interval"`
	AlignToBucket bool          `mapstructure:"align_to_bucket"`
	StartupDelay  time.Duration `mapstructure:"startup_delay"`
}

// AlertingConfig defines the cheap-price alert.
type AlertingConfig struct {
	Enabled        bool           `mapstructure:"enabled"`
	ThresholdPrice float64        `mapstructure:"threshold_price"`
	Telegram       TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig describes Telegram delivery.
type TelegramConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	BotToken string        `mapstructure:"bot_token"`
	ChatID   string        `mapstructure:"chat_id"`
	APIBase  string        `mapstructure:"api_base"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// ExportConfig sets export behaviour.
type ExportConfig struct {
	ChartWidth  int `mapstructure:"chart_width"`
	ChartHeight int `mapstructure:"chart_height"`
	MaxBars     int `mapstructure:"max_bars"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SPOTSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("spotscout")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "spotscout")

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")

	v.SetDefault("aws.discovery_region", "us-west-2")
	v.SetDefault("aws.profile", "")
	v.SetDefault("aws.endpoint_url", "")
	v.SetDefault("aws.product_descriptions", []string{"Linux/UNIX", "Linux/UNIX (Amazon VPC)"})
	v.SetDefault("aws.lookback", "4h")
	v.SetDefault("aws.request_timeout", "60s")
	v.SetDefault("aws.max_concurrency", 0)
	v.SetDefault("aws.max_attempts", 0)
	v.SetDefault("aws.allow_partial", false)

	v.SetDefault("report.top", 0)
	v.SetDefault("report.near_minimum_ratio", 1.1)
	v.SetDefault("report.price_places", 6)
	v.SetDefault("report.color", "auto")

	v.SetDefault("watch.interval", "15m")
	v.SetDefault("watch.align_to_bucket", true)
	v.SetDefault("watch.startup_delay", "0s")

	v.SetDefault("alerting.enabled", false)
	v.SetDefault("alerting.threshold_price", 0.0)
	v.SetDefault("alerting.telegram.enabled", false)
	v.SetDefault("alerting.telegram.bot_token", "")
	v.SetDefault("alerting.telegram.chat_id", "")
	v.SetDefault("alerting.telegram.api_base", "https://api.telegram.org")
	v.SetDefault("alerting.telegram.timeout", "10s")

	v.SetDefault("export.chart_width", 1280)
	v.SetDefault("export.chart_height", 720)
	v.SetDefault("export.max_bars", 25)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.AWS.DiscoveryRegion == "" {
		return fmt.Errorf("aws.discovery_region must be set")
	}
	if c.AWS.Lookback <= 0 {
		return fmt.Errorf("aws.lookback must be greater than zero")
	}
	if c.AWS.MaxConcurrency < 0 {
		return fmt.Errorf("aws.max_concurrency cannot be negative")
	}
	if c.AWS.MaxAttempts < 0 {
		return fmt.Errorf("aws.max_attempts cannot be negative")
	}
	if c.Report.Top < 0 {
		return fmt.Errorf("report.top cannot be negative")
	}
	if c.Report.NearMinimumRatio < 1 {
		return fmt.Errorf("report.near_minimum_ratio must be at least 1")
	}
	if c.Report.PricePlaces < 0 {
		return fmt.Errorf("report.price_places cannot be negative")
	}
	switch strings.ToLower(c.Report.Color) {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("report.color must be one of auto, always, never")
	}
	if c.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be greater than zero")
	}
	if c.Alerting.ThresholdPrice < 0 {
		return fmt.Errorf("alerting.threshold_price cannot be negative")
	}
	if c.Alerting.Telegram.Enabled {
		if c.Alerting.Telegram.BotToken == "" {
			return fmt.Errorf("alerting.telegram.bot_token is required")
		}
		if c.Alerting.Telegram.ChatID == "" {
			return fmt.Errorf("alerting.telegram.chat_id is required")
		}
	}
	if c.Export.ChartWidth <= 0 || c.Export.ChartHeight <= 0 {
		return fmt.Errorf("export chart dimensions must be greater than zero")
	}
	return nil
}

// ResolveTop returns either the CLI override or config default.
func (c *Config) ResolveTop(override int) int {
	if override > 0 {
		return override
	}
	return c.Report.Top
}
