package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data     DataConfig     `yaml:"data" mapstructure:"data"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Forecast ForecastConfig `yaml:"forecast" mapstructure:"forecast"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the input CSV files.
type DataConfig struct {
	TransactionsPath string `yaml:"transactions_path" mapstructure:"transactions_path"`
	RegionsPath      string `yaml:"regions_path" mapstructure:"regions_path"`
}

// OutputConfig configures where derived tables and reports are written.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// ForecastConfig configures the per-group sales forecasting stage.
type ForecastConfig struct {
	HorizonDays     int    `yaml:"horizon_days" mapstructure:"horizon_days"`
	MinObservations int    `yaml:"min_observations" mapstructure:"min_observations"`
	MaxConcurrent   int    `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	FitTimeoutSecs  int    `yaml:"fit_timeout_secs" mapstructure:"fit_timeout_secs"`
	HolidayCountry  string `yaml:"holiday_country" mapstructure:"holiday_country"`
}

// ServerConfig configures the dashboard API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ANALYTICS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.transactions_path", "data/customer_shopping_data.csv")
	v.SetDefault("data.regions_path", "data/mall_regions.csv")
	v.SetDefault("output.dir", "output")
	v.SetDefault("forecast.horizon_days", 90)
	v.SetDefault("forecast.min_observations", 10)
	v.SetDefault("forecast.max_concurrent", 4)
	v.SetDefault("forecast.fit_timeout_secs", 30)
	v.SetDefault("forecast.holiday_country", "TR")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command actually needs. mode is the
// subcommand name: "run", "rfm", "forecast", or "serve".
func (c *Config) Validate(mode string) error {
	var missing []string

	needsData := func() {
		if c.Data.TransactionsPath == "" {
			missing = append(missing, "data.transactions_path is required")
		}
		if c.Data.RegionsPath == "" {
			missing = append(missing, "data.regions_path is required")
		}
	}

	switch mode {
	case "run", "rfm", "serve":
		needsData()
	case "forecast":
		needsData()
		if c.Forecast.HorizonDays < 1 {
			missing = append(missing, "forecast.horizon_days must be >= 1")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if mode == "run" || mode == "forecast" || mode == "serve" {
		if c.Forecast.MinObservations < 2 {
			missing = append(missing, "forecast.min_observations must be >= 2")
		}
		if c.Forecast.MaxConcurrent < 1 || c.Forecast.MaxConcurrent > 64 {
			missing = append(missing, "forecast.max_concurrent must be between 1 and 64")
		}
	}

	if mode == "serve" && c.Server.Port <= 0 {
		missing = append(missing, "server.port must be > 0")
	}

	if len(missing) > 0 {
		return eris.New("config: " + strings.Join(missing, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
