package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"newscorr/src/datamodels"
	"newscorr/src/utils/errors"
	"newscorr/src/utils/general"
)

const EnvPrefix = "NEWSCORR"

func setDefaults(v *viper.Viper) {
	indicators := datamodels.DefaultIndicatorConfig()

	v.SetDefault("analysis.data_dir", "data/prices")
	v.SetDefault("analysis.news_source", "data/raw_analyst_ratings.csv")
	v.SetDefault("analysis.price_source", datamodels.PriceSourceCsv)
	v.SetDefault("analysis.sentiment_aggregator", "mean")
	v.SetDefault("analysis.workers", 1)
	v.SetDefault("analysis.persist_results", false)
	v.SetDefault("indicators.sma_periods", indicators.SMAPeriods)
	v.SetDefault("indicators.rsi_period", indicators.RSIPeriod)
	v.SetDefault("indicators.macd_fast", indicators.MACDFast)
	v.SetDefault("indicators.macd_slow", indicators.MACDSlow)
	v.SetDefault("indicators.macd_signal", indicators.MACDSignal)
	v.SetDefault("returns.risk_free_rate", 0.0)
	v.SetDefault("returns.trading_days", 252)
	v.SetDefault("postgres.enabled", false)
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.ssl.mode", "disable")
	v.SetDefault("server.enabled", false)
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.report_endpoint", "/reports")
	v.SetDefault("server.health_endpoint", "/health")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("plot.enabled", false)
	v.SetDefault("plot.output_dir", "plots")
}

// Load reads the yaml file named by CONFIG_PATH, falling back to
// config.local.yaml at the repository root. A .env file is loaded first if present.
func Load() (*datamodels.AppConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "error", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		currentDir := general.GetCurrentDir()
		// go up two levels to the repository root
		configPath = filepath.Join(currentDir, "..", "..", "config.local.yaml")
	}
	return LoadFromPath(configPath)
}

// LoadFromPath reads a yaml config, applies defaults and NEWSCORR_* environment
// overrides, and validates the result.
func LoadFromPath(configPath string) (*datamodels.AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config %s", configPath)
		}
	}

	var appConfig datamodels.AppConfig
	if err := v.Unmarshal(&appConfig); err != nil {
		return nil, errors.Wrap(err, "unmarshalling config")
	}

	if err := appConfig.Validate(); err != nil {
		return nil, err
	}

	return &appConfig, nil
}
