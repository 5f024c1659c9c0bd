package datamodels

import (
	"github.com/gorilla/websocket"

	"newscorr/src/utils/errors"
	"newscorr/src/utils/general"
)

type AppConfig struct {
	Analysis       AnalysisConfig       `mapstructure:"analysis"`
	Indicators     IndicatorConfig      `mapstructure:"indicators"`
	Returns        ReturnsConfig        `mapstructure:"returns"`
	DatabaseConfig PostgresConfig       `mapstructure:"postgres"`
	StorageConfig  StorageConfig        `mapstructure:"storage"`
	SymbolsConfig  SymbolsConfig        `mapstructure:"symbols"`
	ServerConfig   ServerConfig         `mapstructure:"server"`
	LogConfig      LogConfig            `mapstructure:"log"`
	MetricsWriter  *MetricsWriterConfig `mapstructure:"metrics_writer"`
	PlotConfig     PlotConfig           `mapstructure:"plot"`
}

const (
	PriceSourceCsv = "csv"
	PriceSourceDb  = "db"
)

// SentimentAggregators are the reducers defined for a single headline.
var SentimentAggregators = []string{"mean", "median", "min", "max", "last"}

type AnalysisConfig struct {
	// DataDir holds one <TICKER>.csv price file per ticker
	DataDir string `mapstructure:"data_dir"`
	// NewsSource is a local path or a gs://bucket/object URI
	NewsSource string `mapstructure:"news_source"`
	// PriceSource is csv (DataDir files) or db (bars loaded by prices_csv_to_db)
	PriceSource string `mapstructure:"price_source"`
	// SentimentAggregator names the per-day polarity reducer, mean by default
	SentimentAggregator string   `mapstructure:"sentiment_aggregator"`
	Tickers             []string `mapstructure:"tickers"`
	Workers             int      `mapstructure:"workers"`
	PersistResults      bool     `mapstructure:"persist_results"`
}

// IndicatorConfig is passed by value into every indicator computation.
type IndicatorConfig struct {
	SMAPeriods []int `mapstructure:"sma_periods"`
	RSIPeriod  int   `mapstructure:"rsi_period"`
	MACDFast   int   `mapstructure:"macd_fast"`
	MACDSlow   int   `mapstructure:"macd_slow"`
	MACDSignal int   `mapstructure:"macd_signal"`
}

func DefaultIndicatorConfig() IndicatorConfig {
	return IndicatorConfig{
		SMAPeriods: []int{20, 50},
		RSIPeriod:  14,
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
	}
}

func (c IndicatorConfig) Validate() error {
	for _, period := range c.SMAPeriods {
		if period <= 0 {
			return errors.Wrapf(errors.ErrInvalidInput, "sma period must be positive, got %d", period)
		}
	}
	if c.RSIPeriod < 2 {
		return errors.Wrapf(errors.ErrInvalidInput, "rsi period must be at least 2, got %d", c.RSIPeriod)
	}
	if c.MACDFast <= 0 || c.MACDSlow <= 0 || c.MACDSignal <= 0 {
		return errors.Wrap(errors.ErrInvalidInput, "macd periods must be positive")
	}
	if c.MACDFast >= c.MACDSlow {
		return errors.Wrapf(errors.ErrInvalidInput, "macd fast period %d must be below slow period %d", c.MACDFast, c.MACDSlow)
	}
	return nil
}

type ReturnsConfig struct {
	RiskFreeRate float64 `mapstructure:"risk_free_rate"`
	TradingDays  int     `mapstructure:"trading_days"`
}

type PostgresConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Database string `mapstructure:"database"`
	Host     string `mapstructure:"host"`
	Password string `mapstructure:"password"`
	Port     int    `mapstructure:"port"`
	SSL      struct {
		CA   string `mapstructure:"ca"`
		Cert string `mapstructure:"cert"`
		Key  string `mapstructure:"key"`
		Mode string `mapstructure:"mode"`
	} `mapstructure:"ssl"`
	URI  string `mapstructure:"uri"`
	User string `mapstructure:"user"`
}

type StorageConfig struct {
	Bucket      string `mapstructure:"bucket"`
	NewsPrefix  string `mapstructure:"news_prefix"`
	PricePrefix string `mapstructure:"price_prefix"`
}

type SymbolsConfig struct {
	FilePath string `mapstructure:"file_path"`
}

type ServerConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	Port           string   `mapstructure:"port"`
	ReportEndpoint string   `mapstructure:"report_endpoint"`
	HealthEndpoint string   `mapstructure:"health_endpoint"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type WSConfig struct {
	Upgrader websocket.Upgrader
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	OutputFile string `mapstructure:"output_file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type MetricsWriterConfig struct {
	WsWriter   bool   `mapstructure:"ws_writer"`
	FileWriter bool   `mapstructure:"file_writer"`
	DbWriter   bool   `mapstructure:"db_writer"`
	FilePath   string `mapstructure:"file_path"`
	FileFormat string `mapstructure:"file_format"`
}

type PlotConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	OutputDir string `mapstructure:"output_dir"`
}

func (c *AppConfig) Validate() error {
	if c.Analysis.DataDir == "" {
		return errors.New("analysis.data_dir is required")
	}
	if c.Analysis.NewsSource == "" {
		return errors.New("analysis.news_source is required")
	}
	if len(c.Analysis.Tickers) == 0 {
		return errors.New("analysis.tickers are required")
	}
	if !general.NoDuplicateItemsInSlice(c.Analysis.Tickers) {
		return errors.New("analysis.tickers must not repeat")
	}
	switch c.Analysis.PriceSource {
	case PriceSourceCsv:
	case PriceSourceDb:
		if !c.DatabaseConfig.Enabled {
			return errors.New("analysis.price_source db requires postgres.enabled")
		}
	default:
		return errors.Newf("analysis.price_source must be csv or db, got %q", c.Analysis.PriceSource)
	}
	if !general.ItemInSlice(SentimentAggregators, c.Analysis.SentimentAggregator) {
		return errors.Newf("analysis.sentiment_aggregator must be one of %v, got %q", SentimentAggregators, c.Analysis.SentimentAggregator)
	}
	if c.Analysis.Workers < 0 {
		return errors.New("analysis.workers must not be negative")
	}
	if c.Returns.TradingDays <= 0 {
		return errors.New("returns.trading_days must be greater than 0")
	}
	if err := c.Indicators.Validate(); err != nil {
		return err
	}
	if c.MetricsWriter != nil && c.MetricsWriter.FileWriter && c.MetricsWriter.FilePath == "" {
		return errors.New("metrics_writer.file_path is required for the file writer")
	}
	if c.MetricsWriter != nil && !general.ItemInSlice([]string{"", "csv", "json"}, c.MetricsWriter.FileFormat) {
		return errors.Newf("metrics_writer.file_format must be csv or json, got %q", c.MetricsWriter.FileFormat)
	}
	if c.MetricsWriter != nil && c.MetricsWriter.DbWriter && !c.DatabaseConfig.Enabled {
		return errors.New("metrics_writer.db_writer requires postgres.enabled")
	}
	if c.Analysis.PersistResults && !c.DatabaseConfig.Enabled {
		return errors.New("analysis.persist_results requires postgres.enabled")
	}
	if c.PlotConfig.Enabled && c.PlotConfig.OutputDir == "" {
		return errors.New("plot.output_dir is required when plotting is enabled")
	}
	return nil
}
