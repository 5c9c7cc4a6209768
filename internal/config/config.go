package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bitscopic/roi-calculator/internal/baseline"
	"github.com/bitscopic/roi-calculator/internal/defaults"
	"github.com/bitscopic/roi-calculator/internal/validation"
)

// Config holds the full application configuration.
type Config struct {
	Log             LogConfig        `yaml:"log" mapstructure:"log"`
	Server          ServerConfig     `yaml:"server" mapstructure:"server"`
	Batch           BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Report          ReportConfig     `yaml:"report" mapstructure:"report"`
	Projection      ProjectionConfig `yaml:"projection" mapstructure:"projection"`
	Baseline        BaselineConfig   `yaml:"baseline" mapstructure:"baseline"`
	Monitoring      MonitoringConfig `yaml:"monitoring" mapstructure:"monitoring"`
	AssumptionsFile string           `yaml:"assumptions_file" mapstructure:"assumptions_file"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=json console"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port                int      `yaml:"port" mapstructure:"port" validate:"gt=0,lte=65535"`
	RateLimitRPS        float64  `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst      int      `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst" validate:"gte=0"`
	CORSOrigins         []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	MaxUploadMB         int      `yaml:"max_upload_mb" mapstructure:"max_upload_mb" validate:"gt=0"`
	ShutdownTimeoutSecs int      `yaml:"shutdown_timeout_secs" mapstructure:"shutdown_timeout_secs" validate:"gte=0"`
}

// BatchConfig configures batch report generation.
type BatchConfig struct {
	MaxConcurrentReports int `yaml:"max_concurrent_reports" mapstructure:"max_concurrent_reports" validate:"min=1,max=50"`
}

// ReportConfig configures report compilation and output.
type ReportConfig struct {
	OutputDir      string `yaml:"output_dir" mapstructure:"output_dir" validate:"required"`
	TitlePrefix    string `yaml:"title_prefix" mapstructure:"title_prefix"`
	CurrencyLocale string `yaml:"currency_locale" mapstructure:"currency_locale"`
	IncludeStudy   bool   `yaml:"include_study" mapstructure:"include_study"`
}

// ProjectionConfig configures the multi-year projection.
type ProjectionConfig struct {
	HorizonYears int       `yaml:"horizon_years" mapstructure:"horizon_years" validate:"min=1,max=20"`
	Maturity     []float64 `yaml:"maturity" mapstructure:"maturity" validate:"omitempty,dive,gt=0"`
}

// BaselineConfig locates the baseline facility files.
type BaselineConfig struct {
	DataDir           string `yaml:"data_dir" mapstructure:"data_dir"`
	BedDaysFile       string `yaml:"bed_days_file" mapstructure:"bed_days_file"`
	HaiRatesFile      string `yaml:"hai_rates_file" mapstructure:"hai_rates_file"`
	AntibioticDotFile string `yaml:"antibiotic_dot_file" mapstructure:"antibiotic_dot_file"`
}

// Files returns the configured baseline file names.
func (b BaselineConfig) Files() baseline.Files {
	return baseline.Files{
		BedDays:       b.BedDaysFile,
		HaiRates:      b.HaiRatesFile,
		AntibioticDot: b.AntibioticDotFile,
	}
}

// MonitoringConfig configures health alerts.
type MonitoringConfig struct {
	FailureRateThreshold float64 `yaml:"failure_rate_threshold" mapstructure:"failure_rate_threshold" validate:"gte=0,lte=1"`
}

// Load reads configuration from .env, file and environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: read .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ROI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	files := baseline.DefaultFiles()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit_rps", 10)
	v.SetDefault("server.rate_limit_burst", 20)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.max_upload_mb", 10)
	v.SetDefault("server.shutdown_timeout_secs", 10)
	v.SetDefault("batch.max_concurrent_reports", 4)
	v.SetDefault("report.output_dir", "reports")
	v.SetDefault("report.title_prefix", "")
	v.SetDefault("report.currency_locale", "en-US")
	v.SetDefault("report.include_study", true)
	v.SetDefault("projection.horizon_years", 5)
	v.SetDefault("projection.maturity", defaults.StandardMaturity())
	v.SetDefault("baseline.data_dir", "data")
	v.SetDefault("baseline.bed_days_file", files.BedDays)
	v.SetDefault("baseline.hai_rates_file", files.HaiRates)
	v.SetDefault("baseline.antibiotic_dot_file", files.AntibioticDot)
	v.SetDefault("monitoring.failure_rate_threshold", 0.25)
	v.SetDefault("assumptions_file", "")

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

// Validate checks every section's constraints.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return eris.Errorf("config: %s", validation.Summary(err))
	}
	return nil
}

// Catalog builds the defaults catalog, applying the assumptions file and
// projection maturity curve when configured.
func (c *Config) Catalog() (defaults.Catalog, error) {
	a, err := defaults.LoadAssumptions(c.AssumptionsFile)
	if err != nil {
		return defaults.Catalog{}, err
	}
	cat := defaults.Standard()
	cat.Assumptions = a
	if len(c.Projection.Maturity) > 0 {
		cat.Maturity = append([]float64(nil), c.Projection.Maturity...)
	}
	return cat, nil
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
