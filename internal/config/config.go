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
	Fit   FitConfig   `yaml:"fit" mapstructure:"fit"`
	Store StoreConfig `yaml:"store" mapstructure:"store"`
	Log   LogConfig   `yaml:"log" mapstructure:"log"`
}

// FitConfig holds the defaults for the fit driver. CLI flags override
// these per invocation.
type FitConfig struct {
	CoolingRate0   float64   `yaml:"cooling_rate0" mapstructure:"cooling_rate0"`     // K/Myr
	TStart0        float64   `yaml:"t_start0" mapstructure:"t_start0"`               // deg. C
	RateBounds     []float64 `yaml:"rate_bounds" mapstructure:"rate_bounds"`         // (min, max) K/Myr
	TBounds        []float64 `yaml:"t_bounds" mapstructure:"t_bounds"`               // (min, max) deg. C
	Dt             float64   `yaml:"dt" mapstructure:"dt"`                           // Myr
	Scenario       string    `yaml:"scenario" mapstructure:"scenario"`
	ScenarioParams []float64 `yaml:"scenario_params" mapstructure:"scenario_params"`
	CoolingLaw     string    `yaml:"cooling_law" mapstructure:"cooling_law"`
	MaxIter        int       `yaml:"max_iter" mapstructure:"max_iter"`
	Tol            float64   `yaml:"tol" mapstructure:"tol"`
}

// StoreConfig configures the fit archive.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
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
	v.SetEnvPrefix("SNAC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults: the published calibration's default search box.
	v.SetDefault("fit.cooling_rate0", 0.01)
	v.SetDefault("fit.t_start0", 1200)
	v.SetDefault("fit.rate_bounds", []float64{0.001, 0.12})
	v.SetDefault("fit.t_bounds", []float64{1000, 1450})
	v.SetDefault("fit.dt", 1)
	v.SetDefault("fit.scenario", "continuous")
	v.SetDefault("fit.cooling_law", "linear")
	v.SetDefault("fit.max_iter", 400)
	v.SetDefault("fit.tol", 1e-7)
	v.SetDefault("store.path", "snac.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

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

// Bounds converts the configured bound slices to fixed pairs. A malformed
// pair (wrong length) is a configuration error.
func (c FitConfig) Bounds() (rate, temp [2]float64, err error) {
	if len(c.RateBounds) != 2 || len(c.TBounds) != 2 {
		return rate, temp, eris.Errorf("config: bounds must be (min, max) pairs, got rate %v, temperature %v",
			c.RateBounds, c.TBounds)
	}
	return [2]float64{c.RateBounds[0], c.RateBounds[1]}, [2]float64{c.TBounds[0], c.TBounds[1]}, nil
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
