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
	Engine   EngineConfig   `yaml:"engine" mapstructure:"engine"`
	Classify ClassifyConfig `yaml:"classify" mapstructure:"classify"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// EngineConfig configures the decode engine.
type EngineConfig struct {
	// Decimals is the display precision for statistics and class boundaries.
	Decimals int `yaml:"decimals" mapstructure:"decimals"`
	// MaxUploadBytes caps the size of a single upload the serve command accepts.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
}

// ClassifyConfig configures default classification rendering.
type ClassifyConfig struct {
	Colors []string `yaml:"colors" mapstructure:"colors"`
	Labels []string `yaml:"labels" mapstructure:"labels"`
}

// BatchConfig configures batch ingestion.
type BatchConfig struct {
	MaxConcurrentUploads int `yaml:"max_concurrent_uploads" mapstructure:"max_concurrent_uploads"`
}

// ServerConfig configures the admin ingestion server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
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
	v.SetEnvPrefix("ATLAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("engine.decimals", 2)
	v.SetDefault("engine.max_upload_bytes", int64(256<<20))
	v.SetDefault("batch.max_concurrent_uploads", 4)
	v.SetDefault("classify.colors", []string{"#2C7BB6", "#ABD9E9", "#FFFFBF", "#FDAE61", "#D7191C"})
	v.SetDefault("classify.labels", []string{"Very Low", "Low", "Medium", "High", "Very High"})

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
