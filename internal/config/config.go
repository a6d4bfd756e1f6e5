package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Logger      Logger
	Downloads   QueueConfig
	Conversions ConversionConfig
	Storage     StorageConfig
	Cleanup     CleanupConfig
}

type ServerConfig struct {
	AppVersion        string
	Port              string
	Mode              string
	ApiKey            string
	RateLimitPerMin   float64
	CorsOrigins       []string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	CtxDefaultTimeout time.Duration
}

type QueueConfig struct {
	MaxConcurrent int
	QueueSize     int
	Timeout       time.Duration
	MaxFileSizeMB int64
}

type ConversionConfig struct {
	MaxConcurrent       int
	QueueSize           int
	Timeout             time.Duration
	MaxFileSizeMB       int64
	DefaultImageQuality int
	FFmpegPath          string
	MagickPath          string
}

type StorageConfig struct {
	TempDir string
}

type CleanupConfig struct {
	Enabled      bool
	Interval     time.Duration
	CompletedTTL time.Duration
	OrphanTTL    time.Duration
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFound) {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	applyDefaults(&c)
	return &c, nil
}

func applyDefaults(c *Config) {
	if c.Server.AppVersion == "" {
		c.Server.AppVersion = "1.0.0"
	}
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	if len(c.Server.CorsOrigins) == 0 {
		c.Server.CorsOrigins = []string{"*"}
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.CtxDefaultTimeout <= 0 {
		c.Server.CtxDefaultTimeout = 10 * time.Second
	}
	if c.Downloads.MaxConcurrent <= 0 {
		c.Downloads.MaxConcurrent = 3
	}
	if c.Downloads.QueueSize <= 0 {
		c.Downloads.QueueSize = 100
	}
	if c.Downloads.Timeout <= 0 {
		c.Downloads.Timeout = time.Hour
	}
	if c.Downloads.MaxFileSizeMB <= 0 {
		c.Downloads.MaxFileSizeMB = 1000
	}
	if c.Conversions.MaxConcurrent <= 0 {
		c.Conversions.MaxConcurrent = c.Downloads.MaxConcurrent / 2
		if c.Conversions.MaxConcurrent < 1 {
			c.Conversions.MaxConcurrent = 1
		}
	}
	if c.Conversions.QueueSize <= 0 {
		c.Conversions.QueueSize = 100
	}
	if c.Conversions.Timeout <= 0 {
		c.Conversions.Timeout = 10 * time.Minute
	}
	if c.Conversions.MaxFileSizeMB <= 0 {
		c.Conversions.MaxFileSizeMB = 500
	}
	if c.Conversions.DefaultImageQuality <= 0 {
		c.Conversions.DefaultImageQuality = 90
	}
	if c.Conversions.FFmpegPath == "" {
		c.Conversions.FFmpegPath = "ffmpeg"
	}
	if c.Conversions.MagickPath == "" {
		c.Conversions.MagickPath = "convert"
	}
	if c.Storage.TempDir == "" {
		c.Storage.TempDir = "/tmp/mediagrab"
	}
	if c.Cleanup.Interval <= 0 {
		c.Cleanup.Interval = 5 * time.Minute
	}
	if c.Cleanup.CompletedTTL <= 0 {
		c.Cleanup.CompletedTTL = 30 * time.Minute
	}
	if c.Cleanup.OrphanTTL <= 0 {
		c.Cleanup.OrphanTTL = time.Hour
	}
}
