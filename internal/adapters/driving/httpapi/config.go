package httpapi

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the transport settings of the HTTP server. Application
// settings (upload folder, providers) come from the settings service;
// this covers only the listener itself.
type Config struct {
	Addr string `mapstructure:"addr"`

	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// WriteTimeout bounds the whole response. Grounded review of a
	// large batch is slow, so the default is generous.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// MaxUploadBytes caps the multipart request body.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

// LoadConfig builds the server configuration from defaults overridden
// by REDMARK_* environment variables (REDMARK_ADDR, REDMARK_READ_TIMEOUT,
// REDMARK_WRITE_TIMEOUT, REDMARK_SHUTDOWN_TIMEOUT, REDMARK_MAX_UPLOAD_BYTES).
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetDefault("addr", ":8000")
	v.SetDefault("read_timeout", 60*time.Second)
	v.SetDefault("write_timeout", 5*time.Minute)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("max_upload_bytes", int64(50<<20))

	v.SetEnvPrefix("REDMARK")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}
	return &cfg, nil
}
