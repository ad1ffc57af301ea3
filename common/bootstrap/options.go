package bootstrap

import (
	"github.com/spf13/afero"
	"github.com/urbanmap/layerstore/common/config"
	"github.com/urbanmap/layerstore/common/logger"
)

// Option configures the bootstrap process
type Option func(*options)

type options struct {
	skipTelemetry bool
	customLogger  *logger.Logger
	customConfig  *config.Config
	customFS      afero.Fs
}

// WithoutTelemetry skips telemetry initialization
func WithoutTelemetry() Option {
	return func(o *options) {
		o.skipTelemetry = true
	}
}

// WithCustomLogger uses a custom logger instead of creating one
func WithCustomLogger(log *logger.Logger) Option {
	return func(o *options) {
		o.customLogger = log
	}
}

// WithCustomConfig uses a custom config instead of loading from env
func WithCustomConfig(cfg *config.Config) Option {
	return func(o *options) {
		o.customConfig = cfg
	}
}

// WithFilesystem uses a custom filesystem for layer storage
// Useful for testing with an in-memory filesystem
func WithFilesystem(fs afero.Fs) Option {
	return func(o *options) {
		o.customFS = fs
	}
}

func defaultOptions() *options {
	return &options{
		skipTelemetry: false,
	}
}
