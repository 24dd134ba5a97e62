package fskit

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gobeaver/beaver-kit/config"
)

// Global instance
var (
	defaultFS   FileSystem
	defaultOnce sync.Once
	defaultErr  error
)

// Builder provides a way to create FileSystem instances with custom
// environment prefixes
type Builder struct {
	prefix string
}

// WithPrefix creates a new Builder with the specified prefix
func WithPrefix(prefix string) *Builder {
	return &Builder{prefix: prefix}
}

// Init initializes the global FileSystem instance using the builder's prefix
func (b *Builder) Init() error {
	cfg := &Config{}
	if err := config.Load(cfg, config.LoadOptions{Prefix: b.prefix}); err != nil {
		return err
	}
	return Init(cfg)
}

// New creates a new FileSystem instance using the builder's prefix
func (b *Builder) New() (FileSystem, error) {
	cfg := &Config{}
	if err := config.Load(cfg, config.LoadOptions{Prefix: b.prefix}); err != nil {
		return nil, err
	}
	return New(cfg)
}

// Init initializes the global file system instance
func Init(configs ...*Config) error {
	defaultOnce.Do(func() {
		var cfg *Config
		if len(configs) > 0 {
			cfg = configs[0]
		} else {
			cfg, defaultErr = GetConfig()
			if defaultErr != nil {
				return
			}
		}

		defaultFS, defaultErr = New(cfg)
	})

	return defaultErr
}

// New creates a new file system instance with given config. One instance
// per logical storage target: the driver is constructed lazily on first
// use from the credentials resolved here, and owned for the instance's
// lifetime.
func New(cfg *Config) (FileSystem, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	fs, err := NewFS(cfg.Driver, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}

	if cfg.LogOperations {
		logger, err := newLogger(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		return NewLoggingFS(fs, logger), nil
	}

	return fs, nil
}

// validateConfig checks configuration validity
func validateConfig(cfg *Config) error {
	if cfg.Driver == "" {
		return errors.New("driver is required")
	}

	switch cfg.Driver {
	case "local":
		if cfg.LocalBasePath == "" {
			return errors.New("local base path is required for local driver")
		}
	case "memory":
		// No required settings
	case "s3":
		if cfg.S3Bucket == "" {
			return errors.New("S3 bucket is required for S3 driver")
		}
		// Access keys can be provided via IAM roles, so not always required
	case "sftp":
		if cfg.SFTPHost == "" {
			return errors.New("SFTP host is required for SFTP driver")
		}
		if cfg.SFTPUsername == "" {
			return errors.New("SFTP username is required for SFTP driver")
		}
	case "http":
		if cfg.HTTPBaseURL == "" {
			return errors.New("HTTP base URL is required for HTTP driver")
		}
	default:
		return fmt.Errorf("unknown driver: %s", cfg.Driver)
	}

	return nil
}

// Default returns the global instance, initializing if needed with error
// handling
func Default() (FileSystem, error) {
	if defaultFS == nil {
		if err := Init(); err != nil {
			return nil, err
		}
	}
	return defaultFS, nil
}

// NewFromEnv creates an instance from environment variables
func NewFromEnv() (FileSystem, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

// Reset clears the global instance (for testing)
func Reset() {
	defaultFS = nil
	defaultOnce = sync.Once{}
	defaultErr = nil
}
