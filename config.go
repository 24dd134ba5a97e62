package fskit

import (
	"github.com/gobeaver/beaver-kit/config"
)

type Config struct {
	// Default driver to use (local, memory, s3, sftp, http)
	Driver string `env:"FSKIT_DRIVER,default:local"`

	// Local driver configuration
	LocalBasePath string `env:"FSKIT_LOCAL_BASE_PATH,default:./storage"`

	// S3 driver configuration
	S3Region          string `env:"FSKIT_S3_REGION,default:us-east-1"`
	S3Bucket          string `env:"FSKIT_S3_BUCKET"`
	S3Endpoint        string `env:"FSKIT_S3_ENDPOINT"`
	S3AccessKeyID     string `env:"FSKIT_S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"FSKIT_S3_SECRET_ACCESS_KEY"`
	S3ForcePathStyle  bool   `env:"FSKIT_S3_FORCE_PATH_STYLE,default:false"`

	// SFTP driver configuration
	SFTPHost       string `env:"FSKIT_SFTP_HOST"`
	SFTPPort       int    `env:"FSKIT_SFTP_PORT,default:22"`
	SFTPUsername   string `env:"FSKIT_SFTP_USERNAME"`
	SFTPPassword   string `env:"FSKIT_SFTP_PASSWORD"`
	SFTPPrivateKey string `env:"FSKIT_SFTP_PRIVATE_KEY"` // Path to private key file
	SFTPBasePath   string `env:"FSKIT_SFTP_BASE_PATH"`

	// HTTP driver configuration
	HTTPBaseURL string `env:"FSKIT_HTTP_BASE_URL"`

	// Operation logging
	LogOperations bool   `env:"FSKIT_LOG_OPERATIONS,default:false"`
	LogLevel      string `env:"FSKIT_LOG_LEVEL,default:info"`
}

// GetConfig returns config loaded from environment
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg, config.LoadOptions{Prefix: ""}); err != nil {
		return nil, err
	}
	return cfg, nil
}
