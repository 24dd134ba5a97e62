package sftp

import (
	"fmt"
	"os"

	"github.com/gobeaver/fskit"
)

const (
	argHost       = "host"
	argPort       = "port"
	argUsername   = "username"
	argPassword   = "password"
	argPrivateKey = "private_key"
	argBasePath   = "base_path"
)

func init() {
	fskit.RegisterDriver("sftp", fskit.Registration{
		Flavor: fskit.Hierarchical,
		New: func(args fskit.DriverArgs) (fskit.Driver, error) {
			cfg := Config{
				Host:     args.String(argHost),
				Port:     args.Int(argPort),
				Username: args.String(argUsername),
				Password: args.String(argPassword),
				BasePath: args.String(argBasePath),
			}
			if key, ok := args[argPrivateKey].([]byte); ok {
				cfg.PrivateKey = key
			}
			return New(cfg)
		},
		PrepareCredentials: func(cfg *fskit.Config) (fskit.DriverArgs, error) {
			if cfg == nil {
				return fskit.DriverArgs{}, nil
			}
			if cfg.SFTPHost == "" {
				return nil, fmt.Errorf("SFTP host is required")
			}

			args := fskit.DriverArgs{
				argHost:     cfg.SFTPHost,
				argPort:     cfg.SFTPPort,
				argUsername: cfg.SFTPUsername,
				argPassword: cfg.SFTPPassword,
				argBasePath: cfg.SFTPBasePath,
			}
			if cfg.SFTPPrivateKey != "" {
				keyData, err := os.ReadFile(cfg.SFTPPrivateKey)
				if err != nil {
					return nil, fmt.Errorf("failed to read private key: %w", err)
				}
				args[argPrivateKey] = keyData
			}
			return args, nil
		},
		EmulateCallbacks: true,
	})
}
