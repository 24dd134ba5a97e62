package local

import (
	"github.com/gobeaver/fskit"
)

const argBasePath = "base_path"

func init() {
	fskit.RegisterDriver("local", fskit.Registration{
		Flavor: fskit.Hierarchical,
		New: func(args fskit.DriverArgs) (fskit.Driver, error) {
			base := args.String(argBasePath)
			if base == "" {
				base = "./storage"
			}
			return New(base)
		},
		PrepareCredentials: func(cfg *fskit.Config) (fskit.DriverArgs, error) {
			if cfg == nil {
				return fskit.DriverArgs{}, nil
			}
			return fskit.DriverArgs{argBasePath: cfg.LocalBasePath}, nil
		},
		EmulateCallbacks: true,
	})
}
