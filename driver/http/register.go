package http

import (
	"github.com/gobeaver/fskit"
)

const argBaseURL = "base_url"

func init() {
	fskit.RegisterDriver("http", fskit.Registration{
		Flavor: fskit.Flat,
		New: func(args fskit.DriverArgs) (fskit.Driver, error) {
			return New(args.String(argBaseURL), nil), nil
		},
		PrepareCredentials: func(cfg *fskit.Config) (fskit.DriverArgs, error) {
			if cfg == nil {
				return fskit.DriverArgs{}, nil
			}
			return fskit.DriverArgs{argBaseURL: cfg.HTTPBaseURL}, nil
		},
		EmulateCallbacks: true,
	})
}
