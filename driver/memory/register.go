package memory

import (
	"github.com/gobeaver/fskit"
)

func init() {
	fskit.RegisterDriver("memory", fskit.Registration{
		Flavor: fskit.ObjectStore,
		New: func(args fskit.DriverArgs) (fskit.Driver, error) {
			return New(), nil
		},
		EmulateCallbacks: true,
	})
}
