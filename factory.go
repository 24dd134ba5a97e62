package fskit

import (
	"fmt"
	"sync"
)

// Flavor selects the directory-semantics strategy a backend is wrapped with.
type Flavor int

const (
	// Hierarchical backends have genuine directories; directory
	// operations delegate straight to the driver.
	Hierarchical Flavor = iota
	// ObjectStore backends simulate directories via key prefixes and
	// zero-byte marker objects.
	ObjectStore
	// Flat backends have no hierarchy concept at all; enumeration is
	// not supported.
	Flat
)

// DriverFactory builds a Driver from resolved connection arguments.
type DriverFactory func(args DriverArgs) (Driver, error)

// CredentialsFunc resolves backend auth/connection arguments from config.
// The default prepares nothing.
type CredentialsFunc func(cfg *Config) (DriverArgs, error)

// Registration describes one backend: how to build its driver, which
// directory semantics it has, and whether progress callbacks must be
// emulated because the driver has no native reporting.
type Registration struct {
	Flavor             Flavor
	New                DriverFactory
	PrepareCredentials CredentialsFunc
	EmulateCallbacks   bool
}

var (
	registrations = make(map[string]Registration)
	registryMutex sync.RWMutex
)

// RegisterDriver registers a backend under name. Driver packages call this
// from init.
func RegisterDriver(name string, reg Registration) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	registrations[name] = reg
}

// lookupDriver returns the registration for name.
func lookupDriver(name string) (Registration, error) {
	registryMutex.RLock()
	reg, exists := registrations[name]
	registryMutex.RUnlock()

	if !exists {
		return Registration{}, fmt.Errorf("driver %s not registered", name)
	}
	return reg, nil
}
