package etcd

// Etcd exposes the dynamic configuration tree rooted at /config/<app-name>.
// The config instance is a pointer to a struct whose top-level fields carry
// json tags naming their section key under the base path. Each section is
// stored as a single JSON document.
type Etcd interface {
	// GetConfigInstance returns the live config struct pointer. Fields are
	// refreshed in place when the watcher observes a change.
	GetConfigInstance() interface{}
	// SetValue writes a raw value at the given absolute path.
	SetValue(path string, value interface{}) error
	// IsNodeExist reports whether any key exists at or under the given path.
	IsNodeExist(path string) (bool, error)
	// RegisterWatchPathCallback invokes callback after the config has been
	// reloaded for any event under basePath+path.
	RegisterWatchPathCallback(path string, callback func() error) error
}
