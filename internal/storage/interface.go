package storage

import "errors"

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("key not found")

// Provider is a durable string-keyed store of JSON documents.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Key-value access. Set is durable once it returns.
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}

// SchemaReporter is implemented by backends that carry a migrated SQL schema.
type SchemaReporter interface {
	SchemaVersion() (current, latest int, err error)
}
