// Package ignite provides a high-performance key/value data store
// designed for fast read and write operations, inspired by Bitcask.
// It combines an in-memory hash table (KeyDir/Index) with an append-only log
// structure on disk to achieve high throughput. It is designed for applications
// requiring fast read and write operations, such as caching, session management,
// and real-time data processing, aiming to provide a simple, efficient, and
// reliable solution for persistent key/value storage in Go applications.
package ignite

import (
	"context"
	"errors"
	"time"

	"github.com/iamNilotpal/ignite/internal/engine"
	"github.com/iamNilotpal/ignite/pkg/logger"
	"github.com/iamNilotpal/ignite/pkg/options"
)

// ErrNotImplemented is returned by Instance methods that are part of the
// public surface but have no backing implementation - currently only SetX.
var ErrNotImplemented = errors.New("operation not implemented")

// Represents an instance of the Ignite key/value data store.
// It encapsulates the core engine responsible for data handling and
// the configuration options for this specific database instance.
//
// Instance is the primary entry point for interacting with the Ignite store,
// providing methods for setting, getting, and deleting key-value pairs.
type Instance struct {
	engine  *engine.Engine   // The underlying database engine handling read/write operations.
	options *options.Options // Configuration options applied to this DB instance.
}

// Creates and initializes a new Ignite DB instance.
func NewInstance(context context.Context, service string, opts ...options.OptionFunc) (*Instance, error) {
	// Initialize a logger for the given service.
	log := logger.New(service)

	// Initialize default options.
	defaultOpts := options.NewDefaultOptions()

	// Apply any provided functional options to override defaults.
	if len(opts) > 0 {
		for _, opt := range opts {
			opt(&defaultOpts)
		}
	}

	// Create a new internal engine with the initialized logger.
	eng, err := engine.New(context, &engine.Config{Logger: log, Options: &defaultOpts})
	if err != nil {
		return nil, err
	}

	return &Instance{engine: eng, options: &defaultOpts}, nil
}

// Set stores a key-value pair in the database.
// If the key already exists, its value will be updated.
// The record is appended to the log and flushed to the OS before Set
// returns; it is fsynced only when SyncOnWrite is enabled.
func (i *Instance) Set(context context.Context, key string, value []byte) error {
	return i.engine.Set(context, key, value)
}

// SetX stores a key-value pair with an expiration time.
// The entry will automatically be considered expired and inaccessible
// after the specified duration from the time of setting.
// If the key already exists, its value and expiry will be updated.
//
// Expiring keys has no counterpart in the underlying log format or index -
// there is no record variant carrying a deadline and nothing evicts one
// once written - so this returns ErrNotImplemented rather than silently
// storing value without ever honoring expiry.
func (i *Instance) SetX(context context.Context, key string, value []byte, expiry time.Duration) error {
	return ErrNotImplemented
}

// Get retrieves the value associated with the given key. A missing key
// returns (nil, nil), not an error.
func (i *Instance) Get(context context.Context, key string) ([]byte, error) {
	return i.engine.Get(context, key)
}

// Delete removes a key-value pair from the database.
// The operation marks the key as deleted and will eventually be
// removed during compaction.
func (i *Instance) Delete(context context.Context, key string) error {
	return i.engine.Remove(context, key)
}

// Close shuts down the Ignite DB instance, closing every segment file
// handle. Each Set and Delete has already flushed its record, so Close
// writes nothing itself and does not fsync.
func (i *Instance) Close(context context.Context) error {
	return i.engine.Close()
}
