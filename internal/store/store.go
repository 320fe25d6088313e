// Package store provides the client-side persistence used to keep a test
// attempt's deadline alive across process restarts. It is the moral
// equivalent of browser local storage: a small string key-value store with
// get, set and remove.
package store

import "errors"

// ErrNotFound is returned by Get when the key has no stored value.
var ErrNotFound = errors.New("store: key not found")

// Store is a minimal key-value persistence boundary. Implementations must
// make Set durable before returning, because the deadline written at
// session start is the only record that survives a reload.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}
