// Package kvstore provides the device key-value persistence surface used by
// the storefront client. Values are read and written wholesale; there are no
// partial updates.
package kvstore

// Store is a durable string key-value store.
type Store interface {
	// Get returns the value for key. The second return is false when the key
	// has never been written.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}
