package store

import "context"

// KeyValueStore is a fallible string-keyed store.
type KeyValueStore interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// UpdateFunc computes the next value from the current one. found is false
// when the key has no value; current is then "".
type UpdateFunc func(current string, found bool) (next string, err error)

// Updater is implemented by stores that can perform an atomic
// read-modify-write. If fn returns an error nothing is written and the
// error is returned unchanged.
type Updater interface {
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

// WithPrefix scopes every key of s under prefix. The returned store
// implements Updater iff s does.
func WithPrefix(s KeyValueStore, prefix string) KeyValueStore {
	p := prefixed{inner: s, prefix: prefix}
	if u, ok := s.(Updater); ok {
		return prefixedUpdater{prefixed: p, updater: u}
	}
	return p
}

type prefixed struct {
	inner  KeyValueStore
	prefix string
}

func (p prefixed) Get(ctx context.Context, key string) (string, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

func (p prefixed) Set(ctx context.Context, key, value string) error {
	return p.inner.Set(ctx, p.prefix+key, value)
}

func (p prefixed) Remove(ctx context.Context, key string) error {
	return p.inner.Remove(ctx, p.prefix+key)
}

type prefixedUpdater struct {
	prefixed
	updater Updater
}

func (p prefixedUpdater) Update(ctx context.Context, key string, fn UpdateFunc) error {
	return p.updater.Update(ctx, p.prefix+key, fn)
}
