package usage

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// Locks hands out a shared lock per record key so short-lived Limiters over
// the same record serialize with each other. Keys are hashed onto a fixed
// set of stripes, so unrelated keys may occasionally share a lock.
type Locks struct {
	stripes [lockStripes]sync.Mutex
}

// For returns the lock guarding key.
func (l *Locks) For(key string) sync.Locker {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &l.stripes[h.Sum32()%lockStripes]
}
