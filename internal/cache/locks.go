package cache

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// lockStripes must be a power of two.
const lockStripes = 256

// keyLocks serializes same-key mutations. Different keys only contend when
// they hash to the same stripe.
type keyLocks struct {
	stripes [lockStripes]sync.Mutex
}

func (l *keyLocks) forKey(key string) *sync.Mutex {
	return &l.stripes[xxhash.Sum64String(key)&(lockStripes-1)]
}
