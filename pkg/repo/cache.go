package repo

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/odvcencio/vcsettings/pkg/object"
)

// snapshotCache memoizes materialized commits. Entries are shared and must
// never be handed to callers without cloning.
type snapshotCache interface {
	Get(h object.Hash) (any, bool)
	Add(h object.Hash, snapshot any)
	Len() int
}

func newSnapshotCache(size int) snapshotCache {
	if size <= 0 {
		return mapCache{}
	}
	c, err := lru.New(size)
	if err != nil {
		// lru.New only fails for non-positive sizes.
		return mapCache{}
	}
	return &lruCache{c: c}
}

// mapCache grows with every distinct commit checked out.
type mapCache map[object.Hash]any

func (m mapCache) Get(h object.Hash) (any, bool) {
	v, ok := m[h]
	return v, ok
}

func (m mapCache) Add(h object.Hash, snapshot any) { m[h] = snapshot }

func (m mapCache) Len() int { return len(m) }

type lruCache struct {
	c *lru.Cache
}

func (l *lruCache) Get(h object.Hash) (any, bool) {
	return l.c.Get(h)
}

func (l *lruCache) Add(h object.Hash, snapshot any) {
	l.c.Add(h, snapshot)
}

func (l *lruCache) Len() int { return l.c.Len() }
