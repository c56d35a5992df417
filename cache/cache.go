// Package cache memoizes parse results for drivers that parse the same
// sources repeatedly, such as the watch mode of cmd/esparse.
//
// Cached trees are shared between callers and must be treated as
// read-only.
package cache

import (
	"sync/atomic"

	spooky "github.com/dgryski/go-spooky"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/SKalt/meriyah-sub000/ast"
	"github.com/SKalt/meriyah-sub000/parser"
)

// DefaultSize is the number of parse results kept when no size is given.
const DefaultSize = 1000

type key struct {
	hash   [2]uint64
	length int
	opts   parser.Options
}

type entry struct {
	prog *ast.Program
	err  error
}

// Cache is a bounded LRU of parse results keyed by source content and
// options. It is safe for concurrent use.
type Cache struct {
	entries *lru.Cache
	hits    uint64
	misses  uint64
}

// New returns a cache holding at most size results.
func New(size int) (*Cache, error) {
	entries, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrapf(err, "creating parse cache of size %d", size)
	}
	return &Cache{entries: entries}, nil
}

func keyFor(src string, opts parser.Options) key {
	k := key{length: len(src), opts: opts}
	spooky.Hash128([]byte(src), &k.hash[0], &k.hash[1])
	return k
}

// Parse returns the cached result for src parsed with opts, parsing and
// remembering it on a miss. Failed parses are cached too.
func (c *Cache) Parse(src string, opts parser.Options) (*ast.Program, error) {
	k := keyFor(src, opts)
	if v, ok := c.entries.Get(k); ok {
		atomic.AddUint64(&c.hits, 1)
		e := v.(*entry)
		return e.prog, e.err
	}
	atomic.AddUint64(&c.misses, 1)
	prog, err := parser.Parse(src, opts)
	c.entries.Add(k, &entry{prog: prog, err: err})
	return prog, err
}

// Forget drops the result for src parsed with opts.
func (c *Cache) Forget(src string, opts parser.Options) {
	c.entries.Remove(keyFor(src, opts))
}

// Purge empties the cache and resets its counters.
func (c *Cache) Purge() {
	c.entries.Purge()
	atomic.StoreUint64(&c.hits, 0)
	atomic.StoreUint64(&c.misses, 0)
}

// Len is the number of cached results.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Stats reports the hits and misses since creation or the last Purge.
func (c *Cache) Stats() (hits, misses uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses)
}
