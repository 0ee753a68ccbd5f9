// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package scancache remembers the result of scanning a file for as long as the
file is unchanged.

Entries are keyed by a [Stamp]: the path, the scanner used, the size and
modification time of the file and, where the platform reports them, its inode
and status change time. The change time moves on every write and on every
timestamp reset, so a file that is edited gets a new stamp even when its size
and modification time are restored. The old entry is never returned and is
eventually evicted. The cache holds a fixed
number of entries and evicts the least recently used one when full.
*/
package scancache

import (
	"container/list"
	"errors"
	"io/fs"
	"sync"
	"time"
)

// ErrInvalidSize is returned by New for a capacity below one.
var ErrInvalidSize = errors.New("must provide a positive size")

// Stamp identifies one version of a file as seen by one scanner.
type Stamp struct {
	Path    string
	Scanner string
	Size    int64
	ModTime time.Time
	// Inode and ChangeTime are zero on platforms that do not report them.
	Inode      uint64
	ChangeTime time.Time
}

// NewStamp returns the stamp of the file described by info.
func NewStamp(path, scanner string, info fs.FileInfo) Stamp {
	inode, ctime := fileIdentity(info)

	return Stamp{
		Path:       path,
		Scanner:    scanner,
		Size:       info.Size(),
		ModTime:    info.ModTime(),
		Inode:      inode,
		ChangeTime: ctime,
	}
}

// key drops the monotonic clock reading so that equal times compare equal.
func (s Stamp) key() Stamp {
	s.ModTime = s.ModTime.Round(0)
	s.ChangeTime = s.ChangeTime.Round(0)

	return s
}

type entry[V any] struct {
	stamp Stamp
	value V
}

// Cache is a fixed-capacity, least-recently-used cache that is safe for
// concurrent use. A nil *Cache is valid and never stores anything.
type Cache[V any] struct {
	size      int
	evictList *list.List
	items     map[Stamp]*list.Element
	lock      sync.Mutex

	hits   uint64
	misses uint64
}

// New returns a cache holding at most size entries.
func New[V any](size int) (*Cache[V], error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	return &Cache[V]{
		size:      size,
		evictList: list.New(),
		items:     make(map[Stamp]*list.Element),
	}, nil
}

// Add stores value under stamp and reports whether an entry was evicted.
func (c *Cache[V]) Add(stamp Stamp, value V) bool {
	if c == nil {
		return false
	}

	stamp = stamp.key()

	c.lock.Lock()
	defer c.lock.Unlock()

	if el, ok := c.items[stamp]; ok {
		c.evictList.MoveToFront(el)
		el.Value.(*entry[V]).value = value

		return false
	}

	c.items[stamp] = c.evictList.PushFront(&entry[V]{stamp: stamp, value: value})

	evicted := c.evictList.Len() > c.size
	if evicted {
		c.removeOldest()
	}

	return evicted
}

// Get returns the value stored under stamp and marks it as most recently used.
func (c *Cache[V]) Get(stamp Stamp) (V, bool) {
	var zero V

	if c == nil {
		return zero, false
	}

	stamp = stamp.key()

	c.lock.Lock()
	defer c.lock.Unlock()

	el, ok := c.items[stamp]
	if !ok {
		c.misses++

		return zero, false
	}

	c.hits++
	c.evictList.MoveToFront(el)

	return el.Value.(*entry[V]).value, true
}

// Forget removes every entry of path, whatever its stamp.
func (c *Cache[V]) Forget(path string) int {
	if c == nil {
		return 0
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	removed := 0

	for el := c.evictList.Front(); el != nil; {
		next := el.Next()
		if el.Value.(*entry[V]).stamp.Path == path {
			c.removeElement(el)

			removed++
		}

		el = next
	}

	return removed
}

// Len returns the number of entries.
func (c *Cache[V]) Len() int {
	if c == nil {
		return 0
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	return c.evictList.Len()
}

// Stats returns the number of hits and misses of Get so far.
func (c *Cache[V]) Stats() (hits, misses uint64) {
	if c == nil {
		return 0, 0
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	return c.hits, c.misses
}

func (c *Cache[V]) removeOldest() {
	if el := c.evictList.Back(); el != nil {
		c.removeElement(el)
	}
}

func (c *Cache[V]) removeElement(el *list.Element) {
	c.evictList.Remove(el)
	delete(c.items, el.Value.(*entry[V]).stamp)
}
