// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	lru "github.com/hashicorp/golang-lru"
)

// slotCache caches committed raw values by kv key. It is only ever filled from
// committed data, so uncommitted (revertible) changes never leak into it.
type slotCache struct {
	cache *lru.Cache
}

func newSlotCache(size int) *slotCache {
	cache, err := lru.New(size)
	if err != nil {
		return nil
	}
	return &slotCache{cache: cache}
}

func (c *slotCache) Get(key []byte) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	if v, ok := c.cache.Get(string(key)); ok {
		return v.([]byte), true
	}
	return nil, false
}

func (c *slotCache) Put(key []byte, val []byte) {
	if c == nil {
		return
	}
	c.cache.Add(string(key), val)
}

func (c *slotCache) Len() int {
	if c == nil {
		return 0
	}
	return c.cache.Len()
}
