/*
   Copyright 2018-2019 Banco Bilbao Vizcaya Argentaria, S.A.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package cache

import (
	"github.com/VictoriaMetrics/fastcache"
)

// FastCache is a bounded cache backed by VictoriaMetrics fastcache. Old
// entries get evicted when the configured size is exceeded, which is fine
// for memoized digests.
type FastCache struct {
	cached *fastcache.Cache
}

// NewFastCache returns a new FastCache of at most 'maxBytes' bytes.
func NewFastCache(maxBytes int64) *FastCache {
	cache := fastcache.New(int(maxBytes))
	return &FastCache{cached: cache}
}

// Get function returns the value of a given key in cache, and a boolean
// showing if the key is or is not present.
func (c FastCache) Get(key []byte) ([]byte, bool) {
	value := c.cached.Get(nil, key)
	if value == nil {
		return nil, false
	}
	return value, true
}

// Put function adds a key/value element to the FastCache.
func (c *FastCache) Put(key []byte, value []byte) {
	c.cached.Set(key, value)
}

// Size function returns the number of items currently in the cache.
func (c FastCache) Size() int {
	var s fastcache.Stats
	c.cached.UpdateStats(&s)
	return int(s.EntriesCount)
}

// Equal function checks if both caches hold the same number of entries of
// the same total size. Entry by entry comparison is not supported by the
// underlying implementation.
func (c FastCache) Equal(o *FastCache) bool {
	var stats, oStats fastcache.Stats
	c.cached.UpdateStats(&stats)
	o.cached.UpdateStats(&oStats)
	return stats.BytesSize == oStats.BytesSize && stats.EntriesCount == oStats.EntriesCount
}
