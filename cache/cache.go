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

// Package cache implements the in-memory caches a claim tree can use to
// memoize computed level digests. A cache is an optimization only: a miss
// always falls back to recomputation, so every implementation is free to
// evict at will.
package cache

// Cache is the read interface the tree uses to look up memoized digests.
type Cache interface {
	Get(key []byte) ([]byte, bool)
}

// ModifiableCache extends Cache with writes. The tree stores every level
// digest it computes under its position key.
type ModifiableCache interface {
	Put(key []byte, value []byte)
	Size() int
	Cache
}
