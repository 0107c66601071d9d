/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package objstore

import (
	"fmt"

	"devt.de/krotik/common/datautil"
	"devt.de/krotik/proxylist/graph/data"
)

/*
CachedStore data structure
*/
type CachedStore struct {
	store Store              // Wrapped store
	cache *datautil.MapCache // Cache for loaded members
}

/*
NewCachedStore wraps a given store with a cache. The cache is constrained by
a maximum number of entries and a maximum age in seconds (0 means no
constraint).
*/
func NewCachedStore(store Store, maxsize uint64, maxage int64) *CachedStore {
	return &CachedStore{store, datautil.NewMapCache(maxsize, maxage)}
}

/*
Load loads a member either from the cache or from the wrapped store. Cached
members are returned as copies so callers cannot modify the cache.
*/
func (cs *CachedStore) Load(key string) (data.Node, error) {

	if node, ok := cs.cache.Get(key); ok {
		return data.CopyNode(node.(data.Node)), nil
	}

	node, err := cs.store.Load(key)

	if node != nil && err == nil {
		logger.Debug(fmt.Sprint("Caching member ", key))
		cs.cache.Put(key, data.CopyNode(node))
	}

	return node, err
}

/*
Exists checks if a member exists.
*/
func (cs *CachedStore) Exists(key string) (bool, error) {

	if _, ok := cs.cache.Get(key); ok {
		return true, nil
	}

	return cs.store.Exists(key)
}

/*
Invalidate removes a member from the cache. This should be called if a member
is updated or removed in the wrapped store.
*/
func (cs *CachedStore) Invalidate(key string) {
	cs.cache.Remove(key)
}
