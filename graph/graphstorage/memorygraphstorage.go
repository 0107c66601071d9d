/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package graphstorage

import "sync"

/*
Return values for FlushMap, RollbackMap and Close calls of a MemoryGraphStorage
*/
var MgsRetFlushMap, MgsRetRollbackMap, MgsRetClose error

/*
MemoryGraphStorage data structure
*/
type MemoryGraphStorage struct {
	name  string                       // Name of the graph storage
	maps  map[string]map[string]string // Named maps
	mutex *sync.Mutex                  // Mutex to protect the map registry
}

/*
NewMemoryGraphStorage creates a new MemoryGraphStorage instance.
*/
func NewMemoryGraphStorage(name string) Storage {
	return &MemoryGraphStorage{name, make(map[string]map[string]string), &sync.Mutex{}}
}

/*
Name returns the name of the MemoryGraphStorage instance.
*/
func (mgs *MemoryGraphStorage) Name() string {
	return mgs.name
}

/*
Map returns a named map of the storage.
*/
func (mgs *MemoryGraphStorage) Map(name string, create bool) (map[string]string, error) {
	mgs.mutex.Lock()
	defer mgs.mutex.Unlock()

	m, ok := mgs.maps[name]

	if !ok && create {
		m = make(map[string]string)
		mgs.maps[name] = m
	}

	return m, nil
}

/*
FlushMap writes a named map to the storage.
*/
func (mgs *MemoryGraphStorage) FlushMap(name string) error {
	return MgsRetFlushMap
}

/*
RollbackMap reverts a named map. Memory maps cannot be reverted.
*/
func (mgs *MemoryGraphStorage) RollbackMap(name string) error {
	return MgsRetRollbackMap
}

/*
FlushAll writes all pending changes to the storage.
*/
func (mgs *MemoryGraphStorage) FlushAll() error {
	return MgsRetFlushMap
}

/*
Close closes the storage.
*/
func (mgs *MemoryGraphStorage) Close() error {
	return MgsRetClose
}
