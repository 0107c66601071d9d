/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package graphstorage contains classes which model storage objects for graph data.

A storage holds a number of named string maps. The link store keeps its
statements in one map and the object store keeps its encoded members in
another. There are two storage objects: DiskGraphStorage which persists each
map in its own file and MemoryGraphStorage which provides memory-only storage.
*/
package graphstorage

/*
Storage interface models the storage backend for link and object stores.
*/
type Storage interface {

	/*
	   Name returns the name of the storage instance.
	*/
	Name() string

	/*
		Map returns a named map of the storage. A non-existing map is not created
		automatically if the create flag is set to false - in this case nil is
		returned. The returned map must not be kept after a call to RollbackMap.
	*/
	Map(name string, create bool) (map[string]string, error)

	/*
	   FlushMap writes a named map to the storage.
	*/
	FlushMap(name string) error

	/*
	   RollbackMap reverts a named map to its last flushed state.
	*/
	RollbackMap(name string) error

	/*
	   FlushAll writes all pending changes to the storage.
	*/
	FlushAll() error

	/*
		Close closes the storage.
	*/
	Close() error
}
