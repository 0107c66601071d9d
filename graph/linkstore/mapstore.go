/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package linkstore

import (
	"fmt"
	"sync"

	"devt.de/krotik/proxylist/graph/graphstorage"
	"devt.de/krotik/proxylist/graph/util"
	"golang.org/x/exp/slices"
)

/*
DefaultMapName is the default name of the storage map holding statements
*/
const DefaultMapName = "statements"

/*
MapStore data structure
*/
type MapStore struct {
	gs        graphstorage.Storage // Storage holding the statement map
	name      string               // Name of the statement map
	autoflush bool                 // Flag to flush the map after every change
	spo       map[string][]string  // Index subject + relation -> sorted objects
	pos       map[string][]string  // Index relation + object -> sorted subjects
	mutex     *sync.RWMutex        // Mutex to protect the statement map and indices
}

/*
NewMapStore creates a new MapStore which keeps its statements in a named map
of a given storage. If autoflush is set then every change is written through
to the storage.
*/
func NewMapStore(gs graphstorage.Storage, name string, autoflush bool) (*MapStore, error) {
	ms := &MapStore{gs, name, autoflush, nil, nil, &sync.RWMutex{}}

	if err := ms.buildIndex(); err != nil {
		return nil, err
	}

	return ms, nil
}

/*
statements returns the statement map of the storage.
*/
func (ms *MapStore) statements() (map[string]string, error) {
	m, err := ms.gs.Map(ms.name, true)
	if err != nil {
		return nil, &util.GraphError{Type: util.ErrReading, Detail: err.Error()}
	}
	return m, nil
}

/*
buildIndex (re)builds the lookup indices from the statement map. The caller
must hold the write lock if the store is shared.
*/
func (ms *MapStore) buildIndex() error {

	m, err := ms.statements()
	if err != nil {
		return err
	}

	ms.spo = make(map[string][]string)
	ms.pos = make(map[string][]string)

	for k := range m {
		if s, ok := decodeStatement(k); ok {
			ms.spo[indexKey(s.Subject, s.Relation)] =
				insertSorted(ms.spo[indexKey(s.Subject, s.Relation)], s.Object)
			ms.pos[indexKey(s.Relation, s.Object)] =
				insertSorted(ms.pos[indexKey(s.Relation, s.Object)], s.Subject)
		} else {
			logger.Warning(fmt.Sprintf("Ignoring invalid statement entry %q in %v",
				k, ms.name))
		}
	}

	logger.Debug(fmt.Sprintf("Indexed %v statements of %v/%v", len(m),
		ms.gs.Name(), ms.name))

	return nil
}

/*
Add adds a statement to the store.
*/
func (ms *MapStore) Add(subject string, relation string, object string) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	m, err := ms.statements()
	if err != nil {
		return err
	}

	k := encodeStatement(subject, relation, object)

	if _, ok := m[k]; ok {
		return nil
	}

	m[k] = ""

	ms.spo[indexKey(subject, relation)] = insertSorted(ms.spo[indexKey(subject, relation)], object)
	ms.pos[indexKey(relation, object)] = insertSorted(ms.pos[indexKey(relation, object)], subject)

	return ms.flush()
}

/*
Remove removes a statement from the store.
*/
func (ms *MapStore) Remove(subject string, relation string, object string) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	m, err := ms.statements()
	if err != nil {
		return err
	}

	k := encodeStatement(subject, relation, object)

	if _, ok := m[k]; !ok {
		return nil
	}

	delete(m, k)

	removeSorted(ms.spo, indexKey(subject, relation), object)
	removeSorted(ms.pos, indexKey(relation, object), subject)

	return ms.flush()
}

/*
Has checks if a statement exists in the store.
*/
func (ms *MapStore) Has(subject string, relation string, object string) (bool, error) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	_, found := slices.BinarySearch(ms.spo[indexKey(subject, relation)], object)
	return found, nil
}

/*
ObjectsOf returns all objects which a subject points to via a relation.
*/
func (ms *MapStore) ObjectsOf(subject string, relation string) ([]string, error) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	return slices.Clone(ms.spo[indexKey(subject, relation)]), nil
}

/*
SubjectsOf returns all subjects which point to an object via a relation.
*/
func (ms *MapStore) SubjectsOf(relation string, object string) ([]string, error) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	return slices.Clone(ms.pos[indexKey(relation, object)]), nil
}

/*
Size returns the number of statements in the store.
*/
func (ms *MapStore) Size() int {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	var size int

	for _, objects := range ms.spo {
		size += len(objects)
	}

	return size
}

/*
Flush writes all statements to the storage.
*/
func (ms *MapStore) Flush() error {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	if err := ms.gs.FlushMap(ms.name); err != nil {
		return &util.GraphError{Type: util.ErrFlushing, Detail: err.Error()}
	}
	return nil
}

/*
Rollback reverts the store to the last flushed state.
*/
func (ms *MapStore) Rollback() error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	if err := ms.gs.RollbackMap(ms.name); err != nil {
		return &util.GraphError{Type: util.ErrRollback, Detail: err.Error()}
	}

	return ms.buildIndex()
}

/*
Close flushes the store. The underlying storage is not closed.
*/
func (ms *MapStore) Close() error {
	return ms.Flush()
}

/*
flush writes the statement map through to the storage if autoflush is enabled.
*/
func (ms *MapStore) flush() error {

	if !ms.autoflush {
		return nil
	}

	if err := ms.gs.FlushMap(ms.name); err != nil {
		logger.Error(fmt.Sprintf("Could not write statements of %v: %v", ms.name, err))
		return &util.GraphError{Type: util.ErrWriting, Detail: err.Error()}
	}

	return nil
}

// Helper functions
// ================

/*
indexKey builds a key for one of the lookup indices.
*/
func indexKey(a string, b string) string {
	return a + statementSeparator + b
}

/*
insertSorted inserts a value into a sorted slice if it is not already present.
*/
func insertSorted(list []string, val string) []string {
	i, found := slices.BinarySearch(list, val)
	if found {
		return list
	}
	return slices.Insert(list, i, val)
}

/*
removeSorted removes a value from a sorted slice which is stored in an index.
*/
func removeSorted(index map[string][]string, key string, val string) {
	list := index[key]

	if i, found := slices.BinarySearch(list, val); found {
		list = slices.Delete(list, i, i+1)
	}

	if len(list) == 0 {
		delete(index, key)
	} else {
		index[key] = list
	}
}
