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

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"devt.de/krotik/common/datautil"
	"devt.de/krotik/common/errorutil"
	"devt.de/krotik/common/fileutil"
	"devt.de/krotik/proxylist/graph/util"
)

/*
FileSuffixMap is the file suffix for a persisted map
*/
var FileSuffixMap = ".pm"

/*
DiskGraphStorage data structure
*/
type DiskGraphStorage struct {
	name     string                                   // Name of the graph storage (directory)
	readonly bool                                     // Flag for readonly mode
	maps     map[string]*datautil.PersistentStringMap // Map of opened persistent maps
	mutex    *sync.Mutex                              // Mutex to protect the map registry
}

/*
NewDiskGraphStorage creates a new DiskGraphStorage instance. The storage
directory is created if it does not exist.
*/
func NewDiskGraphStorage(name string, readonly bool) (Storage, error) {

	dgs := &DiskGraphStorage{name, readonly, make(map[string]*datautil.PersistentStringMap), &sync.Mutex{}}

	if res, _ := fileutil.PathExists(name); !res {

		if readonly {
			return nil, &util.GraphError{Type: util.ErrReadOnly,
				Detail: fmt.Sprint("Cannot create storage directory ", name)}
		}

		if err := os.MkdirAll(name, 0770); err != nil {
			return nil, &util.GraphError{Type: util.ErrOpening, Detail: err.Error()}
		}
	}

	return dgs, nil
}

/*
Name returns the name of the DiskGraphStorage instance.
*/
func (dgs *DiskGraphStorage) Name() string {
	return dgs.name
}

/*
mapFile returns the filename of a named map.
*/
func (dgs *DiskGraphStorage) mapFile(name string) string {
	return filepath.Join(dgs.name, name+FileSuffixMap)
}

/*
Map returns a named map of the storage. The map is loaded from disk if it
was persisted before.
*/
func (dgs *DiskGraphStorage) Map(name string, create bool) (map[string]string, error) {
	dgs.mutex.Lock()
	defer dgs.mutex.Unlock()

	if pm, ok := dgs.maps[name]; ok {
		return pm.Data, nil
	}

	filename := dgs.mapFile(name)

	if res, _ := fileutil.PathExists(filename); res {

		pm, err := datautil.LoadPersistentStringMap(filename)
		if err != nil {
			return nil, &util.GraphError{Type: util.ErrOpening, Detail: err.Error()}
		}

		if pm.Data == nil {
			pm.Data = make(map[string]string)
		}

		dgs.maps[name] = pm

		return pm.Data, nil

	} else if !create {

		return nil, nil

	} else if dgs.readonly {

		return nil, &util.GraphError{Type: util.ErrReadOnly,
			Detail: fmt.Sprint("Cannot create map ", name)}
	}

	pm, err := datautil.NewPersistentStringMap(filename)
	if err != nil {
		return nil, &util.GraphError{Type: util.ErrOpening, Detail: err.Error()}
	}

	dgs.maps[name] = pm

	return pm.Data, nil
}

/*
FlushMap writes a named map to the disk.
*/
func (dgs *DiskGraphStorage) FlushMap(name string) error {

	// Fail operation when readonly

	if dgs.readonly {
		return &util.GraphError{Type: util.ErrReadOnly,
			Detail: fmt.Sprint("Cannot flush map ", name)}
	}

	dgs.mutex.Lock()
	defer dgs.mutex.Unlock()

	pm, ok := dgs.maps[name]
	if !ok {
		return nil
	}

	if err := pm.Flush(); err != nil {
		return &util.GraphError{Type: util.ErrFlushing, Detail: err.Error()}
	}

	return nil
}

/*
RollbackMap reloads a named map from the disk.
*/
func (dgs *DiskGraphStorage) RollbackMap(name string) error {

	// Fail operation when readonly

	if dgs.readonly {
		return &util.GraphError{Type: util.ErrReadOnly,
			Detail: fmt.Sprint("Cannot rollback map ", name)}
	}

	dgs.mutex.Lock()
	defer dgs.mutex.Unlock()

	if _, ok := dgs.maps[name]; !ok {
		return nil
	}

	pm, err := datautil.LoadPersistentStringMap(dgs.mapFile(name))
	if err != nil {
		return &util.GraphError{Type: util.ErrRollback, Detail: err.Error()}
	}

	if pm.Data == nil {
		pm.Data = make(map[string]string)
	}

	dgs.maps[name] = pm

	return nil
}

/*
FlushAll writes all pending changes to the disk.
*/
func (dgs *DiskGraphStorage) FlushAll() error {
	dgs.mutex.Lock()
	defer dgs.mutex.Unlock()

	return dgs.flushAll()
}

/*
flushAll writes all opened maps. The caller must hold the lock.
*/
func (dgs *DiskGraphStorage) flushAll() error {

	if dgs.readonly {
		return nil
	}

	errors := errorutil.NewCompositeError()

	for _, pm := range dgs.maps {
		if err := pm.Flush(); err != nil {
			errors.Add(err)
		}
	}

	if errors.HasErrors() {
		details := fmt.Sprint(dgs.name, " :", errors.Error())

		return &util.GraphError{Type: util.ErrFlushing, Detail: details}
	}

	return nil
}

/*
Close flushes and closes the storage.
*/
func (dgs *DiskGraphStorage) Close() error {
	dgs.mutex.Lock()
	defer dgs.mutex.Unlock()

	if err := dgs.flushAll(); err != nil {
		return &util.GraphError{Type: util.ErrClosing, Detail: err.Error()}
	}

	dgs.maps = make(map[string]*datautil.PersistentStringMap)

	return nil
}
