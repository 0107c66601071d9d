/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package aggregation

import (
	"fmt"
	"sync"

	"devt.de/krotik/proxylist/graph/data"
	"devt.de/krotik/proxylist/graph/linkstore"
	"devt.de/krotik/proxylist/graph/objstore"
	"devt.de/krotik/proxylist/graph/util"
	"golang.org/x/exp/slices"
)

/*
Manager data structure
*/
type Manager struct {
	links   linkstore.Store         // Store holding the list statements
	objects objstore.Store          // Store to resolve members
	lists   map[string]*OrderedList // Opened lists by owner
	mutex   *sync.RWMutex           // Mutex to protect the list registry
}

/*
NewManager returns a new list manager which operates on the given stores.
*/
func NewManager(links linkstore.Store, objects objstore.Store) *Manager {
	return &Manager{links, objects, make(map[string]*OrderedList), &sync.RWMutex{}}
}

/*
Links returns the link store of this manager.
*/
func (m *Manager) Links() linkstore.Store {
	return m.links
}

/*
Objects returns the object store of this manager.
*/
func (m *Manager) Objects() objstore.Store {
	return m.objects
}

/*
List returns the ordered list of an owner. A list is loaded from the link
store on the first request and kept afterwards.
*/
func (m *Manager) List(owner string) (*OrderedList, error) {

	m.mutex.RLock()
	ol, ok := m.lists[owner]
	m.mutex.RUnlock()

	if ok {
		return ol, nil
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if ol, ok = m.lists[owner]; ok {
		return ol, nil
	}

	ol, err := Load(owner, m.links, m.objects)
	if err != nil {
		return nil, err
	}

	m.lists[owner] = ol

	return ol, nil
}

/*
Reload discards an opened list and loads it again from the link store. This
is the recovery path after a failed write.
*/
func (m *Manager) Reload(owner string) (*OrderedList, error) {

	m.mutex.Lock()
	delete(m.lists, owner)
	m.mutex.Unlock()

	return m.List(owner)
}

/*
ReverseLookupOwners returns the owners of all lists which contain a member
with a given key. The result is sorted.
*/
func (m *Manager) ReverseLookupOwners(key string) ([]string, error) {
	var owners []string

	proxies, err := m.links.SubjectsOf(RelIsProxyFor, key)
	if err != nil {
		return nil, wrapStoreError(util.ErrReading, err)
	}

	for _, p := range proxies {

		containers, err := m.links.ObjectsOf(p, RelIsProxyIn)
		if err != nil {
			return nil, wrapStoreError(util.ErrReading, err)
		}

		for _, c := range containers {
			if i, found := slices.BinarySearch(owners, c); !found {
				owners = slices.Insert(owners, i, c)
			}
		}
	}

	logger.Debug(fmt.Sprintf("Reverse lookup of %v found %v", key, owners))

	return owners, nil
}

/*
ReverseLookup returns all lists which contain a given member.
*/
func (m *Manager) ReverseLookup(member data.Node) ([]*OrderedList, error) {

	if member == nil || member.Key() == "" {
		return nil, &util.GraphError{Type: util.ErrInvalidArgument, Detail: "id can not be null"}
	}

	owners, err := m.ReverseLookupOwners(member.Key())
	if err != nil {
		return nil, err
	}

	ret := make([]*OrderedList, 0, len(owners))

	for _, o := range owners {
		ol, err := m.List(o)
		if err != nil {
			return nil, err
		}
		ret = append(ret, ol)
	}

	return ret, nil
}

/*
Close forgets all opened lists and closes the link store.
*/
func (m *Manager) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.lists = make(map[string]*OrderedList)

	return m.links.Close()
}
