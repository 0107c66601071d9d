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
	"devt.de/krotik/proxylist/graph/objstore"
	"devt.de/krotik/proxylist/graph/util"
)

/*
LazyRef is a reference to a member. An unresolved reference only knows the key
of its member. The member is loaded from the object store on the first call
to Resolve and kept for the lifetime of the reference.
*/
type LazyRef struct {
	key   string         // Key of the referenced member
	store objstore.Store // Store to load the member from
	node  data.Node      // Resolved member (nil if unresolved)
	mutex *sync.Mutex    // Mutex to protect the resolution
}

/*
NewLazyRef creates a new unresolved reference.
*/
func NewLazyRef(key string, store objstore.Store) *LazyRef {
	return &LazyRef{key, store, nil, &sync.Mutex{}}
}

/*
NewResolvedRef creates a reference for an already loaded member.
*/
func NewResolvedRef(node data.Node) *LazyRef {
	return &LazyRef{node.Key(), nil, node, &sync.Mutex{}}
}

/*
Key returns the key of the referenced member.
*/
func (r *LazyRef) Key() string {
	return r.key
}

/*
Resolved returns if the member has been loaded.
*/
func (r *LazyRef) Resolved() bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.node != nil
}

/*
Resolve returns the referenced member. The member is loaded at most once. A
member which does not exist (anymore) produces an ErrNotFound error.
*/
func (r *LazyRef) Resolve() (data.Node, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.node != nil {
		return r.node, nil
	}

	if r.store == nil {
		return nil, &util.GraphError{Type: util.ErrNotFound,
			Detail: fmt.Sprint("No object store to resolve ", r.key)}
	}

	node, err := r.store.Load(r.key)

	if err != nil {
		if _, ok := err.(*util.GraphError); !ok {
			err = &util.GraphError{Type: util.ErrReading, Detail: err.Error()}
		}
		return nil, err

	} else if node == nil {
		return nil, &util.GraphError{Type: util.ErrNotFound, Detail: r.key}
	}

	r.node = node

	return node, nil
}

/*
Equals compares two references by the keys of their members.
*/
func (r *LazyRef) Equals(other *LazyRef) bool {
	return other != nil && r.key == other.key
}

/*
String returns a string representation of this reference.
*/
func (r *LazyRef) String() string {
	if r.Resolved() {
		return fmt.Sprintf("LazyRef %v (resolved)", r.key)
	}
	return fmt.Sprintf("LazyRef %v", r.key)
}
