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
	"bytes"
	"encoding/gob"
	"fmt"

	"devt.de/krotik/proxylist/graph/data"
	"devt.de/krotik/proxylist/graph/graphstorage"
	"devt.de/krotik/proxylist/graph/util"
)

func init() {

	// It is possible to store nested structures on members

	gob.Register(make(map[string]interface{}))
	gob.Register(make([]interface{}, 0))
}

/*
DefaultMapName is the default name of the storage map holding members
*/
const DefaultMapName = "objects"

/*
NodeStore data structure
*/
type NodeStore struct {
	gs        graphstorage.Storage // Storage holding the member map
	name      string               // Name of the member map
	autoflush bool                 // Flag to flush the map after every change
}

/*
NewNodeStore creates a new NodeStore which keeps its members in a named map
of a given storage.
*/
func NewNodeStore(gs graphstorage.Storage, name string, autoflush bool) *NodeStore {
	return &NodeStore{gs, name, autoflush}
}

/*
objects returns the member map of the storage.
*/
func (ns *NodeStore) objects() (map[string]string, error) {
	m, err := ns.gs.Map(ns.name, true)
	if err != nil {
		return nil, &util.GraphError{Type: util.ErrReading, Detail: err.Error()}
	}
	return m, nil
}

/*
Store stores a member. An existing member with the same key is overwritten.
*/
func (ns *NodeStore) Store(node data.Node) error {

	if node == nil {
		return &util.GraphError{Type: util.ErrInvalidData, Detail: "Node can not be nil"}
	} else if node.Key() == "" {
		return &util.GraphError{Type: util.ErrInvalidData, Detail: "Node is missing a key value"}
	}

	m, err := ns.objects()
	if err != nil {
		return err
	}

	var buf bytes.Buffer

	if err := gob.NewEncoder(&buf).Encode(node.Data()); err != nil {
		return &util.GraphError{Type: util.ErrWriting, Detail: err.Error()}
	}

	m[node.Key()] = buf.String()

	return ns.flush()
}

/*
Remove removes a member. Returns the removed member or nil if the member
did not exist.
*/
func (ns *NodeStore) Remove(key string) (data.Node, error) {

	node, err := ns.Load(key)

	if node != nil && err == nil {
		m, _ := ns.objects()
		delete(m, key)
		err = ns.flush()
	}

	return node, err
}

/*
Load loads a member. Returns nil if the member does not exist.
*/
func (ns *NodeStore) Load(key string) (data.Node, error) {

	m, err := ns.objects()
	if err != nil {
		return nil, err
	}

	val, ok := m[key]
	if !ok {
		return nil, nil
	}

	var d map[string]interface{}

	if err := gob.NewDecoder(bytes.NewBufferString(val)).Decode(&d); err != nil {
		return nil, &util.GraphError{Type: util.ErrReading,
			Detail: fmt.Sprintf("Could not decode member %v: %v", key, err)}
	}

	return data.NewGraphNodeFromMap(d), nil
}

/*
Exists checks if a member exists.
*/
func (ns *NodeStore) Exists(key string) (bool, error) {

	m, err := ns.objects()
	if err != nil {
		return false, err
	}

	_, ok := m[key]

	return ok, nil
}

/*
flush writes the member map through to the storage if autoflush is enabled.
*/
func (ns *NodeStore) flush() error {

	if !ns.autoflush {
		return nil
	}

	if err := ns.gs.FlushMap(ns.name); err != nil {
		logger.Error(fmt.Sprintf("Could not write members of %v: %v", ns.name, err))
		return &util.GraphError{Type: util.ErrWriting, Detail: err.Error()}
	}

	return nil
}
