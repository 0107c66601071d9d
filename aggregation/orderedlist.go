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

	"devt.de/krotik/proxylist/graph/data"
	"devt.de/krotik/proxylist/graph/linkstore"
	"devt.de/krotik/proxylist/graph/objstore"
	"devt.de/krotik/proxylist/graph/util"
)

/*
OrderedList data structure
*/
type OrderedList struct {
	owner   string                // Owner of this list (identity of the list)
	links   linkstore.Store       // Store holding the list statements
	objects objstore.Store        // Store to resolve members
	nodes   map[string]*ProxyNode // All proxy nodes of the list by id
	head    string                // Id of the first proxy node
	tail    string                // Id of the last proxy node
	version uint64                // Change counter
}

/*
Load reconstructs the ordered list of an owner from a link store. The order
is rebuilt by following the next links from the stored head. The chain must
end at the stored tail. An owner without any stored head produces an empty
list.
*/
func Load(owner string, links linkstore.Store, objects objstore.Store) (*OrderedList, error) {

	if owner == "" {
		return nil, &util.GraphError{Type: util.ErrInvalidArgument, Detail: "owner can not be empty"}
	}

	ol := &OrderedList{owner, links, objects, make(map[string]*ProxyNode), "", "", 0}

	head, err := ol.pointer(RelHasHead)
	if err != nil {
		return nil, err
	}

	tail, err := ol.pointer(RelHasTail)
	if err != nil {
		return nil, err
	}

	ids, targets, err := walkChain(owner, head, tail, ol.readProxy)
	if err != nil {
		return nil, err
	}

	var prev *ProxyNode

	for i, pid := range ids {
		node := &ProxyNode{pid, NewLazyRef(targets[i], objects), owner, "", ""}

		if prev != nil {
			prev.next = pid
			node.prev = prev.id
		} else {
			ol.head = pid
		}

		ol.nodes[pid] = node
		prev = node
	}

	if prev != nil {
		ol.tail = prev.id
	}

	logger.Debug(fmt.Sprintf("Loaded list %v with %v entries", owner, len(ids)))

	return ol, nil
}

/*
pointer reads a head or tail pointer of the owner. Returns an empty string
for an empty list.
*/
func (ol *OrderedList) pointer(rel string) (string, error) {

	res, err := ol.links.ObjectsOf(ol.owner, rel)
	if err != nil {
		return "", wrapStoreError(util.ErrReading, err)
	}

	if len(res) > 1 {
		return "", &util.GraphError{Type: util.ErrInvalidData,
			Detail: fmt.Sprintf("List %v has multiple %v pointers: %v", ol.owner, rel, res)}
	} else if len(res) == 0 || res[0] == NilMarker {
		return "", nil
	}

	return res[0], nil
}

/*
readProxy reads the target and the next link of a stored proxy node and
checks that it belongs to this list.
*/
func (ol *OrderedList) readProxy(id string) (string, string, error) {

	containers, err := ol.links.ObjectsOf(id, RelIsProxyIn)
	if err != nil {
		return "", "", wrapStoreError(util.ErrReading, err)
	}

	if len(containers) != 1 || containers[0] != ol.owner {
		return "", "", &util.GraphError{Type: util.ErrInvalidData,
			Detail: fmt.Sprintf("Proxy %v is not contained in %v: %v", id, ol.owner, containers)}
	}

	targets, err := ol.links.ObjectsOf(id, RelIsProxyFor)
	if err != nil {
		return "", "", wrapStoreError(util.ErrReading, err)
	}

	if len(targets) != 1 {
		return "", "", &util.GraphError{Type: util.ErrInvalidData,
			Detail: fmt.Sprintf("Proxy %v has %v targets", id, len(targets))}
	}

	nexts, err := ol.links.ObjectsOf(id, RelPointsToNext)
	if err != nil {
		return "", "", wrapStoreError(util.ErrReading, err)
	}

	if len(nexts) > 1 {
		return "", "", &util.GraphError{Type: util.ErrInvalidData,
			Detail: fmt.Sprintf("Proxy %v has multiple next links: %v", id, nexts)}
	} else if len(nexts) == 1 {
		return targets[0], nexts[0], nil
	}

	return targets[0], "", nil
}

/*
walkChain follows the next links from a given head and returns the visited
proxy ids and their targets in order. The walk must end at the given tail
and must not visit a proxy twice. The nextOf function returns target and
next link of a proxy.
*/
func walkChain(owner string, head string, tail string,
	nextOf func(id string) (string, string, error)) ([]string, []string, error) {

	var ids, targets []string

	if head == "" || tail == "" {

		if head != tail {
			return nil, nil, &util.GraphError{Type: util.ErrInvalidData,
				Detail: fmt.Sprintf("List %v has head %q but tail %q", owner, head, tail)}
		}

		return ids, targets, nil
	}

	seen := make(map[string]bool)

	for cur := head; cur != ""; {

		if seen[cur] {
			logger.Warning(fmt.Sprintf("Cycle detected in list %v at %v", owner, cur))
			return nil, nil, &util.GraphError{Type: util.ErrInvalidData,
				Detail: fmt.Sprintf("List %v contains a cycle at %v", owner, cur)}
		}

		seen[cur] = true

		target, next, err := nextOf(cur)
		if err != nil {
			return nil, nil, err
		}

		ids = append(ids, cur)
		targets = append(targets, target)

		cur = next
	}

	if last := ids[len(ids)-1]; last != tail {
		logger.Warning(fmt.Sprintf("List %v ends at %v but tail is %v", owner, last, tail))
		return nil, nil, &util.GraphError{Type: util.ErrInvalidData,
			Detail: fmt.Sprintf("List %v ends at %v but tail is %v", owner, last, tail)}
	}

	return ids, targets, nil
}

// Read access
// ===========

/*
Owner returns the owner of this list.
*/
func (ol *OrderedList) Owner() string {
	return ol.owner
}

/*
Size returns the number of positions in this list.
*/
func (ol *OrderedList) Size() int {
	return len(ol.nodes)
}

/*
Version returns a counter which changes with every modification of this list.
*/
func (ol *OrderedList) Version() uint64 {
	return ol.version
}

/*
Head returns the first proxy node or nil if the list is empty.
*/
func (ol *OrderedList) Head() *ProxyNode {
	return ol.nodes[ol.head]
}

/*
Tail returns the last proxy node or nil if the list is empty.
*/
func (ol *OrderedList) Tail() *ProxyNode {
	return ol.nodes[ol.tail]
}

/*
Proxy returns the proxy node at a given position or nil if the position does
not exist.
*/
func (ol *OrderedList) Proxy(i int) *ProxyNode {
	n := len(ol.nodes)

	if i < 0 || i >= n {
		return nil
	}

	// Walk from the nearer end of the list

	if i < n/2 {
		p := ol.nodes[ol.head]
		for ; i > 0; i-- {
			p = ol.nodes[p.next]
		}
		return p
	}

	p := ol.nodes[ol.tail]
	for j := n - 1; j > i; j-- {
		p = ol.nodes[p.prev]
	}

	return p
}

/*
Get returns the member reference at a given position or nil if the position
does not exist.
*/
func (ol *OrderedList) Get(i int) *LazyRef {
	if p := ol.Proxy(i); p != nil {
		return p.target
	}
	return nil
}

/*
First returns the first member reference or nil if the list is empty.
*/
func (ol *OrderedList) First() *LazyRef {
	if p := ol.Head(); p != nil {
		return p.target
	}
	return nil
}

/*
Last returns the last member reference or nil if the list is empty.
*/
func (ol *OrderedList) Last() *LazyRef {
	if p := ol.Tail(); p != nil {
		return p.target
	}
	return nil
}

/*
Proxies returns all proxy nodes in order.
*/
func (ol *OrderedList) Proxies() []*ProxyNode {
	ret := make([]*ProxyNode, 0, len(ol.nodes))

	for p := ol.nodes[ol.head]; p != nil; p = ol.nodes[p.next] {
		ret = append(ret, p)
	}

	return ret
}

/*
Refs returns all member references in order. No member is resolved.
*/
func (ol *OrderedList) Refs() []*LazyRef {
	ret := make([]*LazyRef, 0, len(ol.nodes))

	for it := ol.Iterator(); it.HasNext(); {
		ret = append(ret, it.Next())
	}

	return ret
}

/*
IDs returns the keys of all members in order. No member is resolved.
*/
func (ol *OrderedList) IDs() []string {
	ret := make([]string, 0, len(ol.nodes))

	for it := ol.Iterator(); it.HasNext(); {
		ret = append(ret, it.Next().Key())
	}

	return ret
}

/*
Nodes resolves and returns all members in order.
*/
func (ol *OrderedList) Nodes() ([]data.Node, error) {
	ret := make([]data.Node, 0, len(ol.nodes))

	for it := ol.Iterator(); it.HasNext(); {
		node, err := it.Next().Resolve()
		if err != nil {
			return nil, err
		}
		ret = append(ret, node)
	}

	return ret, nil
}

/*
Iterator returns an iterator which walks the list from head to tail.
*/
func (ol *OrderedList) Iterator() *Iterator {
	return &Iterator{ol, ol.head, false}
}

/*
ReverseIterator returns an iterator which walks the list from tail to head.
*/
func (ol *OrderedList) ReverseIterator() *Iterator {
	return &Iterator{ol, ol.tail, true}
}

/*
Statements returns all statements which describe this list.
*/
func (ol *OrderedList) Statements() []linkstore.Statement {
	head, tail := ol.head, ol.tail

	if head == "" {
		head, tail = NilMarker, NilMarker
	}

	ret := []linkstore.Statement{
		{Subject: ol.owner, Relation: RelHasHead, Object: head},
		{Subject: ol.owner, Relation: RelHasTail, Object: tail},
	}

	for _, p := range ol.Proxies() {
		ret = append(ret,
			linkstore.Statement{Subject: p.id, Relation: RelIsProxyFor, Object: p.target.Key()},
			linkstore.Statement{Subject: p.id, Relation: RelIsProxyIn, Object: ol.owner})

		if p.next != "" {
			ret = append(ret, linkstore.Statement{Subject: p.id, Relation: RelPointsToNext, Object: p.next})
		}
	}

	return ret
}

/*
String returns a string representation of this list.
*/
func (ol *OrderedList) String() string {
	return fmt.Sprintf("OrderedList %v %v", ol.owner, ol.IDs())
}

// Membership set
// ==============

/*
MemberIDs returns the keys of all members in the membership set of the owner.
*/
func (ol *OrderedList) MemberIDs() ([]string, error) {
	res, err := ol.links.ObjectsOf(ol.owner, RelHasMember)
	if err != nil {
		return nil, wrapStoreError(util.ErrReading, err)
	}
	return res, nil
}

/*
AddMember adds a member key to the membership set of the owner without
adding it to the order.
*/
func (ol *OrderedList) AddMember(key string) error {

	if key == "" {
		return &util.GraphError{Type: util.ErrInvalidArgument, Detail: "id can not be null"}
	}

	if err := ol.links.Add(ol.owner, RelHasMember, key); err != nil {
		return wrapStoreError(util.ErrWriting, err)
	}

	return nil
}

/*
IsMember checks if a given key is in the membership set of the owner and
the member still exists in the object store.
*/
func (ol *OrderedList) IsMember(key string) (bool, error) {

	res, err := ol.links.Has(ol.owner, RelHasMember, key)
	if err != nil {
		return false, wrapStoreError(util.ErrReading, err)
	}

	if res && ol.objects != nil {
		if res, err = ol.objects.Exists(key); err != nil {
			return false, wrapStoreError(util.ErrReading, err)
		}
	}

	return res, nil
}

// Helper functions
// ================

/*
wrapStoreError makes sure that a store error is returned as a GraphError.
*/
func wrapStoreError(errType error, err error) error {
	if _, ok := err.(*util.GraphError); ok {
		return err
	}
	return &util.GraphError{Type: errType, Detail: err.Error()}
}
