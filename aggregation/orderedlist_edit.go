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
	"devt.de/krotik/proxylist/graph/util"
)

/*
Append adds a member at the end of the list.
*/
func (ol *OrderedList) Append(member data.Node) error {

	ref, err := refForMember(member)
	if err != nil {
		return err
	}

	return ol.insertRef(len(ol.nodes), ref)
}

/*
AppendRef adds a member reference at the end of the list. The reference is
not resolved.
*/
func (ol *OrderedList) AppendRef(ref *LazyRef) error {

	if ref == nil || ref.Key() == "" {
		return &util.GraphError{Type: util.ErrInvalidArgument, Detail: "id can not be null"}
	}

	return ol.insertRef(len(ol.nodes), ref)
}

/*
InsertAt inserts a member at a given position. Valid positions are 0 up to
and including the size of the list.
*/
func (ol *OrderedList) InsertAt(i int, member data.Node) error {

	ref, err := refForMember(member)
	if err != nil {
		return err
	}

	if err := ol.checkInsertPosition(i); err != nil {
		return err
	}

	return ol.insertRef(i, ref)
}

/*
InsertIDAt inserts a member given by its key at a given position. The key
must name a member of the owner's membership set. Only the neighbouring
positions are touched - no other member is resolved.
*/
func (ol *OrderedList) InsertIDAt(i int, id string) error {

	if id == "" {
		return &util.GraphError{Type: util.ErrInvalidArgument, Detail: "id can not be null"}
	}

	isMember, err := ol.IsMember(id)
	if err != nil {
		return err
	}

	if !isMember {
		return &util.GraphError{Type: util.ErrInvalidArgument, Detail: "id is not a member"}
	}

	if err := ol.checkInsertPosition(i); err != nil {
		return err
	}

	return ol.insertRef(i, NewLazyRef(id, ol.objects))
}

/*
Concat appends all given members in order.
*/
func (ol *OrderedList) Concat(members []data.Node) error {

	refs := make([]*LazyRef, 0, len(members))

	for _, m := range members {
		ref, err := refForMember(m)
		if err != nil {
			return err
		}
		refs = append(refs, ref)
	}

	return ol.concatRefs(refs)
}

/*
ReplaceAll clears the list and appends all given members in order.
*/
func (ol *OrderedList) ReplaceAll(members []data.Node) error {

	refs := make([]*LazyRef, 0, len(members))

	for _, m := range members {
		ref, err := refForMember(m)
		if err != nil {
			return err
		}
		refs = append(refs, ref)
	}

	return ol.replaceAllRefs(refs)
}

/*
replaceAllRefs clears the list and appends all given references in order.
*/
func (ol *OrderedList) replaceAllRefs(refs []*LazyRef) error {

	if err := ol.Clear(); err != nil {
		return err
	}

	return ol.concatRefs(refs)
}

/*
concatRefs appends all given references in order.
*/
func (ol *OrderedList) concatRefs(refs []*LazyRef) error {

	for _, ref := range refs {
		if err := ol.insertRef(len(ol.nodes), ref); err != nil {
			return err
		}
	}

	return nil
}

/*
DeleteAt removes the position at a given index and returns its member
reference. Returns nil if the position does not exist.
*/
func (ol *OrderedList) DeleteAt(i int) (*LazyRef, error) {

	p := ol.Proxy(i)
	if p == nil {
		return nil, nil
	}

	if err := ol.unlink(p); err != nil {
		return nil, err
	}

	return p.target, nil
}

/*
Delete removes every position of a given member. Returns the member if at
least one position was removed, nil otherwise.
*/
func (ol *OrderedList) Delete(member data.Node) (data.Node, error) {

	if member == nil {
		return nil, nil
	}

	found, err := ol.DeleteKey(member.Key())

	if !found || err != nil {
		return nil, err
	}

	return member, nil
}

/*
DeleteKey removes every position of a member given by its key. Returns if a
position was removed. Members are compared by key - nothing is resolved.
*/
func (ol *OrderedList) DeleteKey(key string) (bool, error) {
	var matches []*ProxyNode

	for it := ol.Iterator(); it.HasNext(); {
		if p := it.NextProxy(); p.target.Key() == key {
			matches = append(matches, p)
		}
	}

	for _, p := range matches {
		if err := ol.unlink(p); err != nil {
			return false, err
		}
	}

	return len(matches) > 0, nil
}

/*
RemoveProxies removes exactly the given proxy nodes from the list. All given
proxy nodes must belong to this list.
*/
func (ol *OrderedList) RemoveProxies(proxies []*ProxyNode) error {

	unique := make([]*ProxyNode, 0, len(proxies))
	seen := make(map[string]bool)

	for _, p := range proxies {

		if p == nil {
			return &util.GraphError{Type: util.ErrInvalidArgument, Detail: "proxy can not be null"}
		}

		if p.container != ol.owner || ol.nodes[p.id] != p {
			return &util.GraphError{Type: util.ErrInvalidArgument,
				Detail: fmt.Sprintf("Proxy %v is not part of list %v", p.id, ol.owner)}
		}

		if !seen[p.id] {
			seen[p.id] = true
			unique = append(unique, p)
		}
	}

	for _, p := range unique {
		if err := ol.unlink(p); err != nil {
			return err
		}
	}

	return nil
}

/*
Clear removes all positions of the list. The membership set is kept.
*/
func (ol *OrderedList) Clear() error {

	for p := ol.nodes[ol.head]; p != nil; p = ol.nodes[p.next] {
		if err := ol.removeProxyStatements(p); err != nil {
			return err
		}
	}

	if err := ol.setPointer(RelHasHead, NilMarker); err != nil {
		return err
	}

	if err := ol.setPointer(RelHasTail, NilMarker); err != nil {
		return err
	}

	ol.nodes = make(map[string]*ProxyNode)
	ol.head = ""
	ol.tail = ""
	ol.version++

	return nil
}

// Linkage
// =======

/*
insertRef splices a new proxy node for a given reference in front of the
position i. The position must be valid.
*/
func (ol *OrderedList) insertRef(i int, ref *LazyRef) error {

	var prev, next string

	if i == len(ol.nodes) {
		prev = ol.tail
	} else {
		cur := ol.Proxy(i)
		next = cur.id
		prev = cur.prev
	}

	p := &ProxyNode{NewProxyID(ol.owner), ref, ol.owner, next, prev}

	if err := ol.link(p); err != nil {
		return err
	}

	logger.Debug(fmt.Sprintf("Inserted %v at position %v of %v", ref.Key(), i, ol.owner))

	return nil
}

/*
link persists a new proxy node between its prev and next neighbours and
adds it to the list.
*/
func (ol *OrderedList) link(p *ProxyNode) error {

	err := ol.addStatement(p.id, RelIsProxyIn, ol.owner)

	if err == nil {
		err = ol.addStatement(p.id, RelIsProxyFor, p.target.Key())
	}

	if err == nil {
		err = ol.addStatement(ol.owner, RelHasMember, p.target.Key())
	}

	if err == nil && p.next != "" {
		err = ol.addStatement(p.id, RelPointsToNext, p.next)
	}

	if err == nil {
		if p.prev != "" {
			if p.next != "" {
				err = ol.removeStatement(p.prev, RelPointsToNext, p.next)
			}
			if err == nil {
				err = ol.addStatement(p.prev, RelPointsToNext, p.id)
			}
		} else {
			err = ol.setPointer(RelHasHead, p.id)
		}
	}

	if err == nil && p.next == "" {
		err = ol.setPointer(RelHasTail, p.id)
	}

	if err != nil {
		return err
	}

	// Update the in-memory chain

	ol.nodes[p.id] = p

	if p.prev != "" {
		ol.nodes[p.prev].next = p.id
	} else {
		ol.head = p.id
	}

	if p.next != "" {
		ol.nodes[p.next].prev = p.id
	} else {
		ol.tail = p.id
	}

	ol.version++

	return nil
}

/*
unlink removes a proxy node from the list and connects its neighbours
directly to each other.
*/
func (ol *OrderedList) unlink(p *ProxyNode) error {

	err := ol.removeProxyStatements(p)

	if err == nil {
		if p.prev != "" {
			err = ol.removeStatement(p.prev, RelPointsToNext, p.id)
			if err == nil && p.next != "" {
				err = ol.addStatement(p.prev, RelPointsToNext, p.next)
			}
		} else if p.next != "" {
			err = ol.setPointer(RelHasHead, p.next)
		} else {
			err = ol.setPointer(RelHasHead, NilMarker)
		}
	}

	if err == nil && p.next == "" {
		if p.prev != "" {
			err = ol.setPointer(RelHasTail, p.prev)
		} else {
			err = ol.setPointer(RelHasTail, NilMarker)
		}
	}

	if err != nil {
		return err
	}

	// Update the in-memory chain

	delete(ol.nodes, p.id)

	if p.prev != "" {
		ol.nodes[p.prev].next = p.next
	} else {
		ol.head = p.next
	}

	if p.next != "" {
		ol.nodes[p.next].prev = p.prev
	} else {
		ol.tail = p.prev
	}

	p.next = ""
	p.prev = ""

	ol.version++

	logger.Debug(fmt.Sprintf("Removed %v (%v) from %v", p.id, p.target.Key(), ol.owner))

	return nil
}

/*
removeProxyStatements removes the statements which describe a proxy node.
*/
func (ol *OrderedList) removeProxyStatements(p *ProxyNode) error {

	err := ol.removeStatement(p.id, RelIsProxyFor, p.target.Key())

	if err == nil {
		err = ol.removeStatement(p.id, RelIsProxyIn, ol.owner)
	}

	if err == nil && p.next != "" {
		err = ol.removeStatement(p.id, RelPointsToNext, p.next)
	}

	return err
}

/*
setPointer sets the head or tail pointer of the owner.
*/
func (ol *OrderedList) setPointer(rel string, val string) error {

	old, err := ol.links.ObjectsOf(ol.owner, rel)
	if err != nil {
		return wrapStoreError(util.ErrReading, err)
	}

	for _, o := range old {
		if o != val {
			if err := ol.removeStatement(ol.owner, rel, o); err != nil {
				return err
			}
		}
	}

	return ol.addStatement(ol.owner, rel, val)
}

/*
addStatement adds a statement to the link store.
*/
func (ol *OrderedList) addStatement(subject string, relation string, object string) error {
	if err := ol.links.Add(subject, relation, object); err != nil {
		logger.Error(fmt.Sprintf("Could not update list %v: %v", ol.owner, err))
		return wrapStoreError(util.ErrWriting, err)
	}
	return nil
}

/*
removeStatement removes a statement from the link store.
*/
func (ol *OrderedList) removeStatement(subject string, relation string, object string) error {
	if err := ol.links.Remove(subject, relation, object); err != nil {
		logger.Error(fmt.Sprintf("Could not update list %v: %v", ol.owner, err))
		return wrapStoreError(util.ErrWriting, err)
	}
	return nil
}

/*
checkInsertPosition checks that a given position is a valid insert position.
*/
func (ol *OrderedList) checkInsertPosition(i int) error {
	if i < 0 || i > len(ol.nodes) {
		return &util.GraphError{Type: util.ErrRange,
			Detail: fmt.Sprintf("%v not in [0, %v]", i, len(ol.nodes))}
	}
	return nil
}

/*
refForMember creates a resolved reference for a given member.
*/
func refForMember(member data.Node) (*LazyRef, error) {

	if member == nil || member.Key() == "" {
		return nil, &util.GraphError{Type: util.ErrInvalidArgument, Detail: "id can not be null"}
	}

	return NewResolvedRef(member), nil
}
