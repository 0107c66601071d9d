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
Predicate decides if a member belongs to a filtered view.
*/
type Predicate func(member data.Node) bool

/*
FilteredView is a projection of an ordered list which only contains the
members satisfying a predicate. The view has no state of its own - the
matching positions are cached until the source list changes.
*/
type FilteredView struct {
	source       *OrderedList // List which is projected
	predicate    Predicate    // Filter predicate
	matches      []*ProxyNode // Cached matching positions
	cacheVersion uint64       // Version of the source list when the cache was built
	cached       bool         // Flag if the cache is valid
}

/*
Filter returns a filtered view of this list.
*/
func (ol *OrderedList) Filter(predicate Predicate) *FilteredView {
	return &FilteredView{ol, predicate, nil, 0, false}
}

/*
Source returns the list which is projected by this view.
*/
func (fv *FilteredView) Source() *OrderedList {
	return fv.source
}

/*
Read returns all members of the source list which satisfy the predicate in
order.
*/
func (fv *FilteredView) Read() ([]data.Node, error) {

	matches, err := fv.matchingProxies()
	if err != nil {
		return nil, err
	}

	ret := make([]data.Node, 0, len(matches))

	for _, p := range matches {

		// Members of matching positions are already resolved

		node, _ := p.target.Resolve()
		ret = append(ret, node)
	}

	return ret, nil
}

/*
Refs returns the references of all members of the source list which satisfy
the predicate in order.
*/
func (fv *FilteredView) Refs() ([]*LazyRef, error) {

	matches, err := fv.matchingProxies()
	if err != nil {
		return nil, err
	}

	ret := make([]*LazyRef, 0, len(matches))

	for _, p := range matches {
		ret = append(ret, p.target)
	}

	return ret, nil
}

/*
Size returns the number of members of the source list which satisfy the
predicate.
*/
func (fv *FilteredView) Size() (int, error) {

	matches, err := fv.matchingProxies()
	if err != nil {
		return 0, err
	}

	return len(matches), nil
}

/*
Write replaces all members of the view with the given members. Matching
positions are removed from the source list and the new members are appended
to it. Positions which do not satisfy the predicate keep their relative
order. All given members must satisfy the predicate otherwise the source list
is not modified.
*/
func (fv *FilteredView) Write(members []data.Node) error {

	for _, m := range members {
		if err := fv.checkMember(m); err != nil {
			return err
		}
	}

	matches, err := fv.matchingProxies()
	if err != nil {
		return err
	}

	if err := fv.source.RemoveProxies(matches); err != nil {
		return err
	}

	return fv.source.Concat(members)
}

/*
Append adds a member to the end of the source list. The member must satisfy
the predicate.
*/
func (fv *FilteredView) Append(member data.Node) error {

	if err := fv.checkMember(member); err != nil {
		return err
	}

	return fv.source.Append(member)
}

/*
Delete removes every position of a member from the source list. The member
must satisfy the predicate. Returns nil if the member was not found.
*/
func (fv *FilteredView) Delete(member data.Node) (data.Node, error) {

	if err := fv.checkMember(member); err != nil {
		return nil, err
	}

	return fv.source.Delete(member)
}

/*
String returns a string representation of this view.
*/
func (fv *FilteredView) String() string {
	refs, err := fv.Refs()
	if err != nil {
		return fmt.Sprintf("FilteredView %v (error: %v)", fv.source.owner, err)
	}

	keys := make([]string, len(refs))
	for i, r := range refs {
		keys[i] = r.Key()
	}

	return fmt.Sprintf("FilteredView %v %v", fv.source.owner, keys)
}

/*
checkMember checks that a given member can be part of this view.
*/
func (fv *FilteredView) checkMember(member data.Node) error {

	if member == nil || member.Key() == "" {
		return &util.GraphError{Type: util.ErrInvalidArgument, Detail: "id can not be null"}
	}

	if !fv.predicate(member) {
		return &util.GraphError{Type: util.ErrTypeMismatch,
			Detail: fmt.Sprintf("Member %v does not match the filter of %v", member.Key(), fv.source.owner)}
	}

	return nil
}

/*
matchingProxies returns all positions of the source list whose member
satisfies the predicate. The result is cached until the source list changes.
*/
func (fv *FilteredView) matchingProxies() ([]*ProxyNode, error) {

	if fv.cached && fv.cacheVersion == fv.source.version {
		return fv.matches, nil
	}

	var matches []*ProxyNode

	for it := fv.source.Iterator(); it.HasNext(); {
		p := it.NextProxy()

		node, err := p.target.Resolve()
		if err != nil {
			return nil, err
		}

		if fv.predicate(node) {
			matches = append(matches, p)
		}
	}

	fv.matches = matches
	fv.cacheVersion = fv.source.version
	fv.cached = true

	return matches, nil
}
