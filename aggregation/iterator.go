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

/*
Iterator can be used to walk the positions of an ordered list. The list must
not be modified while it is iterated.
*/
type Iterator struct {
	list    *OrderedList // List which is iterated
	cur     string       // Id of the next proxy node
	reverse bool         // Flag if the list is walked from tail to head
}

/*
HasNext returns if there is a next position.
*/
func (it *Iterator) HasNext() bool {
	_, ok := it.list.nodes[it.cur]
	return ok
}

/*
NextProxy returns the proxy node of the next position or nil if the
iteration has finished.
*/
func (it *Iterator) NextProxy() *ProxyNode {
	p, ok := it.list.nodes[it.cur]
	if !ok {
		return nil
	}

	if it.reverse {
		it.cur = p.prev
	} else {
		it.cur = p.next
	}

	return p
}

/*
Next returns the member reference of the next position or nil if the
iteration has finished. The member is not resolved.
*/
func (it *Iterator) Next() *LazyRef {
	if p := it.NextProxy(); p != nil {
		return p.target
	}
	return nil
}
