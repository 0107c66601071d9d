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

import "fmt"

/*
ProxyNode models one position of an ordered list. Neighbours are referenced
by id and looked up through the list which owns the node.
*/
type ProxyNode struct {
	id        string   // Unique id of this proxy node
	target    *LazyRef // Member of this position
	container string   // Owner of the list which contains this node
	next      string   // Id of the next proxy node (empty at the tail)
	prev      string   // Id of the previous proxy node (empty at the head)
}

/*
ID returns the id of this proxy node.
*/
func (p *ProxyNode) ID() string {
	return p.id
}

/*
Target returns the member reference of this proxy node.
*/
func (p *ProxyNode) Target() *LazyRef {
	return p.target
}

/*
Container returns the owner of the list which contains this proxy node.
*/
func (p *ProxyNode) Container() string {
	return p.container
}

/*
Next returns the id of the next proxy node or an empty string at the tail.
*/
func (p *ProxyNode) Next() string {
	return p.next
}

/*
Prev returns the id of the previous proxy node or an empty string at the head.
*/
func (p *ProxyNode) Prev() string {
	return p.prev
}

/*
String returns a string representation of this proxy node.
*/
func (p *ProxyNode) String() string {
	return fmt.Sprintf("ProxyNode %v (for: %v in: %v prev: %v next: %v)",
		p.id, p.target.Key(), p.container, p.prev, p.next)
}
