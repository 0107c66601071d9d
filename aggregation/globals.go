/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package aggregation contains ordered aggregations of member references which
are persisted as statements in a link store.

OrderedList

An ordered list is a doubly linked chain of proxy nodes. Each proxy node
stands for one position of the list and points to its member. Duplicate
members are allowed - the same member can occupy several positions. The list
belongs to an owner and is persisted with the following statements:

	proxy  is-proxy-for   member     (the member of a position)
	proxy  is-proxy-in    owner      (the container of a proxy)
	proxy  points-to-next proxy      (the next position - absent at the tail)
	owner  has-head       proxy|nil: (the first position)
	owner  has-tail       proxy|nil: (the last position)
	owner  has-member     member     (the membership set of the owner)

Only next links are stored - previous links are reconstructed when a list is
loaded. Members are referenced through lazy references which only load a
member from the object store when its data is requested. Mutating a list
never resolves members which are already part of the list.

Filtered view

A filtered view presents the members of a list which satisfy a predicate as
an ordered list of its own. Writes to a view are mapped onto the source list.

Manager

The manager keeps track of opened lists and provides reverse lookups: all
lists which contain a certain member are found via "who points to X" queries
of the link store.

Lists are not safe for concurrent mutation. Each list must only be mutated by
one caller at a time.
*/
package aggregation

import (
	"devt.de/krotik/common/logutil"
	"github.com/oklog/ulid/v2"
)

// Relations
// =========

/*
RelPointsToNext links a proxy node to the next proxy node of a list
*/
const RelPointsToNext = "points-to-next"

/*
RelIsProxyFor links a proxy node to its member
*/
const RelIsProxyFor = "is-proxy-for"

/*
RelIsProxyIn links a proxy node to the owner of its list
*/
const RelIsProxyIn = "is-proxy-in"

/*
RelHasHead links an owner to the first proxy node of its list
*/
const RelHasHead = "has-head"

/*
RelHasTail links an owner to the last proxy node of its list
*/
const RelHasTail = "has-tail"

/*
RelHasMember links an owner to the members of its membership set
*/
const RelHasMember = "has-member"

/*
NilMarker is stored as head and tail of an empty list
*/
const NilMarker = "nil:"

/*
ProxyIDSeparator separates the owner from the unique part of a proxy node id
*/
const ProxyIDSeparator = "#"

/*
NewProxyID returns a new unique proxy node id for a given owner.
*/
var NewProxyID = func(owner string) string {
	return owner + ProxyIDSeparator + ulid.Make().String()
}

/*
logger is the logger of this package
*/
var logger = logutil.GetLogger("proxylist.aggregation")
