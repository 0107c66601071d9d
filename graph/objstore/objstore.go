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
Package objstore contains identifier keyed stores for the members of ordered
aggregations.

Store is the narrow contract which is used to resolve member references. A
load of a non-existing member returns nil and no error. NodeStore keeps gob
encoded members in a named map of a graphstorage.Storage. CachedStore puts
a size and age constrained cache in front of another store.
*/
package objstore

import (
	"devt.de/krotik/common/logutil"
	"devt.de/krotik/proxylist/graph/data"
)

/*
Store models an object store which loads members by their key.
*/
type Store interface {

	/*
		Load loads a member. Returns nil if the member does not exist.
	*/
	Load(key string) (data.Node, error)

	/*
		Exists checks if a member exists.
	*/
	Exists(key string) (bool, error)
}

/*
logger is the logger of this package
*/
var logger = logutil.GetLogger("proxylist.objstore")
