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
Package linkstore contains statement oriented stores which hold the links of
ordered aggregations.

A statement is a (subject, relation, object) triple. A store can add and
remove statements and answer the two basic questions of a graph: "what does
X point to via a relation" (ObjectsOf) and "who points to X via a relation"
(SubjectsOf). Results are always sorted so traversals are deterministic.

MapStore

Keeps its statements in a named map of a graphstorage.Storage and maintains
lookup indices in memory. Depending on the storage the statements are kept in
memory only or persisted on disk.

SQLStore

Keeps its statements in a SQLite table.
*/
package linkstore

import (
	"strings"

	"devt.de/krotik/common/logutil"
)

/*
Store models a statement oriented store.
*/
type Store interface {

	/*
		Add adds a statement to the store. Adding an existing statement has no effect.
	*/
	Add(subject string, relation string, object string) error

	/*
		Remove removes a statement from the store. Removing a non-existing
		statement has no effect.
	*/
	Remove(subject string, relation string, object string) error

	/*
		Has checks if a statement exists in the store.
	*/
	Has(subject string, relation string, object string) (bool, error)

	/*
		ObjectsOf returns all objects which a subject points to via a relation.
	*/
	ObjectsOf(subject string, relation string) ([]string, error)

	/*
		SubjectsOf returns all subjects which point to an object via a relation.
	*/
	SubjectsOf(relation string, object string) ([]string, error)

	/*
		Close closes the store.
	*/
	Close() error
}

/*
Statement is a single (subject, relation, object) triple.
*/
type Statement struct {
	Subject  string
	Relation string
	Object   string
}

/*
String returns a string representation of this statement.
*/
func (s Statement) String() string {
	return "<" + s.Subject + "> <" + s.Relation + "> <" + s.Object + ">"
}

/*
PrefixStatement is the prefix for statement entries in a storage map
*/
const PrefixStatement = "\x01"

/*
statementSeparator separates the parts of an encoded statement
*/
const statementSeparator = "\x00"

/*
encodeStatement encodes a statement as a storage map key.
*/
func encodeStatement(subject string, relation string, object string) string {
	return PrefixStatement + subject + statementSeparator + relation +
		statementSeparator + object
}

/*
decodeStatement decodes a storage map key. Returns false if the key is not a
valid statement.
*/
func decodeStatement(key string) (Statement, bool) {

	if !strings.HasPrefix(key, PrefixStatement) {
		return Statement{}, false
	}

	parts := strings.SplitN(key[len(PrefixStatement):], statementSeparator, 3)
	if len(parts) != 3 {
		return Statement{}, false
	}

	return Statement{parts[0], parts[1], parts[2]}, true
}

/*
logger is the logger of this package
*/
var logger = logutil.GetLogger("proxylist.linkstore")
