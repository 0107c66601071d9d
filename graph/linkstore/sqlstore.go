/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package linkstore

import (
	"database/sql"
	"fmt"

	"devt.de/krotik/proxylist/graph/util"

	_ "modernc.org/sqlite" // Registers the sqlite driver
)

/*
sqlSchema defines the statement table. Lookups by subject are served by the
primary key, lookups by object by the secondary index.
*/
const sqlSchema = `
CREATE TABLE IF NOT EXISTS statements (
    subject TEXT NOT NULL,
    relation TEXT NOT NULL,
    object TEXT NOT NULL,
    PRIMARY KEY (subject, relation, object)
);

CREATE INDEX IF NOT EXISTS idx_statements_object ON statements(relation, object, subject);
`

/*
SQLStore data structure
*/
type SQLStore struct {
	db   *sql.DB // Database connection
	name string  // Data source name
}

/*
NewSQLStore opens (and creates if necessary) a SQLite database which keeps
the statements. Use ":memory:" as data source name for a memory-only database.
*/
func NewSQLStore(dsn string) (*SQLStore, error) {

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &util.GraphError{Type: util.ErrOpening, Detail: err.Error()}
	}

	// Use a single connection - memory databases are per connection and
	// there is only ever one writer

	db.SetMaxOpenConns(1)

	if _, err = db.Exec(sqlSchema); err != nil {
		db.Close()
		return nil, &util.GraphError{Type: util.ErrOpening, Detail: err.Error()}
	}

	logger.Debug(fmt.Sprint("Opened SQLite link store ", dsn))

	return &SQLStore{db, dsn}, nil
}

/*
Add adds a statement to the store.
*/
func (ss *SQLStore) Add(subject string, relation string, object string) error {

	_, err := ss.db.Exec(`INSERT OR IGNORE INTO statements (subject, relation, object)
VALUES (?, ?, ?)`, subject, relation, object)

	if err != nil {
		logger.Error(fmt.Sprintf("Could not add statement to %v: %v", ss.name, err))
		return &util.GraphError{Type: util.ErrWriting, Detail: err.Error()}
	}

	return nil
}

/*
Remove removes a statement from the store.
*/
func (ss *SQLStore) Remove(subject string, relation string, object string) error {

	_, err := ss.db.Exec(`DELETE FROM statements
WHERE subject = ? AND relation = ? AND object = ?`, subject, relation, object)

	if err != nil {
		logger.Error(fmt.Sprintf("Could not remove statement from %v: %v", ss.name, err))
		return &util.GraphError{Type: util.ErrWriting, Detail: err.Error()}
	}

	return nil
}

/*
Has checks if a statement exists in the store.
*/
func (ss *SQLStore) Has(subject string, relation string, object string) (bool, error) {
	var count int

	err := ss.db.QueryRow(`SELECT COUNT(*) FROM statements
WHERE subject = ? AND relation = ? AND object = ?`, subject, relation, object).Scan(&count)

	if err != nil {
		return false, &util.GraphError{Type: util.ErrReading, Detail: err.Error()}
	}

	return count > 0, nil
}

/*
ObjectsOf returns all objects which a subject points to via a relation.
*/
func (ss *SQLStore) ObjectsOf(subject string, relation string) ([]string, error) {
	return ss.queryStrings(`SELECT object FROM statements
WHERE subject = ? AND relation = ? ORDER BY object`, subject, relation)
}

/*
SubjectsOf returns all subjects which point to an object via a relation.
*/
func (ss *SQLStore) SubjectsOf(relation string, object string) ([]string, error) {
	return ss.queryStrings(`SELECT subject FROM statements
WHERE relation = ? AND object = ? ORDER BY subject`, relation, object)
}

/*
Size returns the number of statements in the store.
*/
func (ss *SQLStore) Size() (int, error) {
	var count int

	if err := ss.db.QueryRow(`SELECT COUNT(*) FROM statements`).Scan(&count); err != nil {
		return 0, &util.GraphError{Type: util.ErrReading, Detail: err.Error()}
	}

	return count, nil
}

/*
Close closes the database.
*/
func (ss *SQLStore) Close() error {
	if err := ss.db.Close(); err != nil {
		return &util.GraphError{Type: util.ErrClosing, Detail: err.Error()}
	}
	return nil
}

/*
queryStrings runs a query which returns a single string column.
*/
func (ss *SQLStore) queryStrings(query string, args ...interface{}) ([]string, error) {
	var ret []string

	rows, err := ss.db.Query(query, args...)
	if err != nil {
		return nil, &util.GraphError{Type: util.ErrReading, Detail: err.Error()}
	}
	defer rows.Close()

	for rows.Next() {
		var s string

		if err := rows.Scan(&s); err != nil {
			return nil, &util.GraphError{Type: util.ErrReading, Detail: err.Error()}
		}

		ret = append(ret, s)
	}

	if err := rows.Err(); err != nil {
		return nil, &util.GraphError{Type: util.ErrReading, Detail: err.Error()}
	}

	return ret, nil
}
