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
Package util contains utility classes for the graph based persistence of
ordered aggregations.

GraphError

Models a graph related error. Low-level errors should be wrapped in a GraphError
before they are returned to a client. Clients should compare the Type of a
GraphError with the error types of this package:

	if gerr, ok := err.(*util.GraphError); ok && gerr.Type == util.ErrRange {
		...
	}
*/
package util

import (
	"errors"
	"fmt"
)

/*
GraphError is a graph related error
*/
type GraphError struct {
	Type   error  // Error type (to be used for equal checks)
	Detail string // Details of this error
}

/*
Error returns a human-readable string representation of this error.
*/
func (ge *GraphError) Error() string {
	if ge.Detail != "" {
		return fmt.Sprintf("GraphError: %v (%v)", ge.Type, ge.Detail)
	}

	return fmt.Sprintf("GraphError: %v", ge.Type)
}

/*
Unwrap returns the error type so errors.Is can be used on a GraphError.
*/
func (ge *GraphError) Unwrap() error {
	return ge.Type
}

/*
IsType checks if a given error is a GraphError of a certain type.
*/
func IsType(err error, errType error) bool {
	ge, ok := err.(*GraphError)
	return ok && ge.Type == errType
}

/*
Graph storage related error types
*/
var (
	ErrOpening  = errors.New("Failed to open graph storage")
	ErrFlushing = errors.New("Failed to flush changes")
	ErrRollback = errors.New("Failed to rollback changes")
	ErrClosing  = errors.New("Failed to close graph storage")
	ErrReadOnly = errors.New("Failed write to readonly storage")
)

/*
Graph related error types
*/
var (
	ErrInvalidData = errors.New("Invalid data")
	ErrReading     = errors.New("Could not read graph information")
	ErrWriting     = errors.New("Could not write graph information")
)

/*
Ordered list related error types
*/
var (
	ErrRange           = errors.New("Index out of range")
	ErrInvalidArgument = errors.New("Invalid argument")
	ErrTypeMismatch    = errors.New("Type mismatch")
	ErrNotFound        = errors.New("Object not found")
)
