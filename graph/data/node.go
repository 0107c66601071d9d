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
Package data contains classes and functions to handle the members of an
ordered aggregation.

Members are nodes which are stored in an object store. The graphNode object is
the minimal implementation of the Node interface and represents a simple node.
Nodes have attributes which may or may not be presentable as a string. Setting
a nil value to an attribute is equivalent to removing the attribute. Every
member is identified by its key. The kind of a member is used to classify it.
*/
package data

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
)

/*
Node models a member which can be referenced by an ordered aggregation.
*/
type Node interface {

	/*
	   Key returns a potentially non human-readable unique key for this node.
	*/
	Key() string

	/*
	   Name returns a human-readable name for this node.
	*/
	Name() string

	/*
	   Kind returns a human-readable kind for this node.
	*/
	Kind() string

	/*
		Data returns the node data of this node.
	*/
	Data() map[string]interface{}

	/*
		Attr returns an attribute of this node.
	*/
	Attr(attr string) interface{}

	/*
		SetAttr sets an attribute of this node. Setting a nil
		value removes the attribute.
	*/
	SetAttr(attr string, val interface{})

	/*
	   String returns a string representation of this node.
	*/
	String() string
}

/*
NodeKey is the key attribute for a node
*/
const NodeKey = "key"

/*
NodeName is the name attribute for a node
*/
const NodeName = "name"

/*
NodeKind is the kind attribute for a node
*/
const NodeKind = "kind"

/*
graphNode data structure.
*/
type graphNode struct {
	data map[string]interface{} // Data which is held by this node
}

/*
NewGraphNode creates a new Node instance.
*/
func NewGraphNode() Node {
	return &graphNode{make(map[string]interface{})}
}

/*
NewGraphNodeFromMap creates a new Node instance.
*/
func NewGraphNodeFromMap(data map[string]interface{}) Node {
	return &graphNode{data}
}

/*
NewMember creates a new Node instance with a given key and kind.
*/
func NewMember(key string, kind string) Node {
	return &graphNode{map[string]interface{}{
		NodeKey:  key,
		NodeKind: kind,
	}}
}

/*
CopyNode returns a shallow copy of a given node.
*/
func CopyNode(node Node) Node {
	data := make(map[string]interface{}, len(node.Data()))
	for k, v := range node.Data() {
		data[k] = v
	}
	return &graphNode{data}
}

/*
Key returns a potentially non human-readable unique key for this node.
*/
func (gn *graphNode) Key() string {
	return gn.stringAttr(NodeKey)
}

/*
Kind returns a human-readable kind for this node.
*/
func (gn *graphNode) Kind() string {
	return gn.stringAttr(NodeKind)
}

/*
Data returns the node data of this node.
*/
func (gn *graphNode) Data() map[string]interface{} {
	return gn.data
}

/*
Name returns a human-readable name for this node.
*/
func (gn *graphNode) Name() string {
	return gn.stringAttr(NodeName)
}

/*
Attr returns an attribute of this node.
*/
func (gn *graphNode) Attr(attr string) interface{} {
	return gn.data[attr]
}

/*
SetAttr sets an attribute of this node. Setting a nil
value removes the attribute.
*/
func (gn *graphNode) SetAttr(attr string, val interface{}) {
	if val != nil {
		gn.data[attr] = val
	} else {
		delete(gn.data, attr)
	}
}

/*
stringAttr returns the value of an attribute as a string. Or an
empty string if it can't be represented as a string.
*/
func (gn *graphNode) stringAttr(attr string) string {
	val, found := gn.data[attr]

	if st, ok := val.(string); found && ok {
		return st
	} else if st, ok := val.(fmt.Stringer); found && ok {
		return st.String()
	}

	return ""
}

/*
String returns a string representation of this node.
*/
func (gn *graphNode) String() string {
	var buf bytes.Buffer
	attrlist := make([]string, 0, len(gn.data))
	maxlen := len(NodeKind)

	for attr := range gn.data {
		if attr == NodeKey || attr == NodeKind {
			continue
		}
		attrlist = append(attrlist, attr)
		if alen := len(attr); alen > maxlen {
			maxlen = alen
		}
	}

	sort.Strings(attrlist)

	format := "    %" + strconv.Itoa(maxlen) + "v : %v\n"

	buf.WriteString("GraphNode:\n")
	buf.WriteString(fmt.Sprintf(format, NodeKey, gn.Key()))
	buf.WriteString(fmt.Sprintf(format, NodeKind, gn.Kind()))

	for _, attr := range attrlist {
		buf.WriteString(fmt.Sprintf(format, attr, gn.data[attr]))
	}

	return buf.String()
}
