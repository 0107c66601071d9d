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
	"testing"

	"devt.de/krotik/proxylist/graph/data"
	"devt.de/krotik/proxylist/graph/util"
	"github.com/go-playground/assert/v2"
)

func viewKeys(t *testing.T, fv *FilteredView) string {
	nodes, err := fv.Read()
	assert.Equal(t, err, nil)

	var keys []string
	for _, n := range nodes {
		keys = append(keys, n.Key())
	}

	return fmt.Sprint(keys)
}

func TestFilteredViewWrite(t *testing.T) {
	links, objects := newMemoryStores(t, "X:typeA", "Y:typeB", "Z:typeA", "W:typeA", "V:typeB")

	ol, _ := Load("list1", links, objects)
	ol.Concat([]data.Node{member(t, objects, "X"), member(t, objects, "Y"), member(t, objects, "Z")})

	view := ol.Filter(KindPredicate("typeA"))
	assert.Equal(t, view.Source() == ol, true)
	assert.Equal(t, viewKeys(t, view), "[X Z]")

	size, err := view.Size()
	assert.Equal(t, err, nil)
	assert.Equal(t, size, 2)

	// Invalid members leave the source untouched

	err = view.Write([]data.Node{member(t, objects, "W"), member(t, objects, "V")})
	assert.Equal(t, util.IsType(err, util.ErrTypeMismatch), true)

	err = view.Write([]data.Node{nil})
	assert.Equal(t, util.IsType(err, util.ErrInvalidArgument), true)

	assert.Equal(t, ids(ol), "[X Y Z]")

	// Write replaces the matching members - Y keeps its position among the
	// remaining members

	assert.Equal(t, view.Write([]data.Node{member(t, objects, "W")}), nil)

	assert.Equal(t, ids(ol), "[Y W]")
	assert.Equal(t, viewKeys(t, view), "[W]")
	checkSymmetry(t, ol)

	// The source is persisted

	ol2, _ := Load("list1", links, objects)
	assert.Equal(t, ids(ol2), "[Y W]")

	// Writing an empty list removes all matching members

	assert.Equal(t, view.Write(nil), nil)
	assert.Equal(t, ids(ol), "[Y]")
	assert.Equal(t, viewKeys(t, view), "[]")
}

func TestFilteredViewAppendDelete(t *testing.T) {
	links, objects := newMemoryStores(t, "X:typeA", "Y:typeB", "Z:typeA")

	ol, _ := Load("list1", links, objects)

	viewA := ol.Filter(KindPredicate("typeA"))
	viewB := ol.Filter(KindPredicate("typeB"))

	assert.Equal(t, viewA.Append(member(t, objects, "X")), nil)
	assert.Equal(t, viewB.Append(member(t, objects, "Y")), nil)
	assert.Equal(t, viewA.Append(member(t, objects, "Z")), nil)
	assert.Equal(t, viewA.Append(member(t, objects, "X")), nil)

	err := viewA.Append(member(t, objects, "Y"))
	assert.Equal(t, util.IsType(err, util.ErrTypeMismatch), true)
	assert.Equal(t, err.Error(), "GraphError: Type mismatch (Member Y does not match the filter of list1)")

	assert.Equal(t, ids(ol), "[X Y Z X]")
	assert.Equal(t, viewKeys(t, viewA), "[X Z X]")
	assert.Equal(t, viewKeys(t, viewB), "[Y]")
	assert.Equal(t, fmt.Sprint(viewA), "FilteredView list1 [X Z X]")

	// Views follow changes of the source

	ol.DeleteAt(0)
	assert.Equal(t, viewKeys(t, viewA), "[Z X]")

	refs, err := viewA.Refs()
	assert.Equal(t, err, nil)
	assert.Equal(t, len(refs), 2)

	// Delete

	_, err = viewB.Delete(member(t, objects, "X"))
	assert.Equal(t, util.IsType(err, util.ErrTypeMismatch), true)

	res, err := viewA.Delete(member(t, objects, "X"))
	assert.Equal(t, err, nil)
	assert.Equal(t, res.Key(), "X")

	res, err = viewA.Delete(member(t, objects, "X"))
	assert.Equal(t, err, nil)
	assert.Equal(t, res == nil, true)

	assert.Equal(t, ids(ol), "[Y Z]")
	assert.Equal(t, viewKeys(t, viewB), "[Y]")

	size, _ := viewA.Size()
	assert.Equal(t, size, 1)
}

func TestFilteredViewResolveError(t *testing.T) {
	links, objects := newMemoryStores(t, "X:typeA")

	ol, _ := Load("list1", links, objects)
	ol.AppendRef(NewLazyRef("missing", objects))

	view := ol.Filter(KindPredicate("typeA"))

	_, err := view.Read()
	assert.Equal(t, util.IsType(err, util.ErrNotFound), true)

	_, err = view.Size()
	assert.Equal(t, util.IsType(err, util.ErrNotFound), true)

	_, err = view.Refs()
	assert.Equal(t, util.IsType(err, util.ErrNotFound), true)

	err = view.Write([]data.Node{member(t, objects, "X")})
	assert.Equal(t, util.IsType(err, util.ErrNotFound), true)
	assert.Equal(t, ids(ol), "[missing]")

	assert.Equal(t, fmt.Sprint(view), "FilteredView list1 (error: GraphError: Object not found (missing))")
}

func TestScriptPredicate(t *testing.T) {
	links, objects := newMemoryStores(t, "X:typeA", "Y:typeB", "Z:typeA")

	m := data.NewMember("Q", "typeA")
	m.SetAttr("color", "red")
	assert.Equal(t, objects.Store(m), nil)

	ol, _ := Load("list1", links, objects)
	for _, k := range []string{"X", "Y", "Q", "Z"} {
		ol.Append(member(t, objects, k))
	}

	p, err := ScriptPredicate(`member.kind == "typeA"`)
	assert.Equal(t, err, nil)
	assert.Equal(t, viewKeys(t, ol.Filter(p)), "[X Q Z]")

	p, err = ScriptPredicate(`member.kind == "typeA" and member.color == "red"`)
	assert.Equal(t, err, nil)
	assert.Equal(t, viewKeys(t, ol.Filter(p)), "[Q]")
	assert.Equal(t, p(nil), false)

	// Non-boolean results do not match

	p, err = ScriptPredicate(`member.kind`)
	assert.Equal(t, err, nil)
	assert.Equal(t, viewKeys(t, ol.Filter(p)), "[]")

	_, err = ScriptPredicate(`member.kind ==`)
	assert.Equal(t, util.IsType(err, util.ErrInvalidArgument), true)

	// Kind predicates

	kp := KindPredicate("typeA", "typeB")
	assert.Equal(t, kp(member(t, objects, "Y")), true)
	assert.Equal(t, kp(nil), false)
	assert.Equal(t, KindPredicate()(member(t, objects, "Y")), false)
}
