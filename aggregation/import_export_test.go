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
	"bytes"
	"encoding/json"
	"testing"

	"devt.de/krotik/proxylist/graph/data"
	"devt.de/krotik/proxylist/graph/util"
	"github.com/go-playground/assert/v2"
)

func TestExportImport(t *testing.T) {
	var buf bytes.Buffer

	links, objects := newMemoryStores(t, "a", "b", "c")

	ol, _ := Load("list1", links, objects)

	// Export an empty list

	assert.Equal(t, ExportList(&buf, ol), nil)
	assert.Equal(t, buf.String(), `{
  "owner": "list1",
  "head": "nil:",
  "tail": "nil:",
  "proxies": []
}`)

	ol.Concat([]data.Node{member(t, objects, "a"), member(t, objects, "b"), member(t, objects, "a")})

	buf.Reset()
	assert.Equal(t, ExportList(&buf, ol), nil)

	var dump ListDump
	assert.Equal(t, json.Unmarshal(buf.Bytes(), &dump), nil)
	assert.Equal(t, dump.Owner, "list1")
	assert.Equal(t, dump.Head, ol.Head().ID())
	assert.Equal(t, dump.Tail, ol.Tail().ID())
	assert.Equal(t, len(dump.Proxies), 3)
	assert.Equal(t, dump.Proxies[0].Next, dump.Proxies[1].ID)
	assert.Equal(t, dump.Proxies[2].Next, "")

	// Import into another list which already has content

	other, _ := Load("list2", links, objects)
	other.Append(member(t, objects, "c"))

	assert.Equal(t, ImportList(bytes.NewReader(buf.Bytes()), other), nil)
	assert.Equal(t, ids(other), "[a b a]")
	assert.Equal(t, other.Proxy(0).ID() != ol.Proxy(0).ID(), true)
	assert.Equal(t, other.First().Resolved(), false)
	checkSymmetry(t, other)

	reloaded, _ := Load("list2", links, objects)
	assert.Equal(t, ids(reloaded), "[a b a]")

	// The order of the proxy records does not matter

	dump.Proxies[0], dump.Proxies[2] = dump.Proxies[2], dump.Proxies[0]
	shuffled, _ := json.Marshal(dump)

	assert.Equal(t, ImportList(bytes.NewReader(shuffled), other), nil)
	assert.Equal(t, ids(other), "[a b a]")

	// Import an empty list

	assert.Equal(t, ImportList(bytes.NewBufferString(`{"owner":"x","head":"nil:","tail":"nil:","proxies":[]}`), other), nil)
	assert.Equal(t, other.Size(), 0)
}

func TestImportErrors(t *testing.T) {
	links, objects := newMemoryStores(t, "a")

	ol, _ := Load("list1", links, objects)
	ol.Append(member(t, objects, "a"))

	for _, in := range []string{
		`{"owner":"x", "proxies": [`,
		`{"owner":"x","head":"p1","tail":"p1","proxies":[{"id":"p1"}]}`,
		`{"owner":"x","head":"p1","tail":"p2","proxies":[{"id":"p1","target":"a","next":"p2"}]}`,
		`{"owner":"x","head":"p1","tail":"p2","proxies":[{"id":"p1","target":"a","next":"p2"},` +
			`{"id":"p2","target":"a","next":"p1"}]}`,
		`{"owner":"x","head":"p1","tail":"p1","proxies":[{"id":"p1","target":"a"},` +
			`{"id":"p2","target":"a"}]}`,
		`{"owner":"x","head":"p1","tail":"nil:","proxies":[{"id":"p1","target":"a"}]}`,
	} {
		err := ImportList(bytes.NewBufferString(in), ol)
		assert.Equal(t, util.IsType(err, util.ErrInvalidData), true)
	}

	// Failed imports do not change the list

	assert.Equal(t, ids(ol), "[a]")
}
