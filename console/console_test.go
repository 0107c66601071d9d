/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package console

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"devt.de/krotik/common/fileutil"
	"devt.de/krotik/proxylist/aggregation"
	"devt.de/krotik/proxylist/config"
	"devt.de/krotik/proxylist/graph/graphstorage"
	"devt.de/krotik/proxylist/graph/linkstore"
	"devt.de/krotik/proxylist/graph/objstore"
	"devt.de/krotik/proxylist/server"
)

const consoleTestDir = "consoletest"

func TestMain(m *testing.M) {
	flag.Parse()

	cleanup := func() {
		if res, _ := fileutil.PathExists(consoleTestDir); res {
			if err := os.RemoveAll(consoleTestDir); err != nil {
				fmt.Print("Could not remove test directory:", err.Error())
			}
		}
	}

	cleanup()

	os.Mkdir(consoleTestDir, 0770)

	res := m.Run()

	cleanup()

	os.Exit(res)
}

/*
newTestConsole creates a console which works on memory only stores.
*/
func newTestConsole(out *bytes.Buffer) *ListConsole {
	gs := graphstorage.NewMemoryGraphStorage("consoletest")

	links, _ := linkstore.NewMapStore(gs, linkstore.DefaultMapName, false)
	nodes := objstore.NewNodeStore(gs, objstore.DefaultMapName, false)
	objects := objstore.NewCachedStore(nodes, 10, 0)

	env := &server.Environment{Storage: gs, Links: links, Nodes: nodes, Objects: objects,
		Manager: aggregation.NewManager(links, objects)}

	return NewConsole(env.Manager, env, out)
}

/*
runCommands runs a list of commands and returns the output.
*/
func runCommands(c CommandConsole, out *bytes.Buffer, cmds ...string) (string, error) {
	out.Reset()

	for _, cmd := range cmds {
		if ok, err := c.Run(cmd); !ok || err != nil {
			return out.String(), err
		}
	}

	return out.String(), nil
}

func TestListCommands(t *testing.T) {
	var out bytes.Buffer

	c := newTestConsole(&out)

	if res, err := runCommands(c, &out,
		"store a book name=Alpha",
		"store b book name=Beta",
		"store c film name=Gamma; ver",
		"append l1 a b c a",
		"append l2 c"); err != nil || res != `
Stored member a
Stored member b
Stored member c
ProxyList `[1:]+config.ProductVersion+`
Appended 4 members to l1
Appended 1 member to l2
` {
		t.Error("Unexpected result:", res, err)
		return
	}

	if res, err := runCommands(c, &out, "show l1"); err != nil || res != `
Pos Key Kind Name
0   a   book Alpha
1   b   book Beta
2   c   film Gamma
3   a   book Alpha
`[1:] {
		t.Error("Unexpected result:", res, err)
		return
	}

	if res := c.ExportBuffer().String(); res != `
Pos, Key, Kind, Name
0, a, book, Alpha
1, b, book, Beta
2, c, film, Gamma
3, a, book, Alpha
`[1:] {
		t.Error("Unexpected result:", res)
		return
	}

	if res, err := runCommands(c, &out, `show l1 member.kind == "film"`); err != nil || res != `
Pos Key Kind Name
0   c   film Gamma
`[1:] {
		t.Error("Unexpected result:", res, err)
		return
	}

	if res, err := runCommands(c, &out,
		"insert l1 1 c",
		"delete-at l1 1",
		"delete-at l1 9",
		"delete-at l1 -1",
		"delete-at l1 abc",
		"delete l1 a",
		"delete l1 a"); err != nil || res != `
Inserted c at position 1 of l1
Deleted c at position 1 of l1
No entry at position 9 of l1
No entry at position -1 of l1
No entry at position abc of l1
Deleted all entries of a from l1
a is not part of l1
`[1:] {
		t.Error("Unexpected result:", res, err)
		return
	}

	if res, err := runCommands(c, &out, "lookup c", "members l1"); err != nil || res != `
Owner Size
l1    2
l2    1
Member
a
b
c
`[1:] {
		t.Error("Unexpected result:", res, err)
		return
	}

	// Export and import

	exportFile := filepath.Join(consoleTestDir, "l1.json")

	if res, err := runCommands(c, &out,
		"export l1 "+exportFile,
		"import l3 "+exportFile,
		"clear l1"); err != nil || res != `
Exported l1 to `[1:]+exportFile+`
Imported 2 positions into l3
Cleared l1
` {
		t.Error("Unexpected result:", res, err)
		return
	}

	if _, err := runCommands(c, &out, "export l3"); err != nil ||
		!strings.Contains(c.ExportBuffer().String(), `"owner": "l3"`) {
		t.Error("Unexpected result:", c.ExportBuffer().String(), err)
		return
	}

	// CSV output

	c.CSV = true

	if res, err := runCommands(c, &out, "show l3", "show l1"); err != nil || res != `
Pos, Key, Kind, Name
0, b, book, Beta
1, c, film, Gamma
Pos, Key, Kind, Name
`[1:] {
		t.Error("Unexpected result:", res, err)
		return
	}
}

func TestCommandErrors(t *testing.T) {
	var out bytes.Buffer

	c := newTestConsole(&out)

	runCommands(c, &out, "store a book", "append l1 a")

	for cmd, expected := range map[string]string{
		"foo":                "Unknown command: foo",
		"help foo":           "Unknown command: foo",
		"store a":            "Usage: store <key> <kind> [<name>=<value>...]",
		"store a b c":        "Invalid attribute: c",
		"store a b =c":       "Invalid attribute: =c",
		"append l1":          "Usage: append <owner> <key>...",
		"append l1 zz":       "Unknown member: zz",
		"insert l1 x a":      "Invalid position: x",
		"insert l1 5 a":      "GraphError: Index out of range (5 not in [0, 1])",
		"insert l1 0 zz":     "Unknown member: zz",
		"delete-at l1":       "Usage: delete-at <owner> <pos>",
		"delete l1":          "Usage: delete <owner> <key>",
		"remove":             "Usage: remove <key>",
		"remove zz":          "Unknown member: zz",
		"remove a":           "Member a is still part of l1",
		"clear":              "Usage: clear <owner>",
		"show":               "Usage: show <owner> [<filter expression>]",
		"members":            "Usage: members <owner>",
		"lookup":             "Usage: lookup <key>",
		"export":             "Usage: export <owner> [<file>]",
		"import l1":          "Usage: import <owner> <file>",
		"import l1 nofile":   "open nofile: no such file or directory",
		"show l1 member. ==": "",
	} {
		_, err := runCommands(c, &out, cmd)

		if err == nil {
			t.Error("Command should fail:", cmd)
			return
		}

		if expected != "" && err.Error() != expected {
			t.Error("Unexpected result:", cmd, err)
			return
		}
	}

	// Removed members can not be inserted again even if they were cached

	if res, err := runCommands(c, &out,
		"store x book",
		"append l9 x",
		"show l9",
		"delete l9 x",
		"remove x"); err != nil || !strings.HasSuffix(res, `
Deleted all entries of x from l9
Removed member x
`) {
		t.Error("Unexpected result:", res, err)
		return
	}

	if _, err := runCommands(c, &out, "insert l9 0 x"); err == nil ||
		err.Error() != "Unknown member: x" {
		t.Error("Unexpected result:", err)
		return
	}

	// Members which are gone from the object store can still be deleted

	runCommands(c, &out, "append l1 a")

	c.manager = aggregation.NewManager(c.manager.Links(), objstore.NewNodeStore(
		graphstorage.NewMemoryGraphStorage("empty"), objstore.DefaultMapName, false))

	if res, err := runCommands(c, &out, "delete l1 a"); err != nil || res != `
Deleted all entries of a from l1
`[1:] {
		t.Error("Unexpected result:", res, err)
		return
	}

	// Empty commands are ignored

	if ok, err := c.Run(" "); !ok || err != nil {
		t.Error("Unexpected result:", ok, err)
		return
	}
}

func TestHelp(t *testing.T) {
	var out bytes.Buffer

	c := newTestConsole(&out)

	for _, cmd := range c.Commands() {
		if ok, err := c.Run("help " + cmd.Name()); !ok || err != nil {
			t.Error(ok, err)
			return
		}
	}

	if res := out.String(); !strings.HasPrefix(res, `
Appends members to a list. Specify the owner of the list and one or more member keys.
Removes all positions of a list. The members of the list are kept.
`[1:]) {
		t.Error("Unexpected result:", res)
		return
	}

	if res, err := runCommands(c, &out, "?"); err != nil || !strings.HasPrefix(res, `
Command   Description
append    Appends members to a list.
clear     Removes all positions of a list.
delete    Removes all positions of a member from a list.
delete-at Removes a position of a list.
`[1:]) {
		t.Error("Unexpected result:", res, err)
		return
	}
}
