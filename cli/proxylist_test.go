/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"devt.de/krotik/proxylist/aggregation"
	"devt.de/krotik/proxylist/console"
	"devt.de/krotik/proxylist/graph/graphstorage"
	"devt.de/krotik/proxylist/graph/linkstore"
	"devt.de/krotik/proxylist/graph/objstore"
	"devt.de/krotik/proxylist/server"
	"github.com/docopt/docopt-go"
)

func TestCommandArgs(t *testing.T) {

	for args, expected := range map[string]string{
		"store a book name=Alpha pages=10": "[store a book name=Alpha pages=10]",
		"remove a":                         "[remove a]",
		"append l1 a b c --csv":            "[append l1 a b c]",
		"insert l1 2 a":                    "[insert l1 2 a]",
		"delete-at l1 0":                   "[delete-at l1 0]",
		"delete l1 a":                      "[delete l1 a]",
		"show l1":                          "[show l1]",
		"show l1 member.kind=='book'":      "[show l1 member.kind=='book']",
		"export l1":                        "[export l1]",
		"import l1 l1.json":                "[import l1 l1.json]",
		"lookup a --config=my.json":        "[lookup a]",
		"console":                          "[]",
	} {
		opts, err := docopt.ParseArgs(usage, strings.Fields(args), "")
		if err != nil {
			t.Error(err)
			return
		}

		if res := fmt.Sprint(commandArgs(opts)); res != expected {
			t.Error("Unexpected result:", args, res)
			return
		}
	}

	opts, _ := docopt.ParseArgs(usage, []string{"lookup", "a", "--config=my.json", "--csv"}, "")

	if res, _ := opts.String("--config"); res != "my.json" {
		t.Error("Unexpected result:", res)
		return
	}

	if res, _ := opts.Bool("--csv"); !res {
		t.Error("Unexpected result:", res)
		return
	}
}

func TestConsoleLoop(t *testing.T) {
	var out bytes.Buffer

	gs := graphstorage.NewMemoryGraphStorage("clitest")
	links, _ := linkstore.NewMapStore(gs, linkstore.DefaultMapName, false)
	nodes := objstore.NewNodeStore(gs, objstore.DefaultMapName, false)
	objects := objstore.NewCachedStore(nodes, 10, 0)

	env := &server.Environment{Storage: gs, Links: links, Nodes: nodes, Objects: objects,
		Manager: aggregation.NewManager(links, objects)}

	c := console.NewConsole(env.Manager, env, &out)
	c.CSV = true

	lines := []string{"store a book name=A", "append l1 a a", "foo", "show l1", "exit", "store b book"}

	readLine := func() (string, error) {
		if len(lines) == 0 {
			return "", io.EOF
		}
		line := lines[0]
		lines = lines[1:]
		return line, nil
	}

	if err := consoleLoop(c, readLine, &out); err != nil {
		t.Error(err)
		return
	}

	if res := out.String(); res != `
Stored member a
Appended 2 members to l1
Unknown command: foo
Pos, Key, Kind, Name
0, a, book, A
1, a, book, A
`[1:] {
		t.Error("Unexpected result:", res)
		return
	}

	if len(lines) != 1 {
		t.Error("Unexpected remaining input:", lines)
		return
	}

	// End of input ends the loop

	lines = []string{"show l1"}
	out.Reset()

	if err := consoleLoop(c, readLine, &out); err != nil || out.Len() == 0 {
		t.Error("Unexpected result:", out.String(), err)
		return
	}

	readLine = func() (string, error) {
		return "", fmt.Errorf("broken input")
	}

	if err := consoleLoop(c, readLine, &out); err == nil || err.Error() != "broken input" {
		t.Error("Unexpected result:", err)
		return
	}
}
