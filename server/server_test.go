/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package server

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"devt.de/krotik/common/fileutil"
	"devt.de/krotik/proxylist/config"
	"devt.de/krotik/proxylist/graph/data"
	"devt.de/krotik/proxylist/graph/util"
)

const testdb = "testdb"

var printLog = []string{}
var errorLog = []string{}

var printLogging = false

func TestMain(m *testing.M) {
	flag.Parse()

	basepath = testdb + "/"

	// Log all print and error messages

	print = func(v ...interface{}) {
		if printLogging {
			fmt.Println(v...)
		}
		printLog = append(printLog, fmt.Sprint(v...))
	}
	fatal = func(v ...interface{}) {
		if printLogging {
			fmt.Println(v...)
		}
		errorLog = append(errorLog, fmt.Sprint(v...))
	}

	defer func() {
		fatal = log.Fatal
		basepath = ""
	}()

	if res, _ := fileutil.PathExists(testdb); res {
		if err := os.RemoveAll(testdb); err != nil {
			fmt.Print("Could not remove test directory:", err.Error())
		}
	}

	ensurePath(testdb)

	// Run the tests

	res := m.Run()

	if res, _ := fileutil.PathExists(testdb); res {
		if err := os.RemoveAll(testdb); err != nil {
			fmt.Print("Could not remove test directory:", err.Error())
		}
	}

	os.Exit(res)
}

/*
resetLogs resets the captured console output and loads the default config.
*/
func resetLogs() {
	printLog = []string{}
	errorLog = []string{}
	config.LoadDefaultConfig()
}

/*
fillList stores three members and appends them to a list.
*/
func fillList(env *Environment) error {

	for _, k := range []string{"a", "b", "c"} {
		if err := env.StoreMember(data.NewMember(k, "item")); err != nil {
			return err
		}
	}

	ol, err := env.Manager.List("owner")
	if err != nil {
		return err
	}

	for _, k := range []string{"a", "b", "c", "a"} {
		m, err := env.Objects.Load(k)
		if err != nil {
			return err
		}
		if err := ol.Append(m); err != nil {
			return err
		}
	}

	return nil
}

/*
readList returns the member keys of a list.
*/
func readList(res *string) func(env *Environment) error {
	return func(env *Environment) error {
		ol, err := env.Manager.List("owner")
		if err == nil {
			*res = fmt.Sprint(ol.IDs())
		}
		return err
	}
}

func TestMemoryOnly(t *testing.T) {
	var res string

	resetLogs()

	config.Config[config.MemoryOnlyStorage] = true

	RunWithSingleOp(fillList)

	if len(errorLog) != 0 {
		t.Error("Unexpected errors:", errorLog)
		return
	}

	if l := strings.Join(printLog, "\n"); l != `
Starting memory only datastore
Creating list manager instance
Closing datastore`[1:] {
		t.Error("Unexpected log:", l)
		return
	}

	// Memory only data is gone after closing

	RunWithSingleOp(readList(&res))

	if res != "[]" || len(errorLog) != 0 {
		t.Error("Unexpected result:", res, errorLog)
		return
	}

	// Memory only SQLite

	config.Config[config.LinkStoreBackend] = config.BackendSQLite

	RunWithSingleOp(func(env *Environment) error {
		if err := fillList(env); err != nil {
			return err
		}
		return readList(&res)(env)
	})

	if res != "[a b c a]" || len(errorLog) != 0 {
		t.Error("Unexpected result:", res, errorLog)
		return
	}

	if printLog[len(printLog)-3] != "Opening SQLite link store :memory:" {
		t.Error("Unexpected log:", printLog)
		return
	}
}

func TestDiskStorage(t *testing.T) {

	for _, backend := range []string{config.BackendMap, config.BackendSQLite} {
		var res string

		resetLogs()

		config.Config[config.LocationDatastore] = "db-" + backend
		config.Config[config.LinkStoreBackend] = backend

		RunWithSingleOp(fillList)
		RunWithSingleOp(readList(&res))

		if res != "[a b c a]" || len(errorLog) != 0 {
			t.Error("Unexpected result:", backend, res, errorLog)
			return
		}

		if printLog[0] != "Starting datastore in "+filepath.Join(testdb, "db-"+backend) {
			t.Error("Unexpected log:", printLog)
			return
		}
	}

	if res, _ := fileutil.PathExists(filepath.Join(testdb, "db-sqlite", "links.sqlite")); !res {
		t.Error("SQLite database was not created")
		return
	}
}

func TestMembers(t *testing.T) {

	resetLogs()

	config.Config[config.MemoryOnlyStorage] = true

	env, err := Open()
	if err != nil {
		t.Error(err)
		return
	}
	defer env.Close()

	if !util.LoggingConfigured() {
		t.Error("Opening the datastore should set up logging")
		return
	}

	if err := env.StoreMember(nil); !util.IsType(err, util.ErrInvalidData) {
		t.Error("Unexpected result:", err)
		return
	}

	if err := fillList(env); err != nil {
		t.Error(err)
		return
	}

	ol, _ := env.Manager.List("owner")

	if ok, err := ol.DeleteKey("b"); !ok || err != nil {
		t.Error("Unexpected result:", ok, err)
		return
	}

	// The member is cached after it was loaded

	if ok, _ := env.Objects.Exists("b"); !ok {
		t.Error("Member should exist")
		return
	}

	if res, err := env.RemoveMember("b"); err != nil || res.Key() != "b" {
		t.Error("Unexpected result:", res, err)
		return
	}

	if ok, _ := env.Objects.Exists("b"); ok {
		t.Error("Removed member should not exist")
		return
	}

	if err := ol.InsertIDAt(0, "b"); err == nil || err.Error() !=
		"GraphError: Invalid argument (id is not a member)" {
		t.Error("Unexpected result:", err)
		return
	}

	if res, err := env.RemoveMember("b"); res != nil || err != nil {
		t.Error("Unexpected result:", res, err)
		return
	}
}

func TestErrors(t *testing.T) {

	resetLogs()

	config.Config[config.MemoryOnlyStorage] = true
	config.Config[config.LinkStoreBackend] = "foo"

	RunWithSingleOp(nil)

	if fmt.Sprint(errorLog) != "[Unknown link store backend: foo]" {
		t.Error("Unexpected result:", errorLog)
		return
	}

	resetLogs()

	config.Config[config.MemoryOnlyStorage] = true

	RunWithSingleOp(func(env *Environment) error {
		_, err := env.Manager.List("")
		return err
	})

	if fmt.Sprint(errorLog) != "[GraphError: Invalid argument (owner can not be empty)]" {
		t.Error("Unexpected result:", errorLog)
		return
	}

	// No configuration at all uses the default configuration

	config.Config = nil

	env, err := Open()
	if err != nil {
		t.Error(err)
		return
	}

	if config.Str(config.LinkStoreBackend) != config.BackendMap {
		t.Error("Unexpected config:", config.Config)
		return
	}

	if err := env.Close(); err != nil {
		t.Error(err)
		return
	}
}
