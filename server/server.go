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
Package server contains the code which opens the ProxyList stores according to
the global configuration.
*/
package server

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"devt.de/krotik/common/errorutil"
	"devt.de/krotik/common/fileutil"
	"devt.de/krotik/proxylist/aggregation"
	"devt.de/krotik/proxylist/config"
	"devt.de/krotik/proxylist/graph/data"
	"devt.de/krotik/proxylist/graph/graphstorage"
	"devt.de/krotik/proxylist/graph/linkstore"
	"devt.de/krotik/proxylist/graph/objstore"
	"devt.de/krotik/proxylist/graph/util"
)

/*
Using custom consolelogger type so we can test log.Fatal calls with unit tests. Overwrite
these if the server should not call os.Exit on a fatal error.
*/
type consolelogger func(v ...interface{})

var fatal = consolelogger(log.Fatal)
var print = consolelogger(log.Print)

/*
Base path for all file (used by unit tests)
*/
var basepath = ""

/*
Environment holds all opened stores.
*/
type Environment struct {
	Storage graphstorage.Storage  // Storage for members and map based statements
	Links   linkstore.Store       // Store for list statements
	Nodes   *objstore.NodeStore   // Store for members
	Objects *objstore.CachedStore // Cached member lookup used by the lists
	Manager *aggregation.Manager  // List manager
}

/*
StoreMember stores a member and makes sure the member cache is up to date.
*/
func (env *Environment) StoreMember(node data.Node) error {
	err := env.Nodes.Store(node)

	if node != nil {
		env.Objects.Invalidate(node.Key())
	}

	return err
}

/*
RemoveMember removes a member from the object store and the member cache.
Returns the removed member or nil if there was no such member.
*/
func (env *Environment) RemoveMember(key string) (data.Node, error) {
	defer env.Objects.Invalidate(key)

	return env.Nodes.Remove(key)
}

/*
Open opens all stores. The stores are configured with config.Config.
*/
func Open() (*Environment, error) {
	var err error
	var gs graphstorage.Storage
	var links linkstore.Store

	// Ensure we have a configuration - use the default configuration if nothing was set

	if config.Config == nil {
		config.LoadDefaultConfig()
	}

	// Apply the configured log level unless the caller has set up logging

	if !util.LoggingConfigured() {
		if err := util.SetupLogging(config.Str(config.LogLevel), os.Stderr); err != nil {
			return nil, err
		}
	}

	autoflush := config.Bool(config.FlushOnWrite)
	loc := filepath.Join(basepath, config.Str(config.LocationDatastore))

	// Create graph storage

	if config.Bool(config.MemoryOnlyStorage) {

		print("Starting memory only datastore")

		gs = graphstorage.NewMemoryGraphStorage(config.MemoryOnlyStorage)

	} else {

		print("Starting datastore in ", loc)

		// Ensure path for database exists

		ensurePath(loc)

		if gs, err = graphstorage.NewDiskGraphStorage(loc, false); err != nil {
			return nil, err
		}
	}

	// Create link store

	switch backend := config.Str(config.LinkStoreBackend); backend {

	case config.BackendMap:
		links, err = linkstore.NewMapStore(gs, linkstore.DefaultMapName, autoflush)

	case config.BackendSQLite:
		dsn := ":memory:"

		if !config.Bool(config.MemoryOnlyStorage) {
			dsn = filepath.Join(loc, config.Str(config.LocationSQLiteDB))
		}

		print("Opening SQLite link store ", dsn)

		links, err = linkstore.NewSQLStore(dsn)

	default:
		err = fmt.Errorf("Unknown link store backend: %v", backend)
	}

	if err != nil {
		gs.Close()
		return nil, err
	}

	// Create object stores

	nodes := objstore.NewNodeStore(gs, objstore.DefaultMapName, autoflush)
	objects := objstore.NewCachedStore(nodes, uint64(config.Int(config.ObjectCacheMaxSize)),
		config.Int(config.ObjectCacheMaxAgeSeconds))

	print("Creating list manager instance")

	return &Environment{gs, links, nodes, objects, aggregation.NewManager(links, objects)}, nil
}

/*
Close closes all stores.
*/
func (env *Environment) Close() error {
	errs := errorutil.NewCompositeError()

	print("Closing datastore")

	if err := env.Manager.Close(); err != nil {
		errs.Add(err)
	}

	if err := env.Storage.Close(); err != nil {
		errs.Add(err)
	}

	if errs.HasErrors() {
		return errs
	}

	return nil
}

/*
RunWithSingleOp opens all stores, executes a given operation and closes the
stores again. Errors are reported through the fatal console logger.
*/
func RunWithSingleOp(singleOperation func(*Environment) error) {

	env, err := Open()
	if err != nil {
		fatal(err)
		return
	}

	defer func() {
		if err := env.Close(); err != nil {
			fatal(err)
		}
	}()

	if singleOperation != nil {
		if err := singleOperation(env); err != nil {
			fatal(err)
		}
	}
}

/*
ensurePath ensures that a given relative path exists.
*/
func ensurePath(path string) {
	if res, _ := fileutil.PathExists(path); !res {
		if err := os.MkdirAll(path, 0770); err != nil {
			fatal("Could not create directory:", err.Error())
			return
		}
	}
}
