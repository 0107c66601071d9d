/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package util

import (
	"fmt"
	"io"
	"os"
	"sync"

	"devt.de/krotik/common/logutil"
)

/*
LogScope is the common scope of all ProxyList loggers
*/
const LogScope = "proxylist"

var logSetupLock = &sync.Mutex{}
var logConfigured = false

/*
Messages of level Info and above go to stderr until SetupLogging is called.
*/
func init() {
	addLogSinks(logutil.Info, os.Stderr)
}

/*
SetupLogging replaces all log sinks with sinks for the ProxyList loggers.
Messages of the given level or above are written to out, all other messages
are dropped.
*/
func SetupLogging(level string, out io.Writer) error {
	loglevel := logutil.StringToLoglevel(level)

	if loglevel == "" {
		return &GraphError{ErrInvalidArgument, fmt.Sprint("Invalid log level: ", level)}
	}

	logSetupLock.Lock()
	defer logSetupLock.Unlock()

	logutil.ClearLogSinks()
	addLogSinks(loglevel, out)

	logConfigured = true

	return nil
}

/*
LoggingConfigured returns if SetupLogging was called.
*/
func LoggingConfigured() bool {
	logSetupLock.Lock()
	defer logSetupLock.Unlock()

	return logConfigured
}

/*
addLogSinks adds a sink for the given level and a discarding sink for all
levels. Without the discarding sink logutil hands messages below the level
to its fallback logger.
*/
func addLogSinks(level logutil.Level, out io.Writer) {
	l := logutil.GetLogger(LogScope)

	l.AddLogSink(logutil.Debug, logutil.SimpleFormatter(), io.Discard)
	l.AddLogSink(level, logutil.SimpleFormatter(), out)
}
