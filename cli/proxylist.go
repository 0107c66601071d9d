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
ProxyList main entry point for the command line tool.
*/
package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"devt.de/krotik/proxylist/config"
	"devt.de/krotik/proxylist/console"
	"devt.de/krotik/proxylist/graph/util"
	"devt.de/krotik/proxylist/server"
	"github.com/docopt/docopt-go"
	"golang.org/x/term"
)

const usage = `ProxyList - ordered aggregation lists.

Usage:
  proxylist store <key> <kind> [<attr>...] [options]
  proxylist remove <key> [options]
  proxylist append <owner> <key>... [options]
  proxylist insert <owner> <pos> <key> [options]
  proxylist delete-at <owner> <pos> [options]
  proxylist delete <owner> <key> [options]
  proxylist clear <owner> [options]
  proxylist show <owner> [<filter>] [options]
  proxylist members <owner> [options]
  proxylist lookup <key> [options]
  proxylist export <owner> [<file>] [options]
  proxylist import <owner> <file> [options]
  proxylist console [options]
  proxylist -h | --help
  proxylist --version

Options:
  -h --help        Show this screen.
  --version        Show version.
  --config=<file>  Configuration file [default: proxylist.config.json].
  --csv            Print tables as CSV (always done if the output is not a terminal).
`

/*
commandParams lists the parameters of each command in the order which the
console expects them.
*/
var commandParams = map[string][]string{
	console.CommandStore:    {"<key>", "<kind>", "<attr>"},
	console.CommandRemove:   {"<key>"},
	console.CommandAppend:   {"<owner>", "<key>"},
	console.CommandInsert:   {"<owner>", "<pos>", "<key>"},
	console.CommandDeleteAt: {"<owner>", "<pos>"},
	console.CommandDelete:   {"<owner>", "<key>"},
	console.CommandClear:    {"<owner>"},
	console.CommandShow:     {"<owner>", "<filter>"},
	console.CommandMembers:  {"<owner>"},
	console.CommandLookup:   {"<key>"},
	console.CommandExport:   {"<owner>", "<file>"},
	console.CommandImport:   {"<owner>", "<file>"},
}

/*
CommandConsole is the command which starts an interactive console
*/
const CommandConsole = "console"

/*
Using custom consolelogger type so we can test log.Fatal calls with unit tests.
*/
type consolelogger func(v ...interface{})

var fatal = consolelogger(log.Fatal)

func main() {

	opts, err := docopt.ParseArgs(usage, os.Args[1:], config.ProductVersion)
	if err != nil {
		fatal(err)
		return
	}

	configFile, _ := opts.String("--config")

	if err := config.LoadConfigFile(configFile); err != nil {
		fatal("Could not load config file:", err)
		return
	}

	if err := util.SetupLogging(config.Str(config.LogLevel), os.Stderr); err != nil {
		fatal(err)
		return
	}

	csv, _ := opts.Bool("--csv")
	csv = csv || !term.IsTerminal(int(os.Stdout.Fd()))

	server.RunWithSingleOp(func(env *server.Environment) error {

		if interactive, _ := opts.Bool(CommandConsole); interactive {
			return runConsole(env, csv)
		}

		c := console.NewConsole(env.Manager, env, os.Stdout)
		c.CSV = csv

		_, err := c.RunArgs(commandArgs(opts))

		return err
	})
}

/*
commandArgs returns the command and its parameters as a list of words.
*/
func commandArgs(opts docopt.Opts) []string {

	for cmd, params := range commandParams {

		if ok, _ := opts.Bool(cmd); !ok {
			continue
		}

		args := []string{cmd}

		for _, p := range params {
			switch v := opts[p].(type) {
			case string:
				args = append(args, v)
			case []string:
				args = append(args, v...)
			}
		}

		return args
	}

	return nil
}

/*
runConsole reads commands from stdin until the input ends or the user types
"exit". A terminal gets line editing.
*/
func runConsole(env *server.Environment, csv bool) error {
	var out io.Writer = os.Stdout
	var readLine func() (string, error)

	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {

		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return err
		}
		defer term.Restore(fd, oldState)

		t := term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{os.Stdin, os.Stdout}, "proxylist> ")

		out = t
		readLine = t.ReadLine

		fmt.Fprintln(t, fmt.Sprintf("ProxyList %v - type 'help' for a list of commands", config.ProductVersion))

	} else {

		scanner := bufio.NewScanner(os.Stdin)

		readLine = func() (string, error) {
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return "", err
				}
				return "", io.EOF
			}
			return scanner.Text(), nil
		}
	}

	c := console.NewConsole(env.Manager, env, out)
	c.CSV = csv

	return consoleLoop(c, readLine, out)
}

/*
consoleLoop runs commands until the input ends or the user types "exit".
Command errors are printed and do not end the loop.
*/
func consoleLoop(c console.CommandConsole, readLine func() (string, error), out io.Writer) error {

	for {
		line, err := readLine()

		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		line = strings.TrimSpace(line)

		if line == "exit" || line == "quit" {
			return nil
		}

		if _, err := c.Run(line); err != nil {
			fmt.Fprintln(out, err.Error())
		}
	}
}
