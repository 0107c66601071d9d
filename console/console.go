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
Package console contains the console command processor for ProxyList.
*/
package console

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"devt.de/krotik/common/stringutil"
	"devt.de/krotik/proxylist/aggregation"
	"devt.de/krotik/proxylist/graph/data"
)

/*
MemberStore stores and removes the members which lists refer to.
*/
type MemberStore interface {

	/*
		StoreMember stores a member.
	*/
	StoreMember(node data.Node) error

	/*
		RemoveMember removes a member. Returns nil if there was no such member.
	*/
	RemoveMember(key string) (data.Node, error)
}

/*
NewConsole creates a new Console object which executes given commands on the
lists of a given manager and outputs the result to the Writer. Members are
stored and removed through the given member store.
*/
func NewConsole(manager *aggregation.Manager, members MemberStore, out io.Writer) *ListConsole {

	cmdMap := make(map[string]Command)

	cmdMap[CommandHelp] = &CmdHelp{cmdHelpInfo}
	cmdMap[CommandVer] = &CmdVer{cmdVerInfo}
	cmdMap[CommandStore] = &CmdStore{cmdStoreInfo}
	cmdMap[CommandRemove] = &CmdRemove{cmdRemoveInfo}
	cmdMap[CommandAppend] = &CmdAppend{cmdAppendInfo}
	cmdMap[CommandInsert] = &CmdInsert{cmdInsertInfo}
	cmdMap[CommandDeleteAt] = &CmdDeleteAt{cmdDeleteAtInfo}
	cmdMap[CommandDelete] = &CmdDelete{cmdDeleteInfo}
	cmdMap[CommandClear] = &CmdClear{cmdClearInfo}
	cmdMap[CommandShow] = &CmdShow{cmdShowInfo}
	cmdMap[CommandMembers] = &CmdMembers{cmdMembersInfo}
	cmdMap[CommandLookup] = &CmdLookup{cmdLookupInfo}
	cmdMap[CommandExport] = &CmdExport{cmdExportInfo}
	cmdMap[CommandImport] = &CmdImport{cmdImportInfo}

	return &ListConsole{manager, members, out, bytes.NewBuffer(nil), false, cmdMap}
}

/*
CommandConsole is the main interface for command processors.
*/
type CommandConsole interface {

	/*
		Run executes one or more commands. It returns an error if the command
		had an unexpected result and a flag if the command was handled.
	*/
	Run(cmd string) (bool, error)

	/*
		RunArgs executes a single command which is given as a list of words.
	*/
	RunArgs(args []string) (bool, error)

	/*
	   Commands returns a sorted list of all available commands.
	*/
	Commands() []Command
}

/*
CommandConsoleAPI is the console interface which commands can use to access
the lists.
*/
type CommandConsoleAPI interface {
	CommandConsole

	/*
		Manager returns the list manager.
	*/
	Manager() *aggregation.Manager

	MemberStore

	/*
	   Out returns a writer which can be used to write to the console.
	*/
	Out() io.Writer

	/*
	   ExportBuffer returns a buffer which can be used to write exportable data.
	*/
	ExportBuffer() *bytes.Buffer

	/*
		PrintTable writes a table to the console and its CSV form to the
		export buffer.
	*/
	PrintTable(tab []string, cols int)
}

/*
Command describes an available command.
*/
type Command interface {
	/*
	   Name returns the command name (as it should be typed).
	*/
	Name() string

	/*
	   ShortDescription returns a short description of the command (single line).
	*/
	ShortDescription() string

	/*
	   LongDescription returns an extensive description of the command (can be multiple lines).
	*/
	LongDescription() string

	/*
		Run executes the command.
	*/
	Run(args []string, capi CommandConsoleAPI) error
}

/*
cmdInfo provides the name and the descriptions of a command.
*/
type cmdInfo struct {
	name  string // Command name (as it should be typed)
	short string // Short description (single line)
	long  string // Extensive description (can be multiple lines)
}

func (ci *cmdInfo) Name() string {
	return ci.name
}

func (ci *cmdInfo) ShortDescription() string {
	return ci.short
}

func (ci *cmdInfo) LongDescription() string {
	return ci.long
}

// ProxyList Console
// =================

/*
ListConsole implements the console functionality for ordered lists.
*/
type ListConsole struct {
	manager    *aggregation.Manager // List manager
	members    MemberStore          // Store for members
	out        io.Writer            // Output for this console
	export     *bytes.Buffer        // Export buffer
	CSV        bool                 // Flag if tables should be printed as CSV
	CommandMap map[string]Command   // Map of registered commands
}

/*
Manager returns the list manager.
*/
func (c *ListConsole) Manager() *aggregation.Manager {
	return c.manager
}

/*
StoreMember stores a member.
*/
func (c *ListConsole) StoreMember(node data.Node) error {
	return c.members.StoreMember(node)
}

/*
RemoveMember removes a member.
*/
func (c *ListConsole) RemoveMember(key string) (data.Node, error) {
	return c.members.RemoveMember(key)
}

/*
Out returns a writer which can be used to write to the console.
*/
func (c *ListConsole) Out() io.Writer {
	return c.out
}

/*
ExportBuffer returns a buffer which can be used to write exportable data.
*/
func (c *ListConsole) ExportBuffer() *bytes.Buffer {
	return c.export
}

/*
PrintTable writes a table to the console and its CSV form to the export
buffer.
*/
func (c *ListConsole) PrintTable(tab []string, cols int) {
	csv := stringutil.PrintCSVTable(tab, cols)

	c.export.WriteString(csv)

	if c.CSV {
		fmt.Fprint(c.out, csv)
	} else {
		fmt.Fprint(c.out, stringutil.PrintStringTable(tab, cols))
	}
}

/*
Run executes one or more commands. It returns an error if the command
had an unexpected result and a flag if the command was handled.
*/
func (c *ListConsole) Run(cmd string) (bool, error) {

	// First split a line with multiple commands

	cmds := strings.Split(cmd, ";")

	for _, cmd := range cmds {

		if ok, err := c.RunArgs(strings.Fields(cmd)); err != nil || !ok {
			return ok, err
		}
	}

	// Everything was handled

	return true, nil
}

/*
RunArgs executes a single command which is given as a list of words. It
returns an error for unexpected results and a flag if the command was handled.
*/
func (c *ListConsole) RunArgs(args []string) (bool, error) {

	if len(args) == 0 {
		return true, nil
	}

	cmd := args[0]

	c.export.Reset()

	if cmdObj, ok := c.CommandMap[cmd]; ok {
		return true, cmdObj.Run(args[1:], c)
	} else if cmd == "?" {
		return true, c.CommandMap[CommandHelp].Run(args[1:], c)
	}

	return false, fmt.Errorf("Unknown command: %s", cmd)
}

/*
Commands returns a sorted list of all available commands.
*/
func (c *ListConsole) Commands() []Command {
	var res []Command

	for _, c := range c.CommandMap {
		res = append(res, c)
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].Name() < res[j].Name()
	})

	return res
}
