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
	"fmt"
	"os"
	"strconv"
	"strings"

	"devt.de/krotik/common/stringutil"
	"devt.de/krotik/proxylist/aggregation"
	"devt.de/krotik/proxylist/graph/data"
)

// Command: store
// ==============

/*
CommandStore is a command name.
*/
const CommandStore = "store"

/*
CmdStore stores a member.
*/
type CmdStore struct {
	cmdInfo
}

var cmdStoreInfo = cmdInfo{CommandStore,
	"Stores a member.",
	"Stores a member. Specify a key, a kind and optional attributes as name=value pairs."}

/*
Run executes the command.
*/
func (c *CmdStore) Run(args []string, capi CommandConsoleAPI) error {

	if err := checkArgs(args, 2, "store <key> <kind> [<name>=<value>...]"); err != nil {
		return err
	}

	node := data.NewMember(args[0], args[1])

	for _, attr := range args[2:] {
		name, val, ok := strings.Cut(attr, "=")
		if !ok || name == "" {
			return fmt.Errorf("Invalid attribute: %v", attr)
		}
		node.SetAttr(name, val)
	}

	if err := capi.StoreMember(node); err != nil {
		return err
	}

	fmt.Fprintln(capi.Out(), fmt.Sprintf("Stored member %v", node.Key()))

	return nil
}

// Command: remove
// ===============

/*
CommandRemove is a command name.
*/
const CommandRemove = "remove"

/*
CmdRemove removes a member which is not part of any list.
*/
type CmdRemove struct {
	cmdInfo
}

var cmdRemoveInfo = cmdInfo{CommandRemove,
	"Removes a member.",
	"Removes a member from the object store. The member must not be part of any list."}

/*
Run executes the command.
*/
func (c *CmdRemove) Run(args []string, capi CommandConsoleAPI) error {

	if err := checkArgs(args, 1, "remove <key>"); err != nil {
		return err
	}

	owners, err := capi.Manager().ReverseLookupOwners(args[0])
	if err != nil {
		return err
	}

	if len(owners) > 0 {
		return fmt.Errorf("Member %v is still part of %v", args[0], strings.Join(owners, ", "))
	}

	node, err := capi.RemoveMember(args[0])
	if err != nil {
		return err
	}

	if node == nil {
		return fmt.Errorf("Unknown member: %v", args[0])
	}

	fmt.Fprintln(capi.Out(), fmt.Sprintf("Removed member %v", args[0]))

	return nil
}

// Command: append
// ===============

/*
CommandAppend is a command name.
*/
const CommandAppend = "append"

/*
CmdAppend appends members to a list.
*/
type CmdAppend struct {
	cmdInfo
}

var cmdAppendInfo = cmdInfo{CommandAppend,
	"Appends members to a list.",
	"Appends members to a list. Specify the owner of the list and one or more member keys."}

/*
Run executes the command.
*/
func (c *CmdAppend) Run(args []string, capi CommandConsoleAPI) error {

	if err := checkArgs(args, 2, "append <owner> <key>..."); err != nil {
		return err
	}

	ol, err := capi.Manager().List(args[0])
	if err != nil {
		return err
	}

	var members []data.Node

	for _, key := range args[1:] {
		m, err := loadMember(capi, key)
		if err != nil {
			return err
		}
		members = append(members, m)
	}

	if err := ol.Concat(members); err != nil {
		return err
	}

	fmt.Fprintln(capi.Out(), fmt.Sprintf("Appended %v member%v to %v",
		len(members), stringutil.Plural(len(members)), ol.Owner()))

	return nil
}

// Command: insert
// ===============

/*
CommandInsert is a command name.
*/
const CommandInsert = "insert"

/*
CmdInsert inserts a member at a position of a list.
*/
type CmdInsert struct {
	cmdInfo
}

var cmdInsertInfo = cmdInfo{CommandInsert,
	"Inserts a member at a position of a list.",
	"Inserts a member at a position of a list. Specify the owner of the list, " +
		"the position (starting at 0) and the member key."}

/*
Run executes the command.
*/
func (c *CmdInsert) Run(args []string, capi CommandConsoleAPI) error {

	if err := checkArgs(args, 3, "insert <owner> <pos> <key>"); err != nil {
		return err
	}

	ol, err := capi.Manager().List(args[0])
	if err != nil {
		return err
	}

	pos, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("Invalid position: %v", args[1])
	}

	// Known members are inserted by key

	isMember, err := ol.IsMember(args[2])
	if err != nil {
		return err
	}

	if isMember {
		err = ol.InsertIDAt(pos, args[2])

	} else {
		var m data.Node

		if m, err = loadMember(capi, args[2]); err == nil {
			err = ol.InsertAt(pos, m)
		}
	}

	if err == nil {
		fmt.Fprintln(capi.Out(), fmt.Sprintf("Inserted %v at position %v of %v",
			args[2], pos, ol.Owner()))
	}

	return err
}

// Command: delete-at
// ==================

/*
CommandDeleteAt is a command name.
*/
const CommandDeleteAt = "delete-at"

/*
CmdDeleteAt removes a position of a list.
*/
type CmdDeleteAt struct {
	cmdInfo
}

var cmdDeleteAtInfo = cmdInfo{CommandDeleteAt,
	"Removes a position of a list.",
	"Removes a position of a list. Specify the owner of the list and the position (starting at 0)."}

/*
Run executes the command.
*/
func (c *CmdDeleteAt) Run(args []string, capi CommandConsoleAPI) error {

	if err := checkArgs(args, 2, "delete-at <owner> <pos>"); err != nil {
		return err
	}

	ol, err := capi.Manager().List(args[0])
	if err != nil {
		return err
	}

	// Positions which are not a number never hold an entry

	pos, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintln(capi.Out(), fmt.Sprintf("No entry at position %v of %v", args[1], ol.Owner()))
		return nil
	}

	ref, err := ol.DeleteAt(pos)

	if err == nil {
		if ref == nil {
			fmt.Fprintln(capi.Out(), fmt.Sprintf("No entry at position %v of %v", pos, ol.Owner()))
		} else {
			fmt.Fprintln(capi.Out(), fmt.Sprintf("Deleted %v at position %v of %v",
				ref.Key(), pos, ol.Owner()))
		}
	}

	return err
}

// Command: delete
// ===============

/*
CommandDelete is a command name.
*/
const CommandDelete = "delete"

/*
CmdDelete removes all positions of a member from a list.
*/
type CmdDelete struct {
	cmdInfo
}

var cmdDeleteInfo = cmdInfo{CommandDelete,
	"Removes all positions of a member from a list.",
	"Removes all positions of a member from a list. Specify the owner of the list and the member key."}

/*
Run executes the command.
*/
func (c *CmdDelete) Run(args []string, capi CommandConsoleAPI) error {
	var found bool

	if err := checkArgs(args, 2, "delete <owner> <key>"); err != nil {
		return err
	}

	ol, err := capi.Manager().List(args[0])
	if err != nil {
		return err
	}

	m, err := capi.Manager().Objects().Load(args[1])

	if err == nil {
		if m != nil {
			m, err = ol.Delete(m)
			found = m != nil
		} else {

			// Members which were removed from the object store can still be
			// removed by key

			found, err = ol.DeleteKey(args[1])
		}
	}

	if err == nil {
		if found {
			fmt.Fprintln(capi.Out(), fmt.Sprintf("Deleted all entries of %v from %v", args[1], ol.Owner()))
		} else {
			fmt.Fprintln(capi.Out(), fmt.Sprintf("%v is not part of %v", args[1], ol.Owner()))
		}
	}

	return err
}

// Command: clear
// ==============

/*
CommandClear is a command name.
*/
const CommandClear = "clear"

/*
CmdClear removes all positions of a list.
*/
type CmdClear struct {
	cmdInfo
}

var cmdClearInfo = cmdInfo{CommandClear,
	"Removes all positions of a list.",
	"Removes all positions of a list. The members of the list are kept."}

/*
Run executes the command.
*/
func (c *CmdClear) Run(args []string, capi CommandConsoleAPI) error {

	if err := checkArgs(args, 1, "clear <owner>"); err != nil {
		return err
	}

	ol, err := capi.Manager().List(args[0])

	if err == nil {
		if err = ol.Clear(); err == nil {
			fmt.Fprintln(capi.Out(), fmt.Sprintf("Cleared %v", ol.Owner()))
		}
	}

	return err
}

// Command: show
// =============

/*
CommandShow is a command name.
*/
const CommandShow = "show"

/*
CmdShow displays the members of a list.
*/
type CmdShow struct {
	cmdInfo
}

var cmdShowInfo = cmdInfo{CommandShow,
	"Displays the members of a list.",
	"Displays the members of a list. Specify the owner of the list and " +
		"optionally a filter expression (e.g. member.kind == \"book\")."}

/*
Run executes the command.
*/
func (c *CmdShow) Run(args []string, capi CommandConsoleAPI) error {
	var nodes []data.Node

	if err := checkArgs(args, 1, "show <owner> [<filter expression>]"); err != nil {
		return err
	}

	ol, err := capi.Manager().List(args[0])
	if err != nil {
		return err
	}

	if len(args) > 1 {
		var pred aggregation.Predicate

		if pred, err = aggregation.ScriptPredicate(strings.Join(args[1:], " ")); err == nil {
			nodes, err = ol.Filter(pred).Read()
		}

	} else {
		nodes, err = ol.Nodes()
	}

	if err != nil {
		return err
	}

	tab := []string{"Pos", "Key", "Kind", "Name"}

	for i, n := range nodes {
		tab = append(tab, fmt.Sprint(i), n.Key(), n.Kind(), n.Name())
	}

	capi.PrintTable(tab, 4)

	return nil
}

// Command: members
// ================

/*
CommandMembers is a command name.
*/
const CommandMembers = "members"

/*
CmdMembers displays the membership set of a list owner.
*/
type CmdMembers struct {
	cmdInfo
}

var cmdMembersInfo = cmdInfo{CommandMembers,
	"Displays the membership set of a list owner.",
	"Displays the membership set of a list owner. Members stay in the set " +
		"when their positions are removed from the list."}

/*
Run executes the command.
*/
func (c *CmdMembers) Run(args []string, capi CommandConsoleAPI) error {

	if err := checkArgs(args, 1, "members <owner>"); err != nil {
		return err
	}

	ol, err := capi.Manager().List(args[0])
	if err != nil {
		return err
	}

	keys, err := ol.MemberIDs()
	if err != nil {
		return err
	}

	capi.PrintTable(append([]string{"Member"}, keys...), 1)

	return nil
}

// Command: lookup
// ===============

/*
CommandLookup is a command name.
*/
const CommandLookup = "lookup"

/*
CmdLookup displays all lists which contain a member.
*/
type CmdLookup struct {
	cmdInfo
}

var cmdLookupInfo = cmdInfo{CommandLookup,
	"Displays all lists which contain a member.",
	"Displays the owners of all lists which contain a member. Specify the member key."}

/*
Run executes the command.
*/
func (c *CmdLookup) Run(args []string, capi CommandConsoleAPI) error {

	if err := checkArgs(args, 1, "lookup <key>"); err != nil {
		return err
	}

	owners, err := capi.Manager().ReverseLookupOwners(args[0])
	if err != nil {
		return err
	}

	tab := []string{"Owner", "Size"}

	for _, o := range owners {
		ol, err := capi.Manager().List(o)
		if err != nil {
			return err
		}
		tab = append(tab, o, fmt.Sprint(ol.Size()))
	}

	capi.PrintTable(tab, 2)

	return nil
}

// Command: export
// ===============

/*
CommandExport is a command name.
*/
const CommandExport = "export"

/*
CmdExport writes the persisted layout of a list as JSON.
*/
type CmdExport struct {
	cmdInfo
}

var cmdExportInfo = cmdInfo{CommandExport,
	"Exports a list as JSON.",
	"Exports a list as JSON. Specify the owner of the list and optionally " +
		"a file name. The JSON is written to the console if no file is given."}

/*
Run executes the command.
*/
func (c *CmdExport) Run(args []string, capi CommandConsoleAPI) error {
	var buf bytes.Buffer

	if err := checkArgs(args, 1, "export <owner> [<file>]"); err != nil {
		return err
	}

	ol, err := capi.Manager().List(args[0])
	if err != nil {
		return err
	}

	if err := aggregation.ExportList(&buf, ol); err != nil {
		return err
	}

	if len(args) > 1 {

		if err := os.WriteFile(args[1], buf.Bytes(), 0644); err != nil {
			return err
		}

		fmt.Fprintln(capi.Out(), fmt.Sprintf("Exported %v to %v", ol.Owner(), args[1]))

		return nil
	}

	capi.ExportBuffer().Write(buf.Bytes())
	fmt.Fprintln(capi.Out(), buf.String())

	return nil
}

// Command: import
// ===============

/*
CommandImport is a command name.
*/
const CommandImport = "import"

/*
CmdImport replaces the content of a list with an exported list.
*/
type CmdImport struct {
	cmdInfo
}

var cmdImportInfo = cmdInfo{CommandImport,
	"Imports a list from JSON.",
	"Imports a list from JSON. Specify the owner of the list and a file " +
		"which was written by export. The current content of the list is replaced."}

/*
Run executes the command.
*/
func (c *CmdImport) Run(args []string, capi CommandConsoleAPI) error {

	if err := checkArgs(args, 2, "import <owner> <file>"); err != nil {
		return err
	}

	ol, err := capi.Manager().List(args[0])
	if err != nil {
		return err
	}

	f, err := os.Open(args[1])
	if err != nil {
		return err
	}
	defer f.Close()

	if err := aggregation.ImportList(f, ol); err != nil {
		return err
	}

	fmt.Fprintln(capi.Out(), fmt.Sprintf("Imported %v position%v into %v",
		ol.Size(), stringutil.Plural(ol.Size()), ol.Owner()))

	return nil
}

// Helper functions
// ================

/*
checkArgs checks that at least a given number of arguments was given.
*/
func checkArgs(args []string, min int, usage string) error {
	if len(args) < min {
		return fmt.Errorf("Usage: %v", usage)
	}
	return nil
}

/*
loadMember loads a member which must exist.
*/
func loadMember(capi CommandConsoleAPI, key string) (data.Node, error) {

	m, err := capi.Manager().Objects().Load(key)

	if err == nil && m == nil {
		err = fmt.Errorf("Unknown member: %v", key)
	}

	return m, err
}
