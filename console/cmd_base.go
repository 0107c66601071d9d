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
	"fmt"

	"devt.de/krotik/proxylist/config"
)

// Command: ver
// ============

/*
CommandVer is a command name.
*/
const CommandVer = "ver"

/*
CmdVer displays version information.
*/
type CmdVer struct {
	cmdInfo
}

var cmdVerInfo = cmdInfo{CommandVer,
	"Displays version information.",
	"Displays version information."}

/*
Run executes the command.
*/
func (c *CmdVer) Run(args []string, capi CommandConsoleAPI) error {
	fmt.Fprintln(capi.Out(), fmt.Sprintf("ProxyList %v", config.ProductVersion))
	return nil
}

// Command: help
// =============

/*
CommandHelp is a command name.
*/
const CommandHelp = "help"

/*
CmdHelp displays descriptions of other commands.
*/
type CmdHelp struct {
	cmdInfo
}

var cmdHelpInfo = cmdInfo{CommandHelp,
	"Display descriptions for all available commands.",
	"Display descriptions for all available commands."}

/*
Run executes the command.
*/
func (c *CmdHelp) Run(args []string, capi CommandConsoleAPI) error {

	cmds := capi.Commands()

	if len(args) > 0 {
		name := args[0]

		for _, cmd := range cmds {
			if cmd.Name() == name {
				capi.ExportBuffer().WriteString(cmd.LongDescription())
				fmt.Fprintln(capi.Out(), cmd.LongDescription())
				return nil
			}
		}

		return fmt.Errorf("Unknown command: %s", name)
	}

	var tab []string

	tab = append(tab, "Command")
	tab = append(tab, "Description")

	for _, cmd := range cmds {
		tab = append(tab, cmd.Name())
		tab = append(tab, cmd.ShortDescription())
	}

	capi.PrintTable(tab, 2)

	return nil
}
