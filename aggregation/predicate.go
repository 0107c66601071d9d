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
	"fmt"

	"devt.de/krotik/ecal/interpreter"
	"devt.de/krotik/ecal/parser"
	"devt.de/krotik/ecal/scope"
	"devt.de/krotik/proxylist/graph/data"
	"devt.de/krotik/proxylist/graph/util"
)

/*
KindPredicate returns a predicate which matches members of the given kinds.
*/
func KindPredicate(kinds ...string) Predicate {
	lookup := make(map[string]bool, len(kinds))

	for _, k := range kinds {
		lookup[k] = true
	}

	return func(member data.Node) bool {
		return member != nil && lookup[member.Kind()]
	}
}

/*
ScriptVarMember is the variable which holds the member data in a script
predicate.
*/
const ScriptVarMember = "member"

/*
ScriptPredicate returns a predicate which evaluates an ECAL expression. The
member data is available in the variable "member", e.g.:

	member.kind == "typeA" and member.size > 10

A member matches if the expression evaluates to true. Evaluation errors are
logged and count as no match.
*/
func ScriptPredicate(expr string) (Predicate, error) {

	rtp := interpreter.NewECALRuntimeProvider("proxylist-filter", nil, nil)

	ast, err := parser.ParseWithRuntime("filter", expr, rtp)
	if err == nil {
		err = ast.Runtime.Validate()
	}

	if err != nil {
		return nil, &util.GraphError{Type: util.ErrInvalidArgument,
			Detail: fmt.Sprintf("Invalid filter expression %q: %v", expr, err)}
	}

	return func(member data.Node) bool {

		if member == nil {
			return false
		}

		vs := scope.NewScope(scope.GlobalScope)

		if err := vs.SetValue(ScriptVarMember, scope.ConvertJSONToECALObject(member.Data())); err != nil {
			logger.Warning(fmt.Sprintf("Could not evaluate filter %q for %v: %v", expr, member.Key(), err))
			return false
		}

		res, err := ast.Runtime.Eval(vs, make(map[string]interface{}), rtp.NewThreadID())
		if err != nil {
			logger.Warning(fmt.Sprintf("Could not evaluate filter %q for %v: %v", expr, member.Key(), err))
			return false
		}

		b, ok := res.(bool)

		return ok && b
	}, nil
}
