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
	"encoding/json"
	"fmt"
	"io"

	"devt.de/krotik/proxylist/graph/util"
)

/*
ListDump is the serializable form of the persisted layout of a list.
*/
type ListDump struct {
	Owner   string       `json:"owner"`
	Head    string       `json:"head"`
	Tail    string       `json:"tail"`
	Proxies []*ProxyDump `json:"proxies"`
}

/*
ProxyDump is the serializable form of a single proxy node.
*/
type ProxyDump struct {
	ID     string `json:"id"`
	Target string `json:"target"`
	Next   string `json:"next,omitempty"`
}

/*
DumpList returns the persisted layout of a given list. No member is
resolved.
*/
func DumpList(ol *OrderedList) *ListDump {
	dump := &ListDump{ol.owner, NilMarker, NilMarker, []*ProxyDump{}}

	if ol.head != "" {
		dump.Head, dump.Tail = ol.head, ol.tail
	}

	for _, p := range ol.Proxies() {
		dump.Proxies = append(dump.Proxies, &ProxyDump{p.id, p.target.Key(), p.next})
	}

	return dump
}

/*
ExportList writes the persisted layout of a given list as JSON.
*/
func ExportList(out io.Writer, ol *OrderedList) error {

	res, err := json.MarshalIndent(DumpList(ol), "", "  ")
	if err != nil {
		return err
	}

	_, err = out.Write(res)

	return err
}

/*
ImportList reads the JSON layout of a list and replaces the content of a
given list with it. The order is rebuilt from the next links of the dump -
the order of the proxy records does not matter. Proxy node ids are not
kept.
*/
func ImportList(in io.Reader, ol *OrderedList) error {
	var dump ListDump

	if err := json.NewDecoder(in).Decode(&dump); err != nil {
		return &util.GraphError{Type: util.ErrInvalidData,
			Detail: fmt.Sprint("Could not decode list dump: ", err)}
	}

	refs, err := dump.refs(ol)
	if err != nil {
		return err
	}

	if err := ol.replaceAllRefs(refs); err != nil {
		return err
	}

	logger.Info(fmt.Sprintf("Imported %v entries from %v into %v", len(refs), dump.Owner, ol.owner))

	return nil
}

/*
refs reconstructs the ordered member references of a dump.
*/
func (d *ListDump) refs(ol *OrderedList) ([]*LazyRef, error) {

	records := make(map[string]*ProxyDump, len(d.Proxies))

	for _, p := range d.Proxies {
		if p == nil || p.ID == "" || p.Target == "" {
			return nil, &util.GraphError{Type: util.ErrInvalidData,
				Detail: fmt.Sprintf("Incomplete proxy record in dump of %v", d.Owner)}
		}
		records[p.ID] = p
	}

	head, tail := d.Head, d.Tail
	if head == NilMarker {
		head = ""
	}
	if tail == NilMarker {
		tail = ""
	}

	_, targets, err := walkChain(d.Owner, head, tail, func(id string) (string, string, error) {
		p, ok := records[id]
		if !ok {
			return "", "", &util.GraphError{Type: util.ErrInvalidData,
				Detail: fmt.Sprintf("Proxy %v is missing in dump of %v", id, d.Owner)}
		}
		return p.Target, p.Next, nil
	})

	if err != nil {
		return nil, err
	}

	if len(targets) != len(records) {
		return nil, &util.GraphError{Type: util.ErrInvalidData,
			Detail: fmt.Sprintf("Dump of %v contains %v unreachable proxies",
				d.Owner, len(records)-len(targets))}
	}

	refs := make([]*LazyRef, len(targets))
	for i, t := range targets {
		refs[i] = NewLazyRef(t, ol.objects)
	}

	return refs, nil
}
