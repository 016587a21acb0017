// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package gobwire

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Dictionary is a stream-scoped, append-only mapping from TypeID to its
// resolved WireType (§3, §4.E). It is born seeded with the built-in ids
// and is mutated only by inserting type-definition sections as a stream
// decoder or encoder encounters them: once an id is bound it is never
// replaced or removed (§8 invariant 4).
type Dictionary struct {
	entries map[TypeID]WireType
	order   []TypeID
}

// newDictionary returns a dictionary seeded with the built-in scalar
// types and the hard-coded WireType bootstrap descriptors. A
// StreamDecoder or StreamEncoder owns exactly one of these for its
// lifetime; FromBytes calls this to build a private, standalone one
// (§9's borrow-vs-own note, resolved the Go-idiomatic way: one type,
// two call sites).
func newDictionary() *Dictionary {
	d := &Dictionary{entries: make(map[TypeID]WireType, 16)}
	for _, wt := range bootstrapTypes() {
		d.entries[wt.Common.ID] = wt
		d.order = append(d.order, wt.Common.ID)
	}
	return d
}

// Lookup returns the WireType bound to id, or (WireType{}, false) if no
// type definition has bound it yet.
func (d *Dictionary) Lookup(id TypeID) (WireType, bool) {
	w, ok := d.entries[id]
	return w, ok
}

// insert binds w under its own Common.ID. It reports ErrTypeRedefined if
// that id is already bound — the spec's open question on re-insertion
// resolved in favor of rejection (§9, §12).
func (d *Dictionary) insert(w WireType) error {
	id := w.Common.ID
	if _, exists := d.entries[id]; exists {
		return ErrTypeRedefined
	}
	d.entries[id] = w
	d.order = append(d.order, id)
	return nil
}

// clone returns an independent copy of d, safe for a caller to mutate
// without affecting the original.
func (d *Dictionary) clone() *Dictionary {
	return &Dictionary{
		entries: maps.Clone(d.entries),
		order:   slices.Clone(d.order),
	}
}
