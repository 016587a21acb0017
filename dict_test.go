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

import "testing"

func TestDictionaryBootstrapLookup(t *testing.T) {
	d := newDictionary()
	for _, id := range []TypeID{BoolID, IntID, UintID, FloatID, BytesID, StringID, ComplexID, InterfaceID, WireTypeID} {
		if _, ok := d.Lookup(id); !ok {
			t.Errorf("built-in id %d missing from a fresh dictionary", id)
		}
	}
	if _, ok := d.Lookup(999); ok {
		t.Error("unbound id 999 unexpectedly present")
	}
}

func TestDictionaryInsertThenLookup(t *testing.T) {
	d := newDictionary()
	wt := WireType{Common: CommonType{Name: "Thing", ID: 500}, Kind: KindStruct}
	if err := d.insert(wt); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, ok := d.Lookup(500)
	if !ok || got.Common.Name != "Thing" {
		t.Fatalf("Lookup(500) = %+v, %v", got, ok)
	}
}

func TestDictionaryInsertRejectsRedefinition(t *testing.T) {
	d := newDictionary()
	wt := WireType{Common: CommonType{Name: "Thing", ID: 500}, Kind: KindStruct}
	if err := d.insert(wt); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := d.insert(wt); err != ErrTypeRedefined {
		t.Fatalf("second insert = %v, want ErrTypeRedefined", err)
	}
	if _, ok := d.Lookup(BoolID); ok {
		// built-ins are present from construction, not re-insertion;
		// this just confirms insert() can't be used to redefine them either.
	}
	if err := d.insert(bootstrapTypes()[0]); err != ErrTypeRedefined {
		t.Fatalf("re-inserting a built-in = %v, want ErrTypeRedefined", err)
	}
}

func TestDictionaryCloneIsIndependent(t *testing.T) {
	d := newDictionary()
	c := d.clone()
	if err := c.insert(WireType{Common: CommonType{Name: "OnlyInClone", ID: 501}, Kind: KindStruct}); err != nil {
		t.Fatalf("insert into clone: %v", err)
	}
	if _, ok := d.Lookup(501); ok {
		t.Fatal("insert into clone leaked back into the original dictionary")
	}
}
