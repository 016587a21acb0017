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

func TestValueSliceRoundTrip(t *testing.T) {
	const namesID TypeID = 600
	dict := newDictionary()
	if err := dict.insert(WireType{
		Common: CommonType{Name: "Names", ID: namesID},
		Kind:   KindSlice,
		Elem:   StringID,
	}); err != nil {
		t.Fatal(err)
	}
	v := Value{Kind: KindSlice, Elems: []Value{
		{Kind: KindBuiltin, String: "a"},
		{Kind: KindBuiltin, String: "bb"},
		{Kind: KindBuiltin, String: "ccc"},
	}}
	var buf Buffer
	if err := encodeValue(dict, namesID, v, &buf); err != nil {
		t.Fatalf("encodeValue: %v", err)
	}
	cur := NewCursor(buf.Bytes())
	got, err := decodeValue(dict, namesID, cur)
	if err != nil {
		t.Fatalf("decodeValue: %v", err)
	}
	if !valueEqual(got, v) {
		t.Fatalf("got %+v, want %+v", got, v)
	}
}

func TestValueMapRoundTrip(t *testing.T) {
	const scoresID TypeID = 601
	dict := newDictionary()
	if err := dict.insert(WireType{
		Common: CommonType{Name: "Scores", ID: scoresID},
		Kind:   KindMap,
		Key:    StringID,
		Value:  IntID,
	}); err != nil {
		t.Fatal(err)
	}
	v := Value{Kind: KindMap, Pairs: []KV{
		{Key: Value{Kind: KindBuiltin, String: "a"}, Value: Value{Kind: KindBuiltin, Int: 1}},
		{Key: Value{Kind: KindBuiltin, String: "b"}, Value: Value{Kind: KindBuiltin, Int: -2}},
	}}
	var buf Buffer
	if err := encodeValue(dict, scoresID, v, &buf); err != nil {
		t.Fatalf("encodeValue: %v", err)
	}
	cur := NewCursor(buf.Bytes())
	got, err := decodeValue(dict, scoresID, cur)
	if err != nil {
		t.Fatalf("decodeValue: %v", err)
	}
	if len(got.Pairs) != len(v.Pairs) {
		t.Fatalf("got %d pairs, want %d", len(got.Pairs), len(v.Pairs))
	}
	for i := range v.Pairs {
		if !valueEqual(got.Pairs[i].Key, v.Pairs[i].Key) || !valueEqual(got.Pairs[i].Value, v.Pairs[i].Value) {
			t.Fatalf("pair %d: got %+v, want %+v", i, got.Pairs[i], v.Pairs[i])
		}
	}
}

func TestValueSkipsDefaultStructFields(t *testing.T) {
	var buf Buffer
	v := personValue("", 0)
	dict := newDictionary()
	if err := dict.insert(personSchema()[personTypeID]); err != nil {
		t.Fatal(err)
	}
	if err := encodeValue(dict, personTypeID, v, &buf); err != nil {
		t.Fatalf("encodeValue: %v", err)
	}
	if buf.Len() != 1 || buf.Bytes()[0] != 0 {
		t.Fatalf("all-default struct encoded as %x, want just a terminator", buf.Bytes())
	}
}

func TestWireTypeBootstrapRoundTrip(t *testing.T) {
	dict := newDictionary()
	wt := WireType{
		Common: CommonType{Name: "Nested", ID: 700},
		Kind:   KindStruct,
		Fields: []Field{
			{Name: "A", ID: StringID},
			{Name: "B", ID: IntID},
		},
	}
	var buf Buffer
	if err := encodeValue(dict, WireTypeID, wireTypeToValue(wt), &buf); err != nil {
		t.Fatalf("encoding WireType value: %v", err)
	}
	got, err := decodeWireType(dict, buf.Bytes())
	if err != nil {
		t.Fatalf("decodeWireType: %v", err)
	}
	if got.Common.Name != wt.Common.Name || got.Common.ID != wt.Common.ID || got.Kind != wt.Kind {
		t.Fatalf("got %+v, want %+v", got, wt)
	}
	if len(got.Fields) != len(wt.Fields) {
		t.Fatalf("got %d fields, want %d", len(got.Fields), len(wt.Fields))
	}
	for i := range wt.Fields {
		if got.Fields[i] != wt.Fields[i] {
			t.Fatalf("field %d: got %+v, want %+v", i, got.Fields[i], wt.Fields[i])
		}
	}
}

func TestUnknownTypeIDFailsToDecode(t *testing.T) {
	dict := newDictionary()
	cur := NewCursor([]byte{0x00})
	if _, err := decodeValue(dict, 9999, cur); err != ErrUnknownType {
		t.Fatalf("got %v, want ErrUnknownType", err)
	}
}
