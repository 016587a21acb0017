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

// TypeID identifies a type in a stream's dictionary. Positive ids appear
// in value sections; negative ids appear in type-definition sections,
// where the absolute value names the id being defined (§3, §6).
type TypeID int64

// Built-in ids. Every dictionary is born populated with these, at a
// fixed assignment consulted from the reference encoding rather than
// reinvented (§9's open question on the exact numbering). The gap
// between InterfaceID (8) and WireTypeID (16) is part of the wire
// format and is preserved rather than compacted.
const (
	BoolID      TypeID = 1
	IntID       TypeID = 2
	UintID      TypeID = 3
	FloatID     TypeID = 4
	BytesID     TypeID = 5
	StringID    TypeID = 6
	ComplexID   TypeID = 7
	InterfaceID TypeID = 8
	WireTypeID  TypeID = 16

	// fieldTypeID and fieldSliceTypeID exist only so WireTypeID's own
	// bootstrap descriptor (below) has somewhere to point its "Fields"
	// member: a struct type describing one (name, id) pair, and a slice
	// of that struct. Neither is reachable from user code; both are
	// dictionary plumbing for parsing type-definition sections.
	fieldTypeID      TypeID = 17
	fieldSliceTypeID TypeID = 18
)

// Kind distinguishes the arms of WireType (§3).
type Kind uint8

const (
	KindBuiltin Kind = iota
	KindArray
	KindSlice
	KindMap
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindBuiltin:
		return "builtin"
	case KindArray:
		return "array"
	case KindSlice:
		return "slice"
	case KindMap:
		return "map"
	case KindStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// CommonType carries the name and id every WireType arm shares (§3).
type CommonType struct {
	Name string
	ID   TypeID
}

// Field is one named, typed member of a Struct WireType, in declared
// order. A struct payload's field deltas (§4.G) index into a slice of
// these.
type Field struct {
	Name string
	ID   TypeID
}

// WireType is a single dictionary entry: the resolved description of
// what a TypeID means on the wire (§3). Only the members relevant to
// Kind are meaningful; the rest are zero.
type WireType struct {
	Common CommonType
	Kind   Kind

	Elem TypeID // Array, Slice
	Len  int64  // Array

	Key   TypeID // Map
	Value TypeID // Map

	Fields []Field // Struct
}

func builtinType(id TypeID, name string) WireType {
	return WireType{Common: CommonType{Name: name, ID: id}, Kind: KindBuiltin}
}

// bootstrapTypes returns the fixed set of WireType entries every
// dictionary starts with: the eight scalar builtins, plus the three
// struct/slice descriptors needed to parse the WireType descriptor
// itself (§9 "WireType bootstrap" — this self-description must be
// hard-coded so the first type-definition section can be parsed before
// any user type exists).
func bootstrapTypes() []WireType {
	fieldType := WireType{
		Common: CommonType{Name: "field", ID: fieldTypeID},
		Kind:   KindStruct,
		Fields: []Field{
			{Name: "Name", ID: StringID},
			{Name: "Id", ID: IntID},
		},
	}
	fieldSlice := WireType{
		Common: CommonType{Name: "[]field", ID: fieldSliceTypeID},
		Kind:   KindSlice,
		Elem:   fieldTypeID,
	}
	wireTypeDesc := WireType{
		Common: CommonType{Name: "WireType", ID: WireTypeID},
		Kind:   KindStruct,
		Fields: []Field{
			{Name: "Name", ID: StringID},
			{Name: "Id", ID: IntID},
			{Name: "Kind", ID: UintID},
			{Name: "Elem", ID: IntID},
			{Name: "Len", ID: IntID},
			{Name: "Key", ID: IntID},
			{Name: "Value", ID: IntID},
			{Name: "Fields", ID: fieldSliceTypeID},
		},
	}
	return []WireType{
		builtinType(BoolID, "bool"),
		builtinType(IntID, "int"),
		builtinType(UintID, "uint"),
		builtinType(FloatID, "float"),
		builtinType(BytesID, "bytes"),
		builtinType(StringID, "string"),
		builtinType(ComplexID, "complex"),
		builtinType(InterfaceID, "interface"),
		fieldType,
		fieldSlice,
		wireTypeDesc,
	}
}

// decodeWireType parses a type-definition section's payload (a value of
// the built-in WireType descriptor) using the ordinary value dispatch
// and struct codec (§4.F, §4.G) — the bootstrap descriptor above is the
// only thing that makes this possible before any user type exists.
func decodeWireType(dict *Dictionary, payload []byte) (WireType, error) {
	cur := Cursor{buf: payload}
	v, err := decodeValue(dict, WireTypeID, &cur)
	if err != nil {
		return WireType{}, err
	}
	return valueToWireType(v)
}

func valueToWireType(v Value) (WireType, error) {
	if v.Kind != KindStruct {
		return WireType{}, parseErrorf("type definition payload is not a struct")
	}
	var wt WireType
	for _, nv := range v.Fields {
		switch nv.Name {
		case "Name":
			wt.Common.Name = nv.Value.String
		case "Id":
			wt.Common.ID = TypeID(nv.Value.Int)
		case "Kind":
			wt.Kind = Kind(nv.Value.Uint)
		case "Elem":
			wt.Elem = TypeID(nv.Value.Int)
		case "Len":
			wt.Len = nv.Value.Int
		case "Key":
			wt.Key = TypeID(nv.Value.Int)
		case "Value":
			wt.Value = TypeID(nv.Value.Int)
		case "Fields":
			for _, fe := range nv.Value.Elems {
				var f Field
				for _, fnv := range fe.Fields {
					switch fnv.Name {
					case "Name":
						f.Name = fnv.Value.String
					case "Id":
						f.ID = TypeID(fnv.Value.Int)
					}
				}
				wt.Fields = append(wt.Fields, f)
			}
		}
	}
	return wt, nil
}

func wireTypeToValue(wt WireType) Value {
	fields := make([]Value, len(wt.Fields))
	for i, f := range wt.Fields {
		fields[i] = Value{Kind: KindStruct, Fields: []NamedValue{
			{Name: "Name", Value: Value{Kind: KindBuiltin, String: f.Name}},
			{Name: "Id", Value: Value{Kind: KindBuiltin, Int: int64(f.ID)}},
		}}
	}
	return Value{Kind: KindStruct, Fields: []NamedValue{
		{Name: "Name", Value: Value{Kind: KindBuiltin, String: wt.Common.Name}},
		{Name: "Id", Value: Value{Kind: KindBuiltin, Int: int64(wt.Common.ID)}},
		{Name: "Kind", Value: Value{Kind: KindBuiltin, Uint: uint64(wt.Kind)}},
		{Name: "Elem", Value: Value{Kind: KindBuiltin, Int: int64(wt.Elem)}},
		{Name: "Len", Value: Value{Kind: KindBuiltin, Int: wt.Len}},
		{Name: "Key", Value: Value{Kind: KindBuiltin, Int: int64(wt.Key)}},
		{Name: "Value", Value: Value{Kind: KindBuiltin, Int: int64(wt.Value)}},
		{Name: "Fields", Value: Value{Kind: KindSlice, Elems: fields}},
	}}
}

// dependentTypeIDs returns the TypeIDs wt refers to, so an encoder can
// emit their type-definition sections first.
func dependentTypeIDs(wt WireType) []TypeID {
	switch wt.Kind {
	case KindArray, KindSlice:
		return []TypeID{wt.Elem}
	case KindMap:
		return []TypeID{wt.Key, wt.Value}
	case KindStruct:
		ids := make([]TypeID, len(wt.Fields))
		for i, f := range wt.Fields {
			ids[i] = f.ID
		}
		return ids
	default:
		return nil
	}
}
