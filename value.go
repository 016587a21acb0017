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

// Value is a dynamically-typed decoded value: the dictionary-driven
// traversal this package exposes in place of shape-directed binding to
// a caller-supplied host type (that binding layer sits above this core
// and is out of scope; see spec §1's Non-goals). Only the fields
// relevant to Kind are meaningful.
type Value struct {
	Kind Kind

	Bool   bool
	Int    int64
	Uint   uint64
	Float  float64
	String string
	Bytes  []byte

	Elems []Value // Array, Slice
	Pairs []KV    // Map

	Fields []NamedValue // Struct
}

// KV is one key/value pair of a decoded Map value.
type KV struct {
	Key   Value
	Value Value
}

// NamedValue is one named field of a decoded Struct value.
type NamedValue struct {
	Name  string
	Value Value
}

func (v Value) fieldByName(name string) *Value {
	for i := range v.Fields {
		if v.Fields[i].Name == name {
			return &v.Fields[i].Value
		}
	}
	return nil
}

func (v Value) isZero() bool {
	switch v.Kind {
	case KindBuiltin:
		return !v.Bool && v.Int == 0 && v.Uint == 0 && v.Float == 0 &&
			v.String == "" && len(v.Bytes) == 0
	case KindArray, KindSlice:
		return len(v.Elems) == 0
	case KindMap:
		return len(v.Pairs) == 0
	case KindStruct:
		return len(v.Fields) == 0
	default:
		return true
	}
}

// ValueCursor is what a StreamDecoder or FromBytes hands back: a value
// section's resolved type together with a cursor positioned at the
// start of its body (§4.F, §6).
type ValueCursor struct {
	TypeID TypeID
	dict   *Dictionary
	cur    Cursor
}

// Decode walks the value using the dictionary's resolved WireType for
// vc.TypeID and returns it as a generic Value tree.
func (vc *ValueCursor) Decode() (Value, error) {
	return decodeValue(vc.dict, vc.TypeID, &vc.cur)
}

// decodeValue is component F's entry point: look up type_id's
// descriptor, and either delegate immediately to the struct codec (G)
// or strip the "singleton" 0 prefix and decode a single field-value
// (§4.F).
func decodeValue(dict *Dictionary, typeID TypeID, cur *Cursor) (Value, error) {
	wt, ok := dict.Lookup(typeID)
	if !ok {
		return Value{}, ErrUnknownType
	}
	if wt.Kind == KindStruct {
		return decodeStructValue(dict, &wt, cur)
	}
	prefix, err := cur.ReadUint()
	if err != nil {
		return Value{}, err
	}
	if prefix != 0 {
		return Value{}, parseErrorf("neither a singleton nor a struct value")
	}
	return decodeFieldValue(dict, &wt, cur)
}

// decodeFieldValue decodes the field-value encoding shared by singleton
// payloads (after their 0 prefix is stripped) and struct fields — the
// same helper drives both, per §4.F's closing note.
func decodeFieldValue(dict *Dictionary, wt *WireType, cur *Cursor) (Value, error) {
	switch wt.Kind {
	case KindBuiltin:
		return decodeBuiltinValue(wt.Common.ID, cur)
	case KindArray, KindSlice:
		n, err := cur.ReadUint()
		if err != nil {
			return Value{}, err
		}
		elemWT, ok := dict.Lookup(wt.Elem)
		if !ok {
			return Value{}, ErrUnknownType
		}
		elems := make([]Value, n)
		for i := range elems {
			v, err := decodeFieldValue(dict, &elemWT, cur)
			if err != nil {
				return Value{}, err
			}
			elems[i] = v
		}
		return Value{Kind: wt.Kind, Elems: elems}, nil
	case KindMap:
		n, err := cur.ReadUint()
		if err != nil {
			return Value{}, err
		}
		keyWT, ok := dict.Lookup(wt.Key)
		if !ok {
			return Value{}, ErrUnknownType
		}
		valWT, ok := dict.Lookup(wt.Value)
		if !ok {
			return Value{}, ErrUnknownType
		}
		pairs := make([]KV, n)
		for i := range pairs {
			k, err := decodeFieldValue(dict, &keyWT, cur)
			if err != nil {
				return Value{}, err
			}
			v, err := decodeFieldValue(dict, &valWT, cur)
			if err != nil {
				return Value{}, err
			}
			pairs[i] = KV{Key: k, Value: v}
		}
		return Value{Kind: KindMap, Pairs: pairs}, nil
	case KindStruct:
		return decodeStructValue(dict, wt, cur)
	default:
		return Value{}, parseErrorf("unresolvable wire kind %v", wt.Kind)
	}
}

func decodeBuiltinValue(id TypeID, cur *Cursor) (Value, error) {
	switch id {
	case BoolID:
		b, err := cur.ReadBool()
		return Value{Kind: KindBuiltin, Bool: b}, err
	case IntID:
		i, err := cur.ReadInt()
		return Value{Kind: KindBuiltin, Int: i}, err
	case UintID:
		u, err := cur.ReadUint()
		return Value{Kind: KindBuiltin, Uint: u}, err
	case FloatID:
		f, err := cur.ReadFloat()
		return Value{Kind: KindBuiltin, Float: f}, err
	case StringID:
		s, err := cur.ReadString()
		return Value{Kind: KindBuiltin, String: s}, err
	case BytesID:
		b, err := cur.ReadBytesLen()
		if err != nil {
			return Value{}, err
		}
		out := make([]byte, len(b))
		copy(out, b)
		return Value{Kind: KindBuiltin, Bytes: out}, nil
	case ComplexID:
		return Value{}, parseErrorf("complex values are not supported by this decoder")
	case InterfaceID:
		return Value{}, parseErrorf("interface values are not supported by this decoder")
	default:
		return Value{}, parseErrorf("unknown builtin type id %d", id)
	}
}

// decodeStructValue walks a struct payload's field deltas (§4.G) and
// decodes each present field using the descriptor's declared type for
// that field index. A delta naming an index outside the descriptor's
// own field list is a protocol violation here: this core always
// resolves against the dictionary's full descriptor, never a caller-
// reduced subset, so there is no narrower shape to reconcile against
// (that reconciliation is the shape-binding layer's job, out of scope
// per spec §1).
func decodeStructValue(dict *Dictionary, wt *WireType, cur *Cursor) (Value, error) {
	named := make([]NamedValue, 0, len(wt.Fields))
	err := DecodeStructFields(cur, func(idx int) error {
		if idx < 0 || idx >= len(wt.Fields) {
			return parseErrorf("struct %q: field index %d out of range", wt.Common.Name, idx)
		}
		f := wt.Fields[idx]
		fieldWT, ok := dict.Lookup(f.ID)
		if !ok {
			return ErrUnknownType
		}
		v, err := decodeFieldValue(dict, &fieldWT, cur)
		if err != nil {
			return err
		}
		named = append(named, NamedValue{Name: f.Name, Value: v})
		return nil
	})
	if err != nil {
		return Value{}, err
	}
	return Value{Kind: KindStruct, Fields: named}, nil
}

// encodeValue mirrors decodeValue on the write side (§4.F).
func encodeValue(dict *Dictionary, typeID TypeID, v Value, buf *Buffer) error {
	wt, ok := dict.Lookup(typeID)
	if !ok {
		return ErrUnknownType
	}
	if wt.Kind == KindStruct {
		return encodeStructValue(dict, &wt, v, buf)
	}
	buf.WriteUint(0)
	return encodeFieldValue(dict, &wt, v, buf)
}

func encodeFieldValue(dict *Dictionary, wt *WireType, v Value, buf *Buffer) error {
	switch wt.Kind {
	case KindBuiltin:
		return encodeBuiltinValue(wt.Common.ID, v, buf)
	case KindArray, KindSlice:
		buf.WriteUint(uint64(len(v.Elems)))
		elemWT, ok := dict.Lookup(wt.Elem)
		if !ok {
			return ErrUnknownType
		}
		for _, e := range v.Elems {
			if err := encodeFieldValue(dict, &elemWT, e, buf); err != nil {
				return err
			}
		}
		return nil
	case KindMap:
		buf.WriteUint(uint64(len(v.Pairs)))
		keyWT, ok := dict.Lookup(wt.Key)
		if !ok {
			return ErrUnknownType
		}
		valWT, ok := dict.Lookup(wt.Value)
		if !ok {
			return ErrUnknownType
		}
		for _, kv := range v.Pairs {
			if err := encodeFieldValue(dict, &keyWT, kv.Key, buf); err != nil {
				return err
			}
			if err := encodeFieldValue(dict, &valWT, kv.Value, buf); err != nil {
				return err
			}
		}
		return nil
	case KindStruct:
		return encodeStructValue(dict, wt, v, buf)
	default:
		return parseErrorf("unresolvable wire kind %v", wt.Kind)
	}
}

func encodeBuiltinValue(id TypeID, v Value, buf *Buffer) error {
	switch id {
	case BoolID:
		buf.WriteBool(v.Bool)
	case IntID:
		buf.WriteInt(v.Int)
	case UintID:
		buf.WriteUint(v.Uint)
	case FloatID:
		buf.WriteFloat(v.Float)
	case StringID:
		buf.WriteString(v.String)
	case BytesID:
		buf.WriteBytes(v.Bytes)
	default:
		return parseErrorf("unsupported builtin type id %d for encode", id)
	}
	return nil
}

// encodeStructValue writes only the non-default fields named in v,
// in declared order, using the field-delta convention of §4.G.
func encodeStructValue(dict *Dictionary, wt *WireType, v Value, buf *Buffer) error {
	prev := -1
	for i, f := range wt.Fields {
		nv := v.fieldByName(f.Name)
		if nv == nil || nv.isZero() {
			continue
		}
		fieldWT, ok := dict.Lookup(f.ID)
		if !ok {
			return ErrUnknownType
		}
		buf.WriteUint(uint64(i - prev))
		if err := encodeFieldValue(dict, &fieldWT, *nv, buf); err != nil {
			return err
		}
		prev = i
	}
	buf.WriteUint(0)
	return nil
}
