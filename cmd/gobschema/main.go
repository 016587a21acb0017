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

// Command gobschema loads a YAML-described schema (the abstract
// "schema" parameter NewStreamEncoder takes as a map[TypeID]WireType)
// and drives a round-trip encode/decode demo against it, so a schema
// file can be sanity-checked without writing any Go code.
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/basilgob/gobwire"
)

// fieldSpec is one field of a struct type in the schema file.
type fieldSpec struct {
	Name string `json:"name"`
	ID   int64  `json:"id"`
}

// typeSpec is one dictionary entry in the schema file, flattened the
// same way gobwire.WireType is.
type typeSpec struct {
	ID     int64       `json:"id"`
	Name   string      `json:"name"`
	Kind   string      `json:"kind"`
	Elem   int64       `json:"elem,omitempty"`
	Len    int64       `json:"len,omitempty"`
	Key    int64       `json:"key,omitempty"`
	Value  int64       `json:"value,omitempty"`
	Fields []fieldSpec `json:"fields,omitempty"`
}

type schemaFile struct {
	Types []typeSpec `json:"types"`
	Root  int64      `json:"root"`
}

func parseKind(s string) (gobwire.Kind, error) {
	switch s {
	case "array":
		return gobwire.KindArray, nil
	case "slice":
		return gobwire.KindSlice, nil
	case "map":
		return gobwire.KindMap, nil
	case "struct":
		return gobwire.KindStruct, nil
	default:
		return 0, fmt.Errorf("unknown kind %q", s)
	}
}

func buildSchema(sf *schemaFile) (map[gobwire.TypeID]gobwire.WireType, error) {
	out := make(map[gobwire.TypeID]gobwire.WireType, len(sf.Types))
	for _, t := range sf.Types {
		kind, err := parseKind(t.Kind)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", t.Name, err)
		}
		wt := gobwire.WireType{
			Common: gobwire.CommonType{Name: t.Name, ID: gobwire.TypeID(t.ID)},
			Kind:   kind,
			Elem:   gobwire.TypeID(t.Elem),
			Len:    t.Len,
			Key:    gobwire.TypeID(t.Key),
			Value:  gobwire.TypeID(t.Value),
		}
		for _, f := range t.Fields {
			wt.Fields = append(wt.Fields, gobwire.Field{Name: f.Name, ID: gobwire.TypeID(f.ID)})
		}
		out[gobwire.TypeID(t.ID)] = wt
	}
	return out, nil
}

// sampleValue builds a placeholder Value for a schema-declared type,
// filling scalar leaves with small fixed values so a round trip has
// something concrete to show.
func sampleValue(schema map[gobwire.TypeID]gobwire.WireType, id gobwire.TypeID) gobwire.Value {
	switch id {
	case gobwire.BoolID:
		return gobwire.Value{Kind: gobwire.KindBuiltin, Bool: true}
	case gobwire.IntID:
		return gobwire.Value{Kind: gobwire.KindBuiltin, Int: 42}
	case gobwire.UintID:
		return gobwire.Value{Kind: gobwire.KindBuiltin, Uint: 42}
	case gobwire.FloatID:
		return gobwire.Value{Kind: gobwire.KindBuiltin, Float: 3.5}
	case gobwire.StringID:
		return gobwire.Value{Kind: gobwire.KindBuiltin, String: "sample"}
	case gobwire.BytesID:
		return gobwire.Value{Kind: gobwire.KindBuiltin, Bytes: []byte("sample")}
	}
	wt, ok := schema[id]
	if !ok {
		return gobwire.Value{}
	}
	switch wt.Kind {
	case gobwire.KindStruct:
		v := gobwire.Value{Kind: gobwire.KindStruct}
		for _, f := range wt.Fields {
			v.Fields = append(v.Fields, gobwire.NamedValue{Name: f.Name, Value: sampleValue(schema, f.ID)})
		}
		return v
	case gobwire.KindSlice, gobwire.KindArray:
		return gobwire.Value{Kind: wt.Kind, Elems: []gobwire.Value{sampleValue(schema, wt.Elem)}}
	case gobwire.KindMap:
		return gobwire.Value{Kind: gobwire.KindMap, Pairs: []gobwire.KV{
			{Key: sampleValue(schema, wt.Key), Value: sampleValue(schema, wt.Value)},
		}}
	default:
		return gobwire.Value{}
	}
}

func main() {
	path := flag.String("schema", "", "path to a YAML schema file")
	flag.Parse()
	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: gobschema -schema schema.yaml")
		os.Exit(2)
	}
	if err := run(*path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	var sf schemaFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	schema, err := buildSchema(&sf)
	if err != nil {
		return fmt.Errorf("building schema: %w", err)
	}
	root := gobwire.TypeID(sf.Root)
	if _, ok := schema[root]; !ok {
		return fmt.Errorf("root type %d not defined in schema", root)
	}

	var wire bytes.Buffer
	enc := gobwire.NewStreamEncoder(&wire, schema)
	sample := sampleValue(schema, root)
	if err := enc.Encode(root, sample); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	o := bufio.NewWriter(os.Stdout)
	defer o.Flush()
	fmt.Fprintf(o, "encoded %d bytes for type %d (stream %s)\n", wire.Len(), root, enc.ID())

	dec := gobwire.NewStreamDecoder(&wire)
	vc, err := dec.TryNextValue()
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if vc == nil {
		return fmt.Errorf("decode: stream produced no value")
	}
	v, err := vc.Decode()
	if err != nil {
		return fmt.Errorf("decode value: %w", err)
	}
	fmt.Fprintf(o, "round-tripped type %d: %d top-level field(s)\n", vc.TypeID, len(v.Fields))
	return nil
}
