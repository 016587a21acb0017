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

// Command gobdump reads one or more gobwire streams and prints a
// structural dump of every value section it finds, resolving each
// value against the stream's own dictionary. It exists to exercise and
// demonstrate the library, the same role cmd/dump plays for ion.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/basilgob/gobwire"
)

func main() {
	flag.Parse()
	o := bufio.NewWriter(os.Stdout)
	args := flag.Args()
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, arg := range args {
		if err := dump(o, arg); err != nil {
			fmt.Fprintf(os.Stderr, "input %s: %s\n", arg, err)
			os.Exit(1)
		}
	}
	if err := o.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func dump(o *bufio.Writer, arg string) error {
	var in *os.File
	if arg == "-" {
		in = os.Stdin
	} else {
		f, err := os.Open(arg)
		if err != nil {
			return fmt.Errorf("can't open %q: %w", arg, err)
		}
		defer f.Close()
		in = f
	}
	dec := gobwire.NewStreamDecoder(bufio.NewReader(in))
	for i := 0; ; i++ {
		vc, err := dec.TryNextValue()
		if err != nil {
			return fmt.Errorf("decoding value %d: %w", i, err)
		}
		if vc == nil {
			return nil
		}
		v, err := vc.Decode()
		if err != nil {
			return fmt.Errorf("decoding value %d (type %d): %w", i, vc.TypeID, err)
		}
		fmt.Fprintf(o, "# value %d (type %d)\n", i, vc.TypeID)
		printValue(o, v, 0)
	}
}

func printValue(o *bufio.Writer, v gobwire.Value, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v.Kind {
	case gobwire.KindBuiltin:
		switch {
		case v.String != "":
			fmt.Fprintf(o, "%sstring(%q)\n", indent, v.String)
		case len(v.Bytes) > 0:
			fmt.Fprintf(o, "%sbytes(%d)\n", indent, len(v.Bytes))
		default:
			fmt.Fprintf(o, "%sbool=%v int=%d uint=%d float=%v\n", indent, v.Bool, v.Int, v.Uint, v.Float)
		}
	case gobwire.KindArray, gobwire.KindSlice:
		fmt.Fprintf(o, "%s%s[%d]\n", indent, v.Kind, len(v.Elems))
		for _, e := range v.Elems {
			printValue(o, e, depth+1)
		}
	case gobwire.KindMap:
		fmt.Fprintf(o, "%smap[%d]\n", indent, len(v.Pairs))
		for _, kv := range v.Pairs {
			printValue(o, kv.Key, depth+1)
			printValue(o, kv.Value, depth+1)
		}
	case gobwire.KindStruct:
		fmt.Fprintf(o, "%sstruct{%d fields}\n", indent, len(v.Fields))
		for _, f := range v.Fields {
			fmt.Fprintf(o, "%s  .%s:\n", indent, f.Name)
			printValue(o, f.Value, depth+2)
		}
	}
}
