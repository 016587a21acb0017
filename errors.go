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
	"errors"
	"fmt"
)

// ErrIncomplete means a read needs more bytes than are currently
// buffered. StreamDecoder's framing layer never returns it for a
// section header: it retries once more bytes have been pulled from the
// underlying reader, or promotes it to io.ErrUnexpectedEOF when the
// underlying reader has nothing left to give. ReadUvarint, ReadVarint,
// the Cursor reads, FromBytes and ValueCursor.Decode return it directly
// when their input is truncated.
var ErrIncomplete = errors.New("gobwire: incomplete")

// ErrTypeRedefined is returned by a stream decoder when a type
// definition section names a type_id that is already bound in the
// dictionary. The dictionary is monotone: once an id is bound, an
// attempt to rebind it is rejected rather than silently ignored (see
// DESIGN.md's note on this spec's open question).
var ErrTypeRedefined = errors.New("gobwire: type id already defined")

// ErrUnknownType is returned when a value section names a type_id with
// no corresponding dictionary entry.
var ErrUnknownType = errors.New("gobwire: unknown type id")

// ParseError reports a malformed section body: a type-id mismatch in a
// definition section, a non-struct value whose prefix is not 0, a bool
// outside {0, 1}, a zero variant selector or a non-zero variant trailer,
// a struct field index outside its descriptor, or an unsupported
// builtin type.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string { return e.Reason }

func parseErrorf(format string, args ...interface{}) error {
	return &ParseError{Reason: fmt.Sprintf(format, args...)}
}

// SchemaMismatchError describes a traversal shape that disagrees with
// the dictionary's resolved descriptor for a value's type_id (e.g.
// asking for struct fields when the descriptor names a slice).
// ValueCursor offers no caller-directed traversal: Decode always follows
// the resolved descriptor, and no function in this package returns
// this error.
type SchemaMismatchError struct {
	TypeID TypeID
	Wanted string
	Got    string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("gobwire: schema mismatch for type %d: wanted %s, got %s", e.TypeID, e.Wanted, e.Got)
}
