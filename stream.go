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
	"fmt"
	"io"

	"github.com/google/uuid"
)

// StreamDecoder reads a sequence of sections from an underlying
// io.Reader, applying type-definition sections to its dictionary as it
// goes and surfacing value sections to the caller (§4.D, §6). Once any
// call returns an error other than io.EOF, the stream is poisoned: every
// subsequent call returns that same error (§7 — no skip-and-resume).
type StreamDecoder struct {
	r    io.Reader
	ring Ring
	dict *Dictionary
	id   uuid.UUID

	poisoned error
	pending  int // bytes of the previously returned value section still to Advance past
}

// NewStreamDecoder wraps r for section-at-a-time decoding.
func NewStreamDecoder(r io.Reader) *StreamDecoder {
	return &StreamDecoder{
		r:    r,
		dict: newDictionary(),
		id:   uuid.New(),
	}
}

// ID returns the decoder's correlation id, folded into wrapped error
// messages so a poisoned stream can be traced across log lines.
func (d *StreamDecoder) ID() uuid.UUID { return d.id }

// TryNextValue consumes and applies any number of leading type-
// definition sections, then returns a ValueCursor for the next value
// section. It returns (nil, nil) at a clean end of stream, and
// (nil, io.ErrUnexpectedEOF) if the underlying reader ends mid-section
// (§4.D, §7).
func (d *StreamDecoder) TryNextValue() (*ValueCursor, error) {
	if d.poisoned != nil {
		return nil, d.poisoned
	}
	vc, err := d.tryNextValue()
	if err != nil && err != io.EOF {
		d.poisoned = err
	}
	return vc, err
}

func (d *StreamDecoder) tryNextValue() (*ValueCursor, error) {
	if d.pending > 0 {
		d.ring.Advance(d.pending)
		d.pending = 0
	}
	for {
		typeID, payload, total, err := d.readSection()
		if err != nil {
			return nil, err
		}
		if payload == nil {
			return nil, nil
		}
		if typeID > 0 {
			d.pending = total
			return &ValueCursor{TypeID: typeID, dict: d.dict, cur: Cursor{buf: payload}}, nil
		}
		wt, err := decodeWireType(d.dict, payload)
		if err != nil {
			return nil, fmt.Errorf("stream %s: type definition: %w", d.id, err)
		}
		if wt.Common.ID != -typeID {
			return nil, fmt.Errorf("stream %s: %w", d.id, parseErrorf("type id mismatch"))
		}
		if err := d.dict.insert(wt); err != nil {
			return nil, fmt.Errorf("stream %s: %w", d.id, err)
		}
		d.ring.Advance(total)
	}
}

// readSection parses one length-prefixed section out of the ring,
// pulling more bytes from the reader as needed (§4.D). It returns the
// section's type_id, its payload slice (valid until the caller or
// tryNextValue next calls Ring.Advance), and the total number of wire
// bytes the section occupies (so the caller knows how much to Advance).
// A nil payload with a nil error signals a clean end of stream.
func (d *StreamDecoder) readSection() (TypeID, []byte, int, error) {
	for {
		window := d.ring.Bytes()
		if len(window) == 0 {
			n, err := d.ring.AppendFrom(d.r)
			if err != nil {
				return 0, nil, 0, err
			}
			if n == 0 {
				return 0, nil, 0, nil
			}
			continue
		}
		length, n, err := ReadUvarint(window)
		if err == ErrIncomplete {
			filled, ferr := d.ring.AppendFrom(d.r)
			if ferr != nil {
				return 0, nil, 0, ferr
			}
			if filled == 0 {
				return 0, nil, 0, io.ErrUnexpectedEOF
			}
			continue
		} else if err != nil {
			return 0, nil, 0, err
		}
		total := n + int(length)
		for len(window) < total {
			filled, ferr := d.ring.AppendFrom(d.r)
			if ferr != nil {
				return 0, nil, 0, ferr
			}
			if filled == 0 {
				return 0, nil, 0, io.ErrUnexpectedEOF
			}
			window = d.ring.Bytes()
		}
		typeID, tn, err := ReadVarint(window[n:])
		if err != nil {
			return 0, nil, 0, parseErrorf("malformed section header: %v", err)
		}
		payload := window[n+tn : total]
		return TypeID(typeID), payload, total, nil
	}
}

// FromBytes parses a single in-memory value, preceded by however many
// type-definition sections it depends on, out of a standalone byte
// slice (§6). It uses a private dictionary seeded only with built-ins —
// it never borrows a StreamDecoder's dictionary (§3, §9).
func FromBytes(payload []byte) (*ValueCursor, error) {
	dict := newDictionary()
	for {
		length, n, err := ReadUvarint(payload)
		if err != nil {
			return nil, err
		}
		if len(payload) < n+int(length) {
			return nil, io.ErrUnexpectedEOF
		}
		typeID, tn, err := ReadVarint(payload[n:])
		if err != nil {
			return nil, err
		}
		body := payload[n+tn : n+int(length)]
		if typeID > 0 {
			return &ValueCursor{TypeID: TypeID(typeID), dict: dict, cur: Cursor{buf: body}}, nil
		}
		wt, err := decodeWireType(dict, body)
		if err != nil {
			return nil, err
		}
		if wt.Common.ID != -TypeID(typeID) {
			return nil, parseErrorf("type id mismatch")
		}
		if err := dict.insert(wt); err != nil {
			return nil, err
		}
		payload = payload[n+int(length):]
	}
}

// StreamEncoder writes a sequence of sections to an underlying
// io.Writer, emitting each type-definition section the first time it is
// needed and caching the rest of a schema lazily (§4.D, §6).
type StreamEncoder struct {
	w       io.Writer
	dict    *Dictionary
	schema  map[TypeID]WireType
	emitted map[TypeID]bool
	id      uuid.UUID
}

// NewStreamEncoder wraps w. schema maps every non-built-in TypeID the
// caller intends to Encode (directly or as a nested field/element type)
// to its WireType; Encode resolves and emits the transitive closure of
// type-definition sections on first use.
func NewStreamEncoder(w io.Writer, schema map[TypeID]WireType) *StreamEncoder {
	return &StreamEncoder{
		w:       w,
		dict:    newDictionary(),
		schema:  schema,
		emitted: make(map[TypeID]bool),
		id:      uuid.New(),
	}
}

// ID returns the encoder's correlation id.
func (e *StreamEncoder) ID() uuid.UUID { return e.id }

// Encode emits whatever type-definition sections typeID transitively
// requires that this stream hasn't already written, then writes v as a
// value section of typeID (§4.D, §4.F).
func (e *StreamEncoder) Encode(typeID TypeID, v Value) error {
	if err := e.ensureDefined(typeID); err != nil {
		return fmt.Errorf("stream %s: %w", e.id, err)
	}
	var buf Buffer
	if err := encodeValue(e.dict, typeID, v, &buf); err != nil {
		return fmt.Errorf("stream %s: %w", e.id, err)
	}
	return writeSection(e.w, typeID, buf.Bytes())
}

func (e *StreamEncoder) ensureDefined(typeID TypeID) error {
	if _, ok := e.dict.Lookup(typeID); ok && typeID <= InterfaceID {
		return nil
	}
	if e.emitted[typeID] {
		return nil
	}
	if _, ok := e.dict.Lookup(typeID); ok {
		e.emitted[typeID] = true
		return nil
	}
	wt, ok := e.schema[typeID]
	if !ok {
		return fmt.Errorf("no schema entry for type %d", typeID)
	}
	// Mark emitted before recursing into dependents so a self- or
	// mutually-referential type (e.g. a linked list node) can't recurse
	// forever: a dependent that points back here just sees it already
	// claimed and returns immediately.
	e.emitted[typeID] = true
	for _, dep := range dependentTypeIDs(wt) {
		if dep <= InterfaceID || dep == typeID {
			continue
		}
		if err := e.ensureDefined(dep); err != nil {
			return err
		}
	}
	if err := e.dict.insert(wt); err != nil {
		return err
	}
	var buf Buffer
	if err := encodeValue(e.dict, WireTypeID, wireTypeToValue(wt), &buf); err != nil {
		return err
	}
	return writeSection(e.w, -typeID, buf.Bytes())
}

// writeSection writes the length || type_id || payload framing (§4.D).
func writeSection(w io.Writer, typeID TypeID, payload []byte) error {
	var tidBuf [MaxVarintLen]byte
	tn := WriteVarint(tidBuf[:], int64(typeID))
	var lenBuf [MaxVarintLen]byte
	ln := WriteUvarint(lenBuf[:], uint64(tn+len(payload)))
	if _, err := w.Write(lenBuf[:ln]); err != nil {
		return err
	}
	if _, err := w.Write(tidBuf[:tn]); err != nil {
		return err
	}
	if len(payload) > 0 {
		if _, err := w.Write(payload); err != nil {
			return err
		}
	}
	return nil
}
