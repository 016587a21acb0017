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

// DecodeStructFields walks a struct payload's field-delta encoding
// (§4.G): a sequence of (delta, value) pairs terminated by a delta of
// 0. previous starts at -1, and each field's index is previous+delta;
// onField is called with that index so the caller can decode the
// field's value immediately afterward, in wire order.
func DecodeStructFields(cur *Cursor, onField func(fieldIndex int) error) error {
	prev := -1
	for {
		delta, err := cur.ReadUint()
		if err != nil {
			return err
		}
		if delta == 0 {
			return nil
		}
		prev += int(delta)
		if err := onField(prev); err != nil {
			return err
		}
	}
}

// FieldEncoder pairs a declared field index with a closure that writes
// that field's value. EncodeStructFields skips fields whose Skip is true
// (§4.G: only non-default fields are written).
type FieldEncoder struct {
	Index  int
	Skip   bool
	Encode func(buf *Buffer)
}

// EncodeStructFields writes fields in ascending Index order using the
// field-delta convention, terminated with a 0 delta. Callers must
// present fields already sorted by Index.
func EncodeStructFields(buf *Buffer, fields []FieldEncoder) {
	prev := -1
	for _, f := range fields {
		if f.Skip {
			continue
		}
		buf.WriteUint(uint64(f.Index - prev))
		f.Encode(buf)
		prev = f.Index
	}
	buf.WriteUint(0)
}

// EncodeVariantHeader writes the 1-based variant selector that opens a
// variant/enum payload (§4.G "Variant framing", grounded on the Rust
// crate's SerializeVariantValue::write_header).
func EncodeVariantHeader(buf *Buffer, variantIndex int) {
	buf.WriteUint(uint64(variantIndex) + 1)
}

// EncodeVariantTrailer writes the trailing 0 that closes a variant
// payload (SerializeVariantValue::write_footer).
func EncodeVariantTrailer(buf *Buffer) {
	buf.WriteUint(0)
}

// DecodeVariantSelector reads the 1-based variant selector and returns
// the 0-based variant index.
func DecodeVariantSelector(cur *Cursor) (int, error) {
	u, err := cur.ReadUint()
	if err != nil {
		return 0, err
	}
	if u == 0 {
		return 0, parseErrorf("variant selector is zero")
	}
	return int(u - 1), nil
}

// DecodeVariantTrailer reads and validates the trailing 0 that closes a
// variant payload.
func DecodeVariantTrailer(cur *Cursor) error {
	u, err := cur.ReadUint()
	if err != nil {
		return err
	}
	if u != 0 {
		return parseErrorf("missing variant trailer, got %d", u)
	}
	return nil
}
