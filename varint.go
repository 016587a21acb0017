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

import "math/bits"

// MaxVarintLen is the largest number of bytes a uvarint or a zigzag
// varint can occupy: one header byte plus up to 8 big-endian magnitude
// bytes.
const MaxVarintLen = 9

// UvarintSize returns the number of bytes WriteUvarint will emit for v.
func UvarintSize(v uint64) int {
	if v < 0x80 {
		return 1
	}
	return 1 + (bits.Len64(v)+7)/8
}

// VarintSize returns the number of bytes WriteVarint will emit for n.
func VarintSize(n int64) int {
	return UvarintSize(zigzagEncode(n))
}

// WriteUvarint encodes v into dst using gob's unsigned variable-length
// integer format and returns the number of bytes written.
//
// Values below 0x80 are stored verbatim in a single byte. Larger values
// are stored as a header byte carrying the negated (two's-complement)
// magnitude byte width, followed by that many big-endian magnitude
// bytes (smallest width that fits, so the codec stays bijective).
// dst must have at least UvarintSize(v) bytes of room.
func WriteUvarint(dst []byte, v uint64) int {
	if v < 0x80 {
		dst[0] = byte(v)
		return 1
	}
	l := (bits.Len64(v) + 7) / 8
	dst[0] = ^byte(l - 1)
	for i := l; i >= 1; i-- {
		dst[i] = byte(v)
		v >>= 8
	}
	return l + 1
}

// WriteVarint encodes the zigzag form of n into dst and returns the
// number of bytes written. dst must have at least VarintSize(n) bytes of
// room.
func WriteVarint(dst []byte, n int64) int {
	return WriteUvarint(dst, zigzagEncode(n))
}

// ReadUvarint decodes a gob unsigned varint from the front of buf. It
// returns the decoded value and the number of bytes consumed.
//
// ReadUvarint returns ErrIncomplete, never a descriptive parse error:
// the encoding's width byte always names a legal magnitude width
// (1..8), so there is nothing for this codec to reject once enough
// bytes are in hand.
func ReadUvarint(buf []byte) (uint64, int, error) {
	if len(buf) == 0 {
		return 0, 0, ErrIncomplete
	}
	b := buf[0]
	if b < 0x80 {
		return uint64(b), 1, nil
	}
	l := int(^b) + 1
	if len(buf) < 1+l {
		return 0, 0, ErrIncomplete
	}
	var v uint64
	for _, c := range buf[1 : 1+l] {
		v = v<<8 | uint64(c)
	}
	return v, 1 + l, nil
}

// ReadVarint decodes a zigzag-encoded signed varint from the front of
// buf, returning the decoded value and the number of bytes consumed.
func ReadVarint(buf []byte) (int64, int, error) {
	u, n, err := ReadUvarint(buf)
	if err != nil {
		return 0, 0, err
	}
	return zigzagDecode(u), n, nil
}

// ReadBoolByte decodes gob's boolean encoding (a uvarint restricted to
// {0, 1}) from the front of buf.
func ReadBoolByte(buf []byte) (bool, int, error) {
	u, n, err := ReadUvarint(buf)
	if err != nil {
		return false, 0, err
	}
	switch u {
	case 0:
		return false, n, nil
	case 1:
		return true, n, nil
	default:
		return false, 0, parseErrorf("integer overflow")
	}
}

func zigzagEncode(n int64) uint64 {
	if n < 0 {
		return uint64(^n<<1) | 1
	}
	return uint64(n) << 1
}

func zigzagDecode(u uint64) int64 {
	if u&1 != 0 {
		return ^int64(u >> 1)
	}
	return int64(u >> 1)
}

// float64ToWire and wireToFloat64Bits reverse the byte order of a
// 64-bit value, the representation gob
// uses for floats on the wire: byte-reversing a varint-encoded IEEE-754
// bit pattern puts the exponent (the most variable bits) in the
// low-order position so that common values pack small.
func float64ToWire(bits uint64) uint64 { return reverseBytes64(bits) }
func wireToFloat64Bits(v uint64) uint64 { return reverseBytes64(v) }

func reverseBytes64(v uint64) uint64 {
	return bits.ReverseBytes64(v)
}
