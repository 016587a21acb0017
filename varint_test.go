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
	"bytes"
	"math"
	"math/rand"
	"testing"
)

func TestUvarintWorkedExamples(t *testing.T) {
	cases := []struct {
		v    uint64
		want []byte
	}{
		{5, []byte{0x05}},
		{256, []byte{0xFE, 0x01, 0x00}},
		{0, []byte{0x00}},
		{0x7F, []byte{0x7F}},
		{0x80, []byte{0xFF, 0x80}},
	}
	for _, c := range cases {
		got := make([]byte, UvarintSize(c.v))
		n := WriteUvarint(got, c.v)
		if n != len(c.want) || !bytes.Equal(got, c.want) {
			t.Errorf("WriteUvarint(%d) = %x, want %x", c.v, got, c.want)
		}
	}
}

func TestZigzagWorkedExamples(t *testing.T) {
	cases := []struct {
		n    int64
		want byte
	}{
		{-1, 0x01},
		{1, 0x02},
		{-2, 0x03},
		{0, 0x00},
	}
	for _, c := range cases {
		var buf [MaxVarintLen]byte
		n := WriteVarint(buf[:], c.n)
		if n != 1 || buf[0] != c.want {
			t.Errorf("WriteVarint(%d) = %x, want [%x]", c.n, buf[:n], c.want)
		}
	}
}

func TestUvarintRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		v := r.Uint64()
		buf := make([]byte, UvarintSize(v))
		n := WriteUvarint(buf, v)
		got, m, err := ReadUvarint(buf)
		if err != nil {
			t.Fatalf("ReadUvarint: %v", err)
		}
		if got != v || m != n {
			t.Fatalf("round trip mismatch: wrote %d (%d bytes), read %d (%d bytes)", v, n, got, m)
		}
	}
}

func TestVarintRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 10000; i++ {
		n := int64(r.Uint64())
		buf := make([]byte, VarintSize(n))
		WriteVarint(buf, n)
		got, _, err := ReadVarint(buf)
		if err != nil {
			t.Fatalf("ReadVarint: %v", err)
		}
		if got != n {
			t.Fatalf("round trip mismatch: wrote %d, read %d", n, got)
		}
	}
}

func TestUvarintMinimality(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		v := r.Uint64() >> (r.Intn(64))
		n := UvarintSize(v)
		if v >= 0x80 {
			width := n - 1
			if width < 8 && v>>(8*width) != 0 {
				t.Fatalf("value %d encoded with too few magnitude bytes (%d)", v, width)
			}
			if width > 1 && v>>(8*(width-1)) == 0 {
				t.Fatalf("value %d encoded with non-minimal width %d", v, width)
			}
		}
	}
}

func TestUvarintIncomplete(t *testing.T) {
	buf := []byte{0xFE, 0x01}
	if _, _, err := ReadUvarint(buf); err != ErrIncomplete {
		t.Fatalf("want ErrIncomplete, got %v", err)
	}
	if _, _, err := ReadUvarint(nil); err != ErrIncomplete {
		t.Fatalf("want ErrIncomplete on empty input, got %v", err)
	}
}

func TestFloatRoundTrip(t *testing.T) {
	vals := []float64{0, 1, -1, 3.14159, math.Inf(1), math.Inf(-1), 1e300, -1e-300}
	for _, v := range vals {
		var buf Buffer
		buf.WriteFloat(v)
		cur := NewCursor(buf.Bytes())
		got, err := cur.ReadFloat()
		if err != nil {
			t.Fatalf("ReadFloat: %v", err)
		}
		if math.Float64bits(got) != math.Float64bits(v) {
			t.Errorf("float round trip: wrote %v, read %v", v, got)
		}
	}
}

func TestBoolByteRejectsOverflow(t *testing.T) {
	var buf Buffer
	buf.WriteUint(2)
	if _, _, err := ReadBoolByte(buf.Bytes()); err == nil {
		t.Fatal("expected error decoding bool from uvarint value 2")
	}
}
