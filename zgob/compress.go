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

// Package zgob implements an optional compressed section framing layered
// on top of gobwire's ordinary length||type_id||payload sections: a
// section payload may be zstd-compressed before the outer framing is
// applied. Bucketer separately hashes type ids into a fixed number of
// buckets; Compress and Decompress do not consult it.
package zgob

import (
	"bytes"
	"fmt"
	"runtime"

	"github.com/klauspost/compress/zstd"
)

var dec *zstd.Decoder
var enc *zstd.Encoder

// Magic is the 4-byte marker that begins a zgob-compressed section
// payload, distinguishing it from an ordinary uncompressed one.
var Magic = []byte{0x83, 'g', 'o', 'b'}

// IsMagic reports whether x begins with the zgob magic marker.
func IsMagic(x []byte) bool {
	return len(x) >= len(Magic) && bytes.Equal(x[:len(Magic)], Magic)
}

func init() {
	dec, _ = zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(runtime.GOMAXPROCS(0)),
		zstd.IgnoreChecksum(true))
	enc, _ = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
}

const maxSegmentSize = 1 << 21

func le24(x []byte) int {
	return int(x[0]) + int(x[1])<<8 + int(x[2])<<16
}

func put24(i int, dst []byte) {
	dst[0] = byte(i)
	dst[1] = byte(i >> 8)
	dst[2] = byte(i >> 16)
}

// Compress appends the zstd-compressed form of src to dst, preceded by
// the zgob magic marker and a 3-byte little-endian frame size, and
// returns the extended slice. The magic marker is what lets a decoder
// tell a zgob-compressed section payload apart from an ordinary
// uncompressed one (IsMagic).
func Compress(src, dst []byte) ([]byte, error) {
	dst = append(dst, Magic...)
	lenOff := len(dst)
	dst = append(dst, 0, 0, 0)
	bodyOff := len(dst)
	dst = enc.EncodeAll(src, dst)
	size := len(dst) - bodyOff
	if size >= maxSegmentSize {
		return nil, fmt.Errorf("zgob: compressed segment length %d exceeds max size %d", size, maxSegmentSize)
	}
	put24(size, dst[lenOff:])
	return dst, nil
}

// Decompress reads one frame written by Compress from the front of src,
// appends its decompressed contents to dst, and returns the extended
// slice along with the number of bytes of src the frame occupied.
func Decompress(src, dst []byte) ([]byte, int, error) {
	if !IsMagic(src) {
		return nil, 0, fmt.Errorf("zgob: missing frame magic")
	}
	rest := src[len(Magic):]
	if len(rest) < 3 {
		return nil, 0, fmt.Errorf("zgob: illegal frame size")
	}
	size := le24(rest)
	total := len(Magic) + 3 + size
	if total > len(src) {
		return nil, 0, fmt.Errorf("zgob: frame size %d exceeds slice len %d", total, len(src))
	}
	out, err := dec.DecodeAll(rest[3:3+size], dst)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
