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

package zgob

import (
	"encoding/binary"

	"github.com/dchest/siphash"

	"github.com/basilgob/gobwire"
)

const (
	bucketBits = 4
	buckets    = 1 << bucketBits
	bucketMask = buckets - 1
)

// Bucketer assigns each TypeID in a stream to one of a fixed number of
// compression buckets, seeded so the assignment is stable for the life
// of one stream but varies between streams (making the bucketing
// resistant to an adversary crafting a type_id sequence that collides
// every type into one bucket).
type Bucketer struct {
	Seed uint32
}

func hash64(seed uint32, id gobwire.TypeID) uint64 {
	var buf [binary.MaxVarintLen64]byte
	size := binary.PutVarint(buf[:], int64(id))
	return siphash.Hash(0, uint64(seed), buf[:size])
}

// Bucket returns which of the 16 compression buckets id belongs to.
func (b Bucketer) Bucket(id gobwire.TypeID) int {
	return int(hash64(b.Seed, id) & bucketMask)
}

// NumBuckets is the fixed number of compression buckets a Bucketer
// distributes type ids across.
const NumBuckets = buckets
