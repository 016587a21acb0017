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

// Package gobwire implements the core of a binary wire format built
// around a monotone, append-only dictionary of types: a writer emits a
// type's description once per stream and refers to it by a small
// integer afterward, so repeated values of the same shape never repeat
// their schema on the wire.
//
// The entry points are NewStreamDecoder and NewStreamEncoder for
// section-at-a-time streaming, and FromBytes for decoding a single
// standalone value out of an in-memory slice. ValueCursor.Decode walks
// a value using its dictionary-resolved WireType and returns a generic
// Value tree; this package does not bind values to caller-supplied Go
// struct shapes, only to the self-describing dictionary.
package gobwire
