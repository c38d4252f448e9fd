// MIT License
//
// Copyright (c) 2026 Kestrel Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package actor

import (
	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
)

// ID is the stable, process-unique identity of an actor. It is a 128-bit
// value, cheap to hash and compare, and usable as a map key.
type ID [16]byte

// NoID is the zero identity. It marks an absent source or destination.
var NoID ID

// NewID returns a fresh random identity.
func NewID() ID {
	return ID(uuid.New())
}

// ParseID parses the textual form produced by String.
func ParseID(text string) (ID, error) {
	parsed, err := uuid.Parse(text)
	if err != nil {
		return NoID, err
	}
	return ID(parsed), nil
}

// String returns the canonical textual form of the identity.
func (id ID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether the identity is the zero identity.
func (id ID) IsNil() bool {
	return id == NoID
}

// hash64 folds the identity to a 64-bit hash used for worker ownership.
func (id ID) hash64() uint64 {
	return xxh3.Hash(id[:])
}
