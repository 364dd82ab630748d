/*
   Copyright 2018-2019 Banco Bilbao Vizcaya Argentaria, S.A.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package merkle

import (
	"bytes"
	"errors"

	"github.com/bbva/claimtree/hashing"
)

// ErrEmptyPayload is returned by NewLeaf when there is nothing to derive a
// commitment from.
var ErrEmptyPayload = errors.New("merkle: empty leaf payload")

// Leaf is a single allocation record reduced to its fixed-size commitment
// value. The payload is opaque to the tree: only the derived value takes
// part in ordering and hashing.
type Leaf struct {
	payload []byte
	value   hashing.Digest
}

// NewLeaf derives the commitment value for the given payload. The
// derivation is pure, so the same payload and hasher always produce the
// same leaf.
func NewLeaf(payload []byte, hasher hashing.Hasher) (Leaf, error) {
	if len(payload) == 0 {
		return Leaf{}, ErrEmptyPayload
	}
	p := make([]byte, len(payload))
	copy(p, payload)
	return Leaf{
		payload: p,
		value:   hasher.Do(p),
	}, nil
}

// Payload returns a copy of the application data this leaf commits to.
func (l Leaf) Payload() []byte {
	p := make([]byte, len(l.payload))
	copy(p, l.payload)
	return p
}

// Value returns the commitment digest of the leaf.
func (l Leaf) Value() hashing.Digest {
	return l.value
}

// Compare returns a negative number, zero, or a positive number when l
// sorts before, equal to, or after the other leaf. Leaves are ordered by
// their commitment value, so two trees built from the same records in any
// input order end up with identical leaf sequences.
func (l Leaf) Compare(other Leaf) int {
	return bytes.Compare(l.value, other.value)
}

// Equals tells whether both leaves carry the same commitment value.
func (l Leaf) Equals(other Leaf) bool {
	return l.Compare(other) == 0
}
