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
	"fmt"

	"github.com/bbva/claimtree/util"
)

// PositionKeySize is the size of a serialized position: an 8 byte index
// plus a 2 byte height.
const PositionKeySize = 10

// position identifies one node slot in the tree: index is the offset
// within its level, height the level number counted from the leaves up.
// The serialized form is memoized at construction and used as cache key.
type position struct {
	index  uint64
	height uint16

	serialized [PositionKeySize]byte
}

func newPosition(index uint64, height uint16) position {
	var b [PositionKeySize]byte
	indexAsBytes := util.Uint64AsBytes(index)
	copy(b[:], indexAsBytes)
	copy(b[len(indexAsBytes):], util.Uint16AsBytes(height))
	return position{
		index:      index,
		height:     height,
		serialized: b,
	}
}

func (p position) Bytes() []byte {
	return p.serialized[:]
}

func (p position) String() string {
	return fmt.Sprintf("Pos(%d, %d)", p.index, p.height)
}
