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
	"fmt"

	"github.com/bbva/claimtree/hashing"
)

// Node is a single fixed-size hash value inside the tree: either a leaf
// commitment at the bottom level or the combination of two child nodes.
// Nodes are immutable values with no identity beyond their digest.
type Node struct {
	digest hashing.Digest
}

// NewNode wraps a digest as a leaf-level node.
func NewNode(digest hashing.Digest) Node {
	return Node{digest: digest}
}

// Combine derives the parent node of n and its sibling. The two digests
// are hashed in lexicographic order, so a verifier can replay the
// combination without knowing on which side of the pairing its node sat.
func (n Node) Combine(sibling Node, hasher hashing.Hasher) Node {
	if bytes.Compare(n.digest, sibling.digest) <= 0 {
		return Node{digest: hasher.Do(n.digest, sibling.digest)}
	}
	return Node{digest: hasher.Do(sibling.digest, n.digest)}
}

// Equals tells whether both nodes hold the same digest.
func (n Node) Equals(other Node) bool {
	return bytes.Equal(n.digest, other.digest)
}

// Digest returns the hash value of the node.
func (n Node) Digest() hashing.Digest {
	return n.digest
}

func (n Node) String() string {
	return fmt.Sprintf("Node(%x)", []byte(n.digest))
}
