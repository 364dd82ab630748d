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

// Package merkle implements a binary hash tree over a sorted sequence of
// leaf commitments. It computes the root commitment of the set, generates
// membership proofs for individual leaves and verifies such proofs against
// a known root. An unpaired node at the end of a level is carried up to
// the next level unchanged, never combined with itself.
package merkle

import (
	"errors"
	"sort"

	"github.com/bbva/claimtree/cache"
	"github.com/bbva/claimtree/hashing"
	"github.com/bbva/claimtree/log"
)

var (
	// ErrEmptyTree is returned by Root and ProveMembership when the tree
	// holds no leaves. There is no meaningful commitment for an empty set.
	ErrEmptyTree = errors.New("merkle: empty tree")

	// ErrLeafNotFound is returned by ProveMembership when the given leaf
	// commitment does not appear at the bottom level of the tree.
	ErrLeafNotFound = errors.New("merkle: leaf not found")
)

// Tree is an immutable binary hash tree. The leaf sequence is sorted once
// at construction time and never mutated afterward, so every operation is
// a pure read and safe for concurrent use. Rebuilding means constructing
// a new Tree.
type Tree struct {
	hasherF func() hashing.Hasher
	leaves  []Leaf
	digests cache.ModifiableCache
}

// NewTree returns a tree over the given leaves, sorted ascending by their
// commitment value. An empty leaf sequence is accepted here and rejected
// at Root and ProveMembership call time.
func NewTree(hasherF func() hashing.Hasher, leaves []Leaf) *Tree {
	return NewCachedTree(hasherF, nil, leaves)
}

// NewCachedTree returns a tree that memoizes computed level digests in the
// given cache. The cache must not be shared between trees: keys identify
// positions, not contents. A nil cache disables memoization.
func NewCachedTree(hasherF func() hashing.Hasher, digests cache.ModifiableCache, leaves []Leaf) *Tree {
	sorted := make([]Leaf, len(leaves))
	copy(sorted, leaves)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Compare(sorted[j]) < 0
	})
	return &Tree{
		hasherF: hasherF,
		leaves:  sorted,
		digests: digests,
	}
}

// Size returns the number of leaves in the tree.
func (t *Tree) Size() int {
	return len(t.leaves)
}

// Leaves returns a copy of the sorted leaf sequence.
func (t *Tree) Leaves() []Leaf {
	leaves := make([]Leaf, len(t.leaves))
	copy(leaves, t.leaves)
	return leaves
}

// Root reduces the whole leaf sequence to the single commitment node of
// the set. A single-leaf tree has that leaf's node as root.
func (t *Tree) Root() (Node, error) {
	if len(t.leaves) == 0 {
		return Node{}, ErrEmptyTree
	}

	RootTotal.Inc()
	log.Debugf("Computing root over %d leaves", len(t.leaves))

	hasher := t.hasherF()
	level := t.baseLevel()
	for height := uint16(1); len(level) > 1; height++ {
		level = t.reduce(level, height, hasher)
	}
	return level[0], nil
}

// ProveMembership generates the audit path for the given leaf: one sibling
// node per level at which the leaf's running node actually had a pairing
// partner, bottom level first.
func (t *Tree) ProveMembership(leaf Leaf) (*MembershipProof, error) {
	if len(t.leaves) == 0 {
		return nil, ErrEmptyTree
	}

	MembershipTotal.Inc()
	log.Debugf("Proving membership for leaf %x", leaf.Value())

	level := t.baseLevel()
	target := NewNode(leaf.Value())

	index := -1
	for i, node := range level {
		if node.Equals(target) {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, ErrLeafNotFound
	}

	// The index of the tracked node halves at every level, including when
	// it is carried up unpaired: the nodes before it always reduce to
	// index/2 parents.
	hasher := t.hasherF()
	auditPath := make(AuditPath, 0)
	for height := uint16(1); len(level) > 1; height++ {
		switch {
		case index%2 == 1:
			auditPath = append(auditPath, level[index-1])
		case index+1 < len(level):
			auditPath = append(auditPath, level[index+1])
		}
		index = index / 2
		level = t.reduce(level, height, hasher)
	}

	return NewMembershipProof(auditPath, t.hasherF), nil
}

// VerifyMembership replays the combination of the leaf's node with every
// entry of the audit path and compares the outcome against the current
// root. It returns false on any mismatch, including an empty tree.
func (t *Tree) VerifyMembership(leaf Leaf, auditPath AuditPath) bool {
	root, err := t.Root()
	if err != nil {
		return false
	}

	VerifyTotal.Inc()

	return NewMembershipProof(auditPath, t.hasherF).Verify(leaf, root)
}

// baseLevel maps every leaf to its bottom-level node, preserving the
// sorted order.
func (t *Tree) baseLevel() []Node {
	level := make([]Node, len(t.leaves))
	for i, leaf := range t.leaves {
		level[i] = NewNode(leaf.Value())
	}
	return level
}

// reduce derives the level at the given height from the one below it:
// nodes are combined pairwise left to right and an unpaired node at the
// end is carried up unchanged.
func (t *Tree) reduce(level []Node, height uint16, hasher hashing.Hasher) []Node {
	next := make([]Node, 0, (len(level)+1)/2)
	for i := 0; i < len(level); i += 2 {
		if i+1 == len(level) {
			next = append(next, level[i])
			continue
		}
		next = append(next, t.combine(level[i], level[i+1], newPosition(uint64(i/2), height), hasher))
	}
	return next
}

// combine derives one parent node, going through the digest cache when
// one is configured. A cache miss always falls back to recomputation.
func (t *Tree) combine(left, right Node, pos position, hasher hashing.Hasher) Node {
	if t.digests != nil {
		if digest, ok := t.digests.Get(pos.Bytes()); ok {
			return NewNode(hashing.Digest(digest))
		}
	}
	parent := left.Combine(right, hasher)
	if t.digests != nil {
		t.digests.Put(pos.Bytes(), parent.Digest())
	}
	return parent
}
