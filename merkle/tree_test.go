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
	"math/bits"
	"sync"
	"testing"

	"github.com/bbva/claimtree/cache"
	"github.com/bbva/claimtree/hashing"
	"github.com/bbva/claimtree/log"
	"github.com/bbva/claimtree/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLeaves(t *testing.T, hasherF func() hashing.Hasher, payloads ...[]byte) []Leaf {
	hasher := hasherF()
	leaves := make([]Leaf, 0, len(payloads))
	for _, payload := range payloads {
		leaf, err := NewLeaf(payload, hasher)
		require.NoError(t, err)
		leaves = append(leaves, leaf)
	}
	return leaves
}

func TestRoot(t *testing.T) {

	log.SetLogger("TestRoot", log.SILENT)

	testCases := []struct {
		payloads     [][]byte
		expectedRoot hashing.Digest
	}{
		{[][]byte{{0x1}}, hashing.Digest{0x1}},
		{[][]byte{{0x1}, {0x2}}, hashing.Digest{0x3}},
		{[][]byte{{0x1}, {0x2}, {0x4}}, hashing.Digest{0x7}},
		{[][]byte{{0x1}, {0x2}, {0x4}, {0x8}}, hashing.Digest{0xf}},
		{[][]byte{{0x1}, {0x2}, {0x4}, {0x8}, {0x10}}, hashing.Digest{0x1f}},
		// input order must not matter
		{[][]byte{{0x8}, {0x1}, {0x4}, {0x2}}, hashing.Digest{0xf}},
	}

	for i, c := range testCases {
		tree := NewTree(hashing.NewXorHasher, newLeaves(t, hashing.NewXorHasher, c.payloads...))
		root, err := tree.Root()

		require.NoErrorf(t, err, "Root should not fail in test case %d", i)
		assert.Equalf(t, NewNode(c.expectedRoot), root, "Incorrect root hash in test case %d", i)
	}
}

func TestRootEmptyTree(t *testing.T) {

	log.SetLogger("TestRootEmptyTree", log.SILENT)

	tree := NewTree(hashing.NewSha256Hasher, nil)

	_, err := tree.Root()
	require.ErrorIs(t, err, ErrEmptyTree, "An empty tree should have no root")

	hasher := hashing.NewSha256Hasher()
	leaf, err := NewLeaf([]byte("alice:100"), hasher)
	require.NoError(t, err)

	_, err = tree.ProveMembership(leaf)
	require.ErrorIs(t, err, ErrEmptyTree, "An empty tree should prove nothing")

	require.False(t, tree.VerifyMembership(leaf, AuditPath{}),
		"Nothing should verify against an empty tree")
}

func TestRootTwoLeavesMatchesCombine(t *testing.T) {

	log.SetLogger("TestRootTwoLeavesMatchesCombine", log.SILENT)

	leaves := newLeaves(t, hashing.NewSha256Hasher, []byte("alice:100"), []byte("bob:250"))
	tree := NewTree(hashing.NewSha256Hasher, leaves)

	root, err := tree.Root()
	require.NoError(t, err)

	sorted := tree.Leaves()
	expected := NewNode(sorted[0].Value()).Combine(NewNode(sorted[1].Value()), hashing.NewSha256Hasher())
	assert.Equal(t, expected, root, "The root of two leaves should be their combination")
}

func TestRootDeterminism(t *testing.T) {

	log.SetLogger("TestRootDeterminism", log.SILENT)

	payloads := [][]byte{
		[]byte("alice:100"),
		[]byte("bob:250"),
		[]byte("carol:75"),
		[]byte("dave:3000"),
		[]byte("erin:42"),
	}
	reversed := make([][]byte, len(payloads))
	for i, payload := range payloads {
		reversed[len(payloads)-1-i] = payload
	}

	tree1 := NewTree(hashing.NewSha256Hasher, newLeaves(t, hashing.NewSha256Hasher, payloads...))
	tree2 := NewTree(hashing.NewSha256Hasher, newLeaves(t, hashing.NewSha256Hasher, reversed...))

	root1, err := tree1.Root()
	require.NoError(t, err)
	root2, err := tree2.Root()
	require.NoError(t, err)

	assert.Equal(t, root1, root2, "The root should not depend on insertion order")
}

func TestProveMembership(t *testing.T) {

	log.SetLogger("TestProveMembership", log.SILENT)

	testCases := []struct {
		payloads          [][]byte
		target            []byte
		expectedAuditPath AuditPath
	}{
		// single leaf: the leaf is the root, the path is empty
		{
			payloads:          [][]byte{{0x1}},
			target:            []byte{0x1},
			expectedAuditPath: AuditPath{},
		},
		// two leaves: one sibling
		{
			payloads:          [][]byte{{0x1}, {0x2}},
			target:            []byte{0x1},
			expectedAuditPath: AuditPath{NewNode(hashing.Digest{0x2})},
		},
		// three leaves, leftmost target: sibling at both levels
		{
			payloads: [][]byte{{0x1}, {0x2}, {0x4}},
			target:   []byte{0x1},
			expectedAuditPath: AuditPath{
				NewNode(hashing.Digest{0x2}),
				NewNode(hashing.Digest{0x4}),
			},
		},
		// three leaves, last target: carried up at the bottom level, so
		// that level contributes no entry
		{
			payloads:          [][]byte{{0x1}, {0x2}, {0x4}},
			target:            []byte{0x4},
			expectedAuditPath: AuditPath{NewNode(hashing.Digest{0x3})},
		},
		// five leaves, last target: carried up twice
		{
			payloads:          [][]byte{{0x1}, {0x2}, {0x4}, {0x8}, {0x10}},
			target:            []byte{0x10},
			expectedAuditPath: AuditPath{NewNode(hashing.Digest{0xf})},
		},
	}

	for i, c := range testCases {
		hasher := hashing.NewXorHasher()
		tree := NewTree(hashing.NewXorHasher, newLeaves(t, hashing.NewXorHasher, c.payloads...))

		target, err := NewLeaf(c.target, hasher)
		require.NoError(t, err)

		proof, err := tree.ProveMembership(target)
		require.NoErrorf(t, err, "ProveMembership should not fail in test case %d", i)
		assert.Equalf(t, c.expectedAuditPath, proof.AuditPath(), "Incorrect audit path in test case %d", i)

		root, err := tree.Root()
		require.NoError(t, err)
		assert.Truef(t, proof.Verify(target, root), "The proof should verify in test case %d", i)
	}
}

func TestProveMembershipNotFound(t *testing.T) {

	log.SetLogger("TestProveMembershipNotFound", log.SILENT)

	hasher := hashing.NewSha256Hasher()
	tree := NewTree(hashing.NewSha256Hasher, newLeaves(t, hashing.NewSha256Hasher,
		[]byte("alice:100"), []byte("bob:250")))

	stranger, err := NewLeaf([]byte("mallory:999"), hasher)
	require.NoError(t, err)

	_, err = tree.ProveMembership(stranger)
	require.ErrorIs(t, err, ErrLeafNotFound, "An absent leaf should not be provable")
}

func TestMembershipRoundtrip(t *testing.T) {

	log.SetLogger("TestMembershipRoundtrip", log.SILENT)

	for size := 1; size <= 17; size++ {
		leaves := make([]Leaf, 0, size)
		hasher := hashing.NewSha256Hasher()
		for i := 0; i < size; i++ {
			leaf, err := NewLeaf(util.Uint64AsBytes(uint64(i)), hasher)
			require.NoError(t, err)
			leaves = append(leaves, leaf)
		}
		tree := NewTree(hashing.NewSha256Hasher, leaves)

		for i, leaf := range leaves {
			proof, err := tree.ProveMembership(leaf)
			require.NoErrorf(t, err, "ProveMembership should not fail for leaf %d of %d", i, size)
			require.Truef(t, tree.VerifyMembership(leaf, proof.AuditPath()),
				"The proof should verify for leaf %d of %d", i, size)

			maxLevels := bits.Len(uint(size - 1))
			require.LessOrEqualf(t, len(proof.AuditPath()), maxLevels,
				"The audit path should have at most ceil(log2(n)) entries for leaf %d of %d", i, size)
		}
	}
}

func TestVerifyWrongLeaf(t *testing.T) {

	log.SetLogger("TestVerifyWrongLeaf", log.SILENT)

	leaves := newLeaves(t, hashing.NewSha256Hasher,
		[]byte("alice:100"), []byte("bob:250"), []byte("carol:75"), []byte("dave:3000"))
	tree := NewTree(hashing.NewSha256Hasher, leaves)

	proof, err := tree.ProveMembership(leaves[0])
	require.NoError(t, err)

	for i := 1; i < len(leaves); i++ {
		assert.Falsef(t, tree.VerifyMembership(leaves[i], proof.AuditPath()),
			"A proof for one leaf should not verify another in test case %d", i)
	}
}

func TestVerifyTamperedProof(t *testing.T) {

	log.SetLogger("TestVerifyTamperedProof", log.SILENT)

	leaves := newLeaves(t, hashing.NewSha256Hasher,
		[]byte("alice:100"), []byte("bob:250"), []byte("carol:75"), []byte("dave:3000"))
	tree := NewTree(hashing.NewSha256Hasher, leaves)

	proof, err := tree.ProveMembership(leaves[0])
	require.NoError(t, err)
	auditPath := proof.AuditPath()
	require.NotEmpty(t, auditPath)

	// mutate one entry
	tampered := make(AuditPath, len(auditPath))
	copy(tampered, auditPath)
	forged := make(hashing.Digest, len(auditPath[0].Digest()))
	copy(forged, auditPath[0].Digest())
	forged[0] ^= 0xff
	tampered[0] = NewNode(forged)
	assert.False(t, tree.VerifyMembership(leaves[0], tampered),
		"A proof with a mutated entry should not verify")

	// append an entry
	extended := append(append(AuditPath{}, auditPath...), NewNode(forged))
	assert.False(t, tree.VerifyMembership(leaves[0], extended),
		"A proof with an extra entry should not verify")

	// drop an entry
	assert.False(t, tree.VerifyMembership(leaves[0], auditPath[1:]),
		"A proof with a missing entry should not verify")
}

func TestConcurrentTreeOps(t *testing.T) {

	log.SetLogger("TestConcurrentTreeOps", log.SILENT)

	leaves := make([]Leaf, 0, 16)
	hasher := hashing.NewSha256Hasher()
	for i := 0; i < 16; i++ {
		leaf, err := NewLeaf(util.Uint64AsBytes(uint64(i)), hasher)
		require.NoError(t, err)
		leaves = append(leaves, leaf)
	}

	trees := []*Tree{
		NewTree(hashing.NewSha256Hasher, leaves),
		NewCachedTree(hashing.NewSha256Hasher, cache.NewSimpleCache(32), leaves),
		NewCachedTree(hashing.NewSha256Hasher, cache.NewFastCache(1024*1024), leaves),
		NewCachedTree(hashing.NewSha256Hasher, cache.NewFreeCache(1024*1024), leaves),
	}

	expectedRoot, err := trees[0].Root()
	require.NoError(t, err)

	for _, tree := range trees {
		var wg sync.WaitGroup
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func(tree *Tree) {
				defer wg.Done()
				for _, leaf := range leaves {
					root, err := tree.Root()
					assert.NoError(t, err)
					assert.Equal(t, expectedRoot, root)

					proof, err := tree.ProveMembership(leaf)
					assert.NoError(t, err)
					assert.True(t, tree.VerifyMembership(leaf, proof.AuditPath()))
				}
			}(tree)
		}
		wg.Wait()
	}
}

func TestCachedTree(t *testing.T) {

	log.SetLogger("TestCachedTree", log.SILENT)

	leaves := make([]Leaf, 0, 8)
	hasher := hashing.NewSha256Hasher()
	for i := 0; i < 8; i++ {
		leaf, err := NewLeaf(util.Uint64AsBytes(uint64(i)), hasher)
		require.NoError(t, err)
		leaves = append(leaves, leaf)
	}

	uncached := NewTree(hashing.NewSha256Hasher, leaves)
	expectedRoot, err := uncached.Root()
	require.NoError(t, err)

	caches := []cache.ModifiableCache{
		cache.NewSimpleCache(16),
		cache.NewFastCache(1024 * 1024),
		cache.NewFreeCache(1024 * 1024),
	}

	for _, digests := range caches {
		tree := NewCachedTree(hashing.NewSha256Hasher, digests, leaves)

		root, err := tree.Root()
		require.NoError(t, err)
		assert.Equalf(t, expectedRoot, root, "A %T cached tree should compute the uncached root", digests)
		assert.Positivef(t, digests.Size(), "The %T cache should hold level digests", digests)

		// a second pass hits the cache and must not diverge
		root, err = tree.Root()
		require.NoError(t, err)
		assert.Equalf(t, expectedRoot, root, "A warm %T cache should not change the root", digests)

		for i, leaf := range leaves {
			proof, err := tree.ProveMembership(leaf)
			require.NoError(t, err)

			expectedProof, err := uncached.ProveMembership(leaf)
			require.NoError(t, err)

			assert.Equalf(t, expectedProof.AuditPath(), proof.AuditPath(),
				"The cached and uncached audit paths should match for leaf %d", i)
		}
	}
}
