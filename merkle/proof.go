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
	"github.com/bbva/claimtree/hashing"
	"github.com/bbva/claimtree/log"
)

// AuditPath is the ordered sequence of sibling nodes needed to recompute
// the root starting from one leaf. Levels where the leaf's node was carried
// up unpaired contribute no entry.
type AuditPath []Node

// MembershipProof proves that a leaf belongs to the set committed by a
// root digest. Holders of one leaf can check it against a published root
// without access to the rest of the set.
type MembershipProof struct {
	auditPath AuditPath
	hasherF   func() hashing.Hasher
}

func NewMembershipProof(auditPath AuditPath, hasherF func() hashing.Hasher) *MembershipProof {
	return &MembershipProof{
		auditPath: auditPath,
		hasherF:   hasherF,
	}
}

// AuditPath returns the sibling nodes of the proof, bottom level first.
func (p MembershipProof) AuditPath() AuditPath {
	return p.auditPath
}

// Verify recomputes the root from the leaf commitment and the recorded
// siblings, and compares it against the expected one. A mismatch is a
// normal outcome, never an error.
func (p MembershipProof) Verify(leaf Leaf, expectedRoot Node) bool {

	log.Debugf("Verifying membership proof for leaf %x", leaf.Value())

	hasher := p.hasherF()
	current := NewNode(leaf.Value())
	for _, sibling := range p.auditPath {
		current = current.Combine(sibling, hasher)
	}
	return current.Equals(expectedRoot)
}
