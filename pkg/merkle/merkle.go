// Package merkle implements the content-addressed batching core: SHA-256
// Merkle trees over document content hashes, with logarithmic inclusion
// proofs for individual documents against a single anchored root.
//
// Trees use odd-node promotion: a node without a right sibling is carried
// unhashed into the next level. Unlike last-node duplication, promotion
// gives every distinct leaf set a distinct root and keeps proofs free of
// duplicated-sibling ambiguity.
package merkle

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// HashSize is the byte length of node and leaf hashes.
const HashSize = sha256.Size

// Hash is a SHA-256 digest used for leaves and interior nodes.
type Hash [HashSize]byte

// HashLeaf computes the leaf hash of raw document content.
func HashLeaf(data []byte) Hash {
	return sha256.Sum256(data)
}

// ParseHash decodes a lowercase hex digest into a Hash.
func ParseHash(s string) (Hash, error) {
	var h Hash
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("decode hash: %w", err)
	}
	if len(b) != HashSize {
		return h, fmt.Errorf("hash must be %d bytes, got %d", HashSize, len(b))
	}
	copy(h[:], b)
	return h, nil
}

// Hex returns the lowercase hex encoding of the hash.
func (h Hash) Hex() string {
	return hex.EncodeToString(h[:])
}

// MarshalText implements encoding.TextMarshaler as lowercase hex.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler from hex.
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ErrEmptyTree is returned when a tree operation receives no leaves.
var ErrEmptyTree = errors.New("merkle: tree requires at least one leaf")

// ErrIndexOutOfRange is returned when a proof is requested for a leaf
// index outside the tree.
var ErrIndexOutOfRange = errors.New("merkle: leaf index out of range")

func parent(left, right Hash) Hash {
	var buf [2 * HashSize]byte
	copy(buf[:HashSize], left[:])
	copy(buf[HashSize:], right[:])
	return sha256.Sum256(buf[:])
}

// Root computes the Merkle root of the leaves in order.
// A single leaf is its own root.
func Root(leaves []Hash) (Hash, error) {
	if len(leaves) == 0 {
		return Hash{}, ErrEmptyTree
	}

	level := make([]Hash, len(leaves))
	copy(level, leaves)

	for len(level) > 1 {
		next := level[:0:0]
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, parent(level[i], level[i+1]))
			} else {
				next = append(next, level[i])
			}
		}
		level = next
	}

	return level[0], nil
}

// Step is one level of an inclusion proof: the sibling hash and whether it
// sits to the left of the running hash.
type Step struct {
	Hash Hash `json:"hash"`
	Left bool `json:"left"`
}

// Proof is the sibling path from a leaf to the root. Its length is at most
// ceil(log2 n) for a tree of n leaves; promotion levels contribute no step.
type Proof struct {
	Steps []Step `json:"steps"`
}

// Prove computes the inclusion proof for the leaf at index.
func Prove(leaves []Hash, index int) (Proof, error) {
	if len(leaves) == 0 {
		return Proof{}, ErrEmptyTree
	}
	if index < 0 || index >= len(leaves) {
		return Proof{}, ErrIndexOutOfRange
	}

	level := make([]Hash, len(leaves))
	copy(level, leaves)

	var steps []Step
	pos := index

	for len(level) > 1 {
		sibling := pos ^ 1
		if sibling < len(level) {
			steps = append(steps, Step{
				Hash: level[sibling],
				Left: sibling < pos,
			})
		}

		next := level[:0:0]
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, parent(level[i], level[i+1]))
			} else {
				next = append(next, level[i])
			}
		}
		level = next
		pos /= 2
	}

	return Proof{Steps: steps}, nil
}

// Verify replays the proof from leaf and reports whether it reproduces root.
func Verify(root, leaf Hash, proof Proof) bool {
	current := leaf
	for _, step := range proof.Steps {
		if step.Left {
			current = parent(step.Hash, current)
		} else {
			current = parent(current, step.Hash)
		}
	}
	return current == root
}
