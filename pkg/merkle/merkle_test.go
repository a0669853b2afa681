package merkle_test

import (
	"crypto/sha256"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MavuriAlekhya2005/docverify/pkg/merkle"
)

func testLeaves(n int) []merkle.Hash {
	leaves := make([]merkle.Hash, n)
	for i := range leaves {
		leaves[i] = merkle.HashLeaf([]byte(fmt.Sprintf("document-%d", i)))
	}
	return leaves
}

func TestRoot_Empty(t *testing.T) {
	_, err := merkle.Root(nil)
	assert.ErrorIs(t, err, merkle.ErrEmptyTree)
}

func TestRoot_SingleLeaf(t *testing.T) {
	leaves := testLeaves(1)

	root, err := merkle.Root(leaves)
	require.NoError(t, err)
	assert.Equal(t, leaves[0], root)
}

func TestRoot_TwoLeaves(t *testing.T) {
	leaves := testLeaves(2)

	root, err := merkle.Root(leaves)
	require.NoError(t, err)

	h := sha256.New()
	h.Write(leaves[0][:])
	h.Write(leaves[1][:])
	var want merkle.Hash
	copy(want[:], h.Sum(nil))

	assert.Equal(t, want, root)
}

func TestRoot_Deterministic(t *testing.T) {
	leaves := testLeaves(7)

	a, err := merkle.Root(leaves)
	require.NoError(t, err)
	b, err := merkle.Root(leaves)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestRoot_OrderSensitive(t *testing.T) {
	leaves := testLeaves(4)
	swapped := []merkle.Hash{leaves[1], leaves[0], leaves[2], leaves[3]}

	a, err := merkle.Root(leaves)
	require.NoError(t, err)
	b, err := merkle.Root(swapped)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestRoot_PromotionDistinguishesDuplicatedTail(t *testing.T) {
	// With last-node duplication, [a b c] and [a b c c] collide.
	// Promotion must keep them distinct.
	three := testLeaves(3)
	four := append(testLeaves(3), three[2])

	a, err := merkle.Root(three)
	require.NoError(t, err)
	b, err := merkle.Root(four)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestProve_IndexOutOfRange(t *testing.T) {
	leaves := testLeaves(3)

	_, err := merkle.Prove(leaves, -1)
	assert.ErrorIs(t, err, merkle.ErrIndexOutOfRange)

	_, err = merkle.Prove(leaves, 3)
	assert.ErrorIs(t, err, merkle.ErrIndexOutOfRange)
}

func TestProve_Empty(t *testing.T) {
	_, err := merkle.Prove(nil, 0)
	assert.ErrorIs(t, err, merkle.ErrEmptyTree)
}

func TestProveVerify_AllSizesAllIndexes(t *testing.T) {
	for n := 1; n <= 33; n++ {
		leaves := testLeaves(n)
		root, err := merkle.Root(leaves)
		require.NoError(t, err)

		for i := 0; i < n; i++ {
			proof, err := merkle.Prove(leaves, i)
			require.NoError(t, err, "n=%d i=%d", n, i)
			assert.True(t, merkle.Verify(root, leaves[i], proof), "n=%d i=%d", n, i)
		}
	}
}

func TestVerify_WrongLeaf(t *testing.T) {
	leaves := testLeaves(8)
	root, err := merkle.Root(leaves)
	require.NoError(t, err)

	proof, err := merkle.Prove(leaves, 3)
	require.NoError(t, err)

	assert.False(t, merkle.Verify(root, leaves[4], proof))
	assert.False(t, merkle.Verify(root, merkle.HashLeaf([]byte("forged")), proof))
}

func TestVerify_TamperedProof(t *testing.T) {
	leaves := testLeaves(8)
	root, err := merkle.Root(leaves)
	require.NoError(t, err)

	proof, err := merkle.Prove(leaves, 5)
	require.NoError(t, err)

	proof.Steps[1].Hash[0] ^= 0xff
	assert.False(t, merkle.Verify(root, leaves[5], proof))
}

func TestProve_LogarithmicLength(t *testing.T) {
	leaves := testLeaves(1024)

	proof, err := merkle.Prove(leaves, 511)
	require.NoError(t, err)

	assert.Len(t, proof.Steps, 10)
}

func TestHash_HexRoundTrip(t *testing.T) {
	h := merkle.HashLeaf([]byte("certificate"))

	parsed, err := merkle.ParseHash(h.Hex())
	require.NoError(t, err)
	assert.Equal(t, h, parsed)
}

func TestParseHash_Invalid(t *testing.T) {
	_, err := merkle.ParseHash("zz")
	assert.Error(t, err)

	_, err = merkle.ParseHash("abcd")
	assert.Error(t, err)
}
