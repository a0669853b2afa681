package batches

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/MavuriAlekhya2005/docverify/pkg/merkle"
)

func TestFiltersFromQuery(t *testing.T) {
	values, err := url.ParseQuery("status=confirmed")
	require.NoError(t, err)

	f := FiltersFromQuery(values)
	require.Equal(t, "confirmed", f.Status)

	empty := FiltersFromQuery(url.Values{})
	require.Empty(t, empty.Status)
}

func TestDedupeIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	deduped := dedupeIDs([]uuid.UUID{a, b, a, a, b})
	require.Equal(t, []uuid.UUID{a, b}, deduped)

	require.Empty(t, dedupeIDs(nil))
	require.Equal(t, []uuid.UUID{a}, dedupeIDs([]uuid.UUID{a}))
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrCertificateNotFound, http.StatusNotFound},
		{ErrNotBatched, http.StatusNotFound},
		{ErrDuplicate, http.StatusConflict},
		{ErrNoEligible, http.StatusUnprocessableEntity},
		{fmt.Errorf("certificate x: %w", ErrIneligible), http.StatusUnprocessableEntity},
		{ErrRootMismatch, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		require.Equal(t, tc.status, MapHTTPStatus(tc.err), "error %v", tc.err)
	}
}

func TestInclusionProof_VerifiesAgainstRoot(t *testing.T) {
	leaves := make([]merkle.Hash, 5)
	for i := range leaves {
		leaves[i] = merkle.HashLeaf(fmt.Appendf(nil, "certificate-%d", i))
	}

	root, err := merkle.Root(leaves)
	require.NoError(t, err)

	for index, leaf := range leaves {
		proof, err := merkle.Prove(leaves, index)
		require.NoError(t, err)
		require.True(t, merkle.Verify(root, leaf, proof), "leaf %d must verify", index)
	}
}

func TestInclusionProof_JSONShape(t *testing.T) {
	leaves := []merkle.Hash{
		merkle.HashLeaf([]byte("a")),
		merkle.HashLeaf([]byte("b")),
	}
	proof, err := merkle.Prove(leaves, 0)
	require.NoError(t, err)

	root, err := merkle.Root(leaves)
	require.NoError(t, err)

	ip := InclusionProof{
		ContentHash: leaves[0].Hex(),
		LeafIndex:   0,
		MerkleRoot:  root.Hex(),
		BatchStatus: StatusConfirmed,
		Proof:       proof,
	}

	raw, err := json.Marshal(ip)
	require.NoError(t, err)

	var decoded struct {
		MerkleRoot string `json:"merkle_root"`
		Proof      struct {
			Steps []struct {
				Hash string `json:"hash"`
				Left bool   `json:"left"`
			} `json:"steps"`
		} `json:"proof"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, root.Hex(), decoded.MerkleRoot)
	require.Len(t, decoded.Proof.Steps, 1)
	require.Equal(t, leaves[1].Hex(), decoded.Proof.Steps[0].Hash)
}
