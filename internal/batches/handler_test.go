package batches

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/MavuriAlekhya2005/docverify/pkg/merkle"
	"github.com/MavuriAlekhya2005/docverify/pkg/pagination"
)

// fakeSystem keeps batches in memory and advances the anchoring status one
// step per refresh, mirroring the pending, submitted, confirmed workflow.
type fakeSystem struct {
	eligible    []Member
	batches     map[uuid.UUID]*Batch
	members     map[uuid.UUID][]Member
	createdWith []uuid.UUID
}

func newFake(leafCount int) *fakeSystem {
	f := &fakeSystem{
		batches: make(map[uuid.UUID]*Batch),
		members: make(map[uuid.UUID][]Member),
	}
	for i := range leafCount {
		hash := merkle.HashLeaf(fmt.Appendf(nil, "document-%d", i))
		f.eligible = append(f.eligible, Member{
			CertificateID: uuid.New(),
			ContentHash:   hash.Hex(),
		})
	}
	return f
}

func (f *fakeSystem) List(_ context.Context, page pagination.PageRequest, _ Filters) (*pagination.PageResult[Batch], error) {
	var items []Batch
	for _, b := range f.batches {
		items = append(items, *b)
	}
	result := pagination.NewPageResult(items, len(items), 1, len(items)+1)
	return &result, nil
}

func (f *fakeSystem) Find(_ context.Context, id uuid.UUID) (*Batch, error) {
	batch, ok := f.batches[id]
	if !ok {
		return nil, ErrNotFound
	}
	return batch, nil
}

func (f *fakeSystem) Members(_ context.Context, id uuid.UUID) ([]Member, error) {
	return f.members[id], nil
}

func (f *fakeSystem) Create(_ context.Context, certificateIDs []uuid.UUID) (*Batch, error) {
	f.createdWith = certificateIDs

	chosen := f.eligible
	if len(certificateIDs) > 0 {
		chosen = nil
		for _, id := range certificateIDs {
			found := false
			for _, m := range f.eligible {
				if m.CertificateID == id {
					chosen = append(chosen, m)
					found = true
					break
				}
			}
			if !found {
				return nil, ErrCertificateNotFound
			}
		}
	}
	if len(chosen) == 0 {
		return nil, ErrNoEligible
	}

	leaves := make([]merkle.Hash, len(chosen))
	for i := range chosen {
		chosen[i].LeafIndex = i
		leaf, err := merkle.ParseHash(chosen[i].ContentHash)
		if err != nil {
			return nil, err
		}
		leaves[i] = leaf
	}

	root, err := merkle.Root(leaves)
	if err != nil {
		return nil, err
	}

	batch := &Batch{
		ID:         uuid.New(),
		MerkleRoot: root.Hex(),
		LeafCount:  len(chosen),
		Status:     StatusPending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	f.batches[batch.ID] = batch
	f.members[batch.ID] = chosen
	return batch, nil
}

func (f *fakeSystem) Refresh(_ context.Context, id uuid.UUID) (*Batch, error) {
	batch, ok := f.batches[id]
	if !ok {
		return nil, ErrNotFound
	}

	switch batch.Status {
	case StatusPending:
		tx := "tx-" + batch.ID.String()
		batch.Status = StatusSubmitted
		batch.TxID = &tx
	case StatusSubmitted:
		batch.Status = StatusConfirmed
	}
	return batch, nil
}

func (f *fakeSystem) Prove(_ context.Context, certificateID uuid.UUID) (*InclusionProof, error) {
	for batchID, members := range f.members {
		for _, m := range members {
			if m.CertificateID != certificateID {
				continue
			}

			leaves := make([]merkle.Hash, len(members))
			for i, member := range members {
				leaf, err := merkle.ParseHash(member.ContentHash)
				if err != nil {
					return nil, err
				}
				leaves[i] = leaf
			}

			proof, err := merkle.Prove(leaves, m.LeafIndex)
			if err != nil {
				return nil, err
			}

			batch := f.batches[batchID]
			return &InclusionProof{
				CertificateID: certificateID,
				ContentHash:   m.ContentHash,
				LeafIndex:     m.LeafIndex,
				BatchID:       batchID,
				MerkleRoot:    batch.MerkleRoot,
				BatchStatus:   batch.Status,
				TxID:          batch.TxID,
				Proof:         proof,
			}, nil
		}
	}
	return nil, ErrNotBatched
}

func testHandler(sys System) *Handler {
	return NewHandler(sys, nil, slog.New(slog.DiscardHandler), pagination.Config{})
}

func doRequest(t *testing.T, h http.HandlerFunc, method, pattern, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc(method+" "+pattern, h)

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestCreate_BatchesAllEligible(t *testing.T) {
	fake := newFake(3)
	h := testHandler(fake)

	rec := doRequest(t, h.Create, "POST", "/blockchain/batches", "/blockchain/batches", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var batch Batch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &batch))
	require.Equal(t, 3, batch.LeafCount)
	require.Equal(t, StatusPending, batch.Status)
	require.Len(t, batch.MerkleRoot, 64)
	require.Empty(t, fake.createdWith)
}

func TestCreate_ExplicitIDs(t *testing.T) {
	fake := newFake(3)
	h := testHandler(fake)

	ids := []uuid.UUID{fake.eligible[0].CertificateID, fake.eligible[2].CertificateID}
	body, err := json.Marshal(createRequest{CertificateIDs: ids})
	require.NoError(t, err)

	rec := doRequest(t, h.Create, "POST", "/blockchain/batches", "/blockchain/batches", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var batch Batch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &batch))
	require.Equal(t, 2, batch.LeafCount)
	require.Equal(t, ids, fake.createdWith)
}

func TestCreate_UnknownCertificate(t *testing.T) {
	fake := newFake(1)
	h := testHandler(fake)

	body, err := json.Marshal(createRequest{CertificateIDs: []uuid.UUID{uuid.New()}})
	require.NoError(t, err)

	rec := doRequest(t, h.Create, "POST", "/blockchain/batches", "/blockchain/batches", body)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreate_NoEligible(t *testing.T) {
	h := testHandler(newFake(0))

	rec := doRequest(t, h.Create, "POST", "/blockchain/batches", "/blockchain/batches", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreate_MalformedBody(t *testing.T) {
	h := testHandler(newFake(1))

	rec := doRequest(t, h.Create, "POST", "/blockchain/batches", "/blockchain/batches", []byte(`{"certificate_ids": "nope"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatus_AdvancesToConfirmed(t *testing.T) {
	fake := newFake(2)
	h := testHandler(fake)

	created, err := fake.Create(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, StatusPending, created.Status)

	target := "/blockchain/batches/" + created.ID.String() + "/status"

	rec := doRequest(t, h.Status, "GET", "/blockchain/batches/{id}/status", target, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var batch Batch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &batch))
	require.Equal(t, StatusSubmitted, batch.Status)
	require.NotNil(t, batch.TxID)

	rec = doRequest(t, h.Status, "GET", "/blockchain/batches/{id}/status", target, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &batch))
	require.Equal(t, StatusConfirmed, batch.Status)

	// Confirmed is final.
	rec = doRequest(t, h.Status, "GET", "/blockchain/batches/{id}/status", target, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &batch))
	require.Equal(t, StatusConfirmed, batch.Status)
}

func TestStatus_UnknownBatch(t *testing.T) {
	h := testHandler(newFake(0))

	rec := doRequest(t, h.Status, "GET", "/blockchain/batches/{id}/status", "/blockchain/batches/"+uuid.NewString()+"/status", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProve_VerifiesAgainstRoot(t *testing.T) {
	fake := newFake(4)
	h := testHandler(fake)

	created, err := fake.Create(context.Background(), nil)
	require.NoError(t, err)

	root, err := merkle.ParseHash(created.MerkleRoot)
	require.NoError(t, err)

	for _, m := range fake.members[created.ID] {
		rec := doRequest(t, h.Prove, "GET", "/certificates/{id}/proof", "/certificates/"+m.CertificateID.String()+"/proof", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var proof InclusionProof
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &proof))
		require.Equal(t, created.ID, proof.BatchID)
		require.Equal(t, m.LeafIndex, proof.LeafIndex)

		leaf, err := merkle.ParseHash(proof.ContentHash)
		require.NoError(t, err)
		require.True(t, merkle.Verify(root, leaf, proof.Proof), "leaf %d must verify", m.LeafIndex)
	}
}

func TestProve_Unbatched(t *testing.T) {
	h := testHandler(newFake(1))

	rec := doRequest(t, h.Prove, "GET", "/certificates/{id}/proof", "/certificates/"+uuid.NewString()+"/proof", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
