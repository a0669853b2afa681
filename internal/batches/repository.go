package batches

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/MavuriAlekhya2005/docverify/internal/anchor"
	"github.com/MavuriAlekhya2005/docverify/pkg/merkle"
	"github.com/MavuriAlekhya2005/docverify/pkg/pagination"
	"github.com/MavuriAlekhya2005/docverify/pkg/query"
	"github.com/MavuriAlekhya2005/docverify/pkg/repository"
)

type repo struct {
	db         *sql.DB
	anchors    anchor.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a batch repository backed by the database and the anchoring
// backend.
func New(db *sql.DB, anchors anchor.System, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		anchors:    anchors,
		logger:     logger.With("system", "batches"),
		pagination: pagination,
	}
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Batch], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count batches: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanBatch)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Batch, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		BuildSingle("Id", id)

	batch, err := repository.QueryOne(ctx, r.db, q, args, scanBatch)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &batch, nil
}

func (r *repo) Members(ctx context.Context, id uuid.UUID) ([]Member, error) {
	q := `SELECT id, content_hash, leaf_index
		FROM certificates
		WHERE batch_id = $1
		ORDER BY leaf_index`

	members, err := repository.QueryMany(ctx, r.db, q, []any{id}, scanMember)
	if err != nil {
		return nil, fmt.Errorf("query batch members: %w", err)
	}
	return members, nil
}

func (r *repo) Create(ctx context.Context, certificateIDs []uuid.UUID) (*Batch, error) {
	id := uuid.New()

	single, singleArgs := query.
		NewBuilder(projection, defaultSort).
		BuildSingle("Id", id)

	batch, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Batch, error) {
		members, err := r.lockEligible(ctx, tx, certificateIDs)
		if err != nil {
			return Batch{}, err
		}

		leaves := make([]merkle.Hash, len(members))
		for i, m := range members {
			leaf, err := merkle.ParseHash(m.ContentHash)
			if err != nil {
				return Batch{}, fmt.Errorf("certificate %s: %w", m.CertificateID, err)
			}
			leaves[i] = leaf
		}

		root, err := merkle.Root(leaves)
		if err != nil {
			return Batch{}, fmt.Errorf("compute root: %w", err)
		}

		insert := `INSERT INTO batches(id, merkle_root, leaf_count, status)
			VALUES($1, $2, $3, $4)`
		if _, err := tx.ExecContext(ctx, insert, id, root.Hex(), len(members), StatusPending); err != nil {
			return Batch{}, err
		}

		assign := `UPDATE certificates SET batch_id = $1, leaf_index = $2, updated_at = now() WHERE id = $3`
		for i, m := range members {
			if err := repository.ExecExpectOne(ctx, tx, assign, id, i, m.CertificateID); err != nil {
				return Batch{}, fmt.Errorf("assign certificate %s: %w", m.CertificateID, err)
			}
		}

		return repository.QueryOne(ctx, tx, single, singleArgs, scanBatch)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("batch created", "id", batch.ID, "root", batch.MerkleRoot, "leaves", batch.LeafCount)

	// Submission happens outside the transaction; a failure leaves the
	// batch pending with the error recorded, to be retried on refresh.
	return r.submit(ctx, &batch)
}

type eligibleRow struct {
	member Member
	status string
	batch  *uuid.UUID
}

func scanEligible(s repository.Scanner) (eligibleRow, error) {
	var row eligibleRow
	err := s.Scan(&row.member.CertificateID, &row.member.ContentHash, &row.status, &row.batch)
	return row, err
}

// lockEligible selects and row-locks the certificates joining a batch so
// concurrent batch creation cannot claim the same rows. With no ids, every
// completed unbatched certificate is taken; leaf order is certificate id
// order in both cases.
func (r *repo) lockEligible(ctx context.Context, tx *sql.Tx, ids []uuid.UUID) ([]Member, error) {
	// Repeated ids would collapse inside IN (...) and skew the row count
	// comparison below.
	ids = dedupeIDs(ids)

	q := `SELECT id, content_hash, extraction_status, batch_id
		FROM certificates
		WHERE extraction_status = 'completed' AND batch_id IS NULL
		ORDER BY id
		FOR UPDATE`
	var args []any

	if len(ids) > 0 {
		placeholders := make([]string, len(ids))
		args = make([]any, len(ids))
		for i, cid := range ids {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
			args[i] = cid
		}
		q = fmt.Sprintf(`SELECT id, content_hash, extraction_status, batch_id
			FROM certificates
			WHERE id IN (%s)
			ORDER BY id
			FOR UPDATE`, strings.Join(placeholders, ", "))
	}

	rows, err := repository.QueryMany(ctx, tx, q, args, scanEligible)
	if err != nil {
		return nil, fmt.Errorf("query eligible certificates: %w", err)
	}

	if len(ids) > 0 {
		if len(rows) != len(ids) {
			return nil, fmt.Errorf("%w: %d of %d requested certificates exist", ErrCertificateNotFound, len(rows), len(ids))
		}
		for _, row := range rows {
			if row.status != "completed" || row.batch != nil {
				return nil, fmt.Errorf("certificate %s: %w", row.member.CertificateID, ErrIneligible)
			}
		}
	} else if len(rows) == 0 {
		return nil, ErrNoEligible
	}

	members := make([]Member, len(rows))
	for i, row := range rows {
		members[i] = row.member
	}
	return members, nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (r *repo) Refresh(ctx context.Context, id uuid.UUID) (*Batch, error) {
	batch, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	switch batch.Status {
	case StatusPending:
		return r.submit(ctx, batch)
	case StatusSubmitted:
		return r.poll(ctx, batch)
	default:
		return batch, nil
	}
}

func (r *repo) Prove(ctx context.Context, certificateID uuid.UUID) (*InclusionProof, error) {
	var (
		batchID     *uuid.UUID
		leafIndex   *int
		contentHash string
	)

	locate := `SELECT batch_id, leaf_index, content_hash FROM certificates WHERE id = $1`
	if err := r.db.QueryRowContext(ctx, locate, certificateID).Scan(&batchID, &leafIndex, &contentHash); err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	if batchID == nil || leafIndex == nil {
		return nil, ErrNotBatched
	}

	batch, err := r.Find(ctx, *batchID)
	if err != nil {
		return nil, err
	}

	members, err := r.Members(ctx, batch.ID)
	if err != nil {
		return nil, err
	}

	leaves := make([]merkle.Hash, len(members))
	for i, m := range members {
		if m.LeafIndex != i {
			return nil, fmt.Errorf("batch %s: leaf indexes are not contiguous", batch.ID)
		}
		leaf, err := merkle.ParseHash(m.ContentHash)
		if err != nil {
			return nil, fmt.Errorf("certificate %s: %w", m.CertificateID, err)
		}
		leaves[i] = leaf
	}

	root, err := merkle.Root(leaves)
	if err != nil {
		return nil, fmt.Errorf("recompute root: %w", err)
	}
	if root.Hex() != batch.MerkleRoot {
		r.logger.Error("anchored root mismatch", "batch", batch.ID, "stored", batch.MerkleRoot, "computed", root.Hex())
		return nil, ErrRootMismatch
	}

	proof, err := merkle.Prove(leaves, *leafIndex)
	if err != nil {
		return nil, fmt.Errorf("build proof: %w", err)
	}

	return &InclusionProof{
		CertificateID: certificateID,
		ContentHash:   contentHash,
		LeafIndex:     *leafIndex,
		BatchID:       batch.ID,
		MerkleRoot:    batch.MerkleRoot,
		BatchStatus:   batch.Status,
		TxID:          batch.TxID,
		Proof:         proof,
	}, nil
}

func (r *repo) submit(ctx context.Context, batch *Batch) (*Batch, error) {
	txID, err := r.anchors.Submit(ctx, batch.MerkleRoot, batch.LeafCount)
	if err != nil {
		r.logger.Error("batch submission failed", "id", batch.ID, "error", err)

		record := `UPDATE batches SET anchor_error = $1, updated_at = now() WHERE id = $2`
		if _, recErr := r.db.ExecContext(ctx, record, err.Error(), batch.ID); recErr != nil {
			r.logger.Error("failed to record anchor error", "id", batch.ID, "error", recErr)
		}
		return r.Find(ctx, batch.ID)
	}

	update := `UPDATE batches
		SET status = $1, tx_id = $2, anchor_error = NULL, submitted_at = now(), updated_at = now()
		WHERE id = $3`
	if err := repository.ExecExpectOne(ctx, r.db, update, StatusSubmitted, txID, batch.ID); err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("batch submitted", "id", batch.ID, "tx", txID)
	return r.Find(ctx, batch.ID)
}

func (r *repo) poll(ctx context.Context, batch *Batch) (*Batch, error) {
	if batch.TxID == nil {
		return nil, fmt.Errorf("batch %s is submitted without a transaction id", batch.ID)
	}

	status, err := r.anchors.Status(ctx, *batch.TxID)
	if err != nil {
		return nil, fmt.Errorf("poll anchor status: %w", err)
	}

	switch status {
	case anchor.StatusConfirmed:
		return r.confirm(ctx, batch)
	case anchor.StatusFailed:
		update := `UPDATE batches SET status = $1, anchor_error = $2, updated_at = now() WHERE id = $3`
		if err := repository.ExecExpectOne(ctx, r.db, update, StatusFailed, "anchoring transaction failed", batch.ID); err != nil {
			return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}
		r.logger.Warn("batch anchoring failed", "id", batch.ID, "tx", *batch.TxID)
		return r.Find(ctx, batch.ID)
	default:
		return batch, nil
	}
}

func (r *repo) confirm(ctx context.Context, batch *Batch) (*Batch, error) {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		update := `UPDATE batches SET status = $1, confirmed_at = now(), updated_at = now() WHERE id = $2`
		if err := repository.ExecExpectOne(ctx, tx, update, StatusConfirmed, batch.ID); err != nil {
			return struct{}{}, err
		}

		// Push the anchoring facts into every member's stored
		// verification summary so public verification reads one row.
		summaries := `UPDATE certificates
			SET verification_summary = COALESCE(verification_summary, '{}'::jsonb) || jsonb_build_object(
					'anchored', true,
					'merkle_root', $1::text,
					'tx_id', $2::text,
					'anchored_at', to_char(now() at time zone 'utc', 'YYYY-MM-DD"T"HH24:MI:SS"Z"')
				),
				updated_at = now()
			WHERE batch_id = $3`
		if _, err := tx.ExecContext(ctx, summaries, batch.MerkleRoot, batch.TxID, batch.ID); err != nil {
			return struct{}{}, fmt.Errorf("update member summaries: %w", err)
		}

		return struct{}{}, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("batch confirmed", "id", batch.ID, "root", batch.MerkleRoot)
	return r.Find(ctx, batch.ID)
}
