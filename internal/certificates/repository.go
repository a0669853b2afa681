package certificates

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MavuriAlekhya2005/docverify/internal/storage"
	"github.com/MavuriAlekhya2005/docverify/pkg/pagination"
	"github.com/MavuriAlekhya2005/docverify/pkg/query"
	"github.com/MavuriAlekhya2005/docverify/pkg/repository"
)

type repo struct {
	db         *sql.DB
	blobs      storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a certificate repository backed by the database and blob
// storage.
func New(db *sql.DB, blobs storage.System, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		blobs:      blobs,
		logger:     logger.With("system", "certificates"),
		pagination: pagination,
	}
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, owner *uuid.UUID, filters Filters) (*pagination.PageResult[Certificate], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort)
	if owner != nil {
		qb.WhereEquals("OwnerId", *owner)
	}
	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count certificates: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	certs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanCertificate)
	if err != nil {
		return nil, fmt.Errorf("query certificates: %w", err)
	}

	result := pagination.NewPageResult(certs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Certificate, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		BuildSingle("Id", id)

	cert, err := repository.QueryOne(ctx, r.db, q, args, scanCertificate)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &cert, nil
}

func (r *repo) FindByHash(ctx context.Context, contentHash string) (*Certificate, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		BuildSingle("ContentHash", strings.ToLower(contentHash))

	cert, err := repository.QueryOne(ctx, r.db, q, args, scanCertificate)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &cert, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Certificate, string, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, "", ErrInvalidName
	}
	if len(cmd.Data) == 0 {
		return nil, "", ErrInvalidFile
	}

	sum := sha256.Sum256(cmd.Data)
	contentHash := hex.EncodeToString(sum[:])

	accessKey := newAccessKey()
	keyHash, err := bcrypt.GenerateFromPassword([]byte(accessKey), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash access key: %w", err)
	}

	id := uuid.New()
	storageKey := buildStorageKey(id, cmd.Filename)

	if err := r.blobs.Store(ctx, storageKey, cmd.Data); err != nil {
		return nil, "", fmt.Errorf("store file: %w", err)
	}

	// Insert then read back inside the same transaction so the returned
	// record carries all database-assigned defaults.
	insert := `INSERT INTO certificates(
			id, owner_id, name, filename, content_type, size_bytes,
			page_count, content_hash, storage_key, access_key_hash
		)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	single, singleArgs := query.
		NewBuilder(projection, defaultSort).
		BuildSingle("Id", id)

	cert, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Certificate, error) {
		if _, err := tx.ExecContext(ctx, insert,
			id, cmd.OwnerID, name, sanitizeFilename(cmd.Filename),
			cmd.ContentType, cmd.SizeBytes, cmd.PageCount,
			contentHash, storageKey, string(keyHash),
		); err != nil {
			return Certificate{}, err
		}
		return repository.QueryOne(ctx, tx, single, singleArgs, scanCertificate)
	})

	if err != nil {
		// The blob is orphaned if the insert failed; remove it so storage
		// stays consistent with the database.
		if cleanup := r.blobs.Delete(ctx, storageKey); cleanup != nil {
			r.logger.Error("orphaned blob cleanup failed", "key", storageKey, "error", cleanup)
		}
		return nil, "", repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("certificate created",
		"id", cert.ID,
		"owner", cert.OwnerID,
		"hash", cert.ContentHash,
		"size", cert.SizeBytes,
	)
	return &cert, accessKey, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Certificate, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	q := `UPDATE certificates SET name = $1, updated_at = now() WHERE id = $2`
	if err := repository.ExecExpectOne(ctx, r.db, q, name, id); err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return r.Find(ctx, id)
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	cert, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	if err := deletable(cert); err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		// Re-check under a row lock so concurrent batch creation cannot
		// claim the certificate between the guard and the delete.
		var batchID *uuid.UUID
		lock := `SELECT batch_id FROM certificates WHERE id = $1 FOR UPDATE`
		if err := tx.QueryRowContext(ctx, lock, id).Scan(&batchID); err != nil {
			return struct{}{}, err
		}
		if batchID != nil {
			return struct{}{}, ErrBatched
		}

		err := repository.ExecExpectOne(ctx, tx, `DELETE FROM certificates WHERE id = $1`, id)
		return struct{}{}, err
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if err := r.blobs.Delete(ctx, cert.StorageKey); err != nil {
		r.logger.Error("blob delete failed", "key", cert.StorageKey, "error", err)
	}

	r.logger.Info("certificate deleted", "id", id)
	return nil
}

func (r *repo) Download(ctx context.Context, id uuid.UUID) ([]byte, *Certificate, error) {
	cert, err := r.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	data, err := r.blobs.Retrieve(ctx, cert.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve file: %w", err)
	}

	q := `UPDATE certificates SET download_count = download_count + 1, updated_at = now() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, q, id); err != nil {
		r.logger.Error("download counter update failed", "id", id, "error", err)
	}

	return data, cert, nil
}

func (r *repo) Requeue(ctx context.Context, id uuid.UUID) error {
	cert, err := r.Find(ctx, id)
	if err != nil {
		return err
	}
	if err := requeueable(cert); err != nil {
		return err
	}

	q := `UPDATE certificates
		SET extraction_status = $1,
			extraction_error = NULL,
			processing_started_at = NULL,
			updated_at = now()
		WHERE id = $2`
	if err := repository.ExecExpectOne(ctx, r.db, q, ExtractionPending, id); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("certificate re-queued for extraction", "id", id)
	return nil
}

func (r *repo) RecordVerification(ctx context.Context, id uuid.UUID) error {
	q := `UPDATE certificates SET verification_count = verification_count + 1 WHERE id = $1`
	if err := repository.ExecExpectOne(ctx, r.db, q, id); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) UnlockFull(ctx context.Context, id uuid.UUID, accessKey string) (*FullDetails, error) {
	cert, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cert.AccessKeyHash), []byte(accessKey)); err != nil {
		return nil, ErrAccessDenied
	}
	if cert.FullDetails == nil {
		return nil, ErrDetailsUnavailable
	}

	q := `UPDATE certificates SET full_access_count = full_access_count + 1 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, q, id); err != nil {
		r.logger.Error("full access counter update failed", "id", id, "error", err)
	}

	return cert.FullDetails, nil
}

func (r *repo) ClaimPending(ctx context.Context) (*Certificate, error) {
	q := `UPDATE certificates
		SET extraction_status = $1,
			processing_started_at = now(),
			updated_at = now()
		WHERE id = (
			SELECT id FROM certificates
			WHERE extraction_status = $2
			ORDER BY created_at
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id`

	var id uuid.UUID
	if err := r.db.QueryRowContext(ctx, q, ExtractionProcessing, ExtractionPending).Scan(&id); err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return r.Find(ctx, id)
}

func (r *repo) CompleteExtraction(ctx context.Context, id uuid.UUID, primary *PrimaryDetails, full *FullDetails) error {
	return r.finishExtraction(ctx, id, ExtractionCompleted, primary, full, nil)
}

func (r *repo) FailExtraction(ctx context.Context, id uuid.UUID, reason string) error {
	return r.finishExtraction(ctx, id, ExtractionFailed, nil, nil, &reason)
}

func (r *repo) finishExtraction(ctx context.Context, id uuid.UUID, status ExtractionStatus, primary *PrimaryDetails, full *FullDetails, reason *string) error {
	single, singleArgs := query.
		NewBuilder(projection, defaultSort).
		BuildSingle("Id", id)

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		cert, err := repository.QueryOne(ctx, tx, single, singleArgs, scanCertificate)
		if err != nil {
			return struct{}{}, err
		}

		cert.ExtractionStatus = status
		cert.PrimaryDetails = primary
		summary := BuildSummary(&cert)
		preserveAnchor(summary, cert.VerificationSummary)

		primaryRaw, err := marshalDetail(primary)
		if err != nil {
			return struct{}{}, fmt.Errorf("marshal primary details: %w", err)
		}
		fullRaw, err := marshalDetail(full)
		if err != nil {
			return struct{}{}, fmt.Errorf("marshal full details: %w", err)
		}
		summaryRaw, err := marshalDetail(summary)
		if err != nil {
			return struct{}{}, fmt.Errorf("marshal summary: %w", err)
		}

		q := `UPDATE certificates
			SET extraction_status = $1,
				extraction_error = $2,
				processing_started_at = NULL,
				primary_details = $3,
				full_details = $4,
				verification_summary = $5,
				updated_at = now()
			WHERE id = $6`
		err = repository.ExecExpectOne(ctx, tx, q, status, reason, primaryRaw, fullRaw, summaryRaw, id)
		return struct{}{}, err
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("extraction finished", "id", id, "status", status)
	return nil
}

func (r *repo) ResetStale(ctx context.Context, lease time.Duration) (int64, error) {
	q := `UPDATE certificates
		SET extraction_status = $1,
			processing_started_at = NULL,
			updated_at = now()
		WHERE extraction_status = $2
			AND processing_started_at < now() - $3::interval`

	result, err := r.db.ExecContext(ctx, q, ExtractionPending, ExtractionProcessing, lease.String())
	if err != nil {
		return 0, fmt.Errorf("reset stale extractions: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		r.logger.Warn("stale extractions reset", "count", affected)
	}
	return affected, nil
}

// requeueable limits re-queueing to failed extractions. Pending and
// processing rows are already owned by the worker queue, and completed
// rows may already be batch members whose details must stay stable.
func requeueable(cert *Certificate) error {
	if cert.ExtractionStatus != ExtractionFailed {
		return ErrNotExtractable
	}
	return nil
}

// deletable refuses deletion for any batch member. The batch's stored root
// is computed from its members, and a pending batch can still be
// resubmitted and confirmed, so membership alone blocks deletion.
func deletable(cert *Certificate) error {
	if cert.BatchID != nil {
		return ErrBatched
	}
	return nil
}

// preserveAnchor carries anchoring fields from the previous summary so a
// re-extraction does not erase confirmed batch data.
func preserveAnchor(next, prev *Summary) {
	if prev == nil || !prev.Anchored {
		return
	}
	next.Anchored = true
	next.MerkleRoot = prev.MerkleRoot
	next.TxID = prev.TxID
	next.AnchoredAt = prev.AnchoredAt
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return path.Join("certificates", id.String(), sanitizeFilename(filename))
}

func sanitizeFilename(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return "document"
	}
	return name
}
