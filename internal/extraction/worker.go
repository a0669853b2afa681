// Package extraction runs the background workers that turn uploaded
// documents into extracted detail tiers. Workers claim pending
// certificates one at a time; claims use row locks so concurrent workers
// never process the same certificate, and a processing lease returns
// abandoned claims to the queue.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MavuriAlekhya2005/docverify/internal/certificates"
	"github.com/MavuriAlekhya2005/docverify/internal/config"
	"github.com/MavuriAlekhya2005/docverify/internal/lifecycle"
	"github.com/MavuriAlekhya2005/docverify/internal/storage"
)

// Worker drives the extraction pipeline.
type Worker struct {
	certs   certificates.System
	blobs   storage.System
	logger  *slog.Logger
	workers int
	poll    time.Duration
	lease   time.Duration
}

// New creates an extraction worker pool with the specified configuration.
func New(certs certificates.System, blobs storage.System, cfg config.ExtractionConfig, logger *slog.Logger) *Worker {
	return &Worker{
		certs:   certs,
		blobs:   blobs,
		logger:  logger.With("system", "extraction"),
		workers: cfg.Workers,
		poll:    cfg.PollIntervalDuration(),
		lease:   cfg.LeaseDuration(),
	}
}

// Start registers the worker pool with the lifecycle coordinator. Workers
// launch after startup completes and drain when the lifecycle context is
// cancelled.
func (w *Worker) Start(lc *lifecycle.Coordinator) error {
	ctx := lc.Context()

	lc.OnStartup(func() {
		// Claims left by a previous crash look like in-flight work;
		// release anything past its lease before workers begin.
		if _, err := w.certs.ResetStale(ctx, w.lease); err != nil {
			w.logger.Error("stale claim recovery failed", "error", err)
		}

		for i := range w.workers {
			worker := i
			lc.OnShutdown(func() {
				w.run(ctx, worker)
			})
		}

		w.logger.Info("extraction workers started", "count", w.workers, "poll", w.poll, "lease", w.lease)
	})

	return nil
}

// run is a single worker loop. It drains the queue, then sleeps for the
// poll interval before checking again. Each pass also sweeps expired
// leases so a crashed sibling's work is reclaimed.
func (w *Worker) run(ctx context.Context, id int) {
	logger := w.logger.With("worker", id)
	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	for {
		w.drain(ctx, logger)

		select {
		case <-ctx.Done():
			logger.Info("extraction worker stopped")
			return
		case <-ticker.C:
			if _, err := w.certs.ResetStale(ctx, w.lease); err != nil && ctx.Err() == nil {
				logger.Error("stale claim sweep failed", "error", err)
			}
		}
	}
}

func (w *Worker) drain(ctx context.Context, logger *slog.Logger) {
	for ctx.Err() == nil {
		cert, err := w.certs.ClaimPending(ctx)
		if err != nil {
			if !errors.Is(err, certificates.ErrNotFound) && ctx.Err() == nil {
				logger.Error("claim failed", "error", err)
			}
			return
		}

		w.process(ctx, logger, cert)
	}
}

func (w *Worker) process(ctx context.Context, logger *slog.Logger, cert *certificates.Certificate) {
	logger.Info("extracting", "id", cert.ID, "content_type", cert.ContentType)

	primary, full, err := w.extract(ctx, cert)
	if err != nil {
		logger.Error("extraction failed", "id", cert.ID, "error", err)
		if failErr := w.certs.FailExtraction(ctx, cert.ID, err.Error()); failErr != nil {
			logger.Error("failed to record extraction failure", "id", cert.ID, "error", failErr)
		}
		return
	}

	if err := w.certs.CompleteExtraction(ctx, cert.ID, primary, full); err != nil {
		logger.Error("failed to record extraction result", "id", cert.ID, "error", err)
	}
}

func (w *Worker) extract(ctx context.Context, cert *certificates.Certificate) (*certificates.PrimaryDetails, *certificates.FullDetails, error) {
	data, err := w.blobs.Retrieve(ctx, cert.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve file: %w", err)
	}

	text, err := extractText(cert.ContentType, data)
	if err != nil {
		return nil, nil, err
	}

	full := &certificates.FullDetails{
		Text:        text,
		Metadata:    buildMetadata(cert),
		ExtractedAt: time.Now().UTC(),
	}

	return parsePrimaryDetails(text), full, nil
}

func buildMetadata(cert *certificates.Certificate) map[string]string {
	meta := map[string]string{
		"filename":     cert.Filename,
		"content_type": cert.ContentType,
		"size_bytes":   fmt.Sprintf("%d", cert.SizeBytes),
	}
	if cert.PageCount != nil {
		meta["pages"] = fmt.Sprintf("%d", *cert.PageCount)
	}
	return meta
}
