// Package anchor submits merkle roots to an anchoring backend and polls
// their confirmation status. The http mode talks to an external anchoring
// service; the local mode provides a deterministic in-process anchor for
// development and testing.
package anchor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MavuriAlekhya2005/docverify/internal/config"
)

// TxStatus reports the state of a submitted anchor transaction.
type TxStatus string

// Transaction status constants.
const (
	StatusPending   TxStatus = "pending"
	StatusConfirmed TxStatus = "confirmed"
	StatusFailed    TxStatus = "failed"
)

// Anchoring errors.
var (
	ErrTxNotFound = errors.New("anchor: transaction not found")
	ErrRejected   = errors.New("anchor: submission rejected")
)

// System defines the anchoring backend operations.
type System interface {
	// Submit anchors a merkle root and returns the backend transaction id.
	Submit(ctx context.Context, merkleRoot string, leafCount int) (string, error)

	// Status reports the current state of a submitted transaction.
	// Returns ErrTxNotFound for unknown transaction ids.
	Status(ctx context.Context, txID string) (TxStatus, error)
}

// New creates the anchoring backend selected by the configuration.
func New(cfg config.AnchorConfig, logger *slog.Logger) (System, error) {
	switch cfg.Mode {
	case config.AnchorModeHTTP:
		return newHTTPAnchor(cfg, logger), nil
	case config.AnchorModeLocal:
		return newLocalAnchor(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown anchor mode: %s", cfg.Mode)
	}
}
