package anchor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"

	"github.com/MavuriAlekhya2005/docverify/internal/config"
)

// localAnchor is an in-process anchoring backend. Transaction ids are
// derived from the submitted root, so restarts recognize previously
// issued ids, and a transaction confirms after a fixed number of status
// polls to exercise the pending-to-confirmed flow.
type localAnchor struct {
	confirmAfter int
	logger       *slog.Logger

	mu    sync.Mutex
	polls map[string]int
}

func newLocalAnchor(cfg config.AnchorConfig, logger *slog.Logger) *localAnchor {
	return &localAnchor{
		confirmAfter: cfg.ConfirmAfter,
		logger:       logger.With("system", "anchor", "mode", "local"),
		polls:        make(map[string]int),
	}
}

func (a *localAnchor) Submit(ctx context.Context, merkleRoot string, leafCount int) (string, error) {
	txID := localTxID(merkleRoot)

	a.mu.Lock()
	if _, exists := a.polls[txID]; !exists {
		a.polls[txID] = 0
	}
	a.mu.Unlock()

	a.logger.Info("root anchored", "root", merkleRoot, "leaves", leafCount, "tx", txID)
	return txID, nil
}

func (a *localAnchor) Status(ctx context.Context, txID string) (TxStatus, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	polls, ok := a.polls[txID]
	if !ok {
		// Ids issued before a restart are recognizable by prefix; pick
		// them back up as pending instead of failing the batch.
		if len(txID) > 6 && txID[:6] == "local-" {
			a.polls[txID] = 0
			polls = 0
		} else {
			return "", ErrTxNotFound
		}
	}

	a.polls[txID] = polls + 1
	if polls+1 >= a.confirmAfter {
		return StatusConfirmed, nil
	}
	return StatusPending, nil
}

// localTxID derives a stable transaction id from the anchored root.
func localTxID(merkleRoot string) string {
	sum := sha256.Sum256([]byte("docverify-local-anchor:" + merkleRoot))
	return "local-" + hex.EncodeToString(sum[:16])
}
