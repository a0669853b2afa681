package anchor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/MavuriAlekhya2005/docverify/internal/config"
)

// httpAnchor submits roots to an external anchoring service over its
// JSON API. Submissions POST to /anchors and status polls GET
// /anchors/{txID}.
type httpAnchor struct {
	endpoint string
	token    string
	client   *http.Client
	logger   *slog.Logger
}

func newHTTPAnchor(cfg config.AnchorConfig, logger *slog.Logger) *httpAnchor {
	return &httpAnchor{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		token:    cfg.Token,
		client:   &http.Client{Timeout: cfg.TimeoutDuration()},
		logger:   logger.With("system", "anchor", "mode", "http"),
	}
}

type submitRequest struct {
	MerkleRoot string `json:"merkle_root"`
	LeafCount  int    `json:"leaf_count"`
}

type submitResponse struct {
	TxID string `json:"tx_id"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func (a *httpAnchor) Submit(ctx context.Context, merkleRoot string, leafCount int) (string, error) {
	body, err := json.Marshal(submitRequest{MerkleRoot: merkleRoot, LeafCount: leafCount})
	if err != nil {
		return "", fmt.Errorf("encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint+"/anchors", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	a.authorize(req)

	res, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit root: %w", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusOK, res.StatusCode == http.StatusCreated, res.StatusCode == http.StatusAccepted:
	case res.StatusCode >= 400 && res.StatusCode < 500:
		return "", fmt.Errorf("%w: status %d", ErrRejected, res.StatusCode)
	default:
		return "", fmt.Errorf("anchor service returned status %d", res.StatusCode)
	}

	var parsed submitResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode submission response: %w", err)
	}
	if parsed.TxID == "" {
		return "", fmt.Errorf("anchor service returned empty transaction id")
	}

	a.logger.Info("root submitted", "root", merkleRoot, "leaves", leafCount, "tx", parsed.TxID)
	return parsed.TxID, nil
}

func (a *httpAnchor) Status(ctx context.Context, txID string) (TxStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.endpoint+"/anchors/"+txID, nil)
	if err != nil {
		return "", fmt.Errorf("build status request: %w", err)
	}
	a.authorize(req)

	res, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("poll status: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return "", ErrTxNotFound
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anchor service returned status %d", res.StatusCode)
	}

	var parsed statusResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode status response: %w", err)
	}

	switch TxStatus(parsed.Status) {
	case StatusPending, StatusConfirmed, StatusFailed:
		return TxStatus(parsed.Status), nil
	default:
		return "", fmt.Errorf("unknown transaction status: %q", parsed.Status)
	}
}

func (a *httpAnchor) authorize(req *http.Request) {
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
}
