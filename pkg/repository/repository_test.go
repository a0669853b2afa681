package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	errNotFound  = errors.New("thing not found")
	errDuplicate = errors.New("thing already exists")
)

func TestMapError(t *testing.T) {
	if got := MapError(nil, errNotFound, errDuplicate); got != nil {
		t.Errorf("nil must stay nil, got %v", got)
	}

	if got := MapError(sql.ErrNoRows, errNotFound, errDuplicate); got != errNotFound {
		t.Errorf("expected not-found mapping, got %v", got)
	}

	wrapped := fmt.Errorf("query: %w", sql.ErrNoRows)
	if got := MapError(wrapped, errNotFound, errDuplicate); got != errNotFound {
		t.Errorf("wrapped no-rows must map, got %v", got)
	}

	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	if got := MapError(unique, errNotFound, errDuplicate); got != errDuplicate {
		t.Errorf("expected duplicate mapping, got %v", got)
	}

	foreignKey := &pgconn.PgError{Code: "23503"}
	if got := MapError(foreignKey, errNotFound, errDuplicate); !errors.Is(got, foreignKey) {
		t.Errorf("non-unique pg errors must pass through, got %v", got)
	}

	driverErr := errors.New("connection refused")
	if got := MapError(driverErr, errNotFound, errDuplicate); got != driverErr {
		t.Errorf("unknown errors must pass through, got %v", got)
	}
}
