package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/MavuriAlekhya2005/docverify/pkg/pagination"
)

// System defines the account management operations.
type System interface {
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[User], error)
	Find(ctx context.Context, id uuid.UUID) (*User, error)
	Create(ctx context.Context, cmd CreateCommand) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
}
