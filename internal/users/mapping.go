package users

import (
	"net/url"

	"github.com/MavuriAlekhya2005/docverify/pkg/query"
	"github.com/MavuriAlekhya2005/docverify/pkg/repository"
)

var projection = query.NewProjectionMap("public", "users", "u").
	Project("id", "Id").
	Project("email", "Email").
	Project("name", "Name").
	Project("password_hash", "PasswordHash").
	Project("role", "Role").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

func scanUser(s repository.Scanner) (User, error) {
	var u User
	err := s.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

// Filters contains optional criteria for filtering account queries.
type Filters struct {
	Role *string
}

// FiltersFromQuery extracts account filters from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if r := values.Get("role"); r != "" {
		f.Role = &r
	}

	return f
}

// Apply adds filter conditions to the query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	if f.Role != nil {
		b.WhereEquals("Role", *f.Role)
	}
	return b
}
