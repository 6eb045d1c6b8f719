package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/agenda-generator/internal/persistence"
)

// RoleRepository implements persistence.RoleRepo using SQLite.
type RoleRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewRoleRepository creates a new SQLite role repository.
func NewRoleRepository(pool *ConnectionPool) *RoleRepository {
	return &RoleRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// Get retrieves a role by id.
func (r *RoleRepository) Get(ctx context.Context, roleID string) (persistence.Role, error) {
	if roleID == "" {
		return persistence.Role{}, persistence.ErrNotFound
	}

	query := `SELECT id, name, description FROM roles WHERE id = ?`

	var role persistence.Role
	var description sql.NullString

	err := r.helper.QueryRow(ctx, query, roleID).Scan(&role.ID, &role.Name, &description)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Role{}, persistence.ErrNotFound
		}
		return persistence.Role{}, r.mapper.MapError(err)
	}

	if description.Valid {
		role.Description = &description.String
	}

	return role, nil
}
