package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"visit-route-service/internal/domain"
)

// Postgres-backed implementation of the read-only UserRepository port.
type PostgresUserRepository struct{ DB *sql.DB }

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// Retrieve a user by id.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	if r.DB == nil {
		return domain.User{}, errors.New("user repository: DB is nil")
	}

	query := `
	SELECT id, name, email, role, active
	FROM users
	WHERE id = $1;
	`
	var user domain.User
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.Role, &user.Active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, fmt.Errorf("get user %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: query users table: %w", err)
	}

	return user, nil
}
