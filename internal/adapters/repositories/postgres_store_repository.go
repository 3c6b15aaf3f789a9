package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"visit-route-service/internal/domain"
)

// Postgres-backed implementation of the read-only StoreRepository port.
type PostgresStoreRepository struct{ DB *sql.DB }

func NewPostgresStoreRepository(db *sql.DB) *PostgresStoreRepository {
	return &PostgresStoreRepository{DB: db}
}

const storeColumns = `id, display_name, city, latitude, longitude, owner_user_id, sub_owner_user_id`

// Return the stores visible to the user, ordered by display name.
func (r *PostgresStoreRepository) ListAccessible(ctx context.Context, user domain.User) ([]domain.Store, error) {
	if r.DB == nil {
		return nil, errors.New("store repository: DB is nil")
	}

	query := `SELECT ` + storeColumns + ` FROM stores`
	args := []any{}

	switch user.Role {
	case domain.RoleAdmin:
		// Administrators see every store.
	case domain.RoleSubRepresentative:
		query += ` WHERE sub_owner_user_id = $1`
		args = append(args, user.ID)
	default:
		query += ` WHERE owner_user_id = $1`
		args = append(args, user.ID)
	}
	query += ` ORDER BY display_name;`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stores: query stores table: %w", err)
	}
	defer rows.Close()

	return scanStores(rows)
}

// Retrieve stores by id. ANY() returns rows in whatever order the planner
// picks, so the result is re-ordered to match the requested ids: the
// sequencer anchors its tour at the first store, and that anchor must not
// depend on a query plan. Duplicate ids collapse; ids with no matching
// store are absent.
func (r *PostgresStoreRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Store, error) {
	if r.DB == nil {
		return nil, errors.New("store repository: DB is nil")
	}
	if len(ids) == 0 {
		return []domain.Store{}, nil
	}

	query := `
	SELECT ` + storeColumns + `
	FROM stores
	WHERE id = ANY($1::bigint[]);
	`
	rows, err := r.DB.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get stores: query stores table: %w", err)
	}
	defer rows.Close()

	scanned, err := scanStores(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]domain.Store, len(scanned))
	for _, s := range scanned {
		byID[s.ID] = s
	}
	stores := make([]domain.Store, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if store, ok := byID[id]; ok {
			stores = append(stores, store)
		}
	}
	return stores, nil
}

func scanStores(rows *sql.Rows) ([]domain.Store, error) {
	stores := make([]domain.Store, 0, 32)
	for rows.Next() {
		var store domain.Store
		err := rows.Scan(
			&store.ID, &store.DisplayName, &store.City,
			&store.Latitude, &store.Longitude,
			&store.OwnerUserID, &store.SubOwnerUserID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan store row: %w", err)
		}
		stores = append(stores, store)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store row iteration: %w", err)
	}
	return stores, nil
}
