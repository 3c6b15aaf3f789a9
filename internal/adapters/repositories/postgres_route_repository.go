package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"visit-route-service/internal/domain"
)

// Postgres-backed implementation of the RouteRepository port.
//
// Update serializes concurrent editors per route with a SELECT ... FOR
// UPDATE on the route row: the route is read, transformed, and its stop
// list swapped (delete + insert) all inside that transaction, so a
// read-modify-replace can never run against a stale copy and lose another
// editor's comments.
type PostgresRouteRepository struct{ DB *sql.DB }

// querier is the subset of database/sql query methods shared by *sql.DB
// and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func NewPostgresRouteRepository(db *sql.DB) *PostgresRouteRepository {
	return &PostgresRouteRepository{DB: db}
}

// Persist a new route with its initial stop list.
func (r *PostgresRouteRepository) Create(ctx context.Context, route domain.Route) (domain.Route, error) {
	if r.DB == nil {
		return domain.Route{}, errors.New("route repository: DB is nil")
	}

	if route.ID == uuid.Nil {
		route.ID = uuid.New()
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Route{}, fmt.Errorf("create route: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO routes (
		id, name, status, planned_date,
		created_by_user_id, assigned_user_id, notes,
		total_distance_km, total_travel_minutes
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.ExecContext(ctx, query,
		route.ID, route.Name, route.Status, route.PlannedDate,
		route.CreatedByUserID, route.AssignedUserID, route.Notes,
		route.TotalDistanceKm, route.TotalTravelMinutes,
	)
	if err != nil {
		return domain.Route{}, fmt.Errorf("create route: insert routes row: %w", err)
	}

	if err := insertStops(ctx, tx, route.ID, route.Stops); err != nil {
		return domain.Route{}, fmt.Errorf("create route: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Route{}, fmt.Errorf("create route: commit tx: %w", err)
	}

	return r.GetByID(ctx, route.ID)
}

// Retrieve a route and its stops in sequence order.
func (r *PostgresRouteRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Route, error) {
	if r.DB == nil {
		return domain.Route{}, errors.New("route repository: DB is nil")
	}
	return getRoute(ctx, r.DB, id, false)
}

// getRoute reads a route and its stops through db or an open transaction.
// With lock set, the routes row is taken FOR UPDATE, which is the
// serialization point for concurrent editors of one route.
func getRoute(ctx context.Context, q querier, id uuid.UUID, lock bool) (domain.Route, error) {
	query := `
	SELECT
		id, name, status, planned_date,
		created_by_user_id, assigned_user_id, notes,
		total_distance_km, total_travel_minutes,
		created_at, updated_at
	FROM routes
	WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	query += `;`

	var route domain.Route
	var plannedDate sql.NullTime
	err := q.QueryRowContext(ctx, query, id).Scan(
		&route.ID, &route.Name, &route.Status, &plannedDate,
		&route.CreatedByUserID, &route.AssignedUserID, &route.Notes,
		&route.TotalDistanceKm, &route.TotalTravelMinutes,
		&route.CreatedAt, &route.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Route{}, fmt.Errorf("get route %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Route{}, fmt.Errorf("get route: query routes table: %w", err)
	}
	if plannedDate.Valid {
		route.PlannedDate = &plannedDate.Time
	}

	stopsQuery := `
	SELECT rs.sequence, rs.store_id, s.display_name, rs.comment,
	       rs.travel_distance_km, rs.travel_minutes
	FROM route_stops rs
	JOIN stores s ON s.id = rs.store_id
	WHERE rs.route_id = $1
	ORDER BY rs.sequence;
	`
	rows, err := q.QueryContext(ctx, stopsQuery, id)
	if err != nil {
		return domain.Route{}, fmt.Errorf("get route: query route_stops table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var stop domain.RouteStop
		err := rows.Scan(
			&stop.Sequence, &stop.StoreID, &stop.StoreName, &stop.Comment,
			&stop.TravelDistanceKm, &stop.TravelMinutes,
		)
		if err != nil {
			return domain.Route{}, fmt.Errorf("get route: scan stop row: %w", err)
		}
		route.Stops = append(route.Stops, stop)
	}
	if err := rows.Err(); err != nil {
		return domain.Route{}, fmt.Errorf("get route: stop row iteration: %w", err)
	}

	return route, nil
}

// Return the routes visible to the user, newest first. The visibility rule
// is pushed into SQL: non-administrators only see routes they created or
// are assigned.
func (r *PostgresRouteRepository) ListAccessible(ctx context.Context, user domain.User) ([]domain.Route, error) {
	if r.DB == nil {
		return nil, errors.New("route repository: DB is nil")
	}

	query := `
	SELECT
		id, name, status, planned_date,
		created_by_user_id, assigned_user_id, notes,
		total_distance_km, total_travel_minutes,
		created_at, updated_at
	FROM routes
	`
	args := []any{}
	if user.Role != domain.RoleAdmin {
		query += ` WHERE created_by_user_id = $1 OR assigned_user_id = $1`
		args = append(args, user.ID)
	}
	query += ` ORDER BY created_at DESC;`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list routes: query routes table: %w", err)
	}
	defer rows.Close()

	routes := make([]domain.Route, 0, 16)
	for rows.Next() {
		var route domain.Route
		var plannedDate sql.NullTime
		err := rows.Scan(
			&route.ID, &route.Name, &route.Status, &plannedDate,
			&route.CreatedByUserID, &route.AssignedUserID, &route.Notes,
			&route.TotalDistanceKm, &route.TotalTravelMinutes,
			&route.CreatedAt, &route.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("list routes: scan row: %w", err)
		}
		if plannedDate.Valid {
			route.PlannedDate = &plannedDate.Time
		}
		routes = append(routes, route)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list routes: row iteration: %w", err)
	}

	return routes, nil
}

// Update reads the route under a row lock, applies the transformation, and
// replaces the route row and its entire stop list, all in one transaction.
// Concurrent editors of the same route queue on the FOR UPDATE and each see
// the previous editor's committed state.
func (r *PostgresRouteRepository) Update(ctx context.Context, id uuid.UUID, apply func(*domain.Route) error) (domain.Route, error) {
	if r.DB == nil {
		return domain.Route{}, errors.New("route repository: DB is nil")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Route{}, fmt.Errorf("update route: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	route, err := getRoute(ctx, tx, id, true)
	if err != nil {
		return domain.Route{}, err
	}

	if err := apply(&route); err != nil {
		return domain.Route{}, err
	}

	query := `
	UPDATE routes SET
		name = $2,
		status = $3,
		planned_date = $4,
		assigned_user_id = $5,
		notes = $6,
		total_distance_km = $7,
		total_travel_minutes = $8,
		updated_at = now()
	WHERE id = $1;
	`
	_, err = tx.ExecContext(ctx, query,
		route.ID, route.Name, route.Status, route.PlannedDate,
		route.AssignedUserID, route.Notes,
		route.TotalDistanceKm, route.TotalTravelMinutes,
	)
	if err != nil {
		return domain.Route{}, fmt.Errorf("update route: update routes row: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM route_stops WHERE route_id = $1;`, route.ID); err != nil {
		return domain.Route{}, fmt.Errorf("update route: delete old stops: %w", err)
	}

	if err := insertStops(ctx, tx, route.ID, route.Stops); err != nil {
		return domain.Route{}, fmt.Errorf("update route: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Route{}, fmt.Errorf("update route: commit tx: %w", err)
	}

	return r.GetByID(ctx, route.ID)
}

func insertStops(ctx context.Context, tx *sql.Tx, routeID uuid.UUID, stops []domain.RouteStop) error {
	if len(stops) == 0 {
		return nil
	}

	query := `
	INSERT INTO route_stops (
		route_id, sequence, store_id, comment,
		travel_distance_km, travel_minutes
	)
	VALUES ($1, $2, $3, $4, $5, $6);
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("insert stops: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, stop := range stops {
		_, err := stmt.ExecContext(ctx, routeID, stop.Sequence, stop.StoreID, stop.Comment,
			stop.TravelDistanceKm, stop.TravelMinutes)
		if err != nil {
			return fmt.Errorf("insert stops: insert sequence %d: %w", stop.Sequence, err)
		}
	}

	return nil
}
