package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"visit-route-service/internal/domain"
)

type UserSeed struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

type StoreSeed struct {
	ID             int64    `json:"id"`
	DisplayName    string   `json:"display_name"`
	City           string   `json:"city"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	OwnerUserID    *int64   `json:"owner_user_id"`
	SubOwnerUserID *int64   `json:"sub_owner_user_id"`
}

type SeedFile struct {
	Users  []UserSeed  `json:"users"`
	Stores []StoreSeed `json:"stores"`
}

// Populate the users and stores tables with demo data from a JSON file.
// These tables are collaborator snapshots: in production they are fed by the
// surrounding CRM system, the seed exists for local runs and demos.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed: read %q: %w", jsonPath, err)
	}

	var data SeedFile
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("seed: parse json: %w", err)
	}

	for i, u := range data.Users {
		if u.ID <= 0 {
			return fmt.Errorf("seed: user at index %d: invalid id %d", i, u.ID)
		}
		switch domain.Role(u.Role) {
		case domain.RoleAdmin, domain.RoleRepresentative, domain.RoleSubRepresentative, domain.RoleClient:
		default:
			return fmt.Errorf("seed: user %d: unknown role %q", u.ID, u.Role)
		}
	}
	for i, s := range data.Stores {
		if s.ID <= 0 {
			return fmt.Errorf("seed: store at index %d: invalid id %d", i, s.ID)
		}
		if strings.TrimSpace(s.DisplayName) == "" {
			return fmt.Errorf("seed: store %d: display_name cannot be empty", s.ID)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	userQuery := `
	INSERT INTO users (id, name, email, role, active)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		email = EXCLUDED.email,
		role = EXCLUDED.role,
		active = EXCLUDED.active;
	`
	for _, u := range data.Users {
		if _, err := tx.Exec(userQuery, u.ID, u.Name, u.Email, u.Role, u.Active); err != nil {
			return fmt.Errorf("seed: insert user id=%d: %w", u.ID, err)
		}
	}

	storeQuery := `
	INSERT INTO stores (id, display_name, city, latitude, longitude, owner_user_id, sub_owner_user_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE SET
		display_name = EXCLUDED.display_name,
		city = EXCLUDED.city,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		owner_user_id = EXCLUDED.owner_user_id,
		sub_owner_user_id = EXCLUDED.sub_owner_user_id;
	`
	for _, s := range data.Stores {
		if _, err := tx.Exec(storeQuery, s.ID, s.DisplayName, s.City, s.Latitude, s.Longitude, s.OwnerUserID, s.SubOwnerUserID); err != nil {
			return fmt.Errorf("seed: insert store id=%d: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}

	return nil
}
