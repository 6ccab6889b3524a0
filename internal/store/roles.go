package store

import (
	"context"
	"database/sql"
)

// Role names and the levels that gate what an actor may do. Moderators work
// the review queue; admins additionally delete any event.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"

	RoleLevelUser      = 1
	RoleLevelModerator = 2
	RoleLevelAdmin     = 3
)

type Role struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Level       int    `json:"level"`
	Description string `json:"description,omitempty"`
}

type RolesStore struct {
	db *sql.DB
}

// EnsureDefaults seeds the role table at process startup. It is idempotent,
// so every boot can call it unconditionally.
func (s *RolesStore) EnsureDefaults(ctx context.Context) error {
	query := `
		INSERT INTO roles (name, level, description) VALUES
			($1, $2, 'can submit events, comment and review'),
			($3, $4, 'can additionally approve or reject submitted events'),
			($5, $6, 'can additionally delete any event')
		ON CONFLICT (name) DO NOTHING
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.ExecContext(ctx, query,
		RoleUser, RoleLevelUser,
		RoleModerator, RoleLevelModerator,
		RoleAdmin, RoleLevelAdmin,
	)
	return err
}
