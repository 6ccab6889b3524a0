package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateEmail    = errors.New("a user with that email already exists")
	ErrDuplicateUsername = errors.New("a user with that username already exists")
)

// Cities maps the regional city codes users can register under.
var Cities = map[string]string{
	"JDO": "Juazeiro do Norte",
	"CRT": "Crato",
	"BAR": "Barbalha",
	"MIS": "Missão Velha",
	"BRE": "Brejo Santo",
	"JBA": "Jardim",
	"JUA": "Jati",
	"ASR": "Assaré",
	"LAV": "Lavras da Mangabeira",
	"ALT": "Altaneira",
	"FAR": "Farias Brito",
	"NOV": "Nova Olinda",
	"PEN": "Penaforte",
	"POR": "Porteiras",
	"SAL": "Salitre",
	"CAR": "Caririaçu",
	"CAM": "Campos Sales",
	"ARU": "Araripe",
}

func ValidCity(code string) bool {
	_, ok := Cities[code]
	return ok
}

type User struct {
	ID                int64      `json:"id"`
	Username          string     `json:"username"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone"`
	City              string     `json:"city"`
	Bio               NullString `json:"bio" swaggertype:"string"`
	ProfilePictureURL NullString `json:"profile_picture_url" swaggertype:"string"`
	Password          password   `json:"-"`
	RefreshToken      string     `json:"-"`
	IsActive          bool       `json:"is_active"`
	RoleID            int64      `json:"role_id"`
	Role              Role       `json:"role"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// IsModerator reports whether the user may act on the moderation queue.
func (u *User) IsModerator() bool {
	return u.Role.Level >= RoleLevelModerator
}

// IsAdmin reports whether the user holds superuser capability.
func (u *User) IsAdmin() bool {
	return u.Role.Level >= RoleLevelAdmin
}

// password keeps the plaintext out of JSON and pairs it with its bcrypt hash.
type password struct {
	text *string
	hash []byte
}

func (p *password) Set(text string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(text), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	p.text = &text
	p.hash = hash

	return nil
}

func (p *password) Compare(text string) error {
	return bcrypt.CompareHashAndPassword(p.hash, []byte(text))
}

type UsersStore struct {
	db *sql.DB
}

func (s *UsersStore) create(ctx context.Context, tx *sql.Tx, user *User) error {
	query := `
		INSERT INTO users (username, name, email, phone, city, password, role_id)
		VALUES ($1, $2, $3, $4, $5, $6, (SELECT id FROM roles WHERE name = $7))
		RETURNING id, created_at, updated_at
	`

	role := user.Role.Name
	if role == "" {
		role = RoleUser
	}

	err := tx.QueryRowContext(
		ctx, query,
		user.Username, user.Name, user.Email, user.Phone, user.City, user.Password.hash, role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "users_email_key":
				return ErrDuplicateEmail
			case "users_username_key":
				return ErrDuplicateUsername
			}
		}
		return err
	}
	return nil
}

// CreateAndInvite stores the user and its activation token in one
// transaction so a failed invite leaves no half-registered account.
func (s *UsersStore) CreateAndInvite(ctx context.Context, user *User, token string, invitationExp time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return withTx(s.db, ctx, func(tx *sql.Tx) error {
		if err := s.create(ctx, tx, user); err != nil {
			return err
		}

		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO user_invitations (token, user_id, expiry) VALUES ($1, $2, $3)`,
			token, user.ID, time.Now().Add(invitationExp),
		)
		return err
	})
}

// Activate flips the account active for a valid, unexpired invitation token
// and burns the invitation.
func (s *UsersStore) Activate(ctx context.Context, plainToken string) error {
	hash := sha256.Sum256([]byte(plainToken))
	hashToken := hex.EncodeToString(hash[:])

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return withTx(s.db, ctx, func(tx *sql.Tx) error {
		var userID int64
		err := tx.QueryRowContext(
			ctx,
			`SELECT user_id FROM user_invitations WHERE token = $1 AND expiry > NOW()`,
			hashToken,
		).Scan(&userID)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrNotFound
			}
			return err
		}

		if _, err := tx.ExecContext(ctx, `UPDATE users SET is_active = TRUE, updated_at = NOW() WHERE id = $1`, userID); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM user_invitations WHERE user_id = $1`, userID)
		return err
	})
}

const userColumns = `
	u.id, u.username, u.name, u.email, u.phone, u.city, u.bio,
	u.profile_picture_url, u.refresh_token, u.is_active, u.role_id,
	u.created_at, u.updated_at,
	r.id, r.name, r.level`

func scanUser(row rowScanner, user *User) error {
	var bio, picture sql.NullString
	err := row.Scan(
		&user.ID, &user.Username, &user.Name, &user.Email, &user.Phone,
		&user.City, &bio, &picture, &user.RefreshToken, &user.IsActive,
		&user.RoleID, &user.CreatedAt, &user.UpdatedAt,
		&user.Role.ID, &user.Role.Name, &user.Role.Level,
	)
	if err != nil {
		return err
	}
	user.Bio = NewNullString(bio)
	user.ProfilePictureURL = NewNullString(picture)
	return nil
}

func (s *UsersStore) GetByID(ctx context.Context, userID int64) (*User, error) {
	query := `
		SELECT` + userColumns + `
		FROM users u
		JOIN roles r ON r.id = u.role_id
		WHERE u.id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var user User
	if err := scanUser(s.db.QueryRowContext(ctx, query, userID), &user); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UsersStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT` + userColumns + `, u.password
		FROM users u
		JOIN roles r ON r.id = u.role_id
		WHERE u.email = $1 AND u.is_active = TRUE
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var (
		user User
		bio  sql.NullString
		pic  sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Username, &user.Name, &user.Email, &user.Phone,
		&user.City, &bio, &pic, &user.RefreshToken, &user.IsActive,
		&user.RoleID, &user.CreatedAt, &user.UpdatedAt,
		&user.Role.ID, &user.Role.Name, &user.Role.Level,
		&user.Password.hash,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	user.Bio = NewNullString(bio)
	user.ProfilePictureURL = NewNullString(pic)
	return &user, nil
}

func (s *UsersStore) Delete(ctx context.Context, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return withTx(s.db, ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_invitations WHERE user_id = $1`, userID); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
		if err != nil {
			return err
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// UpdateUser applies a partial profile update from a field map.
func (s *UsersStore) UpdateUser(ctx context.Context, userID int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return fmt.Errorf("no fields to update")
	}

	if city, ok := updates["city"]; ok {
		code, isString := city.(string)
		if !isString || !ValidCity(code) {
			return fmt.Errorf("invalid city code")
		}
	}

	setClauses := []string{}
	args := []interface{}{}
	argCounter := 1

	for field, value := range updates {
		if !isValidUserField(field) {
			return fmt.Errorf("invalid field name: %s", field)
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field, argCounter))
		args = append(args, value)
		argCounter++
	}
	args = append(args, userID)

	query := fmt.Sprintf("UPDATE users SET %s, updated_at = NOW() WHERE id = $%d",
		strings.Join(setClauses, ", "), argCounter)

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func isValidUserField(field string) bool {
	switch field {
	case "name", "phone", "city", "bio":
		return true
	}
	return false
}

func (s *UsersStore) SetProfilePicture(ctx context.Context, url string, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `UPDATE users SET profile_picture_url = $1, updated_at = NOW() WHERE id = $2`, url, userID)
	return err
}

func (s *UsersStore) GetProfilePictureURL(ctx context.Context, userID int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var url sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT profile_picture_url FROM users WHERE id = $1`, userID).Scan(&url)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrNotFound
		}
		return "", err
	}
	return url.String, nil
}

// SetRefreshToken stores the current refresh token hash; an empty token logs
// the user out everywhere.
func (s *UsersStore) SetRefreshToken(ctx context.Context, userID int64, token string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `UPDATE users SET refresh_token = $1, updated_at = NOW() WHERE id = $2`, token, userID)
	return err
}
