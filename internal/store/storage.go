package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("resource already exists")
	QueryTimeoutDuration = time.Second * 5
)

type Storage struct {
	Users interface {
		GetByID(context.Context, int64) (*User, error)
		GetByEmail(context.Context, string) (*User, error)
		CreateAndInvite(ctx context.Context, user *User, token string, invitationExp time.Duration) error
		Activate(ctx context.Context, token string) error
		Delete(context.Context, int64) error
		UpdateUser(context.Context, int64, map[string]interface{}) error
		SetProfilePicture(ctx context.Context, url string, userID int64) error
		GetProfilePictureURL(ctx context.Context, userID int64) (string, error)
		SetRefreshToken(ctx context.Context, userID int64, token string) error
	}
	Roles interface {
		EnsureDefaults(context.Context) error
	}
	Events interface {
		Create(ctx context.Context, event *Event, imageURLs []string) error
		GetByID(context.Context, int64) (*Event, error)
		Delete(context.Context, int64) error
		UpdateStatus(ctx context.Context, eventID int64, next EventStatus) error
		ListPending(ctx context.Context, limit, offset int) ([]Event, int, error)
		ListApproved(ctx context.Context, fq EventFilterQuery) ([]Event, int, error)
		Similar(ctx context.Context, event *Event, limit int) ([]Event, error)
		SearchTitles(ctx context.Context, query string, limit int) ([]TitleMatch, error)
		Upcoming(ctx context.Context, limit int) ([]Event, error)
	}
	Images interface {
		ListByEvent(ctx context.Context, eventID int64) ([]EventImage, error)
	}
	Comments interface {
		Create(context.Context, *Comment) error
		GetByID(context.Context, int64) (*Comment, error)
		GetByEventID(ctx context.Context, eventID int64) ([]Comment, error)
		Update(context.Context, *Comment) error
		Delete(context.Context, int64) error
	}
	Reviews interface {
		Create(context.Context, *Review) error
		Update(context.Context, *Review) error
		GetByEventID(ctx context.Context, eventID int64) ([]Review, error)
		GetUserReview(ctx context.Context, eventID, userID int64) (*Review, error)
		GetReviewStats(ctx context.Context, eventID int64) (int, float64, error)
	}
}

func NewStorage(db *sql.DB) Storage {
	return Storage{
		Users:    &UsersStore{db},
		Roles:    &RolesStore{db},
		Events:   &EventsStore{db},
		Images:   &EventImagesStore{db},
		Comments: &CommentsStore{db},
		Reviews:  &ReviewsStore{db},
	}
}

// withTx runs fn inside a transaction and rolls back when fn fails.
func withTx(db *sql.DB, ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
