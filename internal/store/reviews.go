package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
)

type Review struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	UserID    int64     `json:"user_id"`
	Rating    int       `json:"rating"` // 1-5
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined fields
	Username string `json:"username,omitempty"`
}

type ReviewsStore struct {
	db *sql.DB
}

// Create inserts a review. One review per (event, user) is enforced by the
// reviews_event_id_user_id_key constraint; a duplicate surfaces as
// ErrConflict so the handler can answer 409 instead of 500. The constraint,
// not a pre-check, is what closes the concurrent double-submit race.
func (s *ReviewsStore) Create(ctx context.Context, review *Review) error {
	query := `
		INSERT INTO reviews (event_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := s.db.QueryRowContext(ctx, query,
		review.EventID,
		review.UserID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	return nil
}

// Update lets a reviewer revise their own review. Keying on (event, user)
// means a caller can never touch someone else's row; a missing row reads the
// same as a foreign one.
func (s *ReviewsStore) Update(ctx context.Context, review *Review) error {
	query := `
		UPDATE reviews
		SET rating = $1, comment = $2, updated_at = NOW()
		WHERE event_id = $3 AND user_id = $4
		RETURNING id, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := s.db.QueryRowContext(ctx, query,
		review.Rating,
		review.Comment,
		review.EventID,
		review.UserID,
	).Scan(&review.ID, &review.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *ReviewsStore) GetByEventID(ctx context.Context, eventID int64) ([]Review, error) {
	query := `
		SELECT r.id, r.event_id, r.user_id, r.rating, r.comment,
		       r.created_at, r.updated_at, u.username
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1
		ORDER BY r.created_at DESC, r.id DESC
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var review Review
		err := rows.Scan(
			&review.ID,
			&review.EventID,
			&review.UserID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
			&review.UpdatedAt,
			&review.Username,
		)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (s *ReviewsStore) GetUserReview(ctx context.Context, eventID, userID int64) (*Review, error) {
	query := `
		SELECT id, event_id, user_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE event_id = $1 AND user_id = $2
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var review Review
	err := s.db.QueryRowContext(ctx, query, eventID, userID).Scan(
		&review.ID,
		&review.EventID,
		&review.UserID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

// GetReviewStats computes the rating aggregate on read. An event with no
// reviews averages 0, not null.
func (s *ReviewsStore) GetReviewStats(ctx context.Context, eventID int64) (total int, average float64, err error) {
	query := `
		SELECT
			COUNT(id) AS total_reviews,
			COALESCE(AVG(rating), 0) AS average_rating
		FROM reviews
		WHERE event_id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err = s.db.QueryRowContext(ctx, query, eventID).Scan(&total, &average)
	return total, average, err
}
