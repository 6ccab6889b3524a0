package store

import (
	"context"
	"database/sql"
	"time"
)

type Comment struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	AuthorID  int64     `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined fields
	AuthorUsername string `json:"author_username,omitempty"`
}

type CommentsStore struct {
	db *sql.DB
}

func (s *CommentsStore) Create(ctx context.Context, comment *Comment) error {
	query := `
		INSERT INTO comments (event_id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.db.QueryRowContext(ctx, query,
		comment.EventID,
		comment.AuthorID,
		comment.Body,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
}

func (s *CommentsStore) GetByID(ctx context.Context, commentID int64) (*Comment, error) {
	query := `
		SELECT id, event_id, author_id, body, created_at, updated_at
		FROM comments
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var comment Comment
	err := s.db.QueryRowContext(ctx, query, commentID).Scan(
		&comment.ID,
		&comment.EventID,
		&comment.AuthorID,
		&comment.Body,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// GetByEventID returns an event's comments ordered by recency.
func (s *CommentsStore) GetByEventID(ctx context.Context, eventID int64) ([]Comment, error) {
	query := `
		SELECT c.id, c.event_id, c.author_id, c.body, c.created_at, c.updated_at, u.username
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.event_id = $1
		ORDER BY c.created_at DESC, c.id DESC
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var comment Comment
		err := rows.Scan(
			&comment.ID,
			&comment.EventID,
			&comment.AuthorID,
			&comment.Body,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&comment.AuthorUsername,
		)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// Update overwrites the comment body and bumps updated_at. There is no edit
// history.
func (s *CommentsStore) Update(ctx context.Context, comment *Comment) error {
	query := `
		UPDATE comments
		SET body = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := s.db.QueryRowContext(ctx, query, comment.Body, comment.ID).Scan(&comment.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *CommentsStore) Delete(ctx context.Context, commentID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
