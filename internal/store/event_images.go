package store

import (
	"context"
	"database/sql"
	"time"
)

// EventImage is one stored image attached to an event. The blob itself lives
// in Cloudinary; only the delivery URL is kept here.
type EventImage struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type EventImagesStore struct {
	db *sql.DB
}

// createEventImage inserts an image row inside the event submission transaction.
func createEventImage(ctx context.Context, tx *sql.Tx, eventID int64, imageURL string) error {
	_, err := tx.ExecContext(
		ctx,
		`INSERT INTO event_images (event_id, image_url) VALUES ($1, $2)`,
		eventID, imageURL,
	)
	return err
}

func (s *EventImagesStore) ListByEvent(ctx context.Context, eventID int64) ([]EventImage, error) {
	query := `
		SELECT id, event_id, image_url, created_at, updated_at
		FROM event_images
		WHERE event_id = $1
		ORDER BY id ASC
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []EventImage
	for rows.Next() {
		var img EventImage
		if err := rows.Scan(&img.ID, &img.EventID, &img.ImageURL, &img.CreatedAt, &img.UpdatedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}
