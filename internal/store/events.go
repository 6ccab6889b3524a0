package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// EventStatus is the moderation state of an event.
type EventStatus string

const (
	StatusUnderReview EventStatus = "under_review"
	StatusApproved    EventStatus = "approved"
	StatusRejected    EventStatus = "rejected"
)

// statusTransitions is the transition table for moderation. Approved and
// rejected are terminal; the only legal moves are out of under_review.
var statusTransitions = map[EventStatus][]EventStatus{
	StatusUnderReview: {StatusApproved, StatusRejected},
	StatusApproved:    {},
	StatusRejected:    {},
}

func (s EventStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is a legal transition.
// A self-transition is allowed so re-approving stays a no-op.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// EventCategories is the fixed category set events are classified under.
var EventCategories = []string{
	"Cultura", "Esporte", "Educacional", "Música", "Vaquejada", "Literatura",
	"Arte", "Palestra", "Comida", "Lazer", "Festival", "Festa", "Teatro",
	"Conferência", "Seminário", "Workshop", "Curso", "Reunião", "Outro",
}

func ValidCategory(category string) bool {
	for _, c := range EventCategories {
		if c == category {
			return true
		}
	}
	return false
}

const (
	AgeGroupLivre  = "livre"
	AgeGroupOver12 = "+12"
	AgeGroupOver16 = "+16"
	AgeGroupOver18 = "+18"

	PrivacyPublic  = "public"
	PrivacyPrivate = "private"

	TicketPaid = "pago"
	TicketFree = "gratuito"
)

// Event represents an event listing together with its location.
type Event struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	StartsAt    time.Time   `json:"starts_at"`
	Category    string      `json:"category"`
	AgeGroup    string      `json:"age_group"`
	Privacy     string      `json:"privacy"`
	TicketType  string      `json:"ticket_type"`
	Price       NullFloat64 `json:"price" swaggertype:"number"`
	MaxCapacity int         `json:"max_capacity"`
	Status      EventStatus `json:"status"`
	CreatorID   int64       `json:"creator_id"`
	Location    Location    `json:"location"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TitleMatch is a compact search hit for autocomplete.
type TitleMatch struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type EventsStore struct {
	db *sql.DB
}

const eventColumns = `
	e.id, e.title, e.description, e.starts_at, e.category, e.age_group,
	e.privacy, e.ticket_type, e.price, e.max_capacity, e.status, e.creator_id,
	e.created_at, e.updated_at,
	l.id, l.cep, l.street, l.number, l.neighborhood, l.city, l.state,
	l.latitude, l.longitude`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner, event *Event, extra ...any) error {
	var price sql.NullFloat64
	dest := []any{
		&event.ID, &event.Title, &event.Description, &event.StartsAt,
		&event.Category, &event.AgeGroup, &event.Privacy, &event.TicketType,
		&price, &event.MaxCapacity, &event.Status, &event.CreatorID,
		&event.CreatedAt, &event.UpdatedAt,
		&event.Location.ID, &event.Location.CEP, &event.Location.Street,
		&event.Location.Number, &event.Location.Neighborhood,
		&event.Location.City, &event.Location.State,
		&event.Location.Latitude, &event.Location.Longitude,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return err
	}
	event.Price = NewNullFloat64(price)
	return nil
}

// Create persists the location, the event and its image rows in one
// transaction. The event always enters moderation as under_review.
func (s *EventsStore) Create(ctx context.Context, event *Event, imageURLs []string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return withTx(s.db, ctx, func(tx *sql.Tx) error {
		if err := createLocation(ctx, tx, &event.Location); err != nil {
			return fmt.Errorf("create location: %w", err)
		}

		query := `
			INSERT INTO events
				(title, description, starts_at, category, age_group, privacy,
				 ticket_type, price, max_capacity, status, location_id, creator_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id, status, created_at, updated_at
		`

		var price any
		if event.Price.Valid {
			n, err := numericFromFloat(event.Price.Value)
			if err != nil {
				return err
			}
			price = n
		} else {
			price = pgtype.Numeric{}
		}

		err := tx.QueryRowContext(
			ctx, query,
			event.Title,
			event.Description,
			event.StartsAt,
			event.Category,
			event.AgeGroup,
			event.Privacy,
			event.TicketType,
			price,
			event.MaxCapacity,
			StatusUnderReview,
			event.Location.ID,
			event.CreatorID,
		).Scan(&event.ID, &event.Status, &event.CreatedAt, &event.UpdatedAt)
		if err != nil {
			return fmt.Errorf("create event: %w", err)
		}

		for _, url := range imageURLs {
			if err := createEventImage(ctx, tx, event.ID, url); err != nil {
				return fmt.Errorf("create event image: %w", err)
			}
		}

		return nil
	})
}

func (s *EventsStore) GetByID(ctx context.Context, eventID int64) (*Event, error) {
	query := `
		SELECT` + eventColumns + `
		FROM events e
		JOIN locations l ON l.id = e.location_id
		WHERE e.id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var event Event
	if err := scanEvent(s.db.QueryRowContext(ctx, query, eventID), &event); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// Delete removes the event and its owned location. Images, comments and
// reviews go with it through ON DELETE CASCADE.
func (s *EventsStore) Delete(ctx context.Context, eventID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return withTx(s.db, ctx, func(tx *sql.Tx) error {
		var locationID int64
		err := tx.QueryRowContext(ctx, `SELECT location_id FROM events WHERE id = $1`, eventID).Scan(&locationID)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrNotFound
			}
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, eventID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM locations WHERE id = $1`, locationID); err != nil {
			return err
		}

		return nil
	})
}

// UpdateStatus applies a moderation transition. Re-applying the current
// status is a no-op; any other move not in the transition table returns
// ErrConflict. The final UPDATE is guarded on the status actually read so a
// concurrent decision cannot be overwritten.
func (s *EventsStore) UpdateStatus(ctx context.Context, eventID int64, next EventStatus) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var current EventStatus
	err := s.db.QueryRowContext(ctx, `SELECT status FROM events WHERE id = $1`, eventID).Scan(&current)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}

	if current == next {
		return nil
	}
	if !current.CanTransitionTo(next) {
		return ErrConflict
	}

	res, err := s.db.ExecContext(
		ctx,
		`UPDATE events SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		next, eventID, current,
	)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrConflict
	}
	return nil
}

// ListPending returns the moderation queue, newest submissions first.
func (s *EventsStore) ListPending(ctx context.Context, limit, offset int) ([]Event, int, error) {
	query := `
		SELECT` + eventColumns + `, COUNT(*) OVER() AS total
		FROM events e
		JOIN locations l ON l.id = e.location_id
		WHERE e.status = $1
		ORDER BY e.created_at DESC, e.id DESC
		LIMIT $2 OFFSET $3
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, StatusUnderReview, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	return collectEvents(rows)
}

// ListApproved runs the discovery query. Filters combine with AND; the base
// predicate is always status=approved. Ordering is starts_at descending with
// the id as tiebreak so pages stay stable under concurrent writes.
func (s *EventsStore) ListApproved(ctx context.Context, fq EventFilterQuery) ([]Event, int, error) {
	where := []string{"e.status = $1"}
	args := []interface{}{StatusApproved}
	argCounter := 2

	if fq.Category != "" {
		where = append(where, fmt.Sprintf("e.category = $%d", argCounter))
		args = append(args, fq.Category)
		argCounter++
	}
	if !fq.StartDate.IsZero() {
		where = append(where, fmt.Sprintf("e.starts_at >= $%d", argCounter))
		args = append(args, fq.StartDate)
		argCounter++
	}
	if !fq.EndDate.IsZero() {
		// Inclusive date bound: anything before the following midnight.
		where = append(where, fmt.Sprintf("e.starts_at < $%d", argCounter))
		args = append(args, fq.EndDate.AddDate(0, 0, 1))
		argCounter++
	}
	if fq.City != "" {
		where = append(where, fmt.Sprintf("l.city ILIKE '%%' || $%d || '%%'", argCounter))
		args = append(args, fq.City)
		argCounter++
	}
	if fq.MinPrice != nil {
		where = append(where, fmt.Sprintf("e.price >= $%d", argCounter))
		args = append(args, *fq.MinPrice)
		argCounter++
	}
	if fq.MaxPrice != nil {
		where = append(where, fmt.Sprintf("e.price <= $%d", argCounter))
		args = append(args, *fq.MaxPrice)
		argCounter++
	}
	if fq.Query != "" {
		where = append(where, fmt.Sprintf("e.title ILIKE '%%' || $%d || '%%'", argCounter))
		args = append(args, fq.Query)
		argCounter++
	}

	query := `
		SELECT` + eventColumns + `, COUNT(*) OVER() AS total
		FROM events e
		JOIN locations l ON l.id = e.location_id
		WHERE ` + strings.Join(where, " AND ") + fmt.Sprintf(`
		ORDER BY e.starts_at DESC, e.id DESC
		LIMIT $%d OFFSET $%d`, argCounter, argCounter+1)

	args = append(args, fq.Limit, fq.Offset)

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	return collectEvents(rows)
}

// Similar returns approved future events in the same category, excluding the
// event itself.
func (s *EventsStore) Similar(ctx context.Context, event *Event, limit int) ([]Event, error) {
	query := `
		SELECT` + eventColumns + `
		FROM events e
		JOIN locations l ON l.id = e.location_id
		WHERE e.status = $1 AND e.category = $2 AND e.starts_at > NOW() AND e.id != $3
		ORDER BY e.starts_at ASC, e.id ASC
		LIMIT $4
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, StatusApproved, event.Category, event.ID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// SearchTitles backs the autocomplete endpoint with a capped result set.
func (s *EventsStore) SearchTitles(ctx context.Context, query string, limit int) ([]TitleMatch, error) {
	sqlQuery := `
		SELECT id, title
		FROM events
		WHERE status = $1 AND title ILIKE '%' || $2 || '%'
		ORDER BY starts_at DESC, id DESC
		LIMIT $3
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, sqlQuery, StatusApproved, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []TitleMatch
	for rows.Next() {
		var m TitleMatch
		if err := rows.Scan(&m.ID, &m.Title); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// Upcoming returns the next approved events, soonest first.
func (s *EventsStore) Upcoming(ctx context.Context, limit int) ([]Event, error) {
	query := `
		SELECT` + eventColumns + `
		FROM events e
		JOIN locations l ON l.id = e.location_id
		WHERE e.status = $1 AND e.starts_at >= NOW()
		ORDER BY e.starts_at ASC, e.id ASC
		LIMIT $2
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, StatusApproved, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func collectEvents(rows *sql.Rows) ([]Event, int, error) {
	var (
		events []Event
		total  int
	)
	for rows.Next() {
		var e Event
		if err := scanEvent(rows, &e, &total); err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}
