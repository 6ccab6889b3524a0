package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Location is the postal address an event takes place at. Coordinates are
// resolved by the geocoder before the row is written; latitude and longitude
// are either both set or both null.
type Location struct {
	ID           int64           `json:"id"`
	CEP          string          `json:"cep"`
	Street       string          `json:"street"`
	Number       string          `json:"number"`
	Neighborhood string          `json:"neighborhood"`
	City         string          `json:"city"`
	State        string          `json:"state"`
	Latitude     sql.NullFloat64 `json:"latitude" swaggertype:"number"`
	Longitude    sql.NullFloat64 `json:"longitude" swaggertype:"number"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// FormattedAddress builds the single-line address sent to the geocoder.
func (l *Location) FormattedAddress() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s", l.Street, l.Number, l.Neighborhood, l.City, l.State)
}

// SetCoordinates stores a resolved geocoder result on the location.
func (l *Location) SetCoordinates(lat, lon float64) {
	l.Latitude = sql.NullFloat64{Float64: lat, Valid: true}
	l.Longitude = sql.NullFloat64{Float64: lon, Valid: true}
}

// numericFromFloat converts a float into a pgtype.Numeric so NUMERIC(9,6)
// columns receive exact decimal text instead of binary float noise.
func numericFromFloat(f float64) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	if err := n.Scan(strconv.FormatFloat(f, 'f', 6, 64)); err != nil {
		return n, fmt.Errorf("numeric conversion: %w", err)
	}
	return n, nil
}

// createLocation inserts the location inside the event submission transaction.
func createLocation(ctx context.Context, tx *sql.Tx, location *Location) error {
	query := `
		INSERT INTO locations (cep, street, number, neighborhood, city, state, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	var lat, lon any
	if location.Latitude.Valid && location.Longitude.Valid {
		nlat, err := numericFromFloat(location.Latitude.Float64)
		if err != nil {
			return err
		}
		nlon, err := numericFromFloat(location.Longitude.Float64)
		if err != nil {
			return err
		}
		lat, lon = nlat, nlon
	}

	return tx.QueryRowContext(
		ctx, query,
		location.CEP,
		location.Street,
		location.Number,
		location.Neighborhood,
		location.City,
		location.State,
		lat,
		lon,
	).Scan(&location.ID, &location.CreatedAt, &location.UpdatedAt)
}
