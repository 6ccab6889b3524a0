package store

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// EventFilterQuery carries the discovery filters. Zero values mean "no
// filter"; price bounds are pointers so a 0 minimum is still expressible.
type EventFilterQuery struct {
	Limit  int `validate:"gte=1,lte=50"`
	Offset int `validate:"gte=0"`

	Category string // exact enum match
	City     string // case-insensitive substring on location city
	Query    string // case-insensitive substring on title

	// Date filtering against the calendar-date component of starts_at.
	StartDate time.Time
	EndDate   time.Time

	// Price filtering; events without a price never match a bounded query.
	MinPrice *float64
	MaxPrice *float64
}

const filterDateLayout = "2006-01-02"

// Parse extracts query parameters from the request URL and populates the EventFilterQuery.
func (q EventFilterQuery) Parse(r *http.Request) (EventFilterQuery, error) {
	params := r.URL.Query()

	if category := params.Get("category"); category != "" {
		if !ValidCategory(category) {
			return q, fmt.Errorf("invalid category: %s", category)
		}
		q.Category = category
	}

	if city := params.Get("location"); city != "" {
		q.City = city
	}

	if search := params.Get("query"); search != "" {
		q.Query = search
	}

	if startDateStr := params.Get("start_date"); startDateStr != "" {
		startDate, err := time.Parse(filterDateLayout, startDateStr)
		if err != nil {
			return q, fmt.Errorf("invalid start_date: %w", err)
		}
		q.StartDate = startDate
	}

	if endDateStr := params.Get("end_date"); endDateStr != "" {
		endDate, err := time.Parse(filterDateLayout, endDateStr)
		if err != nil {
			return q, fmt.Errorf("invalid end_date: %w", err)
		}
		q.EndDate = endDate
	}

	if !q.StartDate.IsZero() && !q.EndDate.IsZero() && q.EndDate.Before(q.StartDate) {
		return q, fmt.Errorf("end_date is before start_date")
	}

	if minPriceStr := params.Get("min_price"); minPriceStr != "" {
		minPrice, err := strconv.ParseFloat(minPriceStr, 64)
		if err != nil {
			return q, fmt.Errorf("invalid min_price: %w", err)
		}
		q.MinPrice = &minPrice
	}

	if maxPriceStr := params.Get("max_price"); maxPriceStr != "" {
		maxPrice, err := strconv.ParseFloat(maxPriceStr, 64)
		if err != nil {
			return q, fmt.Errorf("invalid max_price: %w", err)
		}
		q.MaxPrice = &maxPrice
	}

	if pageStr := params.Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return q, fmt.Errorf("invalid page: %s", pageStr)
		}
		q.Offset = (page - 1) * q.Limit
	}

	return q, nil
}
