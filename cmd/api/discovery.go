package main

import (
	"net/http"

	"cariri/internal/store"
)

const (
	discoveryPageSize   = 10
	searchResultLimit   = 10
	upcomingEventsLimit = 3
)

// PaginatedEvents wraps an event page with the metadata the frontend pager
// needs.
type PaginatedEvents struct {
	Events     []store.Event `json:"events"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
}

func paginate(events []store.Event, total, limit, offset int) PaginatedEvents {
	if events == nil {
		events = []store.Event{}
	}
	totalPages := (total + limit - 1) / limit
	return PaginatedEvents{
		Events:     events,
		Page:       offset/limit + 1,
		PageSize:   limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// listApprovedEventsHandler godoc
//
//	@Summary		List approved events
//	@Description	Lists approved events, newest start date first, with optional filters combined with AND
//	@Tags			events
//	@Produce		json
//	@Param			category	query		string	false	"Exact category"
//	@Param			location	query		string	false	"City substring, case-insensitive"
//	@Param			query		query		string	false	"Title substring, case-insensitive"
//	@Param			start_date	query		string	false	"Earliest start date (YYYY-MM-DD)"
//	@Param			end_date	query		string	false	"Latest start date, inclusive (YYYY-MM-DD)"
//	@Param			min_price	query		number	false	"Minimum price"
//	@Param			max_price	query		number	false	"Maximum price"
//	@Param			page		query		int		false	"Page number, 1-based"
//	@Success		200			{object}	PaginatedEvents
//	@Failure		400			{object}	error
//	@Failure		500			{object}	error
//	@Router			/events [get]
func (app *application) listApprovedEventsHandler(w http.ResponseWriter, r *http.Request) {
	fq := store.EventFilterQuery{
		Limit: discoveryPageSize,
	}

	fq, err := fq.Parse(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(fq); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	events, total, err := app.store.Events.ListApproved(r.Context(), fq)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, paginate(events, total, fq.Limit, fq.Offset)); err != nil {
		app.internalServerError(w, r, err)
	}
}

// searchEventTitlesHandler godoc
//
//	@Summary		Search event titles
//	@Description	Autocomplete over approved event titles, capped at 10 hits
//	@Tags			events
//	@Produce		json
//	@Param			q	query		string	true	"Title substring"
//	@Success		200	{array}		store.TitleMatch
//	@Failure		400	{object}	error
//	@Failure		500	{object}	error
//	@Router			/events/search [get]
func (app *application) searchEventTitlesHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		if err := app.jsonResponse(w, http.StatusOK, []store.TitleMatch{}); err != nil {
			app.internalServerError(w, r, err)
		}
		return
	}

	matches, err := app.store.Events.SearchTitles(r.Context(), query, searchResultLimit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if matches == nil {
		matches = []store.TitleMatch{}
	}

	if err := app.jsonResponse(w, http.StatusOK, matches); err != nil {
		app.internalServerError(w, r, err)
	}
}

// upcomingEventsHandler godoc
//
//	@Summary		Upcoming events
//	@Description	Returns the next approved events, soonest first, capped at 3
//	@Tags			events
//	@Produce		json
//	@Success		200	{array}		store.Event
//	@Failure		500	{object}	error
//	@Router			/events/upcoming [get]
func (app *application) upcomingEventsHandler(w http.ResponseWriter, r *http.Request) {
	events, err := app.store.Events.Upcoming(r.Context(), upcomingEventsLimit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if events == nil {
		events = []store.Event{}
	}

	if err := app.jsonResponse(w, http.StatusOK, events); err != nil {
		app.internalServerError(w, r, err)
	}
}
