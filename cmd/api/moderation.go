package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"cariri/internal/store"

	"github.com/go-chi/chi/v5"
)

// listPendingEventsHandler godoc
//
//	@Summary		Moderation queue
//	@Description	Lists events awaiting review, newest submissions first
//	@Tags			moderation
//	@Produce		json
//	@Param			page	query		int	false	"Page number, 1-based"
//	@Success		200		{object}	PaginatedEvents
//	@Failure		400		{object}	error
//	@Failure		403		{object}	error
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/moderation/events [get]
func (app *application) listPendingEventsHandler(w http.ResponseWriter, r *http.Request) {
	limit := discoveryPageSize
	offset := 0

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			app.badRequestResponse(w, r, fmt.Errorf("invalid page: %s", pageStr))
			return
		}
		offset = (page - 1) * limit
	}

	events, total, err := app.store.Events.ListPending(r.Context(), limit, offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, paginate(events, total, limit, offset)); err != nil {
		app.internalServerError(w, r, err)
	}
}

// approveEventHandler godoc
//
//	@Summary		Approve an event
//	@Description	Moves an event under review to approved, making it publicly visible. Re-approving an approved event is a no-op.
//	@Tags			moderation
//	@Produce		json
//	@Param			eventID	path		int	true	"Event ID"
//	@Success		200		{object}	store.Event
//	@Failure		403		{object}	error
//	@Failure		404		{object}	error
//	@Failure		409		{object}	error	"Event already decided the other way"
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/moderation/events/{eventID}/approve [post]
func (app *application) approveEventHandler(w http.ResponseWriter, r *http.Request) {
	app.decideEventHandler(w, r, store.StatusApproved)
}

// rejectEventHandler godoc
//
//	@Summary		Reject an event
//	@Description	Moves an event under review to rejected. Rejected events never appear in discovery.
//	@Tags			moderation
//	@Produce		json
//	@Param			eventID	path		int	true	"Event ID"
//	@Success		200		{object}	store.Event
//	@Failure		403		{object}	error
//	@Failure		404		{object}	error
//	@Failure		409		{object}	error	"Event already decided the other way"
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/moderation/events/{eventID}/reject [post]
func (app *application) rejectEventHandler(w http.ResponseWriter, r *http.Request) {
	app.decideEventHandler(w, r, store.StatusRejected)
}

func (app *application) decideEventHandler(w http.ResponseWriter, r *http.Request, decision store.EventStatus) {
	eventID, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid event ID"))
		return
	}

	moderator := getUserFromContext(r)

	if err := app.store.Events.UpdateStatus(r.Context(), eventID, decision); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, store.ErrConflict):
			app.conflictResponse(w, r, fmt.Errorf("event has already been decided"))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.logger.Infow("moderation decision", "event_id", eventID, "decision", decision, "moderator_id", moderator.ID)

	event, err := app.store.Events.GetByID(r.Context(), eventID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, event); err != nil {
		app.internalServerError(w, r, err)
	}
}
