package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"cariri/internal/store"

	"github.com/go-chi/chi/v5"
)

type ReviewPayload struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

// createReviewHandler godoc
//
//	@Summary		Review an event
//	@Description	Adds a rating with an optional comment. A user gets exactly one review per event; a second submission answers 409.
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			eventID	path		int				true	"Event ID"
//	@Param			payload	body		ReviewPayload	true	"Rating (1-5) and optional comment"
//	@Success		201		{object}	store.Review
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Failure		409		{object}	error	"User has already reviewed this event"
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/events/{eventID}/reviews [post]
func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid event ID"))
		return
	}

	user := getUserFromContext(r)

	var payload ReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if _, err := app.store.Events.GetByID(r.Context(), eventID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	review := &store.Review{
		EventID: eventID,
		UserID:  user.ID,
		Rating:  payload.Rating,
		Comment: payload.Comment,
	}

	if err := app.store.Reviews.Create(r.Context(), review); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			app.conflictResponse(w, r, fmt.Errorf("you have already reviewed this event"))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	review.Username = user.Username

	if err := app.jsonResponse(w, http.StatusCreated, review); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateReviewHandler godoc
//
//	@Summary		Revise a review
//	@Description	Overwrites the caller's own review of the event. A caller with no review here gets 404.
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			eventID	path		int				true	"Event ID"
//	@Param			payload	body		ReviewPayload	true	"Rating (1-5) and optional comment"
//	@Success		200		{object}	store.Review
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/events/{eventID}/reviews [put]
func (app *application) updateReviewHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid event ID"))
		return
	}

	user := getUserFromContext(r)

	var payload ReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	review := &store.Review{
		EventID: eventID,
		UserID:  user.ID,
		Rating:  payload.Rating,
		Comment: payload.Comment,
	}

	// Keyed on (event, user): a caller can only ever touch their own row,
	// so a foreign review is indistinguishable from a missing one.
	if err := app.store.Reviews.Update(r.Context(), review); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	review.Username = user.Username

	if err := app.jsonResponse(w, http.StatusOK, review); err != nil {
		app.internalServerError(w, r, err)
	}
}
