package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"cariri/internal/store"

	"github.com/go-chi/chi/v5"
)

type CommentPayload struct {
	Body string `json:"body" validate:"required,max=1000"`
}

// createCommentHandler godoc
//
//	@Summary		Comment on an event
//	@Description	Adds a comment to an event. Any authenticated user may comment, any number of times.
//	@Tags			comments
//	@Accept			json
//	@Produce		json
//	@Param			eventID	path		int				true	"Event ID"
//	@Param			payload	body		CommentPayload	true	"Comment body"
//	@Success		201		{object}	store.Comment
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/events/{eventID}/comments [post]
func (app *application) createCommentHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid event ID"))
		return
	}

	user := getUserFromContext(r)

	var payload CommentPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// The event has to exist before anyone can talk about it.
	if _, err := app.store.Events.GetByID(r.Context(), eventID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	comment := &store.Comment{
		EventID:  eventID,
		AuthorID: user.ID,
		Body:     payload.Body,
	}

	if err := app.store.Comments.Create(r.Context(), comment); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	comment.AuthorUsername = user.Username

	if err := app.jsonResponse(w, http.StatusCreated, comment); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateCommentHandler godoc
//
//	@Summary		Edit a comment
//	@Description	Overwrites the comment body. Only the author may edit.
//	@Tags			comments
//	@Accept			json
//	@Produce		json
//	@Param			commentID	path		int				true	"Comment ID"
//	@Param			payload		body		CommentPayload	true	"New comment body"
//	@Success		200			{object}	store.Comment
//	@Failure		400			{object}	error
//	@Failure		403			{object}	error
//	@Failure		404			{object}	error
//	@Failure		500			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/comments/{commentID} [put]
func (app *application) updateCommentHandler(w http.ResponseWriter, r *http.Request) {
	commentID, err := strconv.ParseInt(chi.URLParam(r, "commentID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid comment ID"))
		return
	}

	user := getUserFromContext(r)

	var payload CommentPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	comment, err := app.store.Comments.GetByID(r.Context(), commentID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if comment.AuthorID != user.ID {
		app.forbiddenResponse(w, r)
		return
	}

	comment.Body = payload.Body
	if err := app.store.Comments.Update(r.Context(), comment); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, comment); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteCommentHandler godoc
//
//	@Summary		Delete a comment
//	@Description	Removes a comment. Only the author may delete.
//	@Tags			comments
//	@Produce		json
//	@Param			commentID	path		int		true	"Comment ID"
//	@Success		204			{string}	string	"Comment deleted"
//	@Failure		403			{object}	error
//	@Failure		404			{object}	error
//	@Failure		500			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/comments/{commentID} [delete]
func (app *application) deleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	commentID, err := strconv.ParseInt(chi.URLParam(r, "commentID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid comment ID"))
		return
	}

	user := getUserFromContext(r)

	comment, err := app.store.Comments.GetByID(r.Context(), commentID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if comment.AuthorID != user.ID {
		app.forbiddenResponse(w, r)
		return
	}

	if err := app.store.Comments.Delete(r.Context(), commentID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusNoContent, ""); err != nil {
		app.internalServerError(w, r, err)
	}
}
