package main

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"cariri/internal/geocode"
	"cariri/internal/store"

	"github.com/go-chi/chi/v5"
)

type CreateEventPayload struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"required,max=2000"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	Category    string    `json:"category" validate:"required,eventcategory"`
	AgeGroup    string    `json:"age_group" validate:"required,oneof=livre +12 +16 +18"`
	Privacy     string    `json:"privacy" validate:"required,oneof=public private"`
	TicketType  string    `json:"ticket_type" validate:"required,oneof=pago gratuito"`
	Price       *float64  `json:"price" validate:"omitempty,gte=0"`
	MaxCapacity int       `json:"max_capacity" validate:"required,gt=0"`
}

type AddressPayload struct {
	CEP          string `json:"cep" validate:"required,max=9"`
	Street       string `json:"street" validate:"required,max=200"`
	Number       string `json:"number" validate:"required,max=20"`
	Neighborhood string `json:"neighborhood" validate:"required,max=100"`
	City         string `json:"city" validate:"required,max=100"`
	State        string `json:"state" validate:"required,brstate"`
}

// EventDetail is the full event page: the event, its gallery and everything
// readers have said about it.
type EventDetail struct {
	Event         *store.Event       `json:"event"`
	Images        []store.EventImage `json:"images"`
	SimilarEvents []store.Event      `json:"similar_events"`
	Comments      []store.Comment    `json:"comments"`
	Reviews       []store.Review     `json:"reviews"`
	TotalReviews  int                `json:"total_reviews"`
	AverageRating float64            `json:"average_rating"`
	UserReview    *store.Review      `json:"user_review,omitempty"`
}

// createEventHandler godoc
//
//	@Summary		Submit an event
//	@Description	Creates an event from a multipart form: an "event" JSON part, an "address" JSON part and up to 5 images. The address is geocoded and the event enters moderation as under_review.
//	@Tags			events
//	@Accept			mpfd
//	@Produce		json
//	@Param			event	formData	string	true	"Event JSON"
//	@Param			address	formData	string	true	"Address JSON"
//	@Param			images	formData	file	false	"Event images (JPEG/PNG/GIF, max 5, 10MB each)"
//	@Success		201		{object}	store.Event
//	@Failure		400		{object}	error
//	@Failure		424		{object}	error	"Address could not be geocoded"
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/events [post]
func (app *application) createEventHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload CreateEventPayload
	var address AddressPayload
	files, err := app.parseEventForm(w, r, &payload, &address)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(address); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if !payload.StartsAt.After(time.Now()) {
		app.badRequestResponse(w, r, fmt.Errorf("starts_at must be in the future"))
		return
	}

	// A paid event needs a price; a free one must not carry one.
	if payload.TicketType == store.TicketPaid && payload.Price == nil {
		app.badRequestResponse(w, r, fmt.Errorf("price is required for paid events"))
		return
	}
	if payload.TicketType == store.TicketFree && payload.Price != nil {
		app.badRequestResponse(w, r, fmt.Errorf("price must not be set for free events"))
		return
	}

	if err := validateImages(files); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	event := &store.Event{
		Title:       payload.Title,
		Description: payload.Description,
		StartsAt:    payload.StartsAt,
		Category:    payload.Category,
		AgeGroup:    payload.AgeGroup,
		Privacy:     payload.Privacy,
		TicketType:  payload.TicketType,
		MaxCapacity: payload.MaxCapacity,
		CreatorID:   user.ID,
		Location: store.Location{
			CEP:          address.CEP,
			Street:       address.Street,
			Number:       address.Number,
			Neighborhood: address.Neighborhood,
			City:         address.City,
			State:        address.State,
		},
	}
	if payload.Price != nil {
		event.Price = store.NewNullFloat64(sql.NullFloat64{Float64: *payload.Price, Valid: true})
	}

	coords, err := app.geocoder.Geocode(r.Context(), event.Location.FormattedAddress())
	if err != nil {
		switch {
		case errors.Is(err, geocode.ErrNoResult):
			app.failedDependencyResponse(w, r, fmt.Errorf("address could not be resolved to coordinates"))
		default:
			app.failedDependencyResponse(w, r, fmt.Errorf("geocoding service unavailable"))
		}
		return
	}
	event.Location.SetCoordinates(coords.Latitude, coords.Longitude)

	imageURLs, err := app.uploadEventImages(files)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Events.Create(r.Context(), event, imageURLs); err != nil {
		// best effort: the uploads are orphaned otherwise
		for _, url := range imageURLs {
			if derr := app.deletePhotoFromCloudinary(url); derr != nil {
				app.logger.Errorw("failed to delete orphaned image", "url", url, "error", derr)
			}
		}
		app.internalServerError(w, r, err)
		return
	}

	app.logger.Infow("event submitted", "event_id", event.ID, "creator_id", user.ID)

	if err := app.jsonResponse(w, http.StatusCreated, event); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getEventHandler godoc
//
//	@Summary		Get an event
//	@Description	Returns the event detail page: the event, its images, similar events, comments, reviews and the rating aggregate. With a bearer token the caller's own review is included.
//	@Tags			events
//	@Produce		json
//	@Param			eventID	path		int	true	"Event ID"
//	@Success		200		{object}	EventDetail
//	@Failure		404		{object}	error
//	@Failure		500		{object}	error
//	@Router			/events/{eventID} [get]
func (app *application) getEventHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid event ID"))
		return
	}

	ctx := r.Context()
	user := getUserFromContext(r)

	event, err := app.store.Events.GetByID(ctx, eventID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	// Unapproved events are visible only to their creator and to moderators.
	if event.Status != store.StatusApproved {
		if user == nil || (user.ID != event.CreatorID && !user.IsModerator()) {
			app.notFoundResponse(w, r, store.ErrNotFound)
			return
		}
	}

	images, err := app.store.Images.ListByEvent(ctx, eventID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	similar, err := app.store.Events.Similar(ctx, event, 4)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	comments, err := app.store.Comments.GetByEventID(ctx, eventID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	reviews, err := app.store.Reviews.GetByEventID(ctx, eventID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	totalReviews, averageRating, err := app.store.Reviews.GetReviewStats(ctx, eventID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	detail := EventDetail{
		Event:         event,
		Images:        images,
		SimilarEvents: similar,
		Comments:      comments,
		Reviews:       reviews,
		TotalReviews:  totalReviews,
		AverageRating: averageRating,
	}

	if user != nil {
		userReview, err := app.store.Reviews.GetUserReview(ctx, eventID, user.ID)
		switch {
		case err == nil:
			detail.UserReview = userReview
		case errors.Is(err, store.ErrNotFound):
			// caller hasn't reviewed yet
		default:
			app.internalServerError(w, r, err)
			return
		}
	}

	if err := app.jsonResponse(w, http.StatusOK, detail); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteEventHandler godoc
//
//	@Summary		Delete an event
//	@Description	Deletes an event together with its location, images, comments and reviews. Only the creator or an admin may delete.
//	@Tags			events
//	@Produce		json
//	@Param			eventID	path		int		true	"Event ID"
//	@Success		204		{string}	string	"Event deleted"
//	@Failure		403		{object}	error
//	@Failure		404		{object}	error
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/events/{eventID} [delete]
func (app *application) deleteEventHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid event ID"))
		return
	}

	ctx := r.Context()
	user := getUserFromContext(r)

	event, err := app.store.Events.GetByID(ctx, eventID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if event.CreatorID != user.ID && !user.IsAdmin() {
		app.forbiddenResponse(w, r)
		return
	}

	// Grab the gallery before the rows cascade away.
	images, err := app.store.Images.ListByEvent(ctx, eventID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Events.Delete(ctx, eventID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	// Cloudinary cleanup is best effort; the listing is already gone.
	for _, image := range images {
		if err := app.deletePhotoFromCloudinary(image.ImageURL); err != nil {
			app.logger.Errorw("failed to delete event image", "event_id", eventID, "url", image.ImageURL, "error", err)
		}
	}

	app.logger.Infow("event deleted", "event_id", eventID, "deleted_by", user.ID)

	if err := app.jsonResponse(w, http.StatusNoContent, ""); err != nil {
		app.internalServerError(w, r, err)
	}
}
