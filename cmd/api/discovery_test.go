package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cariri/internal/store"

	"github.com/stretchr/testify/require"
)

func TestListApprovedEventsHandler(t *testing.T) {
	st := testStorage()
	events := st.Events.(*fakeEventsStore)

	app := newTestApplication(t, st)
	mux := app.mount()

	t.Run("returns pagination metadata", func(t *testing.T) {
		events.listApproved = []store.Event{
			{ID: 1, Title: "Evento A", Status: store.StatusApproved},
			{ID: 2, Title: "Evento B", Status: store.StatusApproved},
		}
		events.listTotal = 25

		req := httptest.NewRequest(http.MethodGet, "/v1/events?page=2", nil)
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusOK, rr.Code)

		var envelope struct {
			Data PaginatedEvents `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
		require.Equal(t, 2, envelope.Data.Page)
		require.Equal(t, 10, envelope.Data.PageSize)
		require.Equal(t, 25, envelope.Data.Total)
		require.Equal(t, 3, envelope.Data.TotalPages)
		require.Len(t, envelope.Data.Events, 2)
	})

	t.Run("passes filters down to the store", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/events?category=Teatro&location=Barbalha&min_price=5", nil)
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusOK, rr.Code)

		require.Equal(t, "Teatro", events.lastFilter.Category)
		require.Equal(t, "Barbalha", events.lastFilter.City)
		require.NotNil(t, events.lastFilter.MinPrice)
		require.Equal(t, 5.0, *events.lastFilter.MinPrice)
	})

	t.Run("an empty page serializes as an empty list", func(t *testing.T) {
		events.listApproved = nil
		events.listTotal = 0

		req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusOK, rr.Code)
		require.Contains(t, rr.Body.String(), `"events":[]`)
	})

	t.Run("invalid category is 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/events?category=Inexistente", nil)
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("inverted date range is 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/events?start_date=2026-10-01&end_date=2026-09-01", nil)
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusBadRequest, rr.Code)
	})
}

func TestSearchEventTitlesHandler(t *testing.T) {
	st := testStorage()
	events := st.Events.(*fakeEventsStore)
	app := newTestApplication(t, st)
	mux := app.mount()

	t.Run("empty query returns an empty list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/events/search", nil)
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusOK, rr.Code)

		var envelope struct {
			Data []store.TitleMatch `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
		require.Empty(t, envelope.Data)
	})

	t.Run("reads the q parameter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/events/search?q=vaquejada", nil)
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusOK, rr.Code)
		require.Equal(t, "vaquejada", events.lastSearch)
	})
}

func TestUpcomingEventsHandler(t *testing.T) {
	app := newTestApplication(t, testStorage())
	mux := app.mount()

	req := httptest.NewRequest(http.MethodGet, "/v1/events/upcoming", nil)
	rr := executeRequest(req, mux)
	checkResponseCode(t, http.StatusOK, rr.Code)
}
