package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"cariri/internal/store"
)

func TestReviewHandlers(t *testing.T) {
	st := testStorage()
	users := st.Users.(*fakeUsersStore)
	events := st.Events.(*fakeEventsStore)

	alice := testUser(1, roleUser)
	bob := testUser(2, roleUser)
	users.users[alice.ID] = alice
	users.users[bob.ID] = bob

	events.events[1] = &store.Event{ID: 1, Title: "Vaquejada de Barbalha", Category: "Vaquejada", Status: store.StatusApproved, CreatorID: bob.ID}

	app := newTestApplication(t, st)
	mux := app.mount()

	post := func(user *store.User, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
		req.Header.Set("Authorization", bearerFor(t, app, user))
		return executeRequest(req, mux)
	}
	put := func(user *store.User, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, path, bytes.NewBufferString(body))
		req.Header.Set("Authorization", bearerFor(t, app, user))
		return executeRequest(req, mux)
	}

	t.Run("first review is created", func(t *testing.T) {
		rr := post(alice, "/v1/events/1/reviews", `{"rating": 5, "comment": "show demais"}`)
		checkResponseCode(t, http.StatusCreated, rr.Code)
	})

	t.Run("second review by the same user conflicts", func(t *testing.T) {
		rr := post(alice, "/v1/events/1/reviews", `{"rating": 1, "comment": "mudei de ideia"}`)
		checkResponseCode(t, http.StatusConflict, rr.Code)
	})

	t.Run("another user can still review", func(t *testing.T) {
		rr := post(bob, "/v1/events/1/reviews", `{"rating": 3}`)
		checkResponseCode(t, http.StatusCreated, rr.Code)
	})

	t.Run("rating outside 1-5 is rejected", func(t *testing.T) {
		rr := post(bob, "/v1/events/999/reviews", `{"rating": 6}`)
		checkResponseCode(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("reviewing a missing event is 404", func(t *testing.T) {
		st := testStorage()
		st.Users.(*fakeUsersStore).users[alice.ID] = alice
		freshApp := newTestApplication(t, st)
		freshMux := freshApp.mount()

		req := httptest.NewRequest(http.MethodPost, "/v1/events/999/reviews", bytes.NewBufferString(`{"rating": 4}`))
		req.Header.Set("Authorization", bearerFor(t, freshApp, alice))
		rr := executeRequest(req, freshMux)
		checkResponseCode(t, http.StatusNotFound, rr.Code)
	})

	t.Run("revising own review succeeds", func(t *testing.T) {
		rr := put(alice, "/v1/events/1/reviews", `{"rating": 4, "comment": "ainda bom"}`)
		checkResponseCode(t, http.StatusOK, rr.Code)
	})

	t.Run("revising where no review exists is 404", func(t *testing.T) {
		carol := testUser(3, roleUser)
		users.users[carol.ID] = carol
		rr := put(carol, "/v1/events/1/reviews", `{"rating": 2}`)
		checkResponseCode(t, http.StatusNotFound, rr.Code)
	})

	t.Run("anonymous callers cannot review", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/events/1/reviews", bytes.NewBufferString(`{"rating": 5}`))
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusUnauthorized, rr.Code)
	})
}
