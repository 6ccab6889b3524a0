package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"cariri/internal/store"
)

func TestCommentHandlers(t *testing.T) {
	st := testStorage()
	users := st.Users.(*fakeUsersStore)
	events := st.Events.(*fakeEventsStore)
	comments := st.Comments.(*fakeCommentsStore)

	author := testUser(1, roleUser)
	stranger := testUser(2, roleUser)
	users.users[author.ID] = author
	users.users[stranger.ID] = stranger

	events.events[1] = &store.Event{ID: 1, Title: "Sarau no Centro", Category: "Cultura", Status: store.StatusApproved, CreatorID: author.ID}

	app := newTestApplication(t, st)
	mux := app.mount()

	t.Run("creates a comment", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/events/1/comments", bytes.NewBufferString(`{"body": "vou com certeza"}`))
		req.Header.Set("Authorization", bearerFor(t, app, author))
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusCreated, rr.Code)
	})

	t.Run("empty body is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/events/1/comments", bytes.NewBufferString(`{"body": ""}`))
		req.Header.Set("Authorization", bearerFor(t, app, author))
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("commenting on a missing event is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/events/999/comments", bytes.NewBufferString(`{"body": "oi"}`))
		req.Header.Set("Authorization", bearerFor(t, app, author))
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusNotFound, rr.Code)
	})

	t.Run("only the author may edit", func(t *testing.T) {
		comments.comments[50] = &store.Comment{ID: 50, EventID: 1, AuthorID: author.ID, Body: "original"}

		req := httptest.NewRequest(http.MethodPut, "/v1/comments/50", bytes.NewBufferString(`{"body": "hackeado"}`))
		req.Header.Set("Authorization", bearerFor(t, app, stranger))
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusForbidden, rr.Code)

		req = httptest.NewRequest(http.MethodPut, "/v1/comments/50", bytes.NewBufferString(`{"body": "editado"}`))
		req.Header.Set("Authorization", bearerFor(t, app, author))
		rr = executeRequest(req, mux)
		checkResponseCode(t, http.StatusOK, rr.Code)
	})

	t.Run("only the author may delete", func(t *testing.T) {
		comments.comments[51] = &store.Comment{ID: 51, EventID: 1, AuthorID: author.ID, Body: "para deletar"}

		req := httptest.NewRequest(http.MethodDelete, "/v1/comments/51", nil)
		req.Header.Set("Authorization", bearerFor(t, app, stranger))
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusForbidden, rr.Code)

		req = httptest.NewRequest(http.MethodDelete, "/v1/comments/51", nil)
		req.Header.Set("Authorization", bearerFor(t, app, author))
		rr = executeRequest(req, mux)
		checkResponseCode(t, http.StatusNoContent, rr.Code)
	})

	t.Run("deleting a missing comment is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/v1/comments/999", nil)
		req.Header.Set("Authorization", bearerFor(t, app, author))
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusNotFound, rr.Code)
	})
}
