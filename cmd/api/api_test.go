package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cariri/internal/auth"
	"cariri/internal/geocode"
	"cariri/internal/ratelimiter"
	"cariri/internal/store"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApplication(t *testing.T, st store.Storage) *application {
	t.Helper()

	return &application{
		config: config{
			addr: ":0",
			env:  "test",
			auth: authConfig{
				basic: basicConfig{user: "admin", pass: "admin"},
			},
			rateLimiter: ratelimiter.Config{Enabled: false},
		},
		store:         st,
		logger:        zap.NewNop().Sugar(),
		authenticator: auth.NewJWTAuthenticator("test-secret", "test-refresh-secret", "test", "test", time.Hour, time.Hour),
		geocoder:      &stubGeocoder{},
		rateLimiter:   ratelimiter.NewFixedWindowLimiter(1000, time.Second),
	}
}

func executeRequest(req *http.Request, mux http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func checkResponseCode(t *testing.T, expected, actual int) {
	t.Helper()
	require.Equal(t, expected, actual, "unexpected response code")
}

// bearerFor mints a real access token for the given user so requests travel
// the full middleware path.
func bearerFor(t *testing.T, app *application, user *store.User) string {
	t.Helper()
	accessToken, _, err := app.authenticator.GenerateTokens(user.ID, user.Role.Name)
	require.NoError(t, err)
	return "Bearer " + accessToken
}

func testUser(id int64, role store.Role) *store.User {
	return &store.User{
		ID:       id,
		Username: fmt.Sprintf("user%d", id),
		Name:     fmt.Sprintf("User %d", id),
		Email:    fmt.Sprintf("user%d@example.com", id),
		City:     "JDO",
		IsActive: true,
		RoleID:   role.ID,
		Role:     role,
	}
}

var (
	roleUser      = store.Role{ID: 1, Name: store.RoleUser, Level: 1}
	roleModerator = store.Role{ID: 2, Name: store.RoleModerator, Level: 2}
	roleAdmin     = store.Role{ID: 3, Name: store.RoleAdmin, Level: 3}
)

type stubGeocoder struct {
	err error
}

func (g *stubGeocoder) Geocode(ctx context.Context, address string) (geocode.Coordinates, error) {
	if g.err != nil {
		return geocode.Coordinates{}, g.err
	}
	return geocode.Coordinates{Latitude: -7.2131, Longitude: -39.3154}, nil
}

// ---- in-memory fakes for store.Storage ----

type fakeUsersStore struct {
	users map[int64]*store.User
}

func (f *fakeUsersStore) GetByID(_ context.Context, id int64) (*store.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeUsersStore) GetByEmail(_ context.Context, email string) (*store.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUsersStore) CreateAndInvite(_ context.Context, user *store.User, _ string, _ time.Duration) error {
	user.ID = int64(len(f.users) + 1)
	f.users[user.ID] = user
	return nil
}

func (f *fakeUsersStore) Activate(_ context.Context, _ string) error { return nil }

func (f *fakeUsersStore) Delete(_ context.Context, id int64) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUsersStore) UpdateUser(_ context.Context, _ int64, _ map[string]interface{}) error {
	return nil
}

func (f *fakeUsersStore) SetProfilePicture(_ context.Context, url string, id int64) error {
	if u, ok := f.users[id]; ok {
		u.ProfilePictureURL = store.NewNullString(sql.NullString{String: url, Valid: true})
	}
	return nil
}

func (f *fakeUsersStore) GetProfilePictureURL(_ context.Context, id int64) (string, error) {
	if u, ok := f.users[id]; ok {
		return u.ProfilePictureURL.Value, nil
	}
	return "", store.ErrNotFound
}

func (f *fakeUsersStore) SetRefreshToken(_ context.Context, id int64, token string) error {
	if u, ok := f.users[id]; ok {
		u.RefreshToken = token
	}
	return nil
}

type fakeRolesStore struct{}

func (f *fakeRolesStore) EnsureDefaults(_ context.Context) error { return nil }

type fakeEventsStore struct {
	events map[int64]*store.Event

	listApproved []store.Event
	listTotal    int
	lastFilter   store.EventFilterQuery
	lastSearch   string
}

func (f *fakeEventsStore) Create(_ context.Context, event *store.Event, _ []string) error {
	event.ID = int64(len(f.events) + 1)
	event.Status = store.StatusUnderReview
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventsStore) GetByID(_ context.Context, id int64) (*store.Event, error) {
	if e, ok := f.events[id]; ok {
		return e, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeEventsStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.events[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEventsStore) UpdateStatus(_ context.Context, id int64, next store.EventStatus) error {
	e, ok := f.events[id]
	if !ok {
		return store.ErrNotFound
	}
	if e.Status == next {
		return nil
	}
	if !e.Status.CanTransitionTo(next) {
		return store.ErrConflict
	}
	e.Status = next
	return nil
}

func (f *fakeEventsStore) ListPending(_ context.Context, _, _ int) ([]store.Event, int, error) {
	var pending []store.Event
	for _, e := range f.events {
		if e.Status == store.StatusUnderReview {
			pending = append(pending, *e)
		}
	}
	return pending, len(pending), nil
}

func (f *fakeEventsStore) ListApproved(_ context.Context, fq store.EventFilterQuery) ([]store.Event, int, error) {
	f.lastFilter = fq
	return f.listApproved, f.listTotal, nil
}

func (f *fakeEventsStore) Similar(_ context.Context, _ *store.Event, _ int) ([]store.Event, error) {
	return nil, nil
}

func (f *fakeEventsStore) SearchTitles(_ context.Context, query string, _ int) ([]store.TitleMatch, error) {
	f.lastSearch = query
	return nil, nil
}

func (f *fakeEventsStore) Upcoming(_ context.Context, _ int) ([]store.Event, error) {
	return nil, nil
}

type fakeImagesStore struct{}

func (f *fakeImagesStore) ListByEvent(_ context.Context, _ int64) ([]store.EventImage, error) {
	return nil, nil
}

type fakeCommentsStore struct {
	comments map[int64]*store.Comment
}

func (f *fakeCommentsStore) Create(_ context.Context, comment *store.Comment) error {
	comment.ID = int64(len(f.comments) + 1)
	f.comments[comment.ID] = comment
	return nil
}

func (f *fakeCommentsStore) GetByID(_ context.Context, id int64) (*store.Comment, error) {
	if c, ok := f.comments[id]; ok {
		return c, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeCommentsStore) GetByEventID(_ context.Context, _ int64) ([]store.Comment, error) {
	return nil, nil
}

func (f *fakeCommentsStore) Update(_ context.Context, comment *store.Comment) error {
	if _, ok := f.comments[comment.ID]; !ok {
		return store.ErrNotFound
	}
	f.comments[comment.ID] = comment
	return nil
}

func (f *fakeCommentsStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.comments[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.comments, id)
	return nil
}

type reviewKey struct {
	eventID int64
	userID  int64
}

type fakeReviewsStore struct {
	reviews map[reviewKey]*store.Review
}

func (f *fakeReviewsStore) Create(_ context.Context, review *store.Review) error {
	key := reviewKey{review.EventID, review.UserID}
	if _, ok := f.reviews[key]; ok {
		return store.ErrConflict
	}
	review.ID = int64(len(f.reviews) + 1)
	f.reviews[key] = review
	return nil
}

func (f *fakeReviewsStore) Update(_ context.Context, review *store.Review) error {
	key := reviewKey{review.EventID, review.UserID}
	existing, ok := f.reviews[key]
	if !ok {
		return store.ErrNotFound
	}
	review.ID = existing.ID
	f.reviews[key] = review
	return nil
}

func (f *fakeReviewsStore) GetByEventID(_ context.Context, _ int64) ([]store.Review, error) {
	return nil, nil
}

func (f *fakeReviewsStore) GetUserReview(_ context.Context, eventID, userID int64) (*store.Review, error) {
	if r, ok := f.reviews[reviewKey{eventID, userID}]; ok {
		return r, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeReviewsStore) GetReviewStats(_ context.Context, eventID int64) (int, float64, error) {
	total := 0
	sum := 0
	for key, r := range f.reviews {
		if key.eventID == eventID {
			total++
			sum += r.Rating
		}
	}
	if total == 0 {
		return 0, 0, nil
	}
	return total, float64(sum) / float64(total), nil
}

func testStorage() store.Storage {
	return store.Storage{
		Users:    &fakeUsersStore{users: map[int64]*store.User{}},
		Roles:    &fakeRolesStore{},
		Events:   &fakeEventsStore{events: map[int64]*store.Event{}},
		Images:   &fakeImagesStore{},
		Comments: &fakeCommentsStore{comments: map[int64]*store.Comment{}},
		Reviews:  &fakeReviewsStore{reviews: map[reviewKey]*store.Review{}},
	}
}
