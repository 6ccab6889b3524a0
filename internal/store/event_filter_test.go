package store

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventFilterQuery_Parse(t *testing.T) {
	base := EventFilterQuery{Limit: 10}

	t.Run("no parameters means no filters", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/v1/events", nil)
		fq, err := base.Parse(r)
		require.NoError(t, err)
		assert.Empty(t, fq.Category)
		assert.Empty(t, fq.City)
		assert.Empty(t, fq.Query)
		assert.True(t, fq.StartDate.IsZero())
		assert.Nil(t, fq.MinPrice)
		assert.Zero(t, fq.Offset)
	})

	t.Run("all filters combined", func(t *testing.T) {
		r := httptest.NewRequest("GET",
			"/v1/events?category=Vaquejada&location=Crato&query=festival&start_date=2026-09-01&end_date=2026-09-30&min_price=10&max_price=50.5&page=3", nil)
		fq, err := base.Parse(r)
		require.NoError(t, err)
		assert.Equal(t, "Vaquejada", fq.Category)
		assert.Equal(t, "Crato", fq.City)
		assert.Equal(t, "festival", fq.Query)
		assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), fq.StartDate)
		assert.Equal(t, time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC), fq.EndDate)
		require.NotNil(t, fq.MinPrice)
		assert.Equal(t, 10.0, *fq.MinPrice)
		require.NotNil(t, fq.MaxPrice)
		assert.Equal(t, 50.5, *fq.MaxPrice)
		assert.Equal(t, 20, fq.Offset)
	})

	t.Run("unknown category is rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/v1/events?category=Rodeio", nil)
		_, err := base.Parse(r)
		require.Error(t, err)
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/v1/events?start_date=2026-09-30&end_date=2026-09-01", nil)
		_, err := base.Parse(r)
		require.Error(t, err)
	})

	t.Run("malformed date is rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/v1/events?start_date=30-09-2026", nil)
		_, err := base.Parse(r)
		require.Error(t, err)
	})

	t.Run("page below one is rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/v1/events?page=0", nil)
		_, err := base.Parse(r)
		require.Error(t, err)
	})

	t.Run("zero min price stays expressible", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/v1/events?min_price=0", nil)
		fq, err := base.Parse(r)
		require.NoError(t, err)
		require.NotNil(t, fq.MinPrice)
		assert.Zero(t, *fq.MinPrice)
	})
}
