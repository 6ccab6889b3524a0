package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Geocode(t *testing.T) {
	t.Run("resolves coordinates", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search", r.URL.Path)
			assert.Equal(t, "Rua São Pedro, 100, Centro, Juazeiro do Norte, CE", r.URL.Query().Get("q"))
			assert.Equal(t, "json", r.URL.Query().Get("format"))
			assert.Equal(t, "1", r.URL.Query().Get("limit"))
			assert.Equal(t, "eventos-cariri-test", r.Header.Get("User-Agent"))
			w.Write([]byte(`[{"lat": "-7.213150", "lon": "-39.315400"}]`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "eventos-cariri-test", time.Second)
		coords, err := c.Geocode(context.Background(), "Rua São Pedro, 100, Centro, Juazeiro do Norte, CE")
		require.NoError(t, err)
		assert.InDelta(t, -7.213150, coords.Latitude, 0.000001)
		assert.InDelta(t, -39.315400, coords.Longitude, 0.000001)
	})

	t.Run("empty result set", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "eventos-cariri-test", time.Second)
		_, err := c.Geocode(context.Background(), "Rua Inexistente, 0, Nada, Lugar Nenhum, XX")
		require.ErrorIs(t, err, ErrNoResult)
	})

	t.Run("upstream error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "eventos-cariri-test", time.Second)
		_, err := c.Geocode(context.Background(), "qualquer endereço")
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrNoResult)
	})

	t.Run("honors the request context", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "eventos-cariri-test", time.Second)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := c.Geocode(ctx, "qualquer endereço")
		require.Error(t, err)
	})
}
