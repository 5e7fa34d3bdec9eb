package bustimes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jusunglee/bus-times/internal/feed"
	"github.com/jusunglee/bus-times/internal/models"
	"github.com/jusunglee/bus-times/internal/store"
)

var testNow = time.Date(2025, time.June, 10, 13, 0, 0, 0, time.UTC)

// newTestClient serves the mock predictions for every stop except those in failing
func newTestClient(t *testing.T, failing ...string) *LocalClient {
	t.Helper()
	body, err := json.Marshal(feed.CreateMockPredictions(testNow))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stopID := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/StopPoint/"), "/Arrivals")
		for _, id := range failing {
			if id == stopID {
				http.Error(w, "boom", http.StatusInternalServerError)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.Feed.BaseURL = srv.URL
	client := NewLocal(cfg)
	t.Cleanup(client.Close)
	return client
}

func lines(predictions []models.ArrivalPrediction) []string {
	var result []string
	for _, p := range predictions {
		result = append(result, p.LineID+" "+p.DestinationName)
	}
	return result
}

func TestStops(t *testing.T) {
	client := newTestClient(t)

	assert.Len(t, client.Stops(""), 10)
	assert.Len(t, client.Stops("Nowhere"), 10)

	richmond := client.Stops("Richmond")
	require.Len(t, richmond, 1)
	assert.Equal(t, "490010725S", richmond[0].ID)

	assert.Len(t, client.Sites(), 4)
}

func TestStop(t *testing.T) {
	client := newTestClient(t)

	assert.Equal(t, "Cheam Broadway Stop D", client.Stop("490005056D").Name)

	unknown := client.Stop("490099999Z")
	assert.Equal(t, "490099999Z", unknown.ID)
	assert.Equal(t, "490099999Z", unknown.Name)
}

func TestArrivals(t *testing.T) {
	client := newTestClient(t)

	res, err := client.Arrivals(context.Background(), "490005056D")
	require.NoError(t, err)
	assert.Equal(t, "Cheam Broadway Stop D", res.Stop.Name)
	assert.Equal(t, []string{
		"SL7 Heathrow Airport",
		"213 Sutton",
		"213 Kingston",
		"293 Epsom",
		"151 Wallington",
	}, lines(res.Predictions))
}

func TestArrivalsAppliesStopFilter(t *testing.T) {
	client := newTestClient(t)
	registry, err := store.NewRegistry([]models.Stop{
		{ID: "490015206L", Name: "New Malden / Kingston Road (Stop L)", Flag: 1, Lines: []string{"SL7", "213"}, Destination: "Kingston"},
	}, nil)
	require.NoError(t, err)
	client.registry = registry

	res, err := client.Arrivals(context.Background(), "490015206L")
	require.NoError(t, err)
	assert.Equal(t, []string{"213 Kingston"}, lines(res.Predictions))

	board := client.Board(context.Background(), "")
	require.Len(t, board, 1)
	assert.Equal(t, []string{"213 Kingston"}, lines(board[0].Predictions))
}

func TestArrivalsLimit(t *testing.T) {
	client := newTestClient(t)
	client.limit = 2

	res, err := client.Arrivals(context.Background(), "490005056D")
	require.NoError(t, err)
	assert.Len(t, res.Predictions, 2)
}

func TestArrivalsUnknownStopIsFetched(t *testing.T) {
	client := newTestClient(t)

	res, err := client.Arrivals(context.Background(), "490099999Z")
	require.NoError(t, err)
	assert.Equal(t, "490099999Z", res.Stop.Name)
	assert.Len(t, res.Predictions, 5)
}

func TestArrivalsError(t *testing.T) {
	client := newTestClient(t, "490005056D")

	res, err := client.Arrivals(context.Background(), "490005056D")
	require.Error(t, err)
	var formatErr *feed.FormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, http.StatusInternalServerError, formatErr.Status)
	assert.Equal(t, "Cheam Broadway Stop D", res.Stop.Name)
	assert.Empty(t, res.Predictions)
}

func TestBoard(t *testing.T) {
	client := newTestClient(t, "490003909N")

	board := client.Board(context.Background(), "NewMalden")
	require.Len(t, board, 5)

	ids := make([]string, len(board))
	for i, entry := range board {
		ids[i] = entry.Stop.ID
	}
	assert.Equal(t, []string{"490015206K", "490015206L", "490003909N", "490013664C1", "40004405129A"}, ids)

	assert.NoError(t, board[0].Err)
	assert.Len(t, board[0].Predictions, 5)
	assert.Len(t, board[1].Predictions, 5)
	assert.Error(t, board[2].Err)
	assert.Empty(t, board[2].Predictions)
	assert.NoError(t, board[3].Err)
}
