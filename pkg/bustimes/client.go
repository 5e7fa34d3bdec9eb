package bustimes

import (
	"context"
	"log/slog"

	"github.com/jusunglee/bus-times/internal/feed"
	"github.com/jusunglee/bus-times/internal/filter"
	"github.com/jusunglee/bus-times/internal/models"
	"github.com/jusunglee/bus-times/internal/store"
)

// Client defines the interface for accessing stops and their next buses
type Client interface {
	// Stops returns the stops of a site; an empty or unknown site gives every stop
	Stops(site string) []models.Stop
	Sites() []models.Site
	// Stop looks up a stop. Unknown IDs are returned with the ID as their name.
	Stop(id string) models.Stop

	// Arrivals fetches and selects the next buses for one stop
	Arrivals(ctx context.Context, stopID string) (StopArrivals, error)
	// Board fetches the next buses for every stop of a site. Failures are
	// reported per stop.
	Board(ctx context.Context, site string) []StopArrivals
}

// StopArrivals is the selected arrivals for a stop
type StopArrivals struct {
	Stop        models.Stop                `json:"stop"`
	Predictions []models.ArrivalPrediction `json:"arrivals"`
	Err         error                      `json:"-"`
}

// Config holds configuration for the bus times client
type Config struct {
	Feed feed.Config
	// Limit caps the arrivals shown per stop, at most filter.MaxArrivals
	Limit int
	// Registry is the stop table; nil means the built-in one
	Registry *store.Registry
	Logger   *slog.Logger
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Feed: feed.Config{
			BaseURL: feed.DefaultBaseURL,
			Timeout: feed.DefaultTimeout,
		},
		Limit: filter.MaxArrivals,
	}
}

var _ Client = (*LocalClient)(nil)
