package bustimes

import (
	"context"
	"log/slog"

	"github.com/jusunglee/bus-times/internal/feed"
	"github.com/jusunglee/bus-times/internal/filter"
	"github.com/jusunglee/bus-times/internal/models"
	"github.com/jusunglee/bus-times/internal/store"
)

// LocalClient implements the Client interface against the TfL API directly
type LocalClient struct {
	registry *store.Registry
	feed     *feed.Client
	limit    int
	logger   *slog.Logger
}

// NewLocal creates a new local bus times client
func NewLocal(config Config) *LocalClient {
	if config.Registry == nil {
		config.Registry = store.Default()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &LocalClient{
		registry: config.Registry,
		feed:     feed.NewClient(config.Feed, config.Logger),
		limit:    config.Limit,
		logger:   config.Logger,
	}
}

// Close releases idle upstream connections
func (c *LocalClient) Close() {
	c.feed.Close()
}

// Stops returns the stops of a site, or every stop when site is empty
func (c *LocalClient) Stops(site string) []models.Stop {
	if site == "" {
		return c.registry.Stops()
	}
	return c.registry.Resolve(site)
}

// Sites returns the configured sites
func (c *LocalClient) Sites() []models.Site {
	return c.registry.Sites()
}

// Stop looks up a stop, falling back to its ID as the name
func (c *LocalClient) Stop(id string) models.Stop {
	if stop, ok := c.registry.Lookup(id); ok {
		return stop
	}
	return models.Stop{ID: id, Name: c.registry.DisplayName(id)}
}

func (c *LocalClient) options(stop models.Stop) filter.Options {
	opts := filter.ForStop(stop)
	opts.Limit = c.limit
	return opts
}

// Arrivals fetches one stop and applies its line and destination filters
func (c *LocalClient) Arrivals(ctx context.Context, stopID string) (StopArrivals, error) {
	stop := c.Stop(stopID)
	predictions, err := c.feed.FetchArrivals(ctx, stop.ID)
	if err != nil {
		return StopArrivals{Stop: stop, Err: err}, err
	}
	return StopArrivals{
		Stop:        stop,
		Predictions: filter.Select(predictions, c.options(stop)),
	}, nil
}

// Board fetches every stop of a site in parallel. A failed stop is logged
// and returned with its error.
func (c *LocalClient) Board(ctx context.Context, site string) []StopArrivals {
	stops := c.Stops(site)
	ids := make([]string, len(stops))
	for i, stop := range stops {
		ids[i] = stop.ID
	}

	results := c.feed.FetchMany(ctx, ids)
	board := make([]StopArrivals, len(stops))
	for i, res := range results {
		board[i] = StopArrivals{Stop: stops[i], Err: res.Err}
		if res.Err != nil {
			c.logger.Warn("fetching arrivals failed", "stop_id", res.StopID, "error", res.Err)
			continue
		}
		board[i].Predictions = filter.Select(res.Predictions, c.options(stops[i]))
	}
	return board
}
