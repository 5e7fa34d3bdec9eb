package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jusunglee/bus-times/internal/models"
)

const (
	// DefaultBaseURL is the TfL unified API
	DefaultBaseURL = "https://api.tfl.gov.uk"
	// DefaultTimeout bounds a single arrivals request
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 4 << 20
)

// TransportError means the arrivals request did not complete
type TransportError struct {
	StopID string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetching arrivals for stop %s: %v", e.StopID, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// FormatError means the arrivals request completed but the response was not
// a list of predictions
type FormatError struct {
	StopID string
	Status int
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("reading arrivals for stop %s (HTTP %d): %v", e.StopID, e.Status, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Config holds the settings for a Client
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client fetches arrival predictions for a stop. It holds no per-request
// state and is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new arrivals client
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Close releases idle upstream connections
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func (c *Client) arrivalsURL(stopID string) string {
	q := url.Values{}
	q.Set("app_key", c.apiKey)
	return fmt.Sprintf("%s/StopPoint/%s/Arrivals?%s", c.baseURL, url.PathEscape(stopID), q.Encode())
}

// FetchArrivals makes one request for the stop's arrivals. It fails with
// *TransportError or *FormatError and never retries.
func (c *Client) FetchArrivals(ctx context.Context, stopID string) ([]models.ArrivalPrediction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.arrivalsURL(stopID), nil)
	if err != nil {
		return nil, &TransportError{StopID: stopID, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// the URL carries the api key, so drop it from the error
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, &TransportError{StopID: stopID, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{StopID: stopID, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FormatError{StopID: stopID, Status: resp.StatusCode, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	predictions, err := decodeArrivals(body)
	if err != nil {
		return nil, &FormatError{StopID: stopID, Status: resp.StatusCode, Err: err}
	}

	c.logger.Debug("fetched arrivals",
		"stop_id", stopID,
		"count", len(predictions),
		"duration", time.Since(start))

	return predictions, nil
}

func decodeArrivals(body []byte) ([]models.ArrivalPrediction, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("expected a JSON array: %w", err)
	}
	if raw == nil {
		return nil, errors.New("expected a JSON array, got null")
	}

	predictions := make([]models.ArrivalPrediction, 0, len(raw))
	for i, item := range raw {
		var p models.ArrivalPrediction
		if err := json.Unmarshal(item, &p); err != nil {
			return nil, fmt.Errorf("prediction %d: %w", i, err)
		}
		if p.LineID == "" || p.ExpectedArrival.IsZero() {
			return nil, fmt.Errorf("prediction %d: missing lineId or expectedArrival", i)
		}
		if p.TimeToStation < 0 {
			p.TimeToStation = 0
		}
		predictions = append(predictions, p)
	}
	return predictions, nil
}

// Result is the outcome of fetching one stop in FetchMany
type Result struct {
	StopID      string
	Predictions []models.ArrivalPrediction
	Err         error
}

// FetchMany fetches every stop at once, so the whole call takes at most one
// client timeout. Results are in the order of stopIDs and a failed stop does
// not cancel the others.
func (c *Client) FetchMany(ctx context.Context, stopIDs []string) []Result {
	results := make([]Result, len(stopIDs))

	var g errgroup.Group
	for i, id := range stopIDs {
		i, id := i, id
		g.Go(func() error {
			predictions, err := c.FetchArrivals(ctx, id)
			results[i] = Result{StopID: id, Predictions: predictions, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
