package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/jusunglee/bus-times/internal/gtfsrt"
	"github.com/jusunglee/bus-times/internal/models"
	"github.com/jusunglee/bus-times/internal/render"
	"github.com/jusunglee/bus-times/pkg/bustimes"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json"

	// shown instead of upstream error details
	loadFailedMessage = "Could not load bus times."
)

// Handler handles HTTP requests
type Handler struct {
	client   bustimes.Client
	renderer *render.Renderer
	logger   *slog.Logger
	now      func() time.Time
}

// NewHandler creates a new HTTP handler
func NewHandler(client bustimes.Client, renderer *render.Renderer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		client:   client,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
	}
}

// RegisterRoutes registers all routes. OPTIONS is accepted everywhere so the
// CORS middleware can answer preflight requests.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.handleIndex).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/stop/{stopId}", h.handleStop).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/board", h.handleBoard).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet, http.MethodOptions)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/stops", h.handleStops).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/stops/{stopId}/arrivals", h.handleArrivals).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/stops/{stopId}/gtfsrt", h.handleGTFSRT).Methods(http.MethodGet, http.MethodOptions)
}

// Response wraps API responses
type Response struct {
	Data    interface{} `json:"data"`
	Updated string      `json:"updated,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ArrivalsResponse is the selected arrivals of one stop
type ArrivalsResponse struct {
	Stop     models.Stop          `json:"stop"`
	Arrivals []models.ArrivalView `json:"arrivals"`
}

// knownSite returns site if it names a configured site, otherwise ""
func (h *Handler) knownSite(site string) string {
	for _, s := range h.client.Sites() {
		if s.Name == site {
			return site
		}
	}
	return ""
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	site := h.knownSite(r.URL.Query().Get("site"))
	stops := h.client.Stops(site)

	w.Header().Set("Content-Type", contentTypeHTML)
	h.renderer.Stops(w, site, stops, h.client.Sites())
}

func (h *Handler) handleStop(w http.ResponseWriter, r *http.Request) {
	stopID := mux.Vars(r)["stopId"]

	res, err := h.client.Arrivals(r.Context(), stopID)
	if err != nil {
		h.logFetchError(r, stopID, err)
		w.Header().Set("Content-Type", contentTypeHTML)
		w.WriteHeader(http.StatusBadGateway)
		h.renderer.Error(w)
		return
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	h.renderer.Arrivals(w, res.Stop.ID, res.Stop.Name, res.Predictions)
}

func (h *Handler) handleBoard(w http.ResponseWriter, r *http.Request) {
	site := h.knownSite(r.URL.Query().Get("site"))

	board := h.client.Board(r.Context(), site)
	stops := make([]render.BoardStop, len(board))
	for i, entry := range board {
		if entry.Err != nil {
			h.logFetchError(r, entry.Stop.ID, entry.Err)
		}
		stops[i] = render.BoardStop{
			StopID:      entry.Stop.ID,
			StopName:    entry.Stop.Name,
			Predictions: entry.Predictions,
			Err:         entry.Err,
		}
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	h.renderer.Board(w, site, stops)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]string{"status": "ok"})
}

func (h *Handler) handleStops(w http.ResponseWriter, r *http.Request) {
	site := h.knownSite(r.URL.Query().Get("site"))
	h.writeJSON(w, Response{Data: h.client.Stops(site)})
}

func (h *Handler) handleArrivals(w http.ResponseWriter, r *http.Request) {
	stopID := mux.Vars(r)["stopId"]

	res, err := h.client.Arrivals(r.Context(), stopID)
	if err != nil {
		h.logFetchError(r, stopID, err)
		h.writeError(w, loadFailedMessage, http.StatusBadGateway)
		return
	}

	h.writeJSON(w, Response{
		Data: ArrivalsResponse{
			Stop:     res.Stop,
			Arrivals: h.renderer.Views(res.Predictions),
		},
		Updated: h.now().Format(time.RFC3339),
	})
}

func (h *Handler) handleGTFSRT(w http.ResponseWriter, r *http.Request) {
	stopID := mux.Vars(r)["stopId"]

	res, err := h.client.Arrivals(r.Context(), stopID)
	if err != nil {
		h.logFetchError(r, stopID, err)
		h.writeError(w, loadFailedMessage, http.StatusBadGateway)
		return
	}

	text := r.URL.Query().Get("format") == "text"
	data, err := gtfsrt.Marshal(gtfsrt.FeedMessage(res.Stop.ID, res.Predictions, h.now()), text)
	if err != nil {
		h.logger.Error("encoding feed failed", "stop_id", stopID, "error", err)
		h.writeError(w, "Failed to encode feed", http.StatusInternalServerError)
		return
	}

	if text {
		w.Header().Set("Content-Type", gtfsrt.ContentTypeText)
	} else {
		w.Header().Set("Content-Type", gtfsrt.ContentTypeProtobuf)
	}
	_, _ = w.Write(data)
}

func (h *Handler) logFetchError(r *http.Request, stopID string, err error) {
	h.logger.Error("fetching arrivals failed",
		"stop_id", stopID,
		"error", err,
		"request_id", RequestIDFromContext(r.Context()))
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		h.writeError(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	_, _ = w.Write(append(body, '\n'))
}

func (h *Handler) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
