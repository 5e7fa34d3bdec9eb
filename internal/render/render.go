package render

import (
	"bytes"
	"html/template"
	"io"
	"log/slog"
	"time"

	"github.com/jusunglee/bus-times/internal/models"
)

// Options configure a Renderer
type Options struct {
	// Location is the zone arrival and current times are shown in; nil means UTC
	Location *time.Location
	// Now returns the current time; nil means time.Now
	Now    func() time.Time
	Logger *slog.Logger
}

// Renderer writes the HTML views. Rendering never fails from the caller's
// point of view: a template error is logged and the error page written instead.
type Renderer struct {
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
	tmpl   *template.Template
}

// NewRenderer creates a new renderer
func NewRenderer(opts Options) *Renderer {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Renderer{
		loc:    opts.Location,
		now:    opts.Now,
		logger: opts.Logger,
		tmpl:   template.Must(template.New("pages").Parse(pageTemplates)),
	}
}

type stopsPage struct {
	Title string
	Site  string
	Stops []models.Stop
	Sites []models.Site
}

type arrivalsPage struct {
	Title    string
	StopID   string
	StopName string
	Arrivals []models.ArrivalView
	Now      string
}

type boardSection struct {
	StopID   string
	StopName string
	Arrivals []models.ArrivalView
	Failed   bool
}

type boardPage struct {
	Title string
	Site  string
	Stops []boardSection
	Now   string
}

// BoardStop is one stop's outcome on the board page
type BoardStop struct {
	StopID      string
	StopName    string
	Predictions []models.ArrivalPrediction
	Err         error
}

// CurrentTime formats the clock's time in the renderer's zone, e.g. "14:02 BST"
func (r *Renderer) CurrentTime() string {
	return r.now().In(r.loc).Format("15:04 MST")
}

// Views converts predictions to display rows in the renderer's zone
func (r *Renderer) Views(predictions []models.ArrivalPrediction) []models.ArrivalView {
	views := make([]models.ArrivalView, len(predictions))
	for i, p := range predictions {
		views[i] = p.ConvertToView(r.loc)
	}
	return views
}

// Stops writes the stop list for a site; site is empty when unfiltered
func (r *Renderer) Stops(w io.Writer, site string, stops []models.Stop, sites []models.Site) {
	title := "Bus Timetable"
	if site != "" {
		title += " - " + site
	}
	r.execute(w, "stops", stopsPage{Title: title, Site: site, Stops: stops, Sites: sites})
}

// Arrivals writes the next buses for one stop. Predictions are shown in the
// order given.
func (r *Renderer) Arrivals(w io.Writer, stopID, stopName string, predictions []models.ArrivalPrediction) {
	r.execute(w, "arrivals", arrivalsPage{
		Title:    stopName,
		StopID:   stopID,
		StopName: stopName,
		Arrivals: r.Views(predictions),
		Now:      r.CurrentTime(),
	})
}

// Board writes the next buses for several stops. A stop with an error shows
// the generic failure line only.
func (r *Renderer) Board(w io.Writer, site string, stops []BoardStop) {
	page := boardPage{
		Title: "Next Buses",
		Site:  site,
		Stops: make([]boardSection, len(stops)),
		Now:   r.CurrentTime(),
	}
	if site != "" {
		page.Title += " - " + site
	}
	for i, s := range stops {
		page.Stops[i] = boardSection{
			StopID:   s.StopID,
			StopName: s.StopName,
			Failed:   s.Err != nil,
		}
		if s.Err == nil {
			page.Stops[i].Arrivals = r.Views(s.Predictions)
		}
	}
	r.execute(w, "board", page)
}

// Error writes the generic error page
func (r *Renderer) Error(w io.Writer) {
	_, _ = io.WriteString(w, errorPage)
}

func (r *Renderer) execute(w io.Writer, name string, data any) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		r.logger.Error("rendering page failed", "template", name, "error", err)
		r.Error(w)
		return
	}
	_, _ = buf.WriteTo(w)
}
