package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rodaine/table"

	"github.com/jusunglee/bus-times/internal/config"
	"github.com/jusunglee/bus-times/internal/models"
	"github.com/jusunglee/bus-times/pkg/bustimes"
)

func main() {
	var (
		configFile = flag.String("config", os.Getenv("BUS_TIMES_CONFIG"), "YAML config file")
		apiKey     = flag.String("api-key", "", "TfL API key (overrides TFL_TOKEN)")
		stopID     = flag.String("stop", "", "Stop to show next buses for")
		site       = flag.String("site", "", "Site to show next buses for, or to list")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-stop ID | -site NAME] [list]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	list := flag.Arg(0) == "list"

	cfg, err := config.Load(*configFile, os.Getenv)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if *apiKey != "" {
		cfg.TfL.APIKey = *apiKey
	}

	registry, err := cfg.Registry()
	if err != nil {
		slog.Error("Failed to build stop registry", "error", err)
		os.Exit(1)
	}
	loc, err := cfg.Location()
	if err != nil {
		slog.Error("Failed to load time zone", "error", err)
		os.Exit(1)
	}

	client := bustimes.NewLocal(bustimes.Config{
		Feed:     cfg.FeedConfig(),
		Limit:    cfg.Display.Limit,
		Registry: registry,
	})
	defer client.Close()

	ctx := context.Background()

	switch {
	case *stopID != "":
		res, err := client.Arrivals(ctx, *stopID)
		if err != nil {
			slog.Error("Failed to get arrivals", "stop_id", *stopID, "error", err)
			os.Exit(1)
		}
		printArrivals(os.Stdout, res, loc)

	case *site != "" && !list:
		for _, res := range client.Board(ctx, *site) {
			printArrivals(os.Stdout, res, loc)
		}

	default:
		printStops(os.Stdout, client.Stops(*site), client.Sites())
	}

	fmt.Printf("\nCurrent time: %s\n", time.Now().In(loc).Format("15:04 MST"))
}

func printArrivals(w io.Writer, res bustimes.StopArrivals, loc *time.Location) {
	fmt.Fprintf(w, "\nNext buses from %s (%s)\n", res.Stop.Name, res.Stop.ID)
	if res.Err != nil {
		fmt.Fprintln(w, "  Could not load bus times.")
		return
	}
	if len(res.Predictions) == 0 {
		fmt.Fprintln(w, "  No buses found.")
		return
	}

	tbl := table.New("Line", "Destination", "Time", "Min").WithWriter(w)
	for _, p := range res.Predictions {
		view := p.ConvertToView(loc)
		tbl.AddRow(view.Line, view.Destination, view.Time, view.Minutes)
	}
	tbl.Print()
}

func printStops(w io.Writer, stops []models.Stop, sites []models.Site) {
	tbl := table.New("ID", "Name", "Sites").WithWriter(w)
	for _, stop := range stops {
		var names []string
		for _, s := range sites {
			if stop.InSite(s) {
				names = append(names, s.Name)
			}
		}
		tbl.AddRow(stop.ID, stop.Name, strings.Join(names, ", "))
	}
	tbl.Print()
}
