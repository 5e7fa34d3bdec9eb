package models

import (
	"time"
)

// Stop represents a TfL bus stop the service knows by name
type Stop struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Flag is a single power-of-two group bit; zero means the stop belongs to no site
	Flag        uint64   `json:"flag,omitempty"`
	Lines       []string `json:"lines,omitempty"`
	Destination string   `json:"destination,omitempty"`
}

// InSite reports whether the stop's group bit is part of the site
func (s Stop) InSite(site Site) bool {
	return s.Flag&site.Flag != 0
}

// Site represents a named grouping of stops
type Site struct {
	Name  string   `json:"name"`
	Flag  uint64   `json:"flag"`
	Stops []string `json:"stops"`
}

// ArrivalPrediction is one forecast arrival from the StopPoint arrivals endpoint
type ArrivalPrediction struct {
	ID              string    `json:"id,omitempty"`
	VehicleID       string    `json:"vehicleId,omitempty"`
	LineID          string    `json:"lineId"`
	DestinationName string    `json:"destinationName"`
	PlatformName    string    `json:"platformName,omitempty"`
	Towards         string    `json:"towards,omitempty"`
	TimeToStation   int       `json:"timeToStation"`
	ExpectedArrival time.Time `json:"expectedArrival"`
}

// Minutes returns whole minutes until arrival, rounded down
func (p ArrivalPrediction) Minutes() int {
	if p.TimeToStation <= 0 {
		return 0
	}
	return p.TimeToStation / 60
}

// ArrivalView is an arrival prepared for display
type ArrivalView struct {
	Line        string `json:"line"`
	Destination string `json:"destination"`
	Time        string `json:"time"`
	Minutes     int    `json:"minutes"`
}

// ConvertToView formats the prediction's expected arrival as local wall-clock time
func (p ArrivalPrediction) ConvertToView(loc *time.Location) ArrivalView {
	return ArrivalView{
		Line:        p.LineID,
		Destination: p.DestinationName,
		Time:        p.ExpectedArrival.In(loc).Format("15:04"),
		Minutes:     p.Minutes(),
	}
}
