package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrivalPredictionMinutes(t *testing.T) {
	tests := []struct {
		seconds  int
		expected int
	}{
		{0, 0},
		{59, 0},
		{60, 1},
		{119, 1},
		{300, 5},
		{-30, 0},
	}

	for _, tt := range tests {
		p := ArrivalPrediction{TimeToStation: tt.seconds}
		assert.Equal(t, tt.expected, p.Minutes(), "timeToStation=%d", tt.seconds)
	}
}

func TestArrivalPredictionConvertToView(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	// 2024-07-01 is BST, so 11:05 UTC is 12:05 local
	p := ArrivalPrediction{
		LineID:          "213",
		DestinationName: "Kingston",
		TimeToStation:   300,
		ExpectedArrival: time.Date(2024, 7, 1, 11, 5, 0, 0, time.UTC),
	}

	view := p.ConvertToView(london)
	assert.Equal(t, ArrivalView{Line: "213", Destination: "Kingston", Time: "12:05", Minutes: 5}, view)

	// winter time is GMT
	p.ExpectedArrival = time.Date(2024, 1, 1, 12, 5, 0, 0, time.UTC)
	assert.Equal(t, "12:05", p.ConvertToView(london).Time)
}

func TestArrivalPredictionDecode(t *testing.T) {
	payload := `{
		"$type": "Tfl.Api.Presentation.Entities.Prediction, Tfl.Api.Presentation.Entities",
		"id": "-1234",
		"vehicleId": "LJ16EWP",
		"lineId": "SL7",
		"destinationName": "Heathrow Airport",
		"timeToStation": 61,
		"expectedArrival": "2024-01-01T12:01:01Z",
		"towards": "Kingston"
	}`

	var p ArrivalPrediction
	require.NoError(t, json.Unmarshal([]byte(payload), &p))
	assert.Equal(t, "SL7", p.LineID)
	assert.Equal(t, "Heathrow Airport", p.DestinationName)
	assert.Equal(t, "LJ16EWP", p.VehicleID)
	assert.Equal(t, 61, p.TimeToStation)
	assert.True(t, p.ExpectedArrival.Equal(time.Date(2024, 1, 1, 12, 1, 1, 0, time.UTC)))
}

func TestStopInSite(t *testing.T) {
	site := Site{Name: "Cheam", Flag: 2 | 4}

	assert.True(t, Stop{ID: "a", Flag: 2}.InSite(site))
	assert.False(t, Stop{ID: "b", Flag: 8}.InSite(site))
	assert.False(t, Stop{ID: "c"}.InSite(site), "unaffiliated stop never matches a site")
}
