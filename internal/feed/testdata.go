package feed

import (
	"time"

	"github.com/jusunglee/bus-times/internal/models"
)

// CreateMockPredictions creates arrivals for a stop relative to now, in the
// unordered way the arrivals endpoint returns them
func CreateMockPredictions(now time.Time) []models.ArrivalPrediction {
	mk := func(id, vehicle, line, dest string, seconds int) models.ArrivalPrediction {
		return models.ArrivalPrediction{
			ID:              id,
			VehicleID:       vehicle,
			LineID:          line,
			DestinationName: dest,
			TimeToStation:   seconds,
			ExpectedArrival: now.Add(time.Duration(seconds) * time.Second).UTC().Truncate(time.Second),
		}
	}

	return []models.ArrivalPrediction{
		mk("-1001", "LX11AVF", "213", "Kingston", 300),
		mk("-1002", "YX68UMA", "SL7", "Heathrow Airport", 60),
		mk("-1003", "LJ16EWP", "293", "Epsom", 780),
		mk("-1004", "SN66WHY", "213", "Sutton", 90),
		mk("-1005", "LX11AVG", "151", "Wallington", 1260),
		mk("-1006", "YX68UMB", "SL7", "West Croydon", 1500),
		mk("-1007", "LJ16EWR", "X26", "Heathrow Airport", 2040),
	}
}
