// Package gtfsrt encodes stop arrivals as a GTFS-Realtime feed, so the board
// can be consumed by tools that already speak trip updates.
package gtfsrt

import (
	"fmt"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"

	"github.com/jusunglee/bus-times/internal/models"
)

const (
	ContentTypeProtobuf = "application/x-protobuf"
	ContentTypeText     = "text/plain; charset=utf-8"
)

// ptr returns a pointer to v
func ptr[T any](v T) *T { return &v }

// FeedMessage builds a full-dataset feed with one trip update per prediction.
// Predictions without a TfL id get one derived from the stop and position.
func FeedMessage(stopID string, predictions []models.ArrivalPrediction, now time.Time) *gtfs.FeedMessage {
	entities := make([]*gtfs.FeedEntity, 0, len(predictions))
	for i, p := range predictions {
		id := p.ID
		if id == "" {
			id = fmt.Sprintf("%s-%d", stopID, i)
		}

		update := &gtfs.TripUpdate{
			Trip: &gtfs.TripDescriptor{RouteId: ptr(p.LineID)},
			StopTimeUpdate: []*gtfs.TripUpdate_StopTimeUpdate{{
				StopId:  ptr(stopID),
				Arrival: &gtfs.TripUpdate_StopTimeEvent{Time: ptr(p.ExpectedArrival.Unix())},
			}},
			Timestamp: ptr(uint64(now.Unix())),
		}
		if p.VehicleID != "" || p.DestinationName != "" {
			update.Vehicle = &gtfs.VehicleDescriptor{}
			if p.VehicleID != "" {
				update.Vehicle.Id = ptr(p.VehicleID)
			}
			if p.DestinationName != "" {
				update.Vehicle.Label = ptr(p.DestinationName)
			}
		}

		entities = append(entities, &gtfs.FeedEntity{
			Id:         ptr(id),
			TripUpdate: update,
		})
	}

	return &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: ptr("2.0"),
			Incrementality:      ptr(gtfs.FeedHeader_FULL_DATASET),
			Timestamp:           ptr(uint64(now.Unix())),
		},
		Entity: entities,
	}
}

// Marshal encodes the feed as binary protobuf, or prototext when text is set
func Marshal(feed *gtfs.FeedMessage, text bool) ([]byte, error) {
	if text {
		data, err := prototext.MarshalOptions{Multiline: true}.Marshal(feed)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal feed as text: %w", err)
		}
		return data, nil
	}
	data, err := proto.Marshal(feed)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal feed: %w", err)
	}
	return data, nil
}
