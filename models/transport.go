package models

import "fmt"

// Public transport routes live in MongoDB as documents with their stops
// embedded, so a whole route is read and written in one round trip.

type TransportStop struct {
	StopName string  `json:"stop_name" bson:"stop_name"`
	Lat      float64 `json:"lat" bson:"lat"`
	Lng      float64 `json:"lng" bson:"lng"`
}

var VehicleTypes = []string{"BUS", "MINIBUS", "MICROBUS", "TEMPO", "JEEP"}

type TransportRoute struct {
	ID          string          `json:"id" bson:"_id,omitempty"`
	Name        string          `json:"name" bson:"name"`
	Slug        string          `json:"slug" bson:"slug"`
	Description string          `json:"description,omitempty" bson:"description,omitempty"`
	VehicleType string          `json:"vehicle_type" bson:"vehicle_type"`
	StartPoint  string          `json:"start_point" bson:"start_point"`
	EndPoint    string          `json:"end_point" bson:"end_point"`
	WardNumbers []int           `json:"ward_numbers" bson:"ward_numbers"`
	Stops       []TransportStop `json:"stops" bson:"stops"`
	Media       []Media         `json:"media,omitempty" bson:"-"`
}

func ValidateTransportRoute(r TransportRoute, wardCount int) error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !contains(VehicleTypes, r.VehicleType) {
		return fmt.Errorf("unknown vehicle type: %q", r.VehicleType)
	}
	for _, w := range r.WardNumbers {
		if w <= 0 || w > wardCount {
			return fmt.Errorf("ward number must be in [1, %d], got %d", wardCount, w)
		}
	}
	for _, s := range r.Stops {
		if s.Lat < -90 || s.Lat > 90 || s.Lng < -180 || s.Lng > 180 {
			return fmt.Errorf("stop %q has out-of-range coordinates", s.StopName)
		}
	}
	return nil
}
