package domain

import (
	"time"

	"gorm.io/datatypes"
)

type Coordinates struct {
	Lat *float64 `json:"lat,omitempty"`
	Lng *float64 `json:"lng,omitempty"`
}

// Location is stored inline on its owner with a location_ column prefix.
type Location struct {
	Name        string      `json:"name,omitempty"`
	Address     string      `json:"address"`
	City        string      `gorm:"index" json:"city"`
	State       string      `json:"state"`
	ZipCode     string      `json:"zipCode"`
	Coordinates Coordinates `gorm:"embedded;embeddedPrefix:coordinates_" json:"coordinates"`
}

// Feedback is left by the receiving side after delivery.
type Feedback struct {
	Rating  *int       `json:"rating,omitempty"`
	Comment string     `json:"comment,omitempty"`
	Date    *time.Time `json:"date,omitempty"`
}

// Strings is a JSON-encoded list column.
type Strings = datatypes.JSONSlice[string]

func nonNil[T any](s datatypes.JSONSlice[T]) datatypes.JSONSlice[T] {
	if s == nil {
		return datatypes.JSONSlice[T]{}
	}
	return s
}

// Columns returns the embedded location columns for a map update.
func (l Location) Columns() map[string]interface{} {
	return map[string]interface{}{
		"location_name":            l.Name,
		"location_address":         l.Address,
		"location_city":            l.City,
		"location_state":           l.State,
		"location_zip_code":        l.ZipCode,
		"location_coordinates_lat": deref(l.Coordinates.Lat),
		"location_coordinates_lng": deref(l.Coordinates.Lng),
	}
}

// Columns returns the embedded feedback columns for a map update.
func (f Feedback) Columns() map[string]interface{} {
	return map[string]interface{}{
		"feedback_rating":  deref(f.Rating),
		"feedback_comment": f.Comment,
		"feedback_date":    deref(f.Date),
	}
}

func deref[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
