// Package domain defines core domain types, constants, and validation for the
// Redline matching engine. It acts as the validation gate at engine entry points.
package domain

// Facet is one of the fixed vehicle attribute dimensions.
type Facet string

const (
	FacetMake             Facet = "make"
	FacetModel            Facet = "model"
	FacetBadge            Facet = "badge"
	FacetFuelType         Facet = "fuel_type"
	FacetTransmissionType Facet = "transmission_type"
	FacetDriveType        Facet = "drive_type"
)

// Facets lists all facets in extraction precedence order. Make and model
// come first because they anchor every other attribute.
var Facets = []Facet{
	FacetMake,
	FacetModel,
	FacetBadge,
	FacetFuelType,
	FacetTransmissionType,
	FacetDriveType,
}

// ValidFacets is the set of recognised facets.
var ValidFacets = map[Facet]bool{
	FacetMake: true, FacetModel: true, FacetBadge: true,
	FacetFuelType: true, FacetTransmissionType: true, FacetDriveType: true,
}

// Vehicle is a catalog record. The engine never mutates it; listing counts
// live on the listings collection, not on the record.
type Vehicle struct {
	ID               string `json:"id"`
	Make             string `json:"make"`
	Model            string `json:"model"`
	Badge            string `json:"badge,omitempty"`
	FuelType         string `json:"fuel_type"`
	TransmissionType string `json:"transmission_type"`
	DriveType        string `json:"drive_type"`
}

// FacetValue returns the vehicle's value for a facet.
func (v Vehicle) FacetValue(f Facet) string {
	switch f {
	case FacetMake:
		return v.Make
	case FacetModel:
		return v.Model
	case FacetBadge:
		return v.Badge
	case FacetFuelType:
		return v.FuelType
	case FacetTransmissionType:
		return v.TransmissionType
	case FacetDriveType:
		return v.DriveType
	}
	return ""
}

// Listing is a marketplace listing attached to a vehicle record.
type Listing struct {
	ID        string `json:"id"`
	VehicleID string `json:"vehicle_id"`
	Source    string `json:"source,omitempty"`
}
