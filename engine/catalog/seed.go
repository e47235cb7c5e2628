package catalog

import (
	"context"
	"fmt"

	"github.com/RedlineAI/redline/engine/domain"
)

// SampleVehicle pairs a vehicle with the number of listings to create for it.
type SampleVehicle struct {
	Vehicle  domain.Vehicle
	Listings int
}

// SampleVehicles is the development/test dataset. Listing counts are skewed so
// popularity tie-breaking is observable.
var SampleVehicles = []SampleVehicle{
	{domain.Vehicle{ID: "vw-golf-110tsi", Make: "Volkswagen", Model: "Golf", Badge: "110TSI Comfortline",
		FuelType: "Petrol", TransmissionType: "Automatic", DriveType: "Front Wheel Drive"}, 12},
	{domain.Vehicle{ID: "vw-golf-132tsi", Make: "Volkswagen", Model: "Golf", Badge: "132TSI",
		FuelType: "Petrol", TransmissionType: "Automatic", DriveType: "Front Wheel Drive"}, 7},
	{domain.Vehicle{ID: "vw-golf-gti", Make: "Volkswagen", Model: "Golf", Badge: "GTI",
		FuelType: "Petrol", TransmissionType: "Manual", DriveType: "Front Wheel Drive"}, 9},
	{domain.Vehicle{ID: "vw-golf-r", Make: "Volkswagen", Model: "Golf", Badge: "R",
		FuelType: "Petrol", TransmissionType: "Automatic", DriveType: "Four Wheel Drive"}, 4},
	{domain.Vehicle{ID: "vw-golf-alltrack", Make: "Volkswagen", Model: "Golf", Badge: "Alltrack 132TSI",
		FuelType: "Petrol", TransmissionType: "Automatic", DriveType: "Four Wheel Drive"}, 2},
	{domain.Vehicle{ID: "vw-tiguan-162tsi", Make: "Volkswagen", Model: "Tiguan", Badge: "162TSI Highline",
		FuelType: "Petrol", TransmissionType: "Automatic", DriveType: "Four Wheel Drive"}, 8},
	{domain.Vehicle{ID: "vw-tiguan-tdi", Make: "Volkswagen", Model: "Tiguan", Badge: "TDI550",
		FuelType: "Diesel", TransmissionType: "Automatic", DriveType: "Four Wheel Drive"}, 5},
	{domain.Vehicle{ID: "toyota-camry-hybrid", Make: "Toyota", Model: "Camry", Badge: "Grande",
		FuelType: "Hybrid-Petrol", TransmissionType: "Automatic", DriveType: "Front Wheel Drive"}, 15},
	{domain.Vehicle{ID: "toyota-camry-petrol", Make: "Toyota", Model: "Camry", Badge: "GX",
		FuelType: "Petrol", TransmissionType: "Automatic", DriveType: "Front Wheel Drive"}, 6},
	{domain.Vehicle{ID: "toyota-rav4-gxl", Make: "Toyota", Model: "RAV4", Badge: "GXL",
		FuelType: "Hybrid-Petrol", TransmissionType: "Automatic", DriveType: "Four Wheel Drive"}, 11},
	{domain.Vehicle{ID: "toyota-rav4-edge", Make: "Toyota", Model: "RAV4", Badge: "Edge",
		FuelType: "Petrol", TransmissionType: "Automatic", DriveType: "Four Wheel Drive"}, 3},
	{domain.Vehicle{ID: "toyota-86-gts", Make: "Toyota", Model: "86", Badge: "GTS",
		FuelType: "Petrol", TransmissionType: "Manual", DriveType: "Rear Wheel Drive"}, 5},
	{domain.Vehicle{ID: "volvo-xc40-recharge", Make: "Volvo", Model: "XC40", Badge: "Recharge",
		FuelType: "Electric", TransmissionType: "Automatic", DriveType: "Four Wheel Drive"}, 2},
	// No listings yet, still a valid match candidate.
	{domain.Vehicle{ID: "vw-golf-trendline", Make: "Volkswagen", Model: "Golf", Badge: "Trendline",
		FuelType: "Petrol", TransmissionType: "Manual", DriveType: "Front Wheel Drive"}, 0},
}

// Seed writes the sample dataset into the store. Vehicles and listings both
// merge by stable ID, so re-running leaves the counts unchanged.
func (s *Store) Seed(ctx context.Context, samples []SampleVehicle) error {
	for _, sv := range samples {
		if err := s.SaveVehicle(ctx, sv.Vehicle); err != nil {
			return fmt.Errorf("catalog: seed vehicle %s: %w", sv.Vehicle.ID, err)
		}
		for i := 0; i < sv.Listings; i++ {
			l := domain.Listing{
				ID:        fmt.Sprintf("%s-listing-%d", sv.Vehicle.ID, i),
				VehicleID: sv.Vehicle.ID,
				Source:    "seed",
			}
			if err := s.SaveListing(ctx, l); err != nil {
				return fmt.Errorf("catalog: seed listing for %s: %w", sv.Vehicle.ID, err)
			}
		}
	}
	return nil
}
