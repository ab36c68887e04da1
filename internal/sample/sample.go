// Package sample generates plausible fill-up histories for accounts that
// have not logged any yet.
package sample

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/ukydev/tanque-cheio/internal/models"
)

const (
	Count        = 10
	SpacingDays  = 8
	BaseOdometer = 50000.0
	OdometerStep = 350.0

	minLiters   = 35.0
	litersRange = 10.0
	minPrice    = 5.5
	priceRange  = 0.5

	mockVehicleID = "mock-vehicle-id"
	mockUserID    = "mock-user-id"
)

// NewSource returns a random source for FillUps. Tests pass a fixed seed.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// FillUps returns Count fill-ups, newest first, one every SpacingDays days
// going back from now. Odometer readings drop by OdometerStep per record.
func FillUps(now time.Time, vehicleID string, rng *rand.Rand) []models.FillUp {
	if vehicleID == "" {
		vehicleID = mockVehicleID
	}
	out := make([]models.FillUp, 0, Count)
	for i := 0; i < Count; i++ {
		date := time.Date(now.Year(), now.Month(), now.Day()-i*SpacingDays, 0, 0, 0, 0, now.Location())
		liters := minLiters + rng.Float64()*litersRange
		price := minPrice + rng.Float64()*priceRange
		out = append(out, models.FillUp{
			ID:            fmt.Sprintf("mock-%d", i),
			VehicleID:     vehicleID,
			UserID:        mockUserID,
			Date:          date,
			Odometer:      BaseOdometer - float64(i)*OdometerStep,
			Liters:        liters,
			Cost:          liters * price,
			PricePerLiter: price,
			FuelType:      models.FuelGasoline,
			CreatedAt:     date,
		})
	}
	return out
}
