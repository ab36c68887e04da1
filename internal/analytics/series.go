package analytics

import (
	"sort"
	"time"

	"github.com/ukydev/tanque-cheio/internal/models"
)

const (
	trendMonths        = 6
	consumptionWindow  = 10
	recentActivityRows = 4
)

// byDateDesc returns a copy of records, newest first. Equal dates keep
// their input order.
func byDateDesc(records []models.FillUp) []models.FillUp {
	out := make([]models.FillUp, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// byOdometer returns a copy of records in ascending odometer order.
func byOdometer(records []models.FillUp) []models.FillUp {
	out := make([]models.FillUp, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Odometer < out[j].Odometer
	})
	return out
}

// monthStart returns midnight on the first day of t's month, shifted by
// offset months, in t's location.
func monthStart(t time.Time, offset int) time.Time {
	return time.Date(t.Year(), t.Month()+time.Month(offset), 1, 0, 0, 0, 0, t.Location())
}

// sameMonth reports whether d falls in ref's calendar month, judged in
// ref's location.
func sameMonth(d, ref time.Time) bool {
	d = d.In(ref.Location())
	return d.Year() == ref.Year() && d.Month() == ref.Month()
}

// inMonth keeps the records dated in ref's calendar month.
func inMonth(records []models.FillUp, ref time.Time) []models.FillUp {
	var out []models.FillUp
	for _, r := range records {
		if sameMonth(r.Date, ref) {
			out = append(out, r)
		}
	}
	return out
}

func totalCost(records []models.FillUp) float64 {
	var sum float64
	for _, r := range records {
		sum += r.Cost
	}
	return sum
}

// OdometerSpan is the distance between the lowest and highest odometer
// readings. Fewer than two records cover no distance.
func OdometerSpan(records []models.FillUp) float64 {
	if len(records) < 2 {
		return 0
	}
	sorted := byOdometer(records)
	return sorted[len(sorted)-1].Odometer - sorted[0].Odometer
}

// AverageConsumption is the lifetime km/L. The liters of the lowest
// odometer fill-up were burnt before the measured distance and are not
// counted.
func AverageConsumption(records []models.FillUp) float64 {
	if len(records) < 2 {
		return 0
	}
	sorted := byOdometer(records)
	distance := sorted[len(sorted)-1].Odometer - sorted[0].Odometer
	var liters float64
	for _, r := range sorted[1:] {
		liters += r.Liters
	}
	if liters <= 0 {
		return 0
	}
	return distance / liters
}

// PairConsumption is the km/L between two consecutive fill-ups. Pairs
// that did not move forward or dispensed nothing yield 0.
func PairConsumption(prev, cur models.FillUp) float64 {
	distance := cur.Odometer - prev.Odometer
	if distance > 0 && cur.Liters > 0 {
		return distance / cur.Liters
	}
	return 0
}

// consumptionSeries emits one point per adjacent pair of an ordered series,
// dated in loc. The first record has no predecessor and yields nothing.
func consumptionSeries(ordered []models.FillUp, loc *time.Location) []models.ConsumptionPoint {
	points := make([]models.ConsumptionPoint, 0, len(ordered))
	for i := 1; i < len(ordered); i++ {
		prev := ordered[i-1]
		cur := ordered[i]
		points = append(points, models.ConsumptionPoint{
			Date:        DayMonth(cur.Date.In(loc)),
			Consumption: round1(PairConsumption(prev, cur)),
		})
	}
	return points
}

// costTrend sums cost for the six calendar months ending at ref, oldest first.
func costTrend(records []models.FillUp, ref time.Time) []models.CostPoint {
	points := make([]models.CostPoint, trendMonths)
	for i := 0; i < trendMonths; i++ {
		month := monthStart(ref, -i)
		points[trendMonths-1-i] = models.CostPoint{
			Month: MonthLabel(month),
			Cost:  totalCost(inMonth(records, month)),
		}
	}
	return points
}
