package analytics

import (
	"time"

	"github.com/ukydev/tanque-cheio/internal/models"
)

// ComputeReport builds the reports bundle for the calendar month containing
// currentDate. NoData is set whenever that month has no fill-ups, even if
// older records exist; the all-time series are still filled in.
func ComputeReport(records []models.FillUp, currentDate time.Time) models.Report {
	monthly := inMonth(records, currentDate)

	recent := byOdometer(records)
	if len(recent) > consumptionWindow {
		recent = recent[len(recent)-consumptionWindow:]
	}

	return models.Report{
		Month: MonthTitle(currentDate),
		MonthlyCost: []models.CostPoint{
			{Month: MonthName(currentDate), Cost: totalCost(monthly)},
		},
		MonthlyConsumption: consumptionSeries(byOdometer(monthly), currentDate.Location()),
		AllTimeConsumption: consumptionSeries(recent, currentDate.Location()),
		AllTimeCost:        costTrend(records, currentDate),
		NoData:             len(monthly) == 0,
	}
}
