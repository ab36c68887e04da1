// Package analytics turns a vehicle's fill-up history into the metrics and
// chart series shown on the dashboard and reports screens.
//
// Every function here is a pure read over its inputs: records are never
// reordered in place, and degenerate input (no records, a single record,
// zero liters, odometer readings going backwards) resolves to zero or
// empty values instead of an error.
package analytics

import (
	"fmt"
	"time"

	"github.com/ukydev/tanque-cheio/internal/models"
)

// Summary card titles, in display order.
const (
	TitleAvgConsumption = "Consumo Médio"
	TitleMonthlyCost    = "Gasto Mensal"
	TitleLastFillUp     = "Último Abastecimento"
	TitleMonthlyDist    = "Distância Mensal"

	// DefaultVehicleLabel is shown when the vehicle has no name.
	DefaultVehicleLabel = "Veículo"
)

// ComputeDashboard builds the dashboard bundle for one vehicle. now
// delimits "this month" and the end of the cost trend.
func ComputeDashboard(records []models.FillUp, vehicleLabel string, now time.Time) models.Dashboard {
	if len(records) == 0 {
		return emptyDashboard(now)
	}
	if vehicleLabel == "" {
		vehicleLabel = DefaultVehicleLabel
	}

	newest := byDateDesc(records)
	last := newest[0]

	thisMonth := inMonth(records, now)
	monthlyCost := totalCost(thisMonth)
	monthlyDistance := OdometerSpan(thisMonth)
	avg := AverageConsumption(records)

	summary := []models.SummaryMetric{
		{Title: TitleAvgConsumption, Value: fmt.Sprintf("%.1f", avg), Unit: "km/L"},
		{Title: TitleMonthlyCost, Value: Currency(monthlyCost)},
		{Title: TitleLastFillUp, Value: Liters(last.Liters), SubValue: Currency(last.Cost)},
		{Title: TitleMonthlyDist, Value: Distance(monthlyDistance)},
	}

	return models.Dashboard{
		Summary:          summary,
		RecentActivity:   recentActivity(newest, vehicleLabel, now.Location()),
		CostTrend:        costTrend(records, now),
		ConsumptionTrend: recentConsumption(newest, now.Location()),
	}
}

func emptyDashboard(now time.Time) models.Dashboard {
	return models.Dashboard{
		Summary: []models.SummaryMetric{
			{Title: TitleAvgConsumption, Value: "0.0", Unit: "km/L"},
			{Title: TitleMonthlyCost, Value: Currency(0)},
			{Title: TitleLastFillUp, Value: "0 L", SubValue: Currency(0)},
			{Title: TitleMonthlyDist, Value: Distance(0)},
		},
		RecentActivity:   []models.RecentActivity{},
		CostTrend:        costTrend(nil, now),
		ConsumptionTrend: []models.ConsumptionPoint{},
	}
}

// recentActivity dates entries in loc, the zone months are bucketed in.
func recentActivity(newest []models.FillUp, vehicleLabel string, loc *time.Location) []models.RecentActivity {
	n := min(len(newest), recentActivityRows)
	out := make([]models.RecentActivity, 0, n)
	for _, f := range newest[:n] {
		out = append(out, models.RecentActivity{
			ID:          f.ID,
			Vehicle:     vehicleLabel,
			Description: fmt.Sprintf("Abastecimento de %.1fL", f.Liters),
			Date:        ActivityDate(f.Date.In(loc)),
			Type:        models.ActivityFillUp,
		})
	}
	return out
}

// recentConsumption takes the newest fill-ups, puts them back in
// chronological order and measures each one against its predecessor.
func recentConsumption(newest []models.FillUp, loc *time.Location) []models.ConsumptionPoint {
	n := min(len(newest), consumptionWindow)
	window := make([]models.FillUp, n)
	for i := 0; i < n; i++ {
		window[i] = newest[n-1-i]
	}
	return consumptionSeries(window, loc)
}
