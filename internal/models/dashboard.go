package models

// ActivityFillUp tags a recent-activity entry produced from a fill-up.
const ActivityFillUp = "fill-up"

// SummaryMetric is one of the four fixed dashboard cards.
type SummaryMetric struct {
	Title    string `json:"title"`
	Value    string `json:"value"`
	Unit     string `json:"unit,omitempty"`
	SubValue string `json:"sub_value,omitempty"`
}

// RecentActivity is one entry of the recent activity feed.
type RecentActivity struct {
	ID          string `json:"id"`
	Vehicle     string `json:"vehicle"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Type        string `json:"type"`
}

// CostPoint is a month-labelled cost total.
type CostPoint struct {
	Month string  `json:"month"`
	Cost  float64 `json:"cost"`
}

// ConsumptionPoint is the km/L measured at one fill-up.
type ConsumptionPoint struct {
	Date        string  `json:"date"`
	Consumption float64 `json:"consumption"`
}

// Dashboard is the bundle rendered on the dashboard screen.
type Dashboard struct {
	Summary          []SummaryMetric    `json:"summary"`
	RecentActivity   []RecentActivity   `json:"recent_activity"`
	CostTrend        []CostPoint        `json:"cost_trend"`
	ConsumptionTrend []ConsumptionPoint `json:"consumption_trend"`
}

// Report is the bundle rendered on the month-navigable reports screen.
type Report struct {
	Month              string             `json:"month"`
	MonthlyCost        []CostPoint        `json:"monthly_cost"`
	MonthlyConsumption []ConsumptionPoint `json:"monthly_consumption"`
	AllTimeConsumption []ConsumptionPoint `json:"all_time_consumption"`
	AllTimeCost        []CostPoint        `json:"all_time_cost"`
	NoData             bool               `json:"no_data"`
}
