package pricing

import "github.com/fdg312/muscle-plan/internal/plan"

// DayCostDTO is the cost of one day.
type DayCostDTO struct {
	Name string  `json:"name"`
	Cost float64 `json:"cost"`
}

// Summary is the priced week.
type Summary struct {
	Region       plan.Region  `json:"region"`
	Currency     string       `json:"currency"`
	Days         []DayCostDTO `json:"days"`
	Weekly       float64      `json:"weekly"`
	AverageDaily float64      `json:"average_daily"`
}

// WeekResponse is the response body for GET /v1/pricing/week.
type WeekResponse struct {
	Summary
	WeeklyDisplay       string `json:"weekly_display"`
	AverageDailyDisplay string `json:"average_daily_display"`
}

// AmountResponse is the response body for single-amount pricing endpoints.
type AmountResponse struct {
	Region   plan.Region `json:"region"`
	Currency string      `json:"currency"`
	Name     string      `json:"name,omitempty"`
	Amount   float64     `json:"amount"`
	Display  string      `json:"display"`
}
