package pricing

import (
	"fmt"
	"math"

	"github.com/fdg312/muscle-plan/internal/plan"
)

// Priced is anything carrying a regional price map.
type Priced interface {
	PriceName() string
	PriceMap() plan.Prices
}

// SumPrice adds price[region] across items. A missing entry is an error naming
// the offending item, never a silent zero.
func SumPrice[T Priced](items []T, region plan.Region) (float64, error) {
	var total float64
	for _, item := range items {
		v, err := item.PriceMap().For(region)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", item.PriceName(), err)
		}
		total += v
	}
	return total, nil
}

// DayCost is the grocery cost of one day. Days that list daily groceries are
// priced from that list; others from the items of both meals.
func DayCost(day plan.DayPlan, region plan.Region) (float64, error) {
	var (
		cost float64
		err  error
	)
	if len(day.DailyGroceries) > 0 {
		cost, err = SumPrice(day.DailyGroceries, region)
	} else {
		cost, err = SumPrice(day.MealItems(), region)
	}
	if err != nil {
		return 0, fmt.Errorf("day %q: %w", day.Name, err)
	}
	return cost, nil
}

// WeeklyCost prices every day of p. Average is kept at full precision.
func WeeklyCost(p *plan.Plan, region plan.Region) (Summary, error) {
	s := Summary{
		Region:   region,
		Currency: region.Currency(),
		Days:     make([]DayCostDTO, 0, len(p.Days)),
	}
	for _, d := range p.Days {
		cost, err := DayCost(d, region)
		if err != nil {
			return Summary{}, err
		}
		s.Days = append(s.Days, DayCostDTO{Name: d.Name, Cost: cost})
		s.Weekly += cost
	}
	s.AverageDaily = s.Weekly / plan.DaysPerWeek
	return s, nil
}

// ShoppingCost prices the whole shopping list.
func ShoppingCost(p *plan.Plan, region plan.Region) (float64, error) {
	return SumPrice(p.ShoppingItems(), region)
}

// RoundCents rounds to two decimals for display.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// FormatAmount renders amount with two decimals and the region's currency.
func FormatAmount(amount float64, region plan.Region) string {
	return fmt.Sprintf("%.2f %s", RoundCents(amount), region.Currency())
}
