package nutrition

import (
	"errors"
	"fmt"
	"math"

	"github.com/fdg312/muscle-plan/internal/plan"
)

var (
	ErrDayNotFound   = errors.New("day not found")
	ErrInvalidWeight = errors.New("weight_kg must be a positive number")
)

// AggregateMealTotals sums every macro field across items. Empty input yields
// zero totals.
func AggregateMealTotals(items []plan.MealItem) Totals {
	var t Totals
	for _, item := range items {
		t.Protein += item.Protein
		t.Carbs += item.Carbs
		t.Fats += item.Fats
		t.Calories += item.Calories
		t.Fiber += item.Fiber
	}
	return t
}

// AggregateDayTotals combines the totals of both meals of a day.
func AggregateDayTotals(meal1, meal2 []plan.MealItem) Totals {
	return AggregateMealTotals(meal1).Add(AggregateMealTotals(meal2))
}

// PercentOfReference computes each field's rounded percentage of reference.
// A zero reference field reports 0%.
func PercentOfReference(totals, reference Totals) Percentages {
	return Percentages{
		Protein:  percentOf(totals.Protein, reference.Protein),
		Carbs:    percentOf(totals.Carbs, reference.Carbs),
		Fats:     percentOf(totals.Fats, reference.Fats),
		Calories: percentOf(totals.Calories, reference.Calories),
		Fiber:    percentOf(totals.Fiber, reference.Fiber),
	}
}

func percentOf(total, reference float64) Percent {
	if reference <= 0 {
		return Percent{}
	}
	label := int(math.Round(total / reference * 100))
	return Percent{Label: label, Bar: min(100, label)}
}

// ComputeReferenceValues derives personalized daily reference values from body
// weight, activity level and sex: protein at 1.6 g/kg when active (0.8 g/kg
// otherwise), 2200 or 1800 kcal, 55% of calories from carbs at 4 kcal/g and 25%
// from fats at 9 kcal/g.
//
// Protein rounds half away from zero. Carbs and fats are evaluated as integer
// fractions and rounded half to even, so 2200 kcal gives exactly 302 g of carbs.
func ComputeReferenceValues(weightKg float64, active, male bool) Totals {
	proteinTenthsPerKg := 8.0
	if active {
		proteinTenthsPerKg = 16
	}
	calories := 1800.0
	if male {
		calories = 2200
	}
	return Totals{
		Protein:  math.Round(weightKg * proteinTenthsPerKg / 10),
		Carbs:    math.RoundToEven(calories * 55 / 400),
		Fats:     math.RoundToEven(calories * 25 / 900),
		Calories: calories,
		Fiber:    28,
	}
}

// Service answers nutrition questions about the loaded plan.
type Service struct {
	plan *plan.Plan
}

// NewService creates a new nutrition service.
func NewService(p *plan.Plan) *Service {
	return &Service{plan: p}
}

// DayNutrition returns per-meal and day totals for the named day against the
// default reference values.
func (s *Service) DayNutrition(name string) (DayNutritionResponse, error) {
	day, ok := s.plan.Day(name)
	if !ok {
		return DayNutritionResponse{}, fmt.Errorf("%w: %q", ErrDayNotFound, name)
	}

	meal1 := AggregateMealTotals(day.Meal1)
	meal2 := AggregateMealTotals(day.Meal2)
	totals := meal1.Add(meal2)

	return DayNutritionResponse{
		Day:         day.Name,
		Meal1:       meal1,
		Meal2:       meal2,
		Totals:      totals,
		Reference:   DefaultReference,
		Percentages: PercentOfReference(totals, DefaultReference),
	}, nil
}

// WeekTotals returns day totals in week order.
func (s *Service) WeekTotals() []Totals {
	out := make([]Totals, len(s.plan.Days))
	for i, d := range s.plan.Days {
		out[i] = AggregateDayTotals(d.Meal1, d.Meal2)
	}
	return out
}

// Reference validates the inputs of ComputeReferenceValues.
func (s *Service) Reference(weightKg float64, active, male bool) (ReferenceResponse, error) {
	if math.IsNaN(weightKg) || math.IsInf(weightKg, 0) || weightKg <= 0 {
		return ReferenceResponse{}, ErrInvalidWeight
	}
	return ReferenceResponse{
		WeightKg:  weightKg,
		Active:    active,
		Male:      male,
		Reference: ComputeReferenceValues(weightKg, active, male),
	}, nil
}
