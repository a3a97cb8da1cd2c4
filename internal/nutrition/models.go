package nutrition

import "strconv"

// Totals is the sum of the five tracked macro fields.
type Totals struct {
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Calories float64 `json:"calories"`
	Fiber    float64 `json:"fiber"`
}

// Add returns the field-wise sum of t and o.
func (t Totals) Add(o Totals) Totals {
	return Totals{
		Protein:  t.Protein + o.Protein,
		Carbs:    t.Carbs + o.Carbs,
		Fats:     t.Fats + o.Fats,
		Calories: t.Calories + o.Calories,
		Fiber:    t.Fiber + o.Fiber,
	}
}

// DefaultReference holds daily values for an average adult on a 2000 kcal diet.
var DefaultReference = Totals{
	Protein:  56,
	Carbs:    275,
	Fats:     78,
	Calories: 2000,
	Fiber:    28,
}

// Percent is one field's share of its reference value. Label is unclamped and
// is what gets printed; Bar is capped at 100 and only sizes a progress bar.
type Percent struct {
	Label int `json:"label"`
	Bar   int `json:"bar"`
}

func (p Percent) String() string {
	return strconv.Itoa(p.Label) + "%"
}

// Percentages is PercentOfReference for every field.
type Percentages struct {
	Protein  Percent `json:"protein"`
	Carbs    Percent `json:"carbs"`
	Fats     Percent `json:"fats"`
	Calories Percent `json:"calories"`
	Fiber    Percent `json:"fiber"`
}

// DayNutritionResponse is the response body for GET /v1/nutrition/days/{name}.
type DayNutritionResponse struct {
	Day         string      `json:"day"`
	Meal1       Totals      `json:"meal1"`
	Meal2       Totals      `json:"meal2"`
	Totals      Totals      `json:"totals"`
	Reference   Totals      `json:"reference"`
	Percentages Percentages `json:"percentages"`
}

// ReferenceResponse is the response body for GET /v1/nutrition/reference.
type ReferenceResponse struct {
	WeightKg  float64 `json:"weight_kg"`
	Active    bool    `json:"active"`
	Male      bool    `json:"male"`
	Reference Totals  `json:"reference"`
}
