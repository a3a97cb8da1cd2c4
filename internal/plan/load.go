package plan

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed plan.yaml
var embeddedPlan []byte

// DaysPerWeek is the fixed number of days a plan must have.
const DaysPerWeek = 7

// Errors
var (
	ErrDayCount           = errors.New("plan must have exactly 7 days")
	ErrDuplicateDayName   = errors.New("duplicate day name")
	ErrDuplicateItemName  = errors.New("duplicate shopping item name")
	ErrMissingRegionPrice = errors.New("missing region price")
	ErrNegativeMacro      = errors.New("negative macro value")
	ErrNegativePrice      = errors.New("negative price")
	ErrNonFiniteValue     = errors.New("value is not a finite number")
	ErrCategoryMismatch   = errors.New("item category does not match its section")
	ErrEmptyName          = errors.New("empty name")
	ErrUnknownRegion      = errors.New("unknown region")
)

// Default decodes and validates the plan compiled into the binary.
func Default() (*Plan, error) {
	return Parse(embeddedPlan)
}

// Parse decodes a YAML plan document and validates it against all offered regions.
// Shopping items without a category take the one of their section.
func Parse(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}
	for i := range p.Shopping {
		for j := range p.Shopping[i].Items {
			if p.Shopping[i].Items[j].Category == "" {
				p.Shopping[i].Items[j].Category = p.Shopping[i].Category
			}
		}
	}
	if err := Validate(&p, Regions); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the invariants the rest of the API relies on: seven uniquely
// named days, unique shopping item names, finite non-negative macros and
// prices, and a price for every region in regions.
func Validate(p *Plan, regions []Region) error {
	if len(p.Days) != DaysPerWeek {
		return fmt.Errorf("%w: got %d", ErrDayCount, len(p.Days))
	}

	seenDays := make(map[string]bool, len(p.Days))
	for i, d := range p.Days {
		if strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("day[%d]: %w", i, ErrEmptyName)
		}
		if seenDays[d.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateDayName, d.Name)
		}
		seenDays[d.Name] = true

		for j, item := range d.Meal1 {
			if err := validateMealItem(item, regions); err != nil {
				return fmt.Errorf("day %q meal1[%d]: %w", d.Name, j, err)
			}
		}
		for j, item := range d.Meal2 {
			if err := validateMealItem(item, regions); err != nil {
				return fmt.Errorf("day %q meal2[%d]: %w", d.Name, j, err)
			}
		}
		for j, g := range d.DailyGroceries {
			if err := validateGroceryItem(g, regions); err != nil {
				return fmt.Errorf("day %q daily_groceries[%d]: %w", d.Name, j, err)
			}
		}
	}

	seenItems := make(map[string]bool)
	for _, s := range p.Shopping {
		for j, g := range s.Items {
			if err := validateGroceryItem(g, regions); err != nil {
				return fmt.Errorf("shopping %q[%d]: %w", s.Category, j, err)
			}
			if g.Category != s.Category {
				return fmt.Errorf("%w: %q is in %q but declares %q", ErrCategoryMismatch, g.Name, s.Category, g.Category)
			}
			if seenItems[g.Name] {
				return fmt.Errorf("%w: %q", ErrDuplicateItemName, g.Name)
			}
			seenItems[g.Name] = true
		}
	}

	return nil
}

func validateMealItem(item MealItem, regions []Region) error {
	if strings.TrimSpace(item.Label) == "" {
		return ErrEmptyName
	}
	macros := []struct {
		name  string
		value float64
	}{
		{"protein", item.Protein},
		{"carbs", item.Carbs},
		{"fats", item.Fats},
		{"calories", item.Calories},
		{"fiber", item.Fiber},
	}
	for _, m := range macros {
		if math.IsNaN(m.value) || math.IsInf(m.value, 0) {
			return fmt.Errorf("%w: %s on %q", ErrNonFiniteValue, m.name, item.Label)
		}
		if m.value < 0 {
			return fmt.Errorf("%w: %s=%v on %q", ErrNegativeMacro, m.name, m.value, item.Label)
		}
	}
	return validatePrices(item.Label, item.Price, regions)
}

func validateGroceryItem(g GroceryItem, regions []Region) error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	return validatePrices(g.Name, g.Price, regions)
}

func validatePrices(name string, prices Prices, regions []Region) error {
	for _, r := range regions {
		if _, ok := prices[r]; !ok {
			return fmt.Errorf("%w: %q has no %s price", ErrMissingRegionPrice, name, r)
		}
	}
	for r, v := range prices {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s price of %q", ErrNonFiniteValue, r, name)
		}
		if v < 0 {
			return fmt.Errorf("%w: %s price of %q is %v", ErrNegativePrice, r, name, v)
		}
	}
	return nil
}
