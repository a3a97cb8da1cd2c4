package plan

import (
	"fmt"
	"strings"
)

// Region selects which price column of an item is read.
type Region string

const (
	RegionFR Region = "FR"
	RegionMA Region = "MA"
)

// Regions lists every region the API offers. Price maps must cover all of them.
var Regions = []Region{RegionFR, RegionMA}

// ParseRegion accepts a region code case-insensitively.
func ParseRegion(s string) (Region, error) {
	r := Region(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Regions {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRegion, s)
}

// Currency returns the display symbol for the region.
func (r Region) Currency() string {
	switch r {
	case RegionFR:
		return "€"
	case RegionMA:
		return "MAD"
	default:
		return ""
	}
}

// Prices maps a region to an amount in that region's currency.
type Prices map[Region]float64

// For returns the amount for region or ErrMissingRegionPrice.
func (p Prices) For(region Region) (float64, error) {
	v, ok := p[region]
	if !ok {
		return 0, fmt.Errorf("%w: region %s", ErrMissingRegionPrice, region)
	}
	return v, nil
}

// MealItem is one line of a meal.
type MealItem struct {
	Label       string  `yaml:"label" json:"label"`
	Detail      string  `yaml:"detail" json:"detail"`
	Instruction string  `yaml:"instruction,omitempty" json:"instruction,omitempty"`
	Protein     float64 `yaml:"protein" json:"protein"`
	Carbs       float64 `yaml:"carbs" json:"carbs"`
	Fats        float64 `yaml:"fats" json:"fats"`
	Calories    float64 `yaml:"calories" json:"calories"`
	Fiber       float64 `yaml:"fiber" json:"fiber"`
	Price       Prices  `yaml:"price" json:"price"`
}

func (m MealItem) PriceName() string { return m.Label }
func (m MealItem) PriceMap() Prices  { return m.Price }

// GroceryItem is a purchasable line on the shopping list or a day's groceries.
type GroceryItem struct {
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category" json:"category"`
	Quantity string `yaml:"quantity" json:"quantity"`
	Price    Prices `yaml:"price" json:"price"`
}

func (g GroceryItem) PriceName() string { return g.Name }
func (g GroceryItem) PriceMap() Prices  { return g.Price }

// DayPlan holds the meals and workout of one weekday. Name doubles as the
// completion key.
type DayPlan struct {
	Name           string        `yaml:"name" json:"name"`
	Meal1          []MealItem    `yaml:"meal1" json:"meal1"`
	Meal2          []MealItem    `yaml:"meal2" json:"meal2"`
	Workout        []string      `yaml:"workout" json:"workout"`
	DailyGroceries []GroceryItem `yaml:"daily_groceries,omitempty" json:"daily_groceries,omitempty"`
}

// MealItems returns meal1 followed by meal2.
func (d DayPlan) MealItems() []MealItem {
	items := make([]MealItem, 0, len(d.Meal1)+len(d.Meal2))
	items = append(items, d.Meal1...)
	return append(items, d.Meal2...)
}

// ShoppingSection groups grocery items under a category heading.
type ShoppingSection struct {
	Category string        `yaml:"category" json:"category"`
	Items    []GroceryItem `yaml:"items" json:"items"`
}

// Plan is the whole week. It is built once at start-up and only read afterwards.
type Plan struct {
	Shopping []ShoppingSection `yaml:"shopping" json:"shopping"`
	Days     []DayPlan         `yaml:"days" json:"days"`
}

// Day looks a day up by name.
func (p *Plan) Day(name string) (DayPlan, bool) {
	for _, d := range p.Days {
		if d.Name == name {
			return d, true
		}
	}
	return DayPlan{}, false
}

// ShoppingItem looks a shopping list entry up by name.
func (p *Plan) ShoppingItem(name string) (GroceryItem, bool) {
	for _, s := range p.Shopping {
		for _, item := range s.Items {
			if item.Name == name {
				return item, true
			}
		}
	}
	return GroceryItem{}, false
}

// ShoppingItems flattens all sections in display order.
func (p *Plan) ShoppingItems() []GroceryItem {
	var items []GroceryItem
	for _, s := range p.Shopping {
		items = append(items, s.Items...)
	}
	return items
}

// DayNames returns day names in week order.
func (p *Plan) DayNames() []string {
	names := make([]string, len(p.Days))
	for i, d := range p.Days {
		names[i] = d.Name
	}
	return names
}
