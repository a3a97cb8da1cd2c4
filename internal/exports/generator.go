package exports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"

	"github.com/fdg312/muscle-plan/internal/nutrition"
	"github.com/fdg312/muscle-plan/internal/plan"
	"github.com/fdg312/muscle-plan/internal/pricing"
	"github.com/fdg312/muscle-plan/internal/selection"
	"github.com/jung-kurt/gofpdf"
)

// Generator renders plan exports as PDF or CSV.
type Generator struct {
	plan *plan.Plan
}

// NewGenerator creates a new export generator
func NewGenerator(p *plan.Plan) *Generator {
	return &Generator{plan: p}
}

type shoppingRow struct {
	Category string
	Name     string
	Quantity string
	Price    float64
	Bought   bool
}

type weekRow struct {
	Day       string
	Totals    nutrition.Totals
	ProteinDV nutrition.Percent
	Cost      float64
	Completed bool
}

// Generate renders kind in format. st supplies the bought and completed markers;
// a zero State marks nothing.
func (g *Generator) Generate(kind, format string, region plan.Region, st selection.State) ([]byte, error) {
	switch kind {
	case KindShopping:
		rows, total, err := g.shoppingRows(region, st)
		if err != nil {
			return nil, err
		}
		if format == FormatCSV {
			return shoppingCSV(rows, total, region)
		}
		return shoppingPDF(rows, total, region)

	case KindWeek:
		rows, summary, err := g.weekRows(region, st)
		if err != nil {
			return nil, err
		}
		if format == FormatCSV {
			return weekCSV(rows, summary)
		}
		return weekPDF(rows, summary)

	default:
		return nil, fmt.Errorf("unsupported kind: %s", kind)
	}
}

func (g *Generator) shoppingRows(region plan.Region, st selection.State) ([]shoppingRow, float64, error) {
	total, err := pricing.ShoppingCost(g.plan, region)
	if err != nil {
		return nil, 0, err
	}
	var rows []shoppingRow
	for _, section := range g.plan.Shopping {
		for _, item := range section.Items {
			price, err := item.Price.For(region)
			if err != nil {
				return nil, 0, fmt.Errorf("item %q: %w", item.Name, err)
			}
			rows = append(rows, shoppingRow{
				Category: section.Category,
				Name:     item.Name,
				Quantity: item.Quantity,
				Price:    price,
				Bought:   st.Bought.Has(item.Name),
			})
		}
	}
	return rows, total, nil
}

func (g *Generator) weekRows(region plan.Region, st selection.State) ([]weekRow, pricing.Summary, error) {
	summary, err := pricing.WeeklyCost(g.plan, region)
	if err != nil {
		return nil, pricing.Summary{}, err
	}
	rows := make([]weekRow, len(g.plan.Days))
	for i, d := range g.plan.Days {
		totals := nutrition.AggregateDayTotals(d.Meal1, d.Meal2)
		rows[i] = weekRow{
			Day:       d.Name,
			Totals:    totals,
			ProteinDV: nutrition.PercentOfReference(totals, nutrition.DefaultReference).Protein,
			Cost:      summary.Days[i].Cost,
			Completed: st.CompletedDays.Has(d.Name),
		}
	}
	return rows, summary, nil
}

func shoppingCSV(rows []shoppingRow, total float64, region plan.Region) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"category", "item", "quantity", "price", "currency", "bought"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	currency := region.Currency()
	for _, r := range rows {
		if err := w.Write([]string{r.Category, r.Name, r.Quantity, money(r.Price), currency, yesNo(r.Bought)}); err != nil {
			return nil, err
		}
	}
	if err := w.Write([]string{"", "total", "", money(total), currency, ""}); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func weekCSV(rows []weekRow, summary pricing.Summary) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"day", "protein_g", "carbs_g", "fats_g", "calories_kcal", "fiber_g", "protein_dv", "cost", "currency", "completed"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range rows {
		row := []string{
			r.Day,
			grams(r.Totals.Protein),
			grams(r.Totals.Carbs),
			grams(r.Totals.Fats),
			grams(r.Totals.Calories),
			grams(r.Totals.Fiber),
			r.ProteinDV.String(),
			money(r.Cost),
			summary.Currency,
			yesNo(r.Completed),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	if err := w.Write([]string{"total", "", "", "", "", "", "", money(summary.Weekly), summary.Currency, ""}); err != nil {
		return nil, err
	}
	if err := w.Write([]string{"average_daily", "", "", "", "", "", "", money(summary.AverageDaily), summary.Currency, ""}); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func shoppingPDF(rows []shoppingRow, total float64, region plan.Region) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; the translator covers French accents and the euro sign.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Liste de courses"))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Région: %s", region)))
	pdf.Ln(12)

	category := ""
	for _, r := range rows {
		if r.Category != category {
			category = r.Category
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "B", 12)
			pdf.Cell(0, 7, tr(category))
			pdf.Ln(7)
			pdf.SetFont("Helvetica", "", 10)
		}
		mark := "[ ]"
		if r.Bought {
			mark = "[x]"
		}
		pdf.CellFormat(10, 6, mark, "", 0, "L", false, 0, "")
		pdf.CellFormat(95, 6, tr(r.Name), "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, tr(r.Quantity), "", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, tr(pricing.FormatAmount(r.Price, region)), "", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(145, 8, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(35, 8, tr(pricing.FormatAmount(total, region)), "T", 1, "R", false, 0, "")

	return output(pdf)
}

func weekPDF(rows []weekRow, summary pricing.Summary) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Semaine d'entraînement"))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Région: %s", summary.Region)))
	pdf.Ln(12)

	headers := []string{"Jour", "Protéines", "Glucides", "Lipides", "Calories", "Fibres", "%VQ prot.", "Coût", "Fait"}
	widths := []float64{35, 27, 27, 27, 30, 27, 27, 40, 20}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, r := range rows {
		done := ""
		if r.Completed {
			done = "x"
		}
		cells := []string{
			r.Day,
			grams(r.Totals.Protein) + " g",
			grams(r.Totals.Carbs) + " g",
			grams(r.Totals.Fats) + " g",
			grams(r.Totals.Calories) + " kcal",
			grams(r.Totals.Fiber) + " g",
			r.ProteinDV.String(),
			pricing.FormatAmount(r.Cost, summary.Region),
			done,
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 7, tr(c), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, tr("Total semaine: "+pricing.FormatAmount(summary.Weekly, summary.Region)))
	pdf.Ln(6)
	pdf.Cell(0, 7, tr("Moyenne par jour: "+pricing.FormatAmount(summary.AverageDaily, summary.Region)))

	return output(pdf)
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func money(v float64) string {
	return strconv.FormatFloat(pricing.RoundCents(v), 'f', 2, 64)
}

// grams prints at most one decimal: 116 stays "116", 0.1+0.2 prints "0.3".
func grams(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
