package finance

import (
	"bytes"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"cwsdash/frontend/shared/html"
)

// renderStatementPDF prints the summary, category split and the three
// ledgers on A4 portrait pages.
func renderStatementPDF(st Statement, printedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Financial Statement "+st.Season, false)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 6, "Printed "+printedAt.Format("2006-01-02 15:04")+"  |  page "+strconv.Itoa(pdf.PageNo())+"/{nb}", "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Financial Statement", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, "Season: "+st.Season, "", 1, "L", false, 0, "")
	pdf.Ln(3)

	sum := st.Summary
	statementTable(pdf, []string{"Line", "Amount"}, []float64{110, 70}, [][]string{
		{"Revenue", html.Money(sum.Revenue)},
		{"Cherry purchases", html.Money(sum.CherryPurchases)},
		{"Operating expenses", html.Money(sum.Expenses)},
		{"Labor", html.Money(sum.Labor)},
		{"Total cost", html.Money(sum.TotalCost)},
		{"Net profit", html.Money(sum.NetProfit)},
		{"Profit margin", html.Percent(sum.ProfitMargin)},
		{"Cherry delivered", html.Kg(sum.DeliveredKg)},
		{"Cost per kg", html.Money(sum.CostPerKg)},
	})

	categories := make([][]string, 0, len(st.Categories))
	for _, c := range st.Categories {
		categories = append(categories, []string{c.Category, html.Money(c.Amount)})
	}
	statementHeading(pdf, "Expenses by category")
	statementTable(pdf, []string{"Category", "Amount"}, []float64{110, 70}, categories)

	expenses := make([][]string, 0, len(st.Expenses))
	for _, e := range st.Expenses {
		expenses = append(expenses, []string{e.Date, e.Category, e.Description, html.Money(e.Amount)})
	}
	statementHeading(pdf, "Expenses")
	statementTable(pdf, []string{"Date", "Category", "Description", "Amount"}, []float64{28, 40, 72, 40}, expenses)

	revenues := make([][]string, 0, len(st.Revenues))
	for _, r := range st.Revenues {
		revenues = append(revenues, []string{r.Date, r.Buyer, html.Kg(r.QuantityKg), html.Money(r.UnitPrice), html.Money(r.Amount)})
	}
	statementHeading(pdf, "Revenues")
	statementTable(pdf, []string{"Date", "Buyer", "Quantity", "Unit price", "Amount"}, []float64{28, 52, 32, 30, 38}, revenues)

	labor := make([][]string, 0, len(st.Labor))
	for _, l := range st.Labor {
		labor = append(labor, []string{l.Date, l.WorkerName, l.Task, html.Number(l.Days), html.Money(l.Amount)})
	}
	statementHeading(pdf, "Labor")
	statementTable(pdf, []string{"Date", "Worker", "Task", "Days", "Amount"}, []float64{28, 45, 57, 15, 35}, labor)

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func statementHeading(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(5)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

// statementTable draws a bordered table. Text that does not fit its column
// is cut to width.
func statementTable(pdf *gofpdf.Fpdf, headers []string, widths []float64, rows [][]string) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	if len(rows) == 0 {
		total := 0.0
		for _, w := range widths {
			total += w
		}
		pdf.CellFormat(total, 7, "No entries.", "1", 1, "L", false, 0, "")
		return
	}
	for _, row := range rows {
		for i, cell := range row {
			align := "L"
			if i == len(row)-1 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, fitText(pdf, cell, widths[i]-2), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func fitText(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
