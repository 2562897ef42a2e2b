package finance

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// renderStatementXLSX writes a Summary sheet plus one sheet per ledger.
// Amounts are written as numbers so the workbook can be summed.
func renderStatementXLSX(st Statement, printedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Sheet1"
	if err := f.SetSheetName(summary, "Summary"); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("statement style: %w", err)
	}

	sum := st.Summary
	rows := [][]any{
		{"Financial Statement"},
		{"Season", st.Season},
		{"Printed", printedAt.Format("2006-01-02 15:04")},
		{},
		{"Line", "Amount (RWF)"},
		{"Revenue", sum.Revenue},
		{"Cherry purchases", sum.CherryPurchases},
		{"Operating expenses", sum.Expenses},
		{"Labor", sum.Labor},
		{"Total cost", sum.TotalCost},
		{"Net profit", sum.NetProfit},
		{"Profit margin (%)", sum.ProfitMargin},
		{"Cherry delivered (kg)", sum.DeliveredKg},
		{"Coffee sold (kg)", sum.SoldKg},
		{"Cost per kg", sum.CostPerKg},
		{},
		{"Expense category", "Amount (RWF)"},
	}
	for _, c := range st.Categories {
		rows = append(rows, []any{c.Category, c.Amount})
	}
	if err := writeRows("Summary", rows, f); err != nil {
		return nil, err
	}
	for _, cell := range []string{"A1", "A5", "B5", "A17", "B17"} {
		if err := f.SetCellStyle("Summary", cell, cell, bold); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth("Summary", "A", "A", 26); err != nil {
		return nil, err
	}

	expenses := [][]any{{"Date", "Category", "Description", "Amount (RWF)"}}
	for _, e := range st.Expenses {
		expenses = append(expenses, []any{e.Date, e.Category, e.Description, e.Amount})
	}
	revenues := [][]any{{"Date", "Buyer", "Quantity (kg)", "Unit price (RWF)", "Amount (RWF)"}}
	for _, r := range st.Revenues {
		revenues = append(revenues, []any{r.Date, r.Buyer, r.QuantityKg, r.UnitPrice, r.Amount})
	}
	labor := [][]any{{"Date", "Worker", "Task", "Days", "Daily rate (RWF)", "Amount (RWF)"}}
	for _, l := range st.Labor {
		labor = append(labor, []any{l.Date, l.WorkerName, l.Task, l.Days, l.DailyRate, l.Amount})
	}
	for _, sheet := range []struct {
		name string
		rows [][]any
	}{{"Expenses", expenses}, {"Revenues", revenues}, {"Labor", labor}} {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return nil, fmt.Errorf("create %s sheet: %w", sheet.name, err)
		}
		if err := writeRows(sheet.name, sheet.rows, f); err != nil {
			return nil, err
		}
		last := string(rune('A' + len(sheet.rows[0]) - 1))
		if err := f.SetCellStyle(sheet.name, "A1", last+"1", bold); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write statement workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(sheet string, rows [][]any, f *excelize.File) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell := "A" + strconv.Itoa(i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
