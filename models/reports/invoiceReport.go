package reports

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmrentals/rentdesk_backend/config"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// MonthlyInvoiceRow is one invoice of the requested billing period with
// its building/room context and paid-so-far sum.
type MonthlyInvoiceRow struct {
	InvoiceId    int             `json:"invoiceId"`
	BuildingName string          `json:"buildingName"`
	RoomNumber   string          `json:"roomNumber"`
	TenantName   string          `json:"tenantName"`
	MonthlyRent  decimal.Decimal `json:"monthlyRent"`
	ElecCharge   decimal.Decimal `json:"elecCharge"`
	WaterCharge  decimal.Decimal `json:"waterCharge"`
	FeeTotal     decimal.Decimal `json:"feeTotal"`
	Total        decimal.Decimal `json:"total"`
	Paid         decimal.Decimal `json:"paid"`
	Status       string          `json:"status"`
	DueDate      time.Time       `json:"dueDate"`
}

func GetMonthlyInvoiceReport(ctx context.Context, month int, year int) ([]*MonthlyInvoiceRow, error) {

	started := time.Now()
	cacheKey := fmt.Sprintf("Report:MonthlyInvoices:%d-%02d", year, month)
	if reportCacheEnabled() {
		var cached []*MonthlyInvoiceRow
		if hit, err := cacheGet(cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	sql := `
SELECT
    invoices.id invoice_id,
    buildings.name building_name,
    rooms.number room_number,
    tenants.full_name tenant_name,
    invoices.monthly_rent,
    invoices.electricity_charge elec_charge,
    invoices.water_charge,
    invoices.service_fee_total fee_total,
    invoices.total,
    COALESCE(pay.paid, 0) paid,
    invoices.status,
    invoices.due_date
FROM
    invoices
    INNER JOIN contracts ON contracts.id = invoices.contract_id
    INNER JOIN rooms ON rooms.id = contracts.room_id
    INNER JOIN buildings ON buildings.id = rooms.building_id
    LEFT JOIN tenants ON tenants.id = contracts.representative_id
    LEFT JOIN (
        SELECT invoice_id, SUM(amount) paid
        FROM payments
        GROUP BY invoice_id
    ) pay ON pay.invoice_id = invoices.id
WHERE
    invoices.month = @month
    AND invoices.year = @year
ORDER BY
    buildings.name, rooms.number;
	`

	db := config.GetDB()
	var results []*MonthlyInvoiceRow
	if err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"month": month,
		"year":  year,
	}).Scan(&results).Error; err != nil {
		return nil, err
	}

	if reportCacheEnabled() {
		_ = cacheSet(cacheKey, results, reportCacheTTL())
	}
	logSlowReport(ctx, "monthly_invoices", started, map[string]any{"month": month, "year": year})
	return results, nil
}

// ExportMonthlyInvoicesExcel streams the monthly invoice report as an
// xlsx attachment.
func ExportMonthlyInvoicesExcel(ctx context.Context, w http.ResponseWriter, month int, year int) error {

	data, err := GetMonthlyInvoiceReport(ctx, month, year)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	sheetName := "Sheet1"
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	// Add headers
	headings := []string{"Building", "Room", "Tenant", "Rent", "Electricity", "Water", "Fees", "Total", "Paid", "Status", "DueDate"}
	col := 'A'
	for _, h := range headings {
		f.SetCellValue(sheetName, string(col)+"1", h)
		col++
	}

	// Add data
	for i, d := range data {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(sheetName, "A"+row, d.BuildingName)
		f.SetCellValue(sheetName, "B"+row, d.RoomNumber)
		f.SetCellValue(sheetName, "C"+row, d.TenantName)
		f.SetCellValue(sheetName, "D"+row, d.MonthlyRent.InexactFloat64())
		f.SetCellValue(sheetName, "E"+row, d.ElecCharge.InexactFloat64())
		f.SetCellValue(sheetName, "F"+row, d.WaterCharge.InexactFloat64())
		f.SetCellValue(sheetName, "G"+row, d.FeeTotal.InexactFloat64())
		f.SetCellValue(sheetName, "H"+row, d.Total.InexactFloat64())
		f.SetCellValue(sheetName, "I"+row, d.Paid.InexactFloat64())
		f.SetCellValue(sheetName, "J"+row, d.Status)
		f.SetCellValue(sheetName, "K"+row, d.DueDate.Format("2006-01-02"))
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=invoices-%d-%02d.xlsx", year, month))
	return f.Write(w)
}
