package reports

import (
	"context"
	"time"

	"github.com/mmrentals/rentdesk_backend/config"
	"github.com/shopspring/decimal"
)

// BuildingRevenueRow aggregates money received per building over a date
// range, by payment date.
type BuildingRevenueRow struct {
	BuildingId   int             `json:"buildingId"`
	BuildingName string          `json:"buildingName"`
	PaymentCount int             `json:"paymentCount"`
	Received     decimal.Decimal `json:"received"`
	Outstanding  decimal.Decimal `json:"outstanding"`
}

func GetBuildingRevenueReport(ctx context.Context, fromDate time.Time, toDate time.Time) ([]*BuildingRevenueRow, error) {

	started := time.Now()

	sql := `
SELECT
    buildings.id building_id,
    buildings.name building_name,
    COUNT(payments.id) payment_count,
    COALESCE(SUM(payments.amount), 0) received,
    COALESCE(outstanding.amount, 0) outstanding
FROM
    buildings
    LEFT JOIN rooms ON rooms.building_id = buildings.id
    LEFT JOIN contracts ON contracts.room_id = rooms.id
    LEFT JOIN invoices ON invoices.contract_id = contracts.id
    LEFT JOIN payments ON payments.invoice_id = invoices.id
        AND payments.paid_at BETWEEN @fromDate AND @toDate
    LEFT JOIN (
        SELECT
            b.id building_id,
            SUM(iv.total) - COALESCE(SUM(p.paid), 0) amount
        FROM
            buildings b
            INNER JOIN rooms r ON r.building_id = b.id
            INNER JOIN contracts c ON c.room_id = r.id
            INNER JOIN invoices iv ON iv.contract_id = c.id AND iv.status <> 'paid'
            LEFT JOIN (
                SELECT invoice_id, SUM(amount) paid
                FROM payments
                GROUP BY invoice_id
            ) p ON p.invoice_id = iv.id
        GROUP BY
            b.id
    ) outstanding ON outstanding.building_id = buildings.id
GROUP BY
    buildings.id
ORDER BY
    buildings.name;
	`

	db := config.GetDB()
	var results []*BuildingRevenueRow
	if err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"fromDate": fromDate,
		"toDate":   toDate,
	}).Scan(&results).Error; err != nil {
		return nil, err
	}

	logSlowReport(ctx, "building_revenue", started, map[string]any{
		"from": fromDate.Format("2006-01-02"),
		"to":   toDate.Format("2006-01-02"),
	})
	return results, nil
}
