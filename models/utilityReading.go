package models

import (
	"context"
	"time"

	"github.com/mmrentals/rentdesk_backend/config"
	"github.com/mmrentals/rentdesk_backend/utils"
	"github.com/shopspring/decimal"
)

// UtilityReading stores the closing electricity/water meter values of a
// room for one billing period. Rows are written together with the
// period's invoice, one row per (room, month, year).
type UtilityReading struct {
	ID     int `gorm:"primary_key" json:"id"`
	RoomId int `gorm:"not null;uniqueIndex:idx_reading_period" json:"room_id"`
	Month  int `gorm:"not null;uniqueIndex:idx_reading_period" json:"month"`
	Year   int `gorm:"not null;uniqueIndex:idx_reading_period" json:"year"`

	ElectricityReading decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"electricity_reading"`
	WaterReading       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"water_reading"`

	RecordedBy int       `json:"recorded_by"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// OpeningReadings is the resolved starting point of a billing period:
// either the closing values of the latest prior period, or the
// contract's initial readings when no prior period exists.
type OpeningReadings struct {
	Electricity  decimal.Decimal `json:"electricity"`
	Water        decimal.Decimal `json:"water"`
	FirstInvoice bool            `json:"first_invoice"`
	SourceMonth  int             `json:"source_month,omitempty"`
	SourceYear   int             `json:"source_year,omitempty"`
}

// PeriodBefore reports whether (m1, y1) is strictly before (m2, y2).
func PeriodBefore(month1 int, year1 int, month2 int, year2 int) bool {
	if year1 != year2 {
		return year1 < year2
	}
	return month1 < month2
}

// LatestPriorInvoice picks the contract's most recent invoice strictly
// before the given period. Returns nil when none qualifies.
func LatestPriorInvoice(invoices []Invoice, month int, year int) *Invoice {
	var latest *Invoice
	for i := range invoices {
		inv := &invoices[i]
		if !PeriodBefore(inv.Month, inv.Year, month, year) {
			continue
		}
		if latest == nil || PeriodBefore(latest.Month, latest.Year, inv.Month, inv.Year) {
			latest = inv
		}
	}
	return latest
}

// ResolveOpeningReadings determines the opening meter values for the
// contract in (month, year). The closing values of the contract's
// latest prior invoice carry forward; the contract's initial readings
// seed the first period, so a re-let room never inherits the previous
// tenant's meters. Gaps are allowed: skipped months simply roll the
// same closings further.
func ResolveOpeningReadings(ctx context.Context, contractId int, month int, year int) (*OpeningReadings, error) {
	if !ValidBillingPeriod(month, year) {
		return nil, utils.ValidationError("invalid billing period")
	}
	contract, err := utils.FetchModel[Contract](ctx, contractId)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var invoices []Invoice
	err = db.WithContext(ctx).Model(&Invoice{}).
		Select("month, year, electricity_closing, water_closing").
		Where("contract_id = ?", contract.ID).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}

	prior := LatestPriorInvoice(invoices, month, year)
	if prior == nil {
		return &OpeningReadings{
			Electricity:  contract.InitialElectricityReading,
			Water:        contract.InitialWaterReading,
			FirstInvoice: true,
		}, nil
	}

	return &OpeningReadings{
		Electricity: prior.ElectricityClosing,
		Water:       prior.WaterClosing,
		SourceMonth: prior.Month,
		SourceYear:  prior.Year,
	}, nil
}

// GetRoomReadings lists a room's reading history, newest period first.
func GetRoomReadings(ctx context.Context, roomId int) ([]*UtilityReading, error) {
	if err := utils.ValidateResourceId[Room](ctx, roomId); err != nil {
		return nil, utils.NotFoundError("room not found")
	}
	db := config.GetDB()
	var results []*UtilityReading
	if err := db.WithContext(ctx).Model(&UtilityReading{}).
		Where("room_id = ?", roomId).
		Order("year DESC, month DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
