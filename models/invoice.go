package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmrentals/rentdesk_backend/config"
	"github.com/mmrentals/rentdesk_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Invoice snapshots everything needed to reproduce the bill: unit
// prices, readings and fee totals are copied from the contract at issue
// time and never re-read. One invoice per (contract, month, year).
type Invoice struct {
	ID         int `gorm:"primary_key" json:"id"`
	ContractId int `gorm:"not null;uniqueIndex:idx_invoice_period" json:"contract_id"`
	Month      int `gorm:"not null;uniqueIndex:idx_invoice_period" json:"month"`
	Year       int `gorm:"not null;uniqueIndex:idx_invoice_period" json:"year"`

	MonthlyRent decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"monthly_rent"`

	ElectricityOpening   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"electricity_opening"`
	ElectricityClosing   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"electricity_closing"`
	ElectricityUnitPrice decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"electricity_unit_price"`
	ElectricityCharge    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"electricity_charge"`

	WaterOpening   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"water_opening"`
	WaterClosing   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"water_closing"`
	WaterUnitPrice decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"water_unit_price"`
	WaterCharge    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"water_charge"`

	ServiceFeeTotal decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"service_fee_total"`
	Total           decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total"`

	Status   InvoiceStatus `gorm:"size:20;not null;default:unpaid;index" json:"status"`
	DueDate  time.Time     `gorm:"not null" json:"due_date"`
	IssuedBy int           `json:"issued_by"`
	Note     string        `gorm:"type:text" json:"note"`

	Contract *Contract `json:"contract,omitempty"`
	Payments []Payment `json:"payments,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewInvoice struct {
	ContractId         int             `json:"contract_id" binding:"required"`
	Month              int             `json:"month" binding:"required"`
	Year               int             `json:"year" binding:"required"`
	ElectricityClosing decimal.Decimal `json:"electricity_closing"`
	WaterClosing       decimal.Decimal `json:"water_closing"`
	Note               string          `json:"note"`
}

type InvoiceFilter struct {
	ContractId int
	BuildingId int
	Status     InvoiceStatus
	Month      int
	Year       int
	Overdue    bool
}

// Consumption clamps meter deltas at zero. A closing below the opening
// (meter replaced or misread) bills as zero rather than going negative.
func Consumption(opening decimal.Decimal, closing decimal.Decimal) decimal.Decimal {
	delta := closing.Sub(opening)
	if delta.IsNegative() {
		return decimal.Zero
	}
	return delta
}

// BuildInvoice assembles the invoice amounts from a contract, the
// resolved opening readings and the submitted closings. Pure; the
// caller persists.
func BuildInvoice(contract *Contract, opening *OpeningReadings, input *NewInvoice) *Invoice {
	elecConsumption := Consumption(opening.Electricity, input.ElectricityClosing)
	waterConsumption := Consumption(opening.Water, input.WaterClosing)

	elecCharge := elecConsumption.Mul(contract.ElectricityUnitPrice)
	waterCharge := waterConsumption.Mul(contract.WaterUnitPrice)
	feeTotal := contract.ServiceFeeTotal()

	return &Invoice{
		ContractId: contract.ID,
		Month:      input.Month,
		Year:       input.Year,

		MonthlyRent: contract.MonthlyRent,

		ElectricityOpening:   opening.Electricity,
		ElectricityClosing:   input.ElectricityClosing,
		ElectricityUnitPrice: contract.ElectricityUnitPrice,
		ElectricityCharge:    elecCharge,

		WaterOpening:   opening.Water,
		WaterClosing:   input.WaterClosing,
		WaterUnitPrice: contract.WaterUnitPrice,
		WaterCharge:    waterCharge,

		ServiceFeeTotal: feeTotal,
		Total:           contract.MonthlyRent.Add(elecCharge).Add(waterCharge).Add(feeTotal),

		Status:  InvoiceStatusUnpaid,
		DueDate: DueDateFor(input.Year, input.Month, contract.DueDay),
		Note:    input.Note,
	}
}

// DeriveInvoiceStatus folds the paid sum against the total. Payments
// only accumulate, so the status never moves backwards.
func DeriveInvoiceStatus(total decimal.Decimal, paid decimal.Decimal) InvoiceStatus {
	if paid.GreaterThanOrEqual(total) && total.GreaterThan(decimal.Zero) {
		return InvoiceStatusPaid
	}
	if total.IsZero() && paid.GreaterThanOrEqual(decimal.Zero) {
		return InvoiceStatusPaid
	}
	if paid.GreaterThan(decimal.Zero) {
		return InvoiceStatusPartial
	}
	return InvoiceStatusUnpaid
}

// IsOverdue reports whether the invoice is past due and not settled.
func (inv *Invoice) IsOverdue(now time.Time) bool {
	return inv.Status != InvoiceStatusPaid && now.After(inv.DueDate)
}

func (input *NewInvoice) validate() error {
	if !ValidBillingPeriod(input.Month, input.Year) {
		return utils.ValidationError("invalid billing period")
	}
	if input.ElectricityClosing.IsNegative() || input.WaterClosing.IsNegative() {
		return utils.ValidationError("closing readings must not be negative")
	}
	return nil
}

// CreateInvoice issues the bill for one billing period. The invoice,
// the period's closing readings and the tenant notification are written
// in a single transaction, so a duplicate period leaves no partial rows.
func CreateInvoice(ctx context.Context, input *NewInvoice) (*Invoice, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	contract, err := utils.FetchModel[Contract](ctx, input.ContractId, "ServiceFees")
	if err != nil {
		return nil, utils.NotFoundError("contract not found")
	}
	if contract.Status != ContractStatusActive {
		return nil, utils.ConflictError("contract is not active")
	}

	opening, err := ResolveOpeningReadings(ctx, contract.ID, input.Month, input.Year)
	if err != nil {
		return nil, err
	}

	invoice := BuildInvoice(contract, opening, input)
	if userId, ok := utils.GetUserIdFromContext(ctx); ok {
		invoice.IssuedBy = userId
	}

	reading := UtilityReading{
		RoomId:             contract.RoomId,
		Month:              input.Month,
		Year:               input.Year,
		ElectricityReading: input.ElectricityClosing,
		WaterReading:       input.WaterClosing,
		RecordedBy:         invoice.IssuedBy,
	}

	db := config.GetDB()
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Create(invoice).Error; err != nil {
			if config.IsDuplicateEntry(err) {
				return utils.ConflictError("invoice already exists for this period")
			}
			return err
		}
		if err := tx.WithContext(ctx).Create(&reading).Error; err != nil {
			if config.IsDuplicateEntry(err) {
				return utils.ConflictError("readings already recorded for this period")
			}
			return err
		}
		return notifyContractRepresentative(ctx, tx, contract,
			"invoice_issued",
			fmt.Sprintf("Invoice for %02d/%d", input.Month, input.Year),
			fmt.Sprintf("Your invoice of %s is due on %s.", invoice.Total.StringFixed(0), invoice.DueDate.Format("2006-01-02")),
			"invoice", &invoice.ID)
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// notifyContractRepresentative queues an outbox row for the contract's
// representative, when that tenant has a portal account. No-op otherwise.
func notifyContractRepresentative(ctx context.Context, tx *gorm.DB, contract *Contract, notifType string, title string, body string, refType string, refId *int) error {
	var tenant Tenant
	err := tx.WithContext(ctx).First(&tenant, contract.RepresentativeId).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if tenant.UserId == nil {
		return nil
	}
	id := 0
	if refId != nil {
		id = *refId
	}
	return queueNotification(ctx, tx, *tenant.UserId, notifType, title, body, refType, id)
}

func GetInvoice(ctx context.Context, id int) (*Invoice, error) {
	return utils.FetchModel[Invoice](ctx, id, "Contract", "Contract.ServiceFees", "Payments")
}

func GetInvoices(ctx context.Context, filter InvoiceFilter) ([]*Invoice, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Invoice{}).Preload("Payments")
	if filter.ContractId != 0 {
		dbCtx = dbCtx.Where("invoices.contract_id = ?", filter.ContractId)
	}
	if filter.BuildingId != 0 {
		dbCtx = dbCtx.
			Joins("JOIN contracts ON contracts.id = invoices.contract_id").
			Joins("JOIN rooms ON rooms.id = contracts.room_id").
			Where("rooms.building_id = ?", filter.BuildingId)
	}
	if filter.Status != "" {
		dbCtx = dbCtx.Where("invoices.status = ?", filter.Status)
	}
	if filter.Month != 0 {
		dbCtx = dbCtx.Where("invoices.month = ?", filter.Month)
	}
	if filter.Year != 0 {
		dbCtx = dbCtx.Where("invoices.year = ?", filter.Year)
	}
	if filter.Overdue {
		dbCtx = dbCtx.Where("invoices.status <> ? AND invoices.due_date < ?", InvoiceStatusPaid, time.Now())
	}

	var results []*Invoice
	if err := dbCtx.Order("invoices.year DESC, invoices.month DESC, invoices.id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetContractInvoices lists a contract's invoices, newest period first.
func GetContractInvoices(ctx context.Context, contractId int) ([]*Invoice, error) {
	if err := utils.ValidateResourceId[Contract](ctx, contractId); err != nil {
		return nil, utils.NotFoundError("contract not found")
	}
	return GetInvoices(ctx, InvoiceFilter{ContractId: contractId})
}

// DeleteInvoice removes an invoice and its period's readings. Refused
// once any payment has been recorded; void the payments first.
func DeleteInvoice(ctx context.Context, id int) (*Invoice, error) {
	existing, err := utils.FetchModel[Invoice](ctx, id, "Contract")
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.Transaction(func(tx *gorm.DB) error {
		// Lock the invoice row so a concurrent payment cannot slip in
		// between the ledger check and the delete.
		var invoice Invoice
		if err := tx.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&invoice, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFoundError("invoice not found")
			}
			return err
		}

		var count int64
		if err := tx.WithContext(ctx).Model(&Payment{}).
			Where("invoice_id = ?", id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return utils.ConflictError("invoice has recorded payments")
		}

		if existing.Contract != nil {
			if err := tx.WithContext(ctx).
				Where("room_id = ? AND month = ? AND year = ?", existing.Contract.RoomId, existing.Month, existing.Year).
				Delete(&UtilityReading{}).Error; err != nil {
				return err
			}
		}
		return tx.WithContext(ctx).Delete(existing).Error
	})
	if err != nil {
		return nil, err
	}
	return existing, nil
}
