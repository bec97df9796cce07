package models

import (
	"context"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/mmrentals/rentdesk_backend/config"
	"github.com/mmrentals/rentdesk_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Payment is an append-only ledger row against an invoice. Invoice
// status is always recomputed from the SUM of this table, never
// incremented in place.
type Payment struct {
	ID        int             `gorm:"primary_key" json:"id"`
	InvoiceId int             `gorm:"index;not null" json:"invoice_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Method    PaymentMethod   `gorm:"size:20;not null" json:"method"`
	PaidAt    time.Time       `gorm:"not null" json:"paid_at"`

	// Transfer metadata, required iff method is transfer.
	BankName        string `gorm:"size:100" json:"bank_name,omitempty"`
	TransactionCode string `gorm:"size:100" json:"transaction_code,omitempty"`

	RecordedBy int       `json:"recorded_by"`
	Note       string    `gorm:"size:500" json:"note"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewPayment struct {
	InvoiceId       int             `json:"invoice_id" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Method          PaymentMethod   `json:"method" binding:"required"`
	PaidAt          *time.Time      `json:"paid_at"`
	BankName        string          `json:"bank_name"`
	TransactionCode string          `json:"transaction_code"`
	Note            string          `json:"note"`
}

func (input *NewPayment) validate() error {
	if !input.Amount.GreaterThan(decimal.Zero) {
		return utils.ValidationError("amount must be positive")
	}
	if !input.Method.Valid() {
		return utils.ValidationError("invalid payment method")
	}
	if input.Method == PaymentMethodTransfer {
		if input.BankName == "" || input.TransactionCode == "" {
			return utils.ValidationError("bank name and transaction code are required for transfers")
		}
	} else if input.BankName != "" || input.TransactionCode != "" {
		return utils.ValidationError("transfer metadata is only valid for transfers")
	}
	return nil
}

// RecordPayment appends a ledger row and recomputes the invoice status
// inside one transaction. The invoice row is locked FOR UPDATE so two
// concurrent payments serialize; the redis lock in front of it just
// shrinks the contention window and is best-effort.
func RecordPayment(ctx context.Context, input *NewPayment) (*Payment, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	locker := config.GetRedisLock()
	if locker != nil {
		lock, err := locker.Obtain(ctx, fmt.Sprintf("Lock:InvoicePayment:%d", input.InvoiceId), 5*time.Second, &redislock.Options{
			RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 10),
		})
		if err == nil {
			defer lock.Release(context.WithoutCancel(ctx))
		}
	}

	paidAt := time.Now()
	if input.PaidAt != nil {
		paidAt = *input.PaidAt
	}
	payment := Payment{
		InvoiceId:       input.InvoiceId,
		Amount:          input.Amount,
		Method:          input.Method,
		PaidAt:          paidAt,
		BankName:        input.BankName,
		TransactionCode: input.TransactionCode,
		Note:            input.Note,
	}
	if userId, ok := utils.GetUserIdFromContext(ctx); ok {
		payment.RecordedBy = userId
	}

	db := config.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		var invoice Invoice
		if err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&invoice, input.InvoiceId).Error; err != nil {
			return utils.NotFoundError("invoice not found")
		}

		if err := tx.WithContext(ctx).Create(&payment).Error; err != nil {
			return err
		}

		paid, err := sumInvoicePayments(ctx, tx, invoice.ID)
		if err != nil {
			return err
		}
		newStatus := DeriveInvoiceStatus(invoice.Total, paid)
		if newStatus != invoice.Status {
			if err := tx.WithContext(ctx).Model(&Invoice{}).Where("id = ?", invoice.ID).
				Update("status", newStatus).Error; err != nil {
				return err
			}
		}

		if newStatus == InvoiceStatusPaid {
			var contract Contract
			if err := tx.WithContext(ctx).First(&contract, invoice.ContractId).Error; err == nil {
				return notifyContractRepresentative(ctx, tx, &contract,
					"invoice_paid",
					fmt.Sprintf("Invoice %02d/%d settled", invoice.Month, invoice.Year),
					fmt.Sprintf("Payment of %s received, invoice fully paid.", input.Amount.StringFixed(0)),
					"invoice", &invoice.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func sumInvoicePayments(ctx context.Context, tx *gorm.DB, invoiceId int) (decimal.Decimal, error) {
	var paid decimal.NullDecimal
	err := tx.WithContext(ctx).Model(&Payment{}).
		Where("invoice_id = ?", invoiceId).
		Select("SUM(amount)").Scan(&paid).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !paid.Valid {
		return decimal.Zero, nil
	}
	return paid.Decimal, nil
}

// GetInvoicePayments lists an invoice's ledger, oldest first.
func GetInvoicePayments(ctx context.Context, invoiceId int) ([]*Payment, error) {
	if err := utils.ValidateResourceId[Invoice](ctx, invoiceId); err != nil {
		return nil, utils.NotFoundError("invoice not found")
	}
	db := config.GetDB()
	var results []*Payment
	if err := db.WithContext(ctx).Model(&Payment{}).
		Where("invoice_id = ?", invoiceId).
		Order("paid_at, id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
