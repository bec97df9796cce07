package models

import (
	"testing"

	"github.com/mmrentals/rentdesk_backend/utils"
	"github.com/shopspring/decimal"
)

func TestNewPaymentValidate_TransferMetadata(t *testing.T) {
	base := NewPayment{
		InvoiceId: 1,
		Amount:    decimal.NewFromInt(100000),
	}

	cash := base
	cash.Method = PaymentMethodCash
	if err := cash.validate(); err != nil {
		t.Fatalf("cash: %v", err)
	}

	// Transfer requires bank metadata.
	transfer := base
	transfer.Method = PaymentMethodTransfer
	if err := transfer.validate(); utils.KindOf(err) != utils.KindValidation {
		t.Fatalf("transfer without metadata: kind = %v, want validation", utils.KindOf(err))
	}
	transfer.BankName = "VCB"
	transfer.TransactionCode = "FT20250601"
	if err := transfer.validate(); err != nil {
		t.Fatalf("transfer with metadata: %v", err)
	}

	// Metadata on non-transfer methods is rejected.
	ewallet := base
	ewallet.Method = PaymentMethodEwallet
	ewallet.TransactionCode = "MOMO123"
	if err := ewallet.validate(); utils.KindOf(err) != utils.KindValidation {
		t.Fatalf("ewallet with transfer metadata: kind = %v, want validation", utils.KindOf(err))
	}
}

func TestNewPaymentValidate_Amount(t *testing.T) {
	p := NewPayment{InvoiceId: 1, Method: PaymentMethodCash}

	p.Amount = decimal.Zero
	if err := p.validate(); utils.KindOf(err) != utils.KindValidation {
		t.Fatalf("zero amount: kind = %v, want validation", utils.KindOf(err))
	}
	p.Amount = decimal.NewFromInt(-5)
	if err := p.validate(); utils.KindOf(err) != utils.KindValidation {
		t.Fatalf("negative amount: kind = %v, want validation", utils.KindOf(err))
	}
}

func TestNewPaymentValidate_Method(t *testing.T) {
	p := NewPayment{InvoiceId: 1, Amount: decimal.NewFromInt(1000), Method: "barter"}
	if err := p.validate(); utils.KindOf(err) != utils.KindValidation {
		t.Fatalf("unknown method: kind = %v, want validation", utils.KindOf(err))
	}
}

func TestContractServiceFeeTotal(t *testing.T) {
	c := &Contract{}
	if !c.ServiceFeeTotal().IsZero() {
		t.Fatalf("no fees: total = %s, want 0", c.ServiceFeeTotal())
	}
	c.ServiceFees = []ServiceFee{
		{Name: "garbage", Price: decimal.NewFromInt(200000)},
		{Name: "internet", Price: decimal.NewFromInt(300000)},
	}
	if !c.ServiceFeeTotal().Equal(decimal.NewFromInt(500000)) {
		t.Fatalf("total = %s, want 500000", c.ServiceFeeTotal())
	}
}
