package models_test

import (
	"testing"
	"time"

	"github.com/mmrentals/rentdesk_backend/models"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBuildInvoice_FirstPeriodAmounts(t *testing.T) {
	contract := &models.Contract{
		ID:                        7,
		RoomId:                    3,
		MonthlyRent:               dec("2000000"),
		ElectricityUnitPrice:      dec("3000"),
		WaterUnitPrice:            dec("15000"),
		InitialElectricityReading: dec("100"),
		InitialWaterReading:       dec("50"),
		DueDay:                    5,
		ServiceFees: []models.ServiceFee{
			{Name: "garbage", Price: dec("200000")},
			{Name: "internet", Price: dec("300000")},
		},
	}
	opening := &models.OpeningReadings{
		Electricity:  contract.InitialElectricityReading,
		Water:        contract.InitialWaterReading,
		FirstInvoice: true,
	}
	input := &models.NewInvoice{
		ContractId:         contract.ID,
		Month:              3,
		Year:               2025,
		ElectricityClosing: dec("180"),
		WaterClosing:       dec("70"),
	}

	inv := models.BuildInvoice(contract, opening, input)

	if !inv.ElectricityCharge.Equal(dec("240000")) {
		t.Fatalf("electricity charge = %s, want 240000", inv.ElectricityCharge)
	}
	if !inv.WaterCharge.Equal(dec("300000")) {
		t.Fatalf("water charge = %s, want 300000", inv.WaterCharge)
	}
	if !inv.ServiceFeeTotal.Equal(dec("500000")) {
		t.Fatalf("service fee total = %s, want 500000", inv.ServiceFeeTotal)
	}
	if !inv.Total.Equal(dec("3040000")) {
		t.Fatalf("total = %s, want 3040000", inv.Total)
	}
	if inv.Status != models.InvoiceStatusUnpaid {
		t.Fatalf("status = %s, want unpaid", inv.Status)
	}
	wantDue := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)
	if !inv.DueDate.Equal(wantDue) {
		t.Fatalf("due date = %s, want %s", inv.DueDate, wantDue)
	}
}

func TestBuildInvoice_SnapshotsContractPricing(t *testing.T) {
	contract := &models.Contract{
		ID:                   1,
		MonthlyRent:          dec("1500000"),
		ElectricityUnitPrice: dec("3500"),
		WaterUnitPrice:       dec("12000"),
		DueDay:               10,
	}
	opening := &models.OpeningReadings{Electricity: dec("10"), Water: dec("5")}
	input := &models.NewInvoice{Month: 1, Year: 2025, ElectricityClosing: dec("10"), WaterClosing: dec("5")}

	inv := models.BuildInvoice(contract, opening, input)

	if !inv.ElectricityUnitPrice.Equal(contract.ElectricityUnitPrice) {
		t.Fatalf("unit price not snapshotted")
	}
	if !inv.Total.Equal(contract.MonthlyRent) {
		t.Fatalf("zero consumption total = %s, want rent only %s", inv.Total, contract.MonthlyRent)
	}
}

func TestConsumption_ClampsNegativeDelta(t *testing.T) {
	// Meter replaced mid-period: closing below opening bills as zero.
	got := models.Consumption(dec("500"), dec("20"))
	if !got.IsZero() {
		t.Fatalf("consumption = %s, want 0", got)
	}
	got = models.Consumption(dec("20"), dec("500"))
	if !got.Equal(dec("480")) {
		t.Fatalf("consumption = %s, want 480", got)
	}
}

func TestDeriveInvoiceStatus(t *testing.T) {
	total := dec("3040000")

	cases := []struct {
		name string
		paid decimal.Decimal
		want models.InvoiceStatus
	}{
		{"nothing paid", decimal.Zero, models.InvoiceStatusUnpaid},
		{"partial", dec("1000000"), models.InvoiceStatusPartial},
		{"exact", dec("3040000"), models.InvoiceStatusPaid},
		{"overpaid", dec("4000000"), models.InvoiceStatusPaid},
	}
	for _, tc := range cases {
		if got := models.DeriveInvoiceStatus(total, tc.paid); got != tc.want {
			t.Errorf("%s: status = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestDeriveInvoiceStatus_NeverMovesBackwards(t *testing.T) {
	// Payments only accumulate; replaying the fold over a growing ledger
	// must walk unpaid -> partial -> paid monotonically.
	total := dec("100")
	order := map[models.InvoiceStatus]int{
		models.InvoiceStatusUnpaid:  0,
		models.InvoiceStatusPartial: 1,
		models.InvoiceStatusPaid:    2,
	}
	paid := decimal.Zero
	prev := models.DeriveInvoiceStatus(total, paid)
	for _, amount := range []string{"10", "40", "50", "25"} {
		paid = paid.Add(dec(amount))
		next := models.DeriveInvoiceStatus(total, paid)
		if order[next] < order[prev] {
			t.Fatalf("status moved backwards: %s -> %s at paid=%s", prev, next, paid)
		}
		prev = next
	}
	if prev != models.InvoiceStatusPaid {
		t.Fatalf("final status = %s, want paid", prev)
	}
}

func TestIsOverdue(t *testing.T) {
	due := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)
	inv := &models.Invoice{Status: models.InvoiceStatusPartial, DueDate: due}

	if inv.IsOverdue(due.AddDate(0, 0, -1)) {
		t.Fatalf("not yet due, want not overdue")
	}
	if !inv.IsOverdue(due.AddDate(0, 0, 1)) {
		t.Fatalf("past due and unpaid, want overdue")
	}
	inv.Status = models.InvoiceStatusPaid
	if inv.IsOverdue(due.AddDate(0, 0, 30)) {
		t.Fatalf("paid invoices are never overdue")
	}
}

func TestDueDateFor_CapsDay(t *testing.T) {
	got := models.DueDateFor(2025, 2, 28)
	if got.Day() != 28 || got.Month() != time.February {
		t.Fatalf("due date = %s", got)
	}
	if models.DueDateFor(2025, 2, 99).Day() != 28 {
		t.Fatalf("day above 28 must cap at 28")
	}
	if models.DueDateFor(2025, 2, 0).Day() != 1 {
		t.Fatalf("day below 1 must floor at 1")
	}
}

func TestValidBillingPeriod(t *testing.T) {
	valid := [][2]int{{1, 2020}, {12, 2030}, {6, 2025}}
	for _, p := range valid {
		if !models.ValidBillingPeriod(p[0], p[1]) {
			t.Errorf("(%d, %d) should be valid", p[0], p[1])
		}
	}
	invalid := [][2]int{{0, 2025}, {13, 2025}, {6, 2019}, {-1, 2025}}
	for _, p := range invalid {
		if models.ValidBillingPeriod(p[0], p[1]) {
			t.Errorf("(%d, %d) should be invalid", p[0], p[1])
		}
	}
}
