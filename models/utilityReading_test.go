package models_test

import (
	"testing"

	"github.com/mmrentals/rentdesk_backend/models"
)

func TestPeriodBefore(t *testing.T) {
	cases := []struct {
		m1, y1, m2, y2 int
		want           bool
	}{
		{12, 2024, 1, 2025, true},
		{1, 2025, 12, 2024, false},
		{3, 2025, 4, 2025, true},
		{4, 2025, 4, 2025, false},
		{5, 2025, 4, 2025, false},
	}
	for _, tc := range cases {
		if got := models.PeriodBefore(tc.m1, tc.y1, tc.m2, tc.y2); got != tc.want {
			t.Errorf("PeriodBefore(%d/%d, %d/%d) = %v, want %v", tc.m1, tc.y1, tc.m2, tc.y2, got, tc.want)
		}
	}
}

func TestLatestPriorInvoice_PicksClosestPrior(t *testing.T) {
	invoices := []models.Invoice{
		{ContractId: 1, Month: 1, Year: 2025, ElectricityClosing: dec("110")},
		{ContractId: 1, Month: 3, Year: 2025, ElectricityClosing: dec("150")},
		{ContractId: 1, Month: 12, Year: 2024, ElectricityClosing: dec("100")},
	}

	got := models.LatestPriorInvoice(invoices, 4, 2025)
	if got == nil || got.Month != 3 || got.Year != 2025 {
		t.Fatalf("prior for 4/2025 = %+v, want 3/2025", got)
	}

	// Gap months roll the same closing further.
	got = models.LatestPriorInvoice(invoices, 9, 2025)
	if got == nil || got.Month != 3 || got.Year != 2025 {
		t.Fatalf("prior for 9/2025 = %+v, want 3/2025", got)
	}

	// Year boundary.
	got = models.LatestPriorInvoice(invoices, 1, 2025)
	if got == nil || got.Month != 12 || got.Year != 2024 {
		t.Fatalf("prior for 1/2025 = %+v, want 12/2024", got)
	}
}

func TestLatestPriorInvoice_NonePrior(t *testing.T) {
	invoices := []models.Invoice{
		{ContractId: 1, Month: 5, Year: 2025},
		{ContractId: 1, Month: 6, Year: 2025},
	}
	if got := models.LatestPriorInvoice(invoices, 5, 2025); got != nil {
		t.Fatalf("prior for 5/2025 = %+v, want nil (same period does not count)", got)
	}
	if got := models.LatestPriorInvoice(nil, 5, 2025); got != nil {
		t.Fatalf("prior of empty history = %+v, want nil", got)
	}
}
