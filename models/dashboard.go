package models

import (
	"context"
	"time"

	"github.com/mmrentals/rentdesk_backend/config"
	"github.com/mmrentals/rentdesk_backend/utils"
	"github.com/shopspring/decimal"
)

// DashboardSummary is the landing-page snapshot. Aggregates are cheap
// but hit several tables, so the whole struct is cached in redis for a
// minute.
type DashboardSummary struct {
	TotalRooms       int64 `json:"total_rooms"`
	AvailableRooms   int64 `json:"available_rooms"`
	OccupiedRooms    int64 `json:"occupied_rooms"`
	MaintenanceRooms int64 `json:"maintenance_rooms"`

	ActiveContracts int64 `json:"active_contracts"`
	OpenIncidents   int64 `json:"open_incidents"`

	UnpaidInvoices  int64 `json:"unpaid_invoices"`
	OverdueInvoices int64 `json:"overdue_invoices"`
	DueWithin7Days  int64 `json:"due_within_7_days"`

	MonthRevenue decimal.Decimal `json:"month_revenue"`

	GeneratedAt time.Time `json:"generated_at"`
}

const dashboardCacheKey = "Dashboard:Summary"

func GetDashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	var cached DashboardSummary
	if hit, err := config.GetRedisObject(dashboardCacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	db := config.GetDB()
	now := time.Now()
	summary := DashboardSummary{GeneratedAt: now}

	type statusCount struct {
		Status RoomStatus
		Count  int64
	}
	var roomCounts []statusCount
	if err := db.WithContext(ctx).Model(&Room{}).
		Select("status, COUNT(*) AS count").Group("status").
		Scan(&roomCounts).Error; err != nil {
		return nil, err
	}
	for _, rc := range roomCounts {
		summary.TotalRooms += rc.Count
		switch rc.Status {
		case RoomStatusAvailable:
			summary.AvailableRooms = rc.Count
		case RoomStatusOccupied:
			summary.OccupiedRooms = rc.Count
		case RoomStatusMaintenance:
			summary.MaintenanceRooms = rc.Count
		}
	}

	if err := db.WithContext(ctx).Model(&Contract{}).
		Where("status = ?", ContractStatusActive).
		Count(&summary.ActiveContracts).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&Incident{}).
		Where("status IN ?", []IncidentStatus{IncidentStatusNew, IncidentStatusInProgress}).
		Count(&summary.OpenIncidents).Error; err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Model(&Invoice{}).
		Where("status <> ?", InvoiceStatusPaid).
		Count(&summary.UnpaidInvoices).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&Invoice{}).
		Where("status <> ? AND due_date < ?", InvoiceStatusPaid, now).
		Count(&summary.OverdueInvoices).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&Invoice{}).
		Where("status <> ? AND due_date >= ? AND due_date < ?", InvoiceStatusPaid, now, now.AddDate(0, 0, 7)).
		Count(&summary.DueWithin7Days).Error; err != nil {
		return nil, err
	}

	// Revenue counts money received this calendar month, not invoices
	// issued.
	start, end := utils.GetThisMonthRange()
	var received decimal.NullDecimal
	if err := db.WithContext(ctx).Model(&Payment{}).
		Where("paid_at >= ? AND paid_at <= ?", start, end).
		Select("SUM(amount)").Scan(&received).Error; err != nil {
		return nil, err
	}
	if received.Valid {
		summary.MonthRevenue = received.Decimal
	} else {
		summary.MonthRevenue = decimal.Zero
	}

	_ = config.SetRedisObject(dashboardCacheKey, &summary, time.Minute)
	return &summary, nil
}
