package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mmrentals/rentdesk_backend/utils"
	"gorm.io/gorm"
)

// queueNotification writes a notification row inside the caller's DB
// transaction ("transactional outbox"). It does NOT publish to Pub/Sub;
// the dispatcher picks pending rows up after commit.
func queueNotification(ctx context.Context, tx *gorm.DB, userId int, notifType string, title string, body string, refType string, refId int) error {
	n := Notification{
		UserId:        userId,
		Type:          notifType,
		Title:         title,
		Body:          body,
		ReferenceType: refType,
		ReferenceId:   refId,
		IsRead:        utils.NewFalse(),
		PublishStatus: NotifyPublishStatusPending,
		CorrelationId: correlationIdFromContextOrNew(ctx),
	}
	return tx.Create(&n).Error
}

func correlationIdFromContextOrNew(ctx context.Context) string {
	if ctx != nil {
		if v, ok := utils.GetCorrelationIdFromContext(ctx); ok && v != "" {
			return v
		}
	}
	return uuid.NewString()
}

// DueDateFor places a contract's day-of-month due day inside a billing
// period. Due days are capped at 28 on contract creation, so every month
// has the date.
func DueDateFor(year int, month int, dueDay int) time.Time {
	if dueDay < 1 {
		dueDay = 1
	}
	if dueDay > 28 {
		dueDay = 28
	}
	return time.Date(year, time.Month(month), dueDay, 0, 0, 0, 0, time.UTC)
}

// ValidBillingPeriod bounds the (month, year) pairs invoices and readings
// may reference.
func ValidBillingPeriod(month int, year int) bool {
	return month >= 1 && month <= 12 && year >= 2020
}
