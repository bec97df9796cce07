package models

import (
	"context"
	"time"

	"github.com/mmrentals/rentdesk_backend/config"
	"github.com/mmrentals/rentdesk_backend/utils"
)

// Notification doubles as the user-facing inbox row and the Pub/Sub
// outbox record. Rows are created inside business transactions
// (queueNotification) and published asynchronously by the workflow
// dispatcher.
type Notification struct {
	ID            int    `gorm:"primary_key" json:"id"`
	UserId        int    `gorm:"index;not null" json:"user_id"`
	Type          string `gorm:"size:50;not null" json:"type"`
	Title         string `gorm:"size:255;not null" json:"title"`
	Body          string `gorm:"size:1000" json:"body"`
	ReferenceType string `gorm:"size:50" json:"reference_type"`
	ReferenceId   int    `json:"reference_id"`
	IsRead        *bool  `gorm:"default:false" json:"is_read"`
	CorrelationId string `gorm:"size:64;index" json:"correlation_id"`

	// Outbox bookkeeping, managed by the dispatcher.
	PublishStatus    NotificationPublishStatus `gorm:"size:20;not null;default:PENDING;index" json:"publish_status"`
	PublishAttempts  int                       `gorm:"default:0" json:"-"`
	LastPublishError *string                   `gorm:"size:1000" json:"-"`
	NextAttemptAt    *time.Time                `json:"-"`
	LockedAt         *time.Time                `json:"-"`
	LockedBy         *string                   `gorm:"size:64" json:"-"`
	PublishedAt      *time.Time                `json:"-"`
	PubSubMessageId  *string                   `gorm:"size:100" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

// ToPubSubMessage shapes the outbox row for the push channel.
func (n *Notification) ToPubSubMessage() config.NotificationMessage {
	return config.NotificationMessage{
		ID:            n.ID,
		UserId:        n.UserId,
		Type:          n.Type,
		Title:         n.Title,
		Body:          n.Body,
		ReferenceType: n.ReferenceType,
		ReferenceId:   n.ReferenceId,
		CreatedAt:     n.CreatedAt.UTC(),
		CorrelationId: n.CorrelationId,
	}
}

// ListMyNotifications returns the calling user's inbox, newest first.
func ListMyNotifications(ctx context.Context, onlyUnread bool) ([]*Notification, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return nil, utils.UnauthorizedError("not logged in")
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Notification{}).Where("user_id = ?", userId)
	if onlyUnread {
		dbCtx = dbCtx.Where("is_read = ?", false)
	}
	var results []*Notification
	if err := dbCtx.Order("id DESC").Limit(100).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// MarkNotificationRead flips is_read for one of the caller's rows.
func MarkNotificationRead(ctx context.Context, id int) (*Notification, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return nil, utils.UnauthorizedError("not logged in")
	}

	existing, err := utils.FetchModel[Notification](ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserId != userId {
		return nil, utils.ForbiddenError("not your notification")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&Notification{}).Where("id = ?", id).
		Update("is_read", true).Error; err != nil {
		return nil, err
	}
	existing.IsRead = utils.NewTrue()
	return existing, nil
}

// MarkAllNotificationsRead clears the caller's unread badge.
func MarkAllNotificationsRead(ctx context.Context) error {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return utils.UnauthorizedError("not logged in")
	}
	db := config.GetDB()
	return db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userId, false).
		Update("is_read", true).Error
}
