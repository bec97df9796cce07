package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmrentals/rentdesk_backend/config"
	"github.com/mmrentals/rentdesk_backend/utils"
	"gorm.io/gorm"
)

// Incident is a maintenance/problem report on a room.
type Incident struct {
	ID          int              `gorm:"primary_key" json:"id"`
	RoomId      int              `gorm:"index;not null" json:"room_id" binding:"required"`
	ReportedBy  *int             `gorm:"index" json:"reported_by"`
	Title       string           `gorm:"size:255;not null" json:"title" binding:"required"`
	Description string           `gorm:"type:text" json:"description"`
	Priority    IncidentPriority `gorm:"size:20;not null;default:medium" json:"priority"`
	Status      IncidentStatus   `gorm:"size:20;not null;default:new;index" json:"status"`
	AssigneeId  *int             `json:"assignee_id"`
	ImageUrls   string           `gorm:"type:text" json:"image_urls"`

	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewIncident struct {
	RoomId      int              `json:"room_id" binding:"required"`
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	Priority    IncidentPriority `json:"priority"`
	ImageUrls   string           `json:"image_urls"`
}

type IncidentFilter struct {
	RoomId     int
	BuildingId int
	Status     IncidentStatus
	Priority   IncidentPriority
}

// applyStatusTransition moves an incident to a new status and stamps
// the lifecycle timestamps. A timestamp is set the first time its phase
// is entered and never overwritten, so bouncing between statuses keeps
// the original times.
func applyStatusTransition(incident *Incident, newStatus IncidentStatus, now time.Time) error {
	if !newStatus.Valid() {
		return utils.ValidationError("invalid incident status")
	}
	// Re-sending the current status is a no-op, even on a closed
	// incident; only a change away from a closed status conflicts.
	if newStatus == incident.Status {
		return nil
	}
	if incident.Status == IncidentStatusDone || incident.Status == IncidentStatusCancelled {
		return utils.ConflictError("incident is already closed")
	}

	switch newStatus {
	case IncidentStatusInProgress:
		if incident.StartedAt == nil {
			incident.StartedAt = &now
		}
	case IncidentStatusDone:
		if incident.StartedAt == nil {
			incident.StartedAt = &now
		}
		if incident.CompletedAt == nil {
			incident.CompletedAt = &now
		}
	}
	incident.Status = newStatus
	return nil
}

func CreateIncident(ctx context.Context, input *NewIncident) (*Incident, error) {
	if err := utils.ValidateResourceId[Room](ctx, input.RoomId); err != nil {
		return nil, utils.NotFoundError("room not found")
	}
	if input.Priority != "" && !input.Priority.Valid() {
		return nil, utils.ValidationError("invalid incident priority")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, utils.ValidationError("title is required")
	}

	incident := Incident{
		RoomId:      input.RoomId,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Priority:    input.Priority,
		Status:      IncidentStatusNew,
		ImageUrls:   input.ImageUrls,
	}
	if incident.Priority == "" {
		incident.Priority = IncidentPriorityMedium
	}
	if userId, ok := utils.GetUserIdFromContext(ctx); ok {
		incident.ReportedBy = &userId
	}

	db := config.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Create(&incident).Error; err != nil {
			return err
		}
		// Staff get notified of new reports; tenant reporters already know.
		return queueStaffNotification(ctx, tx,
			"incident_reported",
			fmt.Sprintf("Incident: %s", incident.Title),
			fmt.Sprintf("New %s priority incident reported for room %d.", incident.Priority, incident.RoomId),
			"incident", incident.ID)
	})
	if err != nil {
		return nil, err
	}
	return &incident, nil
}

// queueStaffNotification fans one outbox row out to every admin/staff
// account.
func queueStaffNotification(ctx context.Context, tx *gorm.DB, notifType string, title string, body string, refType string, refId int) error {
	var staffIds []int
	if err := tx.WithContext(ctx).Model(&User{}).
		Where("role IN ?", []string{utils.RoleAdmin, utils.RoleStaff}).
		Pluck("id", &staffIds).Error; err != nil {
		return err
	}
	for _, id := range staffIds {
		if err := queueNotification(ctx, tx, id, notifType, title, body, refType, refId); err != nil {
			return err
		}
	}
	return nil
}

func GetIncident(ctx context.Context, id int) (*Incident, error) {
	return utils.FetchModel[Incident](ctx, id)
}

func GetIncidents(ctx context.Context, filter IncidentFilter) ([]*Incident, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Incident{})
	if filter.RoomId != 0 {
		dbCtx = dbCtx.Where("incidents.room_id = ?", filter.RoomId)
	}
	if filter.BuildingId != 0 {
		dbCtx = dbCtx.Joins("JOIN rooms ON rooms.id = incidents.room_id").
			Where("rooms.building_id = ?", filter.BuildingId)
	}
	if filter.Status != "" {
		dbCtx = dbCtx.Where("incidents.status = ?", filter.Status)
	}
	if filter.Priority != "" {
		dbCtx = dbCtx.Where("incidents.priority = ?", filter.Priority)
	}

	var results []*Incident
	if err := dbCtx.Order("incidents.id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type IncidentUpdate struct {
	Status     IncidentStatus `json:"status" binding:"required"`
	AssigneeId *int           `json:"assignee_id"`
	Note       string         `json:"note"`
}

// UpdateIncidentStatus advances the incident lifecycle.
func UpdateIncidentStatus(ctx context.Context, id int, input *IncidentUpdate) (*Incident, error) {
	existing, err := utils.FetchModel[Incident](ctx, id)
	if err != nil {
		return nil, err
	}
	if input.AssigneeId != nil {
		if err := utils.ValidateResourceId[User](ctx, *input.AssigneeId); err != nil {
			return nil, utils.NotFoundError("assignee not found")
		}
		existing.AssigneeId = input.AssigneeId
	}
	prevStatus := existing.Status
	if err := applyStatusTransition(existing, input.Status, time.Now()); err != nil {
		return nil, err
	}
	if input.Note != "" {
		existing.Description = existing.Description + "\n" + input.Note
	}

	db := config.GetDB()
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Save(existing).Error; err != nil {
			return err
		}
		if existing.Status == IncidentStatusDone && prevStatus != IncidentStatusDone && existing.ReportedBy != nil {
			return queueNotification(ctx, tx, *existing.ReportedBy,
				"incident_resolved",
				fmt.Sprintf("Incident resolved: %s", existing.Title),
				"Your reported incident has been resolved.",
				"incident", existing.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return existing, nil
}

func DeleteIncident(ctx context.Context, id int) (*Incident, error) {
	existing, err := utils.FetchModel[Incident](ctx, id)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}
