package models

import (
	"context"
	"time"

	"github.com/mmrentals/rentdesk_backend/config"
	"github.com/mmrentals/rentdesk_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Room struct {
	ID         int             `gorm:"primary_key" json:"id"`
	BuildingId int             `gorm:"index;not null;uniqueIndex:idx_room_number" json:"building_id" binding:"required"`
	Number     string          `gorm:"size:20;not null;uniqueIndex:idx_room_number" json:"number" binding:"required"`
	Floor      int             `gorm:"default:1" json:"floor"`
	Area       decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"area"`
	BasePrice  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"base_price"`
	MaxTenants int             `gorm:"default:1" json:"max_tenants"`
	Status     RoomStatus      `gorm:"size:20;not null;default:available" json:"status"`
	ImageUrls  string          `gorm:"type:text" json:"image_urls"`
	Note       string          `gorm:"type:text" json:"note"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewRoom struct {
	BuildingId int             `json:"building_id" binding:"required"`
	Number     string          `json:"number" binding:"required"`
	Floor      int             `json:"floor"`
	Area       decimal.Decimal `json:"area"`
	BasePrice  decimal.Decimal `json:"base_price"`
	MaxTenants int             `json:"max_tenants"`
	Status     RoomStatus      `json:"status"`
	ImageUrls  string          `json:"image_urls"`
	Note       string          `json:"note"`
}

type RoomFilter struct {
	BuildingId int
	Status     RoomStatus
	Floor      int
}

func (input *NewRoom) validate(ctx context.Context) error {
	if err := utils.ValidateResourceId[Building](ctx, input.BuildingId); err != nil {
		return utils.NotFoundError("building not found")
	}
	if input.Status != "" && !input.Status.Valid() {
		return utils.ValidationError("invalid room status")
	}
	if input.BasePrice.IsNegative() || input.Area.IsNegative() {
		return utils.ValidationError("area and base price must not be negative")
	}
	return nil
}

func CreateRoom(ctx context.Context, input *NewRoom) (*Room, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	var count int64
	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&Room{}).
		Where("building_id = ? AND number = ?", input.BuildingId, input.Number).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.ConflictError("duplicate room number in building")
	}

	room := Room{
		BuildingId: input.BuildingId,
		Number:     input.Number,
		Floor:      input.Floor,
		Area:       input.Area,
		BasePrice:  input.BasePrice,
		MaxTenants: input.MaxTenants,
		Status:     input.Status,
		ImageUrls:  input.ImageUrls,
		Note:       input.Note,
	}
	if room.Status == "" {
		room.Status = RoomStatusAvailable
	}
	if room.MaxTenants <= 0 {
		room.MaxTenants = 1
	}

	if err := db.WithContext(ctx).Create(&room).Error; err != nil {
		if config.IsDuplicateEntry(err) {
			return nil, utils.ConflictError("duplicate room number in building")
		}
		return nil, err
	}
	return &room, nil
}

func GetRoom(ctx context.Context, id int) (*Room, error) {
	return utils.FetchModel[Room](ctx, id)
}

func GetRooms(ctx context.Context, filter RoomFilter) ([]*Room, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Room{})
	if filter.BuildingId != 0 {
		dbCtx = dbCtx.Where("building_id = ?", filter.BuildingId)
	}
	if filter.Status != "" {
		dbCtx = dbCtx.Where("status = ?", filter.Status)
	}
	if filter.Floor != 0 {
		dbCtx = dbCtx.Where("floor = ?", filter.Floor)
	}

	var results []*Room
	if err := dbCtx.Order("building_id, number").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func UpdateRoom(ctx context.Context, id int, input *NewRoom) (*Room, error) {
	existing, err := utils.FetchModel[Room](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&Room{}).
		Where("building_id = ? AND number = ? AND NOT id = ?", input.BuildingId, input.Number, id).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.ConflictError("duplicate room number in building")
	}

	existing.BuildingId = input.BuildingId
	existing.Number = input.Number
	existing.Floor = input.Floor
	existing.Area = input.Area
	existing.BasePrice = input.BasePrice
	if input.MaxTenants > 0 {
		existing.MaxTenants = input.MaxTenants
	}
	if input.Status != "" {
		existing.Status = input.Status
	}
	existing.ImageUrls = input.ImageUrls
	existing.Note = input.Note

	if err := db.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteRoom refuses while an active contract references the room.
func DeleteRoom(ctx context.Context, id int) (*Room, error) {
	existing, err := utils.FetchModel[Room](ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[Contract](ctx, "room_id = ? AND status = ?", id, ContractStatusActive)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.ConflictError("room is under an active contract")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// setRoomStatus is used by the contract lifecycle to occupy/release rooms
// inside the caller's transaction.
func setRoomStatus(ctx context.Context, tx *gorm.DB, id int, status RoomStatus) error {
	return tx.WithContext(ctx).Model(&Room{}).Where("id = ?", id).
		Update("status", status).Error
}
