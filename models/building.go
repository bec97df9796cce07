package models

import (
	"context"
	"time"

	"github.com/mmrentals/rentdesk_backend/config"
	"github.com/mmrentals/rentdesk_backend/utils"
)

type Building struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:255;not null;unique" json:"name" binding:"required"`
	Address   string    `gorm:"size:500;not null" json:"address" binding:"required"`
	Floors    int       `gorm:"default:1" json:"floors"`
	Note      string    `gorm:"type:text" json:"note"`
	Rooms     []Room    `json:"rooms,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBuilding struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
	Floors  int    `json:"floors"`
	Note    string `json:"note"`
}

func CreateBuilding(ctx context.Context, input *NewBuilding) (*Building, error) {
	if err := utils.ValidateUnique[Building](ctx, "name", input.Name, 0); err != nil {
		return nil, err
	}

	building := Building{
		Name:    input.Name,
		Address: input.Address,
		Floors:  input.Floors,
		Note:    input.Note,
	}
	if building.Floors <= 0 {
		building.Floors = 1
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&building).Error; err != nil {
		return nil, err
	}
	return &building, nil
}

func GetBuilding(ctx context.Context, id int) (*Building, error) {
	return utils.FetchModel[Building](ctx, id, "Rooms")
}

func GetAllBuildings(ctx context.Context) ([]*Building, error) {
	return utils.FetchAllModels[Building](ctx)
}

func UpdateBuilding(ctx context.Context, id int, input *NewBuilding) (*Building, error) {
	existing, err := utils.FetchModel[Building](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateUnique[Building](ctx, "name", input.Name, id); err != nil {
		return nil, err
	}

	existing.Name = input.Name
	existing.Address = input.Address
	if input.Floors > 0 {
		existing.Floors = input.Floors
	}
	existing.Note = input.Note

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteBuilding refuses while rooms still reference the building.
func DeleteBuilding(ctx context.Context, id int) (*Building, error) {
	existing, err := utils.FetchModel[Building](ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[Room](ctx, "building_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.ConflictError("building still has rooms")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}
