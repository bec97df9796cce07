package models

import (
	"context"
	"strings"
	"time"

	"github.com/mmrentals/rentdesk_backend/config"
	"github.com/mmrentals/rentdesk_backend/utils"
)

type Tenant struct {
	ID           int        `gorm:"primary_key" json:"id"`
	FullName     string     `gorm:"size:255;not null" json:"full_name" binding:"required"`
	Phone        string     `gorm:"size:20;not null;index" json:"phone" binding:"required"`
	Email        *string    `gorm:"size:100" json:"email"`
	IdCardNumber string     `gorm:"size:30;unique" json:"id_card_number"`
	DateOfBirth  *time.Time `json:"date_of_birth"`
	Address      string     `gorm:"size:500" json:"address"`
	AvatarUrl    string     `json:"avatar_url"`
	UserId       *int       `gorm:"index" json:"user_id"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewTenant struct {
	FullName     string     `json:"full_name" binding:"required"`
	Phone        string     `json:"phone" binding:"required"`
	Email        string     `json:"email"`
	IdCardNumber string     `json:"id_card_number"`
	DateOfBirth  *time.Time `json:"date_of_birth"`
	Address      string     `json:"address"`
	AvatarUrl    string     `json:"avatar_url"`
	UserId       *int       `json:"user_id"`
}

func (input *NewTenant) validate(ctx context.Context) error {
	if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
		return utils.ValidationError("invalid phone number")
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return utils.ValidationError("invalid email address")
	}
	if input.UserId != nil {
		if err := utils.ValidateResourceId[User](ctx, *input.UserId); err != nil {
			return utils.NotFoundError("user not found")
		}
	}
	return nil
}

func CreateTenant(ctx context.Context, input *NewTenant) (*Tenant, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}
	if input.IdCardNumber != "" {
		if err := utils.ValidateUnique[Tenant](ctx, "id_card_number", input.IdCardNumber, 0); err != nil {
			return nil, err
		}
	}

	tenant := Tenant{
		FullName:     strings.TrimSpace(input.FullName),
		Phone:        input.Phone,
		Email:        utils.NilIfEmpty(strings.ToLower(input.Email)),
		IdCardNumber: input.IdCardNumber,
		DateOfBirth:  input.DateOfBirth,
		Address:      input.Address,
		AvatarUrl:    input.AvatarUrl,
		UserId:       input.UserId,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&tenant).Error; err != nil {
		if config.IsDuplicateEntry(err) {
			return nil, utils.ConflictError("duplicate id card number")
		}
		return nil, err
	}
	return &tenant, nil
}

func GetTenant(ctx context.Context, id int) (*Tenant, error) {
	return utils.FetchModel[Tenant](ctx, id)
}

// GetTenantByUserId resolves the tenant profile behind a portal account.
func GetTenantByUserId(ctx context.Context, userId int) (*Tenant, error) {
	db := config.GetDB()
	var tenant Tenant
	if err := db.WithContext(ctx).Model(&Tenant{}).Where("user_id = ?", userId).Take(&tenant).Error; err != nil {
		return nil, utils.NotFoundError("no tenant profile for this account")
	}
	return &tenant, nil
}

func GetAllTenants(ctx context.Context) ([]*Tenant, error) {
	return utils.FetchAllModels[Tenant](ctx)
}

// SearchTenants matches name or phone, capped at config.SearchLimit.
func SearchTenants(ctx context.Context, query string) ([]*Tenant, error) {
	db := config.GetDB()
	var results []*Tenant
	like := "%" + strings.TrimSpace(query) + "%"
	if err := db.WithContext(ctx).Model(&Tenant{}).
		Where("full_name LIKE ? OR phone LIKE ?", like, like).
		Limit(config.SearchLimit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func UpdateTenant(ctx context.Context, id int, input *NewTenant) (*Tenant, error) {
	existing, err := utils.FetchModel[Tenant](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx); err != nil {
		return nil, err
	}
	if input.IdCardNumber != "" {
		if err := utils.ValidateUnique[Tenant](ctx, "id_card_number", input.IdCardNumber, id); err != nil {
			return nil, err
		}
	}

	existing.FullName = strings.TrimSpace(input.FullName)
	existing.Phone = input.Phone
	existing.Email = utils.NilIfEmpty(strings.ToLower(input.Email))
	existing.IdCardNumber = input.IdCardNumber
	existing.DateOfBirth = input.DateOfBirth
	existing.Address = input.Address
	existing.AvatarUrl = input.AvatarUrl
	existing.UserId = input.UserId

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteTenant refuses while the tenant is on an active contract.
func DeleteTenant(ctx context.Context, id int) (*Tenant, error) {
	existing, err := utils.FetchModel[Tenant](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&ContractTenant{}).
		Joins("JOIN contracts ON contracts.id = contract_tenants.contract_id").
		Where("contract_tenants.tenant_id = ? AND contracts.status = ?", id, ContractStatusActive).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.ConflictError("tenant is on an active contract")
	}

	if err := db.WithContext(ctx).Delete(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}
