package models

import (
	"context"
	"time"

	"github.com/mmrentals/rentdesk_backend/config"
	"github.com/mmrentals/rentdesk_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Contract struct {
	ID               int             `gorm:"primary_key" json:"id"`
	RoomId           int             `gorm:"index;not null" json:"room_id" binding:"required"`
	RepresentativeId int             `gorm:"not null" json:"representative_id" binding:"required"`
	StartDate        time.Time       `gorm:"not null" json:"start_date" binding:"required"`
	EndDate          time.Time       `gorm:"not null" json:"end_date" binding:"required"`
	MonthlyRent      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"monthly_rent"`
	Deposit          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"deposit"`

	ElectricityUnitPrice decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"electricity_unit_price"`
	WaterUnitPrice       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"water_unit_price"`

	// Initial meter readings, used only to open the contract's first
	// billing period. Later periods carry the prior invoice's closings.
	InitialElectricityReading decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"initial_electricity_reading"`
	InitialWaterReading       decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"initial_water_reading"`

	PaymentCycle PaymentCycle   `gorm:"size:10;not null;default:month" json:"payment_cycle"`
	DueDay       int            `gorm:"not null;default:5" json:"due_day"`
	Status       ContractStatus `gorm:"size:20;not null;default:active;index" json:"status"`
	Note         string         `gorm:"type:text" json:"note"`

	ServiceFees []ServiceFee `json:"service_fees"`
	Tenants     []Tenant     `gorm:"many2many:contract_tenants" json:"tenants,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ServiceFee is a fixed monthly line item on a contract (garbage,
// internet, parking, ...). Snapshotted into invoices as a single total.
type ServiceFee struct {
	ID         int             `gorm:"primary_key" json:"id"`
	ContractId int             `gorm:"index;not null" json:"contract_id"`
	Name       string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Price      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"price" binding:"required"`
}

// ContractTenant is the contract<->tenant join row, declared explicitly
// so delete guards can query it directly.
type ContractTenant struct {
	ContractId int `gorm:"primaryKey" json:"contract_id"`
	TenantId   int `gorm:"primaryKey" json:"tenant_id"`
}

type NewServiceFee struct {
	Name  string          `json:"name" binding:"required"`
	Price decimal.Decimal `json:"price" binding:"required"`
}

type NewContract struct {
	RoomId           int             `json:"room_id" binding:"required"`
	TenantIds        []int           `json:"tenant_ids" binding:"required"`
	RepresentativeId int             `json:"representative_id" binding:"required"`
	StartDate        time.Time       `json:"start_date" binding:"required"`
	EndDate          time.Time       `json:"end_date" binding:"required"`
	MonthlyRent      decimal.Decimal `json:"monthly_rent"`
	Deposit          decimal.Decimal `json:"deposit"`

	ElectricityUnitPrice decimal.Decimal `json:"electricity_unit_price"`
	WaterUnitPrice       decimal.Decimal `json:"water_unit_price"`

	InitialElectricityReading decimal.Decimal `json:"initial_electricity_reading"`
	InitialWaterReading       decimal.Decimal `json:"initial_water_reading"`

	PaymentCycle PaymentCycle    `json:"payment_cycle"`
	DueDay       int             `json:"due_day"`
	ServiceFees  []NewServiceFee `json:"service_fees"`
	Note         string          `json:"note"`
}

type ContractFilter struct {
	Status     ContractStatus
	RoomId     int
	BuildingId int
	TenantId   int
}

// ServiceFeeTotal folds a contract's fixed line items.
func (c *Contract) ServiceFeeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, fee := range c.ServiceFees {
		total = total.Add(fee.Price)
	}
	return total
}

func (input *NewContract) validate(ctx context.Context) error {
	if !input.EndDate.After(input.StartDate) {
		return utils.ValidationError("end date must be after start date")
	}
	if input.DueDay < 1 || input.DueDay > 28 {
		return utils.ValidationError("due day must be between 1 and 28")
	}
	if input.PaymentCycle != "" && !input.PaymentCycle.Valid() {
		return utils.ValidationError("invalid payment cycle")
	}
	if input.MonthlyRent.IsNegative() || input.Deposit.IsNegative() ||
		input.ElectricityUnitPrice.IsNegative() || input.WaterUnitPrice.IsNegative() {
		return utils.ValidationError("amounts must not be negative")
	}
	if input.InitialElectricityReading.IsNegative() || input.InitialWaterReading.IsNegative() {
		return utils.ValidationError("initial readings must not be negative")
	}
	if len(input.TenantIds) == 0 {
		return utils.ValidationError("at least one tenant is required")
	}
	representativeListed := false
	for _, id := range input.TenantIds {
		if id == input.RepresentativeId {
			representativeListed = true
			break
		}
	}
	if !representativeListed {
		return utils.ValidationError("representative must be one of the contract tenants")
	}
	for _, fee := range input.ServiceFees {
		if fee.Name == "" || fee.Price.IsNegative() {
			return utils.ValidationError("service fees need a name and a non-negative price")
		}
	}

	if err := utils.ValidateResourceId[Room](ctx, input.RoomId); err != nil {
		return utils.NotFoundError("room not found")
	}
	if err := utils.ValidateResourcesId[Tenant](ctx, input.TenantIds); err != nil {
		return utils.NotFoundError("tenant not found")
	}
	return nil
}

func CreateContract(ctx context.Context, input *NewContract) (*Contract, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	// One active contract per room.
	count, err := utils.ResourceCountWhere[Contract](ctx, "room_id = ? AND status = ?", input.RoomId, ContractStatusActive)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.ConflictError("room already has an active contract")
	}

	contract := Contract{
		RoomId:                    input.RoomId,
		RepresentativeId:          input.RepresentativeId,
		StartDate:                 input.StartDate,
		EndDate:                   input.EndDate,
		MonthlyRent:               input.MonthlyRent,
		Deposit:                   input.Deposit,
		ElectricityUnitPrice:      input.ElectricityUnitPrice,
		WaterUnitPrice:            input.WaterUnitPrice,
		InitialElectricityReading: input.InitialElectricityReading,
		InitialWaterReading:       input.InitialWaterReading,
		PaymentCycle:              input.PaymentCycle,
		DueDay:                    input.DueDay,
		Status:                    ContractStatusActive,
		Note:                      input.Note,
	}
	if contract.PaymentCycle == "" {
		contract.PaymentCycle = PaymentCycleMonth
	}
	for _, fee := range input.ServiceFees {
		contract.ServiceFees = append(contract.ServiceFees, ServiceFee{Name: fee.Name, Price: fee.Price})
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&contract).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	for _, tenantId := range utils.UniqueSlice(input.TenantIds) {
		if err := tx.WithContext(ctx).Create(&ContractTenant{ContractId: contract.ID, TenantId: tenantId}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := setRoomStatus(ctx, tx, contract.RoomId, RoomStatusOccupied); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &contract, nil
}

func GetContract(ctx context.Context, id int) (*Contract, error) {
	return utils.FetchModel[Contract](ctx, id, "ServiceFees", "Tenants")
}

func GetContracts(ctx context.Context, filter ContractFilter) ([]*Contract, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Contract{}).
		Preload("ServiceFees").Preload("Tenants")
	if filter.Status != "" {
		dbCtx = dbCtx.Where("contracts.status = ?", filter.Status)
	}
	if filter.RoomId != 0 {
		dbCtx = dbCtx.Where("contracts.room_id = ?", filter.RoomId)
	}
	if filter.BuildingId != 0 {
		dbCtx = dbCtx.Joins("JOIN rooms ON rooms.id = contracts.room_id").
			Where("rooms.building_id = ?", filter.BuildingId)
	}
	if filter.TenantId != 0 {
		dbCtx = dbCtx.Joins("JOIN contract_tenants ON contract_tenants.contract_id = contracts.id").
			Where("contract_tenants.tenant_id = ?", filter.TenantId)
	}

	var results []*Contract
	if err := dbCtx.Order("contracts.id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type ContractPricingUpdate struct {
	MonthlyRent          decimal.Decimal `json:"monthly_rent"`
	ElectricityUnitPrice decimal.Decimal `json:"electricity_unit_price"`
	WaterUnitPrice       decimal.Decimal `json:"water_unit_price"`
	DueDay               int             `json:"due_day"`
	ServiceFees          []NewServiceFee `json:"service_fees"`
	Note                 string          `json:"note"`
}

// UpdateContractPricing replaces pricing and service fees. Existing
// invoices keep their snapshotted amounts.
func UpdateContractPricing(ctx context.Context, id int, input *ContractPricingUpdate) (*Contract, error) {
	existing, err := utils.FetchModel[Contract](ctx, id, "ServiceFees")
	if err != nil {
		return nil, err
	}
	if existing.Status != ContractStatusActive {
		return nil, utils.ConflictError("contract is not active")
	}
	if input.MonthlyRent.IsNegative() || input.ElectricityUnitPrice.IsNegative() || input.WaterUnitPrice.IsNegative() {
		return nil, utils.ValidationError("amounts must not be negative")
	}
	if input.DueDay != 0 && (input.DueDay < 1 || input.DueDay > 28) {
		return nil, utils.ValidationError("due day must be between 1 and 28")
	}
	for _, fee := range input.ServiceFees {
		if fee.Name == "" || fee.Price.IsNegative() {
			return nil, utils.ValidationError("service fees need a name and a non-negative price")
		}
	}

	existing.MonthlyRent = input.MonthlyRent
	existing.ElectricityUnitPrice = input.ElectricityUnitPrice
	existing.WaterUnitPrice = input.WaterUnitPrice
	if input.DueDay != 0 {
		existing.DueDay = input.DueDay
	}
	existing.Note = input.Note

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Where("contract_id = ?", id).Delete(&ServiceFee{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	existing.ServiceFees = nil
	for _, fee := range input.ServiceFees {
		existing.ServiceFees = append(existing.ServiceFees, ServiceFee{ContractId: id, Name: fee.Name, Price: fee.Price})
	}
	if err := tx.WithContext(ctx).Save(existing).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// RenewContract extends the end date of an active contract.
func RenewContract(ctx context.Context, id int, newEndDate time.Time) (*Contract, error) {
	existing, err := utils.FetchModel[Contract](ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status != ContractStatusActive {
		return nil, utils.ConflictError("contract is not active")
	}
	if !newEndDate.After(existing.EndDate) {
		return nil, utils.ValidationError("new end date must extend the contract")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&Contract{}).Where("id = ?", id).
		Update("end_date", newEndDate).Error; err != nil {
		return nil, err
	}
	existing.EndDate = newEndDate
	return existing, nil
}

// TerminateContract transitions the contract out of active and releases
// the room. Contracts are never hard-deleted.
func TerminateContract(ctx context.Context, id int, status ContractStatus) (*Contract, error) {
	if status != ContractStatusExpired && status != ContractStatusCancelled {
		return nil, utils.ValidationError("terminal status must be expired or cancelled")
	}
	existing, err := utils.FetchModel[Contract](ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status != ContractStatusActive {
		return nil, utils.ConflictError("contract is not active")
	}

	db := config.GetDB()
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Model(&Contract{}).Where("id = ?", id).
			Update("status", status).Error; err != nil {
			return err
		}
		return setRoomStatus(ctx, tx, existing.RoomId, RoomStatusAvailable)
	})
	if err != nil {
		return nil, err
	}
	existing.Status = status
	return existing, nil
}
