package models

import "fmt"

type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "available"
	RoomStatusOccupied    RoomStatus = "occupied"
	RoomStatusMaintenance RoomStatus = "maintenance"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomStatusAvailable, RoomStatusOccupied, RoomStatusMaintenance:
		return true
	}
	return false
}

type ContractStatus string

const (
	ContractStatusActive    ContractStatus = "active"
	ContractStatusExpired   ContractStatus = "expired"
	ContractStatusCancelled ContractStatus = "cancelled"
)

func (s ContractStatus) Valid() bool {
	switch s {
	case ContractStatusActive, ContractStatusExpired, ContractStatusCancelled:
		return true
	}
	return false
}

type PaymentCycle string

const (
	PaymentCycleMonth   PaymentCycle = "month"
	PaymentCycleQuarter PaymentCycle = "quarter"
	PaymentCycleYear    PaymentCycle = "year"
)

func (c PaymentCycle) Valid() bool {
	switch c {
	case PaymentCycleMonth, PaymentCycleQuarter, PaymentCycleYear:
		return true
	}
	return false
}

type InvoiceStatus string

const (
	InvoiceStatusUnpaid  InvoiceStatus = "unpaid"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusUnpaid, InvoiceStatusPartial, InvoiceStatusPaid:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodEwallet  PaymentMethod = "ewallet"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodEwallet:
		return true
	}
	return false
}

type IncidentStatus string

const (
	IncidentStatusNew        IncidentStatus = "new"
	IncidentStatusInProgress IncidentStatus = "in_progress"
	IncidentStatusDone       IncidentStatus = "done"
	IncidentStatusCancelled  IncidentStatus = "cancelled"
)

func (s IncidentStatus) Valid() bool {
	switch s {
	case IncidentStatusNew, IncidentStatusInProgress, IncidentStatusDone, IncidentStatusCancelled:
		return true
	}
	return false
}

type IncidentPriority string

const (
	IncidentPriorityLow    IncidentPriority = "low"
	IncidentPriorityMedium IncidentPriority = "medium"
	IncidentPriorityHigh   IncidentPriority = "high"
	IncidentPriorityUrgent IncidentPriority = "urgent"
)

func (p IncidentPriority) Valid() bool {
	switch p {
	case IncidentPriorityLow, IncidentPriorityMedium, IncidentPriorityHigh, IncidentPriorityUrgent:
		return true
	}
	return false
}

type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleStaff  UserRole = "staff"
	UserRoleTenant UserRole = "tenant"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleStaff, UserRoleTenant:
		return true
	}
	return false
}

type NotificationPublishStatus string

const (
	NotifyPublishStatusPending    NotificationPublishStatus = "PENDING"
	NotifyPublishStatusProcessing NotificationPublishStatus = "PROCESSING"
	NotifyPublishStatusSent       NotificationPublishStatus = "SENT"
	NotifyPublishStatusFailed     NotificationPublishStatus = "FAILED"
	NotifyPublishStatusDead       NotificationPublishStatus = "DEAD"
)

func ParseUserRole(s string) (UserRole, error) {
	r := UserRole(s)
	if !r.Valid() {
		return "", fmt.Errorf("invalid role %q", s)
	}
	return r, nil
}
