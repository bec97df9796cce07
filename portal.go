package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmrentals/rentdesk_backend/models"
	"github.com/mmrentals/rentdesk_backend/utils"
)

// Tenant portal endpoints. The JWT middleware puts the portal account
// in the context; each handler resolves the tenant profile from it, so
// tenants only ever see their own data.

func portalTenant(c *gin.Context) (*models.Tenant, bool) {
	if !requireRole(c, utils.RoleTenant) {
		return nil, false
	}
	userId, _ := utils.GetUserIdFromContext(c.Request.Context())
	tenant, err := models.GetTenantByUserId(c.Request.Context(), userId)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return tenant, true
}

func portalProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := portalTenant(c)
		if !ok {
			return
		}
		contracts, err := models.GetContracts(c.Request.Context(), models.ContractFilter{
			TenantId: tenant.ID,
			Status:   models.ContractStatusActive,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{"tenant": tenant, "contracts": contracts})
	}
}

func portalInvoicesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := portalTenant(c)
		if !ok {
			return
		}
		contracts, err := models.GetContracts(c.Request.Context(), models.ContractFilter{TenantId: tenant.ID})
		if err != nil {
			respondError(c, err)
			return
		}
		var invoices []*models.Invoice
		for _, contract := range contracts {
			batch, err := models.GetInvoices(c.Request.Context(), models.InvoiceFilter{ContractId: contract.ID})
			if err != nil {
				respondError(c, err)
				return
			}
			invoices = append(invoices, batch...)
		}
		respondData(c, http.StatusOK, invoices)
	}
}

func portalCreateIncidentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := portalTenant(c)
		if !ok {
			return
		}
		var input models.NewIncident
		if !bindJSON(c, &input) {
			return
		}

		// Tenants may only report on a room they actively rent.
		contracts, err := models.GetContracts(c.Request.Context(), models.ContractFilter{
			TenantId: tenant.ID,
			Status:   models.ContractStatusActive,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		allowed := false
		for _, contract := range contracts {
			if contract.RoomId == input.RoomId {
				allowed = true
				break
			}
		}
		if !allowed {
			respondError(c, utils.ForbiddenError("room is not on your contract"))
			return
		}

		result, err := models.CreateIncident(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusCreated, result)
	}
}
