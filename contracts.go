package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmrentals/rentdesk_backend/models"
	"github.com/mmrentals/rentdesk_backend/utils"
)

func listContractsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		filter := models.ContractFilter{
			Status:     models.ContractStatus(c.Query("status")),
			RoomId:     queryInt(c, "room_id"),
			BuildingId: queryInt(c, "building_id"),
			TenantId:   queryInt(c, "tenant_id"),
		}
		if filter.Status != "" && !filter.Status.Valid() {
			respondError(c, utils.ValidationError("invalid contract status"))
			return
		}
		results, err := models.GetContracts(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, results)
	}
}

func createContractHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		var input models.NewContract
		if !bindJSON(c, &input) {
			return
		}
		result, err := models.CreateContract(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusCreated, result)
	}
}

func getContractHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		result, err := models.GetContract(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, result)
	}
}

func updateContractPricingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.ContractPricingUpdate
		if !bindJSON(c, &input) {
			return
		}
		result, err := models.UpdateContractPricing(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, result)
	}
}

type renewContractRequest struct {
	EndDate time.Time `json:"end_date" binding:"required"`
}

func renewContractHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req renewContractRequest
		if !bindJSON(c, &req) {
			return
		}
		result, err := models.RenewContract(c.Request.Context(), id, req.EndDate)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, result)
	}
}

type terminateContractRequest struct {
	Status models.ContractStatus `json:"status" binding:"required"`
}

func terminateContractHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req terminateContractRequest
		if !bindJSON(c, &req) {
			return
		}
		result, err := models.TerminateContract(c.Request.Context(), id, req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, result)
	}
}

func listContractInvoicesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		results, err := models.GetContractInvoices(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, results)
	}
}

// openingReadingsHandler previews the resolved opening meter values for
// a billing period before the invoice is issued.
func openingReadingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		month := queryInt(c, "month")
		year := queryInt(c, "year")
		result, err := models.ResolveOpeningReadings(c.Request.Context(), id, month, year)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, result)
	}
}
