package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmrentals/rentdesk_backend/models"
	"github.com/mmrentals/rentdesk_backend/utils"
)

func listInvoicesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		filter := models.InvoiceFilter{
			ContractId: queryInt(c, "contract_id"),
			BuildingId: queryInt(c, "building_id"),
			Status:     models.InvoiceStatus(c.Query("status")),
			Month:      queryInt(c, "month"),
			Year:       queryInt(c, "year"),
			Overdue:    c.Query("overdue") == "true",
		}
		if filter.Status != "" && !filter.Status.Valid() {
			respondError(c, utils.ValidationError("invalid invoice status"))
			return
		}
		results, err := models.GetInvoices(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, results)
	}
}

func createInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		var input models.NewInvoice
		if !bindJSON(c, &input) {
			return
		}
		result, err := models.CreateInvoice(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusCreated, result)
	}
}

func getInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		result, err := models.GetInvoice(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, result)
	}
}

func deleteInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleAdmin) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		result, err := models.DeleteInvoice(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, result)
	}
}

func listInvoicePaymentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		results, err := models.GetInvoicePayments(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, results)
	}
}

func recordPaymentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		var input models.NewPayment
		if !bindJSON(c, &input) {
			return
		}
		result, err := models.RecordPayment(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusCreated, result)
	}
}
