package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmrentals/rentdesk_backend/models"
	"github.com/mmrentals/rentdesk_backend/models/reports"
	"github.com/mmrentals/rentdesk_backend/utils"
)

func dashboardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		summary, err := models.GetDashboardSummary(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, summary)
	}
}

func billingPeriodParams(c *gin.Context) (int, int, bool) {
	month := queryInt(c, "month")
	year := queryInt(c, "year")
	if !models.ValidBillingPeriod(month, year) {
		respondError(c, utils.ValidationError("invalid billing period"))
		return 0, 0, false
	}
	return month, year, true
}

func monthlyInvoiceReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		month, year, ok := billingPeriodParams(c)
		if !ok {
			return
		}
		rows, err := reports.GetMonthlyInvoiceReport(c.Request.Context(), month, year)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, rows)
	}
}

func exportMonthlyInvoicesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		month, year, ok := billingPeriodParams(c)
		if !ok {
			return
		}
		if err := reports.ExportMonthlyInvoicesExcel(c.Request.Context(), c.Writer, month, year); err != nil {
			respondError(c, err)
		}
	}
}

func buildingRevenueReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		from, err := time.Parse("2006-01-02", c.Query("from"))
		if err != nil {
			respondError(c, utils.ValidationError("from must be YYYY-MM-DD"))
			return
		}
		to, err := time.Parse("2006-01-02", c.Query("to"))
		if err != nil {
			respondError(c, utils.ValidationError("to must be YYYY-MM-DD"))
			return
		}
		if to.Before(from) {
			respondError(c, utils.ValidationError("to must not be before from"))
			return
		}
		rows, err := reports.GetBuildingRevenueReport(c.Request.Context(), from, to.AddDate(0, 0, 1).Add(-time.Nanosecond))
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, rows)
	}
}
