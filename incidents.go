package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmrentals/rentdesk_backend/models"
	"github.com/mmrentals/rentdesk_backend/utils"
)

func listIncidentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		filter := models.IncidentFilter{
			RoomId:     queryInt(c, "room_id"),
			BuildingId: queryInt(c, "building_id"),
			Status:     models.IncidentStatus(c.Query("status")),
			Priority:   models.IncidentPriority(c.Query("priority")),
		}
		if filter.Status != "" && !filter.Status.Valid() {
			respondError(c, utils.ValidationError("invalid incident status"))
			return
		}
		if filter.Priority != "" && !filter.Priority.Valid() {
			respondError(c, utils.ValidationError("invalid incident priority"))
			return
		}
		results, err := models.GetIncidents(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, results)
	}
}

func createIncidentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		var input models.NewIncident
		if !bindJSON(c, &input) {
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

func getIncidentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		result, err := models.GetIncident(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, result)
	}
}

func updateIncidentStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.IncidentUpdate
		if !bindJSON(c, &input) {
			return
		}
		result, err := models.UpdateIncidentStatus(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, result)
	}
}

func deleteIncidentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleAdmin) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		result, err := models.DeleteIncident(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, result)
	}
}
