package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmrentals/rentdesk_backend/models"
	"github.com/mmrentals/rentdesk_backend/utils"
)

func listBuildingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		results, err := models.GetAllBuildings(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, results)
	}
}

func createBuildingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		var input models.NewBuilding
		if !bindJSON(c, &input) {
			return
		}
		result, err := models.CreateBuilding(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusCreated, result)
	}
}

func getBuildingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		result, err := models.GetBuilding(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, result)
	}
}

func updateBuildingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewBuilding
		if !bindJSON(c, &input) {
			return
		}
		result, err := models.UpdateBuilding(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, result)
	}
}

func deleteBuildingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleAdmin) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		result, err := models.DeleteBuilding(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, result)
	}
}
