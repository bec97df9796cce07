package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmrentals/rentdesk_backend/models"
	"github.com/mmrentals/rentdesk_backend/utils"
)

func listRoomsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		filter := models.RoomFilter{
			BuildingId: queryInt(c, "building_id"),
			Status:     models.RoomStatus(c.Query("status")),
			Floor:      queryInt(c, "floor"),
		}
		if filter.Status != "" && !filter.Status.Valid() {
			respondError(c, utils.ValidationError("invalid room status"))
			return
		}
		results, err := models.GetRooms(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, results)
	}
}

func createRoomHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		var input models.NewRoom
		if !bindJSON(c, &input) {
			return
		}
		result, err := models.CreateRoom(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusCreated, result)
	}
}

func getRoomHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		result, err := models.GetRoom(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, result)
	}
}

func updateRoomHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewRoom
		if !bindJSON(c, &input) {
			return
		}
		result, err := models.UpdateRoom(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, result)
	}
}

func deleteRoomHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleAdmin) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		result, err := models.DeleteRoom(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, result)
	}
}

func listRoomReadingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		results, err := models.GetRoomReadings(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, results)
	}
}
