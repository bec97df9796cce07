package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmrentals/rentdesk_backend/models"
)

// Notification endpoints work for any authenticated account (staff or
// tenant JWT); the models layer scopes rows to the caller.

func listNotificationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		onlyUnread := c.Query("unread") == "true"
		results, err := models.ListMyNotifications(c.Request.Context(), onlyUnread)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, results)
	}
}

func markNotificationReadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		result, err := models.MarkNotificationRead(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, result)
	}
}

func markAllNotificationsReadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := models.MarkAllNotificationsRead(c.Request.Context()); err != nil {
			respondError(c, err)
			return
		}
		respondMessage(c, http.StatusOK, "all notifications marked read")
	}
}
