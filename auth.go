package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmrentals/rentdesk_backend/models"
	"github.com/mmrentals/rentdesk_backend/utils"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if !bindJSON(c, &req) {
			return
		}
		info, err := models.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, info)
	}
}

func tenantLoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if !bindJSON(c, &req) {
			return
		}
		info, err := models.TenantLogin(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, info)
	}
}

func logoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess := utils.SessionFromContext(c.Request.Context()); sess == nil {
			respondError(c, utils.UnauthorizedError("unauthorized"))
			return
		}
		ok, err := models.Logout(c.Request.Context())
		if err != nil || !ok {
			respondError(c, utils.UnauthorizedError("logout failed"))
			return
		}
		respondMessage(c, http.StatusOK, "logged out")
	}
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func changePasswordHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess := utils.SessionFromContext(c.Request.Context()); sess == nil {
			respondError(c, utils.UnauthorizedError("unauthorized"))
			return
		}
		var req changePasswordRequest
		if !bindJSON(c, &req) {
			return
		}
		if _, err := models.ChangePassword(c.Request.Context(), req.OldPassword, req.NewPassword); err != nil {
			respondError(c, err)
			return
		}
		respondMessage(c, http.StatusOK, "password changed; all sessions revoked")
	}
}
