package main

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/mmrentals/rentdesk_backend/config"
	"github.com/mmrentals/rentdesk_backend/utils"
)

// Every endpoint answers {success, data, message}. Internal error
// details go to the log, never to the client.

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": true, "message": message})
}

func respondError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	message := err.Error()
	if utils.KindOf(err) == utils.KindInternal {
		cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
		config.LogError(config.GetLogger(), "http", c.Request.Method+" "+c.FullPath(), "correlation_id="+cid, nil, err)
		message = "internal error"
	}
	c.JSON(status, gin.H{"success": false, "message": message})
}

// bindJSON decodes the body and turns binding failures into field-level
// validation messages.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			c.JSON(400, gin.H{"success": false, "message": "validation failed", "errors": utils.ProcessValidationErrors(err)})
			return false
		}
		c.JSON(400, gin.H{"success": false, "message": "invalid request body"})
		return false
	}
	return true
}

func pathId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, utils.ValidationError("invalid id"))
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}

// requireRole gates a handler on the caller's session. Admin passes
// every gate; an authenticated-but-insufficient role gets 403.
func requireRole(c *gin.Context, role string) bool {
	sess := utils.SessionFromContext(c.Request.Context())
	if err := utils.Authorize(sess, role); err != nil {
		respondError(c, err)
		return false
	}
	return true
}
