package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BuildForSDGCohort2/Team-096-backend/config"
	"github.com/BuildForSDGCohort2/Team-096-backend/middleware"
	"github.com/BuildForSDGCohort2/Team-096-backend/models"
	"github.com/BuildForSDGCohort2/Team-096-backend/services"
)

// currentUser resolves the authenticated actor from the validated token.
// Routes without the auth middleware yield a nil actor (anonymous).
func currentUser(c *gin.Context) *models.User {
	idStr, err := middleware.GetUserID(c)
	if err != nil {
		return nil
	}
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return nil
	}

	db := config.GetDB()
	var user models.User
	if err := db.Preload("Profile").First(&user, uint(id)).Error; err != nil {
		return nil
	}
	return &user
}

// respondDenied writes the error envelope for a policy denial.
func respondDenied(c *gin.Context, d services.Decision) {
	c.JSON(d.Status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    d.Code,
			"message": d.Message,
		},
	})
}

// isDuplicateError detects unique-constraint violations from the database.
// Matches the PostgreSQL and SQLite driver error strings.
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// pathID parses the numeric :id path parameter.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
