package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BuildForSDGCohort2/Team-096-backend/config"
	"github.com/BuildForSDGCohort2/Team-096-backend/models"
	"github.com/BuildForSDGCohort2/Team-096-backend/services"
)

// RegisterUserRequest represents the request body for registering a user
type RegisterUserRequest struct {
	Email     string                 `json:"email" binding:"required,email"`
	Password  string                 `json:"password" binding:"required,min=6"`
	FirstName string                 `json:"first_name"`
	LastName  string                 `json:"last_name"`
	Profile   *services.ProfileInput `json:"profile"`
}

// UpdateUserRequest represents the request body for updating a user.
// All fields are optional; omitted fields keep their stored values.
type UpdateUserRequest struct {
	Email     *string                `json:"email" binding:"omitempty,email"`
	Password  *string                `json:"password" binding:"omitempty,min=6"`
	FirstName *string                `json:"first_name"`
	LastName  *string                `json:"last_name"`
	Profile   *services.ProfileInput `json:"profile"`
}

// RegisterUser handles POST /api/v1/users/ - open registration.
// Creates the user and its linked profile in one operation.
func RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	user, err := services.RegisterUser(db, services.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Profile:   req.Profile,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidGender) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Invalid profile data",
					"details": err.Error(),
				},
			})
			return
		}
		if isDuplicateError(err) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "USER_EXISTS",
					"message": "A user with this email already exists",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create user",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    user,
	})
}

// ListUsers handles GET /api/v1/users/ - lists all users (authenticated)
func ListUsers(c *gin.Context) {
	actor := currentUser(c)
	if decision := services.Authorize(actor, services.ResourceUser, services.ActionList, 0); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	db := config.GetDB()
	var users []models.User
	if err := db.Preload("Profile").Order("id asc").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list users",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    users,
	})
}

// GetUser handles GET /api/v1/users/:id/ - self or admin only
func GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid user id",
			},
		})
		return
	}

	actor := currentUser(c)
	if decision := services.Authorize(actor, services.ResourceUser, services.ActionRetrieve, id); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.Preload("Profile").First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "User not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// UpdateUser handles PUT /api/v1/users/:id/ - self or admin.
// Email is write-once; profile sub-fields are merged.
func UpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid user id",
			},
		})
		return
	}

	actor := currentUser(c)
	if decision := services.Authorize(actor, services.ResourceUser, services.ActionUpdate, id); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.Preload("Profile").First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "User not found",
			},
		})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	err := services.UpdateUser(db, &user, services.UpdateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Profile:   req.Profile,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailImmutable) || errors.Is(err, services.ErrInvalidGender) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Invalid request data",
					"details": err.Error(),
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update user",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// DeleteUser handles DELETE /api/v1/users/:id/ - always rejected.
// Accounts are deactivated, never hard-deleted through the API.
func DeleteUser(c *gin.Context) {
	decision := services.Authorize(currentUser(c), services.ResourceUser, services.ActionDestroy, 0)
	respondDenied(c, decision)
}
