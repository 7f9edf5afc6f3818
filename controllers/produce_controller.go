package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BuildForSDGCohort2/Team-096-backend/config"
	"github.com/BuildForSDGCohort2/Team-096-backend/models"
	"github.com/BuildForSDGCohort2/Team-096-backend/services"
)

// CreateProduceRequest represents the request body for creating a produce listing
type CreateProduceRequest struct {
	Name        string           `json:"produce_name" binding:"required"`
	CategoryID  uint             `json:"category_id" binding:"required"`
	Slug        string           `json:"slug"`
	Stock       uint             `json:"stock"`
	Unit        string           `json:"measurement_unit"`
	PriceTag    *decimal.Decimal `json:"price_tag"`
	Description *string          `json:"product_description"`
}

// UpdateProduceRequest represents the request body for updating a produce listing
type UpdateProduceRequest struct {
	Name        *string          `json:"produce_name"`
	CategoryID  *uint            `json:"category_id"`
	Slug        *string          `json:"slug"`
	Stock       *uint            `json:"stock"`
	Unit        *string          `json:"measurement_unit"`
	PriceTag    *decimal.Decimal `json:"price_tag"`
	Description *string          `json:"product_description"`
}

// attachImageURL fills the computed image_url field from the stored S3 key.
func attachImageURL(produce *models.Produce) {
	if produce.ImageS3Key == nil || *produce.ImageS3Key == "" {
		return
	}
	imageService := services.GetImageService()
	if imageService == nil {
		return
	}
	url, err := imageService.GetImageURL(*produce.ImageS3Key)
	if err != nil {
		log.Printf("Failed to generate image URL for produce %d: %v", produce.ID, err)
		return
	}
	produce.ImageURL = &url
}

// ListProduce handles GET /api/v1/catalog/produce/ - lists all produce (authenticated)
func ListProduce(c *gin.Context) {
	actor := currentUser(c)
	if decision := services.Authorize(actor, services.ResourceProduce, services.ActionList, 0); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	db := config.GetDB()
	var produce []models.Produce
	if err := db.Preload("Category").Preload("Owner").Order("id asc").Find(&produce).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list produce",
			},
		})
		return
	}
	for i := range produce {
		attachImageURL(&produce[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    produce,
	})
}

// CreateProduce handles POST /api/v1/catalog/produce/ - creates a listing owned by the actor
func CreateProduce(c *gin.Context) {
	actor := currentUser(c)
	if decision := services.Authorize(actor, services.ResourceProduce, services.ActionCreate, 0); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	var req CreateProduceRequest
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
	var category models.Category
	if err := db.First(&category, req.CategoryID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "category_id does not reference an existing category",
			},
		})
		return
	}

	produce := models.Produce{
		Name:        req.Name,
		CategoryID:  category.ID,
		Slug:        req.Slug,
		Stock:       req.Stock,
		Unit:        req.Unit,
		OwnerID:     actor.ID,
		Description: req.Description,
	}
	if req.PriceTag != nil {
		produce.PriceTag = *req.PriceTag
	}

	if err := services.CreateProduce(db, &produce); err != nil {
		if errors.Is(err, services.ErrInvalidUnit) {
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
		if isDuplicateError(err) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DUPLICATE_SLUG",
					"message": "A produce listing with this slug already exists",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create produce",
			},
		})
		return
	}

	// Load relations to return complete data
	if err := db.Preload("Category").Preload("Owner").First(&produce, produce.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load produce details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    produce,
	})
}

// GetProduce handles GET /api/v1/catalog/produce/:id/ - retrieves a listing
func GetProduce(c *gin.Context) {
	actor := currentUser(c)
	if decision := services.Authorize(actor, services.ResourceProduce, services.ActionRetrieve, 0); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid produce id",
			},
		})
		return
	}

	db := config.GetDB()
	var produce models.Produce
	if err := db.Preload("Category").Preload("Owner").First(&produce, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Produce not found",
			},
		})
		return
	}
	attachImageURL(&produce)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    produce,
	})
}

// UpdateProduce handles PUT /api/v1/catalog/produce/:id/ - owner or admin
func UpdateProduce(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid produce id",
			},
		})
		return
	}

	db := config.GetDB()
	var produce models.Produce
	if err := db.First(&produce, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Produce not found",
			},
		})
		return
	}

	actor := currentUser(c)
	if decision := services.Authorize(actor, services.ResourceProduce, services.ActionUpdate, produce.OwnerID); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	var req UpdateProduceRequest
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

	if req.CategoryID != nil {
		var category models.Category
		if err := db.First(&category, *req.CategoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "category_id does not reference an existing category",
				},
			})
			return
		}
		produce.CategoryID = category.ID
	}
	if req.Name != nil {
		produce.Name = *req.Name
	}
	if req.Slug != nil {
		produce.Slug = *req.Slug
	}
	if req.Stock != nil {
		produce.Stock = *req.Stock
	}
	if req.Unit != nil {
		produce.Unit = *req.Unit
	}
	if req.PriceTag != nil {
		produce.PriceTag = *req.PriceTag
	}
	if req.Description != nil {
		produce.Description = req.Description
	}

	if err := services.SaveProduce(db, &produce); err != nil {
		if errors.Is(err, services.ErrInvalidUnit) {
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
		if isDuplicateError(err) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DUPLICATE_SLUG",
					"message": "A produce listing with this slug already exists",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update produce",
			},
		})
		return
	}

	if err := db.Preload("Category").Preload("Owner").First(&produce, produce.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load produce details",
			},
		})
		return
	}
	attachImageURL(&produce)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    produce,
	})
}

// DeleteProduce handles DELETE /api/v1/catalog/produce/:id/ - owner or staff
func DeleteProduce(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid produce id",
			},
		})
		return
	}

	db := config.GetDB()
	var produce models.Produce
	if err := db.First(&produce, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Produce not found",
			},
		})
		return
	}

	actor := currentUser(c)
	if decision := services.Authorize(actor, services.ResourceProduce, services.ActionDestroy, produce.OwnerID); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	if err := db.Delete(&produce).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete produce",
			},
		})
		return
	}

	// Best-effort cleanup of the stored image
	if produce.ImageS3Key != nil && *produce.ImageS3Key != "" {
		if imageService := services.GetImageService(); imageService != nil {
			if err := imageService.DeleteImage(*produce.ImageS3Key); err != nil {
				log.Printf("Failed to delete image for produce %d: %v", produce.ID, err)
			}
		}
	}

	c.Status(http.StatusNoContent)
}
