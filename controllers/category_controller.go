package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BuildForSDGCohort2/Team-096-backend/config"
	"github.com/BuildForSDGCohort2/Team-096-backend/models"
	"github.com/BuildForSDGCohort2/Team-096-backend/services"
)

// CategoryProduceRequest is a produce listing nested in a category create request
type CategoryProduceRequest struct {
	Name        string           `json:"produce_name" binding:"required"`
	Slug        string           `json:"slug"`
	Stock       uint             `json:"stock"`
	Unit        string           `json:"measurement_unit"`
	PriceTag    *decimal.Decimal `json:"price_tag"`
	Description *string          `json:"product_description"`
}

// CreateCategoryRequest represents the request body for creating a category,
// optionally together with an initial batch of produce owned by the caller
type CreateCategoryRequest struct {
	Name     string                   `json:"category_name" binding:"required"`
	Slug     string                   `json:"slug"`
	Products []CategoryProduceRequest `json:"products"`
}

// ListCategories handles GET /api/v1/catalog/produce-category/ - lists all categories
func ListCategories(c *gin.Context) {
	actor := currentUser(c)
	if decision := services.Authorize(actor, services.ResourceCategory, services.ActionList, 0); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	db := config.GetDB()
	var categories []models.Category
	if err := db.Preload("Products").Order("id asc").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list categories",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    categories,
	})
}

// CreateCategory handles POST /api/v1/catalog/produce-category/ - creates a
// category, with any nested produce persisted in the same transaction
func CreateCategory(c *gin.Context) {
	actor := currentUser(c)
	if decision := services.Authorize(actor, services.ResourceCategory, services.ActionCreate, 0); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	var req CreateCategoryRequest
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

	category := models.Category{
		Name: req.Name,
		Slug: req.Slug,
	}
	products := make([]models.Produce, 0, len(req.Products))
	for _, p := range req.Products {
		produce := models.Produce{
			Name:        p.Name,
			Slug:        p.Slug,
			Stock:       p.Stock,
			Unit:        p.Unit,
			Description: p.Description,
		}
		if p.PriceTag != nil {
			produce.PriceTag = *p.PriceTag
		}
		products = append(products, produce)
	}

	db := config.GetDB()
	if err := services.CreateCategoryWithProducts(db, &category, products, actor.ID); err != nil {
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
					"message": "A category with this slug already exists",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create category",
			},
		})
		return
	}

	if err := db.Preload("Products").First(&category, category.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load category details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    category,
	})
}

// GetCategory handles GET /api/v1/catalog/produce-category/:id/ - retrieves a
// category with its products
func GetCategory(c *gin.Context) {
	actor := currentUser(c)
	if decision := services.Authorize(actor, services.ResourceCategory, services.ActionRetrieve, 0); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid category id",
			},
		})
		return
	}

	db := config.GetDB()
	var category models.Category
	if err := db.Preload("Products.Owner").First(&category, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Category not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    category,
	})
}

// UpdateCategory handles PUT /api/v1/catalog/produce-category/:id/ - always rejected
func UpdateCategory(c *gin.Context) {
	decision := services.Authorize(currentUser(c), services.ResourceCategory, services.ActionUpdate, 0)
	respondDenied(c, decision)
}

// DeleteCategory handles DELETE /api/v1/catalog/produce-category/:id/ -
// superuser only. Dependent produce is repointed to the sentinel "General"
// category before the row is removed.
func DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid category id",
			},
		})
		return
	}

	actor := currentUser(c)
	if decision := services.Authorize(actor, services.ResourceCategory, services.ActionDestroy, 0); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	db := config.GetDB()
	var category models.Category
	if err := db.First(&category, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Category not found",
			},
		})
		return
	}

	if err := services.DeleteCategory(db, &category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete category",
			},
		})
		return
	}

	c.Status(http.StatusNoContent)
}
