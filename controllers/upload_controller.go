package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BuildForSDGCohort2/Team-096-backend/config"
	"github.com/BuildForSDGCohort2/Team-096-backend/models"
	"github.com/BuildForSDGCohort2/Team-096-backend/services"
	"github.com/BuildForSDGCohort2/Team-096-backend/utils"
)

// UploadProduceImage handles POST /api/v1/catalog/produce/:id/image -
// attaches a PNG image to a produce listing (owner or admin). The previous
// image, if any, is removed from storage.
func UploadProduceImage(c *gin.Context) {
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

	// Attaching an image mutates the listing, so the update rule applies
	actor := currentUser(c)
	if decision := services.Authorize(actor, services.ResourceProduce, services.ActionUpdate, produce.OwnerID); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "An image file is required in the 'image' form field",
			},
		})
		return
	}

	imageService := services.GetImageService()
	if imageService == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_ERROR",
				"message": "Image storage is not configured",
			},
		})
		return
	}

	imageKey, err := imageService.UploadImage(fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_ERROR",
				"message": "Failed to upload image",
			},
		})
		return
	}

	oldKey := produce.ImageS3Key
	produce.ImageS3Key = &imageKey
	if err := services.SaveProduce(db, &produce); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save produce image",
			},
		})
		return
	}

	if oldKey != nil && *oldKey != "" && *oldKey != imageKey {
		// Ignore cleanup failures; the new key is already persisted
		_ = imageService.DeleteImage(*oldKey)
	}

	attachImageURL(&produce)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    produce,
	})
}
