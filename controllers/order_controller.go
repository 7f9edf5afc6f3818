package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BuildForSDGCohort2/Team-096-backend/config"
	"github.com/BuildForSDGCohort2/Team-096-backend/models"
	"github.com/BuildForSDGCohort2/Team-096-backend/services"
)

// CreateOrderRequest represents the request body for creating an order.
// Item prices are derived server-side and never taken from the caller.
type CreateOrderRequest struct {
	Items []services.OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderRequest represents the request body for updating an order.
// A present items array replaces the order's line items wholesale.
type UpdateOrderRequest struct {
	Paid   *bool                      `json:"paid"`
	Status *string                    `json:"order_status"`
	Items  *[]services.OrderItemInput `json:"items" binding:"omitempty,dive"`
}

// ListOrders handles GET /api/v1/shop/order/ - a consumer sees their own
// orders, admins see all
func ListOrders(c *gin.Context) {
	actor := currentUser(c)
	if decision := services.Authorize(actor, services.ResourceOrder, services.ActionList, 0); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	db := config.GetDB()
	query := db.Preload("Consumer.Profile").Preload("Items.Produce").Order("id asc")
	if !actor.IsAdmin() {
		query = query.Where("consumer_id = ?", actor.ID)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list orders",
			},
		})
		return
	}
	for i := range orders {
		orders[i].ComputeTotalCost()
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// CreateOrder handles POST /api/v1/shop/order/ - creates an order for the
// actor with derived item prices
func CreateOrder(c *gin.Context) {
	actor := currentUser(c)
	if decision := services.Authorize(actor, services.ResourceOrder, services.ActionCreate, 0); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	var req CreateOrderRequest
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
	order, err := services.CreateOrder(db, actor.ID, req.Items)
	if err != nil {
		if errors.Is(err, services.ErrProduceNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "product_id does not reference an existing produce listing",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order",
			},
		})
		return
	}

	loaded, err := services.LoadOrder(db, order.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    loaded,
	})
}

// GetOrder handles GET /api/v1/shop/order/:id/ - owner or admin. Keyed by
// the numeric surrogate key; the body reports the order's UUID identifier.
func GetOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid order id",
			},
		})
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	actor := currentUser(c)
	if decision := services.Authorize(actor, services.ResourceOrder, services.ActionRetrieve, order.ConsumerID); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	loaded, err := services.LoadOrder(db, order.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order details",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    loaded,
	})
}

// UpdateOrder handles PUT /api/v1/shop/order/:id/ - owner or admin.
// Nested item replacement is transactional.
func UpdateOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid order id",
			},
		})
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	actor := currentUser(c)
	if decision := services.Authorize(actor, services.ResourceOrder, services.ActionUpdate, order.ConsumerID); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	var req UpdateOrderRequest
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

	err := services.UpdateOrder(db, &order, services.UpdateOrderInput{
		Paid:   req.Paid,
		Status: req.Status,
		Items:  req.Items,
	})
	if err != nil {
		if errors.Is(err, services.ErrProduceNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "product_id does not reference an existing produce listing",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order",
			},
		})
		return
	}

	loaded, err := services.LoadOrder(db, order.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order details",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    loaded,
	})
}

// DeleteOrder handles DELETE /api/v1/shop/order/:id/ - owner or admin.
// Line items are removed with the order.
func DeleteOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid order id",
			},
		})
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	actor := currentUser(c)
	if decision := services.Authorize(actor, services.ResourceOrder, services.ActionDestroy, order.ConsumerID); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete order",
			},
		})
		return
	}

	c.Status(http.StatusNoContent)
}
