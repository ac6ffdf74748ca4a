package orderControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/firo1919/e-commerce-sub000/models"
)

// -------- Handlers --------

// POST /users/orders
func PlaceOrderHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		receipt, err := svc.PlaceOrder(c.Request.Context(), userID)
		if err != nil {
			status, msg := placementErrorStatus(err)
			c.JSON(status, gin.H{"error": msg})
			return
		}
		c.JSON(http.StatusCreated, receipt)
	}
}

// POST /users/orders/:orderID/pay
func RetryPaymentHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		orderID, ok := parseOrderID(c)
		if !ok {
			return
		}

		receipt, err := svc.RetryPayment(c.Request.Context(), userID, orderID)
		if err != nil {
			status, msg := placementErrorStatus(err)
			c.JSON(status, gin.H{"error": msg})
			return
		}
		c.JSON(http.StatusOK, receipt)
	}
}

// placementErrorStatus maps placement/retry errors onto HTTP responses.
// Business errors the user can correct are 4xx; a gateway outage is the one
// 5xx-class business error.
func placementErrorStatus(err error) (int, string) {
	var limited *LimitedStockError
	switch {
	case errors.Is(err, models.ErrNoDefaultAddress),
		errors.Is(err, ErrEmptyCart):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &limited):
		return http.StatusBadRequest, limited.Error()
	case errors.Is(err, ErrOrderNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, ErrOrderFinalized),
		errors.Is(err, ErrPaymentInitialized):
		return http.StatusConflict, err.Error()
	case errors.Is(err, ErrGatewayInit):
		return http.StatusBadGateway, err.Error()
	default:
		return http.StatusInternalServerError, "failed to place order"
	}
}

func parseOrderID(c *gin.Context) (uint, bool) {
	var params struct {
		OrderID uint `uri:"orderID" binding:"required"`
	}
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid orderID"})
		return 0, false
	}
	return params.OrderID, true
}

// GET /users/orders
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /users/orders/:orderID, accepts a numeric id or a tx_ref.
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		id := c.Param("orderID")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}

		// A tx_ref is never numeric, so route the param to the matching
		// column instead of casting it against the integer id.
		query := db.Preload("Items").Where("user_id = ?", userID)
		if _, numErr := strconv.Atoi(id); numErr == nil {
			query = query.Where("id = ?", id)
		} else {
			query = query.Where("tx_ref = ?", id)
		}

		var order models.Order
		if err := query.First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /admin/orders
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}
