package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/fish_backend/models"
	"github.com/mmdatafocus/fish_backend/store"
	"github.com/mmdatafocus/fish_backend/utils"
)

const (
	MsgOrderAdded   = "Order added successfully"
	MsgOrderUpdated = "Order status updated successfully"
)

func CreateOrderHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.NewOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order, err := s.CreateOrder(c.Request.Context(), req)
		if err != nil {
			if errors.Is(err, store.ErrInvalidOrder) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, models.MessageResponse{Message: MsgOrderAdded, Order: order})
	}
}

// ListOrdersHandler reads status, payment_mode and fish_name from the query.
func ListOrdersHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.SalesFilterFromQuery(c.Request.URL.Query())
		orders, err := s.ListOrders(c.Request.Context(), filter)
		if err != nil {
			c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if orders == nil {
			orders = []models.Order{}
		}
		c.JSON(http.StatusOK, orders)
	}
}

func TotalsHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.SalesFilterFromQuery(c.Request.URL.Query())
		totals, err := s.Totals(c.Request.Context(), filter)
		if err != nil {
			c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, totals.Response())
	}
}

func UpdateOrderStatusHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}
		var req models.UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": utils.ProcessValidationErrors(err)})
			return
		}
		if !req.Status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status " + strconv.Quote(string(req.Status))})
			return
		}
		if err := s.UpdateOrderStatus(c.Request.Context(), id, req.Status); err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse{Message: MsgOrderUpdated})
	}
}
