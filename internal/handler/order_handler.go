package handler

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"inventory-service/internal/model"
	"inventory-service/internal/validation"
	"inventory-service/pkg/database"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// errInsufficientStock signals that the conditional stock decrement matched
// no row, i.e. the requested quantity exceeded the available stock.
var errInsufficientStock = errors.New("insufficient stock")

// OrderRequest defines the structure for order creation requests. TotalPrice,
// Status and Date are server-controlled and deliberately absent.
type OrderRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// Validate checks the order request field constraints
func (r *OrderRequest) Validate() validation.Violations {
	v := validation.Violations{}
	validation.RequiredID("product_id", r.ProductID, v)
	validation.PositiveInt("quantity", r.Quantity, v)
	return v
}

// OrderUpdateRequest defines the structure for order update requests. Only
// the status is settable after creation.
type OrderUpdateRequest struct {
	Status string `json:"status"`
}

// Validate checks the order update request field constraints
func (r *OrderUpdateRequest) Validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("status", r.Status, v)
	validation.OneOf("status", r.Status, model.OrderStatuses, v)
	return v
}

// roundCents rounds a computed amount to two fractional digits
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// CreateOrder creates a new order and decrements the product stock. The
// stock check and the decrement are a single conditional UPDATE so two
// concurrent orders can never drive stock below zero.
func CreateOrder(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating new order")
	prometheus.RecordOrderOperation("create")

	var req OrderRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	if violations := req.Validate(); !violations.Empty() {
		log.Warn("Order validation failed", zap.Any("violations", violations))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "Validation failed",
			"fields": violations,
		})
	}

	log.Info("Order creation request",
		zap.Uint("product_id", req.ProductID),
		zap.Int("quantity", req.Quantity))

	// The referenced product must exist; its price fixes the total
	var product model.Product
	result := database.GetDB().First(&product, req.ProductID)
	if result.Error != nil {
		log.Warn("Referenced product does not exist",
			zap.Uint("product_id", req.ProductID),
			zap.Error(result.Error))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "Validation failed",
			"fields": validation.Violations{"product_id": "not_found"},
		})
	}

	order := model.Order{
		ProductID:  product.ID,
		Quantity:   req.Quantity,
		TotalPrice: roundCents(product.Price * float64(req.Quantity)),
		Status:     model.OrderStatusPending,
		Date:       time.Now(),
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("insert")(time.Now())

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		// Decrement only if enough stock remains; zero rows affected
		// means the order must be rejected with nothing written
		res := tx.Model(&model.Product{}).
			Where("id = ? AND stock >= ?", product.ID, req.Quantity).
			Update("stock", gorm.Expr("stock - ?", req.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errInsufficientStock
		}
		return tx.Create(&order).Error
	})
	if errors.Is(err, errInsufficientStock) {
		// Re-read the stock for the rejection message
		database.GetDB().First(&product, product.ID)
		prometheus.RecordInsufficientStock(strconv.FormatUint(uint64(product.ID), 10))
		log.Warn("Order rejected for insufficient stock",
			zap.Uint("product_id", product.ID),
			zap.String("product_name", product.Name),
			zap.Int("stock", product.Stock),
			zap.Int("quantity", req.Quantity))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": fmt.Sprintf("Insufficient stock for product %q: %d available, %d requested",
				product.Name, product.Stock, req.Quantity),
		})
	}
	if err != nil {
		log.Error("Failed to create order",
			zap.Uint("product_id", product.ID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create order",
		})
	}

	product.Stock -= req.Quantity
	updateInventoryGauge(&product)

	log.Info("Order created successfully",
		zap.Uint("id", order.ID),
		zap.String("order", order.Label(product.Name)),
		zap.Float64("total_price", order.TotalPrice),
		zap.Int("remaining_stock", product.Stock))
	return c.JSON(http.StatusCreated, order)
}

// GetOrder retrieves an order by ID
func GetOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrderOperation("get")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid order ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid order ID",
		})
	}

	log.Info("Getting order by ID", zap.Uint64("order_id", id))

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	var order model.Order
	result := database.GetDB().First(&order, id)
	if result.Error != nil {
		log.Error("Order not found",
			zap.Uint64("order_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Order not found",
		})
	}

	log.Info("Order retrieved successfully",
		zap.Uint64("order_id", id),
		zap.String("status", order.Status))
	return c.JSON(http.StatusOK, order)
}

// ListOrders retrieves all orders with optional filtering
func ListOrders(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Listing orders with filters")
	prometheus.RecordOrderOperation("list")

	db := database.GetDB()
	query := db.Model(&model.Order{})

	// Filter by status if specified
	status := c.QueryParam("status")
	if status != "" {
		query = query.Where("status = ?", status)
		log.Info("Filtering orders by status", zap.String("status", status))
	}

	// Filter by product if specified
	productID := c.QueryParam("product_id")
	if productID != "" {
		query = query.Where("product_id = ?", productID)
		log.Info("Filtering orders by product", zap.String("product_id", productID))
	}

	page, limit := paginationParams(c)
	offset := (page - 1) * limit

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	var orders []model.Order
	result := query.
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&orders)
	if result.Error != nil {
		log.Error("Failed to list orders", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve orders",
		})
	}

	var total int64
	query.Limit(-1).Offset(-1).Count(&total)

	log.Info("Orders retrieved successfully",
		zap.Int("count", len(orders)),
		zap.Int64("total", total))
	return c.JSON(http.StatusOK, echo.Map{
		"orders":     orders,
		"pagination": paginationMeta(page, limit, total),
	})
}

// UpdateOrder updates the status of an existing order. Quantity, total price
// and date are fixed at creation time. Any of the four statuses is accepted
// in any sequence; the source system never enforced a transition order.
func UpdateOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrderOperation("update")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid order ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid order ID",
		})
	}

	log.Info("Updating order", zap.Uint64("order_id", id))

	var req OrderUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data",
			zap.Uint64("order_id", id),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	if violations := req.Validate(); !violations.Empty() {
		log.Warn("Order validation failed",
			zap.Uint64("order_id", id),
			zap.Any("violations", violations))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "Validation failed",
			"fields": violations,
		})
	}

	// Find existing order
	var order model.Order
	result := database.GetDB().First(&order, id)
	if result.Error != nil {
		log.Error("Order not found for update",
			zap.Uint64("order_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Order not found",
		})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("update")(time.Now())

	oldStatus := order.Status
	order.Status = req.Status

	result = database.GetDB().Save(&order)
	if result.Error != nil {
		log.Error("Failed to update order",
			zap.Uint64("order_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to update order",
		})
	}

	log.Info("Order updated successfully",
		zap.Uint64("order_id", id),
		zap.String("old_status", oldStatus),
		zap.String("new_status", order.Status))
	return c.JSON(http.StatusOK, order)
}

// DeleteOrder deletes an order. Stock is not restored on deletion.
func DeleteOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrderOperation("delete")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid order ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid order ID",
		})
	}

	log.Info("Deleting order", zap.Uint64("order_id", id))

	// Get order details before deleting
	var order model.Order
	preResult := database.GetDB().First(&order, id)
	if preResult.Error != nil {
		log.Warn("Order not found",
			zap.Uint64("order_id", id),
			zap.Error(preResult.Error))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Order not found",
		})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("delete")(time.Now())

	result := database.GetDB().Delete(&order)
	if result.Error != nil {
		log.Error("Failed to delete order",
			zap.Uint64("order_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to delete order",
		})
	}

	log.Info("Order deleted successfully", zap.Uint64("order_id", id))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Order deleted successfully",
	})
}
