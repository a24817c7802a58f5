package handler

import (
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

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Price      float64 `json:"price"`
	Stock      int     `json:"stock"`
	SupplierID uint    `json:"supplier_id"`
}

// Validate checks the product request field constraints
func (r *ProductRequest) Validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", r.Name, v)
	validation.NonNegativeFloat("price", r.Price, v)
	validation.NonNegativeInt("stock", r.Stock, v)
	validation.RequiredID("supplier_id", r.SupplierID, v)
	return v
}

// ListProducts handles retrieving all products with optional filtering
func ListProducts(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Listing products with filters")
	prometheus.RecordProductOperation("list")

	db := database.GetDB()
	query := db.Model(&model.Product{})

	// Filter by category if specified
	category := c.QueryParam("category")
	if category != "" {
		query = query.Where("category = ?", category)
		log.Info("Filtering products by category", zap.String("category", category))
	}

	// Filter by supplier if specified
	supplierID := c.QueryParam("supplier_id")
	if supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
		log.Info("Filtering products by supplier", zap.String("supplier_id", supplierID))
	}

	page, limit := paginationParams(c)
	offset := (page - 1) * limit

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	var products []model.Product
	result := query.
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&products)
	if result.Error != nil {
		log.Error("Failed to list products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve products",
		})
	}

	var total int64
	query.Limit(-1).Offset(-1).Count(&total)

	log.Info("Products retrieved successfully",
		zap.Int("count", len(products)),
		zap.Int64("total", total))
	return c.JSON(http.StatusOK, echo.Map{
		"products":   products,
		"pagination": paginationMeta(page, limit, total),
	})
}

// GetProduct handles retrieving a single product by ID
func GetProduct(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordProductOperation("get")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid product ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid product ID",
		})
	}

	log.Info("Getting product by ID", zap.Uint64("product_id", id))

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	var product model.Product
	result := database.GetDB().First(&product, id)
	if result.Error != nil {
		log.Error("Product not found",
			zap.Uint64("product_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Product not found",
		})
	}

	log.Info("Product retrieved successfully",
		zap.Uint64("product_id", id),
		zap.String("product_name", product.Label()))
	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles creating a new product
func CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating new product")
	prometheus.RecordProductOperation("create")

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	if violations := req.Validate(); !violations.Empty() {
		log.Warn("Product validation failed", zap.Any("violations", violations))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "Validation failed",
			"fields": violations,
		})
	}

	log.Info("Product creation request",
		zap.String("name", req.Name),
		zap.Float64("price", req.Price),
		zap.Int("stock", req.Stock),
		zap.Uint("supplier_id", req.SupplierID))

	// The referenced supplier must exist
	var supplierCount int64
	database.GetDB().Model(&model.Supplier{}).
		Where("id = ?", req.SupplierID).
		Count(&supplierCount)
	if supplierCount == 0 {
		log.Warn("Referenced supplier does not exist",
			zap.Uint("supplier_id", req.SupplierID))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "Validation failed",
			"fields": validation.Violations{"supplier_id": "not_found"},
		})
	}

	product := model.Product{
		Name:       req.Name,
		Category:   req.Category,
		Price:      req.Price,
		Stock:      req.Stock,
		SupplierID: req.SupplierID,
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("insert")(time.Now())

	result := database.GetDB().Create(&product)
	if result.Error != nil {
		log.Error("Failed to create product",
			zap.String("name", req.Name),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create product",
		})
	}

	updateInventoryGauge(&product)

	log.Info("Product created successfully",
		zap.Uint("id", product.ID),
		zap.String("name", product.Name),
		zap.Int("stock", product.Stock))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles updating an existing product
func UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordProductOperation("update")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid product ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid product ID",
		})
	}

	log.Info("Updating product", zap.Uint64("product_id", id))

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data",
			zap.Uint64("product_id", id),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	if violations := req.Validate(); !violations.Empty() {
		log.Warn("Product validation failed",
			zap.Uint64("product_id", id),
			zap.Any("violations", violations))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "Validation failed",
			"fields": violations,
		})
	}

	// Find existing product
	var product model.Product
	result := database.GetDB().First(&product, id)
	if result.Error != nil {
		log.Error("Product not found for update",
			zap.Uint64("product_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Product not found",
		})
	}

	// The referenced supplier must exist
	var supplierCount int64
	database.GetDB().Model(&model.Supplier{}).
		Where("id = ?", req.SupplierID).
		Count(&supplierCount)
	if supplierCount == 0 {
		log.Warn("Referenced supplier does not exist",
			zap.Uint("supplier_id", req.SupplierID))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "Validation failed",
			"fields": validation.Violations{"supplier_id": "not_found"},
		})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("update")(time.Now())

	// Update product fields
	product.Name = req.Name
	product.Category = req.Category
	product.Price = req.Price
	product.Stock = req.Stock
	product.SupplierID = req.SupplierID

	result = database.GetDB().Save(&product)
	if result.Error != nil {
		log.Error("Failed to update product",
			zap.Uint64("product_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to update product",
		})
	}

	updateInventoryGauge(&product)

	log.Info("Product updated successfully",
		zap.Uint64("product_id", id),
		zap.String("name", product.Name),
		zap.Int("stock", product.Stock))
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct deletes a product together with its orders
func DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordProductOperation("delete")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid product ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid product ID",
		})
	}

	log.Info("Deleting product", zap.Uint64("product_id", id))

	// Get product details before deleting
	var product model.Product
	preResult := database.GetDB().First(&product, id)
	if preResult.Error != nil {
		log.Warn("Product not found",
			zap.Uint64("product_id", id),
			zap.Error(preResult.Error))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Product not found",
		})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("delete")(time.Now())

	// Cascade: the product's orders first, then the product
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).
			Delete(&model.Order{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		log.Error("Failed to delete product",
			zap.Uint64("product_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to delete product",
		})
	}

	log.Info("Product deleted successfully",
		zap.Uint64("product_id", id),
		zap.String("name", product.Name))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product deleted successfully",
	})
}

// updateInventoryGauge pushes the current stock level to the inventory metric
func updateInventoryGauge(product *model.Product) {
	prometheus.UpdateProductInventory(
		strconv.FormatUint(uint64(product.ID), 10),
		product.Name,
		product.Category,
		float64(product.Stock),
	)
}
