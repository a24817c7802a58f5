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

// SupplierRequest defines the structure for supplier creation/update requests
type SupplierRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Validate checks the supplier request field constraints
func (r *SupplierRequest) Validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", r.Name, v)
	validation.Required("email", r.Email, v)
	validation.Email("email", r.Email, v)
	validation.Required("phone", r.Phone, v)
	validation.Phone("phone", r.Phone, v)
	return v
}

// checkSupplierConflict reports the first unique field already taken by
// another supplier. excludeID skips the supplier being updated.
func checkSupplierConflict(req *SupplierRequest, excludeID uint) string {
	db := database.GetDB()
	checks := []struct {
		field string
		value string
	}{
		{"name", req.Name},
		{"email", req.Email},
		{"phone", req.Phone},
	}
	for _, check := range checks {
		var count int64
		query := db.Model(&model.Supplier{}).Where(check.field+" = ?", check.value)
		if excludeID != 0 {
			query = query.Where("id != ?", excludeID)
		}
		query.Count(&count)
		if count > 0 {
			return check.field
		}
	}
	return ""
}

// CreateSupplier creates a new supplier
func CreateSupplier(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating new supplier")
	prometheus.RecordSupplierOperation("create")

	var req SupplierRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	if violations := req.Validate(); !violations.Empty() {
		log.Warn("Supplier validation failed", zap.Any("violations", violations))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "Validation failed",
			"fields": violations,
		})
	}

	// Check uniqueness of name, email and phone before writing
	if field := checkSupplierConflict(&req, 0); field != "" {
		log.Warn("Supplier with this value already exists",
			zap.String("field", field))
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "Supplier with this " + field + " already exists",
		})
	}

	supplier := model.Supplier{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("insert")(time.Now())

	result := database.GetDB().Create(&supplier)
	if result.Error != nil {
		log.Error("Failed to create supplier",
			zap.String("name", req.Name),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create supplier",
		})
	}

	log.Info("Supplier created successfully",
		zap.Uint("id", supplier.ID),
		zap.String("name", supplier.Name))
	return c.JSON(http.StatusCreated, supplier)
}

// GetSupplier retrieves a supplier by ID
func GetSupplier(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordSupplierOperation("get")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid supplier ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid supplier ID",
		})
	}

	log.Info("Getting supplier by ID", zap.Uint64("supplier_id", id))

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	var supplier model.Supplier
	result := database.GetDB().First(&supplier, id)
	if result.Error != nil {
		log.Error("Supplier not found",
			zap.Uint64("supplier_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Supplier not found",
		})
	}

	log.Info("Supplier retrieved successfully",
		zap.Uint64("supplier_id", id),
		zap.String("supplier_name", supplier.Label()))
	return c.JSON(http.StatusOK, supplier)
}

// ListSuppliers retrieves all suppliers
func ListSuppliers(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Listing suppliers")
	prometheus.RecordSupplierOperation("list")

	// Parse query parameters for pagination
	page, limit := paginationParams(c)
	offset := (page - 1) * limit

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	var suppliers []model.Supplier
	result := database.GetDB().
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&suppliers)

	if result.Error != nil {
		log.Error("Failed to retrieve suppliers", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve suppliers",
		})
	}

	// Count total suppliers for pagination info
	var total int64
	database.GetDB().Model(&model.Supplier{}).Count(&total)

	log.Info("Suppliers retrieved successfully",
		zap.Int("count", len(suppliers)),
		zap.Int64("total", total))

	return c.JSON(http.StatusOK, echo.Map{
		"suppliers":  suppliers,
		"pagination": paginationMeta(page, limit, total),
	})
}

// UpdateSupplier updates an existing supplier
func UpdateSupplier(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordSupplierOperation("update")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid supplier ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid supplier ID",
		})
	}

	log.Info("Updating supplier", zap.Uint64("supplier_id", id))

	var req SupplierRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data",
			zap.Uint64("supplier_id", id),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	if violations := req.Validate(); !violations.Empty() {
		log.Warn("Supplier validation failed",
			zap.Uint64("supplier_id", id),
			zap.Any("violations", violations))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "Validation failed",
			"fields": violations,
		})
	}

	// Find existing supplier
	var supplier model.Supplier
	result := database.GetDB().First(&supplier, id)
	if result.Error != nil {
		log.Error("Supplier not found for update",
			zap.Uint64("supplier_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Supplier not found",
		})
	}

	// Check uniqueness against every other supplier
	if field := checkSupplierConflict(&req, supplier.ID); field != "" {
		log.Warn("Supplier with this value already exists",
			zap.Uint64("supplier_id", id),
			zap.String("field", field))
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "Supplier with this " + field + " already exists",
		})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("update")(time.Now())

	// Update supplier fields
	supplier.Name = req.Name
	supplier.Email = req.Email
	supplier.Phone = req.Phone
	supplier.Address = req.Address

	result = database.GetDB().Save(&supplier)
	if result.Error != nil {
		log.Error("Failed to update supplier",
			zap.Uint64("supplier_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to update supplier",
		})
	}

	log.Info("Supplier updated successfully",
		zap.Uint64("supplier_id", id),
		zap.String("name", supplier.Name))
	return c.JSON(http.StatusOK, supplier)
}

// DeleteSupplier deletes a supplier together with its products and their
// orders. The cascade is explicit so no dependent rows are ever orphaned.
func DeleteSupplier(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordSupplierOperation("delete")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid supplier ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid supplier ID",
		})
	}

	log.Info("Deleting supplier", zap.Uint64("supplier_id", id))

	// Get supplier details before deleting
	var supplier model.Supplier
	preResult := database.GetDB().First(&supplier, id)
	if preResult.Error != nil {
		log.Warn("Supplier not found",
			zap.Uint64("supplier_id", id),
			zap.Error(preResult.Error))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Supplier not found",
		})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("delete")(time.Now())

	// Cascade: orders of the supplier's products, then the products, then
	// the supplier itself, all in one transaction
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		var productIDs []uint
		if err := tx.Model(&model.Product{}).
			Where("supplier_id = ?", supplier.ID).
			Pluck("id", &productIDs).Error; err != nil {
			return err
		}

		if len(productIDs) > 0 {
			if err := tx.Where("product_id IN ?", productIDs).
				Delete(&model.Order{}).Error; err != nil {
				return err
			}
			if err := tx.Where("supplier_id = ?", supplier.ID).
				Delete(&model.Product{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&supplier).Error
	})
	if err != nil {
		log.Error("Failed to delete supplier",
			zap.Uint64("supplier_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to delete supplier",
		})
	}

	log.Info("Supplier deleted successfully",
		zap.Uint64("supplier_id", id),
		zap.String("name", supplier.Name))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Supplier deleted successfully",
	})
}
