package handler

import (
	"io"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"inventory-service/internal/model"
	"inventory-service/pkg/config"
	"inventory-service/pkg/database"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"

	"github.com/labstack/echo/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	// Keep test output quiet
	os.Setenv("LOG_LEVEL", "error")

	cfg, err := config.Load()
	if err != nil {
		panic("load config: " + err.Error())
	}
	logger.InitLogger(cfg)
	// Metrics must be registered before any handler runs
	prometheus.InitMetrics(cfg)

	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&model.Supplier{}, &model.Product{}, &model.Order{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.Set(db)
	return db
}

// invoke runs an echo handler against a synthetic request and returns the
// recorded response. params are path parameters such as "id".
func invoke(t *testing.T, h echo.HandlerFunc, method, target, body string, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	names := make([]string, 0, len(params))
	values := make([]string, 0, len(params))
	for k, v := range params {
		names = append(names, k)
		values = append(values, v)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)

	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func seedSupplier(t *testing.T, db *gorm.DB) model.Supplier {
	t.Helper()
	supplier := model.Supplier{
		Name:    "Acme",
		Email:   "a@x.com",
		Phone:   "+12345678901",
		Address: "1 Industrial Way",
	}
	if err := db.Create(&supplier).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	return supplier
}

func seedProduct(t *testing.T, db *gorm.DB, supplierID uint, stock int) model.Product {
	t.Helper()
	product := model.Product{
		Name:       "Widget",
		Category:   "Tools",
		Price:      9.99,
		Stock:      stock,
		SupplierID: supplierID,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}
