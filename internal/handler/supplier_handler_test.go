package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"inventory-service/internal/model"
)

func TestSupplierCRUD(t *testing.T) {
	db := setupTestDB(t)

	// Create
	rec := invoke(t, CreateSupplier, http.MethodPost, "/api/suppliers",
		`{"name":"Acme","email":"a@x.com","phone":"+12345678901","address":"1 Industrial Way"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	var created model.Supplier
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected generated id")
	}

	// Retrieve
	rec = invoke(t, GetSupplier, http.MethodGet, "/api/suppliers/1", "", map[string]string{"id": "1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200 got %d", rec.Code)
	}
	var got model.Supplier
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "Acme" || got.Email != "a@x.com" {
		t.Fatalf("unexpected supplier: %+v", got)
	}

	// Update
	rec = invoke(t, UpdateSupplier, http.MethodPut, "/api/suppliers/1",
		`{"name":"Acme Corp","email":"a@x.com","phone":"+12345678901","address":"2 Industrial Way"}`,
		map[string]string{"id": "1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var updated model.Supplier
	db.First(&updated, created.ID)
	if updated.Name != "Acme Corp" || updated.Address != "2 Industrial Way" {
		t.Fatalf("update not persisted: %+v", updated)
	}

	// List
	rec = invoke(t, ListSuppliers, http.MethodGet, "/api/suppliers", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200 got %d", rec.Code)
	}
	var payload struct {
		Suppliers []model.Supplier `json:"suppliers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Suppliers) != 1 {
		t.Fatalf("expected 1 supplier got %d", len(payload.Suppliers))
	}
}

func TestCreateSupplierDuplicate(t *testing.T) {
	db := setupTestDB(t)
	seedSupplier(t, db)

	cases := []struct {
		name string
		body string
	}{
		{"email", `{"name":"Other","email":"a@x.com","phone":"+19998887766","address":""}`},
		{"name", `{"name":"Acme","email":"b@x.com","phone":"+19998887766","address":""}`},
		{"phone", `{"name":"Other","email":"b@x.com","phone":"+12345678901","address":""}`},
	}
	for _, tc := range cases {
		rec := invoke(t, CreateSupplier, http.MethodPost, "/api/suppliers", tc.body, nil)
		if rec.Code != http.StatusConflict {
			t.Fatalf("duplicate %s: expected 409 got %d: %s", tc.name, rec.Code, rec.Body.String())
		}
	}

	// Nothing beyond the seed row was written
	var count int64
	db.Model(&model.Supplier{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 supplier got %d", count)
	}
}

func TestCreateSupplierValidation(t *testing.T) {
	setupTestDB(t)

	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"missing name", `{"email":"a@x.com","phone":"+12345678901"}`, "name"},
		{"bad email", `{"name":"Acme","email":"not-an-email","phone":"+12345678901"}`, "email"},
		{"short phone", `{"name":"Acme","email":"a@x.com","phone":"+1234"}`, "phone"},
		{"letters in phone", `{"name":"Acme","email":"a@x.com","phone":"+12345abc901"}`, "phone"},
	}
	for _, tc := range cases {
		rec := invoke(t, CreateSupplier, http.MethodPost, "/api/suppliers", tc.body, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d: %s", tc.name, rec.Code, rec.Body.String())
		}
		var payload struct {
			Fields map[string]string `json:"fields"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("%s: decode: %v", tc.name, err)
		}
		if _, ok := payload.Fields[tc.field]; !ok {
			t.Fatalf("%s: expected violation on %q, got %v", tc.name, tc.field, payload.Fields)
		}
	}
}

func TestDeleteSupplierCascades(t *testing.T) {
	db := setupTestDB(t)
	supplier := seedSupplier(t, db)
	product := seedProduct(t, db, supplier.ID, 10)
	order := model.Order{ProductID: product.ID, Quantity: 2, TotalPrice: 19.98, Status: model.OrderStatusPending}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}

	rec := invoke(t, DeleteSupplier, http.MethodDelete, "/api/suppliers/1", "", map[string]string{"id": "1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	var suppliers, products, orders int64
	db.Model(&model.Supplier{}).Count(&suppliers)
	db.Model(&model.Product{}).Count(&products)
	db.Model(&model.Order{}).Count(&orders)
	if suppliers != 0 || products != 0 || orders != 0 {
		t.Fatalf("cascade incomplete: suppliers=%d products=%d orders=%d", suppliers, products, orders)
	}
}

func TestGetSupplierNotFound(t *testing.T) {
	setupTestDB(t)

	rec := invoke(t, GetSupplier, http.MethodGet, "/api/suppliers/99", "", map[string]string{"id": "99"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
