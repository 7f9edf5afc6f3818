package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/BuildForSDGCohort2/Team-096-backend/config"
	"github.com/BuildForSDGCohort2/Team-096-backend/models"
	"github.com/BuildForSDGCohort2/Team-096-backend/services"
)

func createTestCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := models.Category{Name: name}
	if err := services.CreateCategory(db, &category); err != nil {
		t.Fatalf("Failed to create test category %s: %v", name, err)
	}
	return &category
}

func createTestProduce(t *testing.T, db *gorm.DB, name string, categoryID, ownerID uint, price string) *models.Produce {
	t.Helper()
	produce := models.Produce{
		Name:       name,
		CategoryID: categoryID,
		OwnerID:    ownerID,
		Stock:      100,
		PriceTag:   decimal.RequireFromString(price),
	}
	if err := services.CreateProduce(db, &produce); err != nil {
		t.Fatalf("Failed to create test produce %s: %v", name, err)
	}
	return &produce
}

func TestCreateProduce(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	farmer := createTestUser(t, db, "farmer@example.com", false, false)
	category := createTestCategory(t, db, "Grains")

	router := setupTestRouter()
	router.POST("/catalog/produce/", mockAuthMiddleware(farmer.ID), CreateProduce)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/catalog/produce/", map[string]interface{}{
		"produce_name":        "Yellow Maize",
		"category_id":         category.ID,
		"stock":               50,
		"measurement_unit":    "tonnes",
		"price_tag":           "150.00",
		"product_description": "Freshly harvested",
	}))

	assert.Equal(t, http.StatusCreated, w.Code, "Response body: %s", w.Body.String())

	response := decodeResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Yellow Maize", data["produce_name"])
	assert.Equal(t, "tonnes", data["measurement_unit"])
	assert.Contains(t, data["slug"], "pro", "Slug must carry the produce marker")
	assert.Equal(t, float64(farmer.ID), data["owner_id"], "Owner is always the authenticated actor")
}

func TestCreateProduce_Failures(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	farmer := createTestUser(t, db, "farmer@example.com", false, false)
	category := createTestCategory(t, db, "Grains")

	tests := []struct {
		name           string
		authenticated  bool
		payload        map[string]interface{}
		expectedStatus int
		expectedCode   string
	}{
		{
			name:          "unknown category",
			authenticated: true,
			payload: map[string]interface{}{
				"produce_name": "Maize",
				"category_id":  9999,
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:          "invalid measurement unit",
			authenticated: true,
			payload: map[string]interface{}{
				"produce_name":     "Maize",
				"category_id":      category.ID,
				"measurement_unit": "kg",
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:          "missing name",
			authenticated: true,
			payload: map[string]interface{}{
				"category_id": category.ID,
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:          "anonymous",
			authenticated: false,
			payload: map[string]interface{}{
				"produce_name": "Maize",
				"category_id":  category.ID,
			},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			if tt.authenticated {
				router.POST("/catalog/produce/", mockAuthMiddleware(farmer.ID), CreateProduce)
			} else {
				router.POST("/catalog/produce/", CreateProduce)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, jsonRequest(http.MethodPost, "/catalog/produce/", tt.payload))

			assert.Equal(t, tt.expectedStatus, w.Code, "Response body: %s", w.Body.String())
			assert.Equal(t, tt.expectedCode, errorCode(t, decodeResponse(t, w)))
		})
	}
}

func TestCreateProduce_DuplicateSlug(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	farmer := createTestUser(t, db, "farmer@example.com", false, false)
	category := createTestCategory(t, db, "Grains")

	router := setupTestRouter()
	router.POST("/catalog/produce/", mockAuthMiddleware(farmer.ID), CreateProduce)

	payload := map[string]interface{}{
		"produce_name": "Maize",
		"category_id":  category.ID,
		"slug":         "maize-pro-fixed",
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/catalog/produce/", payload))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/catalog/produce/", payload))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_SLUG", errorCode(t, decodeResponse(t, w)))
}

func TestListProduce(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	farmer := createTestUser(t, db, "farmer@example.com", false, false)
	category := createTestCategory(t, db, "Grains")
	createTestProduce(t, db, "Maize", category.ID, farmer.ID, "150.00")
	createTestProduce(t, db, "Beans", category.ID, farmer.ID, "320.50")

	router := setupTestRouter()
	router.GET("/catalog/produce/", mockAuthMiddleware(farmer.ID), ListProduce)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/produce/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse(t, w)
	assert.Len(t, response["data"].([]interface{}), 2)
}

func TestGetProduce(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	farmer := createTestUser(t, db, "farmer@example.com", false, false)
	viewer := createTestUser(t, db, "viewer@example.com", false, false)
	category := createTestCategory(t, db, "Grains")
	produce := createTestProduce(t, db, "Maize", category.ID, farmer.ID, "150.00")

	router := setupTestRouter()
	router.GET("/catalog/produce/:id/", mockAuthMiddleware(viewer.ID), GetProduce)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/catalog/produce/%d/", produce.ID), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Maize", data["produce_name"])
	assert.NotNil(t, data["produce_category"], "Category relation is embedded in the response")
}

func TestUpdateProduce_Ownership(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	owner := createTestUser(t, db, "owner@example.com", false, false)
	other := createTestUser(t, db, "other@example.com", false, false)
	staff := createTestUser(t, db, "staff@example.com", true, false)
	admin := createTestUser(t, db, "admin@example.com", false, true)
	category := createTestCategory(t, db, "Grains")

	tests := []struct {
		name           string
		actorID        uint
		expectedStatus int
	}{
		{name: "owner can update", actorID: owner.ID, expectedStatus: http.StatusOK},
		{name: "other user forbidden", actorID: other.ID, expectedStatus: http.StatusForbidden},
		{name: "staff forbidden", actorID: staff.ID, expectedStatus: http.StatusForbidden},
		{name: "admin can update", actorID: admin.ID, expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			produce := createTestProduce(t, db, "Maize "+tt.name, category.ID, owner.ID, "150.00")

			router := setupTestRouter()
			router.PUT("/catalog/produce/:id/", mockAuthMiddleware(tt.actorID), UpdateProduce)

			w := httptest.NewRecorder()
			target := fmt.Sprintf("/catalog/produce/%d/", produce.ID)
			router.ServeHTTP(w, jsonRequest(http.MethodPut, target, map[string]interface{}{
				"stock": 10,
			}))

			assert.Equal(t, tt.expectedStatus, w.Code, "Response body: %s", w.Body.String())
		})
	}
}

func TestDeleteProduce_Ownership(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	owner := createTestUser(t, db, "owner@example.com", false, false)
	other := createTestUser(t, db, "other@example.com", false, false)
	staff := createTestUser(t, db, "staff@example.com", true, false)
	category := createTestCategory(t, db, "Grains")

	tests := []struct {
		name           string
		actorID        uint
		expectedStatus int
	}{
		{name: "other user forbidden", actorID: other.ID, expectedStatus: http.StatusForbidden},
		{name: "owner can delete", actorID: owner.ID, expectedStatus: http.StatusNoContent},
		{name: "staff can delete", actorID: staff.ID, expectedStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			produce := createTestProduce(t, db, "Maize "+tt.name, category.ID, owner.ID, "150.00")

			router := setupTestRouter()
			router.DELETE("/catalog/produce/:id/", mockAuthMiddleware(tt.actorID), DeleteProduce)

			w := httptest.NewRecorder()
			target := fmt.Sprintf("/catalog/produce/%d/", produce.ID)
			router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, target, nil))

			assert.Equal(t, tt.expectedStatus, w.Code, "Response body: %s", w.Body.String())

			var count int64
			db.Model(&models.Produce{}).Where("id = ?", produce.ID).Count(&count)
			if tt.expectedStatus == http.StatusNoContent {
				assert.Equal(t, int64(0), count)
			} else {
				assert.Equal(t, int64(1), count)
			}
		})
	}
}

func TestGetProduce_NotFound(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	viewer := createTestUser(t, db, "viewer@example.com", false, false)

	router := setupTestRouter()
	router.GET("/catalog/produce/:id/", mockAuthMiddleware(viewer.ID), GetProduce)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/produce/9999/", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, decodeResponse(t, w)))
}
