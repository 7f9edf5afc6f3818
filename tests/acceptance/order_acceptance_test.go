package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/BuildForSDGCohort2/Team-096-backend/config"
	"github.com/BuildForSDGCohort2/Team-096-backend/controllers"
	"github.com/BuildForSDGCohort2/Team-096-backend/middleware"
	"github.com/BuildForSDGCohort2/Team-096-backend/tests/testutil"
)

// OrderAcceptanceTestSuite drives the marketplace through the public API the
// way a client application would.
type OrderAcceptanceTestSuite struct {
	suite.Suite
	server *httptest.Server
	cfg    *config.Config
}

// SetupSuite runs once before all tests
func (suite *OrderAcceptanceTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	os.Setenv("GO_ENV", "test")

	suite.cfg = testutil.TestJWTConfig()
	config.SetConfig(suite.cfg)

	suite.server = httptest.NewServer(suite.createRouter())
}

// TearDownSuite runs once after all tests
func (suite *OrderAcceptanceTestSuite) TearDownSuite() {
	suite.server.Close()
}

// SetupTest runs before each test
func (suite *OrderAcceptanceTestSuite) SetupTest() {
	config.SetDB(testutil.OpenTestDatabase(suite.T()))
}

// createRouter wires the marketplace routes the way the application does
func (suite *OrderAcceptanceTestSuite) createRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	authRequired := middleware.EnsureValidToken(suite.cfg)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/users/", controllers.RegisterUser)
		v1.POST("/auth/login", controllers.Login)

		catalog := v1.Group("/catalog", authRequired)
		{
			catalog.GET("/produce/", controllers.ListProduce)
			catalog.POST("/produce/", controllers.CreateProduce)
			catalog.GET("/produce/:id/", controllers.GetProduce)
			catalog.PUT("/produce/:id/", controllers.UpdateProduce)
			catalog.DELETE("/produce/:id/", controllers.DeleteProduce)

			catalog.GET("/produce-category/", controllers.ListCategories)
			catalog.POST("/produce-category/", controllers.CreateCategory)
			catalog.GET("/produce-category/:id/", controllers.GetCategory)
			catalog.PUT("/produce-category/:id/", controllers.UpdateCategory)
			catalog.DELETE("/produce-category/:id/", controllers.DeleteCategory)
		}

		shop := v1.Group("/shop", authRequired)
		{
			shop.GET("/order/", controllers.ListOrders)
			shop.POST("/order/", controllers.CreateOrder)
			shop.GET("/order/:id/", controllers.GetOrder)
			shop.PUT("/order/:id/", controllers.UpdateOrder)
			shop.DELETE("/order/:id/", controllers.DeleteOrder)
		}
	}

	return router
}

// request performs a JSON request against the live test server
func (suite *OrderAcceptanceTestSuite) request(method, path, token string, payload interface{}) (*http.Response, map[string]interface{}) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		suite.NoError(err)
		body = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, suite.server.URL+path, body)
	suite.NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := (&http.Client{}).Do(req)
	suite.NoError(err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	suite.NoError(err)

	var parsed map[string]interface{}
	if len(raw) > 0 {
		suite.NoError(json.Unmarshal(raw, &parsed), "Body: %s", string(raw))
	}
	return resp, parsed
}

// signUp registers an account and returns its bearer token
func (suite *OrderAcceptanceTestSuite) signUp(email string) string {
	resp, _ := suite.request("POST", "/api/v1/users/", "", map[string]interface{}{
		"email":    email,
		"password": "s3cretpass",
	})
	suite.Equal(http.StatusCreated, resp.StatusCode)

	resp, body := suite.request("POST", "/api/v1/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": "s3cretpass",
	})
	suite.Equal(http.StatusOK, resp.StatusCode)

	return body["data"].(map[string]interface{})["access_token"].(string)
}

// TestOrderLifecycle walks an order from catalog setup to deletion
func (suite *OrderAcceptanceTestSuite) TestOrderLifecycle() {
	farmer := suite.signUp("farmer@example.com")
	consumer := suite.signUp("consumer@example.com")

	// Farmer sets up the catalog
	resp, body := suite.request("POST", "/api/v1/catalog/produce-category/", farmer, map[string]interface{}{
		"category_name": "Grains",
	})
	assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)
	categoryID := body["data"].(map[string]interface{})["id"].(float64)

	resp, body = suite.request("POST", "/api/v1/catalog/produce/", farmer, map[string]interface{}{
		"produce_name":     "Yellow Maize",
		"category_id":      categoryID,
		"stock":            100,
		"measurement_unit": "bags",
		"price_tag":        "150.00",
	})
	assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)
	produceID := body["data"].(map[string]interface{})["id"].(float64)

	// Consumer places an order
	resp, body = suite.request("POST", "/api/v1/shop/order/", consumer, map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": produceID, "quantity_ordered": 4},
		},
	})
	assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)

	order := body["data"].(map[string]interface{})
	orderID := order["id"].(float64)
	assert.Equal(suite.T(), "pending", order["order_status"])
	assert.Equal(suite.T(), "600", order["total_cost"])

	// Consumer marks the order paid
	resp, body = suite.request("PUT", fmt.Sprintf("/api/v1/shop/order/%.0f/", orderID), consumer, map[string]interface{}{
		"paid": true,
	})
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	assert.Equal(suite.T(), true, body["data"].(map[string]interface{})["paid"])

	// Consumer removes the order
	resp, _ = suite.request("DELETE", fmt.Sprintf("/api/v1/shop/order/%.0f/", orderID), consumer, nil)
	assert.Equal(suite.T(), http.StatusNoContent, resp.StatusCode)

	resp, _ = suite.request("GET", fmt.Sprintf("/api/v1/shop/order/%.0f/", orderID), consumer, nil)
	assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)
}

// TestOrderPrivacy verifies consumers cannot see or change each other's orders
func (suite *OrderAcceptanceTestSuite) TestOrderPrivacy() {
	farmer := suite.signUp("farmer@example.com")
	consumer1 := suite.signUp("consumer1@example.com")
	consumer2 := suite.signUp("consumer2@example.com")

	resp, body := suite.request("POST", "/api/v1/catalog/produce-category/", farmer, map[string]interface{}{
		"category_name": "Fruits",
	})
	assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)
	categoryID := body["data"].(map[string]interface{})["id"].(float64)

	resp, body = suite.request("POST", "/api/v1/catalog/produce/", farmer, map[string]interface{}{
		"produce_name": "Mango",
		"category_id":  categoryID,
		"price_tag":    "80.00",
	})
	assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)
	produceID := body["data"].(map[string]interface{})["id"].(float64)

	resp, body = suite.request("POST", "/api/v1/shop/order/", consumer1, map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": produceID, "quantity_ordered": 2},
		},
	})
	assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)
	orderID := body["data"].(map[string]interface{})["id"].(float64)

	// Consumer2's order list does not include consumer1's order
	resp, body = suite.request("GET", "/api/v1/shop/order/", consumer2, nil)
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	assert.Len(suite.T(), body["data"].([]interface{}), 0)

	// Nor can consumer2 read it directly by id
	resp, body = suite.request("GET", fmt.Sprintf("/api/v1/shop/order/%.0f/", orderID), consumer2, nil)
	assert.Equal(suite.T(), http.StatusForbidden, resp.StatusCode)
	assert.Nil(suite.T(), body["data"], "A denied read must not leak the order")

	// Consumer2 cannot modify or delete it
	resp, _ = suite.request("PUT", fmt.Sprintf("/api/v1/shop/order/%.0f/", orderID), consumer2, map[string]interface{}{
		"paid": true,
	})
	assert.Equal(suite.T(), http.StatusForbidden, resp.StatusCode)

	resp, _ = suite.request("DELETE", fmt.Sprintf("/api/v1/shop/order/%.0f/", orderID), consumer2, nil)
	assert.Equal(suite.T(), http.StatusForbidden, resp.StatusCode)
}

// TestDerivedPricing verifies submitted prices never override the catalog
func (suite *OrderAcceptanceTestSuite) TestDerivedPricing() {
	farmer := suite.signUp("farmer@example.com")
	consumer := suite.signUp("consumer@example.com")

	resp, body := suite.request("POST", "/api/v1/catalog/produce-category/", farmer, map[string]interface{}{
		"category_name": "Grains",
	})
	assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)
	categoryID := body["data"].(map[string]interface{})["id"].(float64)

	resp, body = suite.request("POST", "/api/v1/catalog/produce/", farmer, map[string]interface{}{
		"produce_name": "Soya Beans",
		"category_id":  categoryID,
		"price_tag":    "320.50",
	})
	assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)
	produceID := body["data"].(map[string]interface{})["id"].(float64)

	// The caller tries to pay one cent per line item
	resp, body = suite.request("POST", "/api/v1/shop/order/", consumer, map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": produceID, "quantity_ordered": 3, "price": "0.01"},
		},
	})
	assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)

	order := body["data"].(map[string]interface{})
	assert.Equal(suite.T(), "961.5", order["total_cost"], "Price must come from the catalog, not the request")

	items := order["items"].([]interface{})
	assert.Equal(suite.T(), "961.5", items[0].(map[string]interface{})["price"])
}

// TestOrderAcceptanceTestSuite runs the acceptance test suite
func TestOrderAcceptanceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderAcceptanceTestSuite))
}
