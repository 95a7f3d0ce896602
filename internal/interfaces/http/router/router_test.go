package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func echo(body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, body)
	}
}

func TestRouter_MountsUnderVersionedPrefix(t *testing.T) {
	engine := gin.New()

	inventory := NewDomainGroup("inventory", "/inventory")
	inventory.GET("/materials", echo("materials"))

	NewRouter(engine).Register(inventory).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/inventory/materials")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "materials", w.Body.String())
}

func TestRouter_WithAPIVersion(t *testing.T) {
	engine := gin.New()

	system := NewDomainGroup("system", "/system")
	system.GET("/ping", echo("pong"))

	NewRouter(engine, WithAPIVersion("v2")).Register(system).Setup()

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v2/system/ping").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/system/ping").Code)
}

func TestRouter_RegisterChainsMultipleDomains(t *testing.T) {
	engine := gin.New()

	catalog := NewDomainGroup("catalog", "/catalog")
	catalog.GET("/products", echo("products"))
	sales := NewDomainGroup("sales", "/sales")
	sales.GET("/orders", echo("orders"))

	NewRouter(engine).Register(catalog).Register(sales).Setup()

	assert.Equal(t, "products", serve(engine, http.MethodGet, "/api/v1/catalog/products").Body.String())
	assert.Equal(t, "orders", serve(engine, http.MethodGet, "/api/v1/sales/orders").Body.String())
}

func TestDomainGroup_AllMethods(t *testing.T) {
	engine := gin.New()

	orders := NewDomainGroup("sales", "/sales")
	orders.GET("/orders", echo("list")).
		POST("/orders", echo("create")).
		PUT("/orders/:id", echo("replace")).
		PATCH("/orders/:id", echo("amend")).
		DELETE("/orders/:id", echo("remove"))

	NewRouter(engine).Register(orders).Setup()

	assert.Equal(t, "list", serve(engine, http.MethodGet, "/api/v1/sales/orders").Body.String())
	assert.Equal(t, "create", serve(engine, http.MethodPost, "/api/v1/sales/orders").Body.String())
	assert.Equal(t, "replace", serve(engine, http.MethodPut, "/api/v1/sales/orders/41").Body.String())
	assert.Equal(t, "amend", serve(engine, http.MethodPatch, "/api/v1/sales/orders/41").Body.String())
	assert.Equal(t, "remove", serve(engine, http.MethodDelete, "/api/v1/sales/orders/41").Body.String())
}

func TestDomainGroup_SubgroupNestsPrefix(t *testing.T) {
	engine := gin.New()

	production := NewDomainGroup("production", "/production")
	production.GET("/batches", echo("batches"))
	recipes := production.Group("recipes", "/recipes")
	recipes.GET("/:product_id/prefill", func(c *gin.Context) {
		c.String(http.StatusOK, "prefill "+c.Param("product_id"))
	})

	NewRouter(engine).Register(production).Setup()

	assert.Equal(t, "batches", serve(engine, http.MethodGet, "/api/v1/production/batches").Body.String())
	assert.Equal(t, "prefill towel-41", serve(engine, http.MethodGet, "/api/v1/production/recipes/towel-41/prefill").Body.String())
}

func TestDomainGroup_MiddlewareAppliesToRoutes(t *testing.T) {
	engine := gin.New()

	var order []string
	guarded := NewDomainGroup("procurement", "/procurement")
	guarded.Use(func(c *gin.Context) {
		order = append(order, "middleware")
		c.Next()
	})
	guarded.GET("/orders", func(c *gin.Context) {
		order = append(order, "handler")
		c.String(http.StatusOK, "ok")
	})

	NewRouter(engine).Register(guarded).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/procurement/orders")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"middleware", "handler"}, order)
}

func TestDomainGroup_MiddlewareCoversSubgroups(t *testing.T) {
	engine := gin.New()

	hits := 0
	production := NewDomainGroup("production", "/production")
	production.Use(func(c *gin.Context) {
		hits++
		c.Next()
	})
	recipes := production.Group("recipes", "/recipes")
	recipes.GET("/list", echo("recipes"))

	NewRouter(engine).Register(production).Setup()

	serve(engine, http.MethodGet, "/api/v1/production/recipes/list")
	assert.Equal(t, 1, hits)
}

func TestDomainGroup_Name(t *testing.T) {
	assert.Equal(t, "inventory", NewDomainGroup("inventory", "/inventory").Name())
}
