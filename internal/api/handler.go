package api

import (
	"net/http"
	"strconv"
	"time"

	"inventory-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains the inventory service's HTTP handlers
type Handler struct {
	orders  *service.OrderService
	catalog *service.CatalogService
	auth    *service.AuthService
}

// NewHandler creates a new HTTP handler
func NewHandler(orders *service.OrderService, catalog *service.CatalogService, auth *service.AuthService) *Handler {
	return &Handler{
		orders:  orders,
		catalog: catalog,
		auth:    auth,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/orders", h.submitOrder)
	router.GET("/orders", h.listOrders)
	router.GET("/orders/search", h.searchOrders)
	router.PUT("/orders/:invoiceNumber", h.reviseOrder)
	router.DELETE("/orders/:invoiceNumber", h.deleteOrder)

	router.POST("/products", h.createProduct)
	router.GET("/products", h.listProducts)
	router.GET("/products/search", h.searchProducts)
	router.PUT("/products/:id", h.updateProduct)
	router.DELETE("/products/:id", h.deleteProduct)

	router.POST("/users/signup", h.signup)
	router.POST("/users/login", h.login)
	router.GET("/users/dashboard", AuthRequired(h.auth), h.dashboard)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// orderEnvelope matches the wire shape {"order": {"items": [...]}}
type orderEnvelope struct {
	Order service.SubmitOrderRequest `json:"order"`
}

// submitOrder handles POST /orders
func (h *Handler) submitOrder(c *gin.Context) {
	var req orderEnvelope
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order items"})
		return
	}

	if req.Order.IdempotencyKey == "" {
		req.Order.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}

	order, err := h.orders.Submit(c.Request.Context(), &req.Order)
	if err != nil {
		respondError(c, "message", err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// listOrders handles GET /orders
func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context())
	if err != nil {
		respondError(c, "message", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// searchOrders handles GET /orders/search
func (h *Handler) searchOrders(c *gin.Context) {
	orders, err := h.orders.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, "message", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// reviseOrder handles PUT /orders/:invoiceNumber
func (h *Handler) reviseOrder(c *gin.Context) {
	var req orderEnvelope
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order items"})
		return
	}

	order, err := h.orders.Revise(c.Request.Context(), c.Param("invoiceNumber"), req.Order.Items)
	if err != nil {
		respondError(c, "message", err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// deleteOrder handles DELETE /orders/:invoiceNumber
func (h *Handler) deleteOrder(c *gin.Context) {
	if err := h.orders.Delete(c.Request.Context(), c.Param("invoiceNumber")); err != nil {
		respondError(c, "message", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// createProduct handles POST /products
func (h *Handler) createProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product"})
		return
	}

	product, err := h.catalog.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "message", err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// listProducts handles GET /products
func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.catalog.List(c.Request.Context())
	if err != nil {
		respondError(c, "message", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// searchProducts handles GET /products/search
func (h *Handler) searchProducts(c *gin.Context) {
	products, err := h.catalog.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, "message", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// updateProduct handles PUT /products/:id with a partial field merge
func (h *Handler) updateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product ID"})
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	matched, err := h.catalog.Update(c.Request.Context(), id, fields)
	if err != nil {
		respondError(c, "message", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"matchedCount": matched})
}

// deleteProduct handles DELETE /products/:id
func (h *Handler) deleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product ID"})
		return
	}

	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "message", err)
		return
	}
	c.Status(http.StatusNoContent)
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// signup handles POST /users/signup
func (h *Handler) signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing username or password"})
		return
	}

	if err := h.auth.Signup(c.Request.Context(), req.Username, req.Password); err != nil {
		respondError(c, "message", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created"})
}

// login handles POST /users/login
func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing username or password"})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// dashboard is the guarded legacy route; plain text, as upstream clients
// expect.
func (h *Handler) dashboard(c *gin.Context) {
	c.String(http.StatusOK, "Welcome to the dashboard!")
}
