package api

import (
	"net/http"
	"strings"
	"time"

	"inventory-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RecipeHandler contains the recipe service's HTTP handlers. Error bodies
// use an "error" field, unlike the inventory service's "message".
type RecipeHandler struct {
	recipes *service.RecipeService
	auth    *service.AuthService
}

// NewRecipeHandler creates a new recipe HTTP handler
func NewRecipeHandler(recipes *service.RecipeService, auth *service.AuthService) *RecipeHandler {
	return &RecipeHandler{
		recipes: recipes,
		auth:    auth,
	}
}

// SetupRoutes sets up HTTP routes
func (h *RecipeHandler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/recipes", h.searchRecipes)
	router.POST("/recipes", h.createRecipe)
	router.GET("/recipes/:id", h.getRecipe)
	router.PUT("/recipes/:id", h.updateRecipe)
	router.DELETE("/recipes/:id", h.deleteRecipe)
	router.POST("/recipes/:id/reviews", h.addReview)

	router.POST("/users/signup", h.signup)
	router.POST("/users/login", h.login)
}

func (h *RecipeHandler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

func (h *RecipeHandler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// searchRecipes handles GET /recipes with optional tags, cuisine,
// ingredients and name filters. Tags and ingredients are comma-separated.
func (h *RecipeHandler) searchRecipes(c *gin.Context) {
	filter := service.RecipeFilter{
		Name:    c.Query("name"),
		Cuisine: c.Query("cuisine"),
	}
	if tags := c.Query("tags"); tags != "" {
		filter.Tags = strings.Split(tags, ",")
	}
	if ingredients := c.Query("ingredients"); ingredients != "" {
		filter.Ingredients = strings.Split(ingredients, ",")
	}

	recipes, err := h.recipes.Search(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "error", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// createRecipe handles POST /recipes
func (h *RecipeHandler) createRecipe(c *gin.Context) {
	var req service.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "error", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Recipe created successfully",
		"recipeId": recipe.ID,
	})
}

// getRecipe handles GET /recipes/:id
func (h *RecipeHandler) getRecipe(c *gin.Context) {
	recipe, err := h.recipes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "error", err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// updateRecipe handles PUT /recipes/:id
func (h *RecipeHandler) updateRecipe(c *gin.Context) {
	var req service.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	if err := h.recipes.Update(c.Request.Context(), c.Param("id"), &req); err != nil {
		respondError(c, "error", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe updated successfully"})
}

// deleteRecipe handles DELETE /recipes/:id
func (h *RecipeHandler) deleteRecipe(c *gin.Context) {
	if err := h.recipes.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, "error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully"})
}

type reviewRequest struct {
	User    string  `json:"user" binding:"required"`
	Rating  float64 `json:"rating" binding:"required"`
	Comment string  `json:"comment" binding:"required"`
}

// addReview handles POST /recipes/:id/reviews
func (h *RecipeHandler) addReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	review, err := h.recipes.AddReview(c.Request.Context(), c.Param("id"), req.User, req.Rating, req.Comment)
	if err != nil {
		respondError(c, "error", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Review added successfully",
		"reviewId": review.ID,
	})
}

// signup handles POST /users/signup for the recipe service's own accounts
func (h *RecipeHandler) signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing username or password"})
		return
	}

	if err := h.auth.Signup(c.Request.Context(), req.Username, req.Password); err != nil {
		respondError(c, "error", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created"})
}

// login handles POST /users/login
func (h *RecipeHandler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing username or password"})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
