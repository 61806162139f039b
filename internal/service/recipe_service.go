package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inventory-service/internal/models"
	"inventory-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecipeRepository persists recipe documents and the cuisine/tag lookup
// tables they resolve against.
type RecipeRepository interface {
	GetCuisineByName(ctx context.Context, name string) (*models.Cuisine, error)
	GetTagsByNames(ctx context.Context, names []string) ([]models.Tag, error)
	InsertRecipe(ctx context.Context, recipe *models.Recipe) error
	GetRecipeByID(ctx context.Context, id string) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, recipe *models.Recipe) (int64, error)
	DeleteRecipe(ctx context.Context, id string) (int64, error)
	SearchRecipes(ctx context.Context, name, cuisine string) ([]models.Recipe, error)
	AppendReview(ctx context.Context, recipeID string, review models.Review) (int64, error)
}

// RecipeService handles recipe CRUD, search and review appends.
type RecipeService struct {
	repo   RecipeRepository
	logger *zap.Logger
}

// NewRecipeService creates a new recipe service
func NewRecipeService(repo RecipeRepository) *RecipeService {
	return &RecipeService{
		repo:   repo,
		logger: util.GetLogger(),
	}
}

// CreateRecipeRequest is the body of POST /recipes. Cuisine and tags are
// names, resolved against the lookup tables at create time.
type CreateRecipeRequest struct {
	Name         string             `json:"name"`
	Cuisine      string             `json:"cuisine"`
	PrepTime     int                `json:"prepTime"`
	CookTime     int                `json:"cookTime"`
	Servings     int                `json:"servings"`
	Ingredients  models.Ingredients `json:"ingredients"`
	Instructions []string           `json:"instructions"`
	Tags         []string           `json:"tags"`
}

// Create validates the request, resolves cuisine and tag names to existing
// documents, and persists the recipe with id+name snapshots embedded.
// Nothing is persisted when any name fails to resolve.
func (s *RecipeService) Create(ctx context.Context, req *CreateRecipeRequest) (*models.Recipe, error) {
	ctx, span := util.StartSpan(ctx, "RecipeService.Create")
	defer span.End()

	if req.Name == "" || req.Cuisine == "" || len(req.Ingredients) == 0 ||
		len(req.Instructions) == 0 || len(req.Tags) == 0 {
		return nil, fmt.Errorf("missing required fields: %w", models.ErrInvalidInput)
	}

	cuisine, err := s.repo.GetCuisineByName(ctx, req.Cuisine)
	if err != nil {
		return nil, fmt.Errorf("invalid cuisine %q: %w", req.Cuisine, models.ErrInvalidInput)
	}

	tags, err := s.repo.GetTagsByNames(ctx, req.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tags: %w", err)
	}
	if len(tags) != len(req.Tags) {
		return nil, fmt.Errorf("one or more invalid tags: %w", models.ErrInvalidInput)
	}

	tagRefs := make(models.TagRefs, 0, len(tags))
	for _, tag := range tags {
		tagRefs = append(tagRefs, models.TagRef{ID: tag.ID, Name: tag.Name})
	}

	recipe := &models.Recipe{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Cuisine:      models.CuisineRef{ID: cuisine.ID, Name: cuisine.Name},
		PrepTime:     req.PrepTime,
		CookTime:     req.CookTime,
		Servings:     req.Servings,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		Tags:         tagRefs,
		Reviews:      models.Reviews{},
	}

	if err := s.repo.InsertRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to insert recipe: %w", err)
	}

	util.RecipesCreatedTotal.Inc()
	s.logger.Info("Recipe created",
		zap.String("recipe_id", recipe.ID),
		zap.String("name", recipe.Name))
	return recipe, nil
}

// Get retrieves the full recipe document.
func (s *RecipeService) Get(ctx context.Context, id string) (*models.Recipe, error) {
	return s.repo.GetRecipeByID(ctx, id)
}

// UpdateRecipeRequest is the body of PUT /recipes/:id. The embedded cuisine
// and tag snapshots are taken as given; update performs no re-resolution.
type UpdateRecipeRequest struct {
	Name         string             `json:"name"`
	Cuisine      models.CuisineRef  `json:"cuisine"`
	PrepTime     int                `json:"prepTime"`
	CookTime     int                `json:"cookTime"`
	Servings     int                `json:"servings"`
	Ingredients  models.Ingredients `json:"ingredients"`
	Instructions []string           `json:"instructions"`
	Tags         models.TagRefs     `json:"tags"`
}

// Update replaces the editable fields of a recipe wholesale.
func (s *RecipeService) Update(ctx context.Context, id string, req *UpdateRecipeRequest) error {
	if req.Name == "" || req.Cuisine.Name == "" || len(req.Ingredients) == 0 ||
		len(req.Instructions) == 0 || len(req.Tags) == 0 {
		return fmt.Errorf("missing required fields: %w", models.ErrInvalidInput)
	}

	recipe := &models.Recipe{
		ID:           id,
		Name:         req.Name,
		Cuisine:      req.Cuisine,
		PrepTime:     req.PrepTime,
		CookTime:     req.CookTime,
		Servings:     req.Servings,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		Tags:         req.Tags,
	}

	matched, err := s.repo.UpdateRecipe(ctx, recipe)
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	if matched == 0 {
		return fmt.Errorf("recipe %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// Delete removes a recipe.
func (s *RecipeService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteRecipe(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("recipe %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// RecipeFilter holds the search query parameters.
type RecipeFilter struct {
	Name        string
	Cuisine     string
	Tags        []string
	Ingredients []string
}

// Search returns name/cuisine/tag projections of the recipes matching the
// filter. Name and cuisine substrings push down to the store; tag
// membership and ingredient all-match run here over the fetched rows.
func (s *RecipeService) Search(ctx context.Context, filter RecipeFilter) ([]models.RecipeSummary, error) {
	recipes, err := s.repo.SearchRecipes(ctx, filter.Name, filter.Cuisine)
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}

	summaries := []models.RecipeSummary{}
	for _, recipe := range recipes {
		if len(filter.Tags) > 0 && !hasAnyTag(recipe.Tags, filter.Tags) {
			continue
		}
		if len(filter.Ingredients) > 0 && !hasAllIngredients(recipe.Ingredients, filter.Ingredients) {
			continue
		}

		tagNames := make([]string, 0, len(recipe.Tags))
		for _, tag := range recipe.Tags {
			tagNames = append(tagNames, tag.Name)
		}
		summaries = append(summaries, models.RecipeSummary{
			Name:    recipe.Name,
			Cuisine: recipe.Cuisine.Name,
			Tags:    tagNames,
		})
	}
	return summaries, nil
}

// AddReview appends a generated review record to a recipe.
func (s *RecipeService) AddReview(ctx context.Context, recipeID, user string, rating float64, comment string) (*models.Review, error) {
	if user == "" || comment == "" {
		return nil, fmt.Errorf("missing required fields: %w", models.ErrInvalidInput)
	}

	review := models.Review{
		ID:      uuid.New().String(),
		User:    user,
		Rating:  rating,
		Comment: comment,
		Date:    time.Now(),
	}

	matched, err := s.repo.AppendReview(ctx, recipeID, review)
	if err != nil {
		return nil, fmt.Errorf("failed to append review: %w", err)
	}
	if matched == 0 {
		return nil, fmt.Errorf("recipe %s: %w", recipeID, models.ErrNotFound)
	}

	util.ReviewsAddedTotal.Inc()
	s.logger.Info("Review added",
		zap.String("recipe_id", recipeID),
		zap.String("user", user))
	return &review, nil
}

func hasAnyTag(tags models.TagRefs, wanted []string) bool {
	for _, tag := range tags {
		for _, name := range wanted {
			if tag.Name == name {
				return true
			}
		}
	}
	return false
}

func hasAllIngredients(ingredients models.Ingredients, wanted []string) bool {
	for _, name := range wanted {
		found := false
		for _, ing := range ingredients {
			if strings.Contains(strings.ToLower(ing.Name), strings.ToLower(name)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
