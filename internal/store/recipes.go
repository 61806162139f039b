package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"inventory-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// RecipeStore backs the recipe service. It connects to its own database;
// the recipe deployment shares nothing with the inventory one.
type RecipeStore struct {
	db *sqlx.DB
}

// NewRecipeStore creates a store for the recipe database
func NewRecipeStore(databaseURL string) (*RecipeStore, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to recipe database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping recipe database: %w", err)
	}

	return &RecipeStore{db: db}, nil
}

// Close closes the database connection
func (s *RecipeStore) Close() error {
	return s.db.Close()
}

// GetCuisineByName resolves a cuisine by exact name
func (s *RecipeStore) GetCuisineByName(ctx context.Context, name string) (*models.Cuisine, error) {
	var cuisine models.Cuisine
	err := s.db.GetContext(ctx, &cuisine, "SELECT * FROM cuisines WHERE name = $1", name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("cuisine %s: %w", name, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &cuisine, nil
}

// GetTagsByNames resolves tags by exact name. Unresolved names are simply
// absent from the result; the caller compares lengths.
func (s *RecipeStore) GetTagsByNames(ctx context.Context, names []string) ([]models.Tag, error) {
	if len(names) == 0 {
		return []models.Tag{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM tags WHERE name IN (?)", names)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	tags := []models.Tag{}
	err = s.db.SelectContext(ctx, &tags, query, args...)
	return tags, err
}

// InsertRecipe persists a new recipe document
func (s *RecipeStore) InsertRecipe(ctx context.Context, recipe *models.Recipe) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recipes (id, name, cuisine, prep_time, cook_time, servings, ingredients, instructions, tags, reviews)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		recipe.ID, recipe.Name, recipe.Cuisine, recipe.PrepTime, recipe.CookTime,
		recipe.Servings, recipe.Ingredients, recipe.Instructions, recipe.Tags, recipe.Reviews)
	return err
}

// GetRecipeByID retrieves a full recipe document
func (s *RecipeStore) GetRecipeByID(ctx context.Context, id string) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.GetContext(ctx, &recipe, "SELECT * FROM recipes WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("recipe %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// UpdateRecipe replaces the editable fields of a recipe. The embedded
// cuisine and tag snapshots are written exactly as given, without
// re-resolution. Returns the number of matched rows.
func (s *RecipeStore) UpdateRecipe(ctx context.Context, recipe *models.Recipe) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE recipes
		SET name = $1, cuisine = $2, prep_time = $3, cook_time = $4, servings = $5,
		    ingredients = $6, instructions = $7, tags = $8
		WHERE id = $9`,
		recipe.Name, recipe.Cuisine, recipe.PrepTime, recipe.CookTime, recipe.Servings,
		recipe.Ingredients, recipe.Instructions, recipe.Tags, recipe.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteRecipe removes a recipe. Returns the number of deleted rows.
func (s *RecipeStore) DeleteRecipe(ctx context.Context, id string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM recipes WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SearchRecipes retrieves recipes filtered by name and cuisine-name
// substring. Tag and ingredient filters are applied by the service on the
// returned rows.
func (s *RecipeStore) SearchRecipes(ctx context.Context, name, cuisine string) ([]models.Recipe, error) {
	query := "SELECT * FROM recipes WHERE 1=1"
	args := []interface{}{}

	if name != "" {
		args = append(args, name)
		query += fmt.Sprintf(" AND name ILIKE '%%' || $%d || '%%'", len(args))
	}
	if cuisine != "" {
		args = append(args, cuisine)
		query += fmt.Sprintf(" AND cuisine ->> 'name' ILIKE '%%' || $%d || '%%'", len(args))
	}

	recipes := []models.Recipe{}
	err := s.db.SelectContext(ctx, &recipes, query, args...)
	return recipes, err
}

// AppendReview appends a review to a recipe's review list. Returns the
// number of matched rows, 0 when the recipe does not exist.
func (s *RecipeStore) AppendReview(ctx context.Context, recipeID string, review models.Review) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE recipes
		SET reviews = COALESCE(reviews, '[]'::jsonb) || $1::jsonb
		WHERE id = $2`,
		models.Reviews{review}, recipeID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// InsertUser backs the recipe service's own signup against its database.
func (s *RecipeStore) InsertUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := s.db.GetContext(ctx, user, query, user.Username, user.PasswordHash)
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("username %s: %w", user.Username, models.ErrConflict)
	}
	return err
}

func (s *RecipeStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE username = $1", username)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", username, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
